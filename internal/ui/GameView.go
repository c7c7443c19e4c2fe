package ui

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/Mshel/geocache/internal/game"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
)

// --- Internal Game States for GameViewModel ---

type GameState int

const (
	StatePlaying GameState = iota
	StateWon
	StateLeaderboard
)

const (
	mapViewPercentage = 0.70
	cellWidth         = 3
	leaderboardSize   = 10
)

var (
	voidColor    = "233"
	inRangeColor = "236"
	playerColor  = "205"
	cursorColor  = "87"

	mapViewStyle = lipgloss.NewStyle().
			Border(lipgloss.DoubleBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(0, 0)

	statusPanelStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(lipgloss.Color("8")).
				Padding(1, 2)

	cellStyle = lipgloss.NewStyle().
			Width(cellWidth).
			Align(lipgloss.Center).
			Background(lipgloss.Color(voidColor))

	sectionStyle = lipgloss.NewStyle().Bold(true)
	winTextStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("220"))

	tokenColors = map[int]string{1: "78", 2: "220", 4: "214", 8: "208", 16: "196"}

	errLeaderboardDisabled = errors.New("no database configured")
)

type keyMap struct {
	North, South, East, West                      key.Binding
	CursorUp, CursorDown, CursorLeft, CursorRight key.Binding
	Interact                                      key.Binding
	PanNorth, PanSouth, PanEast, PanWest          key.Binding
	Recenter, Prompt, Leaderboard, Quit           key.Binding
}

var keys = keyMap{
	North: key.NewBinding(key.WithKeys("up", "w"), key.WithHelp("↑/w", "north")),
	South: key.NewBinding(key.WithKeys("down", "s"), key.WithHelp("↓/s", "south")),
	East:  key.NewBinding(key.WithKeys("right", "d"), key.WithHelp("→/d", "east")),
	West:  key.NewBinding(key.WithKeys("left", "a"), key.WithHelp("←/a", "west")),

	CursorUp:    key.NewBinding(key.WithKeys("i"), key.WithHelp("i/j/k/l", "select cell")),
	CursorDown:  key.NewBinding(key.WithKeys("k")),
	CursorLeft:  key.NewBinding(key.WithKeys("j")),
	CursorRight: key.NewBinding(key.WithKeys("l")),
	Interact:    key.NewBinding(key.WithKeys("enter", " ", "space"), key.WithHelp("space/click", "take, craft or drop")),

	PanNorth: key.NewBinding(key.WithKeys("shift+up"), key.WithHelp("shift+arrows", "pan map")),
	PanSouth: key.NewBinding(key.WithKeys("shift+down")),
	PanEast:  key.NewBinding(key.WithKeys("shift+right")),
	PanWest:  key.NewBinding(key.WithKeys("shift+left")),

	Recenter:    key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "recenter")),
	Prompt:      key.NewBinding(key.WithKeys(":"), key.WithHelp(":", "type a command")),
	Leaderboard: key.NewBinding(key.WithKeys("b"), key.WithHelp("b", "leaderboard")),
	Quit:        key.NewBinding(key.WithKeys("q"), key.WithHelp("q", "quit")),
}

func (k keyMap) help() []key.Binding {
	return []key.Binding{k.North, k.South, k.East, k.West, k.CursorUp, k.Interact, k.PanNorth, k.Recenter, k.Prompt, k.Leaderboard, k.Quit}
}

// GeoFixMsg carries a position read from the GPS feed.
type GeoFixMsg struct {
	Position game.GeoPosition
	At       time.Time
}

type GeoErrorMsg struct {
	Err error
}

// QuitGameMsg is a custom message sent to the Controller to switch back to the IntroScreen
// when the user exits the Leaderboard view before starting a game.
type QuitGameMsg struct{}

// --- GameViewModel Definition ---

type GameViewModel struct {
	gameManager *game.GameManager
	session     *game.GameSession // nil if viewing leaderboard from IntroScreen
	geoFeed     *game.GeoFeed
	geoTracker  *game.GeoTracker

	cursor    game.Coord // selected cell, relative to the player
	prompt    textinput.Model
	prompting bool
	message   string

	gameState GameState
	winState  WinState
	scores    []game.Score
	scoresErr error

	ScreenWidth  int
	ScreenHeight int
}

func NewGameModel(gm *game.GameManager, session *game.GameSession, geoFeed *game.GeoFeed, screenWidth int, screenHeight int) GameViewModel {
	prompt := textinput.New()
	prompt.Prompt = ": "
	prompt.Placeholder = "north, take, pan east..."
	prompt.CharLimit = 32

	m := GameViewModel{
		gameManager:  gm,
		session:      session,
		geoFeed:      geoFeed,
		prompt:       prompt,
		gameState:    StatePlaying,
		ScreenWidth:  screenWidth,
		ScreenHeight: screenHeight,
		winState: WinState{
			ScreenWidth:  screenWidth,
			ScreenHeight: screenHeight,
		},
	}
	if session != nil && geoFeed != nil {
		m.geoTracker = game.NewGeoTracker(session.Tuning.TileDegrees, session.Tuning.GeoThrottle())
	}
	m.resizeSession()
	return m
}

// --- Init/Update/View Methods ---

func (m GameViewModel) Init() tea.Cmd {
	if m.geoTracker == nil {
		return nil
	}
	return m.waitForFix()
}

func (m GameViewModel) waitForFix() tea.Cmd {
	feed := m.geoFeed
	return func() tea.Msg {
		pos, err := feed.Next()
		if err != nil {
			return GeoErrorMsg{Err: err}
		}
		return GeoFixMsg{Position: pos, At: time.Now()}
	}
}

func (m GameViewModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.ScreenWidth = msg.Width
		m.ScreenHeight = msg.Height
		m.winState.ScreenWidth = msg.Width
		m.winState.ScreenHeight = msg.Height
		m.resizeSession()
		return m, nil

	case ShowLeaderboardMsg:
		m = m.loadLeaderboard()
		m.gameState = StateLeaderboard
		return m, nil

	case GeoFixMsg:
		if step, ok := m.geoTracker.Observe(msg.Position, msg.At); ok {
			m.session.Apply(step)
		}
		return m, m.waitForFix()

	case GeoErrorMsg:
		game.LogGeoError(msg.Err)
		m.message = "GPS: " + msg.Err.Error()
		if errors.Is(msg.Err, game.ErrGeoUnavailable) || errors.Is(msg.Err, game.ErrGeoPermissionDenied) {
			return m, nil
		}
		return m, m.waitForFix()

	case tea.MouseMsg:
		if m.session == nil || m.gameState != StatePlaying || m.prompting {
			return m, nil
		}
		if msg.Action != tea.MouseActionPress || msg.Button != tea.MouseButtonLeft {
			return m, nil
		}
		if c, ok := m.cellAtScreen(msg.X, msg.Y); ok {
			m.cursor = game.Coord{X: c.X - m.session.Player.Location.X, Y: c.Y - m.session.Player.Location.Y}
			m = m.interact(c)
		}
		return m, nil

	case tea.KeyMsg:
		switch {
		case m.gameState == StateWon:
			return m.updateWinMenu(msg)
		case m.gameState == StateLeaderboard:
			return m.updateLeaderboard(msg)
		case m.session == nil:
			return m, nil
		case m.prompting:
			return m.updatePrompt(msg)
		}
		return m.updatePlaying(msg)
	}

	return m, nil
}

func (m GameViewModel) updatePlaying(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	reach := int(math.Ceil(m.session.Tuning.InteractionRadius))

	switch {
	case key.Matches(msg, keys.North):
		m.session.Apply(game.North)
	case key.Matches(msg, keys.South):
		m.session.Apply(game.South)
	case key.Matches(msg, keys.East):
		m.session.Apply(game.East)
	case key.Matches(msg, keys.West):
		m.session.Apply(game.West)

	case key.Matches(msg, keys.CursorUp):
		m.cursor.Y = min(reach, m.cursor.Y+1)
	case key.Matches(msg, keys.CursorDown):
		m.cursor.Y = max(-reach, m.cursor.Y-1)
	case key.Matches(msg, keys.CursorLeft):
		m.cursor.X = max(-reach, m.cursor.X-1)
	case key.Matches(msg, keys.CursorRight):
		m.cursor.X = min(reach, m.cursor.X+1)
	case key.Matches(msg, keys.Interact):
		m = m.interact(m.selectedCell())

	case key.Matches(msg, keys.PanNorth):
		m.session.Apply(game.PanCommand(game.North))
	case key.Matches(msg, keys.PanSouth):
		m.session.Apply(game.PanCommand(game.South))
	case key.Matches(msg, keys.PanEast):
		m.session.Apply(game.PanCommand(game.East))
	case key.Matches(msg, keys.PanWest):
		m.session.Apply(game.PanCommand(game.West))
	case key.Matches(msg, keys.Recenter):
		m.session.Apply(game.RecenterCommand{})

	case key.Matches(msg, keys.Prompt):
		m.prompting = true
		m.prompt.SetValue("")
		return m, m.prompt.Focus()
	case key.Matches(msg, keys.Leaderboard):
		m = m.loadLeaderboard()
		m.gameState = StateLeaderboard
	case key.Matches(msg, keys.Quit):
		return m, func() tea.Msg { return ExitMsg{} }
	}

	return m, nil
}

func (m GameViewModel) updatePrompt(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.prompting = false
		m.prompt.Blur()
		return m, nil
	case "enter":
		m.prompting = false
		m.prompt.Blur()
		event, err := game.ParseCommand(m.prompt.Value(), m.selectedCell())
		if err != nil {
			m.message = err.Error()
			return m, nil
		}
		return m.applyEvent(event), nil
	}

	var cmd tea.Cmd
	m.prompt, cmd = m.prompt.Update(msg)
	return m, cmd
}

func (m GameViewModel) updateWinMenu(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "left", "h":
		m.winState.SelectedButton = max(0, m.winState.SelectedButton-1)
	case "right", "l":
		m.winState.SelectedButton = min(winButtonCount-1, m.winState.SelectedButton+1)
	case "esc":
		m.gameState = StatePlaying
	case "enter":
		switch m.winState.SelectedButton {
		case winButtonMap:
			m.gameState = StatePlaying
		case winButtonLeaderboard:
			m = m.loadLeaderboard()
			m.gameState = StateLeaderboard
		case winButtonExit:
			return m, func() tea.Msg { return ExitMsg{} }
		}
	}
	return m, nil
}

func (m GameViewModel) updateLeaderboard(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "enter", "q":
		if m.session == nil {
			return m, func() tea.Msg { return QuitGameMsg{} }
		}
		if m.session.Won {
			m.gameState = StateWon
		} else {
			m.gameState = StatePlaying
		}
	}
	return m, nil
}

func (m GameViewModel) applyEvent(event game.InputEvent) GameViewModel {
	if interact, ok := event.(game.InteractCommand); ok {
		return m.interact(interact.Target)
	}
	m.session.Apply(event)
	return m
}

func (m GameViewModel) interact(c game.Coord) GameViewModel {
	result := m.session.Interact(c)
	m.message = describeResult(result, m.session.Player.DistanceTo(c))

	if result.Won && result.Outcome != game.OutcomeFinished {
		m.gameState = StateWon
		m.winState.FinalValue = result.Inventory
		m.winState.Moves = m.session.Player.Moves
		m.winState.SelectedButton = winButtonMap
	}
	return m
}

func describeResult(result game.InteractionResult, distance float64) string {
	switch result.Outcome {
	case game.OutcomePickup:
		return fmt.Sprintf("Picked up a %d token.", result.Inventory)
	case game.OutcomeCraft:
		return fmt.Sprintf("Crafted a %d token at (%s).", result.CellValue, result.Cell.Key())
	case game.OutcomeDrop:
		return fmt.Sprintf("Dropped a %d token at (%s).", result.CellValue, result.Cell.Key())
	case game.OutcomeOutOfRange:
		return fmt.Sprintf("Too far away (%.1f cells).", distance)
	case game.OutcomeFinished:
		return "You already won!"
	default:
		return "Nothing to do here."
	}
}

func (m GameViewModel) loadLeaderboard() GameViewModel {
	if m.gameManager == nil || m.gameManager.HighScores == nil {
		m.scores, m.scoresErr = nil, errLeaderboardDisabled
		return m
	}
	m.scores, m.scoresErr = m.gameManager.HighScores.GetHighScores(leaderboardSize, 0)
	if m.scoresErr != nil {
		log.Error("Could not load leaderboard", "error", m.scoresErr)
	}
	return m
}

func (m GameViewModel) selectedCell() game.Coord {
	return m.session.Player.Location.Add(m.cursor.X, m.cursor.Y)
}

// mapInnerSize is the map area inside its border, in terminal cells.
func (m GameViewModel) mapInnerSize() (int, int) {
	width := int(float64(m.ScreenWidth)*mapViewPercentage) - 2
	height := m.ScreenHeight - 2
	return max(cellWidth, width), max(1, height)
}

func (m GameViewModel) resizeSession() {
	if m.session == nil || m.ScreenWidth <= 0 || m.ScreenHeight <= 0 {
		return
	}
	width, height := m.mapInnerSize()
	columns := width / cellWidth
	m.session.Resize((columns-1)/2, (height-1)/2)
}

// cellAtScreen maps a terminal position inside the map box to a grid cell.
func (m GameViewModel) cellAtScreen(x, y int) (game.Coord, bool) {
	bounds := m.session.Spawner.Bounds()
	col := (x - 1) / cellWidth
	row := y - 1
	if x < 1 || y < 1 || col >= bounds.Width() || row >= bounds.Height() {
		return game.Coord{}, false
	}
	return game.Coord{X: bounds.West + col, Y: bounds.North - row}, true
}

func (m GameViewModel) View() string {
	switch m.gameState {
	case StateWon:
		return m.winState.RenderWinScreen()
	case StateLeaderboard:
		return m.winState.RenderLeaderboardScreen(m.scores, m.scoresErr)
	}

	if m.session == nil {
		return lipgloss.Place(m.ScreenWidth, m.ScreenHeight, lipgloss.Center, lipgloss.Center, "Waiting for game session...")
	}

	mapWidth, mapHeight := m.mapInnerSize()
	statusWidth := max(10, m.ScreenWidth-mapWidth-4)

	return lipgloss.JoinHorizontal(lipgloss.Top,
		mapViewStyle.Width(mapWidth).Height(mapHeight).Render(m.renderMap()),
		statusPanelStyle.Width(statusWidth).Height(mapHeight).Render(m.renderStatusPanel()),
	)
}

// renderMap draws on-screen cells north row first.
func (m GameViewModel) renderMap() string {
	var sb strings.Builder
	bounds := m.session.Spawner.Bounds()
	selected := m.selectedCell()

	for y := bounds.North; y >= bounds.South; y-- {
		for x := bounds.West; x <= bounds.East; x++ {
			cell, ok := m.session.Spawner.CellAt(game.Coord{X: x, Y: y})
			if !ok {
				sb.WriteString(cellStyle.Render(""))
				continue
			}
			sb.WriteString(m.renderCell(cell, selected))
		}
		if y > bounds.South {
			sb.WriteString("\n")
		}
	}
	return sb.String()
}

func (m GameViewModel) renderCell(cell *game.Cell, selected game.Coord) string {
	label := "·"
	style := cellStyle.Foreground(lipgloss.Color("240"))
	if cell.Value != 0 {
		label = strconv.Itoa(cell.Value)
		color, ok := tokenColors[cell.Value]
		if !ok {
			color = "231"
		}
		style = cellStyle.Foreground(lipgloss.Color(color)).Bold(true)
	}

	switch {
	case cell.Coord == m.session.Player.Location:
		if cell.Value == 0 {
			label = "@"
		}
		style = style.Background(lipgloss.Color(playerColor)).Foreground(lipgloss.Color("0")).Bold(true)
	case cell.Coord == selected:
		style = style.Background(lipgloss.Color(cursorColor)).Foreground(lipgloss.Color("0"))
	case m.session.InRange(cell.Coord):
		style = style.Background(lipgloss.Color(inRangeColor))
	}

	if len(label) > cellWidth {
		label = "++"
	}
	return style.Render(label)
}

// renderStatusPanel draws the player, inventory and selected cell.
func (m GameViewModel) renderStatusPanel() string {
	var statusContent strings.Builder
	player := m.session.Player

	statusContent.WriteString(sectionStyle.Render("--- Cacher ---") + "\n")
	statusContent.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color(playerColor)).Render("@ ") + player.Name + "\n")
	lat, lng := game.LatLngForCell(player.Location, m.session.Tuning.TileDegrees)
	statusContent.WriteString(fmt.Sprintf("Cell: (%s)\n", player.Location.Key()))
	statusContent.WriteString(fmt.Sprintf("Lat/Lng: %.5f, %.5f\n", lat, lng))
	statusContent.WriteString(fmt.Sprintf("Moves: %d\n", player.Moves))
	if m.geoTracker != nil {
		statusContent.WriteString("GPS: following\n")
	}

	statusContent.WriteString("\n" + sectionStyle.Render("--- Inventory ---") + "\n")
	if m.session.Won {
		statusContent.WriteString(winTextStyle.Render(m.session.Status()) + "\n")
	} else {
		statusContent.WriteString(m.session.Status() + "\n")
	}

	selected := m.selectedCell()
	distance := player.DistanceTo(selected)
	reach := "in reach"
	if !m.session.InRange(selected) {
		reach = "too far"
	}
	statusContent.WriteString("\n" + sectionStyle.Render("--- Selected Cell ---") + "\n")
	statusContent.WriteString(fmt.Sprintf("(%s) holds %d\n", selected.Key(), m.session.World.Value(selected)))
	statusContent.WriteString(fmt.Sprintf("%.1f cells away, %s\n", distance, reach))

	if m.message != "" {
		statusContent.WriteString("\n" + lipgloss.NewStyle().Italic(true).Render(m.message) + "\n")
	}

	statusContent.WriteString("\n" + sectionStyle.Render("--- Controls ---") + "\n")
	for _, binding := range keys.help() {
		help := binding.Help()
		statusContent.WriteString(fmt.Sprintf("%s: %s\n", help.Key, help.Desc))
	}

	if m.prompting {
		statusContent.WriteString("\n" + m.prompt.View())
	}

	return statusContent.String()
}
