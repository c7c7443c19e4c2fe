package ui

import (
	"errors"
	"sync"

	"github.com/Mshel/geocache/internal/game"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
)

type Screen int

const (
	IntroScreen Screen = iota
	SetupScreen
	GameScreen
)

// Messages for state transitions
type IntroSubmitMsg int // 0 for Start, 1 for Leaderboard
type SetupSubmitMsg struct {
	Name   string
	Preset game.StartPreset
}

type ShowLeaderboardMsg struct{}

// ExitMsg asks the controller to end the program after releasing the session.
type ExitMsg struct{}

// SessionHolder keeps the session a controller started so whoever runs the
// program can release it after the program stops, however it stopped.
type SessionHolder struct {
	mu      sync.Mutex
	session *game.GameSession
}

func (h *SessionHolder) hold(session *game.GameSession) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.session != nil && h.session != session {
		h.session.Close()
	}
	h.session = session
}

// Release closes the held session, if any. Safe to call more than once.
func (h *SessionHolder) Release() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.session != nil {
		h.session.Close()
		h.session = nil
	}
}

type ControllerModel struct {
	CurrentScreen Screen
	GameManager   *game.GameManager
	Session       *game.GameSession
	Sessions      *SessionHolder
	GeoFeed       *game.GeoFeed
	GeoErr        error // why the GPS feed could not be opened, shown in game

	IntroModel tea.Model
	SetupModel tea.Model
	GameModel  tea.Model

	ScreenWidth  int
	ScreenHeight int
}

// NewControllerModel builds the screen flow. geoFeed is optional and only
// makes sense for a player sitting at the machine running the game.
func NewControllerModel(gameManager *game.GameManager, geoFeed *game.GeoFeed, screenWidth int, screenHeight int) ControllerModel {
	return ControllerModel{
		GameManager:   gameManager,
		GeoFeed:       geoFeed,
		Sessions:      &SessionHolder{},
		CurrentScreen: IntroScreen,

		IntroModel: NewIntroModel(screenWidth, screenHeight),
		SetupModel: NewInitialSetupModel(screenWidth, screenHeight),

		ScreenWidth:  screenWidth,
		ScreenHeight: screenHeight,
	}
}

func (m ControllerModel) Init() tea.Cmd {
	return m.IntroModel.Init()
}

func (m ControllerModel) View() string {
	switch m.CurrentScreen {
	case IntroScreen:
		return m.IntroModel.View()
	case SetupScreen:
		return m.SetupModel.View()
	case GameScreen:
		if m.GameModel != nil {
			return m.GameModel.View()
		}
		return "Game Loading..."
	default:
		return "Unknown Screen"
	}
}

func (m ControllerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	if msg, ok := msg.(tea.KeyMsg); ok && msg.String() == "ctrl+c" {
		m.closeSession()
		return m, tea.Quit
	}

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.ScreenWidth = msg.Width
		m.ScreenHeight = msg.Height
		// every screen keeps its own size, not just the visible one
		m.IntroModel, _ = m.IntroModel.Update(msg)
		m.SetupModel, _ = m.SetupModel.Update(msg)
		if m.GameModel != nil {
			m.GameModel, cmd = m.GameModel.Update(msg)
		}
		return m, cmd

	case ExitMsg:
		m.closeSession()
		return m, tea.Quit

	case IntroSubmitMsg:
		if msg == 0 {
			m.CurrentScreen = SetupScreen
			return m, m.SetupModel.Init()
		}
		m.CurrentScreen = GameScreen
		m.GameModel = NewGameModel(m.GameManager, nil, nil, m.ScreenWidth, m.ScreenHeight)
		return m, tea.Sequence(m.GameModel.Init(), func() tea.Msg { return ShowLeaderboardMsg{} })

	case SetupSubmitMsg:
		session, err := m.GameManager.NewSession(msg.Name, msg.Preset)
		if errors.Is(err, game.ErrPlayerInSession) {
			if setup, ok := m.SetupModel.(SetupModel); ok {
				m.SetupModel = setup.withError("That name is already playing, pick another.")
			}
			return m, nil
		}
		if err != nil {
			log.Error("Could not start session", "player", msg.Name, "error", err)
			return m, tea.Quit
		}
		m.Session = session
		m.Sessions.hold(session)
		m.CurrentScreen = GameScreen
		gameModel := NewGameModel(m.GameManager, session, m.GeoFeed, m.ScreenWidth, m.ScreenHeight)
		if m.GeoErr != nil {
			gameModel.message = "GPS: " + m.GeoErr.Error()
		}
		m.GameModel = gameModel
		return m, m.GameModel.Init()

	case QuitGameMsg:
		m.closeSession()
		m.CurrentScreen = IntroScreen
		return m, m.IntroModel.Init()
	}

	switch m.CurrentScreen {
	case IntroScreen:
		m.IntroModel, cmd = m.IntroModel.Update(msg)
	case SetupScreen:
		m.SetupModel, cmd = m.SetupModel.Update(msg)
	case GameScreen:
		if m.GameModel != nil {
			m.GameModel, cmd = m.GameModel.Update(msg)
		}
	}

	return m, cmd
}

func (m *ControllerModel) closeSession() {
	m.Sessions.Release()
	m.Session = nil
}
