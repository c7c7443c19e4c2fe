package ui

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/Mshel/geocache/internal/game"
	tea "github.com/charmbracelet/bubbletea"
)

type fixedGenerator map[game.Coord]int

func (g fixedGenerator) Generate(c game.Coord) int {
	return g[c]
}

func newTestSession(tokens fixedGenerator, winValue int) *game.GameSession {
	tuning := game.DefaultTuning()
	tuning.WinValue = winValue
	return game.NewGameSession(game.CreateNewPlayer("tester", game.Coord{}), game.NewWorldState(tokens), tuning)
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func update(t *testing.T, m GameViewModel, msg tea.Msg) (GameViewModel, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	model, ok := next.(GameViewModel)
	if !ok {
		t.Fatalf("unexpected model type %T", next)
	}
	return model, cmd
}

func TestArrowKeysMovePlayer(t *testing.T) {
	session := newTestSession(fixedGenerator{}, game.WinValue)
	m := NewGameModel(nil, session, nil, 80, 24)

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyUp})
	m, _ = update(t, m, runes("d"))
	m, _ = update(t, m, runes("d"))

	if session.Player.Location != (game.Coord{X: 2, Y: 1}) {
		t.Fatalf("unexpected location %s", session.Player.Location.Key())
	}
	if session.Player.Moves != 3 {
		t.Fatalf("expected 3 moves, got %d", session.Player.Moves)
	}
	if !strings.Contains(m.View(), "Moves: 3") {
		t.Fatal("status panel should show the move count")
	}
}

func TestCursorAndSpaceInteract(t *testing.T) {
	session := newTestSession(fixedGenerator{{X: 1, Y: 0}: 1}, game.WinValue)
	m := NewGameModel(nil, session, nil, 80, 24)

	m, _ = update(t, m, runes("l"))
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeySpace})

	if session.Player.Inventory != 1 {
		t.Fatalf("expected to pick up the token, inventory %d", session.Player.Inventory)
	}
	if m.message != "Picked up a 1 token." {
		t.Fatalf("unexpected message %q", m.message)
	}
}

func TestCursorStaysWithinReach(t *testing.T) {
	session := newTestSession(fixedGenerator{}, game.WinValue)
	m := NewGameModel(nil, session, nil, 80, 24)
	for i := 0; i < 10; i++ {
		m, _ = update(t, m, runes("i"))
	}
	if m.cursor.Y != 3 {
		t.Fatalf("cursor should stop at the interaction radius, got %d", m.cursor.Y)
	}
}

func TestMouseClickInteracts(t *testing.T) {
	session := newTestSession(fixedGenerator{{X: 1, Y: 0}: 1, {X: 8, Y: 0}: 1}, game.WinValue)
	m := NewGameModel(nil, session, nil, 80, 24)

	bounds := session.Spawner.Bounds()
	clickAt := func(c game.Coord) tea.MouseMsg {
		return tea.MouseMsg{
			X:      1 + (c.X-bounds.West)*cellWidth + 1,
			Y:      1 + (bounds.North - c.Y),
			Action: tea.MouseActionPress,
			Button: tea.MouseButtonLeft,
		}
	}

	m, _ = update(t, m, clickAt(game.Coord{X: 8, Y: 0}))
	if session.Player.Inventory != 0 || !strings.HasPrefix(m.message, "Too far away") {
		t.Fatalf("far click should be refused, message %q", m.message)
	}

	m, _ = update(t, m, clickAt(game.Coord{X: 1, Y: 0}))
	if session.Player.Inventory != 1 {
		t.Fatal("click on a nearby token should pick it up")
	}
	if m.cursor != (game.Coord{X: 1, Y: 0}) {
		t.Fatalf("click should move the cursor, got %+v", m.cursor)
	}

	if _, ok := m.cellAtScreen(0, 0); ok {
		t.Fatal("the map border is not a cell")
	}
}

func TestPromptCommand(t *testing.T) {
	session := newTestSession(fixedGenerator{}, game.WinValue)
	m := NewGameModel(nil, session, nil, 80, 24)

	m, _ = update(t, m, runes(":"))
	if !m.prompting {
		t.Fatal("colon should open the prompt")
	}
	m, _ = update(t, m, runes("go nroth"))
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyEnter})

	if m.prompting {
		t.Fatal("enter should close the prompt")
	}
	if session.Player.Location != (game.Coord{X: 0, Y: 1}) {
		t.Fatalf("typed command did not move the player, at %s", session.Player.Location.Key())
	}

	m, _ = update(t, m, runes(":"))
	m, _ = update(t, m, runes("xyzzy"))
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	if !strings.Contains(m.message, game.ErrUnknownCommand.Error()) {
		t.Fatalf("expected an unknown command message, got %q", m.message)
	}
}

func TestWinningShowsWinScreen(t *testing.T) {
	session := newTestSession(fixedGenerator{{X: 0, Y: 1}: 1}, 1)
	m := NewGameModel(nil, session, nil, 80, 24)

	m, _ = update(t, m, runes("i"))
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyEnter})

	if m.gameState != StateWon {
		t.Fatalf("expected the win screen, state %d", m.gameState)
	}
	if m.winState.FinalValue != 1 {
		t.Fatalf("unexpected final value %d", m.winState.FinalValue)
	}

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	if m.gameState != StatePlaying {
		t.Fatal("MAP should return to the map")
	}

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeySpace})
	if m.gameState != StatePlaying || m.message != "You already won!" {
		t.Fatalf("further interaction should be refused, got %q", m.message)
	}
}

func TestLeaderboardWithoutDatabase(t *testing.T) {
	session := newTestSession(fixedGenerator{}, game.WinValue)
	m := NewGameModel(nil, session, nil, 80, 24)

	m, _ = update(t, m, runes("b"))
	if m.gameState != StateLeaderboard || !errors.Is(m.scoresErr, errLeaderboardDisabled) {
		t.Fatalf("expected disabled leaderboard, state %d err %v", m.gameState, m.scoresErr)
	}
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	if m.gameState != StatePlaying {
		t.Fatal("esc should go back to the map")
	}
}

func TestLeaderboardFromIntroReturnsToIntro(t *testing.T) {
	m := NewGameModel(nil, nil, nil, 80, 24)
	m, _ = update(t, m, ShowLeaderboardMsg{})
	_, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	if cmd == nil {
		t.Fatal("expected a command")
	}
	if _, ok := cmd().(QuitGameMsg); !ok {
		t.Fatal("leaving the leaderboard without a session should go back to the intro")
	}
}

func TestQuitKeyExits(t *testing.T) {
	m := NewGameModel(nil, newTestSession(fixedGenerator{}, game.WinValue), nil, 80, 24)
	_, cmd := update(t, m, runes("q"))
	if cmd == nil {
		t.Fatal("expected a command")
	}
	if _, ok := cmd().(ExitMsg); !ok {
		t.Fatal("q should ask the controller to exit")
	}
}

func TestGeoFixesMovePlayer(t *testing.T) {
	session := newTestSession(fixedGenerator{}, game.WinValue)
	feed := game.NewGeoFeed(strings.NewReader(""), time.Second)
	defer feed.Close()
	m := NewGameModel(nil, session, feed, 80, 24)

	start := time.Unix(1000, 0)
	m, _ = update(t, m, GeoFixMsg{Position: game.GeoPosition{Lat: 51.5, Lng: 0.001}, At: start})
	if session.Player.Moves != 0 {
		t.Fatal("first fix should only lock the position")
	}

	m, cmd := update(t, m, GeoFixMsg{Position: game.GeoPosition{Lat: 51.5, Lng: 0.0025}, At: start.Add(2 * time.Second)})
	if session.Player.Location != (game.Coord{X: 1, Y: 0}) {
		t.Fatalf("expected one step east, at %s", session.Player.Location.Key())
	}
	if cmd == nil {
		t.Fatal("should keep listening for fixes")
	}
	if !strings.Contains(m.View(), "GPS: following") {
		t.Fatal("status panel should show that GPS is on")
	}
}

func TestGeoErrorsOnlyLog(t *testing.T) {
	session := newTestSession(fixedGenerator{}, game.WinValue)
	feed := game.NewGeoFeed(strings.NewReader(""), time.Second)
	defer feed.Close()
	m := NewGameModel(nil, session, feed, 80, 24)

	m, cmd := update(t, m, GeoErrorMsg{Err: game.ErrGeoTimeout})
	if cmd == nil {
		t.Fatal("a timeout should keep waiting for fixes")
	}
	m, cmd = update(t, m, GeoErrorMsg{Err: game.ErrGeoPermissionDenied})
	if cmd != nil {
		t.Fatal("permission denied should stop listening")
	}
	if session.Player.Location != (game.Coord{}) || session.Player.Moves != 0 {
		t.Fatal("geolocation errors must not change the game")
	}
	if !strings.HasPrefix(m.message, "GPS: ") {
		t.Fatalf("unexpected message %q", m.message)
	}
}
