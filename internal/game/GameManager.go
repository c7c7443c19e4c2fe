package game

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/charmbracelet/log"
)

// GameManager holds what every session shares: tuning and, when a database
// is configured, the leaderboard and saved worlds. Sessions themselves are
// independent.
type GameManager struct {
	Tuning     Tuning
	HighScores *HighScoreService
	Cells      CellStore

	activeMu sync.Mutex
	active   map[string]bool
}

// ErrPlayerInSession is returned when a name is already playing. Two live
// sessions under one name would overwrite each other's saved cells.
var ErrPlayerInSession = errors.New("a game is already running under this name")

// NewGameManager wires the shared services. db may be nil, in which case
// worlds live only as long as their session and wins are not recorded.
func NewGameManager(tuning Tuning, db *sql.DB) (*GameManager, error) {
	gm := &GameManager{Tuning: tuning, active: make(map[string]bool)}
	if db == nil {
		return gm, nil
	}

	highScores, err := NewHighScoreService(db)
	if err != nil {
		return nil, err
	}
	cells, err := NewSQLiteCellStore(db)
	if err != nil {
		return nil, err
	}
	gm.HighScores = highScores
	gm.Cells = cells
	return gm, nil
}

func (gm *GameManager) newGenerator() (Generator, func(), error) {
	luckGenerator := LuckGenerator{Chance: gm.Tuning.PercentChance}
	scriptPath := strings.TrimSpace(gm.Tuning.GeneratorScript)
	if scriptPath == "" {
		return luckGenerator, func() {}, nil
	}

	scripted, err := LoadScriptGenerator(scriptPath, luckGenerator)
	if err != nil {
		return nil, nil, err
	}
	return scripted, scripted.Close, nil
}

// NewSession starts a game for name at preset. A player coming back under the
// same name finds the cells they changed where they left them.
func (gm *GameManager) NewSession(name string, preset StartPreset) (*GameSession, error) {
	if err := gm.claimName(name); err != nil {
		return nil, err
	}

	generator, closeGenerator, err := gm.newGenerator()
	if err != nil {
		gm.releaseName(name)
		return nil, fmt.Errorf("failed to build generator: %w", err)
	}
	release := func() {
		closeGenerator()
		gm.releaseName(name)
	}

	world := NewWorldState(generator)
	if gm.Cells != nil && name != "" {
		if err := world.Attach(gm.Cells, name); err != nil {
			release()
			return nil, err
		}
	}

	spawnPoint := CellForLatLng(preset.Lat, preset.Lng, gm.Tuning.TileDegrees)
	player := CreateNewPlayer(name, spawnPoint)

	session := NewGameSession(player, world, gm.Tuning)
	session.onClose = release
	if gm.HighScores != nil {
		session.SetWinRecorder(gm.HighScores)
	}

	log.Info("Session started", "player", name, "start", preset.Name, "cell", spawnPoint.Key())
	return session, nil
}

func (gm *GameManager) claimName(name string) error {
	if name == "" {
		return nil
	}
	gm.activeMu.Lock()
	defer gm.activeMu.Unlock()
	if gm.active == nil {
		gm.active = make(map[string]bool)
	}
	if gm.active[name] {
		log.Warn("Refusing second session", "player", name)
		return fmt.Errorf("%w: %s", ErrPlayerInSession, name)
	}
	gm.active[name] = true
	return nil
}

func (gm *GameManager) releaseName(name string) {
	if name == "" {
		return
	}
	gm.activeMu.Lock()
	defer gm.activeMu.Unlock()
	delete(gm.active, name)
}
