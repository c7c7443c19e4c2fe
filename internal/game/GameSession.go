package game

import (
	"strconv"

	"github.com/charmbracelet/log"
)

type Outcome int

const (
	OutcomeNoOp Outcome = iota
	OutcomePickup
	OutcomeCraft
	OutcomeDrop
	OutcomeOutOfRange
	OutcomeFinished
)

func (o Outcome) String() string {
	switch o {
	case OutcomePickup:
		return "pickup"
	case OutcomeCraft:
		return "craft"
	case OutcomeDrop:
		return "drop"
	case OutcomeOutOfRange:
		return "out of range"
	case OutcomeFinished:
		return "finished"
	default:
		return "no-op"
	}
}

type InteractionResult struct {
	Outcome   Outcome
	Cell      Coord
	CellValue int
	Inventory int
	Won       bool
}

// WinRecorder is told once when a session reaches the winning inventory.
type WinRecorder interface {
	RecordWin(playerName string, value int, moves int) error
}

// GameSession is the whole mutable state of one game. It is not safe for
// concurrent use; the UI event loop owns it.
type GameSession struct {
	Player     *Player
	World      *WorldState
	Spawner    *Spawner
	Tuning     Tuning
	ViewCenter Coord
	Won        bool
	LastResult InteractionResult

	halfWidth  int
	halfHeight int
	recorder   WinRecorder
	onClose    func()
}

func NewGameSession(player *Player, world *WorldState, tuning Tuning) *GameSession {
	gs := &GameSession{
		Player:     player,
		World:      world,
		Spawner:    NewSpawner(world),
		Tuning:     tuning,
		ViewCenter: player.Location,
		halfWidth:  tuning.ViewHalfWidth,
		halfHeight: tuning.ViewHalfHeight,
	}
	gs.UpdateVisibleCells()
	return gs
}

func (gs *GameSession) SetWinRecorder(recorder WinRecorder) {
	gs.recorder = recorder
}

// Close releases the session's generator.
func (gs *GameSession) Close() {
	if gs.onClose != nil {
		gs.onClose()
		gs.onClose = nil
	}
}

// Resize changes how many cells around the view center are on screen.
func (gs *GameSession) Resize(halfWidth, halfHeight int) {
	gs.halfWidth = max(0, halfWidth)
	gs.halfHeight = max(0, halfHeight)
	gs.UpdateVisibleCells()
}

func (gs *GameSession) ViewBounds() Bounds {
	return BoundsAround(gs.ViewCenter, gs.halfWidth, gs.halfHeight)
}

func (gs *GameSession) UpdateVisibleCells() {
	gs.Spawner.Refresh(gs.ViewBounds())
}

// Move steps the player and recenters the view on them.
func (gs *GameSession) Move(dx, dy int) {
	gs.Player.Move(dx, dy)
	gs.ViewCenter = gs.Player.Location
	gs.UpdateVisibleCells()
}

// Pan moves the view without moving the player.
func (gs *GameSession) Pan(dx, dy int) {
	gs.ViewCenter = gs.ViewCenter.Add(dx, dy)
	gs.UpdateVisibleCells()
}

func (gs *GameSession) Recenter() {
	gs.ViewCenter = gs.Player.Location
	gs.UpdateVisibleCells()
}

func (gs *GameSession) InRange(c Coord) bool {
	return gs.Player.DistanceTo(c) <= gs.Tuning.InteractionRadius
}

// Interact applies a click on cell c: pick up a token with empty hands, craft
// two equal tokens into one of double value, or drop the held token into an
// empty cell. Anything else leaves the world untouched.
func (gs *GameSession) Interact(c Coord) InteractionResult {
	result := InteractionResult{Cell: c, Outcome: OutcomeNoOp}
	defer func() { gs.LastResult = result }()

	player := gs.Player
	cellValue := gs.World.Value(c)
	result.CellValue = cellValue
	result.Inventory = player.Inventory
	result.Won = gs.Won

	if gs.Won {
		result.Outcome = OutcomeFinished
		return result
	}
	if !gs.InRange(c) {
		result.Outcome = OutcomeOutOfRange
		return result
	}

	switch {
	case cellValue != 0 && player.Inventory == 0:
		player.Inventory = cellValue
		cellValue = 0
		result.Outcome = OutcomePickup
	case cellValue != 0 && cellValue == player.Inventory:
		cellValue += player.Inventory
		player.Inventory = 0
		result.Outcome = OutcomeCraft
	case cellValue == 0 && player.Inventory != 0:
		cellValue = player.Inventory
		player.Inventory = 0
		result.Outcome = OutcomeDrop
	default:
		return result
	}

	gs.World.Set(c, cellValue)
	if cell, ok := gs.Spawner.CellAt(c); ok {
		cell.Value = cellValue
	}
	result.CellValue = cellValue
	result.Inventory = player.Inventory

	log.Debug("Cell interaction", "player", player.Name, "cell", c.Key(), "outcome", result.Outcome.String(),
		"cell_value", cellValue, "inventory", player.Inventory)

	if player.Inventory == gs.Tuning.WinValue {
		gs.win()
	}
	result.Won = gs.Won
	return result
}

func (gs *GameSession) win() {
	gs.Won = true
	log.Info("Player won", "player", gs.Player.Name, "value", gs.Player.Inventory, "moves", gs.Player.Moves)
	if gs.recorder == nil {
		return
	}
	if err := gs.recorder.RecordWin(gs.Player.Name, gs.Player.Inventory, gs.Player.Moves); err != nil {
		log.Error("High score persist failed", "player", gs.Player.Name, "error", err)
	}
}

// Status is the text for the status panel.
func (gs *GameSession) Status() string {
	switch {
	case gs.Won:
		return WinStatus
	case gs.Player.Inventory == 0:
		return NoPointsStatus
	default:
		return "Your tokens: " + strconv.Itoa(gs.Player.Inventory)
	}
}

// Apply runs an input event against the session.
func (gs *GameSession) Apply(event InputEvent) {
	event.Apply(gs)
}
