package game

import (
	"fmt"

	"github.com/charmbracelet/log"
)

// CellStore persists the cells a player has changed.
type CellStore interface {
	LoadCells(owner string) (map[Coord]int, error)
	SaveCell(owner string, c Coord, value int) error
}

// WorldState only records cells whose value the player changed. Every other
// cell takes whatever the generator says.
type WorldState struct {
	generator Generator
	diffs     map[Coord]int

	store CellStore
	owner string
}

func NewWorldState(generator Generator) *WorldState {
	return &WorldState{
		generator: generator,
		diffs:     make(map[Coord]int),
	}
}

// Attach loads the overrides owner saved earlier and writes later changes
// through to store.
func (ws *WorldState) Attach(store CellStore, owner string) error {
	saved, err := store.LoadCells(owner)
	if err != nil {
		return fmt.Errorf("failed to load cells for %s: %w", owner, err)
	}
	for c, value := range saved {
		ws.diffs[c] = value
	}
	ws.store = store
	ws.owner = owner
	log.Debug("World state attached", "owner", owner, "restored_cells", len(saved))
	return nil
}

func (ws *WorldState) Value(c Coord) int {
	if value, ok := ws.diffs[c]; ok {
		return value
	}
	return ws.generator.Generate(c)
}

func (ws *WorldState) Override(c Coord) (int, bool) {
	value, ok := ws.diffs[c]
	return value, ok
}

func (ws *WorldState) Set(c Coord, value int) {
	ws.diffs[c] = value
	if ws.store == nil {
		return
	}
	if err := ws.store.SaveCell(ws.owner, c, value); err != nil {
		log.Error("Cell persist failed", "cell", c.Key(), "owner", ws.owner, "error", err)
	}
}

func (ws *WorldState) Len() int {
	return len(ws.diffs)
}
