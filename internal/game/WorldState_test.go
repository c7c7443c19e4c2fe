package game

import (
	"errors"
	"testing"
)

type memoryCellStore struct {
	cells   map[string]map[Coord]int
	loadErr error
	saveErr error
	saves   int
}

func newMemoryCellStore() *memoryCellStore {
	return &memoryCellStore{cells: make(map[string]map[Coord]int)}
}

func (m *memoryCellStore) LoadCells(owner string) (map[Coord]int, error) {
	if m.loadErr != nil {
		return nil, m.loadErr
	}
	out := make(map[Coord]int)
	for c, v := range m.cells[owner] {
		out[c] = v
	}
	return out, nil
}

func (m *memoryCellStore) SaveCell(owner string, c Coord, value int) error {
	m.saves++
	if m.saveErr != nil {
		return m.saveErr
	}
	if m.cells[owner] == nil {
		m.cells[owner] = make(map[Coord]int)
	}
	m.cells[owner][c] = value
	return nil
}

func TestWorldStateFallsBackToGenerator(t *testing.T) {
	c := Coord{X: 4, Y: 2}
	ws := NewWorldState(fixedGenerator{c: 1})

	if ws.Value(c) != 1 || ws.Value(Coord{}) != 0 {
		t.Fatal("untouched cells should use the generator")
	}
	if _, ok := ws.Override(c); ok {
		t.Fatal("reading must not create overrides")
	}

	ws.Set(c, 0)
	if ws.Value(c) != 0 {
		t.Fatal("an override of zero must hide the generated token")
	}
	if ws.Len() != 1 {
		t.Fatalf("expected one override, got %d", ws.Len())
	}
}

func TestWorldStateAttachRestoresAndPersists(t *testing.T) {
	store := newMemoryCellStore()
	store.cells["alice"] = map[Coord]int{{X: 1, Y: 1}: 4}
	store.cells["bob"] = map[Coord]int{{X: 2, Y: 2}: 8}

	ws := NewWorldState(fixedGenerator{})
	if err := ws.Attach(store, "alice"); err != nil {
		t.Fatal(err)
	}
	if ws.Value(Coord{X: 1, Y: 1}) != 4 {
		t.Fatal("saved override was not restored")
	}
	if ws.Value(Coord{X: 2, Y: 2}) != 0 {
		t.Fatal("another player's world leaked in")
	}

	ws.Set(Coord{X: 3, Y: 3}, 2)
	if store.cells["alice"][Coord{X: 3, Y: 3}] != 2 {
		t.Fatal("change was not written through to the store")
	}
}

func TestWorldStateAttachError(t *testing.T) {
	store := newMemoryCellStore()
	store.loadErr = errors.New("locked")
	ws := NewWorldState(fixedGenerator{})

	if err := ws.Attach(store, "alice"); err == nil {
		t.Fatal("expected load error")
	}
	ws.Set(Coord{}, 1)
	if store.saves != 0 {
		t.Fatal("a failed attach must not write to the store")
	}
}

func TestWorldStateKeepsValueWhenSaveFails(t *testing.T) {
	store := newMemoryCellStore()
	store.saveErr = errors.New("read-only")
	ws := NewWorldState(fixedGenerator{})
	if err := ws.Attach(store, "alice"); err != nil {
		t.Fatal(err)
	}

	ws.Set(Coord{X: 1}, 2)
	if ws.Value(Coord{X: 1}) != 2 {
		t.Fatal("in-memory state should survive a failed save")
	}
}

func TestCoordHelpers(t *testing.T) {
	c := Coord{X: -3, Y: 7}
	if c.Key() != "-3, 7" || c.Seed() != "-3,7" {
		t.Fatalf("unexpected key %q / seed %q", c.Key(), c.Seed())
	}
	if GetEuclideanDistance(Coord{}, Coord{X: 3, Y: 4}) != 5 {
		t.Fatal("distance is wrong")
	}
	got := CellForLatLng(ClassroomLat, ClassroomLng, TileDegrees)
	if got != (Coord{X: -1220571, Y: 369979}) {
		t.Fatalf("classroom snapped to %+v", got)
	}
	if CellForLatLng(-0.00005, -0.00005, TileDegrees) != (Coord{X: -1, Y: -1}) {
		t.Fatal("negative coordinates must round toward south-west")
	}
}
