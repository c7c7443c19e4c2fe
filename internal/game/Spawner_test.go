package game

import "testing"

func TestSpawnerCoversBounds(t *testing.T) {
	world := NewWorldState(fixedGenerator{{X: 1, Y: 1}: 4})
	s := NewSpawner(world)
	b := Bounds{West: -1, East: 1, South: 0, North: 1}

	s.Refresh(b)

	cells := s.Cells()
	if len(cells) != 6 {
		t.Fatalf("expected 6 cells, got %d", len(cells))
	}
	if cells[0].Coord != (Coord{X: -1, Y: 0}) || cells[5].Coord != (Coord{X: 1, Y: 1}) {
		t.Fatalf("cells should run south to north and west to east, got first %v last %v", cells[0].Coord, cells[5].Coord)
	}
	if cells[5].Value != 4 {
		t.Fatalf("expected generated value 4, got %d", cells[5].Value)
	}
}

func TestSpawnerClearsOldCells(t *testing.T) {
	s := NewSpawner(NewWorldState(fixedGenerator{}))
	s.Refresh(Bounds{West: 0, East: 1, South: 0, North: 1})
	old := s.Cells()

	s.Refresh(Bounds{West: 10, East: 10, South: 10, North: 10})

	if len(s.Cells()) != 1 {
		t.Fatalf("expected a single cell, got %d", len(s.Cells()))
	}
	if _, ok := s.CellAt(Coord{}); ok {
		t.Fatal("cell from the previous view is still indexed")
	}
	if len(old) != 4 || old[0].Coord != (Coord{}) {
		t.Fatal("refresh must not rewrite slices handed out earlier")
	}
}

func TestSpawnerShowsOverrides(t *testing.T) {
	c := Coord{X: 2, Y: 3}
	world := NewWorldState(fixedGenerator{c: 1})
	world.Set(c, 8)
	s := NewSpawner(world)
	s.Refresh(BoundsAround(c, 0, 0))

	cell, ok := s.CellAt(c)
	if !ok || cell.Value != 8 {
		t.Fatalf("expected override 8 on screen, got %+v", cell)
	}
}

func TestBounds(t *testing.T) {
	b := BoundsAround(Coord{X: 5, Y: -5}, 2, 1)
	if b.Width() != 5 || b.Height() != 3 {
		t.Fatalf("unexpected size %dx%d", b.Width(), b.Height())
	}
	if !b.Contains(Coord{X: 7, Y: -4}) || b.Contains(Coord{X: 8, Y: -5}) {
		t.Fatal("contains is wrong at the edges")
	}
	if (Bounds{West: 1, East: 0}).Width() != 0 {
		t.Fatal("inverted bounds should be empty")
	}
}

func TestBoundsFromLatLng(t *testing.T) {
	b := BoundsFromLatLng(-0.00015, -0.00005, 0.00025, 0.00015, TileDegrees)
	want := Bounds{West: -1, East: 1, South: -2, North: 2}
	if b != want {
		t.Fatalf("expected %+v, got %+v", want, b)
	}
}
