package game

import "math"

// Cell is one on-screen grid cell and the token value it currently shows.
type Cell struct {
	Coord
	Value int
}

// Bounds is an inclusive rectangle of cells.
type Bounds struct {
	West, East, South, North int
}

func BoundsAround(center Coord, halfWidth, halfHeight int) Bounds {
	return Bounds{
		West:  center.X - halfWidth,
		East:  center.X + halfWidth,
		South: center.Y - halfHeight,
		North: center.Y + halfHeight,
	}
}

// BoundsFromLatLng covers every cell touched by a latitude/longitude box.
func BoundsFromLatLng(south, west, north, east, tileDegrees float64) Bounds {
	return Bounds{
		West:  int(math.Floor(west / tileDegrees)),
		East:  int(math.Floor(east / tileDegrees)),
		South: int(math.Floor(south / tileDegrees)),
		North: int(math.Floor(north / tileDegrees)),
	}
}

func (b Bounds) Contains(c Coord) bool {
	return c.X >= b.West && c.X <= b.East && c.Y >= b.South && c.Y <= b.North
}

func (b Bounds) Width() int {
	return max(0, b.East-b.West+1)
}

func (b Bounds) Height() int {
	return max(0, b.North-b.South+1)
}

// Spawner keeps the list of cells currently on screen.
type Spawner struct {
	world    *WorldState
	bounds   Bounds
	onScreen []*Cell
	index    map[Coord]*Cell
}

func NewSpawner(world *WorldState) *Spawner {
	return &Spawner{
		world: world,
		index: make(map[Coord]*Cell),
	}
}

// Refresh drops every on-screen cell and spawns the ones inside bounds,
// south to north and west to east.
func (s *Spawner) Refresh(bounds Bounds) {
	s.onScreen = make([]*Cell, 0, bounds.Width()*bounds.Height())
	clear(s.index)
	s.bounds = bounds

	for y := bounds.South; y <= bounds.North; y++ {
		for x := bounds.West; x <= bounds.East; x++ {
			c := Coord{X: x, Y: y}
			cell := &Cell{Coord: c, Value: s.world.Value(c)}
			s.onScreen = append(s.onScreen, cell)
			s.index[c] = cell
		}
	}
}

func (s *Spawner) Cells() []*Cell {
	return s.onScreen
}

func (s *Spawner) CellAt(c Coord) (*Cell, bool) {
	cell, ok := s.index[c]
	return cell, ok
}

func (s *Spawner) Bounds() Bounds {
	return s.bounds
}
