package game

import (
	"math"
	"strconv"
)

// Coord is a grid cell position. X grows east, Y grows north.
type Coord struct {
	X, Y int
}

// Key is the display form of a coordinate, "x, y".
func (c Coord) Key() string {
	return strconv.Itoa(c.X) + ", " + strconv.Itoa(c.Y)
}

// Seed is the string the value generator hashes, "x,y".
func (c Coord) Seed() string {
	return strconv.Itoa(c.X) + "," + strconv.Itoa(c.Y)
}

func (c Coord) Add(dx, dy int) Coord {
	return Coord{X: c.X + dx, Y: c.Y + dy}
}

func GetEuclideanDistance(a, b Coord) float64 {
	dx := float64(a.X - b.X)
	dy := float64(a.Y - b.Y)
	return math.Sqrt(dx*dx + dy*dy)
}

// CellForLatLng snaps a latitude/longitude to the grid cell containing it.
func CellForLatLng(lat, lng, tileDegrees float64) Coord {
	return Coord{
		X: int(math.Floor(lng / tileDegrees)),
		Y: int(math.Floor(lat / tileDegrees)),
	}
}

// LatLngForCell returns the south-west corner of a cell.
func LatLngForCell(c Coord, tileDegrees float64) (lat, lng float64) {
	return float64(c.Y) * tileDegrees, float64(c.X) * tileDegrees
}

func sign(v int) int {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	}
	return 0
}
