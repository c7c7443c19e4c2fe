package game

// Generator decides the starting token value of a cell. Implementations must
// return the same value every time they are asked about the same coordinate.
type Generator interface {
	Generate(c Coord) int
}

// LuckGenerator places a token of value 1 in a cell when Luck of its seed
// falls below Chance.
type LuckGenerator struct {
	Chance float64
}

func (g LuckGenerator) Generate(c Coord) int {
	if Luck(c.Seed()) < g.Chance {
		return 1
	}
	return 0
}
