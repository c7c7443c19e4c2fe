package game

type Player struct {
	Name      string
	Location  Coord
	Inventory int // 0 when empty
	Moves     int
}

func CreateNewPlayer(name string, spawnPoint Coord) *Player {
	return &Player{
		Name:     name,
		Location: spawnPoint,
	}
}

func (p *Player) Move(dx, dy int) {
	p.Location = p.Location.Add(dx, dy)
	p.Moves++
}

func (p *Player) DistanceTo(c Coord) float64 {
	return GetEuclideanDistance(p.Location, c)
}

func (p *Player) HasToken() bool {
	return p.Inventory != 0
}
