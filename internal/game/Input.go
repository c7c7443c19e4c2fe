package game

// InputEvent is anything the player (or a position source) asks the session
// to do. Front ends translate their own input into these.
type InputEvent interface {
	Apply(gs *GameSession)
}

type MoveCommand struct {
	Dx, Dy int
}

func (m MoveCommand) Apply(gs *GameSession) {
	if m.Dx == 0 && m.Dy == 0 {
		return
	}
	gs.Move(m.Dx, m.Dy)
}

type PanCommand struct {
	Dx, Dy int
}

func (p PanCommand) Apply(gs *GameSession) {
	gs.Pan(p.Dx, p.Dy)
}

type RecenterCommand struct{}

func (RecenterCommand) Apply(gs *GameSession) {
	gs.Recenter()
}

// InteractCommand clicks a cell. The outcome is left in GameSession.LastResult.
type InteractCommand struct {
	Target Coord
}

func (i InteractCommand) Apply(gs *GameSession) {
	gs.Interact(i.Target)
}

var (
	North = MoveCommand{Dx: 0, Dy: 1}
	South = MoveCommand{Dx: 0, Dy: -1}
	East  = MoveCommand{Dx: 1, Dy: 0}
	West  = MoveCommand{Dx: -1, Dy: 0}
)
