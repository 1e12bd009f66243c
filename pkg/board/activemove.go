package board

import "fmt"

// ActiveMove is a piece in transit: its path has been accepted and it has
// not yet completed. Path is the ordered sequence of squares the piece will
// traverse, including its origin; len(Path) >= 2.
type ActiveMove struct {
	PieceID   ID
	Path      []Square
	StartTick uint64

	// ExtraMove is set only for a castling king move: the rook's
	// path to the king's far side. The rook gets no ActiveMove of its own:
	// it stays on its square until the king's move completes, and is then
	// moved to the end of this path.
	ExtraMove *ActiveMove
}

func (m *ActiveMove) Origin() Square {
	return m.Path[0]
}

func (m *ActiveMove) Destination() Square {
	return m.Path[len(m.Path)-1]
}

// Segments is the number of unit steps in the path.
func (m *ActiveMove) Segments() int {
	return len(m.Path) - 1
}

func (m *ActiveMove) String() string {
	return fmt.Sprintf("move{%v: %v->%v @%d}", m.PieceID, m.Origin(), m.Destination(), m.StartTick)
}

// Cooldown is the post-move rest period during which a piece cannot receive
// new intents. Removed once RemainingTicks reaches zero.
type Cooldown struct {
	PieceID        ID
	RemainingTicks int
}
