package game

import "github.com/kungfuchess/engine/pkg/board"

// EventType is the kind of a per-tick engine event, per spec.md §4.4/§6.
type EventType uint8

const (
	MoveStarted EventType = iota
	Capture
	Promotion
	GameOver
)

func (t EventType) String() string {
	switch t {
	case MoveStarted:
		return "move_started"
	case Capture:
		return "capture"
	case Promotion:
		return "promotion"
	case GameOver:
		return "game_over"
	default:
		return "?"
	}
}

// Event is one occurrence emitted by a tick, embedded in the following
// snapshot (spec.md §4.8). Only the fields relevant to Type are populated.
type Event struct {
	Type EventType
	Tick uint64

	// MoveStarted
	PieceID   board.ID
	Path      []board.Square
	StartTick uint64

	// Capture
	Capturer board.ID
	Captured board.ID

	// Promotion
	ToType board.Piece

	// GameOver
	Winner    board.Player
	IsDraw    bool
	WinReason WinReason
}
