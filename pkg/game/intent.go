package game

import "github.com/kungfuchess/engine/pkg/board"

// IntentKind is the type of an inbound client intent, per spec.md §6.
type IntentKind uint8

const (
	Ready IntentKind = iota
	Move
	Resign
)

// Intent is one inbound request from a participant. CorrelationID is an
// opaque token the session runtime uses to route the IntentResult back to
// the original submitter; the engine never interprets it.
type Intent struct {
	CorrelationID string
	Kind          IntentKind
	Player        board.Player
	PieceID       board.ID
	To            board.Square
}

// RejectReason is the closed taxonomy of submitter-visible move rejections
// from spec.md §4.10 / §6.
type RejectReason uint8

const (
	NoRejection RejectReason = iota
	GameNotStarted
	GameOver
	PieceNotFound
	NotYourPiece
	PieceCaptured
	PieceBusy
	InvalidMove
)

func (r RejectReason) String() string {
	switch r {
	case GameNotStarted:
		return "game_not_started"
	case GameOver:
		return "game_over"
	case PieceNotFound:
		return "piece_not_found"
	case NotYourPiece:
		return "not_your_piece"
	case PieceCaptured:
		return "piece_captured"
	case PieceBusy:
		return "piece_busy"
	case InvalidMove:
		return "invalid_move"
	default:
		return "none"
	}
}

// IntentResult is the outcome of one processed intent, delivered only to
// its submitter (spec.md §4.10: rejections never mutate state and are never
// broadcast).
type IntentResult struct {
	CorrelationID string
	Accepted      bool

	// Populated when Accepted, for a Move intent: move_accepted{pieceId, path, startTick}.
	PieceID   board.ID
	Path      []board.Square
	StartTick uint64

	// Populated when !Accepted.
	Reason RejectReason
}
