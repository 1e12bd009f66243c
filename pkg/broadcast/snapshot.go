// Package broadcast derives immutable Snapshots from a game.State and fans
// them out to subscribers, per spec.md §4.8. It never touches the engine's
// mutable State directly; a session.Runtime calls NewSnapshot once per tick
// from its own tick goroutine and hands the result to a Hub.
package broadcast

import (
	"fmt"
	"time"

	"github.com/kungfuchess/engine/pkg/board"
	"github.com/kungfuchess/engine/pkg/game"
)

// PieceView is the read-only projection of one piece for a snapshot. Per
// spec.md §4.8, clients need to know whether a piece is mid-flight or
// resting on cooldown, not just its resting square.
type PieceView struct {
	ID         board.ID
	Type       board.Piece
	Player     board.Player
	Row, Col   int
	Captured   bool
	Moving     bool
	OnCooldown bool
}

// ActiveMoveView is the read-only projection of one in-flight move,
// including its current interpolated progress fraction (0..1).
type ActiveMoveView struct {
	PieceID   board.ID
	Path      []board.Square
	StartTick uint64
	Progress  float64
}

// CooldownView is the read-only projection of one piece's remaining rest.
type CooldownView struct {
	PieceID        board.ID
	RemainingTicks int
}

// Snapshot is the complete, immutable broadcast unit for one tick: the
// current board plus every event that occurred producing it, per spec.md
// §4.8. Subscribers never see a game.State directly.
type Snapshot struct {
	Tick      uint64
	Status    game.Status
	TickRate  int
	Pieces    []PieceView
	Active    []ActiveMoveView
	Cooldowns []CooldownView
	Events    []game.Event

	// TimeSinceTick is wall-clock time elapsed since the Hub published this
	// snapshot: zero on the live fan-out, and the elapsed time when the
	// stored snapshot is handed to a late subscriber, so it can account for
	// delivery lag.
	TimeSinceTick time.Duration
}

func (s Snapshot) String() string {
	return fmt.Sprintf("snapshot{tick=%d, status=%v, pieces=%d, active=%d, events=%d}",
		s.Tick, s.Status, len(s.Pieces), len(s.Active), len(s.Events))
}

// NewSnapshot projects a game.State and the events produced by the tick
// that reached it into an immutable Snapshot.
func NewSnapshot(state *game.State, events []game.Event) Snapshot {
	cfg := state.Config()

	moving := make(map[board.ID]bool, len(state.ActiveMoves))
	for _, am := range state.ActiveMoves {
		moving[am.PieceID] = true
	}
	onCooldown := make(map[board.ID]bool, len(state.Cooldowns))
	for _, cd := range state.Cooldowns {
		onCooldown[cd.PieceID] = true
	}

	pieces := make([]PieceView, 0, len(state.Board.Pieces))
	for _, pc := range state.Board.Pieces {
		pieces = append(pieces, PieceView{
			ID: pc.ID, Type: pc.Type, Player: pc.Player,
			Row: pc.Row, Col: pc.Col, Captured: pc.Captured,
			Moving:     moving[pc.ID],
			OnCooldown: onCooldown[pc.ID],
		})
	}

	active := make([]ActiveMoveView, 0, len(state.ActiveMoves))
	for _, am := range state.ActiveMoves {
		active = append(active, ActiveMoveView{
			PieceID:   am.PieceID,
			Path:      am.Path,
			StartTick: am.StartTick,
			Progress:  progress(am, state.Tick, cfg.TicksPerSquare),
		})
	}

	cooldowns := make([]CooldownView, 0, len(state.Cooldowns))
	for _, cd := range state.Cooldowns {
		cooldowns = append(cooldowns, CooldownView{PieceID: cd.PieceID, RemainingTicks: cd.RemainingTicks})
	}

	return Snapshot{
		Tick:      state.Tick,
		Status:    state.Status,
		TickRate:  state.TickRate,
		Pieces:    pieces,
		Active:    active,
		Cooldowns: cooldowns,
		Events:    append([]game.Event(nil), events...),
	}
}

func progress(am *board.ActiveMove, tick uint64, ticksPerSquare float64) float64 {
	segments := float64(am.Segments())
	if segments <= 0 || ticksPerSquare <= 0 {
		return 1
	}
	f := (float64(tick) - float64(am.StartTick)) / (segments * ticksPerSquare)
	if f < 0 {
		return 0
	}
	if f > 1 {
		return 1
	}
	return f
}
