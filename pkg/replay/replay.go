// Package replay records the accepted move stream of one game so it can be
// re-executed later against pkg/game.Tick to reproduce the exact same
// outcome, per spec.md §4.9's replay fidelity requirement.
package replay

import (
	"context"
	"fmt"
	"sync"

	"github.com/seekerror/build"

	"github.com/kungfuchess/engine/pkg/board"
	"github.com/kungfuchess/engine/pkg/game"
)

var format = build.NewVersion(1, 0, 0)

// Move is one accepted move, as returned to the submitter by
// game.IntentResult.
type Move struct {
	Tick    uint64
	Player  board.Player
	PieceID board.ID
	To      board.Square
}

// Recorder is an append-only, thread-safe sink for accepted moves. A
// session.Runtime owns exactly one Recorder per live game and appends to it
// from its single tick-processing goroutine, but Seal/Replay may be called
// concurrently from an HTTP handler or similar.
type Recorder struct {
	mu sync.Mutex

	boardType board.Type
	speed     game.Speed
	tickRate  int

	moves  []Move
	sealed bool
	result Replay
}

// NewRecorder starts recording a game with the given fixed parameters.
// These, together with the recorded move list, are everything Reexecute
// needs to reproduce the game byte-for-byte.
func NewRecorder(boardType board.Type, speed game.Speed, tickRate int) *Recorder {
	return &Recorder{boardType: boardType, speed: speed, tickRate: tickRate}
}

// Append records one accepted move. A no-op once Seal has been called.
func (r *Recorder) Append(m Move) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.sealed {
		return
	}
	r.moves = append(r.moves, m)
}

// Seal finalizes the recording with the game's terminal outcome. Idempotent:
// subsequent calls are no-ops, so a session's termination path can call it
// unconditionally regardless of how the game ended.
func (r *Recorder) Seal(totalTicks uint64, winner board.Player, reason game.WinReason) Replay {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.sealed {
		return r.result
	}
	r.sealed = true
	r.result = Replay{
		FormatVersion: format.String(),
		BoardType:     r.boardType,
		Speed:         r.speed,
		TickRate:      r.tickRate,
		Moves:         append([]Move(nil), r.moves...),
		TotalTicks:    totalTicks,
		Winner:        winner,
		WinReason:     reason,
	}
	return r.result
}

// Replay is a sealed, immutable record of one finished game.
type Replay struct {
	FormatVersion string

	BoardType board.Type
	Speed     game.Speed
	TickRate  int

	Moves      []Move
	TotalTicks uint64
	Winner     board.Player
	WinReason  game.WinReason
}

func (rp Replay) String() string {
	return fmt.Sprintf("replay{%v/%v, moves=%d, ticks=%d, winner=%v, reason=%v}",
		rp.BoardType, rp.Speed, len(rp.Moves), rp.TotalTicks, rp.Winner, rp.WinReason)
}

// Reexecute replays rp against pkg/game.Tick from a fresh initial state,
// submitting each recorded move as a Move intent on its recorded tick. Every
// seat is marked ready up front and the state is set straight to Playing;
// no Ready intent is passed to Tick. It returns the resulting terminal State, which must match
// rp's own recorded Winner/WinReason/TotalTicks exactly given the engine's
// determinism property.
func Reexecute(ctx context.Context, rp Replay) (*game.State, error) {
	players := board.PlayersFor(rp.BoardType)
	aiSlots := make(map[board.Player]bool, len(players))
	for _, p := range players {
		aiSlots[p] = false
	}
	state := game.New(rp.BoardType, rp.Speed, rp.TickRate, aiSlots)

	readyIntents := make([]game.Intent, 0, len(players))
	for _, p := range players {
		readyIntents = append(readyIntents, game.Intent{Kind: game.Ready, Player: p})
	}
	for _, in := range readyIntents {
		state.ReadySet[in.Player] = true
	}
	state.Status = game.Playing

	byTick := map[uint64][]game.Intent{}
	for _, m := range rp.Moves {
		byTick[m.Tick] = append(byTick[m.Tick], game.Intent{
			Kind:    game.Move,
			Player:  m.Player,
			PieceID: m.PieceID,
			To:      m.To,
		})
	}

	for state.Tick < rp.TotalTicks {
		intents := byTick[state.Tick]
		var results []game.IntentResult
		state, _, results = game.Tick(ctx, state, intents)
		for _, res := range results {
			if !res.Accepted {
				return nil, fmt.Errorf("replay diverged at tick %d: move rejected (%v)", state.Tick-1, res.Reason)
			}
		}
		if state.Status == game.Finished {
			break
		}
	}

	if state.Status != game.Finished {
		return nil, fmt.Errorf("replay did not reach a terminal state within %d ticks", rp.TotalTicks)
	}
	if state.WinReason != rp.WinReason {
		return nil, fmt.Errorf("replay outcome mismatch: got reason %v, want %v", state.WinReason, rp.WinReason)
	}
	return state, nil
}
