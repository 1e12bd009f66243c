package game

import (
	"github.com/kungfuchess/engine/pkg/board"
	"github.com/seekerror/logw"

	"context"
)

// Tick implements spec.md §4.4: one deterministic transition of a Playing
// game, given the intents accepted for this tick. It is a pure function:
// the input state is never mutated, and calling it twice with identical
// (state, intents) yields byte-identical (state', events) -- the
// determinism property required by spec.md §8. The caller (pkg/session)
// owns intent bookkeeping, the tick timer, and broadcasting the result.
func Tick(ctx context.Context, in *State, intents []Intent) (*State, []Event, []IntentResult) {
	state := in.Clone()
	nextTick := state.Tick + 1

	var events []Event

	// (1) Drain intents.
	moveEvents, results, resignedThisTick := processIntents(ctx, state, intents)
	events = append(events, moveEvents...)

	// (2) Advance cooldowns.
	advanceCooldowns(state)

	// (3)+(4) Advance active moves and resolve collisions in the
	// interpolated continuum.
	events = append(events, resolveCollisions(state, nextTick)...)

	// (5) Finalise completed moves.
	events = append(events, finalizeCompletedMoves(state, nextTick)...)

	// (6) Recompute terminal conditions.
	if ev := checkTerminal(state, nextTick, resignedThisTick); ev != nil {
		events = append(events, *ev)
	}

	// (7) Increment tick.
	state.Tick = nextTick

	return state, events, results
}

func processIntents(ctx context.Context, state *State, intents []Intent) ([]Event, []IntentResult, bool) {
	var events []Event
	var results []IntentResult
	resigned := false

	for _, in := range intents {
		switch in.Kind {
		case Resign:
			state.Eliminated[in.Player] = true
			resigned = true
			results = append(results, IntentResult{CorrelationID: in.CorrelationID, Accepted: true})

		case Move:
			ev, res := applyMoveIntent(state, in)
			if ev != nil {
				events = append(events, *ev)
			}
			results = append(results, res)

		case Ready:
			// Ready intents are handled by the session runtime directly
			// during the waiting phase (spec.md §4.6) and are not expected
			// to reach Tick; ignore defensively rather than mutate state.
			logw.Debugf(ctx, "Ready intent reached Tick at tick=%d; ignored", state.Tick)
		}
	}
	return events, results, resigned
}

func applyMoveIntent(state *State, in Intent) (*Event, IntentResult) {
	reject := func(reason RejectReason) (*Event, IntentResult) {
		return nil, IntentResult{CorrelationID: in.CorrelationID, Accepted: false, Reason: reason}
	}

	if state.Status == Finished {
		return reject(GameOver)
	}
	if state.Status != Playing {
		return reject(GameNotStarted)
	}

	piece := state.Board.ByID(in.PieceID)
	if piece == nil {
		return reject(PieceNotFound)
	}
	if piece.Player != in.Player || state.Eliminated[in.Player] {
		return reject(NotYourPiece)
	}
	if piece.Captured {
		return reject(PieceCaptured)
	}
	if state.activeMoveFor(piece.ID) != nil || state.cooldownFor(piece.ID) != nil || state.isExtraMoveTarget(piece.ID) {
		return reject(PieceBusy)
	}

	path, extra, err := board.CandidatePath(state.Board, state.ActiveMoves, piece, in.To)
	if err != nil {
		return reject(InvalidMove)
	}

	// Castling's rook move travels with the king, not as its own
	// independent ActiveMove: it is carried in am.ExtraMove and only
	// applied when the king's own move finalises (spec.md §4.4 step 5),
	// so the two pieces of the same castling move can never race each
	// other through the collision resolver.
	am := &board.ActiveMove{PieceID: piece.ID, Path: path, StartTick: state.Tick, ExtraMove: extra}
	state.ActiveMoves = append(state.ActiveMoves, am)

	ev := &Event{Type: MoveStarted, Tick: state.Tick, PieceID: piece.ID, Path: path, StartTick: state.Tick}
	res := IntentResult{CorrelationID: in.CorrelationID, Accepted: true, PieceID: piece.ID, Path: path, StartTick: state.Tick}
	return ev, res
}

func advanceCooldowns(state *State) {
	out := state.Cooldowns[:0]
	for _, cd := range state.Cooldowns {
		cd.RemainingTicks--
		if cd.RemainingTicks > 0 {
			out = append(out, cd)
		}
	}
	state.Cooldowns = out
}

// finalizeCompletedMoves snaps every active move whose progress has reached
// 1.0 to its destination, applies castling's paired rook move, triggers
// promotion, and starts the piece's cooldown. Per spec.md §4.4 step 5.
func finalizeCompletedMoves(state *State, nextTick uint64) []Event {
	cfg := state.Config()

	var completed []*board.ActiveMove
	var remaining []*board.ActiveMove
	for _, am := range state.ActiveMoves {
		pc := state.Board.ByID(am.PieceID)
		if pc == nil || pc.Captured {
			continue // removed by collision resolution this tick
		}
		f := progressOf(am, am.StartTick, nextTick, cfg.TicksPerSquare)
		if f >= 1 {
			completed = append(completed, am)
		} else {
			remaining = append(remaining, am)
		}
	}
	state.ActiveMoves = remaining

	var events []Event
	for _, am := range completed {
		pc := state.Board.ByID(am.PieceID)
		dest := am.Destination()

		pc.Row, pc.Col = dest.Row, dest.Col
		pc.HasMoved = true

		if board.PromotionSquare(state.BoardType, pc.Player, pc.Row, pc.Col) && pc.Type == board.Pawn {
			pc.Type = board.Queen
			events = append(events, Event{Type: Promotion, Tick: nextTick, PieceID: pc.ID, ToType: board.Queen})
		}

		state.Cooldowns = append(state.Cooldowns, &board.Cooldown{PieceID: pc.ID, RemainingTicks: cfg.CooldownTicks})
		state.LastMoveTick = nextTick

		if am.ExtraMove != nil {
			finalizeExtraMove(state, am.ExtraMove, cfg, nextTick)
		}
	}
	return events
}

// finalizeExtraMove applies a castling rook's paired move the instant the
// king's own move finalises, per spec.md §4.4 step 5 ("apply any
// extraMove"). The rook never races through the collision resolver as its
// own ActiveMove; it simply snaps to its destination alongside the king,
// unless it was captured (by an enemy piece colliding into its stationary
// square) while the king was still in flight.
func finalizeExtraMove(state *State, extra *board.ActiveMove, cfg Config, nextTick uint64) {
	rook := state.Board.ByID(extra.PieceID)
	if rook == nil || rook.Captured {
		return
	}
	dest := extra.Destination()
	rook.Row, rook.Col = dest.Row, dest.Col
	rook.HasMoved = true

	state.Cooldowns = append(state.Cooldowns, &board.Cooldown{PieceID: rook.ID, RemainingTicks: cfg.CooldownTicks})
}
