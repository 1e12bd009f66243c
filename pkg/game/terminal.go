package game

import (
	"github.com/kungfuchess/engine/pkg/board"
	"github.com/seekerror/stdlib/pkg/lang"
)

// checkTerminal implements spec.md §4.5. It mutates state in place (always
// a private per-tick clone) and returns a game_over event if the game just
// ended. resignedThisTick distinguishes a resignation-driven elimination
// from a king-capture-driven one when both would otherwise report the same
// standing count, per the reason attached to spec.md's §4.5 last-two
// terminal cases.
func checkTerminal(state *State, nextTick uint64, resignedThisTick bool) *Event {
	if state.Status == Finished {
		return nil
	}

	players := board.PlayersFor(state.BoardType)

	kingAlive := map[board.Player]bool{}
	for _, pc := range state.Board.Pieces {
		if pc.Type == board.King && !pc.Captured {
			kingAlive[pc.Player] = true
		}
	}

	var standing []board.Player
	for _, p := range players {
		if kingAlive[p] && !state.Eliminated[p] {
			standing = append(standing, p)
		}
	}

	reason := KingCaptured
	if resignedThisTick {
		reason = Resignation
	}

	if len(players) == 2 {
		if len(standing) <= 1 {
			var winner board.Player
			if len(standing) == 1 {
				winner = standing[0]
			}
			return finish(state, nextTick, winner, reason)
		}
	} else {
		if len(standing) == 1 {
			return finish(state, nextTick, standing[0], reason)
		}
		if len(standing) == 0 {
			// Every remaining king fell/resigned the same tick: a draw.
			return finish(state, nextTick, board.NoPlayer, reason)
		}
	}

	cfg := state.Config()
	idleTicks := cfg.DrawIdleTicks(state.TickRate)
	noCaptureTicks := cfg.DrawNoCaptureTicks(state.TickRate)
	if nextTick-state.LastMoveTick >= idleTicks && nextTick-state.LastCaptureTick >= noCaptureTicks {
		return finish(state, nextTick, board.NoPlayer, DrawTimeout)
	}

	return nil
}

func finish(state *State, tick uint64, winner board.Player, reason WinReason) *Event {
	state.Status = Finished
	state.Winner = lang.Some(winner)
	state.WinReason = reason

	return &Event{
		Type:      GameOver,
		Tick:      tick,
		Winner:    winner,
		IsDraw:    winner == board.NoPlayer,
		WinReason: reason,
	}
}
