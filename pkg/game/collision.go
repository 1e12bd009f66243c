package game

import (
	"math"

	"github.com/kungfuchess/engine/pkg/board"
)

// captureThreshold is the Euclidean-distance-in-squares below which two
// pieces collide, per spec.md §4.3.
const captureThreshold = 0.4

// knightAirborneStart/End bound the fraction of a knight's move during
// which it neither captures nor can be captured.
const (
	knightAirborneStart = 0.15
	knightAirborneEnd   = 0.85
)

type position struct {
	row, col float64
}

func dist(a, b position) float64 {
	dr, dc := a.row-b.row, a.col-b.col
	return math.Sqrt(dr*dr + dc*dc)
}

// progressOf returns how far along its path (0..1, clamped) the move is at
// the instant nextTick (the tick this transition advances to).
func progressOf(am *board.ActiveMove, startTick, nextTick uint64, ticksPerSquare float64) float64 {
	segments := float64(am.Segments())
	if segments <= 0 || ticksPerSquare <= 0 {
		return 1
	}
	elapsed := float64(nextTick) - float64(startTick)
	f := elapsed / (segments * ticksPerSquare)
	if f < 0 {
		return 0
	}
	if f > 1 {
		return 1
	}
	return f
}

// interpolate walks the path's segments proportionally to f in [0,1].
func interpolate(path []board.Square, f float64) position {
	segments := len(path) - 1
	if segments <= 0 {
		sq := path[0]
		return position{float64(sq.Row), float64(sq.Col)}
	}
	if f >= 1 {
		last := path[segments]
		return position{float64(last.Row), float64(last.Col)}
	}

	idx := f * float64(segments)
	seg := int(idx)
	if seg >= segments {
		seg = segments - 1
	}
	t := idx - float64(seg)

	a, b := path[seg], path[seg+1]
	return position{
		row: float64(a.Row) + t*float64(b.Row-a.Row),
		col: float64(a.Col) + t*float64(b.Col-a.Col),
	}
}

// isAirborneKnight reports whether piece is a knight currently between 15%
// and 85% progress of its own active move.
func isAirborneKnight(piece *board.Instance, f float64, isMoving bool) bool {
	return isMoving && piece.Type == board.Knight && f > knightAirborneStart && f < knightAirborneEnd
}

// isStraightPawnMove reports whether am is a pawn moving straight ahead
// (push or double-step), as opposed to a diagonal capture attempt.
func isStraightPawnMove(piece *board.Instance, am *board.ActiveMove) bool {
	if piece.Type != board.Pawn {
		return false
	}
	origin, dest := am.Origin(), am.Destination()
	return origin.Col == dest.Col
}

type collisionInfo struct {
	piece    *board.Instance
	pos      position
	moving   bool
	airborne bool
	canHit   bool // eligible to be the capturer this tick
	immune   bool // cannot be captured this tick (airborne knight)
}

// resolveCollisions implements spec.md §4.3. It mutates state in place
// (state is always a private clone owned by the current Tick call) and
// returns capture events in piece order for determinism.
func resolveCollisions(state *State, nextTick uint64) []Event {
	cfg := state.Config()

	infos := make([]collisionInfo, 0, len(state.Board.Pieces))
	for _, pc := range state.Board.Pieces {
		if pc.Captured {
			continue
		}
		am := state.activeMoveFor(pc.ID)

		info := collisionInfo{piece: pc, canHit: true}
		if am != nil {
			f := progressOf(am, am.StartTick, nextTick, cfg.TicksPerSquare)
			info.pos = interpolate(am.Path, f)
			info.moving = true
			info.airborne = isAirborneKnight(pc, f, true)
			// A straight-moving pawn cannot itself initiate a capture; it can
			// still be captured by whatever it collides with, per spec.md
			// §4.3. A stationary piece is always capture-eligible -- it is
			// the piece moving into it that loses.
			info.canHit = !info.airborne && !isStraightPawnMove(pc, am)
			info.immune = info.airborne
		} else {
			info.pos = position{float64(pc.Row), float64(pc.Col)}
		}
		infos = append(infos, info)
	}

	captured := map[board.ID]bool{}
	var events []Event

	for i := 0; i < len(infos); i++ {
		for j := i + 1; j < len(infos); j++ {
			a, b := infos[i], infos[j]
			if captured[a.piece.ID] || captured[b.piece.ID] {
				continue
			}
			if !a.moving && !b.moving {
				continue // no motion, no collision
			}
			if a.piece.Player == b.piece.Player {
				continue // a player's own pieces never collide with each other
			}
			if dist(a.pos, b.pos) >= captureThreshold {
				continue
			}

			aCanCapture := a.canHit && !b.immune
			bCanCapture := b.canHit && !a.immune

			var capturer, victim collisionInfo
			switch {
			case aCanCapture && bCanCapture:
				if earlierStartTick(state, a.piece.ID, b.piece.ID) {
					capturer, victim = a, b
				} else {
					capturer, victim = b, a
				}
			case aCanCapture:
				capturer, victim = a, b
			case bCanCapture:
				capturer, victim = b, a
			default:
				continue // neither side is eligible to capture
			}

			victim.piece.Captured = true
			captured[victim.piece.ID] = true
			state.removeActiveMove(victim.piece.ID)
			state.removeCooldown(victim.piece.ID)

			state.LastCaptureTick = nextTick

			events = append(events, Event{
				Type:     Capture,
				Tick:     nextTick,
				Capturer: capturer.piece.ID,
				Captured: victim.piece.ID,
			})
		}
	}
	return events
}

// earlierStartTick breaks a simultaneous-collision tie: the piece whose
// ActiveMove has the earlier StartTick wins; ties break by the stable
// Board.Pieces order (a < b in that order wins), per spec.md §4.3.
func earlierStartTick(state *State, a, b board.ID) bool {
	amA, amB := state.activeMoveFor(a), state.activeMoveFor(b)
	if amA == nil || amB == nil {
		return amA != nil
	}
	if amA.StartTick != amB.StartTick {
		return amA.StartTick < amB.StartTick
	}
	for _, pc := range state.Board.Pieces {
		if pc.ID == a {
			return true
		}
		if pc.ID == b {
			return false
		}
	}
	return false
}

func (s *State) removeActiveMove(id board.ID) {
	out := s.ActiveMoves[:0]
	for _, am := range s.ActiveMoves {
		if am.PieceID != id {
			out = append(out, am)
		}
	}
	s.ActiveMoves = out
}

func (s *State) removeCooldown(id board.ID) {
	out := s.Cooldowns[:0]
	for _, cd := range s.Cooldowns {
		if cd.PieceID != id {
			out = append(out, cd)
		}
	}
	s.Cooldowns = out
}
