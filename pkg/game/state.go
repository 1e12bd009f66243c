// Package game implements the deterministic Kung Fu Chess engine: the
// per-tick state transition (Tick), the collision resolver, and terminal
// condition checks. Tick is a pure function over (GameState, intents); all
// mutation happens by producing a new GameState, never in place, so the
// session runtime (pkg/session) can treat one tick as one atomic step.
package game

import (
	"fmt"

	"github.com/kungfuchess/engine/pkg/board"
	"github.com/seekerror/stdlib/pkg/lang"
)

// Status is the game's lifecycle phase, per spec.md §3.
type Status uint8

const (
	Waiting Status = iota
	Playing
	Finished
)

func (s Status) String() string {
	switch s {
	case Waiting:
		return "waiting"
	case Playing:
		return "playing"
	case Finished:
		return "finished"
	default:
		return "?"
	}
}

// WinReason explains a terminal GameState, per spec.md §4.5.
type WinReason uint8

const (
	NoReason WinReason = iota
	KingCaptured
	DrawTimeout
	Resignation
	FatalInvariant
)

func (r WinReason) String() string {
	switch r {
	case KingCaptured:
		return "king_captured"
	case DrawTimeout:
		return "draw_timeout"
	case Resignation:
		return "resignation"
	case FatalInvariant:
		return "fatal_invariant"
	default:
		return "none"
	}
}

// State is the full, authoritative state of one game. It is exclusively
// owned by the session.Runtime that drives it; no other component may read
// or write it concurrently. External subscribers only ever see immutable
// Snapshots derived from it (pkg/broadcast).
type State struct {
	BoardType board.Type
	Speed     Speed
	TickRate  int // H, ticks/second
	Status    Status
	Tick      uint64

	Board       *board.Board
	ActiveMoves []*board.ActiveMove
	Cooldowns   []*board.Cooldown

	ReadySet   map[board.Player]bool
	Eliminated map[board.Player]bool

	Winner    lang.Optional[board.Player] // set only once Status == Finished
	WinReason WinReason

	LastMoveTick    uint64
	LastCaptureTick uint64
}

// Config returns the derived timing table for this game's speed/tick-rate.
func (s *State) Config() Config {
	return ConfigFor(s.Speed, s.TickRate)
}

// New builds a fresh waiting-phase State for the given board/speed/tick
// rate, with AI slots (per aiSlots) pre-readied per spec.md §4.6.
func New(boardType board.Type, speed Speed, tickRate int, aiSlots map[board.Player]bool) *State {
	s := &State{
		BoardType:  boardType,
		Speed:      speed,
		TickRate:   tickRate,
		Status:     Waiting,
		Board:      board.InitialBoard(boardType),
		ReadySet:   map[board.Player]bool{},
		Eliminated: map[board.Player]bool{},
	}
	for _, p := range board.PlayersFor(boardType) {
		if aiSlots[p] {
			s.ReadySet[p] = true
		}
	}
	return s
}

// AllReady reports whether every seat for this board type has signalled
// ready.
func (s *State) AllReady() bool {
	for _, p := range board.PlayersFor(s.BoardType) {
		if !s.ReadySet[p] {
			return false
		}
	}
	return true
}

// Clone deep-copies the state. Tick() always operates on a clone, never the
// input State, keeping the transition pure.
func (s *State) Clone() *State {
	cp := *s
	cp.Board = s.Board.Clone()

	cp.ActiveMoves = make([]*board.ActiveMove, len(s.ActiveMoves))
	for i, am := range s.ActiveMoves {
		amCopy := *am
		if am.ExtraMove != nil {
			extraCopy := *am.ExtraMove
			amCopy.ExtraMove = &extraCopy
		}
		cp.ActiveMoves[i] = &amCopy
	}

	cp.Cooldowns = make([]*board.Cooldown, len(s.Cooldowns))
	for i, cd := range s.Cooldowns {
		cdCopy := *cd
		cp.Cooldowns[i] = &cdCopy
	}

	cp.ReadySet = make(map[board.Player]bool, len(s.ReadySet))
	for k, v := range s.ReadySet {
		cp.ReadySet[k] = v
	}
	cp.Eliminated = make(map[board.Player]bool, len(s.Eliminated))
	for k, v := range s.Eliminated {
		cp.Eliminated[k] = v
	}

	return &cp
}

func (s *State) activeMoveFor(id board.ID) *board.ActiveMove {
	for _, am := range s.ActiveMoves {
		if am.PieceID == id {
			return am
		}
	}
	return nil
}

func (s *State) cooldownFor(id board.ID) *board.Cooldown {
	for _, cd := range s.Cooldowns {
		if cd.PieceID == id {
			return cd
		}
	}
	return nil
}

// isExtraMoveTarget reports whether id is the castling rook of some other
// piece's in-flight ActiveMove. Such a rook has no ActiveMove of its own
// (it travels with the king's, applied at finalize) but is not free to
// accept a new intent in the meantime.
func (s *State) isExtraMoveTarget(id board.ID) bool {
	for _, am := range s.ActiveMoves {
		if am.ExtraMove != nil && am.ExtraMove.PieceID == id {
			return true
		}
	}
	return false
}

func (s *State) String() string {
	return fmt.Sprintf("game{%v/%v, status=%v, tick=%d, active=%d, cooldowns=%d}",
		s.BoardType, s.Speed, s.Status, s.Tick, len(s.ActiveMoves), len(s.Cooldowns))
}
