package ai

import (
	"context"
	"math/rand"

	"github.com/kungfuchess/engine/pkg/board"
	"github.com/kungfuchess/engine/pkg/game"
)

// Random is a weak opponent: it acts roughly once every period ticks and,
// when it does, plays a uniformly random legal destination for a uniformly
// random one of its own movable pieces. It is seeded for reproducible
// replays (spec.md §8's determinism property extends to AI-populated
// games given a fixed seed and fixed tick schedule).
type Random struct {
	rand   *rand.Rand
	period uint64
}

// NewRandom constructs a Random provider that considers acting once every
// period ticks, seeded by seed.
func NewRandom(period uint64, seed int64) *Random {
	if period == 0 {
		period = 1
	}
	return &Random{rand: rand.New(rand.NewSource(seed)), period: period}
}

func (r *Random) ShouldMove(_ context.Context, state *game.State, player board.Player, tick uint64) bool {
	if state.Status != game.Playing || state.Eliminated[player] {
		return false
	}
	if tick%r.period != 0 {
		return false
	}
	return len(board.LegalMovesForPlayer(state.Board, state.ActiveMoves, state.Cooldowns, player)) > 0
}

func (r *Random) ChooseMove(_ context.Context, state *game.State, player board.Player) (board.ID, board.Square, bool) {
	moves := board.LegalMovesForPlayer(state.Board, state.ActiveMoves, state.Cooldowns, player)
	if len(moves) == 0 {
		return "", board.Square{}, false
	}
	pm := moves[r.rand.Intn(len(moves))]
	if len(pm.Destinations) == 0 {
		return "", board.Square{}, false
	}
	to := pm.Destinations[r.rand.Intn(len(pm.Destinations))]
	return pm.PieceID, to, true
}
