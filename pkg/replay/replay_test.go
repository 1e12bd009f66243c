package replay

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kungfuchess/engine/pkg/board"
	"github.com/kungfuchess/engine/pkg/game"
)

func TestRecorderAppendAndSeal(t *testing.T) {
	r := NewRecorder(board.Standard, game.StandardSpeed, 10)
	r.Append(Move{Tick: 1, Player: board.Player1, PieceID: "P-p1-r6c4", To: board.NewSquare(4, 4)})

	rp := r.Seal(500, board.Player1, game.KingCaptured)
	assert.Equal(t, format.String(), rp.FormatVersion)
	assert.Len(t, rp.Moves, 1)
	assert.Equal(t, board.Player1, rp.Winner)
	assert.Equal(t, game.KingCaptured, rp.WinReason)
}

func TestRecorderSealIsIdempotent(t *testing.T) {
	r := NewRecorder(board.Standard, game.StandardSpeed, 10)
	r.Append(Move{Tick: 1, Player: board.Player1, PieceID: "x", To: board.NewSquare(4, 4)})

	first := r.Seal(10, board.Player1, game.KingCaptured)
	r.Append(Move{Tick: 2, Player: board.Player2, PieceID: "y", To: board.NewSquare(3, 3)})
	second := r.Seal(999, board.Player2, game.DrawTimeout)

	assert.Equal(t, first, second)
	assert.Len(t, second.Moves, 1)
}

func TestReexecuteReproducesDrawByTimeout(t *testing.T) {
	ctx := context.Background()

	// A game where nobody ever moves: the engine reaches a draw_timeout
	// purely from tick advancement, with no moves to record. Reexecute
	// from an identical fresh state must land on the exact same tick and
	// outcome as the recorded game.
	s := game.New(board.Standard, game.StandardSpeed, 10, nil)
	s.Status = game.Playing

	rec := NewRecorder(board.Standard, game.StandardSpeed, 10)

	var lastEvents []game.Event
	for {
		s, lastEvents, _ = game.Tick(ctx, s, nil)
		if s.Status == game.Finished {
			break
		}
	}

	var final game.Event
	for _, ev := range lastEvents {
		if ev.Type == game.GameOver {
			final = ev
		}
	}
	require.Equal(t, game.GameOver, final.Type)
	require.Equal(t, game.DrawTimeout, final.WinReason)

	rp := rec.Seal(s.Tick, final.Winner, final.WinReason)

	got, err := Reexecute(ctx, rp)
	require.NoError(t, err)
	gotWinner, _ := got.Winner.V()
	assert.Equal(t, rp.Winner, gotWinner)
	assert.Equal(t, rp.WinReason, got.WinReason)
	assert.Equal(t, rp.TotalTicks, got.Tick)
}
