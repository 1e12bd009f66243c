package ai

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kungfuchess/engine/pkg/board"
	"github.com/kungfuchess/engine/pkg/game"
)

func TestRandomShouldMoveRespectsPeriod(t *testing.T) {
	s := game.New(board.Standard, game.StandardSpeed, 10, nil)
	s.Status = game.Playing

	r := NewRandom(4, 1)
	assert.True(t, r.ShouldMove(context.Background(), s, board.Player1, 0))
	assert.False(t, r.ShouldMove(context.Background(), s, board.Player1, 1))
	assert.False(t, r.ShouldMove(context.Background(), s, board.Player1, 2))
	assert.True(t, r.ShouldMove(context.Background(), s, board.Player1, 4))
}

func TestRandomShouldMoveFalseWhenNotPlaying(t *testing.T) {
	s := game.New(board.Standard, game.StandardSpeed, 10, nil)
	r := NewRandom(1, 1)
	assert.False(t, r.ShouldMove(context.Background(), s, board.Player1, 0))
}

func TestRandomShouldMoveFalseWhenEliminated(t *testing.T) {
	s := game.New(board.Standard, game.StandardSpeed, 10, nil)
	s.Status = game.Playing
	s.Eliminated[board.Player1] = true

	r := NewRandom(1, 1)
	assert.False(t, r.ShouldMove(context.Background(), s, board.Player1, 0))
}

func TestRandomChooseMoveReturnsLegalDestination(t *testing.T) {
	s := game.New(board.Standard, game.StandardSpeed, 10, nil)
	s.Status = game.Playing

	r := NewRandom(1, 42)
	pieceID, to, ok := r.ChooseMove(context.Background(), s, board.Player1)
	require.True(t, ok)

	pc := s.Board.ByID(pieceID)
	require.NotNil(t, pc)
	assert.Equal(t, board.Player1, pc.Player)

	path, _, err := board.CandidatePath(s.Board, s.ActiveMoves, pc, to)
	require.NoError(t, err)
	assert.NotEmpty(t, path)
}

func TestDummyNeverMoves(t *testing.T) {
	s := game.New(board.Standard, game.StandardSpeed, 10, nil)
	s.Status = game.Playing

	var d Dummy
	assert.False(t, d.ShouldMove(context.Background(), s, board.Player1, 5))
	_, _, ok := d.ChooseMove(context.Background(), s, board.Player1)
	assert.False(t, ok)
}
