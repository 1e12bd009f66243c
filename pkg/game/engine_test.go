package game

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kungfuchess/engine/pkg/board"
)

func newPlayingState(t board.Type) *State {
	s := New(t, StandardSpeed, 10, nil)
	s.Status = Playing
	return s
}

func pieceAt(t *testing.T, s *State, row, col int) *board.Instance {
	t.Helper()
	pc, ok := s.Board.At(row, col)
	require.True(t, ok, "no piece at r%dc%d", row, col)
	return pc
}

func TestTickIsPureDeterministic(t *testing.T) {
	ctx := context.Background()
	s := newPlayingState(board.Standard)
	pawn := pieceAt(t, s, 6, 4)

	intents := []Intent{{Kind: Move, Player: board.Player1, PieceID: pawn.ID, To: board.NewSquare(4, 4)}}

	before := s.String()
	out1, ev1, res1 := Tick(ctx, s, intents)
	assert.Equal(t, before, s.String(), "Tick must not mutate its input")

	out2, ev2, res2 := Tick(ctx, s, intents)
	assert.Equal(t, out1.String(), out2.String())
	assert.Equal(t, len(ev1), len(ev2))
	assert.Equal(t, len(res1), len(res2))
	require.Len(t, res1, 1)
	assert.True(t, res1[0].Accepted)
}

func TestMoveRejectedWhenGameNotStarted(t *testing.T) {
	ctx := context.Background()
	s := New(board.Standard, StandardSpeed, 10, nil)
	pawn := pieceAt(t, s, 6, 4)

	_, _, res := Tick(ctx, s, []Intent{{Kind: Move, Player: board.Player1, PieceID: pawn.ID, To: board.NewSquare(4, 4)}})
	require.Len(t, res, 1)
	assert.False(t, res[0].Accepted)
	assert.Equal(t, GameNotStarted, res[0].Reason)
}

func TestMoveRejectedForWrongPlayer(t *testing.T) {
	ctx := context.Background()
	s := newPlayingState(board.Standard)
	pawn := pieceAt(t, s, 6, 4) // belongs to Player1

	_, _, res := Tick(ctx, s, []Intent{{Kind: Move, Player: board.Player2, PieceID: pawn.ID, To: board.NewSquare(5, 4)}})
	require.Len(t, res, 1)
	assert.Equal(t, NotYourPiece, res[0].Reason)
}

func TestMoveRejectedWhenPieceBusy(t *testing.T) {
	ctx := context.Background()
	s := newPlayingState(board.Standard)
	pawn := pieceAt(t, s, 6, 4)

	s, _, _ = Tick(ctx, s, []Intent{{Kind: Move, Player: board.Player1, PieceID: pawn.ID, To: board.NewSquare(4, 4)}})

	_, _, res := Tick(ctx, s, []Intent{{Kind: Move, Player: board.Player1, PieceID: pawn.ID, To: board.NewSquare(4, 3)}})
	require.Len(t, res, 1)
	assert.Equal(t, PieceBusy, res[0].Reason)
}

func TestMoveCompletesAndAppliesCooldown(t *testing.T) {
	ctx := context.Background()
	s := newPlayingState(board.Standard)
	pawn := pieceAt(t, s, 6, 4)

	s, _, _ = Tick(ctx, s, []Intent{{Kind: Move, Player: board.Player1, PieceID: pawn.ID, To: board.NewSquare(5, 4)}})

	cfg := s.Config()
	ticks := int(cfg.TicksPerSquare) + 1
	for i := 0; i < ticks; i++ {
		s, _, _ = Tick(ctx, s, nil)
	}

	moved := s.Board.ByID(pawn.ID)
	assert.Equal(t, 5, moved.Row)
	assert.True(t, moved.HasMoved)
	assert.NotNil(t, s.cooldownFor(pawn.ID))
	assert.Nil(t, s.activeMoveFor(pawn.ID))
}

func TestPawnPromotesOnReachingFarEdge(t *testing.T) {
	ctx := context.Background()
	s := newPlayingState(board.Standard)

	// Clear the opponent's pieces off r1c0 and r0c0 so the pawn can stand
	// on r1c0 and step to r0c0 unobstructed.
	for _, sq := range []board.Square{board.NewSquare(1, 0), board.NewSquare(0, 0)} {
		pc := pieceAt(t, s, sq.Row, sq.Col)
		pc.Captured = true
	}

	pawn := pieceAt(t, s, 6, 0)
	pawn.Row, pawn.Col = 1, 0

	cfg := s.Config()
	s, _, res := Tick(ctx, s, []Intent{{Kind: Move, Player: board.Player1, PieceID: pawn.ID, To: board.NewSquare(0, 0)}})
	require.Len(t, res, 1)
	require.True(t, res[0].Accepted)

	var events []Event
	for i := 0; i < int(cfg.TicksPerSquare)+1; i++ {
		var tickEvents []Event
		s, tickEvents, _ = Tick(ctx, s, nil)
		events = append(events, tickEvents...)
	}

	final := s.Board.ByID(pawn.ID)
	assert.Equal(t, board.Queen, final.Type)

	var sawPromotion bool
	for _, ev := range events {
		if ev.Type == Promotion {
			sawPromotion = true
			assert.Equal(t, board.Queen, ev.ToType)
		}
	}
	assert.True(t, sawPromotion)
}

func TestResignationEliminatesPlayerWithoutRemovingPieces(t *testing.T) {
	ctx := context.Background()
	s := newPlayingState(board.Standard)
	pieceCountBefore := len(s.Board.Pieces)

	s, events, res := Tick(ctx, s, []Intent{{Kind: Resign, Player: board.Player2}})
	require.Len(t, res, 1)
	assert.True(t, res[0].Accepted)
	assert.True(t, s.Eliminated[board.Player2])
	assert.Equal(t, pieceCountBefore, len(s.Board.Pieces))

	require.NotEmpty(t, events)
	last := events[len(events)-1]
	assert.Equal(t, GameOver, last.Type)
	assert.Equal(t, board.Player1, last.Winner)
	assert.Equal(t, Resignation, last.WinReason)
	assert.Equal(t, Finished, s.Status)
}

func TestCastlingMovesKingAndRookTogether(t *testing.T) {
	ctx := context.Background()
	s := newPlayingState(board.Standard)

	// Clear the squares between king (r7c4) and the kingside rook (r7c7).
	for _, col := range []int{5, 6} {
		pc, ok := s.Board.At(7, col)
		require.True(t, ok)
		pc.Captured = true
	}

	king := pieceAt(t, s, 7, 4)
	rook := pieceAt(t, s, 7, 7)

	s, _, res := Tick(ctx, s, []Intent{{Kind: Move, Player: board.Player1, PieceID: king.ID, To: board.NewSquare(7, 6)}})
	require.Len(t, res, 1)
	require.True(t, res[0].Accepted)

	cfg := s.Config()
	for i := 0; i < int(cfg.TicksPerSquare)*2+1; i++ {
		s, _, _ = Tick(ctx, s, nil)
	}

	movedKing := s.Board.ByID(king.ID)
	movedRook := s.Board.ByID(rook.ID)
	assert.Equal(t, 7, movedKing.Row)
	assert.Equal(t, 6, movedKing.Col)
	assert.Equal(t, 7, movedRook.Row)
	assert.Equal(t, 5, movedRook.Col)
}

// TestCastlingKingDoesNotCaptureItsOwnRook is a regression test for a bug
// where the castling rook was raced through the collision resolver as its
// own independent ActiveMove: its path [(7,7),(7,5)] shared square (7,5)
// with the king's path [(7,4),(7,5),(7,6)], and at nextTick=9
// (ticksPerSquare=10) the two interpolated positions landed within the 0.4
// capture threshold, so the king's earlier StartTick tie-break captured
// its own rook mid-castle. The rook now travels only via the king's
// ExtraMove, applied at finalize, and a same-player guard in the collision
// resolver independently rules this out.
func TestCastlingKingDoesNotCaptureItsOwnRook(t *testing.T) {
	ctx := context.Background()
	s := newPlayingState(board.Standard)

	for _, col := range []int{5, 6} {
		pc, ok := s.Board.At(7, col)
		require.True(t, ok)
		pc.Captured = true
	}

	king := pieceAt(t, s, 7, 4)
	rook := pieceAt(t, s, 7, 7)

	s, _, res := Tick(ctx, s, []Intent{{Kind: Move, Player: board.Player1, PieceID: king.ID, To: board.NewSquare(7, 6)}})
	require.True(t, res[0].Accepted)

	cfg := s.Config()
	require.Equal(t, float64(10), cfg.TicksPerSquare)

	// Advance to nextTick=9: king at col 4.9, rook at col 5.2, distance
	// 0.3 < captureThreshold -- the scenario the review traced by hand.
	for i := 0; i < 8; i++ {
		s, _, _ = Tick(ctx, s, nil)
	}

	movedKing := s.Board.ByID(king.ID)
	movedRook := s.Board.ByID(rook.ID)
	assert.False(t, movedKing.Captured)
	assert.False(t, movedRook.Captured, "king must never capture its own castling rook")
}

// TestCastlingRookIsBusyUntilKingFinalizes confirms a castling rook -- which
// has no ActiveMove of its own while the king is mid-flight -- still can't
// be handed a second, conflicting move order in the meantime.
func TestCastlingRookIsBusyUntilKingFinalizes(t *testing.T) {
	ctx := context.Background()
	s := newPlayingState(board.Standard)

	for _, col := range []int{5, 6} {
		pc, ok := s.Board.At(7, col)
		require.True(t, ok)
		pc.Captured = true
	}

	king := pieceAt(t, s, 7, 4)
	rook := pieceAt(t, s, 7, 7)

	s, _, res := Tick(ctx, s, []Intent{{Kind: Move, Player: board.Player1, PieceID: king.ID, To: board.NewSquare(7, 6)}})
	require.True(t, res[0].Accepted)

	_, _, res2 := Tick(ctx, s, []Intent{{Kind: Move, Player: board.Player1, PieceID: rook.ID, To: board.NewSquare(6, 7)}})
	require.Len(t, res2, 1)
	assert.False(t, res2[0].Accepted)
	assert.Equal(t, PieceBusy, res2[0].Reason)
}
