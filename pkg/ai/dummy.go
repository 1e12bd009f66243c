package ai

import (
	"context"

	"github.com/kungfuchess/engine/pkg/board"
	"github.com/kungfuchess/engine/pkg/game"
)

// Dummy never moves. It fills an empty seat so a session can reach
// AllReady() and start without a live opponent.
type Dummy struct{}

func (Dummy) ShouldMove(context.Context, *game.State, board.Player, uint64) bool {
	return false
}

func (Dummy) ChooseMove(context.Context, *game.State, board.Player) (board.ID, board.Square, bool) {
	return "", board.Square{}, false
}
