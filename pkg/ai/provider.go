// Package ai provides pluggable opponent implementations for Kung Fu Chess,
// per spec.md §4.7. A Provider is a two-method capability the session
// runtime polls once per tick; it never touches GameState directly,
// matching how pkg/search in the teacher repo is driven by a harness
// (searchctl.Launcher) rather than owning its own loop.
package ai

import (
	"context"

	"github.com/kungfuchess/engine/pkg/board"
	"github.com/kungfuchess/engine/pkg/game"
)

// Provider is a pluggable opponent. ShouldMove is queried once per tick;
// if it returns true, ChooseMove is called immediately to produce the
// intent for that tick.
type Provider interface {
	ShouldMove(ctx context.Context, state *game.State, player board.Player, tick uint64) bool
	ChooseMove(ctx context.Context, state *game.State, player board.Player) (board.ID, board.Square, bool)
}
