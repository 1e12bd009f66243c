package session

import (
	"time"

	"github.com/kungfuchess/engine/pkg/ai"
	"github.com/kungfuchess/engine/pkg/board"
	"github.com/kungfuchess/engine/pkg/game"
)

// Option is a Runtime creation option.
type Option func(*config)

type config struct {
	boardType   board.Type
	speed       game.Speed
	tickRate    int
	idleTimeout time.Duration
	providers   map[board.Player]ai.Provider
	sink        ReplaySink
}

func defaultConfig() config {
	return config{
		boardType:   board.Standard,
		speed:       game.StandardSpeed,
		tickRate:    10,
		idleTimeout: 2 * time.Minute,
		providers:   map[board.Player]ai.Provider{},
	}
}

// WithBoardType selects the board geometry, per spec.md §4.1.
func WithBoardType(t board.Type) Option {
	return func(c *config) {
		c.boardType = t
	}
}

// WithSpeed selects the derived timing table, per spec.md §3.
func WithSpeed(speed game.Speed) Option {
	return func(c *config) {
		c.speed = speed
	}
}

// WithTickRate sets H, the ticks/second the Runtime drives pkg/game.Tick
// at. Panics are avoided elsewhere; a non-positive rate is corrected to the
// default by New.
func WithTickRate(h int) Option {
	return func(c *config) {
		c.tickRate = h
	}
}

// WithIdleTimeout bounds how long a Runtime waits in the Waiting phase
// (spec.md §4.6) before self-terminating with no game ever having started.
func WithIdleTimeout(d time.Duration) Option {
	return func(c *config) {
		c.idleTimeout = d
	}
}

// WithAIProvider seats an ai.Provider at player's slot. The seat is
// pre-readied, per spec.md §4.6.
func WithAIProvider(player board.Player, p ai.Provider) Option {
	return func(c *config) {
		c.providers[player] = p
	}
}

// WithReplaySink attaches a sink that receives the sealed replay.Replay
// once the game finishes.
func WithReplaySink(sink ReplaySink) Option {
	return func(c *config) {
		c.sink = sink
	}
}
