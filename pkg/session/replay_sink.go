package session

import "github.com/kungfuchess/engine/pkg/replay"

// ReplaySink receives the sealed replay of a game that just finished. A
// caller might implement this to persist the replay to disk or a database;
// neither is provided here, per spec.md's Non-goals around persistence.
type ReplaySink interface {
	Put(rp replay.Replay)
}

// DiscardSink drops every replay handed to it. The zero value is usable;
// it is the default when no sink is configured.
type DiscardSink struct{}

func (DiscardSink) Put(replay.Replay) {}
