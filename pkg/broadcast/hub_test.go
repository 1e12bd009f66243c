package broadcast

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kungfuchess/engine/pkg/board"
	"github.com/kungfuchess/engine/pkg/game"
)

func TestNewSnapshotProjectsState(t *testing.T) {
	s := game.New(board.Standard, game.StandardSpeed, 10, nil)
	s.Status = game.Playing

	snap := NewSnapshot(s, nil)
	assert.Equal(t, uint64(0), snap.Tick)
	assert.Equal(t, game.Playing, snap.Status)
	assert.Len(t, snap.Pieces, len(s.Board.Pieces))
	assert.Empty(t, snap.Active)
	assert.Empty(t, snap.Cooldowns)
}

func TestHubSubscribeReceivesLastSnapshotImmediately(t *testing.T) {
	h := NewHub()
	h.Publish(Snapshot{Tick: 1})

	ch, unsub := h.Subscribe()
	defer unsub()

	select {
	case snap := <-ch:
		assert.Equal(t, uint64(1), snap.Tick)
	default:
		t.Fatal("expected immediate delivery of the last snapshot")
	}
}

func TestHubPublishFansOutToAllSubscribers(t *testing.T) {
	h := NewHub()
	ch1, unsub1 := h.Subscribe()
	ch2, unsub2 := h.Subscribe()
	defer unsub1()
	defer unsub2()

	h.Publish(Snapshot{Tick: 5})

	s1 := <-ch1
	s2 := <-ch2
	assert.Equal(t, uint64(5), s1.Tick)
	assert.Equal(t, uint64(5), s2.Tick)
}

func TestHubDropsSlowSubscriberRatherThanBlocking(t *testing.T) {
	h := NewHub()
	ch, _ := h.Subscribe()

	for i := 0; i < subscriberBuffer+2; i++ {
		h.Publish(Snapshot{Tick: uint64(i)})
	}

	assert.Equal(t, 0, h.SubscriberCount())

	// The channel should be closed, not blocked on.
	_, ok := <-ch
	for ok {
		_, ok = <-ch
	}
}

func TestHubUnsubscribeStopsDelivery(t *testing.T) {
	h := NewHub()
	ch, unsub := h.Subscribe()
	unsub()

	h.Publish(Snapshot{Tick: 1})

	_, ok := <-ch
	require.False(t, ok)
	assert.Equal(t, 0, h.SubscriberCount())
}
