package broadcast

import (
	"sync"
	"time"
)

// subscriberBuffer is the per-subscriber channel depth. A subscriber that
// falls this far behind is dropped rather than allowed to backpressure the
// tick loop, per spec.md §4.8's "slow subscribers never stall the engine"
// requirement.
const subscriberBuffer = 8

// Hub fans a single game's Snapshots out to any number of subscribers. The
// zero value is not usable; construct with NewHub.
type Hub struct {
	mu         sync.Mutex
	subs       map[uint64]chan Snapshot
	nextID     uint64
	last       Snapshot
	hasLast    bool
	producedAt time.Time
}

func NewHub() *Hub {
	return &Hub{subs: map[uint64]chan Snapshot{}}
}

// Subscribe registers a new subscriber and returns its channel along with
// an unsubscribe function. If a Snapshot has already been published, it is
// sent immediately so a late joiner is never left waiting for the next
// tick, per spec.md §4.8.
func (h *Hub) Subscribe() (<-chan Snapshot, func()) {
	h.mu.Lock()
	defer h.mu.Unlock()

	id := h.nextID
	h.nextID++

	ch := make(chan Snapshot, subscriberBuffer)
	h.subs[id] = ch

	if h.hasLast {
		last := h.last
		last.TimeSinceTick = time.Since(h.producedAt)
		ch <- last
	}

	return ch, func() { h.unsubscribe(id) }
}

func (h *Hub) unsubscribe(id uint64) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if ch, ok := h.subs[id]; ok {
		close(ch)
		delete(h.subs, id)
	}
}

// Publish fans out snap to every current subscriber. A subscriber whose
// buffer is full is dropped: it missed its chance at this tick and must
// resubscribe to get a fresh full snapshot.
func (h *Hub) Publish(snap Snapshot) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.producedAt = time.Now()
	snap.TimeSinceTick = 0
	h.last = snap
	h.hasLast = true

	for id, ch := range h.subs {
		select {
		case ch <- snap:
		default:
			close(ch)
			delete(h.subs, id)
		}
	}
}

// SubscriberCount reports the current number of live subscribers, mostly
// useful for tests and for an idle-game reaper that wants to know whether
// anyone is still watching.
func (h *Hub) SubscriberCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()

	return len(h.subs)
}
