// Package session drives one game end to end: the Setup/Waiting phase, the
// per-tick Playing loop, termination, and idle reaping, per spec.md §4.6. A
// Runtime owns exactly one game.State and is the only component allowed to
// mutate it; everything else sees either immutable broadcast.Snapshots or
// game.IntentResults.
package session

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/seekerror/logw"
	"github.com/seekerror/stdlib/pkg/util/contextx"
	"github.com/seekerror/stdlib/pkg/util/iox"

	"github.com/kungfuchess/engine/pkg/board"
	"github.com/kungfuchess/engine/pkg/broadcast"
	"github.com/kungfuchess/engine/pkg/game"
	"github.com/kungfuchess/engine/pkg/replay"
)

// mailboxDepth bounds how many intents may be pending between ticks before
// SubmitIntent blocks the caller; a well-behaved client never submits that
// fast relative to the tick rate.
const mailboxDepth = 64

// intentRequest pairs an inbound Intent with the channel its IntentResult
// is delivered on, so the tick loop can reply to the caller without
// tracking callers by correlation ID itself.
type intentRequest struct {
	intent game.Intent
	result chan game.IntentResult
}

// Runtime is a live, running game. Construct with New; it starts its tick
// goroutine immediately and runs until the game finishes or it is reaped
// for sitting idle too long, at which point it closes itself.
type Runtime struct {
	iox.AsyncCloser

	id  string
	cfg config

	mailbox chan intentRequest
	hub     *broadcast.Hub
	rec     *replay.Recorder

	// mu guards state: read by Status/Snapshot-ish accessors from other
	// goroutines, written only by run's own tick loop.
	mu    sync.Mutex
	state *game.State
}

// New constructs and starts a Runtime for id. The AI-seated players
// (configured via WithAIProvider) are pre-readied; the rest of the seats
// wait for a Ready intent before the game enters Playing, per spec.md §4.6.
func New(ctx context.Context, id string, opts ...Option) *Runtime {
	cfg := defaultConfig()
	for _, fn := range opts {
		fn(&cfg)
	}
	if cfg.tickRate <= 0 {
		cfg.tickRate = 10
	}
	if cfg.sink == nil {
		cfg.sink = DiscardSink{}
	}

	aiSlots := make(map[board.Player]bool, len(cfg.providers))
	for p := range cfg.providers {
		aiSlots[p] = true
	}

	r := &Runtime{
		AsyncCloser: iox.NewAsyncCloser(),
		id:          id,
		cfg:         cfg,
		mailbox:     make(chan intentRequest, mailboxDepth),
		hub:         broadcast.NewHub(),
		rec:         replay.NewRecorder(cfg.boardType, cfg.speed, cfg.tickRate),
		state:       game.New(cfg.boardType, cfg.speed, cfg.tickRate, aiSlots),
	}
	if r.state.AllReady() {
		// Every seat is AI-controlled: nobody is left to submit a Ready
		// intent, so start the game immediately.
		r.state.Status = game.Playing
	}

	logw.Infof(ctx, "Runtime %v started: board=%v speed=%v rate=%vHz", id, cfg.boardType, cfg.speed, cfg.tickRate)
	go r.run(ctx)
	return r
}

// ID returns the game identifier this Runtime was constructed with.
func (r *Runtime) ID() string {
	return r.id
}

// Status reports the game's current lifecycle phase.
func (r *Runtime) Status() game.Status {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.state.Status
}

// Subscribe registers for Snapshots, per spec.md §4.8.
func (r *Runtime) Subscribe() (<-chan broadcast.Snapshot, func()) {
	return r.hub.Subscribe()
}

// SubmitIntent enqueues in for processing and blocks for its IntentResult,
// or until ctx is done or the Runtime has closed. Ready intents are
// applied immediately, outside the tick cadence, so a waiting room does
// not need to wait a full tick interval per participant joining.
func (r *Runtime) SubmitIntent(ctx context.Context, in game.Intent) (game.IntentResult, error) {
	req := intentRequest{intent: in, result: make(chan game.IntentResult, 1)}

	select {
	case r.mailbox <- req:
	case <-r.Closed():
		return game.IntentResult{}, fmt.Errorf("session %v: closed", r.id)
	case <-ctx.Done():
		return game.IntentResult{}, ctx.Err()
	}

	select {
	case res := <-req.result:
		return res, nil
	case <-r.Closed():
		return game.IntentResult{}, fmt.Errorf("session %v: closed", r.id)
	case <-ctx.Done():
		return game.IntentResult{}, ctx.Err()
	}
}

// run is the Runtime's single owning goroutine: every mutation of r.state
// happens here. mu only guards the handful of fields read concurrently by
// accessors like Status.
func (r *Runtime) run(ctx context.Context) {
	defer r.Close()

	// wctx is cancelled the instant the Runtime closes, so an AI
	// provider's ChooseMove/ShouldMove call never outlives the game it
	// was asked about.
	wctx, cancel := contextx.WithQuitCancel(ctx, r.Closed())
	defer cancel()

	interval := time.Second / time.Duration(r.cfg.tickRate)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	idle := time.NewTimer(r.cfg.idleTimeout)
	defer idle.Stop()

	var pending []intentRequest

	for {
		select {
		case req := <-r.mailbox:
			if req.intent.Kind == game.Ready {
				r.applyReady(ctx, req.intent.Player)
				req.result <- game.IntentResult{CorrelationID: req.intent.CorrelationID, Accepted: true}
				continue
			}
			// Outside Playing there is no tick to answer this on -- a
			// Waiting or Finished game never advances, so reply directly
			// rather than queuing the caller behind a tick that may never
			// come, per spec.md §4.6.
			if status := r.Status(); status != game.Playing {
				req.result <- game.IntentResult{
					CorrelationID: req.intent.CorrelationID,
					Accepted:      false,
					Reason:        rejectReasonFor(status),
				}
				continue
			}
			pending = append(pending, req)

		case <-ticker.C:
			if r.Status() != game.Playing {
				continue
			}

			batch := make([]game.Intent, 0, len(pending))
			for _, req := range pending {
				batch = append(batch, req.intent)
			}
			aiMoves := r.pollAI(wctx)
			batch = append(batch, aiMoves...)

			r.mu.Lock()
			next, events, results := game.Tick(wctx, r.state, batch)
			r.state = next
			r.mu.Unlock()

			r.recordAccepted(batch, results)

			for i, req := range pending {
				req.result <- results[i]
			}
			pending = nil

			r.hub.Publish(broadcast.NewSnapshot(r.state, events))

			if r.state.Status == game.Finished {
				r.finish(ctx)
				return
			}

		case <-idle.C:
			if r.Status() == game.Waiting {
				logw.Infof(ctx, "Runtime %v: idle timeout in waiting phase, closing", r.id)
				return
			}

		case <-r.Closed():
			return

		case <-ctx.Done():
			return
		}
	}
}

// rejectReasonFor maps a non-Playing Status to the RejectReason a Move or
// Resign intent submitted in that phase is answered with.
func rejectReasonFor(status game.Status) game.RejectReason {
	if status == game.Finished {
		return game.GameOver
	}
	return game.GameNotStarted
}

// applyReady marks player ready and, once every seat has signalled, moves
// the game from Waiting to Playing, per spec.md §4.6.
func (r *Runtime) applyReady(ctx context.Context, player board.Player) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.state.Status != game.Waiting {
		return
	}
	r.state.ReadySet[player] = true
	if r.state.AllReady() {
		r.state.Status = game.Playing
		logw.Infof(ctx, "Runtime %v: all seats ready, game started", r.id)
	}
}

// pollAI asks every configured provider whether it wants to move this tick.
func (r *Runtime) pollAI(ctx context.Context) []game.Intent {
	r.mu.Lock()
	state := r.state
	r.mu.Unlock()

	var intents []game.Intent
	for player, p := range r.cfg.providers {
		if !p.ShouldMove(ctx, state, player, state.Tick) {
			continue
		}
		pieceID, to, ok := p.ChooseMove(ctx, state, player)
		if !ok {
			continue
		}
		intents = append(intents, game.Intent{
			CorrelationID: fmt.Sprintf("ai-%v-%d", player, state.Tick),
			Kind:          game.Move,
			Player:        player,
			PieceID:       pieceID,
			To:            to,
		})
	}
	return intents
}

// recordAccepted appends every accepted Move intent in batch to the replay
// recorder, on the tick it was accepted.
func (r *Runtime) recordAccepted(batch []game.Intent, results []game.IntentResult) {
	for i, res := range results {
		if !res.Accepted || batch[i].Kind != game.Move || len(res.Path) == 0 {
			continue
		}
		r.rec.Append(replay.Move{
			Tick:    res.StartTick,
			Player:  batch[i].Player,
			PieceID: res.PieceID,
			To:      res.Path[len(res.Path)-1],
		})
	}
}

// finish seals the replay and hands it to the configured sink.
func (r *Runtime) finish(ctx context.Context) {
	r.mu.Lock()
	winner, _ := r.state.Winner.V()
	reason := r.state.WinReason
	tick := r.state.Tick
	r.mu.Unlock()

	rp := r.rec.Seal(tick, winner, reason)
	logw.Infof(ctx, "Runtime %v: finished %v", r.id, rp)
	r.cfg.sink.Put(rp)
}
