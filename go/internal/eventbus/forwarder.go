package eventbus

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/mcdev12/quizshow/go/internal/game/events"
)

const publishTimeout = 5 * time.Second

// Forwarder is a session observer that publishes events from its own goroutine, so a
// slow bus never stalls gameplay. Events that do not fit the buffer are dropped.
type Forwarder struct {
	pub  Publisher
	skip map[events.EventType]bool
	ch   chan events.Event

	mu      sync.Mutex
	closed  bool
	dropped int
}

// NewForwarder buffers up to size events. Types in skip are never published.
func NewForwarder(pub Publisher, size int, skip ...events.EventType) *Forwarder {
	f := &Forwarder{
		pub:  pub,
		skip: make(map[events.EventType]bool, len(skip)),
		ch:   make(chan events.Event, size),
	}
	for _, t := range skip {
		f.skip[t] = true
	}
	return f
}

// OnEvent queues e for publishing.
func (f *Forwarder) OnEvent(e events.Event) {
	if f.skip[e.Type] {
		return
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return
	}
	select {
	case f.ch <- e:
	default:
		f.dropped++
		log.Warn().
			Str("session_id", e.SessionID.String()).
			Str("event_type", string(e.Type)).
			Int("dropped", f.dropped).
			Msg("event bus buffer full, dropping event")
	}
}

// Run publishes queued events until ctx is done or Close drains the queue.
func (f *Forwarder) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case e, ok := <-f.ch:
			if !ok {
				return
			}
			pubCtx, cancel := context.WithTimeout(ctx, publishTimeout)
			if err := f.pub.Publish(pubCtx, e); err != nil {
				log.Error().Err(err).
					Str("session_id", e.SessionID.String()).
					Str("event_type", string(e.Type)).
					Msg("failed to publish session event")
			}
			cancel()
		}
	}
}

// Close stops accepting events; Run returns after publishing what is queued.
func (f *Forwarder) Close() {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.closed {
		f.closed = true
		close(f.ch)
	}
}

// Dropped reports how many events were discarded because the buffer was full.
func (f *Forwarder) Dropped() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.dropped
}
