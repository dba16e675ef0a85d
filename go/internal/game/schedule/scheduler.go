package schedule

import (
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"
)

// Ticket identifies one scheduled action. It stays live until the action is consumed,
// cancelled or replaced by a newer action under the same key.
type Ticket struct {
	Key   string
	Epoch uint64
}

type entry struct {
	epoch uint64
	timer clockwork.Timer
	done  chan struct{}
}

// Scheduler runs keyed one-shot deferred actions. Every key has an epoch counter;
// scheduling or cancelling bumps it, so a callback whose ticket carries an older epoch
// is inert even if its timer already fired.
//
// Callbacks run on their own goroutine. Owners that guard state with a mutex must call
// Consume under that mutex before acting: cancellations happen under the same mutex, so
// a callback that lost the race for the lock sees a dead ticket.
type Scheduler struct {
	clock clockwork.Clock
	name  string

	mu     sync.Mutex
	epochs map[string]uint64
	active map[string]*entry
	closed bool
}

// New creates a scheduler. name only labels log lines.
func New(clock clockwork.Clock, name string) *Scheduler {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Scheduler{
		clock:  clock,
		name:   name,
		epochs: make(map[string]uint64),
		active: make(map[string]*entry),
	}
}

// Clock returns the scheduler's time source.
func (s *Scheduler) Clock() clockwork.Clock {
	return s.clock
}

// After schedules fn to run once after d under key, replacing any pending action for
// the same key. After Close it returns a ticket that is never live.
func (s *Scheduler) After(key string, d time.Duration, fn func(Ticket)) Ticket {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.epochs[key]++
	t := Ticket{Key: key, Epoch: s.epochs[key]}
	if s.closed {
		return t
	}

	e := &entry{
		epoch: t.Epoch,
		timer: s.clock.NewTimer(d),
		done:  make(chan struct{}),
	}
	s.replaceLocked(key, e)

	go s.wait(t, e, fn)

	log.Debug().
		Str("scheduler", s.name).
		Str("key", key).
		Uint64("epoch", t.Epoch).
		Dur("delay", d).
		Msg("scheduled deferred action")
	return t
}

func (s *Scheduler) wait(t Ticket, e *entry, fn func(Ticket)) {
	select {
	case <-e.timer.Chan():
		if !s.Live(t) {
			log.Debug().
				Str("scheduler", s.name).
				Str("key", t.Key).
				Uint64("epoch", t.Epoch).
				Msg("stale deferred action ignored")
			return
		}
		fn(t)
	case <-e.done:
		stopAndDrainTimer(e.timer)
	}
}

// Live reports whether t is still the current, pending action for its key.
func (s *Scheduler) Live(t Ticket) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.liveLocked(t)
}

func (s *Scheduler) liveLocked(t Ticket) bool {
	if s.closed || s.epochs[t.Key] != t.Epoch {
		return false
	}
	e, ok := s.active[t.Key]
	return ok && e.epoch == t.Epoch
}

// Consume claims a fired ticket. It returns true exactly once for a live ticket;
// afterwards the key has nothing pending.
func (s *Scheduler) Consume(t Ticket) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.liveLocked(t) {
		return false
	}
	delete(s.active, t.Key)
	return true
}

// Pending reports whether an action is scheduled under key.
func (s *Scheduler) Pending(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.active[key]
	return ok
}

// Cancel invalidates any action scheduled under key and reports whether one was pending.
func (s *Scheduler) Cancel(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.epochs[key]++
	e, ok := s.active[key]
	if !ok {
		return false
	}
	delete(s.active, key)
	close(e.done)

	log.Debug().Str("scheduler", s.name).Str("key", key).Msg("cancelled deferred action")
	return true
}

// CancelAll invalidates every pending action.
func (s *Scheduler) CancelAll() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cancelAllLocked()
}

func (s *Scheduler) cancelAllLocked() {
	for key, e := range s.active {
		s.epochs[key]++
		close(e.done)
		delete(s.active, key)
	}
}

// Close cancels everything; later After calls schedule nothing.
func (s *Scheduler) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.closed = true
	s.cancelAllLocked()
}

// replaceLocked swaps in a new entry for key, releasing the old one so its goroutine
// exits without firing.
func (s *Scheduler) replaceLocked(key string, e *entry) {
	if existing, ok := s.active[key]; ok {
		close(existing.done)
		log.Debug().Str("scheduler", s.name).Str("key", key).Msg("replaced pending deferred action")
	}
	s.active[key] = e
}

// stopAndDrainTimer stops a timer and drains its channel if it already fired.
func stopAndDrainTimer(timer clockwork.Timer) {
	if !timer.Stop() {
		select {
		case <-timer.Chan():
		default:
		}
	}
}
