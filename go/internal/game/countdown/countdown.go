package countdown

import (
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"

	"github.com/mcdev12/quizshow/go/internal/game/schedule"
)

const tickKey = "tick"

// Callbacks receive countdown notifications. They run on the countdown's own goroutines,
// never synchronously from a method call and never with the countdown's lock held.
type Callbacks struct {
	OnTick   func(secondsLeft int)
	OnExpire func()
}

// Countdown is a pausable per-question timer ticking at 1 Hz. Expiry is delivered at
// most once per run: a has-fired latch plus the scheduler epoch make late ticks inert.
type Countdown struct {
	sched *schedule.Scheduler
	clock clockwork.Clock
	cb    Callbacks

	mu       sync.Mutex
	limit    time.Duration
	left     time.Duration // remaining as of mark
	mark     time.Time     // when the current running stretch began
	running  bool
	fired    bool
	run      uint64 // bumped by Start; expiry is tied to one run
	lastSeen int    // last whole-second value reported to OnTick
}

// New creates a stopped countdown.
func New(clock clockwork.Clock, cb Callbacks) *Countdown {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Countdown{
		sched: schedule.New(clock, "countdown"),
		clock: clock,
		cb:    cb,
	}
}

// Start begins a new run with the given limit. It resets remaining time and clears the
// fired latch so the new run can expire.
func (c *Countdown) Start(limit time.Duration) {
	c.mu.Lock()
	c.limit = limit
	c.left = limit
	c.fired = false
	c.running = true
	c.mark = c.clock.Now()
	c.lastSeen = ceilSeconds(limit)
	c.run++
	run := c.run
	expired := c.scheduleLocked()
	c.mu.Unlock()

	log.Debug().Dur("limit", limit).Uint64("run", run).Msg("countdown started")
	if expired {
		go c.expire(run)
	}
}

// Pause freezes the remaining time. It is a no-op when not running.
func (c *Countdown) Pause() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.running {
		return
	}
	c.left -= c.clock.Since(c.mark)
	if c.left < 0 {
		c.left = 0
	}
	c.running = false
	c.sched.Cancel(tickKey)
}

// Resume continues from the frozen remaining time. It is a no-op when running, expired
// or never started.
func (c *Countdown) Resume() {
	c.mu.Lock()
	if c.running || c.fired || c.limit == 0 {
		c.mu.Unlock()
		return
	}
	c.running = true
	c.mark = c.clock.Now()
	run := c.run
	expired := c.scheduleLocked()
	c.mu.Unlock()

	if expired {
		go c.expire(run)
	}
}

// Stop halts the countdown without firing expiry. Start begins a fresh run.
func (c *Countdown) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.running = false
	c.sched.Cancel(tickKey)
}

// Close stops the countdown for good.
func (c *Countdown) Close() {
	c.Stop()
	c.sched.Close()
}

// Remaining returns the time left in the current run.
func (c *Countdown) Remaining() time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.remainingLocked()
}

// RemainingSeconds returns the whole seconds left, rounded up, as a display value.
func (c *Countdown) RemainingSeconds() int {
	return ceilSeconds(c.Remaining())
}

// Paused reports whether a started, unexpired run is currently frozen.
func (c *Countdown) Paused() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return !c.running && !c.fired && c.limit > 0
}

// Expired reports whether the current run has fired its expiry.
func (c *Countdown) Expired() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.fired
}

func (c *Countdown) remainingLocked() time.Duration {
	if !c.running {
		return c.left
	}
	left := c.left - c.clock.Since(c.mark)
	if left < 0 {
		return 0
	}
	return left
}

// scheduleLocked arms the next tick at the next whole-second boundary of remaining
// time. It reports true when nothing is left and the caller must expire.
func (c *Countdown) scheduleLocked() bool {
	if c.left <= 0 {
		return true
	}
	step := c.left % time.Second
	if step == 0 {
		step = time.Second
	}
	c.sched.After(tickKey, step, c.onTick)
	return false
}

func (c *Countdown) onTick(t schedule.Ticket) {
	c.mu.Lock()
	if !c.running || !c.sched.Consume(t) {
		c.mu.Unlock()
		return
	}
	now := c.clock.Now()
	c.left -= now.Sub(c.mark)
	c.mark = now
	if c.left < 0 {
		c.left = 0
	}

	secs := ceilSeconds(c.left)
	notify := secs != c.lastSeen
	c.lastSeen = secs
	run := c.run
	expired := c.scheduleLocked()
	c.mu.Unlock()

	if notify && c.cb.OnTick != nil {
		c.cb.OnTick(secs)
	}
	if expired {
		c.expire(run)
	}
}

// expire delivers OnExpire at most once for the given run.
func (c *Countdown) expire(run uint64) {
	c.mu.Lock()
	if c.fired || c.run != run {
		c.mu.Unlock()
		return
	}
	c.fired = true
	c.running = false
	c.left = 0
	c.sched.Cancel(tickKey)
	limit := c.limit
	c.mu.Unlock()

	log.Debug().Dur("limit", limit).Uint64("run", run).Msg("countdown expired")
	if c.cb.OnExpire != nil {
		c.cb.OnExpire()
	}
}

func ceilSeconds(d time.Duration) int {
	if d <= 0 {
		return 0
	}
	return int((d + time.Second - 1) / time.Second)
}
