package sound

import (
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"

	"github.com/mcdev12/quizshow/go/internal/game/schedule"
)

const (
	keyAmbience = "ambience"
	keySuspense = "suspense"
)

// Config tunes the sequencer.
type Config struct {
	// Threshold is the 0-based question index from which lock-ins get the suspense
	// sequence and question changes replay the start jingle.
	Threshold     int           `yaml:"threshold"`
	AmbienceDelay time.Duration `yaml:"ambience_delay"`
	SuspenseDelay time.Duration `yaml:"suspense_delay"`
	Muted         bool          `yaml:"muted"`
}

// DefaultConfig returns the stock timings.
func DefaultConfig() Config {
	return Config{
		Threshold:     5,
		AmbienceDelay: 2 * time.Second,
		SuspenseDelay: 5 * time.Second,
	}
}

// Sequencer maps game events to cue transitions. It owns the set of active cues and
// every deferred cue transition; a deferral superseded by a later event never plays.
type Sequencer struct {
	player   Player
	registry Registry
	cfg      Config
	sched    *schedule.Scheduler

	mu     sync.Mutex
	active map[Name]uint64 // cue -> playback generation
	gen    uint64
	muted  bool
	closed bool
}

// NewSequencer creates a sequencer playing registry cues through player.
func NewSequencer(player Player, registry Registry, cfg Config, clock clockwork.Clock) *Sequencer {
	if player == nil {
		player = NopPlayer{}
	}
	return &Sequencer{
		player:   player,
		registry: registry,
		cfg:      cfg,
		sched:    schedule.New(clock, "sound"),
		active:   make(map[Name]uint64),
		muted:    cfg.Muted,
	}
}

// Threshold returns the configured suspense threshold.
func (s *Sequencer) Threshold() int {
	return s.cfg.Threshold
}

// GameStarted stops everything, plays the start jingle and arms the ambience loop.
func (s *Sequencer) GameStarted() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.sched.CancelAll()
	s.stopAllLocked()
	s.playLocked(CueStart)
	s.sched.After(keyAmbience, s.cfg.AmbienceDelay, s.onAmbience)
}

func (s *Sequencer) onAmbience(t schedule.Ticket) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed || !s.sched.Consume(t) {
		return
	}
	s.playLocked(CueAmbience)
}

// OptionPicked silences a lifeline cue that is still playing.
func (s *Sequencer) OptionPicked() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopLocked(CueLifeline)
}

// AnswerLocked plays the lock-in cue. From the threshold on it first stops everything
// and arms the deferred switch to the suspense cue.
func (s *Sequencer) AnswerLocked(index int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	if index < s.cfg.Threshold {
		s.playLocked(CueLockIn)
		return
	}
	s.sched.CancelAll()
	s.stopAllLocked()
	s.playLocked(CueLockIn)
	if !s.muted {
		s.sched.After(keySuspense, s.cfg.SuspenseDelay, s.onSuspense)
	}
}

func (s *Sequencer) onSuspense(t schedule.Ticket) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed || !s.sched.Consume(t) {
		return
	}
	s.stopLocked(CueLockIn)
	s.playLocked(CueSuspense)
}

// ResultRevealed ends the lock-in sequence. A wrong answer stops everything and always
// plays the wrong-answer cue; a correct one plays the correct cue from the threshold on.
func (s *Sequencer) ResultRevealed(index int, correct bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.sched.Cancel(keySuspense)
	s.stopLocked(CueLockIn)
	s.stopLocked(CueSuspense)

	switch {
	case !correct:
		s.sched.CancelAll()
		s.stopAllLocked()
		s.playLocked(CueWrong)
	case index >= s.cfg.Threshold:
		s.playLocked(CueCorrect)
	}
}

// QuestionChanged replays the start jingle from the threshold on. The ambience loop
// stops exactly when the threshold question comes up.
func (s *Sequencer) QuestionChanged(index int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.sched.Cancel(keySuspense)
	if index < s.cfg.Threshold {
		return
	}
	if index == s.cfg.Threshold {
		s.sched.Cancel(keyAmbience)
		s.stopLocked(CueAmbience)
	}
	s.playLocked(CueStart)
}

// QuestionReopened brings back the ambience loop when an undone walk-away reopens a
// question below the threshold.
func (s *Sequencer) QuestionReopened(index int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed || index >= s.cfg.Threshold {
		return
	}
	s.playLocked(CueAmbience)
}

// LifelineUsed plays the lifeline cue.
func (s *Sequencer) LifelineUsed() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.playLocked(CueLifeline)
}

// GameEnded stops everything; a win also plays the victory cue.
func (s *Sequencer) GameEnded(won bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.sched.CancelAll()
	s.stopAllLocked()
	if won {
		s.playLocked(CueVictory)
	}
}

// Paused stops the ambience loop and drops every pending deferral.
func (s *Sequencer) Paused() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sched.CancelAll()
	s.stopLocked(CueAmbience)
}

// SetMuted toggles muting. Muting stops everything at once and suppresses playback
// until unmuted; unmuting does not bring back what was stopped.
func (s *Sequencer) SetMuted(muted bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.muted == muted {
		return
	}
	s.muted = muted
	if muted {
		s.sched.CancelAll()
		s.stopAllLocked()
	}
	log.Debug().Bool("muted", muted).Msg("sound mute toggled")
}

// Muted reports whether playback is suppressed.
func (s *Sequencer) Muted() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.muted
}

// SetVolume changes a cue's volume for current and future playbacks.
func (s *Sequencer) SetVolume(name Name, volume float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cue, ok := s.registry[name]
	if !ok {
		return
	}
	cue.Volume = volume
	s.registry[name] = cue
	s.player.SetVolume(name, volume)
}

// Active returns the cues currently playing, in registry order.
func (s *Sequencer) Active() []Name {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []Name
	for _, n := range Names {
		if _, ok := s.active[n]; ok {
			out = append(out, n)
		}
	}
	return out
}

// IsActive reports whether a cue is playing.
func (s *Sequencer) IsActive(name Name) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.active[name]
	return ok
}

// SuspensePending reports whether the lock-in to suspense switch is armed.
func (s *Sequencer) SuspensePending() bool {
	return s.sched.Pending(keySuspense)
}

// Close stops every cue and makes all later events inert.
func (s *Sequencer) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.closed = true
	s.sched.Close()
	s.stopAllLocked()
}

func (s *Sequencer) playLocked(name Name) {
	if s.muted || s.closed {
		return
	}
	cue, ok := s.registry[name]
	if !ok {
		log.Warn().Str("cue", string(name)).Msg("cue not registered")
		return
	}

	for _, n := range Names {
		if n == name || s.registry[n].Policy != Interruptible {
			continue
		}
		s.stopLocked(n)
	}
	s.stopLocked(name)

	s.gen++
	gen := s.gen
	if err := s.player.Play(cue, func() { s.ended(name, gen) }); err != nil {
		log.Warn().Err(err).Str("cue", string(name)).Str("path", cue.Path).Msg("cue failed to play, continuing without it")
		return
	}
	s.active[name] = gen
	log.Debug().Str("cue", string(name)).Uint64("gen", gen).Msg("cue started")
}

func (s *Sequencer) stopLocked(name Name) {
	if _, ok := s.active[name]; !ok {
		return
	}
	delete(s.active, name)
	s.player.Stop(name)
	log.Debug().Str("cue", string(name)).Msg("cue stopped")
}

func (s *Sequencer) stopAllLocked() {
	for _, n := range Names {
		s.stopLocked(n)
	}
}

// ended clears a cue that finished on its own, unless it was restarted since.
func (s *Sequencer) ended(name Name, gen uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.active[name] == gen {
		delete(s.active, name)
	}
}
