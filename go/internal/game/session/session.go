package session

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"

	"github.com/mcdev12/quizshow/go/internal/game/countdown"
	"github.com/mcdev12/quizshow/go/internal/game/events"
	"github.com/mcdev12/quizshow/go/internal/game/lifeline"
	"github.com/mcdev12/quizshow/go/internal/game/schedule"
	"github.com/mcdev12/quizshow/go/internal/game/sound"
	"github.com/mcdev12/quizshow/go/internal/models"
)

// Status is the session's lifecycle state.
type Status string

const (
	StatusNotStarted Status = "NOT_STARTED"
	StatusInProgress Status = "IN_PROGRESS"
	StatusWon        Status = "WON"
	StatusLost       Status = "LOST"
	StatusWalkedAway Status = "WALKED_AWAY"
)

// Terminal reports whether the status ends the game.
func (s Status) Terminal() bool {
	return s == StatusWon || s == StatusLost || s == StatusWalkedAway
}

var ErrNoQuestions = errors.New("session needs at least one question")

const (
	keyReveal  = "reveal"
	keyAdvance = "advance"
	keySummary = "summary"
)

// Sounds receives the semantic game events that drive audio. *sound.Sequencer
// implements it.
type Sounds interface {
	GameStarted()
	OptionPicked()
	AnswerLocked(index int)
	ResultRevealed(index int, correct bool)
	QuestionChanged(index int)
	QuestionReopened(index int)
	LifelineUsed()
	GameEnded(won bool)
	Paused()
	SetMuted(muted bool)
	Muted() bool
	Close()
}

// Lifelines computes lifeline outcomes. *lifeline.Engine implements it.
type Lifelines interface {
	Use(id models.LifelineID, q models.Question) (lifeline.Outcome, error)
}

// ResultSink persists the final result of a session.
type ResultSink interface {
	SaveResult(ctx context.Context, result models.GameResult) error
}

// Notifier shows a non-blocking message to the player.
type Notifier interface {
	Notify(msg string)
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(msg string)

func (f NotifierFunc) Notify(msg string) { f(msg) }

// Config holds the engine delays.
type Config struct {
	RevealDelay    time.Duration `yaml:"reveal_delay"`
	AdvanceDelay   time.Duration `yaml:"advance_delay"`
	SummaryDelay   time.Duration `yaml:"summary_delay"`
	PersistTimeout time.Duration `yaml:"persist_timeout"`
}

// DefaultConfig returns the stock delays.
func DefaultConfig() Config {
	return Config{
		RevealDelay:    2 * time.Second,
		AdvanceDelay:   3 * time.Second,
		SummaryDelay:   1500 * time.Millisecond,
		PersistTimeout: 10 * time.Second,
	}
}

// withDefaults fills every zero delay from DefaultConfig.
func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.RevealDelay <= 0 {
		c.RevealDelay = d.RevealDelay
	}
	if c.AdvanceDelay <= 0 {
		c.AdvanceDelay = d.AdvanceDelay
	}
	if c.SummaryDelay <= 0 {
		c.SummaryDelay = d.SummaryDelay
	}
	if c.PersistTimeout <= 0 {
		c.PersistTimeout = d.PersistTimeout
	}
	return c
}

// Options wires a session to its collaborators. Nil collaborators get silent defaults.
type Options struct {
	ID        uuid.UUID
	TeamID    string
	Config    Config
	Clock     clockwork.Clock
	Sounds    Sounds
	Lifelines Lifelines
	Results   ResultSink
	Notifier  Notifier
	Rand      Rand
	Observers []Observer
}

// Session is one play-through of a quiz. All state is guarded by mu; timer callbacks
// take the same lock and validate their ticket before acting, so a deferral superseded
// while it waited is a no-op.
type Session struct {
	id        uuid.UUID
	quiz      models.QuizConfig
	teamID    string
	cfg       Config
	clock     clockwork.Clock
	sched     *schedule.Scheduler
	timer     *countdown.Countdown
	sounds    Sounds
	lifelines Lifelines
	results   ResultSink
	notifier  Notifier
	rand      Rand
	feed      *feed
	source    []models.Question

	mu          sync.Mutex
	status      Status
	questions   []models.Question
	ladder      models.Ladder
	index       int
	points      int
	selected    *int
	locked      bool
	revealed    bool
	showResult  bool
	lastCorrect bool
	disabled    map[int]bool
	used        map[models.LifelineID]bool
	lastOutcome *lifeline.Outcome
	hostPaused  bool
	history     []models.GameAction
	message     string
	result      *models.GameResult
	startedAt   time.Time
	closed      bool
}

// New validates the questions and builds a session that has not started yet.
func New(questions []models.Question, quiz models.QuizConfig, opts Options) (*Session, error) {
	if len(questions) == 0 {
		return nil, ErrNoQuestions
	}
	for _, q := range questions {
		if err := q.Validate(); err != nil {
			return nil, err
		}
	}
	if err := quiz.Validate(); err != nil {
		return nil, fmt.Errorf("quiz %s: %w", quiz.ID, err)
	}

	if opts.ID == uuid.Nil {
		opts.ID = uuid.New()
	}
	if opts.Clock == nil {
		opts.Clock = clockwork.NewRealClock()
	}
	opts.Config = opts.Config.withDefaults()
	if opts.Rand == nil {
		opts.Rand = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	if opts.Sounds == nil {
		opts.Sounds = sound.NewSequencer(sound.NopPlayer{}, sound.DefaultRegistry(""), sound.DefaultConfig(), opts.Clock)
	}
	if opts.Lifelines == nil {
		opts.Lifelines = lifeline.NewEngine(nil)
	}

	s := &Session{
		id:        opts.ID,
		quiz:      quiz,
		teamID:    opts.TeamID,
		cfg:       opts.Config,
		clock:     opts.Clock,
		sched:     schedule.New(opts.Clock, "session"),
		sounds:    opts.Sounds,
		lifelines: opts.Lifelines,
		results:   opts.Results,
		notifier:  opts.Notifier,
		rand:      opts.Rand,
		feed:      &feed{},
		source:    questions,
		status:    StatusNotStarted,
		disabled:  make(map[int]bool),
		used:      make(map[models.LifelineID]bool),
	}
	s.timer = countdown.New(opts.Clock, countdown.Callbacks{
		OnTick:   s.onTick,
		OnExpire: s.onExpire,
	})
	for _, o := range opts.Observers {
		s.feed.subscribe(o)
	}
	return s, nil
}

// ID returns the session id.
func (s *Session) ID() uuid.UUID {
	return s.id
}

// Subscribe adds an observer for events emitted from now on.
func (s *Session) Subscribe(o Observer) {
	s.feed.subscribe(o)
}

// EmitCue publishes a cue command as a session event. It is the emit function for a
// sound.EventPlayer and never takes the session lock.
func (s *Session) EmitCue(c sound.CueEvent) {
	typ := events.EventTypeCuePlayed
	if c.Action == sound.ActionStop {
		typ = events.EventTypeCueStopped
	}
	ev, err := events.New(s.id, typ, s.clock.Now(), c)
	if err != nil {
		log.Error().Err(err).Str("session_id", s.id.String()).Msg("failed to build cue event")
		return
	}
	s.feed.push(ev)
	go s.feed.flush()
}

// Status returns the lifecycle state.
func (s *Session) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

// Result returns the emitted result, or nil while the session has not produced one.
func (s *Session) Result() *models.GameResult {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.result == nil {
		return nil
	}
	r := *s.result
	return &r
}

// Close stops every timer and cue. A finished session whose result is still pending
// emits it now so the result is never lost; an unfinished one emits nothing.
func (s *Session) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	s.sched.Close()
	s.timer.Close()
	s.sounds.Close()

	var result *models.GameResult
	if s.status.Terminal() && s.result == nil {
		result = s.buildResultLocked()
	}
	s.mu.Unlock()

	s.feed.flush()
	if result != nil {
		s.persist(*result)
	}
	log.Info().Str("session_id", s.id.String()).Msg("session closed")
}

// emitLocked queues an event for delivery once the lock is released.
func (s *Session) emitLocked(typ events.EventType, payload any) {
	ev, err := events.New(s.id, typ, s.clock.Now(), payload)
	if err != nil {
		log.Error().Err(err).Str("session_id", s.id.String()).Str("type", string(typ)).Msg("failed to build session event")
		return
	}
	s.feed.push(ev)
}

// unlock releases the session lock and delivers the events queued under it.
func (s *Session) unlock() {
	s.mu.Unlock()
	s.feed.flush()
}
