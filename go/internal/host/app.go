package host

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"

	"github.com/mcdev12/quizshow/go/internal/config"
	"github.com/mcdev12/quizshow/go/internal/game/lifeline"
	"github.com/mcdev12/quizshow/go/internal/game/session"
	"github.com/mcdev12/quizshow/go/internal/game/sound"
	"github.com/mcdev12/quizshow/go/internal/gateway"
	"github.com/mcdev12/quizshow/go/internal/metrics"
	"github.com/mcdev12/quizshow/go/internal/models"
	"github.com/mcdev12/quizshow/go/internal/questionbank"
)

// Config holds the host's engine settings and session retention.
type Config struct {
	Session session.Config
	Sound   sound.Config
	// Cues are played by remote clients, so paths are URLs relative to the web client.
	Cues          sound.Registry
	Retention     time.Duration // finished sessions stay queryable this long
	IdleTimeout   time.Duration // sessions without commands for this long are closed
	SweepInterval time.Duration
}

// DefaultConfig returns the stock host settings.
func DefaultConfig() Config {
	return Config{
		Session:       session.DefaultConfig(),
		Sound:         sound.DefaultConfig(),
		Cues:          sound.DefaultRegistry("/sounds"),
		Retention:     5 * time.Minute,
		IdleTimeout:   time.Hour,
		SweepInterval: 30 * time.Second,
	}
}

// ConfigFromEnv reads HOST_* overrides on top of DefaultConfig.
func ConfigFromEnv() Config {
	cfg := DefaultConfig()
	cfg.Cues = sound.DefaultRegistry(config.GetEnv("HOST_SOUNDS_URL", "/sounds"))
	cfg.Retention = config.GetEnvAsDuration("HOST_RETENTION", cfg.Retention)
	cfg.IdleTimeout = config.GetEnvAsDuration("HOST_IDLE_TIMEOUT", cfg.IdleTimeout)
	cfg.SweepInterval = config.GetEnvAsDuration("HOST_SWEEP_INTERVAL", cfg.SweepInterval)
	cfg.Sound.Threshold = config.GetEnvAsInt("HOST_SUSPENSE_THRESHOLD", cfg.Sound.Threshold)
	return cfg
}

// Deps are the collaborators shared by every hosted session.
type Deps struct {
	Quizzes   questionbank.Source
	Results   session.ResultSink
	Metrics   metrics.Collector
	Observers []session.Observer
	Clock     clockwork.Clock
}

// App runs many sessions side by side, keyed by session id.
type App struct {
	cfg  Config
	deps Deps

	mu       sync.RWMutex
	sessions map[uuid.UUID]*hosted
	closed   bool
}

type hosted struct {
	sess      *session.Session
	createdAt time.Time

	mu         sync.Mutex
	lastActive time.Time
	notice     string
}

func (h *hosted) Notify(msg string) {
	h.mu.Lock()
	h.notice = msg
	h.mu.Unlock()
	log.Warn().Str("session_id", h.sess.ID().String()).Str("notice", msg).Msg("session notice")
}

func (h *hosted) touch(now time.Time) {
	h.mu.Lock()
	h.lastActive = now
	h.mu.Unlock()
}

func (h *hosted) state() (string, time.Time) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.notice, h.lastActive
}

// cueRelay lets the sequencer report cues to a session built after it.
type cueRelay struct {
	target atomic.Pointer[session.Session]
}

func (r *cueRelay) emit(c sound.CueEvent) {
	if s := r.target.Load(); s != nil {
		s.EmitCue(c)
	}
}

func NewApp(cfg Config, deps Deps) *App {
	if deps.Clock == nil {
		deps.Clock = clockwork.NewRealClock()
	}
	if deps.Metrics == nil {
		deps.Metrics = metrics.NoOpCollector{}
	}
	if cfg.Cues == nil {
		cfg.Cues = sound.DefaultRegistry("/sounds")
	}
	return &App{
		cfg:      cfg,
		deps:     deps,
		sessions: make(map[uuid.UUID]*hosted),
	}
}

// StartGame loads the quiz, starts a session and returns its first state.
func (a *App) StartGame(ctx context.Context, quizID, teamID string) (StateResponse, error) {
	quiz, err := a.deps.Quizzes.LoadQuiz(ctx, quizID)
	if err != nil {
		return StateResponse{}, err
	}

	relay := &cueRelay{}
	player := metrics.NewMetricPlayer(sound.NewEventPlayer(relay.emit), a.deps.Metrics)
	h := &hosted{createdAt: a.deps.Clock.Now()}

	sess, err := session.New(quiz.Questions, quiz.Config, session.Options{
		TeamID:    teamID,
		Config:    a.cfg.Session,
		Clock:     a.deps.Clock,
		Sounds:    sound.NewSequencer(player, a.cfg.Cues, a.cfg.Sound, a.deps.Clock),
		Results:   a.deps.Results,
		Notifier:  h,
		Observers: a.deps.Observers,
	})
	if err != nil {
		return StateResponse{}, fmt.Errorf("failed to create session for quiz %s: %w", quizID, err)
	}
	relay.target.Store(sess)
	h.sess = sess
	h.lastActive = h.createdAt

	a.mu.Lock()
	if a.closed {
		a.mu.Unlock()
		sess.Close()
		return StateResponse{}, ErrShuttingDown
	}
	a.sessions[sess.ID()] = h
	a.mu.Unlock()

	applied := sess.Start()
	log.Info().
		Str("session_id", sess.ID().String()).
		Str("quiz_id", quizID).
		Str("team_id", teamID).
		Msg("hosted session started")
	return StateResponse{Applied: applied, State: sess.Snapshot()}, nil
}

func (a *App) lookup(id uuid.UUID) (*hosted, error) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	h, ok := a.sessions[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}
	return h, nil
}

// command runs fn against the session and reports the state afterwards.
func (a *App) command(id uuid.UUID, fn func(*session.Session) bool) (StateResponse, error) {
	h, err := a.lookup(id)
	if err != nil {
		return StateResponse{}, err
	}
	h.touch(a.deps.Clock.Now())
	applied := fn(h.sess)
	notice, _ := h.state()
	return StateResponse{Applied: applied, State: h.sess.Snapshot(), Notice: notice}, nil
}

func (a *App) SelectOption(id uuid.UUID, option int) (StateResponse, error) {
	return a.command(id, func(s *session.Session) bool { return s.SelectOption(option) })
}

func (a *App) LockInAnswer(id uuid.UUID) (StateResponse, error) {
	return a.command(id, (*session.Session).LockInAnswer)
}

func (a *App) UseLifeline(id uuid.UUID, lifelineID models.LifelineID) (UseLifelineResponse, error) {
	if !lifelineID.Valid() {
		return UseLifelineResponse{}, fmt.Errorf("%w: %q", ErrInvalidLifeline, lifelineID)
	}
	var out *lifeline.Outcome
	resp, err := a.command(id, func(s *session.Session) bool {
		o, ok := s.UseLifeline(lifelineID)
		if ok {
			out = &o
		}
		return ok
	})
	return UseLifelineResponse{StateResponse: resp, Outcome: out}, err
}

func (a *App) WalkAway(id uuid.UUID) (StateResponse, error) {
	return a.command(id, (*session.Session).WalkAway)
}

func (a *App) Undo(id uuid.UUID) (UndoResponse, error) {
	var undone *models.GameAction
	resp, err := a.command(id, func(s *session.Session) bool {
		action, ok := s.Undo()
		if ok {
			undone = &action
		}
		return ok
	})
	return UndoResponse{StateResponse: resp, Undone: undone}, err
}

func (a *App) Pause(id uuid.UUID) (StateResponse, error) {
	return a.command(id, (*session.Session).Pause)
}

func (a *App) Resume(id uuid.UUID) (StateResponse, error) {
	return a.command(id, (*session.Session).Resume)
}

func (a *App) SetMuted(id uuid.UUID, muted bool) (StateResponse, error) {
	return a.command(id, func(s *session.Session) bool {
		s.SetMuted(muted)
		return true
	})
}

func (a *App) GetState(id uuid.UUID) (StateResponse, error) {
	h, err := a.lookup(id)
	if err != nil {
		return StateResponse{}, err
	}
	notice, _ := h.state()
	return StateResponse{Applied: true, State: h.sess.Snapshot(), Notice: notice}, nil
}

// SessionState implements gateway.StateProvider.
func (a *App) SessionState(_ context.Context, id uuid.UUID) (*session.Snapshot, error) {
	h, err := a.lookup(id)
	if err != nil {
		return nil, err
	}
	snap := h.sess.Snapshot()
	return &snap, nil
}

// ActiveSessions implements gateway.StateProvider. Sessions are listed oldest first.
func (a *App) ActiveSessions(context.Context) ([]gateway.SessionSummary, error) {
	a.mu.RLock()
	all := make([]*hosted, 0, len(a.sessions))
	for _, h := range a.sessions {
		all = append(all, h)
	}
	a.mu.RUnlock()

	sort.Slice(all, func(i, j int) bool { return all[i].createdAt.Before(all[j].createdAt) })
	out := make([]gateway.SessionSummary, 0, len(all))
	for _, h := range all {
		out = append(out, gateway.SummaryOf(h.sess.Snapshot()))
	}
	return out, nil
}

// Len returns the number of hosted sessions.
func (a *App) Len() int {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return len(a.sessions)
}

// Sweep closes and forgets sessions whose result is older than the retention period and
// sessions that saw no command for the idle timeout. It returns how many it evicted.
func (a *App) Sweep() int {
	now := a.deps.Clock.Now()

	var evicted []*hosted
	a.mu.Lock()
	for id, h := range a.sessions {
		_, lastActive := h.state()
		expired := now.Sub(lastActive) >= a.cfg.IdleTimeout
		if r := h.sess.Result(); r != nil {
			expired = expired || now.Sub(r.FinishedAt) >= a.cfg.Retention
		}
		if expired {
			delete(a.sessions, id)
			evicted = append(evicted, h)
		}
	}
	a.mu.Unlock()

	for _, h := range evicted {
		h.sess.Close()
		log.Info().Str("session_id", h.sess.ID().String()).Str("status", string(h.sess.Status())).Msg("hosted session evicted")
	}
	return len(evicted)
}

// Run sweeps on the configured interval until ctx is done.
func (a *App) Run(ctx context.Context) {
	ticker := a.deps.Clock.NewTicker(a.cfg.SweepInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.Chan():
			a.Sweep()
		}
	}
}

// Shutdown closes every session. Finished sessions with a pending result persist it.
func (a *App) Shutdown() {
	a.mu.Lock()
	a.closed = true
	all := a.sessions
	a.sessions = make(map[uuid.UUID]*hosted)
	a.mu.Unlock()

	for _, h := range all {
		h.sess.Close()
	}
	log.Info().Int("sessions", len(all)).Msg("host shut down")
}
