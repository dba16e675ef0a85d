package metrics

import (
	"context"
	"errors"
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/mcdev12/quizshow/go/internal/game/events"
	"github.com/mcdev12/quizshow/go/internal/game/lifeline"
	"github.com/mcdev12/quizshow/go/internal/game/sound"
	"github.com/mcdev12/quizshow/go/internal/models"
)

func mustEvent(t *testing.T, id uuid.UUID, typ events.EventType, at time.Time, payload any) events.Event {
	t.Helper()
	e, err := events.New(id, typ, at, payload)
	if err != nil {
		t.Fatal(err)
	}
	return e
}

func TestObserverRecordsSessionLifecycle(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewPrometheusMetrics(reg)
	obs := NewObserver(m)

	id := uuid.New()
	t0 := time.Date(2026, 3, 1, 20, 0, 0, 0, time.UTC)

	obs.OnEvent(mustEvent(t, id, events.EventTypeGameStarted, t0, events.GameStartedPayload{QuizID: "friday", TotalQuestions: 3}))
	obs.OnEvent(mustEvent(t, id, events.EventTypeQuestionStarted, t0, events.QuestionStartedPayload{Index: 0, StartedAt: t0}))
	obs.OnEvent(mustEvent(t, id, events.EventTypeAnswerLocked, t0.Add(7*time.Second), events.OptionSelectedPayload{Index: 0, Option: 2}))
	obs.OnEvent(mustEvent(t, id, events.EventTypeAnswerRevealed, t0.Add(9*time.Second), events.AnswerRevealedPayload{Index: 0, Correct: true}))
	obs.OnEvent(mustEvent(t, id, events.EventTypeLifelineUsed, t0.Add(10*time.Second), events.LifelineUsedPayload{
		Index:   1,
		Outcome: lifeline.Outcome{Lifeline: models.LifelineFiftyFifty, Hidden: []int{1, 3}},
	}))
	obs.OnEvent(mustEvent(t, id, events.EventTypeAnswerRevealed, t0.Add(40*time.Second), events.AnswerRevealedPayload{Index: 1, TimedOut: true}))
	obs.OnEvent(mustEvent(t, id, events.EventTypeGameFinished, t0.Add(41*time.Second), events.GameFinishedPayload{
		Result: models.GameResult{SessionID: id, Outcome: models.OutcomeLost, QuestionLevel: 2},
	}))

	checks := []struct {
		name string
		c    prometheus.Collector
		want float64
	}{
		{"started", m.sessionsStarted.WithLabelValues("friday"), 1},
		{"lost", m.sessionsFinished.WithLabelValues("LOST"), 1},
		{"active", m.activeSessions, 0},
		{"fifty_fifty", m.lifelinesUsed.WithLabelValues("fifty_fifty"), 1},
		{"correct", m.answers.WithLabelValues("correct"), 1},
		{"timeout", m.answers.WithLabelValues("timeout"), 1},
		{"wrong", m.answers.WithLabelValues("wrong"), 0},
	}
	for _, c := range checks {
		if got := testutil.ToFloat64(c.c); got != c.want {
			t.Errorf("%s = %v, want %v", c.name, got, c.want)
		}
	}

	if len(obs.asked) != 0 || len(obs.answered) != 0 {
		t.Errorf("observer kept state for a finished session: %d asked, %d answered", len(obs.asked), len(obs.answered))
	}
}

type failingPublisher struct{ err error }

func (f failingPublisher) Publish(context.Context, events.Event) error { return f.err }

func TestMetricPublisher(t *testing.T) {
	m := NewPrometheusMetrics(prometheus.NewRegistry())
	boom := errors.New("nats down")
	e := mustEvent(t, uuid.New(), events.EventTypeTimerTick, time.Now(), events.TimerTickPayload{})

	if err := NewMetricPublisher(failingPublisher{}, m).Publish(context.Background(), e); err != nil {
		t.Fatalf("Publish: %v", err)
	}
	if err := NewMetricPublisher(failingPublisher{err: boom}, m).Publish(context.Background(), e); !errors.Is(err, boom) {
		t.Fatalf("Publish error = %v, want %v", err, boom)
	}

	if got := testutil.ToFloat64(m.eventsPublished.WithLabelValues("TimerTick", "success")); got != 1 {
		t.Errorf("success = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.eventsPublished.WithLabelValues("TimerTick", "failure")); got != 1 {
		t.Errorf("failure = %v, want 1", got)
	}
}

type brokenPlayer struct{ sound.NopPlayer }

func (brokenPlayer) Play(sound.Cue, func()) error { return errors.New("no device") }

func TestMetricPlayerCountsFailures(t *testing.T) {
	m := NewPrometheusMetrics(prometheus.NewRegistry())

	p := NewMetricPlayer(brokenPlayer{}, m)
	if err := p.Play(sound.Cue{Name: sound.CueVictory}, nil); err == nil {
		t.Fatal("expected play error")
	}
	if err := NewMetricPlayer(sound.NopPlayer{}, m).Play(sound.Cue{Name: sound.CueStart}, nil); err != nil {
		t.Fatalf("Play: %v", err)
	}

	if got := testutil.ToFloat64(m.cueFailures.WithLabelValues("victory")); got != 1 {
		t.Errorf("victory failures = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.cueFailures.WithLabelValues("start")); got != 0 {
		t.Errorf("start failures = %v, want 0", got)
	}
}

func TestHandlerExposesMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewPrometheusMetrics(reg)
	m.RecordSessionStarted("")

	rec := httptest.NewRecorder()
	Handler(reg).ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	body, _ := io.ReadAll(rec.Body)
	if !strings.Contains(string(body), `quiz_sessions_started_total{quiz="unknown"} 1`) {
		t.Errorf("metrics output missing started counter:\n%s", body)
	}
}
