package host

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"connectrpc.com/connect"
	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"

	"github.com/mcdev12/quizshow/go/internal/game/events"
	"github.com/mcdev12/quizshow/go/internal/game/session"
	"github.com/mcdev12/quizshow/go/internal/models"
	"github.com/mcdev12/quizshow/go/internal/questionbank"
)

var testSession = session.Config{
	RevealDelay:    2 * time.Second,
	AdvanceDelay:   3 * time.Second,
	SummaryDelay:   1500 * time.Millisecond,
	PersistTimeout: time.Second,
}

type memorySource map[string]*questionbank.Quiz

func (m memorySource) LoadQuiz(_ context.Context, id string) (*questionbank.Quiz, error) {
	q, ok := m[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", questionbank.ErrQuizNotFound, id)
	}
	return q, nil
}

func miniQuiz() *questionbank.Quiz {
	return &questionbank.Quiz{
		Config: models.QuizConfig{
			ID:                "mini",
			Title:             "Mini",
			SelectedLifelines: []models.LifelineID{models.LifelineFiftyFifty},
		},
		Questions: []models.Question{
			{ID: "q1", Text: "One?", Options: []string{"Right 1", "Wrong a", "Wrong b", "Wrong c"}, Value: 100},
			{ID: "q2", Text: "Two?", Options: []string{"Right 2", "Wrong a", "Wrong b", "Wrong c"}, Value: 200},
		},
	}
}

type memorySink struct {
	mu      sync.Mutex
	results []models.GameResult
}

func (m *memorySink) SaveResult(_ context.Context, r models.GameResult) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.results = append(m.results, r)
	return nil
}

func (m *memorySink) saved() []models.GameResult {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]models.GameResult(nil), m.results...)
}

type eventLog struct {
	mu     sync.Mutex
	events []events.Event
}

func (l *eventLog) OnEvent(e events.Event) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.events = append(l.events, e)
}

func (l *eventLog) count(typ events.EventType) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	n := 0
	for _, e := range l.events {
		if e.Type == typ {
			n++
		}
	}
	return n
}

type fixture struct {
	fc     *clockwork.FakeClock
	app    *App
	sink   *memorySink
	log    *eventLog
	client *HostServiceClient
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		fc:   clockwork.NewFakeClock(),
		sink: &memorySink{},
		log:  &eventLog{},
	}
	cfg := DefaultConfig()
	cfg.Session = testSession
	f.app = NewApp(cfg, Deps{
		Quizzes:   memorySource{"mini": miniQuiz()},
		Results:   f.sink,
		Observers: []session.Observer{f.log},
		Clock:     f.fc,
	})

	mux := http.NewServeMux()
	mux.Handle(NewHostServiceHandler(NewService(f.app)))
	srv := httptest.NewServer(mux)
	t.Cleanup(func() {
		srv.Close()
		f.app.Shutdown()
	})
	f.client = NewHostServiceClient(srv.Client(), srv.URL)
	return f
}

func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatalf("timed out waiting for %s", what)
		}
		time.Sleep(2 * time.Millisecond)
	}
}

func optionStartingWith(snap session.Snapshot, prefix string) int {
	for _, o := range snap.Options {
		if strings.HasPrefix(o.Text, prefix) && !o.Disabled {
			return o.Index
		}
	}
	return -1
}

func (f *fixture) state(t *testing.T, id string) session.Snapshot {
	t.Helper()
	resp, err := f.client.GetState(context.Background(), &SessionRequest{SessionID: id})
	if err != nil {
		t.Fatalf("GetState: %v", err)
	}
	return resp.State
}

func TestHostPlaysGameOverConnect(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	started, err := f.client.StartGame(ctx, &StartGameRequest{QuizID: "mini", TeamID: "team-1"})
	if err != nil {
		t.Fatalf("StartGame: %v", err)
	}
	if !started.Applied || started.State.Status != session.StatusInProgress {
		t.Fatalf("start = %+v", started)
	}
	id := started.State.SessionID.String()

	pick := optionStartingWith(started.State, "Right")
	if resp, err := f.client.SelectOption(ctx, &SelectOptionRequest{SessionID: id, Option: pick}); err != nil || !resp.Applied {
		t.Fatalf("SelectOption: applied=%v err=%v", resp != nil && resp.Applied, err)
	}
	if resp, err := f.client.LockInAnswer(ctx, &SessionRequest{SessionID: id}); err != nil || !resp.State.Locked {
		t.Fatalf("LockInAnswer: %+v %v", resp, err)
	}

	f.fc.Advance(testSession.RevealDelay)
	waitFor(t, "reveal", func() bool { return f.state(t, id).Revealed })
	f.fc.Advance(testSession.AdvanceDelay)
	waitFor(t, "second question", func() bool { return f.state(t, id).QuestionIndex == 1 })

	walked, err := f.client.WalkAway(ctx, &SessionRequest{SessionID: id})
	if err != nil || walked.State.Status != session.StatusWalkedAway {
		t.Fatalf("WalkAway: %+v %v", walked, err)
	}

	f.fc.Advance(testSession.SummaryDelay)
	waitFor(t, "result", func() bool { return len(f.sink.saved()) == 1 })

	got := f.sink.saved()[0]
	if got.TotalWon != 100 || got.QuestionLevel != 2 || got.Outcome != models.OutcomeWalkedAway || got.TeamID != "team-1" {
		t.Errorf("result = %+v", got)
	}

	waitFor(t, "cue events", func() bool { return f.log.count(events.EventTypeCuePlayed) > 0 })
	if f.log.count(events.EventTypeGameFinished) != 1 {
		t.Errorf("GameFinished events = %d, want 1", f.log.count(events.EventTypeGameFinished))
	}
}

func TestHostLifelineAndUndo(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	started, err := f.client.StartGame(ctx, &StartGameRequest{QuizID: "mini"})
	if err != nil {
		t.Fatal(err)
	}
	id := started.State.SessionID.String()

	used, err := f.client.UseLifeline(ctx, &UseLifelineRequest{SessionID: id, Lifeline: models.LifelineFiftyFifty})
	if err != nil {
		t.Fatal(err)
	}
	if !used.Applied || used.Outcome == nil || len(used.Outcome.Hidden) != 2 {
		t.Fatalf("UseLifeline = %+v", used)
	}

	again, err := f.client.UseLifeline(ctx, &UseLifelineRequest{SessionID: id, Lifeline: models.LifelineFiftyFifty})
	if err != nil {
		t.Fatal(err)
	}
	if again.Applied || again.Outcome != nil {
		t.Errorf("second use applied: %+v", again)
	}

	undone, err := f.client.Undo(ctx, &SessionRequest{SessionID: id})
	if err != nil {
		t.Fatal(err)
	}
	if undone.Undone == nil || undone.Undone.Type != models.ActionLifeline {
		t.Fatalf("Undo = %+v", undone)
	}
	for _, o := range undone.State.Options {
		if o.Disabled {
			t.Errorf("option %d still disabled after undo", o.Index)
		}
	}

	paused, err := f.client.Pause(ctx, &SessionRequest{SessionID: id})
	if err != nil || !paused.State.HostPaused {
		t.Fatalf("Pause: %+v %v", paused, err)
	}
	resumed, err := f.client.Resume(ctx, &SessionRequest{SessionID: id})
	if err != nil || resumed.State.HostPaused {
		t.Fatalf("Resume: %+v %v", resumed, err)
	}
	muted, err := f.client.SetMuted(ctx, &SetMutedRequest{SessionID: id, Muted: true})
	if err != nil || !muted.State.Muted {
		t.Fatalf("SetMuted: %+v %v", muted, err)
	}
}

func TestHostErrorCodes(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	started, err := f.client.StartGame(ctx, &StartGameRequest{QuizID: "mini"})
	if err != nil {
		t.Fatal(err)
	}
	live := started.State.SessionID.String()

	tests := []struct {
		name string
		call func() error
		want connect.Code
	}{
		{"missing quiz id", func() error {
			_, err := f.client.StartGame(ctx, &StartGameRequest{})
			return err
		}, connect.CodeInvalidArgument},
		{"unknown quiz", func() error {
			_, err := f.client.StartGame(ctx, &StartGameRequest{QuizID: "nope"})
			return err
		}, connect.CodeNotFound},
		{"malformed session id", func() error {
			_, err := f.client.GetState(ctx, &SessionRequest{SessionID: "xyz"})
			return err
		}, connect.CodeInvalidArgument},
		{"unknown session", func() error {
			_, err := f.client.LockInAnswer(ctx, &SessionRequest{SessionID: uuid.NewString()})
			return err
		}, connect.CodeNotFound},
		{"unknown lifeline", func() error {
			_, err := f.client.UseLifeline(ctx, &UseLifelineRequest{SessionID: live, Lifeline: "phone_a_friend"})
			return err
		}, connect.CodeInvalidArgument},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := connect.CodeOf(tt.call()); got != tt.want {
				t.Errorf("code = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSweepEvictsFinishedAndIdleSessions(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	finished, err := f.app.StartGame(ctx, "mini", "")
	if err != nil {
		t.Fatal(err)
	}
	idle, err := f.app.StartGame(ctx, "mini", "")
	if err != nil {
		t.Fatal(err)
	}

	if _, err := f.app.WalkAway(finished.State.SessionID); err != nil {
		t.Fatal(err)
	}
	f.fc.Advance(testSession.SummaryDelay)
	waitFor(t, "result", func() bool { return len(f.sink.saved()) == 1 })

	active, err := f.app.ActiveSessions(ctx)
	if err != nil || len(active) != 2 {
		t.Fatalf("ActiveSessions = %v, %v", active, err)
	}
	if f.app.Sweep() != 0 {
		t.Fatal("swept a session before retention elapsed")
	}

	f.fc.Advance(DefaultConfig().Retention)
	if n := f.app.Sweep(); n != 1 {
		t.Fatalf("first sweep evicted %d, want 1", n)
	}
	if _, err := f.app.SessionState(ctx, finished.State.SessionID); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("finished session still present: %v", err)
	}

	f.fc.Advance(DefaultConfig().IdleTimeout)
	if n := f.app.Sweep(); n != 1 {
		t.Fatalf("second sweep evicted %d, want 1", n)
	}
	if _, err := f.app.GetState(idle.State.SessionID); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("idle session still present: %v", err)
	}
	if f.app.Len() != 0 {
		t.Errorf("Len = %d, want 0", f.app.Len())
	}
}

func TestStartGameAfterShutdown(t *testing.T) {
	f := newFixture(t)
	f.app.Shutdown()
	if _, err := f.app.StartGame(context.Background(), "mini", ""); !errors.Is(err, ErrShuttingDown) {
		t.Errorf("error = %v, want ErrShuttingDown", err)
	}
}
