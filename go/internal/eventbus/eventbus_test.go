package eventbus

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"

	"github.com/mcdev12/quizshow/go/internal/game/events"
)

type recordingPublisher struct {
	mu  sync.Mutex
	got []events.EventType
	err error
}

func (p *recordingPublisher) Publish(_ context.Context, e events.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.got = append(p.got, e.Type)
	return p.err
}

func (p *recordingPublisher) types() []events.EventType {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]events.EventType(nil), p.got...)
}

func event(t *testing.T, sid uuid.UUID, typ events.EventType) events.Event {
	t.Helper()
	e, err := events.New(sid, typ, time.Now(), struct{}{})
	if err != nil {
		t.Fatal(err)
	}
	return e
}

func TestSubject(t *testing.T) {
	sid := uuid.MustParse("7f1c0f4e-3b35-4d71-9d1d-4ad2b8f0a001")
	e := events.Event{SessionID: sid, Type: events.EventTypeAnswerRevealed}
	want := "quiz.events.7f1c0f4e-3b35-4d71-9d1d-4ad2b8f0a001.AnswerRevealed"
	if got := Subject("quiz.events", e); got != want {
		t.Fatalf("Subject = %q, want %q", got, want)
	}
}

func TestForwarderPublishesInOrderAndSkips(t *testing.T) {
	pub := &recordingPublisher{err: errors.New("bus down")}
	f := NewForwarder(pub, 16, events.EventTypeTimerTick)
	sid := uuid.New()

	done := make(chan struct{})
	go func() {
		f.Run(context.Background())
		close(done)
	}()

	for _, typ := range []events.EventType{
		events.EventTypeGameStarted,
		events.EventTypeTimerTick,
		events.EventTypeOptionSelected,
		events.EventTypeGameFinished,
	} {
		f.OnEvent(event(t, sid, typ))
	}
	f.Close()
	f.OnEvent(event(t, sid, events.EventTypeGameStarted)) // after close: ignored

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after Close")
	}
	want := []events.EventType{events.EventTypeGameStarted, events.EventTypeOptionSelected, events.EventTypeGameFinished}
	if diff := cmp.Diff(want, pub.types()); diff != "" {
		t.Fatalf("published (-want +got):\n%s", diff)
	}
}

func TestForwarderDropsWhenFull(t *testing.T) {
	pub := &recordingPublisher{}
	f := NewForwarder(pub, 2)
	sid := uuid.New()
	for i := 0; i < 5; i++ {
		f.OnEvent(event(t, sid, events.EventTypeTimerTick))
	}
	if got := f.Dropped(); got != 3 {
		t.Fatalf("dropped = %d, want 3", got)
	}
}

func TestForwarderStopsOnContext(t *testing.T) {
	f := NewForwarder(&recordingPublisher{}, 1)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		f.Run(ctx)
		close(done)
	}()
	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Run ignored cancellation")
	}
}

func TestStreamConfig(t *testing.T) {
	cfg := DefaultJetStreamConfig()
	sc := streamConfig(cfg)
	if diff := cmp.Diff([]string{"quiz.events.>"}, sc.Subjects); diff != "" {
		t.Fatalf("subjects (-want +got):\n%s", diff)
	}
	if !isStreamConfigEqual(sc, streamConfig(cfg)) {
		t.Fatal("identical configs compare unequal")
	}
	cfg.MaxAge = time.Hour
	if isStreamConfigEqual(sc, streamConfig(cfg)) {
		t.Fatal("MaxAge change not detected")
	}
}

func TestJetStreamConfigFromEnv(t *testing.T) {
	t.Setenv("NATS_URL", "nats://bus:4222")
	t.Setenv("NATS_SUBJECT_PREFIX", "tv.events")
	cfg := JetStreamConfigFromEnv()
	if cfg.URL != "nats://bus:4222" || cfg.SubjectPrefix != "tv.events" || cfg.StreamName != "QUIZ_EVENTS" {
		t.Fatalf("cfg = %+v", cfg)
	}
}
