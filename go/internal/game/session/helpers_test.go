package session

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/mcdev12/quizshow/go/internal/game/events"
	"github.com/mcdev12/quizshow/go/internal/game/lifeline"
	"github.com/mcdev12/quizshow/go/internal/game/sound"
	"github.com/mcdev12/quizshow/go/internal/models"
)

const waitTimeout = 2 * time.Second

var testConfig = Config{
	RevealDelay:    2 * time.Second,
	AdvanceDelay:   3 * time.Second,
	SummaryDelay:   1500 * time.Millisecond,
	PersistTimeout: time.Second,
}

// buildQuestions returns n questions worth 100, 200, ... in descending order so the
// session has to sort them. The correct option always reads "Right <n>".
func buildQuestions(n int) []models.Question {
	qs := make([]models.Question, 0, n)
	for i := n; i >= 1; i-- {
		qs = append(qs, models.Question{
			ID:                 fmt.Sprintf("q%02d", i),
			Text:               fmt.Sprintf("Question worth %d", i*100),
			Options:            []string{fmt.Sprintf("Right %d", i), "Wrong a", "Wrong b", "Wrong c"},
			CorrectOptionIndex: 0,
			Value:              i * 100,
		})
	}
	return qs
}

func quizFor(n int) models.QuizConfig {
	return models.QuizConfig{
		ID:                "quiz-1",
		Title:             "Friday night",
		NumberOfQuestions: n,
		SelectedLifelines: models.AllLifelines,
	}
}

type memorySink struct {
	mu      sync.Mutex
	results []models.GameResult
	err     error
}

func (m *memorySink) SaveResult(_ context.Context, r models.GameResult) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.results = append(m.results, r)
	return m.err
}

func (m *memorySink) saved() []models.GameResult {
	m.mu.Lock()
	defer m.mu.Unlock()
	return slices.Clone(m.results)
}

type noteLog struct {
	mu    sync.Mutex
	notes []string
}

func (n *noteLog) Notify(msg string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.notes = append(n.notes, msg)
}

func (n *noteLog) count() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.notes)
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

func (l *eventLog) all() []events.Event {
	l.mu.Lock()
	defer l.mu.Unlock()
	return slices.Clone(l.events)
}

func (l *eventLog) has(typ events.EventType) bool {
	for _, e := range l.all() {
		if e.Type == typ {
			return true
		}
	}
	return false
}

type recordingPlayer struct {
	mu  sync.Mutex
	ops []string
}

func (p *recordingPlayer) Play(c sound.Cue, _ func()) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.ops = append(p.ops, "play:"+string(c.Name))
	return nil
}

func (p *recordingPlayer) Stop(n sound.Name) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.ops = append(p.ops, "stop:"+string(n))
}

func (p *recordingPlayer) SetVolume(sound.Name, float64) {}
func (p *recordingPlayer) Close() error { return nil }

func (p *recordingPlayer) played(n sound.Name) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return slices.Contains(p.ops, "play:"+string(n))
}

type harness struct {
	fc     *clockwork.FakeClock
	s      *Session
	seq    *sound.Sequencer
	player *recordingPlayer
	sink   *memorySink
	notes  *noteLog
	log    *eventLog
}

func newHarness(questions []models.Question, quiz models.QuizConfig) (*harness, error) {
	fc := clockwork.NewFakeClock()
	h := &harness{
		fc:     fc,
		player: &recordingPlayer{},
		sink:   &memorySink{},
		notes:  &noteLog{},
		log:    &eventLog{},
	}
	h.seq = sound.NewSequencer(h.player, sound.DefaultRegistry("assets"), sound.DefaultConfig(), fc)
	s, err := New(questions, quiz, Options{
		TeamID:    "team-7",
		Config:    testConfig,
		Clock:     fc,
		Sounds:    h.seq,
		Lifelines: lifeline.NewEngine(rand.New(rand.NewPCG(7, 11))),
		Results:   h.sink,
		Notifier:  h.notes,
		Rand:      rand.New(rand.NewPCG(3, 5)),
		Observers: []Observer{h.log},
	})
	if err != nil {
		return nil, err
	}
	h.s = s
	return h, nil
}

func waitFor(what string, cond func() bool) error {
	deadline := time.Now().Add(waitTimeout)
	for time.Now().Before(deadline) {
		if cond() {
			return nil
		}
		time.Sleep(2 * time.Millisecond)
	}
	return fmt.Errorf("timed out waiting for %s", what)
}

func correctIndex(snap Snapshot) int {
	for _, o := range snap.Options {
		if strings.HasPrefix(o.Text, "Right") {
			return o.Index
		}
	}
	return -1
}

func wrongIndex(snap Snapshot) int {
	for _, o := range snap.Options {
		if !strings.HasPrefix(o.Text, "Right") && !o.Disabled {
			return o.Index
		}
	}
	return -1
}

// answer plays the current question to its reveal and, after a correct answer that is
// not the last, on to the next question.
func (h *harness) answer(correct bool) error {
	snap := h.s.Snapshot()
	idx := snap.QuestionIndex
	pick := wrongIndex(snap)
	if correct {
		pick = correctIndex(snap)
	}
	if !h.s.SelectOption(pick) {
		return fmt.Errorf("question %d: select %d rejected", idx, pick)
	}
	if !h.s.LockInAnswer() {
		return fmt.Errorf("question %d: lock-in rejected", idx)
	}

	h.fc.Advance(testConfig.RevealDelay)
	if err := waitFor("reveal", func() bool { return h.s.Snapshot().Revealed }); err != nil {
		return err
	}
	if !correct || idx == snap.TotalQuestions-1 {
		return nil
	}

	h.fc.Advance(testConfig.AdvanceDelay)
	return waitFor("next question", func() bool { return h.s.Snapshot().QuestionIndex == idx+1 })
}

// finish lets the summary delay pass and waits for the result to reach the sink.
func (h *harness) finish() (models.GameResult, error) {
	h.fc.Advance(testConfig.SummaryDelay)
	if err := waitFor("result", func() bool { return len(h.sink.saved()) > 0 }); err != nil {
		return models.GameResult{}, err
	}
	saved := h.sink.saved()
	if len(saved) != 1 {
		return models.GameResult{}, fmt.Errorf("sink got %d results, want 1", len(saved))
	}
	return saved[0], nil
}

func sumValues(upTo int) int {
	total := 0
	for i := 1; i <= upTo; i++ {
		total += i * 100
	}
	return total
}

var errStoreDown = errors.New("store down")
