package play

import (
	"sync"
	"time"

	"github.com/mcdev12/quizshow/go/internal/game/lifeline"
	"github.com/mcdev12/quizshow/go/internal/game/session"
	"github.com/mcdev12/quizshow/go/internal/models"
)

// fakeGame records the commands the UI sends and serves a fixed snapshot.
type fakeGame struct {
	mu    sync.Mutex
	snap  session.Snapshot
	calls []string
	allow bool
}

func newFakeGame() *fakeGame {
	return &fakeGame{
		allow: true,
		snap: session.Snapshot{
			Status:         session.StatusInProgress,
			TotalQuestions: 3,
			Question:       "Which planet is red?",
			QuestionPoints: 100,
			TimeLeftSec:    20,
			Options: []session.OptionView{
				{Index: 0, Text: "Venus"},
				{Index: 1, Text: "Mars"},
				{Index: 2, Text: "Jupiter"},
				{Index: 3, Text: "Saturn"},
			},
			Ladder: models.Ladder{{Number: 1, Points: 100, TimeLimit: 30 * time.Second}},
		},
	}
}

func (g *fakeGame) record(call string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.calls = append(g.calls, call)
	return g.allow
}

func (g *fakeGame) recorded() []string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]string(nil), g.calls...)
}

func (g *fakeGame) setResult(r *models.GameResult) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.snap.Result = r
}

func (g *fakeGame) Snapshot() session.Snapshot {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.snap
}

func (g *fakeGame) SelectOption(i int) bool {
	ok := g.record("select")
	g.mu.Lock()
	g.snap.SelectedOption = &i
	g.mu.Unlock()
	return ok
}

func (g *fakeGame) LockInAnswer() bool { return g.record("lock") }
func (g *fakeGame) WalkAway() bool     { return g.record("walk") }

func (g *fakeGame) Pause() bool {
	ok := g.record("pause")
	g.mu.Lock()
	g.snap.HostPaused = true
	g.mu.Unlock()
	return ok
}

func (g *fakeGame) Resume() bool {
	ok := g.record("resume")
	g.mu.Lock()
	g.snap.HostPaused = false
	g.mu.Unlock()
	return ok
}

func (g *fakeGame) SetMuted(muted bool) {
	if muted {
		g.record("mute")
	} else {
		g.record("unmute")
	}
	g.mu.Lock()
	g.snap.Muted = muted
	g.mu.Unlock()
}

func (g *fakeGame) UseLifeline(id models.LifelineID) (lifeline.Outcome, bool) {
	ok := g.record("lifeline:" + string(id))
	return lifeline.Outcome{}, ok
}

func (g *fakeGame) Undo() (models.GameAction, bool) {
	ok := g.record("undo")
	return models.GameAction{Type: models.ActionWalkAway}, ok
}
