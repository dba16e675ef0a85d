package play

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"

	"github.com/mcdev12/quizshow/go/internal/game/events"
	"github.com/mcdev12/quizshow/go/internal/models"
)

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func press(t *testing.T, m Model, msgs ...tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	var cmd tea.Cmd
	for _, msg := range msgs {
		var next tea.Model
		next, cmd = m.Update(msg)
		var ok bool
		m, ok = next.(Model)
		if !ok {
			t.Fatalf("Update returned %T", next)
		}
	}
	return m, cmd
}

func isQuit(cmd tea.Cmd) bool {
	if cmd == nil {
		return false
	}
	_, ok := cmd().(tea.QuitMsg)
	return ok
}

func TestModelKeysDriveTheGame(t *testing.T) {
	game := newFakeGame()
	m := NewModel(game, nil, Options{Title: "Friday", NoColor: true})

	m, _ = press(t, m,
		runes("b"),
		tea.KeyMsg{Type: tea.KeyEnter},
		runes("f"),
		runes("p"),
		runes("u"),
		tea.KeyMsg{Type: tea.KeySpace},
		tea.KeyMsg{Type: tea.KeySpace},
		runes("m"),
		runes("w"),
		runes("z"),
	)

	want := []string{
		"select",
		"lock",
		"lifeline:" + string(models.LifelineFiftyFifty),
		"lifeline:" + string(models.LifelineAudiencePoll),
		"undo",
		"pause",
		"resume",
		"mute",
		"walk",
	}
	if diff := cmp.Diff(want, game.recorded()); diff != "" {
		t.Errorf("calls mismatch (-want +got):\n%s", diff)
	}
	if m.snap.SelectedOption == nil || *m.snap.SelectedOption != 1 {
		t.Errorf("selected option = %v, want 1", m.snap.SelectedOption)
	}
	if !m.snap.Muted {
		t.Error("expected the snapshot to report muted")
	}
	if m.last != "Undid walk away" {
		t.Errorf("last = %q", m.last)
	}
}

func TestModelQuit(t *testing.T) {
	m := NewModel(newFakeGame(), nil, Options{NoColor: true})
	if _, cmd := press(t, m, runes("q")); !isQuit(cmd) {
		t.Error("q should quit")
	}
	if _, cmd := press(t, m, tea.KeyMsg{Type: tea.KeyCtrlC}); !isQuit(cmd) {
		t.Error("ctrl+c should quit")
	}
}

func TestModelFinishedIgnoresGameKeys(t *testing.T) {
	game := newFakeGame()
	m := NewModel(game, nil, Options{NoColor: true})

	result := models.GameResult{TotalWon: 300, QuestionLevel: 3, Outcome: models.OutcomeWalkedAway}
	game.setResult(&result)
	e, err := events.New(uuid.New(), events.EventTypeGameFinished, time.Now(), events.GameFinishedPayload{Result: result})
	if err != nil {
		t.Fatal(err)
	}

	m, _ = press(t, m, eventMsg{Event: e})
	if !m.finished {
		t.Fatal("expected finished after GameFinished")
	}
	if m.last != "Final score: 300" {
		t.Errorf("last = %q", m.last)
	}

	m, cmd := press(t, m, runes("a"))
	if cmd != nil {
		t.Error("option keys should do nothing once finished")
	}
	if len(game.recorded()) != 0 {
		t.Errorf("unexpected calls %v", game.recorded())
	}
	if _, cmd := press(t, m, tea.KeyMsg{Type: tea.KeyEnter}); !isQuit(cmd) {
		t.Error("enter should close the finished game")
	}
}

func TestModelTickPicksUpTimeoutResult(t *testing.T) {
	game := newFakeGame()
	m := NewModel(game, nil, Options{NoColor: true})

	game.setResult(&models.GameResult{Outcome: models.OutcomeLost})
	m, cmd := press(t, m, tickMsg(time.Now()))
	if !m.finished {
		t.Error("tick should notice the result")
	}
	if cmd == nil {
		t.Error("tick should schedule the next tick")
	}
}

func TestModelNoticeAndView(t *testing.T) {
	m := NewModel(newFakeGame(), nil, Options{Title: "Friday", NoColor: true})
	m, _ = press(t, m, tea.WindowSizeMsg{Width: 80, Height: 24}, noticeMsg("Saving result failed"))

	view := m.View()
	for _, want := range []string{"Friday", "Which planet is red?", "Mars", "Saving result failed"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q:\n%s", want, view)
		}
	}
}

func TestFeedDropsWhenFullAndStopsAfterClose(t *testing.T) {
	f := NewFeed(1)
	f.Notify("first")
	f.Notify("second")

	msg := <-f.messages()
	if msg != noticeMsg("first") {
		t.Errorf("got %v, want first notice", msg)
	}

	f.Close()
	f.Close()
	f.Notify("after close")

	if msg := waitForMsg(f.messages())(); msg != tea.Quit() {
		t.Errorf("closed feed should quit, got %#v", msg)
	}
}
