package play

import (
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/mcdev12/quizshow/go/internal/game/events"
	"github.com/mcdev12/quizshow/go/internal/game/lifeline"
	"github.com/mcdev12/quizshow/go/internal/game/session"
	"github.com/mcdev12/quizshow/go/internal/models"
)

// Game is the part of a session the terminal UI drives. *session.Session implements it.
type Game interface {
	Snapshot() session.Snapshot
	SelectOption(i int) bool
	LockInAnswer() bool
	UseLifeline(id models.LifelineID) (lifeline.Outcome, bool)
	WalkAway() bool
	Undo() (models.GameAction, bool)
	Pause() bool
	Resume() bool
	SetMuted(muted bool)
}

// Options configures the terminal UI.
type Options struct {
	Title        string
	NoColor      bool
	TickInterval time.Duration
}

// Model renders one quiz session with Bubble Tea.
type Model struct {
	game     Game
	feed     <-chan tea.Msg
	snap     session.Snapshot
	keys     keyMap
	help     help.Model
	timer    progress.Model
	title    string
	noColor  bool
	tick     time.Duration
	width    int
	notice   string
	last     string
	finished bool
}

// NewModel builds the UI for game, updated by the messages of feed.
func NewModel(game Game, feed *Feed, opts Options) Model {
	tick := opts.TickInterval
	if tick <= 0 {
		tick = 200 * time.Millisecond
	}
	bar := progress.New(progress.WithDefaultGradient(), progress.WithoutPercentage())
	if opts.NoColor {
		bar = progress.New(progress.WithSolidFill("7"), progress.WithoutPercentage())
	}
	bar.Width = 40

	var ch <-chan tea.Msg
	if feed != nil {
		ch = feed.messages()
	}
	return Model{
		game:    game,
		feed:    ch,
		snap:    game.Snapshot(),
		keys:    defaultKeyMap(),
		help:    help.New(),
		timer:   bar,
		title:   opts.Title,
		noColor: opts.NoColor,
		tick:    tick,
	}
}

// Init starts ticking and waits for the first session message.
func (m Model) Init() tea.Cmd {
	return tea.Batch(waitForMsg(m.feed), tickEvery(m.tick))
}

// tickMsg refreshes the countdown between session events.
type tickMsg time.Time

func tickEvery(interval time.Duration) tea.Cmd {
	return tea.Tick(interval, func(t time.Time) tea.Msg { return tickMsg(t) })
}

// Update handles keys, session messages and ticks.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch typed := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = typed.Width
		m.timer.Width = max(min(typed.Width-4, 60), 10)
		m.help.Width = typed.Width
		return m, nil
	case eventMsg:
		m = m.applyEvent(typed.Event)
		return m, waitForMsg(m.feed)
	case noticeMsg:
		m.notice = string(typed)
		return m, waitForMsg(m.feed)
	case tickMsg:
		m.snap = m.game.Snapshot()
		m.finished = m.finished || m.snap.Result != nil
		return m, tickEvery(m.tick)
	case tea.KeyMsg:
		return m.handleKey(typed)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Quit) {
		return m, tea.Quit
	}
	if m.finished {
		if key.Matches(msg, m.keys.LockIn) {
			return m, tea.Quit
		}
		return m, nil
	}

	for i, b := range m.keys.Options {
		if key.Matches(msg, b) {
			m.game.SelectOption(i)
			m.snap = m.game.Snapshot()
			return m, nil
		}
	}
	for id, b := range m.keys.lifelineKeys() {
		if key.Matches(msg, b) {
			m.game.UseLifeline(id)
			m.snap = m.game.Snapshot()
			return m, nil
		}
	}

	switch {
	case key.Matches(msg, m.keys.LockIn):
		m.game.LockInAnswer()
	case key.Matches(msg, m.keys.WalkAway):
		m.game.WalkAway()
	case key.Matches(msg, m.keys.Undo):
		if action, ok := m.game.Undo(); ok {
			m.last = "Undid " + describeAction(action)
		}
	case key.Matches(msg, m.keys.Pause):
		if m.snap.HostPaused {
			m.game.Resume()
		} else {
			m.game.Pause()
		}
	case key.Matches(msg, m.keys.Mute):
		m.game.SetMuted(!m.snap.Muted)
	default:
		return m, nil
	}
	m.snap = m.game.Snapshot()
	return m, nil
}

func (m Model) applyEvent(e events.Event) Model {
	m.snap = m.game.Snapshot()
	switch e.Type {
	case events.EventTypeAnswerRevealed, events.EventTypeLifelineUsed, events.EventTypeGameFinished:
		if line := describeEvent(e); line != "" {
			m.last = line
		}
	}
	if e.Type == events.EventTypeGameFinished {
		m.finished = true
	}
	return m
}

// View renders the session.
func (m Model) View() string {
	sections := []string{
		renderHeader(m.title, m.snap, m.noColor),
		renderQuestion(m.snap, m.noColor),
		renderOptions(m.snap, m.noColor),
		renderTimer(m.snap, m.timer),
		renderLifelines(m.snap, m.noColor),
		renderStatus(m.snap, m.last, m.notice, m.noColor),
	}
	if m.finished {
		sections = append(sections, renderResult(m.snap, m.noColor))
	}
	sections = append(sections, m.help.View(m.keys))
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}
