package play

import (
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/mcdev12/quizshow/go/internal/game/events"
)

// eventMsg wraps a session event for Bubble Tea.
type eventMsg struct {
	Event events.Event
}

// noticeMsg carries a message the session wants the player to see.
type noticeMsg string

// Feed is the session observer and notifier of the terminal UI. It never blocks the
// session; when the UI falls behind, messages are dropped and the next tick catches up.
type Feed struct {
	ch        chan tea.Msg
	mu        sync.Mutex
	closed    bool
	closeOnce sync.Once
}

func NewFeed(size int) *Feed {
	return &Feed{ch: make(chan tea.Msg, size)}
}

// OnEvent implements session.Observer.
func (f *Feed) OnEvent(e events.Event) {
	f.send(eventMsg{Event: e})
}

// Notify implements session.Notifier.
func (f *Feed) Notify(msg string) {
	f.send(noticeMsg(msg))
}

func (f *Feed) send(msg tea.Msg) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return
	}
	select {
	case f.ch <- msg:
	default:
	}
}

// Close ends the stream; the UI quits once it drains.
func (f *Feed) Close() {
	f.closeOnce.Do(func() {
		f.mu.Lock()
		f.closed = true
		close(f.ch)
		f.mu.Unlock()
	})
}

func (f *Feed) messages() <-chan tea.Msg {
	return f.ch
}

// waitForMsg blocks until the feed has a message.
func waitForMsg(ch <-chan tea.Msg) tea.Cmd {
	return func() tea.Msg {
		if ch == nil {
			return nil
		}
		msg, ok := <-ch
		if !ok {
			return tea.Quit()
		}
		return msg
	}
}
