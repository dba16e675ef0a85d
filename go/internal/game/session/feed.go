package session

import (
	"sync"

	"github.com/mcdev12/quizshow/go/internal/game/events"
)

// Observer receives session events in order. OnEvent runs without the session lock
// held; it may read the session but must not drive transitions synchronously.
type Observer interface {
	OnEvent(events.Event)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(events.Event)

func (f ObserverFunc) OnEvent(e events.Event) { f(e) }

// feed queues events produced under the session lock and delivers them after it is
// released. Sequence numbers are assigned at delivery so they match delivery order.
type feed struct {
	deliverMu sync.Mutex
	observers []Observer
	seq       uint64

	mu    sync.Mutex
	queue []events.Event
}

func (f *feed) subscribe(o Observer) {
	f.deliverMu.Lock()
	defer f.deliverMu.Unlock()
	f.observers = append(f.observers, o)
}

func (f *feed) push(e events.Event) {
	f.mu.Lock()
	f.queue = append(f.queue, e)
	f.mu.Unlock()
}

func (f *feed) flush() {
	f.deliverMu.Lock()
	defer f.deliverMu.Unlock()

	f.mu.Lock()
	queue := f.queue
	f.queue = nil
	f.mu.Unlock()

	for _, e := range queue {
		f.seq++
		e.Seq = f.seq
		for _, o := range f.observers {
			o.OnEvent(e)
		}
	}
}
