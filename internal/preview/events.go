package preview

import (
	"sync"
	"time"
)

// Event kinds published on the change notification stream.
const (
	EventContentChanged = "content-changed"
	EventWarning        = "warning"
)

// Event notifies subscribers that a previewed document's content may have
// changed, or carries a non-fatal host-level warning.
type Event struct {
	Type      string   `json:"type"`
	Identity  Identity `json:"identity,omitempty"`
	Message   string   `json:"message,omitempty"`
	Timestamp int64    `json:"timestamp"`
}

// events fans out provider events to subscribers. Slow subscribers drop
// events rather than block generation.
type events struct {
	mu   sync.Mutex
	subs map[int]chan Event
	next int
}

func newEvents() *events {
	return &events{subs: make(map[int]chan Event)}
}

func (e *events) subscribe() (<-chan Event, func()) {
	e.mu.Lock()
	defer e.mu.Unlock()

	key := e.next
	e.next++
	ch := make(chan Event, 16)
	e.subs[key] = ch

	cancel := func() {
		e.mu.Lock()
		defer e.mu.Unlock()
		if sub, ok := e.subs[key]; ok {
			delete(e.subs, key)
			close(sub)
		}
	}
	return ch, cancel
}

func (e *events) publish(ev Event) {
	ev.Timestamp = time.Now().Unix()

	e.mu.Lock()
	defer e.mu.Unlock()
	for _, ch := range e.subs {
		select {
		case ch <- ev:
		default:
		}
	}
}
