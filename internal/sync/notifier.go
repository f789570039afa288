package sync

import (
	"sync"
	"time"
)

// EventKind classifies a change event.
type EventKind string

const (
	EventUpdated EventKind = "updated"
	EventDeleted EventKind = "deleted"
)

// Event tells a subscriber that a document changed. It carries no content;
// interested clients re-read through the normal operations.
type Event struct {
	DocumentID string    `json:"documentId"`
	Kind       EventKind `json:"kind"`
	UserID     string    `json:"userId"`
	At         time.Time `json:"at"`
}

const subscriberBuffer = 16

// Notifier fans change events out to subscribers keyed by document id.
// Publish never blocks: a subscriber that falls behind loses events, which is
// acceptable because events are only change hints.
type Notifier struct {
	mu   sync.RWMutex
	subs map[string]map[chan Event]struct{}
}

func NewNotifier() *Notifier {
	return &Notifier{subs: make(map[string]map[chan Event]struct{})}
}

// Subscribe registers interest in one document. The returned cancel func is
// idempotent; after the first call returns the channel is closed.
func (n *Notifier) Subscribe(documentID string) (<-chan Event, func()) {
	ch := make(chan Event, subscriberBuffer)
	n.mu.Lock()
	set, ok := n.subs[documentID]
	if !ok {
		set = make(map[chan Event]struct{})
		n.subs[documentID] = set
	}
	set[ch] = struct{}{}
	n.mu.Unlock()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			n.mu.Lock()
			if set, ok := n.subs[documentID]; ok {
				delete(set, ch)
				if len(set) == 0 {
					delete(n.subs, documentID)
				}
			}
			n.mu.Unlock()
			close(ch)
		})
	}
	return ch, cancel
}

// Publish delivers the event to every current subscriber of its document.
func (n *Notifier) Publish(ev Event) {
	n.mu.RLock()
	defer n.mu.RUnlock()
	for ch := range n.subs[ev.DocumentID] {
		select {
		case ch <- ev:
		default:
		}
	}
}
