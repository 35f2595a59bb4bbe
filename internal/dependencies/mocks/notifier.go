package mocks

import (
	"sync"

	"github.com/rbt-academy/trainer/internal/model"
)

// RecordingNotifier collects published events
type RecordingNotifier struct {
	mu     sync.Mutex
	events []model.Event
}

// NewRecordingNotifier creates an empty RecordingNotifier
func NewRecordingNotifier() *RecordingNotifier {
	return &RecordingNotifier{}
}

// Publish records the event
func (n *RecordingNotifier) Publish(event model.Event) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, event)
}

// Events returns a copy of the recorded events
func (n *RecordingNotifier) Events() []model.Event {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]model.Event(nil), n.events...)
}

// Reset clears recorded events
func (n *RecordingNotifier) Reset() {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = nil
}
