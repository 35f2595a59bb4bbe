package model

import "time"

// EventType identifies the type of event
type EventType string

const (
	EventRegistryChanged EventType = "registry_changed"
	EventUserReset       EventType = "user_reset"
)

// Event is published when shared state changes
type Event struct {
	Type      EventType `json:"type"`
	Timestamp time.Time `json:"timestamp"`
	Name      string    `json:"name,omitempty"` // Empty when the change source is unknown
}
