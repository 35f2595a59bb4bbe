package sse

import (
	"encoding/json"
	"log/slog"

	"github.com/rbt-academy/trainer/internal/model"
	"github.com/rbt-academy/trainer/internal/services/registry"
)

// Broadcaster publishes registry events to the hub as JSON
type Broadcaster struct {
	hub    *Hub
	logger *slog.Logger
}

var _ registry.Notifier = (*Broadcaster)(nil)

// NewBroadcaster creates a new Broadcaster
func NewBroadcaster(hub *Hub, logger *slog.Logger) *Broadcaster {
	return &Broadcaster{
		hub:    hub,
		logger: logger.With(slog.String("component", "sse-broadcaster")),
	}
}

// Publish sends the event under its type name
func (b *Broadcaster) Publish(event model.Event) {
	data, err := json.Marshal(event)
	if err != nil {
		b.logger.Error("sse failed to encode event",
			slog.String("type", string(event.Type)),
			slog.Any("error", err))
		return
	}
	b.hub.BroadcastEvent(string(event.Type), string(data))
}
