// Package mq carries item events to whoever is listening. Publishing is
// synchronous; swap in a broker-backed Publisher when one is needed.
package mq

import (
	"encoding/json"
	"fmt"

	"github.com/charmbracelet/log"
)

const (
	TopicItemCreated   = "item.created"
	TopicItemCompleted = "item.completed"
)

type Publisher interface {
	Publish(topic string, payload []byte) error
}

type Noop struct{}

func (Noop) Publish(topic string, payload []byte) error { return nil }

// LogPublisher writes every event to a logger.
type LogPublisher struct {
	Logger *log.Logger
}

func (p LogPublisher) Publish(topic string, payload []byte) error {
	p.Logger.Info("event", "topic", topic, "payload", string(payload))
	return nil
}

// PublishJSON encodes v and publishes it on topic.
func PublishJSON(p Publisher, topic string, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", topic, err)
	}
	return p.Publish(topic, b)
}

// New returns the publisher for a configured name.
func New(name string, logger *log.Logger) (Publisher, error) {
	switch name {
	case "", "noop":
		return Noop{}, nil
	case "log":
		return LogPublisher{Logger: logger}, nil
	default:
		return nil, fmt.Errorf("unknown publisher %q", name)
	}
}
