// Package events announces accepted commands to other intranet services.
package events

import (
	"context"
	"strings"
	"time"
	"unicode"

	"github.com/google/uuid"

	"osintranet/internal/bus"
	"osintranet/pkg/logger"
)

// Publisher sends a payload on a subject.
type Publisher interface {
	Publish(ctx context.Context, subject string, data interface{}) error
}

// Event is the envelope published for every accepted command.
type Event struct {
	ID         uuid.UUID   `json:"id"`
	Name       string      `json:"name"`
	OccurredAt time.Time   `json:"occurred_at"`
	Payload    interface{} `json:"payload"`
}

// Noop drops every event.
type Noop struct{}

func (Noop) Publish(ctx context.Context, subject string, data interface{}) error {
	return nil
}

// Subject builds "<prefix>.<snake_case message name>" with a trailing
// "_command" removed.
func Subject(prefix string, msg interface{}) string {
	name := snake(bus.MessageName(msg))
	name = strings.TrimSuffix(name, "_command")
	return prefix + "." + name
}

func snake(s string) string {
	var b strings.Builder
	for i, r := range s {
		if unicode.IsUpper(r) {
			if i > 0 {
				b.WriteByte('_')
			}
			r = unicode.ToLower(r)
		}
		b.WriteRune(r)
	}
	return b.String()
}

// Middleware publishes an Event after each successful command. Publishing
// failures are logged and never fail the command.
func Middleware(pub Publisher, prefix string) bus.Middleware {
	return func(next bus.HandlerFunc) bus.HandlerFunc {
		return func(ctx context.Context, msg interface{}) (interface{}, error) {
			res, err := next(ctx, msg)
			if err != nil || pub == nil {
				return res, err
			}

			subject := Subject(prefix, msg)
			evt := Event{
				ID:         uuid.New(),
				Name:       bus.MessageName(msg),
				OccurredAt: time.Now().UTC(),
				Payload:    msg,
			}
			if perr := pub.Publish(ctx, subject, evt); perr != nil {
				logger.GetLogger().WithError(perr).WithField("subject", subject).Warn("Failed to publish event")
			}
			return res, nil
		}
	}
}
