package events_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"osintranet/internal/bus"
	"osintranet/internal/events"
)

type CreatePaymentTermCommand struct {
	Number int
}

type recordingPublisher struct {
	mu       sync.Mutex
	subjects []string
	data     []interface{}
	err      error
}

func (p *recordingPublisher) Publish(ctx context.Context, subject string, data interface{}) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.subjects = append(p.subjects, subject)
	p.data = append(p.data, data)
	return p.err
}

func TestSubject(t *testing.T) {
	assert.Equal(t, "osintranet.accounting.create_payment_term", events.Subject("osintranet.accounting", CreatePaymentTermCommand{}))
}

func TestMiddleware_PublishesAfterSuccess(t *testing.T) {
	pub := &recordingPublisher{}
	b := bus.NewCommands(events.Middleware(pub, "acc"))
	bus.HandleCommand(b, func(ctx context.Context, cmd CreatePaymentTermCommand) error { return nil })

	require.NoError(t, bus.Publish(context.Background(), b, CreatePaymentTermCommand{Number: 3}))

	require.Len(t, pub.subjects, 1)
	assert.Equal(t, "acc.create_payment_term", pub.subjects[0])
	evt, ok := pub.data[0].(events.Event)
	require.True(t, ok)
	assert.Equal(t, "CreatePaymentTermCommand", evt.Name)
	assert.Equal(t, CreatePaymentTermCommand{Number: 3}, evt.Payload)
}

func TestMiddleware_SkipsFailedCommands(t *testing.T) {
	pub := &recordingPublisher{}
	b := bus.NewCommands(events.Middleware(pub, "acc"))
	bus.HandleCommand(b, func(ctx context.Context, cmd CreatePaymentTermCommand) error { return errors.New("rejected") })

	assert.Error(t, bus.Publish(context.Background(), b, CreatePaymentTermCommand{}))
	assert.Empty(t, pub.subjects)
}

func TestMiddleware_PublishFailureDoesNotFailCommand(t *testing.T) {
	pub := &recordingPublisher{err: errors.New("nats down")}
	b := bus.NewCommands(events.Middleware(pub, "acc"))
	bus.HandleCommand(b, func(ctx context.Context, cmd CreatePaymentTermCommand) error { return nil })

	assert.NoError(t, bus.Publish(context.Background(), b, CreatePaymentTermCommand{}))
}
