// Package bus dispatches commands and queries to the handler registered for
// their concrete type, through a chain of middleware.
package bus

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"sync"
)

var (
	ErrNoHandler        = errors.New("no handler registered")
	ErrUnexpectedResult = errors.New("unexpected result type")
)

// HandlerFunc handles one message and returns its result, if any.
type HandlerFunc func(ctx context.Context, msg interface{}) (interface{}, error)

// Middleware decorates a HandlerFunc.
type Middleware func(next HandlerFunc) HandlerFunc

// CommandBus publishes commands. Most commands return a nil result.
type CommandBus interface {
	Publish(ctx context.Context, cmd interface{}) (interface{}, error)
}

// QueryBus runs queries.
type QueryBus interface {
	Query(ctx context.Context, query interface{}) (interface{}, error)
}

type dispatcher struct {
	kind       string
	mu         sync.RWMutex
	handlers   map[reflect.Type]HandlerFunc
	middleware []Middleware
}

func newDispatcher(kind string, mw []Middleware) dispatcher {
	return dispatcher{
		kind:       kind,
		handlers:   make(map[reflect.Type]HandlerFunc),
		middleware: mw,
	}
}

func (d *dispatcher) use(mw ...Middleware) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.middleware = append(d.middleware, mw...)
}

func (d *dispatcher) register(t reflect.Type, h HandlerFunc) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if _, exists := d.handlers[t]; exists {
		panic(fmt.Sprintf("bus: %s handler already registered for %s", d.kind, t))
	}
	d.handlers[t] = h
}

func (d *dispatcher) dispatch(ctx context.Context, msg interface{}) (interface{}, error) {
	if msg == nil {
		return nil, fmt.Errorf("%s is nil: %w", d.kind, ErrNoHandler)
	}

	t := reflect.TypeOf(msg)
	if t.Kind() == reflect.Ptr {
		v := reflect.ValueOf(msg)
		if v.IsNil() {
			return nil, fmt.Errorf("%s %s is nil: %w", d.kind, t, ErrNoHandler)
		}
		msg = v.Elem().Interface()
		t = t.Elem()
	}

	d.mu.RLock()
	h, ok := d.handlers[t]
	mw := d.middleware
	d.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%s %s: %w", d.kind, t, ErrNoHandler)
	}

	for i := len(mw) - 1; i >= 0; i-- {
		h = mw[i](h)
	}
	return h(ctx, msg)
}

// Commands is the in-process CommandBus.
type Commands struct {
	dispatcher
}

func NewCommands(mw ...Middleware) *Commands {
	return &Commands{dispatcher: newDispatcher("command", mw)}
}

// Use appends middleware; the first added runs outermost.
func (c *Commands) Use(mw ...Middleware) {
	c.use(mw...)
}

func (c *Commands) Publish(ctx context.Context, cmd interface{}) (interface{}, error) {
	return c.dispatch(ctx, cmd)
}

// Queries is the in-process QueryBus.
type Queries struct {
	dispatcher
}

func NewQueries(mw ...Middleware) *Queries {
	return &Queries{dispatcher: newDispatcher("query", mw)}
}

func (q *Queries) Use(mw ...Middleware) {
	q.use(mw...)
}

func (q *Queries) Query(ctx context.Context, query interface{}) (interface{}, error) {
	return q.dispatch(ctx, query)
}

func typeOf[T any]() reflect.Type {
	return reflect.TypeOf((*T)(nil)).Elem()
}

// HandleCommand registers a command handler without a result.
func HandleCommand[C any](b *Commands, fn func(ctx context.Context, cmd C) error) {
	b.register(typeOf[C](), func(ctx context.Context, msg interface{}) (interface{}, error) {
		return nil, fn(ctx, msg.(C))
	})
}

// HandleCommandWithResult registers a command handler returning R.
func HandleCommandWithResult[C, R any](b *Commands, fn func(ctx context.Context, cmd C) (R, error)) {
	b.register(typeOf[C](), func(ctx context.Context, msg interface{}) (interface{}, error) {
		return fn(ctx, msg.(C))
	})
}

// HandleQuery registers a query handler returning R.
func HandleQuery[Q, R any](b *Queries, fn func(ctx context.Context, query Q) (R, error)) {
	b.register(typeOf[Q](), func(ctx context.Context, msg interface{}) (interface{}, error) {
		return fn(ctx, msg.(Q))
	})
}

// Publish sends cmd and discards any result.
func Publish(ctx context.Context, b CommandBus, cmd interface{}) error {
	_, err := b.Publish(ctx, cmd)
	return err
}

// PublishFor sends cmd and returns its result as R.
func PublishFor[R any](ctx context.Context, b CommandBus, cmd interface{}) (R, error) {
	res, err := b.Publish(ctx, cmd)
	return as[R](res, err)
}

// QueryFor runs query and returns its result as R.
func QueryFor[R any](ctx context.Context, b QueryBus, query interface{}) (R, error) {
	res, err := b.Query(ctx, query)
	return as[R](res, err)
}

func as[R any](res interface{}, err error) (R, error) {
	var zero R
	if err != nil {
		return zero, err
	}
	r, ok := res.(R)
	if !ok {
		return zero, fmt.Errorf("%w: got %T, want %s", ErrUnexpectedResult, res, typeOf[R]())
	}
	return r, nil
}

// MessageName is the unqualified type name of msg, used in logs, metrics and
// event subjects.
func MessageName(msg interface{}) string {
	t := reflect.TypeOf(msg)
	if t == nil {
		return "nil"
	}
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	return t.Name()
}
