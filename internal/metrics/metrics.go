// Package metrics exposes prometheus collectors for the bus and HTTP layer.
package metrics

import (
	"context"
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"osintranet/internal/bus"
	"osintranet/internal/domain"
)

type Metrics struct {
	BusMessages  *prometheus.CounterVec
	BusDuration  *prometheus.HistogramVec
	HTTPRequests *prometheus.CounterVec
	HTTPDuration *prometheus.HistogramVec
}

// New creates the collectors and registers them on reg.
func New(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		BusMessages: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "osintranet",
			Subsystem: "bus",
			Name:      "messages_total",
			Help:      "Messages dispatched on the command and query bus.",
		}, []string{"kind", "message", "outcome"}),
		BusDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "osintranet",
			Subsystem: "bus",
			Name:      "message_duration_seconds",
			Help:      "Time spent handling bus messages.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"kind", "message"}),
		HTTPRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "osintranet",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "HTTP requests by route and status.",
		}, []string{"method", "route", "status"}),
		HTTPDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "osintranet",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency by route.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
	}

	for _, c := range []prometheus.Collector{m.BusMessages, m.BusDuration, m.HTTPRequests, m.HTTPDuration} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// Outcome classifies a bus error for the outcome label.
func Outcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, domain.ErrValidation):
		return "invalid"
	case errors.Is(err, domain.ErrNotFound):
		return "not_found"
	case errors.Is(err, domain.ErrExists), errors.Is(err, domain.ErrInUse):
		return "conflict"
	default:
		return "error"
	}
}

// Bus instruments a command or query dispatcher.
func (m *Metrics) Bus(kind string) bus.Middleware {
	return func(next bus.HandlerFunc) bus.HandlerFunc {
		return func(ctx context.Context, msg interface{}) (interface{}, error) {
			start := time.Now()
			res, err := next(ctx, msg)

			name := bus.MessageName(msg)
			m.BusDuration.WithLabelValues(kind, name).Observe(time.Since(start).Seconds())
			m.BusMessages.WithLabelValues(kind, name, Outcome(err)).Inc()
			return res, err
		}
	}
}
