package fetcher

import (
	"context"
	"errors"
	"time"
)

type metricsCollector interface {
	ObserveLatency(operation string, duration time.Duration)
	IncrementCounter(operation string, labels ...string)
}

// MetricsDecorator records latency and the outcome kind of every fetch.
type MetricsDecorator struct {
	inner     fetcher
	collector metricsCollector
	operation string
}

func NewMetricsDecorator(inner fetcher, collector metricsCollector, operation string) *MetricsDecorator {
	return &MetricsDecorator{inner: inner, collector: collector, operation: operation}
}

func (d *MetricsDecorator) Fetch(ctx context.Context, rawURL string) ([]byte, error) {
	start := time.Now()
	body, err := d.inner.Fetch(ctx, rawURL)
	d.collector.ObserveLatency(d.operation, time.Since(start))
	d.collector.IncrementCounter(d.operation, Outcome(err))
	return body, err
}

// Outcome names the class of a fetch error for labelling.
func Outcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, ErrURLConstruction):
		return "url_construction"
	case errors.Is(err, ErrEmptyResponse):
		return "empty_response"
	case errors.Is(err, ErrTransport):
		return "transport"
	default:
		return "other"
	}
}
