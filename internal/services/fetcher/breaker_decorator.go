package fetcher

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sony/gobreaker"
)

type BreakerConfig struct {
	TimeInterval time.Duration
	TimeTimeOut  time.Duration
	RepeatNumber uint32
}

type fetcher interface {
	Fetch(ctx context.Context, rawURL string) ([]byte, error)
}

// BreakerFetcher stops calling the wrapped fetcher after RepeatNumber consecutive
// transport failures. A rejected call reports ErrTransport.
type BreakerFetcher struct {
	name    string
	cb      *gobreaker.CircuitBreaker
	wrapped fetcher
}

func NewBreakerFetcher(name string, cfg BreakerConfig, wrapped fetcher) *BreakerFetcher {
	settings := gobreaker.Settings{
		Name:        name,
		MaxRequests: 1,
		Interval:    cfg.TimeInterval,
		Timeout:     cfg.TimeTimeOut,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= cfg.RepeatNumber
		},
		// a malformed url is the caller's fault and says nothing about the provider
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, ErrURLConstruction)
		},
	}
	return &BreakerFetcher{
		name:    name,
		cb:      gobreaker.NewCircuitBreaker(settings),
		wrapped: wrapped,
	}
}

func (b *BreakerFetcher) Fetch(ctx context.Context, rawURL string) ([]byte, error) {
	result, err := b.cb.Execute(func() (interface{}, error) {
		return b.wrapped.Fetch(ctx, rawURL)
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return nil, fmt.Errorf("%s unavailable: %w: %v", b.name, ErrTransport, err)
	}
	if err != nil {
		return nil, err
	}

	body, ok := result.([]byte)
	if !ok {
		return nil, fmt.Errorf("%s returned unexpected result", b.name)
	}
	return body, nil
}

func (b *BreakerFetcher) State() gobreaker.State {
	return b.cb.State()
}
