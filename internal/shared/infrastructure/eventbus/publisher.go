package eventbus

import (
	"context"
	"log/slog"

	"github.com/felixgeelhaar/cadence/internal/shared/infrastructure/resilience"
)

// Publisher sends serialized domain events to a broker.
type Publisher interface {
	Publish(ctx context.Context, routingKey string, payload []byte) error
	Close() error
}

// BreakerPublisher fails fast while the wrapped broker keeps erroring. The
// outbox treats ErrCircuitOpen like any other failure and retries later.
type BreakerPublisher struct {
	next    Publisher
	breaker *resilience.Breaker
}

// NewBreakerPublisher wraps next in a circuit breaker.
func NewBreakerPublisher(next Publisher, cfg resilience.BreakerConfig, logger *slog.Logger) *BreakerPublisher {
	return &BreakerPublisher{
		next:    next,
		breaker: resilience.NewBreaker("publisher", cfg, logger),
	}
}

func (p *BreakerPublisher) Publish(ctx context.Context, routingKey string, payload []byte) error {
	return p.breaker.Do(func() error {
		return p.next.Publish(ctx, routingKey, payload)
	})
}

func (p *BreakerPublisher) Close() error {
	return p.next.Close()
}

// State reports the breaker state for health endpoints.
func (p *BreakerPublisher) State() string {
	return p.breaker.State()
}
