package cache

import (
	"context"
	"errors"
	"fmt"

	"github.com/CampiteliRafael/cartEcommerce/internal/domain"
	"github.com/CampiteliRafael/cartEcommerce/pkg/circuitbreaker"
	"github.com/sony/gobreaker/v2"
)

// BreakerCache guards a CartCache with a circuit breaker so a failing Redis
// degrades to cache misses instead of slowing every request down.
type BreakerCache struct {
	next CartCache
	cb   *gobreaker.CircuitBreaker[*domain.Cart]
}

func NewBreakerCache(next CartCache, cfg circuitbreaker.Config) *BreakerCache {
	cfg.IsSuccessful = func(err error) bool {
		return err == nil || errors.Is(err, ErrCacheMiss)
	}
	return &BreakerCache{
		next: next,
		cb:   circuitbreaker.New[*domain.Cart](cfg),
	}
}

func (b *BreakerCache) Get(ctx context.Context, userID string) (*domain.Cart, error) {
	cart, err := b.cb.Execute(func() (*domain.Cart, error) {
		return b.next.Get(ctx, userID)
	})
	if circuitbreaker.IsRejected(err) {
		return nil, fmt.Errorf("%w: %w", ErrCacheMiss, err)
	}
	return cart, err
}

func (b *BreakerCache) Set(ctx context.Context, userID string, cart *domain.Cart) error {
	_, err := b.cb.Execute(func() (*domain.Cart, error) {
		return nil, b.next.Set(ctx, userID, cart)
	})
	return err
}

// Delete always reaches the cache: skipping an invalidation would leave a
// stale cart behind once the breaker closes again.
func (b *BreakerCache) Delete(ctx context.Context, userID string) error {
	return b.next.Delete(ctx, userID)
}
