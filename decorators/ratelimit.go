package decorators

import (
	"context"
	"fmt"
	"sync"

	"golang.org/x/time/rate"

	"github.com/next-trace/scg-mediator/registry"
)

// RateLimiter throttles dispatch with one token bucket per contract. Callers wait for a token
// or for their context; a canceled wait is returned as a fault.
type RateLimiter struct {
	limit  rate.Limit
	burst  int
	shapes []registry.Shape

	mu       sync.Mutex
	limiters map[registry.Contract]*rate.Limiter
}

// RateLimit allows limit events per second per contract with the given burst.
// No shapes means every shape.
func RateLimit(limit rate.Limit, burst int, shapes ...registry.Shape) *RateLimiter {
	if len(shapes) == 0 {
		shapes = registry.AllShapes()
	}

	return &RateLimiter{
		limit:    limit,
		burst:    burst,
		shapes:   shapes,
		limiters: make(map[registry.Contract]*rate.Limiter),
	}
}

func (*RateLimiter) Name() string { return "ratelimit" }

func (r *RateLimiter) Shapes() []registry.Shape { return r.shapes }

// Limiter returns the bucket shared by every handler of c.
func (r *RateLimiter) Limiter(c registry.Contract) *rate.Limiter {
	r.mu.Lock()
	defer r.mu.Unlock()

	l, ok := r.limiters[c]
	if !ok {
		l = rate.NewLimiter(r.limit, r.burst)
		r.limiters[c] = l
	}

	return l
}

func (r *RateLimiter) Decorate(t registry.Target, next registry.Invoker) registry.Invoker {
	l := r.Limiter(t.Contract)

	return func(ctx context.Context, msg any) (any, error) {
		if err := l.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limit %s: %w", t.Contract, err)
		}

		return next(ctx, msg)
	}
}
