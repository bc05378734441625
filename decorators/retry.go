package decorators

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/cenkalti/backoff/v4"

	berr "github.com/next-trace/scg-mediator/contract/errors"
	"github.com/next-trace/scg-mediator/registry"
	"github.com/next-trace/scg-mediator/validation"
)

// RetryPolicy configures Retry.
type RetryPolicy struct {
	MaxRetries      uint64
	InitialInterval time.Duration
	MaxInterval     time.Duration
	Logger          *slog.Logger
}

// DefaultRetryPolicy retries three times starting at 100ms.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{MaxRetries: 3, InitialInterval: 100 * time.Millisecond, MaxInterval: 2 * time.Second}
}

type retry struct {
	policy RetryPolicy
	shapes []registry.Shape
}

// Retry re-invokes the wrapped handler when it fails with a fault. Domain errors and
// configuration defects are never retried, and a done context stops the loop.
// No shapes means events only, since event handlers are the ones reporting faults.
func Retry(p RetryPolicy, shapes ...registry.Shape) registry.Decorator {
	if len(shapes) == 0 {
		shapes = []registry.Shape{registry.ShapeEvent}
	}

	if p.Logger == nil {
		p.Logger = slog.New(slog.DiscardHandler)
	}

	return retry{policy: p, shapes: shapes}
}

func (retry) Name() string { return "retry" }

func (r retry) Shapes() []registry.Shape { return r.shapes }

func (r retry) Decorate(t registry.Target, next registry.Invoker) registry.Invoker {
	return func(ctx context.Context, msg any) (any, error) {
		var (
			out     any
			lastErr error
		)

		op := func() error {
			var err error

			out, err = next(ctx, msg)
			lastErr = err
			if err != nil && !retryable(err) {
				return backoff.Permanent(err)
			}

			return err
		}

		notify := func(err error, wait time.Duration) {
			r.policy.Logger.WarnContext(ctx, "dispatch: retrying",
				"contract", t.Contract.String(), "error", err, "retry_in", wait)
		}

		err := backoff.RetryNotify(op, backoff.WithContext(r.backOff(), ctx), notify)

		// A context done during a backoff wait surfaces only ctx.Err(); keep the fault that caused the retry.
		if err != nil && lastErr != nil && !errors.Is(err, lastErr) {
			err = errors.Join(lastErr, err)
		}

		return out, err
	}
}

func (r retry) backOff() backoff.BackOff {
	b := backoff.NewExponentialBackOff()
	b.MaxElapsedTime = 0

	if r.policy.InitialInterval > 0 {
		b.InitialInterval = r.policy.InitialInterval
	}

	if r.policy.MaxInterval > 0 {
		b.MaxInterval = r.policy.MaxInterval
	}

	return backoff.WithMaxRetries(b, r.policy.MaxRetries)
}

func retryable(err error) bool {
	var (
		ce *berr.ConfigurationError
		de validation.Error
	)

	switch {
	case errors.As(err, &ce), errors.As(err, &de):
		return false
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return false
	default:
		return true
	}
}
