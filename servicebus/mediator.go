package servicebus

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"reflect"

	berr "github.com/next-trace/scg-mediator/contract/errors"
	"github.com/next-trace/scg-mediator/outcome"
	"github.com/next-trace/scg-mediator/registry"
	"github.com/next-trace/scg-mediator/validation"
)

// Mediator sends a request or query to the single handler registered for its contract.
// It holds no state besides its Locator and is safe for concurrent use.
type Mediator struct {
	loc    registry.Locator
	logger *slog.Logger
}

// NewMediator constructs a Mediator over loc.
func NewMediator(loc registry.Locator, logger *slog.Logger) *Mediator {
	return &Mediator{loc: loc, logger: orDiscard(logger)}
}

// Send invokes the RequestHandler[R] and returns its outcome unchanged.
// A non-nil error is a configuration defect or a fatal fault, never a domain error.
func Send[R any](ctx context.Context, m *Mediator, r R) (outcome.Option[validation.Error], error) {
	return m.send(ctx, registry.RequestContract[R](), r)
}

// Ask invokes the QueryHandler[Q, S] and returns its outcome unchanged.
// When error is non-nil the Result carries nothing meaningful.
func Ask[Q, S any](ctx context.Context, m *Mediator, q Q) (outcome.Result[S, validation.Error], error) {
	c := registry.QueryContract[Q, S]()

	out, err := m.invoke(ctx, c, q)
	if err != nil {
		return outcome.Result[S, validation.Error]{}, err
	}

	res, ok := out.(outcome.Result[S, validation.Error])
	if !ok {
		return outcome.Result[S, validation.Error]{}, mismatch(c, out)
	}

	return res, nil
}

// Dispatch sends req using its dynamic type as the request contract.
func (m *Mediator) Dispatch(ctx context.Context, req any) (outcome.Option[validation.Error], error) {
	return m.send(ctx, registry.Contract{Shape: registry.ShapeRequest, Message: reflect.TypeOf(req)}, req)
}

func (m *Mediator) send(ctx context.Context, c registry.Contract, req any) (outcome.Option[validation.Error], error) {
	out, err := m.invoke(ctx, c, req)
	if err != nil {
		return validation.NoError(), err
	}

	res, ok := out.(outcome.Option[validation.Error])
	if !ok {
		return validation.NoError(), mismatch(c, out)
	}

	return res, nil
}

func (m *Mediator) invoke(ctx context.Context, c registry.Contract, msg any) (any, error) {
	invs, err := m.loc.ResolveAll(ctx, c)
	if err != nil {
		return nil, fmt.Errorf("send %s: %w", c, err)
	}

	switch len(invs) {
	case 1:
	case 0:
		return nil, berr.Configuration(berr.ReasonHandlerNotFound, c.String())
	default:
		return nil, berr.Configuration(berr.ReasonAmbiguousHandler, fmt.Sprintf("%s: %d handlers", c, len(invs)))
	}

	m.logger.DebugContext(ctx, "mediator: send", "contract", c.String())

	out, err := invs[0](ctx, msg)
	if err != nil {
		return nil, fmt.Errorf("send %s: %w", c, err)
	}

	return out, nil
}

// Chain sends requests in order and stops at the first domain error or fault.
func (m *Mediator) Chain(ctx context.Context, reqs ...any) (outcome.Option[validation.Error], error) {
	for _, r := range reqs {
		res, err := m.Dispatch(ctx, r)
		if err != nil || res.HasValue() {
			return res, err
		}
	}

	return validation.NoError(), nil
}

// BatchOptions controls Batch execution behavior.
// OnProgress is called after each request completes (success or failure) with done and total.
// OnError is called with the index, the request and either its fault or its domain error.
type BatchOptions struct {
	OnProgress func(done, total int)
	OnError    func(index int, req any, err error)
}

// BatchOpt configures BatchOptions.
type BatchOpt func(*BatchOptions)

// WithBatchProgress sets the progress callback.
func WithBatchProgress(fn func(done, total int)) BatchOpt {
	return func(o *BatchOptions) { o.OnProgress = fn }
}

// WithBatchOnError sets the error callback.
func WithBatchOnError(fn func(index int, req any, err error)) BatchOpt {
	return func(o *BatchOptions) { o.OnError = fn }
}

// Batch sends every request sequentially, respecting cancellation between requests.
// Faults and domain errors are aggregated with errors.Join; validation.Error values stay
// reachable through errors.As.
func (m *Mediator) Batch(ctx context.Context, reqs []any, opts ...BatchOpt) error {
	var o BatchOptions
	for _, f := range opts {
		f(&o)
	}

	total := len(reqs)

	var errs []error

	for i, r := range reqs {
		if err := ctx.Err(); err != nil { // canceled or deadline exceeded
			return errors.Join(append(errs, err)...)
		}

		res, err := m.Dispatch(ctx, r)
		if err == nil {
			if derr, failed := res.TryPickValue(); failed {
				err = derr
			}
		}

		if err != nil {
			if o.OnError != nil {
				o.OnError(i, r, err)
			}

			errs = append(errs, err)
		}

		if o.OnProgress != nil {
			o.OnProgress(i+1, total)
		}
	}

	return errors.Join(errs...)
}

func mismatch(c registry.Contract, out any) error {
	return berr.Configuration(berr.ReasonHandlerTypeMismatch, fmt.Sprintf("%s returned %T", c, out))
}

func orDiscard(l *slog.Logger) *slog.Logger {
	if l == nil {
		return slog.New(slog.DiscardHandler)
	}

	return l
}
