package dispatch

import (
	"context"

	"github.com/next-trace/scg-mediator/outcome"
	"github.com/next-trace/scg-mediator/validation"
)

// RequestHandler handles requests of type R that produce no response.
// A present value in the returned Option is a domain error.
type RequestHandler[R Request] interface {
	Handle(ctx context.Context, r R) outcome.Option[validation.Error]
}

// QueryHandler handles queries of type Q and returns either an S or a domain error.
type QueryHandler[Q Query, S any] interface {
	Handle(ctx context.Context, q Q) outcome.Result[S, validation.Error]
}

// EventHandler handles events of type E. A returned error is a fatal fault that aborts
// the remaining handlers of the same publish call.
type EventHandler[E Event] interface {
	Handle(ctx context.Context, e E) error
}

// RequestHandlerFunc adapts a function to RequestHandler.
type RequestHandlerFunc[R Request] func(ctx context.Context, r R) outcome.Option[validation.Error]

func (f RequestHandlerFunc[R]) Handle(ctx context.Context, r R) outcome.Option[validation.Error] {
	return f(ctx, r)
}

// QueryHandlerFunc adapts a function to QueryHandler.
type QueryHandlerFunc[Q Query, S any] func(ctx context.Context, q Q) outcome.Result[S, validation.Error]

func (f QueryHandlerFunc[Q, S]) Handle(ctx context.Context, q Q) outcome.Result[S, validation.Error] {
	return f(ctx, q)
}

// EventHandlerFunc adapts a function to EventHandler.
type EventHandlerFunc[E Event] func(ctx context.Context, e E) error

func (f EventHandlerFunc[E]) Handle(ctx context.Context, e E) error { return f(ctx, e) }
