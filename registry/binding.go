package registry

import (
	"context"
	"fmt"
	"reflect"

	"github.com/next-trace/scg-mediator/contract/dispatch"
	berr "github.com/next-trace/scg-mediator/contract/errors"
	"github.com/next-trace/scg-mediator/validation"
)

// Binding names a contract instantiation a candidate claims to implement and carries the typed
// glue between that contract and the erased Invoker.
type Binding struct {
	contract Contract
	iface    reflect.Type
	bind     func(h any) (Invoker, error)
	fail     func(e validation.Error) (any, error)
}

// Contract returns the contract the binding targets.
func (b Binding) Contract() Contract { return b.contract }

// RequestOf binds dispatch.RequestHandler[R].
func RequestOf[R dispatch.Request]() Binding {
	c := RequestContract[R]()

	return Binding{
		contract: c,
		iface:    reflect.TypeFor[dispatch.RequestHandler[R]](),
		bind: func(h any) (Invoker, error) {
			rh, ok := h.(dispatch.RequestHandler[R])
			if !ok {
				return nil, notImplemented(c, h)
			}

			return func(ctx context.Context, msg any) (any, error) {
				r, ok := msg.(R)
				if !ok {
					return nil, wrongMessage(c, msg)
				}

				return rh.Handle(ctx, r), nil
			}, nil
		},
		fail: func(e validation.Error) (any, error) { return e.Option(), nil },
	}
}

// QueryOf binds dispatch.QueryHandler[Q, S].
func QueryOf[Q dispatch.Query, S any]() Binding {
	c := QueryContract[Q, S]()

	return Binding{
		contract: c,
		iface:    reflect.TypeFor[dispatch.QueryHandler[Q, S]](),
		bind: func(h any) (Invoker, error) {
			qh, ok := h.(dispatch.QueryHandler[Q, S])
			if !ok {
				return nil, notImplemented(c, h)
			}

			return func(ctx context.Context, msg any) (any, error) {
				q, ok := msg.(Q)
				if !ok {
					return nil, wrongMessage(c, msg)
				}

				return qh.Handle(ctx, q), nil
			}, nil
		},
		fail: func(e validation.Error) (any, error) { return validation.Fail[S](e), nil },
	}
}

// EventOf binds dispatch.EventHandler[E].
func EventOf[E dispatch.Event]() Binding {
	c := EventContract[E]()

	return Binding{
		contract: c,
		iface:    reflect.TypeFor[dispatch.EventHandler[E]](),
		bind: func(h any) (Invoker, error) {
			eh, ok := h.(dispatch.EventHandler[E])
			if !ok {
				return nil, notImplemented(c, h)
			}

			return func(ctx context.Context, msg any) (any, error) {
				e, ok := msg.(E)
				if !ok {
					return nil, wrongMessage(c, msg)
				}

				return nil, eh.Handle(ctx, e)
			}, nil
		},
		fail: func(e validation.Error) (any, error) { return nil, e },
	}
}

func notImplemented(c Contract, h any) error {
	return berr.Configuration(berr.ReasonHandlerTypeMismatch, fmt.Sprintf("%T does not implement %s", h, c))
}

func wrongMessage(c Contract, msg any) error {
	return berr.Configuration(berr.ReasonHandlerTypeMismatch, fmt.Sprintf("%T sent to %s", msg, c))
}
