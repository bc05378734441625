package decorators

import (
	"context"

	"github.com/next-trace/scg-mediator/registry"
	"github.com/next-trace/scg-mediator/validation"
)

type validate struct {
	check  func(msg any) (validation.Error, bool)
	shapes []registry.Shape
}

// Validate rejects messages failing their `validate` struct tags before the handler runs.
// Requests and queries short-circuit with a KindValidation outcome; events fail with the
// validation.Error as a fault. No shapes means requests and queries.
func Validate(v *validation.StructValidator, shapes ...registry.Shape) registry.Decorator {
	if v == nil {
		v = validation.NewStructValidator()
	}

	return validate{
		check:  func(msg any) (validation.Error, bool) { return v.Validate(msg).TryPickValue() },
		shapes: orMediator(shapes),
	}
}

// ValidateWith runs v for messages of type T and lets every other message through.
func ValidateWith[T any](v validation.Validator[T], shapes ...registry.Shape) registry.Decorator {
	return validate{
		check: func(msg any) (validation.Error, bool) {
			m, ok := msg.(T)
			if !ok {
				return validation.Error{}, false
			}

			return v.Validate(m).TryPickValue()
		},
		shapes: orMediator(shapes),
	}
}

func (validate) Name() string { return "validate" }

func (v validate) Shapes() []registry.Shape { return v.shapes }

func (v validate) Decorate(t registry.Target, next registry.Invoker) registry.Invoker {
	return func(ctx context.Context, msg any) (any, error) {
		if derr, failed := v.check(msg); failed {
			return t.Fail(derr)
		}

		return next(ctx, msg)
	}
}

func orMediator(shapes []registry.Shape) []registry.Shape {
	if len(shapes) == 0 {
		return registry.MediatorShapes()
	}

	return shapes
}
