package registry

import (
	"fmt"
	"reflect"
	"slices"

	berr "github.com/next-trace/scg-mediator/contract/errors"
)

// Decorator is an open decorator: it is not bound to a message type and is instantiated once
// per matching descriptor. Decorate runs whenever the wrapped handler is built, so it must
// return quickly and must not retain ctx.
type Decorator interface {
	// Shapes lists the contract shapes the decorator can wrap.
	Shapes() []Shape
	// Decorate wraps next, which belongs to t.
	Decorate(t Target, next Invoker) Invoker
}

// NewDecorator adapts fn to Decorator. No shapes means every shape.
func NewDecorator(name string, fn func(t Target, next Invoker) Invoker, shapes ...Shape) Decorator {
	if len(shapes) == 0 {
		shapes = AllShapes()
	}

	return funcDecorator{name: name, fn: fn, shapes: shapes}
}

type funcDecorator struct {
	name   string
	fn     func(Target, Invoker) Invoker
	shapes []Shape
}

func (f funcDecorator) Name() string                            { return f.name }
func (f funcDecorator) Shapes() []Shape                         { return slices.Clone(f.shapes) }
func (f funcDecorator) Decorate(t Target, next Invoker) Invoker { return f.fn(t, next) }

// ApplyDecorator returns a copy of t in which every descriptor of shape is wrapped by d.
// The receiver table is left untouched. Applying D1 then D2 yields D2(D1(handler)).
func ApplyDecorator(t *Table, shape Shape, d any) (*Table, error) {
	if t == nil {
		return nil, berr.Configuration(berr.ReasonInvalidDescriptor, "nil table")
	}

	dec, ok := d.(Decorator)
	if !ok || isNilValue(d) {
		return nil, berr.Configuration(
			berr.ReasonDecoratorNotOpenGeneric,
			fmt.Sprintf("%T is not a registry.Decorator", d),
		)
	}

	name := decoratorName(dec)

	if !t.Supports(shape) {
		return nil, berr.Configuration(
			berr.ReasonDecoratorContractMismatch,
			fmt.Sprintf("%s: shape %s is not supported by the table", name, shape),
		)
	}

	if !containsShape(dec.Shapes(), shape) {
		return nil, berr.Configuration(
			berr.ReasonDecoratorContractMismatch,
			fmt.Sprintf("%s does not implement the %s shape", name, shape),
		)
	}

	next := t.clone()
	matched := 0

	for _, k := range next.keys {
		if k.Shape != shape {
			continue
		}

		ds := next.entries[k]
		for i, desc := range ds {
			ds[i] = desc.decorate(dec)
			matched++
		}
	}

	if matched == 0 {
		return nil, berr.Configuration(
			berr.ReasonNoMatchingHandlers,
			fmt.Sprintf("%s: no %s handlers registered", name, shape),
		)
	}

	return next, nil
}

func decoratorName(d Decorator) string {
	if n, ok := d.(interface{ Name() string }); ok && n.Name() != "" {
		return n.Name()
	}

	return fmt.Sprintf("%T", d)
}

func isNilValue(v any) bool {
	if v == nil {
		return true
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Func, reflect.Interface, reflect.Slice, reflect.Chan:
		return rv.IsNil()
	default:
		return false
	}
}
