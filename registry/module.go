package registry

import (
	"context"
	"reflect"
)

// FactoryFunc builds a handler instance on demand.
type FactoryFunc func(ctx context.Context) (any, error)

// Candidate is one handler implementation offered by a Module together with the contracts it
// claims to implement, in preference order. Exactly one construction path is set.
type Candidate struct {
	name     string
	implType reflect.Type
	newFn    func() any
	instance any
	factory  FactoryFunc
	bindings []Binding

	order       int
	ordered     bool
	lifetime    Lifetime
	hasLifetime bool
}

// Type offers the concrete type H, constructed fresh on every build. Pointer types get a new
// zeroed element; value types use their zero value.
func Type[H any](bindings ...Binding) Candidate {
	t := reflect.TypeFor[H]()
	c := Candidate{implType: t, bindings: bindings}

	if t.Kind() == reflect.Interface {
		return c
	}

	if t.Kind() == reflect.Pointer {
		elem := t.Elem()
		c.newFn = func() any { return reflect.New(elem).Interface() }
	} else {
		c.newFn = func() any {
			var h H
			return h
		}
	}

	return c
}

// Instance offers a pre-built handler value.
func Instance(v any, bindings ...Binding) Candidate {
	c := Candidate{instance: v, bindings: bindings}
	if v != nil {
		c.implType = reflect.TypeOf(v)
	}

	return c
}

// Factory offers a handler built by fn. The concrete type is only known at resolution time, so
// the first supported binding is taken without an implementation check.
func Factory(fn FactoryFunc, bindings ...Binding) Candidate {
	return Candidate{factory: fn, bindings: bindings}
}

// WithOrder declares the position of an event handler among the handlers of the same event.
// Lower runs first; handlers without an order run after all ordered ones.
func (c Candidate) WithOrder(order int) Candidate {
	c.order, c.ordered = order, true
	return c
}

// WithLifetime overrides the module default lifetime for this candidate.
func (c Candidate) WithLifetime(l Lifetime) Candidate {
	c.lifetime, c.hasLifetime = l, true
	return c
}

// Named sets the name used in logs and error messages.
func (c Candidate) Named(name string) Candidate {
	c.name = name
	return c
}

// Name returns the explicit name, the implementation type, or "factory".
func (c Candidate) Name() string {
	switch {
	case c.name != "":
		return c.name
	case c.implType != nil:
		return c.implType.String()
	case c.factory != nil:
		return "factory"
	default:
		return "<empty>"
	}
}

func (c Candidate) sources() int {
	n := 0
	if c.newFn != nil {
		n++
	}

	if c.instance != nil {
		n++
	}

	if c.factory != nil {
		n++
	}

	return n
}

// match returns the first binding whose shape is supported and which the implementation satisfies.
func (c Candidate) match(shapes []Shape) (Binding, bool) {
	for _, b := range c.bindings {
		if !containsShape(shapes, b.contract.Shape) {
			continue
		}

		if c.implType != nil && !c.implType.Implements(b.iface) {
			continue
		}

		return b, true
	}

	return Binding{}, false
}

// Module is a named set of candidate handler implementations.
// Candidates that implement no supported contract are skipped when the registry is built.
type Module struct {
	name       string
	candidates []Candidate
}

// NewModule creates a Module. Candidate order is preserved and defines registration order.
func NewModule(name string, candidates ...Candidate) Module {
	return Module{name: name, candidates: append([]Candidate(nil), candidates...)}
}

func (m Module) Name() string { return m.name }

// Candidates returns a copy of the module contents.
func (m Module) Candidates() []Candidate { return append([]Candidate(nil), m.candidates...) }
