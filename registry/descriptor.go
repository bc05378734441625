package registry

import (
	"cmp"
	"context"
	"fmt"
	"reflect"

	berr "github.com/next-trace/scg-mediator/contract/errors"
	"github.com/next-trace/scg-mediator/validation"
)

// Descriptor binds a contract to one construction path, a lifetime and an optional order.
// Descriptors are immutable; decorating one produces a new Descriptor.
type Descriptor struct {
	contract Contract
	name     string
	module   string
	seq      int

	implType reflect.Type
	newFn    func() any
	instance any
	factory  FactoryFunc

	lifetime Lifetime
	order    int
	ordered  bool

	binding    Binding
	decorators []string
	build      func(ctx context.Context) (Invoker, error)
}

func newDescriptor(c Candidate, b Binding, module string, lifetime Lifetime, seq int) *Descriptor {
	d := &Descriptor{
		contract: b.contract,
		name:     c.Name(),
		module:   module,
		seq:      seq,
		implType: c.implType,
		newFn:    c.newFn,
		instance: c.instance,
		factory:  c.factory,
		lifetime: lifetime,
		order:    c.order,
		ordered:  c.ordered,
		binding:  b,
	}

	if c.hasLifetime {
		d.lifetime = c.lifetime
	}

	d.build = d.buildOriginal

	return d
}

func (d *Descriptor) Contract() Contract { return d.contract }

// Name is the implementation name used in logs.
func (d *Descriptor) Name() string { return d.name }

// Module is the name of the module the handler came from.
func (d *Descriptor) Module() string { return d.module }

// ImplementationType is nil for factory registrations.
func (d *Descriptor) ImplementationType() reflect.Type { return d.implType }

// Instance returns the pre-built handler for instance registrations, nil otherwise.
func (d *Descriptor) Instance() any { return d.instance }

// HasFactory reports whether the handler is built by a FactoryFunc.
func (d *Descriptor) HasFactory() bool { return d.factory != nil }

func (d *Descriptor) Lifetime() Lifetime { return d.lifetime }

// Order returns the declared order and whether one was declared.
func (d *Descriptor) Order() (int, bool) { return d.order, d.ordered }

// Decorators lists applied decorator names, innermost first.
func (d *Descriptor) Decorators() []string { return append([]string(nil), d.decorators...) }

// Build instantiates the handler through its construction path and composes every applied
// decorator around it. Lifetime caching is the Container's job.
func (d *Descriptor) Build(ctx context.Context) (Invoker, error) { return d.build(ctx) }

// Target describes d to a decorator.
func (d *Descriptor) Target() Target {
	return Target{
		Contract:       d.contract,
		Implementation: d.name,
		Module:         d.module,
		Lifetime:       d.lifetime,
		fail:           d.binding.fail,
	}
}

func (d *Descriptor) buildOriginal(ctx context.Context) (Invoker, error) {
	h, err := d.instantiate(ctx)
	if err != nil {
		return nil, err
	}

	return d.binding.bind(h)
}

func (d *Descriptor) instantiate(ctx context.Context) (any, error) {
	switch {
	case d.newFn != nil:
		return d.newFn(), nil
	case d.instance != nil:
		return d.instance, nil
	case d.factory != nil:
		h, err := d.factory(ctx)
		if err != nil {
			return nil, fmt.Errorf("factory %s: %w", d.name, err)
		}

		if h == nil {
			return nil, berr.Configuration(berr.ReasonInvalidDescriptor, "factory "+d.name+" returned nil")
		}

		return h, nil
	default:
		return nil, berr.Configuration(berr.ReasonInvalidDescriptor, d.name)
	}
}

func (d *Descriptor) decorate(dec Decorator) *Descriptor {
	next := *d
	next.decorators = append(d.Decorators(), decoratorName(dec))

	inner := d.build
	target := d.Target()
	name := decoratorName(dec)

	next.build = func(ctx context.Context) (Invoker, error) {
		inv, err := inner(ctx)
		if err != nil {
			return nil, err
		}

		wrapped := dec.Decorate(target, inv)
		if wrapped == nil {
			return nil, berr.Configuration(berr.ReasonInvalidDescriptor, "decorator "+name+" returned nil")
		}

		return wrapped, nil
	}

	return &next
}

// compareOrder sorts ordered handlers ascending and unordered ones after them.
func compareOrder(a, b *Descriptor) int {
	switch {
	case a.ordered && b.ordered:
		return cmp.Compare(a.order, b.order)
	case a.ordered:
		return -1
	case b.ordered:
		return 1
	default:
		return 0
	}
}

// Target is what a decorator knows about the handler it wraps.
type Target struct {
	Contract       Contract
	Implementation string
	Module         string
	Lifetime       Lifetime

	fail func(e validation.Error) (any, error)
}

// Fail returns what an Invoker for this target returns to short-circuit with a domain error:
// the failed outcome for requests and queries, the error itself as a fault for events.
func (t Target) Fail(e validation.Error) (any, error) {
	if t.fail == nil {
		return nil, e
	}

	return t.fail(e)
}
