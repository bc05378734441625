package registry

import (
	"context"
	"fmt"
	"sync"
)

// Locator resolves the composed handlers registered for a contract, in dispatch order.
type Locator interface {
	ResolveAll(ctx context.Context, c Contract) ([]Invoker, error)
}

// Container is the Table-backed Locator. It applies each descriptor's Lifetime.
// It is safe for concurrent use.
type Container struct {
	table      *Table
	singletons map[*Descriptor]*singleton
}

type singleton struct {
	mu  sync.Mutex
	inv Invoker
}

var _ Locator = (*Container)(nil)

// NewContainer creates a Container over t.
func NewContainer(t *Table) *Container {
	c := &Container{table: t, singletons: make(map[*Descriptor]*singleton)}

	for _, d := range t.Descriptors() {
		if d.lifetime == Singleton {
			c.singletons[d] = &singleton{}
		}
	}

	return c
}

// Table returns the table the container reads from.
func (c *Container) Table() *Table { return c.table }

// ResolveAll builds or reuses the handler of every descriptor registered for contract.
func (c *Container) ResolveAll(ctx context.Context, contract Contract) ([]Invoker, error) {
	ds := c.table.entries[contract]
	out := make([]Invoker, 0, len(ds))

	for _, d := range ds {
		inv, err := c.resolve(ctx, d)
		if err != nil {
			return nil, fmt.Errorf("resolve %s (%s): %w", contract, d.name, err)
		}

		out = append(out, inv)
	}

	return out, nil
}

func (c *Container) resolve(ctx context.Context, d *Descriptor) (Invoker, error) {
	switch d.lifetime {
	case Singleton:
		if s, ok := c.singletons[d]; ok {
			return s.get(ctx, d)
		}
	case Scoped:
		if s := ScopeFrom(ctx); s != nil {
			return s.get(ctx, d)
		}
	case Transient:
	}

	return d.Build(ctx)
}

func (s *singleton) get(ctx context.Context, d *Descriptor) (Invoker, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.inv != nil {
		return s.inv, nil
	}

	inv, err := d.Build(ctx)
	if err != nil {
		return nil, err
	}

	s.inv = inv

	return inv, nil
}

// Scope caches Scoped handlers for the duration of a unit of work, typically one inbound request.
type Scope struct {
	mu    sync.Mutex
	items map[*Descriptor]Invoker
}

// NewScope creates an empty Scope.
func NewScope() *Scope { return &Scope{items: make(map[*Descriptor]Invoker)} }

type scopeKey struct{}

// WithScope returns a context carrying s.
func WithScope(ctx context.Context, s *Scope) context.Context {
	return context.WithValue(ctx, scopeKey{}, s)
}

// BeginScope returns a context carrying a fresh Scope and a function releasing it.
func BeginScope(ctx context.Context) (context.Context, func()) {
	s := NewScope()
	return WithScope(ctx, s), s.Close
}

// ScopeFrom returns the Scope carried by ctx, or nil.
func ScopeFrom(ctx context.Context) *Scope {
	s, _ := ctx.Value(scopeKey{}).(*Scope)
	return s
}

// Close drops every cached handler.
func (s *Scope) Close() {
	s.mu.Lock()
	clear(s.items)
	s.mu.Unlock()
}

func (s *Scope) get(ctx context.Context, d *Descriptor) (Invoker, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if inv, ok := s.items[d]; ok {
		return inv, nil
	}

	inv, err := d.Build(ctx)
	if err != nil {
		return nil, err
	}

	s.items[d] = inv

	return inv, nil
}
