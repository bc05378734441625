package servicebus

import (
	"log/slog"

	"github.com/next-trace/scg-mediator/registry"
)

// Bus bundles a Mediator and an EventBus reading from the same dispatch table.
//
// Bus is concurrency-safe and contains no global state.
type Bus struct {
	*Mediator
	*EventBus

	table *registry.Table
	loc   registry.Locator
}

// Option configures a Bus.
type Option func(*options)

type options struct {
	logger  *slog.Logger
	locator registry.Locator
}

// WithLogger sets the logger used by the mediator and the event bus.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) { o.logger = l }
}

// WithLocator replaces the default registry.Container, for example with one backed by an
// external service container.
func WithLocator(loc registry.Locator) Option {
	return func(o *options) { o.locator = loc }
}

// New constructs a Bus over t.
func New(t *registry.Table, opts ...Option) *Bus {
	var o options
	for _, f := range opts {
		f(&o)
	}

	if o.locator == nil {
		o.locator = registry.NewContainer(t)
	}

	return &Bus{
		Mediator: NewMediator(o.locator, o.logger),
		EventBus: NewEventBus(o.locator, o.logger),
		table:    t,
		loc:      o.locator,
	}
}

// Configure runs fn against a fresh registry.Builder and builds a Bus from the result.
func Configure(fn func(b *registry.Builder), opts ...Option) (*Bus, error) {
	var o options
	for _, f := range opts {
		f(&o)
	}

	b := registry.NewBuilder().WithLogger(o.logger)
	fn(b)

	t, err := b.Build()
	if err != nil {
		return nil, err
	}

	return New(t, opts...), nil
}

// Table returns the dispatch table.
func (b *Bus) Table() *registry.Table { return b.table }

// Locator returns the locator handlers are resolved from.
func (b *Bus) Locator() registry.Locator { return b.loc }
