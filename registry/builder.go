package registry

import (
	"fmt"
	"log/slog"
	"reflect"
	"slices"
	"strings"

	berr "github.com/next-trace/scg-mediator/contract/errors"
)

type moduleEntry struct {
	module   Module
	lifetime Lifetime
}

type decoratorEntry struct {
	shape     Shape
	decorator any
}

// Builder collects configuration once at startup and produces an immutable Table.
// It is not safe for concurrent use.
type Builder struct {
	shapes     []Shape
	lifetime   Lifetime
	modules    []moduleEntry
	decorators []decoratorEntry
	logger     *slog.Logger
}

// NewBuilder creates a Builder for the given shapes, or for every shape when none are given.
func NewBuilder(shapes ...Shape) *Builder {
	if len(shapes) == 0 {
		shapes = AllShapes()
	}

	return &Builder{shapes: shapes, lifetime: Transient, logger: discard()}
}

// WithLogger sets the logger used to report skipped candidates.
func (b *Builder) WithLogger(l *slog.Logger) *Builder {
	if l != nil {
		b.logger = l
	}

	return b
}

// SetDefaultLifetime sets the lifetime of modules registered after this call.
func (b *Builder) SetDefaultLifetime(l Lifetime) *Builder {
	b.lifetime = l
	return b
}

// RegisterHandlerModule adds a module with the current default lifetime.
func (b *Builder) RegisterHandlerModule(m Module) *Builder {
	b.modules = append(b.modules, moduleEntry{module: m, lifetime: b.lifetime})
	return b
}

// ApplyDecorator records a decorator for shape. Decorators are applied after every module has
// been registered, in call order: the first call ends up innermost, the last one outermost.
func (b *Builder) ApplyDecorator(shape Shape, d any) *Builder {
	b.decorators = append(b.decorators, decoratorEntry{shape: shape, decorator: d})
	return b
}

// Build produces the Table, failing on the first configuration defect.
func (b *Builder) Build() (*Table, error) {
	t, err := buildTable(b.modules, b.shapes, b.logger)
	if err != nil {
		return nil, err
	}

	for _, d := range b.decorators {
		if t, err = ApplyDecorator(t, d.shape, d.decorator); err != nil {
			return nil, err
		}
	}

	return t, nil
}

// BuildRegistry matches every candidate of modules against shapes and produces a Table whose
// descriptors carry lifetime unless a candidate overrides it.
//
// Enumeration is deterministic: modules in slice order, candidates in module order, and for
// each candidate the first binding that is both supported and implemented wins.
func BuildRegistry(modules []Module, shapes []Shape, lifetime Lifetime) (*Table, error) {
	entries := make([]moduleEntry, 0, len(modules))
	for _, m := range modules {
		entries = append(entries, moduleEntry{module: m, lifetime: lifetime})
	}

	return buildTable(entries, shapes, discard())
}

func buildTable(modules []moduleEntry, shapes []Shape, logger *slog.Logger) (*Table, error) {
	if len(modules) == 0 {
		return nil, berr.Configuration(berr.ReasonNoModulesProvided, "")
	}

	if len(shapes) == 0 {
		shapes = AllShapes()
	}

	t := newTable(shapes)
	seen := make(map[Contract]map[reflect.Type]bool)
	seq := 0

	for _, e := range modules {
		for i, c := range e.module.candidates {
			if c.sources() != 1 {
				return nil, berr.Configuration(
					berr.ReasonInvalidDescriptor,
					fmt.Sprintf("module %q candidate %d (%s): want exactly one construction path, got %d",
						e.module.name, i, c.Name(), c.sources()),
				)
			}

			b, ok := c.match(shapes)
			if !ok {
				logger.Debug("registry: skipping candidate", "module", e.module.name, "candidate", c.Name())
				continue
			}

			if c.newFn != nil {
				if seen[b.contract] == nil {
					seen[b.contract] = make(map[reflect.Type]bool)
				}

				if seen[b.contract][c.implType] {
					logger.Debug("registry: duplicate type", "contract", b.contract.String(), "candidate", c.Name())
					continue
				}

				seen[b.contract][c.implType] = true
			}

			t.add(newDescriptor(c, b, e.module.name, e.lifetime, seq))
			seq++
		}
	}

	for _, k := range t.keys {
		ds := t.entries[k]

		if k.Shape == ShapeEvent {
			slices.SortStableFunc(ds, compareOrder)
			continue
		}

		if len(ds) > 1 {
			names := make([]string, 0, len(ds))
			for _, d := range ds {
				names = append(names, d.name)
			}

			return nil, berr.Configuration(
				berr.ReasonAmbiguousHandler,
				fmt.Sprintf("%s: %s", k, strings.Join(names, ", ")),
			)
		}
	}

	return t, nil
}

func discard() *slog.Logger { return slog.New(slog.DiscardHandler) }
