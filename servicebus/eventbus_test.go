package servicebus_test

import (
	"context"
	"errors"
	"testing"

	"github.com/next-trace/scg-mediator/contract/dispatch"
	berr "github.com/next-trace/scg-mediator/contract/errors"
	"github.com/next-trace/scg-mediator/registry"
	"github.com/next-trace/scg-mediator/servicebus"
)

type orderPlaced struct{ ID string }

type orderShipped struct{ ID string }

func recorder(name string, calls *[]string) registry.Candidate {
	return registry.Instance(dispatch.EventHandlerFunc[orderPlaced](func(context.Context, orderPlaced) error {
		*calls = append(*calls, name)
		return nil
	}), registry.EventOf[orderPlaced]()).Named(name)
}

func Test_Publish_OrderedThenUnordered(t *testing.T) {
	var calls []string

	b, err := servicebus.Configure(func(b *registry.Builder) {
		b.RegisterHandlerModule(registry.NewModule("events",
			recorder("C", &calls),
			recorder("B", &calls).WithOrder(2),
			recorder("D", &calls),
			recorder("A", &calls).WithOrder(1),
		))
	})
	if err != nil {
		t.Fatalf("configure: %v", err)
	}

	if err := servicebus.Publish(t.Context(), b.EventBus, orderPlaced{ID: "1"}); err != nil {
		t.Fatalf("publish: %v", err)
	}

	want := []string{"A", "B", "C", "D"}
	if len(calls) != len(want) {
		t.Fatalf("calls=%v want=%v", calls, want)
	}

	for i := range want {
		if calls[i] != want[i] {
			t.Fatalf("order mismatch at %d: %s != %s", i, calls[i], want[i])
		}
	}
}

func Test_Publish_NoHandlersFound(t *testing.T) {
	var calls []string

	b, err := servicebus.Configure(func(b *registry.Builder) {
		b.RegisterHandlerModule(registry.NewModule("events", recorder("A", &calls)))
	})
	if err != nil {
		t.Fatalf("configure: %v", err)
	}

	err = servicebus.Publish(t.Context(), b.EventBus, orderShipped{ID: "1"})
	if !errors.Is(err, berr.ErrNoHandlersFound) {
		t.Fatalf("want ErrNoHandlersFound, got %v", err)
	}

	if err := b.PublishAny(t.Context(), orderShipped{}); !errors.Is(err, berr.ErrNoHandlersFound) {
		t.Fatalf("want ErrNoHandlersFound, got %v", err)
	}

	if len(calls) != 0 {
		t.Fatalf("no handler should run, calls=%v", calls)
	}
}

func Test_Publish_FirstFaultAbortsRemaining(t *testing.T) {
	var calls []string

	boom := errors.New("boom")
	failing := registry.Instance(dispatch.EventHandlerFunc[orderPlaced](func(context.Context, orderPlaced) error {
		calls = append(calls, "fail")
		return boom
	}), registry.EventOf[orderPlaced]()).WithOrder(2)

	b, err := servicebus.Configure(func(b *registry.Builder) {
		b.RegisterHandlerModule(registry.NewModule("events",
			recorder("first", &calls).WithOrder(1),
			failing,
			recorder("last", &calls).WithOrder(3),
		))
	})
	if err != nil {
		t.Fatalf("configure: %v", err)
	}

	err = b.PublishAny(t.Context(), orderPlaced{ID: "1"})
	if !errors.Is(err, boom) {
		t.Fatalf("want boom, got %v", err)
	}

	if len(calls) != 2 || calls[0] != "first" || calls[1] != "fail" {
		t.Fatalf("calls=%v", calls)
	}
}

type counter struct{ n *int }

func (c counter) Handle(context.Context, orderPlaced) error {
	*c.n++
	return nil
}

func Test_Publish_IsNotIdempotent(t *testing.T) {
	var a, b int

	bus, err := servicebus.Configure(func(rb *registry.Builder) {
		rb.RegisterHandlerModule(registry.NewModule("counters",
			registry.Instance(counter{n: &a}, registry.EventOf[orderPlaced]()),
			registry.Instance(counter{n: &b}, registry.EventOf[orderPlaced]()),
		))
	})
	if err != nil {
		t.Fatalf("configure: %v", err)
	}

	evt := orderPlaced{ID: "same"}

	for range 2 {
		if err := servicebus.Publish(t.Context(), bus.EventBus, evt); err != nil {
			t.Fatalf("publish: %v", err)
		}
	}

	if a != 2 || b != 2 {
		t.Fatalf("counters a=%d b=%d, want 2 each", a, b)
	}
}

func Test_Publish_ScopedHandlerReusedWithinScope(t *testing.T) {
	var built int

	factory := func(context.Context) (any, error) {
		built++
		return dispatch.EventHandlerFunc[orderPlaced](func(context.Context, orderPlaced) error { return nil }), nil
	}

	bus, err := servicebus.Configure(func(rb *registry.Builder) {
		rb.SetDefaultLifetime(registry.Scoped)
		rb.RegisterHandlerModule(registry.NewModule("scoped",
			registry.Factory(factory, registry.EventOf[orderPlaced]()),
		))
	})
	if err != nil {
		t.Fatalf("configure: %v", err)
	}

	ctx, done := registry.BeginScope(t.Context())

	for range 3 {
		if err := servicebus.Publish(ctx, bus.EventBus, orderPlaced{}); err != nil {
			t.Fatalf("publish: %v", err)
		}
	}

	done()

	if built != 1 {
		t.Fatalf("built %d handlers within one scope, want 1", built)
	}

	if err := servicebus.Publish(t.Context(), bus.EventBus, orderPlaced{}); err != nil {
		t.Fatalf("publish: %v", err)
	}

	if built != 2 {
		t.Fatalf("built %d handlers, want 2", built)
	}
}
