package servicebus_test

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/next-trace/scg-mediator/contract/dispatch"
	"github.com/next-trace/scg-mediator/outcome"
	"github.com/next-trace/scg-mediator/registry"
	"github.com/next-trace/scg-mediator/servicebus"
	"github.com/next-trace/scg-mediator/validation"
)

func Test_Bus_ConcurrentSendAndPublish(t *testing.T) {
	t.Parallel()

	const workers = 32

	var (
		singletons, scoped atomic.Int32
		sent, handled      atomic.Int32
	)

	sender := func(context.Context) (any, error) {
		singletons.Add(1)

		return dispatch.RequestHandlerFunc[placeOrder](func(context.Context, placeOrder) outcome.Option[validation.Error] {
			sent.Add(1)
			return validation.NoError()
		}), nil
	}

	listener := func(context.Context) (any, error) {
		scoped.Add(1)

		return dispatch.EventHandlerFunc[orderPlaced](func(context.Context, orderPlaced) error {
			handled.Add(1)
			return nil
		}), nil
	}

	b, err := servicebus.Configure(func(rb *registry.Builder) {
		rb.RegisterHandlerModule(registry.NewModule("orders",
			registry.Factory(sender, registry.RequestOf[placeOrder]()).WithLifetime(registry.Singleton),
			registry.Factory(listener, registry.EventOf[orderPlaced]()).WithLifetime(registry.Scoped),
		))
	})
	if err != nil {
		t.Fatalf("configure: %v", err)
	}

	var wg sync.WaitGroup

	errs := make(chan error, workers*3)

	for range workers {
		wg.Add(1)

		go func() {
			defer wg.Done()

			ctx, done := registry.BeginScope(t.Context())
			defer done()

			if _, err := servicebus.Send(ctx, b.Mediator, placeOrder{ID: "1"}); err != nil {
				errs <- err
			}

			for range 2 {
				if err := servicebus.Publish(ctx, b.EventBus, orderPlaced{ID: "1"}); err != nil {
					errs <- err
				}
			}
		}()
	}

	wg.Wait()
	close(errs)

	for err := range errs {
		t.Errorf("dispatch: %v", err)
	}

	if got := singletons.Load(); got != 1 {
		t.Fatalf("singleton built %d times, want 1", got)
	}

	if got := scoped.Load(); got != workers {
		t.Fatalf("scoped handler built %d times, want %d", got, workers)
	}

	if sent.Load() != workers || handled.Load() != workers*2 {
		t.Fatalf("sent=%d handled=%d", sent.Load(), handled.Load())
	}
}
