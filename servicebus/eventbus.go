package servicebus

import (
	"context"
	"fmt"
	"log/slog"
	"reflect"

	berr "github.com/next-trace/scg-mediator/contract/errors"
	"github.com/next-trace/scg-mediator/registry"
)

// EventBus publishes an event to every handler registered for its contract, one at a time,
// in table order. It is safe for concurrent use.
type EventBus struct {
	loc    registry.Locator
	logger *slog.Logger
}

// NewEventBus constructs an EventBus over loc.
func NewEventBus(loc registry.Locator, logger *slog.Logger) *EventBus {
	return &EventBus{loc: loc, logger: orDiscard(logger)}
}

// Publish invokes every EventHandler[E] sequentially. Having no handler is a configuration
// defect. The first handler error stops the sequence and is returned wrapped; handlers that
// already ran are not compensated.
func Publish[E any](ctx context.Context, b *EventBus, e E) error {
	return b.publish(ctx, registry.EventContract[E](), e)
}

// PublishAny publishes e using its dynamic type as the event contract.
func (b *EventBus) PublishAny(ctx context.Context, e any) error {
	return b.publish(ctx, registry.Contract{Shape: registry.ShapeEvent, Message: reflect.TypeOf(e)}, e)
}

func (b *EventBus) publish(ctx context.Context, c registry.Contract, e any) error {
	invs, err := b.loc.ResolveAll(ctx, c)
	if err != nil {
		return fmt.Errorf("publish %s: %w", c, err)
	}

	if len(invs) == 0 {
		return berr.Configuration(berr.ReasonNoHandlersFound, c.String())
	}

	b.logger.DebugContext(ctx, "eventbus: publish", "contract", c.String(), "handlers", len(invs))

	for i, inv := range invs {
		if _, err := inv(ctx, e); err != nil {
			b.logger.WarnContext(ctx, "eventbus: handler failed",
				"contract", c.String(), "handler", i+1, "of", len(invs), "error", err)

			return fmt.Errorf("publish %s: handler %d of %d: %w", c, i+1, len(invs), err)
		}
	}

	return nil
}
