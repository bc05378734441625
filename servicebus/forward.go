package servicebus

import (
	"context"
	"fmt"

	"github.com/next-trace/scg-mediator/contract/dispatch"
	berr "github.com/next-trace/scg-mediator/contract/errors"
)

// Forwarder is an EventHandler that hands every event to a broker publisher.
// Register it like any other handler; give it an order to control when forwarding happens
// relative to in-process handlers.
type Forwarder[E dispatch.Event] struct {
	pub  dispatch.EventPublisher
	opts dispatch.PublishOptions
}

var _ dispatch.EventHandler[struct{}] = (*Forwarder[struct{}])(nil)

// Forward creates a Forwarder for events of type E.
func Forward[E dispatch.Event](pub dispatch.EventPublisher, opts dispatch.PublishOptions) *Forwarder[E] {
	return &Forwarder[E]{pub: pub, opts: opts}
}

func (f *Forwarder[E]) Handle(ctx context.Context, e E) error {
	if f.pub == nil {
		return fmt.Errorf("forward %T: %w", e, berr.ErrPublisherNotConfigured)
	}

	return f.pub.PublishEvent(ctx, e, f.opts)
}
