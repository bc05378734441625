package nats

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/next-trace/scg-mediator/contract/dispatch"
	berr "github.com/next-trace/scg-mediator/contract/errors"
)

// Client is a minimal NATS-like publisher interface decoupled from any concrete library.
// Users can provide a wrapper around their NATS connection to satisfy this.
type Client interface {
	// Publish publishes a message to a subject with optional headers.
	Publish(subject string, data []byte, headers map[string]string) error
}

// Adapter forwards events to NATS subjects using an injected Client.
type Adapter struct {
	Client     Client
	Propagator dispatch.HeaderPropagator
}

var _ dispatch.EventPublisher = (*Adapter)(nil)

// New creates a new NATS adapter instance with the provided client.
func New(c Client) *Adapter { return &Adapter{Client: c} }

// PublishEvent serializes evt as JSON and publishes it to the resolved subject.
func (a *Adapter) PublishEvent(ctx context.Context, evt dispatch.Event, opts dispatch.PublishOptions) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if a.Client == nil {
		return fmt.Errorf("nats publish: %w", berr.ErrPublisherNotConfigured)
	}

	body, err := json.Marshal(evt)
	if err != nil {
		return fmt.Errorf("nats publish serialize: %w", errors.Join(berr.ErrSerializationFailed, err))
	}

	subj := dispatch.TopicFor(evt, opts)
	headers := dispatch.HeadersFor(ctx, opts, a.Propagator)

	if err := a.Client.Publish(subj, body, headers); err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return err
		}

		return fmt.Errorf("nats publish %s: %w", subj, errors.Join(berr.ErrPublishFailed, err))
	}

	return nil
}
