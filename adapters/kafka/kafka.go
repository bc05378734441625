package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/next-trace/scg-mediator/contract/dispatch"
	berr "github.com/next-trace/scg-mediator/contract/errors"
)

// Writer is a minimal Kafka-like writer interface.
// Users can adapt any client to this; Connect provides a franz-go backed one.
type Writer interface {
	Write(ctx context.Context, topic string, key, value []byte, headers map[string]string) error
}

// Adapter forwards events to Kafka topics using an injected Writer.
type Adapter struct {
	Writer     Writer
	Propagator dispatch.HeaderPropagator
}

var _ dispatch.EventPublisher = (*Adapter)(nil)

// New creates a new Kafka adapter instance with the provided writer.
func New(w Writer) *Adapter { return &Adapter{Writer: w} }

// PublishEvent serializes evt as JSON and writes one record keyed by opts.Key.
func (a *Adapter) PublishEvent(ctx context.Context, evt dispatch.Event, opts dispatch.PublishOptions) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if a.Writer == nil {
		return fmt.Errorf("kafka publish: %w", berr.ErrPublisherNotConfigured)
	}

	val, err := json.Marshal(evt)
	if err != nil {
		return fmt.Errorf("kafka publish serialize: %w", errors.Join(berr.ErrSerializationFailed, err))
	}

	topic := dispatch.TopicFor(evt, opts)

	var key []byte
	if opts.Key != "" {
		key = []byte(opts.Key)
	}

	if err = a.Writer.Write(ctx, topic, key, val, dispatch.HeadersFor(ctx, opts, a.Propagator)); err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return err
		}

		return fmt.Errorf("kafka publish to %q: %w", topic, errors.Join(berr.ErrPublishFailed, err))
	}

	return nil
}
