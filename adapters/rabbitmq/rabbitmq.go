package rabbitmq

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/next-trace/scg-mediator/contract/dispatch"
	berr "github.com/next-trace/scg-mediator/contract/errors"
)

// DefaultExchange is the topic exchange events are published to unless Adapter.Exchange is set.
const DefaultExchange = "events"

type PubMsg struct {
	Exchange   string
	RoutingKey string
	Body       []byte
	Headers    map[string]string
}

type Publisher interface {
	Publish(ctx context.Context, m PubMsg) error
}

// Adapter forwards events to a RabbitMQ exchange, routed by topic.
type Adapter struct {
	Publisher  Publisher
	Exchange   string
	Propagator dispatch.HeaderPropagator // optional, for context propagation into headers
}

var _ dispatch.EventPublisher = (*Adapter)(nil)

func New(p Publisher) *Adapter { return &Adapter{Publisher: p, Exchange: DefaultExchange} }

// NewWithPropagator allows configuring a HeaderPropagator for context propagation.
func NewWithPropagator(p Publisher, hp dispatch.HeaderPropagator) *Adapter {
	a := New(p)
	a.Propagator = hp

	return a
}

// PublishEvent serializes evt as JSON and publishes it with the resolved topic as routing key.
func (a *Adapter) PublishEvent(ctx context.Context, evt dispatch.Event, opts dispatch.PublishOptions) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if a.Publisher == nil {
		return fmt.Errorf("rabbitmq publish: %w", berr.ErrPublisherNotConfigured)
	}

	body, err := json.Marshal(evt)
	if err != nil {
		return fmt.Errorf("rabbitmq publish serialize: %w", errors.Join(berr.ErrSerializationFailed, err))
	}

	msg := PubMsg{
		Exchange:   a.Exchange,
		RoutingKey: dispatch.TopicFor(evt, opts),
		Body:       body,
		Headers:    dispatch.HeadersFor(ctx, opts, a.Propagator),
	}

	if err := a.Publisher.Publish(ctx, msg); err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return err
		}

		return fmt.Errorf("rabbitmq publish %s: %w", msg.RoutingKey, errors.Join(berr.ErrPublishFailed, err))
	}

	return nil
}

func publishing(m PubMsg) amqp.Publishing {
	var h amqp.Table
	if len(m.Headers) > 0 {
		h = amqp.Table{}
		for k, v := range m.Headers {
			h[k] = v
		}
	}

	return amqp.Publishing{
		DeliveryMode: amqp.Persistent,
		Headers:      h,
		ContentType:  "application/json",
		Body:         m.Body,
	}
}

type amqpChannelPublisher struct{ ch *amqp.Channel }

func (p amqpChannelPublisher) Publish(ctx context.Context, m PubMsg) error {
	return p.ch.PublishWithContext(ctx, m.Exchange, m.RoutingKey, false, false, publishing(m))
}

// NewWithAMQPChannel wraps an already open channel. The exchange must exist.
func NewWithAMQPChannel(ch *amqp.Channel) *Adapter {
	return New(amqpChannelPublisher{ch: ch})
}
