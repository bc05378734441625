package dispatch

import "context"

// EventPublisher abstracts publishing events to a broker.
// Library users provide an implementation that maps to Kafka/NATS/RabbitMQ etc.
type EventPublisher interface {
	PublishEvent(ctx context.Context, evt Event, opts PublishOptions) error
}
