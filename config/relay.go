package config

import (
	"fmt"
	"log/slog"

	"github.com/next-trace/scg-mediator/adapters/inmemory"
	"github.com/next-trace/scg-mediator/adapters/kafka"
	"github.com/next-trace/scg-mediator/adapters/nats"
	"github.com/next-trace/scg-mediator/adapters/rabbitmq"
	"github.com/next-trace/scg-mediator/contract/dispatch"
)

// RelayConfig selects the broker forwarded events are published to.
type RelayConfig struct {
	// Driver: none, memory, nats, kafka, rabbitmq
	Driver string `mapstructure:"driver" validate:"required,oneof=none memory nats kafka rabbitmq"`

	NATS     nats.Config     `mapstructure:"nats"`
	Kafka    kafka.Config    `mapstructure:"kafka"`
	RabbitMQ rabbitmq.Config `mapstructure:"rabbitmq"`
}

// Open connects the configured relay publisher. The driver "none" yields a nil publisher, so
// forwarding handlers report relay.publisher_not_configured. The cleanup is never nil.
func (r RelayConfig) Open(logger *slog.Logger) (dispatch.EventPublisher, func(), error) {
	noop := func() {}

	switch r.Driver {
	case "", "none":
		return nil, noop, nil
	case "memory":
		return inmemory.New(), noop, nil
	case "nats":
		return orNoop(nats.Connect(r.NATS, logger))
	case "kafka":
		return orNoop(kafka.Connect(r.Kafka))
	case "rabbitmq":
		return orNoop(rabbitmq.Connect(r.RabbitMQ, logger))
	default:
		return nil, noop, fmt.Errorf("relay: unknown driver %q", r.Driver)
	}
}

func orNoop(p dispatch.EventPublisher, cleanup func(), err error) (dispatch.EventPublisher, func(), error) {
	if err != nil {
		return nil, func() {}, fmt.Errorf("relay: %w", err)
	}

	return p, cleanup, nil
}
