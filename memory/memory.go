package memory

import (
	"github.com/next-trace/scg-mediator/adapters/inmemory"
	"github.com/next-trace/scg-mediator/contract/dispatch"
	"github.com/next-trace/scg-mediator/registry"
	"github.com/next-trace/scg-mediator/servicebus"
)

// Harness is an in-process Bus whose relay handlers forward to an in-memory publisher.
type Harness struct {
	*servicebus.Bus
	Publisher *inmemory.Publisher
}

// New builds a Harness. register receives the builder and the recording publisher so relay
// handlers can be wired with servicebus.Forward.
func New(register func(b *registry.Builder, pub dispatch.EventPublisher), opts ...servicebus.Option) (*Harness, error) {
	pub := inmemory.New()

	bus, err := servicebus.Configure(func(b *registry.Builder) { register(b, pub) }, opts...)
	if err != nil {
		return nil, err
	}

	return &Harness{Bus: bus, Publisher: pub}, nil
}
