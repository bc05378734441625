package inmemory

import (
	"context"
	"slices"
	"sync"

	"github.com/next-trace/scg-mediator/contract/dispatch"
)

// Message is one recorded publication.
type Message struct {
	Topic   string
	Event   dispatch.Event
	Headers map[string]string
}

// Publisher is a thread-safe in-memory dispatch.EventPublisher.
// It records forwarded events for tests and examples.
type Publisher struct {
	mu       sync.Mutex
	messages []Message
}

var _ dispatch.EventPublisher = (*Publisher)(nil)

// New creates a new in-memory publisher.
func New() *Publisher { return &Publisher{} }

func (p *Publisher) PublishEvent(ctx context.Context, evt dispatch.Event, opts dispatch.PublishOptions) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	m := Message{
		Topic:   dispatch.TopicFor(evt, opts),
		Event:   evt,
		Headers: dispatch.HeadersFor(ctx, opts, nil),
	}

	p.mu.Lock()
	p.messages = append(p.messages, m)
	p.mu.Unlock()

	return nil
}

// Messages returns a copy of everything published so far.
func (p *Publisher) Messages() []Message {
	p.mu.Lock()
	defer p.mu.Unlock()

	return slices.Clone(p.messages)
}

// Topic returns the events published to topic, in order.
func (p *Publisher) Topic(topic string) []dispatch.Event {
	p.mu.Lock()
	defer p.mu.Unlock()

	var out []dispatch.Event

	for _, m := range p.messages {
		if m.Topic == topic {
			out = append(out, m.Event)
		}
	}

	return out
}

// Reset drops every recorded message.
func (p *Publisher) Reset() {
	p.mu.Lock()
	p.messages = nil
	p.mu.Unlock()
}
