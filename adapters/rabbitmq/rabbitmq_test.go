package rabbitmq_test

import (
	"context"
	"errors"
	"testing"

	"github.com/next-trace/scg-mediator/adapters/rabbitmq"
	"github.com/next-trace/scg-mediator/contract/dispatch"
	berr "github.com/next-trace/scg-mediator/contract/errors"
)

type fakePublisher struct {
	calls []rabbitmq.PubMsg
	err   error
}

func (f *fakePublisher) Publish(_ context.Context, m rabbitmq.PubMsg) error {
	f.calls = append(f.calls, m)
	return f.err
}

type integ struct{ T string }

func (integ) Topic() string { return "evt.orders" }

type ev struct{ Name string }

type traceProp struct{}

func (traceProp) Inject(_ context.Context, h map[string]string) { h["traceparent"] = "00-1" }

func TestRabbitMQ_PublishEvent(t *testing.T) {
	fp := &fakePublisher{}
	ad := rabbitmq.NewWithPropagator(fp, traceProp{})

	headers := map[string]string{"ph": "pv"}
	po := dispatch.PublishOptions{Key: "rk", Headers: headers}

	if err := ad.PublishEvent(t.Context(), integ{T: "t"}, po); err != nil {
		t.Fatalf("publish: %v", err)
	}

	if err := ad.PublishEvent(t.Context(), ev{Name: "e"}, dispatch.PublishOptions{Topic: "override"}); err != nil {
		t.Fatalf("publish: %v", err)
	}

	if len(fp.calls) != 2 {
		t.Fatalf("want 2, got %d", len(fp.calls))
	}

	p := fp.calls[0]
	if p.Exchange != rabbitmq.DefaultExchange || p.RoutingKey != "evt.orders" {
		t.Fatalf("routing: %q %q", p.Exchange, p.RoutingKey)
	}

	if p.Headers["ph"] != "pv" || p.Headers["key"] != "rk" || p.Headers["traceparent"] != "00-1" {
		t.Fatalf("pub headers: %+v", p.Headers)
	}

	if _, mutated := headers["traceparent"]; mutated {
		t.Fatalf("caller headers must not be mutated")
	}

	if fp.calls[1].RoutingKey != "override" {
		t.Fatalf("routing key: %s", fp.calls[1].RoutingKey)
	}
}

func TestRabbitMQ_NilPublisherError(t *testing.T) {
	err := rabbitmq.New(nil).PublishEvent(t.Context(), integ{}, dispatch.PublishOptions{})
	if !errors.Is(err, berr.ErrPublisherNotConfigured) {
		t.Fatalf("want ErrPublisherNotConfigured, got %v", err)
	}
}

func TestRabbitMQ_Publish_ErrorWrapping_And_ContextCancel(t *testing.T) {
	ad := rabbitmq.New(&fakePublisher{err: errors.New("boom")})

	if err := ad.PublishEvent(t.Context(), ev{Name: "e"}, dispatch.PublishOptions{}); !errors.Is(err, berr.ErrPublishFailed) {
		t.Fatalf("want ErrPublishFailed, got %v", err)
	}

	ad2 := rabbitmq.New(&fakePublisher{err: context.Canceled})

	err := ad2.PublishEvent(t.Context(), integ{T: "evt.orders"}, dispatch.PublishOptions{})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("want context.Canceled, got %v", err)
	}
}
