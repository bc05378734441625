package nats_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/next-trace/scg-mediator/adapters/nats"
	"github.com/next-trace/scg-mediator/contract/dispatch"
	berr "github.com/next-trace/scg-mediator/contract/errors"
)

type call struct {
	subject string
	data    []byte
	headers map[string]string
}

type fakeClient struct {
	calls []call
	err   error
}

func (f *fakeClient) Publish(subject string, data []byte, headers map[string]string) error {
	f.calls = append(f.calls, call{subject, data, headers})
	return f.err
}

type orderPlaced struct{ ID string }

type topical struct{ T string }

func (i topical) Topic() string { return i.T }

type traceProp struct{}

func (traceProp) Inject(_ context.Context, h map[string]string) { h["traceparent"] = "00-abc" }

func TestNATS_PublishEvent_TopicResolution(t *testing.T) {
	fc := &fakeClient{}
	ad := nats.New(fc)
	ad.Propagator = traceProp{}

	po := dispatch.PublishOptions{Topic: "orders", Key: "k", Headers: map[string]string{"ph": "pv"}}
	if err := ad.PublishEvent(t.Context(), topical{T: "unused"}, po); err != nil {
		t.Fatalf("publish: %v", err)
	}

	if err := ad.PublishEvent(t.Context(), topical{T: "from-event"}, dispatch.PublishOptions{}); err != nil {
		t.Fatalf("publish: %v", err)
	}

	if err := ad.PublishEvent(t.Context(), &orderPlaced{ID: "1"}, dispatch.PublishOptions{}); err != nil {
		t.Fatalf("publish: %v", err)
	}

	if len(fc.calls) != 3 {
		t.Fatalf("expected 3 calls, got %d", len(fc.calls))
	}

	p := fc.calls[0]
	if p.subject != "orders" {
		t.Fatalf("topic mismatch: %s", p.subject)
	}

	if p.headers["key"] != "k" || p.headers["ph"] != "pv" || p.headers["traceparent"] != "00-abc" {
		t.Fatalf("publish headers mismatch: %+v", p.headers)
	}

	if fc.calls[1].subject != "from-event" || fc.calls[2].subject != "orderPlaced" {
		t.Fatalf("subjects=%s,%s", fc.calls[1].subject, fc.calls[2].subject)
	}

	var got orderPlaced
	if err := json.Unmarshal(fc.calls[2].data, &got); err != nil || got.ID != "1" {
		t.Fatalf("body=%s err=%v", fc.calls[2].data, err)
	}
}

func TestNATS_NilClientError(t *testing.T) {
	ad := nats.New(nil)

	err := ad.PublishEvent(t.Context(), orderPlaced{}, dispatch.PublishOptions{})
	if !errors.Is(err, berr.ErrPublisherNotConfigured) {
		t.Fatalf("want ErrPublisherNotConfigured, got %v", err)
	}
}

func TestNATS_Publish_ErrorWrapping_And_ContextCancel(t *testing.T) {
	fc := &fakeClient{err: errors.New("boom")}
	ad := nats.New(fc)

	err := ad.PublishEvent(t.Context(), orderPlaced{ID: "x"}, dispatch.PublishOptions{})
	if !errors.Is(err, berr.ErrPublishFailed) {
		t.Fatalf("want ErrPublishFailed, got %v", err)
	}

	// client returns context.Canceled -> propagate as-is
	ad2 := nats.New(&fakeClient{err: context.Canceled})

	err = ad2.PublishEvent(t.Context(), topical{T: "t"}, dispatch.PublishOptions{})
	if !errors.Is(err, context.Canceled) || errors.Is(err, berr.ErrPublishFailed) {
		t.Fatalf("want bare context.Canceled, got %v", err)
	}
}

func TestNATS_SerializationFailure(t *testing.T) {
	fc := &fakeClient{}
	ad := nats.New(fc)

	err := ad.PublishEvent(t.Context(), map[string]any{"ch": make(chan int)}, dispatch.PublishOptions{})
	if !errors.Is(err, berr.ErrSerializationFailed) {
		t.Fatalf("want ErrSerializationFailed, got %v", err)
	}

	if len(fc.calls) != 0 {
		t.Fatalf("nothing should be published")
	}
}
