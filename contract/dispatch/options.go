package dispatch

import (
	"context"
	"maps"
	"reflect"
)

// PublishOptions controls forwarding of an event to a broker.
// Topic wins over Topical.Topic(); the event type name is the fallback.
type PublishOptions struct {
	Topic   string
	Key     string
	Headers map[string]string
}

// TopicFor resolves the broker topic for evt.
func TopicFor(evt Event, o PublishOptions) string {
	if o.Topic != "" {
		return o.Topic
	}

	if t, ok := evt.(Topical); ok && t.Topic() != "" {
		return t.Topic()
	}

	return TypeName(evt)
}

// HeadersFor copies o.Headers, adds the key header when set and lets p inject tracing headers.
func HeadersFor(ctx context.Context, o PublishOptions, p HeaderPropagator) map[string]string {
	h := make(map[string]string, len(o.Headers)+1)
	maps.Copy(h, o.Headers)

	if o.Key != "" {
		h["key"] = o.Key
	}

	if p != nil {
		p.Inject(ctx, h)
	}

	return h
}

// TypeName returns the name of v's type with pointers dereferenced.
func TypeName(v any) string {
	t := reflect.TypeOf(v)
	if t == nil {
		return "nil"
	}

	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}

	name := t.Name()
	if name == "" { // unnamed (e.g., map/struct literal)
		name = t.String()
	}

	return name
}
