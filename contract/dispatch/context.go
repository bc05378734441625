package dispatch

import "context"

// Context is re-exported for convenience in handler signatures.
type Context = context.Context

// HeaderPropagator injects tracing context into the headers of a forwarded event.
// Implementations may bridge to OpenTelemetry or any other propagation standard and
// must be safe for concurrent use.
type HeaderPropagator interface {
	Inject(ctx context.Context, headers map[string]string)
}

// NopHeaderPropagator is a no-op implementation useful for tests or when tracing is disabled.
type NopHeaderPropagator struct{}

func (NopHeaderPropagator) Inject(context.Context, map[string]string) {}
