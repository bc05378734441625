package decorators

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/next-trace/scg-mediator/contract/dispatch"
	"github.com/next-trace/scg-mediator/registry"
)

type correlationKey struct{}

// WithCorrelationID returns a context carrying id.
func WithCorrelationID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, correlationKey{}, id)
}

// CorrelationID returns the correlation id carried by ctx.
func CorrelationID(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(correlationKey{}).(string)
	return id, ok && id != ""
}

type logging struct {
	logger *slog.Logger
}

// Logging logs every invocation with its contract, duration and outcome. Invocations without a
// correlation id get a fresh one, visible to the handler through CorrelationID.
func Logging(logger *slog.Logger) registry.Decorator {
	if logger == nil {
		logger = slog.Default()
	}

	return logging{logger: logger}
}

func (logging) Name() string { return "logging" }

func (logging) Shapes() []registry.Shape { return registry.AllShapes() }

func (l logging) Decorate(t registry.Target, next registry.Invoker) registry.Invoker {
	contract := t.Contract.String()

	return func(ctx context.Context, msg any) (any, error) {
		id, ok := CorrelationID(ctx)
		if !ok {
			id = uuid.NewString()
			ctx = WithCorrelationID(ctx, id)
		}

		log := l.logger.With("contract", contract, "handler", t.Implementation, "correlation_id", id)
		log.DebugContext(ctx, "dispatch: start")

		start := time.Now()
		out, err := next(ctx, msg)
		elapsed := time.Since(start)

		switch derr, failed := dispatch.ErrorOf(out); {
		case err != nil:
			log.ErrorContext(ctx, "dispatch: fault", "duration", elapsed, "error", err)
		case failed:
			log.InfoContext(ctx, "dispatch: domain error",
				"duration", elapsed, "code", derr.Code(), "kind", derr.Kind().String())
		default:
			log.DebugContext(ctx, "dispatch: done", "duration", elapsed)
		}

		return out, err
	}
}
