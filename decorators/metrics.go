package decorators

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/next-trace/scg-mediator/contract/dispatch"
	"github.com/next-trace/scg-mediator/registry"
)

const (
	statusSuccess     = "success"
	statusDomainError = "domain_error"
	statusFault       = "fault"
)

// Metrics records dispatch duration and outcome counts per message type.
type Metrics struct {
	duration *prometheus.HistogramVec
	total    *prometheus.CounterVec
}

// NewMetrics creates the collectors and registers them with reg.
// Collectors already registered under the same names are reused.
func NewMetrics(reg prometheus.Registerer, namespace string) (*Metrics, error) {
	m := &Metrics{
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "dispatch",
				Name:      "duration_seconds",
				Help:      "Handler execution duration distribution",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"shape", "message", "status"},
		),
		total: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "dispatch",
				Name:      "total",
				Help:      "Total number of dispatched messages by type and status",
			},
			[]string{"shape", "message", "status"},
		),
	}

	if err := register(reg, &m.duration); err != nil {
		return nil, err
	}

	if err := register(reg, &m.total); err != nil {
		return nil, err
	}

	return m, nil
}

func register[C prometheus.Collector](reg prometheus.Registerer, c *C) error {
	if reg == nil {
		return nil
	}

	if err := reg.Register(*c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if !errors.As(err, &are) {
			return err
		}

		existing, ok := are.ExistingCollector.(C)
		if !ok {
			return err
		}

		*c = existing
	}

	return nil
}

func (*Metrics) Name() string { return "metrics" }

func (*Metrics) Shapes() []registry.Shape { return registry.AllShapes() }

func (m *Metrics) Decorate(t registry.Target, next registry.Invoker) registry.Invoker {
	shape := t.Contract.Shape.String()
	message := messageName(t.Contract)

	return func(ctx context.Context, msg any) (any, error) {
		start := time.Now()
		out, err := next(ctx, msg)

		status := statusSuccess
		if err != nil {
			status = statusFault
		} else if _, failed := dispatch.ErrorOf(out); failed {
			status = statusDomainError
		}

		m.duration.WithLabelValues(shape, message, status).Observe(time.Since(start).Seconds())
		m.total.WithLabelValues(shape, message, status).Inc()

		return out, err
	}
}

// messageName strips the package path: "*orders.PlaceOrder" becomes "PlaceOrder".
func messageName(c registry.Contract) string {
	if c.Message == nil {
		return "unknown"
	}

	name := strings.TrimPrefix(c.Message.String(), "*")
	if i := strings.LastIndexByte(name, '.'); i >= 0 {
		name = name[i+1:]
	}

	return name
}
