package fxdispatch

import (
	"context"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"golang.org/x/time/rate"

	"github.com/next-trace/scg-mediator/config"
	"github.com/next-trace/scg-mediator/contract/dispatch"
	"github.com/next-trace/scg-mediator/decorators"
	"github.com/next-trace/scg-mediator/registry"
	"github.com/next-trace/scg-mediator/servicebus"
)

const (
	moduleGroup    = `group:"dispatch.modules"`
	decoratorGroup = `group:"dispatch.decorators"`
)

// Module provides the logger, the relay publisher, the dispatch table, its container and the
// Bus. It expects a *config.Config in the graph; see WithConfig and LoadConfig.
func Module() fx.Option {
	return fx.Module("dispatch",
		fx.Provide(
			provideLogger,
			provideRelay,
			provideTable,
			registry.NewContainer,
			provideBus,
		),
		fx.WithLogger(func(l *slog.Logger) fxevent.Logger {
			return &fxevent.SlogLogger{Logger: l}
		}),
	)
}

// WithConfig supplies cfg.
func WithConfig(cfg *config.Config) fx.Option { return fx.Supply(cfg) }

// LoadConfig provides the configuration read by config.Load(path).
func LoadConfig(path string) fx.Option {
	return fx.Provide(func() (*config.Config, error) { return config.Load(path) })
}

// Handlers adds the registry.Module returned by ctor. ctor may take any dependency in the
// graph, dispatch.EventPublisher included.
func Handlers(ctor any) fx.Option {
	return fx.Provide(fx.Annotate(ctor, fx.ResultTags(moduleGroup)))
}

// HandlerModule adds m.
func HandlerModule(m registry.Module) fx.Option {
	return Handlers(func() registry.Module { return m })
}

// Decorators adds the registry.Decorator returned by ctor. Group decorators are applied before
// the configured ones, so they sit closest to the handlers.
func Decorators(ctor any) fx.Option {
	return fx.Provide(fx.Annotate(ctor, fx.ResultTags(decoratorGroup)))
}

func provideLogger(lc fx.Lifecycle, cfg *config.Config) (*slog.Logger, error) {
	l, closer, err := config.NewLogger(cfg.Logging)
	if err != nil {
		return nil, err
	}

	lc.Append(fx.StopHook(closer.Close))

	return l, nil
}

func provideRelay(lc fx.Lifecycle, cfg *config.Config, logger *slog.Logger) (dispatch.EventPublisher, error) {
	pub, cleanup, err := cfg.Relay.Open(logger)
	if err != nil {
		return nil, err
	}

	lc.Append(fx.StopHook(cleanup))

	return pub, nil
}

type tableParams struct {
	fx.In

	Config     *config.Config
	Logger     *slog.Logger
	Registerer prometheus.Registerer `optional:"true"`
	Modules    []registry.Module     `group:"dispatch.modules"`
	Decorators []registry.Decorator  `group:"dispatch.decorators"`
}

func provideTable(p tableParams) (*registry.Table, error) {
	lifetime, err := p.Config.Dispatch.Lifetime()
	if err != nil {
		return nil, err
	}

	b := registry.NewBuilder().WithLogger(p.Logger).SetDefaultLifetime(lifetime)
	for _, m := range p.Modules {
		b.RegisterHandlerModule(m)
	}

	t, err := b.Build()
	if err != nil {
		return nil, err
	}

	decs, err := configured(p)
	if err != nil {
		return nil, err
	}

	for _, d := range append(p.Decorators, decs...) {
		if t, err = applyWherePresent(t, d); err != nil {
			return nil, err
		}
	}

	p.Logger.Info("dispatch: table built", "contracts", len(t.Contracts()), "handlers", t.Len())

	return t, nil
}

// configured returns the decorators enabled in the configuration, innermost first.
func configured(p tableParams) ([]registry.Decorator, error) {
	d := p.Config.Dispatch

	var out []registry.Decorator

	if d.Validate {
		out = append(out, decorators.Validate(nil))
	}

	if d.Retry.MaxRetries > 0 {
		out = append(out, decorators.Retry(decorators.RetryPolicy{
			MaxRetries:      d.Retry.MaxRetries,
			InitialInterval: d.Retry.InitialInterval,
			MaxInterval:     d.Retry.MaxInterval,
			Logger:          p.Logger,
		}))
	}

	if d.RateLimit.PerSecond > 0 {
		out = append(out, decorators.RateLimit(rate.Limit(d.RateLimit.PerSecond), max(d.RateLimit.Burst, 1)))
	}

	if p.Config.Metrics.Enabled {
		reg := p.Registerer
		if reg == nil {
			reg = prometheus.DefaultRegisterer
		}

		m, err := decorators.NewMetrics(reg, p.Config.Metrics.Namespace)
		if err != nil {
			return nil, err
		}

		out = append(out, m)
	}

	return append(out, decorators.Logging(p.Logger)), nil
}

// applyWherePresent applies d to every shape it declares that has at least one handler.
func applyWherePresent(t *registry.Table, d registry.Decorator) (*registry.Table, error) {
	present := make(map[registry.Shape]bool)
	for _, c := range t.Contracts() {
		present[c.Shape] = true
	}

	var err error

	for _, s := range d.Shapes() {
		if !present[s] {
			continue
		}

		if t, err = registry.ApplyDecorator(t, s, d); err != nil {
			return nil, err
		}
	}

	return t, nil
}

func provideBus(lc fx.Lifecycle, t *registry.Table, c *registry.Container, logger *slog.Logger) *servicebus.Bus {
	lc.Append(fx.StartHook(func(context.Context) {
		logger.Info("dispatch: bus ready", "shapes", len(t.Shapes()))
	}))

	return servicebus.New(t, servicebus.WithLocator(c), servicebus.WithLogger(logger))
}
