package rabbitmq

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"
	amqp "github.com/rabbitmq/amqp091-go"

	berr "github.com/next-trace/scg-mediator/contract/errors"
)

// Config describes the RabbitMQ connection used for relaying events.
type Config struct {
	URL          string        `mapstructure:"url"`
	Exchange     string        `mapstructure:"exchange"`
	ExchangeType string        `mapstructure:"exchange_type"`
	ConnTimeout  time.Duration `mapstructure:"conn_timeout"`
	MaxBackoff   time.Duration `mapstructure:"max_backoff"`
}

func (c Config) withDefaults() Config {
	if c.Exchange == "" {
		c.Exchange = DefaultExchange
	}

	if c.ExchangeType == "" {
		c.ExchangeType = amqp.ExchangeTopic
	}

	if c.MaxBackoff <= 0 {
		c.MaxBackoff = 30 * time.Second
	}

	return c
}

// reconnectingPublisher keeps one channel open, redialing with exponential backoff after the
// connection drops. Publish waits for a channel or for ctx.
type reconnectingPublisher struct {
	cfg    Config
	logger *slog.Logger

	mu     sync.RWMutex
	conn   *amqp.Connection
	ch     *amqp.Channel
	ready  chan struct{} // closed while a channel is available
	closed chan struct{}
	once   sync.Once
}

func newReconnectingPublisher(cfg Config, logger *slog.Logger) *reconnectingPublisher {
	rp := &reconnectingPublisher{
		cfg:    cfg,
		logger: logger,
		ready:  make(chan struct{}),
		closed: make(chan struct{}),
	}
	go rp.run()

	return rp
}

func (rp *reconnectingPublisher) Publish(ctx context.Context, m PubMsg) error {
	rp.mu.RLock()
	ch, ready := rp.ch, rp.ready
	rp.mu.RUnlock()

	if ch == nil {
		select {
		case <-ready:
		case <-rp.closed:
			return fmt.Errorf("rabbitmq: publisher closed: %w", berr.ErrPublishFailed)
		case <-ctx.Done():
			return ctx.Err()
		}

		rp.mu.RLock()
		ch = rp.ch
		rp.mu.RUnlock()

		if ch == nil {
			return fmt.Errorf("rabbitmq: not connected: %w", berr.ErrPublishFailed)
		}
	}

	return ch.PublishWithContext(ctx, m.Exchange, m.RoutingKey, false, false, publishing(m))
}

func (rp *reconnectingPublisher) dial() (*amqp.Connection, *amqp.Channel, error) {
	conn, err := amqp.DialConfig(rp.cfg.URL, amqp.Config{
		Locale:     "en_US",
		Properties: amqp.Table{"product": "scg-mediator"},
		Dial:       amqp.DefaultDial(rp.cfg.ConnTimeout),
	})
	if err != nil {
		return nil, nil, err
	}

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, nil, err
	}

	if err := ch.ExchangeDeclare(rp.cfg.Exchange, rp.cfg.ExchangeType, true, false, false, false, nil); err != nil {
		_ = ch.Close()
		_ = conn.Close()

		return nil, nil, err
	}

	return conn, ch, nil
}

func (rp *reconnectingPublisher) run() {
	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = time.Second
	bo.MaxInterval = rp.cfg.MaxBackoff
	bo.MaxElapsedTime = 0

	for {
		select {
		case <-rp.closed:
			return
		default:
		}

		conn, ch, err := rp.dial()
		if err != nil {
			wait := bo.NextBackOff()
			rp.logger.Warn("rabbitmq: dial failed", "error", err, "retry_in", wait)

			t := time.NewTimer(wait)
			select {
			case <-rp.closed:
				t.Stop()
				return
			case <-t.C:
			}

			continue
		}

		bo.Reset()
		rp.logger.Info("rabbitmq: connected", "exchange", rp.cfg.Exchange)

		rp.mu.Lock()
		select {
		case <-rp.closed:
			rp.mu.Unlock()

			_ = ch.Close()
			_ = conn.Close()

			return
		default:
		}

		rp.conn, rp.ch = conn, ch
		close(rp.ready)
		rp.mu.Unlock()

		notify := conn.NotifyClose(make(chan *amqp.Error, 1))
		select {
		case <-rp.closed:
			return
		case amqpErr := <-notify:
			rp.logger.Warn("rabbitmq: connection lost", "error", amqpErr)
		}

		rp.mu.Lock()
		rp.conn, rp.ch = nil, nil
		rp.ready = make(chan struct{})
		rp.mu.Unlock()

		_ = ch.Close()
		_ = conn.Close()
	}
}

func (rp *reconnectingPublisher) close() {
	rp.once.Do(func() {
		close(rp.closed)

		rp.mu.Lock()
		defer rp.mu.Unlock()

		if rp.ch != nil {
			_ = rp.ch.Close()
			rp.ch = nil
		}

		if rp.conn != nil {
			_ = rp.conn.Close()
			rp.conn = nil
		}
	})
}

// Connect dials RabbitMQ in the background with auto-reconnect, declares the exchange and
// returns an Adapter and a cleanup.
func Connect(cfg Config, logger *slog.Logger) (*Adapter, func(), error) {
	if cfg.URL == "" {
		return nil, nil, fmt.Errorf("rabbitmq: url required: %w", berr.ErrPublisherNotConfigured)
	}

	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	cfg = cfg.withDefaults()
	pub := newReconnectingPublisher(cfg, logger)

	ad := New(pub)
	ad.Exchange = cfg.Exchange

	return ad, pub.close, nil
}
