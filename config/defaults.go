package config

import (
	"time"

	"github.com/spf13/viper"
)

func setDefaults(v *viper.Viper) {
	v.SetDefault("dispatch.default_lifetime", "transient")
	v.SetDefault("dispatch.validate", true)
	v.SetDefault("dispatch.rate_limit.per_second", 0)
	v.SetDefault("dispatch.rate_limit.burst", 0)
	v.SetDefault("dispatch.retry.max_retries", 0)
	v.SetDefault("dispatch.retry.initial_interval", 100*time.Millisecond)
	v.SetDefault("dispatch.retry.max_interval", 2*time.Second)

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
	v.SetDefault("logging.output", "stdout")
	v.SetDefault("logging.file_path", "")
	v.SetDefault("logging.rotation.max_size", 50)
	v.SetDefault("logging.rotation.max_backups", 3)
	v.SetDefault("logging.rotation.max_age", 7)
	v.SetDefault("logging.rotation.compress", false)

	v.SetDefault("metrics.enabled", false)
	v.SetDefault("metrics.namespace", "scg")

	v.SetDefault("relay.driver", "none")
	v.SetDefault("relay.nats.url", "")
	v.SetDefault("relay.nats.name", "scg-mediator")
	v.SetDefault("relay.nats.conn_timeout", 2*time.Second)
	v.SetDefault("relay.nats.max_reconnects", 60)
	v.SetDefault("relay.kafka.brokers", []string{})
	v.SetDefault("relay.kafka.client_id", "scg-mediator")
	v.SetDefault("relay.kafka.idempotent", true)
	v.SetDefault("relay.rabbitmq.url", "")
	v.SetDefault("relay.rabbitmq.exchange", "events")
	v.SetDefault("relay.rabbitmq.exchange_type", "topic")
	v.SetDefault("relay.rabbitmq.conn_timeout", 5*time.Second)
	v.SetDefault("relay.rabbitmq.max_backoff", 30*time.Second)
}
