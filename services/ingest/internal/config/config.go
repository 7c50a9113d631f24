package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	libconfig "evcharge/libs/config"
)

// Config defines ingest service configuration.
type Config struct {
	MQTT struct {
		Host     string `yaml:"host" env:"INGEST_MQTT_HOST"`
		Port     int    `yaml:"port" env:"INGEST_MQTT_PORT"`
		Topic    string `yaml:"topic" env:"INGEST_MQTT_TOPIC"`
		ClientID string `yaml:"client_id" env:"INGEST_MQTT_CLIENT_ID"`
	} `yaml:"mqtt"`
	Database struct {
		DSN string `yaml:"dsn" env:"INGEST_POSTGRES_DSN"`
	} `yaml:"database"`
	Redis struct {
		Addr     string `yaml:"addr" env:"INGEST_REDIS_ADDR"`
		Password string `yaml:"password" env:"INGEST_REDIS_PASSWORD"`
	} `yaml:"redis"`
	Workers   int `yaml:"workers" env:"INGEST_WORKERS"`
	QueueSize int `yaml:"queue_size" env:"INGEST_QUEUE_SIZE"`
	Write     struct {
		Timeout        time.Duration `yaml:"timeout" env:"INGEST_WRITE_TIMEOUT"`
		MaxAttempts    int           `yaml:"max_attempts" env:"INGEST_WRITE_MAX_ATTEMPTS"`
		InitialBackoff time.Duration `yaml:"initial_backoff" env:"INGEST_WRITE_INITIAL_BACKOFF"`
		MaxBackoff     time.Duration `yaml:"max_backoff" env:"INGEST_WRITE_MAX_BACKOFF"`
	} `yaml:"write"`
	Reconnect struct {
		InitialBackoff time.Duration `yaml:"initial_backoff" env:"INGEST_RECONNECT_INITIAL_BACKOFF"`
		MaxBackoff     time.Duration `yaml:"max_backoff" env:"INGEST_RECONNECT_MAX_BACKOFF"`
	} `yaml:"reconnect"`
	HTTP struct {
		Port string `yaml:"port" env:"INGEST_HTTP_PORT"`
	} `yaml:"http"`
}

// Load configuration using shared helper.
func Load() (*Config, error) {
	cfg := &Config{}
	cfg.MQTT.Host = "localhost"
	cfg.MQTT.Port = 1883
	cfg.MQTT.Topic = "idc/fc01"
	cfg.MQTT.ClientID = "ingest-service"
	cfg.Workers = 4
	cfg.QueueSize = 64
	cfg.Write.Timeout = 5 * time.Second
	cfg.Write.MaxAttempts = 5
	cfg.Write.InitialBackoff = 200 * time.Millisecond
	cfg.Write.MaxBackoff = 5 * time.Second
	cfg.Reconnect.InitialBackoff = 500 * time.Millisecond
	cfg.Reconnect.MaxBackoff = 30 * time.Second
	cfg.HTTP.Port = "8090"

	if err := libconfig.LoadConfig(cfg); err != nil {
		return nil, err
	}

	if strings.TrimSpace(cfg.Database.DSN) == "" {
		return nil, errors.New("config: database dsn required")
	}
	if strings.TrimSpace(cfg.MQTT.Topic) == "" {
		return nil, errors.New("config: mqtt topic required")
	}
	if cfg.Workers <= 0 {
		return nil, errors.New("config: workers must be positive")
	}
	if cfg.Write.MaxAttempts <= 0 {
		return nil, errors.New("config: write max attempts must be positive")
	}
	return cfg, nil
}

// BrokerURL returns tcp://host:port for the paho client.
func (c *Config) BrokerURL() string {
	return fmt.Sprintf("tcp://%s:%d", strings.TrimSpace(c.MQTT.Host), c.MQTT.Port)
}

// HTTPAddress returns :port style.
func (c *Config) HTTPAddress() string {
	port := strings.TrimSpace(c.HTTP.Port)
	if port == "" {
		port = "8090"
	}
	if strings.HasPrefix(port, ":") {
		return port
	}
	return fmt.Sprintf(":%s", port)
}
