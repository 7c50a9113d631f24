package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	libconfig "evcharge/libs/config"
)

// Config defines simulator configuration.
type Config struct {
	MQTT struct {
		Host     string `yaml:"host" env:"SIMULATOR_MQTT_HOST"`
		Port     int    `yaml:"port" env:"SIMULATOR_MQTT_PORT"`
		Topic    string `yaml:"topic" env:"SIMULATOR_MQTT_TOPIC"`
		ClientID string `yaml:"client_id" env:"SIMULATOR_MQTT_CLIENT_ID"`
	} `yaml:"mqtt"`
	Dataset struct {
		Path string `yaml:"path" env:"SIMULATOR_DATASET_PATH"`
	} `yaml:"dataset"`
	Interval time.Duration `yaml:"interval" env:"SIMULATOR_INTERVAL"`
	Limit    int           `yaml:"limit" env:"SIMULATOR_LIMIT"`
	Loop     bool          `yaml:"loop" env:"SIMULATOR_LOOP"`
}

// Load configuration using shared helper.
func Load() (*Config, error) {
	cfg := &Config{}
	cfg.MQTT.Host = "localhost"
	cfg.MQTT.Port = 1883
	cfg.MQTT.Topic = "idc/fc01"
	cfg.MQTT.ClientID = "ev-simulator"
	cfg.Interval = 2 * time.Second

	if err := libconfig.LoadConfig(cfg); err != nil {
		return nil, err
	}

	if strings.TrimSpace(cfg.Dataset.Path) == "" {
		return nil, errors.New("config: dataset path required")
	}
	if cfg.Interval <= 0 {
		return nil, errors.New("config: interval must be positive")
	}
	return cfg, nil
}

// BrokerURL returns tcp://host:port for the paho client.
func (c *Config) BrokerURL() string {
	return fmt.Sprintf("tcp://%s:%d", strings.TrimSpace(c.MQTT.Host), c.MQTT.Port)
}
