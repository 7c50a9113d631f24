package config

import (
	"errors"
	"fmt"
	"strings"

	libconfig "evcharge/libs/config"
)

// Config defines dashboard API configuration.
type Config struct {
	HTTP struct {
		Port string `yaml:"port" env:"DASHBOARD_HTTP_PORT"`
	} `yaml:"http"`
	Database struct {
		DSN string `yaml:"dsn" env:"DASHBOARD_POSTGRES_DSN"`
	} `yaml:"database"`
	Redis struct {
		Addr     string `yaml:"addr" env:"DASHBOARD_REDIS_ADDR"`
		Password string `yaml:"password" env:"DASHBOARD_REDIS_PASSWORD"`
	} `yaml:"redis"`
}

// Load configuration using shared helper.
func Load() (*Config, error) {
	cfg := &Config{}
	cfg.HTTP.Port = "8091"

	if err := libconfig.LoadConfig(cfg); err != nil {
		return nil, err
	}

	if strings.TrimSpace(cfg.Database.DSN) == "" {
		return nil, errors.New("config: database dsn required")
	}
	return cfg, nil
}

// HTTPAddress returns :port style.
func (c *Config) HTTPAddress() string {
	port := strings.TrimSpace(c.HTTP.Port)
	if port == "" {
		port = "8091"
	}
	if strings.HasPrefix(port, ":") {
		return port
	}
	return fmt.Sprintf(":%s", port)
}
