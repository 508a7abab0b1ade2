package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	libconfig "aquavigil/backend/libs/config"
)

// Config defines dashboard agent configuration. Poll cadences are fixed
// per-view constants in the service layer and deliberately not configurable
// here.
type Config struct {
	HTTP struct {
		Port string `yaml:"port" env:"DASHBOARD_HTTP_PORT"`
	} `yaml:"http"`
	Remote struct {
		BaseURL        string        `yaml:"base_url" env:"DASHBOARD_REMOTE_BASE_URL"`
		RequestTimeout time.Duration `yaml:"request_timeout" env:"DASHBOARD_REMOTE_TIMEOUT"`
	} `yaml:"remote"`
	Redis struct {
		Addr     string `yaml:"addr" env:"DASHBOARD_REDIS_ADDR"`
		Password string `yaml:"password" env:"DASHBOARD_REDIS_PASSWORD"`
		DB       int    `yaml:"db" env:"DASHBOARD_REDIS_DB"`
	} `yaml:"redis"`
	History struct {
		FilePath string `yaml:"file_path" env:"DASHBOARD_HISTORY_FILE"`
	} `yaml:"history"`
	Database struct {
		DSN string `yaml:"dsn" env:"DASHBOARD_POSTGRES_DSN"`
	} `yaml:"database"`
}

// Load configuration using the shared helper.
func Load() (*Config, error) {
	cfg := &Config{}
	cfg.HTTP.Port = "8090"
	cfg.Remote.RequestTimeout = 10 * time.Second
	cfg.History.FilePath = "data/history.json"

	if err := libconfig.LoadConfig(cfg); err != nil {
		return nil, err
	}

	if strings.TrimSpace(cfg.Remote.BaseURL) == "" {
		return nil, errors.New("config: remote base url required")
	}
	return cfg, nil
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
