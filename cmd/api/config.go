package main

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/mihailawp-gif/tgqwen/internal/config"
	"github.com/mihailawp-gif/tgqwen/pkg/envconf"
)

type apiConfig struct {
	Port            uint16        `env:"APP_PORT" envDefault:"8080"`
	LogLevel        slog.Level    `env:"APP_LOG_LEVEL" envDefault:"INFO"`
	ShutdownTimeout time.Duration `env:"APP_SHUTDOWN_TIMEOUT" envDefault:"15s"`
	// Empty disables the admin routes.
	AdminToken string `env:"APP_ADMIN_TOKEN" envDefault:""`

	Postgres    config.PostgresConfig
	Economy     config.EconomyConfig
	Fulfillment config.FulfillmentConfig
}

func readConfig() (*apiConfig, error) {
	cfg := new(apiConfig)

	err := envconf.Load(cfg)
	if err != nil {
		return nil, fmt.Errorf("load env: %w", err)
	}

	if cfg.Port == 0 {
		return nil, errors.New("APP_PORT must be positive")
	}

	if cfg.ShutdownTimeout <= 0 {
		return nil, errors.New("APP_SHUTDOWN_TIMEOUT must be positive")
	}

	return cfg, nil
}
