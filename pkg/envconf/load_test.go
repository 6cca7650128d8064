package envconf

import (
	"errors"
	"log/slog"
	"testing"
	"time"
)

type nestedConf struct {
	DSN      string        `env:"PG_DSN"`
	Lifetime time.Duration `env:"PG_LIFETIME" envDefault:"30s"`
}

type testConf struct {
	Port     uint16     `env:"APP_PORT" envDefault:"8080"`
	LogLevel slog.Level `env:"APP_LOG_LEVEL" envDefault:"info"`
	Rate     int64      `env:"RATE_BPS"`
	Enabled  bool       `env:"ENABLED" envDefault:"false"`
	Ratio    *float64   `env:"RATIO" envDefault:"0.5"`
	Postgres nestedConf
	ignored  string //nolint:unused
}

func mapLookup(m map[string]string) LookupFunc {
	return func(key string) (string, bool) {
		v, ok := m[key]
		return v, ok
	}
}

func TestLoadWith_DefaultsAndOverrides(t *testing.T) {
	t.Parallel()

	cfg := new(testConf)

	err := LoadWith(cfg, mapLookup(map[string]string{
		"APP_LOG_LEVEL": "debug",
		"RATE_BPS":      "500",
		"PG_DSN":        "postgres://x",
		"ENABLED":       "true",
	}))
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if cfg.Port != 8080 {
		t.Fatalf("port: want 8080, got %d", cfg.Port)
	}
	if cfg.LogLevel != slog.LevelDebug {
		t.Fatalf("log level: want debug, got %v", cfg.LogLevel)
	}
	if cfg.Rate != 500 {
		t.Fatalf("rate: want 500, got %d", cfg.Rate)
	}
	if !cfg.Enabled {
		t.Fatalf("enabled: want true")
	}
	if cfg.Ratio == nil || *cfg.Ratio != 0.5 {
		t.Fatalf("ratio: want 0.5, got %v", cfg.Ratio)
	}
	if cfg.Postgres.DSN != "postgres://x" {
		t.Fatalf("nested dsn: got %q", cfg.Postgres.DSN)
	}
	if cfg.Postgres.Lifetime != 30*time.Second {
		t.Fatalf("nested lifetime: got %v", cfg.Postgres.Lifetime)
	}
}

func TestLoadWith_MissingRequired(t *testing.T) {
	t.Parallel()

	err := LoadWith(new(testConf), mapLookup(map[string]string{"PG_DSN": "x"}))
	if !errors.Is(err, ErrMissingRequired) {
		t.Fatalf("want ErrMissingRequired, got %v", err)
	}
}

func TestLoadWith_ParseError(t *testing.T) {
	t.Parallel()

	err := LoadWith(new(testConf), mapLookup(map[string]string{
		"RATE_BPS": "five",
		"PG_DSN":   "x",
	}))
	if err == nil {
		t.Fatalf("want parse error, got nil")
	}
}

func TestLoadWith_InvalidDestination(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		dst  any
	}{
		{name: "nil", dst: nil},
		{name: "non_pointer", dst: testConf{}},
		{name: "pointer_to_non_struct", dst: new(int)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := LoadWith(tt.dst, mapLookup(nil))
			if err == nil {
				t.Fatalf("want error for %s", tt.name)
			}
		})
	}
}
