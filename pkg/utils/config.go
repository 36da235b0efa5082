package utils

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/caarlos0/env/v11"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config is the process configuration shared by every binary. Command-line
// flags override individual fields after loading.
type Config struct {
	DBPath   string `env:"NUMEROLOGY_DB_PATH"`
	HTTPAddr string `env:"NUMEROLOGY_HTTP_ADDR" envDefault:":8080"`
	FeedAddr string `env:"NUMEROLOGY_FEED_ADDR" envDefault:":7070"`
	// FeedUDPAddr may be empty to disable datagram subscribers.
	FeedUDPAddr string `env:"NUMEROLOGY_FEED_UDP_ADDR" envDefault:":7071"`
	Locale   string `env:"NUMEROLOGY_LOCALE" envDefault:"en"`
	LogLevel string `env:"NUMEROLOGY_LOG_LEVEL" envDefault:"info"`
	// Systems is a comma separated list, or "all".
	Systems string `env:"NUMEROLOGY_SYSTEMS" envDefault:"pythagorean,chaldean,vedic"`
	APIURL  string `env:"NUMEROLOGY_API_URL" envDefault:"http://localhost:8080"`
}

// LoadConfig parses the environment.
func LoadConfig() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if cfg.DBPath == "" {
		cfg.DBPath = DefaultDBPath()
	}
	return cfg, nil
}

// DefaultDBPath is ~/.numerology/data.db, relative to the working
// directory when no home is known.
func DefaultDBPath() string {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		home = "."
	}
	return filepath.Join(home, ".numerology", "data.db")
}

// NewLogger builds a production zap logger at the named level.
func NewLogger(level string) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(strings.TrimSpace(level))
	if err != nil {
		return nil, fmt.Errorf("log level %q: %w", level, err)
	}
	zc := zap.NewProductionConfig()
	zc.Level = zap.NewAtomicLevelAt(lvl)
	zc.DisableStacktrace = lvl > zapcore.DebugLevel
	return zc.Build()
}
