package config

import (
	"os"
	"strconv"
	"time"

	"github.com/pkg/errors"

	"github.com/Zachkp/portfolio/internal/mockapi"
)

type Config struct {
	Server    ServerConfig
	Portfolio PortfolioConfig
	Storage   StorageConfig
}

type ServerConfig struct {
	Port    string
	GinMode string
	Debug   bool
}

type PortfolioConfig struct {
	// SeedPath points to a YAML seed file; empty uses the built-in data.
	SeedPath   string
	FetchDelay time.Duration
	OpDelay    time.Duration
	// LoadOnStart dispatches a load as soon as the server starts.
	LoadOnStart bool
}

type StorageConfig struct {
	// DBPath is the SQLite file for the journal and visitor tracking.
	DBPath           string
	JournalSize      int
	VisitorRetention time.Duration
}

func defaults() Config {
	return Config{
		Server: ServerConfig{
			Port:    "8080",
			GinMode: "debug",
		},
		Portfolio: PortfolioConfig{
			FetchDelay:  mockapi.DefaultFetchDelay,
			OpDelay:     mockapi.DefaultOpDelay,
			LoadOnStart: true,
		},
		Storage: StorageConfig{
			DBPath:           ":memory:",
			JournalSize:      25,
			VisitorRetention: 365 * 24 * time.Hour,
		},
	}
}

// Load builds the configuration from defaults overridden by environment
// variables. A .env file is picked up by godotenv/autoload in main.
func Load() (Config, error) {
	return loadWith(os.LookupEnv)
}

func loadWith(lookup func(string) (string, bool)) (Config, error) {
	cfg := defaults()

	if v, ok := lookup("PORT"); ok && v != "" {
		cfg.Server.Port = v
	}
	if v, ok := lookup("GIN_MODE"); ok && v != "" {
		cfg.Server.GinMode = v
	}
	if err := parseBool(lookup, "PORTFOLIO_DEBUG", &cfg.Server.Debug); err != nil {
		return Config{}, err
	}

	if v, ok := lookup("PORTFOLIO_SEED"); ok {
		cfg.Portfolio.SeedPath = v
	}
	if err := parseDuration(lookup, "PORTFOLIO_FETCH_DELAY", &cfg.Portfolio.FetchDelay); err != nil {
		return Config{}, err
	}
	if err := parseDuration(lookup, "PORTFOLIO_OP_DELAY", &cfg.Portfolio.OpDelay); err != nil {
		return Config{}, err
	}
	if err := parseBool(lookup, "PORTFOLIO_LOAD_ON_START", &cfg.Portfolio.LoadOnStart); err != nil {
		return Config{}, err
	}

	if v, ok := lookup("PORTFOLIO_DB"); ok && v != "" {
		cfg.Storage.DBPath = v
	}
	if v, ok := lookup("PORTFOLIO_JOURNAL_SIZE"); ok && v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			return Config{}, errors.Errorf("PORTFOLIO_JOURNAL_SIZE must be a positive integer, got %q", v)
		}
		cfg.Storage.JournalSize = n
	}
	if err := parseDuration(lookup, "PORTFOLIO_VISITOR_RETENTION", &cfg.Storage.VisitorRetention); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func parseDuration(lookup func(string) (string, bool), key string, dst *time.Duration) error {
	v, ok := lookup(key)
	if !ok || v == "" {
		return nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return errors.Wrapf(err, "invalid %s", key)
	}
	if d < 0 {
		return errors.Errorf("%s must not be negative, got %s", key, v)
	}
	*dst = d
	return nil
}

func parseBool(lookup func(string) (string, bool), key string, dst *bool) error {
	v, ok := lookup(key)
	if !ok || v == "" {
		return nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return errors.Wrapf(err, "invalid %s", key)
	}
	*dst = b
	return nil
}
