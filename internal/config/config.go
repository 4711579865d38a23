package config

import (
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	ProviderAlpaca = "alpaca"
	ProviderYahoo  = "yahoo"

	DefaultSettingsPath = "config.json"
	DefaultLogFile      = "stockbot.log"
	DefaultFetchTimeout = 15 * time.Second
)

// Config is the process configuration. It is built once in main and passed down.
type Config struct {
	AlpacaKey    string
	AlpacaSecret string

	Provider     string
	FetchTimeout time.Duration

	// SettingsPath is the JSON document holding thresholds and the last run.
	SettingsPath string

	LogFile  string
	LogLevel string
}

// Load reads envFile (if present) into the environment and builds a Config.
func Load(envFile string) (*Config, error) {
	if err := godotenv.Load(envFile); err != nil {
		log.Println("Warning: Error loading .env file, relying on environment variables")
	}
	return FromEnv()
}

// FromEnv builds a Config from the current environment only.
func FromEnv() (*Config, error) {
	cfg := &Config{
		AlpacaKey:    os.Getenv("ALPACA_KEY"),
		AlpacaSecret: os.Getenv("ALPACA_SECRET"),
		Provider:     strings.ToLower(getenv("MARKET_DATA_PROVIDER", ProviderAlpaca)),
		FetchTimeout: DefaultFetchTimeout,
		SettingsPath: getenv("STOCKBOT_CONFIG", DefaultSettingsPath),
		LogFile:      getenv("LOG_FILE", DefaultLogFile),
		LogLevel:     getenv("LOG_LEVEL", "info"),
	}

	if raw := os.Getenv("FETCH_TIMEOUT"); raw != "" {
		d, err := time.ParseDuration(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid FETCH_TIMEOUT %q: %w", raw, err)
		}
		if d <= 0 {
			return nil, fmt.Errorf("FETCH_TIMEOUT must be positive, got %s", d)
		}
		cfg.FetchTimeout = d
	}

	switch cfg.Provider {
	case ProviderAlpaca:
		if !cfg.HasAlpacaCredentials() {
			log.Println("Warning: ALPACA_KEY or ALPACA_SECRET is missing")
		}
	case ProviderYahoo:
	default:
		return nil, fmt.Errorf("unknown MARKET_DATA_PROVIDER %q", cfg.Provider)
	}

	return cfg, nil
}

// HasAlpacaCredentials reports whether both Alpaca keys are set. Without them
// the program still starts; Alpaca fetches then fail per symbol.
func (c *Config) HasAlpacaCredentials() bool {
	return c.AlpacaKey != "" && c.AlpacaSecret != ""
}

func getenv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}
