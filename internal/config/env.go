package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config contains all configuration parameters for the application.
// WALLET_SECRET is the server-wide custody secret; without it no wallet can
// be created or loaded.
type Config struct {
	Port                string `envconfig:"PORT" default:"8080"`
	WalletSecret        string `envconfig:"WALLET_SECRET"`
	JupiterBaseURL      string `envconfig:"JUPITER_BASE_URL" default:"https://api.jup.ag"`
	JupiterAPIKey       string `envconfig:"JUP_API_KEY"`
	DBPath              string `envconfig:"DB_PATH" default:"./data/wallets"`
	OrderTTLMinutes     int    `envconfig:"ORDER_TTL_MINUTES" default:"30"`
	PricePollSeconds    int    `envconfig:"PRICE_POLL_SECONDS" default:"2"`
	MaxWatchersPerUser  int    `envconfig:"MAX_WATCHERS_PER_USER" default:"10"`
	RequestTimeoutSecs  int    `envconfig:"REQUEST_TIMEOUT_SECONDS" default:"30"`
	LogFile             string `envconfig:"LOG_FILE"`
	LogLevel            string `envconfig:"LOG_LEVEL" default:"info"`
}

// cfg is the global configuration instance
var cfg *Config

// Init loads configuration from environment variables.
func Init() error {
	cfg = &Config{}
	if err := envconfig.Process("", cfg); err != nil {
		return fmt.Errorf("failed to process config: %w", err)
	}
	return nil
}

// Get returns the global configuration instance.
// Panics if Init() was not called.
func Get() *Config {
	if cfg == nil {
		panic("config not initialized, call Init() first")
	}
	return cfg
}

// GetWalletSecret returns the server-wide custody secret
func GetWalletSecret() string {
	return Get().WalletSecret
}

// GetOrderTTL returns how long a proposed order is kept before eviction
func GetOrderTTL() time.Duration {
	return time.Duration(Get().OrderTTLMinutes) * time.Minute
}

// GetPricePollInterval returns the watcher polling period
func GetPricePollInterval() time.Duration {
	return time.Duration(Get().PricePollSeconds) * time.Second
}

// GetRequestTimeout returns the bound applied to external calls
func GetRequestTimeout() time.Duration {
	return time.Duration(Get().RequestTimeoutSecs) * time.Second
}
