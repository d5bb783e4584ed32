package config

import (
	"os"
	"strings"

	"github.com/joho/godotenv"
	"go.uber.org/fx"
)

// Module provides the loaded configuration.
var Module = fx.Provide(Load)

// Config holds application configuration.
type Config struct {
	AppName     string
	AppVersion  string
	Environment string
	LogLevel    string

	// DefaultCurrency is used when an item carries no currency of its own.
	DefaultCurrency string

	// CLI I/O. InputPath empty means stdin, OutputPath empty means stdout.
	InputPath  string
	OutputPath string
}

// Load loads configuration from environment variables and .env file.
func Load() Config {
	_ = godotenv.Load()

	return Config{
		AppName:         getenv("APP_SERVICE", "pricekit"),
		AppVersion:      getenv("APP_VERSION", "0.1.0"),
		Environment:     getenv("ENVIRONMENT", "development"),
		LogLevel:        strings.ToLower(getenv("LOG_LEVEL", "info")),
		DefaultCurrency: strings.ToUpper(getenv("DEFAULT_CURRENCY", "EUR")),
		InputPath:       getenv("PRICEKIT_INPUT", ""),
		OutputPath:      getenv("PRICEKIT_OUTPUT", ""),
	}
}

func (c Config) IsProduction() bool {
	return c.Environment == "production"
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
