package config

import (
	"fmt"
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
)

// Config holds application configuration, resolved once at startup.
type Config struct {
	DatabaseURL  string
	Port         string
	IsProduction bool

	// GatewayURL is the base URL of the API gateway fronting the credit and
	// sibling account-product services.
	GatewayURL              string
	GatewayTimeout          time.Duration
	BreakerFailureThreshold uint32

	// MinimumOpeningAmount is the smallest opening deposit accepted when
	// creating an account.
	MinimumOpeningAmount decimal.Decimal
	// ComissionFreeMaxTransactions is the number of commission-free
	// transactions per account per calendar month.
	ComissionFreeMaxTransactions int64

	// RateLimit is an ulule/limiter formatted rate, e.g. "100-M".
	RateLimit string
}

// LoadConfig loads configuration from environment variables, reading a .env
// file first when present.
func LoadConfig() (*Config, error) {
	_ = godotenv.Load()

	viper.SetDefault("PGSQL_URL", "")
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("IS_PRODUCTION", false)
	viper.SetDefault("GATEWAY_URL", "http://localhost:8090")
	viper.SetDefault("GATEWAY_TIMEOUT", "5s")
	viper.SetDefault("BREAKER_FAILURE_THRESHOLD", 5)
	viper.SetDefault("ACCOUNT_MINIMUM_OPENING_AMOUNT", "0")
	viper.SetDefault("ACCOUNT_COMISSION_FREE_MAX_TRANSACTIONS", 99)
	viper.SetDefault("RATE_LIMIT", "100-M")

	viper.AutomaticEnv()

	cfg := &Config{}

	cfg.DatabaseURL = viper.GetString("PGSQL_URL")
	if cfg.DatabaseURL == "" {
		log.Println("Warning: PGSQL_URL environment variable not set.")
	}

	cfg.Port = viper.GetString("PORT")
	cfg.IsProduction = viper.GetBool("IS_PRODUCTION")
	cfg.GatewayURL = viper.GetString("GATEWAY_URL")
	cfg.BreakerFailureThreshold = viper.GetUint32("BREAKER_FAILURE_THRESHOLD")
	cfg.ComissionFreeMaxTransactions = viper.GetInt64("ACCOUNT_COMISSION_FREE_MAX_TRANSACTIONS")
	cfg.RateLimit = viper.GetString("RATE_LIMIT")

	timeout, err := time.ParseDuration(viper.GetString("GATEWAY_TIMEOUT"))
	if err != nil {
		return nil, fmt.Errorf("invalid GATEWAY_TIMEOUT: %w", err)
	}
	cfg.GatewayTimeout = timeout

	minimumOpeningAmount, err := decimal.NewFromString(viper.GetString("ACCOUNT_MINIMUM_OPENING_AMOUNT"))
	if err != nil {
		return nil, fmt.Errorf("invalid ACCOUNT_MINIMUM_OPENING_AMOUNT: %w", err)
	}
	cfg.MinimumOpeningAmount = minimumOpeningAmount

	return cfg, nil
}
