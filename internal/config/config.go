package config

import (
	"fmt"
	"os"
	"strconv"
)

// Config holds all application configuration
type Config struct {
	Gateway GatewayConfig
	Logger  LoggerConfig
}

// GatewayConfig holds VPOS gateway configuration
type GatewayConfig struct {
	MerchantID   string // Merchant id placed in Authentication/Mid
	SharedSecret string // Shared secret the message digest is keyed with
	TestURL      string // Test endpoint
	LiveURL      string // Live endpoint
	Live         bool   // Selects the live endpoint when true
	Timeout      int    // Request timeout in seconds (default: 30)
}

// LoggerConfig holds logging configuration
type LoggerConfig struct {
	Level       string // debug, info, warn, error
	Development bool
}

// LoadFromEnv loads configuration from environment variables
func LoadFromEnv() (*Config, error) {
	cfg := &Config{
		Gateway: GatewayConfig{
			MerchantID:   getEnv("VPOS_MERCHANT_ID", ""),
			SharedSecret: getEnv("VPOS_SHARED_SECRET", ""),
			TestURL:      getEnv("VPOS_TEST_URL", "https://mdpay-test.modirum.com/vpos/xmlpayvpos"),
			LiveURL:      getEnv("VPOS_LIVE_URL", "https://mdpay.modirum.com/vpos/xmlpayvpos"),
			Live:         getEnvAsBool("VPOS_LIVE", false),
			Timeout:      getEnvAsInt("VPOS_TIMEOUT", 30),
		},
		Logger: LoggerConfig{
			Level:       getEnv("LOG_LEVEL", "info"),
			Development: getEnvAsBool("LOG_DEVELOPMENT", false),
		},
	}

	// Validate required fields
	if cfg.Gateway.MerchantID == "" {
		return nil, fmt.Errorf("VPOS_MERCHANT_ID is required")
	}
	if cfg.Gateway.SharedSecret == "" {
		return nil, fmt.Errorf("VPOS_SHARED_SECRET is required")
	}

	return cfg, nil
}

// Helper functions

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}
