package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
// Following 12-factor app principles, all config is loaded from environment variables
type Config struct {
	Server     ServerConfig
	CORS       CORSConfig
	Cart       CartConfig
	Session    SessionConfig
	Storefront StorefrontConfig
	LogLevel   string
}

type ServerConfig struct {
	Port            string
	Host            string
	ReadTimeout     int
	WriteTimeout    int
	ShutdownTimeout int
}

type CORSConfig struct {
	AllowedOrigins []string
}

type CartConfig struct {
	FreeShippingThreshold int64
	ShippingFee           int64
	SeedDemo              bool // Seed new carts with the demo lines
}

type SessionConfig struct {
	// TTL is how long a session survives without requests
	TTL       time.Duration
	MaxStates int
}

type StorefrontConfig struct {
	// SimulatedLatency stands in for the round trip of the mocked login,
	// registration and promo-code calls.
	SimulatedLatency time.Duration
	HeroInterval     time.Duration
}

// Load reads configuration from environment variables.
// A .env file in the working directory is applied first when present;
// variables already set in the environment win.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to read .env file: %w", err)
	}

	cfg := &Config{
		Server: ServerConfig{
			Port:            getEnv("PORT", "8080"),
			Host:            getEnv("HOST", "0.0.0.0"),
			ReadTimeout:     getEnvAsInt("READ_TIMEOUT", 15),
			WriteTimeout:    getEnvAsInt("WRITE_TIMEOUT", 15),
			ShutdownTimeout: getEnvAsInt("SHUTDOWN_TIMEOUT", 30),
		},
		CORS: CORSConfig{
			AllowedOrigins: getEnvAsSlice("CORS_ALLOWED_ORIGINS", []string{"*"}),
		},
		Cart: CartConfig{
			FreeShippingThreshold: int64(getEnvAsInt("FREE_SHIPPING_THRESHOLD", 999)),
			ShippingFee:           int64(getEnvAsInt("SHIPPING_FEE", 99)),
			SeedDemo:              getEnvAsBool("CART_SEED_DEMO", true),
		},
		Session: SessionConfig{
			TTL:       time.Duration(getEnvAsInt("SESSION_TTL_MINUTES", 30)) * time.Minute,
			MaxStates: getEnvAsInt("SESSION_MAX", 10000),
		},
		Storefront: StorefrontConfig{
			SimulatedLatency: time.Duration(getEnvAsInt("SIMULATED_LATENCY_MS", 1500)) * time.Millisecond,
			HeroInterval:     time.Duration(getEnvAsInt("HERO_INTERVAL_MS", 5000)) * time.Millisecond,
		},
		LogLevel: getEnv("LOG_LEVEL", "info"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("PORT is required")
	}

	if c.Cart.FreeShippingThreshold < 0 || c.Cart.ShippingFee < 0 {
		return fmt.Errorf("shipping threshold and fee must not be negative")
	}

	if c.Session.TTL <= 0 {
		return fmt.Errorf("SESSION_TTL_MINUTES must be positive")
	}

	if c.Session.MaxStates < 0 {
		return fmt.Errorf("SESSION_MAX must not be negative")
	}

	if c.Storefront.SimulatedLatency < 0 {
		return fmt.Errorf("SIMULATED_LATENCY_MS must not be negative")
	}

	if c.Storefront.HeroInterval <= 0 {
		return fmt.Errorf("HERO_INTERVAL_MS must be positive")
	}

	if len(c.CORS.AllowedOrigins) == 0 {
		return fmt.Errorf("at least one CORS origin must be configured")
	}

	validLogLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLogLevels[strings.ToLower(c.LogLevel)] {
		return fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", c.LogLevel)
	}

	return nil
}

// Helper functions for reading environment variables

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

func getEnvAsSlice(key string, defaultValue []string) []string {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	parts := strings.Split(valueStr, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
