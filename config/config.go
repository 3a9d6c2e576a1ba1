package config

import (
	"fmt"
	"os"
	"strconv"
	"sync"
)

// Config holds all application configuration
type Config struct {
	// Discord configuration
	DiscordToken string

	// Database configuration
	DatabaseURL string

	// Webhook ingress configuration
	Port           int
	WebhookToken   string  // optional shared secret for POST /notify
	RateLimitRPS   float64 // per-IP sustained request rate
	RateLimitBurst int

	// Delivery configuration
	MaxConcurrentSends int // bound on parallel guild sends per routing pass

	// Environment
	Environment string // "development" or "production"
}

var (
	instance *Config
	once     sync.Once
)

// Get returns the global configuration instance
func Get() *Config {
	once.Do(func() {
		var err error
		instance, err = load()
		if err != nil {
			panic(fmt.Sprintf("failed to load config: %v", err))
		}
	})
	return instance
}

// load loads configuration from environment variables
func load() (*Config, error) {
	config := &Config{
		// Discord
		DiscordToken: os.Getenv("DISCORD_TOKEN"),

		// Database
		DatabaseURL: os.Getenv("DATABASE_URL"),

		// Webhook ingress with defaults
		Port:           3000,
		WebhookToken:   os.Getenv("WEBHOOK_TOKEN"),
		RateLimitRPS:   5,
		RateLimitBurst: 10,

		// Delivery
		MaxConcurrentSends: 8,

		// Environment
		Environment: os.Getenv("ENVIRONMENT"),
	}

	// Override defaults if environment variables are set
	if port := os.Getenv("PORT"); port != "" {
		if parsedPort, err := strconv.Atoi(port); err == nil {
			config.Port = parsedPort
		}
	}
	if rps := os.Getenv("RATE_LIMIT_RPS"); rps != "" {
		if parsedRPS, err := strconv.ParseFloat(rps, 64); err == nil {
			config.RateLimitRPS = parsedRPS
		}
	}
	if burst := os.Getenv("RATE_LIMIT_BURST"); burst != "" {
		if parsedBurst, err := strconv.Atoi(burst); err == nil {
			config.RateLimitBurst = parsedBurst
		}
	}
	if sends := os.Getenv("MAX_CONCURRENT_SENDS"); sends != "" {
		if parsedSends, err := strconv.Atoi(sends); err == nil && parsedSends > 0 {
			config.MaxConcurrentSends = parsedSends
		}
	}

	// Set default environment if not specified
	if config.Environment == "" {
		config.Environment = "development"
	}

	if config.Environment != "test" {
		// Validate required configuration
		if config.DiscordToken == "" {
			return nil, fmt.Errorf("DISCORD_TOKEN is required")
		}
		if config.DatabaseURL == "" {
			return nil, fmt.Errorf("DATABASE_URL is required")
		}
	}

	return config, nil
}
