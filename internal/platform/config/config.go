// Copyright (c) 2026 Rokto. All rights reserved.

/*
Package config handles application-wide settings and environment parsing.

It leverages 'caarlos0/env' to map OS environment variables into a strongly-typed
Go struct, providing early validation and default values.

Usage:

	cfg, err := config.Load()
	if err != nil {
	    log.Fatal(err)
	}

Architecture:

  - Immutability: Once loaded, configuration is read-only.
  - DI-Friendly: Passed to core components (Mongo, Redis) via constructors.
  - Zero Hidden State: No global variables are used to store config.

This ensures the application is Twelve-Factor compliant by storing config in the env.
*/
package config

import (
	"fmt"
	"net/url"

	"github.com/caarlos0/env/v11"
)

// # Configuration Schema

// Config holds all runtime configuration for the Rokto API server.
//
// The variable names are part of the deployment contract and predate this
// service, which is why they carry the NODE_ENV / DB_* spelling.
type Config struct {

	// Server settings
	Port        string `env:"PORT"     envDefault:"5000"`
	Environment string `env:"NODE_ENV" envDefault:"development"`
	Debug       bool   `env:"DEBUG"    envDefault:"false"`

	// Identity token signing secret
	JWTSecret string `env:"JWT_SECRET,required"`

	// Document store (MongoDB)
	DBUsername string `env:"DB_USERNAME,required"`
	DBPassword string `env:"DB_PASSWORD,required"`
	DBHost     string `env:"DB_HOST" envDefault:"cluster0.8oqwp.mongodb.net"`
	DBName     string `env:"DB_NAME" envDefault:"blood_donation"`

	// Role cache (Redis). Optional: when empty the role gate resolves
	// every lookup directly from the document store.
	RedisURL string `env:"REDIS_URL"`

	// Credentialed CORS allowlist, comma-separated origins.
	CORSOrigins string `env:"CORS_ORIGINS" envDefault:"http://localhost:5173,https://blood-donation-managemen-7ebd3.web.app"`
}

// # Configuration Loading

// Load parses environment variables into a [Config] struct.
func Load() (*Config, error) {

	// Initialize an empty config struct
	cfg := &Config{}

	// Use the 'env' package to map environment variables to struct fields.
	// This will fail if any field marked with 'required' is missing.
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("config: failed to parse environment variables: %w", err)
	}

	return cfg, nil
}

// MongoURI composes the SRV connection string for the configured cluster.
// Credentials are URL-escaped so passwords may contain reserved characters.
func (c *Config) MongoURI() string {
	return fmt.Sprintf(
		"mongodb+srv://%s:%s@%s/?retryWrites=true&w=majority&appName=Cluster0",
		url.QueryEscape(c.DBUsername),
		url.QueryEscape(c.DBPassword),
		c.DBHost,
	)
}

// IsDevelopment reports whether the server is running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// IsProduction reports whether the server is running in production mode.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}
