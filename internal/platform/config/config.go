// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package config handles application-wide settings and environment parsing.

It leverages 'caarlos0/env' to map OS environment variables into a strongly-typed
Go struct, providing early validation and default values. A local '.env' file is
read first through 'joho/godotenv' when present; real environment variables win.

Usage:

	cfg, err := config.Load()
	if err != nil {
	    log.Fatal(err)
	}

Architecture:

  - Immutability: Once loaded, configuration is read-only.
  - DI-Friendly: Passed to core components (DB, Redis, token codec) via constructors.
  - Zero Hidden State: No global variables are used to store config.

This ensures the application is Twelve-Factor compliant by storing config in the env.
*/
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// # Configuration Schema

// Config holds all runtime configuration for the yomitube API server.
type Config struct {

	// Server settings
	ServerPort  string `env:"SERVER_PORT"  envDefault:"8000"`
	Environment string `env:"ENVIRONMENT"  envDefault:"development"`
	Debug       bool   `env:"DEBUG"        envDefault:"false"`

	// Relational Database (PostgreSQL)
	DatabaseURL string `env:"DATABASE_URL,required,notEmpty"`

	// Key-Value Cache (Redis)
	RedisURL string `env:"REDIS_URL,required,notEmpty"`

	// Token signing. Each kind has its own secret and lifetime.
	AccessTokenSecret  string        `env:"ACCESS_TOKEN_SECRET,required,notEmpty"`
	AccessTokenTTL     time.Duration `env:"ACCESS_TOKEN_EXPIRY"  envDefault:"15m"`
	RefreshTokenSecret string        `env:"REFRESH_TOKEN_SECRET,required,notEmpty"`
	RefreshTokenTTL    time.Duration `env:"REFRESH_TOKEN_EXPIRY" envDefault:"240h"`

	// UploadDir receives multipart files before they are pushed to object storage.
	UploadDir string `env:"UPLOAD_DIR" envDefault:"./public/temp"`

	// Object Storage (S3-compatible: AWS, MinIO, R2)
	S3Bucket        string `env:"S3_BUCKET"`
	S3Region        string `env:"S3_REGION"   envDefault:"auto"`
	S3Endpoint      string `env:"S3_ENDPOINT"`
	S3AccessKey     string `env:"S3_ACCESS_KEY"`
	S3SecretKey     string `env:"S3_SECRET_KEY"`
	S3PublicBaseURL string `env:"S3_PUBLIC_BASE_URL"`

	// Cross-Origin Resource Sharing (comma separated)
	ExtraOrigins string `env:"EXTRA_ORIGINS"`
}

// # Configuration Loading

// Load reads an optional .env file and parses environment variables into a [Config].
func Load() (*Config, error) {

	// A missing .env file is the normal case outside local development.
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("config: failed to read .env file: %w", err)
	}

	return Parse()
}

// Parse maps the current process environment into a [Config] and validates it.
func Parse() (*Config, error) {

	// Initialize an empty config struct
	cfg := &Config{}

	// This will fail if any field marked with 'required' is missing.
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("config: failed to parse environment variables: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate enforces cross-field rules that struct tags cannot express.
func (c *Config) Validate() error {
	if c.AccessTokenSecret == c.RefreshTokenSecret {
		return errors.New("config: ACCESS_TOKEN_SECRET and REFRESH_TOKEN_SECRET must differ")
	}
	if c.AccessTokenTTL <= 0 || c.RefreshTokenTTL <= 0 {
		return errors.New("config: token expiry durations must be positive")
	}
	return nil
}

// IsDevelopment reports whether the server is running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// IsProduction reports whether the server is running in production mode.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// HasObjectStorage reports whether an S3 bucket is configured.
func (c *Config) HasObjectStorage() bool {
	return c.S3Bucket != ""
}

// AllowedOrigins splits ExtraOrigins into a trimmed list, skipping blanks.
func (c *Config) AllowedOrigins() []string {
	var origins []string
	for _, origin := range strings.Split(c.ExtraOrigins, ",") {
		if trimmed := strings.TrimSpace(origin); trimmed != "" {
			origins = append(origins, trimmed)
		}
	}
	return origins
}
