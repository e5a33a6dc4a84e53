// Package config provides environment-based configuration.
//
// Loads from .env file (godotenv), maps to Config struct via go-simpler/env struct tags.
// Only the session secret is required at startup; Google OAuth stays optional so the
// server can run with the provider unconfigured (the redirect endpoint reports it).
package config
