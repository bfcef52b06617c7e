// Package config loads, normalizes, and validates subsync configuration
// from TOML with environment variable fallbacks for deployment secrets.
package config
