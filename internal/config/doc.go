// Package config loads and validates application configuration from the
// environment (optionally seeded from a .env file).
package config
