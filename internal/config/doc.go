// Package config loads, normalizes, and validates the TOML configuration
// that drives trovekeep. All filesystem roots used by other components are
// resolved here and injected at construction time; no component derives
// paths from the home directory on its own.
package config
