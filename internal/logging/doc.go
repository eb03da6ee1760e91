// Package logging centralizes slog construction and the structured field
// conventions used across trovekeep components.
package logging
