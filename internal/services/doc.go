// Package services defines shared utilities consumed by every component
// that touches the network or the filesystem.
//
// Key responsibilities:
//   - Structured error markers plus the Wrap helper so every failure carries
//     the locator, path, or machine name it implicates.
//   - Context helpers that stamp correlation identifiers for logging.
//
// Use these helpers when wiring new components so error classification and
// observability stay uniform across the tool.
package services
