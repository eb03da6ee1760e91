// Package main hosts the trovekeep CLI entrypoint and command graph.
//
// The Cobra-based command tree drives catalog updates, library listings,
// snapshot diffs, download reconciliation, image caching, and configuration
// scaffolding. It centralizes configuration resolution, structured logging
// setup, and the state-directory lock so subcommands can focus on user
// experience instead of wiring.
//
// Keep this package lean: add new functionality by extending the internal
// packages first, then surface it through dedicated commands or flags here.
package main
