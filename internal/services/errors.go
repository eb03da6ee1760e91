package services

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrTransport marks network retrieval failures. These are fatal and
	// surfaced to the caller; they are retried only via an explicit force
	// refresh, never silently.
	ErrTransport = errors.New("transport error")
	// ErrParse marks malformed payloads or missing expected structure.
	ErrParse = errors.New("parse error")
	// ErrFilesystem marks missing directories, permission failures, and
	// path collisions.
	ErrFilesystem = errors.New("filesystem error")
	// ErrStaleFeed marks a feed whose expiration timestamp is still in the
	// past after the bounded invalidate-and-retry cycle.
	ErrStaleFeed = errors.New("stale feed")
)

// Wrap builds an error message that includes component context while tagging
// it with the provided marker for later classification with errors.Is. The
// subject should be the locator, path, or machine name implicated so the
// caller can act without re-deriving context.
func Wrap(marker error, component, operation, subject string, err error) error {
	detail := buildDetail(component, operation, subject)
	if marker == nil {
		marker = ErrFilesystem
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

func buildDetail(component, operation, subject string) string {
	parts := make([]string, 0, 3)
	if component = strings.TrimSpace(component); component != "" {
		parts = append(parts, component)
	}
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if subject = strings.TrimSpace(subject); subject != "" {
		parts = append(parts, subject)
	}
	if len(parts) == 0 {
		return "failure"
	}
	return strings.Join(parts, ": ")
}
