// Package feedstore persists assembled catalog snapshots as files and
// computes membership diffs between them. The stored text is always the
// snapshot's captured serialization; parsing happens on load, never on
// save.
package feedstore
