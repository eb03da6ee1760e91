// Package feed assembles complete, de-duplicated catalog snapshots from the
// paginated remote feed. The network transport and the HTML payload
// extraction are injected capabilities; the assembler itself only knows how
// to stitch chunks together, detect staleness, and keep the snapshot's
// serialized form stable for diffing.
package feed
