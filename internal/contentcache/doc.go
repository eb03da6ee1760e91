// Package contentcache implements a content-addressable byte cache keyed
// by source locator. It has no knowledge of catalogs; the feed assembler
// and the library metadata exporter both consume it through the same
// retrieve/invalidate surface.
//
// Concurrent processes sharing one cache directory are out of scope; the
// per-digest locking here only covers goroutines within a single process.
package contentcache
