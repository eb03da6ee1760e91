package contentcache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"trovekeep/internal/fetch"
	"trovekeep/internal/fileutil"
	"trovekeep/internal/logging"
	"trovekeep/internal/services"
)

// Cache maps a source locator to cached bytes on disk. Each entry is stored
// as a blob named by the SHA-256 hex digest of the locator, plus a sidecar
// "<digest>.url" recording the originating locator for inspection. Entries
// never expire on their own; they are replaced only via explicit
// invalidation.
type Cache struct {
	root    string
	fetcher fetch.Fetcher
	logger  *slog.Logger

	mu    sync.Mutex
	locks map[string]*sync.Mutex // per-digest, guards first-time retrieval
}

// New creates a cache rooted at root. The directory is created lazily on
// first retrieval.
func New(root string, fetcher fetch.Fetcher, logger *slog.Logger) *Cache {
	return &Cache{
		root:    root,
		fetcher: fetcher,
		logger:  logging.NewComponentLogger(logger, "contentcache"),
		locks:   make(map[string]*sync.Mutex),
	}
}

// Digest returns the cache identity for a locator: the SHA-256 hex digest
// of the locator string. Identical locators always map to the same entry.
func Digest(locator string) string {
	sum := sha256.Sum256([]byte(locator))
	return hex.EncodeToString(sum[:])
}

// Root returns the cache root directory.
func (c *Cache) Root() string {
	return c.root
}

// BlobPath returns the on-disk location a locator's bytes are stored at.
func (c *Cache) BlobPath(locator string) string {
	return filepath.Join(c.root, Digest(locator))
}

func (c *Cache) sidecarPath(digest string) string {
	return filepath.Join(c.root, digest+".url")
}

// Contains reports whether a locator has a cached entry. Presence is
// defined purely by blob existence.
func (c *Cache) Contains(locator string) bool {
	return fileutil.Exists(c.BlobPath(locator))
}

// Retrieve returns the cached bytes for the locator, fetching and
// persisting them first when no entry exists. Two concurrent first-time
// retrievals of the same locator perform exactly one fetch.
func (c *Cache) Retrieve(ctx context.Context, locator string) ([]byte, error) {
	digest := Digest(locator)

	lock := c.digestLock(digest)
	lock.Lock()
	defer lock.Unlock()

	blobPath := filepath.Join(c.root, digest)
	data, err := os.ReadFile(blobPath)
	if err == nil {
		c.logger.Debug("cache hit",
			logging.String(logging.FieldLocator, locator),
			logging.String(logging.FieldDigest, digest))
		return data, nil
	}
	if !errors.Is(err, fs.ErrNotExist) {
		return nil, services.Wrap(services.ErrFilesystem, "contentcache", "read blob", blobPath, err)
	}

	c.logger.Debug("cache miss, fetching",
		logging.String(logging.FieldLocator, locator),
		logging.String(logging.FieldDigest, digest))

	body, err := c.fetcher.Fetch(ctx, locator)
	if err != nil {
		return nil, err
	}

	if err := os.MkdirAll(c.root, 0o755); err != nil {
		return nil, services.Wrap(services.ErrFilesystem, "contentcache", "create root", c.root, err)
	}
	if err := fileutil.WriteFileAtomic(blobPath, body, 0o644); err != nil {
		return nil, services.Wrap(services.ErrFilesystem, "contentcache", "persist blob", locator, err)
	}
	if err := fileutil.WriteFileAtomic(c.sidecarPath(digest), []byte(locator), 0o644); err != nil {
		return nil, services.Wrap(services.ErrFilesystem, "contentcache", "persist sidecar", locator, err)
	}

	return body, nil
}

// Invalidate removes the stored entry for the locator if present. Removing
// a missing entry is not an error.
func (c *Cache) Invalidate(locator string) error {
	digest := Digest(locator)

	lock := c.digestLock(digest)
	lock.Lock()
	defer lock.Unlock()

	for _, path := range []string{filepath.Join(c.root, digest), c.sidecarPath(digest)} {
		if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return services.Wrap(services.ErrFilesystem, "contentcache", "invalidate", path, err)
		}
	}

	c.logger.Debug("invalidated entry",
		logging.String(logging.FieldLocator, locator),
		logging.String(logging.FieldDigest, digest))
	return nil
}

// ForceRetrieve invalidates any stored entry and then retrieves, always
// performing a fresh fetch.
func (c *Cache) ForceRetrieve(ctx context.Context, locator string) ([]byte, error) {
	if err := c.Invalidate(locator); err != nil {
		return nil, err
	}
	return c.Retrieve(ctx, locator)
}

func (c *Cache) digestLock(digest string) *sync.Mutex {
	c.mu.Lock()
	defer c.mu.Unlock()
	lock, ok := c.locks[digest]
	if !ok {
		lock = &sync.Mutex{}
		c.locks[digest] = lock
	}
	return lock
}
