package library

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"path"
	"path/filepath"

	"trovekeep/internal/contentcache"
	"trovekeep/internal/fileutil"
	"trovekeep/internal/logging"
	"trovekeep/internal/services"
)

// CacheMetadata exports each record's imagery from the content cache into
// <root>/metadata/, named by machine name with _logo, _sN, and _tN suffixes
// and the extension taken from the locator path. Locators missing from the
// cache are fetched through it first. Per-image failures are logged and
// skipped; the export carries on.
func (l *Library) CacheMetadata(ctx context.Context, cache *contentcache.Cache) (exported, failed int, err error) {
	dir := filepath.Join(l.root, "metadata")
	if mkdirErr := os.MkdirAll(dir, 0o755); mkdirErr != nil {
		return 0, 0, services.Wrap(services.ErrFilesystem, "library", "create metadata directory", dir, mkdirErr)
	}

	for _, record := range l.records {
		for locator, name := range record.metadataNames() {
			dst := filepath.Join(dir, name)
			data, retrieveErr := cache.Retrieve(ctx, locator)
			if retrieveErr != nil {
				l.logger.Warn("metadata image unavailable",
					logging.String(logging.FieldMachineName, record.MachineName),
					logging.String(logging.FieldLocator, locator),
					logging.Error(retrieveErr))
				failed++
				continue
			}
			if writeErr := fileutil.WriteFileAtomic(dst, data, 0o644); writeErr != nil {
				l.logger.Warn("metadata image write failed",
					logging.String(logging.FieldPath, dst), logging.Error(writeErr))
				failed++
				continue
			}
			exported++
		}
	}

	l.logger.Info("metadata exported",
		logging.Int("exported", exported), logging.Int("failed", failed))
	return exported, failed, nil
}

// metadataNames maps each of the record's image locators to its export
// filename.
func (r Record) metadataNames() map[string]string {
	names := make(map[string]string)
	if r.Image != "" {
		names[r.Image] = r.MachineName + locatorExtension(r.Image)
	}
	if r.Logo != "" {
		names[r.Logo] = r.MachineName + "_logo" + locatorExtension(r.Logo)
	}
	for i, locator := range r.Screenshots {
		names[locator] = fmt.Sprintf("%s_s%d%s", r.MachineName, i, locatorExtension(locator))
	}
	for i, locator := range r.Thumbnails {
		names[locator] = fmt.Sprintf("%s_t%d%s", r.MachineName, i, locatorExtension(locator))
	}
	return names
}

// locatorExtension extracts the file extension from a locator's path,
// query string excluded.
func locatorExtension(locator string) string {
	parsed, err := url.Parse(locator)
	if err != nil {
		return path.Ext(locator)
	}
	return path.Ext(parsed.Path)
}
