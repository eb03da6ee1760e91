package feed

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"trovekeep/internal/config"
	"trovekeep/internal/contentcache"
	"trovekeep/internal/logging"
	"trovekeep/internal/services"
)

// Assembler produces complete catalog snapshots from the paginated remote
// feed, using the content cache for every retrieval.
type Assembler struct {
	cfg       *config.Config
	cache     *contentcache.Cache
	extractor Extractor
	logger    *slog.Logger
	now       func() time.Time
}

// NewAssembler constructs an assembler using the wall clock.
func NewAssembler(cfg *config.Config, cache *contentcache.Cache, extractor Extractor, logger *slog.Logger) *Assembler {
	return NewAssemblerWithClock(cfg, cache, extractor, logger, time.Now)
}

// NewAssemblerWithClock allows injecting the clock (used in tests).
func NewAssemblerWithClock(cfg *config.Config, cache *contentcache.Cache, extractor Extractor, logger *slog.Logger, now func() time.Time) *Assembler {
	if extractor == nil {
		extractor = NewHTMLExtractor("")
	}
	return &Assembler{
		cfg:       cfg,
		cache:     cache,
		extractor: extractor,
		logger:    logging.NewComponentLogger(logger, "feed"),
		now:       now,
	}
}

// Assemble retrieves the root document and every chunk, merges and
// de-duplicates the product lists, and returns the snapshot. When the
// assembled snapshot is already expired, the touched locators are
// invalidated and assembly retries, bounded by the configured refresh
// retry count; a feed still stale after the bound fails explicitly rather
// than looping.
func (a *Assembler) Assemble(ctx context.Context) (*Snapshot, error) {
	ctx = services.WithRequestID(ctx, uuid.NewString())
	logger := logging.WithContext(ctx, a.logger)

	retries := a.cfg.Feed.RefreshRetries
	for attempt := 0; ; attempt++ {
		snapshot, touched, err := a.assembleOnce(ctx, logger)
		if err != nil {
			return nil, err
		}

		if !snapshot.Expired(a.now()) {
			logger.Info("assembled catalog snapshot",
				logging.Int("products", len(snapshot.Products)),
				logging.Int("refreshes", attempt))
			return snapshot, nil
		}

		if attempt >= retries {
			return nil, services.Wrap(services.ErrStaleFeed, "feed", "assemble",
				fmt.Sprintf("%s: still expired after %d refresh attempt(s)", a.cfg.Feed.RootURL, retries), nil)
		}

		logger.Warn("assembled feed already expired, refreshing",
			logging.String("expires_at", snapshot.ExpiresAt.Format(time.RFC3339)),
			logging.Int("locators", len(touched)))
		for _, locator := range touched {
			if err := a.cache.Invalidate(locator); err != nil {
				return nil, err
			}
		}
	}
}

// assembleOnce performs a single assembly pass and reports every locator it
// touched so a stale result can be invalidated wholesale.
func (a *Assembler) assembleOnce(ctx context.Context, logger *slog.Logger) (*Snapshot, []string, error) {
	rootURL := a.cfg.Feed.RootURL
	touched := []string{rootURL}

	doc, err := a.cache.Retrieve(ctx, rootURL)
	if err != nil {
		return nil, nil, err
	}

	payloadBytes, err := a.extractor.Extract(doc)
	if err != nil {
		return nil, nil, err
	}

	var root map[string]any
	if err := json.Unmarshal(payloadBytes, &root); err != nil {
		return nil, nil, services.Wrap(services.ErrParse, "feed", "decode payload", rootURL, err)
	}

	chunks, err := chunkCount(root, rootURL)
	if err != nil {
		return nil, nil, err
	}

	products := make([]any, 0, chunks*16)
	for i := 0; i < chunks; i++ {
		locator := a.cfg.ChunkURL(i)
		touched = append(touched, locator)

		data, err := a.cache.Retrieve(ctx, locator)
		if err != nil {
			return nil, nil, err
		}

		var page []any
		if err := json.Unmarshal(data, &page); err != nil {
			return nil, nil, services.Wrap(services.ErrParse, "feed", "decode chunk", locator, err)
		}
		products = append(products, page...)
	}
	logger.Debug("retrieved catalog chunks",
		logging.Int("chunks", chunks),
		logging.Int("raw_products", len(products)))

	// The captured text carries the reassembled standard list so saved
	// snapshots are self-contained.
	root["standardProducts"] = products
	raw, err := json.MarshalIndent(root, "", "  ")
	if err != nil {
		return nil, nil, services.Wrap(services.ErrParse, "feed", "serialize snapshot", rootURL, err)
	}

	snapshot, err := ParseSnapshot(raw)
	if err != nil {
		return nil, nil, err
	}
	return snapshot, touched, nil
}

// Invalidate drops the cached root document and every chunk it references.
// The cached root is read first to learn how many chunk locators exist.
func (a *Assembler) Invalidate(ctx context.Context) error {
	rootURL := a.cfg.Feed.RootURL

	doc, err := a.cache.Retrieve(ctx, rootURL)
	if err != nil {
		return err
	}
	payloadBytes, err := a.extractor.Extract(doc)
	if err != nil {
		return err
	}
	var root map[string]any
	if err := json.Unmarshal(payloadBytes, &root); err != nil {
		return services.Wrap(services.ErrParse, "feed", "decode payload", rootURL, err)
	}
	chunks, err := chunkCount(root, rootURL)
	if err != nil {
		return err
	}

	if err := a.cache.Invalidate(rootURL); err != nil {
		return err
	}
	for i := 0; i < chunks; i++ {
		if err := a.cache.Invalidate(a.cfg.ChunkURL(i)); err != nil {
			return err
		}
	}
	return nil
}

// WarmImages retrieves every product image, logo, screenshot, and thumbnail
// through the content cache. Per-locator failures are logged and counted,
// not fatal; imagery is optional metadata.
func (a *Assembler) WarmImages(ctx context.Context, snapshot *Snapshot) (warmed, failed int) {
	logger := logging.WithContext(ctx, a.logger)
	for _, product := range snapshot.Products {
		for _, locator := range product.ImageLocators() {
			if _, err := a.cache.Retrieve(ctx, locator); err != nil {
				logger.Warn("image warm failed",
					logging.String(logging.FieldMachineName, product.MachineName),
					logging.String(logging.FieldLocator, locator),
					logging.Error(err))
				failed++
				continue
			}
			warmed++
		}
	}
	return warmed, failed
}

func chunkCount(root map[string]any, rootURL string) (int, error) {
	value, ok := root["chunks"]
	if !ok {
		return 0, services.Wrap(services.ErrParse, "feed", "missing chunks value", rootURL, nil)
	}
	number, ok := value.(float64)
	if !ok || number < 0 || number != float64(int(number)) {
		return 0, services.Wrap(services.ErrParse, "feed", "invalid chunks value",
			fmt.Sprintf("%s: %v", rootURL, value), nil)
	}
	return int(number), nil
}
