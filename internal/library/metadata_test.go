package library

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"trovekeep/internal/contentcache"
	"trovekeep/internal/services"
)

type imageFetcher struct {
	mu       sync.Mutex
	payloads map[string][]byte
}

func (f *imageFetcher) Fetch(_ context.Context, locator string) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	body, ok := f.payloads[locator]
	if !ok {
		return nil, services.Wrap(services.ErrTransport, "fetch", "get", locator, errors.New("unavailable"))
	}
	return body, nil
}

func TestCacheMetadataExportsImagery(t *testing.T) {
	lib := newTestLibrary(t)
	product := catalogProduct("alpha", "Alpha")
	product.Logo = "https://img.example.com/alpha_logo.svg"
	product.CarouselContent.Screenshot = []string{"https://img.example.com/shot.jpg?cb=9"}
	if err := lib.AddFeed(snapshotOf(product)); err != nil {
		t.Fatal(err)
	}

	fetcher := &imageFetcher{payloads: map[string][]byte{
		"https://img.example.com/alpha.png":      []byte("png bytes"),
		"https://img.example.com/alpha_logo.svg": []byte("svg bytes"),
		"https://img.example.com/shot.jpg?cb=9":  []byte("jpg bytes"),
	}}
	cache := contentcache.New(t.TempDir(), fetcher, nil)

	exported, failed, err := lib.CacheMetadata(context.Background(), cache)
	if err != nil {
		t.Fatalf("CacheMetadata failed: %v", err)
	}
	if exported != 3 || failed != 0 {
		t.Fatalf("exported/failed: got %d/%d, want 3/0", exported, failed)
	}

	dir := filepath.Join(lib.Root(), "metadata")
	for _, name := range []string{"alpha.png", "alpha_logo.svg", "alpha_s0.jpg"} {
		if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
			t.Errorf("expected export %q: %v", name, err)
		}
	}
}

func TestCacheMetadataContinuesPastFailures(t *testing.T) {
	lib := newTestLibrary(t)
	if err := lib.AddFeed(snapshotOf(
		catalogProduct("alpha", "Alpha"),
		catalogProduct("beta", "Beta"),
	)); err != nil {
		t.Fatal(err)
	}

	// Only beta's image is reachable.
	fetcher := &imageFetcher{payloads: map[string][]byte{
		"https://img.example.com/beta.png": []byte("png bytes"),
	}}
	cache := contentcache.New(t.TempDir(), fetcher, nil)

	exported, failed, err := lib.CacheMetadata(context.Background(), cache)
	if err != nil {
		t.Fatalf("CacheMetadata failed: %v", err)
	}
	if exported != 1 {
		t.Errorf("exported: got %d, want 1", exported)
	}
	if failed != 1 {
		t.Errorf("failed: got %d, want 1", failed)
	}
	if _, err := os.Stat(filepath.Join(lib.Root(), "metadata", "beta.png")); err != nil {
		t.Errorf("reachable image should still export: %v", err)
	}
}
