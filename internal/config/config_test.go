package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefaultValidAfterNormalize(t *testing.T) {
	cfg := Default()
	if err := cfg.normalize(); err != nil {
		t.Fatalf("normalize failed: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
	if !filepath.IsAbs(cfg.Paths.StateDir) {
		t.Errorf("state dir not expanded: %q", cfg.Paths.StateDir)
	}
	if cfg.Feed.RefreshRetries != 1 {
		t.Errorf("refresh retries default: got %d, want 1", cfg.Feed.RefreshRetries)
	}
	if len(cfg.Library.PlatformPriority) == 0 || cfg.Library.PlatformPriority[0] != "windows" {
		t.Errorf("platform priority default: got %v", cfg.Library.PlatformPriority)
	}
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	content := `
[paths]
state_dir = "` + filepath.Join(dir, "state") + `"
cache_dir = "` + filepath.Join(dir, "cache") + `"
library_dir = "` + filepath.Join(dir, "trove") + `"
downloads_dir = "` + filepath.Join(dir, "downloads") + `"
log_dir = "` + filepath.Join(dir, "logs") + `"

[feed]
refresh_retries = 2

[library]
platform_priority = ["Linux", "windows", "linux"]

[logging]
level = "debug"
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, resolved, exists, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if !exists {
		t.Error("exists = false for present file")
	}
	if resolved != path {
		t.Errorf("resolved path: got %q, want %q", resolved, path)
	}
	if cfg.Feed.RefreshRetries != 2 {
		t.Errorf("refresh_retries: got %d, want 2", cfg.Feed.RefreshRetries)
	}
	// Case folded, duplicates removed, order preserved.
	want := []string{"linux", "windows"}
	if len(cfg.Library.PlatformPriority) != len(want) {
		t.Fatalf("platform priority: got %v, want %v", cfg.Library.PlatformPriority, want)
	}
	for i := range want {
		if cfg.Library.PlatformPriority[i] != want[i] {
			t.Errorf("platform priority[%d]: got %q, want %q", i, cfg.Library.PlatformPriority[i], want[i])
		}
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("logging level: got %q", cfg.Logging.Level)
	}
	if got := cfg.SnapshotPath(); got != filepath.Join(dir, "state", "catalog_current.json") {
		t.Errorf("snapshot path: got %q", got)
	}
}

func TestLoadRejectsBadChunkTemplate(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	content := `
[feed]
chunk_url_template = "https://example.com/chunk"
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, _, _, err := Load(path); err == nil {
		t.Fatal("expected error for chunk template without placeholder")
	}
}

func TestLoadRejectsBadLogFormat(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	if err := os.WriteFile(path, []byte("[logging]\nformat = \"xml\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, _, _, err := Load(path); err == nil {
		t.Fatal("expected error for unknown log format")
	}
}

func TestChunkURL(t *testing.T) {
	cfg := Default()
	got := cfg.ChunkURL(3)
	if !strings.Contains(got, "index=3") {
		t.Errorf("chunk URL: got %q", got)
	}
}

func TestCreateSampleRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "config.toml")

	if err := CreateSample(path); err != nil {
		t.Fatalf("CreateSample failed: %v", err)
	}

	cfg, _, exists, err := Load(path)
	if err != nil {
		t.Fatalf("sample config does not load: %v", err)
	}
	if !exists {
		t.Error("sample file not detected")
	}
	if cfg.Feed.RootURL == "" {
		t.Error("sample config missing feed root URL")
	}
}

func TestEnsureDirectoriesSkipsLibraryAndDownloads(t *testing.T) {
	dir := t.TempDir()
	cfg := Default()
	cfg.Paths.StateDir = filepath.Join(dir, "state")
	cfg.Paths.CacheDir = filepath.Join(dir, "cache")
	cfg.Paths.LogDir = filepath.Join(dir, "logs")
	cfg.Paths.LibraryDir = filepath.Join(dir, "trove")
	cfg.Paths.DownloadsDir = filepath.Join(dir, "downloads")

	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories failed: %v", err)
	}

	for _, want := range []string{cfg.Paths.StateDir, cfg.Paths.CacheDir, cfg.Paths.LogDir} {
		if _, err := os.Stat(want); err != nil {
			t.Errorf("directory %q not created: %v", want, err)
		}
	}
	// The library and downloads directories are preconditions, not outputs.
	for _, absent := range []string{cfg.Paths.LibraryDir, cfg.Paths.DownloadsDir} {
		if _, err := os.Stat(absent); !os.IsNotExist(err) {
			t.Errorf("directory %q should not be created", absent)
		}
	}
}

func TestExpandPathHome(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home directory")
	}
	got, err := ExpandPath("~/state")
	if err != nil {
		t.Fatal(err)
	}
	if got != filepath.Join(home, "state") {
		t.Errorf("got %q, want %q", got, filepath.Join(home, "state"))
	}
}
