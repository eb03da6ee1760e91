package main

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
)

const feedHTML = `<html><body>
<script id="webpack-monthly-trove-data" type="application/json">
{"chunks": 1,
 "newlyAdded": [],
 "downloadPlatformOrder": ["windows", "mac", "linux"],
 "countdownTimerOptions": {"nextAdditionTime|datetime": "2999-01-01T00:00:00"}}
</script></body></html>`

const feedChunk = `[
 {"machine_name": "alpha_trove", "human-name": "Alpha", "date-added": 1500000000,
  "downloads": {"windows": {"machine_name": "alpha_win", "name": "Download",
   "url": {"web": "https://dl.example.com/alpha.exe?key=1"}, "file_size": 10, "md5": "x"}}},
 {"machine_name": "beta_trove", "human-name": "Beta", "date-added": 1600000000,
  "downloads": {"windows": {"machine_name": "beta_win", "name": "Download",
   "url": {"web": "https://dl.example.com/beta.exe?key=2"}, "file_size": 10, "md5": "y"}}}
]`

func newFeedServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/trove", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, feedHTML)
	})
	mux.HandleFunc("/chunk", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, feedChunk)
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestUpdateEndToEnd(t *testing.T) {
	srv := newFeedServer(t)
	env := setupCLITestEnv(t, srv.URL+"/trove", srv.URL+"/chunk?index=%d")

	out, _, err := runCLI(t, []string{"update"}, env.configPath)
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	requireContains(t, out, "Catalog updated: 2 products")
	requireContains(t, out, "2 records, 0 downloaded")

	if _, err := os.Stat(filepath.Join(env.stateDir, "catalog_current.json")); err != nil {
		t.Errorf("snapshot missing: %v", err)
	}
	if _, err := os.Stat(filepath.Join(env.stateDir, "library.json")); err != nil {
		t.Errorf("library state missing: %v", err)
	}

	// A second run merges the same catalog without growing the library.
	out, _, err = runCLI(t, []string{"update"}, env.configPath)
	if err != nil {
		t.Fatalf("second update: %v", err)
	}
	requireContains(t, out, "2 records")
}

func TestListAfterUpdate(t *testing.T) {
	srv := newFeedServer(t)
	env := setupCLITestEnv(t, srv.URL+"/trove", srv.URL+"/chunk?index=%d")

	if _, _, err := runCLI(t, []string{"update"}, env.configPath); err != nil {
		t.Fatalf("update: %v", err)
	}

	out, _, err := runCLI(t, []string{"list"}, env.configPath)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	requireContains(t, out, "Alpha")
	requireContains(t, out, "Beta")

	out, _, err = runCLI(t, []string{"list", "--not-downloaded"}, env.configPath)
	if err != nil {
		t.Fatalf("list --not-downloaded: %v", err)
	}
	requireContains(t, out, "Alpha")
}

func TestListEmptyLibrary(t *testing.T) {
	env := setupCLITestEnv(t, "", "")

	out, _, err := runCLI(t, []string{"list"}, env.configPath)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	requireContains(t, out, "No records")
}

func TestDownloadsStrayAndMove(t *testing.T) {
	srv := newFeedServer(t)
	env := setupCLITestEnv(t, srv.URL+"/trove", srv.URL+"/chunk?index=%d")

	if _, _, err := runCLI(t, []string{"update"}, env.configPath); err != nil {
		t.Fatalf("update: %v", err)
	}

	out, _, err := runCLI(t, []string{"downloads", "stray"}, env.configPath)
	if err != nil {
		t.Fatalf("downloads stray: %v", err)
	}
	requireContains(t, out, "No stray downloads")

	if err := os.WriteFile(filepath.Join(env.downloadsDir, "alpha.exe"), []byte("installer"), 0o644); err != nil {
		t.Fatal(err)
	}

	out, _, err = runCLI(t, []string{"downloads", "stray"}, env.configPath)
	if err != nil {
		t.Fatalf("downloads stray: %v", err)
	}
	requireContains(t, out, "alpha.exe")

	out, _, err = runCLI(t, []string{"downloads", "move"}, env.configPath)
	if err != nil {
		t.Fatalf("downloads move: %v", err)
	}
	requireContains(t, out, "moved   alpha.exe")

	if _, err := os.Stat(filepath.Join(env.libraryDir, "alpha.exe")); err != nil {
		t.Errorf("installer not in library: %v", err)
	}
	if _, err := os.Stat(filepath.Join(env.downloadsDir, "alpha.exe")); !os.IsNotExist(err) {
		t.Error("source should be removed after the move")
	}
}

func TestStatusBeforeFirstUpdate(t *testing.T) {
	env := setupCLITestEnv(t, "", "")

	out, _, err := runCLI(t, []string{"status"}, env.configPath)
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	requireContains(t, out, "none saved yet")
	requireContains(t, out, "0 records")
}
