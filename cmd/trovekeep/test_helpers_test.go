package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

type cliTestEnv struct {
	baseDir      string
	configPath   string
	stateDir     string
	cacheDir     string
	libraryDir   string
	downloadsDir string
}

func setupCLITestEnv(t *testing.T, rootURL, chunkTemplate string) *cliTestEnv {
	t.Helper()

	base := t.TempDir()
	env := &cliTestEnv{
		baseDir:      base,
		configPath:   filepath.Join(base, "config.toml"),
		stateDir:     filepath.Join(base, "state"),
		cacheDir:     filepath.Join(base, "cache"),
		libraryDir:   filepath.Join(base, "library"),
		downloadsDir: filepath.Join(base, "downloads"),
	}
	for _, dir := range []string{env.stateDir, env.cacheDir, env.libraryDir, env.downloadsDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			t.Fatalf("mkdir %s: %v", dir, err)
		}
	}

	if rootURL == "" {
		rootURL = "https://feed.invalid/trove"
	}
	if chunkTemplate == "" {
		chunkTemplate = "https://feed.invalid/chunk?index=%d"
	}
	content := fmt.Sprintf(`[paths]
state_dir = %q
cache_dir = %q
library_dir = %q
downloads_dir = %q
log_dir = %q

[feed]
root_url = %q
chunk_url_template = %q

[library]
platform_priority = ["windows"]
`,
		env.stateDir, env.cacheDir, env.libraryDir, env.downloadsDir,
		filepath.Join(base, "logs"), rootURL, chunkTemplate)
	if err := os.WriteFile(env.configPath, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return env
}

func runCLI(t *testing.T, args []string, configPath string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	flags := []string{}
	if configPath != "" {
		flags = append(flags, "--config", configPath)
	}
	cmd.SetArgs(append(flags, args...))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func requireContains(t *testing.T, output, substr string) {
	t.Helper()
	if !strings.Contains(output, substr) {
		t.Fatalf("expected %q to contain %q", output, substr)
	}
}
