package main

import (
	"os"
	"path/filepath"
	"testing"
)

const currentSnapshot = `{
  "standardProducts": [
    {"machine_name": "alpha", "human-name": "Alpha"},
    {"machine_name": "gamma", "human-name": "Gamma"}
  ],
  "countdownTimerOptions": {"nextAdditionTime|datetime": "2999-01-01T00:00:00"}
}`

const olderSnapshot = `{
  "standardProducts": [
    {"machine_name": "alpha", "human-name": "Alpha"},
    {"machine_name": "beta", "human-name": "Beta"}
  ],
  "countdownTimerOptions": {"nextAdditionTime|datetime": "2999-01-01T00:00:00"}
}`

func TestDiffCommand(t *testing.T) {
	env := setupCLITestEnv(t, "", "")

	if err := os.WriteFile(filepath.Join(env.stateDir, "catalog_current.json"), []byte(currentSnapshot), 0o644); err != nil {
		t.Fatal(err)
	}
	older := filepath.Join(env.stateDir, "catalog-2019-02-01.json")
	if err := os.WriteFile(older, []byte(olderSnapshot), 0o644); err != nil {
		t.Fatal(err)
	}

	out, _, err := runCLI(t, []string{"diff", older}, env.configPath)
	if err != nil {
		t.Fatalf("diff: %v", err)
	}
	requireContains(t, out, "+ Gamma (gamma)")
	requireContains(t, out, "- Beta (beta)")
	requireContains(t, out, "1 added, 1 removed")
}

func TestDiffCommandNoChanges(t *testing.T) {
	env := setupCLITestEnv(t, "", "")

	if err := os.WriteFile(filepath.Join(env.stateDir, "catalog_current.json"), []byte(currentSnapshot), 0o644); err != nil {
		t.Fatal(err)
	}
	older := filepath.Join(env.stateDir, "catalog-2019-02-01.json")
	if err := os.WriteFile(older, []byte(currentSnapshot), 0o644); err != nil {
		t.Fatal(err)
	}

	out, _, err := runCLI(t, []string{"diff", older}, env.configPath)
	if err != nil {
		t.Fatalf("diff: %v", err)
	}
	requireContains(t, out, "No catalog changes")
}

func TestDiffCommandRequiresSnapshot(t *testing.T) {
	env := setupCLITestEnv(t, "", "")

	older := filepath.Join(env.stateDir, "catalog-2019-02-01.json")
	if err := os.WriteFile(older, []byte(olderSnapshot), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, _, err := runCLI(t, []string{"diff", older}, env.configPath); err == nil {
		t.Fatal("diff without a current snapshot should fail")
	}
}
