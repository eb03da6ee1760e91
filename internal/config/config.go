package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains directory configuration. StateDir holds the current
// snapshot, its daily backups, the library records file, and the process
// lock. CacheDir holds the content-addressable byte cache. LibraryDir and
// DownloadsDir are the installer store and the scratch download area; both
// must already exist.
type Paths struct {
	StateDir     string `toml:"state_dir"`
	CacheDir     string `toml:"cache_dir"`
	LibraryDir   string `toml:"library_dir"`
	DownloadsDir string `toml:"downloads_dir"`
	LogDir       string `toml:"log_dir"`
}

// Feed contains configuration for catalog feed assembly.
type Feed struct {
	RootURL          string `toml:"root_url"`
	ChunkURLTemplate string `toml:"chunk_url_template"`
	RefreshRetries   int    `toml:"refresh_retries"`
}

// Library contains configuration for game record reconciliation.
type Library struct {
	PlatformPriority []string `toml:"platform_priority"`
	MetadataImages   bool     `toml:"metadata_images"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values for trovekeep.
//
// Configuration sections by subsystem:
//   - Paths: state, cache, library, downloads, and log directories
//   - Feed: catalog feed locators and the bounded stale-refresh retry count
//   - Library: download platform priority and metadata image export
//   - Logging: log format and level
type Config struct {
	Paths   Paths   `toml:"paths"`
	Feed    Feed    `toml:"feed"`
	Library Library `toml:"library"`
	Logging Logging `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/trovekeep/config.toml")
}

// Load locates, parses, and validates a configuration file. The returned
// config has all path fields expanded and normalized. The second return is
// the resolved config path, the third whether the file existed.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("trovekeep.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// EnsureDirectories creates the directories trovekeep owns. LibraryDir and
// DownloadsDir are deliberately not created here: the library treats their
// absence as a hard precondition failure rather than papering over it.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.StateDir, c.Paths.CacheDir, c.Paths.LogDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

// SnapshotPath returns the location of the current catalog snapshot.
func (c *Config) SnapshotPath() string {
	return filepath.Join(c.Paths.StateDir, "catalog_current.json")
}

// BackupDir returns the directory holding date-stamped snapshot backups.
func (c *Config) BackupDir() string {
	return c.Paths.StateDir
}

// LibraryPath returns the location of the persisted game records.
func (c *Config) LibraryPath() string {
	return filepath.Join(c.Paths.StateDir, "library.json")
}

// LockPath returns the location of the single-instance process lock.
func (c *Config) LockPath() string {
	return filepath.Join(c.Paths.StateDir, "trovekeep.lock")
}

// LogPath returns the location of the main log file.
func (c *Config) LogPath() string {
	return filepath.Join(c.Paths.LogDir, "trovekeep.log")
}

// ChunkURL renders the chunk locator for the given page index.
func (c *Config) ChunkURL(index int) string {
	return fmt.Sprintf(c.Feed.ChunkURLTemplate, index)
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
