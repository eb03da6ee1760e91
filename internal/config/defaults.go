package config

import (
	"os"
	"path/filepath"
	"strings"
)

const (
	defaultStateDir         = "~/.local/share/trovekeep"
	defaultLogDir           = "~/.local/share/trovekeep/logs"
	defaultLibraryDir       = "~/trove"
	defaultDownloadsDir     = "~/Downloads"
	defaultFeedRootURL      = "https://www.humblebundle.com/subscription/trove"
	defaultChunkURLTemplate = "https://www.humblebundle.com/api/v1/trove/chunk?property=start&direction=desc&index=%d"
	defaultRefreshRetries   = 1
	defaultLogFormat        = "console"
	defaultLogLevel         = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			StateDir:     defaultStateDir,
			CacheDir:     defaultCacheDir(),
			LibraryDir:   defaultLibraryDir,
			DownloadsDir: defaultDownloadsDir,
			LogDir:       defaultLogDir,
		},
		Feed: Feed{
			RootURL:          defaultFeedRootURL,
			ChunkURLTemplate: defaultChunkURLTemplate,
			RefreshRetries:   defaultRefreshRetries,
		},
		Library: Library{
			PlatformPriority: []string{"windows"},
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}

func defaultCacheDir() string {
	if base, ok := os.LookupEnv("XDG_CACHE_HOME"); ok && strings.TrimSpace(base) != "" {
		return filepath.Join(base, "trovekeep", "cache")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "~/.cache/trovekeep/cache"
	}
	return filepath.Join(home, ".cache", "trovekeep", "cache")
}
