package main

import (
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/gofrs/flock"

	"trovekeep/internal/config"
	"trovekeep/internal/contentcache"
	"trovekeep/internal/feed"
	"trovekeep/internal/feedstore"
	"trovekeep/internal/fetch"
	"trovekeep/internal/library"
	"trovekeep/internal/logging"
)

type commandContext struct {
	configFlag *string

	configOnce sync.Once
	config     *config.Config
	configErr  error

	loggerOnce sync.Once
	logger     *slog.Logger
	loggerErr  error
}

func newCommandContext(configFlag *string) *commandContext {
	return &commandContext{configFlag: configFlag}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, _, _, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

func (c *commandContext) ensureLogger() (*slog.Logger, error) {
	c.loggerOnce.Do(func() {
		cfg, err := c.ensureConfig()
		if err != nil {
			c.loggerErr = err
			return
		}
		logger, err := logging.New(logging.Options{
			Level:       cfg.Logging.Level,
			Format:      cfg.Logging.Format,
			OutputPaths: []string{cfg.LogPath()},
		})
		if err != nil {
			c.loggerErr = err
			return
		}
		c.logger = logger
	})
	return c.logger, c.loggerErr
}

func (c *commandContext) contentCache() (*contentcache.Cache, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	logger, err := c.ensureLogger()
	if err != nil {
		return nil, err
	}
	fetcher := fetch.NewHTTPFetcher(nil, logger)
	return contentcache.New(cfg.Paths.CacheDir, fetcher, logger), nil
}

func (c *commandContext) assembler() (*feed.Assembler, *contentcache.Cache, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, nil, err
	}
	logger, err := c.ensureLogger()
	if err != nil {
		return nil, nil, err
	}
	cache, err := c.contentCache()
	if err != nil {
		return nil, nil, err
	}
	return feed.NewAssembler(cfg, cache, nil, logger), cache, nil
}

func (c *commandContext) snapshotStore() (*feedstore.Store, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	logger, err := c.ensureLogger()
	if err != nil {
		return nil, err
	}
	return feedstore.New(cfg.SnapshotPath(), cfg.BackupDir(), logger), nil
}

func (c *commandContext) gameLibrary() (*library.Library, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	logger, err := c.ensureLogger()
	if err != nil {
		return nil, err
	}
	lib, err := library.New(cfg.Paths.LibraryDir, cfg.Paths.DownloadsDir,
		cfg.LibraryPath(), cfg.Library.PlatformPriority, logger)
	if err != nil {
		return nil, err
	}
	if err := lib.Load(); err != nil {
		return nil, err
	}
	return lib, nil
}

// withLock guards a mutating command with the state-directory file lock so
// two trovekeep invocations cannot race on the snapshot or library files.
func (c *commandContext) withLock(fn func() error) error {
	cfg, err := c.ensureConfig()
	if err != nil {
		return err
	}
	lock := flock.New(cfg.LockPath())
	locked, err := lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire lock %s: %w", cfg.LockPath(), err)
	}
	if !locked {
		return fmt.Errorf("another trovekeep instance holds %s", cfg.LockPath())
	}
	defer lock.Unlock()
	return fn()
}
