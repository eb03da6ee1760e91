package config

import (
	"errors"
	"fmt"
	"strings"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validatePaths(); err != nil {
		return err
	}
	if err := c.validateFeed(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validatePaths() error {
	if strings.TrimSpace(c.Paths.StateDir) == "" {
		return errors.New("paths.state_dir must be set")
	}
	if strings.TrimSpace(c.Paths.LibraryDir) == "" {
		return errors.New("paths.library_dir must be set")
	}
	if strings.TrimSpace(c.Paths.DownloadsDir) == "" {
		return errors.New("paths.downloads_dir must be set")
	}
	return nil
}

func (c *Config) validateFeed() error {
	if strings.Count(c.Feed.ChunkURLTemplate, "%d") != 1 {
		return fmt.Errorf("feed.chunk_url_template must contain exactly one %%d placeholder, got %q", c.Feed.ChunkURLTemplate)
	}
	if !strings.HasPrefix(c.Feed.RootURL, "http://") && !strings.HasPrefix(c.Feed.RootURL, "https://") {
		return fmt.Errorf("feed.root_url must be an http(s) locator, got %q", c.Feed.RootURL)
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format must be console or json, got %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level must be debug, info, warn, or error, got %q", c.Logging.Level)
	}
	return nil
}
