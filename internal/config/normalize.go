package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Normalize expands paths and fills derived defaults. Load calls this
// automatically; callers that assemble a Config by hand must call it before
// use.
func (c *Config) Normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error

	c.Paths.RootDir = strings.TrimSpace(c.Paths.RootDir)
	if c.Paths.RootDir == "" {
		if c.Paths.RootDir, err = os.Getwd(); err != nil {
			return fmt.Errorf("paths.root_dir: resolve working directory: %w", err)
		}
	}
	if c.Paths.RootDir, err = expandPath(c.Paths.RootDir); err != nil {
		return fmt.Errorf("paths.root_dir: %w", err)
	}

	c.Paths.CacheDirName = strings.TrimSpace(c.Paths.CacheDirName)
	if c.Paths.CacheDirName == "" {
		c.Paths.CacheDirName = defaultCacheDirName
	}

	c.Paths.StateDir = strings.TrimSpace(c.Paths.StateDir)
	if c.Paths.StateDir == "" {
		c.Paths.StateDir = filepath.Join(c.CacheRoot(), "loom")
	} else if c.Paths.StateDir, err = expandPath(c.Paths.StateDir); err != nil {
		return fmt.Errorf("paths.state_dir: %w", err)
	}

	return nil
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	switch c.Logging.Format {
	case "console", "json", "auto":
	default:
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
