package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validatePaths(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validatePaths() error {
	if strings.TrimSpace(c.Paths.RootDir) == "" {
		return errors.New("paths.root_dir must be set")
	}
	name := c.Paths.CacheDirName
	if strings.TrimSpace(name) == "" {
		return errors.New("paths.cache_dir_name must be set")
	}
	if filepath.IsAbs(name) {
		return fmt.Errorf("paths.cache_dir_name must be relative to the site root, got %q", name)
	}
	for _, segment := range strings.Split(filepath.ToSlash(name), "/") {
		if segment == ".." {
			return fmt.Errorf("paths.cache_dir_name must not escape the site root, got %q", name)
		}
	}
	return nil
}
