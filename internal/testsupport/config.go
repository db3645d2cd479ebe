package testsupport

import (
	"path/filepath"
	"testing"

	"loom/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*config.Config)

// NewConfig produces a config rooted in a unique temp directory per test.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfg := config.Default()
	cfg.Paths.RootDir = base
	cfg.Paths.StateDir = filepath.Join(base, ".cache", "loom")
	cfg.Logging.Format = "json"

	for _, opt := range opts {
		opt(&cfg)
	}

	if err := cfg.Validate(); err != nil {
		t.Fatalf("test config invalid: %v", err)
	}
	return &cfg
}

// WithCacheDirName overrides the cache directory name on the test config.
func WithCacheDirName(name string) ConfigOption {
	return func(cfg *config.Config) {
		cfg.Paths.CacheDirName = name
	}
}
