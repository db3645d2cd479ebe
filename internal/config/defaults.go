package config

const (
	defaultCacheDirName = ".cache"
	defaultLogFormat    = "auto"
	defaultLogLevel     = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			CacheDirName: defaultCacheDirName,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
