package config

// Option changes a single config value, mostly from the command line
type Option func(c *Config)

// SetParameter applies all options to the loaded config
func SetParameter(opts ...Option) {
	for _, o := range opts {
		o(&config)
	}
}

// WithPort overwrites the port of the tile server, 0 keeps the config value
func WithPort(port int) Option {
	return func(c *Config) {
		if port > 0 {
			c.Port = port
		}
	}
}

// WithTileDir overwrites the destination directory of the tiles
func WithTileDir(dir string) Option {
	return func(c *Config) {
		if dir != "" {
			c.Cache.Path = dir
		}
	}
}

// WithSkipDelayOnCache skips the rate limit delay after cache hits
func WithSkipDelayOnCache(skip bool) Option {
	return func(c *Config) {
		if skip {
			c.Prefetch.SkipDelayOnCache = true
		}
	}
}
