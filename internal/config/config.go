package config

import (
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"github.com/samber/do/v2"
	"github.com/willie68/go_tileloader/configs"
	"github.com/willie68/go_tileloader/internal/logging"
	"github.com/willie68/go_tileloader/internal/prefetch"
	"github.com/willie68/go_tileloader/internal/provider"
	"github.com/willie68/go_tileloader/internal/tilecache"
	"go.yaml.in/yaml/v3"
)

// EnvPrefix prefix of all environment variables overriding the config
const EnvPrefix = "TILELOADER_"

type Config struct {
	Port     int              `yaml:"port" env:"PORT"`
	Cache    tilecache.Config `yaml:"cache" envPrefix:"CACHE_"`
	Provider provider.Config  `yaml:"provider" envPrefix:"PROVIDER_"`
	Prefetch prefetch.Config  `yaml:"prefetch" envPrefix:"PREFETCH_"`
	Logging  logging.Config   `yaml:"logging" envPrefix:"LOGGING_"`
}

var (
	config = Default()
)

// Default returns the config with all default values
func Default() Config {
	return Config{
		Port: 8580,
		Cache: tilecache.Config{
			Path: "public/tiles",
		},
		Provider: provider.Config{
			Timeout:   15 * time.Second,
			UserAgent: provider.DefaultUserAgent,
		},
		Prefetch: prefetch.Config{
			Delay: 200 * time.Millisecond,
		},
		Logging: logging.Config{
			Level: "info",
		},
	}
}

func Get() *Config {
	return &config
}

func Logging() *logging.Config {
	return &config.Logging
}

func Cache() *tilecache.Config {
	return &config.Cache
}

func Provider() *provider.Config {
	return &config.Provider
}

func Prefetch() *prefetch.Config {
	return &config.Prefetch
}

func JSON() string {
	js, err := config.JSON()
	if err != nil {
		return ""
	}
	return js
}

// Load loads the config file, an empty file name uses the embedded default
// config. Afterwards a .env file and the environment are applied.
func Load(file string) error {
	config = Default()
	data := []byte(configs.ConfigFile)
	if file != "" {
		var err error
		data, err = os.ReadFile(file)
		if err != nil {
			return errors.Wrap(err, "can't load config file")
		}
	}

	err := yaml.Unmarshal(data, &config)
	if err != nil {
		return errors.Wrap(err, "can't unmarshal config file")
	}
	return applyEnv(&config)
}

func applyEnv(c *Config) error {
	// a missing .env file is fine
	_ = godotenv.Load()
	err := env.ParseWithOptions(c, env.Options{Prefix: EnvPrefix})
	if err != nil {
		return errors.Wrap(err, "can't parse environment")
	}
	return nil
}

func Init(inj do.Injector) {
	do.ProvideValue(inj, &config)
	do.ProvideValue(inj, &config.Cache)
	do.ProvideValue(inj, &config.Provider)
	do.ProvideValue(inj, &config.Prefetch)
	do.ProvideValue(inj, &config.Logging)

	ver := NewVersion()
	do.ProvideValue(inj, *ver)
}

func (c *Config) JSON() (string, error) {
	data, err := yaml.Marshal(c)
	if err != nil {
		return "", errors.Wrap(err, "can't marshal config to yaml")
	}
	return string(data), nil
}
