// Package config loads solver, cache and server settings from a TOML file.
//
// The default location follows the XDG base directory layout:
// $XDG_CONFIG_HOME/almanac/config.toml, falling back to
// ~/.config/almanac/config.toml. A missing file at the default location is
// not an error; every field has a usable default.
//
//	workers    = 8
//	batch_size = 1000000
//	timeout    = "10m"
//	mode       = "ranged"
//
//	[cache]
//	backend   = "redis"
//	ttl       = "720h"
//	redis_url = "redis://localhost:6379/0"
//
//	[server]
//	addr = ":8080"
package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/almanac/pkg/cache"
	errs "github.com/matzehuels/almanac/pkg/errors"
)

const appName = "almanac"

// Config is the decoded configuration file.
type Config struct {
	Workers   int      `toml:"workers"`
	BatchSize uint64   `toml:"batch_size"`
	Timeout   Duration `toml:"timeout"`
	Mode      string   `toml:"mode"`

	Cache  Cache  `toml:"cache"`
	Server Server `toml:"server"`
}

// Cache selects the result cache backend.
type Cache struct {
	Backend         string   `toml:"backend"`
	TTL             Duration `toml:"ttl"`
	Dir             string   `toml:"dir"`
	RedisURL        string   `toml:"redis_url"`
	MongoURI        string   `toml:"mongo_uri"`
	MongoDatabase   string   `toml:"mongo_database"`
	MongoCollection string   `toml:"mongo_collection"`
}

// Server configures the HTTP API.
type Server struct {
	Addr         string   `toml:"addr"`
	MaxBodyBytes int64    `toml:"max_body_bytes"`
	ReadTimeout  Duration `toml:"read_timeout"`
}

// Duration is a time.Duration written as a Go duration string ("90s").
type Duration struct {
	time.Duration
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// Default returns the configuration used when no file exists.
func Default() Config {
	return Config{
		Cache: Cache{
			Backend: cache.BackendFile,
			TTL:     Duration{cache.TTLResult},
		},
		Server: Server{
			Addr:         ":8080",
			MaxBodyBytes: 1 << 20,
			ReadTimeout:  Duration{30 * time.Second},
		},
	}
}

// Path returns the default config file location.
func Path() (string, error) {
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, appName, "config.toml"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName, "config.toml"), nil
}

// CacheDir returns the default file cache directory (~/.cache/almanac/).
func CacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}

// Load reads the config file at path on top of Default. An empty path means
// the default location, where a missing file yields the defaults; an
// explicit path must exist.
func Load(path string) (Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		p, err := Path()
		if err != nil {
			return cfg, nil
		}
		path = p
	}

	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		if !explicit && errors.Is(err, fs.ErrNotExist) {
			return cfg, cfg.Validate()
		}
		return cfg, errs.Wrap(errs.ErrCodeInvalidConfig, err, "load %s", path)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return cfg, errs.New(errs.ErrCodeInvalidConfig, "%s: unknown keys: %s", path, strings.Join(keys, ", "))
	}
	return cfg, cfg.Validate()
}

// Parse decodes TOML text on top of Default.
func Parse(text string) (Config, error) {
	cfg := Default()
	if _, err := toml.Decode(text, &cfg); err != nil {
		return cfg, errs.Wrap(errs.ErrCodeInvalidConfig, err, "decode config")
	}
	return cfg, cfg.Validate()
}

// Validate checks value ranges and backend settings.
func (c Config) Validate() error {
	if c.Workers < 0 {
		return errs.New(errs.ErrCodeInvalidConfig, "workers must not be negative, got %d", c.Workers)
	}
	if c.Timeout.Duration < 0 {
		return errs.New(errs.ErrCodeInvalidConfig, "timeout must not be negative, got %s", c.Timeout)
	}
	switch c.Mode {
	case "", "exact", "ranged":
	default:
		return errs.New(errs.ErrCodeInvalidConfig, "mode must be exact or ranged, got %q", c.Mode)
	}

	switch c.Cache.Backend {
	case "", cache.BackendFile, cache.BackendNone:
	case cache.BackendRedis:
		if err := errs.ValidateURL(c.Cache.RedisURL, "redis", "rediss"); err != nil {
			return errs.Wrap(errs.ErrCodeInvalidConfig, err, "cache.redis_url")
		}
	case cache.BackendMongo:
		if err := errs.ValidateURL(c.Cache.MongoURI, "mongodb", "mongodb+srv"); err != nil {
			return errs.Wrap(errs.ErrCodeInvalidConfig, err, "cache.mongo_uri")
		}
	default:
		return errs.New(errs.ErrCodeInvalidConfig, "cache.backend must be one of: file, redis, mongo, none; got %q", c.Cache.Backend)
	}
	if c.Cache.TTL.Duration < 0 {
		return errs.New(errs.ErrCodeInvalidConfig, "cache.ttl must not be negative")
	}
	if c.Server.MaxBodyBytes < 0 {
		return errs.New(errs.ErrCodeInvalidConfig, "server.max_body_bytes must not be negative")
	}
	return nil
}

// CacheOptions converts the [cache] table for cache.Open. An empty file
// cache dir resolves to CacheDir.
func (c Config) CacheOptions() (cache.Options, error) {
	opts := cache.Options{
		Backend:         c.Cache.Backend,
		Dir:             c.Cache.Dir,
		RedisURL:        c.Cache.RedisURL,
		MongoURI:        c.Cache.MongoURI,
		MongoDatabase:   c.Cache.MongoDatabase,
		MongoCollection: c.Cache.MongoCollection,
	}
	if (opts.Backend == "" || opts.Backend == cache.BackendFile) && opts.Dir == "" {
		dir, err := CacheDir()
		if err != nil {
			return opts, err
		}
		opts.Dir = dir
	}
	return opts, nil
}
