// Package config loads bspgen settings from a TOML file.
//
// A missing file is not an error: every setting has a default. Keys the
// file sets override the defaults; unknown keys are rejected so that
// typos do not silently fall back to defaults.
//
//	seed = 42
//
//	[generator]
//	size = { x = 80, y = 40 }
//	depth = 6
//	balanced = true
//
//	[cache]
//	backend = "redis"
//	ttl = "24h"
//
//	[cache.redis]
//	addr = "localhost:6379"
package config

import (
	"context"
	"os"
	"slices"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/bspgen/pkg/bsp"
	"github.com/matzehuels/bspgen/pkg/cache"
	"github.com/matzehuels/bspgen/pkg/errors"
)

// DefaultFile is the config file looked up in the working directory.
const DefaultFile = "bspgen.toml"

// Cache backends.
const (
	BackendFile  = "file"
	BackendRedis = "redis"
	BackendMongo = "mongo"
	BackendNone  = "none"
)

// DefaultAddr is the HTTP listen address of `bspgen serve`.
const DefaultAddr = "localhost:8080"

// Config is the parsed configuration file.
type Config struct {
	// Seed is used when no seed is given on the command line.
	Seed      *uint64    `toml:"seed"`
	Generator bsp.Config `toml:"generator"`
	Cache     Cache      `toml:"cache"`
	Server    Server     `toml:"server"`

	// Warnings collects generator normalization warnings.
	Warnings []string `toml:"-"`
}

// Cache selects and configures the cache backend.
type Cache struct {
	Backend string `toml:"backend"`
	// Dir is the file backend directory; empty means the XDG default.
	Dir string `toml:"dir"`
	// TTL is a Go duration string; empty means the package defaults.
	TTL   string `toml:"ttl"`
	Redis Redis  `toml:"redis"`
	Mongo Mongo  `toml:"mongo"`
}

// Redis configures the Redis backend.
type Redis struct {
	URL      string `toml:"url"`
	Addr     string `toml:"addr"`
	Password string `toml:"password"`
	DB       int    `toml:"db"`
}

// Mongo configures the MongoDB backend.
type Mongo struct {
	URI        string `toml:"uri"`
	Database   string `toml:"database"`
	Collection string `toml:"collection"`
}

// Server configures the HTTP API.
type Server struct {
	Addr string `toml:"addr"`
	// Timeout bounds one request; a Go duration string.
	Timeout string `toml:"timeout"`
}

// Default returns the configuration used without a file.
func Default() *Config {
	return &Config{
		Generator: bsp.DefaultConfig(),
		Cache:     Cache{Backend: BackendFile},
		Server:    Server{Addr: DefaultAddr, Timeout: "30s"},
	}
}

// Load reads path on top of [Default]. An empty path means [DefaultFile];
// a missing file yields the defaults.
func Load(path string) (*Config, error) {
	if path == "" {
		path = DefaultFile
	}
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return Default(), nil
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "read %s", path)
	}
	cfg, err := Parse(string(data))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "%s", path)
	}
	return cfg, nil
}

// Parse decodes a TOML document on top of [Default] and validates it.
func Parse(doc string) (*Config, error) {
	cfg := Default()
	md, err := toml.Decode(doc, cfg)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse config")
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, errors.New(errors.ErrCodeInvalidConfig, "unknown keys: %s", strings.Join(keys, ", "))
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate normalizes the generator settings and checks the rest.
func (c *Config) Validate() error {
	c.Warnings = c.Generator.Normalize()

	if c.Cache.Backend == "" {
		c.Cache.Backend = BackendFile
	}
	backends := []string{BackendFile, BackendRedis, BackendMongo, BackendNone}
	if !slices.Contains(backends, c.Cache.Backend) {
		return errors.New(errors.ErrCodeInvalidConfig, "cache.backend %q must be one of %s",
			c.Cache.Backend, strings.Join(backends, ", "))
	}
	if _, err := c.Cache.ttl(); err != nil {
		return err
	}
	if _, err := c.Server.RequestTimeout(); err != nil {
		return err
	}
	if c.Server.Addr == "" {
		c.Server.Addr = DefaultAddr
	}
	return nil
}

func (c Cache) ttl() (time.Duration, error) {
	return parseDuration("cache.ttl", c.TTL)
}

// RequestTimeout returns the parsed server timeout; zero means none.
func (s Server) RequestTimeout() (time.Duration, error) {
	return parseDuration("server.timeout", s.Timeout)
}

func parseDuration(key, s string) (time.Duration, error) {
	if s == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil || d < 0 {
		return 0, errors.New(errors.ErrCodeInvalidConfig, "%s: invalid duration %q", key, s)
	}
	return d, nil
}

// Open builds the configured cache. noCache forces the null backend.
// A configured TTL wraps the backend so every entry uses it.
func (c Cache) Open(ctx context.Context, noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}

	var (
		backend cache.Cache
		err     error
	)
	switch c.Backend {
	case BackendNone:
		return cache.NewNullCache(), nil
	case BackendRedis:
		backend, err = cache.NewRedisCache(ctx, cache.RedisOptions(c.Redis))
	case BackendMongo:
		backend, err = cache.NewMongoCache(ctx, cache.MongoOptions(c.Mongo))
	default:
		dir := c.Dir
		if dir == "" {
			if dir, err = cache.DefaultDir(); err != nil {
				return cache.NewNullCache(), nil
			}
		}
		backend, err = cache.NewFileCache(dir)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeCache, err, "open %s cache", c.Backend)
	}

	ttl, err := c.ttl()
	if err != nil {
		return nil, err
	}
	if ttl > 0 {
		backend = cache.WithTTL(backend, ttl)
	}
	return backend, nil
}
