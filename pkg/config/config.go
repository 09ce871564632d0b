// Package config loads blocktower settings from a TOML file.
//
// The file lives at $XDG_CONFIG_HOME/blocktower/config.toml by default and
// every key is optional:
//
//	[scene]
//	width = 750.0
//	height = 750.0
//	resolution = 75
//	block_limit = 1000000
//
//	[rpc]
//	host = "localhost:8332"
//	user = "rpcuser"
//	pass = "rpcpass"
//	disable_tls = true
//	network = "mainnet"
//	timeout = "10s"
//	rate_limit = 0          # calls per second, 0 for unlimited
//
//	[cache]
//	backend = "file"        # file, redis or none
//	redis_url = "redis://localhost:6379/0"
//
//	[server]
//	addr = ":8080"
//	poll = "5s"
//	allowed_origins = ["*"]
//
// Command-line flags override file values.
package config

import (
	"os"
	"path/filepath"
	"slices"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/blocktower/pkg/errors"
)

const appName = "blocktower"

// Cache backends.
const (
	CacheFile  = "file"
	CacheRedis = "redis"
	CacheNone  = "none"
)

// Networks accepted in [rpc].network.
var Networks = []string{"mainnet", "testnet3", "testnet4", "signet", "regtest"}

// Config is the root of the configuration file.
type Config struct {
	Scene  Scene  `toml:"scene"`
	RPC    RPC    `toml:"rpc"`
	Cache  Cache  `toml:"cache"`
	Server Server `toml:"server"`
}

// Scene holds renderer dimensions and packing parameters.
type Scene struct {
	Width      float64 `toml:"width"`
	Height     float64 `toml:"height"`
	Resolution int     `toml:"resolution"`
	BlockLimit int64   `toml:"block_limit"`
}

// RPC holds the bitcoind JSON-RPC connection.
type RPC struct {
	Host       string   `toml:"host"`
	User       string   `toml:"user"`
	Pass       string   `toml:"pass"`
	DisableTLS bool     `toml:"disable_tls"`
	Network    string   `toml:"network"`
	Timeout    Duration `toml:"timeout"`
	RateLimit  int      `toml:"rate_limit"`
}

// Cache selects the artifact cache backend.
type Cache struct {
	Backend  string `toml:"backend"`
	Dir      string `toml:"dir"`
	RedisURL string `toml:"redis_url"`
}

// Server configures `blocktower serve`.
type Server struct {
	Addr           string   `toml:"addr"`
	Poll           Duration `toml:"poll"`
	AllowedOrigins []string `toml:"allowed_origins"`
}

// Duration is a time.Duration written as a string such as "5s".
type Duration struct {
	time.Duration
}

// UnmarshalText parses a Go duration string.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

// MarshalText formats the duration.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Scene: Scene{
			Width:      750,
			Height:     750,
			Resolution: 75,
			BlockLimit: 1_000_000,
		},
		RPC: RPC{
			Host:       "localhost:8332",
			DisableTLS: true,
			Network:    "mainnet",
			Timeout:    Duration{10 * time.Second},
		},
		Cache: Cache{
			Backend: CacheFile,
		},
		Server: Server{
			Addr: ":8080",
			Poll: Duration{5 * time.Second},
		},
	}
}

// Load reads the file at path on top of [Default] and validates the result.
// An empty path loads [DefaultPath] and tolerates its absence.
func Load(path string) (Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		p, err := DefaultPath()
		if err != nil {
			return cfg, nil
		}
		path = p
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) && !explicit {
		return cfg, nil
	}
	if os.IsNotExist(err) {
		return cfg, errors.New(errors.ErrCodeFileNotFound, "config file %s not found", path)
	}
	if err != nil {
		return cfg, errors.Wrap(errors.ErrCodeInvalidConfig, err, "read %s", path)
	}

	if err := Decode(data, &cfg); err != nil {
		return cfg, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse %s", path)
	}
	return cfg, cfg.Validate()
}

// Decode unmarshals TOML data into cfg, rejecting unknown keys.
func Decode(data []byte, cfg *Config) error {
	md, err := toml.Decode(string(data), cfg)
	if err != nil {
		return err
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "unknown key %s", undecoded[0])
	}
	return nil
}

// Validate checks every section.
func (c Config) Validate() error {
	if err := errors.ValidateDimensions(c.Scene.Width, c.Scene.Height); err != nil {
		return err
	}
	if err := errors.ValidateResolution(c.Scene.Resolution); err != nil {
		return err
	}
	if c.Scene.BlockLimit <= 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "block_limit must be positive, got %d", c.Scene.BlockLimit)
	}
	if c.RPC.RateLimit < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "rpc.rate_limit must not be negative, got %d", c.RPC.RateLimit)
	}
	if !slices.Contains(Networks, c.RPC.Network) {
		return errors.New(errors.ErrCodeInvalidConfig, "unknown network %q", c.RPC.Network)
	}
	switch c.Cache.Backend {
	case CacheFile, CacheNone:
	case CacheRedis:
		if err := errors.ValidateURL(c.Cache.RedisURL); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidConfig, err, "cache.redis_url")
		}
	default:
		return errors.New(errors.ErrCodeInvalidConfig, "unknown cache backend %q", c.Cache.Backend)
	}
	if c.Server.Poll.Duration < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "server.poll must not be negative")
	}
	return nil
}

// DefaultPath returns $XDG_CONFIG_HOME/blocktower/config.toml, falling back
// to ~/.config.
func DefaultPath() (string, error) {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, appName, "config.toml"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName, "config.toml"), nil
}

// CacheDir returns the file cache directory: [Cache].Dir when set, otherwise
// $XDG_CACHE_HOME/blocktower or ~/.cache/blocktower.
func (c Config) CacheDir() (string, error) {
	if c.Cache.Dir != "" {
		return c.Cache.Dir, nil
	}
	if dir := os.Getenv("XDG_CACHE_HOME"); dir != "" {
		return filepath.Join(dir, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}
