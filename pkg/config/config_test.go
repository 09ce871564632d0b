package config

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/matzehuels/blocktower/pkg/errors"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestDefaultIsValid(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Fatalf("Default().Validate() = %v", err)
	}
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
[scene]
width = 1000.0
resolution = 100

[rpc]
host = "node:18332"
network = "testnet3"
timeout = "3s"
rate_limit = 50

[cache]
backend = "redis"
redis_url = "redis://cache:6379/1"

[server]
poll = "250ms"
allowed_origins = ["https://mempool.example"]
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if cfg.Scene.Width != 1000 || cfg.Scene.Resolution != 100 {
		t.Errorf("scene = %+v", cfg.Scene)
	}
	if cfg.Scene.Height != 750 {
		t.Errorf("unset height should keep default, got %v", cfg.Scene.Height)
	}
	if cfg.RPC.Host != "node:18332" || cfg.RPC.Network != "testnet3" {
		t.Errorf("rpc = %+v", cfg.RPC)
	}
	if cfg.RPC.Timeout.Duration != 3*time.Second {
		t.Errorf("rpc.timeout = %v, want 3s", cfg.RPC.Timeout)
	}
	if cfg.Cache.Backend != CacheRedis || cfg.Cache.RedisURL != "redis://cache:6379/1" {
		t.Errorf("cache = %+v", cfg.Cache)
	}
	if cfg.Server.Poll.Duration != 250*time.Millisecond {
		t.Errorf("server.poll = %v", cfg.Server.Poll)
	}
	if cfg.RPC.RateLimit != 50 {
		t.Errorf("rpc.rate_limit = %d, want 50", cfg.RPC.RateLimit)
	}
	if len(cfg.Server.AllowedOrigins) != 1 || cfg.Server.AllowedOrigins[0] != "https://mempool.example" {
		t.Errorf("server.allowed_origins = %v", cfg.Server.AllowedOrigins)
	}
	if cfg.Server.Addr != ":8080" {
		t.Errorf("server.addr = %q, want default", cfg.Server.Addr)
	}
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name string
		body string
		code errors.Code
	}{
		{"syntax", "[scene\nwidth = 1", errors.ErrCodeInvalidConfig},
		{"unknown key", "[scene]\ncolour = 1", errors.ErrCodeInvalidConfig},
		{"bad duration", "[server]\npoll = \"soon\"", errors.ErrCodeInvalidConfig},
		{"zero width", "[scene]\nwidth = 0.0", errors.ErrCodeInvalidDimensions},
		{"huge resolution", "[scene]\nresolution = 5000", errors.ErrCodeInvalidDimensions},
		{"block limit", "[scene]\nblock_limit = 0", errors.ErrCodeInvalidConfig},
		{"network", "[rpc]\nnetwork = \"moonnet\"", errors.ErrCodeInvalidConfig},
		{"rate limit", "[rpc]\nrate_limit = -5", errors.ErrCodeInvalidConfig},
		{"backend", "[cache]\nbackend = \"memcached\"", errors.ErrCodeInvalidConfig},
		{"redis without url", "[cache]\nbackend = \"redis\"", errors.ErrCodeInvalidConfig},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.body))
			if err == nil {
				t.Fatal("Load() error = nil")
			}
			if got := errors.GetCode(err); got != tt.code {
				t.Errorf("code = %s, want %s (%v)", got, tt.code, err)
			}
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	if !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("explicit missing file: err = %v, want FILE_NOT_FOUND", err)
	}

	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load(\"\") without a file: %v", err)
	}
	if !reflect.DeepEqual(cfg, Default()) {
		t.Errorf("Load(\"\") = %+v, want defaults", cfg)
	}
}

func TestDefaultPath(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)

	path, err := DefaultPath()
	if err != nil {
		t.Fatal(err)
	}
	if want := filepath.Join(dir, "blocktower", "config.toml"); path != want {
		t.Errorf("DefaultPath() = %s, want %s", path, want)
	}
}

func TestCacheDir(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", "")
	dir, err := Default().CacheDir()
	if err != nil {
		t.Fatalf("CacheDir() error: %v", err)
	}
	home, _ := os.UserHomeDir()
	if !strings.HasPrefix(dir, home) || !strings.HasSuffix(dir, filepath.Join(".cache", appName)) {
		t.Errorf("CacheDir() = %q", dir)
	}

	xdg := t.TempDir()
	t.Setenv("XDG_CACHE_HOME", xdg)
	dir, _ = Default().CacheDir()
	if dir != filepath.Join(xdg, appName) {
		t.Errorf("CacheDir() with XDG = %q", dir)
	}

	cfg := Default()
	cfg.Cache.Dir = "/tmp/explicit"
	if dir, _ := cfg.CacheDir(); dir != "/tmp/explicit" {
		t.Errorf("CacheDir() with explicit dir = %q", dir)
	}
}
