package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfigValidates(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Errorf("DefaultConfig().Validate() = %v", err)
	}

	if cfg.API.Port != 8787 {
		t.Errorf("API.Port = %d", cfg.API.Port)
	}
	if !cfg.Cache.Enabled || !cfg.Storage.Enabled {
		t.Error("caching and storage should default on")
	}

	ttl, err := cfg.GetCardTTL()
	if err != nil {
		t.Fatalf("GetCardTTL() error: %v", err)
	}
	if ttl.Hours() != 168 {
		t.Errorf("card TTL = %v, want 168h", ttl)
	}
}

func TestLoadFromMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := LoadFrom(filepath.Join(t.TempDir(), "absent.toml"))
	if err != nil {
		t.Fatalf("LoadFrom() error: %v", err)
	}
	if cfg.API.Port != DefaultConfig().API.Port {
		t.Error("missing file should yield defaults")
	}
}

func TestLoadFrom(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := `
[scryfall]
base_url = "http://localhost:9000"
timeout = "5s"

[cache]
enabled = false
ttl = "1h"

[api]
host = "0.0.0.0"
port = 9090

[app]
debug_mode = true
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom() error: %v", err)
	}

	if cfg.Scryfall.BaseURL != "http://localhost:9000" || cfg.Scryfall.Timeout != "5s" {
		t.Errorf("Scryfall = %+v", cfg.Scryfall)
	}
	if cfg.Cache.Enabled || cfg.Cache.TTL != "1h" {
		t.Errorf("Cache = %+v", cfg.Cache)
	}
	if cfg.API.Host != "0.0.0.0" || cfg.API.Port != 9090 {
		t.Errorf("API = %+v", cfg.API)
	}
	if !cfg.App.DebugMode {
		t.Error("DebugMode not decoded")
	}
}

func TestLoadFromInvalidTOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("not [valid toml"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	if _, err := LoadFrom(path); err == nil {
		t.Error("invalid TOML should fail to load")
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"bad scryfall timeout", func(c *Config) { c.Scryfall.Timeout = "soon" }},
		{"bad edhrec timeout", func(c *Config) { c.EDHREC.Timeout = "" }},
		{"bad cache ttl", func(c *Config) { c.Cache.TTL = "never" }},
		{"negative cache size", func(c *Config) { c.Cache.MaxSize = -1 }},
		{"bad card ttl", func(c *Config) { c.Storage.CardTTL = "1 week" }},
		{"port out of range", func(c *Config) { c.API.Port = 70000 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("Validate() accepted a bad value")
			}
		})
	}
}
