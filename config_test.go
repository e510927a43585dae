package main

import (
	"strings"
	"testing"
	"time"
)

func validConfig() Config {
	return Config{
		port:      8080,
		width:     1280,
		height:    720,
		particles: 90,
		poolSize:  48,
		retention: 5 * time.Minute,
		cooldown:  5 * time.Second,
		lang:      "en",
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"defaults", func(*Config) {}, ""},
		{"port zero", func(c *Config) { c.port = 0 }, "invalid port"},
		{"port too high", func(c *Config) { c.port = 70000 }, "invalid port"},
		{"tiny window", func(c *Config) { c.width = 100 }, "window too small"},
		{"bad canvas id", func(c *Config) { c.canvasID = "Art 01" }, "invalid canvas id"},
		{"good canvas id", func(c *Config) { c.canvasID = "glow42" }, ""},
		{"negative particles", func(c *Config) { c.particles = -1 }, "particle count"},
		{"no particles", func(c *Config) { c.particles = 0 }, ""},
		{"empty pool", func(c *Config) { c.poolSize = 0 }, "pool size"},
		{"zero retention", func(c *Config) { c.retention = 0 }, "--retention"},
		{"negative cooldown", func(c *Config) { c.cooldown = -time.Second }, "--cooldown"},
		{"bad public url", func(c *Config) { c.publicURL = "canvas.example.org" }, "public url"},
		{"good public url", func(c *Config) { c.publicURL = "https://canvas.example.org" }, ""},
		{"french", func(c *Config) { c.lang = "fr_FR.UTF-8" }, ""},
		{"unknown language", func(c *Config) { c.lang = "xx" }, "available: en, fr"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(&cfg)
			err := cfg.validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("validate() = %v, want nil", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("validate() = %v, want error containing %q", err, tt.wantErr)
			}
		})
	}
}

func TestNewCmd_Defaults(t *testing.T) {
	cfg := &Config{}
	newCmd(cfg)
	if cfg.port != 8080 || cfg.bind != "0.0.0.0" || cfg.particles != 90 || cfg.poolSize != 48 {
		t.Errorf("defaults = %+v", cfg)
	}
	if !cfg.ambient || !cfg.hud {
		t.Error("ambient and hud should default to on")
	}
	if err := cfg.validate(); err != nil {
		t.Errorf("default config invalid: %v", err)
	}
}

func TestNewCmd_Env(t *testing.T) {
	t.Setenv("CANVAS_PORT", "9090")
	t.Setenv("CANVAS_HISTORY_DB", "/tmp/canvas.db")
	t.Setenv("CANVAS_AMBIENT", "false")
	t.Setenv("CANVAS_RETENTION", "90s")

	cfg := &Config{}
	newCmd(cfg)
	if cfg.port != 9090 {
		t.Errorf("port = %d, want 9090", cfg.port)
	}
	if cfg.historyDB != "/tmp/canvas.db" {
		t.Errorf("historyDB = %q", cfg.historyDB)
	}
	if cfg.ambient {
		t.Error("ambient = true, want false from env")
	}
	if cfg.retention != 90*time.Second {
		t.Errorf("retention = %v, want 90s", cfg.retention)
	}
}

func TestNewCmd_FlagsOverride(t *testing.T) {
	cfg := &Config{}
	cmd := newCmd(cfg)
	if err := cmd.ParseFlags([]string{"--port", "7000", "--canvas_id", "art01", "-v"}); err != nil {
		t.Fatal(err)
	}
	if cfg.port != 7000 || cfg.canvasID != "art01" || !cfg.verbose {
		t.Errorf("parsed = port %d canvas %q verbose %v", cfg.port, cfg.canvasID, cfg.verbose)
	}
}
