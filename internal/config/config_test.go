package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/muurk/raopbridge/internal/resolved"
)

func TestNewConfig_Defaults(t *testing.T) {
	cfg := NewConfig()

	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
	if cfg.Service != "_raop._tcp.local" {
		t.Errorf("service = %q, want _raop._tcp.local", cfg.Service)
	}
	if cfg.PollDuration() != 3*time.Second {
		t.Errorf("poll duration = %v, want 3s", cfg.PollDuration())
	}
	if cfg.DrainDuration() != time.Millisecond {
		t.Errorf("drain duration = %v, want 1ms", cfg.DrainDuration())
	}
	if cfg.RetryBudget != 8 {
		t.Errorf("retry budget = %d, want 8", cfg.RetryBudget)
	}
	if cfg.Family() != resolved.FamilyIPv4 {
		t.Errorf("family = %d, want %d", cfg.Family(), resolved.FamilyIPv4)
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{name: "defaults", mutate: func(c *Config) {}},
		{name: "zeroconf backend", mutate: func(c *Config) { c.Backend = BackendZeroconf }},
		{name: "ipv6 family", mutate: func(c *Config) { c.AddressFamily = FamilyIPv6 }},
		{name: "bad version", mutate: func(c *Config) { c.Version = 2 }, wantErr: true},
		{name: "bad backend", mutate: func(c *Config) { c.Backend = "avahi" }, wantErr: true},
		{name: "bad family", mutate: func(c *Config) { c.AddressFamily = "dual" }, wantErr: true},
		{name: "zero interval", mutate: func(c *Config) { c.PollInterval = 0 }, wantErr: true},
		{name: "negative budget", mutate: func(c *Config) { c.RetryBudget = -1 }, wantErr: true},
		{name: "empty service", mutate: func(c *Config) { c.Service = "" }, wantErr: true},
		{name: "empty module", mutate: func(c *Config) { c.SinkModule = "" }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := NewConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestLoadFrom(t *testing.T) {
	dir := t.TempDir()

	t.Run("missing file yields defaults", func(t *testing.T) {
		cfg, err := LoadFrom(filepath.Join(dir, "nope.yaml"))
		if err != nil {
			t.Fatalf("LoadFrom() error = %v", err)
		}
		if cfg.RetryBudget != 8 {
			t.Errorf("retry budget = %d, want 8", cfg.RetryBudget)
		}
	})

	t.Run("partial file keeps defaults for omitted fields", func(t *testing.T) {
		path := filepath.Join(dir, "partial.yaml")
		content := "version: 1\nbackend: zeroconf\nretry_budget: 4\n"
		if err := os.WriteFile(path, []byte(content), 0600); err != nil {
			t.Fatal(err)
		}

		cfg, err := LoadFrom(path)
		if err != nil {
			t.Fatalf("LoadFrom() error = %v", err)
		}
		if cfg.Backend != BackendZeroconf {
			t.Errorf("backend = %q, want zeroconf", cfg.Backend)
		}
		if cfg.RetryBudget != 4 {
			t.Errorf("retry budget = %d, want 4", cfg.RetryBudget)
		}
		if cfg.Service != "_raop._tcp.local" {
			t.Errorf("service = %q, want default", cfg.Service)
		}
	})

	t.Run("invalid file is an error", func(t *testing.T) {
		path := filepath.Join(dir, "bad.yaml")
		if err := os.WriteFile(path, []byte("version: 9\n"), 0600); err != nil {
			t.Fatal(err)
		}
		if _, err := LoadFrom(path); err == nil {
			t.Error("expected error for unsupported version")
		}
	})
}
