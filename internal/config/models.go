package config

import (
	"fmt"
	"time"

	"github.com/muurk/raopbridge/internal/resolved"
)

// Backend selection values
const (
	BackendResolved = "resolved"
	BackendZeroconf = "zeroconf"
)

// Address family selection values
const (
	FamilyIPv4 = "ipv4"
	FamilyIPv6 = "ipv6"
)

// Config is the daemon configuration. Interval fields use plain integers
// (seconds / milliseconds) to keep the YAML readable.
type Config struct {
	Version         int    `yaml:"version"`
	Service         string `yaml:"service,omitempty"`
	Backend         string `yaml:"backend,omitempty"`
	AddressFamily   string `yaml:"address_family,omitempty"`
	PollInterval    int    `yaml:"poll_interval,omitempty"`
	RetryBudget     int    `yaml:"retry_budget,omitempty"`
	DrainIntervalMS int    `yaml:"drain_interval_ms,omitempty"`
	SinkModule      string `yaml:"sink_module,omitempty"`
	LogLevel        string `yaml:"log_level,omitempty"`
}

// NewConfig returns a configuration with every field at its default.
func NewConfig() *Config {
	return &Config{
		Version:         1,
		Service:         "_raop._tcp.local",
		Backend:         BackendResolved,
		AddressFamily:   FamilyIPv4,
		PollInterval:    3,
		RetryBudget:     8,
		DrainIntervalMS: 1,
		SinkModule:      "libpipewire-module-raop-sink",
		LogLevel:        "",
	}
}

// Validate checks enumerated fields and value ranges.
func (c *Config) Validate() error {
	if c.Version != 1 {
		return fmt.Errorf("unsupported config version: %d (expected 1)", c.Version)
	}
	switch c.Backend {
	case BackendResolved, BackendZeroconf:
	default:
		return fmt.Errorf("unknown backend: %q (expected %q or %q)", c.Backend, BackendResolved, BackendZeroconf)
	}
	switch c.AddressFamily {
	case FamilyIPv4, FamilyIPv6:
	default:
		return fmt.Errorf("unknown address family: %q (expected %q or %q)", c.AddressFamily, FamilyIPv4, FamilyIPv6)
	}
	if c.PollInterval <= 0 {
		return fmt.Errorf("poll_interval must be positive, got %d", c.PollInterval)
	}
	if c.RetryBudget <= 0 {
		return fmt.Errorf("retry_budget must be positive, got %d", c.RetryBudget)
	}
	if c.DrainIntervalMS <= 0 {
		return fmt.Errorf("drain_interval_ms must be positive, got %d", c.DrainIntervalMS)
	}
	if c.Service == "" {
		return fmt.Errorf("service must not be empty")
	}
	if c.SinkModule == "" {
		return fmt.Errorf("sink_module must not be empty")
	}
	return nil
}

// PollDuration returns the poll interval as a duration.
func (c *Config) PollDuration() time.Duration {
	return time.Duration(c.PollInterval) * time.Second
}

// DrainDuration returns the consumer tick period as a duration.
func (c *Config) DrainDuration() time.Duration {
	return time.Duration(c.DrainIntervalMS) * time.Millisecond
}

// Family maps the configured address family onto the resolver wire value.
func (c *Config) Family() int32 {
	if c.AddressFamily == FamilyIPv6 {
		return resolved.FamilyIPv6
	}
	return resolved.FamilyIPv4
}
