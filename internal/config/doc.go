// Package config loads and persists the raopbridge configuration file.
//
// Configuration lives in the platform config directory (XDG on Linux,
// ~/.config on macOS) as config.yaml. Every field has a default matching
// the built-in constants, so the daemon runs without a file at all; flags
// on the run command override file values.
//
// # File Format
//
//	version: 1
//	service: _raop._tcp.local
//	backend: resolved          # or: zeroconf
//	address_family: ipv4       # or: ipv6 (one family active at a time)
//	poll_interval: 3           # seconds, both discovery loops
//	retry_budget: 8            # absent cycles a host survives
//	drain_interval_ms: 1       # consumer tick period
//	sink_module: libpipewire-module-raop-sink
//	log_level: info
package config
