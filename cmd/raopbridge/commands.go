package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/muurk/raopbridge/internal/bridge"
	"github.com/muurk/raopbridge/internal/config"
	"github.com/muurk/raopbridge/internal/discovery"
	"github.com/muurk/raopbridge/internal/logging"
	"github.com/muurk/raopbridge/internal/resolved"
	"github.com/muurk/raopbridge/internal/rr"
	"github.com/muurk/raopbridge/internal/tunnel"
	"github.com/muurk/raopbridge/internal/ui"
)

// Run command and flags
var (
	configPath  string
	logLevel    string
	backendName string
	familyName  string
	serviceName string
	pollSecs    int
	retryBudget int
	sinkModule  string
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the discovery bridge",
	Long: `Run the discovery bridge until interrupted.

The bridge polls the resolver for RAOP receivers, tracks their presence
with hysteresis against transient lookup misses, and loads one PipeWire
RAOP sink module per unique receiver endpoint.

Settings come from the config file (see 'raopbridge config path') and can
be overridden per-invocation with flags. A missing config file is fine;
built-in defaults apply.`,
	Example: `  # Run with defaults (resolved backend, IPv4)
  raopbridge run

  # Run against the built-in zeroconf backend with debug logging
  raopbridge run --backend zeroconf --log-level debug

  # Discover over IPv6 with a slower poll cadence
  raopbridge run --family ipv6 --interval 10`,
	RunE: runBridge,
}

func init() {
	runCmd.Flags().StringVar(&configPath, "config", "", "Path to config file (default: OS config directory)")
	runCmd.Flags().StringVar(&logLevel, "log-level", "", "Log level (debug, info, warn, error)")
	runCmd.Flags().StringVar(&backendName, "backend", "", "Resolver backend: resolved or zeroconf")
	runCmd.Flags().StringVar(&familyName, "family", "", "Address family to resolve: ipv4 or ipv6")
	runCmd.Flags().StringVar(&serviceName, "service", "", "Service to browse for (default _raop._tcp.local)")
	runCmd.Flags().IntVar(&pollSecs, "interval", 0, "Discovery poll interval in seconds")
	runCmd.Flags().IntVar(&retryBudget, "retry-budget", 0, "Empty cycles a receiver survives before removal")
	runCmd.Flags().StringVar(&sinkModule, "sink-module", "", "PipeWire module to load per receiver")
}

func runBridge(cmd *cobra.Command, args []string) error {
	var cfg *config.Config
	var err error
	if configPath != "" {
		cfg, err = config.LoadFrom(configPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return err
	}

	// Flags override the file only when explicitly set, so an empty or
	// zero flag value never clobbers a configured one.
	flags := cmd.Flags()
	if flags.Changed("log-level") {
		cfg.LogLevel = logLevel
	}
	if flags.Changed("backend") {
		cfg.Backend = backendName
	}
	if flags.Changed("family") {
		cfg.AddressFamily = familyName
	}
	if flags.Changed("service") {
		cfg.Service = serviceName
	}
	if flags.Changed("interval") {
		cfg.PollInterval = pollSecs
	}
	if flags.Changed("retry-budget") {
		cfg.RetryBudget = retryBudget
	}
	if flags.Changed("sink-module") {
		cfg.SinkModule = sinkModule
	}

	b, err := bridge.New(cfg)
	if err != nil {
		return err
	}
	return b.Start()
}

// Config command
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage the configuration file",
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the config file location",
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := config.GetConfigPath()
		if err != nil {
			return err
		}
		fmt.Println(path)
		return nil
	},
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a config file with the default settings",
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := config.GetConfigPath()
		if err != nil {
			return err
		}
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("config file already exists: %s", path)
		}
		if err := config.NewConfig().Save(); err != nil {
			return err
		}
		fmt.Printf("Wrote default config to %s\n", path)
		return nil
	},
}

func init() {
	configCmd.AddCommand(configPathCmd)
	configCmd.AddCommand(configInitCmd)
}

// Scan command and flags
var (
	scanBackend string
	scanFamily  string
	scanService string
	scanTimeout time.Duration
)

var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "List RAOP receivers visible right now",
	Long: `Perform a one-shot discovery pass and print every RAOP receiver that
answers, with its resolved address and advertised capabilities. No sink
modules are loaded; this is a read-only view of the network.`,
	Example: `  # One-shot scan over the resolved backend
  raopbridge scan

  # Scan without systemd-resolved, over IPv6
  raopbridge scan --backend zeroconf --family ipv6`,
	RunE: runScan,
}

func init() {
	scanCmd.Flags().StringVar(&scanBackend, "backend", config.BackendResolved, "Resolver backend: resolved or zeroconf")
	scanCmd.Flags().StringVar(&scanFamily, "family", config.FamilyIPv4, "Address family to resolve: ipv4 or ipv6")
	scanCmd.Flags().StringVar(&scanService, "service", discovery.DefaultServiceName, "Service to browse for")
	scanCmd.Flags().DurationVar(&scanTimeout, "timeout", 10*time.Second, "Overall scan deadline")
}

func runScan(cmd *cobra.Command, args []string) error {
	// Keep routine resolver chatter out of the styled listing.
	if err := logging.Initialize("error"); err != nil {
		return err
	}

	family := resolved.FamilyIPv4
	if scanFamily == config.FamilyIPv6 {
		family = resolved.FamilyIPv6
	} else if scanFamily != config.FamilyIPv4 {
		return fmt.Errorf("unknown address family: %q", scanFamily)
	}

	var browser resolved.Browser
	var svcResolver resolved.ServiceResolver
	switch scanBackend {
	case config.BackendZeroconf:
		backend := resolved.NewZeroconfBackend()
		browser, svcResolver = backend, backend
	case config.BackendResolved:
		client, err := resolved.NewClient()
		if err != nil {
			return fmt.Errorf("failed to connect to resolver service: %w", err)
		}
		defer client.Close()
		browser, svcResolver = client, client
	default:
		return fmt.Errorf("unknown backend: %q", scanBackend)
	}

	ctx, cancel := context.WithTimeout(context.Background(), scanTimeout)
	defer cancel()

	fmt.Println(ui.HeaderStyle.Render(fmt.Sprintf("Scanning for %s receivers...", scanService)))

	flags := resolved.FlagMDNSIPv4 | resolved.FlagMDNSIPv6
	records, err := browser.ResolveRecord(ctx, resolved.IfindexAny,
		scanService, rr.ClassIN, rr.TypePTR, flags)
	if err != nil {
		return fmt.Errorf("browse failed: %w", err)
	}
	if len(records) == 0 {
		fmt.Println(ui.DetailStyle.Render("No receivers found."))
		return nil
	}

	found := 0
	for _, raw := range records {
		rec, _, err := rr.ParseRR(raw.Data)
		if err != nil || rec.Type != rr.TypePTR {
			continue
		}
		domain, _, err := rr.ParseName(rec.RData)
		if err != nil {
			continue
		}

		srvs, rawTxts, err := svcResolver.ResolveService(ctx, resolved.IfindexAny,
			"", "", domain, family, 0)
		if err != nil {
			fmt.Fprintf(os.Stderr, "warning: %s did not resolve: %v\n", domain, err)
			continue
		}
		txts := make([]string, len(rawTxts))
		for i, t := range rawTxts {
			txts[i] = string(t)
		}

		for _, srv := range srvs {
			for _, ha := range srv.Addresses {
				addr, err := discovery.SocketAddr(ha, srv.Port)
				if err != nil {
					continue
				}
				props := tunnel.PropertiesFromEndpoint(discovery.Endpoint{
					Hostname: srv.Hostname,
					Addr:     addr,
					Text:     txts,
				})

				detail := srv.Hostname
				if props.Transport != "" {
					detail += "  transport=" + props.Transport
				}
				if props.Codec != "" {
					detail += "  codec=" + props.Codec
				}
				if props.Encryption != "" {
					detail += "  encryption=" + props.Encryption
				}

				fmt.Printf("%s  %s\n      %s\n",
					ui.NameStyle.Render(props.DisplayName),
					ui.AddrStyle.Render(addr.String()),
					ui.DetailStyle.Render(detail))
				found++
			}
		}
	}

	fmt.Println(ui.HeaderStyle.Render(fmt.Sprintf("%d endpoint(s) found", found)))
	return nil
}
