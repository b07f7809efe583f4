// Raopbridge discovers RAOP (AirPlay audio) receivers on the local network
// and creates one PipeWire sink per unique receiver endpoint.
//
// Discovery goes through the system resolver service (systemd-resolved over
// D-Bus) rather than speaking multicast DNS directly; a built-in zeroconf
// backend is available for hosts without systemd-resolved.
//
// Usage:
//
//	raopbridge run [flags]
//	raopbridge scan [flags]
//
// See 'raopbridge --help' for available options.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/muurk/raopbridge/internal/version"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "raopbridge",
	Short: "AirPlay receiver discovery bridge",
	Long: `A daemon that discovers RAOP (AirPlay audio) receivers advertised over
multicast DNS and bridges each one into the local audio graph by loading
a PipeWire RAOP sink module per receiver.

Lookups go through the system resolver service (systemd-resolved) so the
daemon never joins multicast groups itself. Hosts without systemd-resolved
can select the built-in zeroconf backend with --backend zeroconf.`,
	Version: version.Version,
}

func init() {
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(scanCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(versionCmd)
}

// Version command
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("raopbridge %s\n", version.Full())
	},
}
