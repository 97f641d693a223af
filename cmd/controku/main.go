// Controku controls streaming players and TVs that speak the External
// Control Protocol (ECP) on the local network.
//
// It discovers devices over SSDP, reads device and live TV state, sends
// keypresses, typed text and search commands, and offers an interactive
// terminal remote.
//
// Usage:
//
//	controku [command] [flags]
//
// See 'controku --help' for available commands.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/muurk/controku/internal/ecp"
	"github.com/muurk/controku/internal/logging"
	"github.com/muurk/controku/internal/urls"
	"github.com/muurk/controku/internal/version"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	logging.Sync()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		var ecpErr *ecp.Error
		if errors.As(err, &ecpErr) {
			fmt.Fprintf(os.Stderr, "\n%s\n", ecp.GetTroubleshootingHint(err))
		}
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "controku",
	Short: "Control ECP streaming players and TVs from the terminal",
	Long: `Discover and control streaming players and TVs over the External
Control Protocol (ECP) on port 8060.

Devices are found with SSDP ('controku scan') and remembered in the
configuration file. Pick a default with 'controku use', or pass --device
with an address or a remembered name.

Protocol reference: ` + urls.ECPReference,
	Version:       version.Version,
	SilenceUsage:  true,
	SilenceErrors: true,
	Example: `  # Find devices on the network
  controku scan

  # Make one the default
  controku use "Living Room TV"

  # Send keys and text
  controku key Home Down Select
  controku type "the office"

  # Interactive remote
  controku remote`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := validateOutputFormat(outputFormat); err != nil {
			return err
		}
		return logging.Initialize(logLevel)
	},
}

func init() {
	// Disable automatic completion command generation
	rootCmd.CompletionOptions.DisableDefaultCmd = true

	rootCmd.AddCommand(versionCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	RunE: func(cmd *cobra.Command, args []string) error {
		if outputFormat == formatJSON {
			return printJSON(cmd.OutOrStdout(), version.Get())
		}
		fmt.Fprintf(cmd.OutOrStdout(), "controku %s\n", version.Full())
		return nil
	},
}
