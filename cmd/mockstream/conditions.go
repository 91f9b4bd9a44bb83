package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"mockstream/pkg/netsim"
)

// newConditionsCommand creates the conditions command that lists the
// available network condition profiles
func newConditionsCommand(logger *zap.Logger) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "conditions",
		Short: "List available network condition profiles",
		Long: `List the network condition profiles that the server can simulate.
Each profile defines a packet loss rate, a base latency and a jitter range
that are applied to streaming responses.

The active condition can be switched at runtime:
  PUT /control/network/{condition}`,
		Example: `  # List all condition profiles
  mockstream conditions

  # Start the server under a degraded profile
  mockstream start --condition poor`,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Printf("Available network conditions:\n\n")

			for _, name := range netsim.Names() {
				c, err := netsim.Lookup(name)
				if err != nil {
					return fmt.Errorf("failed to look up condition %q: %w", name, err)
				}

				fmt.Printf("  %s\n", name)
				fmt.Printf("    Description: %s\n", c.Description)
				fmt.Printf("    Packet loss: %.0f%%\n", c.PacketLoss*100)
				fmt.Printf("    Latency:     %.0fms\n", c.LatencyMs)
				fmt.Printf("    Jitter:      ±%.0fms\n", c.JitterMs)
				fmt.Println()
			}

			return nil
		},
	}

	return cmd
}
