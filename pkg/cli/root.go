package cli

import (
	"context"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// NewRootCommand creates the root command for the mockstream CLI
func NewRootCommand(ctx context.Context, logger *zap.Logger, version, commit, buildTime string) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "mockstream",
		Short: "Mock HLS streaming server with network condition simulation",
		Long: `Mockstream is a mock HLS streaming backend for test automation. It serves
a fixed playlist, placeholder video segments and health/metrics JSON while
applying configurable simulated network impairments (packet loss, latency,
jitter) that can be switched at runtime through control endpoints.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Add global flags
	rootCmd.PersistentFlags().StringP("log-level", "l", "info", "Set the logging level (debug, info, warn, error)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose output")

	return rootCmd
}

// ExecuteWithLogger executes the root command with proper error handling
func ExecuteWithLogger(rootCmd *cobra.Command, logger *zap.Logger) error {
	if err := rootCmd.Execute(); err != nil {
		logger.Error("Command execution failed", zap.Error(err))
		return err
	}
	return nil
}
