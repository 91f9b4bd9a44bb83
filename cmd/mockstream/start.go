package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"mockstream/internal/hotreload"
	"mockstream/pkg/api"
	"mockstream/pkg/config"
)

func newStartCommand(ctx context.Context, logger *zap.Logger) *cobra.Command {
	var (
		port       int
		host       string
		configFile string
		condition  string
	)

	cmd := &cobra.Command{
		Use:   "start",
		Short: "Start the mock streaming server",
		Long: `Start the mock HLS streaming server. The server exposes the playlist,
segment, health and metrics endpoints and applies the configured network
condition to every streaming response.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger.Info("Starting mockstream server",
				zap.Int("port", port),
				zap.String("host", host),
				zap.String("condition", condition),
			)

			// Load configuration
			cfg, err := loadConfiguration(configFile, port, host, condition, logger)
			if err != nil {
				return fmt.Errorf("failed to load configuration: %w", err)
			}

			// Create and start server
			server, err := api.NewServer(cfg, logger)
			if err != nil {
				return fmt.Errorf("failed to create server: %w", err)
			}

			// Start config hot reload if enabled
			var reloader *hotreload.ConfigReloader
			if cfg.HotReload.Enabled && configFile != "" {
				reloader, err = hotreload.NewConfigReloader(configFile, server.State(), cfg.HotReload.DebounceDelay, logger)
				if err != nil {
					return fmt.Errorf("failed to create config reloader: %w", err)
				}
				reloader.Start()
				defer reloader.Stop()
				logger.Info("Configuration hot reload enabled", zap.String("file", configFile))
			}

			logger.Info("Server created successfully, starting...")

			// Start server in a goroutine
			serverErrCh := make(chan error, 1)
			go func() {
				if err := server.Start(); err != nil {
					serverErrCh <- err
				}
			}()

			// Wait for context cancellation or server error
			select {
			case <-ctx.Done():
				logger.Info("Shutdown signal received, stopping server...")
				if err := server.Stop(); err != nil {
					logger.Error("Error stopping server", zap.Error(err))
					return err
				}
				logger.Info("Server stopped successfully")
				return nil
			case err := <-serverErrCh:
				return fmt.Errorf("server error: %w", err)
			}
		},
	}

	// Add flags
	cmd.Flags().IntVarP(&port, "port", "p", 8082, "Server port")
	cmd.Flags().StringVarP(&host, "host", "H", "0.0.0.0", "Server host")
	cmd.Flags().StringVarP(&configFile, "config", "c", "", "Path to configuration file")
	cmd.Flags().StringVarP(&condition, "condition", "n", "", "Initial network condition (normal, poor, terrible)")

	return cmd
}

func loadConfiguration(configFile string, port int, host, condition string, logger *zap.Logger) (*config.Config, error) {
	var cfg *config.Config
	var err error

	if configFile != "" {
		logger.Info("Loading configuration from file", zap.String("file", configFile))
		if _, statErr := os.Stat(configFile); os.IsNotExist(statErr) {
			return nil, fmt.Errorf("configuration file not found: %s", configFile)
		}
		cfg, err = config.LoadFromFile(configFile)
		if err != nil {
			return nil, err
		}
	} else {
		logger.Info("Using default configuration")
		cfg = config.DefaultConfig()
	}

	// Override with command line flags
	if port != 8082 {
		cfg.Server.Port = port
	}
	if host != "0.0.0.0" {
		cfg.Server.Host = host
	}
	if condition != "" {
		cfg.Simulation.InitialCondition = condition
	}

	// Validate configuration
	if err := config.Validate(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}
