package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"mockstream/pkg/config"
)

func newConfigCommand(ctx context.Context, logger *zap.Logger) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Configuration management commands",
		Long:  `Commands for managing mockstream configuration files.`,
	}

	cmd.AddCommand(newConfigInitCommand(logger))
	cmd.AddCommand(newConfigValidateCommand(logger))

	return cmd
}

func newConfigInitCommand(logger *zap.Logger) *cobra.Command {
	var outputFile string

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize a new configuration file",
		Long:  `Create a new configuration file with default values.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if outputFile == "" {
				outputFile = "mockstream.yaml"
			}

			// Check if file already exists
			if _, err := os.Stat(outputFile); err == nil {
				return fmt.Errorf("configuration file already exists: %s", outputFile)
			}

			logger.Info("Creating configuration file", zap.String("file", outputFile))

			// Generate default configuration
			cfg := config.DefaultConfig()

			// Write to file
			if err := config.WriteToFile(cfg, outputFile); err != nil {
				return fmt.Errorf("failed to write configuration file: %w", err)
			}

			logger.Info("Configuration file created successfully", zap.String("file", outputFile))
			fmt.Printf("Configuration file created: %s\n", outputFile)

			return nil
		},
	}

	cmd.Flags().StringVarP(&outputFile, "output", "o", "mockstream.yaml", "Output configuration file")

	return cmd
}

func newConfigValidateCommand(logger *zap.Logger) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate [config-file]",
		Short: "Validate a configuration file",
		Long:  `Validate the syntax and content of a configuration file.`,
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			configFile := "mockstream.yaml"
			if len(args) > 0 {
				configFile = args[0]
			}

			logger.Info("Validating configuration file", zap.String("file", configFile))

			// Check if file exists
			if _, err := os.Stat(configFile); os.IsNotExist(err) {
				return fmt.Errorf("configuration file not found: %s", configFile)
			}

			// Load and validate configuration
			cfg, err := config.LoadFromFile(configFile)
			if err != nil {
				return fmt.Errorf("failed to load configuration: %w", err)
			}

			if err := config.Validate(cfg); err != nil {
				return fmt.Errorf("configuration validation failed: %w", err)
			}

			logger.Info("Configuration file is valid", zap.String("file", configFile))
			fmt.Printf("Configuration file is valid: %s\n", configFile)

			return nil
		},
	}

	return cmd
}
