package hotreload

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"mockstream/pkg/config"
	"mockstream/pkg/netsim"
)

// ConfigReloader watches the server's config file and applies the
// reloadable subset of a changed configuration to the running process.
// Only the network condition is applied live; listener and middleware
// settings require a restart and changed values are logged and
// skipped.
type ConfigReloader struct {
	configPath string
	state      *netsim.State
	watcher    *FileWatcher
	logger     *zap.Logger
}

// NewConfigReloader creates a reloader for configPath bound to the
// running simulation state.
func NewConfigReloader(configPath string, state *netsim.State, debounceDelay time.Duration, logger *zap.Logger) (*ConfigReloader, error) {
	watcher, err := NewFileWatcher(logger, debounceDelay)
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}

	if err := watcher.Watch(configPath); err != nil {
		return nil, fmt.Errorf("failed to watch config file: %w", err)
	}

	return &ConfigReloader{
		configPath: configPath,
		state:      state,
		watcher:    watcher,
		logger:     logger,
	}, nil
}

// Start begins watching for config changes.
func (r *ConfigReloader) Start() {
	r.watcher.Start(func(path string) {
		if err := r.reload(path); err != nil {
			r.logger.Error("Config reload failed, keeping current settings",
				zap.String("path", path),
				zap.Error(err),
			)
		}
	})

	r.logger.Info("Config hot reload enabled", zap.String("path", r.configPath))
}

// Stop stops watching.
func (r *ConfigReloader) Stop() error {
	return r.watcher.Stop()
}

func (r *ConfigReloader) reload(path string) error {
	cfg, err := config.LoadFromFile(path)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if err := config.Validate(cfg); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	desired := cfg.Simulation.InitialCondition
	if desired == "" || desired == r.state.Current() {
		r.logger.Info("Config reloaded, no live changes to apply", zap.String("path", path))
		return nil
	}

	if _, err := r.state.Set(desired); err != nil {
		return fmt.Errorf("failed to apply network condition: %w", err)
	}

	r.logger.Info("Config reloaded",
		zap.String("path", path),
		zap.String("network_condition", desired),
	)

	return nil
}
