package config

import (
	"time"
)

// Config represents the complete configuration structure
type Config struct {
	Server     ServerConfig     `yaml:"server" mapstructure:"server"`
	Simulation SimulationConfig `yaml:"simulation" mapstructure:"simulation"`
	Streaming  StreamingConfig  `yaml:"streaming" mapstructure:"streaming"`
	Logging    LoggingConfig    `yaml:"logging" mapstructure:"logging"`
	Metrics    MetricsConfig    `yaml:"metrics" mapstructure:"metrics"`
	Middleware MiddlewareConfig `yaml:"middleware" mapstructure:"middleware"`
	HotReload  HotReloadConfig  `yaml:"hotreload" mapstructure:"hotreload"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Port          int           `yaml:"port" mapstructure:"port"`
	Host          string        `yaml:"host" mapstructure:"host"`
	ReadTimeout   time.Duration `yaml:"read_timeout" mapstructure:"read_timeout"`
	WriteTimeout  time.Duration `yaml:"write_timeout" mapstructure:"write_timeout"`
	MaxConnsPerIP int           `yaml:"max_conns_per_ip" mapstructure:"max_conns_per_ip"`
	Concurrency   int           `yaml:"concurrency" mapstructure:"concurrency"`
}

// SimulationConfig holds network impairment simulation configuration.
// The initial condition is the one active at startup (normal, poor,
// terrible); a zero seed means time-based, any other value makes the
// impairment draws reproducible.
type SimulationConfig struct {
	InitialCondition string `yaml:"initial_condition" mapstructure:"initial_condition"`
	Seed             int64  `yaml:"seed" mapstructure:"seed"`
}

// StreamingConfig holds the shape of the simulated stream: how many
// segments the playlist advertises and what the monitoring endpoints
// report.
type StreamingConfig struct {
	SegmentCount    int     `yaml:"segment_count" mapstructure:"segment_count"`
	SegmentDuration float64 `yaml:"segment_duration" mapstructure:"segment_duration"`
	Bitrate         string  `yaml:"bitrate" mapstructure:"bitrate"`
	FPS             int     `yaml:"fps" mapstructure:"fps"`
	MinViewers      int     `yaml:"min_viewers" mapstructure:"min_viewers"`
	MaxViewers      int     `yaml:"max_viewers" mapstructure:"max_viewers"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level     string `yaml:"level" mapstructure:"level"`
	Format    string `yaml:"format" mapstructure:"format"` // json or console
	Output    string `yaml:"output" mapstructure:"output"` // stdout, stderr, or file path
	Sampling  bool   `yaml:"sampling" mapstructure:"sampling"`
	AddCaller bool   `yaml:"add_caller" mapstructure:"add_caller"`
}

// MetricsConfig holds the operational Prometheus listener
// configuration. This listener is separate from the simulated /metrics
// endpoint, which serves mock streaming statistics to test callers.
type MetricsConfig struct {
	Enabled bool   `yaml:"enabled" mapstructure:"enabled"`
	Port    int    `yaml:"port" mapstructure:"port"`
	Path    string `yaml:"path" mapstructure:"path"`
}

// MiddlewareConfig holds middleware configuration
type MiddlewareConfig struct {
	CORS      CORSConfig      `yaml:"cors" mapstructure:"cors"`
	Recovery  RecoveryConfig  `yaml:"recovery" mapstructure:"recovery"`
	RateLimit RateLimitConfig `yaml:"rate_limit" mapstructure:"rate_limit"`
	RequestID bool            `yaml:"request_id" mapstructure:"request_id"`
}

// CORSConfig holds CORS middleware configuration
type CORSConfig struct {
	Enabled      bool     `yaml:"enabled" mapstructure:"enabled"`
	AllowOrigins []string `yaml:"allow_origins" mapstructure:"allow_origins"`
	AllowMethods []string `yaml:"allow_methods" mapstructure:"allow_methods"`
	AllowHeaders []string `yaml:"allow_headers" mapstructure:"allow_headers"`
}

// RecoveryConfig holds recovery middleware configuration
type RecoveryConfig struct {
	Enabled  bool `yaml:"enabled" mapstructure:"enabled"`
	LogStack bool `yaml:"log_stack" mapstructure:"log_stack"`
}

// RateLimitConfig holds rate limit middleware configuration
type RateLimitConfig struct {
	Enabled           bool    `yaml:"enabled" mapstructure:"enabled"`
	RequestsPerSecond float64 `yaml:"requests_per_second" mapstructure:"requests_per_second"`
	Burst             int     `yaml:"burst" mapstructure:"burst"`
}

// HotReloadConfig holds configuration hot reload settings
type HotReloadConfig struct {
	Enabled       bool          `yaml:"enabled" mapstructure:"enabled"`
	DebounceDelay time.Duration `yaml:"debounce_delay" mapstructure:"debounce_delay"`
}
