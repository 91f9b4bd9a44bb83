package config

import "time"

// DefaultConfig returns a configuration with sensible defaults. The
// defaults mirror the contract consumed by the mobile test harness:
// all interfaces on port 8082, five 10-second segments, starting under
// the "normal" network condition.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port:          8082,
			Host:          "0.0.0.0",
			ReadTimeout:   30 * time.Second,
			WriteTimeout:  30 * time.Second,
			MaxConnsPerIP: 100,
			Concurrency:   256000,
		},
		Simulation: SimulationConfig{
			InitialCondition: "normal",
			Seed:             0, // 0 means use current timestamp
		},
		Streaming: StreamingConfig{
			SegmentCount:    5,
			SegmentDuration: 10.0,
			Bitrate:         "1080p",
			FPS:             30,
			MinViewers:      20,
			MaxViewers:      80,
		},
		Logging: LoggingConfig{
			Level:     "info",
			Format:    "json",
			Output:    "stdout",
			Sampling:  false,
			AddCaller: true,
		},
		Metrics: MetricsConfig{
			Enabled: true,
			Port:    9090,
			Path:    "/metrics",
		},
		Middleware: MiddlewareConfig{
			CORS: CORSConfig{
				Enabled:      true,
				AllowOrigins: []string{"*"},
				AllowMethods: []string{"GET", "PUT", "OPTIONS"},
				AllowHeaders: []string{"Content-Type"},
			},
			Recovery: RecoveryConfig{
				Enabled:  true,
				LogStack: true,
			},
			RateLimit: RateLimitConfig{
				Enabled:           false,
				RequestsPerSecond: 100,
				Burst:             200,
			},
			RequestID: true,
		},
		HotReload: HotReloadConfig{
			Enabled:       false,
			DebounceDelay: 500 * time.Millisecond,
		},
	}
}
