package config

import (
	"fmt"
	"net"
	"strings"
)

// ValidationError represents a configuration validation error
type ValidationError struct {
	Field   string
	Value   interface{}
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("validation error in field '%s': %s (value: %v)", e.Field, e.Message, e.Value)
}

// ValidationErrors represents multiple validation errors
type ValidationErrors []ValidationError

func (ve ValidationErrors) Error() string {
	if len(ve) == 0 {
		return ""
	}
	if len(ve) == 1 {
		return ve[0].Error()
	}

	var sb strings.Builder
	sb.WriteString(ve[0].Error())
	sb.WriteString(fmt.Sprintf(" (and %d more errors)", len(ve)-1))
	return sb.String()
}

// Validate validates the complete configuration
func Validate(cfg *Config) error {
	var errs ValidationErrors

	if e := validateServer(&cfg.Server); len(e) > 0 {
		errs = append(errs, e...)
	}
	if e := validateStreaming(&cfg.Streaming); len(e) > 0 {
		errs = append(errs, e...)
	}
	if e := validateLogging(&cfg.Logging); len(e) > 0 {
		errs = append(errs, e...)
	}
	if e := validateMetrics(&cfg.Metrics); len(e) > 0 {
		errs = append(errs, e...)
	}
	if e := validateMiddleware(&cfg.Middleware); len(e) > 0 {
		errs = append(errs, e...)
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

func validateServer(cfg *ServerConfig) ValidationErrors {
	var errs ValidationErrors

	if cfg.Port < 1 || cfg.Port > 65535 {
		errs = append(errs, ValidationError{
			Field:   "server.port",
			Value:   cfg.Port,
			Message: "must be between 1 and 65535",
		})
	}

	if cfg.Host == "" {
		errs = append(errs, ValidationError{
			Field:   "server.host",
			Value:   cfg.Host,
			Message: "cannot be empty",
		})
	} else if net.ParseIP(cfg.Host) == nil && cfg.Host != "localhost" {
		if _, err := net.LookupHost(cfg.Host); err != nil {
			errs = append(errs, ValidationError{
				Field:   "server.host",
				Value:   cfg.Host,
				Message: "must be a valid IP address or hostname",
			})
		}
	}

	if cfg.ReadTimeout <= 0 {
		errs = append(errs, ValidationError{
			Field:   "server.read_timeout",
			Value:   cfg.ReadTimeout,
			Message: "must be greater than 0",
		})
	}

	if cfg.WriteTimeout <= 0 {
		errs = append(errs, ValidationError{
			Field:   "server.write_timeout",
			Value:   cfg.WriteTimeout,
			Message: "must be greater than 0",
		})
	}

	if cfg.Concurrency < 1 {
		errs = append(errs, ValidationError{
			Field:   "server.concurrency",
			Value:   cfg.Concurrency,
			Message: "must be greater than 0",
		})
	}

	return errs
}

func validateStreaming(cfg *StreamingConfig) ValidationErrors {
	var errs ValidationErrors

	if cfg.SegmentCount < 1 {
		errs = append(errs, ValidationError{
			Field:   "streaming.segment_count",
			Value:   cfg.SegmentCount,
			Message: "must be at least 1",
		})
	}

	if cfg.SegmentDuration <= 0 {
		errs = append(errs, ValidationError{
			Field:   "streaming.segment_duration",
			Value:   cfg.SegmentDuration,
			Message: "must be greater than 0",
		})
	}

	if cfg.MinViewers < 0 {
		errs = append(errs, ValidationError{
			Field:   "streaming.min_viewers",
			Value:   cfg.MinViewers,
			Message: "cannot be negative",
		})
	}

	if cfg.MaxViewers < cfg.MinViewers {
		errs = append(errs, ValidationError{
			Field:   "streaming.max_viewers",
			Value:   cfg.MaxViewers,
			Message: "must be greater than or equal to min_viewers",
		})
	}

	return errs
}

func validateLogging(cfg *LoggingConfig) ValidationErrors {
	var errs ValidationErrors

	validLevels := []string{"debug", "info", "warn", "error", "dpanic", "panic", "fatal"}
	levelValid := false
	for _, level := range validLevels {
		if cfg.Level == level {
			levelValid = true
			break
		}
	}
	if !levelValid {
		errs = append(errs, ValidationError{
			Field:   "logging.level",
			Value:   cfg.Level,
			Message: fmt.Sprintf("must be one of: %s", strings.Join(validLevels, ", ")),
		})
	}

	if cfg.Format != "json" && cfg.Format != "console" {
		errs = append(errs, ValidationError{
			Field:   "logging.format",
			Value:   cfg.Format,
			Message: "must be either 'json' or 'console'",
		})
	}

	return errs
}

func validateMetrics(cfg *MetricsConfig) ValidationErrors {
	var errs ValidationErrors

	if cfg.Enabled {
		if cfg.Port < 1 || cfg.Port > 65535 {
			errs = append(errs, ValidationError{
				Field:   "metrics.port",
				Value:   cfg.Port,
				Message: "must be between 1 and 65535",
			})
		}

		if cfg.Path == "" || !strings.HasPrefix(cfg.Path, "/") {
			errs = append(errs, ValidationError{
				Field:   "metrics.path",
				Value:   cfg.Path,
				Message: "must start with '/'",
			})
		}
	}

	return errs
}

func validateMiddleware(cfg *MiddlewareConfig) ValidationErrors {
	var errs ValidationErrors

	if cfg.RateLimit.Enabled {
		if cfg.RateLimit.RequestsPerSecond <= 0 {
			errs = append(errs, ValidationError{
				Field:   "middleware.rate_limit.requests_per_second",
				Value:   cfg.RateLimit.RequestsPerSecond,
				Message: "must be greater than 0",
			})
		}
		if cfg.RateLimit.Burst < 1 {
			errs = append(errs, ValidationError{
				Field:   "middleware.rate_limit.burst",
				Value:   cfg.RateLimit.Burst,
				Message: "must be at least 1",
			})
		}
	}

	return errs
}
