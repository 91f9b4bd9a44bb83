package api

import (
	"runtime"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/valyala/fasthttp"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"mockstream/pkg/config"
)

// MiddlewareFunc is the type of function for FastHTTP middleware
type MiddlewareFunc func(next fasthttp.RequestHandler) fasthttp.RequestHandler

// Stack represents a stack of middleware
type Stack struct {
	middlewares []MiddlewareFunc
	mu          sync.RWMutex
}

// NewStack creates a new middleware stack with optional initial middlewares
func NewStack(middlewares ...MiddlewareFunc) *Stack {
	stack := &Stack{
		middlewares: make([]MiddlewareFunc, len(middlewares)),
	}
	copy(stack.middlewares, middlewares)
	return stack
}

// Use adds a middleware to the stack
func (s *Stack) Use(middleware MiddlewareFunc) *Stack {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.middlewares = append(s.middlewares, middleware)
	return s
}

// Apply applies all middleware in the stack to a handler
func (s *Stack) Apply(handler fasthttp.RequestHandler) fasthttp.RequestHandler {
	s.mu.RLock()
	defer s.mu.RUnlock()

	// Apply middlewares in reverse order to maintain the correct execution order
	result := handler
	for i := len(s.middlewares) - 1; i >= 0; i-- {
		result = s.middlewares[i](result)
	}
	return result
}

// RequestID middleware generates and injects unique request IDs
func RequestID(enabled bool) MiddlewareFunc {
	if !enabled {
		return func(next fasthttp.RequestHandler) fasthttp.RequestHandler {
			return next
		}
	}

	return func(next fasthttp.RequestHandler) fasthttp.RequestHandler {
		return func(ctx *fasthttp.RequestCtx) {
			requestID := uuid.New().String()
			ctx.SetUserValue("request_id", requestID)
			ctx.Response.Header.Set("X-Request-ID", requestID)
			next(ctx)
		}
	}
}

// Logger middleware provides request/response logging with zap integration
func Logger(logger *zap.Logger) MiddlewareFunc {
	return func(next fasthttp.RequestHandler) fasthttp.RequestHandler {
		return func(ctx *fasthttp.RequestCtx) {
			start := time.Now()

			next(ctx)

			duration := time.Since(start)

			fields := []zap.Field{
				zap.String("method", string(ctx.Method())),
				zap.String("path", string(ctx.Path())),
				zap.Int("status", ctx.Response.StatusCode()),
				zap.Duration("duration", duration),
				zap.String("remote_addr", ctx.RemoteAddr().String()),
			}

			if val := ctx.UserValue("request_id"); val != nil {
				fields = append(fields, zap.String("request_id", val.(string)))
			}

			status := ctx.Response.StatusCode()
			switch {
			case status >= 500:
				logger.Error("HTTP request", fields...)
			case status >= 400:
				logger.Warn("HTTP request", fields...)
			default:
				logger.Info("HTTP request", fields...)
			}
		}
	}
}

// Recovery middleware recovers from panics, logs them, and responds
// with a generic 500 that never leaks internal details.
func Recovery(logger *zap.Logger, recoveryCfg *config.RecoveryConfig) MiddlewareFunc {
	if !recoveryCfg.Enabled {
		return func(next fasthttp.RequestHandler) fasthttp.RequestHandler {
			return next
		}
	}

	logStack := recoveryCfg.LogStack

	return func(next fasthttp.RequestHandler) fasthttp.RequestHandler {
		return func(ctx *fasthttp.RequestCtx) {
			defer func() {
				if r := recover(); r != nil {
					fields := []zap.Field{
						zap.Any("panic", r),
						zap.String("method", string(ctx.Method())),
						zap.String("path", string(ctx.Path())),
					}

					if logStack {
						stack := make([]byte, 4096)
						length := runtime.Stack(stack, false)
						fields = append(fields, zap.String("stack_trace", string(stack[:length])))
					}

					logger.Error("Panic recovered", fields...)

					ctx.SetStatusCode(fasthttp.StatusInternalServerError)
					ctx.SetContentType("application/json")
					ctx.SetBodyString(`{"error": "Internal server error", "message": "An unexpected error occurred"}`)
				}
			}()

			next(ctx)
		}
	}
}

// CORS middleware handles Cross-Origin Resource Sharing
func CORS(corsCfg *config.CORSConfig) MiddlewareFunc {
	if !corsCfg.Enabled {
		return func(next fasthttp.RequestHandler) fasthttp.RequestHandler {
			return next
		}
	}

	return func(next fasthttp.RequestHandler) fasthttp.RequestHandler {
		return func(ctx *fasthttp.RequestCtx) {
			origin := string(ctx.Request.Header.Peek("Origin"))

			allowedOrigin := ""
			for _, allowed := range corsCfg.AllowOrigins {
				if allowed == "*" || allowed == origin {
					allowedOrigin = allowed
					break
				}
			}

			if allowedOrigin != "" {
				if allowedOrigin == "*" {
					ctx.Response.Header.Set("Access-Control-Allow-Origin", "*")
				} else {
					ctx.Response.Header.Set("Access-Control-Allow-Origin", origin)
				}

				if len(corsCfg.AllowMethods) > 0 {
					ctx.Response.Header.Set("Access-Control-Allow-Methods", strings.Join(corsCfg.AllowMethods, ", "))
				}
				if len(corsCfg.AllowHeaders) > 0 {
					ctx.Response.Header.Set("Access-Control-Allow-Headers", strings.Join(corsCfg.AllowHeaders, ", "))
				}
			}

			if string(ctx.Method()) == "OPTIONS" {
				ctx.SetStatusCode(fasthttp.StatusNoContent)
				return
			}

			next(ctx)
		}
	}
}

// RateLimit middleware applies a token-bucket limit across all
// requests, responding 429 when the bucket is empty.
func RateLimit(rlCfg *config.RateLimitConfig) MiddlewareFunc {
	if !rlCfg.Enabled {
		return func(next fasthttp.RequestHandler) fasthttp.RequestHandler {
			return next
		}
	}

	limiter := rate.NewLimiter(rate.Limit(rlCfg.RequestsPerSecond), rlCfg.Burst)

	return func(next fasthttp.RequestHandler) fasthttp.RequestHandler {
		return func(ctx *fasthttp.RequestCtx) {
			if !limiter.Allow() {
				ctx.SetStatusCode(fasthttp.StatusTooManyRequests)
				ctx.SetContentType("application/json")
				ctx.SetBodyString(`{"error": "Too many requests"}`)
				return
			}

			next(ctx)
		}
	}
}

// Collector receives observations about completed requests and control
// actions. Satisfied by the Prometheus metrics registry; may be nil.
type Collector interface {
	ObserveRequest(method, path string, status int, duration time.Duration)
	ConditionChanged()
}

// Metrics middleware records completed requests into the collector.
func Metrics(collector Collector) MiddlewareFunc {
	if collector == nil {
		return func(next fasthttp.RequestHandler) fasthttp.RequestHandler {
			return next
		}
	}

	return func(next fasthttp.RequestHandler) fasthttp.RequestHandler {
		return func(ctx *fasthttp.RequestCtx) {
			start := time.Now()

			next(ctx)

			collector.ObserveRequest(
				string(ctx.Method()),
				string(ctx.Path()),
				ctx.Response.StatusCode(),
				time.Since(start),
			)
		}
	}
}
