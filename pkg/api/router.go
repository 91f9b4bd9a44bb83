package api

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"
)

// HandlerFunc represents a route handler function
type HandlerFunc func(ctx *fasthttp.RequestCtx) error

// segmentPath matches segment URLs like /segment3.ts. Non-numeric
// segment names fall through to 404, mirroring a typed route
// parameter; out-of-range numbers reach the handler and come back 400.
var segmentPath = regexp.MustCompile(`^/segment(\d+)\.ts$`)

// Router dispatches requests to the streaming, monitoring and control
// handlers. The route table is fixed; there is no dynamic
// registration.
type Router struct {
	handlers *Handlers
	routes   map[string]map[string]HandlerFunc
	logger   *zap.Logger
}

// NewRouter creates the router for the given handlers.
func NewRouter(handlers *Handlers, logger *zap.Logger) *Router {
	r := &Router{
		handlers: handlers,
		routes:   make(map[string]map[string]HandlerFunc),
		logger:   logger,
	}

	r.register("GET", "/", handlers.Root)
	r.register("GET", "/stream.m3u8", handlers.Manifest)
	r.register("GET", "/health", handlers.Health)
	r.register("GET", "/metrics", handlers.Metrics)
	r.register("GET", "/control/network/current", handlers.CurrentCondition)

	return r
}

// Handler is the main FastHTTP handler
func (r *Router) Handler(ctx *fasthttp.RequestCtx) {
	method := string(ctx.Method())
	path := string(ctx.Path())

	handler, found := r.findRoute(method, path)
	if !found {
		r.handleNotFound(ctx)
		return
	}

	if err := handler(ctx); err != nil {
		r.handleError(ctx, err)
	}
}

func (r *Router) register(method, path string, handler HandlerFunc) {
	if r.routes[method] == nil {
		r.routes[method] = make(map[string]HandlerFunc)
	}
	r.routes[method][path] = handler
}

// findRoute resolves exact routes first, then the two parameterized
// shapes: GET /segment{N}.ts and PUT /control/network/{condition}.
func (r *Router) findRoute(method, path string) (HandlerFunc, bool) {
	if handler, ok := r.routes[method][path]; ok {
		return handler, true
	}

	if method == fasthttp.MethodGet {
		if m := segmentPath.FindStringSubmatch(path); m != nil {
			segmentNum, err := strconv.Atoi(m[1])
			if err != nil {
				return nil, false
			}
			return func(ctx *fasthttp.RequestCtx) error {
				return r.handlers.Segment(ctx, segmentNum)
			}, true
		}
	}

	if method == fasthttp.MethodPut {
		if condition, ok := strings.CutPrefix(path, "/control/network/"); ok && condition != "" && !strings.Contains(condition, "/") {
			return func(ctx *fasthttp.RequestCtx) error {
				return r.handlers.SetCondition(ctx, condition)
			}, true
		}
	}

	return nil, false
}

// handleNotFound handles 404 responses
func (r *Router) handleNotFound(ctx *fasthttp.RequestCtx) {
	_ = writeJSON(ctx, fasthttp.StatusNotFound, map[string]interface{}{
		"error":   "Endpoint not found",
		"message": "See GET / for API documentation",
	})

	r.logger.Warn("Route not found",
		zap.String("method", string(ctx.Method())),
		zap.String("path", string(ctx.Path())),
	)
}

// handleError handles unexpected handler failures with a generic 500.
func (r *Router) handleError(ctx *fasthttp.RequestCtx, err error) {
	_ = writeJSON(ctx, fasthttp.StatusInternalServerError, map[string]interface{}{
		"error":   "Internal server error",
		"message": "An unexpected error occurred",
	})

	r.logger.Error("Handler error",
		zap.Error(err),
		zap.String("method", string(ctx.Method())),
		zap.String("path", string(ctx.Path())),
	)
}
