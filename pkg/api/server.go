package api

import (
	"fmt"
	"sync"
	"time"

	"github.com/valyala/fasthttp"
	"github.com/valyala/fasthttp/fasthttpadaptor"
	"go.uber.org/zap"

	"mockstream/internal/metrics"
	"mockstream/pkg/config"
	"mockstream/pkg/netsim"
)

// Server is the mock streaming HTTP server: the main listener serving
// the streaming/control API plus an optional operational metrics
// listener.
type Server struct {
	config     *config.Config
	state      *netsim.State
	simulator  *netsim.Simulator
	collector  *metrics.Metrics
	server     *fasthttp.Server
	metricsSrv *fasthttp.Server
	logger     *zap.Logger

	mu      sync.Mutex
	running bool
}

// NewServer wires state, simulator, handlers and middleware into a
// ready-to-start server.
func NewServer(cfg *config.Config, logger *zap.Logger) (*Server, error) {
	if cfg == nil {
		return nil, fmt.Errorf("configuration cannot be nil")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger cannot be nil")
	}

	state, err := netsim.NewState(cfg.Simulation.InitialCondition, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize simulation state: %w", err)
	}

	var collector *metrics.Metrics
	if cfg.Metrics.Enabled {
		collector = metrics.New()
	}

	// A nil *metrics.Metrics must not become a non-nil Observer.
	var observer netsim.Observer
	if collector != nil {
		observer = collector
	}
	simulator := netsim.NewSimulator(state, observer, cfg.Simulation.Seed, logger)

	var apiCollector Collector
	if collector != nil {
		apiCollector = collector
	}
	handlers := NewHandlers(state, simulator, cfg.Streaming, apiCollector, cfg.Simulation.Seed, logger)
	router := NewRouter(handlers, logger)

	stack := NewStack()
	stack.Use(RequestID(cfg.Middleware.RequestID))
	stack.Use(Logger(logger))
	stack.Use(Recovery(logger, &cfg.Middleware.Recovery))
	stack.Use(CORS(&cfg.Middleware.CORS))
	stack.Use(RateLimit(&cfg.Middleware.RateLimit))
	stack.Use(Metrics(apiCollector))

	server := &fasthttp.Server{
		Handler:       stack.Apply(router.Handler),
		ReadTimeout:   cfg.Server.ReadTimeout,
		WriteTimeout:  cfg.Server.WriteTimeout,
		MaxConnsPerIP: cfg.Server.MaxConnsPerIP,
		Concurrency:   cfg.Server.Concurrency,
		ErrorHandler: func(ctx *fasthttp.RequestCtx, err error) {
			logger.Error("FastHTTP error",
				zap.Error(err),
				zap.String("path", string(ctx.Path())),
				zap.String("method", string(ctx.Method())),
			)
		},
	}

	s := &Server{
		config:    cfg,
		state:     state,
		simulator: simulator,
		collector: collector,
		server:    server,
		logger:    logger,
	}

	if collector != nil {
		s.metricsSrv = &fasthttp.Server{
			Handler: metricsHandler(cfg.Metrics.Path, collector),
		}
	}

	return s, nil
}

// State exposes the simulation state for external coordinators such as
// the config hot reloader.
func (s *Server) State() *netsim.State {
	return s.state
}

// Addr returns the main listener address.
func (s *Server) Addr() string {
	return fmt.Sprintf("%s:%d", s.config.Server.Host, s.config.Server.Port)
}

// Start starts the HTTP listeners without blocking.
func (s *Server) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return fmt.Errorf("server is already running")
	}

	addr := s.Addr()
	s.logger.Info("Starting mock streaming server",
		zap.String("address", addr),
		zap.String("initial_condition", s.state.Current()),
	)

	s.running = true

	go func() {
		defer func() {
			s.mu.Lock()
			s.running = false
			s.mu.Unlock()
		}()

		if err := s.server.ListenAndServe(addr); err != nil {
			s.logger.Error("Server stopped with error", zap.Error(err))
		}
	}()

	if s.metricsSrv != nil {
		metricsAddr := fmt.Sprintf("%s:%d", s.config.Server.Host, s.config.Metrics.Port)
		s.logger.Info("Starting metrics listener",
			zap.String("address", metricsAddr),
			zap.String("path", s.config.Metrics.Path),
		)

		go func() {
			if err := s.metricsSrv.ListenAndServe(metricsAddr); err != nil {
				s.logger.Error("Metrics listener stopped with error", zap.Error(err))
			}
		}()
	}

	// Give the listeners a moment to bind
	time.Sleep(100 * time.Millisecond)
	return nil
}

// Stop stops the HTTP listeners gracefully.
func (s *Server) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		s.logger.Debug("Server is not running")
		return nil
	}

	s.logger.Info("Stopping mock streaming server...")

	if s.metricsSrv != nil {
		if err := s.metricsSrv.Shutdown(); err != nil {
			s.logger.Error("Failed to shut down metrics listener", zap.Error(err))
		}
	}

	if err := s.server.Shutdown(); err != nil {
		return fmt.Errorf("failed to shutdown server: %w", err)
	}

	s.running = false
	s.logger.Info("Server stopped")
	return nil
}

// IsRunning returns true if the server is currently running.
func (s *Server) IsRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

// metricsHandler adapts the Prometheus net/http handler onto the
// fasthttp metrics listener.
func metricsHandler(path string, collector *metrics.Metrics) fasthttp.RequestHandler {
	promHandler := fasthttpadaptor.NewFastHTTPHandler(collector.Handler())

	return func(ctx *fasthttp.RequestCtx) {
		if string(ctx.Path()) != path {
			ctx.SetStatusCode(fasthttp.StatusNotFound)
			return
		}
		promHandler(ctx)
	}
}
