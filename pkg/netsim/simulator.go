package netsim

import (
	"math/rand"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
)

// EndpointCategory tags a request with the kind of endpoint being
// served. The category determines which status code a simulated packet
// loss produces.
type EndpointCategory string

const (
	CategoryManifest EndpointCategory = "manifest"
	CategorySegment  EndpointCategory = "segment"
	CategoryHealth   EndpointCategory = "health"
	CategoryMetrics  EndpointCategory = "metrics"
	CategoryDefault  EndpointCategory = "default"
)

// Outcome is the result of applying simulated network effects to a
// single request: either a pass (after the simulated delay has already
// been served) or a failure carrying the HTTP status to emit.
type Outcome struct {
	Failed     bool
	StatusCode int
	Message    string
	Delay      time.Duration
}

// Observer receives notifications about injected impairments. Used to
// feed the operational metrics registry; may be nil.
type Observer interface {
	DelayInjected(category EndpointCategory, delay time.Duration)
	FailureInjected(category EndpointCategory, statusCode int)
}

// Simulator applies packet loss and latency impairments to requests
// based on the current network condition. Packet loss and delay are
// independent random draws per request, matching simple network
// emulation models.
type Simulator struct {
	state    *State
	observer Observer
	logger   *zap.Logger

	// rand.Rand is not safe for concurrent use; draws are serialized
	// by rngMu. The critical section is two float draws, so contention
	// stays negligible.
	rngMu sync.Mutex
	rng   *rand.Rand

	// Injection point for tests; defaults to time.Sleep.
	sleep func(time.Duration)

	requestsTotal    int64
	failuresInjected int64
}

// NewSimulator creates a simulator bound to the given state. A zero
// seed derives one from the current time; any other value makes the
// draw sequence reproducible. observer may be nil.
func NewSimulator(state *State, observer Observer, seed int64, logger *zap.Logger) *Simulator {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	return &Simulator{
		state:    state,
		observer: observer,
		logger:   logger,
		rng:      rand.New(rand.NewSource(seed)),
		sleep:    time.Sleep,
	}
}

// Apply runs the impairment pipeline for one request. It snapshots the
// active condition (copy out under the state lock, then release),
// decides packet loss, and on success blocks the calling goroutine for
// the simulated delay. The lock is never held across the sleep;
// holding it there would serialize all concurrent traffic.
func (s *Simulator) Apply(category EndpointCategory) Outcome {
	atomic.AddInt64(&s.requestsTotal, 1)

	condition := s.state.Snapshot()

	s.rngMu.Lock()
	lossDraw := s.rng.Float64()
	jitterDraw := s.rng.Float64()
	s.rngMu.Unlock()

	if lossDraw < condition.PacketLoss {
		status, message := failureStatus(category)
		atomic.AddInt64(&s.failuresInjected, 1)

		s.logger.Warn("Packet loss simulated",
			zap.String("category", string(category)),
			zap.String("condition", condition.Name),
			zap.Int("status", status),
		)

		if s.observer != nil {
			s.observer.FailureInjected(category, status)
		}

		return Outcome{Failed: true, StatusCode: status, Message: message}
	}

	delay := simulatedDelay(condition, jitterDraw)
	if delay > 0 {
		s.sleep(delay)
	}

	s.logger.Debug("Request delayed",
		zap.String("category", string(category)),
		zap.String("condition", condition.Name),
		zap.Duration("delay", delay),
	)

	if s.observer != nil {
		s.observer.DelayInjected(category, delay)
	}

	return Outcome{Delay: delay}
}

// SetSleep overrides how simulated delays are served. Tests use this
// to assert on outcomes without waiting out real delays. A nil fn is
// ignored.
func (s *Simulator) SetSleep(fn func(time.Duration)) {
	if fn != nil {
		s.sleep = fn
	}
}

// Stats returns cumulative counters since construction.
func (s *Simulator) Stats() (requests, failures int64) {
	return atomic.LoadInt64(&s.requestsTotal), atomic.LoadInt64(&s.failuresInjected)
}

// failureStatus maps an endpoint category to the status emitted on
// simulated packet loss. Manifest fetches fail like an upstream
// timeout; everything else looks like an unavailable service.
func failureStatus(category EndpointCategory) (int, string) {
	if category == CategoryManifest {
		return 504, "Gateway Timeout"
	}
	return 503, "Service Unavailable"
}

// simulatedDelay computes base latency plus uniform jitter in
// [-jitter, +jitter), clamped to non-negative. jitterDraw is a uniform
// value in [0,1).
func simulatedDelay(c Condition, jitterDraw float64) time.Duration {
	jitterMs := (jitterDraw*2 - 1) * c.JitterMs
	delayMs := c.LatencyMs + jitterMs
	if delayMs < 0 {
		delayMs = 0
	}
	return time.Duration(delayMs * float64(time.Millisecond))
}
