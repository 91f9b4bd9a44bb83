package netsim

import (
	"sync"
	"time"

	"go.uber.org/zap"
)

// State holds the mutable server-wide simulation state: the current
// network condition name and the process start time. All access to the
// current condition goes through the internal mutex; the lock is never
// exposed and its critical sections cover only the map lookup and the
// assignment, never any sleep or I/O.
type State struct {
	mu        sync.Mutex
	current   string
	startTime time.Time

	logger *zap.Logger
}

// NewState creates simulation state starting at the given condition.
// An empty initial name falls back to "normal".
func NewState(initial string, logger *zap.Logger) (*State, error) {
	if initial == "" {
		initial = "normal"
	}
	if _, err := Lookup(initial); err != nil {
		return nil, err
	}

	return &State{
		current:   initial,
		startTime: time.Now(),
		logger:    logger,
	}, nil
}

// Current returns the name of the active network condition.
func (s *State) Current() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// Snapshot returns a copy of the active condition's settings. The copy
// is consistent but may be stale relative to a concurrent Set; each
// in-flight request uses the condition that was active when it began
// processing.
func (s *State) Snapshot() Condition {
	s.mu.Lock()
	name := s.current
	s.mu.Unlock()

	return conditions[name]
}

// Set validates name against the condition table and atomically
// replaces the stored condition. Invalid names leave the state
// unchanged and return ErrUnknownCondition. Two concurrent Set calls
// are linearized by the lock; the final state is whichever commits
// last.
func (s *State) Set(name string) (Condition, error) {
	c, err := Lookup(name)
	if err != nil {
		return Condition{}, err
	}

	s.mu.Lock()
	s.current = name
	s.mu.Unlock()

	s.logger.Info("Network condition changed",
		zap.String("condition", name),
		zap.Float64("packet_loss", c.PacketLoss),
		zap.Float64("latency_ms", c.LatencyMs),
		zap.Float64("jitter_ms", c.JitterMs),
	)

	return c, nil
}

// StartTime returns the process start time recorded at construction.
func (s *State) StartTime() time.Time {
	return s.startTime
}

// Uptime returns whole seconds elapsed since construction.
func (s *State) Uptime() int64 {
	return int64(time.Since(s.startTime).Seconds())
}
