package netsim

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func newTestSimulator(t *testing.T, condition string) *Simulator {
	t.Helper()
	state, err := NewState(condition, zaptest.NewLogger(t))
	require.NoError(t, err)

	sim := NewSimulator(state, nil, 1, zaptest.NewLogger(t))
	sim.sleep = func(time.Duration) {}
	return sim
}

func TestApplyNormalNeverFails(t *testing.T) {
	sim := newTestSimulator(t, "normal")

	for i := 0; i < 1000; i++ {
		outcome := sim.Apply(CategorySegment)
		require.False(t, outcome.Failed)
	}

	requests, failures := sim.Stats()
	assert.Equal(t, int64(1000), requests)
	assert.Equal(t, int64(0), failures)
}

func TestApplyPoorFailureRateConvergesToPacketLoss(t *testing.T) {
	tests := []struct {
		condition string
	}{
		{condition: "poor"},
		{condition: "terrible"},
	}

	for _, tt := range tests {
		t.Run(tt.condition, func(t *testing.T) {
			sim := newTestSimulator(t, tt.condition)

			const n = 5000
			failed := 0
			for i := 0; i < n; i++ {
				if sim.Apply(CategorySegment).Failed {
					failed++
				}
			}

			rate := float64(failed) / float64(n)
			assert.InDelta(t, 0.15, rate, 0.03)
		})
	}
}

func TestApplyFailureStatusByCategory(t *testing.T) {
	tests := []struct {
		category EndpointCategory
		status   int
		message  string
	}{
		{CategoryManifest, 504, "Gateway Timeout"},
		{CategorySegment, 503, "Service Unavailable"},
		{CategoryHealth, 503, "Service Unavailable"},
		{CategoryMetrics, 503, "Service Unavailable"},
		{CategoryDefault, 503, "Service Unavailable"},
	}

	for _, tt := range tests {
		t.Run(string(tt.category), func(t *testing.T) {
			sim := newTestSimulator(t, "terrible")

			// Draw until the seeded sequence produces a failure.
			var outcome Outcome
			for i := 0; i < 1000; i++ {
				outcome = sim.Apply(tt.category)
				if outcome.Failed {
					break
				}
			}

			require.True(t, outcome.Failed)
			assert.Equal(t, tt.status, outcome.StatusCode)
			assert.Equal(t, tt.message, outcome.Message)
		})
	}
}

func TestApplyDelayWithinJitterBounds(t *testing.T) {
	sim := newTestSimulator(t, "poor")

	var delays []time.Duration
	sim.sleep = func(d time.Duration) { delays = append(delays, d) }

	for i := 0; i < 500; i++ {
		sim.Apply(CategoryHealth)
	}

	require.NotEmpty(t, delays)
	for _, d := range delays {
		// poor: 200ms base, 50ms jitter
		assert.GreaterOrEqual(t, d, 150*time.Millisecond)
		assert.LessOrEqual(t, d, 250*time.Millisecond)
	}
}

func TestSimulatedDelayClampedToZero(t *testing.T) {
	c := Condition{LatencyMs: 10, JitterMs: 50}

	// jitterDraw 0 maps to the most negative jitter, -50ms.
	assert.Equal(t, time.Duration(0), simulatedDelay(c, 0))

	// jitterDraw 1 maps to +50ms.
	assert.Equal(t, 60*time.Millisecond, simulatedDelay(c, 1))

	// Midpoint has no jitter at all.
	assert.Equal(t, 10*time.Millisecond, simulatedDelay(c, 0.5))
}

func TestApplySeededSequencesAreReproducible(t *testing.T) {
	run := func() []bool {
		sim := newTestSimulator(t, "poor")
		outcomes := make([]bool, 200)
		for i := range outcomes {
			outcomes[i] = sim.Apply(CategorySegment).Failed
		}
		return outcomes
	}

	assert.Equal(t, run(), run())
}

func TestApplyConcurrentRequests(t *testing.T) {
	sim := newTestSimulator(t, "terrible")

	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			outcome := sim.Apply(CategorySegment)
			if outcome.Failed {
				assert.Equal(t, 503, outcome.StatusCode)
			}
		}()
	}
	wg.Wait()

	requests, failures := sim.Stats()
	assert.Equal(t, int64(100), requests)
	assert.LessOrEqual(t, failures, requests)
}

type recordingObserver struct {
	mu       sync.Mutex
	delays   int
	failures int
}

func (o *recordingObserver) DelayInjected(EndpointCategory, time.Duration) {
	o.mu.Lock()
	o.delays++
	o.mu.Unlock()
}

func (o *recordingObserver) FailureInjected(EndpointCategory, int) {
	o.mu.Lock()
	o.failures++
	o.mu.Unlock()
}

func TestApplyNotifiesObserver(t *testing.T) {
	state, err := NewState("terrible", zaptest.NewLogger(t))
	require.NoError(t, err)

	obs := &recordingObserver{}
	sim := NewSimulator(state, obs, 1, zaptest.NewLogger(t))
	sim.sleep = func(time.Duration) {}

	const n = 500
	for i := 0; i < n; i++ {
		sim.Apply(CategoryManifest)
	}

	assert.Equal(t, n, obs.delays+obs.failures)
	assert.Greater(t, obs.failures, 0)
	assert.Greater(t, obs.delays, 0)
}

func BenchmarkApply(b *testing.B) {
	state, err := NewState("poor", zaptest.NewLogger(b))
	if err != nil {
		b.Fatal(err)
	}

	sim := NewSimulator(state, nil, 1, zaptest.NewLogger(b))
	sim.sleep = func(time.Duration) {}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = sim.Apply(CategorySegment)
	}
}
