package api

import (
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"mockstream/pkg/config"
	"mockstream/pkg/netsim"
	"mockstream/pkg/streaming"
)

const serviceVersion = "1.0.0"

// Handlers serves the streaming, monitoring and control endpoints. All
// streaming and monitoring handlers run the impairment pipeline first;
// control handlers bypass it entirely so that tests can always steer
// the simulator, whatever condition is active.
type Handlers struct {
	state     *netsim.State
	simulator *netsim.Simulator
	streaming config.StreamingConfig
	collector Collector
	logger    *zap.Logger

	// gofakeit.Faker wraps a non-concurrent rand source.
	fakerMu sync.Mutex
	faker   *gofakeit.Faker
}

// NewHandlers creates the endpoint handlers. seed makes the viewer
// counts reproducible; 0 seeds from the current time.
func NewHandlers(state *netsim.State, simulator *netsim.Simulator, streamingCfg config.StreamingConfig, collector Collector, seed int64, logger *zap.Logger) *Handlers {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	return &Handlers{
		state:     state,
		simulator: simulator,
		streaming: streamingCfg,
		collector: collector,
		logger:    logger,
		faker:     gofakeit.New(seed),
	}
}

// Root serves the API documentation. Never impaired.
func (h *Handlers) Root(ctx *fasthttp.RequestCtx) error {
	doc := map[string]interface{}{
		"service":                   "Mock Streaming Server",
		"version":                   serviceVersion,
		"description":               "HLS streaming simulation with network condition controls",
		"current_network_condition": h.state.Current(),
		"endpoints": map[string]interface{}{
			"streaming": map[string]string{
				"GET /stream.m3u8":   "HLS manifest file",
				"GET /segment<N>.ts": "Video segment (N = 1-5)",
			},
			"monitoring": map[string]string{
				"GET /health":  "Health check with streaming metrics",
				"GET /metrics": "Detailed performance statistics",
			},
			"control": map[string]string{
				"PUT /control/network/<condition>": "Set network condition (normal|poor|terrible)",
				"GET /control/network/current":     "Get current network condition",
			},
		},
		"available_conditions": netsim.Names(),
	}

	return writeJSON(ctx, fasthttp.StatusOK, doc)
}

// Manifest serves the HLS playlist.
func (h *Handlers) Manifest(ctx *fasthttp.RequestCtx) error {
	if outcome := h.simulator.Apply(netsim.CategoryManifest); outcome.Failed {
		writeImpairment(ctx, outcome)
		return nil
	}

	playlist := streaming.BuildPlaylist(h.streaming.SegmentCount, h.streaming.SegmentDuration)

	ctx.SetStatusCode(fasthttp.StatusOK)
	ctx.SetContentType(streaming.ContentTypePlaylist)
	ctx.SetBodyString(playlist)

	h.logger.Debug("Manifest served", zap.Int("segments", h.streaming.SegmentCount))
	return nil
}

// Segment serves one placeholder video segment. Segment number
// validation precedes impairment simulation: a bad request is a bad
// request under any network condition.
func (h *Handlers) Segment(ctx *fasthttp.RequestCtx, segmentNum int) error {
	if segmentNum < 1 || segmentNum > h.streaming.SegmentCount {
		h.logger.Warn("Invalid segment number requested", zap.Int("segment", segmentNum))
		writePlainText(ctx, fasthttp.StatusBadRequest,
			fmt.Sprintf("Invalid segment number. Must be 1-%d.", h.streaming.SegmentCount))
		return nil
	}

	if outcome := h.simulator.Apply(netsim.CategorySegment); outcome.Failed {
		writeImpairment(ctx, outcome)
		return nil
	}

	ctx.SetStatusCode(fasthttp.StatusOK)
	ctx.SetContentType(streaming.ContentTypeSegment)
	ctx.SetBody(streaming.SegmentPayload())

	h.logger.Debug("Segment served", zap.Int("segment", segmentNum))
	return nil
}

// Health serves the health check with streaming metrics.
func (h *Handlers) Health(ctx *fasthttp.RequestCtx) error {
	if outcome := h.simulator.Apply(netsim.CategoryHealth); outcome.Failed {
		writeImpairment(ctx, outcome)
		return nil
	}

	health := map[string]interface{}{
		"status":            "streaming",
		"bitrate":           h.streaming.Bitrate,
		"viewers":           h.viewers(),
		"uptime_seconds":    h.state.Uptime(),
		"network_condition": h.state.Current(),
		"timestamp":         unixSeconds(time.Now()),
	}

	return writeJSON(ctx, fasthttp.StatusOK, health)
}

// Metrics serves the detailed performance statistics consumed by the
// streaming validator.
func (h *Handlers) Metrics(ctx *fasthttp.RequestCtx) error {
	if outcome := h.simulator.Apply(netsim.CategoryMetrics); outcome.Failed {
		writeImpairment(ctx, outcome)
		return nil
	}

	condition := h.state.Snapshot()
	now := time.Now()

	metrics := map[string]interface{}{
		"server": map[string]interface{}{
			"uptime_seconds": h.state.Uptime(),
			"start_time":     unixSeconds(h.state.StartTime()),
			"current_time":   unixSeconds(now),
		},
		"streaming": map[string]interface{}{
			"status":             "active",
			"bitrate":            h.streaming.Bitrate,
			"fps":                h.streaming.FPS,
			"viewers":            h.viewers(),
			"segments_available": h.streaming.SegmentCount,
		},
		"network": map[string]interface{}{
			"current_condition": condition.Name,
			"settings":          condition,
		},
		"performance": map[string]interface{}{
			"average_latency_ms": condition.LatencyMs,
			"jitter_ms":          condition.JitterMs,
			"packet_loss_rate":   condition.PacketLoss,
		},
	}

	return writeJSON(ctx, fasthttp.StatusOK, metrics)
}

// SetCondition switches the active network condition. Control
// endpoints never experience network effects.
func (h *Handlers) SetCondition(ctx *fasthttp.RequestCtx, name string) error {
	applied, err := h.state.Set(name)
	if err != nil {
		h.logger.Warn("Invalid network condition requested", zap.String("condition", name))
		return writeJSON(ctx, fasthttp.StatusBadRequest, map[string]interface{}{
			"error":            "Invalid network condition",
			"valid_conditions": netsim.Names(),
		})
	}

	if h.collector != nil {
		h.collector.ConditionChanged()
	}

	return writeJSON(ctx, fasthttp.StatusOK, map[string]interface{}{
		"applied":  name,
		"settings": applied,
	})
}

// CurrentCondition reports the active condition and its settings.
// Control endpoints never experience network effects.
func (h *Handlers) CurrentCondition(ctx *fasthttp.RequestCtx) error {
	condition := h.state.Snapshot()

	return writeJSON(ctx, fasthttp.StatusOK, map[string]interface{}{
		"current_condition": condition.Name,
		"settings":          condition,
	})
}

func (h *Handlers) viewers() int {
	h.fakerMu.Lock()
	defer h.fakerMu.Unlock()
	return h.faker.Number(h.streaming.MinViewers, h.streaming.MaxViewers)
}

// writeImpairment terminates the request with the simulated failure as
// a plain-text response; no further processing happens.
func writeImpairment(ctx *fasthttp.RequestCtx, outcome netsim.Outcome) {
	writePlainText(ctx, outcome.StatusCode, outcome.Message)
}

func writePlainText(ctx *fasthttp.RequestCtx, status int, body string) {
	ctx.SetStatusCode(status)
	ctx.SetContentType("text/plain; charset=utf-8")
	ctx.SetBodyString(body)
}

func writeJSON(ctx *fasthttp.RequestCtx, status int, payload interface{}) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	ctx.SetStatusCode(status)
	ctx.SetContentType("application/json")
	ctx.SetBody(data)
	return nil
}

// unixSeconds returns the time as fractional seconds since the epoch,
// matching the timestamp format callers already parse.
func unixSeconds(t time.Time) float64 {
	return float64(t.UnixNano()) / float64(time.Second)
}
