package api

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/valyala/fasthttp"
	"go.uber.org/zap/zaptest"

	"mockstream/pkg/config"
)

func TestRequestIDMiddleware(t *testing.T) {
	handler := RequestID(true)(func(ctx *fasthttp.RequestCtx) {
		assert.NotNil(t, ctx.UserValue("request_id"))
	})

	ctx := &fasthttp.RequestCtx{}
	handler(ctx)

	assert.NotEmpty(t, ctx.Response.Header.Peek("X-Request-ID"))
}

func TestRequestIDMiddlewareDisabled(t *testing.T) {
	handler := RequestID(false)(func(ctx *fasthttp.RequestCtx) {})

	ctx := &fasthttp.RequestCtx{}
	handler(ctx)

	assert.Empty(t, ctx.Response.Header.Peek("X-Request-ID"))
}

func TestRecoveryMiddlewareProducesGeneric500(t *testing.T) {
	logger := zaptest.NewLogger(t)
	cfg := &config.RecoveryConfig{Enabled: true, LogStack: true}

	handler := Recovery(logger, cfg)(func(ctx *fasthttp.RequestCtx) {
		panic("boom")
	})

	ctx := &fasthttp.RequestCtx{}
	handler(ctx)

	require.Equal(t, 500, ctx.Response.StatusCode())
	body := string(ctx.Response.Body())
	assert.Contains(t, body, "Internal server error")
	assert.Contains(t, body, "An unexpected error occurred")
	assert.NotContains(t, body, "boom")
}

func TestCORSMiddlewareSetsHeaders(t *testing.T) {
	cfg := &config.CORSConfig{
		Enabled:      true,
		AllowOrigins: []string{"*"},
		AllowMethods: []string{"GET", "PUT"},
		AllowHeaders: []string{"Content-Type"},
	}

	handler := CORS(cfg)(func(ctx *fasthttp.RequestCtx) {
		ctx.SetStatusCode(200)
	})

	ctx := &fasthttp.RequestCtx{}
	ctx.Request.Header.Set("Origin", "http://example.com")
	handler(ctx)

	assert.Equal(t, "*", string(ctx.Response.Header.Peek("Access-Control-Allow-Origin")))
	assert.Equal(t, "GET, PUT", string(ctx.Response.Header.Peek("Access-Control-Allow-Methods")))
}

func TestCORSMiddlewarePreflight(t *testing.T) {
	cfg := &config.CORSConfig{Enabled: true, AllowOrigins: []string{"*"}}

	called := false
	handler := CORS(cfg)(func(ctx *fasthttp.RequestCtx) { called = true })

	ctx := &fasthttp.RequestCtx{}
	ctx.Request.Header.SetMethod("OPTIONS")
	ctx.Request.Header.Set("Origin", "http://example.com")
	handler(ctx)

	assert.False(t, called)
	assert.Equal(t, fasthttp.StatusNoContent, ctx.Response.StatusCode())
}

func TestRateLimitMiddleware(t *testing.T) {
	cfg := &config.RateLimitConfig{
		Enabled:           true,
		RequestsPerSecond: 1,
		Burst:             2,
	}

	handler := RateLimit(cfg)(func(ctx *fasthttp.RequestCtx) {
		ctx.SetStatusCode(200)
	})

	statuses := make([]int, 0, 4)
	for i := 0; i < 4; i++ {
		ctx := &fasthttp.RequestCtx{}
		handler(ctx)
		statuses = append(statuses, ctx.Response.StatusCode())
	}

	assert.Equal(t, 200, statuses[0])
	assert.Equal(t, 200, statuses[1])
	assert.Equal(t, 429, statuses[2])
	assert.Equal(t, 429, statuses[3])
}

type countingCollector struct {
	mu         sync.Mutex
	requests   int
	conditions int
}

func (c *countingCollector) ObserveRequest(method, path string, status int, d time.Duration) {
	c.mu.Lock()
	c.requests++
	c.mu.Unlock()
}

func (c *countingCollector) ConditionChanged() {
	c.mu.Lock()
	c.conditions++
	c.mu.Unlock()
}

func TestMetricsMiddlewareObservesRequests(t *testing.T) {
	collector := &countingCollector{}

	handler := Metrics(collector)(func(ctx *fasthttp.RequestCtx) {
		ctx.SetStatusCode(200)
	})

	for i := 0; i < 3; i++ {
		handler(&fasthttp.RequestCtx{})
	}

	assert.Equal(t, 3, collector.requests)
}

func TestStackAppliesInOrder(t *testing.T) {
	var order []string

	mk := func(name string) MiddlewareFunc {
		return func(next fasthttp.RequestHandler) fasthttp.RequestHandler {
			return func(ctx *fasthttp.RequestCtx) {
				order = append(order, name)
				next(ctx)
			}
		}
	}

	stack := NewStack(mk("first"))
	stack.Use(mk("second"))

	handler := stack.Apply(func(ctx *fasthttp.RequestCtx) {
		order = append(order, "handler")
	})
	handler(&fasthttp.RequestCtx{})

	assert.Equal(t, []string{"first", "second", "handler"}, order)
}
