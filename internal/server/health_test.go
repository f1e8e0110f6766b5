package server

import (
	"net/http"
	"testing"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLivenessCheck(t *testing.T) {
	_, app := newTestServer(t, nil)

	resp := doRequest(t, app, http.MethodGet, "/health/live", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body map[string]interface{}
	decodeBody(t, resp, &body)
	assert.Equal(t, "up", body["status"])
}

func TestReadinessCheck(t *testing.T) {
	t.Run("without redis", func(t *testing.T) {
		_, app := newTestServer(t, nil)

		resp := doRequest(t, app, http.MethodGet, "/health/ready", nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var body struct {
			Status string            `json:"status"`
			Checks map[string]string `json:"checks"`
		}
		decodeBody(t, resp, &body)
		assert.Equal(t, "healthy", body.Status)
		assert.Equal(t, "healthy", body.Checks["database"])
		assert.Equal(t, "disabled", body.Checks["redis"])
	})

	t.Run("redis down", func(t *testing.T) {
		rdb := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1", MaxRetries: -1})
		t.Cleanup(func() { _ = rdb.Close() })
		_, app := newTestServer(t, rdb)

		resp := doRequest(t, app, http.MethodGet, "/health/ready", nil)
		assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
	})
}

func TestMetricsEndpoint(t *testing.T) {
	_, app := newTestServer(t, nil)
	doRequest(t, app, http.MethodGet, "/users", nil)

	resp := doRequest(t, app, http.MethodGet, "/metrics", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, readBody(t, resp), "http_requests_total")
}

func TestResponsesCarryRequestAndTraceIDs(t *testing.T) {
	_, app := newTestServer(t, nil)

	resp := doRequest(t, app, http.MethodGet, "/users", nil)
	assert.NotEmpty(t, resp.Header.Get("X-Request-ID"))
	assert.NotEmpty(t, resp.Header.Get("X-Trace-ID"))
}
