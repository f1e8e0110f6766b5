package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"blogapi/internal/observability"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func recordSpans(t *testing.T) *tracetest.SpanRecorder {
	t.Helper()
	rec := tracetest.NewSpanRecorder()
	prev := observability.Tracer
	observability.Tracer = sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(rec)).Tracer("test")
	t.Cleanup(func() { observability.Tracer = prev })
	return rec
}

func TestTracingMiddleware(t *testing.T) {
	rec := recordSpans(t)

	app := fiber.New()
	app.Use(TracingMiddleware())
	app.Get("/posts/:id", func(c *fiber.Ctx) error {
		return c.SendString(c.Locals("traceID").(string))
	})
	app.Delete("/posts/:id", func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusInternalServerError)
	})
	app.Get("/health/live", func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusOK) })

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/posts/7", nil))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	traceID := resp.Header.Get("X-Trace-ID")
	assert.Len(t, traceID, 32)

	_, err = app.Test(httptest.NewRequest(http.MethodDelete, "/posts/7", nil))
	require.NoError(t, err)

	_, err = app.Test(httptest.NewRequest(http.MethodGet, "/health/live", nil))
	require.NoError(t, err)

	spans := rec.Ended()
	require.Len(t, spans, 2)

	assert.Equal(t, "GET /posts/:id", spans[0].Name())
	assert.Equal(t, traceID, spans[0].SpanContext().TraceID().String())
	assert.Contains(t, spans[0].Attributes(), attribute.String("http.route", "/posts/:id"))
	assert.Contains(t, spans[0].Attributes(), attribute.Int("http.response.status_code", http.StatusOK))
	assert.Equal(t, codes.Unset, spans[0].Status().Code)

	assert.Equal(t, "DELETE /posts/:id", spans[1].Name())
	assert.Equal(t, codes.Error, spans[1].Status().Code)
}

func TestTracingMiddleware_ContinuesIncomingTrace(t *testing.T) {
	rec := recordSpans(t)
	prev := otel.GetTextMapPropagator()
	t.Cleanup(func() { otel.SetTextMapPropagator(prev) })
	otel.SetTextMapPropagator(propagation.TraceContext{})

	app := fiber.New()
	app.Use(TracingMiddleware())
	app.Get("/users", func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusOK) })

	req := httptest.NewRequest(http.MethodGet, "/users", nil)
	req.Header.Set("traceparent", "00-4bf92f3577b34da6a3ce929d0e0e4736-00f067aa0ba902b7-01")
	resp, err := app.Test(req)
	require.NoError(t, err)

	assert.Equal(t, "4bf92f3577b34da6a3ce929d0e0e4736", resp.Header.Get("X-Trace-ID"))
	require.Len(t, rec.Ended(), 1)
	assert.Equal(t, "00f067aa0ba902b7", rec.Ended()[0].Parent().SpanID().String())
}
