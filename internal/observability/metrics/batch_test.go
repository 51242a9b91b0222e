package metrics_test

import (
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Cotizaciones-api/internal/application/billing"
	"github.com/jhoicas/Cotizaciones-api/internal/observability/metrics"
)

func TestBatchMetrics_ContadoresDelLote(t *testing.T) {
	m := metrics.NewBatchMetrics("test")

	m.RecordProcessed(true)
	m.RecordProcessed(true)
	m.RecordProcessed(false)
	m.ItemsDropped(billing.DropReasonCoercion, 2)
	m.ItemsDropped(billing.DropReasonTruncated, 0)
	m.RunFinished("partial")
	m.RenderObserved(150*time.Millisecond, nil)
	m.RenderObserved(time.Second, errors.New("boom"))

	expected := `
# HELP test_batch_records_total Registros procesados por resultado (ok | invalid).
# TYPE test_batch_records_total counter
test_batch_records_total{outcome="invalid"} 1
test_batch_records_total{outcome="ok"} 2
`
	require.NoError(t, testutil.GatherAndCompare(m.Registry(), strings.NewReader(expected), "test_batch_records_total"))

	n, err := testutil.GatherAndCount(m.Registry(), "test_batch_items_dropped_total")
	require.NoError(t, err)
	assert.Equal(t, 1, n, "un motivo con n=0 no crea serie")

	n, err = testutil.GatherAndCount(m.Registry(), "test_render_duration_seconds")
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestBatchMetrics_HandlerYMiddleware(t *testing.T) {
	m := metrics.NewBatchMetrics("test")

	app := fiber.New()
	app.Use(m.Middleware())
	app.Get("/api/runs/:id", func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusNoContent) })

	for _, id := range []string{"a", "b"} {
		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/runs/"+id, nil), -1)
		require.NoError(t, err)
		resp.Body.Close()
	}

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	body, _ := io.ReadAll(rec.Body)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, string(body), `test_http_requests_total{method="GET",path="/api/runs/:id",status="204"} 2`)
}
