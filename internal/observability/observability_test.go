package observability

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/civicdesk/grievance-service/internal/config"
	"github.com/civicdesk/grievance-service/internal/domain"
)

func TestNewLoggerFallsBackToInfo(t *testing.T) {
	logger, err := NewLogger(config.LoggerConfig{Level: "nonsense"})
	require.NoError(t, err)
	assert.True(t, logger.Core().Enabled(zap.InfoLevel))
	assert.False(t, logger.Core().Enabled(zap.DebugLevel))
}

func TestMetricsRecordTriage(t *testing.T) {
	m := NewMetrics()
	m.RecordTriage(domain.CategoryUtilities, domain.PriorityHigh)
	m.RecordTriage(domain.CategoryUtilities, domain.PriorityHigh)
	m.RecordMintRetry()

	assert.Equal(t, 2.0, testutil.ToFloat64(m.triageOutcome.WithLabelValues("Utilities", "High")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.mintRetries))

	var nilMetrics *Metrics
	assert.NotPanics(t, func() { nilMetrics.RecordMintRetry() })
}

func TestRequestLoggerEchoesRequestID(t *testing.T) {
	m := NewMetrics()
	app := fiber.New()
	app.Use(RequestLogger(zap.NewNop(), m))
	app.Get("/ping", func(c *fiber.Ctx) error {
		return c.SendString(RequestID(c))
	})

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set(HeaderRequestID, "abc-123")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, "abc-123", resp.Header.Get(HeaderRequestID))

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/ping", nil))
	require.NoError(t, err)
	assert.Len(t, resp.Header.Get(HeaderRequestID), 36)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.requests.WithLabelValues("/ping", "GET", "200")))

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.True(t, strings.Contains(rec.Body.String(), "grievance_http_requests_total"))
}
