package http

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics(t *testing.T) {
	// Reset the default registry to avoid conflicts
	prometheus.DefaultRegisterer = prometheus.NewRegistry()

	t.Run("metrics are registered successfully", func(t *testing.T) {
		prometheus.DefaultRegisterer = prometheus.NewRegistry()
		m := NewMetrics("test")
		assert.NotNil(t, m)

		expected := `
# HELP test_api_request_duration_seconds Duration of API requests in seconds
# TYPE test_api_request_duration_seconds histogram
`
		assert.NoError(t, testutil.CollectAndCompare(m.apiRequestDuration, strings.NewReader(expected)))
	})

	t.Run("counter metrics increment correctly", func(t *testing.T) {
		prometheus.DefaultRegisterer = prometheus.NewRegistry()
		m := NewMetrics("test")

		m.RecordAPIRequest("discord", "send_message")
		assert.Equal(t, float64(1), testutil.ToFloat64(m.apiRequestsTotal.WithLabelValues("discord", "send_message")))

		m.RecordAPIError("discord", "send_message", "rate_limit_exceeded")
		assert.Equal(t, float64(1), testutil.ToFloat64(m.apiRequestsErrors.WithLabelValues("discord", "send_message", "rate_limit_exceeded")))
	})
}

func TestMetricsRoundTripper(t *testing.T) {
	t.Run("records successful requests", func(t *testing.T) {
		prometheus.DefaultRegisterer = prometheus.NewRegistry()
		m := NewMetrics("test")

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
		}))
		defer server.Close()

		client := &http.Client{
			Transport: NewMetricsRoundTripper(nil, m, logrus.New(), WithService("discord")),
		}

		resp, err := client.Get(server.URL + "/api/test")
		require.NoError(t, err)
		defer resp.Body.Close()

		assert.Equal(t, float64(1), testutil.ToFloat64(m.apiRequestsTotal.WithLabelValues("discord", "/api/test")))
	})

	t.Run("records http error statuses", func(t *testing.T) {
		prometheus.DefaultRegisterer = prometheus.NewRegistry()
		m := NewMetrics("test")

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusTooManyRequests)
		}))
		defer server.Close()

		client := &http.Client{
			Transport: NewMetricsRoundTripper(nil, m, logrus.New(), WithService("discord")),
		}

		resp, err := client.Get(server.URL + "/api/limited")
		require.NoError(t, err)
		defer resp.Body.Close()

		assert.Equal(t, float64(1), testutil.ToFloat64(m.apiRequestsErrors.WithLabelValues("discord", "/api/limited", "http_429")))
	})
}
