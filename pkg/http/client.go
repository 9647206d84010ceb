package http

import (
	"fmt"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"
)

// MetricsRoundTripper is an http.RoundTripper that collects metrics. We
// hang it off the Discord session's HTTP client so outbound notification
// traffic shows up in the same place as everything else.
type MetricsRoundTripper struct {
	next    http.RoundTripper
	metrics *Metrics
	log     *logrus.Logger
	service string
}

// RoundTripperOption is a function that configures a MetricsRoundTripper.
type RoundTripperOption func(*MetricsRoundTripper)

// WithService sets the service name for the MetricsRoundTripper.
func WithService(service string) RoundTripperOption {
	return func(t *MetricsRoundTripper) {
		t.service = service
	}
}

// NewMetricsRoundTripper creates a new metrics-collecting round tripper.
func NewMetricsRoundTripper(next http.RoundTripper, metrics *Metrics, log *logrus.Logger, opts ...RoundTripperOption) *MetricsRoundTripper {
	if next == nil {
		next = http.DefaultTransport
	}

	t := &MetricsRoundTripper{
		next:    next,
		metrics: metrics,
		log:     log,
		service: "api", // Default service name
	}

	// Apply options
	for _, opt := range opts {
		opt(t)
	}

	return t
}

// RoundTrip implements the http.RoundTripper interface.
func (t *MetricsRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	startTime := time.Now()
	operation := req.URL.Path

	// Record the API request.
	t.metrics.RecordAPIRequest(t.service, operation)

	// Execute the request.
	resp, err := t.next.RoundTrip(req)

	// Record request duration.
	duration := time.Since(startTime).Seconds()
	t.metrics.ObserveAPIRequestDuration(t.service, operation, duration)

	// Handle errors.
	if err != nil {
		t.log.WithFields(logrus.Fields{
			"service":   t.service,
			"operation": operation,
			"error":     err,
			"url":       req.URL.String(),
			"method":    req.Method,
			"duration":  duration,
		}).Error("API request failed")

		t.metrics.RecordAPIError(t.service, operation, "network_error")

		return nil, err
	}

	// Check for HTTP errors.
	if resp.StatusCode >= 400 {
		errType := fmt.Sprintf("http_%d", resp.StatusCode)

		t.log.WithFields(logrus.Fields{
			"service":     t.service,
			"operation":   operation,
			"status_code": resp.StatusCode,
			"url":         req.URL.String(),
			"method":      req.Method,
			"duration":    duration,
		}).Error("API request returned error status")

		t.metrics.RecordAPIError(t.service, operation, errType)
	}

	return resp, nil
}
