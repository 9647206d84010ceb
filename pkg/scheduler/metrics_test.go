package scheduler

import (
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetrics(t *testing.T) {
	// Reset the default registry to avoid conflicts
	prometheus.DefaultRegisterer = prometheus.NewRegistry()

	t.Run("metrics are registered successfully", func(t *testing.T) {
		prometheus.DefaultRegisterer = prometheus.NewRegistry()
		m := NewMetrics("test")
		assert.NotNil(t, m)

		expected := `
# HELP test_scheduler_active_jobs Current number of active jobs
# TYPE test_scheduler_active_jobs gauge
test_scheduler_active_jobs 0
`
		assert.NoError(t, testutil.CollectAndCompare(m.activeJobs, strings.NewReader(expected)))
	})

	t.Run("counter metrics increment correctly", func(t *testing.T) {
		prometheus.DefaultRegisterer = prometheus.NewRegistry()
		m := NewMetrics("test")

		m.jobsTotal.WithLabelValues("* * * * *").Inc()
		assert.Equal(t, float64(1), testutil.ToFloat64(m.jobsTotal.WithLabelValues("* * * * *")))

		m.jobExecutions.WithLabelValues("test_job", "* * * * *").Inc()
		assert.Equal(t, float64(1), testutil.ToFloat64(m.jobExecutions.WithLabelValues("test_job", "* * * * *")))

		m.jobFailures.WithLabelValues("test_job", "* * * * *").Inc()
		assert.Equal(t, float64(1), testutil.ToFloat64(m.jobFailures.WithLabelValues("test_job", "* * * * *")))
	})

	t.Run("gauge metrics update correctly", func(t *testing.T) {
		prometheus.DefaultRegisterer = prometheus.NewRegistry()
		m := NewMetrics("test")

		m.activeJobs.Set(3)
		assert.Equal(t, float64(3), testutil.ToFloat64(m.activeJobs))

		m.activeJobs.Dec()
		assert.Equal(t, float64(2), testutil.ToFloat64(m.activeJobs))
	})
}
