package store

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

type Metrics struct {
	operationsTotal   *prometheus.CounterVec
	operationErrors   *prometheus.CounterVec
	operationDuration *prometheus.HistogramVec
	objectsTotal      *prometheus.GaugeVec
	objectSizeBytes   *prometheus.HistogramVec
}

func NewMetrics(namespace string) *Metrics {
	m := &Metrics{
		operationsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "store",
			Name:      "operations_total",
			Help:      "Total number of S3 operations performed",
		}, []string{"operation", "repository"}),

		operationErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "store",
			Name:      "operation_errors_total",
			Help:      "Total number of S3 operation errors",
		}, []string{"operation", "repository", "error_type"}),

		operationDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "store",
			Name:      "operation_duration_seconds",
			Help:      "Time taken to perform S3 operations",
			Buckets:   []float64{0.1, 0.5, 1, 2, 5, 10},
		}, []string{"operation", "repository"}),

		objectsTotal: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "store",
			Name:      "objects_total",
			Help:      "Total number of objects in storage",
		}, []string{"repository"}),

		objectSizeBytes: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "store",
			Name:      "object_size_bytes",
			Help:      "Size of objects in storage",
			Buckets:   []float64{1024, 10 * 1024, 100 * 1024, 1024 * 1024, 10 * 1024 * 1024},
		}, []string{"repository"}),
	}

	prometheus.MustRegister(
		m.operationsTotal,
		m.operationErrors,
		m.operationDuration,
		m.objectsTotal,
		m.objectSizeBytes,
	)

	return m
}

// trackDuration times an S3 operation, observing on the returned func.
func (b *BaseRepo) trackDuration(operation, repository string) func() {
	if b.metrics == nil {
		return func() {}
	}

	start := time.Now()

	return func() {
		b.metrics.operationDuration.WithLabelValues(operation, repository).Observe(time.Since(start).Seconds())
	}
}

// observeOperation records an S3 operation and, if it failed, the error.
func (b *BaseRepo) observeOperation(operation, repository string, err error) {
	if b.metrics == nil {
		return
	}

	b.metrics.operationsTotal.WithLabelValues(operation, repository).Inc()

	if err != nil {
		b.metrics.operationErrors.WithLabelValues(operation, repository, "s3_error").Inc()
	}
}

// setObjectsTotal records the object count observed by a List.
func (b *BaseRepo) setObjectsTotal(repository string, n int) {
	if b.metrics == nil {
		return
	}

	b.metrics.objectsTotal.WithLabelValues(repository).Set(float64(n))
}

// observeObjectSize records the size of a persisted or fetched object.
func (b *BaseRepo) observeObjectSize(repository string, size int) {
	if b.metrics == nil {
		return
	}

	b.metrics.objectSizeBytes.WithLabelValues(repository).Observe(float64(size))
}
