package queue

import "github.com/prometheus/client_golang/prometheus"

type Metrics struct {
	queuedTotal    *prometheus.CounterVec
	processedTotal *prometheus.CounterVec
	failuresTotal  *prometheus.CounterVec
	queueLength    prometheus.Gauge
	processingTime *prometheus.HistogramVec
	skipsDueToLock *prometheus.CounterVec
}

func NewMetrics(namespace string) *Metrics {
	m := &Metrics{
		queuedTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "queue",
			Name:      "runs_queued_total",
			Help:      "Total number of validation runs queued",
		}, []string{"dataset"}),

		processedTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "queue",
			Name:      "runs_processed_total",
			Help:      "Total number of validation runs processed",
		}, []string{"dataset", "status"}),

		failuresTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "queue",
			Name:      "runs_failures_total",
			Help:      "Total number of validation run failures",
		}, []string{"dataset", "error_type"}),

		queueLength: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "queue",
			Name:      "length_current",
			Help:      "Current number of runs in queue",
		}),

		processingTime: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "queue",
			Name:      "run_processing_duration_seconds",
			Help:      "Time taken to process validation runs",
			Buckets:   []float64{0.1, 0.5, 1, 5, 10, 30, 60},
		}, []string{"dataset"}),

		skipsDueToLock: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "queue",
			Name:      "runs_skipped_total",
			Help:      "Number of runs skipped due to lock",
		}, []string{"dataset"}),
	}

	prometheus.MustRegister(
		m.queuedTotal,
		m.processedTotal,
		m.failuresTotal,
		m.queueLength,
		m.processingTime,
		m.skipsDueToLock,
	)

	return m
}
