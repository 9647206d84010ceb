package queue

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// RunRequest asks for one dataset file to be validated.
type RunRequest struct {
	// Dataset is the logical name of the export, derived from the file name.
	Dataset string
	// Path is the file to ingest.
	Path string
}

// Queuer defines the interface for queue operations.
type Queuer interface {
	Start(ctx context.Context)
	Stop(ctx context.Context)
}

// RunQueue is a concrete queue type for RunRequests.
type RunQueue struct {
	*Queue[*RunRequest]
}

// NewRunQueue creates a new validation run queue.
func NewRunQueue(log *logrus.Logger, worker func(context.Context, *RunRequest) (bool, error), metrics *Metrics) *RunQueue {
	return &RunQueue{
		Queue: NewQueue[*RunRequest](log, worker, metrics),
	}
}

// Queue is a generic queue for processing items.
type Queue[T any] struct {
	log        *logrus.Logger
	queue      chan T
	processing sync.Map
	worker     func(context.Context, T) (bool, error)
	metrics    *Metrics
}

// NewQueue creates a new queue.
func NewQueue[T any](log *logrus.Logger, worker func(context.Context, T) (bool, error), metrics *Metrics) *Queue[T] {
	return &Queue[T]{
		log:     log,
		queue:   make(chan T, 100),
		worker:  worker,
		metrics: metrics,
	}
}

// SetWorker sets the worker function for processing items.
func (q *Queue[T]) SetWorker(worker func(context.Context, T) (bool, error)) {
	q.worker = worker
}

func (q *Queue[T]) Start(ctx context.Context) {
	go q.processQueue(ctx)
}

// Stop stops the queue processor.
func (q *Queue[T]) Stop(ctx context.Context) {
	// The queue processor will stop when the context is cancelled.
	q.metrics.queueLength.Set(0)
}

// Enqueue adds an item unless the same item is already being processed.
// Watch events and scheduled re-scans can both see the same file; only one
// run per file is in flight at a time.
func (q *Queue[T]) Enqueue(item T) {
	if _, exists := q.processing.LoadOrStore(q.getItemKey(item), true); exists {
		q.metrics.skipsDueToLock.WithLabelValues(q.getItemDataset(item)).Inc()
		q.log.WithFields(logrus.Fields{
			"dataset": q.getItemDataset(item),
		}).Debug("Item already in progress, skipping")

		return
	}

	q.metrics.queuedTotal.WithLabelValues(q.getItemDataset(item)).Inc()
	q.metrics.queueLength.Inc()
	q.queue <- item
}

// processQueue processes the queue of items.
func (q *Queue[T]) processQueue(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case item := <-q.queue:
			start := time.Now()
			key := q.getItemKey(item)

			q.metrics.queueLength.Dec()

			success, err := q.worker(ctx, item)
			duration := time.Since(start).Seconds()

			q.metrics.processingTime.WithLabelValues(q.getItemDataset(item)).Observe(duration)

			if err != nil {
				q.metrics.failuresTotal.WithLabelValues(q.getItemDataset(item), "worker_error").Inc()
				q.log.WithError(err).Error("Failed to process item")
			}

			status := "success"
			if !success {
				status = "failed"
			}

			q.metrics.processedTotal.WithLabelValues(q.getItemDataset(item), status).Inc()

			q.processing.Delete(key)
		}
	}
}

// getItemKey returns a unique key for the item.
func (q *Queue[T]) getItemKey(item T) string {
	if req, ok := any(item).(*RunRequest); ok {
		return req.Path
	}

	return q.getItemDataset(item)
}

// getItemDataset returns the dataset for the item.
func (q *Queue[T]) getItemDataset(item T) string {
	if req, ok := any(item).(*RunRequest); ok {
		return req.Dataset
	}

	return "unknown"
}
