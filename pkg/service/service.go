package service

import (
	"context"
	"fmt"
	nethttp "net/http"
	"path/filepath"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"github.com/sanops/fabric-watch/pkg/http"
	"github.com/sanops/fabric-watch/pkg/notifier"
	"github.com/sanops/fabric-watch/pkg/queue"
	"github.com/sanops/fabric-watch/pkg/scheduler"
	"github.com/sanops/fabric-watch/pkg/store"
	"github.com/sanops/fabric-watch/pkg/watcher"
)

// metricsNamespace prefixes every metric the service exports.
const metricsNamespace = "fabric_watch"

// rescanJobName identifies the periodic input-directory sweep.
const rescanJobName = "rescan-input-dir"

// Service runs the validation pipeline continuously: a directory watcher
// and a cron re-scan both feed the run queue, and each dequeued file goes
// through the Runner.
type Service struct {
	config      *Config
	log         *logrus.Logger
	runner      *Runner
	watcher     *watcher.Watcher
	queue       *queue.RunQueue
	scheduler   *scheduler.Scheduler
	reportsRepo *store.ReportsRepo

	metricsSrv *nethttp.Server
	healthSrv  *nethttp.Server
}

// NewService creates a new Service from a validated config.
func NewService(ctx context.Context, log *logrus.Logger, cfg *Config) (*Service, error) {
	storeMetrics := store.NewMetrics(metricsNamespace)
	schedulerMetrics := scheduler.NewMetrics(metricsNamespace)
	queueMetrics := queue.NewMetrics(metricsNamespace)

	reportsRepo, err := store.NewReportsRepo(ctx, log, cfg.AsS3Config(), storeMetrics)
	if err != nil {
		return nil, fmt.Errorf("failed to create reports repo: %w", err)
	}

	var notif notifier.Notifier

	if cfg.DiscordToken != "" {
		apiMetrics := http.NewMetrics(metricsNamespace)

		discordNotifier, err := notifier.NewDiscordNotifier(log, cfg.DiscordToken, apiMetrics)
		if err != nil {
			return nil, fmt.Errorf("failed to create notifier: %w", err)
		}

		notif = discordNotifier
	}

	runner := NewRunner(log, reportsRepo, notif, cfg.DiscordChannel)

	s := &Service{
		config:      cfg,
		log:         log,
		runner:      runner,
		reportsRepo: reportsRepo,
	}

	s.queue = queue.NewRunQueue(log, s.processRun, queueMetrics)

	s.watcher, err = watcher.NewWatcher(log, cfg.InputDir, cfg.Debounce, func(path string) {
		s.queue.Enqueue(&queue.RunRequest{
			Dataset: DatasetFromPath(path),
			Path:    path,
		})
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}

	s.scheduler = scheduler.NewScheduler(log, schedulerMetrics)

	if err := s.scheduler.AddJob(rescanJobName, cfg.Schedule, s.rescan); err != nil {
		return nil, fmt.Errorf("failed to schedule re-scan: %w", err)
	}

	return s, nil
}

// Start brings up the queue, watcher, scheduler and HTTP endpoints.
func (s *Service) Start(ctx context.Context) error {
	s.queue.Start(ctx)
	s.watcher.Start(ctx)
	s.scheduler.Start()

	s.startMetricsServer()
	s.startHealthServer()

	s.log.WithFields(logrus.Fields{
		"inputDir": s.config.InputDir,
		"schedule": s.config.Schedule,
	}).Info("Service started")

	// Pick up anything already sitting in the input directory.
	return s.rescan(ctx)
}

// Stop shuts the service down.
func (s *Service) Stop(ctx context.Context) {
	s.log.Info("Stopping service")

	s.scheduler.Stop()
	s.watcher.Stop()
	s.queue.Stop(ctx)

	shutdownCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	for _, srv := range []*nethttp.Server{s.metricsSrv, s.healthSrv} {
		if srv == nil {
			continue
		}

		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.log.WithError(err).Error("Failed to shut down HTTP server")
		}
	}
}

// processRun is the queue worker.
func (s *Service) processRun(ctx context.Context, req *queue.RunRequest) (bool, error) {
	if _, err := s.runner.RunFile(ctx, req.Path); err != nil {
		return false, err
	}

	return true, nil
}

// rescan enqueues every CSV currently in the input directory.
func (s *Service) rescan(context.Context) error {
	matches, err := filepath.Glob(filepath.Join(s.config.InputDir, "*.csv"))
	if err != nil {
		return fmt.Errorf("failed to scan input directory: %w", err)
	}

	s.log.WithField("files", len(matches)).Debug("Re-scanning input directory")

	for _, path := range matches {
		s.queue.Enqueue(&queue.RunRequest{
			Dataset: DatasetFromPath(path),
			Path:    path,
		})
	}

	return nil
}

func (s *Service) startMetricsServer() {
	mux := nethttp.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	s.metricsSrv = &nethttp.Server{
		Addr:              s.config.MetricsAddress,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		if err := s.metricsSrv.ListenAndServe(); err != nil && err != nethttp.ErrServerClosed {
			s.log.WithError(err).Error("Metrics server failed")
		}
	}()
}

func (s *Service) startHealthServer() {
	mux := nethttp.NewServeMux()
	mux.HandleFunc("/healthz", func(w nethttp.ResponseWriter, _ *nethttp.Request) {
		w.WriteHeader(nethttp.StatusOK)

		if _, err := w.Write([]byte("OK")); err != nil {
			s.log.WithError(err).Error("Failed to write health response")
		}
	})

	s.healthSrv = &nethttp.Server{
		Addr:              s.config.HealthCheckAddress,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		if err := s.healthSrv.ListenAndServe(); err != nil && err != nethttp.ErrServerClosed {
			s.log.WithError(err).Error("Health server failed")
		}
	}()
}
