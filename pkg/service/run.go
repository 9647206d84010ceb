package service

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/sanops/fabric-watch/pkg/ingest"
	"github.com/sanops/fabric-watch/pkg/logger"
	"github.com/sanops/fabric-watch/pkg/notifier"
	"github.com/sanops/fabric-watch/pkg/report"
	"github.com/sanops/fabric-watch/pkg/store"
	"github.com/sanops/fabric-watch/pkg/validator"
)

// Runner executes the validation pipeline for a single export file:
// parse, validate, render, persist, notify. The repo and notifier are
// optional; a nil repo skips persistence and a nil notifier skips
// Discord.
type Runner struct {
	log            *logrus.Logger
	reportsRepo    *store.ReportsRepo
	notifier       notifier.Notifier
	discordChannel string
}

// RunOutcome is everything a single validation run produced.
type RunOutcome struct {
	Dataset  string
	RunID    string
	Results  []validator.Result
	Summary  validator.Summary
	Warnings []ingest.Warning
	Report   *report.Report
}

// NewRunner creates a new Runner.
func NewRunner(log *logrus.Logger, reportsRepo *store.ReportsRepo, n notifier.Notifier, discordChannel string) *Runner {
	return &Runner{
		log:            log,
		reportsRepo:    reportsRepo,
		notifier:       n,
		discordChannel: discordChannel,
	}
}

// DatasetFromPath derives the dataset name from an export file path.
func DatasetFromPath(path string) string {
	base := filepath.Base(path)

	return strings.TrimSuffix(base, filepath.Ext(base))
}

// RunFile validates the export at path end to end.
func (r *Runner) RunFile(ctx context.Context, path string) (*RunOutcome, error) {
	dataset := DatasetFromPath(path)
	runLog := logger.NewRunLogger(logger.GenerateRunID())
	runID := runLog.GetID()

	log := r.log.WithFields(logrus.Fields{
		"dataset": dataset,
		"runID":   runID,
	})

	log.WithField("path", path).Info("Starting validation run")
	runLog.Printf("Validation run %s for dataset %s (%s)", runID, dataset, path)

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read export file: %w", err)
	}

	parsed, err := ingest.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse export: %w", err)
	}

	runLog.Printf("Parsed %d rows (encoding %s, %d warnings)", len(parsed.Rows), parsed.Encoding, len(parsed.Warnings))

	for _, warning := range parsed.Warnings {
		runLog.Printf("Row %d: %s", warning.Row, warning.Message)
	}

	v := validator.New(parsed.Rows)
	results := v.Validate()
	summary := v.Summarize(results)

	runLog.Printf("Validated %d hosts: %d good, %d FabA-Bad, %d FabB-Bad, %d Both-Bad (%d%% good)",
		summary.TotalHosts, summary.Good, summary.FabABad, summary.FabBBad, summary.BothBad, summary.PercentageGood)
	runLog.Printf("Deduplicated %d of %d rows", summary.DuplicatesRemoved, summary.OriginalRows)

	rep := report.New(dataset, runID, results, summary)

	if r.reportsRepo != nil {
		if err := r.persistArtifacts(ctx, rep, runLog); err != nil {
			return nil, err
		}
	}

	if r.notifier != nil && r.discordChannel != "" {
		if err := r.notifier.SendRunResults(r.discordChannel, dataset, runID, results, summary); err != nil {
			// A failed notification should not fail the run; the artifacts
			// are already persisted.
			log.WithError(err).Error("Failed to send notification")
		}
	}

	log.WithFields(logrus.Fields{
		"hosts":          summary.TotalHosts,
		"percentageGood": summary.PercentageGood,
	}).Info("Validation run complete")

	return &RunOutcome{
		Dataset:  dataset,
		RunID:    runID,
		Results:  results,
		Summary:  summary,
		Warnings: parsed.Warnings,
		Report:   rep,
	}, nil
}

// persistArtifacts stores the JSON report, CSV report and run log.
func (r *Runner) persistArtifacts(ctx context.Context, rep *report.Report, runLog *logger.RunLogger) error {
	jsonContent, err := rep.RenderJSON()
	if err != nil {
		return fmt.Errorf("failed to render JSON report: %w", err)
	}

	csvContent, err := rep.RenderCSV()
	if err != nil {
		return fmt.Errorf("failed to render CSV report: %w", err)
	}

	now := time.Now()

	artifacts := []*store.RunArtifact{
		{Dataset: rep.Dataset, RunID: rep.RunID, Type: "json", CreatedAt: now, UpdatedAt: now, Content: jsonContent},
		{Dataset: rep.Dataset, RunID: rep.RunID, Type: "csv", CreatedAt: now, UpdatedAt: now, Content: csvContent},
	}

	for _, artifact := range artifacts {
		if err := r.reportsRepo.Persist(ctx, artifact); err != nil {
			return fmt.Errorf("failed to persist %s artifact: %w", artifact.Type, err)
		}

		runLog.Printf("Persisted %s artifact (%d bytes)", artifact.Type, len(artifact.Content))
	}

	// The log goes last so it covers the other persists.
	logArtifact := &store.RunArtifact{
		Dataset:   rep.Dataset,
		RunID:     rep.RunID,
		Type:      "log",
		CreatedAt: now,
		UpdatedAt: now,
		Content:   runLog.GetBuffer().Bytes(),
	}

	if err := r.reportsRepo.Persist(ctx, logArtifact); err != nil {
		return fmt.Errorf("failed to persist log artifact: %w", err)
	}

	return nil
}
