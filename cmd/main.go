package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/sanops/fabric-watch/pkg/ingest"
	"github.com/sanops/fabric-watch/pkg/service"
)

func main() {
	log := logrus.New()

	rootCmd := &cobra.Command{
		Use:          "fabric-watch",
		Short:        "Fibre Channel zoning login validation tool",
		SilenceUsage: true,
	}

	rootCmd.AddCommand(newValidateCmd(log))
	rootCmd.AddCommand(newServeCmd(log))

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// newValidateCmd validates a single export file and exits.
func newValidateCmd(log *logrus.Logger) *cobra.Command {
	var (
		outputPath string
		asJSON     bool
	)

	cmd := &cobra.Command{
		Use:   "validate <file>",
		Short: "Validate a zoning export once and exit",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(cmd, log, args[0], outputPath, asJSON)
		},
	}

	cmd.Flags().StringVar(&outputPath, "output", "", "write the CSV report to this file")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the full report as JSON")

	return cmd
}

// newServeCmd runs the service until interrupted.
func newServeCmd(log *logrus.Logger) *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Watch a directory and validate exports continuously",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(log, configPath)
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "", "path to YAML config file")

	return cmd
}

func runValidate(cmd *cobra.Command, log *logrus.Logger, path, outputPath string, asJSON bool) error {
	runner := service.NewRunner(log, nil, nil, "")

	outcome, err := runner.RunFile(cmd.Context(), path)
	if err != nil {
		// Structural problems are surfaced individually, exactly as the
		// pre-check produced them.
		var structErr *ingest.StructureError
		if errors.As(err, &structErr) {
			for _, problem := range structErr.Problems {
				fmt.Fprintln(os.Stderr, problem)
			}
		}

		return err
	}

	for _, warning := range outcome.Warnings {
		fmt.Fprintf(os.Stderr, "warning: row %d: %s\n", warning.Row, warning.Message)
	}

	if asJSON {
		content, err := outcome.Report.RenderJSON()
		if err != nil {
			return fmt.Errorf("failed to render report: %w", err)
		}

		fmt.Println(string(content))
	} else {
		printSummary(outcome)
	}

	if outputPath != "" {
		content, err := outcome.Report.RenderCSV()
		if err != nil {
			return fmt.Errorf("failed to render report: %w", err)
		}

		if err := os.WriteFile(outputPath, content, 0o644); err != nil {
			return fmt.Errorf("failed to write report: %w", err)
		}

		log.WithField("path", outputPath).Info("Report written")
	}

	return nil
}

func printSummary(outcome *service.RunOutcome) {
	summary := outcome.Summary

	fmt.Printf("Dataset:            %s\n", outcome.Dataset)
	fmt.Printf("Run:                %s\n", outcome.RunID)
	fmt.Printf("Total hosts:        %d\n", summary.TotalHosts)
	fmt.Printf("Good:               %d\n", summary.Good)
	fmt.Printf("FabA-Bad:           %d\n", summary.FabABad)
	fmt.Printf("FabB-Bad:           %d\n", summary.FabBBad)
	fmt.Printf("Both-Bad:           %d\n", summary.BothBad)
	fmt.Printf("Percentage good:    %d%%\n", summary.PercentageGood)
	fmt.Printf("Rows:               %d (%d duplicates removed)\n", summary.OriginalRows, summary.DuplicatesRemoved)
}

func runServe(log *logrus.Logger, configPath string) error {
	cfg, err := service.LoadConfig(configPath)
	if err != nil {
		return err
	}

	if err := cfg.Validate(); err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	svc, err := service.NewService(ctx, log, cfg)
	if err != nil {
		return fmt.Errorf("failed to create service: %w", err)
	}

	if err := svc.Start(ctx); err != nil {
		return fmt.Errorf("failed to start service: %w", err)
	}

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig

	svc.Stop(ctx)

	return nil
}
