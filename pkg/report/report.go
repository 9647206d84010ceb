// Package report renders validation output into the formats handed to the
// presentation and export collaborators. The verdict and per-WWN login
// fields drive their styling; nothing here styles anything itself.
package report

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/sanops/fabric-watch/pkg/validator"
)

// csvHeader is the column layout of the exported report.
var csvHeader = []string{
	"Host",
	"Fab A Logged In",
	"Fab A Not Logged In",
	"Validation A",
	"Fab B Logged In",
	"Fab B Not Logged In",
	"Validation B",
	"Final Validation",
	"WWNs",
}

// Report is the persisted artifact of one validation run.
type Report struct {
	Dataset     string             `json:"dataset"`
	RunID       string             `json:"runId"`
	GeneratedAt time.Time          `json:"generatedAt"`
	Results     []validator.Result `json:"results"`
	Summary     validator.Summary  `json:"summary"`
}

// New creates a report for a finished run.
func New(dataset, runID string, results []validator.Result, summary validator.Summary) *Report {
	return &Report{
		Dataset:     dataset,
		RunID:       runID,
		GeneratedAt: time.Now().UTC(),
		Results:     results,
		Summary:     summary,
	}
}

// RenderJSON serializes the report for storage.
func (r *Report) RenderJSON() ([]byte, error) {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal report: %w", err)
	}

	return data, nil
}

// RenderCSV serializes the result table plus a trailing summary block into
// the downloadable export format.
func (r *Report) RenderCSV() ([]byte, error) {
	var buf bytes.Buffer

	w := csv.NewWriter(&buf)

	if err := w.Write(csvHeader); err != nil {
		return nil, fmt.Errorf("failed to write header: %w", err)
	}

	for _, res := range r.Results {
		record := []string{
			res.Host,
			strconv.Itoa(res.FabricA.LoggedIn),
			strconv.Itoa(res.FabricA.NotLoggedIn),
			string(res.VerdictA),
			strconv.Itoa(res.FabricB.LoggedIn),
			strconv.Itoa(res.FabricB.NotLoggedIn),
			string(res.VerdictB),
			string(res.Final),
			formatWWNs(res.WWNs),
		}

		if err := w.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write row for host %s: %w", res.Host, err)
		}
	}

	// Blank separator, then the summary block.
	summaryRows := [][]string{
		{},
		{"Total Hosts", strconv.Itoa(r.Summary.TotalHosts)},
		{"Good", strconv.Itoa(r.Summary.Good)},
		{"FabA-Bad", strconv.Itoa(r.Summary.FabABad)},
		{"FabB-Bad", strconv.Itoa(r.Summary.FabBBad)},
		{"Both-Bad", strconv.Itoa(r.Summary.BothBad)},
		{"Percentage Good", strconv.Itoa(r.Summary.PercentageGood) + "%"},
		{"Original Rows", strconv.Itoa(r.Summary.OriginalRows)},
		{"Duplicates Removed", strconv.Itoa(r.Summary.DuplicatesRemoved)},
		{"Unique Rows", strconv.Itoa(r.Summary.UniqueRows)},
	}

	for _, record := range summaryRows {
		if err := w.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write summary: %w", err)
		}
	}

	w.Flush()

	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("failed to flush csv: %w", err)
	}

	return buf.Bytes(), nil
}

// formatWWNs joins the WWN observations of a host into a single cell.
func formatWWNs(wwns []validator.WWNEntry) string {
	parts := make([]string, 0, len(wwns))

	for _, e := range wwns {
		state := "logged out"
		if e.LoggedIn {
			state = "logged in"
		}

		parts = append(parts, fmt.Sprintf("%s (%s, %s)", e.WWN, e.Fabric, state))
	}

	return strings.Join(parts, "; ")
}
