package ingest

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/sanops/fabric-watch/pkg/zoning"
)

// Header vocabulary of the zoning export format.
const (
	HeaderFabric    = "Fabric"
	HeaderAlias     = "Alias"
	HeaderMemberWWN = "Member WWN / D,P"
	HeaderLoggedIn  = "Logged In"
	HeaderVendor    = "Vendor"
	HeaderZoneName  = "Zone Name"
	HeaderPortIndex = "Port Index"
)

// requiredHeaders must all be present for a file to pass the pre-check.
var requiredHeaders = []string{HeaderFabric, HeaderAlias, HeaderMemberWWN, HeaderLoggedIn}

// Warning is a non-fatal issue encountered while reading a file. Warned
// rows still participate in validation.
type Warning struct {
	Row     int    `json:"row"`
	Message string `json:"message"`
}

// ParseResult holds the rows of a successfully pre-checked export along
// with any row-level warnings and the encoding the file arrived in.
type ParseResult struct {
	Rows     []zoning.RawRow `json:"rows"`
	Warnings []Warning       `json:"warnings,omitempty"`
	Encoding string          `json:"encoding"`
}

// Parse reads a zoning export and performs the structural pre-check. On
// success it returns the raw rows ready for the validator; on structural
// failure it returns a *StructureError carrying every problem found, so
// the caller can surface them all at once.
func Parse(data []byte) (*ParseResult, error) {
	decoded, encodingName, err := decodeText(data)
	if err != nil {
		return nil, fmt.Errorf("failed to decode file: %w", err)
	}

	reader := csv.NewReader(bytes.NewReader(decoded))
	// Column-count mismatches are padded/truncated below rather than
	// rejected outright.
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	headers, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, &StructureError{Problems: []string{"file is empty: no header row found"}}
		}

		return nil, fmt.Errorf("failed to read header row: %w", err)
	}

	index := make(map[string]int, len(headers))
	for i, h := range headers {
		index[strings.TrimSpace(h)] = i
	}

	var problems []string

	for _, required := range requiredHeaders {
		if _, ok := index[required]; !ok {
			problems = append(problems, fmt.Sprintf("missing required column %q", required))
		}
	}

	// Without the required columns there is no point reading further.
	if len(problems) > 0 {
		return nil, &StructureError{Problems: problems}
	}

	var (
		records  [][]string
		warnings []Warning
		rowNum   = 1 // The header is row 1.
	)

	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}

		rowNum++

		if err != nil {
			warnings = append(warnings, Warning{
				Row:     rowNum,
				Message: fmt.Sprintf("parse error, row skipped: %v", err),
			})

			continue
		}

		switch {
		case len(record) < len(headers):
			warnings = append(warnings, Warning{
				Row:     rowNum,
				Message: fmt.Sprintf("row has %d columns, expected %d; padding with empty values", len(record), len(headers)),
			})

			padded := make([]string, len(headers))
			copy(padded, record)
			record = padded
		case len(record) > len(headers):
			warnings = append(warnings, Warning{
				Row:     rowNum,
				Message: fmt.Sprintf("row has %d columns, expected %d; truncating extra columns", len(record), len(headers)),
			})

			record = record[:len(headers)]
		}

		records = append(records, record)

		fabric := zoning.ParseFabric(record[index[HeaderFabric]])
		if fabric != "" && !fabric.Recognized() {
			problems = append(problems, fmt.Sprintf("unrecognized fabric value %q on row %d", record[index[HeaderFabric]], rowNum))
		}
	}

	if len(records) == 0 {
		problems = append(problems, "file contains no data rows")
	}

	if len(problems) > 0 {
		return nil, &StructureError{Problems: problems}
	}

	field := func(record []string, header string) string {
		i, ok := index[header]
		if !ok {
			return ""
		}

		return strings.TrimSpace(record[i])
	}

	rows := make([]zoning.RawRow, 0, len(records))
	for _, record := range records {
		rows = append(rows, zoning.RawRow{
			Fabric:    zoning.ParseFabric(record[index[HeaderFabric]]),
			Alias:     field(record, HeaderAlias),
			MemberWWN: field(record, HeaderMemberWWN),
			LoggedIn:  strings.EqualFold(field(record, HeaderLoggedIn), "yes"),
			Vendor:    field(record, HeaderVendor),
			ZoneName:  field(record, HeaderZoneName),
			PortIndex: field(record, HeaderPortIndex),
		})
	}

	return &ParseResult{
		Rows:     rows,
		Warnings: warnings,
		Encoding: encodingName,
	}, nil
}
