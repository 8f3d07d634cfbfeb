package qc

import (
	"strconv"
	"time"

	"surveycli/internal/exporter"
)

// Finding is one violated check. Violations counts the offending rows or
// values; Sample holds a short, comma-joined excerpt of them.
type Finding struct {
	Table      string
	Column     string
	Check      string
	Violations int
	Sample     string
}

// Report is the outcome of a QC run. An empty Findings slice means every
// check passed.
type Report struct {
	GeneratedAt time.Time
	Findings    []Finding
}

// TableCounts returns the number of findings per table.
func (r Report) TableCounts() map[string]int {
	counts := make(map[string]int)
	for _, f := range r.Findings {
		counts[f.Table]++
	}
	return counts
}

// WriteCSV writes the findings table. A clean report produces a valid CSV
// with headers only.
func (r Report) WriteCSV(path string) error {
	headers := []string{"table", "column", "check", "violations", "sample"}
	records := make([][]string, 0, len(r.Findings))
	for _, f := range r.Findings {
		records = append(records, []string{
			f.Table, f.Column, f.Check, strconv.Itoa(f.Violations), f.Sample,
		})
	}
	return exporter.NewCSVWriter(nil).WriteSimpleCSV(path, headers, records)
}
