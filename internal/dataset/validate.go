package dataset

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/exp/slices"

	"github.com/edgevision/camnet-dataset/pkg/logger"
)

// FileReport summarizes one dataset CSV
type FileReport struct {
	Name     string
	Present  bool
	Rows     int // data rows, header excluded
	Columns  int
	Category string
	Counts   map[string]int
}

// Report summarizes a generated dataset directory
type Report struct {
	Files           []FileReport
	QoSSatisfied    int
	QoSTotal        int
	SatisfactionPct float64
}

// datasetFiles maps each expected CSV to the column whose value
// distribution the report summarizes
var datasetFiles = []struct {
	name     string
	category string
}{
	{"nodes.csv", "node_type"},
	{"edges.csv", "link_type"},
	{"labels.csv", "qos_satisfied"},
}

// Validate inspects a dataset directory and reports per-file row and
// column counts plus category distributions. A missing file is
// reported, not an error; only unreadable or malformed CSVs fail.
func Validate(dir string) (*Report, error) {
	report := &Report{}

	for _, df := range datasetFiles {
		path := filepath.Join(dir, df.name)
		fr := FileReport{Name: df.name, Category: df.category}

		f, err := os.Open(path)
		if os.IsNotExist(err) {
			logger.Warn("dataset file missing", "file", df.name)
			report.Files = append(report.Files, fr)
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("failed to open %s: %w", path, err)
		}

		records, err := csv.NewReader(f).ReadAll()
		f.Close()
		if err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", path, err)
		}
		if len(records) == 0 {
			report.Files = append(report.Files, fr)
			continue
		}

		header := records[0]
		fr.Present = true
		fr.Rows = len(records) - 1
		fr.Columns = len(header)
		fr.Counts = countColumn(records, slices.Index(header, df.category))
		report.Files = append(report.Files, fr)

		logger.Info("validated dataset file", "file", df.name,
			"rows", fr.Rows, "columns", fr.Columns)

		if df.name == "labels.csv" {
			report.QoSTotal = fr.Rows
			report.QoSSatisfied = fr.Counts["1"]
		}
	}

	if report.QoSTotal > 0 {
		report.SatisfactionPct = float64(report.QoSSatisfied) / float64(report.QoSTotal) * 100
	}
	return report, nil
}

// countColumn tallies the values of one column across the data rows
func countColumn(records [][]string, col int) map[string]int {
	counts := make(map[string]int)
	if col < 0 {
		return counts
	}
	for _, row := range records[1:] {
		if col < len(row) {
			counts[row[col]]++
		}
	}
	return counts
}

// CategoryValues lists the distinct values of a file's category
// column in sorted order
func (fr *FileReport) CategoryValues() []string {
	values := make([]string, 0, len(fr.Counts))
	for v := range fr.Counts {
		values = append(values, v)
	}
	slices.Sort(values)
	return values
}
