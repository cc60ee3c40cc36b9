package collector

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
)

// appendCSV appends rows to a CSV file, emitting the header only when
// the file does not exist yet. This is what makes collection cumulative
// across scenarios.
func appendCSV(path string, header []string, rows [][]string) error {
	_, statErr := os.Stat(path)
	writeHeader := os.IsNotExist(statErr)

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if writeHeader {
		if err := w.Write(header); err != nil {
			return fmt.Errorf("failed to write header to %s: %w", path, err)
		}
	}
	for _, row := range rows {
		if err := w.Write(row); err != nil {
			return fmt.Errorf("failed to write row to %s: %w", path, err)
		}
	}
	w.Flush()
	return w.Error()
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

func formatInt(v int) string {
	return strconv.Itoa(v)
}
