package pipeline

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"gonum.org/v1/gonum/stat"

	"github.com/edgevision/camnet-dataset/pkg/logger"
	"github.com/edgevision/camnet-dataset/pkg/utils"
)

// logColumns indexes the network_log.csv schema
var logColumns = []string{"time", "node_id", "throughput", "delay", "loss", "queue_size"}

// logTable holds one scenario's network log as typed columns
type logTable struct {
	time       []float64
	nodeID     []string
	throughput []float64
	delay      []float64
	loss       []float64
	queueSize  []float64
}

func readNetworkLog(path string) (*logTable, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	if len(records) < 2 {
		return nil, fmt.Errorf("%s: no data rows", path)
	}

	col := make(map[string]int, len(records[0]))
	for i, name := range records[0] {
		col[name] = i
	}
	for _, name := range logColumns {
		if _, ok := col[name]; !ok {
			return nil, fmt.Errorf("%s: missing column %s", path, name)
		}
	}

	t := &logTable{}
	for _, row := range records[1:] {
		t.time = append(t.time, parseFloatCol(row, col["time"]))
		t.nodeID = append(t.nodeID, row[col["node_id"]])
		t.throughput = append(t.throughput, parseFloatCol(row, col["throughput"]))
		t.delay = append(t.delay, parseFloatCol(row, col["delay"]))
		t.loss = append(t.loss, parseFloatCol(row, col["loss"]))
		t.queueSize = append(t.queueSize, parseFloatCol(row, col["queue_size"]))
	}
	return t, nil
}

func parseFloatCol(row []string, i int) float64 {
	if i >= len(row) {
		return 0
	}
	v, _ := strconv.ParseFloat(row[i], 64)
	return v
}

// duration is the latest sample time
func (t *logTable) duration() float64 {
	max := 0.0
	for _, v := range t.time {
		max = utils.MaxFloat64(max, v)
	}
	return max
}

func (t *logTable) distinctNodes() int {
	seen := make(map[string]bool)
	for _, id := range t.nodeID {
		seen[id] = true
	}
	return len(seen)
}

// peakCongestionTime finds the sample time with the highest mean queue
// size across nodes
func (t *logTable) peakCongestionTime() float64 {
	sums := make(map[float64]float64)
	counts := make(map[float64]float64)
	for i, ts := range t.time {
		sums[ts] += t.queueSize[i]
		counts[ts]++
	}
	peak, peakMean := 0.0, -1.0
	for ts, sum := range sums {
		if mean := sum / counts[ts]; mean > peakMean {
			peak, peakMean = ts, mean
		}
	}
	return peak
}

// Summarize renders the fixed-template text summary of one scenario's
// network log
func (t *logTable) Summarize(scenario string) string {
	return fmt.Sprintf(`
Scenario: %s
Duration: %.1fs
Nodes: %d
Avg Throughput: %.2f Mbps
Avg Delay: %.2f ms
Packet Loss: %.4f

Peak Congestion Time: %.1fs
`, scenario, t.duration(), t.distinctNodes(),
		stat.Mean(t.throughput, nil), stat.Mean(t.delay, nil),
		stat.Mean(t.loss, nil), t.peakCongestionTime())
}

// BuildRAGDocs writes one <scenario>.txt summary per raw scenario
// directory containing a network_log.csv. Unreadable logs are logged
// and skipped.
func BuildRAGDocs(rawDir, outDir string) (int, error) {
	entries, err := os.ReadDir(rawDir)
	if err != nil {
		return 0, fmt.Errorf("failed to read raw directory: %w", err)
	}
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return 0, fmt.Errorf("failed to create output directory: %w", err)
	}

	count := 0
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		table, err := readNetworkLog(filepath.Join(rawDir, e.Name(), "network_log.csv"))
		if err != nil {
			logger.Warn("skipping scenario", "scenario", e.Name(), "error", err)
			continue
		}
		out := filepath.Join(outDir, e.Name()+".txt")
		if err := os.WriteFile(out, []byte(table.Summarize(e.Name())), 0o644); err != nil {
			return count, fmt.Errorf("failed to write %s: %w", out, err)
		}
		logger.Info("summarized scenario", "scenario", e.Name())
		count++
	}
	return count, nil
}
