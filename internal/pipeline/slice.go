package pipeline

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/edgevision/camnet-dataset/pkg/logger"
)

// window parameters, in cumulative-time units
const (
	sliceWindow = 1.0
	sliceStride = 0.5
)

// labelEncoder maps the distinct strings of one column to indices in
// sorted order. Encoders are per file: indices from different files
// are not comparable.
type labelEncoder struct {
	classes map[string]float64
}

func newLabelEncoder(values []string) *labelEncoder {
	uniq := make(map[string]bool, len(values))
	for _, v := range values {
		uniq[v] = true
	}
	sorted := make([]string, 0, len(uniq))
	for v := range uniq {
		sorted = append(sorted, v)
	}
	sort.Strings(sorted)

	classes := make(map[string]float64, len(sorted))
	for i, v := range sorted {
		classes[v] = float64(i)
	}
	return &labelEncoder{classes: classes}
}

func (e *labelEncoder) Encode(v string) float64 { return e.classes[v] }

// nodeMatrix flattens the camera nodes of a parsed scenario into a
// numeric matrix. Columns: id, processing, model, frame_size,
// frame_interval, inference_delay, result_size, cumulative_time; the
// two string columns are label-encoded per file.
func nodeMatrix(nodes []CameraNode) [][]float64 {
	processing := make([]string, len(nodes))
	models := make([]string, len(nodes))
	for i, n := range nodes {
		processing[i] = n.Processing
		models[i] = n.Model
	}
	procEnc := newLabelEncoder(processing)
	modelEnc := newLabelEncoder(models)

	rows := make([][]float64, len(nodes))
	cumulative := 0.0
	for i, n := range nodes {
		cumulative += n.FrameInterval
		rows[i] = []float64{
			n.ID,
			procEnc.Encode(n.Processing),
			modelEnc.Encode(n.Model),
			n.FrameSize,
			n.FrameInterval,
			n.InferenceDelay,
			n.ResultSize,
			cumulative,
		}
	}
	return rows
}

// SliceFile windows one parsed scenario JSON into overlapping .npy
// slices named <file>_<start>.npy. Files without nodes are skipped.
// Returns the number of windows written.
func SliceFile(path, outDir string) (int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, fmt.Errorf("failed to read %s: %w", path, err)
	}
	var parsed ScenarioParse
	if err := json.Unmarshal(data, &parsed); err != nil {
		return 0, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	if len(parsed.Nodes) == 0 {
		return 0, nil
	}

	rows := nodeMatrix(parsed.Nodes)
	tmax := rows[len(rows)-1][len(rows[0])-1]
	name := filepath.Base(path)

	written := 0
	for start := 0.0; start < tmax; start += sliceStride {
		var window [][]float64
		for _, row := range rows {
			cum := row[len(row)-1]
			if cum >= start && cum < start+sliceWindow {
				window = append(window, row)
			}
		}
		if len(window) == 0 {
			continue
		}
		out := filepath.Join(outDir, fmt.Sprintf("%s_%.1f.npy", name, start))
		if err := WriteNPY(out, window); err != nil {
			return written, fmt.Errorf("failed to write %s: %w", out, err)
		}
		written++
	}
	return written, nil
}

// SliceAll windows every parsed .json under inDir into outDir
func SliceAll(inDir, outDir string) (int, error) {
	entries, err := os.ReadDir(inDir)
	if err != nil {
		return 0, fmt.Errorf("failed to read parsed directory: %w", err)
	}
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return 0, fmt.Errorf("failed to create output directory: %w", err)
	}

	total := 0
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".json") {
			continue
		}
		n, err := SliceFile(filepath.Join(inDir, e.Name()), outDir)
		if err != nil {
			logger.Warn("skipping file", "file", e.Name(), "error", err)
			continue
		}
		logger.Info("sliced file", "file", e.Name(), "windows", n)
		total += n
	}
	return total, nil
}
