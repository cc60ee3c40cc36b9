package pipeline

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/graph/simple"
	"gonum.org/v1/gonum/mat"

	"github.com/edgevision/camnet-dataset/pkg/logger"
)

// feature columns taken from each window matrix
const (
	featureColStart = 2
	featureColEnd   = 8
)

// GraphBundle is one training sample: per-node features, labels and a
// self-loop edge index. Real topology is not reconstructed at this
// stage.
type GraphBundle struct {
	NumNodes  int         `json:"num_nodes"`
	X         [][]float64 `json:"x"`
	EdgeIndex [][2]int    `json:"edge_index"`
	Y         []float64   `json:"y"`
}

// BuildGraphBundle converts one window matrix into a graph sample:
// columns 2-7 become the feature matrix, the last column the label
// vector, and every node gets a self-loop. The window is held as a
// mat.Dense so the feature block and label vector come out as a
// column slice and a column extraction of the same matrix.
func BuildGraphBundle(rows [][]float64) (*GraphBundle, error) {
	if len(rows) == 0 {
		return nil, fmt.Errorf("empty window")
	}
	cols := len(rows[0])
	if cols < featureColEnd {
		return nil, fmt.Errorf("window has %d columns, need %d", cols, featureColEnd)
	}

	n := len(rows)
	flat := make([]float64, 0, n*cols)
	for _, row := range rows {
		if len(row) != cols {
			return nil, fmt.Errorf("ragged window: row has %d columns, want %d", len(row), cols)
		}
		flat = append(flat, row...)
	}
	window := mat.NewDense(n, cols, flat)

	featureBlock := window.Slice(0, n, featureColStart, featureColEnd)
	features := make([][]float64, n)
	for i := range features {
		features[i] = mat.Row(nil, i, featureBlock)
	}
	y := mat.Col(nil, cols-1, window)

	edges := make([][2]int, n)
	for i := range edges {
		edges[i] = [2]int{i, i}
	}

	return &GraphBundle{NumNodes: n, X: features, EdgeIndex: edges, Y: y}, nil
}

// BuildGraphs converts every .npy window under inDir into a
// <file>.graph.json bundle in outDir. Unreadable or malformed windows
// are logged and skipped.
func BuildGraphs(inDir, outDir string) (int, error) {
	entries, err := os.ReadDir(inDir)
	if err != nil {
		return 0, fmt.Errorf("failed to read slices directory: %w", err)
	}
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return 0, fmt.Errorf("failed to create output directory: %w", err)
	}

	count := 0
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".npy") {
			continue
		}
		rows, err := ReadNPY(filepath.Join(inDir, e.Name()))
		if err != nil {
			logger.Warn("skipping window", "file", e.Name(), "error", err)
			continue
		}
		bundle, err := BuildGraphBundle(rows)
		if err != nil {
			logger.Warn("skipping window", "file", e.Name(), "error", err)
			continue
		}

		data, err := json.Marshal(bundle)
		if err != nil {
			return count, fmt.Errorf("failed to encode bundle: %w", err)
		}
		out := filepath.Join(outDir, strings.TrimSuffix(e.Name(), ".npy")+".graph.json")
		if err := os.WriteFile(out, data, 0o644); err != nil {
			return count, fmt.Errorf("failed to write %s: %w", out, err)
		}
		count++
	}
	return count, nil
}

// DatasetNode is one node of the dataset-level topology graph
type DatasetNode struct {
	IDNum int64
	Name  string
	Type  string
	CPU   float64
	GPU   float64
}

func (n DatasetNode) ID() int64 { return n.IDNum }

// DatasetGraph is the directed topology graph assembled from the
// generated nodes.csv and edges.csv
type DatasetGraph struct {
	Graph *simple.DirectedGraph
	Nodes map[string]DatasetNode
}

// BuildDatasetGraph reads the emulator-side CSVs from dir and wires
// them into a directed graph, one node per distinct node_id and one
// arc per edge row.
func BuildDatasetGraph(dir string) (*DatasetGraph, error) {
	nodeRows, err := readCSVFile(filepath.Join(dir, "nodes.csv"))
	if err != nil {
		return nil, err
	}
	edgeRows, err := readCSVFile(filepath.Join(dir, "edges.csv"))
	if err != nil {
		return nil, err
	}

	g := &DatasetGraph{Graph: simple.NewDirectedGraph(), Nodes: make(map[string]DatasetNode)}
	next := int64(0)
	add := func(name, nodeType string, cpu, gpu float64) DatasetNode {
		if n, ok := g.Nodes[name]; ok {
			return n
		}
		n := DatasetNode{IDNum: next, Name: name, Type: nodeType, CPU: cpu, GPU: gpu}
		next++
		g.Nodes[name] = n
		g.Graph.AddNode(n)
		return n
	}

	for _, row := range nodeRows[1:] {
		if len(row) < 6 {
			continue
		}
		cpu, _ := strconv.ParseFloat(row[4], 64)
		gpu, _ := strconv.ParseFloat(row[5], 64)
		add(row[2], row[3], cpu, gpu)
	}
	for _, row := range edgeRows[1:] {
		if len(row) < 4 {
			continue
		}
		src := add(row[2], "switch", 0, 0)
		dst := add(row[3], "switch", 0, 0)
		if src.IDNum == dst.IDNum {
			continue
		}
		g.Graph.SetEdge(g.Graph.NewEdge(src, dst))
	}
	return g, nil
}

func readCSVFile(path string) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()
	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("%s: empty file", path)
	}
	return records, nil
}
