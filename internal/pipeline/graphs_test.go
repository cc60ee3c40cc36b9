package pipeline

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
)

func TestBuildGraphBundle(t *testing.T) {
	rows := [][]float64{
		{0, 0, 1, 1000, 0.3, 0.05, 100, 0.3},
		{1, 0, 0, 1000, 0.3, 0.05, 100, 0.6},
		{2, 0, 0, 1000, 0.3, 0.05, 100, 0.9},
	}

	bundle, err := BuildGraphBundle(rows)
	if err != nil {
		t.Fatalf("BuildGraphBundle failed: %v", err)
	}

	if bundle.NumNodes != 3 || len(bundle.X) != 3 || len(bundle.X[0]) != 6 {
		t.Errorf("unexpected feature shape: %+v", bundle)
	}
	// features are columns 2-7
	if bundle.X[0][0] != 1 || bundle.X[0][1] != 1000 || bundle.X[0][5] != 0.3 {
		t.Errorf("unexpected first feature row: %v", bundle.X[0])
	}
	// labels are the last column
	if bundle.Y[2] != 0.9 {
		t.Errorf("Y[2] = %v, want 0.9", bundle.Y[2])
	}
	// every node carries exactly a self-loop
	if len(bundle.EdgeIndex) != 3 {
		t.Fatalf("edges = %d, want 3", len(bundle.EdgeIndex))
	}
	for i, e := range bundle.EdgeIndex {
		if e[0] != i || e[1] != i {
			t.Errorf("edge %d = %v, want self-loop", i, e)
		}
	}

	if _, err := BuildGraphBundle([][]float64{{1, 2, 3}}); err == nil {
		t.Error("narrow window should be rejected")
	}
}

func TestBuildGraphsWritesBundles(t *testing.T) {
	in := t.TempDir()
	out := t.TempDir()

	rows := [][]float64{{0, 0, 1, 1000, 0.3, 0.05, 100, 0.3}}
	if err := WriteNPY(filepath.Join(in, "w_0.0.npy"), rows); err != nil {
		t.Fatalf("WriteNPY failed: %v", err)
	}
	// garbage file must be skipped, not fatal
	if err := os.WriteFile(filepath.Join(in, "broken.npy"), []byte("nope"), 0o644); err != nil {
		t.Fatalf("write failed: %v", err)
	}

	count, err := BuildGraphs(in, out)
	if err != nil {
		t.Fatalf("BuildGraphs failed: %v", err)
	}
	if count != 1 {
		t.Errorf("count = %d, want 1", count)
	}

	data, err := os.ReadFile(filepath.Join(out, "w_0.0.graph.json"))
	if err != nil {
		t.Fatalf("bundle missing: %v", err)
	}
	var bundle GraphBundle
	if err := json.Unmarshal(data, &bundle); err != nil {
		t.Fatalf("bundle is not valid JSON: %v", err)
	}
	if bundle.NumNodes != 1 {
		t.Errorf("NumNodes = %d, want 1", bundle.NumNodes)
	}
}

func TestBuildDatasetGraph(t *testing.T) {
	dir := t.TempDir()
	writeFile := func(name, content string) {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
			t.Fatalf("write %s failed: %v", name, err)
		}
	}
	writeFile("nodes.csv",
		"scenario_idx,scenario_name,node_id,node_type,cpu_capacity,gpu_capacity\n"+
			"0,first,cam1,camera,0.1,0\n"+
			"0,first,edge,edge,0.8,1\n"+
			"0,first,cloud,cloud,1,4\n")
	writeFile("edges.csv",
		"scenario_idx,scenario_name,src,dst\n"+
			"0,first,cam1,s1\n"+
			"0,first,s1,edge\n"+
			"0,first,s1,s2\n"+
			"0,first,s2,cloud\n")

	g, err := BuildDatasetGraph(dir)
	if err != nil {
		t.Fatalf("BuildDatasetGraph failed: %v", err)
	}

	// 3 CSV nodes plus the two switches discovered from edges
	if len(g.Nodes) != 5 {
		t.Errorf("nodes = %d, want 5", len(g.Nodes))
	}
	if g.Graph.Nodes().Len() != 5 {
		t.Errorf("graph nodes = %d, want 5", g.Graph.Nodes().Len())
	}
	if g.Graph.Edges().Len() != 4 {
		t.Errorf("graph edges = %d, want 4", g.Graph.Edges().Len())
	}

	cam := g.Nodes["cam1"]
	if cam.Type != "camera" || cam.CPU != 0.1 {
		t.Errorf("unexpected cam1 node: %+v", cam)
	}
	s1 := g.Nodes["s1"]
	if s1.Type != "switch" {
		t.Errorf("discovered node type = %s, want switch", s1.Type)
	}
	if !g.Graph.HasEdgeFromTo(g.Nodes["cam1"].ID(), g.Nodes["s1"].ID()) {
		t.Error("expected cam1->s1 arc")
	}
	if g.Graph.HasEdgeFromTo(g.Nodes["s1"].ID(), g.Nodes["cam1"].ID()) {
		t.Error("arcs must be directed")
	}
}
