package pipeline

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
)

func sliceScenario() *ScenarioParse {
	nodes := make([]CameraNode, 5)
	models := []string{"yolov5s", "yolov5n", "yolov5n", "yolov5s", "yolov5n"}
	for i := range nodes {
		nodes[i] = CameraNode{
			ID:             float64(i),
			Processing:     "camera",
			Model:          models[i],
			FrameSize:      1000,
			FrameInterval:  0.3,
			InferenceDelay: 0.05,
			ResultSize:     100,
		}
	}
	return &ScenarioParse{Scenario: "test", Nodes: nodes}
}

func TestNodeMatrixEncodesStrings(t *testing.T) {
	rows := nodeMatrix(sliceScenario().Nodes)
	if len(rows) != 5 || len(rows[0]) != 8 {
		t.Fatalf("unexpected matrix shape %dx%d", len(rows), len(rows[0]))
	}

	// single processing class encodes to 0; models sort yolov5n < yolov5s
	if rows[0][1] != 0 {
		t.Errorf("processing encoding = %v, want 0", rows[0][1])
	}
	if rows[0][2] != 1 || rows[1][2] != 0 {
		t.Errorf("model encodings = %v, %v, want 1, 0", rows[0][2], rows[1][2])
	}

	// cumulative time is the running sum of frame intervals
	if got := rows[2][7]; got < 0.89 || got > 0.91 {
		t.Errorf("cumulative time = %v, want 0.9", got)
	}
}

func TestSliceFileWindows(t *testing.T) {
	in := t.TempDir()
	out := t.TempDir()

	data, err := json.Marshal(sliceScenario())
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	path := filepath.Join(in, "scenario_0000.json")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write failed: %v", err)
	}

	n, err := SliceFile(path, out)
	if err != nil {
		t.Fatalf("SliceFile failed: %v", err)
	}
	// cumulative times 0.3..1.5 yield windows at 0.0, 0.5 and 1.0
	if n != 3 {
		t.Fatalf("windows = %d, want 3", n)
	}

	rows, err := ReadNPY(filepath.Join(out, "scenario_0000.json_0.0.npy"))
	if err != nil {
		t.Fatalf("ReadNPY failed: %v", err)
	}
	if len(rows) != 3 || len(rows[0]) != 8 {
		t.Errorf("first window shape %dx%d, want 3x8", len(rows), len(rows[0]))
	}

	rows, err = ReadNPY(filepath.Join(out, "scenario_0000.json_1.0.npy"))
	if err != nil {
		t.Fatalf("ReadNPY failed: %v", err)
	}
	if len(rows) != 2 {
		t.Errorf("last window rows = %d, want 2", len(rows))
	}
}

func TestSliceFileSkipsNodeless(t *testing.T) {
	in := t.TempDir()
	path := filepath.Join(in, "empty.json")
	if err := os.WriteFile(path, []byte(`{"scenario":"x","nodes":[],"flows":[]}`), 0o644); err != nil {
		t.Fatalf("write failed: %v", err)
	}

	n, err := SliceFile(path, t.TempDir())
	if err != nil {
		t.Fatalf("SliceFile failed: %v", err)
	}
	if n != 0 {
		t.Errorf("windows = %d, want 0 for nodeless file", n)
	}
}

func TestNPYRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "m.npy")
	want := [][]float64{
		{1, 2.5, -3},
		{0, 1e9, 0.0001},
	}
	if err := WriteNPY(path, want); err != nil {
		t.Fatalf("WriteNPY failed: %v", err)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read failed: %v", err)
	}
	if string(raw[:8]) != "\x93NUMPY\x01\x00" {
		t.Errorf("bad magic: %q", raw[:8])
	}
	// data section starts 64-byte aligned
	headerLen := int(raw[8]) | int(raw[9])<<8
	if (10+headerLen)%64 != 0 {
		t.Errorf("data offset %d not 64-byte aligned", 10+headerLen)
	}

	got, err := ReadNPY(path)
	if err != nil {
		t.Fatalf("ReadNPY failed: %v", err)
	}
	if len(got) != len(want) {
		t.Fatalf("rows = %d, want %d", len(got), len(want))
	}
	for i := range want {
		for j := range want[i] {
			if got[i][j] != want[i][j] {
				t.Errorf("got[%d][%d] = %v, want %v", i, j, got[i][j], want[i][j])
			}
		}
	}
}
