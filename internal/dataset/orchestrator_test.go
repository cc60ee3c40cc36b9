package dataset

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/edgevision/camnet-dataset/pkg/config"
)

const pingOutput = `PING 10.0.0.4 (10.0.0.4) 56(84) bytes of data.
64 bytes from 10.0.0.4: icmp_seq=1 ttl=64 time=4.21 ms

--- 10.0.0.4 ping statistics ---
3 packets transmitted, 3 received, 0% packet loss, time 2003ms
rtt min/avg/max/mdev = 4.105/4.210/4.355/0.104 ms
`

type fakeRunner struct {
	commands []string
	outputs  map[string]string
	failOn   string
}

func (f *fakeRunner) Run(_ context.Context, name string, args ...string) (string, error) {
	cmd := name + " " + strings.Join(args, " ")
	f.commands = append(f.commands, cmd)
	if f.failOn != "" && strings.Contains(cmd, f.failOn) {
		return "", fmt.Errorf("command failed: %s", cmd)
	}
	for substr, out := range f.outputs {
		if strings.Contains(cmd, substr) {
			return out, nil
		}
	}
	return "", nil
}

func testScenarios() []config.Scenario {
	return []config.Scenario{
		{
			Name:       "first",
			NumCameras: 2,
			Workload:   config.Workload{Model: "yolov5s", FPS: 30},
			Bandwidth:  config.LinkPair{CamEdge: 20, EdgeCloud: 100},
			Delay:      config.DelayPair{CamEdge: "2ms", EdgeCloud: "10ms"},
			QueueSize:  config.QueuePair{CamEdge: 200, EdgeCloud: 500},
		},
		{
			Name:       "second",
			NumCameras: 1,
			Workload:   config.Workload{Model: "yolov5n", FPS: 10},
			Bandwidth:  config.LinkPair{CamEdge: 10, EdgeCloud: 50},
			Delay:      config.DelayPair{CamEdge: "5ms", EdgeCloud: "20ms"},
			QueueSize:  config.QueuePair{CamEdge: 100, EdgeCloud: 200},
		},
	}
}

func quietOrchestrator(r *fakeRunner, dir string) *Orchestrator {
	o := NewOrchestrator(r, testScenarios(), dir)
	o.AutoConfirm = true
	o.SettleDelay = 0
	o.StartupDelay = 0
	o.PauseBetween = 0
	o.sleep = func(time.Duration) {}
	return o
}

func TestGenerateRunsAllScenarios(t *testing.T) {
	dir := t.TempDir()
	r := &fakeRunner{outputs: map[string]string{"ping -c": pingOutput}}

	stats, err := quietOrchestrator(r, dir).Generate(context.Background())
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	if stats.Total != 2 || stats.Successful != 2 || stats.Failed != 0 {
		t.Errorf("unexpected counters: %+v", stats)
	}
	for _, sc := range stats.Scenarios {
		if sc.Status != StatusSuccess {
			t.Errorf("scenario %s status = %s, want success", sc.Name, sc.Status)
		}
		if sc.StartedAtUnixMs == 0 || sc.EndedAtUnixMs == 0 {
			t.Errorf("scenario %s missing timestamps", sc.Name)
		}
	}

	for _, name := range []string{"nodes.csv", "edges.csv", "labels.csv", "generation_stats.json"} {
		if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
			t.Errorf("expected %s to exist: %v", name, err)
		}
	}

	data, err := os.ReadFile(filepath.Join(dir, "generation_stats.json"))
	if err != nil {
		t.Fatalf("failed to read stats: %v", err)
	}
	var persisted Stats
	if err := json.Unmarshal(data, &persisted); err != nil {
		t.Fatalf("stats file is not valid JSON: %v", err)
	}
	if persisted.RunID == "" || len(persisted.Scenarios) != 2 {
		t.Errorf("unexpected persisted stats: %+v", persisted)
	}
}

func TestGenerateContinuesAfterBuildFailure(t *testing.T) {
	dir := t.TempDir()
	r := &fakeRunner{failOn: "ovs-vsctl add-br"}

	stats, err := quietOrchestrator(r, dir).Generate(context.Background())
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	if stats.Failed != 2 || stats.Successful != 0 {
		t.Errorf("unexpected counters: %+v", stats)
	}
	for _, sc := range stats.Scenarios {
		if sc.Status != StatusFailed {
			t.Errorf("scenario %s status = %s, want failed", sc.Name, sc.Status)
		}
		if sc.Error == "" {
			t.Errorf("scenario %s has no recorded error", sc.Name)
		}
	}

	// summary is still written even when every scenario fails
	if _, err := os.Stat(filepath.Join(dir, "generation_stats.json")); err != nil {
		t.Errorf("expected stats file: %v", err)
	}
}

func TestGenerateDeclinedPrompt(t *testing.T) {
	dir := t.TempDir()
	r := &fakeRunner{}

	o := quietOrchestrator(r, dir)
	o.AutoConfirm = false
	o.Stdin = strings.NewReader("n\n")
	var out strings.Builder
	o.Stdout = &out

	if _, err := o.Generate(context.Background()); err != ErrAborted {
		t.Fatalf("expected ErrAborted, got %v", err)
	}
	if !strings.Contains(out.String(), "Continue? (y/n)") {
		t.Errorf("prompt not printed, got %q", out.String())
	}
	if len(r.commands) != 0 {
		t.Errorf("declined run should not touch the host, ran %v", r.commands)
	}
}

func TestStatsStoreTransitions(t *testing.T) {
	store := newStatsStore([]string{"a", "b"})

	store.SetStatus(0, StatusRunning, "")
	if store.stats.Scenarios[0].StartedAtUnixMs == 0 {
		t.Error("running should stamp start time")
	}

	store.SetStatus(0, StatusSuccess, "")
	store.SetStatus(1, StatusRunning, "")
	store.SetStatus(1, StatusFailed, "boom")

	stats := store.Finalize()
	if stats.Successful != 1 || stats.Failed != 1 {
		t.Errorf("unexpected counters: %+v", stats)
	}
	if stats.Scenarios[1].Error != "boom" {
		t.Errorf("error not recorded: %+v", stats.Scenarios[1])
	}
	if stats.TotalDurationSec < 0 {
		t.Errorf("negative duration: %v", stats.TotalDurationSec)
	}
}
