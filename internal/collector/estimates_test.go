package collector

import (
	"testing"

	"github.com/edgevision/camnet-dataset/pkg/config"
)

func scenario(cameras, fps int, model string) config.Scenario {
	return config.Scenario{
		Name:       "test",
		NumCameras: cameras,
		Workload:   config.Workload{Model: model, FPS: fps},
		Bandwidth:  config.LinkPair{CamEdge: 10, EdgeCloud: 50},
		Delay:      config.DelayPair{CamEdge: "5ms", EdgeCloud: "25ms"},
		QueueSize:  config.QueuePair{CamEdge: 200, EdgeCloud: 1000},
	}
}

func TestEstimateThroughputCameraEdge(t *testing.T) {
	// fps=30 gives exactly 1.5 + 1.0*2.5 = 4.0 Mbps
	if got := EstimateThroughput(scenario(5, 30, "yolov5s"), "camera_edge"); got != 4.0 {
		t.Errorf("expected 4.0 Mbps at 30 fps, got %f", got)
	}
	if got := EstimateThroughput(scenario(5, 10, "yolov5s"), "camera_edge"); got != 2.33 {
		t.Errorf("expected 2.33 Mbps at 10 fps, got %f", got)
	}
}

func TestEstimateThroughputEdgeCloud(t *testing.T) {
	// 10 cameras at 30 fps: 10 * 4.0 * 0.7 = 28.0
	if got := EstimateThroughput(scenario(10, 30, "yolov5s"), "edge_cloud"); got != 28.0 {
		t.Errorf("expected 28.0 Mbps aggregated, got %f", got)
	}
}

func TestEstimateThroughputUnknownLink(t *testing.T) {
	if got := EstimateThroughput(scenario(10, 30, "yolov5s"), "switch_switch"); got != 0.0 {
		t.Errorf("expected 0.0 for unestimated link type, got %f", got)
	}
}

func TestCalculateGPUUtilization(t *testing.T) {
	// yolov5m: 49 GFLOPs; 49*20*15/500*100 = 2940% clamped to 100
	if got := CalculateGPUUtilization(scenario(15, 20, "yolov5m"), 15); got != 100 {
		t.Errorf("expected clamped 100%%, got %f", got)
	}
	// yolov5n: 4.5 GFLOPs; 4.5*10*3/500*100 = 27%
	if got := CalculateGPUUtilization(scenario(3, 10, "yolov5n"), 3); got != 27.0 {
		t.Errorf("expected 27%%, got %f", got)
	}
	// Unknown models silently contribute nothing
	if got := CalculateGPUUtilization(scenario(3, 10, "vgg16"), 3); got != 0.0 {
		t.Errorf("expected 0%% for unknown model, got %f", got)
	}
}

func TestDetermineQoSSatisfaction(t *testing.T) {
	tests := []struct {
		name       string
		latency    float64
		throughput float64
		loss       float64
		want       int
	}{
		{"All within thresholds", 50, 3, 1, 1},
		{"At thresholds", 100, 2, 5, 1},
		{"Latency too high", 100.1, 3, 1, 0},
		{"Throughput too low", 50, 1.9, 1, 0},
		{"Loss too high", 50, 3, 5.1, 0},
		{"Ping failure sentinel", 0, 3, 100, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DetermineQoSSatisfaction(tt.latency, tt.throughput, tt.loss); got != tt.want {
				t.Errorf("DetermineQoSSatisfaction(%f, %f, %f) = %d, want %d",
					tt.latency, tt.throughput, tt.loss, got, tt.want)
			}
		})
	}
}

func TestDetermineQoSMonotonic(t *testing.T) {
	// Crossing any single threshold flips satisfied to not-satisfied
	if DetermineQoSSatisfaction(99, 2.5, 4) != 1 {
		t.Fatal("baseline should be satisfied")
	}
	if DetermineQoSSatisfaction(101, 2.5, 4) != 0 {
		t.Error("latency crossing should flip the label")
	}
	if DetermineQoSSatisfaction(99, 1.5, 4) != 0 {
		t.Error("throughput crossing should flip the label")
	}
	if DetermineQoSSatisfaction(99, 2.5, 6) != 0 {
		t.Error("loss crossing should flip the label")
	}
}

func TestSimulateQueueOccupancy(t *testing.T) {
	cfg := scenario(15, 20, "yolov5m")

	// camera 0 at 15 cameras: base 10 * 15/15 = 10
	if got := SimulateQueueOccupancy("camera", cfg, 0); got != 10 {
		t.Errorf("expected 10, got %f", got)
	}
	// camera 5: base 20 * 1.0 = 20
	if got := SimulateQueueOccupancy("camera", cfg, 5); got != 20 {
		t.Errorf("expected 20, got %f", got)
	}
	// edge: 50 * (15*20/300) = 50
	if got := SimulateQueueOccupancy("edge", cfg, 0); got != 50 {
		t.Errorf("expected 50, got %f", got)
	}
	// cloud has no queueing model
	if got := SimulateQueueOccupancy("cloud", cfg, 0); got != 0 {
		t.Errorf("expected 0, got %f", got)
	}

	// Camera occupancy is capped at 70% of the queue size
	small := cfg
	small.QueueSize.CamEdge = 10
	if got := SimulateQueueOccupancy("camera", small, 20); got != 7 {
		t.Errorf("expected cap at 7, got %f", got)
	}
}

func TestLinkType(t *testing.T) {
	tests := []struct {
		node1, node2 string
		want         string
	}{
		{"cam1", "s1", "camera_edge"},
		{"s1", "cam3", "camera_edge"},
		{"edge", "s1", "edge_switch"},
		{"s1", "s2", "switch_switch"},
		{"s1", "edge", "edge_cloud"},
		{"s2", "cloud", "edge_cloud"},
	}

	for _, tt := range tests {
		if got := LinkType(tt.node1, tt.node2); got != tt.want {
			t.Errorf("LinkType(%q, %q) = %q, want %q", tt.node1, tt.node2, got, tt.want)
		}
	}
}
