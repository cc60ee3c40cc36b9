package config

// DefaultCatalog returns the built-in ordered list of scenarios used for
// dataset generation. Each entry represents a different network condition;
// together they span light to saturated camera deployments.
func DefaultCatalog() []Scenario {
	return []Scenario{
		// Low load scenarios
		{
			Name:       "low_load_small",
			NumCameras: 5,
			Workload:   Workload{Model: "yolov5s", FPS: 10},
			Bandwidth:  LinkPair{CamEdge: 20, EdgeCloud: 100},
			Delay:      DelayPair{CamEdge: "2ms", EdgeCloud: "10ms"},
			QueueSize:  QueuePair{CamEdge: 200, EdgeCloud: 1000},
		},
		{
			Name:       "low_load_medium",
			NumCameras: 10,
			Workload:   Workload{Model: "yolov5s", FPS: 15},
			Bandwidth:  LinkPair{CamEdge: 15, EdgeCloud: 80},
			Delay:      DelayPair{CamEdge: "3ms", EdgeCloud: "15ms"},
			QueueSize:  QueuePair{CamEdge: 250, EdgeCloud: 1200},
		},

		// Medium load scenarios
		{
			Name:       "medium_load_standard",
			NumCameras: 15,
			Workload:   Workload{Model: "yolov5m", FPS: 20},
			Bandwidth:  LinkPair{CamEdge: 10, EdgeCloud: 50},
			Delay:      DelayPair{CamEdge: "5ms", EdgeCloud: "25ms"},
			QueueSize:  QueuePair{CamEdge: 200, EdgeCloud: 1000},
		},
		{
			Name:       "medium_load_constrained",
			NumCameras: 12,
			Workload:   Workload{Model: "yolov5m", FPS: 25},
			Bandwidth:  LinkPair{CamEdge: 8, EdgeCloud: 40},
			Delay:      DelayPair{CamEdge: "7ms", EdgeCloud: "30ms"},
			QueueSize:  QueuePair{CamEdge: 150, EdgeCloud: 800},
		},

		// High load scenarios
		{
			Name:       "high_load_standard",
			NumCameras: 20,
			Workload:   Workload{Model: "yolov8x", FPS: 30},
			Bandwidth:  LinkPair{CamEdge: 5, EdgeCloud: 30},
			Delay:      DelayPair{CamEdge: "10ms", EdgeCloud: "50ms"},
			QueueSize:  QueuePair{CamEdge: 100, EdgeCloud: 500},
		},
		{
			Name:       "high_load_extreme",
			NumCameras: 25,
			Workload:   Workload{Model: "yolov8x", FPS: 30},
			Bandwidth:  LinkPair{CamEdge: 3, EdgeCloud: 20},
			Delay:      DelayPair{CamEdge: "15ms", EdgeCloud: "70ms"},
			QueueSize:  QueuePair{CamEdge: 80, EdgeCloud: 400},
		},

		// Edge cases
		{
			Name:       "asymmetric_low_bandwidth",
			NumCameras: 15,
			Workload:   Workload{Model: "yolov5m", FPS: 20},
			Bandwidth:  LinkPair{CamEdge: 5, EdgeCloud: 100},
			Delay:      DelayPair{CamEdge: "5ms", EdgeCloud: "10ms"},
			QueueSize:  QueuePair{CamEdge: 100, EdgeCloud: 2000},
		},
		{
			Name:       "high_latency_network",
			NumCameras: 10,
			Workload:   Workload{Model: "yolov5s", FPS: 15},
			Bandwidth:  LinkPair{CamEdge: 20, EdgeCloud: 50},
			Delay:      DelayPair{CamEdge: "20ms", EdgeCloud: "100ms"},
			QueueSize:  QueuePair{CamEdge: 300, EdgeCloud: 1500},
		},
		{
			Name:       "mixed_workload_light",
			NumCameras: 8,
			Workload:   Workload{Model: "yolov5s", FPS: 10},
			Bandwidth:  LinkPair{CamEdge: 12, EdgeCloud: 60},
			Delay:      DelayPair{CamEdge: "4ms", EdgeCloud: "20ms"},
			QueueSize:  QueuePair{CamEdge: 200, EdgeCloud: 1000},
		},
		{
			Name:       "mixed_workload_heavy",
			NumCameras: 18,
			Workload:   Workload{Model: "yolov8m", FPS: 25},
			Bandwidth:  LinkPair{CamEdge: 7, EdgeCloud: 35},
			Delay:      DelayPair{CamEdge: "8ms", EdgeCloud: "40ms"},
			QueueSize:  QueuePair{CamEdge: 120, EdgeCloud: 600},
		},

		// Balanced scenarios
		{
			Name:       "balanced_optimal",
			NumCameras: 15,
			Workload:   Workload{Model: "yolov5m", FPS: 20},
			Bandwidth:  LinkPair{CamEdge: 15, EdgeCloud: 75},
			Delay:      DelayPair{CamEdge: "3ms", EdgeCloud: "15ms"},
			QueueSize:  QueuePair{CamEdge: 300, EdgeCloud: 1500},
		},
		{
			Name:       "balanced_suboptimal",
			NumCameras: 15,
			Workload:   Workload{Model: "yolov5m", FPS: 20},
			Bandwidth:  LinkPair{CamEdge: 8, EdgeCloud: 40},
			Delay:      DelayPair{CamEdge: "10ms", EdgeCloud: "50ms"},
			QueueSize:  QueuePair{CamEdge: 150, EdgeCloud: 750},
		},

		// Variable camera counts
		{
			Name:       "few_cameras_high_quality",
			NumCameras: 3,
			Workload:   Workload{Model: "yolov8x", FPS: 30},
			Bandwidth:  LinkPair{CamEdge: 25, EdgeCloud: 100},
			Delay:      DelayPair{CamEdge: "2ms", EdgeCloud: "10ms"},
			QueueSize:  QueuePair{CamEdge: 400, EdgeCloud: 2000},
		},
		{
			Name:       "many_cameras_low_quality",
			NumCameras: 30,
			Workload:   Workload{Model: "yolov5n", FPS: 10},
			Bandwidth:  LinkPair{CamEdge: 5, EdgeCloud: 25},
			Delay:      DelayPair{CamEdge: "15ms", EdgeCloud: "75ms"},
			QueueSize:  QueuePair{CamEdge: 80, EdgeCloud: 400},
		},

		// Different model complexities
		{
			Name:       "lightweight_model",
			NumCameras: 20,
			Workload:   Workload{Model: "yolov5n", FPS: 30},
			Bandwidth:  LinkPair{CamEdge: 10, EdgeCloud: 50},
			Delay:      DelayPair{CamEdge: "5ms", EdgeCloud: "25ms"},
			QueueSize:  QueuePair{CamEdge: 200, EdgeCloud: 1000},
		},
		{
			Name:       "heavyweight_model",
			NumCameras: 8,
			Workload:   Workload{Model: "yolov8x", FPS: 15},
			Bandwidth:  LinkPair{CamEdge: 15, EdgeCloud: 75},
			Delay:      DelayPair{CamEdge: "5ms", EdgeCloud: "25ms"},
			QueueSize:  QueuePair{CamEdge: 250, EdgeCloud: 1250},
		},
	}
}

// ModelComplexity maps CV model names to their complexity parameters,
// used for GPU utilization calculation. Models absent from this table
// contribute zero GFLOPs.
var ModelComplexity = map[string]ModelInfo{
	"yolov5n": {GFLOPs: 4.5, Params: 1.9e6},
	"yolov5s": {GFLOPs: 16.5, Params: 7.2e6},
	"yolov5m": {GFLOPs: 49.0, Params: 21.2e6},
	"yolov8m": {GFLOPs: 78.9, Params: 25.9e6},
	"yolov8x": {GFLOPs: 257.8, Params: 68.2e6},
}

// HardwareSpecs maps node types to normalized hardware capacity
var HardwareSpecs = map[string]NodeSpec{
	"camera": {CPU: 0.1, GPU: 0.0},
	"edge":   {CPU: 0.8, GPU: 1.0},
	"cloud":  {CPU: 1.0, GPU: 4.0},
}

// QoS thresholds for labeling
const (
	MaxLatencyMs      = 100.0
	MinThroughputMbps = 2.0
	MaxPacketLossPct  = 5.0

	// EdgeGPUCapacityGFLOPS is the assumed sustained compute of the edge GPU
	EdgeGPUCapacityGFLOPS = 500.0
)
