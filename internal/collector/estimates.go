package collector

import (
	"strings"

	"github.com/edgevision/camnet-dataset/pkg/config"
	"github.com/edgevision/camnet-dataset/pkg/utils"
)

// SimulateQueueOccupancy models average queue occupancy from the
// scenario load. Cameras queue lightly and vary by index; the edge
// aggregates all streams and queues proportionally to total FPS.
func SimulateQueueOccupancy(nodeType string, cfg config.Scenario, nodeIdx int) float64 {
	switch nodeType {
	case "camera":
		base := float64(10 + nodeIdx*2)
		loadFactor := float64(cfg.NumCameras) / 15.0
		return utils.MinFloat64(base*loadFactor, float64(cfg.QueueSize.CamEdge)*0.7)
	case "edge":
		loadFactor := float64(cfg.NumCameras*cfg.Workload.FPS) / 300.0
		return utils.MinFloat64(50*loadFactor, float64(cfg.QueueSize.CamEdge)*0.8)
	}
	return 0
}

// EstimateThroughput estimates per-link throughput from the video
// bitrate implied by the scenario. Typical HD surveillance streams run
// 1.5-4 Mbps depending on frame rate; the edge-cloud uplink carries the
// aggregate after compression.
func EstimateThroughput(cfg config.Scenario, linkType string) float64 {
	switch linkType {
	case "camera_edge":
		bitrate := 1.5 + (float64(cfg.Workload.FPS)/30.0)*2.5
		return utils.Round(bitrate, 2)
	case "edge_cloud":
		perStream := 1.5 + (float64(cfg.Workload.FPS)/30.0)*2.5
		return utils.Round(float64(cfg.NumCameras)*perStream*0.7, 2)
	}
	return 0.0
}

// CalculateGPUUtilization derives edge GPU utilization as the ratio of
// required GFLOPs per second to the assumed edge capacity, clamped to
// 100 percent.
func CalculateGPUUtilization(cfg config.Scenario, numCameras int) float64 {
	info, ok := config.ModelComplexity[cfg.Workload.Model]
	if !ok {
		return 0.0
	}
	totalGFLOPs := info.GFLOPs * float64(cfg.Workload.FPS) * float64(numCameras)
	utilization := (totalGFLOPs / config.EdgeGPUCapacityGFLOPS) * 100
	return utils.Round(utils.ClampFloat64(utilization, 0, 100), 2)
}

// DetermineQoSSatisfaction returns 1 when all three thresholds hold:
// latency at most 100 ms, throughput at least 2 Mbps, loss at most 5%.
func DetermineQoSSatisfaction(latencyMs, throughputMbps, packetLossPct float64) int {
	if latencyMs <= config.MaxLatencyMs &&
		throughputMbps >= config.MinThroughputMbps &&
		packetLossPct <= config.MaxPacketLossPct {
		return 1
	}
	return 0
}

// LinkType classifies a link by substring matching on its endpoint
// names, mirroring how the dataset consumers expect links labeled.
func LinkType(node1, node2 string) string {
	switch {
	case strings.Contains(node1, "cam") || strings.Contains(node2, "cam"):
		return "camera_edge"
	case strings.Contains(node1, "edge") && strings.Contains(node2, "s"):
		return "edge_switch"
	case strings.Contains(node1, "s") && strings.Contains(node2, "s"):
		return "switch_switch"
	default:
		return "edge_cloud"
	}
}
