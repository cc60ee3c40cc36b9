// Package collector measures a live deployment and appends the node,
// edge and label rows that make up the training dataset.
package collector

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/edgevision/camnet-dataset/internal/emu"
	"github.com/edgevision/camnet-dataset/internal/topology"
	"github.com/edgevision/camnet-dataset/pkg/config"
	"github.com/edgevision/camnet-dataset/pkg/logger"
)

// Pinger measures round-trip latency between two hosts. *emu.Network
// satisfies it; tests substitute canned results.
type Pinger interface {
	PingFull(ctx context.Context, src, dst *emu.Host, count int) (emu.PingResult, bool)
}

var nodeHeader = []string{
	"scenario_idx", "scenario_name", "node_id", "node_type",
	"cpu_capacity", "gpu_capacity", "cv_model", "fps",
	"queue_occupancy_avg", "model_gflops", "model_params",
}

var edgeHeader = []string{
	"scenario_idx", "scenario_name", "src", "dst",
	"bandwidth_mbps", "delay_ms", "queue_size",
	"queue_discipline", "link_type",
}

var labelHeader = []string{
	"scenario_idx", "scenario_name", "src_node", "dst_node",
	"e2e_latency_ms", "throughput_mbps", "packet_loss_pct",
	"gpu_utilization_pct", "qos_satisfied",
}

// Collector appends dataset rows for one or more scenarios into a
// fixed output directory.
type Collector struct {
	OutputDir string
	Pinger    Pinger
	PingCount int
}

// New creates a collector writing into outputDir
func New(outputDir string, pinger Pinger) *Collector {
	return &Collector{OutputDir: outputDir, Pinger: pinger, PingCount: 3}
}

// CollectAll gathers node features, link features and performance
// labels for one scenario run
func (c *Collector) CollectAll(ctx context.Context, dep *topology.Deployment, cfg config.Scenario, scenarioIdx int) error {
	if err := os.MkdirAll(c.OutputDir, 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	logger.Info("collecting node features", "scenario", cfg.Name)
	if err := c.CollectNodeFeatures(dep, cfg, scenarioIdx); err != nil {
		return err
	}

	logger.Info("collecting link features", "scenario", cfg.Name)
	if err := c.CollectLinkFeatures(dep, cfg, scenarioIdx); err != nil {
		return err
	}

	logger.Info("collecting performance labels", "scenario", cfg.Name)
	return c.CollectPerformanceLabels(ctx, dep, cfg, scenarioIdx)
}

// CollectNodeFeatures appends one row per node: identity, hardware
// capacity, assigned CV workload and simulated queue occupancy
func (c *Collector) CollectNodeFeatures(dep *topology.Deployment, cfg config.Scenario, scenarioIdx int) error {
	info := cfg.Complexity()
	camSpec := config.HardwareSpecs["camera"]
	edgeSpec := config.HardwareSpecs["edge"]
	cloudSpec := config.HardwareSpecs["cloud"]

	rows := make([][]string, 0, len(dep.Cameras)+2)
	for i, cam := range dep.Cameras {
		rows = append(rows, []string{
			formatInt(scenarioIdx),
			cfg.Name,
			cam.Name,
			"camera",
			formatFloat(camSpec.CPU),
			formatFloat(camSpec.GPU),
			cfg.Workload.Model,
			formatInt(cfg.Workload.FPS),
			formatFloat(SimulateQueueOccupancy("camera", cfg, i)),
			formatFloat(info.GFLOPs),
			formatFloat(info.Params),
		})
	}

	rows = append(rows, []string{
		formatInt(scenarioIdx),
		cfg.Name,
		dep.Edge.Name,
		"edge",
		formatFloat(edgeSpec.CPU),
		formatFloat(edgeSpec.GPU),
		cfg.Workload.Model,
		formatInt(cfg.Workload.FPS),
		formatFloat(SimulateQueueOccupancy("edge", cfg, 0)),
		formatFloat(info.GFLOPs),
		formatFloat(info.Params),
	})

	// Cloud stores; it performs no CV processing
	rows = append(rows, []string{
		formatInt(scenarioIdx),
		cfg.Name,
		dep.Cloud.Name,
		"cloud",
		formatFloat(cloudSpec.CPU),
		formatFloat(cloudSpec.GPU),
		"none",
		"0",
		"0",
		"0",
		"0",
	})

	return appendCSV(filepath.Join(c.OutputDir, "nodes.csv"), nodeHeader, rows)
}

// CollectLinkFeatures appends one row per topology link with its live
// shaping parameters
func (c *Collector) CollectLinkFeatures(dep *topology.Deployment, cfg config.Scenario, scenarioIdx int) error {
	links := dep.Net.Links()
	rows := make([][]string, 0, len(links))
	for _, link := range links {
		rows = append(rows, []string{
			formatInt(scenarioIdx),
			cfg.Name,
			link.Src,
			link.Dst,
			formatFloat(link.Bandwidth),
			formatFloat(config.ParseDelay(link.Delay)),
			formatInt(link.MaxQueueSize),
			"fifo",
			LinkType(link.Src, link.Dst),
		})
	}
	return appendCSV(filepath.Join(c.OutputDir, "edges.csv"), edgeHeader, rows)
}

// CollectPerformanceLabels appends one measured path row per camera
// (camera→edge) plus one for edge→cloud. A failed ping yields the
// sentinel pair latency=0, loss=100 rather than an error.
func (c *Collector) CollectPerformanceLabels(ctx context.Context, dep *topology.Deployment, cfg config.Scenario, scenarioIdx int) error {
	rows := make([][]string, 0, len(dep.Cameras)+1)

	gpuUtil := CalculateGPUUtilization(cfg, len(dep.Cameras))
	camThroughput := EstimateThroughput(cfg, "camera_edge")

	for _, cam := range dep.Cameras {
		latency, loss := c.measurePath(ctx, cam, dep.Edge)
		qos := DetermineQoSSatisfaction(latency, camThroughput, loss)
		rows = append(rows, []string{
			formatInt(scenarioIdx),
			cfg.Name,
			cam.Name,
			dep.Edge.Name,
			formatFloat(latency),
			formatFloat(camThroughput),
			formatFloat(loss),
			formatFloat(gpuUtil),
			formatInt(qos),
		})
	}

	latency, loss := c.measurePath(ctx, dep.Edge, dep.Cloud)
	cloudThroughput := EstimateThroughput(cfg, "edge_cloud")
	qos := DetermineQoSSatisfaction(latency, cloudThroughput, loss)
	rows = append(rows, []string{
		formatInt(scenarioIdx),
		cfg.Name,
		dep.Edge.Name,
		dep.Cloud.Name,
		formatFloat(latency),
		formatFloat(cloudThroughput),
		formatFloat(loss),
		"0", // cloud stores, it does not process
		formatInt(qos),
	})

	return appendCSV(filepath.Join(c.OutputDir, "labels.csv"), labelHeader, rows)
}

// measurePath pings dst from src and derives latency and packet loss
func (c *Collector) measurePath(ctx context.Context, src, dst *emu.Host) (latencyMs, lossPct float64) {
	res, ok := c.Pinger.PingFull(ctx, src, dst, c.PingCount)
	if !ok || res.Sent == 0 {
		return 0.0, 100.0
	}
	loss := 0.0
	if res.Sent != res.Received {
		loss = float64(res.Sent-res.Received) / float64(res.Sent) * 100
	}
	return res.RTTAvg, loss
}
