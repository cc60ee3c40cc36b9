// Package traffic drives synthetic surveillance video streams across a
// deployment with iperf, plus low-level ICMP background noise.
package traffic

import (
	"context"
	"fmt"
	"time"

	"github.com/edgevision/camnet-dataset/internal/topology"
	"github.com/edgevision/camnet-dataset/pkg/config"
	"github.com/edgevision/camnet-dataset/pkg/logger"
	"github.com/edgevision/camnet-dataset/pkg/utils"
)

const (
	edgePort  = 5001
	cloudPort = 5002
)

// FlowStats holds the statistics parsed from one iperf client log
type FlowStats struct {
	BandwidthMbps float64 `json:"bandwidth_mbps"`
	JitterMs      float64 `json:"jitter_ms"`
	PacketLossPct float64 `json:"packet_loss_pct"`
}

// Stats aggregates traffic statistics for one generation run
type Stats struct {
	Cameras     map[string]FlowStats `json:"cameras"`
	EdgeToCloud FlowStats            `json:"edge_to_cloud"`
}

// Generator starts and reaps traffic flows on a live deployment
type Generator struct {
	// sleep is replaceable so tests run instantly
	sleep func(time.Duration)
}

// NewGenerator creates a traffic generator
func NewGenerator() *Generator {
	return &Generator{sleep: time.Sleep}
}

// BitrateMbps returns the per-camera video bitrate implied by the
// scenario frame rate. Typical HD surveillance runs 1.5-4 Mbps.
func BitrateMbps(cfg config.Scenario) float64 {
	return 1.5 + (float64(cfg.Workload.FPS)/30.0)*2.5
}

// GenerateVideoTraffic streams UDP from every camera to the edge and an
// aggregated compressed stream from the edge to the cloud, waits for
// the flows to finish, then collects and returns their statistics.
func (g *Generator) GenerateVideoTraffic(ctx context.Context, dep *topology.Deployment, cfg config.Scenario, duration int) (*Stats, error) {
	bitrate := BitrateMbps(cfg)
	logger.Info("starting traffic generation", "duration_s", duration, "bitrate_mbps", utils.Round(bitrate, 2))

	// Reap any servers left over from a previous run before starting
	dep.Edge.Cmd(ctx, "killall -9 iperf 2>/dev/null")
	dep.Cloud.Cmd(ctx, "killall -9 iperf 2>/dev/null")

	if _, err := dep.Edge.Cmd(ctx, fmt.Sprintf("iperf -s -u -p %d > /tmp/iperf_edge.log 2>&1 &", edgePort)); err != nil {
		return nil, fmt.Errorf("failed to start edge iperf server: %w", err)
	}
	if _, err := dep.Cloud.Cmd(ctx, fmt.Sprintf("iperf -s -u -p %d > /tmp/iperf_cloud.log 2>&1 &", cloudPort)); err != nil {
		return nil, fmt.Errorf("failed to start cloud iperf server: %w", err)
	}
	g.sleep(2 * time.Second)

	logger.Info("generating camera to edge traffic", "cameras", len(dep.Cameras))
	for i, cam := range dep.Cameras {
		// Stagger starts to mimic a staged real-world deployment
		if i > 0 && i%5 == 0 {
			g.sleep(500 * time.Millisecond)
		}
		cmd := fmt.Sprintf("iperf -c %s -u -b %gM -t %d -p %d > /tmp/iperf_%s.log 2>&1 &",
			dep.Edge.IP, bitrate, duration, edgePort, cam.Name)
		if _, err := cam.Cmd(ctx, cmd); err != nil {
			return nil, fmt.Errorf("failed to start traffic from %s: %w", cam.Name, err)
		}
	}

	// The uplink carries the aggregate after ~50% compression
	aggregated := bitrate * float64(len(dep.Cameras)) * 0.5
	logger.Info("generating edge to cloud traffic", "aggregated_mbps", utils.Round(aggregated, 1))
	cmd := fmt.Sprintf("iperf -c %s -u -b %gM -t %d -p %d > /tmp/iperf_edge_client.log 2>&1 &",
		dep.Cloud.IP, aggregated, duration, cloudPort)
	if _, err := dep.Edge.Cmd(ctx, cmd); err != nil {
		return nil, fmt.Errorf("failed to start edge uplink traffic: %w", err)
	}

	g.sleep(time.Duration(duration+5) * time.Second)

	stats := g.collectStats(ctx, dep)
	g.cleanup(ctx, dep)
	return stats, nil
}

// collectStats reads and parses the iperf client logs
func (g *Generator) collectStats(ctx context.Context, dep *topology.Deployment) *Stats {
	stats := &Stats{Cameras: make(map[string]FlowStats)}

	for _, cam := range dep.Cameras {
		out, err := cam.Cmd(ctx, fmt.Sprintf("cat /tmp/iperf_%s.log 2>/dev/null", cam.Name))
		if err != nil || out == "" {
			continue
		}
		stats.Cameras[cam.Name] = FlowStats{
			BandwidthMbps: ParseIperfBandwidth(out),
			JitterMs:      ParseIperfJitter(out),
			PacketLossPct: ParseIperfPacketLoss(out),
		}
	}

	out, err := dep.Edge.Cmd(ctx, "cat /tmp/iperf_edge_client.log 2>/dev/null")
	if err == nil && out != "" {
		stats.EdgeToCloud = FlowStats{
			BandwidthMbps: ParseIperfBandwidth(out),
			JitterMs:      ParseIperfJitter(out),
			PacketLossPct: ParseIperfPacketLoss(out),
		}
	}
	return stats
}

// cleanup kills traffic processes by name on every node. This can race
// with unrelated same-named processes inside the namespaces, which is
// acceptable for an emulated network we own entirely.
func (g *Generator) cleanup(ctx context.Context, dep *topology.Deployment) {
	for _, cam := range dep.Cameras {
		cam.Cmd(ctx, "killall -9 iperf 2>/dev/null")
	}
	dep.Edge.Cmd(ctx, "killall -9 iperf 2>/dev/null")
	dep.Cloud.Cmd(ctx, "killall -9 iperf 2>/dev/null")
}

// GenerateBackgroundTraffic runs continuous low-rate pings from every
// fifth camera toward the edge for the given duration, simulating
// ambient network noise.
func (g *Generator) GenerateBackgroundTraffic(ctx context.Context, dep *topology.Deployment, duration int) {
	logger.Info("generating background traffic", "duration_s", duration)
	for i, cam := range dep.Cameras {
		if i%5 == 0 {
			cam.Cmd(ctx, fmt.Sprintf("ping -i 0.1 %s > /dev/null 2>&1 &", dep.Edge.IP))
		}
	}

	g.sleep(time.Duration(duration) * time.Second)

	for _, cam := range dep.Cameras {
		cam.Cmd(ctx, "killall -9 ping 2>/dev/null")
	}
}

// BandwidthEstimate compares a scenario's required bandwidth against
// what the topology provisions
type BandwidthEstimate struct {
	PerCameraMbps float64 `json:"per_camera_mbps"`
	TotalMbps     float64 `json:"total_mbps"`
	AvailableMbps float64 `json:"available_mbps"`
}

// EstimateRequiredBandwidth reports the bandwidth a scenario demands
func EstimateRequiredBandwidth(cfg config.Scenario) BandwidthEstimate {
	perCamera := BitrateMbps(cfg)
	return BandwidthEstimate{
		PerCameraMbps: utils.Round(perCamera, 2),
		TotalMbps:     utils.Round(perCamera*float64(cfg.NumCameras), 2),
		AvailableMbps: cfg.Bandwidth.CamEdge,
	}
}
