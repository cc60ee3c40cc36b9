// Package topology builds the camera→edge→cloud surveillance network
// from a scenario configuration.
package topology

import (
	"context"
	"fmt"

	"github.com/edgevision/camnet-dataset/internal/emu"
	"github.com/edgevision/camnet-dataset/pkg/config"
)

// Deployment is one built topology: the live network plus handles to
// the hosts the collectors need to reach.
type Deployment struct {
	Net     *emu.Network
	Cameras []*emu.Host
	Edge    *emu.Host
	Cloud   *emu.Host
}

// Build constructs the two-tier star topology for a scenario:
// cameras → s1 → edge, s1 → s2 → cloud. Construction errors propagate
// to the orchestrator, which pairs every Build with a teardown.
func Build(ctx context.Context, runner emu.Runner, cfg config.Scenario) (*Deployment, error) {
	net := emu.NewNetwork(runner)

	cameras := make([]*emu.Host, 0, cfg.NumCameras)
	for i := 1; i <= cfg.NumCameras; i++ {
		cam, err := net.AddHost(ctx, fmt.Sprintf("cam%d", i), config.HardwareSpecs["camera"].CPU)
		if err != nil {
			return nil, err
		}
		cameras = append(cameras, cam)
	}

	edge, err := net.AddHost(ctx, "edge", config.HardwareSpecs["edge"].CPU)
	if err != nil {
		return nil, err
	}
	cloud, err := net.AddHost(ctx, "cloud", config.HardwareSpecs["cloud"].CPU)
	if err != nil {
		return nil, err
	}

	s1, err := net.AddSwitch(ctx, "s1")
	if err != nil {
		return nil, err
	}
	s2, err := net.AddSwitch(ctx, "s2")
	if err != nil {
		return nil, err
	}

	camEdge := emu.LinkParams{
		Bandwidth:    cfg.Bandwidth.CamEdge,
		Delay:        cfg.Delay.CamEdge,
		MaxQueueSize: cfg.QueueSize.CamEdge,
	}
	for _, cam := range cameras {
		if _, err := net.AddLink(ctx, cam, s1, camEdge); err != nil {
			return nil, err
		}
	}

	// Aggregation headroom: the switch-edge link carries all camera
	// streams, so it gets double bandwidth and queue.
	if _, err := net.AddLink(ctx, s1, edge, emu.LinkParams{
		Bandwidth:    cfg.Bandwidth.CamEdge * 2,
		Delay:        cfg.Delay.CamEdge,
		MaxQueueSize: cfg.QueueSize.CamEdge * 2,
	}); err != nil {
		return nil, err
	}

	if _, err := net.AddLink(ctx, s1, s2, emu.LinkParams{
		Bandwidth:    cfg.Bandwidth.EdgeCloud,
		Delay:        cfg.Delay.EdgeCloud,
		MaxQueueSize: cfg.QueueSize.EdgeCloud,
	}); err != nil {
		return nil, err
	}

	if _, err := net.AddLink(ctx, s2, cloud, emu.LinkParams{
		Bandwidth:    cfg.Bandwidth.EdgeCloud * 2,
		Delay:        cfg.Delay.EdgeCloud,
		MaxQueueSize: cfg.QueueSize.EdgeCloud * 2,
	}); err != nil {
		return nil, err
	}

	return &Deployment{Net: net, Cameras: cameras, Edge: edge, Cloud: cloud}, nil
}

// Stop tears the deployment's network down
func (d *Deployment) Stop(ctx context.Context) error {
	return d.Net.Stop(ctx)
}
