// Package dataset drives end-to-end dataset generation: for each
// scenario it builds an emulated surveillance topology, exercises it,
// collects graph features into cumulative CSVs and records a run
// summary.
package dataset

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/edgevision/camnet-dataset/internal/collector"
	"github.com/edgevision/camnet-dataset/internal/emu"
	"github.com/edgevision/camnet-dataset/internal/monitor"
	"github.com/edgevision/camnet-dataset/internal/topology"
	"github.com/edgevision/camnet-dataset/internal/traffic"
	"github.com/edgevision/camnet-dataset/pkg/config"
	"github.com/edgevision/camnet-dataset/pkg/logger"
)

// ErrAborted is returned when the operator declines the confirmation
// prompt.
var ErrAborted = errors.New("generation aborted")

// Orchestrator runs a list of scenarios sequentially and collects one
// batch of dataset rows per scenario.
type Orchestrator struct {
	Runner    emu.Runner
	Scenarios []config.Scenario
	OutputDir string

	// Duration is the per-scenario traffic/monitoring window in seconds
	Duration int

	EnableTraffic bool
	EnableMonitor bool
	AutoConfirm   bool

	Stdin  io.Reader
	Stdout io.Writer

	// pacing between phases, zeroed in tests
	SettleDelay  time.Duration
	StartupDelay time.Duration
	PauseBetween time.Duration

	sleep func(time.Duration)
}

// NewOrchestrator creates an orchestrator with production pacing
func NewOrchestrator(runner emu.Runner, scenarios []config.Scenario, outputDir string) *Orchestrator {
	return &Orchestrator{
		Runner:       runner,
		Scenarios:    scenarios,
		OutputDir:    outputDir,
		Duration:     30,
		Stdin:        os.Stdin,
		Stdout:       os.Stdout,
		SettleDelay:  2 * time.Second,
		StartupDelay: 5 * time.Second,
		PauseBetween: 5 * time.Second,
		sleep:        time.Sleep,
	}
}

// Generate runs every scenario, continuing past individual failures,
// and persists the run summary to generation_stats.json in the output
// directory. The operator is asked to confirm unless AutoConfirm is
// set.
func (o *Orchestrator) Generate(ctx context.Context) (*Stats, error) {
	if !o.AutoConfirm {
		ok, err := o.confirm()
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, ErrAborted
		}
	}

	names := make([]string, len(o.Scenarios))
	for i, sc := range o.Scenarios {
		names[i] = sc.Name
	}
	store := newStatsStore(names)

	for i, sc := range o.Scenarios {
		if ctx.Err() != nil {
			break
		}

		logger.Info("running scenario", "scenario_idx", i, "scenario", sc.Name,
			"cameras", sc.NumCameras, "model", sc.Workload.Model)
		store.SetStatus(i, StatusRunning, "")

		if err := o.runScenario(ctx, i, sc); err != nil {
			logger.Error("scenario failed", "scenario", sc.Name, "error", err)
			store.SetStatus(i, StatusFailed, err.Error())
			emu.Cleanup(ctx, o.Runner)
		} else {
			logger.Info("scenario complete", "scenario", sc.Name)
			store.SetStatus(i, StatusSuccess, "")
		}

		if i < len(o.Scenarios)-1 {
			o.sleep(o.PauseBetween)
		}
	}

	stats := store.Finalize()
	if err := os.MkdirAll(o.OutputDir, 0o755); err != nil {
		return stats, fmt.Errorf("failed to create output directory: %w", err)
	}
	if err := WriteStats(o.OutputDir, stats); err != nil {
		return stats, err
	}

	logger.Info("generation complete", "total", stats.Total,
		"successful", stats.Successful, "failed", stats.Failed,
		"duration_sec", stats.TotalDurationSec)
	return stats, nil
}

// runScenario takes one scenario from a clean host state through
// collection and teardown
func (o *Orchestrator) runScenario(ctx context.Context, idx int, sc config.Scenario) error {
	est := traffic.EstimateRequiredBandwidth(sc)
	logger.Debug("bandwidth demand", "per_camera_mbps", est.PerCameraMbps,
		"total_mbps", est.TotalMbps, "available_mbps", est.AvailableMbps)

	emu.Cleanup(ctx, o.Runner)
	o.sleep(o.SettleDelay)

	dep, err := topology.Build(ctx, o.Runner, sc)
	if err != nil {
		return fmt.Errorf("failed to build topology: %w", err)
	}
	defer func() {
		if err := dep.Stop(ctx); err != nil {
			logger.Warn("teardown failed", "scenario", sc.Name, "error", err)
		}
	}()

	if err := dep.Net.Start(ctx); err != nil {
		return fmt.Errorf("failed to start network: %w", err)
	}
	o.sleep(o.StartupDelay)

	if o.EnableTraffic {
		gen := traffic.NewGenerator()
		if _, err := gen.GenerateVideoTraffic(ctx, dep, sc, o.Duration); err != nil {
			logger.Warn("traffic generation failed", "scenario", sc.Name, "error", err)
		}
	}
	if o.EnableMonitor {
		window := time.Duration(o.Duration) * time.Second
		before := monitor.HostInterfaceStats(ctx, dep.Edge)

		mon := monitor.NewQueueMonitor(o.Runner)
		avg := mon.Run(ctx, dep, window)

		after := monitor.HostInterfaceStats(ctx, dep.Edge)
		logger.Info("monitoring complete", "scenario", sc.Name,
			"interfaces", len(avg),
			"edge_util_mbps", monitor.UtilizationMbps(before, after, window))
		for _, sw := range dep.Net.Switches() {
			flows := monitor.SwitchFlowStats(ctx, o.Runner, sw.Name)
			logger.Debug("switch flows", "switch", sw.Name, "flows", len(flows))
		}
	}

	col := collector.New(o.OutputDir, dep.Net)
	if err := col.CollectAll(ctx, dep, sc, idx); err != nil {
		return fmt.Errorf("failed to collect metrics: %w", err)
	}
	return nil
}

// confirm prints the generation plan and waits for a y/n answer
func (o *Orchestrator) confirm() (bool, error) {
	fmt.Fprintf(o.Stdout, "Will generate %d scenarios into %s\n", len(o.Scenarios), o.OutputDir)
	for i, sc := range o.Scenarios {
		fmt.Fprintf(o.Stdout, "  %2d. %-24s %d cameras, %s @ %d fps\n",
			i+1, sc.Name, sc.NumCameras, sc.Workload.Model, sc.Workload.FPS)
	}
	fmt.Fprint(o.Stdout, "Continue? (y/n) ")

	line, err := bufio.NewReader(o.Stdin).ReadString('\n')
	if err != nil && line == "" {
		return false, fmt.Errorf("failed to read confirmation: %w", err)
	}
	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "y" || answer == "yes", nil
}
