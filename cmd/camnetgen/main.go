// camnetgen generates a labeled surveillance-network dataset by
// running emulated camera→edge→cloud scenarios and collecting graph
// features into CSV tables.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/edgevision/camnet-dataset/internal/dataset"
	"github.com/edgevision/camnet-dataset/internal/emu"
	"github.com/edgevision/camnet-dataset/internal/pipeline"
	"github.com/edgevision/camnet-dataset/pkg/config"
	"github.com/edgevision/camnet-dataset/pkg/logger"
	"github.com/edgevision/camnet-dataset/pkg/utils"
)

const quickScenarios = 3

func main() {
	var (
		outputDir    string
		configPath   string
		logLevel     string
		numScenarios int
		duration     int
		validateOnly bool
		quick        bool
		traffic      bool
		monitor      bool
		yes          bool
	)

	flag.StringVar(&outputDir, "output", "data/dataset", "dataset output directory")
	flag.StringVar(&outputDir, "o", "data/dataset", "shorthand for -output")
	flag.IntVar(&numScenarios, "scenarios", 0, "number of catalog scenarios to run (0 = all)")
	flag.IntVar(&numScenarios, "n", 0, "shorthand for -scenarios")
	flag.IntVar(&duration, "duration", 30, "per-scenario traffic/monitoring duration in seconds")
	flag.IntVar(&duration, "d", 30, "shorthand for -duration")
	flag.BoolVar(&validateOnly, "validate", false, "validate an existing dataset and exit")
	flag.BoolVar(&validateOnly, "v", false, "shorthand for -validate")
	flag.BoolVar(&quick, "quick", false, fmt.Sprintf("run only the first %d scenarios", quickScenarios))
	flag.BoolVar(&quick, "q", false, "shorthand for -quick")
	flag.StringVar(&configPath, "config", "", "YAML scenario catalog replacing the built-in one")
	flag.BoolVar(&traffic, "traffic", false, "drive synthetic video traffic during each scenario")
	flag.BoolVar(&monitor, "monitor", false, "sample live queue depths during each scenario")
	flag.BoolVar(&yes, "yes", false, "skip the confirmation prompt")
	flag.StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	flag.Parse()

	logger.SetDefault(logger.NewText(logLevel, os.Stdout))

	if validateOnly {
		if err := validate(outputDir); err != nil {
			logger.Error("validation failed", "error", err)
			os.Exit(1)
		}
		return
	}

	catalog := config.DefaultCatalog()
	if configPath != "" {
		var err error
		catalog, err = config.LoadCatalog(configPath)
		if err != nil {
			logger.Error("failed to load catalog", "path", configPath, "error", err)
			os.Exit(1)
		}
	}
	if quick {
		numScenarios = quickScenarios
	}
	if numScenarios > 0 {
		catalog = catalog[:utils.Min(numScenarios, len(catalog))]
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	orch := dataset.NewOrchestrator(emu.ExecRunner{}, catalog, outputDir)
	orch.Duration = duration
	orch.EnableTraffic = traffic
	orch.EnableMonitor = monitor
	orch.AutoConfirm = yes

	stats, err := orch.Generate(ctx)
	if err == dataset.ErrAborted {
		fmt.Println("Aborted.")
		return
	}
	if err != nil {
		logger.Error("generation failed", "error", err)
		os.Exit(1)
	}

	fmt.Printf("\nGenerated %d/%d scenarios into %s\n",
		stats.Successful, stats.Total, outputDir)

	if err := validate(outputDir); err != nil {
		logger.Error("validation failed", "error", err)
		os.Exit(1)
	}
}

// validate prints a summary of the dataset directory
func validate(dir string) error {
	report, err := dataset.Validate(dir)
	if err != nil {
		return err
	}

	tablesPresent := true
	for _, fr := range report.Files {
		if !fr.Present {
			fmt.Printf("%-12s MISSING\n", fr.Name)
			if fr.Name != "labels.csv" {
				tablesPresent = false
			}
			continue
		}
		fmt.Printf("%-12s %d rows, %d columns\n", fr.Name, fr.Rows, fr.Columns)
		for _, v := range fr.CategoryValues() {
			fmt.Printf("    %s=%s: %d\n", fr.Category, v, fr.Counts[v])
		}
	}
	if report.QoSTotal > 0 {
		fmt.Printf("QoS satisfied: %d/%d (%.1f%%)\n",
			report.QoSSatisfied, report.QoSTotal, report.SatisfactionPct)
	}

	if tablesPresent {
		g, err := pipeline.BuildDatasetGraph(dir)
		if err != nil {
			logger.Warn("topology graph not built", "error", err)
			return nil
		}
		fmt.Printf("Topology graph: %d nodes, %d links\n",
			g.Graph.Nodes().Len(), g.Graph.Edges().Len())
	}
	return nil
}
