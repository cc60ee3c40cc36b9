// camnetpipe post-processes discrete-event simulator output into
// training artifacts: parsed JSON, windowed time slices, graph tensor
// bundles and retrieval documents.
package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/edgevision/camnet-dataset/internal/pipeline"
	"github.com/edgevision/camnet-dataset/pkg/logger"
)

var stageOrder = []string{"parse", "slice", "graphs", "docs", "chunks"}

func main() {
	var (
		rawDir    string
		parsedDir string
		slicesDir string
		graphsDir string
		docsDir   string
		chunksDir string
		stages    string
		logLevel  string
	)

	flag.StringVar(&rawDir, "raw", "dataset/raw", "raw simulator scenario directories")
	flag.StringVar(&parsedDir, "parsed", "dataset/parsed", "parsed per-scenario JSON")
	flag.StringVar(&slicesDir, "slices", "dataset/slices", "windowed .npy slices")
	flag.StringVar(&graphsDir, "graphs", "dataset/graphs", "graph tensor bundles")
	flag.StringVar(&docsDir, "docs", "dataset/rag_docs", "scenario text summaries")
	flag.StringVar(&chunksDir, "chunks", "dataset/rag_chunks", "summary fragments")
	flag.StringVar(&stages, "stages", strings.Join(stageOrder, ","), "comma-separated stages to run")
	flag.StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	flag.Parse()

	logger.SetDefault(logger.NewText(logLevel, os.Stdout))

	selected := make(map[string]bool)
	for _, s := range strings.Split(stages, ",") {
		selected[strings.TrimSpace(s)] = true
	}

	run := func(stage string, f func() (int, error)) {
		if !selected[stage] {
			return
		}
		n, err := f()
		if err != nil {
			logger.Error("stage failed", "stage", stage, "error", err)
			os.Exit(1)
		}
		fmt.Printf("%-8s %d files\n", stage, n)
	}

	run("parse", func() (int, error) { return pipeline.ParseRaw(rawDir, parsedDir) })
	run("slice", func() (int, error) { return pipeline.SliceAll(parsedDir, slicesDir) })
	run("graphs", func() (int, error) { return pipeline.BuildGraphs(slicesDir, graphsDir) })
	run("docs", func() (int, error) { return pipeline.BuildRAGDocs(rawDir, docsDir) })
	run("chunks", func() (int, error) { return pipeline.ChunkDocs(docsDir, chunksDir) })
}
