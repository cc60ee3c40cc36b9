package dataset

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/edgevision/camnet-dataset/pkg/utils"
)

// Status tracks a scenario through its lifecycle
type Status string

const (
	StatusPending Status = "pending"
	StatusRunning Status = "running"
	StatusSuccess Status = "success"
	StatusFailed  Status = "failed"
)

// ScenarioStats records the outcome of one scenario run
type ScenarioStats struct {
	Name            string `json:"name"`
	Index           int    `json:"index"`
	Status          Status `json:"status"`
	Error           string `json:"error,omitempty"`
	StartedAtUnixMs int64  `json:"started_at_unix_ms,omitempty"`
	EndedAtUnixMs   int64  `json:"ended_at_unix_ms,omitempty"`
}

// Stats summarizes one generation run across all scenarios
type Stats struct {
	RunID            string           `json:"run_id"`
	Total            int              `json:"total_scenarios"`
	Successful       int              `json:"successful"`
	Failed           int              `json:"failed"`
	StartTime        time.Time        `json:"start_time"`
	EndTime          time.Time        `json:"end_time"`
	TotalDurationSec float64          `json:"total_duration_sec"`
	Scenarios        []*ScenarioStats `json:"scenarios"`
}

// statsStore tracks scenario state transitions for a generation run
type statsStore struct {
	mu    sync.Mutex
	stats *Stats
}

func nowUnixMs() int64 {
	return time.Now().UTC().UnixMilli()
}

func newStatsStore(names []string) *statsStore {
	scenarios := make([]*ScenarioStats, len(names))
	for i, name := range names {
		scenarios[i] = &ScenarioStats{Name: name, Index: i, Status: StatusPending}
	}
	return &statsStore{
		stats: &Stats{
			RunID:     utils.GenerateRunID(),
			Total:     len(names),
			StartTime: time.Now().UTC(),
			Scenarios: scenarios,
		},
	}
}

// SetStatus transitions one scenario. Entering running stamps the
// start time; success and failed stamp the end time and the counters.
func (s *statsStore) SetStatus(index int, status Status, errMsg string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec := s.stats.Scenarios[index]
	rec.Status = status
	if errMsg != "" {
		rec.Error = errMsg
	}

	switch status {
	case StatusRunning:
		if rec.StartedAtUnixMs == 0 {
			rec.StartedAtUnixMs = nowUnixMs()
		}
	case StatusSuccess:
		rec.EndedAtUnixMs = nowUnixMs()
		s.stats.Successful++
	case StatusFailed:
		rec.EndedAtUnixMs = nowUnixMs()
		s.stats.Failed++
	}
}

// Finalize stamps the end of the run and returns the summary
func (s *statsStore) Finalize() *Stats {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.stats.EndTime = time.Now().UTC()
	s.stats.TotalDurationSec = s.stats.EndTime.Sub(s.stats.StartTime).Seconds()
	return s.stats
}

// WriteStats persists the run summary next to the dataset files
func WriteStats(outputDir string, stats *Stats) error {
	data, err := json.MarshalIndent(stats, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode generation stats: %w", err)
	}
	path := filepath.Join(outputDir, "generation_stats.json")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
