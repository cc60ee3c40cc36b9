// Package pipeline post-processes discrete-event simulator output into
// training-ready artifacts: per-scenario JSON, windowed time slices,
// graph tensor bundles and retrieval documents. Each stage is a
// standalone pass over a directory and tolerates partially broken
// inputs by skipping them.
package pipeline

import (
	"encoding/json"
	"encoding/xml"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/edgevision/camnet-dataset/pkg/logger"
)

// CameraNode is one camera entry of a scenario config.json. Field
// order mirrors the simulator's serialization and fixes the column
// layout of the sliced windows.
type CameraNode struct {
	ID             float64 `json:"id"`
	Processing     string  `json:"processing"`
	Model          string  `json:"model"`
	FrameSize      float64 `json:"frame_size"`
	FrameInterval  float64 `json:"frame_interval"`
	InferenceDelay float64 `json:"inference_delay"`
	ResultSize     float64 `json:"result_size"`
}

// FlowStat aggregates one simulator-tracked flow
type FlowStat struct {
	FlowID      int     `json:"flow_id"`
	TxPackets   int     `json:"tx_packets"`
	RxPackets   int     `json:"rx_packets"`
	LostPackets int     `json:"lost_packets"`
	DelaySum    float64 `json:"delay_sum"`
	JitterSum   float64 `json:"jitter_sum"`
	FirstTxTime float64 `json:"first_tx_time"`
	LastTxTime  float64 `json:"last_tx_time"`
	FirstRxTime float64 `json:"first_rx_time"`
	LastRxTime  float64 `json:"last_rx_time"`
	Throughput  float64 `json:"throughput"`
}

// ScenarioParse is the parsed form of one raw scenario directory
type ScenarioParse struct {
	Scenario any          `json:"scenario"`
	Nodes    []CameraNode `json:"nodes"`
	Flows    []FlowStat   `json:"flows"`
}

// scenarioConfig mirrors the simulator's config.json
type scenarioConfig struct {
	Scenario any          `json:"scenario"`
	Cameras  []CameraNode `json:"cameras"`
}

// flowMonitorXML matches the simulator's flow monitor serialization;
// only the statistical flow records are consumed.
type flowMonitorXML struct {
	FlowStats struct {
		Flows []flowXML `xml:"Flow"`
	} `xml:"FlowStats"`
}

type flowXML struct {
	FlowID            string `xml:"flowId,attr"`
	TxPackets         string `xml:"txPackets,attr"`
	RxPackets         string `xml:"rxPackets,attr"`
	LostPackets       string `xml:"lostPackets,attr"`
	RxBytes           string `xml:"rxBytes,attr"`
	DelaySum          string `xml:"delaySum,attr"`
	JitterSum         string `xml:"jitterSum,attr"`
	TimeFirstTxPacket string `xml:"timeFirstTxPacket,attr"`
	TimeLastTxPacket  string `xml:"timeLastTxPacket,attr"`
	TimeFirstRxPacket string `xml:"timeFirstRxPacket,attr"`
	TimeLastRxPacket  string `xml:"timeLastRxPacket,attr"`
}

// ParseNSValue converts a simulator attribute to float64, stripping a
// trailing "ns" unit. Missing or unparsable values fall back to the
// default rather than failing.
func ParseNSValue(val string, def float64) float64 {
	if val == "" {
		return def
	}
	val = strings.TrimSuffix(val, "ns")
	v, err := strconv.ParseFloat(strings.TrimSpace(val), 64)
	if err != nil {
		return def
	}
	return v
}

// ParseNSInt is the integer counterpart of ParseNSValue. Non-integral
// values fall back to the default instead of truncating.
func ParseNSInt(val string, def int) int {
	if val == "" {
		return def
	}
	val = strings.TrimSuffix(val, "ns")
	v, err := strconv.Atoi(strings.TrimSpace(val))
	if err != nil {
		return def
	}
	return v
}

// parseFlow derives the per-flow aggregates, flooring the duration at
// one second so idle flows do not blow up the throughput division
func parseFlow(f flowXML) FlowStat {
	firstTx := ParseNSValue(f.TimeFirstTxPacket, 0)
	lastRx := ParseNSValue(f.TimeLastRxPacket, 0)
	rxBytes := ParseNSValue(f.RxBytes, 0)

	duration := lastRx - firstTx
	if duration <= 1e-9 {
		duration = 1.0
	}

	return FlowStat{
		FlowID:      ParseNSInt(f.FlowID, 0),
		TxPackets:   ParseNSInt(f.TxPackets, 0),
		RxPackets:   ParseNSInt(f.RxPackets, 0),
		LostPackets: ParseNSInt(f.LostPackets, 0),
		DelaySum:    ParseNSValue(f.DelaySum, 0),
		JitterSum:   ParseNSValue(f.JitterSum, 0),
		FirstTxTime: firstTx,
		LastTxTime:  ParseNSValue(f.TimeLastTxPacket, 0),
		FirstRxTime: ParseNSValue(f.TimeFirstRxPacket, 0),
		LastRxTime:  lastRx,
		Throughput:  rxBytes * 8 / duration,
	}
}

// ParseScenario parses one raw scenario directory holding flow.xml and
// optionally config.json. A missing config substitutes a default
// rather than failing; a missing or malformed flow.xml is an error.
func ParseScenario(dir string) (*ScenarioParse, error) {
	cfg := scenarioConfig{Scenario: "unknown", Cameras: []CameraNode{}}
	if data, err := os.ReadFile(filepath.Join(dir, "config.json")); err == nil {
		if err := json.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config.json: %w", err)
		}
	}

	data, err := os.ReadFile(filepath.Join(dir, "flow.xml"))
	if err != nil {
		return nil, fmt.Errorf("failed to read flow.xml: %w", err)
	}
	var mon flowMonitorXML
	if err := xml.Unmarshal(data, &mon); err != nil {
		return nil, fmt.Errorf("failed to parse flow.xml: %w", err)
	}

	flows := make([]FlowStat, 0, len(mon.FlowStats.Flows))
	for _, f := range mon.FlowStats.Flows {
		flows = append(flows, parseFlow(f))
	}

	return &ScenarioParse{Scenario: cfg.Scenario, Nodes: cfg.Cameras, Flows: flows}, nil
}

// ParseRaw walks every scenario directory under rawDir in name order
// and writes one <scenario>.json per directory into outDir. Scenarios
// that fail to parse are logged and skipped; the count of saved files
// is returned.
func ParseRaw(rawDir, outDir string) (int, error) {
	entries, err := os.ReadDir(rawDir)
	if err != nil {
		return 0, fmt.Errorf("failed to read raw directory: %w", err)
	}
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return 0, fmt.Errorf("failed to create output directory: %w", err)
	}

	sort.Slice(entries, func(i, j int) bool { return entries[i].Name() < entries[j].Name() })

	count := 0
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		parsed, err := ParseScenario(filepath.Join(rawDir, e.Name()))
		if err != nil {
			logger.Warn("skipping scenario", "scenario", e.Name(), "error", err)
			continue
		}
		data, err := json.MarshalIndent(parsed, "", "  ")
		if err != nil {
			return count, fmt.Errorf("failed to encode %s: %w", e.Name(), err)
		}
		out := filepath.Join(outDir, e.Name()+".json")
		if err := os.WriteFile(out, data, 0o644); err != nil {
			return count, fmt.Errorf("failed to write %s: %w", out, err)
		}
		logger.Info("parsed scenario", "scenario", e.Name())
		count++
	}
	return count, nil
}
