package config

import (
	"regexp"
	"strconv"
	"time"
)

// Scenario represents one fully parameterized network configuration.
// A scenario is run end-to-end to produce one batch of dataset rows.
type Scenario struct {
	Name       string    `yaml:"name"`
	NumCameras int       `yaml:"num_cameras"`
	Workload   Workload  `yaml:"workload"`
	Bandwidth  LinkPair  `yaml:"bandwidth"`
	Delay      DelayPair `yaml:"delay"`
	QueueSize  QueuePair `yaml:"queue_size"`
}

// Workload describes the CV workload assigned to the cameras and edge
type Workload struct {
	Model string `yaml:"model"`
	FPS   int    `yaml:"fps"`
}

// LinkPair holds per-tier bandwidth in Mbps
type LinkPair struct {
	CamEdge   float64 `yaml:"cam_edge"`
	EdgeCloud float64 `yaml:"edge_cloud"`
}

// DelayPair holds per-tier link delay as time strings (e.g. "5ms")
type DelayPair struct {
	CamEdge   string `yaml:"cam_edge"`
	EdgeCloud string `yaml:"edge_cloud"`
}

// QueuePair holds per-tier maximum queue sizes in packets
type QueuePair struct {
	CamEdge   int `yaml:"cam_edge"`
	EdgeCloud int `yaml:"edge_cloud"`
}

// ModelInfo holds complexity parameters for a CV model
type ModelInfo struct {
	GFLOPs float64 `yaml:"gflops"`
	Params float64 `yaml:"params"`
}

// NodeSpec holds the hardware capacity of a node class
type NodeSpec struct {
	CPU float64 `yaml:"cpu"`
	GPU float64 `yaml:"gpu"`
}

var delayNumRe = regexp.MustCompile(`([\d.]+)`)

// ParseDelay parses a delay string like "5ms" to a float in milliseconds.
// Returns 0 when no leading numeric prefix is found.
func ParseDelay(delay string) float64 {
	match := delayNumRe.FindString(delay)
	if match == "" {
		return 0.0
	}
	v, err := strconv.ParseFloat(match, 64)
	if err != nil {
		return 0.0
	}
	return v
}

// CamEdgeDelay parses the camera-edge delay to time.Duration
func (s *Scenario) CamEdgeDelay() (time.Duration, error) {
	return time.ParseDuration(s.Delay.CamEdge)
}

// EdgeCloudDelay parses the edge-cloud delay to time.Duration
func (s *Scenario) EdgeCloudDelay() (time.Duration, error) {
	return time.ParseDuration(s.Delay.EdgeCloud)
}

// Complexity looks up the model complexity for this scenario's workload.
// Unknown models yield a zero-valued ModelInfo.
func (s *Scenario) Complexity() ModelInfo {
	return ModelComplexity[s.Workload.Model]
}
