package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// LoadCatalog loads and parses a scenario catalog file, replacing the
// built-in catalog for a run.
func LoadCatalog(path string) ([]Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog file %s: %w", path, err)
	}
	catalog, err := ParseCatalogYAML(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse catalog file %s: %w", path, err)
	}
	return catalog, nil
}

// ParseCatalogYAML parses and validates a YAML scenario catalog
func ParseCatalogYAML(data []byte) ([]Scenario, error) {
	var doc struct {
		Scenarios []Scenario `yaml:"scenarios"`
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("yaml unmarshal failed: %w", err)
	}
	if err := validateCatalog(doc.Scenarios); err != nil {
		return nil, err
	}
	return doc.Scenarios, nil
}

// validateCatalog performs validation on a scenario catalog
func validateCatalog(scenarios []Scenario) error {
	if len(scenarios) == 0 {
		return fmt.Errorf("at least one scenario must be defined")
	}

	names := make(map[string]bool)
	for i, s := range scenarios {
		if s.Name == "" {
			return fmt.Errorf("scenario %d: name cannot be empty", i)
		}
		if names[s.Name] {
			return fmt.Errorf("duplicate scenario name: %s", s.Name)
		}
		names[s.Name] = true

		if s.NumCameras <= 0 {
			return fmt.Errorf("scenario %s: num_cameras must be positive, got %d", s.Name, s.NumCameras)
		}
		if s.Workload.FPS <= 0 {
			return fmt.Errorf("scenario %s: workload fps must be positive, got %d", s.Name, s.Workload.FPS)
		}
		if s.Bandwidth.CamEdge <= 0 || s.Bandwidth.EdgeCloud <= 0 {
			return fmt.Errorf("scenario %s: bandwidth values must be positive", s.Name)
		}
		if s.QueueSize.CamEdge <= 0 || s.QueueSize.EdgeCloud <= 0 {
			return fmt.Errorf("scenario %s: queue sizes must be positive", s.Name)
		}
		if _, err := time.ParseDuration(s.Delay.CamEdge); err != nil {
			return fmt.Errorf("scenario %s: invalid cam_edge delay %q: %w", s.Name, s.Delay.CamEdge, err)
		}
		if _, err := time.ParseDuration(s.Delay.EdgeCloud); err != nil {
			return fmt.Errorf("scenario %s: invalid edge_cloud delay %q: %w", s.Name, s.Delay.EdgeCloud, err)
		}
	}

	return nil
}
