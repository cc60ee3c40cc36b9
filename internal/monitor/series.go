package monitor

import "github.com/edgevision/camnet-dataset/pkg/utils"

// sampleSet accumulates per-key time series of samples and reduces
// them to averages once sampling finishes.
type sampleSet struct {
	series map[string][]float64
	order  []string
}

func newSampleSet() *sampleSet {
	return &sampleSet{series: make(map[string][]float64)}
}

// Add appends one sample to the named series
func (s *sampleSet) Add(key string, value float64) {
	if _, ok := s.series[key]; !ok {
		s.order = append(s.order, key)
	}
	s.series[key] = append(s.series[key], value)
}

// Series returns the raw samples for a key
func (s *sampleSet) Series(key string) []float64 {
	return s.series[key]
}

// Averages reduces every series to its mean. Keys with no samples
// average to 0.
func (s *sampleSet) Averages() map[string]float64 {
	avg := make(map[string]float64, len(s.series))
	for key, values := range s.series {
		avg[key] = utils.Mean(values)
	}
	return avg
}
