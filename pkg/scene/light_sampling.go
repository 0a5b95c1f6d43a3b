package scene

import (
	"math"
	"sort"

	"github.com/df07/go-mis-raytracer/pkg/core"
)

type distributionEntry struct {
	light       core.Light
	probability float64
	cdf         float64
}

// LightDistribution picks lights proportionally to their sampling weight.
// Lights with zero weight are never picked but still have a probability
// (of zero).
type LightDistribution struct {
	entries       []distributionEntry
	probabilities map[core.Light]float64
}

// NewLightDistribution builds the table from each light's SamplingWeight.
// Negative and NaN weights are treated as zero.
func NewLightDistribution(lights []core.Light, logger core.Logger) *LightDistribution {
	if logger == nil {
		logger = core.NopLogger{}
	}
	d := &LightDistribution{probabilities: make(map[core.Light]float64, len(lights))}

	total := 0.0
	for index, light := range lights {
		if light == nil {
			continue
		}
		weight := light.SamplingWeight()
		if math.IsNaN(weight) || weight < 0 {
			logger.Printf("light %d has invalid sampling weight %v, excluding it", index, weight)
			weight = 0
		}
		if weight == 0 {
			d.probabilities[light] = 0
			continue
		}
		total += weight
		d.entries = append(d.entries, distributionEntry{light: light, probability: weight, cdf: total})
	}

	for k := range d.entries {
		d.entries[k].probability /= total
		d.entries[k].cdf /= total
		d.probabilities[d.entries[k].light] = d.entries[k].probability
	}
	if n := len(d.entries); n > 0 {
		d.entries[n-1].cdf = 1
	}
	return d
}

// Sample returns the first light whose cumulative probability is strictly
// greater than u
func (d *LightDistribution) Sample(u float64) core.LightSample {
	if len(d.entries) == 0 {
		return core.InvalidLightSample()
	}
	index := sort.Search(len(d.entries), func(k int) bool {
		return u < d.entries[k].cdf
	})
	index = min(index, len(d.entries)-1)
	return core.LightSample{Light: d.entries[index].light, Probability: d.entries[index].probability}
}

// Probability returns the chance that Sample picks light, 0 for unknown
// lights
func (d *LightDistribution) Probability(light core.Light) float64 {
	if light == nil {
		return 0
	}
	return d.probabilities[light]
}

// Len returns the number of lights that can be sampled
func (d *LightDistribution) Len() int { return len(d.entries) }

// CDF returns the cumulative probabilities in table order
func (d *LightDistribution) CDF() []float64 {
	cdf := make([]float64, len(d.entries))
	for k, entry := range d.entries {
		cdf[k] = entry.cdf
	}
	return cdf
}
