package types

import (
	"fmt"
	"sort"
	"time"
)

// TrialResult holds the figures measured for one completed trial of a policy
// against a topology. It is not modified once evaluated.
type TrialResult struct {
	ID       string    `json:"id"`
	Policy   string    `json:"policy"`
	Topology string    `json:"topology"`
	Created  time.Time `json:"created"`

	TotalExecuteTime    time.Duration `json:"totalExecuteTime"`
	TotalScenarioCycles int           `json:"totalScenarioCycles"`

	// Per-scenario energy and success ratio samples, keyed by scenario name.
	Energy  map[string]float64 `json:"energy"`
	Success map[string]float64 `json:"success"`
}

// Label identifies the trial's exported reports.
func (this TrialResult) Label() string {
	return fmt.Sprintf("%s_%s", this.Topology, this.Policy)
}

// Latency returns the average time in seconds taken per completed scenario
// cycle. The second return value is false when no cycle completed, in which
// case latency is undefined.
func (this TrialResult) Latency() (float64, bool) {
	if this.TotalScenarioCycles <= 0 {
		return 0, false
	}

	return this.TotalExecuteTime.Seconds() / float64(this.TotalScenarioCycles), true
}

func (this TrialResult) Scenarios() []string {
	seen := make(map[string]struct{})

	for s := range this.Energy {
		seen[s] = struct{}{}
	}

	for s := range this.Success {
		seen[s] = struct{}{}
	}

	names := make([]string, 0, len(seen))

	for s := range seen {
		names = append(names, s)
	}

	sort.Strings(names)

	return names
}

// EnergySamples returns the per-scenario energy samples in scenario name
// order. Scenarios without an energy sample contribute 0.
func (this TrialResult) EnergySamples() []float64 {
	var samples []float64

	for _, s := range this.Scenarios() {
		samples = append(samples, this.Energy[s])
	}

	return samples
}

func (this TrialResult) SuccessSamples() []float64 {
	var samples []float64

	for _, s := range this.Scenarios() {
		samples = append(samples, this.Success[s])
	}

	return samples
}

func (this TrialResult) AverageEnergy() float64 {
	return Average(this.EnergySamples())
}

func (this TrialResult) AverageSuccessRatio() float64 {
	return Average(this.SuccessSamples())
}

// PolicyAggregate is computed from all trial results of a single policy for
// one ranking pass. It is never stored.
type PolicyAggregate struct {
	Policy       string
	Latency      float64
	Energy       float64
	SuccessRatio float64
	Trials       int

	// LatencyUndefined is set when no trial of the policy completed a
	// scenario cycle. Latency is zero and carries no meaning then.
	LatencyUndefined bool `json:",omitempty"`

	// EnergyUndefined is set when no trial produced a positive energy sample.
	EnergyUndefined bool `json:",omitempty"`
}

// Average returns the arithmetic mean of the strictly positive values. Zero
// and negative values are treated as missing data. If there are no positive
// values the average is zero.
func Average(values []float64) float64 {
	var (
		sum   float64
		count int
	)

	for _, v := range values {
		if v > 0 {
			sum += v
			count++
		}
	}

	if count == 0 {
		return 0
	}

	return sum / float64(count)
}
