package rank

import (
	"sort"

	"github.com/sopiot/scheduling-framework-sub001/types"
)

// Aggregate groups results by policy, in order of first appearance, and
// averages each metric across the policy's trials. Undefined latencies count
// as zero and are therefore left out of the average.
func Aggregate(results []types.TrialResult) []types.PolicyAggregate {
	var (
		order  []string
		groups = make(map[string][]types.TrialResult)
	)

	for _, r := range results {
		if _, ok := groups[r.Policy]; !ok {
			order = append(order, r.Policy)
		}

		groups[r.Policy] = append(groups[r.Policy], r)
	}

	aggs := make([]types.PolicyAggregate, 0, len(order))

	for _, policy := range order {
		var latency, energy, success []float64

		for _, r := range groups[policy] {
			l, _ := r.Latency()

			latency = append(latency, l)
			energy = append(energy, r.AverageEnergy())
			success = append(success, r.AverageSuccessRatio())
		}

		aggs = append(aggs, types.PolicyAggregate{
			Policy:           policy,
			Latency:          types.Average(latency),
			Energy:           types.Average(energy),
			SuccessRatio:     types.Average(success),
			Trials:           len(groups[policy]),
			LatencyUndefined: !positive(latency),
			EnergyUndefined:  !positive(energy),
		})
	}

	return aggs
}

func positive(values []float64) bool {
	for _, v := range values {
		if v > 0 {
			return true
		}
	}

	return false
}

// Ranking holds three independent orders of the same aggregates.
type Ranking struct {
	Latency []types.PolicyAggregate
	Energy  []types.PolicyAggregate
	Success []types.PolicyAggregate
}

// Rank orders aggregates by latency and energy ascending and by success ratio
// descending. Undefined latencies and energies go after every defined one.
// Ties keep the order of the input.
func Rank(aggs []types.PolicyAggregate) Ranking {
	ranking := Ranking{
		Latency: append([]types.PolicyAggregate(nil), aggs...),
		Energy:  append([]types.PolicyAggregate(nil), aggs...),
		Success: append([]types.PolicyAggregate(nil), aggs...),
	}

	sort.SliceStable(ranking.Latency, func(i, j int) bool {
		a, b := ranking.Latency[i], ranking.Latency[j]

		if a.LatencyUndefined != b.LatencyUndefined {
			return b.LatencyUndefined
		}

		return a.Latency < b.Latency
	})

	sort.SliceStable(ranking.Energy, func(i, j int) bool {
		a, b := ranking.Energy[i], ranking.Energy[j]

		if a.EnergyUndefined != b.EnergyUndefined {
			return b.EnergyUndefined
		}

		return a.Energy < b.Energy
	})

	sort.SliceStable(ranking.Success, func(i, j int) bool {
		return ranking.Success[i].SuccessRatio > ranking.Success[j].SuccessRatio
	})

	return ranking
}

// Cell is one metric column entry of a ranking row.
type Cell struct {
	Policy    string  `json:"policy"`
	Value     float64 `json:"value"`
	Undefined bool    `json:"undefined,omitempty"`
}

// Row is a single rank position.
type Row struct {
	Rank    int
	Latency Cell
	Energy  Cell
	Success Cell
}

// Rows returns one row per rank position, starting at 1. Each column is filled
// from its own order.
func (this Ranking) Rows() []Row {
	rows := make([]Row, len(this.Latency))

	for i := range rows {
		rows[i] = Row{
			Rank:    i + 1,
			Latency: Cell{this.Latency[i].Policy, this.Latency[i].Latency, this.Latency[i].LatencyUndefined},
			Energy:  Cell{this.Energy[i].Policy, this.Energy[i].Energy, this.Energy[i].EnergyUndefined},
			Success: Cell{this.Success[i].Policy, this.Success[i].SuccessRatio, false},
		}
	}

	return rows
}

// Missing returns the given policies that have no aggregate, that is no
// completed trial, in the order given.
func Missing(policies []string, aggs []types.PolicyAggregate) []string {
	have := make(map[string]bool, len(aggs))

	for _, a := range aggs {
		if a.Trials > 0 {
			have[a.Policy] = true
		}
	}

	var missing []string

	for _, p := range policies {
		if !have[p] {
			missing = append(missing, p)
		}
	}

	return missing
}
