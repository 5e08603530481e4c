package rank

import (
	"testing"
	"time"

	"github.com/sopiot/scheduling-framework-sub001/types"
)

func policies(aggs []types.PolicyAggregate) []string {
	names := make([]string, len(aggs))

	for i, a := range aggs {
		names[i] = a.Policy
	}

	return names
}

func equal(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}

	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}

	return true
}

func TestRank(t *testing.T) {
	aggs := []types.PolicyAggregate{
		{Policy: "A", Latency: 10, Energy: 5, SuccessRatio: 0.9},
		{Policy: "B", Latency: 8, Energy: 6, SuccessRatio: 0.95},
		{Policy: "C", Latency: 8, Energy: 4, SuccessRatio: 0.8},
	}

	ranking := Rank(aggs)

	if got := policies(ranking.Latency); !equal(got, []string{"B", "C", "A"}) {
		t.Logf("unexpected latency order %v", got)
		t.FailNow()
	}

	if got := policies(ranking.Energy); !equal(got, []string{"C", "A", "B"}) {
		t.Logf("unexpected energy order %v", got)
		t.FailNow()
	}

	if got := policies(ranking.Success); !equal(got, []string{"B", "A", "C"}) {
		t.Logf("unexpected success order %v", got)
		t.FailNow()
	}

	rows := ranking.Rows()

	if len(rows) != 3 || rows[0].Rank != 1 || rows[0].Energy.Policy != "C" || rows[2].Latency.Value != 10 {
		t.Logf("unexpected rows %+v", rows)
		t.FailNow()
	}

	// The input order is untouched.
	if aggs[0].Policy != "A" {
		t.Log("input aggregates reordered")
		t.FailNow()
	}
}

func TestAggregate(t *testing.T) {
	results := []types.TrialResult{
		{
			Policy:              "greedy",
			TotalExecuteTime:    120 * time.Second,
			TotalScenarioCycles: 4,
			Energy:              map[string]float64{"s0": 2, "s1": 4},
			Success:             map[string]float64{"s0": 1, "s1": 0.5},
		},
		{
			Policy:           "random",
			TotalExecuteTime: 60 * time.Second,
			Energy:           map[string]float64{"s0": 0},
			Success:          map[string]float64{"s0": 0},
		},
		{
			Policy:              "greedy",
			TotalExecuteTime:    100 * time.Second,
			TotalScenarioCycles: 5,
			Energy:              map[string]float64{"s0": 6},
			Success:             map[string]float64{"s0": 0.25},
		},
	}

	aggs := Aggregate(results)

	if got := policies(aggs); !equal(got, []string{"greedy", "random"}) {
		t.Logf("expected first appearance order, got %v", got)
		t.FailNow()
	}

	greedy := aggs[0]

	if greedy.Trials != 2 || greedy.Latency != 25 || greedy.Energy != 4.5 || greedy.SuccessRatio != 0.5 {
		t.Logf("unexpected greedy aggregate %+v", greedy)
		t.FailNow()
	}

	random := aggs[1]

	if random.Latency != 0 || random.Energy != 0 || random.SuccessRatio != 0 {
		t.Logf("expected undefined figures to average to zero, got %+v", random)
		t.FailNow()
	}

	if !random.LatencyUndefined || !random.EnergyUndefined || greedy.LatencyUndefined || greedy.EnergyUndefined {
		t.Logf("unexpected undefined flags greedy=%+v random=%+v", greedy, random)
		t.FailNow()
	}
}

func TestRankUndefinedLast(t *testing.T) {
	results := []types.TrialResult{
		{
			Policy:           "stalled",
			TotalExecuteTime: 120 * time.Second,
			Energy:           map[string]float64{"s0": 0},
			Success:          map[string]float64{"s0": 0},
		},
		{
			Policy:              "good",
			TotalExecuteTime:    120 * time.Second,
			TotalScenarioCycles: 4,
			Energy:              map[string]float64{"s0": 3},
			Success:             map[string]float64{"s0": 1},
		},
		{
			Policy:           "idle",
			TotalExecuteTime: 60 * time.Second,
		},
	}

	ranking := Rank(Aggregate(results))

	if got := policies(ranking.Latency); !equal(got, []string{"good", "stalled", "idle"}) {
		t.Logf("expected undefined latencies last in input order, got %v", got)
		t.FailNow()
	}

	if got := policies(ranking.Energy); !equal(got, []string{"good", "stalled", "idle"}) {
		t.Logf("expected undefined energies last in input order, got %v", got)
		t.FailNow()
	}

	rows := ranking.Rows()

	if rows[0].Latency.Undefined || rows[0].Latency.Value != 30 {
		t.Logf("unexpected first latency cell %+v", rows[0].Latency)
		t.FailNow()
	}

	if !rows[1].Latency.Undefined || !rows[2].Energy.Undefined {
		t.Logf("expected undefined cells to be marked, got %+v", rows)
		t.FailNow()
	}
}

func TestMissing(t *testing.T) {
	aggs := []types.PolicyAggregate{{Policy: "greedy", Trials: 1}}

	missing := Missing([]string{"greedy", "random", "fifo"}, aggs)

	if !equal(missing, []string{"random", "fifo"}) {
		t.Logf("unexpected missing policies %v", missing)
		t.FailNow()
	}
}
