package util

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/sopiot/scheduling-framework-sub001/api/rank"
	"github.com/sopiot/scheduling-framework-sub001/types"
)

func TestPrintRanking(t *testing.T) {
	ranking := rank.Rank([]types.PolicyAggregate{
		{Policy: "A", Latency: 10, Energy: 5, SuccessRatio: 0.9},
		{Policy: "B", Latency: 8, Energy: 6, SuccessRatio: 0.95},
		{Policy: "C", LatencyUndefined: true, EnergyUndefined: true},
	})

	var buf bytes.Buffer

	PrintRanking(&buf, ranking)

	out := buf.String()

	for _, want := range []string{"QoS (latency)", "Energy saving", "Stability (success ratio)", "8.000 (B)", "5.000 (A)", "0.950 (B)", "undefined (C)"} {
		if !strings.Contains(out, want) {
			t.Logf("expected %q in ranking table:\n%s", want, out)
			t.FailNow()
		}
	}
}

func TestPrintTrialReport(t *testing.T) {
	result := types.TrialResult{
		Topology:         "campus",
		Policy:           "greedy",
		TotalExecuteTime: 60 * time.Second,
		Energy:           map[string]float64{"scenario_0": 2.5},
		Success:          map[string]float64{"scenario_0": 1},
	}

	var buf bytes.Buffer

	PrintTrialReport(&buf, result)

	out := buf.String()

	if !strings.Contains(out, "n/a") || !strings.Contains(out, "scenario_0") || !strings.Contains(out, "2.500") {
		t.Logf("unexpected report:\n%s", out)
		t.FailNow()
	}
}
