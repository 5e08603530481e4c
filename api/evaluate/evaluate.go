package evaluate

import (
	"fmt"
	"time"

	"github.com/sopiot/scheduling-framework-sub001/types"

	log "github.com/activeshadow/libminimega/minilog"
)

// SuccessCodes are the scenario run result error codes counted as success.
// -4 is reported by the middleware for a run that completed after a non-fatal
// condition and is treated as success.
var SuccessCodes = map[int]bool{0: true, -4: true}

// Average is the averaging rule used throughout evaluation and ranking: the
// mean of the strictly positive values, or zero if there are none.
func Average(values []float64) float64 {
	return types.Average(values)
}

// Run is one scenario run attempt, paired with its result if one was seen.
type Run struct {
	Scenario string
	Start    time.Duration
	End      time.Duration
	Done     bool
	Code     int
}

func (this Run) Success() bool {
	return this.Done && SuccessCodes[this.Code]
}

// Pair matches each SCENARIO_RUN with the next SCENARIO_RUN_RESULT of the same
// scenario, first in first out. Runs without a result are returned with Done
// set to false. Results without a pending run are ignored.
func Pair(timeline types.Timeline) map[string][]Run {
	var (
		runs    = make(map[string][]Run)
		pending = make(map[string][]int)
	)

	for _, e := range timeline {
		switch e.Kind {
		case types.EventScenarioRun:
			runs[e.Scenario] = append(runs[e.Scenario], Run{Scenario: e.Scenario, Start: e.Timestamp})
			pending[e.Scenario] = append(pending[e.Scenario], len(runs[e.Scenario])-1)
		case types.EventScenarioRunResult:
			queue := pending[e.Scenario]

			if len(queue) == 0 {
				log.Debug("ignoring result for scenario %s with no pending run at %v", e.Scenario, e.Timestamp)
				continue
			}

			run := &runs[e.Scenario][queue[0]]
			run.End = e.Timestamp
			run.Done = true
			run.Code = e.ErrorCode

			pending[e.Scenario] = queue[1:]
		}
	}

	return runs
}

// Evaluate reduces a trial timeline and its wall clock duration into a trial
// result. Only scenarios in the given set are considered. The returned result
// has no policy, topology or ID set.
func Evaluate(timeline types.Timeline, duration time.Duration, scenarios []*types.Scenario) (*types.TrialResult, error) {
	if len(timeline) == 0 {
		return nil, fmt.Errorf("%w: empty timeline", types.ErrEvaluation)
	}

	var (
		runs   = Pair(timeline)
		values = timeline.Filter(types.EventValuePublish)
		result = &types.TrialResult{
			TotalExecuteTime: duration,
			Energy:           make(map[string]float64),
			Success:          make(map[string]float64),
		}
		attempted bool
	)

	for _, s := range scenarios {
		sruns := runs[s.Name]

		if len(sruns) == 0 {
			log.Warn("scenario %s never ran", s.Name)

			result.Energy[s.Name] = 0
			result.Success[s.Name] = 0

			continue
		}

		attempted = true

		var (
			successes int
			energy    []float64
		)

		for _, r := range sruns {
			if !r.Done {
				continue
			}

			result.TotalScenarioCycles++

			if r.Success() {
				successes++
			}

			energy = append(energy, windowEnergy(values, s, r))
		}

		result.Energy[s.Name] = Average(energy)
		result.Success[s.Name] = float64(successes) / float64(len(sruns))
	}

	if !attempted {
		return nil, fmt.Errorf("%w: no scenario runs found for any known scenario", types.ErrEvaluation)
	}

	return result, nil
}

// windowEnergy sums the values published by the scenario's things during the
// run.
func windowEnergy(values types.Timeline, s *types.Scenario, r Run) float64 {
	things := make(map[string]bool, len(s.Things))

	for _, t := range s.Things {
		things[t] = true
	}

	var sum float64

	for _, e := range values.Window(r.Start, r.End) {
		if things[e.Thing] {
			sum += e.Value
		}
	}

	return sum
}
