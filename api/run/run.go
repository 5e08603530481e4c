package run

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/sopiot/scheduling-framework-sub001/api/policy"
	"github.com/sopiot/scheduling-framework-sub001/api/rank"
	"github.com/sopiot/scheduling-framework-sub001/api/trial"
	"github.com/sopiot/scheduling-framework-sub001/internal/metrics"
	"github.com/sopiot/scheduling-framework-sub001/types"
	"github.com/sopiot/scheduling-framework-sub001/util/cache"

	log "github.com/activeshadow/libminimega/minilog"
)

// ErrFleetLocked is returned when another run holds the middleware fleet.
var ErrFleetLocked = errors.New("fleet locked")

// Report is the outcome of a comparison run.
type Report struct {
	Results    []types.TrialResult     `json:"results"`
	Failures   []*trial.Failure        `json:"-"`
	Aggregates []types.PolicyAggregate `json:"aggregates"`
	Ranking    rank.Ranking            `json:"ranking"`
	Missing    []string                `json:"missing,omitempty"`
	Warnings   []error                 `json:"-"`

	// Interrupted is set when the whole session was cancelled before every
	// trial ran. The report still covers the completed trials.
	Interrupted bool `json:"interrupted"`
}

// Run executes one trial for every (topology, policy) pair, sequentially,
// then aggregates and ranks the completed trials. A failed trial never aborts
// the run; policies without any completed trial are reported in
// Report.Missing.
func Run(ctx context.Context, topologies []*types.Topology, policies []policy.Policy, opts ...Option) (*Report, error) {
	o := newOptions(opts...)

	if len(topologies) == 0 {
		return nil, types.NewConfigurationError("no topologies to run")
	}

	if len(policies) == 0 {
		return nil, types.NewConfigurationError("no policies to run")
	}

	if o.runner == nil || o.execution == nil {
		return nil, fmt.Errorf("run requires a trial runner and an execution factory")
	}

	lock := "fleet|" + o.fleet

	if status := cache.Lock(lock, cache.Status(fmt.Sprintf("running %d trial(s)", len(topologies)*len(policies))), 0); status != "" {
		return nil, fmt.Errorf("%w: %s is %s", ErrFleetLocked, o.fleet, status)
	}

	defer cache.Unlock(lock)

	report := new(Report)

	for _, pol := range policies {
	topologies:
		for _, topo := range topologies {
			if ctx.Err() != nil {
				report.Interrupted = true
				break
			}

			log.Info("starting trial of policy %s on topology %s", pol.Name, topo.Name)

			result, err := runTrial(ctx, o, topo, pol)
			if err == nil {
				report.Results = append(report.Results, *result)
				continue
			}

			var failure *trial.Failure

			if !errors.As(err, &failure) {
				failure = &trial.Failure{State: trial.StateFailed, Reason: "Error", Err: err}
			}

			report.Failures = append(report.Failures, failure)
			report.Warnings = append(report.Warnings, fmt.Errorf("trial of policy %s on topology %s failed: %w", pol.Name, topo.Name, err))

			if o.onFailure == SkipPolicy && errors.Is(err, types.ErrDeployment) {
				log.Warn("skipping remaining topologies for policy %s after deployment failure", pol.Name)
				break topologies
			}
		}

		if report.Interrupted {
			break
		}
	}

	report.Aggregates = rank.Aggregate(report.Results)
	report.Ranking = rank.Rank(report.Aggregates)
	report.Missing = rank.Missing(policy.Names(policies), report.Aggregates)

	for _, name := range report.Missing {
		report.Warnings = append(report.Warnings, fmt.Errorf("policy %s has no completed trials and is not ranked", name))
	}

	for _, agg := range report.Aggregates {
		latency, energy := agg.Latency, agg.Energy

		if agg.LatencyUndefined {
			latency = math.NaN()
		}

		if agg.EnergyUndefined {
			energy = math.NaN()
		}

		metrics.SetPolicy(agg.Policy, latency, energy, agg.SuccessRatio)
	}

	return report, nil
}

func runTrial(ctx context.Context, o options, topo *types.Topology, pol policy.Policy) (*types.TrialResult, error) {
	var (
		tctx   context.Context
		cancel context.CancelFunc
	)

	if o.session != nil {
		tctx, cancel = o.session.Trial()
	} else {
		tctx, cancel = context.WithCancel(ctx)
	}

	defer cancel()

	if o.timeout > 0 {
		var timeout context.CancelFunc

		tctx, timeout = context.WithTimeout(tctx, o.timeout)
		defer timeout()
	}

	start := time.Now()

	result, err := o.runner.Run(tctx, topo, pol, o.execution(topo, pol))

	log.Info("trial of policy %s on topology %s finished after %v", pol.Name, topo.Name, time.Since(start))

	return result, err
}
