package trial

import (
	"context"
	"fmt"
	"time"

	"github.com/sopiot/scheduling-framework-sub001/api/deploy"
	"github.com/sopiot/scheduling-framework-sub001/api/evaluate"
	"github.com/sopiot/scheduling-framework-sub001/api/policy"
	"github.com/sopiot/scheduling-framework-sub001/internal/metrics"
	"github.com/sopiot/scheduling-framework-sub001/types"

	log "github.com/activeshadow/libminimega/minilog"
	"github.com/gofrs/uuid"
)

// Runner runs trials one at a time. A trial deploys a policy across every
// middleware node of a topology, drives the workload, and evaluates the
// collected event log.
type Runner struct {
	options  options
	executor *deploy.Executor
}

func NewRunner(opts ...Option) *Runner {
	o := newOptions(opts...)

	return &Runner{
		options:  o,
		executor: deploy.NewExecutor(append(o.deploy, deploy.OnError(deploy.OnErrorAbort))...),
	}
}

// trial tracks the state of a single run of Runner.Run.
type trial struct {
	id        string
	topology  string
	policy    string
	state     State
	listeners []Listener
}

func (this *trial) transition(next State, f *Failure) {
	log.Info("trial %s (%s/%s): %s -> %s", this.id, this.topology, this.policy, this.state, next)

	this.state = next

	metrics.TrialTransitions.WithLabelValues(string(next)).Inc()

	status := Status{
		ID:       this.id,
		Topology: this.topology,
		Policy:   this.policy,
		State:    next,
		Time:     time.Now(),
	}

	if f != nil {
		status.Reason = f.Reason

		if f.Err != nil {
			status.Error = f.Err.Error()
		}
	}

	for _, l := range this.listeners {
		l(status)
	}
}

func (this *trial) fail(f *Failure) *Failure {
	log.Error("trial %s (%s/%s) failed: %v", this.id, this.topology, this.policy, f)

	this.transition(StateFailed, f)

	outcome := "failed"
	if f.Cancelled() {
		outcome = "cancelled"
	}

	metrics.Trials.WithLabelValues(this.policy, outcome).Inc()

	return f
}

// Run executes one trial of the given policy on the given topology. A trial
// that does not reach DONE returns a *Failure and no result. The middleware is
// killed on every node once the trial is over, whatever its outcome.
func (this *Runner) Run(ctx context.Context, topo *types.Topology, pol policy.Policy, exec Execution) (*types.TrialResult, error) {
	t := &trial{
		id:        uuid.Must(uuid.NewV4()).String(),
		topology:  topo.Name,
		policy:    pol.Name,
		listeners: this.options.listeners,
	}

	t.transition(StatePending, nil)

	var (
		prov = deploy.Provisioner{
			Topology: topo,
			Dialer:   this.options.dialer,
			Bundle:   this.options.bundle,
		}

		nodes   = topo.TraverseNodes(topo.Root())
		started bool
	)

	teardown := func() {
		ctx, cancel := context.WithTimeout(context.Background(), this.options.teardown)
		defer cancel()

		if started {
			if err := exec.Stop(ctx); err != nil {
				log.Warn("stopping workload for trial %s: %v", t.id, err)
			}
		}

		kill := deploy.NewExecutor(deploy.Parallel(this.executor.Parallel), deploy.OnError(deploy.OnErrorContinue))

		if err := kill.Run(ctx, nodes, prov.Kill()); err != nil {
			log.Warn("killing middleware for trial %s: %v", t.id, err)
		}
	}

	t.transition(StateDeploying, nil)

	if err := this.executor.Run(ctx, nodes, prov.Provision(pol.Path)); err != nil {
		return nil, t.fail(failure(ctx, StateDeploying, err))
	}

	if err := this.executor.Run(ctx, nodes, prov.Start(pol.Path)); err != nil {
		teardown()
		return nil, t.fail(failure(ctx, StateDeploying, err))
	}

	t.transition(StateExecuting, nil)

	if err := exec.Start(ctx); err != nil {
		teardown()
		return nil, t.fail(failure(ctx, StateExecuting, fmt.Errorf("%w: %v", types.ErrExecution, err)))
	}

	started = true

	if err := exec.Wait(ctx); err != nil {
		teardown()
		return nil, t.fail(failure(ctx, StateExecuting, err))
	}

	t.transition(StateCollecting, nil)

	timeline, duration, err := exec.Collect(ctx)

	teardown()

	if err != nil {
		return nil, t.fail(failure(ctx, StateCollecting, err))
	}

	t.transition(StateEvaluating, nil)

	result, err := evaluate.Evaluate(timeline, duration, topo.Scenarios())
	if err != nil {
		return nil, t.fail(failure(ctx, StateEvaluating, err))
	}

	result.ID = t.id
	result.Policy = pol.Name
	result.Topology = topo.Name
	result.Created = time.Now().UTC()

	if this.options.persister != nil {
		if err := this.options.persister.Save(*result); err != nil {
			log.Error("persisting result of trial %s: %v", t.id, err)
		}
	}

	t.transition(StateDone, nil)

	metrics.Trials.WithLabelValues(pol.Name, "done").Inc()

	return result, nil
}
