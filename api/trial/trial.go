package trial

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sopiot/scheduling-framework-sub001/types"
)

type State string

const (
	StatePending    State = "PENDING"
	StateDeploying  State = "DEPLOYING"
	StateExecuting  State = "EXECUTING"
	StateCollecting State = "COLLECTING"
	StateEvaluating State = "EVALUATING"
	StateDone       State = "DONE"
	StateFailed     State = "FAILED"
)

func (this State) Terminal() bool {
	return this == StateDone || this == StateFailed
}

const ReasonCancelled = "Cancelled"

// Failure is returned for a trial that ended in the FAILED state. State is the
// state the trial was in when it failed.
type Failure struct {
	State  State
	Reason string
	Err    error
}

func (this Failure) Error() string {
	if this.Err == nil {
		return fmt.Sprintf("trial failed during %s: %s", this.State, this.Reason)
	}

	return fmt.Sprintf("trial failed during %s: %s: %v", this.State, this.Reason, this.Err)
}

func (this Failure) Unwrap() error {
	return this.Err
}

func (this Failure) Cancelled() bool {
	return this.Reason == ReasonCancelled
}

// failure classifies err. Any error seen once ctx is done is a cancellation.
func failure(ctx context.Context, state State, err error) *Failure {
	if ctx.Err() != nil || errors.Is(err, types.ErrCancelled) || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		if !errors.Is(err, types.ErrCancelled) {
			err = fmt.Errorf("%w: %v", types.ErrCancelled, err)
		}

		return &Failure{State: state, Reason: ReasonCancelled, Err: err}
	}

	reason := "Error"

	switch {
	case errors.Is(err, types.ErrDeployment):
		reason = "DeploymentError"
	case errors.Is(err, types.ErrExecution):
		reason = "ExecutionError"
	case errors.Is(err, types.ErrEvaluation):
		reason = "EvaluationError"
	}

	return &Failure{State: state, Reason: reason, Err: err}
}

// Execution drives the workload of a single trial once the middleware is
// running.
type Execution interface {
	Start(context.Context) error

	// Wait blocks until the workload completes or the context is done.
	Wait(context.Context) error

	// Collect returns the trial event log and its wall clock duration.
	Collect(context.Context) (types.Timeline, time.Duration, error)

	// Stop tears the workload down. It is called once for every started
	// execution, whatever the outcome of the trial.
	Stop(context.Context) error
}

// Status is published on every state transition of a trial.
type Status struct {
	ID       string    `json:"id"`
	Topology string    `json:"topology"`
	Policy   string    `json:"policy"`
	State    State     `json:"state"`
	Reason   string    `json:"reason,omitempty"`
	Error    string    `json:"error,omitempty"`
	Time     time.Time `json:"time"`
}

type Listener func(Status)
