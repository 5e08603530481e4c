package run

import (
	"time"

	"github.com/sopiot/scheduling-framework-sub001/api/policy"
	"github.com/sopiot/scheduling-framework-sub001/api/trial"
	"github.com/sopiot/scheduling-framework-sub001/types"
	"github.com/sopiot/scheduling-framework-sub001/util/sigterm"
)

// FailurePolicy decides what happens to a policy's remaining trials once one
// of its trials fails to deploy.
type FailurePolicy string

const (
	SkipTrial  FailurePolicy = "skip-trial"
	SkipPolicy FailurePolicy = "skip-policy"
)

func ParseFailurePolicy(s string) (FailurePolicy, error) {
	switch FailurePolicy(s) {
	case "", SkipTrial:
		return SkipTrial, nil
	case SkipPolicy:
		return SkipPolicy, nil
	}

	return "", types.NewConfigurationError("unknown deployment failure policy '%s'", s)
}

// ExecutionFactory returns the workload execution for one trial.
type ExecutionFactory func(*types.Topology, policy.Policy) trial.Execution

type Option func(*options)

type options struct {
	fleet     string
	runner    *trial.Runner
	execution ExecutionFactory
	session   *sigterm.Session
	timeout   time.Duration
	onFailure FailurePolicy
}

func newOptions(opts ...Option) options {
	o := options{fleet: "default", onFailure: SkipTrial}

	for _, opt := range opts {
		opt(&o)
	}

	return o
}

// Fleet names the middleware fleet the run holds exclusively.
func Fleet(f string) Option {
	return func(o *options) {
		if f != "" {
			o.fleet = f
		}
	}
}

func Runner(r *trial.Runner) Option {
	return func(o *options) {
		o.runner = r
	}
}

func Execution(f ExecutionFactory) Option {
	return func(o *options) {
		o.execution = f
	}
}

// Session hands out the per-trial contexts so operator interrupts abort the
// trial in flight only.
func Session(s *sigterm.Session) Option {
	return func(o *options) {
		o.session = s
	}
}

// TrialTimeout bounds every trial. Zero means no deadline.
func TrialTimeout(t time.Duration) Option {
	return func(o *options) {
		o.timeout = t
	}
}

func OnFailure(p FailurePolicy) Option {
	return func(o *options) {
		o.onFailure = p
	}
}
