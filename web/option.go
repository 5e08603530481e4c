package web

import (
	"context"

	"github.com/sopiot/scheduling-framework-sub001/api/run"
)

// RunRequest is the body of POST /api/v1/runs.
type RunRequest struct {
	Topology    string   `json:"topology,omitempty"`
	Simulations []string `json:"simulations,omitempty"`
	Policies    []string `json:"policies"`
}

// RunFunc starts a comparison run for a request. It blocks until the run is
// over.
type RunFunc func(context.Context, RunRequest) (*run.Report, error)

type ServeOption func(*serverOptions)

type serverOptions struct {
	endpoint  string
	fleet     string
	runner    RunFunc
	allowCORS bool
	logs      bool
}

func newServerOptions(opts ...ServeOption) serverOptions {
	o := serverOptions{endpoint: ":3000", fleet: "default"}

	for _, opt := range opts {
		opt(&o)
	}

	return o
}

func ServeOnEndpoint(e string) ServeOption {
	return func(o *serverOptions) {
		if e != "" {
			o.endpoint = e
		}
	}
}

func ServeWithFleet(f string) ServeOption {
	return func(o *serverOptions) {
		if f != "" {
			o.fleet = f
		}
	}
}

// ServeWithRunner enables POST /api/v1/runs.
func ServeWithRunner(r RunFunc) ServeOption {
	return func(o *serverOptions) {
		o.runner = r
	}
}

func ServeWithCORS(b bool) ServeOption {
	return func(o *serverOptions) {
		o.allowCORS = b
	}
}

func ServeWithRequestLogs(b bool) ServeOption {
	return func(o *serverOptions) {
		o.logs = b
	}
}
