package trial

import (
	"time"

	"github.com/sopiot/scheduling-framework-sub001/api/deploy"
	"github.com/sopiot/scheduling-framework-sub001/internal/remote"
)

type Option func(*options)

type options struct {
	dialer    remote.Dialer
	bundle    deploy.Bundle
	deploy    []deploy.Option
	listeners []Listener
	persister *Persister
	teardown  time.Duration
}

func newOptions(opts ...Option) options {
	o := options{teardown: 30 * time.Second}

	for _, opt := range opts {
		opt(&o)
	}

	return o
}

func Dialer(d remote.Dialer) Option {
	return func(o *options) {
		o.dialer = d
	}
}

func Bundle(b deploy.Bundle) Option {
	return func(o *options) {
		o.bundle = b
	}
}

// DeployOptions are passed to the executor used for provisioning and
// starting the middleware.
func DeployOptions(opts ...deploy.Option) Option {
	return func(o *options) {
		o.deploy = append(o.deploy, opts...)
	}
}

// WithListener registers a listener for trial status updates. Listeners are
// called synchronously from the trial goroutine.
func WithListener(l Listener) Option {
	return func(o *options) {
		o.listeners = append(o.listeners, l)
	}
}

func WithPersister(p *Persister) Option {
	return func(o *options) {
		o.persister = p
	}
}

// TeardownTimeout bounds killing the middleware after a trial.
func TeardownTimeout(t time.Duration) Option {
	return func(o *options) {
		if t > 0 {
			o.teardown = t
		}
	}
}
