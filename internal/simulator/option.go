package simulator

import (
	"time"

	"github.com/sopiot/scheduling-framework-sub001/internal/feed"
	"github.com/sopiot/scheduling-framework-sub001/types"
)

const (
	DefaultCommand  = "./simulator --manifest ${MANIFEST} --event-log ${EVENT_LOG} --broker ${ROOT_HOST}:${MQTT_PORT}"
	DefaultEventLog = "simulator_events.log"
	DefaultInterval = 2 * time.Second
)

type Option func(*options)

type options struct {
	command   string
	remoteDir string
	eventLog  string
	interval  time.Duration
	feed      feed.Feed
	handler   feed.Handler
}

func newOptions(opts ...Option) options {
	o := options{
		command:   DefaultCommand,
		remoteDir: "/tmp/schedbench",
		eventLog:  DefaultEventLog,
		interval:  DefaultInterval,
	}

	for _, opt := range opts {
		opt(&o)
	}

	return o
}

// Command sets the simulator start command. It is expanded on the root node,
// see Simulator.Command.
func Command(c string) Option {
	return func(o *options) {
		if c != "" {
			o.command = c
		}
	}
}

// RemoteDir is used when the root node does not set its own remote directory.
func RemoteDir(d string) Option {
	return func(o *options) {
		if d != "" {
			o.remoteDir = d
		}
	}
}

// EventLog is the name of the event log written by the simulator, relative
// to the remote directory.
func EventLog(l string) Option {
	return func(o *options) {
		if l != "" {
			o.eventLog = l
		}
	}
}

// PollInterval sets how often Wait checks whether the simulator is done.
func PollInterval(i time.Duration) Option {
	return func(o *options) {
		if i > 0 {
			o.interval = i
		}
	}
}

// LiveFeed follows events while the simulator runs. Feed errors are logged
// and never fail the trial.
func LiveFeed(f feed.Feed, h func(types.Event)) Option {
	return func(o *options) {
		o.feed = f
		o.handler = h
	}
}
