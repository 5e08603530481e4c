package feed

import (
	"context"
	"encoding/json"

	"github.com/sopiot/scheduling-framework-sub001/internal/metrics"
	"github.com/sopiot/scheduling-framework-sub001/types"

	log "github.com/activeshadow/libminimega/minilog"
)

// Handler is called for every event seen on a feed. Feeds call it from a
// single goroutine.
type Handler func(types.Event)

// Feed follows protocol events live while a trial executes. Feeds are purely
// observational; evaluation always uses the collected event log.
type Feed interface {
	// Run delivers events to the handler until the context is done.
	Run(context.Context, Handler) error
}

type Options struct {
	Kind   string
	Path   string
	Broker string
	Topic  string
}

// Validate checks the options that don't depend on a topology. An MQTT
// broker may still be left empty, callers default it to the root middleware.
func Validate(o Options) error {
	switch o.Kind {
	case "", "none", "mqtt":
		return nil
	case "log":
		if o.Path == "" {
			return types.NewConfigurationError("log feed requires an event log path")
		}

		return nil
	}

	return types.NewConfigurationError("unknown feed kind '%s'", o.Kind)
}

// New returns the feed for the given kind: "log" follows a local event log
// file, "mqtt" subscribes to the middleware broker, "none" or empty returns a
// nil feed.
func New(o Options) (Feed, error) {
	if err := Validate(o); err != nil {
		return nil, err
	}

	switch o.Kind {
	case "log":
		return &Tail{Path: o.Path}, nil
	case "mqtt":
		if o.Broker == "" {
			return nil, types.NewConfigurationError("mqtt feed requires a broker")
		}

		return &MQTT{Broker: o.Broker, Topic: o.Topic}, nil
	}

	return nil, nil
}

// decode parses a single JSON event and counts it.
func decode(data []byte) (types.Event, bool) {
	var e types.Event

	if err := json.Unmarshal(data, &e); err != nil {
		log.Debug("skipping malformed feed event: %v", err)
		return e, false
	}

	metrics.Events.WithLabelValues(e.Kind.String()).Inc()

	return e, true
}
