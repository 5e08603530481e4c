package web

import (
	"encoding/json"

	"github.com/sopiot/scheduling-framework-sub001/api/trial"
	"github.com/sopiot/scheduling-framework-sub001/types"
	"github.com/sopiot/scheduling-framework-sub001/web/broker"

	log "github.com/activeshadow/libminimega/minilog"
)

// PublishStatus is a trial listener pushing every state transition to
// WebSocket clients.
func PublishStatus(status trial.Status) {
	body, err := json.Marshal(status)
	if err != nil {
		log.Error("marshaling trial status: %v", err)
		return
	}

	broker.Broadcast(broker.NewResource("trial", status.Topology+"_"+status.Policy, string(status.State)), body)
}

// PublishEvent pushes a live protocol event to WebSocket clients.
func PublishEvent(event types.Event) {
	body, err := json.Marshal(event)
	if err != nil {
		return
	}

	broker.Broadcast(broker.NewResource("event", event.Scenario, event.Kind.String()), body)
}
