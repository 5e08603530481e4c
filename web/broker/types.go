package broker

import "encoding/json"

type Resource struct {
	Type   string `json:"type"`
	Name   string `json:"name"`
	Action string `json:"action"`
}

func NewResource(typ, name, action string) *Resource {
	return &Resource{Type: typ, Name: name, Action: action}
}

// Publish is a message pushed to every subscribed WebSocket client.
type Publish struct {
	Resource *Resource      `json:"resource"`
	Result   json.RawMessage `json:"result"`
}

// Request is sent by clients to narrow the resource types they receive.
type Request struct {
	Resource *Resource `json:"resource"`
}
