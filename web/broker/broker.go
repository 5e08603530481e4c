package broker

import (
	"context"
	"encoding/json"

	log "github.com/activeshadow/libminimega/minilog"
)

var (
	clients    = make(map[*Client]bool)
	broadcast  = make(chan Publish, 256)
	register   = make(chan *Client)
	unregister = make(chan *Client)
)

// Start fans published messages out to registered clients until the context
// is done.
func Start(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			for cli := range clients {
				cli.close()
				delete(clients, cli)
			}

			return
		case cli := <-register:
			clients[cli] = true
		case cli := <-unregister:
			if _, ok := clients[cli]; ok {
				cli.close()
				delete(clients, cli)
			}
		case pub := <-broadcast:
			for cli := range clients {
				if !cli.Subscribed(pub.Resource.Type) {
					continue
				}

				select {
				case cli.publish <- pub:
				default:
					cli.close()
					delete(clients, cli)
				}
			}
		}
	}
}

// Broadcast queues a message for every client. Messages are dropped if the
// broker is not keeping up, so publishers never block.
func Broadcast(resource *Resource, msg json.RawMessage) {
	select {
	case broadcast <- Publish{Resource: resource, Result: msg}:
	default:
		log.Debug("broker queue full, dropping %s/%s message", resource.Type, resource.Name)
	}
}
