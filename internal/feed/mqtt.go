package feed

import (
	"context"
	"fmt"
	"time"

	"github.com/sopiot/scheduling-framework-sub001/types"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/gofrs/uuid"
)

const DefaultTopic = "schedbench/events/#"

// MQTT subscribes to the root middleware's broker, where events are published
// as JSON.
type MQTT struct {
	// Broker is a URI such as tcp://10.0.0.1:1883.
	Broker string
	Topic  string
}

func (this *MQTT) Run(ctx context.Context, handle Handler) error {
	topic := this.Topic
	if topic == "" {
		topic = DefaultTopic
	}

	events := make(chan types.Event, 1024)

	opts := mqtt.NewClientOptions()
	opts.AddBroker(this.Broker)
	opts.SetClientID("schedbench-" + uuid.Must(uuid.NewV4()).String()[:8])
	opts.SetCleanSession(true)
	opts.SetAutoReconnect(true)
	opts.SetKeepAlive(30 * time.Second)

	c := mqtt.NewClient(opts)

	if token := c.Connect(); token.Wait() && token.Error() != nil {
		return fmt.Errorf("connecting to MQTT broker %s: %w", this.Broker, token.Error())
	}

	defer c.Disconnect(250)

	token := c.Subscribe(topic, 0, func(_ mqtt.Client, msg mqtt.Message) {
		e, ok := decode(msg.Payload())
		if !ok {
			return
		}

		select {
		case events <- e:
		default:
			// Slow handler, drop rather than stall the MQTT client.
		}
	})

	if token.Wait() && token.Error() != nil {
		return fmt.Errorf("subscribing to %s: %w", topic, token.Error())
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case e := <-events:
			handle(e)
		}
	}
}
