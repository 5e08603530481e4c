package broker

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	log "github.com/activeshadow/libminimega/minilog"
	"github.com/gorilla/websocket"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
	maxMsgSize = 512
)

var (
	newline  = []byte{'\n'}
	upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     func(*http.Request) bool { return true },
	}
)

type Client struct {
	sync.RWMutex

	conn *websocket.Conn

	publish chan Publish
	done    chan struct{}
	once    sync.Once

	// Resource types the client asked for. Empty means everything.
	types map[string]bool
}

func NewClient(conn *websocket.Conn) *Client {
	log.Debug("new WS client created")

	return &Client{
		conn:    conn,
		publish: make(chan Publish, 256),
		done:    make(chan struct{}),
	}
}

func (this *Client) Go() {
	register <- this

	go this.write()
	go this.read()
}

// Stop asks the broker to drop the client.
func (this *Client) Stop() {
	select {
	case unregister <- this:
	case <-this.done:
	}
}

func (this *Client) Subscribed(typ string) bool {
	this.RLock()
	defer this.RUnlock()

	return len(this.types) == 0 || this.types[typ]
}

// close is only called by the broker.
func (this *Client) close() {
	this.once.Do(func() {
		close(this.done)
		this.conn.Close()

		log.Debug("WS client destroyed")
	})
}

func (this *Client) read() {
	defer this.Stop()

	this.conn.SetReadLimit(maxMsgSize)
	this.conn.SetReadDeadline(time.Now().Add(pongWait))

	this.conn.SetPongHandler(func(string) error {
		this.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, msg, err := this.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Debug("reading from WebSocket client: %v", err)
			}

			return
		}

		var req Request
		if err := json.Unmarshal(msg, &req); err != nil {
			log.Error("cannot unmarshal request JSON: %v", err)
			continue
		}

		if req.Resource == nil || req.Resource.Action != "subscribe" {
			log.Error("unexpected WebSocket request: %s", string(msg))
			continue
		}

		this.Lock()

		if this.types == nil {
			this.types = make(map[string]bool)
		}

		this.types[req.Resource.Type] = true

		this.Unlock()
	}
}

func (this *Client) write() {
	defer this.Stop()

	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-this.done:
			this.conn.WriteMessage(websocket.CloseMessage, []byte{})
			return
		case msg := <-this.publish:
			this.conn.SetWriteDeadline(time.Now().Add(writeWait))

			w, err := this.conn.NextWriter(websocket.TextMessage)
			if err != nil {
				return
			}

			b, _ := json.Marshal(msg)
			w.Write(b)

			for i := 0; i < len(this.publish); i++ {
				w.Write(newline)

				b, _ := json.Marshal(<-this.publish)
				w.Write(b)
			}

			if err := w.Close(); err != nil {
				return
			}
		case <-ticker.C:
			this.conn.SetWriteDeadline(time.Now().Add(writeWait))

			if err := this.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Error("upgrading connection to WebSocket: %v", err)
		return
	}

	NewClient(conn).Go()
}
