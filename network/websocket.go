package network

import (
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/veyra-labs/veyra/events"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	clientBacklog  = 64
	maxMessageSize = 512
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

type wsClient struct {
	conn *websocket.Conn
	send chan events.Event
}

// WebSocketManager fans engine events out to connected websocket clients.
type WebSocketManager struct {
	bus *events.Bus

	mu      sync.Mutex
	clients map[*wsClient]struct{}

	done chan struct{}
	once sync.Once
}

func NewWebSocketManager(bus *events.Bus) *WebSocketManager {
	return &WebSocketManager{
		bus:     bus,
		clients: make(map[*wsClient]struct{}),
		done:    make(chan struct{}),
	}
}

// Run pumps events from the bus to every connected client until Stop is
// called. Slow clients are dropped rather than allowed to stall the pump.
func (m *WebSocketManager) Run() {
	sub, cancel := m.bus.Subscribe()
	defer cancel()

	for {
		select {
		case ev, ok := <-sub:
			if !ok {
				return
			}
			m.broadcast(ev)
		case <-m.done:
			return
		}
	}
}

func (m *WebSocketManager) Stop() {
	m.once.Do(func() {
		close(m.done)
		m.mu.Lock()
		for c := range m.clients {
			close(c.send)
			delete(m.clients, c)
		}
		m.mu.Unlock()
	})
}

func (m *WebSocketManager) broadcast(ev events.Event) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for c := range m.clients {
		select {
		case c.send <- ev:
		default:
			close(c.send)
			delete(m.clients, c)
		}
	}
}

// HandleEventStream upgrades the connection and streams engine events to it.
func (m *WebSocketManager) HandleEventStream(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("WARN: websocket upgrade failed: %v", err)
		return
	}

	client := &wsClient{conn: conn, send: make(chan events.Event, clientBacklog)}

	m.mu.Lock()
	m.clients[client] = struct{}{}
	m.mu.Unlock()

	go m.writePump(client)
	go m.readPump(client)
}

func (m *WebSocketManager) writePump(c *wsClient) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case ev, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteJSON(ev); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// readPump drains client messages so control frames are processed; any
// inbound payloads are ignored, the stream is one-way.
func (m *WebSocketManager) readPump(c *wsClient) {
	defer func() {
		m.mu.Lock()
		if _, ok := m.clients[c]; ok {
			close(c.send)
			delete(m.clients, c)
		}
		m.mu.Unlock()
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}
