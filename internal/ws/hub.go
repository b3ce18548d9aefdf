package ws

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/marocz/scoreboard/internal/auth"
	"github.com/marocz/scoreboard/internal/display"
)

const (
	// writeTimeout is the deadline for a single write to a client.
	writeTimeout = 10 * time.Second

	// pongWait is how long to wait for a pong response before treating the
	// connection as dead.
	pongWait = 60 * time.Second

	// pingPeriod controls how often the server sends WebSocket ping frames.
	// Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	// sendBufSize is the per-client outgoing message buffer depth.
	sendBufSize = 16

	// maxInbound caps the size of a client input frame.
	maxInbound = 512
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 4096,
	// Allow all origins; callers should apply CORS at the reverse-proxy level.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Message is the JSON envelope sent to clients.
type Message struct {
	Event string       `json:"event"`
	Data  display.View `json:"data"`
}

// Input is a client input frame. Action takes precedence over Key.
type Input struct {
	Action string `json:"action,omitempty"`
	Key    string `json:"key,omitempty"`
}

// Hub manages WebSocket client connections and pushes the display view to
// all connected clients.
type Hub struct {
	session  *display.Session
	interval time.Duration

	// allowInput decides at upgrade time whether a connection may send
	// input. Unauthorized connections still receive pushes.
	allowInput auth.Authorizer

	// changed coalesces session change notifications into one pending push.
	changed chan struct{}

	mu      sync.RWMutex
	clients map[*client]struct{}
}

// client represents one connected WebSocket client.
type client struct {
	id       string
	hub      *Hub
	conn     *websocket.Conn
	send     chan []byte
	canInput bool
}

// New creates a Hub for session that also broadcasts every interval.
// allowInput gates client input frames; nil accepts input from everyone.
func New(session *display.Session, interval time.Duration, allowInput auth.Authorizer) *Hub {
	if allowInput == nil {
		allowInput = func(*http.Request) bool { return true }
	}
	h := &Hub{
		session:    session,
		interval:   interval,
		allowInput: allowInput,
		changed:    make(chan struct{}, 1),
		clients:    make(map[*client]struct{}),
	}
	session.Subscribe(h.notify)
	return h
}

// Run starts the broadcast loop. It pushes the current view on every session
// change and every interval. Run blocks until ctx is cancelled, then closes
// all active connections.
func (h *Hub) Run(ctx context.Context) {
	t := time.NewTicker(h.interval)
	defer t.Stop()

	for {
		select {
		case <-ctx.Done():
			h.closeAll()
			return
		case <-t.C:
			h.broadcast()
		case <-h.changed:
			h.broadcast()
		}
	}
}

// ServeHTTP upgrades the HTTP connection to WebSocket and serves the client.
// It sends the current view immediately on connect, then continues to
// receive broadcasts from the Run loop. Blocks until the connection closes.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		// upgrader has already written the error response.
		return
	}

	c := &client{
		id:       uuid.NewString(),
		hub:      h,
		conn:     conn,
		send:     make(chan []byte, sendBufSize),
		canInput: h.allowInput(r),
	}

	// Queue the current view before registering so the renderer can draw
	// right away and no broadcast can race the first send.
	if data, err := h.buildMessage(); err == nil {
		c.send <- data
	}
	h.register(c)
	defer h.unregister(c)
	slog.Debug("ws: client connected", "client", c.id, "remote", r.RemoteAddr, "input", c.canInput)

	go c.writePump()
	c.readPump() // blocks until connection closes
	slog.Debug("ws: client disconnected", "client", c.id)
}

// Count returns the number of currently connected clients.
func (h *Hub) Count() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// --- internal ---------------------------------------------------------------

// notify is the session change callback. It never blocks.
func (h *Hub) notify() {
	select {
	case h.changed <- struct{}{}:
	default:
	}
}

func (h *Hub) register(c *client) {
	h.mu.Lock()
	h.clients[c] = struct{}{}
	h.mu.Unlock()
}

func (h *Hub) unregister(c *client) {
	h.mu.Lock()
	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		close(c.send)
	}
	h.mu.Unlock()
}

func (h *Hub) broadcast() {
	data, err := h.buildMessage()
	if err != nil {
		slog.Warn("ws: encode view failed", "err", err)
		return
	}

	// Sends happen under the read lock so unregister cannot close a channel
	// mid-send.
	var slow []*client
	h.mu.RLock()
	for c := range h.clients {
		select {
		case c.send <- data:
		default:
			slow = append(slow, c)
		}
	}
	h.mu.RUnlock()

	for _, c := range slow {
		// Client's outgoing buffer is full, disconnect it.
		slog.Warn("ws: dropping slow client", "client", c.id)
		h.unregister(c)
	}
}

func (h *Hub) buildMessage() ([]byte, error) {
	return json.Marshal(Message{Event: "display", Data: h.session.View()})
}

func (h *Hub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.clients {
		close(c.send)
		delete(h.clients, c)
	}
}

// handleInput applies one client input frame. Input from a connection that
// was not authorized at upgrade, malformed input and unknown actions are
// logged and ignored; none of them close the connection.
func (c *client) handleInput(frame []byte) {
	if !c.canInput {
		slog.Debug("ws: ignoring input from unauthorized client", "client", c.id)
		return
	}
	var in Input
	if err := json.Unmarshal(frame, &in); err != nil {
		slog.Debug("ws: ignoring malformed input", "client", c.id, "err", err)
		return
	}
	name := in.Action
	if name == "" {
		name = in.Key
	}
	a, err := display.ParseAction(name)
	if err != nil {
		slog.Debug("ws: ignoring input", "client", c.id, "err", err)
		return
	}
	slog.Debug("ws: input", "client", c.id, "action", a)
	c.hub.session.Apply(a)
}

// writePump drains the client's send channel and forwards messages to the
// WebSocket connection. It also sends periodic ping frames. Runs in its own
// goroutine per client.
func (c *client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			if !ok {
				// Channel was closed (hub is shutting down or client removed).
				c.conn.WriteMessage(websocket.CloseMessage, []byte{}) //nolint:errcheck
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// readPump reads input frames and control messages (pong, close) and detects
// disconnects. Blocks until the connection closes.
func (c *client) readPump() {
	defer c.conn.Close()
	c.conn.SetReadLimit(maxInbound)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})
	for {
		typ, frame, err := c.conn.ReadMessage()
		if err != nil {
			break
		}
		if typ == websocket.TextMessage {
			c.handleInput(frame)
		}
	}
}
