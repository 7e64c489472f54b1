package listener

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/beka-birhanu/maze-craze/game"
	logger "github.com/beka-birhanu/maze-craze/log"
	"github.com/beka-birhanu/maze-craze/protocol"
	"github.com/gorilla/websocket"
)

// Websocket settings
const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 512
	sendBufferSize = 16
)

// WebsocketOption configures a WebsocketHub.
type WebsocketOption func(*WebsocketHub)

// WebsocketWithLogger sets the hub logger.
func WebsocketWithLogger(lg logger.Logger) WebsocketOption {
	return func(h *WebsocketHub) {
		h.logger = lg
	}
}

// WebsocketWithInitialState makes the hub greet every new client with the
// snapshot returned by f.
func WebsocketWithInitialState(f func() game.Snapshot) WebsocketOption {
	return func(h *WebsocketHub) {
		h.initialState = f
	}
}

// WebsocketWithCheckOrigin replaces the origin check of the upgrader.
func WebsocketWithCheckOrigin(f func(*http.Request) bool) WebsocketOption {
	return func(h *WebsocketHub) {
		h.upgrader.CheckOrigin = f
	}
}

// wsClient is one websocket subscriber.
type wsClient struct {
	conn *websocket.Conn
	send chan []byte
}

// WebsocketHub accepts the same text commands as the TCP listener, one or more
// lines per text message, and pushes session snapshots to every connected client.
// A client that cannot keep up loses snapshots instead of slowing the game down.
type WebsocketHub struct {
	upgrader     websocket.Upgrader
	handler      EventHandler
	initialState func() game.Snapshot
	clients      map[*wsClient]struct{}
	clientsLock  sync.RWMutex
	logger       logger.Logger
}

// NewWebsocketHub creates a hub delivering decoded events to handler.
func NewWebsocketHub(handler EventHandler, options ...WebsocketOption) (*WebsocketHub, error) {
	if handler == nil {
		return nil, ErrMissingHandler
	}

	h := &WebsocketHub{
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
		handler: handler,
		clients: make(map[*wsClient]struct{}),
		logger:  logger.Discard(),
	}
	for _, opt := range options {
		opt(h)
	}
	return h, nil
}

// ServeHTTP upgrades the request and serves the client until it disconnects.
func (h *WebsocketHub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warning(fmt.Sprintf("websocket upgrade: %s", err))
		return
	}

	c := &wsClient{conn: conn, send: make(chan []byte, sendBufferSize)}
	h.register(c)
	h.logger.Debug(fmt.Sprintf("websocket client connected: %s", conn.RemoteAddr()))

	if h.initialState != nil {
		if payload, err := json.Marshal(h.initialState()); err == nil {
			h.enqueue(c, payload)
		}
	}

	go h.writePump(c)
	h.readPump(c)
}

// Broadcast sends snap to every connected client.
func (h *WebsocketHub) Broadcast(snap game.Snapshot) {
	payload, err := json.Marshal(snap)
	if err != nil {
		h.logger.Error(fmt.Sprintf("encoding snapshot: %s", err))
		return
	}

	h.clientsLock.RLock()
	defer h.clientsLock.RUnlock()
	for c := range h.clients {
		h.enqueue(c, payload)
	}
}

// ClientCount returns the number of connected clients.
func (h *WebsocketHub) ClientCount() int {
	h.clientsLock.RLock()
	defer h.clientsLock.RUnlock()
	return len(h.clients)
}

// Close disconnects every client.
func (h *WebsocketHub) Close() {
	h.clientsLock.Lock()
	defer h.clientsLock.Unlock()
	for c := range h.clients {
		_ = c.conn.Close()
	}
}

func (h *WebsocketHub) register(c *wsClient) {
	h.clientsLock.Lock()
	h.clients[c] = struct{}{}
	h.clientsLock.Unlock()
}

func (h *WebsocketHub) unregister(c *wsClient) {
	h.clientsLock.Lock()
	defer h.clientsLock.Unlock()
	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		close(c.send)
	}
}

// enqueue drops the payload when the client's buffer is full.
func (h *WebsocketHub) enqueue(c *wsClient, payload []byte) {
	select {
	case c.send <- payload:
	default:
		h.logger.Debug(fmt.Sprintf("dropping snapshot for slow client %s", c.conn.RemoteAddr()))
	}
}

// readPump decodes commands from the client.
func (h *WebsocketHub) readPump(c *wsClient) {
	defer func() {
		h.unregister(c)
		_ = c.conn.Close()
		h.logger.Debug(fmt.Sprintf("websocket client disconnected: %s", c.conn.RemoteAddr()))
	}()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		messageType, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.logger.Debug(fmt.Sprintf("websocket read: %s", err))
			}
			return
		}
		if messageType != websocket.TextMessage {
			continue
		}

		for _, line := range bytes.Split(message, []byte("\n")) {
			if len(bytes.TrimSpace(line)) == 0 {
				continue
			}
			event, err := protocol.DecodeBytes(line)
			if err != nil {
				h.logger.Debug(fmt.Sprintf("dropping websocket line: %s", err))
				continue
			}
			h.handler(event)
		}
	}
}

// writePump forwards queued snapshots and keeps the connection alive with pings.
func (h *WebsocketHub) writePump(c *wsClient) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case payload, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
