package api

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/Gowtham-1301/cardiopulse/internal/monitor"
)

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer
	pongWait = 60 * time.Second

	// Send pings to peer with this period (must be less than pongWait)
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer
	maxMessageSize = 512
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow all origins for development
	},
}

// ClientMessage represents a message from client to server
type ClientMessage struct {
	Type     string   `json:"type"`     // "subscribe" or "unsubscribe"
	Sessions []string `json:"sessions"` // Session names or ["all"]
}

// ServerMessage represents a message from server to client
type ServerMessage struct {
	Type string      `json:"type"` // "detection", "error"
	Data interface{} `json:"data"`
}

// Hub maintains the set of active clients and broadcasts detection updates
type Hub struct {
	// Registered clients
	clients map[*Client]bool

	// Channel for broadcasting messages to clients
	broadcast chan ServerMessage

	// Register requests from clients
	register chan *Client

	// Unregister requests from clients
	unregister chan *Client

	// Monitor for subscribing to detection updates
	monitor *monitor.Monitor

	// Subscription to monitor events
	monitorSub <-chan monitor.Update

	// Shutdown signal
	done chan struct{}

	mu sync.RWMutex
}

// NewHub creates a new Hub
func NewHub() *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		broadcast:  make(chan ServerMessage, 256),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
	}
}

// SetMonitor sets the monitor and subscribes to detection updates
func (h *Hub) SetMonitor(m *monitor.Monitor) {
	h.monitor = m
	h.monitorSub = m.Subscribe()
}

// Run starts the hub's main loop
func (h *Hub) Run() {
	// Start goroutine to listen for monitor events
	if h.monitorSub != nil {
		go h.listenMonitor()
	}

	for {
		select {
		case <-h.done:
			// Shutdown requested - close all client connections
			h.mu.Lock()
			for client := range h.clients {
				close(client.send)
				delete(h.clients, client)
			}
			h.mu.Unlock()
			log.Println("[WebSocket] Hub stopped")
			return

		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			h.mu.Unlock()
			log.Printf("[WebSocket] Client connected (total: %d)", len(h.clients))

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
			}
			h.mu.Unlock()
			log.Printf("[WebSocket] Client disconnected (total: %d)", len(h.clients))

		case message := <-h.broadcast:
			h.mu.RLock()
			for client := range h.clients {
				// Check if client is subscribed to this session
				if message.Type == "detection" {
					if update, ok := message.Data.(monitor.Update); ok {
						if !client.isSubscribed(update.Session) {
							continue
						}
					}
				}

				select {
				case client.send <- message:
				default:
					// Client buffer full, close connection
					h.mu.RUnlock()
					h.mu.Lock()
					close(client.send)
					delete(h.clients, client)
					h.mu.Unlock()
					h.mu.RLock()
				}
			}
			h.mu.RUnlock()
		}
	}
}

// Stop signals the hub to shutdown
func (h *Hub) Stop() {
	close(h.done)
}

// listenMonitor forwards detection updates from the monitor
func (h *Hub) listenMonitor() {
	for update := range h.monitorSub {
		h.broadcast <- ServerMessage{
			Type: "detection",
			Data: update,
		}
	}
}

// Client represents a WebSocket client
type Client struct {
	hub  *Hub
	conn *websocket.Conn
	send chan ServerMessage

	// Subscribed sessions (empty = subscribed to none)
	sessions    map[string]bool
	allSessions bool
	mu          sync.RWMutex
}

// isSubscribed checks if client is subscribed to a session
func (c *Client) isSubscribed(session string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.allSessions {
		return true
	}
	return c.sessions[session]
}

// subscribe adds sessions to subscription
func (c *Client) subscribe(sessions []string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, s := range sessions {
		if s == "all" {
			c.allSessions = true
			return
		}
		c.sessions[s] = true
	}
}

// unsubscribe removes sessions from subscription
func (c *Client) unsubscribe(sessions []string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, s := range sessions {
		if s == "all" {
			c.allSessions = false
			c.sessions = make(map[string]bool)
			return
		}
		delete(c.sessions, s)
	}
}

// readPump pumps messages from the WebSocket connection to the hub
func (c *Client) readPump() {
	defer func() {
		c.hub.unregister <- c
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("[WebSocket] Read error: %v", err)
			}
			break
		}

		// Parse client message
		var msg ClientMessage
		if err := json.Unmarshal(message, &msg); err != nil {
			c.sendError("Invalid message format")
			continue
		}

		// Handle message
		switch msg.Type {
		case "subscribe":
			c.subscribe(msg.Sessions)
			log.Printf("[WebSocket] Client subscribed to: %v", msg.Sessions)
		case "unsubscribe":
			c.unsubscribe(msg.Sessions)
			log.Printf("[WebSocket] Client unsubscribed from: %v", msg.Sessions)
		default:
			c.sendError("Unknown message type: " + msg.Type)
		}
	}
}

// writePump pumps messages from the hub to the WebSocket connection
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// Hub closed the channel
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			data, err := json.Marshal(message)
			if err != nil {
				log.Printf("[WebSocket] Marshal error: %v", err)
				continue
			}

			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
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

// sendError sends an error message to the client
func (c *Client) sendError(msg string) {
	select {
	case c.send <- ServerMessage{Type: "error", Data: msg}:
	default:
	}
}

// ServeWebSocket handles WebSocket requests from clients
func ServeWebSocket(hub *Hub) gin.HandlerFunc {
	return func(c *gin.Context) {
		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			log.Printf("[WebSocket] Upgrade error: %v", err)
			return
		}

		client := &Client{
			hub:      hub,
			conn:     conn,
			send:     make(chan ServerMessage, 256),
			sessions: make(map[string]bool),
		}

		hub.register <- client

		// Start client goroutines
		go client.writePump()
		go client.readPump()
	}
}
