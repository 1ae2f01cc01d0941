package services

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"forca/game"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4096
	sendBuffer     = 64
)

// Hub tracks the live websocket clients and hands their messages to the
// room registry.
type Hub struct {
	clients    map[*Client]bool
	register   chan *Client
	unregister chan *Client
	quit       chan struct{}
	mutex      sync.RWMutex
	registry   *game.Registry
	logger     *slog.Logger
}

// Client is one websocket connection. It implements game.Conn.
type Client struct {
	hub      *Hub
	id       string
	socket   *websocket.Conn
	send     chan []byte
	done     chan struct{}
	playerID string
	logger   *slog.Logger

	// owned by readPump
	room *game.Room
}

func NewHub(registry *game.Registry, logger *slog.Logger) *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		quit:       make(chan struct{}),
		registry:   registry,
		logger:     logger,
	}
}

// Run owns client registration until ctx is cancelled, then closes every
// remaining connection.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.quit)

	for {
		select {
		case client := <-h.register:
			h.mutex.Lock()
			h.clients[client] = true
			total := len(h.clients)
			h.mutex.Unlock()
			h.logger.Debug("client registered", "conn", client.id, "total", total)

		case client := <-h.unregister:
			h.mutex.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.done)
			}
			total := len(h.clients)
			h.mutex.Unlock()
			h.logger.Debug("client unregistered", "conn", client.id, "total", total)

		case <-ctx.Done():
			h.mutex.Lock()
			for client := range h.clients {
				delete(h.clients, client)
				close(client.done)
				client.socket.Close()
			}
			h.mutex.Unlock()
			h.logger.Info("hub stopped")
			return
		}
	}
}

func (h *Hub) ClientCount() int {
	h.mutex.RLock()
	defer h.mutex.RUnlock()
	return len(h.clients)
}

// ServeClient registers an upgraded connection and starts its pumps.
// playerID is the verified identity of the caller, or empty.
func (h *Hub) ServeClient(conn *websocket.Conn, playerID string) *Client {
	id := uuid.NewString()
	client := &Client{
		hub:      h,
		id:       id,
		socket:   conn,
		send:     make(chan []byte, sendBuffer),
		done:     make(chan struct{}),
		playerID: playerID,
		logger:   h.logger.With("conn", id),
	}

	select {
	case h.register <- client:
	case <-h.quit:
		conn.Close()
		return client
	}

	go client.writePump()
	go client.readPump()

	return client
}

func (c *Client) ID() string {
	return c.id
}

// Send queues msg for the write pump without blocking. A client whose buffer
// is full is disconnected.
func (c *Client) Send(msg game.Outbound) {
	data, err := game.Encode(msg)
	if err != nil {
		c.logger.Error("failed to encode message", "type", msg.Tipo(), "error", err)
		return
	}
	select {
	case <-c.done:
		return
	default:
	}
	select {
	case c.send <- data:
	default:
		c.logger.Warn("send buffer full, closing connection", "type", msg.Tipo())
		c.socket.Close()
	}
}

func (c *Client) readPump() {
	defer func() {
		if c.room != nil {
			c.room.Disconnect(c.id)
		}
		select {
		case c.hub.unregister <- c:
		case <-c.hub.quit:
		}
		c.socket.Close()
	}()

	c.socket.SetReadLimit(maxMessageSize)
	c.socket.SetReadDeadline(time.Now().Add(pongWait))
	c.socket.SetPongHandler(func(string) error {
		return c.socket.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, data, err := c.socket.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.logger.Warn("websocket read error", "error", err)
			}
			return
		}

		msg, err := game.DecodeInbound(data)
		if err != nil {
			c.logger.Debug("invalid message", "error", err)
			c.Send(game.ErrorMsg{Message: "mensagem inválida"})
			continue
		}
		c.handleMessage(msg)
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.socket.Close()
	}()

	for {
		select {
		case message := <-c.send:
			c.socket.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.socket.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}

		case <-ticker.C:
			c.socket.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.socket.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}

		case <-c.done:
			c.socket.SetWriteDeadline(time.Now().Add(writeWait))
			c.socket.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
			return
		}
	}
}

func (c *Client) handleMessage(msg game.Inbound) {
	switch m := msg.(type) {
	case game.Ping:
		c.Send(game.Pong{})

	case game.JoinRoom:
		c.join(m)

	default:
		if c.room == nil {
			c.logger.Debug("message before join ignored")
			return
		}
		if !c.room.Deliver(c.id, msg) {
			c.logger.Debug("message for closed room ignored", "room", c.room.Code())
			c.room = nil
		}
	}
}

func (c *Client) join(req game.JoinRoom) {
	if c.playerID != "" {
		req.PlayerID = c.playerID
	}
	if c.room != nil && c.room.Code() != game.NormalizeCode(req.RoomCode) {
		c.room.Disconnect(c.id)
		c.room = nil
	}

	room, err := c.hub.registry.Join(c, req)
	if err != nil {
		if game.IsValidation(err) {
			c.Send(game.ErrorMsg{Message: err.Error()})
			return
		}
		c.logger.Error("join failed", "room", req.RoomCode, "error", err)
		c.Send(game.ErrorMsg{Message: "não foi possível entrar na sala"})
		return
	}
	c.room = room
	c.logger.Info("join requested", "room", room.Code(), "player", req.PlayerName)
}
