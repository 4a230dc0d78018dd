// Package server streams game snapshots to websocket clients and accepts purchase requests.
//
// The Hub owns the set of clients. The world is never touched here directly:
// purchases are submitted to the tick driver and run on its goroutine.
package server

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"

	"github.com/napolitain/idlelink/internal/tick"
	"github.com/napolitain/idlelink/internal/world"
)

// Message types
const (
	TypeSnapshot       = "snapshot"
	TypePurchase       = "purchase"
	TypePurchaseResult = "purchase_result"
	TypeError          = "error"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = pongWait * 9 / 10
	maxMessageSize = 4096
	sendBuffer     = 64
)

// Message is the JSON envelope for everything sent over the socket
type Message struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// PurchaseRequest asks for one building to be bought
type PurchaseRequest struct {
	Building string `json:"building"`
}

// PurchaseResult answers a PurchaseRequest
type PurchaseResult struct {
	Building  string `json:"building"`
	Purchased bool   `json:"purchased"`
	Owned     int    `json:"owned"`
	Error     string `json:"error,omitempty"`
}

// Submitter runs actions on the goroutine that owns the world. *tick.Driver implements it.
type Submitter interface {
	Submit(ctx context.Context, action tick.Action) error
}

type direct struct {
	client  *Client
	message []byte
}

// Hub maintains the set of active clients and broadcasts snapshots to them
type Hub struct {
	clients map[*Client]bool

	broadcast  chan []byte
	direct     chan direct
	register   chan *Client
	unregister chan *Client
	count      chan chan int
	done       chan struct{}

	latest atomic.Pointer[[]byte]

	submitter Submitter
	logger    *slog.Logger
	upgrader  websocket.Upgrader
}

// NewHub creates a hub. Run must be started before clients connect.
func NewHub(submitter Submitter, logger *slog.Logger) *Hub {
	if logger == nil {
		logger = slog.Default()
	}
	return &Hub{
		clients:    make(map[*Client]bool),
		broadcast:  make(chan []byte),
		direct:     make(chan direct),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		count:      make(chan chan int),
		done:       make(chan struct{}),
		submitter:  submitter,
		logger:     logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

// Run is the hub's event loop. It returns when ctx is cancelled and closes every client.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	defer func() {
		for c := range h.clients {
			delete(h.clients, c)
			close(c.send)
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return

		case c := <-h.register:
			h.clients[c] = true
			h.logger.Debug("client connected", "remote", c.conn.RemoteAddr().String(), "clients", len(h.clients))
			if latest := h.latest.Load(); latest != nil {
				h.deliver(c, *latest)
			}

		case c := <-h.unregister:
			if _, ok := h.clients[c]; ok {
				delete(h.clients, c)
				close(c.send)
				h.logger.Debug("client disconnected", "clients", len(h.clients))
			}

		case reply := <-h.count:
			reply <- len(h.clients)

		case d := <-h.direct:
			if _, ok := h.clients[d.client]; ok {
				h.deliver(d.client, d.message)
			}

		case msg := <-h.broadcast:
			for c := range h.clients {
				h.deliver(c, msg)
			}
		}
	}
}

// deliver queues msg for c, dropping the client if its buffer is full
func (h *Hub) deliver(c *Client, msg []byte) {
	select {
	case c.send <- msg:
	default:
		h.logger.Warn("dropping slow client", "remote", c.conn.RemoteAddr().String())
		close(c.send)
		delete(h.clients, c)
	}
}

// Clients returns the number of connected clients
func (h *Hub) Clients() int {
	reply := make(chan int, 1)
	select {
	case h.count <- reply:
		return <-reply
	case <-h.done:
		return 0
	}
}

// Publish encodes a snapshot and sends it to every client. It is also kept as
// the latest snapshot for clients that connect later.
func (h *Hub) Publish(snap Snapshot) error {
	msg, err := encode(TypeSnapshot, snap)
	if err != nil {
		return err
	}
	h.latest.Store(&msg)

	select {
	case h.broadcast <- msg:
	case <-h.done:
	}
	return nil
}

// PublishWorld snapshots w and publishes it. Call it on the goroutine that owns w.
func (h *Hub) PublishWorld(w *world.World, tick uint64) error {
	snap, err := BuildSnapshot(w, tick)
	if err != nil {
		return err
	}
	return h.Publish(snap)
}

// Latest returns the most recently published snapshot message, if any
func (h *Hub) Latest() ([]byte, bool) {
	p := h.latest.Load()
	if p == nil {
		return nil, false
	}
	return *p, true
}

// send queues a message for one client from any goroutine
func (h *Hub) send(c *Client, msg []byte) {
	select {
	case h.direct <- direct{client: c, message: msg}:
	case <-h.done:
	}
}

// purchase submits a purchase and answers the requesting client once it has run
func (h *Hub) purchase(c *Client, req PurchaseRequest) {
	ctx, cancel := context.WithTimeout(context.Background(), writeWait)
	defer cancel()

	err := h.submitter.Submit(ctx, func(w *world.World) {
		result := PurchaseResult{Building: req.Building}
		b, ok := w.Building(req.Building)
		if !ok {
			result.Error = "unknown building"
		} else {
			bought, err := w.TryPurchase(b)
			if err != nil {
				result.Error = err.Error()
			}
			result.Purchased = bought
			result.Owned = b.Owned()
		}

		msg, err := encode(TypePurchaseResult, result)
		if err != nil {
			h.logger.Error("failed to encode purchase result", "error", err)
			return
		}
		// Runs on the tick goroutine; hand off so a busy hub cannot stall ticking
		go h.send(c, msg)
	})
	if err != nil {
		h.sendError(c, "purchase not accepted: "+err.Error())
	}
}

func (h *Hub) sendError(c *Client, text string) {
	msg, err := encode(TypeError, map[string]string{"error": text})
	if err != nil {
		return
	}
	h.send(c, msg)
}

func encode(typ string, payload any) ([]byte, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return json.Marshal(Message{Type: typ, Payload: raw})
}

// ServeHTTP upgrades the request to a websocket and registers the client
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", "error", err)
		return
	}

	c := &Client{hub: h, conn: conn, send: make(chan []byte, sendBuffer)}
	select {
	case h.register <- c:
	case <-h.done:
		conn.Close()
		return
	}

	go c.writePump()
	go c.readPump()
}
