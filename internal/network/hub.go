package network

import (
	"context"
	"log/slog"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"

	"jello/internal/pet"
)

// Hub maintains the set of connected clients and streams simulation state
// to them.
type Hub struct {
	sim        *pet.Simulation
	clients    map[*Client]bool
	register   chan *Client
	unregister chan *Client
	replies    chan directed
	done       chan struct{}

	// latest holds the newest encoded state; pending is signalled when it
	// changes so bursts of updates collapse into one broadcast.
	mu      sync.Mutex
	latest  []byte
	pending chan struct{}
}

// directed is a message for a single client.
type directed struct {
	client  *Client
	message []byte
}

// NewHub creates a hub serving sim. Call Run to start it.
func NewHub(sim *pet.Simulation) *Hub {
	return &Hub{
		sim:        sim,
		clients:    make(map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		replies:    make(chan directed),
		done:       make(chan struct{}),
		pending:    make(chan struct{}, 1),
	}
}

// Run handles client connections and broadcasts until ctx is done.
func (h *Hub) Run(ctx context.Context) {
	stop := h.sim.Observe(h.publish)
	defer func() {
		stop()
		close(h.done)
		for client := range h.clients {
			close(client.send)
		}
		h.clients = nil
		slog.Info("websocket hub shut down")
	}()

	for {
		select {
		case <-ctx.Done():
			return
		case client := <-h.register:
			h.clients[client] = true
			if b, err := Encode(MsgState, h.sim.View()); err == nil {
				client.queue(b)
			}
			slog.Info("websocket client connected", "clients", len(h.clients))
		case client := <-h.unregister:
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
				slog.Info("websocket client disconnected", "clients", len(h.clients))
			}
		case r := <-h.replies:
			if h.clients[r.client] && !r.client.queue(r.message) {
				slog.Warn("reply dropped, client buffer full")
			}
		case <-h.pending:
			h.mu.Lock()
			message := h.latest
			h.mu.Unlock()
			for client := range h.clients {
				if !client.queue(message) {
					close(client.send)
					delete(h.clients, client)
					slog.Warn("dropping slow websocket client")
				}
			}
		}
	}
}

// publish is the simulation observer. It never blocks.
func (h *Hub) publish(v pet.View) {
	b, err := Encode(MsgState, v)
	if err != nil {
		slog.Error("encode state", "err", err)
		return
	}
	h.mu.Lock()
	h.latest = b
	h.mu.Unlock()
	select {
	case h.pending <- struct{}{}:
	default:
	}
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Local play only; the page may be served from a dev server.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Handler upgrades requests to websocket clients of h.
func Handler(h *Hub) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			slog.Warn("websocket upgrade failed", "err", err)
			return
		}
		client := newClient(h, conn)
		select {
		case h.register <- client:
		case <-h.done:
			conn.Close()
			return
		}
		go client.writePump()
		go client.readPump()
	}
}

// NewMux serves the websocket endpoint at /ws and a JSON snapshot of the
// current state at /state.
func NewMux(h *Hub) *http.ServeMux {
	mux := http.NewServeMux()
	mux.Handle("/ws", Handler(h))
	mux.HandleFunc("/state", func(w http.ResponseWriter, r *http.Request) {
		b, err := Encode(MsgState, h.sim.View())
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write(b)
	})
	return mux
}
