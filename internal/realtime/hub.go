package realtime

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/peterstace/simplefeatures/geom"
	"github.com/rs/zerolog"

	"safelink-service/internal/geo"
	"safelink-service/internal/model"
)

const MessageTypeSnapshot = "map_snapshot"

type SnapshotSource interface {
	Snapshot() model.MapSnapshot
}

// Message is one frame of the map feed. Routes holds each deployed
// vehicle's path as GeoJSON.
type Message struct {
	Type      string                   `json:"type"`
	Timestamp int64                    `json:"timestamp"`
	Data      model.MapSnapshot        `json:"data"`
	Routes    map[string]geom.Geometry `json:"routes,omitempty"`
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 4096,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// Hub fans registry snapshots out to every connected map client. Change
// signals are coalesced: a burst of changes yields one fresh snapshot.
type Hub struct {
	source     SnapshotSource
	clients    map[*Client]bool
	register   chan *Client
	unregister chan *Client
	dirty      chan struct{}
	done       chan struct{}
	mutex      sync.RWMutex
	log        zerolog.Logger
}

func NewHub(source SnapshotSource, log zerolog.Logger) *Hub {
	return &Hub{
		source:     source,
		clients:    make(map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		dirty:      make(chan struct{}, 1),
		done:       make(chan struct{}),
		log:        log,
	}
}

// Notify marks the map as changed. It never blocks.
func (h *Hub) Notify() {
	select {
	case h.dirty <- struct{}{}:
	default:
	}
}

func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			close(h.done)
			h.closeAll()
			return

		case client := <-h.register:
			h.registerClient(client)

		case client := <-h.unregister:
			h.unregisterClient(client)

		case <-h.dirty:
			h.broadcastSnapshot()
		}
	}
}

func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warn().Err(err).Msg("websocket upgrade failed")
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

func (h *Hub) ClientCount() int {
	h.mutex.RLock()
	defer h.mutex.RUnlock()
	return len(h.clients)
}

func (h *Hub) registerClient(client *Client) {
	h.mutex.Lock()
	h.clients[client] = true
	count := len(h.clients)
	h.mutex.Unlock()

	h.log.Debug().Int("clients", count).Msg("map client connected")

	data, err := h.snapshotFrame()
	if err != nil {
		h.log.Error().Err(err).Msg("error encoding map snapshot")
		return
	}
	h.sendTo(client, data)
}

func (h *Hub) unregisterClient(client *Client) {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	if _, ok := h.clients[client]; ok {
		delete(h.clients, client)
		close(client.send)
		h.log.Debug().Int("clients", len(h.clients)).Msg("map client disconnected")
	}
}

func (h *Hub) broadcastSnapshot() {
	if h.ClientCount() == 0 {
		return
	}
	data, err := h.snapshotFrame()
	if err != nil {
		h.log.Error().Err(err).Msg("error encoding map snapshot")
		return
	}

	h.mutex.RLock()
	clients := make([]*Client, 0, len(h.clients))
	for client := range h.clients {
		clients = append(clients, client)
	}
	h.mutex.RUnlock()

	for _, client := range clients {
		h.sendTo(client, data)
	}
}

// sendTo drops a client whose buffer is full.
func (h *Hub) sendTo(client *Client, data []byte) {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	if _, ok := h.clients[client]; !ok {
		return
	}
	select {
	case client.send <- data:
	default:
		delete(h.clients, client)
		close(client.send)
		h.log.Warn().Msg("map client too slow, dropped")
	}
}

func (h *Hub) closeAll() {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	for client := range h.clients {
		delete(h.clients, client)
		close(client.send)
	}
}

func (h *Hub) snapshotFrame() ([]byte, error) {
	return json.Marshal(BuildMessage(h.source.Snapshot(), h.log))
}

// BuildMessage renders a snapshot frame. A vehicle whose route cannot be
// rendered is left out of Routes.
func BuildMessage(snap model.MapSnapshot, log zerolog.Logger) Message {
	msg := Message{
		Type:      MessageTypeSnapshot,
		Timestamp: time.Now().UnixMilli(),
		Data:      snap,
	}
	for _, v := range snap.Vehicles {
		if len(v.CurrentRoute) == 0 {
			continue
		}
		route, err := geo.RouteGeometry(v.CurrentRoute)
		if err != nil {
			log.Warn().Err(err).Str("vehicle_id", v.ID).Msg("route omitted from map snapshot")
			continue
		}
		if msg.Routes == nil {
			msg.Routes = make(map[string]geom.Geometry)
		}
		msg.Routes[v.ID] = route
	}
	return msg
}
