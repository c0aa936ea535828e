package channel

import (
	"context"
	"sync"
	"sync/atomic"

	"easyorder-core/internal/domain"
)

// Connection is one staff session attached to a restaurant channel. Events are
// delivered through a single buffered queue, which keeps per-connection
// ordering; when the buffer is full the event is dropped and counted instead
// of blocking delivery to anyone else.
type Connection struct {
	ID      string
	send    chan domain.Event
	closed  chan struct{}
	once    sync.Once
	dropped atomic.Int64
}

func NewConnection(id string, buffer int) *Connection {
	if buffer <= 0 {
		buffer = 16
	}
	return &Connection{
		ID:     id,
		send:   make(chan domain.Event, buffer),
		closed: make(chan struct{}),
	}
}

// Events is the stream the consumer (SSE writer, test, ...) reads from.
func (c *Connection) Events() <-chan domain.Event { return c.send }

// Closed is closed when the connection leaves the hub.
func (c *Connection) Closed() <-chan struct{} { return c.closed }

// Dropped reports how many events were discarded because the consumer lagged.
func (c *Connection) Dropped() int64 { return c.dropped.Load() }

func (c *Connection) deliver(ev domain.Event) {
	select {
	case c.send <- ev:
	default:
		c.dropped.Add(1)
	}
}

func (c *Connection) close() {
	c.once.Do(func() { close(c.closed) })
}

// Hub groups live staff connections by restaurant id. Membership is mutated
// concurrently by join/leave; publishing snapshots the membership and never
// holds the lock across a send.
type Hub struct {
	mu     sync.RWMutex
	rooms  map[string]map[*Connection]struct{}
	byConn map[*Connection]string
}

func NewHub() *Hub {
	return &Hub{
		rooms:  make(map[string]map[*Connection]struct{}),
		byConn: make(map[*Connection]string),
	}
}

// Join registers the connection under the restaurant's channel. A connection
// belongs to one restaurant at a time; joining another moves it.
func (h *Hub) Join(restaurantID string, conn *Connection) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if prev, ok := h.byConn[conn]; ok {
		delete(h.rooms[prev], conn)
		if len(h.rooms[prev]) == 0 {
			delete(h.rooms, prev)
		}
	}
	room, ok := h.rooms[restaurantID]
	if !ok {
		room = make(map[*Connection]struct{})
		h.rooms[restaurantID] = room
	}
	room[conn] = struct{}{}
	h.byConn[conn] = restaurantID
}

// Leave removes the connection; leaving when never joined is a no-op.
func (h *Hub) Leave(conn *Connection) {
	h.mu.Lock()
	if rid, ok := h.byConn[conn]; ok {
		delete(h.rooms[rid], conn)
		if len(h.rooms[rid]) == 0 {
			delete(h.rooms, rid)
		}
		delete(h.byConn, conn)
	}
	h.mu.Unlock()
	conn.close()
}

// Publish delivers the event to every connection currently joined to the
// restaurant's channel. Always best-effort, never an error.
func (h *Hub) Publish(_ context.Context, restaurantID string, ev domain.Event) error {
	h.mu.RLock()
	conns := make([]*Connection, 0, len(h.rooms[restaurantID]))
	for c := range h.rooms[restaurantID] {
		conns = append(conns, c)
	}
	h.mu.RUnlock()

	for _, c := range conns {
		c.deliver(ev)
	}
	return nil
}

// Size reports how many connections are joined to a restaurant's channel.
func (h *Hub) Size(restaurantID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[restaurantID])
}
