package server

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/ayusman/headtype/internal/app"
	"github.com/ayusman/headtype/internal/gesture"
	"github.com/ayusman/headtype/internal/ime"
)

const (
	// clientBuffer is how many events a slow client may fall behind before
	// events are dropped for it.
	clientBuffer = 64
	writeTimeout = 5 * time.Second
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow local connections
	},
}

// Event types sent on /api/events.
const (
	EventSnapshot   = "snapshot"
	EventActiveCell = "active_cell"
	EventCandidates = "candidates"
	EventText       = "text"
	EventMouth      = "mouth"
	EventSpelling   = "spelling"
)

// Event is one message on the events websocket.
type Event struct {
	Type      string        `json:"type"`
	Cell      *gesture.Cell `json:"cell,omitempty"`
	Label     string        `json:"label,omitempty"`
	Items     []string      `json:"items,omitempty"`
	Selected  *int          `json:"selected,omitempty"`
	Text      *string       `json:"text,omitempty"`
	Spelling  *string       `json:"spelling,omitempty"`
	Openness  *float64      `json:"openness,omitempty"`
	IsOpen    *bool         `json:"is_open,omitempty"`
	Session   *app.Snapshot `json:"session,omitempty"`
	Timestamp int64         `json:"timestamp"`
}

// Snapshotter provides the session state sent to new clients.
type Snapshotter interface {
	Snapshot() app.Snapshot
}

type eventClient struct {
	conn *websocket.Conn
	send chan []byte

	// Until the initial snapshot is queued, broadcasts collect in pending.
	ready   bool
	pending [][]byte
}

// EventsHandler broadcasts render events to websocket clients. It
// implements app.Renderer.
type EventsHandler struct {
	session Snapshotter
	clients map[*eventClient]bool
	mu      sync.RWMutex
}

var _ app.Renderer = (*EventsHandler)(nil)

// NewEventsHandler creates a new EventsHandler. session may be nil, in
// which case new clients get no initial snapshot.
func NewEventsHandler(session Snapshotter) *EventsHandler {
	return &EventsHandler{
		session: session,
		clients: make(map[*eventClient]bool),
	}
}

// ServeHTTP handles WebSocket upgrade requests.
func (h *EventsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("websocket upgrade error: %v", err)
		return
	}
	defer conn.Close()

	c := &eventClient{conn: conn, send: make(chan []byte, clientBuffer)}

	// Register before taking the snapshot so no event is missed. The
	// snapshot is read without h.mu: renderers broadcast while the app
	// holds the session lock that Snapshot needs.
	h.mu.Lock()
	h.clients[c] = true
	c.ready = h.session == nil
	h.mu.Unlock()

	if h.session != nil {
		snap := h.session.Snapshot()
		hello := encodeEvent(Event{Type: EventSnapshot, Session: &snap})

		h.mu.Lock()
		if h.clients[c] {
			c.send <- hello
			for _, msg := range c.pending {
				select {
				case c.send <- msg:
				default:
				}
			}
			c.pending = nil
			c.ready = true
		}
		h.mu.Unlock()
	}

	writerDone := make(chan struct{})
	go c.writeLoop(writerDone)

	defer func() {
		h.mu.Lock()
		if h.clients[c] {
			delete(h.clients, c)
			close(c.send)
		}
		h.mu.Unlock()
		<-writerDone
	}()

	// Keep connection alive by reading messages
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}
}

func (c *eventClient) writeLoop(done chan<- struct{}) {
	defer close(done)
	for msg := range c.send {
		c.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
		if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
			log.Printf("websocket write error: %v", err)
			c.conn.Close()
			for range c.send {
			}
			return
		}
	}
}

// ClientCount returns the number of connected clients.
func (h *EventsHandler) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Close disconnects every client.
func (h *EventsHandler) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.clients {
		delete(h.clients, c)
		close(c.send)
		c.conn.Close()
	}
}

// broadcast queues ev for every client without blocking the caller.
func (h *EventsHandler) broadcast(ev Event) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if len(h.clients) == 0 {
		return
	}

	msg := encodeEvent(ev)
	for c := range h.clients {
		if !c.ready {
			if len(c.pending) < clientBuffer-1 {
				c.pending = append(c.pending, msg)
			}
			continue
		}
		select {
		case c.send <- msg:
		default:
		}
	}
}

func encodeEvent(ev Event) []byte {
	ev.Timestamp = time.Now().UnixMilli()
	msg, _ := json.Marshal(ev)
	return msg
}

func (h *EventsHandler) OnActiveCellChanged(cell gesture.Cell) {
	h.broadcast(Event{Type: EventActiveCell, Cell: &cell, Label: ime.Label(cell)})
}

func (h *EventsHandler) OnCandidatesChanged(items []string, selected int) {
	h.broadcast(Event{Type: EventCandidates, Items: items, Selected: &selected})
}

func (h *EventsHandler) OnTextCommitted(text string) {
	h.broadcast(Event{Type: EventText, Text: &text})
}

func (h *EventsHandler) OnMouthDebugSignal(openness float64, isOpen bool) {
	h.broadcast(Event{Type: EventMouth, Openness: &openness, IsOpen: &isOpen})
}

func (h *EventsHandler) OnSpellingChanged(spelling string) {
	h.broadcast(Event{Type: EventSpelling, Spelling: &spelling})
}
