package ws

import (
	"encoding/json"
	"log"
	"sync"

	"raglobal-chat/internal/model"
)

// MessageType defines the type of WebSocket message
type MessageType string

const (
	MsgTurnProcessed   MessageType = "turn_processed"
	MsgPredictorSwap   MessageType = "predictor_swapped"
	MsgKnowledgeReload MessageType = "knowledge_reloaded"
)

// Message is the WebSocket envelope format
type Message struct {
	Type    MessageType     `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// TurnEvent is pushed to operator dashboards after every processed turn.
type TurnEvent struct {
	SessionID  string            `json:"sessionId"`
	Utterance  string            `json:"utterance"`
	Response   string            `json:"response"`
	Phase      model.Phase       `json:"phase"`
	Score      int               `json:"score"`
	Status     string            `json:"status,omitempty"`
	Prediction *model.Prediction `json:"prediction,omitempty"`
}

// Connection represents one subscribed operator dashboard
type Connection struct {
	ID   string
	Send chan []byte
	Hub  *Hub
}

// Hub fans processed-turn events out to connected operator dashboards.
type Hub struct {
	conns map[string]*Connection

	mu sync.RWMutex

	register   chan *Connection
	unregister chan *Connection
	broadcast  chan *Message
}

// NewHub creates a new monitor hub and starts its dispatch loop.
func NewHub() *Hub {
	h := &Hub{
		conns:      make(map[string]*Connection),
		register:   make(chan *Connection),
		unregister: make(chan *Connection),
		broadcast:  make(chan *Message, 256),
	}
	go h.run()
	return h
}

func (h *Hub) run() {
	for {
		select {
		case conn := <-h.register:
			h.mu.Lock()
			h.conns[conn.ID] = conn
			h.mu.Unlock()
			log.Printf("Monitor %s connected", conn.ID)

		case conn := <-h.unregister:
			h.mu.Lock()
			if existing, ok := h.conns[conn.ID]; ok && existing == conn {
				delete(h.conns, conn.ID)
				close(conn.Send)
				log.Printf("Monitor %s disconnected", conn.ID)
			}
			h.mu.Unlock()

		case msg := <-h.broadcast:
			data, _ := json.Marshal(msg)
			h.mu.RLock()
			for _, conn := range h.conns {
				select {
				case conn.Send <- data:
				default:
					// Drop message if buffer full
				}
			}
			h.mu.RUnlock()
		}
	}
}

// Register adds a connection
func (h *Hub) Register(conn *Connection) {
	h.register <- conn
}

// Unregister removes a connection
func (h *Hub) Unregister(conn *Connection) {
	h.unregister <- conn
}

// Broadcast sends a typed payload to every connected dashboard.
func (h *Hub) Broadcast(msgType MessageType, payload interface{}) {
	data, _ := json.Marshal(payload)
	h.broadcast <- &Message{
		Type:    msgType,
		Payload: data,
	}
}
