package handler

import (
	"encoding/json"
	"net"
	"net/http"
	"strings"
	"time"

	"raglobal-chat/internal/model"
	"raglobal-chat/internal/service"
	"raglobal-chat/internal/transport/ws"
)

// ChatHandler handles the conversation endpoints
type ChatHandler struct {
	engine *service.Engine
	hub    *ws.Hub
}

// NewChatHandler creates a new chat handler
func NewChatHandler(engine *service.Engine, hub *ws.Hub) *ChatHandler {
	return &ChatHandler{
		engine: engine,
		hub:    hub,
	}
}

// ChatRequest is the request body for both chat endpoints
type ChatRequest struct {
	Message string `json:"message"`
}

// APIChatResponse is the public API envelope
type APIChatResponse struct {
	Success bool        `json:"success"`
	Data    APIChatData `json:"data"`
}

// APIChatData is the payload of the public API envelope
type APIChatData struct {
	Response  string `json:"response"`
	Score     int    `json:"score"`
	Phase     string `json:"phase"`
	Timestamp string `json:"timestamp"`
}

// Chat handles POST /chat
func (h *ChatHandler) Chat(w http.ResponseWriter, r *http.Request) {
	var req ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	message := strings.TrimSpace(req.Message)
	if message == "" {
		writeError(w, http.StatusBadRequest, "message is required")
		return
	}

	identity := sessionIdentity(r)
	result := h.engine.ProcessMessage(r.Context(), identity, message)
	h.broadcastTurn(identity, message, result)

	writeJSON(w, http.StatusOK, result)
}

// APIChat handles POST /api/chat
func (h *ChatHandler) APIChat(w http.ResponseWriter, r *http.Request) {
	var req ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "field 'message' is required")
		return
	}

	message := strings.TrimSpace(req.Message)
	if message == "" {
		writeError(w, http.StatusBadRequest, "field 'message' is required")
		return
	}

	identity := sessionIdentity(r)
	result := h.engine.ProcessMessage(r.Context(), identity, message)
	h.broadcastTurn(identity, message, result)

	writeJSON(w, http.StatusOK, APIChatResponse{
		Success: true,
		Data: APIChatData{
			Response:  result.Response,
			Score:     result.Score,
			Phase:     string(result.Phase),
			Timestamp: time.Now().Format(time.RFC3339),
		},
	})
}

// Status handles GET /api/status
func (h *ChatHandler) Status(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "running",
		"service": "RaGlobal Chatbot API",
		"version": "1.0",
	})
}

// broadcastTurn pushes the processed turn to the operator monitor feed.
func (h *ChatHandler) broadcastTurn(identity, message string, result *model.TurnResult) {
	if h.hub == nil {
		return
	}
	h.hub.Broadcast(ws.MsgTurnProcessed, ws.TurnEvent{
		SessionID:  identity,
		Utterance:  message,
		Response:   result.Response,
		Phase:      result.Phase,
		Score:      result.Score,
		Status:     result.Status,
		Prediction: result.Prediction,
	})
}

// sessionIdentity keys the conversation: an explicit X-Session-ID header when
// the client manages its own continuity, the remote address otherwise.
func sessionIdentity(r *http.Request) string {
	if id := r.Header.Get("X-Session-ID"); id != "" {
		return id
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
