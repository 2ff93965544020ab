package rest

import (
	"net/http"
	"os"

	"github.com/gorilla/mux"

	"raglobal-chat/internal/repository"
	"raglobal-chat/internal/service"
	"raglobal-chat/internal/transport/rest/handler"
	"raglobal-chat/internal/transport/rest/middleware"
	"raglobal-chat/internal/transport/ws"
)

// Container holds all dependencies for the router
type Container struct {
	Engine      *service.Engine
	AuthService *service.AuthService
	Trainer     *service.Trainer
	Predictor   *service.Predictor
	Retriever   *service.Retriever
	LeadRepo    repository.LeadRepository
	WSHub       *ws.Hub
}

// NewRouter creates the API router with all endpoints
func NewRouter(c *Container) http.Handler {
	r := mux.NewRouter()

	// Initialize handlers
	chatHandler := handler.NewChatHandler(c.Engine, c.WSHub)
	authHandler := handler.NewAuthHandler(c.AuthService)
	adminHandler := handler.NewAdminHandler(c.Trainer, c.Predictor, c.Retriever, c.LeadRepo, c.WSHub)
	wsHandler := ws.NewHandler(c.WSHub, c.AuthService)

	// Initialize middleware
	authMW := middleware.NewAuthMiddleware(c.AuthService)

	// CORS middleware (apply first)
	r.Use(corsMiddleware)

	// Conversation endpoints
	r.HandleFunc("/chat", chatHandler.Chat).Methods("POST", "OPTIONS")
	r.HandleFunc("/api/chat", chatHandler.APIChat).Methods("POST", "OPTIONS")
	r.HandleFunc("/api/status", chatHandler.Status).Methods("GET")

	// Health check
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	}).Methods("GET")

	v1 := r.PathPrefix("/v1").Subrouter()

	// Public routes
	v1.HandleFunc("/auth/login", authHandler.Login).Methods("POST", "OPTIONS")

	// WebSocket monitor feed (token in query param)
	v1.HandleFunc("/ws/monitor", wsHandler.MonitorWS).Methods("GET")

	// Operator routes (require host auth)
	adminRoutes := v1.NewRoute().Subrouter()
	adminRoutes.Use(authMW.RequireHost)

	adminRoutes.HandleFunc("/admin/retrain", adminHandler.Retrain).Methods("POST", "OPTIONS")
	adminRoutes.HandleFunc("/admin/knowledge/rebuild", adminHandler.RebuildKnowledge).Methods("POST", "OPTIONS")
	adminRoutes.HandleFunc("/admin/stats", adminHandler.Stats).Methods("GET", "OPTIONS")

	return r
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		allowedOrigins := os.Getenv("CORS_ALLOWED_ORIGINS")
		if allowedOrigins == "" {
			allowedOrigins = "*"
		}

		allowedMethods := os.Getenv("CORS_ALLOWED_METHODS")
		if allowedMethods == "" {
			allowedMethods = "GET, POST, PUT, DELETE, OPTIONS"
		}

		allowedHeaders := os.Getenv("CORS_ALLOWED_HEADERS")
		if allowedHeaders == "" {
			allowedHeaders = "Content-Type, Authorization, X-Session-ID"
		}

		w.Header().Set("Access-Control-Allow-Origin", allowedOrigins)
		w.Header().Set("Access-Control-Allow-Methods", allowedMethods)
		w.Header().Set("Access-Control-Allow-Headers", allowedHeaders)

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}
