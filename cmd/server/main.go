package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"raglobal-chat/internal/config"
	"raglobal-chat/internal/nlp"
	"raglobal-chat/internal/repository"
	"raglobal-chat/internal/service"
	"raglobal-chat/internal/session"
	"raglobal-chat/internal/transport/rest"
	"raglobal-chat/internal/transport/ws"
)

// @title RaGlobal Chatbot API
// @version 1.0
// @description Dialectal lead qualification chatbot with knowledge-base retrieval
// @host localhost:8080
// @BasePath /
func main() {
	log.Println("started")
	_ = godotenv.Load()

	ctx := context.Background()
	cfg := config.Load()

	// Question set is the one fatal configuration dependency.
	questions, err := config.LoadQuestionSet(cfg.QuestionsPath)
	if err != nil {
		log.Fatal("Failed to load question set: ", err)
	}
	log.Printf("Loaded %d questions (threshold %d)", len(questions.Questions), questions.Threshold)

	aiConfig := config.DefaultAIConfig()
	log.Printf("AI Config:")
	log.Printf("  Model:   %s", aiConfig.Model)
	if aiConfig.IsEnabled() {
		log.Println("  API Key: configured ✓")
	} else {
		log.Println("  API Key: NOT SET (paraphrasing disabled, raw fallbacks in use)")
	}

	// MongoDB connection. The knowledge base degrades to an empty corpus when
	// the store is unreachable, so a failed ping is a warning, not a crash.
	mongoClient, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		log.Fatal("Failed to create MongoDB client: ", err)
	}
	defer mongoClient.Disconnect(ctx)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	if err := mongoClient.Ping(pingCtx, nil); err != nil {
		log.Printf("Warning: MongoDB unreachable (%v), continuing with empty knowledge base", err)
	} else {
		log.Println("Connected to MongoDB")
	}
	cancel()

	db := mongoClient.Database(cfg.MongoDatabase)
	leadRepo := repository.NewLeadRepository(db)

	// Session store: in-process by default, Redis when configured.
	var sessions session.Store
	switch cfg.SessionBackend {
	case "redis":
		rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		defer rdb.Close()
		if _, err := rdb.Ping(ctx).Result(); err != nil {
			log.Fatal("Failed to ping Redis: ", err)
		}
		log.Println("Connected to Redis")
		sessions = session.NewRedisStore(rdb, cfg.SessionTTL)
	default:
		sessions = session.NewMemoryStore(cfg.SessionTTL)
	}

	// Initialize services
	gemini := service.NewGeminiService(aiConfig)
	predictor := service.NewPredictor(cfg.ArtifactPath)

	var vectorizer *nlp.Vectorizer
	if artifact := predictor.Artifact(); artifact != nil {
		vectorizer = artifact.Vectorizer
	}
	retriever := service.NewRetriever(ctx, leadRepo, gemini, vectorizer)

	engine, err := service.NewEngine(questions, gemini, retriever, predictor, sessions)
	if err != nil {
		log.Fatal("Failed to build conversation engine: ", err)
	}

	authSvc := service.NewAuthService()
	trainer := service.NewTrainer(leadRepo, cfg.ArtifactPath)

	// Background freshness monitor
	monitorCtx, stopMonitor := context.WithCancel(ctx)
	defer stopMonitor()
	monitor := service.NewTrainingMonitor(trainer, predictor, retriever)
	go monitor.Run(monitorCtx)

	// WebSocket hub for operator dashboards
	wsHub := ws.NewHub()

	router := rest.NewRouter(&rest.Container{
		Engine:      engine,
		AuthService: authSvc,
		Trainer:     trainer,
		Predictor:   predictor,
		Retriever:   retriever,
		LeadRepo:    leadRepo,
		WSHub:       wsHub,
	})

	srv := &http.Server{
		Addr:    ":" + cfg.HTTPPort,
		Handler: router,
	}

	go func() {
		log.Printf("Server starting on :%s", cfg.HTTPPort)
		log.Println("Endpoints:")
		log.Println("  POST /chat")
		log.Println("  POST /api/chat")
		log.Println("  GET  /api/status")
		log.Println("  POST /v1/auth/login")
		log.Println("  POST /v1/admin/retrain")
		log.Println("  POST /v1/admin/knowledge/rebuild")
		log.Println("  GET  /v1/admin/stats")
		log.Println("  WS   /v1/ws/monitor")

		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("ListenAndServe: ", err)
		}
	}()

	// Wait for interrupt
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")
	stopMonitor()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal("Server forced to shutdown: ", err)
	}

	log.Println("Server exited")
}
