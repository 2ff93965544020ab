package main

import (
	"context"
	"log"
	"time"

	"github.com/joho/godotenv"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"raglobal-chat/internal/config"
	"raglobal-chat/internal/repository"
	"raglobal-chat/internal/service"
)

// One-shot training job: fits the status predictor from the stored leads and
// writes the artifact the server loads at startup.
func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}
	defer client.Disconnect(ctx)

	repo := repository.NewLeadRepository(client.Database(cfg.MongoDatabase))
	trainer := service.NewTrainer(repo, cfg.ArtifactPath)

	artifact, err := trainer.Train(ctx)
	if err != nil {
		log.Fatalf("Training failed: %v", err)
	}

	log.Printf("Training complete: v%d, %d samples, classes %v, saved to %s",
		artifact.Version, artifact.Samples, artifact.Model.Classes, cfg.ArtifactPath)
}
