package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds process-level configuration read from the environment.
type Config struct {
	MongoURI       string
	MongoDatabase  string
	RedisAddr      string
	HTTPPort       string
	QuestionsPath  string
	ArtifactPath   string
	SessionBackend string // "memory" or "redis"
	SessionTTL     time.Duration
}

// Load reads configuration from environment variables with defaults.
func Load() *Config {
	return &Config{
		MongoURI:       getEnv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDatabase:  getEnv("MONGO_DB", "chatbot_db"),
		RedisAddr:      getEnv("REDIS_ADDR", "localhost:6379"),
		HTTPPort:       getEnv("HTTP_PORT", "8080"),
		QuestionsPath:  getEnv("QUESTIONS_PATH", "configs/questions.json"),
		ArtifactPath:   getEnv("PREDICTOR_ARTIFACT_PATH", "models/status_predictor.json"),
		SessionBackend: getEnv("SESSION_BACKEND", "memory"),
		SessionTTL:     getDurationEnv("SESSION_TTL_MINUTES", 120) * time.Minute,
	}
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getDurationEnv(key string, defaultMinutes int) time.Duration {
	if val := os.Getenv(key); val != "" {
		if n, err := strconv.Atoi(val); err == nil && n > 0 {
			return time.Duration(n)
		}
	}
	return time.Duration(defaultMinutes)
}
