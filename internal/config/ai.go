package config

import "os"

// GenerationParams are the sampling bounds sent with every Gemini request.
type GenerationParams struct {
	Temperature     float64 `json:"temperature"`
	MaxOutputTokens int     `json:"maxOutputTokens"`
	TopP            float64 `json:"topP"`
	TopK            int     `json:"topK"`
}

// AIConfig holds all Gemini-related configuration
type AIConfig struct {
	APIKey     string           `json:"-"` // Never serialize
	BaseURL    string           `json:"baseUrl"`
	Model      string           `json:"model"`
	Generation GenerationParams `json:"generation"`
	TimeoutMS  int              `json:"timeoutMs"`
}

// DefaultAIConfig returns the default AI configuration
func DefaultAIConfig() *AIConfig {
	return &AIConfig{
		APIKey:  os.Getenv("GEMINI_API_KEY"),
		BaseURL: "https://generativelanguage.googleapis.com/v1beta/models",
		Model:   getEnvOrDefault("GEMINI_MODEL", "gemini-1.5-flash"),
		Generation: GenerationParams{
			Temperature:     0.7,
			MaxOutputTokens: 500,
			TopP:            0.95,
			TopK:            40,
		},
		TimeoutMS: 30000, // single attempt, bounded by this timeout
	}
}

// IsEnabled returns true if the AI API is configured
func (c *AIConfig) IsEnabled() bool {
	return c.APIKey != ""
}

// ModelEndpoint returns the full generateContent endpoint for the model
func (c *AIConfig) ModelEndpoint() string {
	return c.BaseURL + "/" + c.Model + ":generateContent"
}

func getEnvOrDefault(key, defaultValue string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultValue
}
