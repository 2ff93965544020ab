package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"raglobal-chat/internal/config"
)

// Generator is the external language-generation collaborator. Every call site
// owns its own fallback: an error here must never surface to the end user.
type Generator interface {
	GenerateReply(ctx context.Context, question, convContext string) (string, error)
}

// GeminiService calls the Gemini REST API to paraphrase fixed messages into a
// natural dialect register and to pick semantic matches from the knowledge
// base.
type GeminiService struct {
	config *config.AIConfig
	client *http.Client
}

// NewGeminiService creates a new Gemini service
func NewGeminiService(cfg *config.AIConfig) *GeminiService {
	return &GeminiService{
		config: cfg,
		client: &http.Client{
			Timeout: time.Duration(cfg.TimeoutMS) * time.Millisecond,
		},
	}
}

// GenerateReply wraps the request in the academic-advisor persona and returns
// the generated dialect text. It returns an error when the API is not
// configured, times out, or responds with anything unusable.
func (s *GeminiService) GenerateReply(ctx context.Context, question, convContext string) (string, error) {
	if !s.config.IsEnabled() {
		return "", fmt.Errorf("gemini api key not configured")
	}

	prompt := fmt.Sprintf(`Tu es un conseiller académique pour des études en Malaisie.
Un étudiant tunisien te pose cette question en dialecte :
"%s"

Contexte de la conversation :
%s

Règles :
- Réponds en tunisien latin (pas en arabe ni en français formel)
- Sois naturel, proche du langage parlé (ex: "ya", "belehi", "n7eb")
- Si tu ne connais pas la réponse, dis "N7eb net2akd m3a l'équipe w n3awdou n9olk"
- Ne donne pas d'informations fausses
- Garde un ton professionnel mais chaleureux

Réponds UNIQUEMENT avec la réponse, pas d'explication.`, question, convContext)

	return s.callGemini(ctx, prompt)
}

// callGemini makes a request to the Gemini API
func (s *GeminiService) callGemini(ctx context.Context, prompt string) (string, error) {
	reqBody := map[string]interface{}{
		"contents": []map[string]interface{}{
			{
				"parts": []map[string]string{
					{"text": prompt},
				},
			},
		},
		"generationConfig": map[string]interface{}{
			"temperature":     s.config.Generation.Temperature,
			"maxOutputTokens": s.config.Generation.MaxOutputTokens,
			"topP":            s.config.Generation.TopP,
			"topK":            s.config.Generation.TopK,
		},
	}

	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return "", err
	}

	url := fmt.Sprintf("%s?key=%s", s.config.ModelEndpoint(), s.config.APIKey)
	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewBuffer(jsonBody))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("gemini api returned status %d", resp.StatusCode)
	}

	// Parse Gemini response structure
	var geminiResp struct {
		Candidates []struct {
			Content struct {
				Parts []struct {
					Text string `json:"text"`
				} `json:"parts"`
			} `json:"content"`
		} `json:"candidates"`
	}

	if err := json.Unmarshal(body, &geminiResp); err != nil {
		return "", err
	}

	if len(geminiResp.Candidates) > 0 && len(geminiResp.Candidates[0].Content.Parts) > 0 {
		return geminiResp.Candidates[0].Content.Parts[0].Text, nil
	}

	return "", fmt.Errorf("empty response from gemini")
}
