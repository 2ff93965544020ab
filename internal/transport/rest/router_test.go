package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"raglobal-chat/internal/model"
	"raglobal-chat/internal/nlp"
	"raglobal-chat/internal/service"
	"raglobal-chat/internal/session"
	"raglobal-chat/internal/transport/ws"
)

type fakeLeadRepo struct {
	leads []*model.Lead
}

func (f *fakeLeadRepo) GetAll(_ context.Context) ([]*model.Lead, error) { return f.leads, nil }
func (f *fakeLeadRepo) Count(_ context.Context) (int64, error)         { return int64(len(f.leads)), nil }
func (f *fakeLeadRepo) Insert(_ context.Context, lead *model.Lead) error {
	f.leads = append(f.leads, lead)
	return nil
}

type fakeGenerator struct{}

func (fakeGenerator) GenerateReply(context.Context, string, string) (string, error) {
	return "", errors.New("gemini disabled")
}

func testRouter(t *testing.T) http.Handler {
	t.Helper()
	t.Setenv("HOST_USERNAME", "admin")
	t.Setenv("HOST_PASSWORD", "password123")
	t.Setenv("JWT_SECRET", "router-test-secret")

	questions := &model.QuestionSet{
		Questions: []model.Question{{
			ID:       "bac",
			Prompt:   "3andek el bac ?",
			Keywords: []model.KeywordScore{{Keyword: "oui", Score: 20}},
		}},
		Threshold: 20,
		Greeting:  "Salam !",
	}

	repo := &fakeLeadRepo{}
	gen := fakeGenerator{}
	retriever := service.NewRetriever(context.Background(), repo, gen, nlp.NewVectorizer())
	predictor := &service.Predictor{}
	engine, err := service.NewEngine(questions, gen, retriever, predictor, session.NewMemoryStore(time.Hour))
	require.NoError(t, err)

	return NewRouter(&Container{
		Engine:      engine,
		AuthService: service.NewAuthService(),
		Trainer:     service.NewTrainer(repo, filepath.Join(t.TempDir(), "p.json")),
		Predictor:   predictor,
		Retriever:   retriever,
		LeadRepo:    repo,
		WSHub:       ws.NewHub(),
	})
}

func postJSON(t *testing.T, r http.Handler, path string, body interface{}, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	data, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(data))
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestChatEndpoint(t *testing.T) {
	r := testRouter(t)

	w := postJSON(t, r, "/chat", map[string]string{"message": "ahla"}, map[string]string{"X-Session-ID": "s1"})
	require.Equal(t, http.StatusOK, w.Code)

	var result model.TurnResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
	assert.Equal(t, "Salam !", result.Response)
	assert.Equal(t, model.PhaseService, result.Phase)
	assert.Equal(t, 1, result.TotalQuestions)
}

func TestChatEndpointRejectsEmptyMessage(t *testing.T) {
	r := testRouter(t)

	w := postJSON(t, r, "/chat", map[string]string{"message": "   "}, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = postJSON(t, r, "/chat", "not an object", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestChatEndpointKeepsSessionContinuity(t *testing.T) {
	r := testRouter(t)
	headers := map[string]string{"X-Session-ID": "s2"}

	postJSON(t, r, "/chat", map[string]string{"message": "salam"}, headers)
	w := postJSON(t, r, "/chat", map[string]string{"message": "n7eb bourse"}, headers)
	require.Equal(t, http.StatusOK, w.Code)

	var result model.TurnResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
	// Second message triggered the scripted flow instead of greeting again.
	assert.Equal(t, "3andek el bac ?", result.Response)
}

func TestAPIChatEnvelope(t *testing.T) {
	r := testRouter(t)

	w := postJSON(t, r, "/api/chat", map[string]string{"message": "ahla"}, map[string]string{"X-Session-ID": "s3"})
	require.Equal(t, http.StatusOK, w.Code)

	var envelope struct {
		Success bool `json:"success"`
		Data    struct {
			Response  string `json:"response"`
			Phase     string `json:"phase"`
			Timestamp string `json:"timestamp"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	assert.True(t, envelope.Success)
	assert.Equal(t, "Salam !", envelope.Data.Response)
	assert.Equal(t, "service", envelope.Data.Phase)
	_, err := time.Parse(time.RFC3339, envelope.Data.Timestamp)
	assert.NoError(t, err)
}

func TestStatusAndHealthEndpoints(t *testing.T) {
	r := testRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/status", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	var status map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &status))
	assert.Equal(t, "running", status["status"])

	req = httptest.NewRequest(http.MethodGet, "/health", nil)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestAdminRoutesRequireToken(t *testing.T) {
	r := testRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/v1/admin/stats", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	req = httptest.NewRequest(http.MethodGet, "/v1/admin/stats", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestLoginThenAdminStats(t *testing.T) {
	r := testRouter(t)

	w := postJSON(t, r, "/v1/auth/login", map[string]string{
		"username": "admin",
		"password": "password123",
	}, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var login model.LoginResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &login))
	require.NotEmpty(t, login.Token)

	req := httptest.NewRequest(http.MethodGet, "/v1/admin/stats", nil)
	req.Header.Set("Authorization", "Bearer "+login.Token)
	w2 := httptest.NewRecorder()
	r.ServeHTTP(w2, req)
	require.Equal(t, http.StatusOK, w2.Code)

	var stats map[string]interface{}
	require.NoError(t, json.Unmarshal(w2.Body.Bytes(), &stats))
	assert.Equal(t, false, stats["predictorLoaded"])
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	r := testRouter(t)

	w := postJSON(t, r, "/v1/auth/login", map[string]string{
		"username": "admin",
		"password": "wrong",
	}, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestCORSPreflight(t *testing.T) {
	r := testRouter(t)

	req := httptest.NewRequest(http.MethodOptions, "/chat", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get("Access-Control-Allow-Origin"))
}
