package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nba-qa-workers/internal/archive"
	"nba-qa-workers/internal/common/logger"
	"nba-qa-workers/internal/inference"
	"nba-qa-workers/internal/models"
	"nba-qa-workers/internal/qa/composer"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type stubPipeline struct {
	question string
}

func (s *stubPipeline) Compose(_ context.Context, question string) composer.Result {
	s.question = question
	return composer.Result{
		Analysis: models.QuestionAnalysis{Question: question, Intent: models.IntentGameResult},
		Answer: models.Answer{
			Text:       "Los Angeles Lakers 120, Golden State Warriors 112",
			Confidence: 0.95,
			Context:    "On 2025-01-15, Los Angeles Lakers played against Golden State Warriors.",
			Sources:    []models.Provenance{{Type: "team_game", GameID: "0022400150"}},
		},
		Path: composer.PathDirectScore,
	}
}

func (s *stubPipeline) AnswerWithDetails(_ context.Context, question string) composer.Details {
	return composer.Details{
		Question:   question,
		RecordKind: models.KindGameData,
		Context:    "On 2025-01-15, ...",
		Inference:  &inference.Span{Text: "Los Angeles Lakers", Confidence: 0.9},
		Answer:     "Los Angeles Lakers",
		Confidence: 0.9,
	}
}

type stubAnalyzer struct{}

func (stubAnalyzer) Analyze(question string) models.QuestionAnalysis {
	return models.QuestionAnalysis{Question: question, Intent: models.IntentRankedLeaders, Confidence: 0.2}
}

type memoryStore struct {
	entries map[string]archive.Entry
	loadErr error
}

func (m *memoryStore) Save(_ context.Context, entry archive.Entry) (string, error) {
	m.entries[entry.RequestID] = entry
	return archive.Key(entry.RequestID), nil
}

func (m *memoryStore) Load(_ context.Context, requestID string) (archive.Entry, error) {
	if m.loadErr != nil {
		return archive.Entry{}, m.loadErr
	}
	entry, ok := m.entries[requestID]
	if !ok {
		return archive.Entry{}, archive.ErrNotFound
	}
	return entry, nil
}

func newTestRouter(t *testing.T, store AnswerStore, checks map[string]ReadinessCheck) (*gin.Engine, *stubPipeline) {
	pipeline := &stubPipeline{}
	return NewRouter(Options{
		Pipeline:  pipeline,
		Analyzer:  stubAnalyzer{},
		Archive:   store,
		Readiness: checks,
		Version:   "test",
		Logger:    logger.NewTestLogger(t),
	}), pipeline
}

func do(router http.Handler, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestAnswerEndpoint(t *testing.T) {
	store := &memoryStore{entries: map[string]archive.Entry{}}
	router, pipeline := newTestRouter(t, store, nil)

	w := do(router, http.MethodPost, "/api/v1/answer", `{"question":"  What was the score of the last Lakers game? ","requestId":"req-9"}`)

	require.Equal(t, http.StatusOK, w.Code)
	var resp AnswerResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "What was the score of the last Lakers game?", pipeline.question)
	assert.Equal(t, "req-9", resp.RequestID)
	assert.Equal(t, 0.95, resp.Confidence)
	assert.Equal(t, models.IntentGameResult, resp.Intent)
	assert.Equal(t, "qa:answer:req-9", resp.ArchiveKey)
	assert.Contains(t, store.entries, "req-9")
}

func TestAnswerEndpoint_WithoutArchive(t *testing.T) {
	router, _ := newTestRouter(t, nil, nil)

	w := do(router, http.MethodPost, "/api/v1/answer", `{"question":"Who won?"}`)

	require.Equal(t, http.StatusOK, w.Code)
	var resp AnswerResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.RequestID)
	assert.Empty(t, resp.ArchiveKey)
}

func TestAnswerEndpoint_BadRequest(t *testing.T) {
	router, _ := newTestRouter(t, nil, nil)

	for _, body := range []string{`{}`, `{"question":"   "}`, `not json`, `{"question":` + `"` + strings.Repeat("a", 1001) + `"}`} {
		w := do(router, http.MethodPost, "/api/v1/answer", body)
		assert.Equal(t, http.StatusBadRequest, w.Code, body)
	}
}

func TestDetailsEndpoint(t *testing.T) {
	router, _ := newTestRouter(t, nil, nil)

	w := do(router, http.MethodPost, "/api/v1/answer/details", `{"question":"Who won?"}`)

	require.Equal(t, http.StatusOK, w.Code)
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "game_data", body["nba_data_type"])
	assert.Equal(t, "Los Angeles Lakers", body["answer"])
	assert.NotNil(t, body["qa_result"])
	assert.Equal(t, []interface{}{}, body["sources"])
}

func TestAnalyzeEndpoint(t *testing.T) {
	router, _ := newTestRouter(t, nil, nil)

	w := do(router, http.MethodPost, "/api/v1/analyze", `{"question":"top 5 scorers"}`)

	require.Equal(t, http.StatusOK, w.Code)
	var analysis models.QuestionAnalysis
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &analysis))
	assert.Equal(t, models.IntentRankedLeaders, analysis.Intent)
}

func TestGetAnswerEndpoint(t *testing.T) {
	store := &memoryStore{entries: map[string]archive.Entry{
		"req-1": {RequestID: "req-1", Question: "Who won?", Intent: models.IntentGameResult},
	}}
	router, _ := newTestRouter(t, store, nil)

	w := do(router, http.MethodGet, "/api/v1/answers/req-1", "")
	require.Equal(t, http.StatusOK, w.Code)
	var entry archive.Entry
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &entry))
	assert.Equal(t, "Who won?", entry.Question)

	w = do(router, http.MethodGet, "/api/v1/answers/missing", "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	store.loadErr = errors.New("redis down")
	w = do(router, http.MethodGet, "/api/v1/answers/req-1", "")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestGetAnswerEndpoint_ArchiveDisabled(t *testing.T) {
	router, _ := newTestRouter(t, nil, nil)

	w := do(router, http.MethodGet, "/api/v1/answers/req-1", "")
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestHealthAndReady(t *testing.T) {
	healthy := map[string]ReadinessCheck{"redis": func(context.Context) error { return nil }}
	router, _ := newTestRouter(t, nil, healthy)

	w := do(router, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"healthy"`)

	w = do(router, http.MethodGet, "/ready", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"redis":"ok"`)

	failing := map[string]ReadinessCheck{"zeebe": func(context.Context) error { return errors.New("unreachable") }}
	router, _ = newTestRouter(t, nil, failing)
	w = do(router, http.MethodGet, "/ready", "")
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Contains(t, w.Body.String(), `"zeebe":"unreachable"`)
}

func TestMetricsEndpoint(t *testing.T) {
	router, _ := newTestRouter(t, nil, nil)

	w := do(router, http.MethodGet, "/metrics", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "go_goroutines")
}

func TestCORSPreflight(t *testing.T) {
	router := NewRouter(Options{
		Pipeline:       &stubPipeline{},
		Analyzer:       stubAnalyzer{},
		AllowedOrigins: []string{"http://localhost:3000"},
	})

	req := httptest.NewRequest(http.MethodOptions, "/api/v1/answer", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", "POST")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "http://localhost:3000", w.Header().Get("Access-Control-Allow-Origin"))
}
