package inference

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"nba-qa-workers/internal/common/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_AnswerSpan(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/answer-span", r.URL.Path)
		assert.Equal(t, "Bearer token", r.Header.Get("Authorization"))

		var req spanRequest
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "Who scored?", req.Question)
		assert.Equal(t, "LeBron scored 30 points.", req.Context)
		assert.Equal(t, DefaultModel, req.Model)

		_, _ = w.Write([]byte(`{"answer":"30 points","score":0.87}`))
	}))
	defer server.Close()

	client := NewClient(config.InferenceAPIConfig{BaseURL: server.URL, APIKey: "token", Timeout: 1000})

	span, err := client.AnswerSpan(context.Background(), "Who scored?", "LeBron scored 30 points.")
	require.NoError(t, err)
	assert.Equal(t, "30 points", span.Text)
	assert.InDelta(t, 0.87, span.Confidence, 1e-9)
}

func TestClient_ClampsScore(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"answer":"Lakers","score":1.7}`))
	}))
	defer server.Close()

	span, err := NewClient(config.InferenceAPIConfig{BaseURL: server.URL}).AnswerSpan(context.Background(), "q", "c")
	require.NoError(t, err)
	assert.Equal(t, 1.0, span.Confidence)

	assert.Equal(t, 0.0, clamp(-0.2))
	assert.Equal(t, 0.4, clamp(0.4))
}

func TestClient_Failures(t *testing.T) {
	t.Run("server error", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
		}))
		defer server.Close()

		_, err := NewClient(config.InferenceAPIConfig{BaseURL: server.URL}).AnswerSpan(context.Background(), "q", "c")
		assert.ErrorIs(t, err, ErrInferenceFailed)
	})

	t.Run("empty span", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"answer":"  ","score":0.9}`))
		}))
		defer server.Close()

		_, err := NewClient(config.InferenceAPIConfig{BaseURL: server.URL}).AnswerSpan(context.Background(), "q", "c")
		assert.ErrorIs(t, err, ErrInferenceFailed)
	})

	t.Run("timeout", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			select {
			case <-time.After(time.Second):
			case <-r.Context().Done():
			}
		}))
		defer server.Close()

		_, err := NewClient(config.InferenceAPIConfig{BaseURL: server.URL, Timeout: 30}).AnswerSpan(context.Background(), "q", "c")
		assert.ErrorIs(t, err, ErrInferenceTimeout)
	})
}
