package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_GetJSON_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/players/2544/career", r.URL.Path)
		assert.Equal(t, "2024-25", r.URL.Query().Get("season"))
		assert.Equal(t, "secret", r.Header.Get("X-Api-Key"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"rows":[{"PTS":30}]}`))
	}))
	defer server.Close()

	client := NewClient(server.URL+"/", Options{Headers: map[string]string{"X-Api-Key": "secret"}})

	var out struct {
		Rows []map[string]interface{} `json:"rows"`
	}
	err := client.GetJSON(context.Background(), "/players/2544/career", url.Values{"season": {"2024-25"}}, &out)
	require.NoError(t, err)
	require.Len(t, out.Rows, 1)
	assert.Equal(t, json.Number("30"), out.Rows[0]["PTS"])
}

func TestClient_RetriesServerErrors(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		_, _ = w.Write([]byte(`{"ok":true}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, Options{MaxRetries: 2, BaseBackoff: time.Millisecond})

	var out map[string]interface{}
	require.NoError(t, client.PostJSON(context.Background(), "/answer-span", map[string]string{"q": "x"}, &out))
	assert.Equal(t, int32(3), atomic.LoadInt32(&calls))
	assert.Equal(t, true, out["ok"])
}

func TestClient_ClientErrorIsNotRetried(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		http.Error(w, "unknown player", http.StatusNotFound)
	}))
	defer server.Close()

	client := NewClient(server.URL, Options{MaxRetries: 3, BaseBackoff: time.Millisecond})

	err := client.GetJSON(context.Background(), "/players/1/career", nil, nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrRequestFailed)
	assert.Contains(t, err.Error(), "status 404")
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestClient_ExhaustedRetries(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	client := NewClient(server.URL, Options{MaxRetries: 1, BaseBackoff: time.Millisecond})

	err := client.GetJSON(context.Background(), "/teams", nil, nil)
	assert.ErrorIs(t, err, ErrRequestFailed)
}

func TestClient_Timeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-time.After(500 * time.Millisecond):
		case <-r.Context().Done():
		}
	}))
	defer server.Close()

	client := NewClient(server.URL, Options{Timeout: 50 * time.Millisecond, MaxRetries: 2})

	err := client.GetJSON(context.Background(), "/teams", nil, nil)
	assert.ErrorIs(t, err, ErrRequestTimeout)
}
