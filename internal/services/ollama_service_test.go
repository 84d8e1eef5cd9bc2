package services

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"axiestudio/internal/config"
)

func newOllamaFixture(t *testing.T, handler http.HandlerFunc) OllamaService {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewOllamaService(config.OllamaConfig{
		Host:         strings.TrimPrefix(srv.URL, "http://"),
		DefaultModel: "gemma2:2b",
	})
}

func TestOllamaGetModels(t *testing.T) {
	svc := newOllamaFixture(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/tags", r.URL.Path)
		json.NewEncoder(w).Encode(map[string]any{
			"models": []map[string]any{
				{"name": "gemma2:2b", "size": 1629518495},
				{"name": "llama3:8b"},
			},
		})
	})

	models, err := svc.GetModels(context.Background())
	require.NoError(t, err)
	require.Len(t, models, 2)
	assert.Equal(t, "gemma2:2b", models[0].Name)
	assert.True(t, svc.IsRunning(context.Background()))
}

func TestOllamaPullModel(t *testing.T) {
	var pulled string
	svc := newOllamaFixture(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/pull", r.URL.Path)
		var req struct {
			Name string `json:"name"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		pulled = req.Name
		w.Write([]byte(`{"status":"pulling manifest"}` + "\n" + `{"status":"success"}` + "\n"))
	})

	require.NoError(t, svc.PullModel(context.Background(), "gemma2:2b"))
	assert.Equal(t, "gemma2:2b", pulled)
}

func TestOllamaPullModelError(t *testing.T) {
	svc := newOllamaFixture(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"error":"pull model manifest: file does not exist"}` + "\n"))
	})

	err := svc.PullModel(context.Background(), "no-such-model")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "file does not exist")
}

func TestOllamaEnsureDefaultModelSkipsWhenPresent(t *testing.T) {
	pullCalled := false
	svc := newOllamaFixture(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/tags":
			json.NewEncoder(w).Encode(map[string]any{"models": []map[string]any{{"name": "gemma2:2b"}}})
		case "/api/pull":
			pullCalled = true
			w.Write([]byte(`{"status":"success"}` + "\n"))
		}
	})

	require.NoError(t, svc.EnsureDefaultModel(context.Background()))
	assert.False(t, pullCalled)
}

func TestOllamaHealthCheckDown(t *testing.T) {
	svc := NewOllamaService(config.OllamaConfig{Host: "127.0.0.1:1", DefaultModel: "gemma2:2b"})

	health := svc.HealthCheck(context.Background())
	assert.Equal(t, "unhealthy", health.Status)
	assert.False(t, health.IsRunning)
	assert.Empty(t, health.Models)
}

func TestOllamaHealthCheckUp(t *testing.T) {
	svc := newOllamaFixture(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"models": []map[string]any{{"name": "gemma2:2b"}}})
	})

	health := svc.HealthCheck(context.Background())
	assert.Equal(t, "healthy", health.Status)
	assert.True(t, health.IsRunning)
	assert.Equal(t, 1, health.ModelsCount)
	assert.Equal(t, []string{"gemma2:2b"}, health.Models)
}
