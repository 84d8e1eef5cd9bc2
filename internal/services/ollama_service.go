package services

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"axiestudio/internal/config"
)

// OllamaModel mirrors one entry of Ollama's /api/tags response.
type OllamaModel struct {
	Name       string          `json:"name"`
	Size       int64           `json:"size,omitempty"`
	ModifiedAt string          `json:"modified_at,omitempty"`
	Digest     string          `json:"digest,omitempty"`
	Details    json.RawMessage `json:"details,omitempty"`
}

// OllamaHealth is the status snapshot exposed at /local-llms/status.
type OllamaHealth struct {
	Status      string   `json:"status"`
	IsRunning   bool     `json:"is_running"`
	IsEmbedded  bool     `json:"is_embedded"`
	BaseURL     string   `json:"base_url"`
	ModelsCount int      `json:"models_count"`
	Models      []string `json:"models"`
}

type OllamaService interface {
	IsRunning(ctx context.Context) bool
	GetModels(ctx context.Context) ([]OllamaModel, error)
	ShowModel(ctx context.Context, name string) (json.RawMessage, error)
	PullModel(ctx context.Context, name string) error
	DeleteModel(ctx context.Context, name string) error
	EnsureDefaultModel(ctx context.Context) error
	HealthCheck(ctx context.Context) OllamaHealth
}

type ollamaService struct {
	baseURL      string
	defaultModel string
	embedded     bool
	client       *http.Client
}

func NewOllamaService(cfg config.OllamaConfig) OllamaService {
	return &ollamaService{
		baseURL:      "http://" + cfg.Host,
		defaultModel: cfg.DefaultModel,
		embedded:     cfg.Embedded,
		client:       &http.Client{Timeout: 30 * time.Second},
	}
}

func (s *ollamaService) IsRunning(ctx context.Context) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+"/api/tags", nil)
	if err != nil {
		return false
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()
	return resp.StatusCode == http.StatusOK
}

func (s *ollamaService) GetModels(ctx context.Context) ([]OllamaModel, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+"/api/tags", nil)
	if err != nil {
		return nil, err
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("ollama tags request: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("ollama tags: unexpected status %d", resp.StatusCode)
	}

	var payload struct {
		Models []OllamaModel `json:"models"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("ollama tags decode: %w", err)
	}
	return payload.Models, nil
}

func (s *ollamaService) ShowModel(ctx context.Context, name string) (json.RawMessage, error) {
	resp, err := s.postJSON(ctx, http.MethodPost, "/api/show", map[string]string{"name": name})
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("ollama show %q: unexpected status %d", name, resp.StatusCode)
	}
	var raw json.RawMessage
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, fmt.Errorf("ollama show decode: %w", err)
	}
	return raw, nil
}

// PullModel streams the registry pull to completion, logging progress lines.
func (s *ollamaService) PullModel(ctx context.Context, name string) error {
	log.Printf("[ollama][pull] start model=%s", name)

	resp, err := s.postJSON(ctx, http.MethodPost, "/api/pull", map[string]string{"name": name})
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("ollama pull %q: unexpected status %d", name, resp.StatusCode)
	}

	scanner := bufio.NewScanner(resp.Body)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		var progress struct {
			Status string `json:"status"`
			Error  string `json:"error"`
		}
		if err := json.Unmarshal([]byte(line), &progress); err != nil {
			continue
		}
		if progress.Error != "" {
			return fmt.Errorf("ollama pull %q: %s", name, progress.Error)
		}
		log.Printf("[ollama][pull] model=%s status=%s", name, progress.Status)
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("ollama pull stream: %w", err)
	}
	log.Printf("[ollama][pull] done model=%s", name)
	return nil
}

func (s *ollamaService) DeleteModel(ctx context.Context, name string) error {
	resp, err := s.postJSON(ctx, http.MethodDelete, "/api/delete", map[string]string{"name": name})
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("ollama delete %q: unexpected status %d", name, resp.StatusCode)
	}
	log.Printf("[ollama][delete] model=%s", name)
	return nil
}

// EnsureDefaultModel pulls the configured default model if it is missing.
func (s *ollamaService) EnsureDefaultModel(ctx context.Context) error {
	models, err := s.GetModels(ctx)
	if err != nil {
		return err
	}
	for _, m := range models {
		if strings.Contains(m.Name, s.defaultModel) {
			return nil
		}
	}
	log.Printf("[ollama] default model %s not found, pulling", s.defaultModel)
	return s.PullModel(ctx, s.defaultModel)
}

func (s *ollamaService) HealthCheck(ctx context.Context) OllamaHealth {
	health := OllamaHealth{
		Status:     "unhealthy",
		IsEmbedded: s.embedded,
		BaseURL:    s.baseURL,
		Models:     []string{},
	}
	if !s.IsRunning(ctx) {
		return health
	}
	health.Status = "healthy"
	health.IsRunning = true

	models, err := s.GetModels(ctx)
	if err != nil {
		log.Printf("[ollama][health] model listing failed: %v", err)
		return health
	}
	health.ModelsCount = len(models)
	for _, m := range models {
		health.Models = append(health.Models, m.Name)
	}
	return health
}

func (s *ollamaService) postJSON(ctx context.Context, method, path string, body any) (*http.Response, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, method, s.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("ollama %s %s: %w", method, path, err)
	}
	return resp, nil
}
