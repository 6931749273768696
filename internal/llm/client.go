package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
)

// Upstream reenvía una conversación al proveedor de chat completions.
type Upstream interface {
	Forward(ctx context.Context, messages []ChatMessage) ([]byte, error)
}

// HTTPClient implementa Upstream usando la API OpenAI-compatible.
type HTTPClient struct {
	baseURL string
	apiKey  string
	model   string
	client  *http.Client
	logger  *zap.Logger
}

// NewHTTPClient construye un cliente HTTP apuntando a la API de chat completions.
func NewHTTPClient(baseURL, apiKey, model string, logger *zap.Logger) *HTTPClient {
	if baseURL == "" {
		baseURL = "https://api.openai.com/v1"
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &HTTPClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		model:   model,
		client:  &http.Client{Timeout: 60 * time.Second},
		logger:  logger,
	}
}

// Forward envía los mensajes con el modelo fijo y devuelve el JSON del proveedor tal cual.
func (c *HTTPClient) Forward(ctx context.Context, messages []ChatMessage) ([]byte, error) {
	bodyBytes, err := json.Marshal(upstreamRequest{Model: c.model, Messages: messages})
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(bodyBytes))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode >= 400 {
		c.logger.Warn("llm upstream error",
			zap.Int("status", resp.StatusCode),
			zap.ByteString("body", respBody),
		)
		return nil, fmt.Errorf("llm http error: status=%d", resp.StatusCode)
	}

	return respBody, nil
}

// ChatMessage es el par {role, content} que viaja en ambas direcciones.
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type upstreamRequest struct {
	Model    string        `json:"model"`
	Messages []ChatMessage `json:"messages"`
}

type completionRequest struct {
	Messages []ChatMessage `json:"messages"`
}

type completionResponse struct {
	Choices []struct {
		Message ChatMessage `json:"message"`
	} `json:"choices"`
}
