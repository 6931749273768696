package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// DefaultCompletionTimeout es el deadline del lado cliente para una petición.
const DefaultCompletionTimeout = 10 * time.Second

// Completer obtiene la respuesta cruda del asistente para una conversación.
// Los errores devueltos pertenecen a la taxonomía de errors.go.
type Completer interface {
	Complete(ctx context.Context, messages []ChatMessage) (string, error)
}

// CompletionClient habla con el endpoint de completions (el proxy /api/chat).
type CompletionClient struct {
	url     string
	timeout time.Duration
	client  *http.Client
}

func NewCompletionClient(url string, timeout time.Duration, httpClient *http.Client) *CompletionClient {
	if timeout <= 0 {
		timeout = DefaultCompletionTimeout
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &CompletionClient{
		url:     url,
		timeout: timeout,
		client:  httpClient,
	}
}

func (c *CompletionClient) Complete(ctx context.Context, messages []ChatMessage) (string, error) {
	bodyBytes, err := json.Marshal(completionRequest{Messages: messages})
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(bodyBytes))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return "", classifyTransportError(ctx, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", &ServerError{Status: resp.StatusCode}
	}

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", classifyTransportError(ctx, err)
	}

	var cr completionResponse
	if err := json.Unmarshal(respBody, &cr); err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnexpectedResponse, err)
	}
	if len(cr.Choices) == 0 {
		return "", ErrUnexpectedResponse
	}

	return cr.Choices[0].Message.Content, nil
}
