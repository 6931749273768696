package llm

import (
	"context"
	"sync"
)

// MockClient permite tests sin llamar a un LLM real. Guarda los mensajes recibidos.
type MockClient struct {
	Response string
	Err      error

	mu    sync.Mutex
	calls [][]ChatMessage
}

func (m *MockClient) Complete(ctx context.Context, messages []ChatMessage) (string, error) {
	m.mu.Lock()
	m.calls = append(m.calls, append([]ChatMessage(nil), messages...))
	m.mu.Unlock()
	return m.Response, m.Err
}

// Calls devuelve las conversaciones recibidas, en orden.
func (m *MockClient) Calls() [][]ChatMessage {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([][]ChatMessage(nil), m.calls...)
}
