package llm

import (
	"context"
	"errors"
	"fmt"
)

var (
	// ErrTimeout cubre tanto el deadline del cliente como una cancelación.
	ErrTimeout            = errors.New("completion timeout")
	ErrNetwork            = errors.New("completion network error")
	ErrUnexpectedResponse = errors.New("completion unexpected response")
)

// ServerError conserva el status HTTP no exitoso devuelto por el endpoint.
type ServerError struct {
	Status int
}

func (e *ServerError) Error() string {
	return fmt.Sprintf("completion server error: status=%d", e.Status)
}

// classifyTransportError traduce el error de http.Client.Do a la taxonomía del requester.
// ctx es el contexto con deadline usado en la petición.
func classifyTransportError(ctx context.Context, err error) error {
	if err == nil {
		return nil
	}
	if ctx.Err() != nil || errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return fmt.Errorf("%w: %v", ErrTimeout, err)
	}
	return fmt.Errorf("%w: %v", ErrNetwork, err)
}
