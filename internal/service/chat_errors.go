package service

import (
	"errors"
	"fmt"

	"gitgpt/internal/llm"
)

const (
	timeoutErrorText    = "The request timed out. Please check your internet connection and try again."
	networkErrorText    = "Network error: Please check your internet connection and try again."
	serverErrorTextFmt  = "Server error (%d): The server is currently unavailable. Please try again later."
	unexpectedErrorText = "Sorry, there was an error processing your request. Please check your internet connection and try again."
)

// CompletionErrorText traduce un fallo del requester al texto que ve el usuario.
func CompletionErrorText(err error) string {
	var se *llm.ServerError
	switch {
	case errors.As(err, &se):
		return fmt.Sprintf(serverErrorTextFmt, se.Status)
	case errors.Is(err, llm.ErrTimeout):
		return timeoutErrorText
	case errors.Is(err, llm.ErrNetwork):
		return networkErrorText
	default:
		return unexpectedErrorText
	}
}
