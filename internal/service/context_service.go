package service

import (
	"gitgpt/internal/domain"
	"gitgpt/internal/llm"
)

// BuildCompletionContext arma la conversación que se envía al endpoint: solo mensajes
// planos o code-response, en orden cronológico, y el nuevo mensaje del usuario al final.
func BuildCompletionContext(history []domain.Message, userText string) []llm.ChatMessage {
	out := make([]llm.ChatMessage, 0, len(history)+1)
	for _, m := range history {
		if !m.IsConversational() {
			continue
		}
		out = append(out, llm.ChatMessage{Role: string(m.Role), Content: m.Content})
	}
	return append(out, llm.ChatMessage{Role: string(domain.RoleUser), Content: userText})
}
