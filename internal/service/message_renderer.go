package service

import (
	"regexp"
	"strconv"

	"gitgpt/internal/domain"
)

var codeBlockPlaceholderPattern = regexp.MustCompile(`\[CODE_BLOCK_(\d+)\]`)

type NodeType string

const (
	NodeText             NodeType = "text"
	NodeCode             NodeType = "code"
	NodeRepositoryList   NodeType = "repository-list"
	NodeRepositoryDetail NodeType = "repository-detail"
	NodeError            NodeType = "error"
)

// RenderNode es un bloque listo para presentar.
type RenderNode struct {
	Type           NodeType            `json:"type"`
	Text           string              `json:"text,omitempty"`
	Section        *domain.CodeSection `json:"section,omitempty"`
	Repositories   []domain.Repository `json:"repositories,omitempty"`
	RepositoryName string              `json:"repository_name,omitempty"`
}

// RenderMessage reconstruye la secuencia de nodos de un mensaje. Es pura: llamarla
// varias veces sobre el mismo mensaje produce el mismo resultado.
func RenderMessage(msg domain.Message) []RenderNode {
	switch msg.Kind {
	case domain.KindCodeResponse:
		return renderCodeResponse(msg.Content, msg.CodeSections)
	case domain.KindRepositoryList:
		return []RenderNode{{Type: NodeRepositoryList, Text: msg.Content, Repositories: msg.RepositoryList}}
	case domain.KindRepositoryDetail:
		return []RenderNode{{Type: NodeRepositoryDetail, Text: msg.Content, RepositoryName: msg.RepositoryName}}
	case domain.KindError:
		return []RenderNode{{Type: NodeError, Text: msg.Content}}
	default:
		return []RenderNode{{Type: NodeText, Text: msg.Content}}
	}
}

// Placeholders fuera de rango (o no parseables) no generan nodo.
func renderCodeResponse(content string, sections []domain.CodeSection) []RenderNode {
	nodes := []RenderNode{}
	last := 0

	for _, loc := range codeBlockPlaceholderPattern.FindAllStringSubmatchIndex(content, -1) {
		if text := content[last:loc[0]]; text != "" {
			nodes = append(nodes, RenderNode{Type: NodeText, Text: text})
		}
		last = loc[1]

		idx, err := strconv.Atoi(content[loc[2]:loc[3]])
		if err != nil || idx < 0 || idx >= len(sections) {
			continue
		}
		section := sections[idx]
		if section.Language == "" {
			section.Language = domain.DefaultCodeLanguage
		}
		nodes = append(nodes, RenderNode{Type: NodeCode, Section: &section})
	}

	if tail := content[last:]; tail != "" {
		nodes = append(nodes, RenderNode{Type: NodeText, Text: tail})
	}
	return nodes
}
