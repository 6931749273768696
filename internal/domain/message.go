package domain

import (
	"strconv"
	"time"
)

type MessageRole string

const (
	RoleUser      MessageRole = "user"
	RoleAssistant MessageRole = "assistant"
)

// MessageKind controla cómo se presenta un mensaje. El valor vacío es texto plano.
type MessageKind string

const (
	KindPlain            MessageKind = ""
	KindCodeResponse     MessageKind = "code-response"
	KindRepositoryList   MessageKind = "repository-list"
	KindRepositoryDetail MessageKind = "repository-detail"
	KindError            MessageKind = "error"
)

// DefaultCodeLanguage se usa cuando el fence no trae lenguaje.
const DefaultCodeLanguage = "text"

type CodeSection struct {
	Language string `json:"language"`
	Code     string `json:"code"`
}

// Message es una entrada inmutable de la conversación. Content puede llevar
// placeholders [CODE_BLOCK_n] que apuntan a CodeSections[n].
type Message struct {
	ID             string        `json:"id"`
	Role           MessageRole   `json:"role"`
	Content        string        `json:"content"`
	Timestamp      time.Time     `json:"timestamp"`
	Kind           MessageKind   `json:"type,omitempty"`
	CodeSections   []CodeSection `json:"code_sections,omitempty"`
	RepositoryList []Repository  `json:"repository_list,omitempty"`
	RepositoryName string        `json:"repository_name,omitempty"`
}

// NewMessageID arma un id con el instante de creación y un sufijo de rol ("user", "assistant", "error").
func NewMessageID(now time.Time, suffix string) string {
	return strconv.FormatInt(now.UnixNano(), 10) + "-" + suffix
}

// IsConversational indica si el mensaje forma parte del historial que se envía al LLM.
func (m Message) IsConversational() bool {
	return m.Kind == KindPlain || m.Kind == KindCodeResponse
}
