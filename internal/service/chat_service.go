package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"

	"gitgpt/internal/catalog"
	"gitgpt/internal/domain"
	"gitgpt/internal/llm"
)

const (
	repositoryListText   = "Sure thing! Here are your repositories, choose one to link to this chat:"
	importRepositoryText = "I want to import a repository"
)

var (
	ErrChatServiceNotConfigured = errors.New("chat service not configured")
	ErrEmptyMessage             = errors.New("message is empty")
	ErrRepositoryNotFound       = errors.New("repository not found")
)

// ChatOptions ajusta las demoras artificiales del modo mock.
type ChatOptions struct {
	RepositoryDelay       time.Duration
	RepositorySelectDelay time.Duration
}

// ChatService conduce el pipeline: requester -> segmentador -> mensaje inmutable en la sesión.
type ChatService struct {
	logger      *zap.Logger
	sessions    SessionStore
	completer   llm.Completer
	catalog     *catalog.Catalog
	repoDelay   time.Duration
	selectDelay time.Duration
	now         func() time.Time
}

func NewChatService(
	logger *zap.Logger,
	sessions SessionStore,
	completer llm.Completer,
	repos *catalog.Catalog,
	opts ChatOptions,
) *ChatService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ChatService{
		logger:      logger,
		sessions:    sessions,
		completer:   completer,
		catalog:     repos,
		repoDelay:   opts.RepositoryDelay,
		selectDelay: opts.RepositorySelectDelay,
		now:         func() time.Time { return time.Now().UTC() },
	}
}

// IsRepositoryCommand detecta el atajo mock que evita llamar al LLM.
func IsRepositoryCommand(text string) bool {
	lower := strings.ToLower(text)
	return strings.Contains(lower, "import repository") || strings.Contains(lower, "github")
}

func (s *ChatService) CreateSession() (domain.Session, error) {
	if s == nil || s.sessions == nil {
		return domain.Session{}, ErrChatServiceNotConfigured
	}
	return s.sessions.Create(), nil
}

func (s *ChatService) Messages(sessionID string) (domain.Session, error) {
	if s == nil || s.sessions == nil {
		return domain.Session{}, ErrChatServiceNotConfigured
	}
	return s.sessions.Get(sessionID)
}

// Reset vacía la conversación (cambio de pantalla).
func (s *ChatService) Reset(sessionID string) error {
	if s == nil || s.sessions == nil {
		return ErrChatServiceNotConfigured
	}
	return s.sessions.Reset(sessionID)
}

// Send agrega el mensaje del usuario y la respuesta (o el error) del asistente.
// Los fallos del endpoint nunca se devuelven: terminan como un mensaje de tipo error.
// Devuelve los mensajes agregados por esta llamada.
func (s *ChatService) Send(ctx context.Context, sessionID, text string) ([]domain.Message, error) {
	if s == nil || s.sessions == nil || s.completer == nil {
		return nil, ErrChatServiceNotConfigured
	}
	if strings.TrimSpace(text) == "" {
		return nil, ErrEmptyMessage
	}

	if err := s.sessions.Begin(sessionID); err != nil {
		return nil, err
	}
	defer s.sessions.End(sessionID)

	session, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, err
	}

	userMsg := s.userMessage(text)
	if err := s.sessions.Append(sessionID, userMsg); err != nil {
		return nil, err
	}
	appended := []domain.Message{userMsg}

	var reply domain.Message
	if IsRepositoryCommand(text) {
		if err := sleepContext(ctx, s.repoDelay); err != nil {
			return appended, err
		}
		reply = s.repositoryListMessage()
	} else {
		reply = s.complete(ctx, sessionID, BuildCompletionContext(session.Messages, text))
	}

	if err := s.sessions.Append(sessionID, reply); err != nil {
		return appended, err
	}
	return append(appended, reply), nil
}

func (s *ChatService) complete(ctx context.Context, sessionID string, history []llm.ChatMessage) domain.Message {
	now := s.now()
	raw, err := s.completer.Complete(ctx, history)
	if err != nil {
		s.logger.Warn("completion failed",
			zap.String("session_id", sessionID),
			zap.Error(err),
		)
		return domain.Message{
			ID:        domain.NewMessageID(now, "error"),
			Role:      domain.RoleAssistant,
			Content:   CompletionErrorText(err),
			Timestamp: now,
			Kind:      domain.KindError,
		}
	}

	content, sections := ExtractCodeBlocks(raw)
	if len(sections) == 0 {
		return domain.Message{
			ID:        domain.NewMessageID(now, "assistant"),
			Role:      domain.RoleAssistant,
			Content:   raw,
			Timestamp: now,
		}
	}
	return domain.Message{
		ID:           domain.NewMessageID(now, "assistant"),
		Role:         domain.RoleAssistant,
		Content:      content,
		Timestamp:    now,
		Kind:         domain.KindCodeResponse,
		CodeSections: sections,
	}
}

// ImportRepository agrega la petición del usuario y el listado de repositorios sin demora.
func (s *ChatService) ImportRepository(sessionID string) ([]domain.Message, error) {
	if s == nil || s.sessions == nil {
		return nil, ErrChatServiceNotConfigured
	}
	if err := s.sessions.Begin(sessionID); err != nil {
		return nil, err
	}
	defer s.sessions.End(sessionID)

	msgs := []domain.Message{s.userMessage(importRepositoryText), s.repositoryListMessage()}
	if err := s.sessions.Append(sessionID, msgs...); err != nil {
		return nil, err
	}
	return msgs, nil
}

// SelectRepository vincula un repositorio del catálogo a la conversación.
// Los listados anteriores se conservan: la lista solo crece.
func (s *ChatService) SelectRepository(ctx context.Context, sessionID, repoID string) ([]domain.Message, error) {
	if s == nil || s.sessions == nil {
		return nil, ErrChatServiceNotConfigured
	}
	repo, ok := s.catalog.Get(repoID)
	if !ok {
		return nil, ErrRepositoryNotFound
	}

	if err := s.sessions.Begin(sessionID); err != nil {
		return nil, err
	}
	defer s.sessions.End(sessionID)

	userMsg := s.userMessage("I want to use " + repo.Name)
	if err := s.sessions.Append(sessionID, userMsg); err != nil {
		return nil, err
	}
	appended := []domain.Message{userMsg}

	if err := sleepContext(ctx, s.selectDelay); err != nil {
		return appended, err
	}

	now := s.now()
	detail := domain.Message{
		ID:             domain.NewMessageID(now, "assistant"),
		Role:           domain.RoleAssistant,
		Content:        "Successfully connected to " + repo.Name + "! What would you like me to do next?",
		Timestamp:      now,
		Kind:           domain.KindRepositoryDetail,
		RepositoryName: repo.Name,
	}
	if err := s.sessions.Append(sessionID, detail); err != nil {
		return appended, err
	}
	return append(appended, detail), nil
}

func (s *ChatService) userMessage(text string) domain.Message {
	now := s.now()
	return domain.Message{
		ID:        domain.NewMessageID(now, "user"),
		Role:      domain.RoleUser,
		Content:   text,
		Timestamp: now,
	}
}

func (s *ChatService) repositoryListMessage() domain.Message {
	now := s.now()
	return domain.Message{
		ID:             domain.NewMessageID(now, "assistant"),
		Role:           domain.RoleAssistant,
		Content:        repositoryListText,
		Timestamp:      now,
		Kind:           domain.KindRepositoryList,
		RepositoryList: s.catalog.All(),
	}
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
