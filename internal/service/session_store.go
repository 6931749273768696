package service

import (
	"errors"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"gitgpt/internal/domain"
)

var (
	ErrSessionNotFound = errors.New("session not found")
	ErrSessionBusy     = errors.New("session has a request in flight")
)

// SessionStore guarda las conversaciones en memoria. No hay persistencia del historial.
type SessionStore interface {
	Create() domain.Session
	Get(id string) (domain.Session, error)
	Append(id string, msgs ...domain.Message) error
	Reset(id string) error
	// Begin marca la sesión como cargando; falla con ErrSessionBusy si ya lo estaba.
	Begin(id string) error
	End(id string)
}

type memorySessionStore struct {
	mu    sync.Mutex
	items map[string]*domain.Session
	now   func() time.Time
}

func NewMemorySessionStore() SessionStore {
	return &memorySessionStore{
		items: make(map[string]*domain.Session),
		now:   func() time.Time { return time.Now().UTC() },
	}
}

func (s *memorySessionStore) Create() domain.Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	session := &domain.Session{
		ID:        uuid.NewString(),
		Messages:  []domain.Message{},
		CreatedAt: s.now(),
	}
	s.items[session.ID] = session
	return snapshot(session)
}

func (s *memorySessionStore) Get(id string) (domain.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	session, ok := s.items[strings.TrimSpace(id)]
	if !ok {
		return domain.Session{}, ErrSessionNotFound
	}
	return snapshot(session), nil
}

// Append reemplaza la lista completa (copy-on-write); los snapshots previos no cambian.
func (s *memorySessionStore) Append(id string, msgs ...domain.Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	session, ok := s.items[strings.TrimSpace(id)]
	if !ok {
		return ErrSessionNotFound
	}
	next := make([]domain.Message, 0, len(session.Messages)+len(msgs))
	next = append(next, session.Messages...)
	next = append(next, msgs...)
	session.Messages = next
	return nil
}

func (s *memorySessionStore) Reset(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	session, ok := s.items[strings.TrimSpace(id)]
	if !ok {
		return ErrSessionNotFound
	}
	session.Messages = []domain.Message{}
	return nil
}

func (s *memorySessionStore) Begin(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	session, ok := s.items[strings.TrimSpace(id)]
	if !ok {
		return ErrSessionNotFound
	}
	if session.Loading {
		return ErrSessionBusy
	}
	session.Loading = true
	return nil
}

func (s *memorySessionStore) End(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if session, ok := s.items[strings.TrimSpace(id)]; ok {
		session.Loading = false
	}
}

func snapshot(session *domain.Session) domain.Session {
	out := *session
	out.Messages = slices.Clone(session.Messages)
	if out.Messages == nil {
		out.Messages = []domain.Message{}
	}
	return out
}
