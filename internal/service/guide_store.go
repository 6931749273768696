package service

import (
	"context"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"gitgpt/internal/repository"
)

// GuideFlagKey es la clave fija del único estado persistido.
const GuideFlagKey = "hasSeenCodeEditorGuide"

// GuideStore guarda si la guía del editor de código ya se mostró.
type GuideStore interface {
	Seen(ctx context.Context) (bool, error)
	MarkSeen(ctx context.Context) error
}

type memoryGuideStore struct {
	mu   sync.Mutex
	seen bool
}

func NewMemoryGuideStore() GuideStore {
	return &memoryGuideStore{}
}

func (s *memoryGuideStore) Seen(_ context.Context) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.seen, nil
}

func (s *memoryGuideStore) MarkSeen(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seen = true
	return nil
}

type redisGuideStore struct {
	client redisKV
	key    string
}

type redisKV interface {
	Exists(ctx context.Context, keys ...string) *redis.IntCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
}

func NewRedisGuideStore(client *redis.Client) GuideStore {
	if client == nil {
		return nil
	}
	return &redisGuideStore{
		client: client,
		key:    "guide:" + GuideFlagKey,
	}
}

func (s *redisGuideStore) Seen(ctx context.Context) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, 500*time.Millisecond)
	defer cancel()
	n, err := s.client.Exists(ctx, s.key).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (s *redisGuideStore) MarkSeen(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 500*time.Millisecond)
	defer cancel()
	return s.client.Set(ctx, s.key, "1", 0).Err()
}

type repositoryGuideStore struct {
	repo repository.GuideFlagRepository
}

func NewRepositoryGuideStore(repo repository.GuideFlagRepository) GuideStore {
	if repo == nil {
		return nil
	}
	return &repositoryGuideStore{repo: repo}
}

func (s *repositoryGuideStore) Seen(ctx context.Context) (bool, error) {
	return s.repo.IsSet(ctx, GuideFlagKey)
}

func (s *repositoryGuideStore) MarkSeen(ctx context.Context) error {
	return s.repo.Set(ctx, GuideFlagKey)
}
