package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
	"github.com/shenikar/camera_map/internal/models"
	"github.com/shenikar/camera_map/internal/service"
)

// MemorySessionStore хранит сессии в памяти процесса, когда Redis не настроен
type MemorySessionStore struct {
	cache *cache.Cache
}

func NewMemorySessionStore(ttl time.Duration) service.SessionStore {
	return &MemorySessionStore{
		cache: cache.New(ttl, 2*ttl),
	}
}

func (m *MemorySessionStore) Get(_ context.Context, id uuid.UUID) (*models.SessionState, error) {
	val, ok := m.cache.Get(sessionKey(id))
	if !ok {
		return nil, service.ErrSessionNotFound
	}
	state := val.(models.SessionState)
	return &state, nil
}

// Save кладет копию состояния, чтобы вызывающий не менял сохраненное значение
func (m *MemorySessionStore) Save(_ context.Context, id uuid.UUID, state *models.SessionState) error {
	m.cache.SetDefault(sessionKey(id), *state)
	return nil
}
