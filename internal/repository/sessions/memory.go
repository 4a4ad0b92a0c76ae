package sessions

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/pixelsmith/playground/internal/model/session"
)

// MemoryRepository keeps sessions in a map. It backs service and handler
// tests.
type MemoryRepository struct {
	mu    sync.RWMutex
	items map[string]session.Session
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{items: make(map[string]session.Session)}
}

func (r *MemoryRepository) ListByUser(_ context.Context, userID string) ([]session.Session, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []session.Session
	for _, s := range r.items {
		if s.UserID == userID {
			out = append(out, cloneSession(s))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (r *MemoryRepository) Create(_ context.Context, s *session.Session) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now().UTC()
	s.Version = 1
	s.CreatedAt = now
	s.UpdatedAt = now
	if s.ChatHistory == nil {
		s.ChatHistory = []session.Turn{}
	}
	r.items[s.ID] = cloneSession(*s)
	return nil
}

func (r *MemoryRepository) Find(_ context.Context, userID, id string) (session.Session, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.items[id]
	if !ok || s.UserID != userID {
		return session.Session{}, ErrNotFound
	}
	return cloneSession(s), nil
}

func (r *MemoryRepository) Replace(_ context.Context, s *session.Session, guardVersion *int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.items[s.ID]
	if !ok || stored.UserID != s.UserID {
		return ErrNotFound
	}
	if guardVersion != nil && stored.Version != *guardVersion {
		return ErrVersionConflict
	}

	s.Version = stored.Version + 1
	s.CreatedAt = stored.CreatedAt
	s.UpdatedAt = time.Now().UTC()
	if s.ChatHistory == nil {
		s.ChatHistory = []session.Turn{}
	}
	r.items[s.ID] = cloneSession(*s)
	return nil
}

func (r *MemoryRepository) Delete(_ context.Context, userID, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.items[id]
	if !ok || s.UserID != userID {
		return ErrNotFound
	}
	delete(r.items, id)
	return nil
}

func cloneSession(s session.Session) session.Session {
	s.ChatHistory = append([]session.Turn(nil), s.ChatHistory...)
	return s
}
