// Package session provides owner-scoped CRUD over playground sessions.
package session

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/pixelsmith/playground/internal/model/session"
	"github.com/pixelsmith/playground/internal/repository/sessions"
)

var (
	ErrNotFound        = errors.New("session not found")
	ErrVersionConflict = errors.New("session was modified concurrently")
)

// Service applies ownership checks and partial-update semantics on top of
// the session repository. Operations touch a single document; there are no
// cross-session transactions.
type Service struct {
	repo sessions.Repository
}

func NewService(repo sessions.Repository) *Service {
	return &Service{repo: repo}
}

// List returns all sessions owned by userID in storage order.
func (s *Service) List(ctx context.Context, userID string) ([]session.Session, error) {
	out, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	return out, nil
}

// Create stores a new session stamped with the caller's ownership.
func (s *Service) Create(ctx context.Context, userID string, draft session.Draft) (session.Session, error) {
	sess := session.Session{
		ID:          uuid.NewString(),
		UserID:      userID,
		ChatHistory: draft.ChatHistory,
		Code:        draft.Code,
		CSS:         draft.CSS,
	}
	if sess.ChatHistory == nil {
		sess.ChatHistory = []session.Turn{}
	}
	if err := s.repo.Create(ctx, &sess); err != nil {
		return session.Session{}, fmt.Errorf("create session: %w", err)
	}
	return sess, nil
}

// Get returns the session if it exists and is owned by userID. Absent and
// foreign ids both answer ErrNotFound.
func (s *Service) Get(ctx context.Context, userID, id string) (session.Session, error) {
	sess, err := s.repo.Find(ctx, userID, id)
	if err != nil {
		if errors.Is(err, sessions.ErrNotFound) {
			return session.Session{}, ErrNotFound
		}
		return session.Session{}, fmt.Errorf("get session: %w", err)
	}
	return sess, nil
}

// Update replaces the fields the patch provides and leaves the rest
// unchanged. Without a version in the patch the last writer wins; with one,
// a stale version yields ErrVersionConflict.
func (s *Service) Update(ctx context.Context, userID, id string, patch session.Patch) (session.Session, error) {
	sess, err := s.Get(ctx, userID, id)
	if err != nil {
		return session.Session{}, err
	}

	if patch.Version != nil && *patch.Version != sess.Version {
		return session.Session{}, ErrVersionConflict
	}
	if patch.ChatHistory != nil {
		sess.ChatHistory = *patch.ChatHistory
	}
	if patch.Code != nil {
		sess.Code = *patch.Code
	}
	if patch.CSS != nil {
		sess.CSS = *patch.CSS
	}

	if err := s.repo.Replace(ctx, &sess, patch.Version); err != nil {
		switch {
		case errors.Is(err, sessions.ErrNotFound):
			return session.Session{}, ErrNotFound
		case errors.Is(err, sessions.ErrVersionConflict):
			return session.Session{}, ErrVersionConflict
		}
		return session.Session{}, fmt.Errorf("update session: %w", err)
	}
	return sess, nil
}

// Delete removes the session if owned by userID.
func (s *Service) Delete(ctx context.Context, userID, id string) error {
	if err := s.repo.Delete(ctx, userID, id); err != nil {
		if errors.Is(err, sessions.ErrNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}
