// Package sessions persists playground sessions scoped to their owner.
// Every query carries the owner id, so an absent id and a foreign id are
// indistinguishable to callers.
package sessions

import (
	"context"
	"errors"

	"github.com/pixelsmith/playground/internal/model/session"
)

var (
	ErrNotFound        = errors.New("session not found")
	ErrVersionConflict = errors.New("session was modified concurrently")
)

// Repository abstracts session persistence. Replace performs a full-row
// write; when guardVersion is non-nil the write only succeeds if the stored
// version still matches, otherwise ErrVersionConflict is returned.
type Repository interface {
	ListByUser(ctx context.Context, userID string) ([]session.Session, error)
	Create(ctx context.Context, s *session.Session) error
	Find(ctx context.Context, userID, id string) (session.Session, error)
	Replace(ctx context.Context, s *session.Session, guardVersion *int64) error
	Delete(ctx context.Context, userID, id string) error
}
