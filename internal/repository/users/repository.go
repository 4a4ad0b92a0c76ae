// Package users stores account records keyed by unique email.
package users

import (
	"context"
	"errors"

	"github.com/pixelsmith/playground/internal/model/user"
)

var (
	ErrNotFound       = errors.New("user not found")
	ErrDuplicateEmail = errors.New("email already registered")
)

// Repository abstracts user persistence so services can run against
// Postgres in production and the in-memory store in tests.
type Repository interface {
	Create(ctx context.Context, u *user.User) error
	FindByEmail(ctx context.Context, email string) (user.User, error)
	FindByID(ctx context.Context, id string) (user.User, error)
}
