// Package auth implements signup, login, and bearer token verification.
// Passwords are bcrypt-hashed; tokens are self-contained JWTs whose expiry
// is the only lifecycle bound (no revocation list).
package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/pixelsmith/playground/internal/model/user"
	"github.com/pixelsmith/playground/internal/repository/users"
)

var (
	ErrEmailRequired      = errors.New("email and password are required")
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrInvalidToken       = errors.New("invalid or expired token")
)

// Service issues and validates credentials against the user repository.
type Service struct {
	users    users.Repository
	secret   []byte
	tokenTTL time.Duration
}

func NewService(repo users.Repository, secret []byte, tokenTTL time.Duration) *Service {
	return &Service{users: repo, secret: secret, tokenTTL: tokenTTL}
}

// Signup creates a user with a bcrypt-hashed password.
func (s *Service) Signup(ctx context.Context, email, password string) (user.User, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	if email == "" || password == "" {
		return user.User{}, ErrEmailRequired
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return user.User{}, fmt.Errorf("hash password: %w", err)
	}

	u := user.User{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: string(hash),
	}
	if err := s.users.Create(ctx, &u); err != nil {
		if errors.Is(err, users.ErrDuplicateEmail) {
			return user.User{}, ErrEmailTaken
		}
		return user.User{}, fmt.Errorf("create user: %w", err)
	}
	return u, nil
}

// Login verifies the credentials and mints a token on success. Unknown
// emails and wrong passwords answer identically.
func (s *Service) Login(ctx context.Context, email, password string) (string, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	if email == "" || password == "" {
		return "", ErrEmailRequired
	}

	u, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, users.ErrNotFound) {
			return "", ErrInvalidCredentials
		}
		return "", fmt.Errorf("find user: %w", err)
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) != nil {
		return "", ErrInvalidCredentials
	}

	return s.IssueToken(u.ID)
}

// IssueToken mints a bearer token for an already-authenticated user id.
func (s *Service) IssueToken(userID string) (string, error) {
	token, err := GenerateToken(userID, s.secret, s.tokenTTL)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return token, nil
}

// Verify returns the user id a token was issued for, or ErrInvalidToken.
func (s *Service) Verify(tokenString string) (string, error) {
	userID, err := UserIDFromToken(tokenString, s.secret)
	if err != nil {
		return "", ErrInvalidToken
	}
	return userID, nil
}
