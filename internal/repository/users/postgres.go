package users

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/pixelsmith/playground/internal/model/user"
	"github.com/pixelsmith/playground/internal/storage"
)

const uniqueViolation = "23505"

type PostgresRepository struct {
	db storage.DBTX
}

func NewPostgresRepository(db storage.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, u *user.User) error {
	query := `INSERT INTO users (id, email, password_hash)
	          VALUES ($1, $2, $3)
	          RETURNING created_at`

	err := r.db.QueryRowContext(ctx, query, u.ID, u.Email, u.PasswordHash).Scan(&u.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return ErrDuplicateEmail
		}
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) FindByEmail(ctx context.Context, email string) (user.User, error) {
	query := `SELECT id, email, password_hash, created_at FROM users
	          WHERE email = $1`

	var u user.User
	err := r.db.QueryRowContext(ctx, query, email).Scan(&u.ID, &u.Email, &u.PasswordHash, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return user.User{}, ErrNotFound
		}
		return user.User{}, fmt.Errorf("db error: %w", err)
	}
	return u, nil
}

func (r *PostgresRepository) FindByID(ctx context.Context, id string) (user.User, error) {
	query := `SELECT id, email, password_hash, created_at FROM users
	          WHERE id = $1`

	var u user.User
	err := r.db.QueryRowContext(ctx, query, id).Scan(&u.ID, &u.Email, &u.PasswordHash, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return user.User{}, ErrNotFound
		}
		return user.User{}, fmt.Errorf("db error: %w", err)
	}
	return u, nil
}
