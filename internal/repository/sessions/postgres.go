package sessions

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/pixelsmith/playground/internal/model/session"
	"github.com/pixelsmith/playground/internal/storage"
)

type PostgresRepository struct {
	db storage.DBTX
}

func NewPostgresRepository(db storage.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) ListByUser(ctx context.Context, userID string) ([]session.Session, error) {
	query := `SELECT id, user_id, chat_history, code, css, version, created_at, updated_at
	          FROM sessions
	          WHERE user_id = $1
	          ORDER BY created_at`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var out []session.Session
	for rows.Next() {
		s, err := scanSession(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return out, nil
}

func (r *PostgresRepository) Create(ctx context.Context, s *session.Session) error {
	history, err := marshalHistory(s.ChatHistory)
	if err != nil {
		return err
	}

	query := `INSERT INTO sessions (id, user_id, chat_history, code, css)
	          VALUES ($1, $2, $3, $4, $5)
	          RETURNING version, created_at, updated_at`

	err = r.db.QueryRowContext(ctx, query, s.ID, s.UserID, history, s.Code, s.CSS).
		Scan(&s.Version, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) Find(ctx context.Context, userID, id string) (session.Session, error) {
	query := `SELECT id, user_id, chat_history, code, css, version, created_at, updated_at
	          FROM sessions
	          WHERE id = $1 AND user_id = $2`

	row := r.db.QueryRowContext(ctx, query, id, userID)
	s, err := scanSession(row.Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return session.Session{}, ErrNotFound
		}
		return session.Session{}, err
	}
	return s, nil
}

func (r *PostgresRepository) Replace(ctx context.Context, s *session.Session, guardVersion *int64) error {
	history, err := marshalHistory(s.ChatHistory)
	if err != nil {
		return err
	}

	var row *sql.Row
	if guardVersion != nil {
		query := `UPDATE sessions
		          SET chat_history = $1, code = $2, css = $3, version = version + 1, updated_at = now()
		          WHERE id = $4 AND user_id = $5 AND version = $6
		          RETURNING version, updated_at`
		row = r.db.QueryRowContext(ctx, query, history, s.Code, s.CSS, s.ID, s.UserID, *guardVersion)
	} else {
		query := `UPDATE sessions
		          SET chat_history = $1, code = $2, css = $3, version = version + 1, updated_at = now()
		          WHERE id = $4 AND user_id = $5
		          RETURNING version, updated_at`
		row = r.db.QueryRowContext(ctx, query, history, s.Code, s.CSS, s.ID, s.UserID)
	}

	if err := row.Scan(&s.Version, &s.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			if guardVersion == nil {
				return ErrNotFound
			}
			// The row may have been deleted rather than rewritten.
			if _, findErr := r.Find(ctx, s.UserID, s.ID); errors.Is(findErr, ErrNotFound) {
				return ErrNotFound
			}
			return ErrVersionConflict
		}
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) Delete(ctx context.Context, userID, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM sessions WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

func marshalHistory(turns []session.Turn) ([]byte, error) {
	if turns == nil {
		turns = []session.Turn{}
	}
	data, err := json.Marshal(turns)
	if err != nil {
		return nil, fmt.Errorf("encode chat history: %w", err)
	}
	return data, nil
}

func scanSession(scan func(dest ...any) error) (session.Session, error) {
	var (
		s       session.Session
		history []byte
	)
	if err := scan(&s.ID, &s.UserID, &history, &s.Code, &s.CSS, &s.Version, &s.CreatedAt, &s.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return session.Session{}, err
		}
		return session.Session{}, fmt.Errorf("db error: %w", err)
	}
	if err := json.Unmarshal(history, &s.ChatHistory); err != nil {
		return session.Session{}, fmt.Errorf("decode chat history: %w", err)
	}
	return s, nil
}
