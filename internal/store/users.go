package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
)

func (s *Store) UserByUsername(ctx context.Context, username string) (*User, error) {
	row := s.pool.QueryRow(ctx, `
		SELECT id, username, password_hash, role, is_active
		FROM users WHERE username = $1`, username)
	return scanUser(row)
}

func (s *Store) UserByID(ctx context.Context, id int64) (*User, error) {
	row := s.pool.QueryRow(ctx, `
		SELECT id, username, password_hash, role, is_active
		FROM users WHERE id = $1`, id)
	return scanUser(row)
}

// UserByToken resolves a session token to its user.
func (s *Store) UserByToken(ctx context.Context, token string) (*User, error) {
	row := s.pool.QueryRow(ctx, `
		SELECT u.id, u.username, u.password_hash, u.role, u.is_active
		FROM session_tokens t
		JOIN users u ON u.id = t.user_id
		WHERE t.token = $1`, token)
	return scanUser(row)
}

func scanUser(row pgx.Row) (*User, error) {
	var u User
	err := row.Scan(&u.ID, &u.Username, &u.PasswordHash, &u.Role, &u.IsActive)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan user: %w", err)
	}
	return &u, nil
}

// CreateSession stores a fresh session token for a user and records the
// login in the audit trail, atomically.
func (s *Store) CreateSession(ctx context.Context, userID int64, token string, entry AuditLog) error {
	return s.withTx(ctx, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `
			INSERT INTO session_tokens (user_id, token) VALUES ($1, $2)`,
			userID, token); err != nil {
			return fmt.Errorf("insert session token: %w", err)
		}
		return insertAudit(ctx, tx, entry)
	})
}

// DeleteSessions removes every session token for a user and records the
// logout.
func (s *Store) DeleteSessions(ctx context.Context, userID int64, entry AuditLog) error {
	return s.withTx(ctx, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `
			DELETE FROM session_tokens WHERE user_id = $1`, userID); err != nil {
			return fmt.Errorf("delete session tokens: %w", err)
		}
		return insertAudit(ctx, tx, entry)
	})
}
