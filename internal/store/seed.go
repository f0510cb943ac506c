package store

import (
	"context"
	"fmt"

	"github.com/dgallion1/ndthub/internal/auth"
)

// Seed inserts the initial manufacturers and users on first startup. Tables
// that already hold rows are left untouched.
func (s *Store) Seed(ctx context.Context) error {
	var manufacturers int
	if err := s.pool.QueryRow(ctx, `SELECT count(*) FROM manufacturers`).Scan(&manufacturers); err != nil {
		return fmt.Errorf("count manufacturers: %w", err)
	}
	if manufacturers == 0 {
		seed := []struct {
			name, primary, secondary string
		}{
			{"Boeing", "#0b3d91", "#dce7f7"},
			{"Airbus", "#00205b", "#e5eef9"},
			{"Other", "#2f855a", "#e6fffa"},
		}
		for _, m := range seed {
			if _, err := s.pool.Exec(ctx, `
				INSERT INTO manufacturers (name, theme_primary, theme_secondary)
				VALUES ($1, $2, $3)`, m.name, m.primary, m.secondary); err != nil {
				return fmt.Errorf("seed manufacturer %s: %w", m.name, err)
			}
		}
		s.log.Info("seeded manufacturers", "count", len(seed))
	}

	var users int
	if err := s.pool.QueryRow(ctx, `SELECT count(*) FROM users`).Scan(&users); err != nil {
		return fmt.Errorf("count users: %w", err)
	}
	if users == 0 {
		seed := []struct {
			username, password, role string
		}{
			{"admin", "admin123", RoleAdmin},
			{"user", "user123", "user"},
		}
		for _, u := range seed {
			hash, err := auth.HashPassword(u.password)
			if err != nil {
				return err
			}
			if _, err := s.pool.Exec(ctx, `
				INSERT INTO users (username, password_hash, role, is_active)
				VALUES ($1, $2, $3, TRUE)`, u.username, hash, u.role); err != nil {
				return fmt.Errorf("seed user %s: %w", u.username, err)
			}
		}
		s.log.Info("seeded users", "count", len(seed))
	}

	return nil
}
