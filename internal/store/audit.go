package store

import (
	"context"
	"fmt"
)

// AppendAudit records a single user action outside of any larger
// transaction.
func (s *Store) AppendAudit(ctx context.Context, entry AuditLog) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO audit_logs (user_id, role, action_type, manufacturer_id, document_id, section_id, metadata_json)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		entry.UserID, entry.Role, entry.ActionType,
		entry.ManufacturerID, entry.DocumentID, entry.SectionID, entry.MetadataJSON)
	if err != nil {
		return fmt.Errorf("append audit log: %w", err)
	}
	return nil
}

// ListAudit returns the newest audit records, capped at limit.
func (s *Store) ListAudit(ctx context.Context, limit int) ([]AuditLog, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, user_id, role, action_type, manufacturer_id, document_id, section_id, metadata_json, created_at
		FROM audit_logs
		ORDER BY created_at DESC
		LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("list audit logs: %w", err)
	}
	defer rows.Close()

	var out []AuditLog
	for rows.Next() {
		var e AuditLog
		if err := rows.Scan(&e.ID, &e.UserID, &e.Role, &e.ActionType,
			&e.ManufacturerID, &e.DocumentID, &e.SectionID, &e.MetadataJSON, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan audit log: %w", err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}
