package sqlite

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/clubops/membersync/internal/models"
)

// AppendAudit appends one entry to the audit log.
func (s *Storage) AppendAudit(ctx context.Context, entry *models.AuditEntry) error {
	metadata := entry.Metadata
	if metadata == nil {
		metadata = map[string]any{}
	}
	meta, err := json.Marshal(metadata)
	if err != nil {
		return fmt.Errorf("failed to encode audit metadata: %w", err)
	}

	query := `
		INSERT INTO audit_log (action, resource_type, resource_id, run_id, mode, metadata, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	res, err := s.db.ExecContext(ctx, query,
		entry.Action, entry.ResourceType, entry.ResourceID,
		entry.RunID, entry.Mode, string(meta), encodeTime(entry.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("failed to append audit entry: %w", err)
	}

	if id, err := res.LastInsertId(); err == nil {
		entry.ID = id
	}
	return nil
}

// ListAuditByRun returns all audit entries of one run, oldest first.
func (s *Storage) ListAuditByRun(ctx context.Context, runID string) ([]*models.AuditEntry, error) {
	query := `
		SELECT id, action, resource_type, resource_id, run_id, mode, metadata, created_at
		FROM audit_log
		WHERE run_id = ?
		ORDER BY id
	`

	rows, err := s.db.QueryContext(ctx, query, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to list audit entries: %w", err)
	}
	defer rows.Close()

	var entries []*models.AuditEntry
	for rows.Next() {
		var (
			e         models.AuditEntry
			meta      string
			createdAt string
		)
		if err := rows.Scan(&e.ID, &e.Action, &e.ResourceType, &e.ResourceID,
			&e.RunID, &e.Mode, &meta, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan audit entry: %w", err)
		}
		if err := json.Unmarshal([]byte(meta), &e.Metadata); err != nil {
			return nil, fmt.Errorf("failed to decode audit metadata: %w", err)
		}
		if e.CreatedAt, err = decodeTime(createdAt); err != nil {
			return nil, err
		}
		entries = append(entries, &e)
	}
	return entries, rows.Err()
}
