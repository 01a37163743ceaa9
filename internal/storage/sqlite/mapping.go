package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/clubops/membersync/internal/models"
	"github.com/clubops/membersync/internal/storage"
)

// GetMapping retrieves an ID mapping by (entityType, externalID).
func (s *Storage) GetMapping(ctx context.Context, entityType string, externalID int64) (*models.IDMapping, error) {
	query := `
		SELECT entity_type, external_id, internal_id, last_synced_at
		FROM id_mappings
		WHERE entity_type = ? AND external_id = ?
	`

	var (
		m        models.IDMapping
		syncedAt string
	)
	err := s.db.QueryRowContext(ctx, query, entityType, externalID).
		Scan(&m.EntityType, &m.ExternalID, &m.InternalID, &syncedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, storage.ErrMappingNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get mapping: %w", err)
	}

	m.LastSyncedAt, err = decodeTime(syncedAt)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// SaveMapping inserts or replaces a mapping. The (entity_type, external_id)
// primary key enforces at most one internal ID per external identity.
func (s *Storage) SaveMapping(ctx context.Context, m *models.IDMapping) error {
	query := `
		INSERT INTO id_mappings (entity_type, external_id, internal_id, last_synced_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (entity_type, external_id) DO UPDATE SET
			internal_id = excluded.internal_id,
			last_synced_at = excluded.last_synced_at
	`

	_, err := s.db.ExecContext(ctx, query,
		m.EntityType, m.ExternalID, m.InternalID, encodeTime(m.LastSyncedAt))
	if err != nil {
		return fmt.Errorf("failed to save mapping: %w", err)
	}
	return nil
}

// TouchMapping refreshes LastSyncedAt for one mapping.
func (s *Storage) TouchMapping(ctx context.Context, entityType string, externalID int64, at time.Time) error {
	query := `
		UPDATE id_mappings
		SET last_synced_at = ?
		WHERE entity_type = ? AND external_id = ?
	`

	res, err := s.db.ExecContext(ctx, query, encodeTime(at), entityType, externalID)
	if err != nil {
		return fmt.Errorf("failed to touch mapping: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check touched rows: %w", err)
	}
	if affected == 0 {
		return storage.ErrMappingNotFound
	}
	return nil
}

// ListMappingsOlderThan returns mappings last observed before cutoff.
func (s *Storage) ListMappingsOlderThan(ctx context.Context, cutoff time.Time) ([]*models.IDMapping, error) {
	query := `
		SELECT entity_type, external_id, internal_id, last_synced_at
		FROM id_mappings
		WHERE last_synced_at < ?
		ORDER BY entity_type, external_id
	`

	rows, err := s.db.QueryContext(ctx, query, encodeTime(cutoff))
	if err != nil {
		return nil, fmt.Errorf("failed to list stale mappings: %w", err)
	}
	defer rows.Close()

	var mappings []*models.IDMapping
	for rows.Next() {
		var (
			m        models.IDMapping
			syncedAt string
		)
		if err := rows.Scan(&m.EntityType, &m.ExternalID, &m.InternalID, &syncedAt); err != nil {
			return nil, fmt.Errorf("failed to scan mapping: %w", err)
		}
		m.LastSyncedAt, err = decodeTime(syncedAt)
		if err != nil {
			return nil, err
		}
		mappings = append(mappings, &m)
	}
	return mappings, rows.Err()
}

// DeleteMapping removes one mapping row.
func (s *Storage) DeleteMapping(ctx context.Context, entityType string, externalID int64) error {
	query := `DELETE FROM id_mappings WHERE entity_type = ? AND external_id = ?`

	if _, err := s.db.ExecContext(ctx, query, entityType, externalID); err != nil {
		return fmt.Errorf("failed to delete mapping: %w", err)
	}
	return nil
}
