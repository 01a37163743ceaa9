package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/clubops/membersync/internal/models"
)

// GetSyncState returns the stored watermarks. A system that has never synced
// yields a zero-value state, not an error.
func (s *Storage) GetSyncState(ctx context.Context) (*models.SyncState, error) {
	query := `
		SELECT last_full_sync_at, last_incremental_sync_at,
		       last_contact_sync_at, last_event_sync_at, last_registration_sync_at
		FROM sync_state
		WHERE id = 1
	`

	var full, incr, contact, event, reg sql.NullString
	err := s.db.QueryRowContext(ctx, query).Scan(&full, &incr, &contact, &event, &reg)
	if errors.Is(err, sql.ErrNoRows) {
		return &models.SyncState{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get sync state: %w", err)
	}

	state := &models.SyncState{}
	if state.LastFullSyncAt, err = decodeNullTime(full); err != nil {
		return nil, err
	}
	if state.LastIncrementalSyncAt, err = decodeNullTime(incr); err != nil {
		return nil, err
	}
	if state.LastContactSyncAt, err = decodeNullTime(contact); err != nil {
		return nil, err
	}
	if state.LastEventSyncAt, err = decodeNullTime(event); err != nil {
		return nil, err
	}
	if state.LastRegistrationSyncAt, err = decodeNullTime(reg); err != nil {
		return nil, err
	}
	return state, nil
}

// SaveSyncState replaces the single watermark row.
func (s *Storage) SaveSyncState(ctx context.Context, state *models.SyncState) error {
	query := `
		INSERT INTO sync_state (
			id, last_full_sync_at, last_incremental_sync_at,
			last_contact_sync_at, last_event_sync_at, last_registration_sync_at
		) VALUES (1, ?, ?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			last_full_sync_at = excluded.last_full_sync_at,
			last_incremental_sync_at = excluded.last_incremental_sync_at,
			last_contact_sync_at = excluded.last_contact_sync_at,
			last_event_sync_at = excluded.last_event_sync_at,
			last_registration_sync_at = excluded.last_registration_sync_at
	`

	_, err := s.db.ExecContext(ctx, query,
		encodeNullTime(state.LastFullSyncAt),
		encodeNullTime(state.LastIncrementalSyncAt),
		encodeNullTime(state.LastContactSyncAt),
		encodeNullTime(state.LastEventSyncAt),
		encodeNullTime(state.LastRegistrationSyncAt),
	)
	if err != nil {
		return fmt.Errorf("failed to save sync state: %w", err)
	}
	return nil
}
