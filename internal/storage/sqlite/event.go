package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/clubops/membersync/internal/models"
	"github.com/clubops/membersync/internal/storage"
)

const eventColumns = `
	id, name, starts_at, ends_at, location, category, access_level,
	tags, registration_count, notes, created_at, updated_at
`

// GetEvent retrieves an event by internal ID.
func (s *Storage) GetEvent(ctx context.Context, id string) (*models.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events WHERE id = ?`
	return s.scanEvent(s.db.QueryRowContext(ctx, query, id))
}

// FindEventByNameAndStart retrieves an event by its natural key. An empty
// startsAt matches events without a start date.
func (s *Storage) FindEventByNameAndStart(ctx context.Context, name, startsAt string) (*models.Event, error) {
	query := `
		SELECT ` + eventColumns + `
		FROM events
		WHERE name = ? AND COALESCE(starts_at, '') = ?
		LIMIT 1
	`
	return s.scanEvent(s.db.QueryRowContext(ctx, query, name, startsAt))
}

// CreateEvent inserts a new event row.
func (s *Storage) CreateEvent(ctx context.Context, e *models.Event) error {
	tags, err := json.Marshal(e.Tags)
	if err != nil {
		return fmt.Errorf("failed to encode tags: %w", err)
	}

	query := `
		INSERT INTO events (` + eventColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err = s.db.ExecContext(ctx, query,
		e.ID, e.Name, encodeNullTime(e.StartsAt), encodeNullTime(e.EndsAt),
		e.Location, e.Category, e.AccessLevel, string(tags),
		e.RegistrationCount, e.Notes, encodeTime(e.CreatedAt), encodeTime(e.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("failed to create event: %w", err)
	}
	return nil
}

// UpdateEvent replaces the stored event row.
func (s *Storage) UpdateEvent(ctx context.Context, e *models.Event) error {
	tags, err := json.Marshal(e.Tags)
	if err != nil {
		return fmt.Errorf("failed to encode tags: %w", err)
	}

	query := `
		UPDATE events
		SET name = ?, starts_at = ?, ends_at = ?, location = ?, category = ?,
		    access_level = ?, tags = ?, registration_count = ?, notes = ?,
		    updated_at = ?
		WHERE id = ?
	`

	res, err := s.db.ExecContext(ctx, query,
		e.Name, encodeNullTime(e.StartsAt), encodeNullTime(e.EndsAt),
		e.Location, e.Category, e.AccessLevel, string(tags),
		e.RegistrationCount, e.Notes, encodeTime(e.UpdatedAt), e.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update event: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check updated rows: %w", err)
	}
	if affected == 0 {
		return storage.ErrEventNotFound
	}
	return nil
}

// scanEvent decodes one event row.
func (s *Storage) scanEvent(row *sql.Row) (*models.Event, error) {
	var (
		e                    models.Event
		startsAt, endsAt     sql.NullString
		tags                 string
		createdAt, updatedAt string
	)
	err := row.Scan(&e.ID, &e.Name, &startsAt, &endsAt, &e.Location,
		&e.Category, &e.AccessLevel, &tags, &e.RegistrationCount, &e.Notes,
		&createdAt, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, storage.ErrEventNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan event: %w", err)
	}

	if err := json.Unmarshal([]byte(tags), &e.Tags); err != nil {
		return nil, fmt.Errorf("failed to decode tags: %w", err)
	}
	if e.StartsAt, err = decodeNullTime(startsAt); err != nil {
		return nil, err
	}
	if e.EndsAt, err = decodeNullTime(endsAt); err != nil {
		return nil, err
	}
	if e.CreatedAt, err = decodeTime(createdAt); err != nil {
		return nil, err
	}
	if e.UpdatedAt, err = decodeTime(updatedAt); err != nil {
		return nil, err
	}
	return &e, nil
}
