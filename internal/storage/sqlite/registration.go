package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/clubops/membersync/internal/models"
	"github.com/clubops/membersync/internal/storage"
)

const registrationColumns = `
	id, event_id, member_id, status, waitlisted, fee, paid_amount,
	created_at, updated_at
`

// GetRegistration retrieves a registration by internal ID.
func (s *Storage) GetRegistration(ctx context.Context, id string) (*models.EventRegistration, error) {
	query := `SELECT ` + registrationColumns + ` FROM event_registrations WHERE id = ?`
	return s.scanRegistration(s.db.QueryRowContext(ctx, query, id))
}

// FindRegistrationByEventAndMember retrieves a registration by its natural key.
func (s *Storage) FindRegistrationByEventAndMember(ctx context.Context, eventID, memberID string) (*models.EventRegistration, error) {
	query := `
		SELECT ` + registrationColumns + `
		FROM event_registrations
		WHERE event_id = ? AND member_id = ?
		LIMIT 1
	`
	return s.scanRegistration(s.db.QueryRowContext(ctx, query, eventID, memberID))
}

// CreateRegistration inserts a new registration row.
func (s *Storage) CreateRegistration(ctx context.Context, r *models.EventRegistration) error {
	query := `
		INSERT INTO event_registrations (` + registrationColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := s.db.ExecContext(ctx, query,
		r.ID, r.EventID, r.MemberID, r.Status, boolToInt(r.Waitlisted),
		r.Fee, r.PaidAmount, encodeTime(r.CreatedAt), encodeTime(r.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("failed to create registration: %w", err)
	}
	return nil
}

// UpdateRegistration replaces the stored registration row.
func (s *Storage) UpdateRegistration(ctx context.Context, r *models.EventRegistration) error {
	query := `
		UPDATE event_registrations
		SET event_id = ?, member_id = ?, status = ?, waitlisted = ?,
		    fee = ?, paid_amount = ?, updated_at = ?
		WHERE id = ?
	`

	res, err := s.db.ExecContext(ctx, query,
		r.EventID, r.MemberID, r.Status, boolToInt(r.Waitlisted),
		r.Fee, r.PaidAmount, encodeTime(r.UpdatedAt), r.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update registration: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check updated rows: %w", err)
	}
	if affected == 0 {
		return storage.ErrRegistrationNotFound
	}
	return nil
}

// scanRegistration decodes one registration row.
func (s *Storage) scanRegistration(row *sql.Row) (*models.EventRegistration, error) {
	var (
		r                    models.EventRegistration
		waitlisted           int
		createdAt, updatedAt string
	)
	err := row.Scan(&r.ID, &r.EventID, &r.MemberID, &r.Status, &waitlisted,
		&r.Fee, &r.PaidAmount, &createdAt, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, storage.ErrRegistrationNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan registration: %w", err)
	}

	r.Waitlisted = waitlisted != 0
	if r.CreatedAt, err = decodeTime(createdAt); err != nil {
		return nil, err
	}
	if r.UpdatedAt, err = decodeTime(updatedAt); err != nil {
		return nil, err
	}
	return &r, nil
}
