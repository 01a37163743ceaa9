package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/clubops/membersync/internal/models"
	"github.com/clubops/membersync/internal/storage"
)

const memberColumns = `
	id, first_name, last_name, email, phone, status, membership_level,
	member_since, notes, archived, created_at, updated_at
`

// GetMember retrieves a member by internal ID.
func (s *Storage) GetMember(ctx context.Context, id string) (*models.Member, error) {
	query := `SELECT ` + memberColumns + ` FROM members WHERE id = ?`
	return s.scanMember(s.db.QueryRowContext(ctx, query, id))
}

// FindMemberByEmail retrieves a member by normalized email.
func (s *Storage) FindMemberByEmail(ctx context.Context, email string) (*models.Member, error) {
	query := `SELECT ` + memberColumns + ` FROM members WHERE email = ? LIMIT 1`
	return s.scanMember(s.db.QueryRowContext(ctx, query, email))
}

// CreateMember inserts a new member row.
func (s *Storage) CreateMember(ctx context.Context, m *models.Member) error {
	query := `
		INSERT INTO members (` + memberColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := s.db.ExecContext(ctx, query,
		m.ID, m.FirstName, m.LastName, m.Email, m.Phone, m.Status,
		m.MembershipLevel, encodeNullTime(m.MemberSince), m.Notes,
		boolToInt(m.Archived), encodeTime(m.CreatedAt), encodeTime(m.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("failed to create member: %w", err)
	}
	return nil
}

// UpdateMember replaces the stored member row.
func (s *Storage) UpdateMember(ctx context.Context, m *models.Member) error {
	query := `
		UPDATE members
		SET first_name = ?, last_name = ?, email = ?, phone = ?, status = ?,
		    membership_level = ?, member_since = ?, notes = ?, archived = ?,
		    updated_at = ?
		WHERE id = ?
	`

	res, err := s.db.ExecContext(ctx, query,
		m.FirstName, m.LastName, m.Email, m.Phone, m.Status,
		m.MembershipLevel, encodeNullTime(m.MemberSince), m.Notes,
		boolToInt(m.Archived), encodeTime(m.UpdatedAt), m.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update member: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check updated rows: %w", err)
	}
	if affected == 0 {
		return storage.ErrMemberNotFound
	}
	return nil
}

// scanMember decodes one member row.
func (s *Storage) scanMember(row *sql.Row) (*models.Member, error) {
	var (
		m                    models.Member
		memberSince          sql.NullString
		archived             int
		createdAt, updatedAt string
	)
	err := row.Scan(&m.ID, &m.FirstName, &m.LastName, &m.Email, &m.Phone,
		&m.Status, &m.MembershipLevel, &memberSince, &m.Notes, &archived,
		&createdAt, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, storage.ErrMemberNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan member: %w", err)
	}

	if m.MemberSince, err = decodeNullTime(memberSince); err != nil {
		return nil, err
	}
	if m.CreatedAt, err = decodeTime(createdAt); err != nil {
		return nil, err
	}
	if m.UpdatedAt, err = decodeTime(updatedAt); err != nil {
		return nil, err
	}
	m.Archived = archived != 0
	return &m, nil
}
