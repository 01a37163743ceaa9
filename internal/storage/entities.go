package storage

import (
	"context"

	"github.com/clubops/membersync/internal/models"
)

// Members defines member persistence as the orchestrator needs it.
type Members interface {
	// GetMember retrieves a member by internal ID.
	// Returns ErrMemberNotFound if it doesn't exist.
	GetMember(ctx context.Context, id string) (*models.Member, error)

	// FindMemberByEmail retrieves a member by normalized email, the natural
	// key used to adopt pre-existing records instead of duplicating them.
	// Returns ErrMemberNotFound if none matches.
	FindMemberByEmail(ctx context.Context, email string) (*models.Member, error)

	// CreateMember inserts a new member. The caller assigns the ID.
	CreateMember(ctx context.Context, m *models.Member) error

	// UpdateMember replaces the stored member row.
	UpdateMember(ctx context.Context, m *models.Member) error
}

// Events defines event persistence as the orchestrator needs it.
type Events interface {
	// GetEvent retrieves an event by internal ID.
	// Returns ErrEventNotFound if it doesn't exist.
	GetEvent(ctx context.Context, id string) (*models.Event, error)

	// FindEventByNameAndStart retrieves an event by its natural key.
	// startsAt is an RFC 3339 instant or empty for events without one.
	// Returns ErrEventNotFound if none matches.
	FindEventByNameAndStart(ctx context.Context, name, startsAt string) (*models.Event, error)

	// CreateEvent inserts a new event. The caller assigns the ID.
	CreateEvent(ctx context.Context, e *models.Event) error

	// UpdateEvent replaces the stored event row.
	UpdateEvent(ctx context.Context, e *models.Event) error
}

// Registrations defines event registration persistence.
type Registrations interface {
	// GetRegistration retrieves a registration by internal ID.
	// Returns ErrRegistrationNotFound if it doesn't exist.
	GetRegistration(ctx context.Context, id string) (*models.EventRegistration, error)

	// FindRegistrationByEventAndMember retrieves a registration by its
	// natural key. Returns ErrRegistrationNotFound if none matches.
	FindRegistrationByEventAndMember(ctx context.Context, eventID, memberID string) (*models.EventRegistration, error)

	// CreateRegistration inserts a new registration. The caller assigns the ID.
	CreateRegistration(ctx context.Context, r *models.EventRegistration) error

	// UpdateRegistration replaces the stored registration row.
	UpdateRegistration(ctx context.Context, r *models.EventRegistration) error
}

// AuditLog is the append-only audit trail of sync writes.
type AuditLog interface {
	// AppendAudit appends one audit entry. Failures here are logged by the
	// caller, never fatal for a run.
	AppendAudit(ctx context.Context, entry *models.AuditEntry) error

	// ListAuditByRun returns all entries recorded for one run, oldest first.
	ListAuditByRun(ctx context.Context, runID string) ([]*models.AuditEntry, error)
}

// Store aggregates every durable contract the sync orchestrator requires
// from its storage collaborator.
type Store interface {
	Mappings
	SyncStates
	Members
	Events
	Registrations
	AuditLog
}
