package storage

import (
	"context"
	"time"

	"github.com/clubops/membersync/internal/models"
)

// Mappings defines the durable external-ID-to-internal-ID contract. The
// implementation must enforce uniqueness on (entityType, externalID): at most
// one internal ID is ever associated with an external identity.
type Mappings interface {
	// GetMapping retrieves a mapping by its natural key.
	// Returns ErrMappingNotFound if no mapping exists.
	GetMapping(ctx context.Context, entityType string, externalID int64) (*models.IDMapping, error)

	// SaveMapping inserts or replaces the mapping for (entityType, externalID).
	SaveMapping(ctx context.Context, m *models.IDMapping) error

	// TouchMapping refreshes LastSyncedAt to mark the record as observed this
	// run. Stale detection relies on every healthy record being touched each
	// sync, even on a no-op.
	TouchMapping(ctx context.Context, entityType string, externalID int64, at time.Time) error

	// ListMappingsOlderThan returns mappings whose LastSyncedAt predates the
	// cutoff, candidates for having been deleted upstream.
	ListMappingsOlderThan(ctx context.Context, cutoff time.Time) ([]*models.IDMapping, error)

	// DeleteMapping removes one mapping. Internal entities are never deleted
	// through this interface.
	DeleteMapping(ctx context.Context, entityType string, externalID int64) error
}

// SyncStates persists the single row of per-entity-type watermarks.
type SyncStates interface {
	// GetSyncState returns the stored watermarks, or a zero-value state when
	// no sync has ever completed.
	GetSyncState(ctx context.Context) (*models.SyncState, error)

	// SaveSyncState replaces the stored watermarks. Called once per
	// successful run, never mid-run.
	SaveSyncState(ctx context.Context, state *models.SyncState) error
}
