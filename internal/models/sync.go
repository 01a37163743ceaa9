package models

import "time"

// IDMapping is the durable bridge between an external platform identity and
// an internal entity. It is unique on (EntityType, ExternalID) and is never
// deleted except by explicit stale cleanup.
type IDMapping struct {
	EntityType   string    `json:"entity_type"`    // EntityMember, EntityEvent or EntityRegistration
	ExternalID   int64     `json:"external_id"`    // platform identifier
	InternalID   string    `json:"internal_id"`    // internal entity UUID
	LastSyncedAt time.Time `json:"last_synced_at"` // refreshed every run the record is observed, even on no-op
}

// SyncState holds the persisted per-entity-type watermarks. It is read once
// at sync start and written once at successful completion, so a crash
// mid-run leaves the watermarks at their last good value.
type SyncState struct {
	LastFullSyncAt         *time.Time `json:"last_full_sync_at"`
	LastIncrementalSyncAt  *time.Time `json:"last_incremental_sync_at"`
	LastContactSyncAt      *time.Time `json:"last_contact_sync_at"`
	LastEventSyncAt        *time.Time `json:"last_event_sync_at"`
	LastRegistrationSyncAt *time.Time `json:"last_registration_sync_at"`
}

// Audit actions recorded for sync writes.
const (
	AuditActionCreate = "create"
	AuditActionUpdate = "update"
)

// AuditEntry is one append-only audit log row. For updates, Metadata carries
// the computed field diff alongside the external ID.
type AuditEntry struct {
	ID           int64          `json:"id"` // assigned by storage
	Action       string         `json:"action"`
	ResourceType string         `json:"resource_type"`
	ResourceID   string         `json:"resource_id"`
	RunID        string         `json:"run_id"`
	Mode         string         `json:"mode"` // "full" or "incremental"
	Metadata     map[string]any `json:"metadata"`
	CreatedAt    time.Time      `json:"created_at"`
}
