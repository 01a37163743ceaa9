package sync

import (
	"time"

	"github.com/clubops/membersync/internal/models"
)

// Mode selects how much of the external dataset a run reconciles.
type Mode string

const (
	ModeFull        Mode = "full"
	ModeIncremental Mode = "incremental"
)

// EntityStats counts reconciliation outcomes for one entity type.
type EntityStats struct {
	Created int `json:"created"`
	Updated int `json:"updated"`
	Skipped int `json:"skipped"`
	Errors  int `json:"errors"`
}

// Record error kinds.
const (
	errKindValidation  = "validation"
	errKindPersistence = "persistence"
)

// RecordError describes one record that could not be reconciled. The run
// continues past it.
type RecordError struct {
	EntityType string `json:"entity_type"`
	ExternalID int64  `json:"external_id"`
	Kind       string `json:"kind"` // validation or persistence
	Message    string `json:"message"`
}

// Result summarizes one sync run. Success is false when any per-record
// errors were collected, even though the run itself completed.
type Result struct {
	RunID         string        `json:"run_id"`
	Mode          Mode          `json:"mode"`
	DryRun        bool          `json:"dry_run"`
	StartedAt     time.Time     `json:"started_at"`
	FinishedAt    time.Time     `json:"finished_at"`
	Members       EntityStats   `json:"members"`
	Events        EntityStats   `json:"events"`
	Registrations EntityStats   `json:"registrations"`
	Errors        []RecordError `json:"errors,omitempty"`
	Success       bool          `json:"success"`
}

// run is the ephemeral state of one sync invocation. It is private to the
// invocation and discarded when the run ends; its only durable traces are
// the side effects on mappings, entities, sync state and the audit log.
type run struct {
	result *Result

	// externalID -> internalID caches, filled as contacts and events are
	// reconciled so the registration pass resolves references without
	// re-reading mappings.
	memberIDs map[int64]string
	eventIDs  map[int64]string

	// external event IDs observed this run, in fetch order; the
	// registration pass covers exactly these events.
	seenEvents []int64
}

func newRun(id string, mode Mode, dryRun bool) *run {
	return &run{
		result: &Result{
			RunID:     id,
			Mode:      mode,
			DryRun:    dryRun,
			StartedAt: time.Now().UTC(),
		},
		memberIDs: make(map[int64]string),
		eventIDs:  make(map[int64]string),
	}
}

// stats returns the counter block for one entity type.
func (r *run) stats(entityType string) *EntityStats {
	switch entityType {
	case models.EntityMember:
		return &r.result.Members
	case models.EntityEvent:
		return &r.result.Events
	default:
		return &r.result.Registrations
	}
}

// recordError collects a per-record failure and bumps the right counter.
func (r *run) recordError(entityType string, externalID int64, kind string, err error) {
	stats := r.stats(entityType)
	if kind == errKindValidation {
		stats.Skipped++
	} else {
		stats.Errors++
	}
	r.result.Errors = append(r.result.Errors, RecordError{
		EntityType: entityType,
		ExternalID: externalID,
		Kind:       kind,
		Message:    err.Error(),
	})
}
