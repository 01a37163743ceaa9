// Package sync reconciles the external membership platform with the internal
// database: full and incremental passes, idempotent upserts keyed by the ID
// mapping table, an audit trail and stale-record detection.
package sync

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/clubops/membersync/internal/metrics"
	"github.com/clubops/membersync/internal/models"
	"github.com/clubops/membersync/internal/storage"
	"github.com/clubops/membersync/internal/wildapricot"
)

// Service is the sync orchestrator's surface.
//
// A Service runs one pass at a time: concurrent invocations are not
// supported and must be serialized by the caller.
type Service interface {
	// FullSync reconciles the complete external contact, event and
	// registration sets.
	FullSync(ctx context.Context) (*Result, error)

	// IncrementalSync reconciles contacts modified since the last contact
	// watermark and events within the rolling lookback window, then the
	// registrations of exactly those events.
	IncrementalSync(ctx context.Context) (*Result, error)

	// DetectStaleRecords returns mappings not observed within the threshold,
	// partitioned by entity type.
	DetectStaleRecords(ctx context.Context, staleDays int) (map[string][]*models.IDMapping, error)

	// CleanupStaleMappings deletes stale mapping rows (never the internal
	// entities) and returns how many were removed, or would be with dryRun.
	CleanupStaleMappings(ctx context.Context, staleDays int, dryRun bool) (int, error)

	// Preflight verifies the prerequisites a run needs, with actionable
	// errors, before any sync work begins.
	Preflight(ctx context.Context) error
}

// Options tunes one orchestrator instance.
type Options struct {
	DryRun          bool          // short-circuit every write
	ContactLookback time.Duration // first-run bound for incremental contact fetch
	EventLookback   time.Duration // rolling window for incremental event fetch
	BatchSize       int           // stale-cleanup progress batch
}

type service struct {
	client wildapricot.ClientAPI
	store  storage.Store
	logger *slog.Logger
	opts   Options
}

// NewService creates a sync orchestrator.
func NewService(client wildapricot.ClientAPI, store storage.Store, logger *slog.Logger, opts Options) Service {
	return &service{
		client: client,
		store:  store,
		logger: logger,
		opts:   opts,
	}
}

// FullSync reconciles the complete external dataset.
func (s *service) FullSync(ctx context.Context) (*Result, error) {
	return s.sync(ctx, ModeFull)
}

// IncrementalSync reconciles recently modified contacts and upcoming events.
func (s *service) IncrementalSync(ctx context.Context) (*Result, error) {
	return s.sync(ctx, ModeIncremental)
}

// sync runs one sequential pass: contacts, then events, then the
// registrations of the events observed this pass. Per-record failures are
// collected and skipped over; client and preflight failures abort the run.
func (s *service) sync(ctx context.Context, mode Mode) (*Result, error) {
	if err := s.Preflight(ctx); err != nil {
		metrics.SyncRuns.WithLabelValues(string(mode), "aborted").Inc()
		return nil, err
	}

	r := newRun(uuid.New().String(), mode, s.opts.DryRun)
	w := &gatedWriter{store: s.store, logger: s.logger, dryRun: s.opts.DryRun}

	s.logger.Info("starting sync run",
		"run_id", r.result.RunID,
		"mode", mode,
		"dry_run", s.opts.DryRun)

	state, err := s.store.GetSyncState(ctx)
	if err != nil {
		metrics.SyncRuns.WithLabelValues(string(mode), "aborted").Inc()
		return nil, fmt.Errorf("failed to read sync state: %w", err)
	}

	if err := s.syncContacts(ctx, r, w, state); err != nil {
		metrics.SyncRuns.WithLabelValues(string(mode), "aborted").Inc()
		return nil, err
	}
	if err := s.syncEvents(ctx, r, w, state); err != nil {
		metrics.SyncRuns.WithLabelValues(string(mode), "aborted").Inc()
		return nil, err
	}
	if err := s.syncRegistrations(ctx, r, w); err != nil {
		metrics.SyncRuns.WithLabelValues(string(mode), "aborted").Inc()
		return nil, err
	}

	// Watermarks move only once the whole pass completed, so a crash
	// mid-run replays from the last good values.
	now := r.result.StartedAt
	if mode == ModeFull {
		state.LastFullSyncAt = &now
	} else {
		state.LastIncrementalSyncAt = &now
	}
	state.LastContactSyncAt = &now
	state.LastEventSyncAt = &now
	state.LastRegistrationSyncAt = &now
	if err := w.saveSyncState(ctx, state); err != nil {
		metrics.SyncRuns.WithLabelValues(string(mode), "aborted").Inc()
		return nil, fmt.Errorf("failed to save sync state: %w", err)
	}

	r.result.FinishedAt = time.Now().UTC()
	r.result.Success = len(r.result.Errors) == 0

	status := "ok"
	if !r.result.Success {
		status = "completed_with_errors"
	}
	metrics.SyncRuns.WithLabelValues(string(mode), status).Inc()
	metrics.SyncDuration.Observe(r.result.FinishedAt.Sub(r.result.StartedAt).Seconds())

	s.logger.Info("sync run finished",
		"run_id", r.result.RunID,
		"mode", mode,
		"dry_run", r.result.DryRun,
		"success", r.result.Success,
		"members", r.result.Members,
		"events", r.result.Events,
		"registrations", r.result.Registrations,
		"record_errors", len(r.result.Errors),
		"duration", r.result.FinishedAt.Sub(r.result.StartedAt))

	return r.result, nil
}

// syncContacts fetches and reconciles the contact set for this mode.
func (s *service) syncContacts(ctx context.Context, r *run, w *gatedWriter, state *models.SyncState) error {
	var (
		contacts []wildapricot.Contact
		err      error
	)
	if r.result.Mode == ModeFull {
		contacts, err = s.client.ListContacts(ctx)
	} else {
		since := time.Now().UTC().Add(-s.opts.ContactLookback)
		if state.LastContactSyncAt != nil {
			since = *state.LastContactSyncAt
		}
		contacts, err = s.client.ListContactsModifiedSince(ctx, since)
	}
	if err != nil {
		return fmt.Errorf("failed to fetch contacts: %w", err)
	}

	s.logger.Info("reconciling contacts", "run_id", r.result.RunID, "count", len(contacts))
	for _, c := range contacts {
		s.reconcileContact(ctx, r, w, c)
	}
	return nil
}

// syncEvents fetches and reconciles the event set for this mode. The
// platform exposes no event modification timestamps, so incremental mode
// bounds events by start date within the rolling lookback window.
func (s *service) syncEvents(ctx context.Context, r *run, w *gatedWriter, state *models.SyncState) error {
	var (
		events []wildapricot.Event
		err    error
	)
	if r.result.Mode == ModeFull {
		events, err = s.client.ListEvents(ctx)
	} else {
		events, err = s.client.ListEventsStartingAfter(ctx, time.Now().UTC().Add(-s.opts.EventLookback))
	}
	if err != nil {
		return fmt.Errorf("failed to fetch events: %w", err)
	}

	s.logger.Info("reconciling events", "run_id", r.result.RunID, "count", len(events))
	for _, e := range events {
		s.reconcileEvent(ctx, r, w, e)
	}
	return nil
}

// syncRegistrations reconciles the registrations of exactly the events
// observed this run.
func (s *service) syncRegistrations(ctx context.Context, r *run, w *gatedWriter) error {
	for _, eventExtID := range r.seenEvents {
		regs, err := s.client.ListEventRegistrations(ctx, eventExtID)
		if err != nil {
			return fmt.Errorf("failed to fetch registrations for event %d: %w", eventExtID, err)
		}
		for _, reg := range regs {
			s.reconcileRegistration(ctx, r, w, reg)
		}
	}
	return nil
}

// Preflight verifies the storage schema is usable and the platform account
// carries the reference data syncing depends on.
func (s *service) Preflight(ctx context.Context) error {
	if _, err := s.store.GetSyncState(ctx); err != nil {
		return fmt.Errorf("sync state unavailable (is the database migrated and writable?): %w", err)
	}

	levels, err := s.client.ListMembershipLevels(ctx)
	if err != nil {
		var tokenErr *wildapricot.TokenError
		if errors.As(err, &tokenErr) {
			return fmt.Errorf("platform authentication failed (check MEMBERSYNC_API_KEY and MEMBERSYNC_ACCOUNT_ID): %w", err)
		}
		return fmt.Errorf("platform unreachable: %w", err)
	}
	if len(levels) == 0 {
		return fmt.Errorf("no membership levels configured on the platform account; create at least one level before syncing")
	}
	return nil
}
