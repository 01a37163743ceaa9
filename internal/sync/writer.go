package sync

import (
	"context"
	"log/slog"
	"time"

	"github.com/clubops/membersync/internal/models"
	"github.com/clubops/membersync/internal/storage"
)

// gatedWriter is the single decision point for dry-run mode: every write the
// orchestrator performs goes through it. With dryRun set, all writes succeed
// without persisting anything, so a dry run classifies records exactly like
// a live run against the same input.
type gatedWriter struct {
	store  storage.Store
	logger *slog.Logger
	dryRun bool
}

func (w *gatedWriter) createMember(ctx context.Context, m *models.Member) error {
	if w.dryRun {
		return nil
	}
	return w.store.CreateMember(ctx, m)
}

func (w *gatedWriter) updateMember(ctx context.Context, m *models.Member) error {
	if w.dryRun {
		return nil
	}
	return w.store.UpdateMember(ctx, m)
}

func (w *gatedWriter) createEvent(ctx context.Context, e *models.Event) error {
	if w.dryRun {
		return nil
	}
	return w.store.CreateEvent(ctx, e)
}

func (w *gatedWriter) updateEvent(ctx context.Context, e *models.Event) error {
	if w.dryRun {
		return nil
	}
	return w.store.UpdateEvent(ctx, e)
}

func (w *gatedWriter) createRegistration(ctx context.Context, r *models.EventRegistration) error {
	if w.dryRun {
		return nil
	}
	return w.store.CreateRegistration(ctx, r)
}

func (w *gatedWriter) updateRegistration(ctx context.Context, r *models.EventRegistration) error {
	if w.dryRun {
		return nil
	}
	return w.store.UpdateRegistration(ctx, r)
}

func (w *gatedWriter) saveMapping(ctx context.Context, m *models.IDMapping) error {
	if w.dryRun {
		return nil
	}
	return w.store.SaveMapping(ctx, m)
}

func (w *gatedWriter) touchMapping(ctx context.Context, entityType string, externalID int64, at time.Time) error {
	if w.dryRun {
		return nil
	}
	return w.store.TouchMapping(ctx, entityType, externalID, at)
}

func (w *gatedWriter) saveSyncState(ctx context.Context, state *models.SyncState) error {
	if w.dryRun {
		return nil
	}
	return w.store.SaveSyncState(ctx, state)
}

// audit appends an audit entry. Audit failures are logged, never fatal.
func (w *gatedWriter) audit(ctx context.Context, entry *models.AuditEntry) {
	if w.dryRun {
		return
	}
	entry.CreatedAt = time.Now().UTC()
	if err := w.store.AppendAudit(ctx, entry); err != nil {
		w.logger.Error("failed to write audit entry",
			"action", entry.Action,
			"resource_type", entry.ResourceType,
			"resource_id", entry.ResourceID,
			"error", err)
	}
}
