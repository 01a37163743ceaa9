package sync

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/clubops/membersync/internal/metrics"
	"github.com/clubops/membersync/internal/models"
	"github.com/clubops/membersync/internal/storage"
	"github.com/clubops/membersync/internal/transform"
	"github.com/clubops/membersync/internal/wildapricot"
)

// Per-entity reconciliation, uniform across members, events and
// registrations:
//
//  1. look up the ID mapping by (entityType, externalID);
//  2. mapped: load the internal record — repair a dangling mapping by
//     recreating the record, else write only the non-empty field diff and
//     touch the mapping either way so stale detection sees the record;
//  3. unmapped: adopt a natural-key match instead of duplicating, else
//     create record and mapping.
//
// Any failure on an individual record is recorded and the pass moves on.

// reconcileContact reconciles one platform contact as a member.
func (s *service) reconcileContact(ctx context.Context, r *run, w *gatedWriter, c wildapricot.Contact) {
	incoming, warnings, err := transform.TransformContact(c)
	if err != nil {
		s.logger.Warn("skipping contact", "run_id", r.result.RunID, "external_id", c.ID, "error", err)
		r.recordError(models.EntityMember, c.ID, errKindValidation, err)
		return
	}
	s.logWarnings(r, models.EntityMember, c.ID, warnings)

	now := time.Now().UTC()
	mapping, err := s.store.GetMapping(ctx, models.EntityMember, c.ID)

	switch {
	case err == nil:
		existing, gerr := s.store.GetMember(ctx, mapping.InternalID)
		switch {
		case errors.Is(gerr, storage.ErrMemberNotFound):
			// Dangling mapping: the record was deleted out-of-band.
			// Recreate it under the mapped internal ID.
			incoming.ID = mapping.InternalID
			incoming.CreatedAt, incoming.UpdatedAt = now, now
			if cerr := w.createMember(ctx, incoming); cerr != nil {
				s.persistenceError(r, models.EntityMember, c.ID, cerr)
				return
			}
			s.logger.Warn("recreated member for dangling mapping",
				"run_id", r.result.RunID, "external_id", c.ID, "member_id", incoming.ID)
			s.created(ctx, r, w, models.EntityMember, c.ID, incoming.ID)
		case gerr != nil:
			s.persistenceError(r, models.EntityMember, c.ID, gerr)
			return
		default:
			changes := transform.MemberChanges(existing, incoming)
			if changes == nil {
				s.skipped(models.EntityMember, r)
			} else {
				applyMemberFields(existing, incoming, now)
				if uerr := w.updateMember(ctx, existing); uerr != nil {
					s.persistenceError(r, models.EntityMember, c.ID, uerr)
					return
				}
				s.updated(ctx, r, w, models.EntityMember, c.ID, existing.ID, changes)
			}
		}
		s.touch(ctx, r, w, models.EntityMember, c.ID)
		r.memberIDs[c.ID] = mapping.InternalID

	case errors.Is(err, storage.ErrMappingNotFound):
		existing, ferr := s.store.FindMemberByEmail(ctx, incoming.Email)
		switch {
		case ferr == nil:
			// Natural-key collision: adopt the existing member rather
			// than duplicating it.
			s.logger.Warn("mapping external contact onto existing member",
				"run_id", r.result.RunID, "external_id", c.ID,
				"member_id", existing.ID, "email", incoming.Email)
			if merr := w.saveMapping(ctx, &models.IDMapping{
				EntityType:   models.EntityMember,
				ExternalID:   c.ID,
				InternalID:   existing.ID,
				LastSyncedAt: now,
			}); merr != nil {
				s.persistenceError(r, models.EntityMember, c.ID, merr)
				return
			}
			changes := transform.MemberChanges(existing, incoming)
			if changes == nil {
				s.skipped(models.EntityMember, r)
			} else {
				applyMemberFields(existing, incoming, now)
				if uerr := w.updateMember(ctx, existing); uerr != nil {
					s.persistenceError(r, models.EntityMember, c.ID, uerr)
					return
				}
				s.updated(ctx, r, w, models.EntityMember, c.ID, existing.ID, changes)
			}
			r.memberIDs[c.ID] = existing.ID
		case errors.Is(ferr, storage.ErrMemberNotFound):
			incoming.ID = uuid.New().String()
			incoming.CreatedAt, incoming.UpdatedAt = now, now
			if cerr := w.createMember(ctx, incoming); cerr != nil {
				s.persistenceError(r, models.EntityMember, c.ID, cerr)
				return
			}
			if merr := w.saveMapping(ctx, &models.IDMapping{
				EntityType:   models.EntityMember,
				ExternalID:   c.ID,
				InternalID:   incoming.ID,
				LastSyncedAt: now,
			}); merr != nil {
				s.persistenceError(r, models.EntityMember, c.ID, merr)
				return
			}
			s.created(ctx, r, w, models.EntityMember, c.ID, incoming.ID)
			r.memberIDs[c.ID] = incoming.ID
		default:
			s.persistenceError(r, models.EntityMember, c.ID, ferr)
		}

	default:
		s.persistenceError(r, models.EntityMember, c.ID, err)
	}
}

// reconcileEvent reconciles one platform event.
func (s *service) reconcileEvent(ctx context.Context, r *run, w *gatedWriter, e wildapricot.Event) {
	incoming, warnings, err := transform.TransformEvent(e)
	if err != nil {
		s.logger.Warn("skipping event", "run_id", r.result.RunID, "external_id", e.ID, "error", err)
		r.recordError(models.EntityEvent, e.ID, errKindValidation, err)
		return
	}
	s.logWarnings(r, models.EntityEvent, e.ID, warnings)

	now := time.Now().UTC()
	mapping, err := s.store.GetMapping(ctx, models.EntityEvent, e.ID)

	switch {
	case err == nil:
		existing, gerr := s.store.GetEvent(ctx, mapping.InternalID)
		switch {
		case errors.Is(gerr, storage.ErrEventNotFound):
			incoming.ID = mapping.InternalID
			incoming.CreatedAt, incoming.UpdatedAt = now, now
			if cerr := w.createEvent(ctx, incoming); cerr != nil {
				s.persistenceError(r, models.EntityEvent, e.ID, cerr)
				return
			}
			s.logger.Warn("recreated event for dangling mapping",
				"run_id", r.result.RunID, "external_id", e.ID, "event_id", incoming.ID)
			s.created(ctx, r, w, models.EntityEvent, e.ID, incoming.ID)
		case gerr != nil:
			s.persistenceError(r, models.EntityEvent, e.ID, gerr)
			return
		default:
			changes := transform.EventChanges(existing, incoming)
			if changes == nil {
				s.skipped(models.EntityEvent, r)
			} else {
				applyEventFields(existing, incoming, now)
				if uerr := w.updateEvent(ctx, existing); uerr != nil {
					s.persistenceError(r, models.EntityEvent, e.ID, uerr)
					return
				}
				s.updated(ctx, r, w, models.EntityEvent, e.ID, existing.ID, changes)
			}
		}
		s.touch(ctx, r, w, models.EntityEvent, e.ID)
		r.eventIDs[e.ID] = mapping.InternalID
		r.seenEvents = append(r.seenEvents, e.ID)

	case errors.Is(err, storage.ErrMappingNotFound):
		existing, ferr := s.store.FindEventByNameAndStart(ctx, incoming.Name, timeKey(incoming.StartsAt))
		switch {
		case ferr == nil:
			s.logger.Warn("mapping external event onto existing event",
				"run_id", r.result.RunID, "external_id", e.ID,
				"event_id", existing.ID, "name", incoming.Name)
			if merr := w.saveMapping(ctx, &models.IDMapping{
				EntityType:   models.EntityEvent,
				ExternalID:   e.ID,
				InternalID:   existing.ID,
				LastSyncedAt: now,
			}); merr != nil {
				s.persistenceError(r, models.EntityEvent, e.ID, merr)
				return
			}
			changes := transform.EventChanges(existing, incoming)
			if changes == nil {
				s.skipped(models.EntityEvent, r)
			} else {
				applyEventFields(existing, incoming, now)
				if uerr := w.updateEvent(ctx, existing); uerr != nil {
					s.persistenceError(r, models.EntityEvent, e.ID, uerr)
					return
				}
				s.updated(ctx, r, w, models.EntityEvent, e.ID, existing.ID, changes)
			}
			r.eventIDs[e.ID] = existing.ID
			r.seenEvents = append(r.seenEvents, e.ID)
		case errors.Is(ferr, storage.ErrEventNotFound):
			incoming.ID = uuid.New().String()
			incoming.CreatedAt, incoming.UpdatedAt = now, now
			if cerr := w.createEvent(ctx, incoming); cerr != nil {
				s.persistenceError(r, models.EntityEvent, e.ID, cerr)
				return
			}
			if merr := w.saveMapping(ctx, &models.IDMapping{
				EntityType:   models.EntityEvent,
				ExternalID:   e.ID,
				InternalID:   incoming.ID,
				LastSyncedAt: now,
			}); merr != nil {
				s.persistenceError(r, models.EntityEvent, e.ID, merr)
				return
			}
			s.created(ctx, r, w, models.EntityEvent, e.ID, incoming.ID)
			r.eventIDs[e.ID] = incoming.ID
			r.seenEvents = append(r.seenEvents, e.ID)
		default:
			s.persistenceError(r, models.EntityEvent, e.ID, ferr)
		}

	default:
		s.persistenceError(r, models.EntityEvent, e.ID, err)
	}
}

// reconcileRegistration reconciles one platform registration. Its event and
// contact references must already be mapped, either in this run's caches or
// in the durable mapping table.
func (s *service) reconcileRegistration(ctx context.Context, r *run, w *gatedWriter, reg wildapricot.EventRegistration) {
	incoming, warnings, err := transform.TransformRegistration(reg)
	if err != nil {
		s.logger.Warn("skipping registration", "run_id", r.result.RunID, "external_id", reg.ID, "error", err)
		r.recordError(models.EntityRegistration, reg.ID, errKindValidation, err)
		return
	}
	s.logWarnings(r, models.EntityRegistration, reg.ID, warnings)

	eventID, err := s.resolveInternalID(ctx, r.eventIDs, models.EntityEvent, reg.Event.ID)
	if err != nil {
		s.logger.Warn("skipping registration: event not mapped",
			"run_id", r.result.RunID, "external_id", reg.ID, "event_external_id", reg.Event.ID)
		r.recordError(models.EntityRegistration, reg.ID, errKindValidation,
			fmt.Errorf("event %d not mapped: %w", reg.Event.ID, err))
		return
	}
	memberID, err := s.resolveInternalID(ctx, r.memberIDs, models.EntityMember, reg.Contact.ID)
	if err != nil {
		s.logger.Warn("skipping registration: contact not mapped",
			"run_id", r.result.RunID, "external_id", reg.ID, "contact_external_id", reg.Contact.ID)
		r.recordError(models.EntityRegistration, reg.ID, errKindValidation,
			fmt.Errorf("contact %d not mapped: %w", reg.Contact.ID, err))
		return
	}
	incoming.EventID, incoming.MemberID = eventID, memberID

	now := time.Now().UTC()
	mapping, err := s.store.GetMapping(ctx, models.EntityRegistration, reg.ID)

	switch {
	case err == nil:
		existing, gerr := s.store.GetRegistration(ctx, mapping.InternalID)
		switch {
		case errors.Is(gerr, storage.ErrRegistrationNotFound):
			incoming.ID = mapping.InternalID
			incoming.CreatedAt, incoming.UpdatedAt = now, now
			if cerr := w.createRegistration(ctx, incoming); cerr != nil {
				s.persistenceError(r, models.EntityRegistration, reg.ID, cerr)
				return
			}
			s.logger.Warn("recreated registration for dangling mapping",
				"run_id", r.result.RunID, "external_id", reg.ID, "registration_id", incoming.ID)
			s.created(ctx, r, w, models.EntityRegistration, reg.ID, incoming.ID)
		case gerr != nil:
			s.persistenceError(r, models.EntityRegistration, reg.ID, gerr)
			return
		default:
			changes := transform.RegistrationChanges(existing, incoming)
			if changes == nil {
				s.skipped(models.EntityRegistration, r)
			} else {
				applyRegistrationFields(existing, incoming, now)
				if uerr := w.updateRegistration(ctx, existing); uerr != nil {
					s.persistenceError(r, models.EntityRegistration, reg.ID, uerr)
					return
				}
				s.updated(ctx, r, w, models.EntityRegistration, reg.ID, existing.ID, changes)
			}
		}
		s.touch(ctx, r, w, models.EntityRegistration, reg.ID)

	case errors.Is(err, storage.ErrMappingNotFound):
		existing, ferr := s.store.FindRegistrationByEventAndMember(ctx, eventID, memberID)
		switch {
		case ferr == nil:
			s.logger.Warn("mapping external registration onto existing registration",
				"run_id", r.result.RunID, "external_id", reg.ID, "registration_id", existing.ID)
			if merr := w.saveMapping(ctx, &models.IDMapping{
				EntityType:   models.EntityRegistration,
				ExternalID:   reg.ID,
				InternalID:   existing.ID,
				LastSyncedAt: now,
			}); merr != nil {
				s.persistenceError(r, models.EntityRegistration, reg.ID, merr)
				return
			}
			changes := transform.RegistrationChanges(existing, incoming)
			if changes == nil {
				s.skipped(models.EntityRegistration, r)
			} else {
				applyRegistrationFields(existing, incoming, now)
				if uerr := w.updateRegistration(ctx, existing); uerr != nil {
					s.persistenceError(r, models.EntityRegistration, reg.ID, uerr)
					return
				}
				s.updated(ctx, r, w, models.EntityRegistration, reg.ID, existing.ID, changes)
			}
		case errors.Is(ferr, storage.ErrRegistrationNotFound):
			incoming.ID = uuid.New().String()
			incoming.CreatedAt, incoming.UpdatedAt = now, now
			if cerr := w.createRegistration(ctx, incoming); cerr != nil {
				s.persistenceError(r, models.EntityRegistration, reg.ID, cerr)
				return
			}
			if merr := w.saveMapping(ctx, &models.IDMapping{
				EntityType:   models.EntityRegistration,
				ExternalID:   reg.ID,
				InternalID:   incoming.ID,
				LastSyncedAt: now,
			}); merr != nil {
				s.persistenceError(r, models.EntityRegistration, reg.ID, merr)
				return
			}
			s.created(ctx, r, w, models.EntityRegistration, reg.ID, incoming.ID)
		default:
			s.persistenceError(r, models.EntityRegistration, reg.ID, ferr)
		}

	default:
		s.persistenceError(r, models.EntityRegistration, reg.ID, err)
	}
}

// resolveInternalID resolves an external reference through the run cache,
// falling back to the durable mapping table.
func (s *service) resolveInternalID(ctx context.Context, cache map[int64]string, entityType string, externalID int64) (string, error) {
	if id, ok := cache[externalID]; ok {
		return id, nil
	}
	mapping, err := s.store.GetMapping(ctx, entityType, externalID)
	if err != nil {
		return "", err
	}
	cache[externalID] = mapping.InternalID
	return mapping.InternalID, nil
}

// created records a create outcome and audits it.
func (s *service) created(ctx context.Context, r *run, w *gatedWriter, entityType string, externalID int64, internalID string) {
	r.stats(entityType).Created++
	metrics.RecordsSynced.WithLabelValues(entityType, "created").Inc()
	metadata := map[string]any{"external_id": externalID}
	w.audit(ctx, &models.AuditEntry{
		Action:       models.AuditActionCreate,
		ResourceType: entityType,
		ResourceID:   internalID,
		RunID:        r.result.RunID,
		Mode:         string(r.result.Mode),
		Metadata:     metadata,
	})
}

// updated records an update outcome and audits it with the computed diff.
func (s *service) updated(ctx context.Context, r *run, w *gatedWriter, entityType string, externalID int64, internalID string, changes map[string]any) {
	r.stats(entityType).Updated++
	metrics.RecordsSynced.WithLabelValues(entityType, "updated").Inc()
	w.audit(ctx, &models.AuditEntry{
		Action:       models.AuditActionUpdate,
		ResourceType: entityType,
		ResourceID:   internalID,
		RunID:        r.result.RunID,
		Mode:         string(r.result.Mode),
		Metadata:     map[string]any{"external_id": externalID, "changes": changes},
	})
}

// skipped records a no-op outcome.
func (s *service) skipped(entityType string, r *run) {
	r.stats(entityType).Skipped++
	metrics.RecordsSynced.WithLabelValues(entityType, "skipped").Inc()
}

// touch refreshes the mapping's LastSyncedAt so the record counts as
// observed this run, no-op outcomes included; stale detection relies on it.
func (s *service) touch(ctx context.Context, r *run, w *gatedWriter, entityType string, externalID int64) {
	if err := w.touchMapping(ctx, entityType, externalID, time.Now().UTC()); err != nil {
		s.logger.Error("failed to touch mapping",
			"run_id", r.result.RunID, "entity_type", entityType,
			"external_id", externalID, "error", err)
	}
}

// persistenceError records a storage failure for one record; the run
// continues.
func (s *service) persistenceError(r *run, entityType string, externalID int64, err error) {
	s.logger.Error("record reconciliation failed",
		"run_id", r.result.RunID, "entity_type", entityType,
		"external_id", externalID, "error", err)
	r.recordError(entityType, externalID, errKindPersistence, err)
	metrics.RecordsSynced.WithLabelValues(entityType, "error").Inc()
}

// logWarnings surfaces non-fatal transform warnings.
func (s *service) logWarnings(r *run, entityType string, externalID int64, warnings []string) {
	for _, msg := range warnings {
		s.logger.Warn("transform warning",
			"run_id", r.result.RunID, "entity_type", entityType,
			"external_id", externalID, "warning", msg)
	}
}

// Field application copies only the sync-owned fields onto the stored
// entity, leaving host-managed fields untouched.

func applyMemberFields(dst, src *models.Member, now time.Time) {
	dst.FirstName = src.FirstName
	dst.LastName = src.LastName
	dst.Email = src.Email
	dst.Phone = src.Phone
	dst.Status = src.Status
	dst.MembershipLevel = src.MembershipLevel
	dst.MemberSince = src.MemberSince
	dst.UpdatedAt = now
}

func applyEventFields(dst, src *models.Event, now time.Time) {
	dst.Name = src.Name
	dst.StartsAt = src.StartsAt
	dst.EndsAt = src.EndsAt
	dst.Location = src.Location
	dst.Category = src.Category
	dst.AccessLevel = src.AccessLevel
	dst.Tags = src.Tags
	dst.RegistrationCount = src.RegistrationCount
	dst.UpdatedAt = now
}

func applyRegistrationFields(dst, src *models.EventRegistration, now time.Time) {
	dst.EventID = src.EventID
	dst.MemberID = src.MemberID
	dst.Status = src.Status
	dst.Waitlisted = src.Waitlisted
	dst.Fee = src.Fee
	dst.PaidAmount = src.PaidAmount
	dst.UpdatedAt = now
}

// timeKey renders the natural-key form of an optional timestamp, matching
// the storage layer's RFC 3339 encoding.
func timeKey(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.UTC().Format(time.RFC3339Nano)
}
