package sync

import (
	"context"
	"fmt"
	"time"

	"github.com/clubops/membersync/internal/metrics"
	"github.com/clubops/membersync/internal/models"
)

// DetectStaleRecords returns mappings whose LastSyncedAt is older than the
// threshold, partitioned by entity type. Since healthy records are touched
// every run even as no-ops, these are candidates for upstream deletion.
func (s *service) DetectStaleRecords(ctx context.Context, staleDays int) (map[string][]*models.IDMapping, error) {
	if staleDays <= 0 {
		return nil, fmt.Errorf("stale threshold must be positive, got %d days", staleDays)
	}

	cutoff := time.Now().UTC().AddDate(0, 0, -staleDays)
	mappings, err := s.store.ListMappingsOlderThan(ctx, cutoff)
	if err != nil {
		return nil, fmt.Errorf("failed to list stale mappings: %w", err)
	}

	stale := map[string][]*models.IDMapping{
		models.EntityMember:       nil,
		models.EntityEvent:        nil,
		models.EntityRegistration: nil,
	}
	for _, m := range mappings {
		stale[m.EntityType] = append(stale[m.EntityType], m)
	}

	for entityType, group := range stale {
		metrics.StaleMappings.WithLabelValues(entityType).Set(float64(len(group)))
	}

	s.logger.Info("stale mapping scan",
		"cutoff", cutoff,
		"members", len(stale[models.EntityMember]),
		"events", len(stale[models.EntityEvent]),
		"registrations", len(stale[models.EntityRegistration]))

	return stale, nil
}

// CleanupStaleMappings deletes stale mapping rows in batches. Only the
// mappings go; internal entities are never deleted, so upstream churn cannot
// destroy internal data. With dryRun it only reports what would be removed.
func (s *service) CleanupStaleMappings(ctx context.Context, staleDays int, dryRun bool) (int, error) {
	stale, err := s.DetectStaleRecords(ctx, staleDays)
	if err != nil {
		return 0, err
	}

	deleted := 0
	batch := 0
	for _, group := range stale {
		for _, m := range group {
			if !dryRun {
				if err := s.store.DeleteMapping(ctx, m.EntityType, m.ExternalID); err != nil {
					return deleted, fmt.Errorf("failed to delete mapping %s/%d: %w", m.EntityType, m.ExternalID, err)
				}
			}
			deleted++
			batch++
			if batch >= s.opts.BatchSize {
				s.logger.Info("stale cleanup progress", "deleted", deleted, "dry_run", dryRun)
				batch = 0
			}
		}
	}

	s.logger.Info("stale cleanup finished", "deleted", deleted, "dry_run", dryRun)
	return deleted, nil
}
