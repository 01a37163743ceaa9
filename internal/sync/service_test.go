package sync

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clubops/membersync/internal/models"
	"github.com/clubops/membersync/internal/storage"
	"github.com/clubops/membersync/internal/storage/sqlite"
	"github.com/clubops/membersync/internal/wildapricot"
)

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestStore(t *testing.T) *sqlite.Storage {
	t.Helper()
	s, err := sqlite.New(context.Background(), ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = s.Close()
	})
	return s
}

// newTestClient builds a mock platform that answers full and incremental
// fetches with the same dataset.
func newTestClient(contacts []wildapricot.Contact, events []wildapricot.Event, regs map[int64][]wildapricot.EventRegistration) *wildapricot.ClientAPIMock {
	return &wildapricot.ClientAPIMock{
		ListMembershipLevelsFunc: func(ctx context.Context) ([]wildapricot.MembershipLevel, error) {
			return []wildapricot.MembershipLevel{{ID: 7, Name: "Gold"}}, nil
		},
		ListContactsFunc: func(ctx context.Context) ([]wildapricot.Contact, error) {
			return contacts, nil
		},
		ListContactsModifiedSinceFunc: func(ctx context.Context, since time.Time) ([]wildapricot.Contact, error) {
			return contacts, nil
		},
		ListEventsFunc: func(ctx context.Context) ([]wildapricot.Event, error) {
			return events, nil
		},
		ListEventsStartingAfterFunc: func(ctx context.Context, since time.Time) ([]wildapricot.Event, error) {
			return events, nil
		},
		ListEventRegistrationsFunc: func(ctx context.Context, eventID int64) ([]wildapricot.EventRegistration, error) {
			return regs[eventID], nil
		},
	}
}

func defaultOptions() Options {
	return Options{
		ContactLookback: 720 * time.Hour,
		EventLookback:   2160 * time.Hour,
		BatchSize:       100,
	}
}

func testContacts() []wildapricot.Contact {
	return []wildapricot.Contact{
		{ID: 101, FirstName: "Jane", LastName: "Doe", Email: "jane@club.org", Status: "Active", MemberSince: "2020-01-15"},
		{ID: 102, FirstName: "Bob", LastName: "Ray", Email: "bob@club.org", Status: "Lapsed"},
	}
}

func testEvents() []wildapricot.Event {
	return []wildapricot.Event{
		{ID: 42, Name: "Spring Regatta", StartDate: "2026-05-01T09:00:00Z", Location: "Harbor Club"},
	}
}

func testRegistrations() map[int64][]wildapricot.EventRegistration {
	return map[int64][]wildapricot.EventRegistration{
		42: {
			{ID: 500, Event: wildapricot.EventRef{ID: 42}, Contact: wildapricot.ContactRef{ID: 101}, Status: "Confirmed", RegistrationFee: 25, PaidSum: 25},
		},
	}
}

func TestFullSync_CreatesThenIdempotent(t *testing.T) {
	store := newTestStore(t)
	client := newTestClient(testContacts(), testEvents(), testRegistrations())
	svc := NewService(client, store, newTestLogger(), defaultOptions())
	ctx := context.Background()

	first, err := svc.FullSync(ctx)
	require.NoError(t, err)
	assert.True(t, first.Success)
	assert.Equal(t, EntityStats{Created: 2}, first.Members)
	assert.Equal(t, EntityStats{Created: 1}, first.Events)
	assert.Equal(t, EntityStats{Created: 1}, first.Registrations)
	assert.Empty(t, first.Errors)

	// entities, mappings and watermarks all persisted
	jane, err := store.FindMemberByEmail(ctx, "jane@club.org")
	require.NoError(t, err)
	mapping, err := store.GetMapping(ctx, models.EntityMember, 101)
	require.NoError(t, err)
	assert.Equal(t, jane.ID, mapping.InternalID)

	state, err := store.GetSyncState(ctx)
	require.NoError(t, err)
	require.NotNil(t, state.LastFullSyncAt)
	assert.True(t, state.LastFullSyncAt.Equal(first.StartedAt))
	require.NotNil(t, state.LastContactSyncAt)
	assert.Nil(t, state.LastIncrementalSyncAt)

	entries, err := store.ListAuditByRun(ctx, first.RunID)
	require.NoError(t, err)
	assert.Len(t, entries, 4)

	// replaying the same dataset is a pure no-op
	second, err := svc.FullSync(ctx)
	require.NoError(t, err)
	assert.True(t, second.Success)
	assert.Equal(t, EntityStats{Skipped: 2}, second.Members)
	assert.Equal(t, EntityStats{Skipped: 1}, second.Events)
	assert.Equal(t, EntityStats{Skipped: 1}, second.Registrations)

	entries, err = store.ListAuditByRun(ctx, second.RunID)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestFullSync_UpdatesChangedRecord(t *testing.T) {
	store := newTestStore(t)
	contacts := testContacts()
	client := newTestClient(contacts, testEvents(), testRegistrations())
	svc := NewService(client, store, newTestLogger(), defaultOptions())
	ctx := context.Background()

	_, err := svc.FullSync(ctx)
	require.NoError(t, err)

	contacts[0].LastName = "Smith"
	client.ListContactsFunc = func(ctx context.Context) ([]wildapricot.Contact, error) {
		return contacts, nil
	}

	result, err := svc.FullSync(ctx)
	require.NoError(t, err)
	assert.Equal(t, EntityStats{Updated: 1, Skipped: 1}, result.Members)

	jane, err := store.FindMemberByEmail(ctx, "jane@club.org")
	require.NoError(t, err)
	assert.Equal(t, "Smith", jane.LastName)

	entries, err := store.ListAuditByRun(ctx, result.RunID)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, models.AuditActionUpdate, entries[0].Action)
	changes, ok := entries[0].Metadata["changes"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "Smith", changes["last_name"])
}

func TestFullSync_UpdatePreservesHostFields(t *testing.T) {
	store := newTestStore(t)
	contacts := testContacts()
	client := newTestClient(contacts, testEvents(), testRegistrations())
	svc := NewService(client, store, newTestLogger(), defaultOptions())
	ctx := context.Background()

	_, err := svc.FullSync(ctx)
	require.NoError(t, err)

	jane, err := store.FindMemberByEmail(ctx, "jane@club.org")
	require.NoError(t, err)
	jane.Notes = "board contact"
	jane.Archived = true
	require.NoError(t, store.UpdateMember(ctx, jane))

	contacts[0].Status = "Lapsed"

	_, err = svc.FullSync(ctx)
	require.NoError(t, err)

	jane, err = store.FindMemberByEmail(ctx, "jane@club.org")
	require.NoError(t, err)
	assert.Equal(t, "lapsed", jane.Status)
	assert.Equal(t, "board contact", jane.Notes)
	assert.True(t, jane.Archived)
}

func TestFullSync_ValidationFailureSkipsRecord(t *testing.T) {
	store := newTestStore(t)
	contacts := []wildapricot.Contact{
		{ID: 101, FirstName: "Jane", Email: "jane@club.org", Status: "Active"},
		{ID: 103, FirstName: "Ghost", Status: "Active"}, // no email
	}
	client := newTestClient(contacts, nil, nil)
	svc := NewService(client, store, newTestLogger(), defaultOptions())
	ctx := context.Background()

	result, err := svc.FullSync(ctx)
	require.NoError(t, err)

	assert.False(t, result.Success)
	assert.Equal(t, EntityStats{Created: 1, Skipped: 1}, result.Members)
	require.Len(t, result.Errors, 1)
	assert.Equal(t, models.EntityMember, result.Errors[0].EntityType)
	assert.Equal(t, int64(103), result.Errors[0].ExternalID)
	assert.Equal(t, "validation", result.Errors[0].Kind)
}

func TestFullSync_UnmappedRegistrationReferenceSkipped(t *testing.T) {
	store := newTestStore(t)
	regs := map[int64][]wildapricot.EventRegistration{
		42: {
			{ID: 500, Event: wildapricot.EventRef{ID: 42}, Contact: wildapricot.ContactRef{ID: 999}, Status: "Confirmed"},
		},
	}
	client := newTestClient(testContacts(), testEvents(), regs)
	svc := NewService(client, store, newTestLogger(), defaultOptions())

	result, err := svc.FullSync(context.Background())
	require.NoError(t, err)

	assert.False(t, result.Success)
	assert.Equal(t, EntityStats{Skipped: 1}, result.Registrations)
	require.Len(t, result.Errors, 1)
	assert.Equal(t, models.EntityRegistration, result.Errors[0].EntityType)
	assert.Equal(t, "validation", result.Errors[0].Kind)
}

func TestFullSync_DryRunClassifiesWithoutPersisting(t *testing.T) {
	store := newTestStore(t)
	client := newTestClient(testContacts(), testEvents(), testRegistrations())
	opts := defaultOptions()
	opts.DryRun = true
	svc := NewService(client, store, newTestLogger(), opts)
	ctx := context.Background()

	result, err := svc.FullSync(ctx)
	require.NoError(t, err)

	// classification matches a live run
	assert.True(t, result.DryRun)
	assert.True(t, result.Success)
	assert.Equal(t, EntityStats{Created: 2}, result.Members)
	assert.Equal(t, EntityStats{Created: 1}, result.Events)
	assert.Equal(t, EntityStats{Created: 1}, result.Registrations)

	// nothing reached the database
	_, err = store.FindMemberByEmail(ctx, "jane@club.org")
	assert.ErrorIs(t, err, storage.ErrMemberNotFound)
	_, err = store.GetMapping(ctx, models.EntityMember, 101)
	assert.ErrorIs(t, err, storage.ErrMappingNotFound)

	state, err := store.GetSyncState(ctx)
	require.NoError(t, err)
	assert.Nil(t, state.LastFullSyncAt)

	entries, err := store.ListAuditByRun(ctx, result.RunID)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestFullSync_AdoptsExistingMemberByEmail(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	now := time.Now().UTC()
	preexisting := &models.Member{
		ID:        "pre-existing-member",
		FirstName: "Janet",
		Email:     "jane@club.org",
		Status:    "active",
		CreatedAt: now,
		UpdatedAt: now,
	}
	require.NoError(t, store.CreateMember(ctx, preexisting))

	client := newTestClient(testContacts(), nil, nil)
	svc := NewService(client, store, newTestLogger(), defaultOptions())

	result, err := svc.FullSync(ctx)
	require.NoError(t, err)

	// Jane adopted and updated in place, Bob created fresh
	assert.Equal(t, EntityStats{Created: 1, Updated: 1}, result.Members)

	mapping, err := store.GetMapping(ctx, models.EntityMember, 101)
	require.NoError(t, err)
	assert.Equal(t, "pre-existing-member", mapping.InternalID)

	jane, err := store.FindMemberByEmail(ctx, "jane@club.org")
	require.NoError(t, err)
	assert.Equal(t, "pre-existing-member", jane.ID)
	assert.Equal(t, "Jane", jane.FirstName)
}

func TestFullSync_AdoptsExistingEventByNameAndStart(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	starts := time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)
	now := time.Now().UTC()
	require.NoError(t, store.CreateEvent(ctx, &models.Event{
		ID:        "pre-existing-event",
		Name:      "Spring Regatta",
		StartsAt:  &starts,
		Tags:      []string{},
		CreatedAt: now,
		UpdatedAt: now,
	}))

	client := newTestClient(nil, testEvents(), nil)
	svc := NewService(client, store, newTestLogger(), defaultOptions())

	result, err := svc.FullSync(ctx)
	require.NoError(t, err)
	assert.Zero(t, result.Events.Created)

	mapping, err := store.GetMapping(ctx, models.EntityEvent, 42)
	require.NoError(t, err)
	assert.Equal(t, "pre-existing-event", mapping.InternalID)
}

func TestFullSync_RepairsDanglingMapping(t *testing.T) {
	store := newTestStore(t)
	client := newTestClient(testContacts(), nil, nil)
	svc := NewService(client, store, newTestLogger(), defaultOptions())
	ctx := context.Background()

	_, err := svc.FullSync(ctx)
	require.NoError(t, err)

	mapping, err := store.GetMapping(ctx, models.EntityMember, 101)
	require.NoError(t, err)

	// the member vanishes out-of-band but its mapping survives
	_, err = store.DB().ExecContext(ctx, "DELETE FROM members WHERE id = ?", mapping.InternalID)
	require.NoError(t, err)

	result, err := svc.FullSync(ctx)
	require.NoError(t, err)
	assert.Equal(t, EntityStats{Created: 1, Skipped: 1}, result.Members)

	// recreated under the same internal ID
	jane, err := store.GetMember(ctx, mapping.InternalID)
	require.NoError(t, err)
	assert.Equal(t, "jane@club.org", jane.Email)
}

func TestIncrementalSync_UsesStoredWatermark(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	watermark := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	require.NoError(t, store.SaveSyncState(ctx, &models.SyncState{LastContactSyncAt: &watermark}))

	client := newTestClient(testContacts(), testEvents(), testRegistrations())
	opts := defaultOptions()
	svc := NewService(client, store, newTestLogger(), opts)

	result, err := svc.IncrementalSync(ctx)
	require.NoError(t, err)
	assert.Equal(t, ModeIncremental, result.Mode)

	calls := client.ListContactsModifiedSinceCalls()
	require.Len(t, calls, 1)
	assert.True(t, calls[0].Since.Equal(watermark))

	eventCalls := client.ListEventsStartingAfterCalls()
	require.Len(t, eventCalls, 1)
	assert.WithinDuration(t, time.Now().UTC().Add(-opts.EventLookback), eventCalls[0].Since, time.Minute)

	// full-mode endpoints stay untouched
	assert.Empty(t, client.ListContactsCalls())
	assert.Empty(t, client.ListEventsCalls())

	state, err := store.GetSyncState(ctx)
	require.NoError(t, err)
	require.NotNil(t, state.LastIncrementalSyncAt)
	assert.Nil(t, state.LastFullSyncAt)
	require.NotNil(t, state.LastContactSyncAt)
	assert.True(t, state.LastContactSyncAt.Equal(result.StartedAt))
}

func TestIncrementalSync_FirstRunFallsBackToLookback(t *testing.T) {
	store := newTestStore(t)
	client := newTestClient(nil, nil, nil)
	opts := defaultOptions()
	svc := NewService(client, store, newTestLogger(), opts)

	_, err := svc.IncrementalSync(context.Background())
	require.NoError(t, err)

	calls := client.ListContactsModifiedSinceCalls()
	require.Len(t, calls, 1)
	assert.WithinDuration(t, time.Now().UTC().Add(-opts.ContactLookback), calls[0].Since, time.Minute)
}

// flakyStore fails member creation for one email to exercise partial-failure
// continuation.
type flakyStore struct {
	storage.Store
	failEmail string
}

func (f *flakyStore) CreateMember(ctx context.Context, m *models.Member) error {
	if m.Email == f.failEmail {
		return errors.New("disk full")
	}
	return f.Store.CreateMember(ctx, m)
}

func TestFullSync_PersistenceFailureContinuesRun(t *testing.T) {
	store := newTestStore(t)
	flaky := &flakyStore{Store: store, failEmail: "jane@club.org"}
	client := newTestClient(testContacts(), testEvents(), nil)
	svc := NewService(client, flaky, newTestLogger(), defaultOptions())
	ctx := context.Background()

	result, err := svc.FullSync(ctx)
	require.NoError(t, err)

	assert.False(t, result.Success)
	assert.Equal(t, EntityStats{Created: 1, Errors: 1}, result.Members)
	require.Len(t, result.Errors, 1)
	assert.Equal(t, "persistence", result.Errors[0].Kind)
	assert.Contains(t, result.Errors[0].Message, "disk full")

	// the run still completed: Bob and the event landed, watermarks moved
	_, err = store.FindMemberByEmail(ctx, "bob@club.org")
	require.NoError(t, err)
	state, err := store.GetSyncState(ctx)
	require.NoError(t, err)
	assert.NotNil(t, state.LastFullSyncAt)
}

func TestFullSync_AbortsWhenContactFetchFails(t *testing.T) {
	store := newTestStore(t)
	client := newTestClient(nil, nil, nil)
	client.ListContactsFunc = func(ctx context.Context) ([]wildapricot.Contact, error) {
		return nil, &wildapricot.RequestError{Status: 502, Attempts: 3}
	}
	svc := NewService(client, store, newTestLogger(), defaultOptions())
	ctx := context.Background()

	result, err := svc.FullSync(ctx)
	require.Error(t, err)
	assert.Nil(t, result)

	state, err := store.GetSyncState(ctx)
	require.NoError(t, err)
	assert.Nil(t, state.LastFullSyncAt)
}

func TestPreflight(t *testing.T) {
	t.Run("no membership levels", func(t *testing.T) {
		store := newTestStore(t)
		client := newTestClient(nil, nil, nil)
		client.ListMembershipLevelsFunc = func(ctx context.Context) ([]wildapricot.MembershipLevel, error) {
			return nil, nil
		}
		svc := NewService(client, store, newTestLogger(), defaultOptions())

		err := svc.Preflight(context.Background())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "membership levels")

		// the failed preflight also blocks a sync before any fetch
		_, err = svc.FullSync(context.Background())
		require.Error(t, err)
		assert.Empty(t, client.ListContactsCalls())
	})

	t.Run("bad credentials", func(t *testing.T) {
		store := newTestStore(t)
		client := newTestClient(nil, nil, nil)
		client.ListMembershipLevelsFunc = func(ctx context.Context) ([]wildapricot.MembershipLevel, error) {
			return nil, &wildapricot.TokenError{Status: 403, Body: "invalid key"}
		}
		svc := NewService(client, store, newTestLogger(), defaultOptions())

		err := svc.Preflight(context.Background())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "MEMBERSYNC_API_KEY")
	})

	t.Run("healthy", func(t *testing.T) {
		store := newTestStore(t)
		client := newTestClient(nil, nil, nil)
		svc := NewService(client, store, newTestLogger(), defaultOptions())

		assert.NoError(t, svc.Preflight(context.Background()))
	})
}
