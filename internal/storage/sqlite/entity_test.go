package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clubops/membersync/internal/models"
	"github.com/clubops/membersync/internal/storage"
)

func testMember() *models.Member {
	since := time.Date(2020, 1, 15, 0, 0, 0, 0, time.UTC)
	now := time.Now().UTC()
	return &models.Member{
		ID:              uuid.NewString(),
		FirstName:       "Jane",
		LastName:        "Doe",
		Email:           "jane@club.org",
		Phone:           "+15551234567",
		Status:          "active",
		MembershipLevel: "Gold",
		MemberSince:     &since,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
}

func TestMember_CreateAndGet(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()

	m := testMember()
	require.NoError(t, s.CreateMember(ctx, m))

	got, err := s.GetMember(ctx, m.ID)
	require.NoError(t, err)
	assert.Equal(t, m.FirstName, got.FirstName)
	assert.Equal(t, m.Email, got.Email)
	assert.Equal(t, m.Status, got.Status)
	require.NotNil(t, got.MemberSince)
	assert.True(t, got.MemberSince.Equal(*m.MemberSince))
	assert.False(t, got.Archived)
}

func TestMember_GetMissing(t *testing.T) {
	s := newTestStorage(t)

	_, err := s.GetMember(context.Background(), "nope")
	assert.ErrorIs(t, err, storage.ErrMemberNotFound)
}

func TestMember_FindByEmail(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()

	m := testMember()
	require.NoError(t, s.CreateMember(ctx, m))

	got, err := s.FindMemberByEmail(ctx, "jane@club.org")
	require.NoError(t, err)
	assert.Equal(t, m.ID, got.ID)

	_, err = s.FindMemberByEmail(ctx, "nobody@club.org")
	assert.ErrorIs(t, err, storage.ErrMemberNotFound)
}

func TestMember_UpdatePreservesHostFields(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()

	m := testMember()
	require.NoError(t, s.CreateMember(ctx, m))

	m.Status = "lapsed"
	m.Notes = "board contact"
	m.Archived = true
	m.UpdatedAt = time.Now().UTC()
	require.NoError(t, s.UpdateMember(ctx, m))

	got, err := s.GetMember(ctx, m.ID)
	require.NoError(t, err)
	assert.Equal(t, "lapsed", got.Status)
	assert.Equal(t, "board contact", got.Notes)
	assert.True(t, got.Archived)
}

func TestMember_UpdateMissing(t *testing.T) {
	s := newTestStorage(t)

	m := testMember()
	err := s.UpdateMember(context.Background(), m)
	assert.ErrorIs(t, err, storage.ErrMemberNotFound)
}

func testEvent() *models.Event {
	starts := time.Date(2026, 5, 1, 13, 0, 0, 0, time.UTC)
	now := time.Now().UTC()
	return &models.Event{
		ID:                uuid.NewString(),
		Name:              "Spring Regatta",
		StartsAt:          &starts,
		Location:          "Harbor Club",
		Category:          "youth",
		AccessLevel:       "public",
		Tags:              []string{"racing", "outdoor"},
		RegistrationCount: 17,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
}

func TestEvent_CreateAndGet(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()

	e := testEvent()
	require.NoError(t, s.CreateEvent(ctx, e))

	got, err := s.GetEvent(ctx, e.ID)
	require.NoError(t, err)
	assert.Equal(t, e.Name, got.Name)
	require.NotNil(t, got.StartsAt)
	assert.True(t, got.StartsAt.Equal(*e.StartsAt))
	assert.Nil(t, got.EndsAt)
	assert.Equal(t, []string{"racing", "outdoor"}, got.Tags)
	assert.Equal(t, 17, got.RegistrationCount)
}

func TestEvent_FindByNameAndStart(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()

	e := testEvent()
	require.NoError(t, s.CreateEvent(ctx, e))

	key := e.StartsAt.UTC().Format(time.RFC3339Nano)
	got, err := s.FindEventByNameAndStart(ctx, "Spring Regatta", key)
	require.NoError(t, err)
	assert.Equal(t, e.ID, got.ID)

	_, err = s.FindEventByNameAndStart(ctx, "Spring Regatta", "")
	assert.ErrorIs(t, err, storage.ErrEventNotFound)

	_, err = s.FindEventByNameAndStart(ctx, "Fall Regatta", key)
	assert.ErrorIs(t, err, storage.ErrEventNotFound)
}

func TestEvent_FindWithoutStartDate(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()

	e := testEvent()
	e.StartsAt = nil
	require.NoError(t, s.CreateEvent(ctx, e))

	got, err := s.FindEventByNameAndStart(ctx, "Spring Regatta", "")
	require.NoError(t, err)
	assert.Equal(t, e.ID, got.ID)
}

func TestEvent_Update(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()

	e := testEvent()
	require.NoError(t, s.CreateEvent(ctx, e))

	e.RegistrationCount = 18
	e.Tags = []string{"racing"}
	e.UpdatedAt = time.Now().UTC()
	require.NoError(t, s.UpdateEvent(ctx, e))

	got, err := s.GetEvent(ctx, e.ID)
	require.NoError(t, err)
	assert.Equal(t, 18, got.RegistrationCount)
	assert.Equal(t, []string{"racing"}, got.Tags)

	ghost := testEvent()
	assert.ErrorIs(t, s.UpdateEvent(ctx, ghost), storage.ErrEventNotFound)
}

func testRegistration(eventID, memberID string) *models.EventRegistration {
	now := time.Now().UTC()
	return &models.EventRegistration{
		ID:         uuid.NewString(),
		EventID:    eventID,
		MemberID:   memberID,
		Status:     "confirmed",
		Fee:        25,
		PaidAmount: 25,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

func TestRegistration_CreateAndFind(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()

	m := testMember()
	e := testEvent()
	require.NoError(t, s.CreateMember(ctx, m))
	require.NoError(t, s.CreateEvent(ctx, e))

	r := testRegistration(e.ID, m.ID)
	require.NoError(t, s.CreateRegistration(ctx, r))

	got, err := s.GetRegistration(ctx, r.ID)
	require.NoError(t, err)
	assert.Equal(t, "confirmed", got.Status)
	assert.Equal(t, 25.0, got.PaidAmount)

	byKey, err := s.FindRegistrationByEventAndMember(ctx, e.ID, m.ID)
	require.NoError(t, err)
	assert.Equal(t, r.ID, byKey.ID)

	_, err = s.FindRegistrationByEventAndMember(ctx, e.ID, "other")
	assert.ErrorIs(t, err, storage.ErrRegistrationNotFound)
}

func TestRegistration_DuplicateNaturalKeyRejected(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()

	m := testMember()
	e := testEvent()
	require.NoError(t, s.CreateMember(ctx, m))
	require.NoError(t, s.CreateEvent(ctx, e))

	require.NoError(t, s.CreateRegistration(ctx, testRegistration(e.ID, m.ID)))
	assert.Error(t, s.CreateRegistration(ctx, testRegistration(e.ID, m.ID)))
}

func TestRegistration_Update(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()

	m := testMember()
	e := testEvent()
	require.NoError(t, s.CreateMember(ctx, m))
	require.NoError(t, s.CreateEvent(ctx, e))

	r := testRegistration(e.ID, m.ID)
	r.Status = "pending_payment"
	r.PaidAmount = 0
	require.NoError(t, s.CreateRegistration(ctx, r))

	r.Status = "confirmed"
	r.PaidAmount = 25
	r.UpdatedAt = time.Now().UTC()
	require.NoError(t, s.UpdateRegistration(ctx, r))

	got, err := s.GetRegistration(ctx, r.ID)
	require.NoError(t, err)
	assert.Equal(t, "confirmed", got.Status)
	assert.Equal(t, 25.0, got.PaidAmount)

	ghost := testRegistration(e.ID, m.ID)
	ghost.ID = uuid.NewString()
	ghost.MemberID = "other"
	assert.ErrorIs(t, s.UpdateRegistration(ctx, ghost), storage.ErrRegistrationNotFound)
}
