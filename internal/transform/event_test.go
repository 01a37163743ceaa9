package transform

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clubops/membersync/internal/wildapricot"
)

func TestTransformEvent(t *testing.T) {
	e := wildapricot.Event{
		ID:          42,
		Name:        "  Spring Regatta ",
		StartDate:   "2026-05-01T09:00:00-04:00",
		EndDate:     "2026-05-01",
		Location:    " Harbor Club ",
		AccessLevel: "Public",
		Tags:        []string{"Racing", "outdoor"},
		Organizer: wildapricot.ContactRef{
			ID:    9,
			Email: "youth-program@club.org",
		},
		ConfirmedRegistrationsCount: 17,
	}

	ev, warnings, err := TransformEvent(e)
	require.NoError(t, err)
	assert.Empty(t, warnings)

	assert.Equal(t, "Spring Regatta", ev.Name)
	require.NotNil(t, ev.StartsAt)
	assert.Equal(t, time.Date(2026, 5, 1, 13, 0, 0, 0, time.UTC), *ev.StartsAt)
	require.NotNil(t, ev.EndsAt)
	assert.Equal(t, "Harbor Club", ev.Location)
	assert.Equal(t, "youth", ev.Category)
	assert.Equal(t, "public", ev.AccessLevel)
	assert.Equal(t, []string{"Racing", "outdoor"}, ev.Tags)
	assert.Equal(t, 17, ev.RegistrationCount)
}

func TestTransformEvent_MissingName(t *testing.T) {
	_, _, err := TransformEvent(wildapricot.Event{ID: 3, Name: "  "})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "name")
}

func TestTransformEvent_BadStartDateWarns(t *testing.T) {
	ev, warnings, err := TransformEvent(wildapricot.Event{ID: 3, Name: "X", StartDate: "someday"})
	require.NoError(t, err)
	assert.Nil(t, ev.StartsAt)
	require.Len(t, warnings, 1)
	assert.Contains(t, warnings[0], "someday")
}

func TestDeriveEventCategory(t *testing.T) {
	tests := []struct {
		name  string
		email string
		tags  []string
		want  string
	}{
		{"youth prefix", "youth-sailing@club.org", nil, "youth"},
		{"social prefix", "Social.Committee@club.org", nil, "social"},
		{"training prefix", "training@club.org", nil, "training"},
		{"board maps to governance", "board@club.org", nil, "governance"},
		{"unknown prefix falls to first tag", "info@club.org", []string{" Racing ", "x"}, "racing"},
		{"no email falls to first tag", "", []string{"Cruise"}, "cruise"},
		{"nothing to derive from", "info@club.org", nil, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DeriveEventCategory(tt.email, tt.tags))
		})
	}
}
