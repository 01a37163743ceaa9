package transform

import (
	"fmt"
	"strings"

	"github.com/clubops/membersync/internal/models"
	"github.com/clubops/membersync/internal/wildapricot"
)

// categoryPrefixes maps known organizer mailbox prefixes to event categories,
// checked in order so overlapping prefixes resolve deterministically.
var categoryPrefixes = []struct {
	prefix   string
	category string
}{
	{"youth", "youth"},
	{"social", "social"},
	{"training", "training"},
	{"board", "governance"},
}

// TransformEvent maps a platform event onto an event value. A missing name
// fails the record.
func TransformEvent(e wildapricot.Event) (*models.Event, []string, error) {
	name := strings.TrimSpace(e.Name)
	if name == "" {
		return nil, nil, fmt.Errorf("event %d: name is empty", e.ID)
	}

	var warnings []string
	starts := ParseDate(e.StartDate)
	if starts == nil && e.StartDate != "" {
		warnings = append(warnings, fmt.Sprintf("unparseable start date %q", e.StartDate))
	}

	return &models.Event{
		Name:              name,
		StartsAt:          starts,
		EndsAt:            ParseDate(e.EndDate),
		Location:          strings.TrimSpace(e.Location),
		Category:          DeriveEventCategory(e.Organizer.Email, e.Tags),
		AccessLevel:       strings.ToLower(e.AccessLevel),
		Tags:              e.Tags,
		RegistrationCount: e.ConfirmedRegistrationsCount,
	}, warnings, nil
}

// DeriveEventCategory inspects the organizer's contact address against known
// mailbox prefixes, falls back to the first tag, and finally to empty.
func DeriveEventCategory(organizerEmail string, tags []string) string {
	local, _, found := strings.Cut(strings.ToLower(strings.TrimSpace(organizerEmail)), "@")
	if found {
		for _, p := range categoryPrefixes {
			if strings.HasPrefix(local, p.prefix) {
				return p.category
			}
		}
	}
	if len(tags) > 0 {
		return strings.ToLower(strings.TrimSpace(tags[0]))
	}
	return ""
}
