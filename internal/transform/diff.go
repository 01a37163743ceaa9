package transform

import (
	"slices"
	"time"

	"github.com/clubops/membersync/internal/models"
)

// The change functions compare a stored entity against a freshly transformed
// one, field by field over the sync-owned fields only, and return the changed
// fields keyed by name with their new values. A nil result means nothing
// changed, which is what makes updates idempotent and audit entries record
// real deltas. Host-managed fields never appear in a diff.

// MemberChanges diffs the sync-owned member fields.
func MemberChanges(existing, incoming *models.Member) map[string]any {
	changes := map[string]any{}
	if existing.FirstName != incoming.FirstName {
		changes["first_name"] = incoming.FirstName
	}
	if existing.LastName != incoming.LastName {
		changes["last_name"] = incoming.LastName
	}
	if existing.Email != incoming.Email {
		changes["email"] = incoming.Email
	}
	if existing.Phone != incoming.Phone {
		changes["phone"] = incoming.Phone
	}
	if existing.Status != incoming.Status {
		changes["status"] = incoming.Status
	}
	if existing.MembershipLevel != incoming.MembershipLevel {
		changes["membership_level"] = incoming.MembershipLevel
	}
	if !timesEqual(existing.MemberSince, incoming.MemberSince) {
		changes["member_since"] = incoming.MemberSince
	}
	if len(changes) == 0 {
		return nil
	}
	return changes
}

// EventChanges diffs the sync-owned event fields.
func EventChanges(existing, incoming *models.Event) map[string]any {
	changes := map[string]any{}
	if existing.Name != incoming.Name {
		changes["name"] = incoming.Name
	}
	if !timesEqual(existing.StartsAt, incoming.StartsAt) {
		changes["starts_at"] = incoming.StartsAt
	}
	if !timesEqual(existing.EndsAt, incoming.EndsAt) {
		changes["ends_at"] = incoming.EndsAt
	}
	if existing.Location != incoming.Location {
		changes["location"] = incoming.Location
	}
	if existing.Category != incoming.Category {
		changes["category"] = incoming.Category
	}
	if existing.AccessLevel != incoming.AccessLevel {
		changes["access_level"] = incoming.AccessLevel
	}
	if !slices.Equal(existing.Tags, incoming.Tags) {
		changes["tags"] = incoming.Tags
	}
	if existing.RegistrationCount != incoming.RegistrationCount {
		changes["registration_count"] = incoming.RegistrationCount
	}
	if len(changes) == 0 {
		return nil
	}
	return changes
}

// RegistrationChanges diffs the sync-owned registration fields.
func RegistrationChanges(existing, incoming *models.EventRegistration) map[string]any {
	changes := map[string]any{}
	if existing.Status != incoming.Status {
		changes["status"] = incoming.Status
	}
	if existing.Waitlisted != incoming.Waitlisted {
		changes["waitlisted"] = incoming.Waitlisted
	}
	if existing.Fee != incoming.Fee {
		changes["fee"] = incoming.Fee
	}
	if existing.PaidAmount != incoming.PaidAmount {
		changes["paid_amount"] = incoming.PaidAmount
	}
	if len(changes) == 0 {
		return nil
	}
	return changes
}

// timesEqual treats two nil timestamps as equal and compares by instant, not
// by location or pointer.
func timesEqual(a, b *time.Time) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a.Equal(*b)
}
