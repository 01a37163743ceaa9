package transform

import (
	"fmt"
	"strings"

	"github.com/clubops/membersync/internal/models"
	"github.com/clubops/membersync/internal/wildapricot"
)

// contactStatusCodes maps platform membership statuses to internal codes.
var contactStatusCodes = map[string]string{
	"Active":           "active",
	"Lapsed":           "lapsed",
	"PendingNew":       "pending_new",
	"PendingRenewal":   "pending_renewal",
	"PendingUpgrade":   "pending_upgrade",
	"PendingDowngrade": "pending_downgrade",
}

// TransformContact maps a platform contact onto a member value. Only the
// sync-owned fields are populated; host-managed fields stay zero. A missing
// first name or an invalid email fails the whole record.
func TransformContact(c wildapricot.Contact) (*models.Member, []string, error) {
	var warnings []string

	email, err := NormalizeEmail(c.Email)
	if err != nil {
		return nil, nil, fmt.Errorf("contact %d: %w", c.ID, err)
	}

	firstName := strings.TrimSpace(c.FirstName)
	if firstName == "" {
		return nil, nil, fmt.Errorf("contact %d: first name is empty", c.ID)
	}

	status, ok := contactStatusCodes[c.Status]
	if !ok {
		status = strings.ToLower(c.Status)
		if c.Status != "" {
			warnings = append(warnings, fmt.Sprintf("unknown contact status %q", c.Status))
		}
	}

	return &models.Member{
		FirstName:       firstName,
		LastName:        strings.TrimSpace(c.LastName),
		Email:           email,
		Phone:           NormalizePhone(contactPhone(c)),
		Status:          status,
		MembershipLevel: c.MembershipLevel.Name,
		MemberSince:     ParseDate(c.MemberSince),
	}, warnings, nil
}

// contactPhone pulls the phone number out of the contact's field value bag.
func contactPhone(c wildapricot.Contact) string {
	for _, fv := range c.FieldValues {
		if fv.FieldName != "Phone" {
			continue
		}
		if s, ok := fv.Value.(string); ok {
			return s
		}
	}
	return ""
}
