package transform

import (
	"fmt"
	"strings"

	"github.com/clubops/membersync/internal/models"
	"github.com/clubops/membersync/internal/wildapricot"
)

// StatusWaitlisted overrides the raw registration status whenever the
// platform flags the registration as on the waitlist.
const StatusWaitlisted = "waitlisted"

// registrationStatusCodes maps platform registration statuses to internal
// codes.
var registrationStatusCodes = map[string]string{
	"Confirmed":      "confirmed",
	"PendingPayment": "pending_payment",
	"Cancelled":      "cancelled",
	"CheckedIn":      "checked_in",
}

// TransformRegistration maps a platform registration onto a registration
// value. EventID and MemberID stay empty: the orchestrator resolves them
// through the ID mapping caches. Registrations without an event or contact
// reference fail the record.
func TransformRegistration(r wildapricot.EventRegistration) (*models.EventRegistration, []string, error) {
	if r.Event.ID == 0 {
		return nil, nil, fmt.Errorf("registration %d: missing event reference", r.ID)
	}
	if r.Contact.ID == 0 {
		return nil, nil, fmt.Errorf("registration %d: missing contact reference", r.ID)
	}

	var warnings []string
	status := StatusWaitlisted
	if !r.OnWaitlist {
		var ok bool
		status, ok = registrationStatusCodes[r.Status]
		if !ok {
			status = strings.ToLower(r.Status)
			if r.Status != "" {
				warnings = append(warnings, fmt.Sprintf("unknown registration status %q", r.Status))
			}
		}
	}

	return &models.EventRegistration{
		Status:     status,
		Waitlisted: r.OnWaitlist,
		Fee:        r.RegistrationFee,
		PaidAmount: r.PaidSum,
	}, warnings, nil
}
