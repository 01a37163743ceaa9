package models

import "time"

// Entity type discriminators used by IDMapping and the audit log.
const (
	EntityMember       = "member"
	EntityEvent        = "event"
	EntityRegistration = "registration"
)

// Member represents a member record owned by the host system.
// Fields up to MemberSince are populated from the external platform during
// sync; Notes and Archived are managed by the host system and never
// overwritten by sync.
type Member struct {
	ID              string     `json:"id"`               // UUID
	FirstName       string     `json:"first_name"`       // required
	LastName        string     `json:"last_name"`        //
	Email           string     `json:"email"`            // normalized, required
	Phone           string     `json:"phone"`            // digits with optional leading +
	Status          string     `json:"status"`           // internal status code ("active", "lapsed", ...)
	MembershipLevel string     `json:"membership_level"` //
	MemberSince     *time.Time `json:"member_since"`     // nil when the platform omits it
	Notes           string     `json:"notes"`            // host-managed
	Archived        bool       `json:"archived"`         // host-managed
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

// Event represents an event record owned by the host system.
type Event struct {
	ID                string     `json:"id"`                 // UUID
	Name              string     `json:"name"`               // required
	StartsAt          *time.Time `json:"starts_at"`          //
	EndsAt            *time.Time `json:"ends_at"`            //
	Location          string     `json:"location"`           //
	Category          string     `json:"category"`           // derived, may be empty
	AccessLevel       string     `json:"access_level"`       //
	Tags              []string   `json:"tags"`               //
	RegistrationCount int        `json:"registration_count"` // as reported by the platform
	Notes             string     `json:"notes"`              // host-managed
	CreatedAt         time.Time  `json:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at"`
}

// EventRegistration links a member to an event.
type EventRegistration struct {
	ID         string    `json:"id"`          // UUID
	EventID    string    `json:"event_id"`    // internal Event.ID
	MemberID   string    `json:"member_id"`   // internal Member.ID
	Status     string    `json:"status"`      // internal status code; "waitlisted" overrides all others
	Waitlisted bool      `json:"waitlisted"`  //
	Fee        float64   `json:"fee"`         //
	PaidAmount float64   `json:"paid_amount"` //
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}
