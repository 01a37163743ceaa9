package wildapricot

// External record shapes as the platform returns them. Dates stay strings
// here; parsing belongs to the transform layer, and none of these field names
// may leak past it.

// Contact is a platform contact record.
type Contact struct {
	ID              int64               `json:"Id"`
	FirstName       string              `json:"FirstName"`
	LastName        string              `json:"LastName"`
	Email           string              `json:"Email"`
	Status          string              `json:"Status"`
	MembershipLevel MembershipLevelRef  `json:"MembershipLevel"`
	MemberSince     string              `json:"MemberSince"`
	FieldValues     []FieldValue        `json:"FieldValues"`
}

// FieldValue is one entry of a contact's custom field bag.
type FieldValue struct {
	FieldName string `json:"FieldName"`
	Value     any    `json:"Value"`
}

// MembershipLevelRef is the level reference embedded in a contact.
type MembershipLevelRef struct {
	ID   int64  `json:"Id"`
	Name string `json:"Name"`
}

// MembershipLevel is a full level record from the reference list endpoint.
type MembershipLevel struct {
	ID   int64  `json:"Id"`
	Name string `json:"Name"`
	Type string `json:"Type"`
}

// Event is a platform event record.
type Event struct {
	ID                          int64      `json:"Id"`
	Name                        string     `json:"Name"`
	StartDate                   string     `json:"StartDate"`
	EndDate                     string     `json:"EndDate"`
	Location                    string     `json:"Location"`
	AccessLevel                 string     `json:"AccessLevel"`
	Tags                        []string   `json:"Tags"`
	Organizer                   ContactRef `json:"Organizer"`
	ConfirmedRegistrationsCount int        `json:"ConfirmedRegistrationsCount"`
}

// ContactRef is a shallow contact reference embedded in other records.
type ContactRef struct {
	ID    int64  `json:"Id"`
	Name  string `json:"Name"`
	Email string `json:"Email"`
}

// EventRef is a shallow event reference embedded in registrations.
type EventRef struct {
	ID int64 `json:"Id"`
}

// EventRegistration is a platform registration record.
type EventRegistration struct {
	ID              int64      `json:"Id"`
	Event           EventRef   `json:"Event"`
	Contact         ContactRef `json:"Contact"`
	Status          string     `json:"Status"`
	OnWaitlist      bool       `json:"OnWaitlist"`
	RegistrationFee float64    `json:"RegistrationFee"`
	PaidSum         float64    `json:"PaidSum"`
}

// listEnvelope is the common response envelope of list endpoints: either an
// Items page, or a ResultUrl handle for an asynchronous query. Polled result
// documents reuse the same shape with State/ErrorDetails populated.
type listEnvelope[T any] struct {
	Items        []T    `json:"Items"`
	ResultURL    string `json:"ResultUrl"`
	State        string `json:"State"`
	ErrorDetails string `json:"ErrorDetails"`
}

// Async query job states.
const (
	queryStateComplete = "Complete"
	queryStateFailed   = "Failed"
)

// tokenResponse is the auth endpoint's response body.
type tokenResponse struct {
	AccessToken  string       `json:"access_token"`
	TokenType    string       `json:"token_type"`
	ExpiresIn    int64        `json:"expires_in"`
	RefreshToken string       `json:"refresh_token"`
	Permissions  []permission `json:"Permissions"`
}

// permission carries the account the granted token is scoped to.
type permission struct {
	AccountID int64 `json:"AccountId"`
}

// Health is the result of a HealthCheck probe. It never carries a Go error so
// monitoring collaborators can report it directly.
type Health struct {
	OK        bool   `json:"ok"`
	AccountID int64  `json:"account_id"`
	Error     string `json:"error,omitempty"`
}
