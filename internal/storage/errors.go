package storage

import "errors"

// Common storage errors
var (
	// ErrMappingNotFound indicates no ID mapping exists for (entityType, externalID)
	ErrMappingNotFound = errors.New("id mapping not found")

	// ErrMemberNotFound indicates that member was not found in storage
	ErrMemberNotFound = errors.New("member not found")

	// ErrEventNotFound indicates that event was not found in storage
	ErrEventNotFound = errors.New("event not found")

	// ErrRegistrationNotFound indicates that event registration was not found
	ErrRegistrationNotFound = errors.New("event registration not found")
)
