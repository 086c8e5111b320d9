package domain

import "time"

// RegistrationStartedEvent represents the payload for auth.registration.started messages.
// The destination phone number is always carried masked.
type RegistrationStartedEvent struct {
	MaskedPhone string
	RequestID   string
	StartedAt   time.Time
}

// AccountProvisionedEvent represents the payload for auth.account.provisioned
// messages, emitted after the identity account has been created and confirmed.
type AccountProvisionedEvent struct {
	Username      string
	MaskedPhone   string
	Name          string
	ProvisionedAt time.Time
}
