package domain

import "time"

// PendingRegistration bridges the "code sent" and "account created" steps of
// sign-up. At most one live record exists per phone number; a new
// pre-registration overwrites the previous one.
type PendingRegistration struct {
	PhoneNumber      string
	Name             string
	VerificationCode string
	CreatedAt        time.Time
	ExpiresAt        time.Time
}

// Expired reports whether the record has passed its TTL. Backing stores may
// reap expired records lazily, so readers must check explicitly.
func (p PendingRegistration) Expired(now time.Time) bool {
	return !p.ExpiresAt.IsZero() && !now.Before(p.ExpiresAt)
}

// TokenBundle is the session material returned by the identity provider after
// a password-based sign-in.
type TokenBundle struct {
	AccessToken  string
	RefreshToken string
	IDToken      string
	ExpiresIn    int32
	TokenType    string
}
