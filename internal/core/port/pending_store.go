package port

import (
	"context"

	"github.com/primegourmet/phone-auth/internal/core/domain"
)

// PendingRegistrationStore persists short-lived pre-registration records keyed
// by phone number. Put overwrites any live record for the same number. Get and
// Delete return repository.ErrNotFound when no live record exists; expired
// records are treated as absent even if the backing store has not reaped them
// yet.
type PendingRegistrationStore interface {
	Put(ctx context.Context, record domain.PendingRegistration) error
	Get(ctx context.Context, phoneNumber string) (*domain.PendingRegistration, error)
	Delete(ctx context.Context, phoneNumber string) error
}
