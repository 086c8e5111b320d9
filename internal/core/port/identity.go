package port

import (
	"context"
	"errors"

	"github.com/primegourmet/phone-auth/internal/core/domain"
)

// ErrAccountNotFound indicates the identity provider has no account for the
// requested username.
var ErrAccountNotFound = errors.New("identity account not found")

// SignUpInput carries the attributes for a new identity account. The password
// is used exactly once for the immediate sign-in and is never persisted by
// this system.
type SignUpInput struct {
	Username    string
	Password    string
	PhoneNumber string
	Name        string
}

// IdentityProviderAdmin wraps the administrative surface of the managed
// identity provider used by the registration handshake.
type IdentityProviderAdmin interface {
	// FindAccount looks up an account by username, returning
	// ErrAccountNotFound when it does not exist. Any other failure
	// propagates as-is.
	FindAccount(ctx context.Context, username string) error
	SignUp(ctx context.Context, input SignUpInput) error
	// ConfirmSignUp force-confirms the account, bypassing the provider's own
	// confirmation flow; the phone was already verified by the code exchange.
	ConfirmSignUp(ctx context.Context, username string) error
	MarkPhoneVerified(ctx context.Context, username string) error
	// InitiateAuth performs a password-based sign-in and returns the session
	// token bundle.
	InitiateAuth(ctx context.Context, username, password string) (domain.TokenBundle, error)
}
