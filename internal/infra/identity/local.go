package identity

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	zxcvbn "github.com/nbutton23/zxcvbn-go"
	"go.uber.org/zap"

	"github.com/primegourmet/phone-auth/internal/core/domain"
	"github.com/primegourmet/phone-auth/internal/core/port"
	"github.com/primegourmet/phone-auth/internal/infra/security"
)

const (
	localMinPasswordScore = 3
	localTokenType        = "Bearer"
	refreshTokenBytes     = 32
)

var (
	// ErrAccountExists indicates a sign-up collision on the username.
	ErrAccountExists = errors.New("identity account already exists")
	// ErrNotAuthorized indicates a failed password sign-in.
	ErrNotAuthorized = errors.New("identity sign-in not authorized")
	// ErrWeakPassword indicates the sign-up password fails the strength gate.
	ErrWeakPassword = errors.New("password does not meet strength requirements")
)

type localAccount struct {
	username      string
	name          string
	phoneNumber   string
	passwordHash  string
	confirmed     bool
	phoneVerified bool
	createdAt     time.Time
}

// LocalProvider is an in-memory identity provider for the development server.
// It mirrors the provisioning surface of the managed provider: sign-up,
// forced confirmation, attribute update, and password-based token issuance
// with HS256-signed access and ID tokens.
type LocalProvider struct {
	mu       sync.RWMutex
	accounts map[string]*localAccount

	secret    []byte
	accessTTL time.Duration
	logger    *zap.Logger
	now       func() time.Time
}

// NewLocalProvider constructs the provider with the given signing secret and
// access token lifetime.
func NewLocalProvider(secret string, accessTTL time.Duration, logger *zap.Logger) *LocalProvider {
	if accessTTL <= 0 {
		accessTTL = time.Hour
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LocalProvider{
		accounts:  make(map[string]*localAccount),
		secret:    []byte(secret),
		accessTTL: accessTTL,
		logger:    logger,
		now:       time.Now,
	}
}

// FindAccount reports whether the username is registered.
func (p *LocalProvider) FindAccount(_ context.Context, username string) error {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if _, ok := p.accounts[username]; !ok {
		return port.ErrAccountNotFound
	}
	return nil
}

// SignUp registers an unconfirmed account after validating password strength.
func (p *LocalProvider) SignUp(_ context.Context, input port.SignUpInput) error {
	if input.Username == "" || input.Password == "" {
		return errors.New("username and password are required")
	}

	if zxcvbn.PasswordStrength(input.Password, nil).Score < localMinPasswordScore {
		return ErrWeakPassword
	}

	hash, err := security.HashPassword(input.Password)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if _, ok := p.accounts[input.Username]; ok {
		return ErrAccountExists
	}

	p.accounts[input.Username] = &localAccount{
		username:     input.Username,
		name:         input.Name,
		phoneNumber:  input.PhoneNumber,
		passwordHash: hash,
		createdAt:    p.now().UTC(),
	}
	return nil
}

// ConfirmSignUp force-confirms the account.
func (p *LocalProvider) ConfirmSignUp(_ context.Context, username string) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	account, ok := p.accounts[username]
	if !ok {
		return port.ErrAccountNotFound
	}
	account.confirmed = true
	return nil
}

// MarkPhoneVerified flags the phone number as verified.
func (p *LocalProvider) MarkPhoneVerified(_ context.Context, username string) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	account, ok := p.accounts[username]
	if !ok {
		return port.ErrAccountNotFound
	}
	account.phoneVerified = true
	return nil
}

// InitiateAuth verifies the password and issues a token bundle.
func (p *LocalProvider) InitiateAuth(_ context.Context, username, password string) (domain.TokenBundle, error) {
	p.mu.RLock()
	account, ok := p.accounts[username]
	p.mu.RUnlock()

	if !ok {
		return domain.TokenBundle{}, port.ErrAccountNotFound
	}
	if !account.confirmed {
		return domain.TokenBundle{}, ErrNotAuthorized
	}

	match, err := security.VerifyPassword(password, account.passwordHash)
	if err != nil {
		return domain.TokenBundle{}, fmt.Errorf("verify password: %w", err)
	}
	if !match {
		return domain.TokenBundle{}, ErrNotAuthorized
	}

	now := p.now().UTC()
	expiresAt := now.Add(p.accessTTL)

	accessToken, err := p.signToken(jwt.MapClaims{
		"sub":       account.username,
		"token_use": "access",
		"iat":       now.Unix(),
		"exp":       expiresAt.Unix(),
		"jti":       uuid.NewString(),
	})
	if err != nil {
		return domain.TokenBundle{}, fmt.Errorf("sign access token: %w", err)
	}

	idToken, err := p.signToken(jwt.MapClaims{
		"sub":                   account.username,
		"token_use":             "id",
		"name":                  account.name,
		"phone_number":          account.phoneNumber,
		"phone_number_verified": account.phoneVerified,
		"iat":                   now.Unix(),
		"exp":                   expiresAt.Unix(),
	})
	if err != nil {
		return domain.TokenBundle{}, fmt.Errorf("sign id token: %w", err)
	}

	refreshToken, err := security.GenerateSecureToken(refreshTokenBytes)
	if err != nil {
		return domain.TokenBundle{}, fmt.Errorf("generate refresh token: %w", err)
	}

	return domain.TokenBundle{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		IDToken:      idToken,
		ExpiresIn:    int32(p.accessTTL.Seconds()),
		TokenType:    localTokenType,
	}, nil
}

// WithClock overrides the internal clock, used in tests.
func (p *LocalProvider) WithClock(clock func() time.Time) {
	if clock != nil {
		p.now = clock
	}
}

func (p *LocalProvider) signToken(claims jwt.MapClaims) (string, error) {
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(p.secret)
}

var _ port.IdentityProviderAdmin = (*LocalProvider)(nil)
