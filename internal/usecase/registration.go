package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/primegourmet/phone-auth/internal/core/domain"
	"github.com/primegourmet/phone-auth/internal/core/port"
	"github.com/primegourmet/phone-auth/internal/infra/security"
	"github.com/primegourmet/phone-auth/internal/infra/telemetry"
	"github.com/primegourmet/phone-auth/internal/repository"
)

const (
	defaultPendingTTL = 5 * time.Minute

	deliveryMediumSMS  = "SMS"
	attributeNamePhone = "phone_number"

	registrationSMSTemplate = "P-%s is your Prime Gourmet verification code."

	operationPreRegister = "pre_register"
	operationExecute     = "execute"
)

var (
	// ErrUserAlreadyExists rejects pre-registration for a phone number that
	// already owns an identity account.
	ErrUserAlreadyExists = errors.New("user already exists")
	// ErrNoPendingVerification indicates no live pending record exists for the
	// phone number (never created, expired, or already consumed).
	ErrNoPendingVerification = errors.New("no pending verification found for this number")
	// ErrInvalidVerificationCode indicates a code mismatch. The pending record
	// is retained so the user may retry until it expires.
	ErrInvalidVerificationCode = errors.New("invalid verification code")
)

// PreRegisterResult describes where the verification code was delivered.
type PreRegisterResult struct {
	Destination    string
	DeliveryMedium string
	AttributeName  string
}

// RegistrationService orchestrates the registration handshake: pending record
// plus code verification plus account provisioning.
type RegistrationService struct {
	store    port.PendingRegistrationStore
	identity port.IdentityProviderAdmin
	sender   port.NotificationSender
	events   port.EventPublisher
	metrics  *telemetry.AuthMetrics
	logger   *zap.Logger

	pendingTTL time.Duration
	now        func() time.Time
}

// NewRegistrationService constructs the registration orchestrator.
func NewRegistrationService(
	store port.PendingRegistrationStore,
	identity port.IdentityProviderAdmin,
	sender port.NotificationSender,
	events port.EventPublisher,
	metrics *telemetry.AuthMetrics,
	logger *zap.Logger,
) *RegistrationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RegistrationService{
		store:      store,
		identity:   identity,
		sender:     sender,
		events:     events,
		metrics:    metrics,
		logger:     logger,
		pendingTTL: defaultPendingTTL,
		now:        time.Now,
	}
}

// WithPendingTTL overrides the pending record lifetime.
func (s *RegistrationService) WithPendingTTL(ttl time.Duration) *RegistrationService {
	if ttl > 0 {
		s.pendingTTL = ttl
	}
	return s
}

// WithClock overrides the internal clock, used in tests.
func (s *RegistrationService) WithClock(clock func() time.Time) *RegistrationService {
	if clock != nil {
		s.now = clock
	}
	return s
}

// PreRegister starts the handshake: rejects numbers that already own an
// account, writes a pending record (overwriting any prior one), and delivers
// the verification code in exactly one SMS.
func (s *RegistrationService) PreRegister(ctx context.Context, phoneNumber, name string) (result PreRegisterResult, err error) {
	defer func() {
		s.metrics.RecordRegistration(operationPreRegister, err == nil)
	}()

	err = s.identity.FindAccount(ctx, phoneNumber)
	switch {
	case err == nil:
		return PreRegisterResult{}, ErrUserAlreadyExists
	case !errors.Is(err, port.ErrAccountNotFound):
		return PreRegisterResult{}, fmt.Errorf("look up account: %w", err)
	}

	code, err := security.GenerateVerificationCode()
	if err != nil {
		return PreRegisterResult{}, err
	}

	now := s.now().UTC()
	record := domain.PendingRegistration{
		PhoneNumber:      phoneNumber,
		Name:             name,
		VerificationCode: code,
		CreatedAt:        now,
		ExpiresAt:        now.Add(s.pendingTTL),
	}
	if err = s.store.Put(ctx, record); err != nil {
		return PreRegisterResult{}, fmt.Errorf("store pending registration: %w", err)
	}

	if err = s.sender.SendSMS(ctx, phoneNumber, fmt.Sprintf(registrationSMSTemplate, code)); err != nil {
		return PreRegisterResult{}, fmt.Errorf("send verification code: %w", err)
	}

	masked := security.MaskPhoneNumber(phoneNumber)
	s.publishRegistrationStarted(ctx, masked, now)

	s.logger.Info("pre-registration created",
		zap.String("phone", masked),
		zap.Time("expires_at", record.ExpiresAt),
	)

	return PreRegisterResult{
		Destination:    masked,
		DeliveryMedium: deliveryMediumSMS,
		AttributeName:  attributeNamePhone,
	}, nil
}

// ExecuteRegistration completes the handshake: validates the submitted code
// against the pending record, provisions the identity account, signs in with
// a one-time strong password, and consumes the record.
func (s *RegistrationService) ExecuteRegistration(ctx context.Context, phoneNumber, code string) (tokens domain.TokenBundle, err error) {
	defer func() {
		s.metrics.RecordRegistration(operationExecute, err == nil)
	}()

	record, err := s.store.Get(ctx, phoneNumber)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return domain.TokenBundle{}, ErrNoPendingVerification
		}
		return domain.TokenBundle{}, fmt.Errorf("fetch pending registration: %w", err)
	}

	// Mismatch leaves the record in place so the user may retry with the
	// same code until the TTL expires.
	if record.VerificationCode != code {
		return domain.TokenBundle{}, ErrInvalidVerificationCode
	}

	password, err := security.GenerateStrongPassword()
	if err != nil {
		return domain.TokenBundle{}, err
	}

	if err = s.identity.SignUp(ctx, port.SignUpInput{
		Username:    phoneNumber,
		Password:    password,
		PhoneNumber: phoneNumber,
		Name:        record.Name,
	}); err != nil {
		return domain.TokenBundle{}, fmt.Errorf("sign up account: %w", err)
	}

	if err = s.identity.ConfirmSignUp(ctx, phoneNumber); err != nil {
		return domain.TokenBundle{}, fmt.Errorf("confirm account: %w", err)
	}

	if err = s.identity.MarkPhoneVerified(ctx, phoneNumber); err != nil {
		return domain.TokenBundle{}, fmt.Errorf("mark phone verified: %w", err)
	}

	tokens, err = s.identity.InitiateAuth(ctx, phoneNumber, password)
	if err != nil {
		return domain.TokenBundle{}, fmt.Errorf("initiate auth: %w", err)
	}

	// Deletion happens after token issuance; a crash in between leaves the
	// record live until its TTL. The provider's duplicate-account rejection
	// covers replays of the exchange.
	if err = s.store.Delete(ctx, phoneNumber); err != nil {
		return domain.TokenBundle{}, fmt.Errorf("consume pending registration: %w", err)
	}

	masked := security.MaskPhoneNumber(phoneNumber)
	s.publishAccountProvisioned(ctx, phoneNumber, masked, record.Name)

	s.logger.Info("account provisioned",
		zap.String("phone", masked),
	)

	return tokens, nil
}

func (s *RegistrationService) publishRegistrationStarted(ctx context.Context, maskedPhone string, at time.Time) {
	if s.events == nil {
		return
	}
	event := domain.RegistrationStartedEvent{
		MaskedPhone: maskedPhone,
		StartedAt:   at,
	}
	if err := s.events.PublishRegistrationStarted(ctx, event); err != nil {
		s.logger.Warn("publish registration started event", zap.Error(err))
	}
}

func (s *RegistrationService) publishAccountProvisioned(ctx context.Context, username, maskedPhone, name string) {
	if s.events == nil {
		return
	}
	event := domain.AccountProvisionedEvent{
		Username:      username,
		MaskedPhone:   maskedPhone,
		Name:          name,
		ProvisionedAt: s.now().UTC(),
	}
	if err := s.events.PublishAccountProvisioned(ctx, event); err != nil {
		s.logger.Warn("publish account provisioned event", zap.Error(err))
	}
}
