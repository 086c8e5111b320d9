package kafka

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/primegourmet/phone-auth/internal/core/domain"
	"github.com/primegourmet/phone-auth/internal/core/port"
)

// StubPublisher logs events instead of sending them to Kafka. Useful for
// development environments and the Lambda deployables, which do not carry a
// broker connection.
type StubPublisher struct {
	logger *zap.Logger
}

// NewStubPublisher constructs a log-only event publisher.
func NewStubPublisher(logger *zap.Logger) *StubPublisher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StubPublisher{logger: logger}
}

func (p *StubPublisher) logEvent(eventType string, at time.Time, payload any) {
	if at.IsZero() {
		at = time.Now().UTC()
	}

	p.logger.Info("stub event published",
		zap.String("event_type", eventType),
		zap.Time("timestamp", at.UTC()),
		zap.Any("payload", payload),
	)
}

// PublishRegistrationStarted logs registration.started events.
func (p *StubPublisher) PublishRegistrationStarted(_ context.Context, event domain.RegistrationStartedEvent) error {
	p.logEvent(eventRegistrationStarted, event.StartedAt, map[string]any{
		"masked_phone": event.MaskedPhone,
		"request_id":   event.RequestID,
	})
	return nil
}

// PublishAccountProvisioned logs account.provisioned events.
func (p *StubPublisher) PublishAccountProvisioned(_ context.Context, event domain.AccountProvisionedEvent) error {
	p.logEvent(eventAccountProvisioned, event.ProvisionedAt, map[string]any{
		"username":     event.Username,
		"masked_phone": event.MaskedPhone,
		"name":         event.Name,
	})
	return nil
}

var _ port.EventPublisher = (*StubPublisher)(nil)
