package port

import (
	"context"

	"github.com/primegourmet/phone-auth/internal/core/domain"
)

// EventPublisher publishes registration lifecycle events to the message bus.
// Publishing is telemetry-grade: failures are logged by callers and never fail
// the operation that produced the event.
type EventPublisher interface {
	PublishRegistrationStarted(ctx context.Context, event domain.RegistrationStartedEvent) error
	PublishAccountProvisioned(ctx context.Context, event domain.AccountProvisionedEvent) error
}
