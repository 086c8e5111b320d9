package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/IBM/sarama"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/primegourmet/phone-auth/internal/core/domain"
	"github.com/primegourmet/phone-auth/internal/core/port"
	"github.com/primegourmet/phone-auth/internal/infra/config"
)

const schemaVersion = "1.0"

const (
	eventRegistrationStarted = "registration.started"
	eventAccountProvisioned  = "account.provisioned"
)

// EventPublisher implements port.EventPublisher on top of the Kafka producer.
type EventPublisher struct {
	producer *Producer
	logger   *zap.Logger
	appCfg   config.AppSettings
}

// NewEventPublisher constructs a Kafka-backed event publisher.
func NewEventPublisher(producer *Producer, appCfg config.AppSettings, logger *zap.Logger) *EventPublisher {
	return &EventPublisher{producer: producer, appCfg: appCfg, logger: logger}
}

type eventEnvelope struct {
	EventID   string            `json:"event_id"`
	EventType string            `json:"event_type"`
	Timestamp time.Time         `json:"timestamp"`
	Version   string            `json:"version"`
	Payload   any               `json:"payload"`
	Metadata  map[string]string `json:"metadata,omitempty"`
}

func (p *EventPublisher) publish(ctx context.Context, eventType, key string, ts time.Time, payload any) error {
	if ts.IsZero() {
		ts = time.Now().UTC()
	}

	metadata := map[string]string{
		"service":     p.appCfg.Name,
		"environment": p.appCfg.Env,
	}
	if sc := trace.SpanFromContext(ctx).SpanContext(); sc.IsValid() {
		metadata["trace_id"] = sc.TraceID().String()
	}

	envelope := eventEnvelope{
		EventID:   uuid.NewString(),
		EventType: eventType,
		Timestamp: ts.UTC(),
		Version:   schemaVersion,
		Payload:   payload,
		Metadata:  metadata,
	}

	bytes, err := json.Marshal(envelope)
	if err != nil {
		return fmt.Errorf("marshal event envelope: %w", err)
	}

	p.producer.Input() <- &sarama.ProducerMessage{
		Topic: p.producer.TopicName(eventType),
		Key:   sarama.StringEncoder(key),
		Value: sarama.ByteEncoder(bytes),
	}

	return nil
}

// PublishRegistrationStarted publishes auth.registration.started events.
func (p *EventPublisher) PublishRegistrationStarted(ctx context.Context, event domain.RegistrationStartedEvent) error {
	payload := map[string]any{
		"masked_phone": event.MaskedPhone,
		"request_id":   event.RequestID,
		"started_at":   event.StartedAt,
	}
	return p.publish(ctx, eventRegistrationStarted, event.MaskedPhone, event.StartedAt, payload)
}

// PublishAccountProvisioned publishes auth.account.provisioned events.
func (p *EventPublisher) PublishAccountProvisioned(ctx context.Context, event domain.AccountProvisionedEvent) error {
	payload := map[string]any{
		"username":       event.Username,
		"masked_phone":   event.MaskedPhone,
		"name":           event.Name,
		"provisioned_at": event.ProvisionedAt,
	}
	return p.publish(ctx, eventAccountProvisioned, event.Username, event.ProvisionedAt, payload)
}

var _ port.EventPublisher = (*EventPublisher)(nil)
