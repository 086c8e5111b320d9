package notification

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"go.uber.org/zap"

	"github.com/primegourmet/phone-auth/internal/core/port"
	"github.com/primegourmet/phone-auth/internal/infra/security"
	"github.com/primegourmet/phone-auth/internal/infra/telemetry"
)

// SNSAPI is the subset of the SNS client used by the sender.
type SNSAPI interface {
	Publish(ctx context.Context, params *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error)
}

// SNSSender delivers SMS messages through Amazon SNS and records delivery
// latency.
type SNSSender struct {
	client  SNSAPI
	logger  *zap.Logger
	metrics *telemetry.AuthMetrics
}

// NewSNSSender constructs an SNS-backed notification sender.
func NewSNSSender(client SNSAPI, metrics *telemetry.AuthMetrics, logger *zap.Logger) *SNSSender {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SNSSender{client: client, logger: logger, metrics: metrics}
}

// SendSMS publishes the message directly to the phone number.
func (s *SNSSender) SendSMS(ctx context.Context, phoneNumber, message string) error {
	start := time.Now()

	_, err := s.client.Publish(ctx, &sns.PublishInput{
		PhoneNumber: aws.String(phoneNumber),
		Message:     aws.String(message),
	})

	elapsed := time.Since(start)
	s.metrics.ObserveSMSDuration(elapsed)

	masked := security.MaskPhoneNumber(phoneNumber)
	if err != nil {
		s.logger.Error("sms delivery failed",
			zap.String("phone", masked),
			zap.Duration("duration", elapsed),
			zap.Error(err),
		)
		return fmt.Errorf("sns publish: %w", err)
	}

	s.logger.Info("sms delivered",
		zap.String("phone", masked),
		zap.Duration("duration", elapsed),
	)
	return nil
}

var _ port.NotificationSender = (*SNSSender)(nil)
