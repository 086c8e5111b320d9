package notification

import (
	"context"

	"go.uber.org/zap"

	"github.com/primegourmet/phone-auth/internal/core/port"
	"github.com/primegourmet/phone-auth/internal/infra/security"
)

// LogSender records SMS deliveries in the log instead of sending them.
// Useful for development environments. The message body, which contains the
// verification code, is only logged in dev mode.
type LogSender struct {
	logger *zap.Logger
	dev    bool
}

// NewLogSender constructs a development-friendly notification sender.
func NewLogSender(logger *zap.Logger, dev bool) *LogSender {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LogSender{logger: logger, dev: dev}
}

func (s *LogSender) SendSMS(_ context.Context, phoneNumber, message string) error {
	fields := []zap.Field{
		zap.String("phone", security.MaskPhoneNumber(phoneNumber)),
	}
	if s.dev {
		fields = append(fields, zap.String("message", message))
	}

	s.logger.Info("sms delivery stubbed", fields...)
	return nil
}

var _ port.NotificationSender = (*LogSender)(nil)
