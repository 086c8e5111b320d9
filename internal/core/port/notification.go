package port

import "context"

// NotificationSender delivers short text messages to a destination phone
// number. Implementations may fail transiently; callers do not retry.
type NotificationSender interface {
	SendSMS(ctx context.Context, phoneNumber, message string) error
}
