package redis

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	red "github.com/redis/go-redis/v9"

	"github.com/primegourmet/phone-auth/internal/core/domain"
	"github.com/primegourmet/phone-auth/internal/repository"
)

const (
	defaultPendingPrefix = "pending"

	fieldName      = "name"
	fieldCode      = "code"
	fieldCreatedAt = "created_at"
	fieldExpiresAt = "expires_at"
)

// PendingRegistrationStore persists pending registrations in Redis, relying
// on key TTLs for garbage collection. Used by the development server.
type PendingRegistrationStore struct {
	client *red.Client
	prefix string
	now    func() time.Time
}

// NewPendingRegistrationStore constructs the store with the provided client
// and key prefix.
func NewPendingRegistrationStore(client *red.Client, keyPrefix string) *PendingRegistrationStore {
	prefix := strings.TrimSpace(keyPrefix)
	if prefix == "" {
		prefix = defaultPendingPrefix
	}

	return &PendingRegistrationStore{
		client: client,
		prefix: prefix,
		now:    time.Now,
	}
}

// Put upserts the record and sets the key TTL to the record's remaining
// lifetime. A second Put for the same number overwrites the first.
func (s *PendingRegistrationStore) Put(ctx context.Context, record domain.PendingRegistration) error {
	if record.PhoneNumber == "" {
		return errors.New("phone number is required")
	}
	ttl := record.ExpiresAt.Sub(s.now().UTC())
	if ttl <= 0 {
		return errors.New("record is already expired")
	}

	key := s.key(record.PhoneNumber)

	pipe := s.client.TxPipeline()
	pipe.HSet(ctx, key, map[string]any{
		fieldName:      record.Name,
		fieldCode:      record.VerificationCode,
		fieldCreatedAt: strconv.FormatInt(record.CreatedAt.UnixMilli(), 10),
		fieldExpiresAt: strconv.FormatInt(record.ExpiresAt.Unix(), 10),
	})
	pipe.Expire(ctx, key, ttl)

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("redis store pending registration: %w", err)
	}

	return nil
}

// Get retrieves the live record for the phone number.
func (s *PendingRegistrationStore) Get(ctx context.Context, phoneNumber string) (*domain.PendingRegistration, error) {
	if phoneNumber == "" {
		return nil, errors.New("phone number is required")
	}

	values, err := s.client.HGetAll(ctx, s.key(phoneNumber)).Result()
	if err != nil {
		return nil, fmt.Errorf("redis hgetall pending registration: %w", err)
	}
	if len(values) == 0 {
		return nil, repository.ErrNotFound
	}

	code := strings.TrimSpace(values[fieldCode])
	if code == "" {
		return nil, repository.ErrNotFound
	}

	createdAt, err := parseMillis(values[fieldCreatedAt])
	if err != nil {
		return nil, fmt.Errorf("parse created_at: %w", err)
	}
	expiresAt, err := parseUnix(values[fieldExpiresAt])
	if err != nil {
		return nil, fmt.Errorf("parse expires_at: %w", err)
	}

	record := domain.PendingRegistration{
		PhoneNumber:      phoneNumber,
		Name:             values[fieldName],
		VerificationCode: code,
		CreatedAt:        createdAt,
		ExpiresAt:        expiresAt,
	}
	if record.Expired(s.now().UTC()) {
		return nil, repository.ErrNotFound
	}

	return &record, nil
}

// Delete removes the record, enforcing one-time consumption.
func (s *PendingRegistrationStore) Delete(ctx context.Context, phoneNumber string) error {
	if phoneNumber == "" {
		return errors.New("phone number is required")
	}

	deleted, err := s.client.Del(ctx, s.key(phoneNumber)).Result()
	if err != nil {
		return fmt.Errorf("redis delete pending registration: %w", err)
	}
	if deleted == 0 {
		return repository.ErrNotFound
	}

	return nil
}

// WithClock overrides the internal clock, used in tests.
func (s *PendingRegistrationStore) WithClock(clock func() time.Time) {
	if clock != nil {
		s.now = clock
	}
}

func (s *PendingRegistrationStore) key(phoneNumber string) string {
	return fmt.Sprintf("%s:%s", s.prefix, phoneNumber)
}

func parseUnix(raw string) (time.Time, error) {
	v, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil {
		return time.Time{}, err
	}
	return time.Unix(v, 0).UTC(), nil
}

func parseMillis(raw string) (time.Time, error) {
	v, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil {
		return time.Time{}, err
	}
	return time.UnixMilli(v).UTC(), nil
}
