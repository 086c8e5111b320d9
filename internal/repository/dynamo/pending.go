package dynamo

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/primegourmet/phone-auth/internal/core/domain"
	"github.com/primegourmet/phone-auth/internal/repository"
)

const partitionKey = "phoneNumber"

// API is the subset of the DynamoDB client used by the pending store.
type API interface {
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	DeleteItem(ctx context.Context, params *dynamodb.DeleteItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error)
}

// PendingRegistrationStore persists pending registrations in a DynamoDB table
// with a TTL attribute. New records for the same phone number overwrite the
// previous one (last write wins).
type PendingRegistrationStore struct {
	client API
	table  string
	now    func() time.Time
}

type pendingItem struct {
	PhoneNumber      string `dynamodbav:"phoneNumber"`
	Name             string `dynamodbav:"name"`
	VerificationCode string `dynamodbav:"verificationCode"`
	CreatedAt        int64  `dynamodbav:"createdAt"` // epoch millis
	TTL              int64  `dynamodbav:"ttl"`       // epoch seconds, table TTL attribute
}

// NewPendingRegistrationStore constructs a store over the given table.
func NewPendingRegistrationStore(client API, table string) *PendingRegistrationStore {
	return &PendingRegistrationStore{
		client: client,
		table:  strings.TrimSpace(table),
		now:    time.Now,
	}
}

// Put upserts the record keyed by phone number.
func (s *PendingRegistrationStore) Put(ctx context.Context, record domain.PendingRegistration) error {
	if record.PhoneNumber == "" {
		return errors.New("phone number is required")
	}

	item, err := attributevalue.MarshalMap(pendingItem{
		PhoneNumber:      record.PhoneNumber,
		Name:             record.Name,
		VerificationCode: record.VerificationCode,
		CreatedAt:        record.CreatedAt.UnixMilli(),
		TTL:              record.ExpiresAt.Unix(),
	})
	if err != nil {
		return fmt.Errorf("marshal pending registration: %w", err)
	}

	if _, err := s.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(s.table),
		Item:      item,
	}); err != nil {
		return fmt.Errorf("dynamo put pending registration: %w", err)
	}

	return nil
}

// Get fetches the live record for the phone number. DynamoDB reaps TTL-expired
// items lazily, so expired records are filtered here and reported as absent.
func (s *PendingRegistrationStore) Get(ctx context.Context, phoneNumber string) (*domain.PendingRegistration, error) {
	if phoneNumber == "" {
		return nil, errors.New("phone number is required")
	}

	out, err := s.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName:      aws.String(s.table),
		Key:            s.key(phoneNumber),
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return nil, fmt.Errorf("dynamo get pending registration: %w", err)
	}
	if len(out.Item) == 0 {
		return nil, repository.ErrNotFound
	}

	var item pendingItem
	if err := attributevalue.UnmarshalMap(out.Item, &item); err != nil {
		return nil, fmt.Errorf("unmarshal pending registration: %w", err)
	}

	record := domain.PendingRegistration{
		PhoneNumber:      item.PhoneNumber,
		Name:             item.Name,
		VerificationCode: item.VerificationCode,
		CreatedAt:        time.UnixMilli(item.CreatedAt).UTC(),
		ExpiresAt:        time.Unix(item.TTL, 0).UTC(),
	}
	if record.Expired(s.now().UTC()) {
		return nil, repository.ErrNotFound
	}

	return &record, nil
}

// Delete removes the record, enforcing one-time consumption after a
// successful exchange.
func (s *PendingRegistrationStore) Delete(ctx context.Context, phoneNumber string) error {
	if phoneNumber == "" {
		return errors.New("phone number is required")
	}

	if _, err := s.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(s.table),
		Key:       s.key(phoneNumber),
	}); err != nil {
		return fmt.Errorf("dynamo delete pending registration: %w", err)
	}

	return nil
}

// WithClock overrides the internal clock, used in tests.
func (s *PendingRegistrationStore) WithClock(clock func() time.Time) {
	if clock != nil {
		s.now = clock
	}
}

func (s *PendingRegistrationStore) key(phoneNumber string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		partitionKey: &types.AttributeValueMemberS{Value: phoneNumber},
	}
}
