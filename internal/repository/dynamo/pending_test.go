package dynamo

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/primegourmet/phone-auth/internal/core/domain"
	"github.com/primegourmet/phone-auth/internal/repository"
)

type mockDynamoAPI struct {
	putErr   error
	putCalls int
	putInput *dynamodb.PutItemInput

	getOutput *dynamodb.GetItemOutput
	getErr    error
	getCalls  int
	getInput  *dynamodb.GetItemInput

	deleteErr   error
	deleteCalls int
	deleteInput *dynamodb.DeleteItemInput
}

func (m *mockDynamoAPI) PutItem(_ context.Context, params *dynamodb.PutItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error) {
	m.putCalls++
	m.putInput = params
	return &dynamodb.PutItemOutput{}, m.putErr
}

func (m *mockDynamoAPI) GetItem(_ context.Context, params *dynamodb.GetItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error) {
	m.getCalls++
	m.getInput = params
	if m.getOutput != nil {
		return m.getOutput, m.getErr
	}
	return &dynamodb.GetItemOutput{}, m.getErr
}

func (m *mockDynamoAPI) DeleteItem(_ context.Context, params *dynamodb.DeleteItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error) {
	m.deleteCalls++
	m.deleteInput = params
	return &dynamodb.DeleteItemOutput{}, m.deleteErr
}

func marshalItem(t *testing.T, item pendingItem) map[string]types.AttributeValue {
	t.Helper()
	out, err := attributevalue.MarshalMap(item)
	if err != nil {
		t.Fatalf("marshal item: %v", err)
	}
	return out
}

func TestPendingRegistrationStore_Put(t *testing.T) {
	api := &mockDynamoAPI{}
	store := NewPendingRegistrationStore(api, "pending-registrations")

	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	record := domain.PendingRegistration{
		PhoneNumber:      "+5511999999999",
		Name:             "Maria",
		VerificationCode: "123456",
		CreatedAt:        now,
		ExpiresAt:        now.Add(5 * time.Minute),
	}

	if err := store.Put(context.Background(), record); err != nil {
		t.Fatalf("Put returned error: %v", err)
	}
	if api.putCalls != 1 {
		t.Fatalf("putCalls = %d, want 1", api.putCalls)
	}
	if got := *api.putInput.TableName; got != "pending-registrations" {
		t.Errorf("table = %q", got)
	}

	var item pendingItem
	if err := attributevalue.UnmarshalMap(api.putInput.Item, &item); err != nil {
		t.Fatalf("unmarshal stored item: %v", err)
	}
	if item.PhoneNumber != record.PhoneNumber || item.Name != "Maria" || item.VerificationCode != "123456" {
		t.Errorf("stored item = %+v", item)
	}
	if item.CreatedAt != now.UnixMilli() {
		t.Errorf("createdAt = %d, want %d", item.CreatedAt, now.UnixMilli())
	}
	if item.TTL != now.Add(5*time.Minute).Unix() {
		t.Errorf("ttl = %d, want %d", item.TTL, now.Add(5*time.Minute).Unix())
	}
}

func TestPendingRegistrationStore_PutRequiresPhone(t *testing.T) {
	store := NewPendingRegistrationStore(&mockDynamoAPI{}, "pending-registrations")
	if err := store.Put(context.Background(), domain.PendingRegistration{}); err == nil {
		t.Fatal("expected error for empty phone number")
	}
}

func TestPendingRegistrationStore_Get(t *testing.T) {
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	api := &mockDynamoAPI{
		getOutput: &dynamodb.GetItemOutput{
			Item: marshalItem(t, pendingItem{
				PhoneNumber:      "+5511999999999",
				Name:             "Maria",
				VerificationCode: "123456",
				CreatedAt:        now.UnixMilli(),
				TTL:              now.Add(5 * time.Minute).Unix(),
			}),
		},
	}
	store := NewPendingRegistrationStore(api, "pending-registrations")
	store.WithClock(func() time.Time { return now })

	record, err := store.Get(context.Background(), "+5511999999999")
	if err != nil {
		t.Fatalf("Get returned error: %v", err)
	}
	if record.Name != "Maria" || record.VerificationCode != "123456" {
		t.Errorf("record = %+v", record)
	}
	if !record.CreatedAt.Equal(now) {
		t.Errorf("CreatedAt = %v, want %v", record.CreatedAt, now)
	}

	if api.getInput.ConsistentRead == nil || !*api.getInput.ConsistentRead {
		t.Error("expected a consistent read")
	}
	key, ok := api.getInput.Key[partitionKey].(*types.AttributeValueMemberS)
	if !ok || key.Value != "+5511999999999" {
		t.Errorf("key = %+v", api.getInput.Key)
	}
}

func TestPendingRegistrationStore_GetMissing(t *testing.T) {
	store := NewPendingRegistrationStore(&mockDynamoAPI{}, "pending-registrations")

	if _, err := store.Get(context.Background(), "+5511999999999"); !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestPendingRegistrationStore_GetExpiredItem(t *testing.T) {
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	api := &mockDynamoAPI{
		getOutput: &dynamodb.GetItemOutput{
			Item: marshalItem(t, pendingItem{
				PhoneNumber:      "+5511999999999",
				Name:             "Maria",
				VerificationCode: "123456",
				CreatedAt:        now.Add(-10 * time.Minute).UnixMilli(),
				TTL:              now.Add(-5 * time.Minute).Unix(),
			}),
		},
	}
	store := NewPendingRegistrationStore(api, "pending-registrations")
	store.WithClock(func() time.Time { return now })

	// DynamoDB reaps TTL items lazily; a returned-but-expired item must read
	// as absent.
	if _, err := store.Get(context.Background(), "+5511999999999"); !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for expired item, got %v", err)
	}
}

func TestPendingRegistrationStore_Delete(t *testing.T) {
	api := &mockDynamoAPI{}
	store := NewPendingRegistrationStore(api, "pending-registrations")

	if err := store.Delete(context.Background(), "+5511999999999"); err != nil {
		t.Fatalf("Delete returned error: %v", err)
	}
	if api.deleteCalls != 1 {
		t.Fatalf("deleteCalls = %d, want 1", api.deleteCalls)
	}
	key, ok := api.deleteInput.Key[partitionKey].(*types.AttributeValueMemberS)
	if !ok || key.Value != "+5511999999999" {
		t.Errorf("key = %+v", api.deleteInput.Key)
	}
}

func TestPendingRegistrationStore_DeleteFailure(t *testing.T) {
	api := &mockDynamoAPI{deleteErr: errors.New("throttled")}
	store := NewPendingRegistrationStore(api, "pending-registrations")

	if err := store.Delete(context.Background(), "+5511999999999"); err == nil {
		t.Fatal("expected error")
	}
}
