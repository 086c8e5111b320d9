package lambda

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/primegourmet/phone-auth/internal/core/domain"
	"github.com/primegourmet/phone-auth/internal/core/port"
	"github.com/primegourmet/phone-auth/internal/repository"
	"github.com/primegourmet/phone-auth/internal/usecase"
)

type stubStore struct {
	record   *domain.PendingRegistration
	getErr   error
	putCalls int
	delCalls int
}

func (s *stubStore) Put(_ context.Context, record domain.PendingRegistration) error {
	s.putCalls++
	s.record = &record
	return nil
}

func (s *stubStore) Get(_ context.Context, _ string) (*domain.PendingRegistration, error) {
	if s.getErr != nil {
		return nil, s.getErr
	}
	if s.record == nil {
		return nil, repository.ErrNotFound
	}
	copy := *s.record
	return &copy, nil
}

func (s *stubStore) Delete(_ context.Context, _ string) error {
	s.delCalls++
	return nil
}

type stubIdentity struct {
	exists  bool
	tokens  domain.TokenBundle
	authErr error
}

func (s *stubIdentity) FindAccount(context.Context, string) error {
	if s.exists {
		return nil
	}
	return port.ErrAccountNotFound
}

func (s *stubIdentity) SignUp(context.Context, port.SignUpInput) error     { return nil }
func (s *stubIdentity) ConfirmSignUp(context.Context, string) error        { return nil }
func (s *stubIdentity) MarkPhoneVerified(context.Context, string) error    { return nil }
func (s *stubIdentity) InitiateAuth(context.Context, string, string) (domain.TokenBundle, error) {
	return s.tokens, s.authErr
}

func newRegistrationService(store *stubStore, identity *stubIdentity) *usecase.RegistrationService {
	return usecase.NewRegistrationService(store, identity, &stubSender{}, nil, nil, nil)
}

func decodeInvocationError(t *testing.T, err error) ErrorResponse {
	t.Helper()

	var invocation *InvocationError
	if !errors.As(err, &invocation) {
		t.Fatalf("expected *InvocationError, got %T: %v", err, err)
	}

	var resp ErrorResponse
	if decodeErr := json.Unmarshal([]byte(invocation.Error()), &resp); decodeErr != nil {
		t.Fatalf("error payload is not JSON: %v", decodeErr)
	}
	return resp
}

func TestPreRegisterHandlerSuccess(t *testing.T) {
	store := &stubStore{}
	handler := NewPreRegisterHandler(newRegistrationService(store, &stubIdentity{}), nil)

	resp, err := handler.Handle(context.Background(), PreRegisterRequest{
		PhoneNumber: "+5511999999999",
		Name:        "Maria",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d", resp.StatusCode)
	}
	if resp.Body.Message != "Verification code sent successfully" {
		t.Errorf("message = %q", resp.Body.Message)
	}
	details := resp.Body.ConfirmationDetails
	if details.Destination != "+55XXXXXXX9999" || details.DeliveryMedium != "SMS" || details.AttributeName != "phone_number" {
		t.Errorf("details = %+v", details)
	}
	if store.putCalls != 1 {
		t.Errorf("putCalls = %d, want 1", store.putCalls)
	}
}

func TestPreRegisterHandlerExistingUser(t *testing.T) {
	handler := NewPreRegisterHandler(newRegistrationService(&stubStore{}, &stubIdentity{exists: true}), nil)

	_, err := handler.Handle(context.Background(), PreRegisterRequest{PhoneNumber: "+5511999999999", Name: "Maria"})
	resp := decodeInvocationError(t, err)

	if resp.ErrorType != "ValidationError" {
		t.Errorf("errorType = %q", resp.ErrorType)
	}
	if resp.HTTPStatus != http.StatusBadRequest {
		t.Errorf("httpStatus = %d", resp.HTTPStatus)
	}
	if resp.Message != "User already exists" {
		t.Errorf("message = %q", resp.Message)
	}
	if resp.Trace != nil {
		t.Error("validation errors must not carry a trace")
	}
}

func TestExecuteRegistrationHandlerSuccess(t *testing.T) {
	store := &stubStore{record: &domain.PendingRegistration{
		PhoneNumber:      "+5511999999999",
		Name:             "Maria",
		VerificationCode: "123456",
		ExpiresAt:        time.Now().Add(5 * time.Minute),
	}}
	identity := &stubIdentity{tokens: domain.TokenBundle{
		AccessToken:  "access",
		RefreshToken: "refresh",
		IDToken:      "id",
		ExpiresIn:    3600,
		TokenType:    "Bearer",
	}}
	handler := NewExecuteRegistrationHandler(newRegistrationService(store, identity), nil)

	resp, err := handler.Handle(context.Background(), ExecuteRegistrationRequest{
		PhoneNumber: "+5511999999999",
		Code:        "123456",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if resp.Body.Message != "User verified and created successfully" {
		t.Errorf("message = %q", resp.Body.Message)
	}
	if resp.Body.Tokens.AccessToken != "access" || resp.Body.Tokens.TokenType != "Bearer" {
		t.Errorf("tokens = %+v", resp.Body.Tokens)
	}
	if store.delCalls != 1 {
		t.Errorf("delCalls = %d, want 1", store.delCalls)
	}
}

func TestExecuteRegistrationHandlerNoPendingRecord(t *testing.T) {
	handler := NewExecuteRegistrationHandler(newRegistrationService(&stubStore{}, &stubIdentity{}), nil)

	_, err := handler.Handle(context.Background(), ExecuteRegistrationRequest{PhoneNumber: "+5511999999999", Code: "123456"})
	resp := decodeInvocationError(t, err)

	if resp.Message != "No pending verification found for this number." {
		t.Errorf("message = %q", resp.Message)
	}
	if resp.HTTPStatus != http.StatusBadRequest {
		t.Errorf("httpStatus = %d", resp.HTTPStatus)
	}
}

func TestExecuteRegistrationHandlerWrongCode(t *testing.T) {
	store := &stubStore{record: &domain.PendingRegistration{
		PhoneNumber:      "+5511999999999",
		VerificationCode: "123456",
		ExpiresAt:        time.Now().Add(5 * time.Minute),
	}}
	handler := NewExecuteRegistrationHandler(newRegistrationService(store, &stubIdentity{}), nil)

	_, err := handler.Handle(context.Background(), ExecuteRegistrationRequest{PhoneNumber: "+5511999999999", Code: "999999"})
	resp := decodeInvocationError(t, err)

	if resp.Message != "Invalid verification code" {
		t.Errorf("message = %q", resp.Message)
	}
	if store.delCalls != 0 {
		t.Errorf("record must be retained, got %d deletes", store.delCalls)
	}
}

func TestExecuteRegistrationHandlerInternalFailure(t *testing.T) {
	store := &stubStore{record: &domain.PendingRegistration{
		PhoneNumber:      "+5511999999999",
		VerificationCode: "123456",
		ExpiresAt:        time.Now().Add(5 * time.Minute),
	}}
	identity := &stubIdentity{authErr: errors.New("provider down")}
	handler := NewExecuteRegistrationHandler(newRegistrationService(store, identity), nil)

	_, err := handler.Handle(context.Background(), ExecuteRegistrationRequest{PhoneNumber: "+5511999999999", Code: "123456"})
	resp := decodeInvocationError(t, err)

	if resp.ErrorType != "InternalServerError" {
		t.Errorf("errorType = %q", resp.ErrorType)
	}
	if resp.HTTPStatus != http.StatusInternalServerError {
		t.Errorf("httpStatus = %d", resp.HTTPStatus)
	}
	if resp.Message != "Internal server error" {
		t.Errorf("internal failures must use the generic message, got %q", resp.Message)
	}
	if resp.Trace == nil || resp.Trace.Function != "ExecuteRegistration" {
		t.Errorf("trace = %+v", resp.Trace)
	}
}
