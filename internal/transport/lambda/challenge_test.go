package lambda

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-lambda-go/events"

	"github.com/primegourmet/phone-auth/internal/usecase"
)

type stubSender struct {
	sendErr   error
	sendCalls int
	lastPhone string
	lastBody  string
}

func (s *stubSender) SendSMS(_ context.Context, phoneNumber, message string) error {
	s.sendCalls++
	s.lastPhone = phoneNumber
	s.lastBody = message
	return s.sendErr
}

func newChallengeService(sender *stubSender) *usecase.ChallengeService {
	return usecase.NewChallengeService(sender, nil, nil)
}

func sessionOf(results ...*events.CognitoEventUserPoolsChallengeResult) []*events.CognitoEventUserPoolsChallengeResult {
	return results
}

func TestDefineChallengeHandlerUnknownUser(t *testing.T) {
	handler := NewDefineChallengeHandler(newChallengeService(&stubSender{}), nil)

	event := events.CognitoEventUserPoolsDefineAuthChallenge{}
	event.Request.UserNotFound = true

	got, err := handler.Handle(context.Background(), event)
	if !errors.Is(err, usecase.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound to propagate, got %v", err)
	}
	if !got.Response.FailAuthentication {
		t.Error("FailAuthentication not set")
	}
	if got.Response.IssueTokens {
		t.Error("IssueTokens must not be set")
	}
}

func TestDefineChallengeHandlerFirstRound(t *testing.T) {
	handler := NewDefineChallengeHandler(newChallengeService(&stubSender{}), nil)

	got, err := handler.Handle(context.Background(), events.CognitoEventUserPoolsDefineAuthChallenge{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Response.ChallengeName != usecase.CustomChallengeName {
		t.Errorf("challenge name = %q", got.Response.ChallengeName)
	}
	if got.Response.IssueTokens || got.Response.FailAuthentication {
		t.Errorf("unexpected flags: %+v", got.Response)
	}
}

func TestDefineChallengeHandlerAuthenticated(t *testing.T) {
	handler := NewDefineChallengeHandler(newChallengeService(&stubSender{}), nil)

	event := events.CognitoEventUserPoolsDefineAuthChallenge{}
	event.Request.Session = sessionOf(
		&events.CognitoEventUserPoolsChallengeResult{ChallengeMetadata: "CODE-123456", ChallengeResult: true},
	)

	got, err := handler.Handle(context.Background(), event)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !got.Response.IssueTokens {
		t.Error("IssueTokens not set")
	}
	if got.Response.FailAuthentication {
		t.Error("FailAuthentication must not be set")
	}
}

func TestCreateChallengeHandlerFirstAttempt(t *testing.T) {
	sender := &stubSender{}
	handler := NewCreateChallengeHandler(newChallengeService(sender), nil)

	event := events.CognitoEventUserPoolsCreateAuthChallenge{}
	event.Request.UserAttributes = map[string]string{"phone_number": "+5511999999999"}

	got, err := handler.Handle(context.Background(), event)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if sender.sendCalls != 1 {
		t.Fatalf("sendCalls = %d, want 1", sender.sendCalls)
	}
	if sender.lastPhone != "+5511999999999" {
		t.Errorf("SMS sent to %q", sender.lastPhone)
	}

	answer := got.Response.PrivateChallengeParameters["answer"]
	if len(answer) != 6 {
		t.Errorf("answer %q is not 6 digits", answer)
	}
	if got.Response.ChallengeMetadata != "CODE-"+answer {
		t.Errorf("metadata = %q", got.Response.ChallengeMetadata)
	}
	if got.Response.PublicChallengeParameters["phone"] != "+55XXXXXXX9999" {
		t.Errorf("public phone = %q, want masked", got.Response.PublicChallengeParameters["phone"])
	}
	// The raw number must never surface publicly.
	for _, v := range got.Response.PublicChallengeParameters {
		if v == "+5511999999999" {
			t.Error("raw phone number leaked into public parameters")
		}
	}
}

func TestCreateChallengeHandlerRetryReusesCode(t *testing.T) {
	sender := &stubSender{}
	handler := NewCreateChallengeHandler(newChallengeService(sender), nil)

	event := events.CognitoEventUserPoolsCreateAuthChallenge{}
	event.Request.UserAttributes = map[string]string{"phone_number": "+5511999999999"}
	event.Request.Session = sessionOf(
		&events.CognitoEventUserPoolsChallengeResult{ChallengeMetadata: "CODE-654321", ChallengeResult: false},
	)

	got, err := handler.Handle(context.Background(), event)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sender.sendCalls != 0 {
		t.Errorf("retry sent %d SMS, want 0", sender.sendCalls)
	}
	if got.Response.PrivateChallengeParameters["answer"] != "654321" {
		t.Errorf("answer = %q, want reused code", got.Response.PrivateChallengeParameters["answer"])
	}
}

func TestCreateChallengeHandlerMalformedMetadata(t *testing.T) {
	handler := NewCreateChallengeHandler(newChallengeService(&stubSender{}), nil)

	event := events.CognitoEventUserPoolsCreateAuthChallenge{}
	event.Request.UserAttributes = map[string]string{"phone_number": "+5511999999999"}
	event.Request.Session = sessionOf(
		&events.CognitoEventUserPoolsChallengeResult{ChallengeMetadata: "garbage", ChallengeResult: false},
	)

	if _, err := handler.Handle(context.Background(), event); !errors.Is(err, usecase.ErrChallengeMetadata) {
		t.Fatalf("expected ErrChallengeMetadata, got %v", err)
	}
}

func TestVerifyChallengeHandler(t *testing.T) {
	handler := NewVerifyChallengeHandler(newChallengeService(&stubSender{}), nil)

	cases := []struct {
		name      string
		expected  string
		submitted interface{}
		want      bool
	}{
		{"correct answer", "123456", "123456", true},
		{"wrong answer", "123456", "654321", false},
		{"non-string answer", "123456", 123456, false},
		{"nil answer", "123456", nil, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			event := events.CognitoEventUserPoolsVerifyAuthChallenge{}
			event.Request.PrivateChallengeParameters = map[string]string{"answer": tc.expected}
			event.Request.ChallengeAnswer = tc.submitted

			got, err := handler.Handle(context.Background(), event)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got.Response.AnswerCorrect != tc.want {
				t.Errorf("AnswerCorrect = %v, want %v", got.Response.AnswerCorrect, tc.want)
			}
		})
	}
}

func TestVerifyChallengeHandlerMissingExpectedAnswer(t *testing.T) {
	handler := NewVerifyChallengeHandler(newChallengeService(&stubSender{}), nil)

	event := events.CognitoEventUserPoolsVerifyAuthChallenge{}
	event.Request.ChallengeAnswer = "123456"

	if _, err := handler.Handle(context.Background(), event); !errors.Is(err, usecase.ErrMissingChallengeAnswer) {
		t.Fatalf("expected ErrMissingChallengeAnswer, got %v", err)
	}
}
