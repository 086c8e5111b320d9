package lambda

import (
	"context"

	"github.com/aws/aws-lambda-go/events"
	"go.uber.org/zap"

	"github.com/primegourmet/phone-auth/internal/usecase"
)

const (
	publicParamPhone   = "phone"
	privateParamAnswer = "answer"
)

// CreateChallengeHandler adapts code issuance onto the CreateAuthChallenge
// trigger contract.
type CreateChallengeHandler struct {
	challenges *usecase.ChallengeService
	logger     *zap.Logger
}

// NewCreateChallengeHandler constructs the handler.
func NewCreateChallengeHandler(challenges *usecase.ChallengeService, logger *zap.Logger) *CreateChallengeHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CreateChallengeHandler{challenges: challenges, logger: logger}
}

// Handle issues (or re-derives) the challenge code and writes the public and
// private parameters. The raw phone number never reaches the public side.
func (h *CreateChallengeHandler) Handle(ctx context.Context, event events.CognitoEventUserPoolsCreateAuthChallenge) (events.CognitoEventUserPoolsCreateAuthChallenge, error) {
	phone := event.Request.UserAttributes["phone_number"]
	attempts := attemptsFromSession(event.Request.Session)

	h.logger.Info("creating auth challenge",
		zap.Int("session_length", len(attempts)),
	)

	material, err := h.challenges.CreateChallenge(ctx, phone, attempts)
	if err != nil {
		h.logger.Error("create auth challenge failed", zap.Error(err))
		return event, err
	}

	event.Response.PublicChallengeParameters = map[string]string{
		publicParamPhone: material.MaskedPhone,
	}
	event.Response.PrivateChallengeParameters = map[string]string{
		privateParamAnswer: material.Answer,
	}
	event.Response.ChallengeMetadata = material.Metadata

	return event, nil
}
