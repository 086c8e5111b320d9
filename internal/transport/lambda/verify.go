package lambda

import (
	"context"

	"github.com/aws/aws-lambda-go/events"
	"go.uber.org/zap"

	"github.com/primegourmet/phone-auth/internal/usecase"
)

// VerifyChallengeHandler adapts answer verification onto the
// VerifyAuthChallengeResponse trigger contract.
type VerifyChallengeHandler struct {
	challenges *usecase.ChallengeService
	logger     *zap.Logger
}

// NewVerifyChallengeHandler constructs the handler.
func NewVerifyChallengeHandler(challenges *usecase.ChallengeService, logger *zap.Logger) *VerifyChallengeHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &VerifyChallengeHandler{challenges: challenges, logger: logger}
}

// Handle compares the expected answer with the user's submission. A missing
// expected answer is a defect in the trigger chain and propagates.
func (h *VerifyChallengeHandler) Handle(ctx context.Context, event events.CognitoEventUserPoolsVerifyAuthChallenge) (events.CognitoEventUserPoolsVerifyAuthChallenge, error) {
	expected := event.Request.PrivateChallengeParameters[privateParamAnswer]
	submitted, _ := event.Request.ChallengeAnswer.(string)

	correct, err := h.challenges.VerifyChallenge(ctx, expected, submitted)
	if err != nil {
		h.logger.Error("verify auth challenge failed",
			zap.String("user_name", event.UserName),
			zap.Error(err),
		)
		return event, err
	}

	event.Response.AnswerCorrect = correct

	h.logger.Info("challenge answer verified",
		zap.String("user_name", event.UserName),
		zap.Bool("answer_correct", correct),
	)

	return event, nil
}
