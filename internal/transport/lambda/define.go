package lambda

import (
	"context"

	"github.com/aws/aws-lambda-go/events"
	"go.uber.org/zap"

	"github.com/primegourmet/phone-auth/internal/usecase"
)

// DefineChallengeHandler adapts the challenge decision onto the
// DefineAuthChallenge trigger contract.
type DefineChallengeHandler struct {
	challenges *usecase.ChallengeService
	logger     *zap.Logger
}

// NewDefineChallengeHandler constructs the handler.
func NewDefineChallengeHandler(challenges *usecase.ChallengeService, logger *zap.Logger) *DefineChallengeHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DefineChallengeHandler{challenges: challenges, logger: logger}
}

// Handle sets the response flags for the decided outcome. A rejection sets the
// failure flags and re-raises the error: the raise, combined with the flags,
// is how the platform observes the failure.
func (h *DefineChallengeHandler) Handle(ctx context.Context, event events.CognitoEventUserPoolsDefineAuthChallenge) (events.CognitoEventUserPoolsDefineAuthChallenge, error) {
	attempts := attemptsFromSession(event.Request.Session)

	directive, err := h.challenges.DefineChallenge(ctx, event.Request.UserNotFound, attempts)

	event.Response.ChallengeName = directive.ChallengeName
	event.Response.IssueTokens = directive.IssueTokens
	event.Response.FailAuthentication = directive.FailAuthentication

	if err != nil {
		h.logger.Error("define auth challenge failed", zap.Error(err))
		return event, err
	}

	return event, nil
}
