package lambda

import (
	"context"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/primegourmet/phone-auth/internal/usecase"
)

// ExecuteRegistrationRequest is the direct-invocation input for the
// registration execution function.
type ExecuteRegistrationRequest struct {
	PhoneNumber string `json:"phoneNumber"`
	Code        string `json:"code"`
}

// TokenPayload carries the session tokens issued on successful registration.
type TokenPayload struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
	IDToken      string `json:"idToken"`
	ExpiresIn    int32  `json:"expiresIn"`
	TokenType    string `json:"tokenType"`
}

// ExecuteRegistrationBody is the success payload body.
type ExecuteRegistrationBody struct {
	Message string       `json:"message"`
	Tokens  TokenPayload `json:"tokens"`
}

// ExecuteRegistrationResponse is the success payload for the registration
// execution function.
type ExecuteRegistrationResponse struct {
	StatusCode int                     `json:"statusCode"`
	Body       ExecuteRegistrationBody `json:"body"`
}

// ExecuteRegistrationHandler exposes RegistrationService.ExecuteRegistration
// as a direct Lambda invocation.
type ExecuteRegistrationHandler struct {
	registration *usecase.RegistrationService
	logger       *zap.Logger
}

// NewExecuteRegistrationHandler constructs the handler.
func NewExecuteRegistrationHandler(registration *usecase.RegistrationService, logger *zap.Logger) *ExecuteRegistrationHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExecuteRegistrationHandler{registration: registration, logger: logger}
}

// Handle runs the verification and provisioning step.
func (h *ExecuteRegistrationHandler) Handle(ctx context.Context, req ExecuteRegistrationRequest) (ExecuteRegistrationResponse, error) {
	tokens, err := h.registration.ExecuteRegistration(ctx, req.PhoneNumber, req.Code)
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrNoPendingVerification):
			return ExecuteRegistrationResponse{}, NewValidationError(ctx, "No pending verification found for this number.")
		case errors.Is(err, usecase.ErrInvalidVerificationCode):
			return ExecuteRegistrationResponse{}, NewValidationError(ctx, "Invalid verification code")
		}

		h.logger.Error("registration execution failed", zap.Error(err))
		return ExecuteRegistrationResponse{}, NewInternalError(ctx, "ExecuteRegistration", err)
	}

	return ExecuteRegistrationResponse{
		StatusCode: http.StatusOK,
		Body: ExecuteRegistrationBody{
			Message: "User verified and created successfully",
			Tokens: TokenPayload{
				AccessToken:  tokens.AccessToken,
				RefreshToken: tokens.RefreshToken,
				IDToken:      tokens.IDToken,
				ExpiresIn:    tokens.ExpiresIn,
				TokenType:    tokens.TokenType,
			},
		},
	}, nil
}
