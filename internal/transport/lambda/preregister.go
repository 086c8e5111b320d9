package lambda

import (
	"context"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/primegourmet/phone-auth/internal/usecase"
)

// PreRegisterRequest is the direct-invocation input for the pre-registration
// function.
type PreRegisterRequest struct {
	PhoneNumber string `json:"phoneNumber"`
	Name        string `json:"name"`
}

// ConfirmationDetails describes where the verification code was sent.
type ConfirmationDetails struct {
	Destination    string `json:"destination"`
	DeliveryMedium string `json:"deliveryMedium"`
	AttributeName  string `json:"attributeName"`
}

// PreRegisterBody is the success payload body.
type PreRegisterBody struct {
	Message             string              `json:"message"`
	ConfirmationDetails ConfirmationDetails `json:"confirmationDetails"`
}

// PreRegisterResponse is the success payload for the pre-registration function.
type PreRegisterResponse struct {
	StatusCode int             `json:"statusCode"`
	Body       PreRegisterBody `json:"body"`
}

// PreRegisterHandler exposes RegistrationService.PreRegister as a direct
// Lambda invocation. Failures travel on the error channel as a structured
// ErrorResponse; successes on the success channel.
type PreRegisterHandler struct {
	registration *usecase.RegistrationService
	logger       *zap.Logger
}

// NewPreRegisterHandler constructs the handler.
func NewPreRegisterHandler(registration *usecase.RegistrationService, logger *zap.Logger) *PreRegisterHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PreRegisterHandler{registration: registration, logger: logger}
}

// Handle runs the pre-registration step.
func (h *PreRegisterHandler) Handle(ctx context.Context, req PreRegisterRequest) (PreRegisterResponse, error) {
	result, err := h.registration.PreRegister(ctx, req.PhoneNumber, req.Name)
	if err != nil {
		if errors.Is(err, usecase.ErrUserAlreadyExists) {
			return PreRegisterResponse{}, NewValidationError(ctx, "User already exists")
		}

		h.logger.Error("pre-registration failed", zap.Error(err))
		return PreRegisterResponse{}, NewInternalError(ctx, "PreRegister", err)
	}

	return PreRegisterResponse{
		StatusCode: http.StatusOK,
		Body: PreRegisterBody{
			Message: "Verification code sent successfully",
			ConfirmationDetails: ConfirmationDetails{
				Destination:    result.Destination,
				DeliveryMedium: result.DeliveryMedium,
				AttributeName:  result.AttributeName,
			},
		},
	}, nil
}
