package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/primegourmet/phone-auth/internal/usecase"
)

// RegistrationHandler exposes the phone registration handshake over HTTP for
// local development.
type RegistrationHandler struct {
	registration *usecase.RegistrationService
}

// NewRegistrationHandler constructs the handler.
func NewRegistrationHandler(registration *usecase.RegistrationService) *RegistrationHandler {
	return &RegistrationHandler{registration: registration}
}

// RegisterRoutes binds registration endpoints.
func (h *RegistrationHandler) RegisterRoutes(r *gin.RouterGroup) {
	r.POST("/pre", h.PreRegister)
	r.POST("/execute", h.ExecuteRegistration)
}

// PreRegister starts the handshake and sends the verification code.
func (h *RegistrationHandler) PreRegister(c *gin.Context) {
	var req PreRegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, newErrorResponse(c, "invalid registration payload"))
		return
	}

	req.PhoneNumber = strings.TrimSpace(req.PhoneNumber)
	req.Name = strings.TrimSpace(req.Name)

	result, err := h.registration.PreRegister(c.Request.Context(), req.PhoneNumber, req.Name)
	if err != nil {
		if errors.Is(err, usecase.ErrUserAlreadyExists) {
			c.JSON(http.StatusBadRequest, newErrorResponse(c, "User already exists"))
			return
		}
		c.JSON(http.StatusInternalServerError, newErrorResponse(c, "failed to start registration"))
		return
	}

	c.JSON(http.StatusOK, PreRegisterResponse{
		Message: "Verification code sent successfully",
		ConfirmationDetails: ConfirmationDetails{
			Destination:    result.Destination,
			DeliveryMedium: result.DeliveryMedium,
			AttributeName:  result.AttributeName,
		},
	})
}

// ExecuteRegistration validates the code and provisions the account.
func (h *RegistrationHandler) ExecuteRegistration(c *gin.Context) {
	var req ExecuteRegistrationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, newErrorResponse(c, "invalid verification payload"))
		return
	}

	tokens, err := h.registration.ExecuteRegistration(c.Request.Context(), strings.TrimSpace(req.PhoneNumber), strings.TrimSpace(req.Code))
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrNoPendingVerification):
			c.JSON(http.StatusBadRequest, newErrorResponse(c, "No pending verification found for this number."))
		case errors.Is(err, usecase.ErrInvalidVerificationCode):
			c.JSON(http.StatusBadRequest, newErrorResponse(c, "Invalid verification code"))
		default:
			c.JSON(http.StatusInternalServerError, newErrorResponse(c, "failed to complete registration"))
		}
		return
	}

	c.JSON(http.StatusOK, ExecuteRegistrationResponse{
		Message: "User verified and created successfully",
		Tokens: TokenBundleResponse{
			AccessToken:  tokens.AccessToken,
			RefreshToken: tokens.RefreshToken,
			IDToken:      tokens.IDToken,
			ExpiresIn:    tokens.ExpiresIn,
			TokenType:    tokens.TokenType,
		},
	})
}

func newErrorResponse(c *gin.Context, message string) ErrorResponse {
	requestID := c.Writer.Header().Get("X-Request-ID")
	return ErrorResponse{Error: message, RequestID: requestID}
}
