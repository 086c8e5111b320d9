package handlers

import "time"

// ErrorResponse represents a generic error payload with the request ID for
// debugging.
type ErrorResponse struct {
	Error     string `json:"error"`
	RequestID string `json:"request_id,omitempty"`
}

// PreRegisterRequest defines the payload for the pre-registration endpoint.
type PreRegisterRequest struct {
	PhoneNumber string `json:"phoneNumber" binding:"required"`
	Name        string `json:"name" binding:"required"`
}

// ConfirmationDetails describes where the verification code was delivered.
type ConfirmationDetails struct {
	Destination    string `json:"destination"`
	DeliveryMedium string `json:"deliveryMedium"`
	AttributeName  string `json:"attributeName"`
}

// PreRegisterResponse is the success payload for the pre-registration endpoint.
type PreRegisterResponse struct {
	Message             string              `json:"message"`
	ConfirmationDetails ConfirmationDetails `json:"confirmationDetails"`
}

// ExecuteRegistrationRequest defines the payload for the verification endpoint.
type ExecuteRegistrationRequest struct {
	PhoneNumber string `json:"phoneNumber" binding:"required"`
	Code        string `json:"code" binding:"required"`
}

// TokenBundleResponse carries the issued session tokens.
type TokenBundleResponse struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
	IDToken      string `json:"idToken"`
	ExpiresIn    int32  `json:"expiresIn"`
	TokenType    string `json:"tokenType"`
}

// ExecuteRegistrationResponse is the success payload for the verification
// endpoint.
type ExecuteRegistrationResponse struct {
	Message string              `json:"message"`
	Tokens  TokenBundleResponse `json:"tokens"`
}

// HealthResponse reports service liveness.
type HealthResponse struct {
	Status    string    `json:"status"`
	StartedAt time.Time `json:"started_at"`
}
