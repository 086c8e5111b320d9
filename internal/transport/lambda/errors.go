package lambda

import (
	"context"
	"encoding/json"
	"net/http"
	"runtime/debug"

	"github.com/aws/aws-lambda-go/lambdacontext"
)

const (
	errorTypeValidation = "ValidationError"
	errorTypeInternal   = "InternalServerError"

	internalErrorMessage = "Internal server error"
)

// ErrorTrace carries diagnostic detail for operator visibility. Never shown
// to callers of validation failures.
type ErrorTrace struct {
	Function string `json:"function"`
	Error    string `json:"error"`
	Stack    string `json:"stack,omitempty"`
}

// ErrorResponse is the structured failure payload delivered through the
// invocation's error channel. Callers distinguish success from failure by
// channel, not by payload shape.
type ErrorResponse struct {
	ErrorType  string      `json:"errorType"`
	HTTPStatus int         `json:"httpStatus"`
	RequestID  string      `json:"requestId"`
	Message    string      `json:"message"`
	Trace      *ErrorTrace `json:"trace,omitempty"`
}

// InvocationError serializes an ErrorResponse onto the Lambda error channel.
type InvocationError struct {
	Response ErrorResponse
}

// Error returns the JSON-encoded response; the platform propagates this
// string to the caller as the invocation error.
func (e *InvocationError) Error() string {
	bytes, err := json.Marshal(e.Response)
	if err != nil {
		return e.Response.Message
	}
	return string(bytes)
}

// NewValidationError builds a client-caused failure whose message is safe to
// show to the caller.
func NewValidationError(ctx context.Context, message string) *InvocationError {
	return &InvocationError{Response: ErrorResponse{
		ErrorType:  errorTypeValidation,
		HTTPStatus: http.StatusBadRequest,
		RequestID:  requestID(ctx),
		Message:    message,
	}}
}

// NewInternalError builds a system-caused failure with a generic message and
// the original error attached for diagnostics.
func NewInternalError(ctx context.Context, function string, cause error) *InvocationError {
	return &InvocationError{Response: ErrorResponse{
		ErrorType:  errorTypeInternal,
		HTTPStatus: http.StatusInternalServerError,
		RequestID:  requestID(ctx),
		Message:    internalErrorMessage,
		Trace: &ErrorTrace{
			Function: function,
			Error:    cause.Error(),
			Stack:    string(debug.Stack()),
		},
	}}
}

func requestID(ctx context.Context) string {
	if lc, ok := lambdacontext.FromContext(ctx); ok {
		return lc.AwsRequestID
	}
	return ""
}
