// Package errors writes the API's JSON error bodies:
// {"code": "...", "message": "...", "details": ...}.
package errors

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

const (
	ErrCodeUnauthorized       = "UNAUTHORIZED"
	ErrCodeInvalidCredentials = "INVALID_CREDENTIALS"
	ErrCodeTokenExpired       = "TOKEN_EXPIRED"
	ErrCodeForbidden          = "FORBIDDEN"
	ErrCodeInvalidInput       = "INVALID_INPUT"
	ErrCodeNotFound           = "NOT_FOUND"
	ErrCodeConflict           = "CONFLICT"
	// The request is well formed but the task tree cannot take it.
	ErrCodeInvalidOperation   = "INVALID_OPERATION"
	ErrCodeInternalError      = "INTERNAL_ERROR"
	ErrCodeServiceUnavailable = "SERVICE_UNAVAILABLE"
)

// defaultMessages fills in an empty message per code.
var defaultMessages = map[string]string{
	ErrCodeUnauthorized:       "Authentication required",
	ErrCodeInvalidCredentials: "Authentication required",
	ErrCodeTokenExpired:       "Authentication required",
	ErrCodeForbidden:          "Access denied",
	ErrCodeInvalidInput:       "Invalid request",
	ErrCodeNotFound:           "Resource not found",
	ErrCodeConflict:           "Resource conflict",
	ErrCodeInvalidOperation:   "Invalid operation",
	ErrCodeInternalError:      "Internal server error",
	ErrCodeServiceUnavailable: "Service temporarily unavailable",
}

// APIError is the body of every non-2xx response.
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

func (e *APIError) Error() string {
	return e.Message
}

func NewAPIError(code, message string) *APIError {
	if message == "" {
		message = defaultMessages[code]
	}
	return &APIError{Code: code, Message: message}
}

// RespondWithError writes err and stops the handler chain.
func RespondWithError(c *gin.Context, statusCode int, err *APIError) {
	c.AbortWithStatusJSON(statusCode, err)
}

func respond(c *gin.Context, statusCode int, code, message string) {
	RespondWithError(c, statusCode, NewAPIError(code, message))
}

func Unauthorized(c *gin.Context, message string) {
	respond(c, http.StatusUnauthorized, ErrCodeUnauthorized, message)
}

// UnauthorizedWithCode is a 401 that tells the client why, for example
// ErrCodeTokenExpired so it knows to log in again.
func UnauthorizedWithCode(c *gin.Context, code, message string) {
	respond(c, http.StatusUnauthorized, code, message)
}

func Forbidden(c *gin.Context, message string) {
	respond(c, http.StatusForbidden, ErrCodeForbidden, message)
}

func NotFound(c *gin.Context, message string) {
	respond(c, http.StatusNotFound, ErrCodeNotFound, message)
}

func BadRequest(c *gin.Context, message string) {
	respond(c, http.StatusBadRequest, ErrCodeInvalidInput, message)
}

// BadRequestWithDetails is a 400 whose details name the offending fields.
func BadRequestWithDetails(c *gin.Context, message string, details any) {
	err := NewAPIError(ErrCodeInvalidInput, message)
	err.Details = details
	RespondWithError(c, http.StatusBadRequest, err)
}

func Conflict(c *gin.Context, message string) {
	respond(c, http.StatusConflict, ErrCodeConflict, message)
}

// UnprocessableEntity rejects a tree edit such as a cycle or a too deep nest.
func UnprocessableEntity(c *gin.Context, message string) {
	respond(c, http.StatusUnprocessableEntity, ErrCodeInvalidOperation, message)
}

func InternalError(c *gin.Context, message string) {
	respond(c, http.StatusInternalServerError, ErrCodeInternalError, message)
}

func ServiceUnavailable(c *gin.Context, message string) {
	respond(c, http.StatusServiceUnavailable, ErrCodeServiceUnavailable, message)
}
