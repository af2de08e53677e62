package utils

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
)

const (
	CodeValidation   = "VALIDATION_ERROR"
	CodeUnauthorized = "UNAUTHORIZED"
	CodeNotFound     = "NOT_FOUND"
	CodeConflict     = "CONFLICT"
	CodeRateLimit    = "RATE_LIMIT"
	CodeInternal     = "INTERNAL_ERROR"
)

type ErrorResponse struct {
	Error ErrorBody `json:"error"`
}

type ErrorBody struct {
	Code    string      `json:"code"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
}

type AppError struct {
	Status  int
	Code    string
	Message string
	Details interface{}
}

func (e *AppError) Error() string {
	return e.Message
}

func NewAppError(status int, code, message string, details interface{}) *AppError {
	return &AppError{Status: status, Code: code, Message: message, Details: details}
}

const MsgInvalidBody = "Invalid request body."

func ValidationError(message string) *AppError {
	return NewAppError(http.StatusBadRequest, CodeValidation, message, nil)
}

func UnauthorizedError(message string) *AppError {
	return NewAppError(http.StatusUnauthorized, CodeUnauthorized, message, nil)
}

func NotFoundError() *AppError {
	return NewAppError(http.StatusNotFound, CodeNotFound, "Not found.", nil)
}

func ConflictError(message string) *AppError {
	return NewAppError(http.StatusConflict, CodeConflict, message, nil)
}

func InternalError() *AppError {
	return NewAppError(http.StatusInternalServerError, CodeInternal, "Internal server error.", nil)
}

// RespondError writes err as a JSON error body. Anything that is not an
// *AppError is reported as a generic internal error and attached to the gin
// context so the request logger can record it.
func RespondError(c *gin.Context, err error) {
	var appErr *AppError
	if !errors.As(err, &appErr) {
		_ = c.Error(err)
		appErr = InternalError()
	}

	c.JSON(appErr.Status, ErrorResponse{Error: ErrorBody{
		Code:    appErr.Code,
		Message: appErr.Message,
		Details: appErr.Details,
	}})
}

// RespondBindError answers a body that could not be decoded. The decoder
// error is kept on the context for the request logger only.
func RespondBindError(c *gin.Context, err error) {
	_ = c.Error(err).SetType(gin.ErrorTypeBind)
	c.JSON(http.StatusBadRequest, ErrorResponse{Error: ErrorBody{
		Code:    CodeValidation,
		Message: MsgInvalidBody,
	}})
}

func RespondOK(c *gin.Context, payload interface{}) {
	c.JSON(http.StatusOK, payload)
}

func RespondCreated(c *gin.Context, payload interface{}) {
	c.JSON(http.StatusCreated, payload)
}
