package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
)

type ErrorType string

const (
	InvalidInputError   ErrorType = "INVALID_INPUT"
	ValidationError     ErrorType = "VALIDATION_ERROR"
	PersistenceError    ErrorType = "PERSISTENCE_ERROR"
	NotificationError   ErrorType = "NOTIFICATION_ERROR"
	ConfigurationError  ErrorType = "CONFIGURATION_ERROR"
	NotFoundError       ErrorType = "NOT_FOUND"
	ServerError         ErrorType = "SERVER_ERROR"
)

// Public messages returned to clients. They are stable and never carry
// collaborator detail.
const (
	MsgInvalidJSON    = "Invalid JSON"
	MsgMissingFields  = "name, email, and message are required"
	MsgInternalServer = "Internal server error"
)

// AppError represents a structured application error
type AppError struct {
	Type       ErrorType `json:"type"`
	Code       string    `json:"code"`
	Message    string    `json:"message"`
	Detail     string    `json:"detail,omitempty"`
	HTTPStatus int       `json:"-"`
	Raw        error     `json:"-"`
}

func (e *AppError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("%s: %s (%s)", e.Type, e.Message, e.Detail)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap exposes the collaborator error so errors.Is/As keep working.
func (e *AppError) Unwrap() error {
	return e.Raw
}

// GetHTTPStatus returns the status code the error maps to.
func (e *AppError) GetHTTPStatus() int {
	if e.HTTPStatus == 0 {
		return getHTTPStatus(e.Type)
	}
	return e.HTTPStatus
}

// New creates a new AppError
func New(errType ErrorType, message string, detail string) *AppError {
	return &AppError{
		Type:       errType,
		Message:    message,
		Detail:     detail,
		HTTPStatus: getHTTPStatus(errType),
	}
}

// Wrap wraps a raw error with AppError context
func Wrap(err error, errType ErrorType, message string) *AppError {
	if err == nil {
		return nil
	}
	return &AppError{
		Type:       errType,
		Message:    message,
		Detail:     err.Error(),
		HTTPStatus: getHTTPStatus(errType),
		Raw:        err,
	}
}

// InvalidInput reports a request body that could not be decoded.
func InvalidInput(detail string) *AppError {
	return &AppError{
		Type:       InvalidInputError,
		Code:       "invalid_json",
		Message:    MsgInvalidJSON,
		Detail:     detail,
		HTTPStatus: http.StatusBadRequest,
	}
}

func ValidationFailed(message string, details string) *AppError {
	return &AppError{
		Type:       ValidationError,
		Code:       "validation_failed",
		Message:    message,
		Detail:     details,
		HTTPStatus: http.StatusBadRequest,
	}
}

// Persistence reports a failed record store write. The raw error stays
// server-side.
func Persistence(err error) *AppError {
	return &AppError{
		Type:       PersistenceError,
		Code:       "persistence_failed",
		Message:    MsgInternalServer,
		Detail:     detailOf(err),
		HTTPStatus: http.StatusInternalServerError,
		Raw:        err,
	}
}

// Notification reports a failed publish to the notifier.
func Notification(err error) *AppError {
	return &AppError{
		Type:       NotificationError,
		Code:       "notification_failed",
		Message:    MsgInternalServer,
		Detail:     detailOf(err),
		HTTPStatus: http.StatusInternalServerError,
		Raw:        err,
	}
}

// Configuration reports missing or invalid configuration.
func Configuration(message string) *AppError {
	return &AppError{
		Type:       ConfigurationError,
		Code:       "configuration_invalid",
		Message:    message,
		HTTPStatus: http.StatusInternalServerError,
	}
}

func NotFound(entity string, id interface{}) *AppError {
	return &AppError{
		Type:       NotFoundError,
		Message:    fmt.Sprintf("%s not found", entity),
		Detail:     fmt.Sprintf("ID: %v", id),
		HTTPStatus: http.StatusNotFound,
	}
}

func InternalServerError(message string) *AppError {
	return &AppError{
		Type:       ServerError,
		Message:    message,
		HTTPStatus: http.StatusInternalServerError,
	}
}

// IsType reports whether err is an AppError of the given type anywhere in its chain.
func IsType(err error, errType ErrorType) bool {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr.Type == errType
	}
	return false
}

// As extracts the AppError from err, classifying anything else as a server error.
func As(err error) *AppError {
	if err == nil {
		return nil
	}
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr
	}
	return Wrap(err, ServerError, MsgInternalServer)
}

func detailOf(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}

func getHTTPStatus(errType ErrorType) int {
	switch errType {
	case InvalidInputError, ValidationError:
		return http.StatusBadRequest
	case NotFoundError:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}
