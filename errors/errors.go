package errors

import (
	"fmt"
	"net/http"
	"time"
)

// AppError is the custom error type carried across the HTTP boundary
type AppError struct {
	Raw       error
	HTTPCode  int
	Code      ErrorCode
	Message   string
	Details   map[string]string
	Timestamp time.Time
}

// Error implements error interface
func (e AppError) Error() string {
	if e.Raw != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code.String(), e.Message, e.Raw)
	}
	return fmt.Sprintf("[%s] %s", e.Code.String(), e.Message)
}

// WithDetail adds a detail to the error
func (e AppError) WithDetail(key, value string) AppError {
	if e.Details == nil {
		e.Details = make(map[string]string)
	}
	e.Details[key] = value
	return e
}

// General Errors
func ErrInternal(err error) AppError {
	return AppError{
		Raw:      err,
		HTTPCode: http.StatusInternalServerError,
		Code:     ErrorCode_INTERNAL,
		Message:  "Internal server error",
	}
}

func ErrInvalidArgument(message string) AppError {
	return AppError{
		HTTPCode: http.StatusBadRequest,
		Code:     ErrorCode_INVALID_ARGUMENT,
		Message:  message,
	}
}

func ErrNotFound(resource string) AppError {
	return AppError{
		HTTPCode: http.StatusNotFound,
		Code:     ErrorCode_NOT_FOUND,
		Message:  fmt.Sprintf("%s not found", resource),
	}
}

func ErrInvalidPayload() AppError {
	return AppError{
		HTTPCode: http.StatusBadRequest,
		Code:     ErrorCode_INVALID_PAYLOAD,
		Message:  "Invalid payload",
	}
}

// Scheduling errors

func ErrNoParticipants() AppError {
	return AppError{
		HTTPCode: http.StatusBadRequest,
		Code:     ErrorCode_NO_PARTICIPANTS,
		Message:  "Conference draft has no participants",
	}
}

func ErrMissingScheduleFields() AppError {
	return AppError{
		HTTPCode: http.StatusBadRequest,
		Code:     ErrorCode_MISSING_SCHEDULE,
		Message:  "Date and time are required when scheduling for later",
	}
}

func ErrNoDefaultAccount() AppError {
	return AppError{
		HTTPCode: http.StatusConflict,
		Code:     ErrorCode_NO_ACCOUNT,
		Message:  "No default account configured on the engine",
	}
}

func ErrSubmitInProgress(draftID string) AppError {
	return AppError{
		HTTPCode: http.StatusConflict,
		Code:     ErrorCode_SUBMIT_IN_PROGRESS,
		Message:  "A submit is already in flight for this draft",
	}.WithDetail("draft_id", draftID)
}

func ErrEngineFailure(err error) AppError {
	return AppError{
		Raw:      err,
		HTTPCode: http.StatusBadGateway,
		Code:     ErrorCode_ENGINE_FAILURE,
		Message:  "Engine reported a failure",
	}
}

func ErrEngineTimeout() AppError {
	return AppError{
		HTTPCode: http.StatusGatewayTimeout,
		Code:     ErrorCode_ENGINE_TIMEOUT,
		Message:  "Engine did not report readiness in time",
	}
}

// Database errors

func ErrDBQueryFailed(err error) AppError {
	return AppError{
		Raw:      err,
		HTTPCode: http.StatusInternalServerError,
		Code:     ErrorCode_DB_QUERY_FAILED,
		Message:  "Database query failed",
	}
}
