package utils

import (
	"errors"
	"net/http"
)

// Domain-level errors used by the service layer. Controllers and tests
// match on these with errors.Is; AppError unwraps to them.
var (
	ErrValidation            = errors.New("validation_error")
	ErrNotFound              = errors.New("not_found")
	ErrReferentialConstraint = errors.New("referential_constraint")
	ErrDuplicateProperty     = errors.New("duplicate_property")

	// For concurrency conflicts
	ErrRowVersionConflict = errors.New("row_version_conflict")

	ErrNoRowsUpdated = errors.New("no_rows_updated")
)

// AppError carries the HTTP status and public error code from services to controllers.
type AppError struct {
	StatusCode int
	Code       string
	Message    string
	Err        error
	Details    any
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *AppError) Unwrap() error { return e.Err }

func NewValidationError(details any) *AppError {
	return &AppError{
		StatusCode: http.StatusBadRequest,
		Code:       ErrCodeValidation,
		Message:    "Validation failed",
		Err:        ErrValidation,
		Details:    details,
	}
}

func NewNotFoundError(message string) *AppError {
	return &AppError{StatusCode: http.StatusNotFound, Code: ErrCodeNotFound, Message: message, Err: ErrNotFound}
}

func NewInternalError(message string, err error) *AppError {
	return &AppError{StatusCode: http.StatusInternalServerError, Code: ErrCodeInternal, Message: message, Err: err}
}

// HandleAppError centralizes responding to AppErrors.
func HandleAppError(w http.ResponseWriter, err error) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		RespondErrorWithCode(w, appErr.StatusCode, appErr.Code, appErr.Message, appErr.Details, appErr.Err)
	} else {
		// Fallback for unexpected error types
		RespondErrorWithCode(w, http.StatusInternalServerError, ErrCodeInternal, "An unexpected error occurred", nil, err)
	}
}
