package response

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/attendance-classifier/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-classifier/internal/domain/auth"
	"github.com/cmlabs-hris/attendance-classifier/internal/pkg/spreadsheet"
	"github.com/cmlabs-hris/attendance-classifier/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	// Check if it's a validation error
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	switch {
	// Auth errors
	case errors.Is(err, auth.ErrInvalidToken):
		Unauthorized(w, err.Error())
	case errors.Is(err, auth.ErrTokenExpired):
		Unauthorized(w, "Token expired")
	case errors.Is(err, auth.ErrWrongTokenType):
		Unauthorized(w, err.Error())
	case errors.Is(err, attendance.ErrCompanyIDRequired):
		Forbidden(w, err.Error())

	// Attendance domain errors
	case errors.Is(err, attendance.ErrNoPunches),
		errors.Is(err, attendance.ErrInvalidMonth):
		BadRequest(w, err.Error(), nil)
	case errors.Is(err, attendance.ErrEmptySpreadsheet),
		errors.Is(err, attendance.ErrMissingColumns),
		errors.Is(err, spreadsheet.ErrNoWorksheet),
		errors.Is(err, spreadsheet.ErrEmptyWorksheet):
		BadRequest(w, err.Error(), nil)
	case errors.Is(err, attendance.ErrNoClassifiedRecords):
		NotFound(w, "No classified attendance found for this period")
	case errors.Is(err, attendance.ErrNoPunchesForMonth):
		NotFound(w, "No punch records found for this period")

	// Default
	default:
		slog.Error("Unhandled error", "error", err)
		InternalServerError(w, "An unexpected error occurred")
	}
}
