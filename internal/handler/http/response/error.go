package response

import (
	"errors"
	"net/http"

	"github.com/fieldops/timetrack-backend-go/internal/domain/journey"
	"github.com/fieldops/timetrack-backend-go/internal/domain/timeclock"
	"github.com/fieldops/timetrack-backend-go/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	// Check if it's a validation error
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	// Timeclock domain errors
	switch {
	case errors.Is(err, timeclock.ErrAlreadyClockedIn):
		Conflict(w, "User already has an open clock entry")
	case errors.Is(err, timeclock.ErrNoOpenEntry):
		Conflict(w, "User has no open clock entry")
	case errors.Is(err, timeclock.ErrEntryNotFound):
		NotFound(w, "Clock entry not found")
	case errors.Is(err, timeclock.ErrEntryNotPending):
		Conflict(w, "Clock entry has already been decided")
	case errors.Is(err, timeclock.ErrAdjustmentNotFound):
		NotFound(w, "Adjustment request not found")
	case errors.Is(err, timeclock.ErrAdjustmentNotPending):
		Conflict(w, "Adjustment request has already been decided")
	case errors.Is(err, timeclock.ErrEmptyProposal):
		BadRequest(w, "Adjustment must propose at least one time change", nil)
	case errors.Is(err, timeclock.ErrSiteNotFound):
		NotFound(w, "Site not found")

	// Journey domain errors
	case errors.Is(err, journey.ErrRuleNotFound):
		NotFound(w, "Journey rule not found")
	case errors.Is(err, journey.ErrEntryNotFound):
		NotFound(w, "Journey entry not found")

	// Default
	default:
		InternalServerError(w, "An unexpected error occurred")
	}
}
