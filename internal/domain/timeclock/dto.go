package timeclock

import (
	"mime/multipart"
	"strings"
	"time"

	"github.com/fieldops/timetrack-backend-go/internal/pkg/validator"
)

// ========================================
// TIMECLOCK DTOs
// ========================================

type ClockInRequest struct {
	UserID   string `json:"-"`
	TenantID string `json:"-"`

	Latitude      float64 `json:"latitude"`
	Longitude     float64 `json:"longitude"`
	LivenessScore float64 `json:"liveness_score"`
	SiteID        *string `json:"site_id,omitempty"`
	JobID         *string `json:"job_id,omitempty"`
	DeviceInfo    *string `json:"device_info,omitempty"`

	File       multipart.File        `json:"-"`
	FileHeader *multipart.FileHeader `json:"-"`
}

func validateCoordinates(lat, lon float64) validator.ValidationErrors {
	var errs validator.ValidationErrors

	if lat < -90 || lat > 90 {
		errs = append(errs, validator.ValidationError{
			Field:   "latitude",
			Message: "latitude must be between -90 and 90",
		})
	}
	if lon < -180 || lon > 180 {
		errs = append(errs, validator.ValidationError{
			Field:   "longitude",
			Message: "longitude must be between -180 and 180",
		})
	}

	return errs
}

func validateSelfie(header *multipart.FileHeader) validator.ValidationErrors {
	var errs validator.ValidationErrors

	if header == nil {
		errs = append(errs, validator.ValidationError{
			Field:   "selfie",
			Message: "selfie photo is required",
		})
		return errs
	}

	idx := strings.LastIndex(header.Filename, ".")
	ext := ""
	if idx >= 0 {
		ext = strings.ToLower(header.Filename[idx:])
	}
	if ext != ".jpg" && ext != ".jpeg" && ext != ".png" {
		errs = append(errs, validator.ValidationError{
			Field:   "selfie",
			Message: "invalid file type: only jpg, jpeg, png allowed",
		})
	} else if header.Size > 10<<20 {
		errs = append(errs, validator.ValidationError{
			Field:   "selfie",
			Message: "selfie photo size must not exceed 10MB",
		})
	}

	return errs
}

func (r *ClockInRequest) Validate() error {
	errs := validateCoordinates(r.Latitude, r.Longitude)

	if r.LivenessScore < 0 || r.LivenessScore > 1 {
		errs = append(errs, validator.ValidationError{
			Field:   "liveness_score",
			Message: "liveness_score must be between 0 and 1",
		})
	}

	errs = append(errs, validateSelfie(r.FileHeader)...)

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type ClockOutRequest struct {
	UserID   string `json:"-"`
	TenantID string `json:"-"`

	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

func (r *ClockOutRequest) Validate() error {
	if errs := validateCoordinates(r.Latitude, r.Longitude); len(errs) > 0 {
		return errs
	}
	return nil
}

type AutoClockInRequest struct {
	UserID   string `json:"-"`
	TenantID string `json:"-"`

	JobID     string  `json:"job_id"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

func (r *AutoClockInRequest) Validate() error {
	errs := validateCoordinates(r.Latitude, r.Longitude)

	if validator.IsEmpty(r.JobID) {
		errs = append(errs, validator.ValidationError{
			Field:   "job_id",
			Message: "job_id is required",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type DecideEntryRequest struct {
	ID         string `json:"-"`
	TenantID   string `json:"-"`
	ApproverID string `json:"-"`
	Reason     string `json:"reason,omitempty"`
}

type CreateAdjustmentRequest struct {
	TenantID    string `json:"-"`
	RequestedBy string `json:"-"`

	EntryID     string     `json:"entry_id"`
	ProposedIn  *time.Time `json:"proposed_in,omitempty"`
	ProposedOut *time.Time `json:"proposed_out,omitempty"`
	Reason      string     `json:"reason"`
}

func (r *CreateAdjustmentRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.EntryID) {
		errs = append(errs, validator.ValidationError{
			Field:   "entry_id",
			Message: "entry_id is required",
		})
	}
	if validator.IsEmpty(r.Reason) {
		errs = append(errs, validator.ValidationError{
			Field:   "reason",
			Message: "reason is required",
		})
	}
	if r.ProposedIn == nil && r.ProposedOut == nil {
		errs = append(errs, validator.ValidationError{
			Field:   "proposed_in",
			Message: "at least one of proposed_in or proposed_out is required",
		})
	}
	if r.ProposedIn != nil && r.ProposedOut != nil && !r.ProposedOut.After(*r.ProposedIn) {
		errs = append(errs, validator.ValidationError{
			Field:   "proposed_out",
			Message: "proposed_out must be after proposed_in",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type DecideAdjustmentRequest struct {
	ID         string `json:"-"`
	TenantID   string `json:"-"`
	ApproverID string `json:"-"`
	Reason     string `json:"reason,omitempty"`
}

// ========================================
// Responses
// ========================================

type ClockEntryResponse struct {
	ID             string   `json:"id"`
	UserID         string   `json:"user_id"`
	ClockInAt      string   `json:"clock_in_at"`
	ClockOutAt     *string  `json:"clock_out_at,omitempty"`
	Method         string   `json:"method"`
	Status         string   `json:"status"`
	LivenessScore  float64  `json:"liveness_score"`
	LivenessPassed bool     `json:"liveness_passed"`
	SiteID         *string  `json:"site_id,omitempty"`
	DistanceMeters *float64 `json:"distance_meters,omitempty"`
	InsideGeofence *bool    `json:"inside_geofence,omitempty"`
	JobID          *string  `json:"job_id,omitempty"`
	SelfieRef      *string  `json:"selfie_ref,omitempty"`
	RejectionReason *string `json:"rejection_reason,omitempty"`
	WorkedMinutes  *int     `json:"worked_minutes,omitempty"`
}

type AdjustmentResponse struct {
	ID          string  `json:"id"`
	EntryID     string  `json:"entry_id"`
	RequestedBy string  `json:"requested_by"`
	Reason      string  `json:"reason"`
	Status      string  `json:"status"`
	OriginalIn  string  `json:"original_in"`
	OriginalOut *string `json:"original_out,omitempty"`
	ProposedIn  *string `json:"proposed_in,omitempty"`
	ProposedOut *string `json:"proposed_out,omitempty"`
	DecidedBy   *string `json:"decided_by,omitempty"`
	DecidedAt   *string `json:"decided_at,omitempty"`
}
