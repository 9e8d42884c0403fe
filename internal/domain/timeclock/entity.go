package timeclock

import (
	"time"
)

// LivenessThreshold is the minimum facial-liveness confidence for a selfie
// clock event to be trusted without manual approval.
const LivenessThreshold = 0.8

// ApprovalStatus is the approval state of a clock entry.
type ApprovalStatus string

const (
	StatusAutoApproved ApprovalStatus = "auto_approved"
	StatusPending      ApprovalStatus = "pending"
	StatusApproved     ApprovalStatus = "approved"
	StatusRejected     ApprovalStatus = "rejected"
)

// Pending reports whether the entry is awaiting a manual decision.
func (s ApprovalStatus) Pending() bool {
	return s == StatusPending
}

// Qualifies reports whether entries in this state count toward journey
// calculation.
func (s ApprovalStatus) Qualifies() bool {
	return s == StatusAutoApproved || s == StatusApproved
}

// ClockMethod records how a clock event was captured.
type ClockMethod string

const (
	MethodSelfie ClockMethod = "selfie"
	MethodAuto   ClockMethod = "auto"
)

type ClockEntry struct {
	ID       string
	UserID   string
	TenantID string

	ClockInAt  time.Time
	ClockOutAt *time.Time

	InLatitude   float64
	InLongitude  float64
	OutLatitude  *float64
	OutLongitude *float64

	LivenessScore  float64
	LivenessPassed bool
	Method         ClockMethod

	SiteID         *string
	DistanceMeters *float64
	InsideGeofence *bool

	Status          ApprovalStatus
	ApprovedBy      *string
	ApprovedAt      *time.Time
	RejectionReason *string

	JobID      *string
	DeviceInfo *string
	SelfieRef  *string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Open reports whether the entry has no clock-out yet.
func (e *ClockEntry) Open() bool {
	return e.ClockOutAt == nil
}

// Approve transitions a pending entry to approved.
func (e *ClockEntry) Approve(approver string, at time.Time) error {
	if !e.Status.Pending() {
		return ErrEntryNotPending
	}
	e.Status = StatusApproved
	e.ApprovedBy = &approver
	e.ApprovedAt = &at
	e.RejectionReason = nil
	return nil
}

// Reject transitions a pending entry to rejected.
func (e *ClockEntry) Reject(approver, reason string, at time.Time) error {
	if !e.Status.Pending() {
		return ErrEntryNotPending
	}
	e.Status = StatusRejected
	e.ApprovedBy = &approver
	e.ApprovedAt = &at
	e.RejectionReason = &reason
	return nil
}
