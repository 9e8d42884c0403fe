package timeclock

import "time"

// AdjustmentStatus is the decision state of an adjustment request.
type AdjustmentStatus string

const (
	AdjustmentPending  AdjustmentStatus = "pending"
	AdjustmentApproved AdjustmentStatus = "approved"
	AdjustmentRejected AdjustmentStatus = "rejected"
)

func (s AdjustmentStatus) Pending() bool {
	return s == AdjustmentPending
}

// AdjustmentRequest proposes a correction to a clock entry's in/out times.
// The original times are snapshotted at request time; an approved request
// overwrites only the fields present in the proposal.
type AdjustmentRequest struct {
	ID       string
	EntryID  string
	TenantID string

	RequestedBy string
	Reason      string

	OriginalIn  time.Time
	OriginalOut *time.Time
	ProposedIn  *time.Time
	ProposedOut *time.Time

	Status          AdjustmentStatus
	DecidedBy       *string
	DecidedAt       *time.Time
	RejectionReason *string

	CreatedAt time.Time
	UpdatedAt time.Time
}
