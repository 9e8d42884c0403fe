package timeclock

import "errors"

// Timeclock domain errors
var (
	// Clock events
	ErrAlreadyClockedIn = errors.New("an open clock entry already exists for this user")
	ErrNoOpenEntry      = errors.New("no open clock entry to close")
	ErrEntryNotFound    = errors.New("clock entry not found")
	ErrEntryNotPending  = errors.New("clock entry is not pending approval")

	// Adjustments
	ErrAdjustmentNotFound   = errors.New("adjustment request not found")
	ErrAdjustmentNotPending = errors.New("adjustment request is not pending")
	ErrEmptyProposal        = errors.New("adjustment proposal must change at least one timestamp")

	// Geofence
	ErrSiteNotFound = errors.New("geofence site not found")
)
