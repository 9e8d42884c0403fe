package timeclock

import "context"

// Service exposes the clock event state machine and the adjustment workflow.
type Service interface {
	// ClockIn opens a new clock entry for the user. Fails with
	// ErrAlreadyClockedIn if an open entry exists. The entry is
	// auto-approved unless liveness or geofence gating downgrades it to
	// pending.
	ClockIn(ctx context.Context, req ClockInRequest) (ClockEntryResponse, error)

	// ClockOut closes the user's open entry. Fails with ErrNoOpenEntry.
	ClockOut(ctx context.Context, req ClockOutRequest) (ClockEntryResponse, error)

	// AutoClockIn opens a trusted entry when a technician starts a job.
	// A no-op (nil response, nil error) when an open entry already exists.
	AutoClockIn(ctx context.Context, req AutoClockInRequest) (*ClockEntryResponse, error)

	ApproveEntry(ctx context.Context, req DecideEntryRequest) (ClockEntryResponse, error)
	RejectEntry(ctx context.Context, req DecideEntryRequest) (ClockEntryResponse, error)

	RequestAdjustment(ctx context.Context, req CreateAdjustmentRequest) (AdjustmentResponse, error)
	ApproveAdjustment(ctx context.Context, req DecideAdjustmentRequest) (AdjustmentResponse, error)
	RejectAdjustment(ctx context.Context, req DecideAdjustmentRequest) (AdjustmentResponse, error)
}
