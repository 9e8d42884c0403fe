package timeclock

import (
	"context"
	"time"

	"github.com/fieldops/timetrack-backend-go/internal/pkg/geo"
)

// ClockEntryRepository persists clock entries. Implementations must enforce
// the one-open-entry-per-user invariant atomically: Create fails with
// ErrAlreadyClockedIn when an open entry exists, even under concurrent calls.
type ClockEntryRepository interface {
	// Create inserts a new (open) clock entry. Returns ErrAlreadyClockedIn
	// when the user already has an entry with no clock-out.
	Create(ctx context.Context, entry ClockEntry) (ClockEntry, error)

	GetByID(ctx context.Context, id, tenantID string) (ClockEntry, error)

	// GetOpen returns the user's open entry, or ErrNoOpenEntry.
	GetOpen(ctx context.Context, userID string) (ClockEntry, error)

	// Close sets the clock-out time and coordinates on an open entry.
	Close(ctx context.Context, entry ClockEntry) error

	// Decide transitions a pending entry to approved or rejected. Returns
	// ErrEntryNotPending when the entry is in any other state; the check and
	// the write are a single atomic step.
	Decide(ctx context.Context, id, tenantID string, to ApprovalStatus, approver string, reason *string, at time.Time) (ClockEntry, error)

	// ListQualifyingForDay returns the user's closed, approved or
	// auto-approved entries whose clock-in falls on the given calendar day.
	ListQualifyingForDay(ctx context.Context, userID string, day time.Time) ([]ClockEntry, error)

	// ActiveUsers returns distinct (user, tenant) pairs with clock activity
	// since the given time. Used by the nightly recalculation job.
	ActiveUsers(ctx context.Context, since time.Time) ([]UserRef, error)
}

// UserRef identifies a user within a tenant.
type UserRef struct {
	UserID   string
	TenantID string
}

// AdjustmentRepository persists adjustment requests. Approve applies the
// proposal to the referenced clock entry in the same atomic step that flips
// the request status, so a double approval can never apply twice.
type AdjustmentRepository interface {
	Create(ctx context.Context, req AdjustmentRequest) (AdjustmentRequest, error)

	GetByID(ctx context.Context, id, tenantID string) (AdjustmentRequest, error)

	// Approve marks a pending request approved and overwrites the proposed
	// fields on the referenced entry. Returns ErrAdjustmentNotPending when
	// the request has already been decided.
	Approve(ctx context.Context, id, tenantID, approver string, at time.Time) (AdjustmentRequest, error)

	// Reject marks a pending request rejected. The referenced entry is never
	// touched. Returns ErrAdjustmentNotPending when already decided.
	Reject(ctx context.Context, id, tenantID, approver, reason string, at time.Time) (AdjustmentRequest, error)
}

// SiteRepository looks up geofence sites. The site data itself is owned by
// an external system; only the lookup contract is consumed here.
type SiteRepository interface {
	GetByID(ctx context.Context, id, tenantID string) (geo.Site, error)
}
