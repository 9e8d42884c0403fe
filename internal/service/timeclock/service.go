package timeclock

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/fieldops/timetrack-backend-go/internal/domain/timeclock"
	"github.com/fieldops/timetrack-backend-go/internal/pkg/geo"
	"github.com/fieldops/timetrack-backend-go/internal/service/file"
)

type ServiceImpl struct {
	entries     timeclock.ClockEntryRepository
	adjustments timeclock.AdjustmentRepository
	sites       timeclock.SiteRepository
	fileService file.Service
}

func NewService(
	entries timeclock.ClockEntryRepository,
	adjustments timeclock.AdjustmentRepository,
	sites timeclock.SiteRepository,
	fileService file.Service,
) timeclock.Service {
	return &ServiceImpl{
		entries:     entries,
		adjustments: adjustments,
		sites:       sites,
		fileService: fileService,
	}
}

// timePtrToString safely converts a *time.Time to an RFC3339 string.
func timePtrToString(t *time.Time) *string {
	if t == nil {
		return nil
	}
	formatted := t.Format(time.RFC3339)
	return &formatted
}

func toEntryResponse(e timeclock.ClockEntry) timeclock.ClockEntryResponse {
	var workedMinutes *int
	if e.ClockOutAt != nil {
		mins := int(e.ClockOutAt.Sub(e.ClockInAt).Minutes())
		workedMinutes = &mins
	}

	return timeclock.ClockEntryResponse{
		ID:              e.ID,
		UserID:          e.UserID,
		ClockInAt:       e.ClockInAt.Format(time.RFC3339),
		ClockOutAt:      timePtrToString(e.ClockOutAt),
		Method:          string(e.Method),
		Status:          string(e.Status),
		LivenessScore:   e.LivenessScore,
		LivenessPassed:  e.LivenessPassed,
		SiteID:          e.SiteID,
		DistanceMeters:  e.DistanceMeters,
		InsideGeofence:  e.InsideGeofence,
		JobID:           e.JobID,
		SelfieRef:       e.SelfieRef,
		RejectionReason: e.RejectionReason,
		WorkedMinutes:   workedMinutes,
	}
}

func toAdjustmentResponse(a timeclock.AdjustmentRequest) timeclock.AdjustmentResponse {
	return timeclock.AdjustmentResponse{
		ID:          a.ID,
		EntryID:     a.EntryID,
		RequestedBy: a.RequestedBy,
		Reason:      a.Reason,
		Status:      string(a.Status),
		OriginalIn:  a.OriginalIn.Format(time.RFC3339),
		OriginalOut: timePtrToString(a.OriginalOut),
		ProposedIn:  timePtrToString(a.ProposedIn),
		ProposedOut: timePtrToString(a.ProposedOut),
		DecidedBy:   a.DecidedBy,
		DecidedAt:   timePtrToString(a.DecidedAt),
	}
}

// ClockIn implements timeclock.Service.
func (s *ServiceImpl) ClockIn(ctx context.Context, req timeclock.ClockInRequest) (timeclock.ClockEntryResponse, error) {
	if err := req.Validate(); err != nil {
		return timeclock.ClockEntryResponse{}, err
	}
	now := time.Now().UTC()

	livenessPassed := req.LivenessScore >= timeclock.LivenessThreshold

	// Trust gating: a failed liveness check on a selfie event or a position
	// outside the site radius downgrades auto-approval to pending.
	status := timeclock.StatusAutoApproved
	if !livenessPassed {
		status = timeclock.StatusPending
	}

	var distance *float64
	var insideGeofence *bool
	if req.SiteID != nil {
		site, err := s.sites.GetByID(ctx, *req.SiteID, req.TenantID)
		if err != nil {
			if errors.Is(err, timeclock.ErrSiteNotFound) {
				return timeclock.ClockEntryResponse{}, timeclock.ErrSiteNotFound
			}
			return timeclock.ClockEntryResponse{}, fmt.Errorf("failed to look up geofence site: %w", err)
		}

		dist, inside := geo.WithinRadius(req.Latitude, req.Longitude, site)
		distance = &dist
		insideGeofence = &inside
		if !inside {
			status = timeclock.StatusPending
		}
	}

	var selfieRef *string
	if req.File != nil {
		ref, err := s.fileService.UploadSelfie(ctx, req.UserID, now, req.File, req.FileHeader.Filename)
		if err != nil {
			return timeclock.ClockEntryResponse{}, fmt.Errorf("failed to store selfie: %w", err)
		}
		selfieRef = &ref
	}

	entry := timeclock.ClockEntry{
		UserID:         req.UserID,
		TenantID:       req.TenantID,
		ClockInAt:      now,
		InLatitude:     req.Latitude,
		InLongitude:    req.Longitude,
		LivenessScore:  req.LivenessScore,
		LivenessPassed: livenessPassed,
		Method:         timeclock.MethodSelfie,
		SiteID:         req.SiteID,
		DistanceMeters: distance,
		InsideGeofence: insideGeofence,
		Status:         status,
		JobID:          req.JobID,
		DeviceInfo:     req.DeviceInfo,
		SelfieRef:      selfieRef,
	}

	created, err := s.entries.Create(ctx, entry)
	if err != nil {
		if errors.Is(err, timeclock.ErrAlreadyClockedIn) {
			return timeclock.ClockEntryResponse{}, timeclock.ErrAlreadyClockedIn
		}
		return timeclock.ClockEntryResponse{}, fmt.Errorf("failed to create clock entry: %w", err)
	}

	return toEntryResponse(created), nil
}

// ClockOut implements timeclock.Service.
func (s *ServiceImpl) ClockOut(ctx context.Context, req timeclock.ClockOutRequest) (timeclock.ClockEntryResponse, error) {
	if err := req.Validate(); err != nil {
		return timeclock.ClockEntryResponse{}, err
	}
	now := time.Now().UTC()

	entry, err := s.entries.GetOpen(ctx, req.UserID)
	if err != nil {
		if errors.Is(err, timeclock.ErrNoOpenEntry) {
			return timeclock.ClockEntryResponse{}, timeclock.ErrNoOpenEntry
		}
		return timeclock.ClockEntryResponse{}, fmt.Errorf("failed to get open clock entry: %w", err)
	}

	entry.ClockOutAt = &now
	entry.OutLatitude = &req.Latitude
	entry.OutLongitude = &req.Longitude

	if err := s.entries.Close(ctx, entry); err != nil {
		return timeclock.ClockEntryResponse{}, fmt.Errorf("failed to close clock entry: %w", err)
	}

	return toEntryResponse(entry), nil
}

// AutoClockIn implements timeclock.Service. Used when a field technician
// starts a job: trusted (no liveness gating), and a silent no-op when an
// open entry already exists.
func (s *ServiceImpl) AutoClockIn(ctx context.Context, req timeclock.AutoClockInRequest) (*timeclock.ClockEntryResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	now := time.Now().UTC()

	if _, err := s.entries.GetOpen(ctx, req.UserID); err == nil {
		return nil, nil
	} else if !errors.Is(err, timeclock.ErrNoOpenEntry) {
		return nil, fmt.Errorf("failed to check open clock entry: %w", err)
	}

	entry := timeclock.ClockEntry{
		UserID:         req.UserID,
		TenantID:       req.TenantID,
		ClockInAt:      now,
		InLatitude:     req.Latitude,
		InLongitude:    req.Longitude,
		LivenessScore:  1.0,
		LivenessPassed: true,
		Method:         timeclock.MethodAuto,
		Status:         timeclock.StatusAutoApproved,
		JobID:          &req.JobID,
	}

	created, err := s.entries.Create(ctx, entry)
	if err != nil {
		// Lost the race against a concurrent clock-in: still a no-op.
		if errors.Is(err, timeclock.ErrAlreadyClockedIn) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to create clock entry: %w", err)
	}

	resp := toEntryResponse(created)
	return &resp, nil
}

// ApproveEntry implements timeclock.Service.
func (s *ServiceImpl) ApproveEntry(ctx context.Context, req timeclock.DecideEntryRequest) (timeclock.ClockEntryResponse, error) {
	entry, err := s.entries.Decide(ctx, req.ID, req.TenantID, timeclock.StatusApproved, req.ApproverID, nil, time.Now().UTC())
	if err != nil {
		if errors.Is(err, timeclock.ErrEntryNotPending) || errors.Is(err, timeclock.ErrEntryNotFound) {
			return timeclock.ClockEntryResponse{}, err
		}
		return timeclock.ClockEntryResponse{}, fmt.Errorf("failed to approve clock entry: %w", err)
	}
	return toEntryResponse(entry), nil
}

// RejectEntry implements timeclock.Service.
func (s *ServiceImpl) RejectEntry(ctx context.Context, req timeclock.DecideEntryRequest) (timeclock.ClockEntryResponse, error) {
	reason := req.Reason
	entry, err := s.entries.Decide(ctx, req.ID, req.TenantID, timeclock.StatusRejected, req.ApproverID, &reason, time.Now().UTC())
	if err != nil {
		if errors.Is(err, timeclock.ErrEntryNotPending) || errors.Is(err, timeclock.ErrEntryNotFound) {
			return timeclock.ClockEntryResponse{}, err
		}
		return timeclock.ClockEntryResponse{}, fmt.Errorf("failed to reject clock entry: %w", err)
	}
	return toEntryResponse(entry), nil
}

// RequestAdjustment implements timeclock.Service.
func (s *ServiceImpl) RequestAdjustment(ctx context.Context, req timeclock.CreateAdjustmentRequest) (timeclock.AdjustmentResponse, error) {
	if err := req.Validate(); err != nil {
		return timeclock.AdjustmentResponse{}, err
	}

	entry, err := s.entries.GetByID(ctx, req.EntryID, req.TenantID)
	if err != nil {
		if errors.Is(err, timeclock.ErrEntryNotFound) {
			return timeclock.AdjustmentResponse{}, timeclock.ErrEntryNotFound
		}
		return timeclock.AdjustmentResponse{}, fmt.Errorf("failed to get clock entry: %w", err)
	}

	adjustment := timeclock.AdjustmentRequest{
		EntryID:     entry.ID,
		TenantID:    req.TenantID,
		RequestedBy: req.RequestedBy,
		Reason:      req.Reason,
		OriginalIn:  entry.ClockInAt,
		OriginalOut: entry.ClockOutAt,
		ProposedIn:  req.ProposedIn,
		ProposedOut: req.ProposedOut,
		Status:      timeclock.AdjustmentPending,
	}

	created, err := s.adjustments.Create(ctx, adjustment)
	if err != nil {
		return timeclock.AdjustmentResponse{}, fmt.Errorf("failed to create adjustment request: %w", err)
	}

	return toAdjustmentResponse(created), nil
}

// ApproveAdjustment implements timeclock.Service. The repository applies the
// proposal to the clock entry in the same atomic step that flips the status.
func (s *ServiceImpl) ApproveAdjustment(ctx context.Context, req timeclock.DecideAdjustmentRequest) (timeclock.AdjustmentResponse, error) {
	decided, err := s.adjustments.Approve(ctx, req.ID, req.TenantID, req.ApproverID, time.Now().UTC())
	if err != nil {
		if errors.Is(err, timeclock.ErrAdjustmentNotPending) || errors.Is(err, timeclock.ErrAdjustmentNotFound) {
			return timeclock.AdjustmentResponse{}, err
		}
		return timeclock.AdjustmentResponse{}, fmt.Errorf("failed to approve adjustment: %w", err)
	}
	return toAdjustmentResponse(decided), nil
}

// RejectAdjustment implements timeclock.Service.
func (s *ServiceImpl) RejectAdjustment(ctx context.Context, req timeclock.DecideAdjustmentRequest) (timeclock.AdjustmentResponse, error) {
	decided, err := s.adjustments.Reject(ctx, req.ID, req.TenantID, req.ApproverID, req.Reason, time.Now().UTC())
	if err != nil {
		if errors.Is(err, timeclock.ErrAdjustmentNotPending) || errors.Is(err, timeclock.ErrAdjustmentNotFound) {
			return timeclock.AdjustmentResponse{}, err
		}
		return timeclock.AdjustmentResponse{}, fmt.Errorf("failed to reject adjustment: %w", err)
	}
	return toAdjustmentResponse(decided), nil
}
