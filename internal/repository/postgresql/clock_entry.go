package postgresql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/fieldops/timetrack-backend-go/internal/domain/timeclock"
	"github.com/fieldops/timetrack-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

const clockEntryColumns = `id, user_id, tenant_id, clock_in_at, clock_out_at,
		   in_latitude, in_longitude, out_latitude, out_longitude,
		   liveness_score, liveness_passed, method,
		   site_id, distance_meters, inside_geofence,
		   status, approved_by, approved_at, rejection_reason,
		   job_id, device_info, selfie_ref,
		   created_at, updated_at`

type clockEntryRepository struct {
	db *database.DB
}

func scanClockEntry(row pgx.Row) (timeclock.ClockEntry, error) {
	var e timeclock.ClockEntry
	err := row.Scan(
		&e.ID, &e.UserID, &e.TenantID, &e.ClockInAt, &e.ClockOutAt,
		&e.InLatitude, &e.InLongitude, &e.OutLatitude, &e.OutLongitude,
		&e.LivenessScore, &e.LivenessPassed, &e.Method,
		&e.SiteID, &e.DistanceMeters, &e.InsideGeofence,
		&e.Status, &e.ApprovedBy, &e.ApprovedAt, &e.RejectionReason,
		&e.JobID, &e.DeviceInfo, &e.SelfieRef,
		&e.CreatedAt, &e.UpdatedAt,
	)
	return e, err
}

// Create implements timeclock.ClockEntryRepository.
//
// The one-open-entry-per-user invariant is enforced by the partial unique
// index uq_clock_entries_open (user_id WHERE clock_out_at IS NULL), so two
// concurrent clock-ins can never both succeed.
func (r *clockEntryRepository) Create(ctx context.Context, entry timeclock.ClockEntry) (timeclock.ClockEntry, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO clock_entries (
			user_id, tenant_id, clock_in_at,
			in_latitude, in_longitude,
			liveness_score, liveness_passed, method,
			site_id, distance_meters, inside_geofence,
			status, job_id, device_info, selfie_ref
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15
		) RETURNING id, created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		entry.UserID,
		entry.TenantID,
		entry.ClockInAt,
		entry.InLatitude,
		entry.InLongitude,
		entry.LivenessScore,
		entry.LivenessPassed,
		entry.Method,
		entry.SiteID,
		entry.DistanceMeters,
		entry.InsideGeofence,
		entry.Status,
		entry.JobID,
		entry.DeviceInfo,
		entry.SelfieRef,
	).Scan(&entry.ID, &entry.CreatedAt, &entry.UpdatedAt)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" && pgErr.ConstraintName == "uq_clock_entries_open" {
			return timeclock.ClockEntry{}, timeclock.ErrAlreadyClockedIn
		}
		return timeclock.ClockEntry{}, fmt.Errorf("failed to create clock entry: %w", err)
	}

	return entry, nil
}

// GetByID implements timeclock.ClockEntryRepository.
func (r *clockEntryRepository) GetByID(ctx context.Context, id, tenantID string) (timeclock.ClockEntry, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + clockEntryColumns + `
		FROM clock_entries
		WHERE id = $1
		  AND tenant_id = $2
	`

	entry, err := scanClockEntry(q.QueryRow(ctx, query, id, tenantID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return timeclock.ClockEntry{}, timeclock.ErrEntryNotFound
		}
		return timeclock.ClockEntry{}, fmt.Errorf("failed to get clock entry: %w", err)
	}

	return entry, nil
}

// GetOpen implements timeclock.ClockEntryRepository.
func (r *clockEntryRepository) GetOpen(ctx context.Context, userID string) (timeclock.ClockEntry, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + clockEntryColumns + `
		FROM clock_entries
		WHERE user_id = $1
		  AND clock_out_at IS NULL
		ORDER BY clock_in_at DESC
		LIMIT 1
	`

	entry, err := scanClockEntry(q.QueryRow(ctx, query, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return timeclock.ClockEntry{}, timeclock.ErrNoOpenEntry
		}
		return timeclock.ClockEntry{}, fmt.Errorf("failed to get open clock entry: %w", err)
	}

	return entry, nil
}

// Close implements timeclock.ClockEntryRepository.
func (r *clockEntryRepository) Close(ctx context.Context, entry timeclock.ClockEntry) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE clock_entries
		SET clock_out_at = $2,
			out_latitude = $3,
			out_longitude = $4,
			updated_at = NOW()
		WHERE id = $1
		  AND clock_out_at IS NULL
	`

	tag, err := q.Exec(ctx, query, entry.ID, entry.ClockOutAt, entry.OutLatitude, entry.OutLongitude)
	if err != nil {
		return fmt.Errorf("failed to close clock entry: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return timeclock.ErrNoOpenEntry
	}

	return nil
}

// Decide implements timeclock.ClockEntryRepository.
//
// The status guard lives in the WHERE clause so the pending check and the
// transition are a single statement.
func (r *clockEntryRepository) Decide(ctx context.Context, id, tenantID string, to timeclock.ApprovalStatus, approver string, reason *string, at time.Time) (timeclock.ClockEntry, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE clock_entries
		SET status = $3,
			approved_by = $4,
			approved_at = $5,
			rejection_reason = $6,
			updated_at = NOW()
		WHERE id = $1
		  AND tenant_id = $2
		  AND status = 'pending'
		RETURNING ` + clockEntryColumns + `
	`

	entry, err := scanClockEntry(q.QueryRow(ctx, query, id, tenantID, to, approver, at, reason))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			if _, getErr := r.GetByID(ctx, id, tenantID); getErr != nil {
				return timeclock.ClockEntry{}, getErr
			}
			return timeclock.ClockEntry{}, timeclock.ErrEntryNotPending
		}
		return timeclock.ClockEntry{}, fmt.Errorf("failed to decide clock entry: %w", err)
	}

	return entry, nil
}

// ListQualifyingForDay implements timeclock.ClockEntryRepository.
func (r *clockEntryRepository) ListQualifyingForDay(ctx context.Context, userID string, day time.Time) ([]timeclock.ClockEntry, error) {
	q := GetQuerier(ctx, r.db)

	dayStart := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, time.UTC)
	dayEnd := dayStart.AddDate(0, 0, 1)

	query := `
		SELECT ` + clockEntryColumns + `
		FROM clock_entries
		WHERE user_id = $1
		  AND clock_out_at IS NOT NULL
		  AND status IN ('approved', 'auto_approved')
		  AND clock_in_at >= $2
		  AND clock_in_at < $3
		ORDER BY clock_in_at ASC
	`

	rows, err := q.Query(ctx, query, userID, dayStart, dayEnd)
	if err != nil {
		return nil, fmt.Errorf("failed to list clock entries: %w", err)
	}
	defer rows.Close()

	var entries []timeclock.ClockEntry
	for rows.Next() {
		entry, err := scanClockEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan clock entry: %w", err)
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate clock entries: %w", err)
	}

	return entries, nil
}

// ActiveUsers implements timeclock.ClockEntryRepository.
func (r *clockEntryRepository) ActiveUsers(ctx context.Context, since time.Time) ([]timeclock.UserRef, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT DISTINCT user_id, tenant_id
		FROM clock_entries
		WHERE clock_in_at >= $1
	`

	rows, err := q.Query(ctx, query, since)
	if err != nil {
		return nil, fmt.Errorf("failed to list active users: %w", err)
	}
	defer rows.Close()

	var refs []timeclock.UserRef
	for rows.Next() {
		var ref timeclock.UserRef
		if err := rows.Scan(&ref.UserID, &ref.TenantID); err != nil {
			return nil, fmt.Errorf("failed to scan active user: %w", err)
		}
		refs = append(refs, ref)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate active users: %w", err)
	}

	return refs, nil
}

func NewClockEntryRepository(db *database.DB) timeclock.ClockEntryRepository {
	return &clockEntryRepository{db: db}
}
