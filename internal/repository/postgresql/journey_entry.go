package postgresql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/fieldops/timetrack-backend-go/internal/domain/journey"
	"github.com/fieldops/timetrack-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

const journeyEntryColumns = `id, user_id, tenant_id, date,
		   scheduled_hours, worked_hours, overtime_50, overtime_100,
		   night_hours, absence_hours, hour_bank_delta, hour_bank_balance,
		   is_holiday, is_rest_day, status,
		   created_at, updated_at`

type journeyEntryRepository struct {
	db *database.DB
}

func scanJourneyEntry(row pgx.Row) (journey.JourneyEntry, error) {
	var e journey.JourneyEntry
	err := row.Scan(
		&e.ID, &e.UserID, &e.TenantID, &e.Date,
		&e.ScheduledHours, &e.WorkedHours, &e.Overtime50, &e.Overtime100,
		&e.NightHours, &e.AbsenceHours, &e.HourBankDelta, &e.HourBankBalance,
		&e.IsHoliday, &e.IsRestDay, &e.Status,
		&e.CreatedAt, &e.UpdatedAt,
	)
	return e, err
}

// Upsert implements journey.EntryRepository. Recomputing a day replaces the
// whole row, so the calculation stays idempotent.
func (r *journeyEntryRepository) Upsert(ctx context.Context, entry journey.JourneyEntry) (journey.JourneyEntry, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO journey_entries (
			user_id, tenant_id, date,
			scheduled_hours, worked_hours, overtime_50, overtime_100,
			night_hours, absence_hours, hour_bank_delta, hour_bank_balance,
			is_holiday, is_rest_day, status
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14
		)
		ON CONFLICT (user_id, date) DO UPDATE SET
			tenant_id = EXCLUDED.tenant_id,
			scheduled_hours = EXCLUDED.scheduled_hours,
			worked_hours = EXCLUDED.worked_hours,
			overtime_50 = EXCLUDED.overtime_50,
			overtime_100 = EXCLUDED.overtime_100,
			night_hours = EXCLUDED.night_hours,
			absence_hours = EXCLUDED.absence_hours,
			hour_bank_delta = EXCLUDED.hour_bank_delta,
			hour_bank_balance = EXCLUDED.hour_bank_balance,
			is_holiday = EXCLUDED.is_holiday,
			is_rest_day = EXCLUDED.is_rest_day,
			status = EXCLUDED.status,
			updated_at = NOW()
		RETURNING id, created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		entry.UserID,
		entry.TenantID,
		entry.Date,
		entry.ScheduledHours,
		entry.WorkedHours,
		entry.Overtime50,
		entry.Overtime100,
		entry.NightHours,
		entry.AbsenceHours,
		entry.HourBankDelta,
		entry.HourBankBalance,
		entry.IsHoliday,
		entry.IsRestDay,
		entry.Status,
	).Scan(&entry.ID, &entry.CreatedAt, &entry.UpdatedAt)

	if err != nil {
		return journey.JourneyEntry{}, fmt.Errorf("failed to upsert journey entry: %w", err)
	}

	return entry, nil
}

// GetByUserAndDate implements journey.EntryRepository.
func (r *journeyEntryRepository) GetByUserAndDate(ctx context.Context, userID string, date time.Time) (journey.JourneyEntry, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + journeyEntryColumns + `
		FROM journey_entries
		WHERE user_id = $1
		  AND date = $2
	`

	entry, err := scanJourneyEntry(q.QueryRow(ctx, query, userID, date))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return journey.JourneyEntry{}, journey.ErrEntryNotFound
		}
		return journey.JourneyEntry{}, fmt.Errorf("failed to get journey entry: %w", err)
	}

	return entry, nil
}

// ListMonth implements journey.EntryRepository.
func (r *journeyEntryRepository) ListMonth(ctx context.Context, userID string, year int, month time.Month) ([]journey.JourneyEntry, error) {
	q := GetQuerier(ctx, r.db)

	monthStart := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	monthEnd := monthStart.AddDate(0, 1, 0)

	query := `
		SELECT ` + journeyEntryColumns + `
		FROM journey_entries
		WHERE user_id = $1
		  AND date >= $2
		  AND date < $3
		ORDER BY date ASC
	`

	rows, err := q.Query(ctx, query, userID, monthStart, monthEnd)
	if err != nil {
		return nil, fmt.Errorf("failed to list journey entries: %w", err)
	}
	defer rows.Close()

	var entries []journey.JourneyEntry
	for rows.Next() {
		entry, err := scanJourneyEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan journey entry: %w", err)
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate journey entries: %w", err)
	}

	return entries, nil
}

// LastBefore implements journey.EntryRepository.
func (r *journeyEntryRepository) LastBefore(ctx context.Context, userID string, date time.Time) (*journey.JourneyEntry, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + journeyEntryColumns + `
		FROM journey_entries
		WHERE user_id = $1
		  AND date < $2
		ORDER BY date DESC
		LIMIT 1
	`

	entry, err := scanJourneyEntry(q.QueryRow(ctx, query, userID, date))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get prior journey entry: %w", err)
	}

	return &entry, nil
}

// Latest implements journey.EntryRepository.
func (r *journeyEntryRepository) Latest(ctx context.Context, userID string) (*journey.JourneyEntry, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + journeyEntryColumns + `
		FROM journey_entries
		WHERE user_id = $1
		ORDER BY date DESC
		LIMIT 1
	`

	entry, err := scanJourneyEntry(q.QueryRow(ctx, query, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get latest journey entry: %w", err)
	}

	return &entry, nil
}

func NewJourneyEntryRepository(db *database.DB) journey.EntryRepository {
	return &journeyEntryRepository{db: db}
}
