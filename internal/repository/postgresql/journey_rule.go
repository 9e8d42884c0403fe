package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/fieldops/timetrack-backend-go/internal/domain/journey"
	"github.com/fieldops/timetrack-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type journeyRuleRepository struct {
	db *database.DB
}

// GetDefault implements journey.RuleRepository.
func (r *journeyRuleRepository) GetDefault(ctx context.Context, tenantID string) (journey.JourneyRule, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, tenant_id,
			   daily_hours, saturday_hours, weekly_hours,
			   overtime_weekday_pct, overtime_weekend_pct, overtime_holiday_pct,
			   night_start, night_end, night_premium_pct,
			   hour_bank_enabled, hour_bank_expiry_months, is_default,
			   created_at, updated_at
		FROM journey_rules
		WHERE tenant_id = $1
		  AND is_default = TRUE
		LIMIT 1
	`

	var rule journey.JourneyRule
	err := q.QueryRow(ctx, query, tenantID).Scan(
		&rule.ID, &rule.TenantID,
		&rule.DailyHours, &rule.SaturdayHours, &rule.WeeklyHours,
		&rule.OvertimeWeekdayPct, &rule.OvertimeWeekendPct, &rule.OvertimeHolidayPct,
		&rule.NightStart, &rule.NightEnd, &rule.NightPremiumPct,
		&rule.HourBankEnabled, &rule.HourBankExpiryMonths, &rule.IsDefault,
		&rule.CreatedAt, &rule.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return journey.JourneyRule{}, journey.ErrRuleNotFound
		}
		return journey.JourneyRule{}, fmt.Errorf("failed to get default journey rule: %w", err)
	}

	return rule, nil
}

// Create implements journey.RuleRepository.
func (r *journeyRuleRepository) Create(ctx context.Context, rule journey.JourneyRule) (journey.JourneyRule, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO journey_rules (
			tenant_id, daily_hours, saturday_hours, weekly_hours,
			overtime_weekday_pct, overtime_weekend_pct, overtime_holiday_pct,
			night_start, night_end, night_premium_pct,
			hour_bank_enabled, hour_bank_expiry_months, is_default
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13
		) RETURNING id, created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		rule.TenantID,
		rule.DailyHours,
		rule.SaturdayHours,
		rule.WeeklyHours,
		rule.OvertimeWeekdayPct,
		rule.OvertimeWeekendPct,
		rule.OvertimeHolidayPct,
		rule.NightStart,
		rule.NightEnd,
		rule.NightPremiumPct,
		rule.HourBankEnabled,
		rule.HourBankExpiryMonths,
		rule.IsDefault,
	).Scan(&rule.ID, &rule.CreatedAt, &rule.UpdatedAt)

	if err != nil {
		return journey.JourneyRule{}, fmt.Errorf("failed to create journey rule: %w", err)
	}

	return rule, nil
}

func NewJourneyRuleRepository(db *database.DB) journey.RuleRepository {
	return &journeyRuleRepository{db: db}
}
