package journey

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// Service exposes the journey computation engine: the per-day calculator,
// the month driver, and balance queries.
type Service interface {
	// CalculateDay computes and persists the journey entry for one
	// user-day. Deterministic: identical inputs and prior balance yield an
	// identical entry.
	CalculateDay(ctx context.Context, userID, tenantID string, date time.Time) (JourneyEntry, error)

	// CalculateMonth computes every day of the month strictly in
	// chronological order, threading the hour-bank balance day to day.
	CalculateMonth(ctx context.Context, userID, tenantID string, month time.Time) ([]JourneyEntry, error)

	// GetMonthSummary sums the month's persisted entries; the hour-bank
	// balance reported is the last day's.
	GetMonthSummary(ctx context.Context, userID string, month time.Time) (MonthSummary, error)

	// GetHourBankBalance returns the balance of the user's most recently
	// computed entry, irrespective of month.
	GetHourBankBalance(ctx context.Context, userID string) (decimal.Decimal, error)
}
