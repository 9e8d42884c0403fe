package journey

import (
	"context"
	"fmt"
	"time"

	"github.com/fieldops/timetrack-backend-go/internal/domain/journey"
	"github.com/shopspring/decimal"
)

// CalculateMonth implements journey.Service. Days are computed strictly in
// chronological order: each day's hour-bank input is the previous day's
// persisted balance. Parallelizing across days for one user would corrupt
// the fold.
func (s *ServiceImpl) CalculateMonth(ctx context.Context, userID, tenantID string, month time.Time) ([]journey.JourneyEntry, error) {
	first := time.Date(month.Year(), month.Month(), 1, 0, 0, 0, 0, time.UTC)

	var results []journey.JourneyEntry
	for day := first; day.Month() == first.Month(); day = day.AddDate(0, 0, 1) {
		entry, err := s.CalculateDay(ctx, userID, tenantID, day)
		if err != nil {
			return nil, fmt.Errorf("failed to calculate %s: %w", day.Format("2006-01-02"), err)
		}
		results = append(results, entry)
	}

	return results, nil
}

// GetMonthSummary implements journey.Service.
func (s *ServiceImpl) GetMonthSummary(ctx context.Context, userID string, month time.Time) (journey.MonthSummary, error) {
	entries, err := s.entries.ListMonth(ctx, userID, month.Year(), month.Month())
	if err != nil {
		return journey.MonthSummary{}, fmt.Errorf("failed to list journey entries: %w", err)
	}

	summary := journey.MonthSummary{
		UserID:    userID,
		YearMonth: month.Format("2006-01"),
	}

	for _, e := range entries {
		summary.DaysComputed++
		summary.ScheduledHours = summary.ScheduledHours.Add(e.ScheduledHours)
		summary.WorkedHours = summary.WorkedHours.Add(e.WorkedHours)
		summary.Overtime50 = summary.Overtime50.Add(e.Overtime50)
		summary.Overtime100 = summary.Overtime100.Add(e.Overtime100)
		summary.NightHours = summary.NightHours.Add(e.NightHours)
		summary.AbsenceHours = summary.AbsenceHours.Add(e.AbsenceHours)
	}

	// The bank balance is already cumulative: report the last day's, never
	// a sum.
	if len(entries) > 0 {
		summary.HourBankBalance = entries[len(entries)-1].HourBankBalance
	}

	return summary, nil
}

// GetHourBankBalance implements journey.Service. Returns zero for users
// with no computed entries.
func (s *ServiceImpl) GetHourBankBalance(ctx context.Context, userID string) (decimal.Decimal, error) {
	latest, err := s.entries.Latest(ctx, userID)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to get latest journey entry: %w", err)
	}
	if latest == nil {
		return decimal.Zero, nil
	}
	return latest.HourBankBalance, nil
}
