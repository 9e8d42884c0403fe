package journey

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/fieldops/timetrack-backend-go/internal/domain/journey"
	"github.com/fieldops/timetrack-backend-go/internal/domain/timeclock"
	"github.com/fieldops/timetrack-backend-go/internal/pkg/calendar"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ========================================
// In-memory fakes
// ========================================

type memRuleRepo struct {
	mu    sync.Mutex
	seq   int
	rules map[string]journey.JourneyRule // keyed by tenant
}

func newMemRuleRepo() *memRuleRepo {
	return &memRuleRepo{rules: make(map[string]journey.JourneyRule)}
}

func (r *memRuleRepo) GetDefault(ctx context.Context, tenantID string) (journey.JourneyRule, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	rule, ok := r.rules[tenantID]
	if !ok {
		return journey.JourneyRule{}, journey.ErrRuleNotFound
	}
	return rule, nil
}

func (r *memRuleRepo) Create(ctx context.Context, rule journey.JourneyRule) (journey.JourneyRule, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.seq++
	rule.ID = fmt.Sprintf("rule-%d", r.seq)
	r.rules[rule.TenantID] = rule
	return rule, nil
}

type memJourneyEntryRepo struct {
	mu      sync.Mutex
	seq     int
	entries map[string]journey.JourneyEntry // keyed by userID|date
}

func newMemJourneyEntryRepo() *memJourneyEntryRepo {
	return &memJourneyEntryRepo{entries: make(map[string]journey.JourneyEntry)}
}

func entryKey(userID string, date time.Time) string {
	return userID + "|" + date.Format("2006-01-02")
}

func (r *memJourneyEntryRepo) Upsert(ctx context.Context, entry journey.JourneyEntry) (journey.JourneyEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := entryKey(entry.UserID, entry.Date)
	if existing, ok := r.entries[key]; ok {
		entry.ID = existing.ID
	} else {
		r.seq++
		entry.ID = fmt.Sprintf("jentry-%d", r.seq)
	}
	r.entries[key] = entry
	return entry, nil
}

func (r *memJourneyEntryRepo) GetByUserAndDate(ctx context.Context, userID string, date time.Time) (journey.JourneyEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	entry, ok := r.entries[entryKey(userID, date)]
	if !ok {
		return journey.JourneyEntry{}, journey.ErrEntryNotFound
	}
	return entry, nil
}

func (r *memJourneyEntryRepo) ListMonth(ctx context.Context, userID string, year int, month time.Month) ([]journey.JourneyEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var result []journey.JourneyEntry
	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	for day := first; day.Month() == month; day = day.AddDate(0, 0, 1) {
		if entry, ok := r.entries[entryKey(userID, day)]; ok {
			result = append(result, entry)
		}
	}
	return result, nil
}

func (r *memJourneyEntryRepo) LastBefore(ctx context.Context, userID string, date time.Time) (*journey.JourneyEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var best *journey.JourneyEntry
	for _, entry := range r.entries {
		if entry.UserID != userID || !entry.Date.Before(date) {
			continue
		}
		if best == nil || entry.Date.After(best.Date) {
			e := entry
			best = &e
		}
	}
	return best, nil
}

func (r *memJourneyEntryRepo) Latest(ctx context.Context, userID string) (*journey.JourneyEntry, error) {
	return r.LastBefore(ctx, userID, time.Date(9999, 1, 1, 0, 0, 0, 0, time.UTC))
}

// memClockRepo only serves ListQualifyingForDay; the calculator never calls
// the write paths.
type memClockRepo struct {
	entries []timeclock.ClockEntry
}

func (r *memClockRepo) Create(ctx context.Context, entry timeclock.ClockEntry) (timeclock.ClockEntry, error) {
	panic("not used")
}

func (r *memClockRepo) GetByID(ctx context.Context, id, tenantID string) (timeclock.ClockEntry, error) {
	panic("not used")
}

func (r *memClockRepo) GetOpen(ctx context.Context, userID string) (timeclock.ClockEntry, error) {
	panic("not used")
}

func (r *memClockRepo) Close(ctx context.Context, entry timeclock.ClockEntry) error {
	panic("not used")
}

func (r *memClockRepo) Decide(ctx context.Context, id, tenantID string, to timeclock.ApprovalStatus, approver string, reason *string, at time.Time) (timeclock.ClockEntry, error) {
	panic("not used")
}

func (r *memClockRepo) ListQualifyingForDay(ctx context.Context, userID string, day time.Time) ([]timeclock.ClockEntry, error) {
	dayStart := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, time.UTC)
	dayEnd := dayStart.AddDate(0, 0, 1)

	var result []timeclock.ClockEntry
	for _, entry := range r.entries {
		if entry.UserID != userID || entry.ClockOutAt == nil || !entry.Status.Qualifies() {
			continue
		}
		if entry.ClockInAt.Before(dayStart) || !entry.ClockInAt.Before(dayEnd) {
			continue
		}
		result = append(result, entry)
	}
	return result, nil
}

func (r *memClockRepo) ActiveUsers(ctx context.Context, since time.Time) ([]timeclock.UserRef, error) {
	return nil, nil
}

type stubHolidaySource struct {
	holidays []time.Time
}

func (s *stubHolidaySource) HolidaysForYear(ctx context.Context, year int) ([]time.Time, error) {
	var result []time.Time
	for _, h := range s.holidays {
		if h.Year() == year {
			result = append(result, h)
		}
	}
	return result, nil
}

// ========================================
// Helpers
// ========================================

type calcEnv struct {
	svc       journey.Service
	ruleRepo  *memRuleRepo
	entryRepo *memJourneyEntryRepo
	clockRepo *memClockRepo
}

func newCalcEnv(holidays ...time.Time) *calcEnv {
	ruleRepo := newMemRuleRepo()
	entryRepo := newMemJourneyEntryRepo()
	clockRepo := &memClockRepo{}
	cal := calendar.NewBusinessCalendar(&stubHolidaySource{holidays: holidays}, time.Hour)
	svc := NewService(cal, ruleRepo, entryRepo, clockRepo)
	return &calcEnv{svc: svc, ruleRepo: ruleRepo, entryRepo: entryRepo, clockRepo: clockRepo}
}

func (e *calcEnv) addShift(userID string, in, out time.Time) {
	e.clockRepo.entries = append(e.clockRepo.entries, timeclock.ClockEntry{
		ID:        fmt.Sprintf("clock-%d", len(e.clockRepo.entries)+1),
		UserID:    userID,
		TenantID:  "tenant-1",
		ClockInAt: in,
		ClockOutAt: &out,
		Status:    timeclock.StatusAutoApproved,
		Method:    timeclock.MethodSelfie,
	})
}

func (e *calcEnv) enableHourBank(t *testing.T) {
	t.Helper()
	rule := journey.DefaultRule("tenant-1")
	rule.HourBankEnabled = true
	_, err := e.ruleRepo.Create(context.Background(), rule)
	require.NoError(t, err)
}

func at(year int, month time.Month, day, hour, min int) time.Time {
	return time.Date(year, month, day, hour, min, 0, 0, time.UTC)
}

func assertDecimal(t *testing.T, expected string, actual decimal.Decimal) {
	t.Helper()
	assert.True(t, actual.Equal(decimal.RequireFromString(expected)),
		"expected %s, got %s", expected, actual.String())
}

// Dates used below: 2025-09-02 is a Tuesday, 2025-09-06 a Saturday,
// 2025-09-14 a Sunday.

// ========================================
// Night window
// ========================================

func TestNightOverlapMinutes(t *testing.T) {
	// Default window 22:00-05:00 spans midnight.
	const startMin, endMin = 22 * 60, 5 * 60

	t.Run("shift crossing midnight", func(t *testing.T) {
		in := at(2025, time.September, 2, 23, 0)
		out := at(2025, time.September, 3, 2, 0)
		assert.InDelta(t, 180, nightOverlapMinutes(in, out, startMin, endMin), 0.001)
	})

	t.Run("daytime shift has no overlap", func(t *testing.T) {
		in := at(2025, time.September, 2, 9, 0)
		out := at(2025, time.September, 2, 17, 0)
		assert.InDelta(t, 0, nightOverlapMinutes(in, out, startMin, endMin), 0.001)
	})

	t.Run("shift fully inside the window", func(t *testing.T) {
		in := at(2025, time.September, 2, 23, 30)
		out := at(2025, time.September, 3, 4, 30)
		assert.InDelta(t, 300, nightOverlapMinutes(in, out, startMin, endMin), 0.001)
	})

	t.Run("shift ending exactly at window start", func(t *testing.T) {
		in := at(2025, time.September, 2, 14, 0)
		out := at(2025, time.September, 2, 22, 0)
		assert.InDelta(t, 0, nightOverlapMinutes(in, out, startMin, endMin), 0.001)
	})

	t.Run("non-spanning window", func(t *testing.T) {
		in := at(2025, time.September, 2, 1, 0)
		out := at(2025, time.September, 2, 6, 0)
		// 00:00-05:00 window on the same day.
		assert.InDelta(t, 240, nightOverlapMinutes(in, out, 0, 5*60), 0.001)
	})
}

// ========================================
// Daily classification
// ========================================

func TestCalculateDay(t *testing.T) {
	ctx := context.Background()

	t.Run("exact scheduled hours on a weekday", func(t *testing.T) {
		env := newCalcEnv()
		env.addShift("user-1", at(2025, time.September, 2, 9, 0), at(2025, time.September, 2, 17, 0))

		entry, err := env.svc.CalculateDay(ctx, "user-1", "tenant-1", at(2025, time.September, 2, 0, 0))
		require.NoError(t, err)

		assertDecimal(t, "8", entry.ScheduledHours)
		assertDecimal(t, "8", entry.WorkedHours)
		assertDecimal(t, "0", entry.Overtime50)
		assertDecimal(t, "0", entry.Overtime100)
		assertDecimal(t, "0", entry.AbsenceHours)
		assert.False(t, entry.IsHoliday)
		assert.False(t, entry.IsRestDay)
		assert.Equal(t, journey.EntryStatusComputed, entry.Status)
	})

	t.Run("excess over schedule becomes 50% overtime", func(t *testing.T) {
		env := newCalcEnv()
		env.addShift("user-1", at(2025, time.September, 2, 8, 0), at(2025, time.September, 2, 18, 0))

		entry, err := env.svc.CalculateDay(ctx, "user-1", "tenant-1", at(2025, time.September, 2, 0, 0))
		require.NoError(t, err)

		assertDecimal(t, "10", entry.WorkedHours)
		assertDecimal(t, "2", entry.Overtime50)
		assertDecimal(t, "0", entry.AbsenceHours)
	})

	t.Run("shortfall becomes absence", func(t *testing.T) {
		env := newCalcEnv()
		env.addShift("user-1", at(2025, time.September, 2, 9, 0), at(2025, time.September, 2, 14, 0))

		entry, err := env.svc.CalculateDay(ctx, "user-1", "tenant-1", at(2025, time.September, 2, 0, 0))
		require.NoError(t, err)

		assertDecimal(t, "5", entry.WorkedHours)
		assertDecimal(t, "0", entry.Overtime50)
		assertDecimal(t, "3", entry.AbsenceHours)
	})

	t.Run("weekday no-show is a full absence", func(t *testing.T) {
		env := newCalcEnv()

		entry, err := env.svc.CalculateDay(ctx, "user-1", "tenant-1", at(2025, time.September, 2, 0, 0))
		require.NoError(t, err)

		assertDecimal(t, "0", entry.WorkedHours)
		assertDecimal(t, "8", entry.AbsenceHours)
	})

	t.Run("sunday no-show is never penalized", func(t *testing.T) {
		env := newCalcEnv()

		entry, err := env.svc.CalculateDay(ctx, "user-1", "tenant-1", at(2025, time.September, 14, 0, 0))
		require.NoError(t, err)

		assertDecimal(t, "0", entry.ScheduledHours)
		assertDecimal(t, "0", entry.AbsenceHours)
		assert.True(t, entry.IsRestDay)
	})

	t.Run("sunday work is all 100% overtime", func(t *testing.T) {
		env := newCalcEnv()
		env.addShift("user-1", at(2025, time.September, 14, 9, 0), at(2025, time.September, 14, 15, 0))

		entry, err := env.svc.CalculateDay(ctx, "user-1", "tenant-1", at(2025, time.September, 14, 0, 0))
		require.NoError(t, err)

		assertDecimal(t, "6", entry.WorkedHours)
		assertDecimal(t, "6", entry.Overtime100)
		assertDecimal(t, "0", entry.Overtime50)
		assertDecimal(t, "0", entry.AbsenceHours)
	})

	t.Run("holiday work is all 100% overtime", func(t *testing.T) {
		// A Monday holiday so the rest-day branch cannot mask it.
		holidayMonday := at(2025, time.September, 8, 0, 0)
		env := newCalcEnv(holidayMonday)
		env.addShift("user-1", at(2025, time.September, 8, 9, 0), at(2025, time.September, 8, 13, 0))

		entry, err := env.svc.CalculateDay(ctx, "user-1", "tenant-1", holidayMonday)
		require.NoError(t, err)

		assert.True(t, entry.IsHoliday)
		assertDecimal(t, "4", entry.WorkedHours)
		assertDecimal(t, "4", entry.Overtime100)
		assertDecimal(t, "0", entry.AbsenceHours)
	})

	t.Run("holiday no-show is never penalized", func(t *testing.T) {
		holidayMonday := at(2025, time.September, 8, 0, 0)
		env := newCalcEnv(holidayMonday)

		entry, err := env.svc.CalculateDay(ctx, "user-1", "tenant-1", holidayMonday)
		require.NoError(t, err)

		assert.True(t, entry.IsHoliday)
		assertDecimal(t, "0", entry.AbsenceHours)
	})

	t.Run("short saturday overtime beyond the half day", func(t *testing.T) {
		env := newCalcEnv()
		env.addShift("user-1", at(2025, time.September, 6, 8, 0), at(2025, time.September, 6, 14, 0))

		entry, err := env.svc.CalculateDay(ctx, "user-1", "tenant-1", at(2025, time.September, 6, 0, 0))
		require.NoError(t, err)

		assertDecimal(t, "4", entry.ScheduledHours)
		assertDecimal(t, "6", entry.WorkedHours)
		assertDecimal(t, "2", entry.Overtime50)
		assertDecimal(t, "0", entry.AbsenceHours)
	})

	t.Run("short saturday below the half day has no absence", func(t *testing.T) {
		env := newCalcEnv()
		env.addShift("user-1", at(2025, time.September, 6, 8, 0), at(2025, time.September, 6, 10, 0))

		entry, err := env.svc.CalculateDay(ctx, "user-1", "tenant-1", at(2025, time.September, 6, 0, 0))
		require.NoError(t, err)

		assertDecimal(t, "2", entry.WorkedHours)
		assertDecimal(t, "0", entry.Overtime50)
		assertDecimal(t, "0", entry.AbsenceHours)
	})

	t.Run("saturday no-show is never penalized", func(t *testing.T) {
		env := newCalcEnv()

		entry, err := env.svc.CalculateDay(ctx, "user-1", "tenant-1", at(2025, time.September, 6, 0, 0))
		require.NoError(t, err)

		assertDecimal(t, "0", entry.AbsenceHours)
	})

	t.Run("night hours on a shift crossing midnight", func(t *testing.T) {
		env := newCalcEnv()
		env.addShift("user-1", at(2025, time.September, 2, 23, 0), at(2025, time.September, 3, 2, 0))

		entry, err := env.svc.CalculateDay(ctx, "user-1", "tenant-1", at(2025, time.September, 2, 0, 0))
		require.NoError(t, err)

		assertDecimal(t, "3", entry.WorkedHours)
		assertDecimal(t, "3", entry.NightHours)
	})

	t.Run("multiple shifts in one day accumulate", func(t *testing.T) {
		env := newCalcEnv()
		env.addShift("user-1", at(2025, time.September, 2, 8, 0), at(2025, time.September, 2, 12, 0))
		env.addShift("user-1", at(2025, time.September, 2, 13, 0), at(2025, time.September, 2, 18, 0))

		entry, err := env.svc.CalculateDay(ctx, "user-1", "tenant-1", at(2025, time.September, 2, 0, 0))
		require.NoError(t, err)

		assertDecimal(t, "9", entry.WorkedHours)
		assertDecimal(t, "1", entry.Overtime50)
	})

	t.Run("fractional minutes round to two decimals", func(t *testing.T) {
		env := newCalcEnv()
		env.addShift("user-1", at(2025, time.September, 2, 9, 0), at(2025, time.September, 2, 16, 50))

		entry, err := env.svc.CalculateDay(ctx, "user-1", "tenant-1", at(2025, time.September, 2, 0, 0))
		require.NoError(t, err)

		// 470 minutes = 7.8333... hours
		assertDecimal(t, "7.83", entry.WorkedHours)
		assertDecimal(t, "0.17", entry.AbsenceHours)
	})

	t.Run("recalculation is idempotent", func(t *testing.T) {
		env := newCalcEnv()
		env.addShift("user-1", at(2025, time.September, 2, 8, 0), at(2025, time.September, 2, 18, 0))

		first, err := env.svc.CalculateDay(ctx, "user-1", "tenant-1", at(2025, time.September, 2, 0, 0))
		require.NoError(t, err)
		second, err := env.svc.CalculateDay(ctx, "user-1", "tenant-1", at(2025, time.September, 2, 0, 0))
		require.NoError(t, err)

		assert.Equal(t, first.ID, second.ID)
		assert.True(t, first.WorkedHours.Equal(second.WorkedHours))
		assert.True(t, first.Overtime50.Equal(second.Overtime50))
		assert.True(t, first.HourBankBalance.Equal(second.HourBankBalance))
	})

	t.Run("materializes the default rule on first use", func(t *testing.T) {
		env := newCalcEnv()

		_, err := env.svc.CalculateDay(ctx, "user-1", "tenant-1", at(2025, time.September, 2, 0, 0))
		require.NoError(t, err)

		rule, err := env.ruleRepo.GetDefault(ctx, "tenant-1")
		require.NoError(t, err)
		assert.True(t, rule.IsDefault)
		assertDecimal(t, "8", rule.DailyHours)
		assertDecimal(t, "44", rule.WeeklyHours)
	})
}

// ========================================
// Hour bank
// ========================================

func TestHourBank(t *testing.T) {
	ctx := context.Background()

	t.Run("disabled bank keeps delta zero and balance flat", func(t *testing.T) {
		env := newCalcEnv()
		env.addShift("user-1", at(2025, time.September, 2, 8, 0), at(2025, time.September, 2, 18, 0))

		entry, err := env.svc.CalculateDay(ctx, "user-1", "tenant-1", at(2025, time.September, 2, 0, 0))
		require.NoError(t, err)

		assertDecimal(t, "2", entry.Overtime50)
		assertDecimal(t, "0", entry.HourBankDelta)
		assertDecimal(t, "0", entry.HourBankBalance)
	})

	t.Run("overtime credits and absence debits accumulate across days", func(t *testing.T) {
		env := newCalcEnv()
		env.enableHourBank(t)

		// Tuesday: 2h of overtime.
		env.addShift("user-1", at(2025, time.September, 2, 8, 0), at(2025, time.September, 2, 18, 0))
		// Wednesday: 3h short.
		env.addShift("user-1", at(2025, time.September, 3, 9, 0), at(2025, time.September, 3, 14, 0))

		tue, err := env.svc.CalculateDay(ctx, "user-1", "tenant-1", at(2025, time.September, 2, 0, 0))
		require.NoError(t, err)
		assertDecimal(t, "2", tue.HourBankDelta)
		assertDecimal(t, "2", tue.HourBankBalance)

		wed, err := env.svc.CalculateDay(ctx, "user-1", "tenant-1", at(2025, time.September, 3, 0, 0))
		require.NoError(t, err)
		assertDecimal(t, "-3", wed.HourBankDelta)
		assertDecimal(t, "-1", wed.HourBankBalance)
	})

	t.Run("holiday overtime does not feed the bank", func(t *testing.T) {
		holidayMonday := at(2025, time.September, 8, 0, 0)
		env := newCalcEnv(holidayMonday)
		env.enableHourBank(t)
		env.addShift("user-1", at(2025, time.September, 8, 9, 0), at(2025, time.September, 8, 13, 0))

		entry, err := env.svc.CalculateDay(ctx, "user-1", "tenant-1", holidayMonday)
		require.NoError(t, err)

		assertDecimal(t, "4", entry.Overtime100)
		assertDecimal(t, "0", entry.HourBankDelta)
	})

	t.Run("balance query returns the latest entry's balance", func(t *testing.T) {
		env := newCalcEnv()
		env.enableHourBank(t)
		env.addShift("user-1", at(2025, time.September, 2, 8, 0), at(2025, time.September, 2, 19, 0))

		_, err := env.svc.CalculateDay(ctx, "user-1", "tenant-1", at(2025, time.September, 2, 0, 0))
		require.NoError(t, err)

		balance, err := env.svc.GetHourBankBalance(ctx, "user-1")
		require.NoError(t, err)
		assertDecimal(t, "3", balance)
	})

	t.Run("balance is zero for users with no entries", func(t *testing.T) {
		env := newCalcEnv()

		balance, err := env.svc.GetHourBankBalance(ctx, "ghost")
		require.NoError(t, err)
		assert.True(t, balance.IsZero())
	})
}
