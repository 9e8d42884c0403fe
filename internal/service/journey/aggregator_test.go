package journey

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCalculateMonth(t *testing.T) {
	ctx := context.Background()

	t.Run("produces one entry per calendar day in order", func(t *testing.T) {
		env := newCalcEnv()

		entries, err := env.svc.CalculateMonth(ctx, "user-1", "tenant-1", at(2025, time.September, 1, 0, 0))
		require.NoError(t, err)

		require.Len(t, entries, 30)
		for i, entry := range entries {
			assert.Equal(t, at(2025, time.September, 1+i, 0, 0), entry.Date)
		}
	})

	t.Run("threads the hour bank chronologically", func(t *testing.T) {
		env := newCalcEnv()
		env.enableHourBank(t)

		// Monday Sept 1: 1h over. Tuesday Sept 2: 2h short.
		env.addShift("user-1", at(2025, time.September, 1, 9, 0), at(2025, time.September, 1, 18, 0))
		env.addShift("user-1", at(2025, time.September, 2, 9, 0), at(2025, time.September, 2, 15, 0))

		entries, err := env.svc.CalculateMonth(ctx, "user-1", "tenant-1", at(2025, time.September, 1, 0, 0))
		require.NoError(t, err)
		require.Len(t, entries, 30)

		assertDecimal(t, "1", entries[0].HourBankDelta)
		assertDecimal(t, "1", entries[0].HourBankBalance)
		assertDecimal(t, "-2", entries[1].HourBankDelta)
		assertDecimal(t, "-1", entries[1].HourBankBalance)

		// Wed-Fri no-shows each debit a full 8h day.
		assertDecimal(t, "-25", entries[4].HourBankBalance) // Friday Sept 5

		// Weekend no-shows leave the balance unchanged.
		assertDecimal(t, "0", entries[5].HourBankDelta) // Saturday Sept 6
		assertDecimal(t, "-25", entries[5].HourBankBalance)
		assertDecimal(t, "-25", entries[6].HourBankBalance) // Sunday Sept 7
	})

	t.Run("recalculating the month is stable", func(t *testing.T) {
		env := newCalcEnv()
		env.enableHourBank(t)
		env.addShift("user-1", at(2025, time.September, 1, 9, 0), at(2025, time.September, 1, 19, 0))

		first, err := env.svc.CalculateMonth(ctx, "user-1", "tenant-1", at(2025, time.September, 1, 0, 0))
		require.NoError(t, err)
		second, err := env.svc.CalculateMonth(ctx, "user-1", "tenant-1", at(2025, time.September, 1, 0, 0))
		require.NoError(t, err)

		require.Len(t, second, len(first))
		for i := range first {
			assert.True(t, first[i].HourBankBalance.Equal(second[i].HourBankBalance),
				"balance diverged on %s", first[i].Date.Format("2006-01-02"))
		}
	})
}

func TestGetMonthSummary(t *testing.T) {
	ctx := context.Background()

	t.Run("sums categories and reports the closing balance", func(t *testing.T) {
		env := newCalcEnv()
		env.enableHourBank(t)

		env.addShift("user-1", at(2025, time.September, 1, 9, 0), at(2025, time.September, 1, 19, 0)) // 10h, 2 OT
		env.addShift("user-1", at(2025, time.September, 2, 9, 0), at(2025, time.September, 2, 17, 0)) // 8h exact
		env.addShift("user-1", at(2025, time.September, 3, 9, 0), at(2025, time.September, 3, 14, 0)) // 5h, 3 absent

		_, err := env.svc.CalculateMonth(ctx, "user-1", "tenant-1", at(2025, time.September, 1, 0, 0))
		require.NoError(t, err)

		summary, err := env.svc.GetMonthSummary(ctx, "user-1", at(2025, time.September, 1, 0, 0))
		require.NoError(t, err)

		assert.Equal(t, "user-1", summary.UserID)
		assert.Equal(t, "2025-09", summary.YearMonth)
		assert.Equal(t, 30, summary.DaysComputed)
		assertDecimal(t, "23", summary.WorkedHours)
		assertDecimal(t, "2", summary.Overtime50)

		// Absence: 3h on Sept 3 plus full no-shows on the remaining 19
		// weekdays of the month (22 weekdays total, 3 worked) at 8h each.
		assertDecimal(t, "155", summary.AbsenceHours)

		// Closing balance, not a sum of balances: +2, then -3, then -8 for
		// each of the 19 remaining no-show weekdays.
		assertDecimal(t, "-153", summary.HourBankBalance)
	})

	t.Run("empty month", func(t *testing.T) {
		env := newCalcEnv()

		summary, err := env.svc.GetMonthSummary(ctx, "user-1", at(2025, time.September, 1, 0, 0))
		require.NoError(t, err)

		assert.Equal(t, 0, summary.DaysComputed)
		assert.True(t, summary.WorkedHours.IsZero())
		assert.True(t, summary.HourBankBalance.IsZero())
	})

	t.Run("balance reported is the last computed day's", func(t *testing.T) {
		env := newCalcEnv()
		env.enableHourBank(t)
		env.addShift("user-1", at(2025, time.September, 1, 9, 0), at(2025, time.September, 1, 19, 0))

		entries, err := env.svc.CalculateMonth(ctx, "user-1", "tenant-1", at(2025, time.September, 1, 0, 0))
		require.NoError(t, err)

		summary, err := env.svc.GetMonthSummary(ctx, "user-1", at(2025, time.September, 1, 0, 0))
		require.NoError(t, err)

		last := entries[len(entries)-1]
		assert.True(t, summary.HourBankBalance.Equal(last.HourBankBalance))
	})
}
