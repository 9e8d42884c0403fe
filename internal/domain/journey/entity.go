package journey

import (
	"time"

	"github.com/shopspring/decimal"
)

// JourneyRule is the per-tenant working-journey configuration the daily
// calculator reads. Exactly one rule is marked default per tenant; tenants
// without one get the built-in default (8h/day, 44h/week, 50%/100% overtime,
// night window 22:00-05:00).
type JourneyRule struct {
	ID       string
	TenantID string

	DailyHours    decimal.Decimal
	SaturdayHours decimal.Decimal
	WeeklyHours   decimal.Decimal

	OvertimeWeekdayPct decimal.Decimal
	OvertimeWeekendPct decimal.Decimal
	OvertimeHolidayPct decimal.Decimal

	NightStart      string // "15:04" clock time
	NightEnd        string // may be numerically before NightStart (spans midnight)
	NightPremiumPct decimal.Decimal

	HourBankEnabled     bool
	HourBankExpiryMonths int

	IsDefault bool

	CreatedAt time.Time
	UpdatedAt time.Time
}

// DefaultRule is the built-in configuration used when a tenant has no
// default rule row.
func DefaultRule(tenantID string) JourneyRule {
	return JourneyRule{
		TenantID:             tenantID,
		DailyHours:           decimal.NewFromInt(8),
		SaturdayHours:        decimal.NewFromInt(4),
		WeeklyHours:          decimal.NewFromInt(44),
		OvertimeWeekdayPct:   decimal.NewFromInt(50),
		OvertimeWeekendPct:   decimal.NewFromInt(100),
		OvertimeHolidayPct:   decimal.NewFromInt(100),
		NightStart:           "22:00",
		NightEnd:             "05:00",
		NightPremiumPct:      decimal.NewFromInt(20),
		HourBankEnabled:      false,
		HourBankExpiryMonths: 6,
		IsDefault:            true,
	}
}

// ScheduledHoursFor returns the scheduled hours for a weekday under this
// rule: zero on Sunday, the Saturday allocation on Saturday, the daily
// allocation otherwise.
func (r JourneyRule) ScheduledHoursFor(weekday time.Weekday) decimal.Decimal {
	switch weekday {
	case time.Sunday:
		return decimal.Zero
	case time.Saturday:
		return r.SaturdayHours
	default:
		return r.DailyHours
	}
}

// NightWindowMinutes returns the night window bounds as minutes from
// midnight. The end bound may be numerically smaller than the start, which
// means the window spans midnight.
func (r JourneyRule) NightWindowMinutes() (start, end int) {
	return clockMinutes(r.NightStart), clockMinutes(r.NightEnd)
}

func clockMinutes(s string) int {
	t, err := time.Parse("15:04", s)
	if err != nil {
		return 0
	}
	return t.Hour()*60 + t.Minute()
}

// JourneyEntry is the computed labor-hour decomposition for one user-day.
// Unique per (user, date). The hour-bank balance is only meaningful when all
// earlier dates for the user were computed in chronological order.
type JourneyEntry struct {
	ID       string
	UserID   string
	TenantID string
	Date     time.Time

	ScheduledHours decimal.Decimal
	WorkedHours    decimal.Decimal
	Overtime50     decimal.Decimal
	Overtime100    decimal.Decimal
	NightHours     decimal.Decimal
	AbsenceHours   decimal.Decimal

	// HourBankDelta is the day's net contribution from unclamped values;
	// keeping it alongside the cumulative balance lets a single day be
	// recomputed and reconciled without a full replay.
	HourBankDelta   decimal.Decimal
	HourBankBalance decimal.Decimal

	IsHoliday bool
	IsRestDay bool
	Status    string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// EntryStatusComputed marks a journey entry produced by the calculator.
const EntryStatusComputed = "computed"
