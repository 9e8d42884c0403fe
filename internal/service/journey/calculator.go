package journey

import (
	"context"
	"fmt"
	"time"

	"github.com/fieldops/timetrack-backend-go/internal/domain/journey"
	"github.com/fieldops/timetrack-backend-go/internal/domain/timeclock"
	"github.com/fieldops/timetrack-backend-go/internal/pkg/calendar"
	"github.com/shopspring/decimal"
)

// shortSaturdayLimitHours: Saturdays scheduled at or below this many hours
// follow the half-day regime, where only hours beyond the limit count as
// 50% overtime and no absence is ever recorded.
const shortSaturdayLimitHours = 4

type ServiceImpl struct {
	cal     *calendar.BusinessCalendar
	rules   journey.RuleRepository
	entries journey.EntryRepository
	clocks  timeclock.ClockEntryRepository
}

func NewService(
	cal *calendar.BusinessCalendar,
	rules journey.RuleRepository,
	entries journey.EntryRepository,
	clocks timeclock.ClockEntryRepository,
) journey.Service {
	return &ServiceImpl{
		cal:     cal,
		rules:   rules,
		entries: entries,
		clocks:  clocks,
	}
}

var sixty = decimal.NewFromInt(60)

func minutesToHours(minutes float64) decimal.Decimal {
	return decimal.NewFromFloat(minutes).Div(sixty).Round(2)
}

func clampZero(d decimal.Decimal) decimal.Decimal {
	if d.IsNegative() {
		return decimal.Zero
	}
	return d
}

// nightOverlapMinutes returns the intersection length, in minutes, between
// the interval [in, out) and the night window instance anchored to the
// clock-in's calendar day. A window whose end clock-time is numerically
// before its start spans midnight into the following day.
func nightOverlapMinutes(in, out time.Time, startMin, endMin int) float64 {
	day := time.Date(in.Year(), in.Month(), in.Day(), 0, 0, 0, 0, in.Location())
	winStart := day.Add(time.Duration(startMin) * time.Minute)
	winEnd := day.Add(time.Duration(endMin) * time.Minute)
	if endMin < startMin {
		winEnd = winEnd.Add(24 * time.Hour)
	}

	overlapStart := in
	if winStart.After(overlapStart) {
		overlapStart = winStart
	}
	overlapEnd := out
	if winEnd.Before(overlapEnd) {
		overlapEnd = winEnd
	}

	if !overlapEnd.After(overlapStart) {
		return 0
	}
	return overlapEnd.Sub(overlapStart).Minutes()
}

// dayComputation carries the decomposed hours for one user-day. Raw
// overtime/absence are pre-clamp values; the hour-bank delta is derived from
// them so per-field clamping never loses bank contributions.
type dayComputation struct {
	scheduled   decimal.Decimal
	worked      decimal.Decimal
	night       decimal.Decimal
	overtime50  decimal.Decimal
	overtime100 decimal.Decimal
	absence     decimal.Decimal
	bankDelta   decimal.Decimal
	isHoliday   bool
	isRestDay   bool
}

// computeDay folds a day's qualifying clock entries into categorized hours.
// Pure: depends only on its arguments.
func computeDay(date time.Time, rule journey.JourneyRule, entries []timeclock.ClockEntry, isHoliday bool) dayComputation {
	nightStart, nightEnd := rule.NightWindowMinutes()

	var workedMinutes, nightMinutes float64
	for _, e := range entries {
		if e.ClockOutAt == nil || !e.Status.Qualifies() {
			continue
		}
		workedMinutes += e.ClockOutAt.Sub(e.ClockInAt).Minutes()
		nightMinutes += nightOverlapMinutes(e.ClockInAt, *e.ClockOutAt, nightStart, nightEnd)
	}

	worked := minutesToHours(workedMinutes)
	night := minutesToHours(nightMinutes)
	scheduled := rule.ScheduledHoursFor(date.Weekday()).Round(2)

	isRestDay := date.Weekday() == time.Sunday
	isShortSaturday := date.Weekday() == time.Saturday &&
		rule.SaturdayHours.LessThanOrEqual(decimal.NewFromInt(shortSaturdayLimitHours))

	var rawOvertime50, rawAbsence, overtime100 decimal.Decimal

	switch {
	case isHoliday || isRestDay:
		// Every minute worked on a holiday or the weekly rest day is paid
		// at the 100% premium; no absence even below scheduled hours.
		overtime100 = worked

	case isShortSaturday:
		beyond := worked.Sub(decimal.NewFromInt(shortSaturdayLimitHours))
		if beyond.IsPositive() {
			rawOvertime50 = beyond
		}

	default:
		switch {
		case worked.GreaterThan(scheduled):
			rawOvertime50 = worked.Sub(scheduled)
		case worked.IsPositive() && worked.LessThan(scheduled):
			rawAbsence = scheduled.Sub(worked)
		case worked.IsZero() && !calendar.IsWeekend(date):
			// Full no-show on a scheduled weekday.
			rawAbsence = scheduled
		}
	}

	return dayComputation{
		scheduled:   scheduled,
		worked:      worked,
		night:       night,
		overtime50:  rawOvertime50,
		overtime100: overtime100,
		absence:     rawAbsence,
		bankDelta:   rawOvertime50.Sub(rawAbsence),
		isHoliday:   isHoliday,
		isRestDay:   isRestDay,
	}
}

// CalculateDay implements journey.Service.
func (s *ServiceImpl) CalculateDay(ctx context.Context, userID, tenantID string, date time.Time) (journey.JourneyEntry, error) {
	day := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.UTC)

	rule, err := journey.ResolveRule(ctx, s.rules, tenantID)
	if err != nil {
		return journey.JourneyEntry{}, fmt.Errorf("failed to resolve journey rule: %w", err)
	}

	clockEntries, err := s.clocks.ListQualifyingForDay(ctx, userID, day)
	if err != nil {
		return journey.JourneyEntry{}, fmt.Errorf("failed to list clock entries: %w", err)
	}

	isHoliday := s.cal.IsHoliday(ctx, day)

	priorBalance := decimal.Zero
	prior, err := s.entries.LastBefore(ctx, userID, day)
	if err != nil {
		return journey.JourneyEntry{}, fmt.Errorf("failed to get prior journey entry: %w", err)
	}
	if prior != nil {
		priorBalance = prior.HourBankBalance
	}

	comp := computeDay(day, rule, clockEntries, isHoliday)

	delta := decimal.Zero
	balance := priorBalance
	if rule.HourBankEnabled {
		delta = comp.bankDelta
		balance = priorBalance.Add(delta)
	}

	entry := journey.JourneyEntry{
		UserID:          userID,
		TenantID:        tenantID,
		Date:            day,
		ScheduledHours:  comp.scheduled,
		WorkedHours:     comp.worked,
		Overtime50:      clampZero(comp.overtime50),
		Overtime100:     clampZero(comp.overtime100),
		NightHours:      comp.night,
		AbsenceHours:    clampZero(comp.absence),
		HourBankDelta:   delta,
		HourBankBalance: balance,
		IsHoliday:       comp.isHoliday,
		IsRestDay:       comp.isRestDay,
		Status:          journey.EntryStatusComputed,
	}

	saved, err := s.entries.Upsert(ctx, entry)
	if err != nil {
		return journey.JourneyEntry{}, fmt.Errorf("failed to upsert journey entry: %w", err)
	}

	return saved, nil
}
