package calendar

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// HolidaySource provides the national/regional holiday set for a year.
// Implementations may call an external API and should honor ctx deadlines.
type HolidaySource interface {
	HolidaysForYear(ctx context.Context, year int) ([]time.Time, error)
}

const (
	// Each business day contributes a fixed 8-hour window starting at 08:00.
	workDayStartHour      = 8
	businessMinutesPerDay = 480

	// When the holiday source fails we cache an empty set for a short time
	// so the next lookup retries instead of hammering the source.
	degradedCacheTTL = 5 * time.Minute
)

type yearCache struct {
	days      map[string]struct{}
	fetchedAt time.Time
	degraded  bool
}

// BusinessCalendar answers holiday and business-day questions. Holiday sets
// are fetched lazily per year and cached with a long TTL.
//
// When the source is unavailable the calendar degrades to weekend-only
// classification for that year: holidays are treated as absent, a warning is
// logged, and the result is cached only briefly so it self-heals.
type BusinessCalendar struct {
	source HolidaySource
	ttl    time.Duration

	mu    sync.RWMutex
	years map[int]yearCache
}

func NewBusinessCalendar(source HolidaySource, cacheTTL time.Duration) *BusinessCalendar {
	if cacheTTL <= 0 {
		cacheTTL = 30 * 24 * time.Hour
	}
	return &BusinessCalendar{
		source: source,
		ttl:    cacheTTL,
		years:  make(map[int]yearCache),
	}
}

func dateKey(t time.Time) string {
	return t.Format("2006-01-02")
}

func (c *BusinessCalendar) holidaysFor(ctx context.Context, year int) map[string]struct{} {
	c.mu.RLock()
	cached, ok := c.years[year]
	c.mu.RUnlock()

	if ok {
		maxAge := c.ttl
		if cached.degraded {
			maxAge = degradedCacheTTL
		}
		if time.Since(cached.fetchedAt) < maxAge {
			return cached.days
		}
	}

	days := make(map[string]struct{})
	degraded := false

	holidays, err := c.source.HolidaysForYear(ctx, year)
	if err != nil {
		slog.Warn("holiday source unavailable, degrading to weekend-only classification",
			"year", year, "error", err)
		degraded = true
	} else {
		for _, h := range holidays {
			days[dateKey(h)] = struct{}{}
		}
	}

	c.mu.Lock()
	c.years[year] = yearCache{days: days, fetchedAt: time.Now(), degraded: degraded}
	c.mu.Unlock()

	return days
}

// IsHoliday reports whether date falls on a known holiday.
func (c *BusinessCalendar) IsHoliday(ctx context.Context, date time.Time) bool {
	days := c.holidaysFor(ctx, date.Year())
	_, ok := days[dateKey(date)]
	return ok
}

// IsWeekend reports whether date is a Saturday or Sunday.
func IsWeekend(date time.Time) bool {
	wd := date.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}

// IsBusinessDay reports whether date is a weekday that is not a holiday.
func (c *BusinessCalendar) IsBusinessDay(ctx context.Context, date time.Time) bool {
	return !IsWeekend(date) && !c.IsHoliday(ctx, date)
}

// AddBusinessDays advances start one day at a time until n business days
// have been counted and returns the resulting date.
func (c *BusinessCalendar) AddBusinessDays(ctx context.Context, start time.Time, n int) time.Time {
	cur := start
	for counted := 0; counted < n; {
		cur = cur.AddDate(0, 0, 1)
		if c.IsBusinessDay(ctx, cur) {
			counted++
		}
	}
	return cur
}

func nextDayWindowStart(t time.Time) time.Time {
	next := t.AddDate(0, 0, 1)
	return time.Date(next.Year(), next.Month(), next.Day(), workDayStartHour, 0, 0, 0, t.Location())
}

// AddBusinessMinutes consumes minutes of business time starting at start.
// Each business day contributes an 8-hour window beginning at 08:00;
// non-business days are skipped by jumping to the next day's 08:00.
func (c *BusinessCalendar) AddBusinessMinutes(ctx context.Context, start time.Time, minutes int) time.Time {
	cur := start
	remaining := minutes

	for remaining > 0 {
		if !c.IsBusinessDay(ctx, cur) {
			cur = nextDayWindowStart(cur)
			continue
		}

		windowStart := time.Date(cur.Year(), cur.Month(), cur.Day(), workDayStartHour, 0, 0, 0, cur.Location())
		windowEnd := windowStart.Add(businessMinutesPerDay * time.Minute)

		if cur.Before(windowStart) {
			cur = windowStart
		}
		if !cur.Before(windowEnd) {
			cur = nextDayWindowStart(cur)
			continue
		}

		available := int(windowEnd.Sub(cur).Minutes())
		if remaining <= available {
			return cur.Add(time.Duration(remaining) * time.Minute)
		}

		remaining -= available
		cur = nextDayWindowStart(cur)
	}

	return cur
}

// BusinessMinutesBetween counts whole business days in the inclusive date
// range [start, end] and multiplies by 480. Time-of-day is intentionally
// ignored: this is a day-granularity approximation, kept as-is because SLA
// deadlines elsewhere are quoted in whole business days.
func (c *BusinessCalendar) BusinessMinutesBetween(ctx context.Context, start, end time.Time) int {
	startDay := time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, start.Location())
	endDay := time.Date(end.Year(), end.Month(), end.Day(), 0, 0, 0, 0, end.Location())

	if endDay.Before(startDay) {
		return 0
	}

	days := 0
	for cur := startDay; !cur.After(endDay); cur = cur.AddDate(0, 0, 1) {
		if c.IsBusinessDay(ctx, cur) {
			days++
		}
	}

	return days * businessMinutesPerDay
}
