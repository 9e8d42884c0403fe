package http

import (
	"net/http"
	"strconv"
	"time"

	"github.com/fieldops/timetrack-backend-go/internal/handler/http/response"
	"github.com/fieldops/timetrack-backend-go/internal/pkg/calendar"
)

type CalendarHandler interface {
	IsBusinessDay(w http.ResponseWriter, r *http.Request)
	AddBusinessDays(w http.ResponseWriter, r *http.Request)
	AddBusinessMinutes(w http.ResponseWriter, r *http.Request)
	BusinessMinutesBetween(w http.ResponseWriter, r *http.Request)
}

type calendarHandlerImpl struct {
	cal *calendar.BusinessCalendar
}

func NewCalendarHandler(cal *calendar.BusinessCalendar) CalendarHandler {
	return &calendarHandlerImpl{cal: cal}
}

func parseDateParam(r *http.Request, name string) (time.Time, bool) {
	value := r.URL.Query().Get(name)
	if value == "" {
		return time.Time{}, false
	}
	date, err := time.Parse("2006-01-02", value)
	if err != nil {
		return time.Time{}, false
	}
	return date, true
}

func parseDateTimeParam(r *http.Request, name string) (time.Time, bool) {
	value := r.URL.Query().Get(name)
	if value == "" {
		return time.Time{}, false
	}
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// IsBusinessDay implements CalendarHandler.
func (h *calendarHandlerImpl) IsBusinessDay(w http.ResponseWriter, r *http.Request) {
	date, ok := parseDateParam(r, "date")
	if !ok {
		response.BadRequest(w, "Query parameter 'date' must be in YYYY-MM-DD format", nil)
		return
	}

	response.Success(w, map[string]interface{}{
		"date":            date.Format("2006-01-02"),
		"is_business_day": h.cal.IsBusinessDay(r.Context(), date),
		"is_weekend":      calendar.IsWeekend(date),
		"is_holiday":      h.cal.IsHoliday(r.Context(), date),
	})
}

// AddBusinessDays implements CalendarHandler.
func (h *calendarHandlerImpl) AddBusinessDays(w http.ResponseWriter, r *http.Request) {
	date, ok := parseDateParam(r, "date")
	if !ok {
		response.BadRequest(w, "Query parameter 'date' must be in YYYY-MM-DD format", nil)
		return
	}

	days, err := strconv.Atoi(r.URL.Query().Get("days"))
	if err != nil || days < 0 {
		response.BadRequest(w, "Query parameter 'days' must be a non-negative integer", nil)
		return
	}

	result := h.cal.AddBusinessDays(r.Context(), date, days)
	response.Success(w, map[string]string{
		"result": result.Format("2006-01-02"),
	})
}

// AddBusinessMinutes implements CalendarHandler.
func (h *calendarHandlerImpl) AddBusinessMinutes(w http.ResponseWriter, r *http.Request) {
	start, ok := parseDateTimeParam(r, "start")
	if !ok {
		response.BadRequest(w, "Query parameter 'start' must be an RFC3339 timestamp", nil)
		return
	}

	minutes, err := strconv.Atoi(r.URL.Query().Get("minutes"))
	if err != nil || minutes < 0 {
		response.BadRequest(w, "Query parameter 'minutes' must be a non-negative integer", nil)
		return
	}

	result := h.cal.AddBusinessMinutes(r.Context(), start, minutes)
	response.Success(w, map[string]string{
		"result": result.Format(time.RFC3339),
	})
}

// BusinessMinutesBetween implements CalendarHandler.
func (h *calendarHandlerImpl) BusinessMinutesBetween(w http.ResponseWriter, r *http.Request) {
	start, ok := parseDateParam(r, "start")
	if !ok {
		response.BadRequest(w, "Query parameter 'start' must be in YYYY-MM-DD format", nil)
		return
	}
	end, ok := parseDateParam(r, "end")
	if !ok {
		response.BadRequest(w, "Query parameter 'end' must be in YYYY-MM-DD format", nil)
		return
	}

	response.Success(w, map[string]int{
		"business_minutes": h.cal.BusinessMinutesBetween(r.Context(), start, end),
	})
}
