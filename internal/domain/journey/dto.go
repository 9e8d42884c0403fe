package journey

import (
	"time"

	"github.com/fieldops/timetrack-backend-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

// ========================================
// JOURNEY DTOs
// ========================================

type CalculateDayRequest struct {
	UserID   string `json:"user_id"`
	TenantID string `json:"-"`
	Date     string `json:"date"` // "2006-01-02"
}

func (r *CalculateDayRequest) Validate() (time.Time, error) {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.UserID) {
		errs = append(errs, validator.ValidationError{
			Field:   "user_id",
			Message: "user_id is required",
		})
	}

	date, ok := validator.IsValidDate(r.Date)
	if !ok {
		errs = append(errs, validator.ValidationError{
			Field:   "date",
			Message: "date must be in YYYY-MM-DD format",
		})
	}

	if len(errs) > 0 {
		return time.Time{}, errs
	}
	return date, nil
}

type CalculateMonthRequest struct {
	UserID    string `json:"user_id"`
	TenantID  string `json:"-"`
	YearMonth string `json:"year_month"` // "2006-01"
}

func (r *CalculateMonthRequest) Validate() (time.Time, error) {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.UserID) {
		errs = append(errs, validator.ValidationError{
			Field:   "user_id",
			Message: "user_id is required",
		})
	}

	month, err := time.Parse("2006-01", r.YearMonth)
	if err != nil {
		errs = append(errs, validator.ValidationError{
			Field:   "year_month",
			Message: "year_month must be in YYYY-MM format",
		})
	}

	if len(errs) > 0 {
		return time.Time{}, errs
	}
	return month, nil
}

type EntryResponse struct {
	UserID          string `json:"user_id"`
	Date            string `json:"date"`
	ScheduledHours  string `json:"scheduled_hours"`
	WorkedHours     string `json:"worked_hours"`
	Overtime50      string `json:"overtime_50"`
	Overtime100     string `json:"overtime_100"`
	NightHours      string `json:"night_hours"`
	AbsenceHours    string `json:"absence_hours"`
	HourBankDelta   string `json:"hour_bank_delta"`
	HourBankBalance string `json:"hour_bank_balance"`
	IsHoliday       bool   `json:"is_holiday"`
	IsRestDay       bool   `json:"is_rest_day"`
	Status          string `json:"status"`
}

// MonthSummary aggregates a user's persisted entries for one month. The
// hour-bank balance is the last day's balance, not a sum.
type MonthSummary struct {
	UserID          string          `json:"user_id"`
	YearMonth       string          `json:"year_month"`
	DaysComputed    int             `json:"days_computed"`
	ScheduledHours  decimal.Decimal `json:"scheduled_hours"`
	WorkedHours     decimal.Decimal `json:"worked_hours"`
	Overtime50      decimal.Decimal `json:"overtime_50"`
	Overtime100     decimal.Decimal `json:"overtime_100"`
	NightHours      decimal.Decimal `json:"night_hours"`
	AbsenceHours    decimal.Decimal `json:"absence_hours"`
	HourBankBalance decimal.Decimal `json:"hour_bank_balance"`
}

// NewEntryResponse maps a JourneyEntry to its transport shape.
func NewEntryResponse(e JourneyEntry) EntryResponse {
	return EntryResponse{
		UserID:          e.UserID,
		Date:            e.Date.Format("2006-01-02"),
		ScheduledHours:  e.ScheduledHours.StringFixed(2),
		WorkedHours:     e.WorkedHours.StringFixed(2),
		Overtime50:      e.Overtime50.StringFixed(2),
		Overtime100:     e.Overtime100.StringFixed(2),
		NightHours:      e.NightHours.StringFixed(2),
		AbsenceHours:    e.AbsenceHours.StringFixed(2),
		HourBankDelta:   e.HourBankDelta.StringFixed(2),
		HourBankBalance: e.HourBankBalance.StringFixed(2),
		IsHoliday:       e.IsHoliday,
		IsRestDay:       e.IsRestDay,
		Status:          e.Status,
	}
}
