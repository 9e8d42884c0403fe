package http

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/fieldops/timetrack-backend-go/internal/domain/journey"
	"github.com/fieldops/timetrack-backend-go/internal/handler/http/response"
	"github.com/fieldops/timetrack-backend-go/internal/pkg/jwt"
	"github.com/fieldops/timetrack-backend-go/internal/pkg/validator"
	"github.com/go-chi/chi/v5"
)

type JourneyHandler interface {
	CalculateDay(w http.ResponseWriter, r *http.Request)
	CalculateMonth(w http.ResponseWriter, r *http.Request)
	GetMonthSummary(w http.ResponseWriter, r *http.Request)
	GetHourBankBalance(w http.ResponseWriter, r *http.Request)
}

type journeyHandlerImpl struct {
	journeyService journey.Service
}

func NewJourneyHandler(journeyService journey.Service) JourneyHandler {
	return &journeyHandlerImpl{
		journeyService: journeyService,
	}
}

// CalculateDay implements JourneyHandler.
func (h *journeyHandlerImpl) CalculateDay(w http.ResponseWriter, r *http.Request) {
	identity, err := jwt.FromContext(r.Context())
	if err != nil {
		response.Unauthorized(w, err.Error())
		return
	}

	var req journey.CalculateDayRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	req.TenantID = identity.TenantID

	date, err := req.Validate()
	if err != nil {
		response.HandleError(w, err)
		return
	}

	entry, err := h.journeyService.CalculateDay(r.Context(), req.UserID, req.TenantID, date)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Journey calculated", journey.NewEntryResponse(entry))
}

// CalculateMonth implements JourneyHandler.
func (h *journeyHandlerImpl) CalculateMonth(w http.ResponseWriter, r *http.Request) {
	identity, err := jwt.FromContext(r.Context())
	if err != nil {
		response.Unauthorized(w, err.Error())
		return
	}

	var req journey.CalculateMonthRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	req.TenantID = identity.TenantID

	month, err := req.Validate()
	if err != nil {
		response.HandleError(w, err)
		return
	}

	entries, err := h.journeyService.CalculateMonth(r.Context(), req.UserID, req.TenantID, month)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	results := make([]journey.EntryResponse, 0, len(entries))
	for _, entry := range entries {
		results = append(results, journey.NewEntryResponse(entry))
	}

	response.SuccessWithMessage(w, "Month calculated", results)
}

// GetMonthSummary implements JourneyHandler.
func (h *journeyHandlerImpl) GetMonthSummary(w http.ResponseWriter, r *http.Request) {
	if _, err := jwt.FromContext(r.Context()); err != nil {
		response.Unauthorized(w, err.Error())
		return
	}

	userID := chi.URLParam(r, "userID")
	if !validator.IsValidUUID(userID) {
		response.BadRequest(w, "Invalid user ID", nil)
		return
	}

	month, err := time.Parse("2006-01", chi.URLParam(r, "yearMonth"))
	if err != nil {
		response.BadRequest(w, "year_month must be in YYYY-MM format", nil)
		return
	}

	summary, err := h.journeyService.GetMonthSummary(r.Context(), userID, month)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, summary)
}

// GetHourBankBalance implements JourneyHandler.
func (h *journeyHandlerImpl) GetHourBankBalance(w http.ResponseWriter, r *http.Request) {
	if _, err := jwt.FromContext(r.Context()); err != nil {
		response.Unauthorized(w, err.Error())
		return
	}

	userID := chi.URLParam(r, "userID")
	if !validator.IsValidUUID(userID) {
		response.BadRequest(w, "Invalid user ID", nil)
		return
	}

	balance, err := h.journeyService.GetHourBankBalance(r.Context(), userID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, map[string]string{
		"user_id": userID,
		"balance": balance.StringFixed(2),
	})
}
