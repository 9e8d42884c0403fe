package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/fieldops/timetrack-backend-go/internal/domain/timeclock"
	"github.com/fieldops/timetrack-backend-go/internal/handler/http/response"
	"github.com/fieldops/timetrack-backend-go/internal/pkg/jwt"
	"github.com/go-chi/chi/v5"
)

type TimeclockHandler interface {
	ClockIn(w http.ResponseWriter, r *http.Request)
	ClockOut(w http.ResponseWriter, r *http.Request)
	AutoClockIn(w http.ResponseWriter, r *http.Request)
	ApproveEntry(w http.ResponseWriter, r *http.Request)
	RejectEntry(w http.ResponseWriter, r *http.Request)
	RequestAdjustment(w http.ResponseWriter, r *http.Request)
	ApproveAdjustment(w http.ResponseWriter, r *http.Request)
	RejectAdjustment(w http.ResponseWriter, r *http.Request)
}

type timeclockHandlerImpl struct {
	timeclockService timeclock.Service
}

func NewTimeclockHandler(timeclockService timeclock.Service) TimeclockHandler {
	return &timeclockHandlerImpl{
		timeclockService: timeclockService,
	}
}

// ClockIn implements TimeclockHandler.
func (h *timeclockHandlerImpl) ClockIn(w http.ResponseWriter, r *http.Request) {
	identity, err := jwt.FromContext(r.Context())
	if err != nil {
		response.Unauthorized(w, err.Error())
		return
	}

	var req timeclock.ClockInRequest

	// Parse multipart form (max 10MB)
	if err := r.ParseMultipartForm(10 << 20); err != nil {
		slog.Error("Failed to parse multipart form", "error", err)
		response.BadRequest(w, "Failed to parse form data", nil)
		return
	}

	// Get JSON data from 'data' field
	dataJSON := r.FormValue("data")
	if dataJSON == "" {
		response.BadRequest(w, "Field 'data' is required", nil)
		return
	}

	if err := json.Unmarshal([]byte(dataJSON), &req); err != nil {
		slog.Error("Failed to unmarshal JSON data", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	file, fileHeader, err := r.FormFile("photo")
	if err != nil {
		if err == http.ErrMissingFile {
			response.BadRequest(w, "Selfie photo is required", nil)
			return
		}
		slog.Error("Failed to get file from form", "error", err)
		response.BadRequest(w, "Invalid file upload", nil)
		return
	}
	defer file.Close()

	req.UserID = identity.UserID
	req.TenantID = identity.TenantID
	req.File = file
	req.FileHeader = fileHeader

	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.timeclockService.ClockIn(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Clock in successful", result)
}

// ClockOut implements TimeclockHandler.
func (h *timeclockHandlerImpl) ClockOut(w http.ResponseWriter, r *http.Request) {
	identity, err := jwt.FromContext(r.Context())
	if err != nil {
		response.Unauthorized(w, err.Error())
		return
	}

	var req timeclock.ClockOutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	req.UserID = identity.UserID
	req.TenantID = identity.TenantID

	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.timeclockService.ClockOut(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Clock out successful", result)
}

// AutoClockIn implements TimeclockHandler.
func (h *timeclockHandlerImpl) AutoClockIn(w http.ResponseWriter, r *http.Request) {
	identity, err := jwt.FromContext(r.Context())
	if err != nil {
		response.Unauthorized(w, err.Error())
		return
	}

	var req timeclock.AutoClockInRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	req.UserID = identity.UserID
	req.TenantID = identity.TenantID

	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.timeclockService.AutoClockIn(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	if result == nil {
		response.SuccessWithMessage(w, "Clock entry already open", nil)
		return
	}

	response.Created(w, "Auto clock in successful", result)
}

// ApproveEntry implements TimeclockHandler.
func (h *timeclockHandlerImpl) ApproveEntry(w http.ResponseWriter, r *http.Request) {
	h.decideEntry(w, r, h.timeclockService.ApproveEntry, "Clock entry approved")
}

// RejectEntry implements TimeclockHandler.
func (h *timeclockHandlerImpl) RejectEntry(w http.ResponseWriter, r *http.Request) {
	h.decideEntry(w, r, h.timeclockService.RejectEntry, "Clock entry rejected")
}

func (h *timeclockHandlerImpl) decideEntry(
	w http.ResponseWriter,
	r *http.Request,
	decide func(ctx context.Context, req timeclock.DecideEntryRequest) (timeclock.ClockEntryResponse, error),
	message string,
) {
	identity, err := jwt.FromContext(r.Context())
	if err != nil {
		response.Unauthorized(w, err.Error())
		return
	}

	var req timeclock.DecideEntryRequest
	if r.Body != nil && r.ContentLength > 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			response.BadRequest(w, "Invalid request format", nil)
			return
		}
	}

	req.ID = chi.URLParam(r, "id")
	req.TenantID = identity.TenantID
	req.ApproverID = identity.UserID

	result, err := decide(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, message, result)
}

// RequestAdjustment implements TimeclockHandler.
func (h *timeclockHandlerImpl) RequestAdjustment(w http.ResponseWriter, r *http.Request) {
	identity, err := jwt.FromContext(r.Context())
	if err != nil {
		response.Unauthorized(w, err.Error())
		return
	}

	var req timeclock.CreateAdjustmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	req.TenantID = identity.TenantID
	req.RequestedBy = identity.UserID

	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.timeclockService.RequestAdjustment(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Adjustment request created", result)
}

// ApproveAdjustment implements TimeclockHandler.
func (h *timeclockHandlerImpl) ApproveAdjustment(w http.ResponseWriter, r *http.Request) {
	h.decideAdjustment(w, r, h.timeclockService.ApproveAdjustment, "Adjustment request approved")
}

// RejectAdjustment implements TimeclockHandler.
func (h *timeclockHandlerImpl) RejectAdjustment(w http.ResponseWriter, r *http.Request) {
	h.decideAdjustment(w, r, h.timeclockService.RejectAdjustment, "Adjustment request rejected")
}

func (h *timeclockHandlerImpl) decideAdjustment(
	w http.ResponseWriter,
	r *http.Request,
	decide func(ctx context.Context, req timeclock.DecideAdjustmentRequest) (timeclock.AdjustmentResponse, error),
	message string,
) {
	identity, err := jwt.FromContext(r.Context())
	if err != nil {
		response.Unauthorized(w, err.Error())
		return
	}

	var req timeclock.DecideAdjustmentRequest
	if r.Body != nil && r.ContentLength > 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			response.BadRequest(w, "Invalid request format", nil)
			return
		}
	}

	req.ID = chi.URLParam(r, "id")
	req.TenantID = identity.TenantID
	req.ApproverID = identity.UserID

	result, err := decide(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, message, result)
}
