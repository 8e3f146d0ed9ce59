package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/shopagenda/shopagenda/internal/model"
	"github.com/shopagenda/shopagenda/internal/scheduling"
)

type AppointmentHandler struct {
	svc    *scheduling.Service
	logger *slog.Logger
	idem   *Idempotency
}

// NewAppointmentHandler wires the HTTP surface. idem may be nil, in which
// case Idempotency-Key headers are ignored.
func NewAppointmentHandler(svc *scheduling.Service, logger *slog.Logger, idem *Idempotency) *AppointmentHandler {
	return &AppointmentHandler{svc: svc, logger: logger, idem: idem}
}

type bookRequest struct {
	ClientName          string `json:"client_name"`
	ClientPhone         string `json:"client_phone"`
	Vehicle             string `json:"vehicle"`
	Service             string `json:"service"`
	Date                string `json:"date"`
	Slot                string `json:"slot"`
	EstimatedValueCents *int64 `json:"estimated_value_cents"`
	Notes               string `json:"notes"`
}

type bookResponse struct {
	AppointmentID string `json:"appointment_id"`
}

type appointmentDTO struct {
	AppointmentID       string `json:"appointment_id"`
	ClientName          string `json:"client_name"`
	ClientPhone         string `json:"client_phone"`
	Vehicle             string `json:"vehicle"`
	Service             string `json:"service"`
	Date                string `json:"date"`
	Slot                string `json:"slot"`
	Status              string `json:"status"`
	EstimatedValueCents *int64 `json:"estimated_value_cents,omitempty"`
	Notes               string `json:"notes,omitempty"`
	CreatedAt           string `json:"created_at"`
}

func toDTO(appt model.Appointment) appointmentDTO {
	return appointmentDTO{
		AppointmentID:       appt.ID,
		ClientName:          appt.ClientName,
		ClientPhone:         appt.ClientPhone,
		Vehicle:             appt.Vehicle,
		Service:             appt.Service,
		Date:                appt.Date.Format(model.DateLayout),
		Slot:                appt.Slot,
		Status:              string(appt.Status),
		EstimatedValueCents: appt.EstimatedValueCents,
		Notes:               appt.Notes,
		CreatedAt:           appt.CreatedAt.UTC().Format(time.RFC3339),
	}
}

func (h *AppointmentHandler) Book(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req bookRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid json body", http.StatusBadRequest)
		return
	}

	ctx := r.Context()
	idemKey := strings.TrimSpace(r.Header.Get("Idempotency-Key"))
	if h.idem != nil && idemKey != "" {
		if body, ok := h.idem.Lookup(ctx, idemKey); ok {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusCreated)
			_, _ = w.Write(body)
			return
		}
	}

	createReq := scheduling.CreateRequest{
		ClientName:          strings.TrimSpace(req.ClientName),
		ClientPhone:         strings.TrimSpace(req.ClientPhone),
		Vehicle:             strings.TrimSpace(req.Vehicle),
		Service:             strings.TrimSpace(req.Service),
		Slot:                strings.TrimSpace(req.Slot),
		EstimatedValueCents: req.EstimatedValueCents,
		Notes:               strings.TrimSpace(req.Notes),
	}
	if raw := strings.TrimSpace(req.Date); raw != "" {
		date, err := model.ParseDate(raw)
		if err != nil {
			writeValidation(w, &model.ValidationError{Fields: []string{"date"}})
			return
		}
		createReq.Date = date
	}

	appt, err := h.svc.Create(ctx, createReq)
	if err != nil {
		h.writeDomainError(w, err)
		return
	}

	body, err := json.Marshal(bookResponse{AppointmentID: appt.ID})
	if err != nil {
		http.Error(w, "failed to build response", http.StatusInternalServerError)
		return
	}
	if h.idem != nil && idemKey != "" {
		h.idem.Store(ctx, idemKey, body)
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	_, _ = w.Write(body)
}

func (h *AppointmentHandler) Get(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	id := strings.TrimSpace(r.URL.Query().Get("id"))
	if id == "" {
		http.Error(w, "id required", http.StatusBadRequest)
		return
	}

	appt, err := h.svc.Get(r.Context(), id)
	if err != nil {
		h.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toDTO(appt))
}

func (h *AppointmentHandler) List(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	date, ok := dateParam(w, r)
	if !ok {
		return
	}

	appts, err := h.svc.ListByDate(r.Context(), date)
	if err != nil {
		h.writeDomainError(w, err)
		return
	}
	items := make([]appointmentDTO, 0, len(appts))
	for _, appt := range appts {
		items = append(items, toDTO(appt))
	}
	writeJSON(w, http.StatusOK, items)
}

type statusRequest struct {
	AppointmentID string `json:"appointment_id"`
	Status        string `json:"status"`
}

func (h *AppointmentHandler) Status(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req statusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid json body", http.StatusBadRequest)
		return
	}
	req.AppointmentID = strings.TrimSpace(req.AppointmentID)
	req.Status = strings.TrimSpace(req.Status)
	if req.AppointmentID == "" || req.Status == "" {
		http.Error(w, "appointment_id and status required", http.StatusBadRequest)
		return
	}

	appt, err := h.svc.TransitionStatus(r.Context(), req.AppointmentID, model.Status(req.Status))
	if err != nil {
		h.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toDTO(appt))
}

func (h *AppointmentHandler) writeDomainError(w http.ResponseWriter, err error) {
	if ve, ok := model.AsValidation(err); ok {
		writeValidation(w, ve)
		return
	}
	switch {
	case errors.Is(err, model.ErrSlotUnavailable):
		http.Error(w, "time slot already booked", http.StatusConflict)
	case errors.Is(err, model.ErrNotFound):
		http.Error(w, "appointment not found", http.StatusNotFound)
	case errors.Is(err, model.ErrInvalidTransition):
		http.Error(w, "status transition not permitted", http.StatusConflict)
	default:
		h.logger.Error("request failed", "err", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

func writeValidation(w http.ResponseWriter, ve *model.ValidationError) {
	writeJSON(w, http.StatusBadRequest, map[string]any{
		"error":  "missing or invalid fields",
		"fields": ve.Fields,
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	body, err := json.Marshal(v)
	if err != nil {
		http.Error(w, "failed to build response", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(body)
}

func dateParam(w http.ResponseWriter, r *http.Request) (time.Time, bool) {
	raw := strings.TrimSpace(r.URL.Query().Get("date"))
	if raw == "" {
		http.Error(w, "date required (YYYY-MM-DD)", http.StatusBadRequest)
		return time.Time{}, false
	}
	date, err := model.ParseDate(raw)
	if err != nil {
		http.Error(w, "invalid date (want YYYY-MM-DD)", http.StatusBadRequest)
		return time.Time{}, false
	}
	return date, true
}
