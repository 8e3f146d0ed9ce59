package handlers

import (
	"net/http"

	"github.com/shopagenda/shopagenda/internal/calendar"
	"github.com/shopagenda/shopagenda/internal/model"
)

type dayEntryDTO struct {
	Slot        string          `json:"slot"`
	Available   bool            `json:"available"`
	Appointment *appointmentDTO `json:"appointment,omitempty"`
}

type weekViewDTO struct {
	Days  []string            `json:"days"`
	Slots []string            `json:"slots"`
	Grid  [][]*appointmentDTO `json:"grid"`
}

type monthCellDTO struct {
	Date             string           `json:"date"`
	InReferenceMonth bool             `json:"in_reference_month"`
	Appointments     []appointmentDTO `json:"appointments"`
}

func (h *AppointmentHandler) CalendarDay(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	date, ok := dateParam(w, r)
	if !ok {
		return
	}

	entries, err := h.svc.DayView(r.Context(), date)
	if err != nil {
		h.writeDomainError(w, err)
		return
	}

	items := make([]dayEntryDTO, 0, len(entries))
	for _, e := range entries {
		item := dayEntryDTO{Slot: e.Slot, Available: e.Available}
		if e.Appointment != nil {
			dto := toDTO(*e.Appointment)
			item.Appointment = &dto
		}
		items = append(items, item)
	}
	writeJSON(w, http.StatusOK, items)
}

func (h *AppointmentHandler) CalendarWeek(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	ref, ok := dateParam(w, r)
	if !ok {
		return
	}

	view, err := h.svc.WeekView(r.Context(), ref)
	if err != nil {
		h.writeDomainError(w, err)
		return
	}

	dto := weekViewDTO{
		Days:  make([]string, 0, len(view.Days)),
		Slots: view.Slots,
		Grid:  make([][]*appointmentDTO, 0, len(view.Grid)),
	}
	for _, day := range view.Days {
		dto.Days = append(dto.Days, day.Format(model.DateLayout))
	}
	for _, row := range view.Grid {
		cells := make([]*appointmentDTO, len(row))
		for i, appt := range row {
			if appt != nil {
				cell := toDTO(*appt)
				cells[i] = &cell
			}
		}
		dto.Grid = append(dto.Grid, cells)
	}
	writeJSON(w, http.StatusOK, dto)
}

func (h *AppointmentHandler) CalendarMonth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	ref, ok := dateParam(w, r)
	if !ok {
		return
	}

	cells, err := h.svc.MonthView(r.Context(), ref)
	if err != nil {
		h.writeDomainError(w, err)
		return
	}

	items := make([]monthCellDTO, 0, calendar.MonthGridDays)
	for _, cell := range cells {
		item := monthCellDTO{
			Date:             cell.Date.Format(model.DateLayout),
			InReferenceMonth: cell.InReferenceMonth,
			Appointments:     make([]appointmentDTO, 0, len(cell.Appointments)),
		}
		for _, appt := range cell.Appointments {
			item.Appointments = append(item.Appointments, toDTO(appt))
		}
		items = append(items, item)
	}
	writeJSON(w, http.StatusOK, items)
}
