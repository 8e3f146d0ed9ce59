// Package calendar builds month, week and day views from the appointment
// store. Projections are read-only and deterministic: identical inputs yield
// identical output.
package calendar

import (
	"context"
	"time"

	"github.com/shopagenda/shopagenda/internal/model"
	"github.com/shopagenda/shopagenda/internal/slot"
)

// Reader is the store surface projections need.
type Reader interface {
	ListByDate(ctx context.Context, date time.Time) ([]model.Appointment, error)
	ListByDateRange(ctx context.Context, start, end time.Time) ([]model.Appointment, error)
}

type Projector struct {
	store Reader
}

func NewProjector(store Reader) *Projector {
	return &Projector{store: store}
}

// DayEntry is one catalog slot of a day view. Appointment is the active
// occupant, nil when the slot is free.
type DayEntry struct {
	Slot        string
	Available   bool
	Appointment *model.Appointment
}

// WeekView covers the Sunday-to-Saturday week containing the reference date.
// Grid is indexed [day][slot] and resolves at most one active appointment per
// cell.
type WeekView struct {
	Days  []time.Time
	Slots []string
	Grid  [][]*model.Appointment
}

// MonthCell is one of the 42 cells of a month view. Appointments carries the
// full set for the date; truncation for display is a UI concern.
type MonthCell struct {
	Date             time.Time
	InReferenceMonth bool
	Appointments     []model.Appointment
}

// DayView returns one entry per catalog slot, in catalog order.
func (p *Projector) DayView(ctx context.Context, date time.Time) ([]DayEntry, error) {
	date = model.DateOf(date)
	appts, err := p.store.ListByDate(ctx, date)
	if err != nil {
		return nil, err
	}

	occupied := make(map[string]*model.Appointment, len(appts))
	for i := range appts {
		if appts[i].Status.Active() {
			occupied[appts[i].Slot] = &appts[i]
		}
	}

	entries := make([]DayEntry, 0, slot.Count())
	for _, tok := range slot.Slots() {
		appt := occupied[tok]
		entries = append(entries, DayEntry{
			Slot:        tok,
			Available:   appt == nil,
			Appointment: appt,
		})
	}
	return entries, nil
}

func (p *Projector) WeekView(ctx context.Context, ref time.Time) (WeekView, error) {
	start := WeekStart(ref)
	end := start.AddDate(0, 0, WeekDays-1)
	appts, err := p.store.ListByDateRange(ctx, start, end)
	if err != nil {
		return WeekView{}, err
	}

	view := WeekView{
		Days:  make([]time.Time, WeekDays),
		Slots: slot.Slots(),
		Grid:  make([][]*model.Appointment, WeekDays),
	}
	dayIndex := make(map[string]int, WeekDays)
	for i := range view.Days {
		view.Days[i] = start.AddDate(0, 0, i)
		view.Grid[i] = make([]*model.Appointment, slot.Count())
		dayIndex[view.Days[i].Format(model.DateLayout)] = i
	}

	for i := range appts {
		if !appts[i].Status.Active() {
			continue
		}
		d, ok := dayIndex[appts[i].Date.Format(model.DateLayout)]
		if !ok {
			continue
		}
		s := slot.Index(appts[i].Slot)
		if s < 0 {
			continue
		}
		view.Grid[d][s] = &appts[i]
	}
	return view, nil
}

// MonthView returns the 42-cell grid spanning from the Sunday on or before
// the first of ref's month through 41 days later.
func (p *Projector) MonthView(ctx context.Context, ref time.Time) ([]MonthCell, error) {
	start := MonthGridStart(ref)
	end := start.AddDate(0, 0, MonthGridDays-1)
	appts, err := p.store.ListByDateRange(ctx, start, end)
	if err != nil {
		return nil, err
	}

	byDate := make(map[string][]model.Appointment)
	for _, appt := range appts {
		key := appt.Date.Format(model.DateLayout)
		byDate[key] = append(byDate[key], appt)
	}

	refMonth := model.DateOf(ref).Month()
	cells := make([]MonthCell, MonthGridDays)
	for i := range cells {
		date := start.AddDate(0, 0, i)
		cells[i] = MonthCell{
			Date:             date,
			InReferenceMonth: date.Month() == refMonth,
			Appointments:     byDate[date.Format(model.DateLayout)],
		}
	}
	return cells, nil
}
