package calendar

import (
	"context"
	"reflect"
	"testing"
	"time"

	"github.com/shopagenda/shopagenda/internal/model"
	"github.com/shopagenda/shopagenda/internal/slot"
	"github.com/shopagenda/shopagenda/internal/storage"
)

func seed(t *testing.T, store *storage.MemoryStore, id, slotTok string, date time.Time, status model.Status) {
	t.Helper()
	appt := model.Appointment{
		ID:          id,
		ClientName:  "Ana",
		ClientPhone: "555-0101",
		Vehicle:     "VW Gol 2015",
		Service:     "brake inspection",
		Date:        model.DateOf(date),
		Slot:        slotTok,
		Status:      model.StatusScheduled,
		CreatedAt:   time.Now().UTC(),
	}
	if err := store.Create(context.Background(), appt); err != nil {
		t.Fatalf("seed %s: %v", id, err)
	}
	cur := model.StatusScheduled
	for cur != status {
		next := model.StatusConfirmed
		switch cur {
		case model.StatusConfirmed:
			next = model.StatusInProgress
		case model.StatusInProgress:
			next = model.StatusCompleted
		}
		if status == model.StatusCancelled {
			next = model.StatusCancelled
		}
		if _, err := store.UpdateStatus(context.Background(), id, next); err != nil {
			t.Fatalf("seed transition %s -> %s: %v", cur, next, err)
		}
		cur = next
	}
}

func TestDayView_Completeness(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemoryStore()
	p := NewProjector(store)
	date := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)

	seed(t, store, "a1", "09:00", date, model.StatusScheduled)
	seed(t, store, "a2", "13:00", date, model.StatusCancelled)

	entries, err := p.DayView(ctx, date)
	if err != nil {
		t.Fatalf("DayView failed: %v", err)
	}
	if len(entries) != slot.Count() {
		t.Fatalf("expected %d entries, got %d", slot.Count(), len(entries))
	}
	for i, tok := range slot.Slots() {
		if entries[i].Slot != tok {
			t.Fatalf("entry %d: expected slot %s, got %s", i, tok, entries[i].Slot)
		}
	}

	byTok := map[string]DayEntry{}
	for _, e := range entries {
		byTok[e.Slot] = e
	}
	if byTok["09:00"].Available || byTok["09:00"].Appointment == nil {
		t.Fatal("09:00 should be occupied by the scheduled appointment")
	}
	if !byTok["13:00"].Available || byTok["13:00"].Appointment != nil {
		t.Fatal("13:00 was cancelled and should be available")
	}
	if !byTok["10:00"].Available {
		t.Fatal("untouched slot should be available")
	}
}

func TestWeekView_CrossesMonthBoundary(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemoryStore()
	p := NewProjector(store)

	// 2024-01-31 is a Wednesday: its week runs Sun Jan 28 .. Sat Feb 3.
	ref := time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC)
	seed(t, store, "jan", "09:00", time.Date(2024, 1, 29, 0, 0, 0, 0, time.UTC), model.StatusScheduled)
	seed(t, store, "feb", "14:00", time.Date(2024, 2, 2, 0, 0, 0, 0, time.UTC), model.StatusConfirmed)

	view, err := p.WeekView(ctx, ref)
	if err != nil {
		t.Fatalf("WeekView failed: %v", err)
	}
	if len(view.Days) != 7 {
		t.Fatalf("expected 7 days, got %d", len(view.Days))
	}
	if got := view.Days[0]; !got.Equal(time.Date(2024, 1, 28, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("expected week to start 2024-01-28, got %s", got)
	}
	if got := view.Days[6]; !got.Equal(time.Date(2024, 2, 3, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("expected week to end 2024-02-03, got %s", got)
	}
	if len(view.Slots) != slot.Count() {
		t.Fatalf("expected %d slots, got %d", slot.Count(), len(view.Slots))
	}

	// Monday Jan 29 09:00 and Friday Feb 2 14:00 are occupied.
	if appt := view.Grid[1][slot.Index("09:00")]; appt == nil || appt.ID != "jan" {
		t.Fatalf("expected jan appointment at [1][09:00], got %+v", appt)
	}
	if appt := view.Grid[5][slot.Index("14:00")]; appt == nil || appt.ID != "feb" {
		t.Fatalf("expected feb appointment at [5][14:00], got %+v", appt)
	}
	if appt := view.Grid[0][0]; appt != nil {
		t.Fatalf("expected empty cell, got %+v", appt)
	}
}

func TestMonthView_GridShape(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemoryStore()
	p := NewProjector(store)
	ref := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)

	seed(t, store, "a1", "09:00", ref, model.StatusScheduled)
	seed(t, store, "a2", "09:30", ref, model.StatusCompleted)

	cells, err := p.MonthView(ctx, ref)
	if err != nil {
		t.Fatalf("MonthView failed: %v", err)
	}
	if len(cells) != MonthGridDays {
		t.Fatalf("expected %d cells, got %d", MonthGridDays, len(cells))
	}
	if !cells[0].Date.Equal(time.Date(2023, 12, 31, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("expected grid to start 2023-12-31, got %s", cells[0].Date)
	}
	for i := 1; i < len(cells); i++ {
		if !cells[i].Date.Equal(cells[i-1].Date.AddDate(0, 0, 1)) {
			t.Fatal("cells must be consecutive days")
		}
	}

	inMonth := 0
	for _, c := range cells {
		if c.InReferenceMonth {
			inMonth++
		}
	}
	if inMonth != 31 {
		t.Fatalf("expected 31 January cells, got %d", inMonth)
	}
	if cells[0].InReferenceMonth {
		t.Fatal("2023-12-31 is not in the reference month")
	}

	// The 15th carries the full appointment set, terminal statuses included.
	var day15 MonthCell
	for _, c := range cells {
		if c.Date.Equal(ref) {
			day15 = c
		}
	}
	if len(day15.Appointments) != 2 {
		t.Fatalf("expected 2 appointments on the 15th, got %d", len(day15.Appointments))
	}
}

func TestMonthView_Deterministic(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemoryStore()
	p := NewProjector(store)
	ref := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)

	seed(t, store, "a1", "09:00", ref, model.StatusScheduled)
	seed(t, store, "a2", "10:00", ref.AddDate(0, 0, 2), model.StatusConfirmed)

	first, err := p.MonthView(ctx, ref)
	if err != nil {
		t.Fatalf("first MonthView failed: %v", err)
	}
	second, err := p.MonthView(ctx, ref)
	if err != nil {
		t.Fatalf("second MonthView failed: %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Fatal("MonthView is not deterministic for identical inputs")
	}
}
