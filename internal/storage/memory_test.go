package storage

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopagenda/shopagenda/internal/model"
)

func newAppointment(id, slotTok string, date time.Time) model.Appointment {
	return model.Appointment{
		ID:          id,
		ClientName:  "Ana",
		ClientPhone: "555-0101",
		Vehicle:     "VW Gol 2015",
		Service:     "oil change",
		Date:        model.DateOf(date),
		Slot:        slotTok,
		Status:      model.StatusScheduled,
		CreatedAt:   time.Now().UTC(),
	}
}

func TestMemoryStore_CreateGetRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	date := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)

	appt := newAppointment("a1", "09:00", date)
	if err := store.Create(ctx, appt); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	got, err := store.Get(ctx, "a1")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got.ClientName != appt.ClientName || got.Slot != appt.Slot || !got.Date.Equal(appt.Date) {
		t.Fatalf("round trip mismatch: %+v vs %+v", got, appt)
	}
	if got.Status != model.StatusScheduled {
		t.Fatalf("expected scheduled, got %s", got.Status)
	}
}

func TestMemoryStore_SlotConflict(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	date := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)

	if err := store.Create(ctx, newAppointment("a1", "09:00", date)); err != nil {
		t.Fatalf("first Create failed: %v", err)
	}
	err := store.Create(ctx, newAppointment("a2", "09:00", date))
	if !errors.Is(err, model.ErrSlotUnavailable) {
		t.Fatalf("expected ErrSlotUnavailable, got %v", err)
	}

	// Other slots and other dates stay bookable.
	if err := store.Create(ctx, newAppointment("a3", "09:30", date)); err != nil {
		t.Fatalf("different slot should book: %v", err)
	}
	if err := store.Create(ctx, newAppointment("a4", "09:00", date.AddDate(0, 0, 1))); err != nil {
		t.Fatalf("different date should book: %v", err)
	}
}

func TestMemoryStore_CancelFreesSlot(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	date := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)

	if err := store.Create(ctx, newAppointment("a1", "09:00", date)); err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if _, err := store.UpdateStatus(ctx, "a1", model.StatusCancelled); err != nil {
		t.Fatalf("cancel failed: %v", err)
	}
	if err := store.Create(ctx, newAppointment("a2", "09:00", date)); err != nil {
		t.Fatalf("cancelled slot should be bookable again: %v", err)
	}

	// The cancelled record is kept for history.
	got, err := store.Get(ctx, "a1")
	if err != nil {
		t.Fatalf("Get after cancel failed: %v", err)
	}
	if got.Status != model.StatusCancelled {
		t.Fatalf("expected cancelled, got %s", got.Status)
	}
}

func TestMemoryStore_CompletedFreesSlot(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	date := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)

	if err := store.Create(ctx, newAppointment("a1", "09:00", date)); err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	for _, target := range []model.Status{model.StatusConfirmed, model.StatusInProgress, model.StatusCompleted} {
		if _, err := store.UpdateStatus(ctx, "a1", target); err != nil {
			t.Fatalf("transition to %s failed: %v", target, err)
		}
	}
	if err := store.Create(ctx, newAppointment("a2", "09:00", date)); err != nil {
		t.Fatalf("completed slot should not block: %v", err)
	}
}

func TestMemoryStore_UpdateStatusErrors(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	if _, err := store.UpdateStatus(ctx, "missing", model.StatusConfirmed); !errors.Is(err, model.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	date := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)
	if err := store.Create(ctx, newAppointment("a1", "09:00", date)); err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if _, err := store.UpdateStatus(ctx, "a1", model.StatusInProgress); !errors.Is(err, model.ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition, got %v", err)
	}
	// The failed transition must not free or change anything.
	got, _ := store.Get(ctx, "a1")
	if got.Status != model.StatusScheduled {
		t.Fatalf("status should be unchanged, got %s", got.Status)
	}
}

func TestMemoryStore_ListByDateRange(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	base := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)

	for i := 0; i < 5; i++ {
		appt := newAppointment(uuid.NewString(), "09:00", base.AddDate(0, 0, i))
		if err := store.Create(ctx, appt); err != nil {
			t.Fatalf("Create %d failed: %v", i, err)
		}
	}

	appts, err := store.ListByDateRange(ctx, base.AddDate(0, 0, 1), base.AddDate(0, 0, 3))
	if err != nil {
		t.Fatalf("ListByDateRange failed: %v", err)
	}
	if len(appts) != 3 {
		t.Fatalf("expected 3 appointments in range, got %d", len(appts))
	}
	for i := 1; i < len(appts); i++ {
		if appts[i].Date.Before(appts[i-1].Date) {
			t.Fatal("range listing not ordered by date")
		}
	}
}

func TestMemoryStore_ConcurrentCreateSameSlot(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	date := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)

	const racers = 32
	var wg sync.WaitGroup
	errs := make([]error, racers)
	for i := 0; i < racers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs[i] = store.Create(ctx, newAppointment(uuid.NewString(), "10:00", date))
		}(i)
	}
	wg.Wait()

	wins := 0
	for _, err := range errs {
		switch {
		case err == nil:
			wins++
		case errors.Is(err, model.ErrSlotUnavailable):
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if wins != 1 {
		t.Fatalf("expected exactly 1 winner, got %d", wins)
	}
}
