package storage

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/shopagenda/shopagenda/internal/model"
	"github.com/shopagenda/shopagenda/internal/slot"
)

// MemoryStore is a mutex-guarded in-memory store with an explicit
// (date, slot) -> id conflict index. It backs unit tests and single-process
// deployments; the index is maintained in the same critical section as every
// write, so Create is atomic with respect to availability.
type MemoryStore struct {
	mu    sync.Mutex
	byID  map[string]model.Appointment
	index map[string]string // dateKey(date, slot) -> appointment id, active only
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		byID:  make(map[string]model.Appointment),
		index: make(map[string]string),
	}
}

func slotKey(date time.Time, tok string) string {
	return date.Format(model.DateLayout) + "/" + tok
}

func (s *MemoryStore) Create(_ context.Context, appt model.Appointment) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := slotKey(appt.Date, appt.Slot)
	if _, taken := s.index[key]; taken {
		return model.ErrSlotUnavailable
	}
	s.byID[appt.ID] = appt
	if appt.Status.Active() {
		s.index[key] = appt.ID
	}
	return nil
}

func (s *MemoryStore) Get(_ context.Context, id string) (model.Appointment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	appt, ok := s.byID[id]
	if !ok {
		return model.Appointment{}, model.ErrNotFound
	}
	return appt, nil
}

func (s *MemoryStore) UpdateStatus(_ context.Context, id string, target model.Status) (model.Appointment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	appt, ok := s.byID[id]
	if !ok {
		return model.Appointment{}, model.ErrNotFound
	}
	appt, err := model.ApplyStatus(appt, target)
	if err != nil {
		return model.Appointment{}, err
	}
	s.byID[id] = appt
	if !appt.Status.Active() {
		delete(s.index, slotKey(appt.Date, appt.Slot))
	}
	return appt, nil
}

func (s *MemoryStore) ListByDate(_ context.Context, date time.Time) ([]model.Appointment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	date = model.DateOf(date)
	var appts []model.Appointment
	for _, appt := range s.byID {
		if appt.Date.Equal(date) {
			appts = append(appts, appt)
		}
	}
	sortAppointments(appts)
	return appts, nil
}

func (s *MemoryStore) ListByDateRange(_ context.Context, start, end time.Time) ([]model.Appointment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	start = model.DateOf(start)
	end = model.DateOf(end)
	var appts []model.Appointment
	for _, appt := range s.byID {
		if !appt.Date.Before(start) && !appt.Date.After(end) {
			appts = append(appts, appt)
		}
	}
	sortAppointments(appts)
	return appts, nil
}

func sortAppointments(appts []model.Appointment) {
	sort.Slice(appts, func(i, j int) bool {
		if !appts[i].Date.Equal(appts[j].Date) {
			return appts[i].Date.Before(appts[j].Date)
		}
		si, sj := slot.Index(appts[i].Slot), slot.Index(appts[j].Slot)
		if si != sj {
			return si < sj
		}
		return appts[i].CreatedAt.Before(appts[j].CreatedAt)
	})
}
