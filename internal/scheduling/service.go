// Package scheduling orchestrates the booking core: request validation,
// conflict-checked creation, status transitions and calendar projection
// queries.
package scheduling

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopagenda/shopagenda/internal/calendar"
	"github.com/shopagenda/shopagenda/internal/model"
	"github.com/shopagenda/shopagenda/internal/slot"
)

// Store is the durable appointment collection. Implementations must make
// Create atomic with respect to the availability of (date, slot) and
// UpdateStatus atomic per appointment id.
type Store interface {
	Create(ctx context.Context, appt model.Appointment) error
	Get(ctx context.Context, id string) (model.Appointment, error)
	UpdateStatus(ctx context.Context, id string, target model.Status) (model.Appointment, error)
	ListByDate(ctx context.Context, date time.Time) ([]model.Appointment, error)
	ListByDateRange(ctx context.Context, start, end time.Time) ([]model.Appointment, error)
}

type Service struct {
	store     Store
	projector *calendar.Projector
	logger    *slog.Logger
	now       func() time.Time
}

func NewService(store Store, logger *slog.Logger) *Service {
	return &Service{
		store:     store,
		projector: calendar.NewProjector(store),
		logger:    logger,
		now:       time.Now,
	}
}

type CreateRequest struct {
	ClientName          string
	ClientPhone         string
	Vehicle             string
	Service             string
	Date                time.Time
	Slot                string
	EstimatedValueCents *int64
	Notes               string
}

func (r CreateRequest) validate() error {
	var fields []string
	if r.ClientName == "" {
		fields = append(fields, "client_name")
	}
	if r.ClientPhone == "" {
		fields = append(fields, "client_phone")
	}
	if r.Vehicle == "" {
		fields = append(fields, "vehicle")
	}
	if r.Service == "" {
		fields = append(fields, "service")
	}
	if r.Date.IsZero() {
		fields = append(fields, "date")
	}
	if r.Slot == "" || !slot.Contains(r.Slot) {
		fields = append(fields, "slot")
	}
	if r.EstimatedValueCents != nil && *r.EstimatedValueCents < 0 {
		fields = append(fields, "estimated_value_cents")
	}
	if len(fields) > 0 {
		return &model.ValidationError{Fields: fields}
	}
	return nil
}

// Create validates the request and books the slot. The returned appointment
// carries the assigned id, scheduled status and creation time.
func (s *Service) Create(ctx context.Context, req CreateRequest) (model.Appointment, error) {
	if err := req.validate(); err != nil {
		return model.Appointment{}, err
	}

	appt := model.Appointment{
		ID:                  uuid.NewString(),
		ClientName:          req.ClientName,
		ClientPhone:         req.ClientPhone,
		Vehicle:             req.Vehicle,
		Service:             req.Service,
		Date:                model.DateOf(req.Date),
		Slot:                req.Slot,
		Status:              model.StatusScheduled,
		EstimatedValueCents: req.EstimatedValueCents,
		Notes:               req.Notes,
		CreatedAt:           s.now().UTC(),
	}
	if err := s.store.Create(ctx, appt); err != nil {
		return model.Appointment{}, err
	}
	s.logger.Info("appointment created",
		"appointment_id", appt.ID,
		"date", appt.Date.Format(model.DateLayout),
		"slot", appt.Slot,
	)
	return appt, nil
}

func (s *Service) Get(ctx context.Context, id string) (model.Appointment, error) {
	return s.store.Get(ctx, id)
}

// TransitionStatus applies one step of the status lifecycle. The store
// enforces the transition table inside its critical section; cancelling or
// completing frees the slot atomically.
func (s *Service) TransitionStatus(ctx context.Context, id string, target model.Status) (model.Appointment, error) {
	if !target.Valid() {
		return model.Appointment{}, &model.ValidationError{Fields: []string{"status"}}
	}
	appt, err := s.store.UpdateStatus(ctx, id, target)
	if err != nil {
		return model.Appointment{}, err
	}
	s.logger.Info("appointment status changed",
		"appointment_id", appt.ID,
		"status", string(appt.Status),
	)
	return appt, nil
}

// IsAvailable reports whether (date, slot) can be booked right now. Create
// remains the authority: between this check and a later Create another
// request may take the slot.
func (s *Service) IsAvailable(ctx context.Context, date time.Time, tok string) (bool, error) {
	if !slot.Contains(tok) {
		return false, fmt.Errorf("%q: not a catalog slot", tok)
	}
	active, err := s.ActiveAppointmentsFor(ctx, date)
	if err != nil {
		return false, err
	}
	for _, appt := range active {
		if appt.Slot == tok {
			return false, nil
		}
	}
	return true, nil
}

// ActiveAppointmentsFor returns the appointments holding slots on the date.
func (s *Service) ActiveAppointmentsFor(ctx context.Context, date time.Time) ([]model.Appointment, error) {
	appts, err := s.store.ListByDate(ctx, date)
	if err != nil {
		return nil, err
	}
	active := appts[:0:0]
	for _, appt := range appts {
		if appt.Status.Active() {
			active = append(active, appt)
		}
	}
	return active, nil
}

func (s *Service) ListByDate(ctx context.Context, date time.Time) ([]model.Appointment, error) {
	return s.store.ListByDate(ctx, date)
}

func (s *Service) DayView(ctx context.Context, date time.Time) ([]calendar.DayEntry, error) {
	return s.projector.DayView(ctx, date)
}

func (s *Service) WeekView(ctx context.Context, ref time.Time) (calendar.WeekView, error) {
	return s.projector.WeekView(ctx, ref)
}

func (s *Service) MonthView(ctx context.Context, ref time.Time) ([]calendar.MonthCell, error) {
	return s.projector.MonthView(ctx, ref)
}
