// Package storage provides the durable appointment store. The Postgres
// implementation enforces the one-active-appointment-per-(date, slot)
// invariant with a partial unique index, so the availability check and the
// insert are a single atomic operation.
package storage

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopagenda/shopagenda/internal/model"
	"github.com/shopagenda/shopagenda/internal/outbox"
	"github.com/shopagenda/shopagenda/libs/db"
)

type PostgresStore struct {
	pool   *db.Pool
	outbox *outbox.Repository
}

func NewPostgresStore(pool *db.Pool, outboxRepo *outbox.Repository) *PostgresStore {
	return &PostgresStore{pool: pool, outbox: outboxRepo}
}

const appointmentColumns = `id, client_name, client_phone, vehicle, service,
	slot_date, slot, status, estimated_value_cents, notes, created_at`

// Create inserts the appointment. A violation of the active-slot unique
// index maps to ErrSlotUnavailable; the transaction (including the outbox
// event) rolls back as a whole.
func (s *PostgresStore) Create(ctx context.Context, appt model.Appointment) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	_, err = tx.Exec(ctx, `
		INSERT INTO appointments
			(id, client_name, client_phone, vehicle, service, slot_date, slot, status, estimated_value_cents, notes, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`, appt.ID, appt.ClientName, appt.ClientPhone, appt.Vehicle, appt.Service,
		appt.Date, appt.Slot, appt.Status, appt.EstimatedValueCents, appt.Notes, appt.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return model.ErrSlotUnavailable
		}
		return err
	}

	if err := s.insertEvent(ctx, tx, outbox.EventAppointmentCreated, appt, ""); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func (s *PostgresStore) Get(ctx context.Context, id string) (model.Appointment, error) {
	row := s.pool.QueryRow(ctx, `
		SELECT `+appointmentColumns+`
		FROM appointments
		WHERE id = $1
	`, id)
	appt, err := scanAppointment(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return model.Appointment{}, model.ErrNotFound
	}
	return appt, err
}

// UpdateStatus locks the row, validates the transition and writes the new
// status. Because the conflict index predicate only covers active statuses,
// completing or cancelling frees the (date, slot) in the same transaction.
func (s *PostgresStore) UpdateStatus(ctx context.Context, id string, target model.Status) (model.Appointment, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return model.Appointment{}, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	row := tx.QueryRow(ctx, `
		SELECT `+appointmentColumns+`
		FROM appointments
		WHERE id = $1
		FOR UPDATE
	`, id)
	appt, err := scanAppointment(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return model.Appointment{}, model.ErrNotFound
	}
	if err != nil {
		return model.Appointment{}, err
	}

	prior := appt.Status
	appt, err = model.ApplyStatus(appt, target)
	if err != nil {
		return model.Appointment{}, err
	}

	if _, err := tx.Exec(ctx, `
		UPDATE appointments
		SET status = $2
		WHERE id = $1
	`, id, appt.Status); err != nil {
		return model.Appointment{}, err
	}

	eventType := outbox.EventAppointmentStatusChanged
	if target == model.StatusCancelled {
		eventType = outbox.EventAppointmentCancelled
	}
	if err := s.insertEvent(ctx, tx, eventType, appt, prior); err != nil {
		return model.Appointment{}, err
	}
	if err := tx.Commit(ctx); err != nil {
		return model.Appointment{}, err
	}
	return appt, nil
}

func (s *PostgresStore) ListByDate(ctx context.Context, date time.Time) ([]model.Appointment, error) {
	return s.list(ctx, `
		SELECT `+appointmentColumns+`
		FROM appointments
		WHERE slot_date = $1
		ORDER BY slot ASC, created_at ASC
	`, model.DateOf(date))
}

// ListByDateRange returns appointments with start <= date <= end.
func (s *PostgresStore) ListByDateRange(ctx context.Context, start, end time.Time) ([]model.Appointment, error) {
	return s.list(ctx, `
		SELECT `+appointmentColumns+`
		FROM appointments
		WHERE slot_date BETWEEN $1 AND $2
		ORDER BY slot_date ASC, slot ASC, created_at ASC
	`, model.DateOf(start), model.DateOf(end))
}

func (s *PostgresStore) list(ctx context.Context, query string, args ...any) ([]model.Appointment, error) {
	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var appts []model.Appointment
	for rows.Next() {
		appt, err := scanAppointment(rows)
		if err != nil {
			return nil, err
		}
		appts = append(appts, appt)
	}
	if rows.Err() != nil {
		return nil, rows.Err()
	}
	return appts, nil
}

func (s *PostgresStore) insertEvent(ctx context.Context, tx pgx.Tx, eventType string, appt model.Appointment, prior model.Status) error {
	if s.outbox == nil {
		return nil
	}
	fields := map[string]any{
		"appointment_id": appt.ID,
		"client_name":    appt.ClientName,
		"date":           appt.Date.Format(model.DateLayout),
		"slot":           appt.Slot,
		"status":         string(appt.Status),
		"created_at":     appt.CreatedAt.UTC().Format(time.RFC3339),
		"changed_at":     time.Now().UTC().Format(time.RFC3339),
	}
	if prior != "" {
		fields["prior_status"] = string(prior)
	}
	payload, err := json.Marshal(fields)
	if err != nil {
		return err
	}
	return s.outbox.Insert(ctx, tx, outbox.Event{
		AggregateType: "appointment",
		AggregateID:   appt.ID,
		EventType:     eventType,
		Payload:       payload,
	})
}

func scanAppointment(row pgx.Row) (model.Appointment, error) {
	var appt model.Appointment
	err := row.Scan(
		&appt.ID,
		&appt.ClientName,
		&appt.ClientPhone,
		&appt.Vehicle,
		&appt.Service,
		&appt.Date,
		&appt.Slot,
		&appt.Status,
		&appt.EstimatedValueCents,
		&appt.Notes,
		&appt.CreatedAt,
	)
	if err != nil {
		return model.Appointment{}, err
	}
	appt.Date = model.DateOf(appt.Date)
	return appt, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
