package model

type Status string

const (
	StatusScheduled  Status = "scheduled"
	StatusConfirmed  Status = "confirmed"
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
	StatusCancelled  Status = "cancelled"
)

// transitions is the full legal transition table: the forward chain
// scheduled -> confirmed -> in_progress -> completed, one step at a time,
// plus cancellation from any non-terminal state. Terminal states have no
// entries.
var transitions = map[Status][]Status{
	StatusScheduled:  {StatusConfirmed, StatusCancelled},
	StatusConfirmed:  {StatusInProgress, StatusCancelled},
	StatusInProgress: {StatusCompleted, StatusCancelled},
}

func (s Status) Valid() bool {
	switch s {
	case StatusScheduled, StatusConfirmed, StatusInProgress, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

// Active reports whether an appointment in this status holds its (date, slot).
func (s Status) Active() bool {
	return s == StatusScheduled || s == StatusConfirmed || s == StatusInProgress
}

func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

// CanTransition reports whether moving from current to target is legal.
func CanTransition(current, target Status) bool {
	for _, next := range transitions[current] {
		if next == target {
			return true
		}
	}
	return false
}

// ApplyStatus returns a copy of appt with the target status, or
// ErrInvalidTransition when the state machine forbids the move. It never
// touches date or slot; rescheduling is cancel + recreate.
func ApplyStatus(appt Appointment, target Status) (Appointment, error) {
	if !CanTransition(appt.Status, target) {
		return Appointment{}, ErrInvalidTransition
	}
	appt.Status = target
	return appt, nil
}
