package model

import "time"

// DateLayout is the wire and storage format for appointment dates.
const DateLayout = "2006-01-02"

// Appointment is the sole persistent entity of the scheduling core. Date
// carries no time component (midnight UTC); Slot is a catalog token such as
// "09:00". ID and CreatedAt are assigned at creation and never change.
type Appointment struct {
	ID                  string
	ClientName          string
	ClientPhone         string
	Vehicle             string
	Service             string
	Date                time.Time
	Slot                string
	Status              Status
	EstimatedValueCents *int64
	Notes               string
	CreatedAt           time.Time
}

// DateOf truncates t to its calendar date at midnight UTC.
func DateOf(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// ParseDate parses a YYYY-MM-DD date into midnight UTC.
func ParseDate(s string) (time.Time, error) {
	return time.ParseInLocation(DateLayout, s, time.UTC)
}
