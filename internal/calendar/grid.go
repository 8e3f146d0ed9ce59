package calendar

import (
	"time"

	"github.com/shopagenda/shopagenda/internal/model"
)

// MonthGridDays is the fixed size of a month projection: 6 full weeks so the
// grid tiles 6 rows by 7 columns regardless of month length or starting
// weekday.
const MonthGridDays = 42

const WeekDays = 7

// WeekStart returns the Sunday on or before the given date, at midnight UTC.
func WeekStart(ref time.Time) time.Time {
	d := model.DateOf(ref)
	return d.AddDate(0, 0, -int(d.Weekday()))
}

// MonthGridStart returns the Sunday on or before the first day of ref's
// month, the top-left cell of the 42-cell grid.
func MonthGridStart(ref time.Time) time.Time {
	d := model.DateOf(ref)
	first := time.Date(d.Year(), d.Month(), 1, 0, 0, 0, 0, time.UTC)
	return first.AddDate(0, 0, -int(first.Weekday()))
}
