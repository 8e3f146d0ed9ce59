package calendar

import (
	"testing"
	"time"
)

func TestWeekStart(t *testing.T) {
	// 2024-01-15 is a Monday; its week starts Sunday 2024-01-14.
	got := WeekStart(time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC))
	want := time.Date(2024, 1, 14, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Fatalf("expected %s, got %s", want, got)
	}

	// A Sunday is its own week start.
	sunday := time.Date(2024, 1, 14, 0, 0, 0, 0, time.UTC)
	if got := WeekStart(sunday); !got.Equal(sunday) {
		t.Fatalf("expected %s, got %s", sunday, got)
	}
}

func TestMonthGridStart(t *testing.T) {
	// January 2024 starts on a Monday, so the grid starts Sunday 2023-12-31.
	got := MonthGridStart(time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC))
	want := time.Date(2023, 12, 31, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Fatalf("expected %s, got %s", want, got)
	}

	// September 2024 starts on a Sunday; the grid starts on the 1st itself.
	got = MonthGridStart(time.Date(2024, 9, 10, 0, 0, 0, 0, time.UTC))
	want = time.Date(2024, 9, 1, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Fatalf("expected %s, got %s", want, got)
	}
}

func TestMonthGridStart_AlwaysSunday(t *testing.T) {
	for month := time.January; month <= time.December; month++ {
		start := MonthGridStart(time.Date(2024, month, 10, 0, 0, 0, 0, time.UTC))
		if start.Weekday() != time.Sunday {
			t.Fatalf("%s grid starts on %s, want Sunday", month, start.Weekday())
		}
		end := start.AddDate(0, 0, MonthGridDays-1)
		first := time.Date(2024, month, 1, 0, 0, 0, 0, time.UTC)
		last := first.AddDate(0, 1, -1)
		if start.After(first) || end.Before(last) {
			t.Fatalf("%s grid [%s, %s] does not cover the month", month, start, end)
		}
	}
}
