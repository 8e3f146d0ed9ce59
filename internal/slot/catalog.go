// Package slot defines the fixed catalog of bookable time-of-day tokens.
// The catalog is identical for every date: half-hour steps through the
// morning and afternoon windows, with no tokens inside the lunch break so it
// can never be booked.
package slot

import "fmt"

type window struct {
	startHour, startMin int
	endHour, endMin     int
}

// Working windows; the gap between them is the lunch break.
var windows = []window{
	{8, 0, 11, 30},
	{13, 0, 17, 30},
}

const stepMinutes = 30

var tokens = buildTokens()

var index = func() map[string]int {
	m := make(map[string]int, len(tokens))
	for i, tok := range tokens {
		m[tok] = i
	}
	return m
}()

func buildTokens() []string {
	var out []string
	for _, w := range windows {
		start := w.startHour*60 + w.startMin
		end := w.endHour*60 + w.endMin
		for m := start; m <= end; m += stepMinutes {
			out = append(out, fmt.Sprintf("%02d:%02d", m/60, m%60))
		}
	}
	return out
}

// Slots returns the ordered catalog tokens. The caller owns the returned
// slice.
func Slots() []string {
	out := make([]string, len(tokens))
	copy(out, tokens)
	return out
}

func Contains(token string) bool {
	_, ok := index[token]
	return ok
}

// Index returns the position of token in the catalog, or -1 when it is not a
// member.
func Index(token string) int {
	i, ok := index[token]
	if !ok {
		return -1
	}
	return i
}

func Count() int {
	return len(tokens)
}
