// Package carryover detects day boundaries and walks the user through
// yesterday's unfinished Today items.
package carryover

import (
	"strings"
	"time"

	"tableflip.dev/dayplan/pkg/timeutil"
)

// DetectBoundary compares the last-opened calendar day with today. When they
// differ it returns a synthetic Context for the day before today. A missing
// marker counts as a boundary. An unparsable today never does.
func DetectBoundary(lastOpenedDay, today string, loc *time.Location) (timeutil.Context, bool) {
	if loc == nil {
		loc = time.Local
	}
	day, err := timeutil.ParseDateKey(strings.TrimSpace(today), loc)
	if err != nil {
		return timeutil.Context{}, false
	}
	if strings.TrimSpace(lastOpenedDay) == strings.TrimSpace(today) {
		return timeutil.Context{}, false
	}
	return timeutil.ForDay(day.AddDate(0, 0, -1)), true
}
