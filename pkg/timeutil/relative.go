package timeutil

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

var offsetPattern = regexp.MustCompile(`^([+-])(\d+)([dw])$`)

var weekdayNames = map[string]time.Weekday{
	"sun": time.Sunday, "sunday": time.Sunday,
	"mon": time.Monday, "monday": time.Monday,
	"tue": time.Tuesday, "tuesday": time.Tuesday,
	"wed": time.Wednesday, "wednesday": time.Wednesday,
	"thu": time.Thursday, "thursday": time.Thursday,
	"fri": time.Friday, "friday": time.Friday,
	"sat": time.Saturday, "saturday": time.Saturday,
}

// ParseDay resolves a day expression relative to c: "today", "tomorrow",
// "yesterday", an offset such as "+3d" or "-1w", a weekday name meaning the
// next such day after today, or a "2006-01-02" key.
// The result is the local midnight of that day, in epoch milliseconds.
func ParseDay(input string, c Context) (int64, error) {
	s := strings.ToLower(strings.TrimSpace(input))
	switch s {
	case "", "today":
		return c.TodayStart, nil
	case "tomorrow":
		return c.TomorrowStart, nil
	case "yesterday":
		return AddDays(c.TodayStart, -1, c.Loc()), nil
	}
	if wd, ok := weekdayNames[s]; ok {
		n := (int(wd)-int(c.Today().Weekday())+6)%7 + 1
		return AddDays(c.TodayStart, n, c.Loc()), nil
	}
	if m := offsetPattern.FindStringSubmatch(s); m != nil {
		n, err := strconv.Atoi(m[2])
		if err != nil {
			return 0, fmt.Errorf("invalid day offset %q: %w", input, err)
		}
		if m[3] == "w" {
			n *= 7
		}
		if m[1] == "-" {
			n = -n
		}
		return AddDays(c.TodayStart, n, c.Loc()), nil
	}
	t, err := ParseDateKey(s, c.Loc())
	if err != nil {
		return 0, fmt.Errorf("invalid day %q, expected today, tomorrow, +Nd or YYYY-MM-DD", input)
	}
	return Millis(t), nil
}

// ParseMoment resolves a day expression with an optional "15:04" clock time,
// for example "tomorrow 09:30" or "2024-03-01 18:00".
func ParseMoment(input string, c Context) (int64, error) {
	fields := strings.Fields(input)
	switch len(fields) {
	case 1:
		return ParseDay(fields[0], c)
	case 2:
		day, err := ParseDay(fields[0], c)
		if err != nil {
			return 0, err
		}
		clock, err := time.Parse("15:04", fields[1])
		if err != nil {
			return 0, fmt.Errorf("invalid time of day %q, expected HH:MM", fields[1])
		}
		d := FromMillis(day, c.Loc())
		at := time.Date(d.Year(), d.Month(), d.Day(), clock.Hour(), clock.Minute(), 0, 0, d.Location())
		return Millis(at), nil
	default:
		return 0, fmt.Errorf("invalid moment %q", input)
	}
}
