package timeutil

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

const (
	// DefaultRefresh is the watch refresh interval used when none is provided.
	DefaultRefresh = "1h"
)

var (
	intervalPattern = regexp.MustCompile(`^\s*(\d+)\s*([a-z]+)`)
	unitMap         = map[string]time.Duration{
		"m":       time.Minute,
		"min":     time.Minute,
		"mins":    time.Minute,
		"minute":  time.Minute,
		"minutes": time.Minute,
		"h":       time.Hour,
		"hr":      time.Hour,
		"hrs":     time.Hour,
		"hour":    time.Hour,
		"hours":   time.Hour,
		"d":       24 * time.Hour,
		"day":     24 * time.Hour,
		"days":    24 * time.Hour,
		"w":       7 * 24 * time.Hour,
		"week":    7 * 24 * time.Hour,
		"weeks":   7 * 24 * time.Hour,
	}
)

// ParseInterval parses a compact interval such as "30m", "1h" or "1d2h" and
// returns the duration with its canonical label. An empty input yields the
// default refresh of one hour.
func ParseInterval(input string) (time.Duration, string, error) {
	trimmed := strings.TrimSpace(input)
	if trimmed == "" {
		trimmed = DefaultRefresh
	}

	remaining := strings.ToLower(trimmed)
	total := time.Duration(0)
	for len(remaining) > 0 {
		matches := intervalPattern.FindStringSubmatch(remaining)
		if len(matches) != 3 {
			return 0, "", fmt.Errorf("invalid interval segment %q", strings.TrimSpace(remaining))
		}

		value, err := strconv.ParseInt(matches[1], 10, 64)
		if err != nil {
			return 0, "", fmt.Errorf("invalid interval value %q: %w", matches[1], err)
		}
		base, ok := unitMap[matches[2]]
		if !ok {
			return 0, "", fmt.Errorf("unsupported interval unit %q", matches[2])
		}
		total += time.Duration(value) * base

		remaining = remaining[len(matches[0]):]
	}

	if total < time.Minute {
		return 0, "", fmt.Errorf("interval must be at least one minute")
	}

	return total, FormatInterval(total), nil
}

// FormatInterval renders a duration using day/hour/minute tokens.
func FormatInterval(d time.Duration) string {
	if d < time.Minute {
		return "0m"
	}

	units := []struct {
		label string
		value time.Duration
	}{
		{"d", 24 * time.Hour},
		{"h", time.Hour},
		{"m", time.Minute},
	}

	var b strings.Builder
	remaining := d
	for _, u := range units {
		if remaining < u.value {
			continue
		}
		count := remaining / u.value
		remaining -= count * u.value
		fmt.Fprintf(&b, "%d%s", count, u.label)
	}
	return b.String()
}
