// Package view places task definitions into the named, time-relative views.
package view

import (
	"fmt"
	"strings"
)

// Name identifies a view.
type Name string

const (
	// Dashboard is Today and Tomorrow, kept as two lists.
	Dashboard Name = "dashboard"
	Today     Name = "today"
	Tomorrow  Name = "tomorrow"
	ThisWeek  Name = "this_week"
	NextWeek  Name = "next_week"
	Overdue   Name = "overdue"
	// Someday holds undated tasks.
	Someday Name = "someday"
	// Bank is every definition, unexpanded and unfiltered by date.
	Bank Name = "bank"
)

// AllNames returns every view name in display order.
func AllNames() []Name {
	return []Name{Dashboard, Today, Tomorrow, ThisWeek, NextWeek, Overdue, Someday, Bank}
}

// DatedNames returns the single-list views that depend on the time context.
func DatedNames() []Name {
	return []Name{Today, Tomorrow, ThisWeek, NextWeek, Overdue}
}

// ParseName converts user input to a Name. Empty input is the dashboard.
func ParseName(raw string) (Name, error) {
	s := strings.ToLower(strings.TrimSpace(raw))
	s = strings.ReplaceAll(s, "-", "_")
	switch s {
	case "":
		return Dashboard, nil
	case "week", "thisweek":
		return ThisWeek, nil
	case "next", "nextweek":
		return NextWeek, nil
	case "all":
		return Bank, nil
	case "late":
		return Overdue, nil
	}
	for _, n := range AllNames() {
		if string(n) == s {
			return n, nil
		}
	}
	return "", fmt.Errorf("view: unknown view %q", raw)
}

// Title is the heading used when rendering the view.
func (n Name) Title() string {
	switch n {
	case ThisWeek:
		return "This Week"
	case NextWeek:
		return "Next Week"
	case "":
		return ""
	}
	return strings.ToUpper(string(n[:1])) + string(n[1:])
}
