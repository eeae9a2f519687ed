package app

import (
	"context"
	"sort"
	"time"

	"tableflip.dev/dayplan/pkg/recurrence"
	"tableflip.dev/dayplan/pkg/timeutil"
	"tableflip.dev/dayplan/pkg/view"
)

// ReportSection groups completed entries by calendar day.
type ReportSection struct {
	Day     string
	Entries []view.Entry
}

// ReportResult encapsulates a completed-entries report for a day window.
type ReportResult struct {
	Since    time.Time
	Until    time.Time
	Sections []ReportSection
	Total    int
}

// Report returns what was completed between the days of since and until,
// inclusive. One-off tasks are dated by their last update; occurrences of
// recurring tasks by their own date.
func (s *Service) Report(ctx context.Context, since, until time.Time) (ReportResult, error) {
	if since.After(until) {
		since, until = until, since
	}
	loc := until.Location()
	from, to := timeutil.Midnight(since.In(loc)), timeutil.Midnight(until)
	res := ReportResult{Since: from, Until: to}

	tasks, err := s.AllTasks(ctx)
	if err != nil {
		return res, err
	}
	days := []int64{timeutil.Millis(from), timeutil.Millis(to)}
	states, err := s.statesFor(ctx, tasks, days)
	if err != nil {
		return res, err
	}

	grouped := make(map[string][]view.Entry)
	for _, t := range tasks {
		if t.IsRecurring() {
			for _, day := range recurrence.Between(t, from, to) {
				ms := timeutil.Millis(day)
				st := states.State(t.ID, ms)
				if !st.Completed {
					continue
				}
				key := timeutil.DateKey(ms, loc)
				grouped[key] = append(grouped[key], view.Virtual{Parent: t, Date: ms, State: st})
			}
			continue
		}
		if !t.IsCompleted || t.UpdatedAt == 0 {
			continue
		}
		day := timeutil.DayStart(t.UpdatedAt, loc)
		if day < days[0] || day > days[1] {
			continue
		}
		key := timeutil.DateKey(day, loc)
		grouped[key] = append(grouped[key], view.Concrete{Task: t})
	}

	keys := make([]string, 0, len(grouped))
	for k := range grouped {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		entries := grouped[k]
		view.SortChronological(entries)
		res.Sections = append(res.Sections, ReportSection{Day: k, Entries: entries})
		res.Total += len(entries)
	}
	return res, nil
}
