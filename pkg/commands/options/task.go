package options

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"tableflip.dev/dayplan/pkg/task"
	"tableflip.dev/dayplan/pkg/timeutil"
)

// TaskOptions holds the definition flags shared by add and edit.
type TaskOptions struct {
	Title       string
	Description string
	Type        string

	Deadline string
	From     string
	To       string
	At       string

	Every    string
	Days     []string
	Interval int
	Day      int
	Month    int
	Dates    []string
	Start    string
	Until    string

	Tags   []string
	Folder string
}

func AddTaskArgs(cmd *cobra.Command, o *TaskOptions) {
	f := cmd.Flags()
	f.StringVarP(&o.Description, "description", "d", "", "Longer description.")
	f.StringVar(&o.Type, "type", "", "Task type: none, deadline, date_range, scheduled_time or recurring. Inferred from the other flags when omitted.")

	f.StringVar(&o.Deadline, "deadline", "", `Due moment, example: --deadline="tomorrow 17:00" or --deadline=2024-03-01.`)
	f.StringVar(&o.From, "from", "", "First day of a date range.")
	f.StringVar(&o.To, "to", "", "Last day of a date range.")
	f.StringVar(&o.At, "at", "", `Scheduled moment, example: --at="today 14:30".`)

	f.StringVar(&o.Every, "every", "", "Repeat: daily, weekly, monthly, yearly or dates.")
	f.StringSliceVar(&o.Days, "days", nil, "Weekdays for weekly repeats, example: --days=mon,wed,fri.")
	f.IntVar(&o.Interval, "interval", 1, "Repeat every N weeks.")
	f.IntVar(&o.Day, "day", 0, "Day of the month for monthly and yearly repeats (1-31).")
	f.IntVar(&o.Month, "month", 0, "Month for yearly repeats (1-12).")
	f.StringSliceVar(&o.Dates, "dates", nil, "Days for --every=dates.")
	f.StringVar(&o.Start, "start", "", "First day of the repeat. Defaults to today.")
	f.StringVar(&o.Until, "until", "", `Last day of the repeat, or "never".`)

	f.StringSliceVar(&o.Tags, "tag", nil, "Tag ids.")
	f.StringVar(&o.Folder, "folder", "", "Folder id.")
}

// AddTitleArg registers --title, used by edit where the title is not
// positional.
func AddTitleArg(cmd *cobra.Command, o *TaskOptions) {
	cmd.Flags().StringVar(&o.Title, "title", "", "New title.")
}

// Apply writes every flag the user set on fs into t. The task type follows
// the temporal flags unless --type is given. Recurring defaults are derived
// from the start day.
func (o *TaskOptions) Apply(fs *pflag.FlagSet, t *task.Task, tc timeutil.Context) error {
	changed := fs.Changed
	if t.Type == "" {
		t.Type = task.TypeNone
	}

	if changed("title") {
		t.Title = o.Title
	}
	if changed("description") {
		t.Description = o.Description
	}
	if changed("tag") {
		t.TagIDs = o.Tags
	}
	if changed("folder") {
		if o.Folder == "" {
			t.FolderID = nil
		} else {
			t.FolderID = task.String(o.Folder)
		}
	}

	switch {
	case changed("every"):
		t.Type = task.TypeRecurring
	case changed("deadline"):
		t.Type = task.TypeDeadline
	case changed("from"), changed("to"):
		t.Type = task.TypeDateRange
	case changed("at"):
		t.Type = task.TypeScheduled
	}
	if changed("type") {
		typ, err := task.ParseType(o.Type)
		if err != nil {
			return err
		}
		t.Type = typ
	}

	var err error
	if changed("deadline") {
		if t.DeadlineAt, err = moment(o.Deadline, tc); err != nil {
			return err
		}
	}
	if changed("at") {
		if t.ScheduledAt, err = moment(o.At, tc); err != nil {
			return err
		}
	}
	if changed("from") {
		if t.RangeStartDate, err = day(o.From, tc); err != nil {
			return err
		}
	}
	if changed("to") {
		if t.RangeEndDate, err = day(o.To, tc); err != nil {
			return err
		}
	}
	if t.Type == task.TypeDateRange && t.RangeStartDate == nil && t.RangeEndDate != nil {
		t.RangeStartDate = task.Int64(tc.TodayStart)
	}

	if t.Type != task.TypeRecurring {
		return nil
	}
	return o.applyRecurrence(changed, t, tc)
}

func (o *TaskOptions) applyRecurrence(changed func(string) bool, t *task.Task, tc timeutil.Context) error {
	var err error
	if changed("every") {
		if t.RecurrencePattern, err = task.ParsePattern(o.Every); err != nil {
			return err
		}
	}
	if changed("start") {
		if t.RecurrenceStartDate, err = day(o.Start, tc); err != nil {
			return err
		}
	}
	if changed("until") {
		switch strings.ToLower(strings.TrimSpace(o.Until)) {
		case "", "never":
			t.RecurrenceEndDate = nil
		default:
			if t.RecurrenceEndDate, err = day(o.Until, tc); err != nil {
				return err
			}
		}
	}
	if changed("days") {
		if t.RecurrenceDaysOfWeek, err = ParseWeekdays(o.Days); err != nil {
			return err
		}
	}
	if changed("interval") {
		t.RecurrenceWeekInterval = task.Int(o.Interval)
	}
	if changed("day") {
		switch t.RecurrencePattern {
		case task.PatternMonthly:
			t.RecurrenceDayOfMonth = task.Int(o.Day)
		case task.PatternYearly:
			t.RecurrenceDayOfYear = task.Int(o.Day)
		default:
			return fmt.Errorf("--day needs --every monthly or yearly")
		}
	}
	if changed("month") {
		if o.Month < 1 || o.Month > 12 {
			return fmt.Errorf("--month must be 1..12, got %d", o.Month)
		}
		t.RecurrenceMonth = task.Int(o.Month - 1)
	}
	if changed("dates") {
		t.RecurrenceSpecificDates = nil
		for _, d := range o.Dates {
			ms, err := timeutil.ParseDay(d, tc)
			if err != nil {
				return err
			}
			t.RecurrenceSpecificDates = append(t.RecurrenceSpecificDates, ms)
		}
	}

	if t.RecurrenceStartDate == nil {
		start := tc.TodayStart
		for _, d := range t.RecurrenceSpecificDates {
			if d < start {
				start = d
			}
		}
		t.RecurrenceStartDate = task.Int64(start)
	}
	start := timeutil.FromMillis(*t.RecurrenceStartDate, tc.Loc())
	switch t.RecurrencePattern {
	case task.PatternWeekly:
		if len(t.RecurrenceDaysOfWeek) == 0 {
			t.RecurrenceDaysOfWeek = []int{int(start.Weekday())}
		}
	case task.PatternMonthly:
		if t.RecurrenceDayOfMonth == nil {
			t.RecurrenceDayOfMonth = task.Int(start.Day())
		}
	case task.PatternYearly:
		if t.RecurrenceMonth == nil {
			t.RecurrenceMonth = task.Int(int(start.Month()) - 1)
		}
		if t.RecurrenceDayOfYear == nil {
			t.RecurrenceDayOfYear = task.Int(start.Day())
		}
	}
	return nil
}

var weekdays = map[string]int{
	"sun": 0, "sunday": 0,
	"mon": 1, "monday": 1,
	"tue": 2, "tues": 2, "tuesday": 2,
	"wed": 3, "wednesday": 3,
	"thu": 4, "thur": 4, "thurs": 4, "thursday": 4,
	"fri": 5, "friday": 5,
	"sat": 6, "saturday": 6,
}

// ParseWeekdays accepts weekday names or numbers with Sunday as 0.
func ParseWeekdays(in []string) ([]int, error) {
	seen := map[int]bool{}
	for _, raw := range in {
		s := strings.ToLower(strings.TrimSpace(raw))
		if s == "" {
			continue
		}
		d, ok := weekdays[s]
		if !ok {
			n, err := strconv.Atoi(s)
			if err != nil || n < 0 || n > 6 {
				return nil, fmt.Errorf("unknown weekday %q", raw)
			}
			d = n
		}
		seen[d] = true
	}
	out := make([]int, 0, len(seen))
	for d := range seen {
		out = append(out, d)
	}
	sort.Ints(out)
	return out, nil
}

func moment(in string, tc timeutil.Context) (*int64, error) {
	ms, err := timeutil.ParseMoment(in, tc)
	if err != nil {
		return nil, err
	}
	return task.Int64(ms), nil
}

func day(in string, tc timeutil.Context) (*int64, error) {
	ms, err := timeutil.ParseDay(in, tc)
	if err != nil {
		return nil, err
	}
	return task.Int64(ms), nil
}
