package view

import (
	"time"

	"tableflip.dev/dayplan/pkg/task"
	"tableflip.dev/dayplan/pkg/timeutil"
)

// Item is the serialized form of an Entry used by json, yaml and MCP output.
type Item struct {
	ID             string     `json:"id" yaml:"id"`
	Title          string     `json:"title" yaml:"title"`
	Type           task.Type  `json:"taskType" yaml:"taskType"`
	Virtual        bool       `json:"virtual" yaml:"virtual"`
	Occurrence     string     `json:"occurrence,omitempty" yaml:"occurrence,omitempty"`
	When           *int64     `json:"when,omitempty" yaml:"when,omitempty"`
	Completed      bool       `json:"completed" yaml:"completed"`
	PinnedToday    bool       `json:"pinnedToday" yaml:"pinnedToday"`
	PinnedTomorrow bool       `json:"pinnedTomorrow" yaml:"pinnedTomorrow"`
	Task           *task.Task `json:"task" yaml:"task"`
}

// ToItem flattens e. Occurrence dates are rendered as calendar keys in loc.
func ToItem(e Entry, loc *time.Location) Item {
	t := Definition(e)
	st := Flags(e)
	it := Item{
		ID:             TrackingID(e),
		Completed:      st.Completed,
		PinnedToday:    st.PinnedToday,
		PinnedTomorrow: st.PinnedTomorrow,
		Task:           t,
	}
	if t != nil {
		it.Title = t.Title
		it.Type = t.Type
	}
	if v, ok := e.(Virtual); ok {
		it.Virtual = true
		it.Occurrence = timeutil.DateKey(v.Date, loc)
	}
	if ms, ok := When(e); ok {
		it.When = task.Int64(ms)
	}
	return it
}

// Items flattens entries in order.
func Items(entries []Entry, loc *time.Location) []Item {
	out := make([]Item, 0, len(entries))
	for _, e := range entries {
		out = append(out, ToItem(e, loc))
	}
	return out
}
