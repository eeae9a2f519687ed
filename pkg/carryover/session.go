package carryover

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"tableflip.dev/dayplan/pkg/instance"
	"tableflip.dev/dayplan/pkg/task"
	"tableflip.dev/dayplan/pkg/timeutil"
	"tableflip.dev/dayplan/pkg/view"
)

// State is the position of a Session in the carryover dialog.
type State int

const (
	Idle State = iota
	DayBoundaryDetected
	CarryoverComputed
	Presented
	Resolved
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case DayBoundaryDetected:
		return "day_boundary_detected"
	case CarryoverComputed:
		return "carryover_computed"
	case Presented:
		return "presented"
	case Resolved:
		return "resolved"
	}
	return fmt.Sprintf("state(%d)", int(s))
}

var (
	ErrInvalidTransition = errors.New("carryover: invalid transition")
	ErrUnknownItem       = errors.New("carryover: unknown item")
	ErrAlreadyResolved   = errors.New("carryover: item already resolved")
)

func isAllowedTransition(from, to State) bool {
	switch from {
	case Idle:
		return to == DayBoundaryDetected
	case DayBoundaryDetected:
		return to == CarryoverComputed
	case CarryoverComputed:
		return to == Presented || to == Idle
	case Presented:
		return to == Resolved || to == Idle
	case Resolved:
		return to == Presented || to == Idle
	}
	return false
}

// Action is what the user chose to do with a carried-over item.
type Action string

const (
	ActionComplete    Action = "complete"
	ActionPinToday    Action = "pin_today"
	ActionPinTomorrow Action = "pin_tomorrow"
	ActionReschedule  Action = "reschedule"
	ActionDelete      Action = "delete"
	ActionDefer       Action = "defer"
)

// AllActions returns the actions in menu order.
func AllActions() []Action {
	return []Action{ActionComplete, ActionPinToday, ActionPinTomorrow, ActionReschedule, ActionDelete, ActionDefer}
}

// ParseAction converts user input into an Action.
func ParseAction(raw string) (Action, error) {
	s := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(raw)), "-", "_")
	switch s {
	case "done":
		return ActionComplete, nil
	case "today":
		return ActionPinToday, nil
	case "tomorrow":
		return ActionPinTomorrow, nil
	case "later", "skip":
		return ActionDefer, nil
	}
	for _, a := range AllActions() {
		if string(a) == s {
			return a, nil
		}
	}
	return "", fmt.Errorf("carryover: unknown action %q", raw)
}

// Resolution is one user decision. To is the new moment for reschedule; when
// nil the item is only marked dealt-with and the caller opens its editor.
type Resolution struct {
	Action Action
	To     *int64
}

// Source provides the stored definitions and their overlays.
type Source interface {
	AllTasks(ctx context.Context) ([]*task.Task, error)
	InstanceStates(ctx context.Context, parentIDs []string, from, to int64) (instance.Snapshot, error)
}

// Mutator applies resolutions. Implementations route virtual entries to the
// instance overlay and concrete entries to the task. The pins receive the
// session's today so an occurrence carried over from yesterday can be moved
// onto today or tomorrow.
type Mutator interface {
	Complete(ctx context.Context, e view.Entry) error
	PinToday(ctx context.Context, e view.Entry, today timeutil.Context) error
	PinTomorrow(ctx context.Context, e view.Entry, today timeutil.Context) error
	Reschedule(ctx context.Context, e view.Entry, to int64) error
	Delete(ctx context.Context, e view.Entry) error
}

// Detector starts carryover sessions.
type Detector struct {
	KV      KV
	Source  Source
	Mutator Mutator
}

// Session is one run of the carryover dialog.
type Session struct {
	d     *Detector
	state State

	today     timeutil.Context
	yesterday timeutil.Context
	items     []view.Entry
	resolved  map[string]bool

	// Warnings collects marker failures that did not stop the session.
	Warnings []error
}

// ItemResult is the outcome of one item in a batch.
type ItemResult struct {
	TrackingID string
	Title      string
	Err        error
}

// Start runs a session start at now: it records today's marker, detects a day
// boundary and computes yesterday's unresolved Today items. The returned
// session is Presented when there is something to show and Idle otherwise.
func (d *Detector) Start(ctx context.Context, now time.Time) (*Session, error) {
	if d.KV == nil || d.Source == nil {
		return nil, errors.New("carryover: detector needs a KV and a source")
	}
	s := &Session{d: d, state: Idle, today: timeutil.For(now), resolved: make(map[string]bool)}
	todayKey := s.today.TodayKey()

	last, ok, err := d.KV.Get(LastOpenedKey)
	if err != nil || !ok {
		last = ""
	}
	if err != nil {
		s.Warnings = append(s.Warnings, fmt.Errorf("carryover: read marker: %w", err))
	}
	if err := d.KV.Set(LastOpenedKey, todayKey); err != nil {
		s.Warnings = append(s.Warnings, fmt.Errorf("carryover: write marker: %w", err))
	}

	yesterday, crossed := DetectBoundary(last, todayKey, s.today.Loc())
	if !crossed {
		return s, nil
	}
	s.yesterday = yesterday
	if err := s.transition(DayBoundaryDetected); err != nil {
		return nil, err
	}

	items, err := s.compute(ctx)
	if err != nil {
		s.state = Idle
		return nil, err
	}
	s.items = items
	if err := s.transition(CarryoverComputed); err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return s, s.transition(Idle)
	}
	return s, s.transition(Presented)
}

// Peek returns what Start would present at now without writing the marker
// or changing any state.
func (d *Detector) Peek(ctx context.Context, now time.Time) ([]view.Entry, error) {
	if d.KV == nil || d.Source == nil {
		return nil, errors.New("carryover: detector needs a KV and a source")
	}
	s := &Session{d: d, today: timeutil.For(now)}
	last, ok, err := d.KV.Get(LastOpenedKey)
	if err != nil || !ok {
		last = ""
	}
	yesterday, crossed := DetectBoundary(last, s.today.TodayKey(), s.today.Loc())
	if !crossed {
		return nil, nil
	}
	s.yesterday = yesterday
	return s.compute(ctx)
}

func (s *Session) compute(ctx context.Context) ([]view.Entry, error) {
	tasks, err := s.d.Source.AllTasks(ctx)
	if err != nil {
		return nil, fmt.Errorf("carryover: load tasks: %w", err)
	}
	var recurring []string
	for _, t := range tasks {
		if t.IsRecurring() {
			recurring = append(recurring, t.ID)
		}
	}
	var states instance.Snapshot
	if len(recurring) > 0 {
		days := view.Window(view.Today, s.yesterday)
		states, err = s.d.Source.InstanceStates(ctx, recurring, days[0], days[len(days)-1])
		if err != nil {
			return nil, fmt.Errorf("carryover: load instance states: %w", err)
		}
	}

	dealt := DealtWith(s.d.KV, s.today.TodayKey())
	var out []view.Entry
	for _, e := range view.Classify(tasks, view.Today, s.yesterday, states) {
		if view.IsCompleted(e) || dealt[view.TrackingID(e)] {
			continue
		}
		out = append(out, e)
	}
	view.SortChronological(out)
	return out, nil
}

func (s *Session) transition(to State) error {
	if !isAllowedTransition(s.state, to) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, s.state, to)
	}
	s.state = to
	return nil
}

// State returns the current state.
func (s *Session) State() State { return s.state }

// Today is the Context the session started with.
func (s *Session) Today() timeutil.Context { return s.today }

// Yesterday is the synthetic Context used to compute the items. It is the
// zero Context when no boundary was crossed.
func (s *Session) Yesterday() timeutil.Context { return s.yesterday }

// Items returns every carried-over entry, resolved or not.
func (s *Session) Items() []view.Entry { return s.items }

// Pending returns the entries that still need a resolution.
func (s *Session) Pending() []view.Entry {
	var out []view.Entry
	for _, e := range s.items {
		if !s.resolved[view.TrackingID(e)] {
			out = append(out, e)
		}
	}
	return out
}

func (s *Session) find(trackingID string) (view.Entry, error) {
	for _, e := range s.items {
		if view.TrackingID(e) == trackingID {
			if s.resolved[trackingID] {
				return nil, fmt.Errorf("%w: %s", ErrAlreadyResolved, trackingID)
			}
			return e, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrUnknownItem, trackingID)
}

// Resolve applies r to the item with trackingID. The item is added to today's
// dealt-with set even when the mutation fails; the failure is returned.
func (s *Session) Resolve(ctx context.Context, trackingID string, r Resolution) error {
	if s.state != Presented {
		return fmt.Errorf("%w: resolve while %s", ErrInvalidTransition, s.state)
	}
	e, err := s.find(trackingID)
	if err != nil {
		return err
	}
	if err := s.transition(Resolved); err != nil {
		return err
	}

	mutErr := s.apply(ctx, e, r)
	s.resolved[trackingID] = true
	markErr := MarkDealtWith(s.d.KV, s.today.TodayKey(), trackingID)
	if markErr != nil {
		markErr = fmt.Errorf("carryover: mark %s dealt with: %w", trackingID, markErr)
	}

	next := Presented
	if len(s.Pending()) == 0 {
		next = Idle
	}
	if err := s.transition(next); err != nil {
		return err
	}
	return errors.Join(mutErr, markErr)
}

func (s *Session) apply(ctx context.Context, e view.Entry, r Resolution) error {
	if r.Action == ActionDefer {
		return nil
	}
	m := s.d.Mutator
	if m == nil {
		return errors.New("carryover: no mutator configured")
	}
	var err error
	switch r.Action {
	case ActionComplete:
		err = m.Complete(ctx, e)
	case ActionPinToday:
		err = m.PinToday(ctx, e, s.today)
	case ActionPinTomorrow:
		err = m.PinTomorrow(ctx, e, s.today)
	case ActionDelete:
		err = m.Delete(ctx, e)
	case ActionReschedule:
		if r.To == nil {
			return nil
		}
		err = m.Reschedule(ctx, e, *r.To)
	default:
		return fmt.Errorf("carryover: unknown action %q", r.Action)
	}
	if err != nil {
		return fmt.Errorf("carryover: %s %s: %w", r.Action, view.TrackingID(e), err)
	}
	return nil
}

// ResolveAll applies r to every pending item in order. Items already applied
// stay applied when a later one fails; each outcome is reported.
func (s *Session) ResolveAll(ctx context.Context, r Resolution) []ItemResult {
	pending := s.Pending()
	results := make([]ItemResult, 0, len(pending))
	for _, e := range pending {
		id := view.TrackingID(e)
		results = append(results, ItemResult{
			TrackingID: id,
			Title:      view.Definition(e).Title,
			Err:        s.Resolve(ctx, id, r),
		})
	}
	return results
}

// Defer closes the dialog without mutating anything. Every pending item is
// marked dealt-with so it is not prompted again today.
func (s *Session) Defer(ctx context.Context) error {
	if s.state != Presented {
		return fmt.Errorf("%w: defer while %s", ErrInvalidTransition, s.state)
	}
	var ids []string
	for _, e := range s.Pending() {
		id := view.TrackingID(e)
		ids = append(ids, id)
		s.resolved[id] = true
	}
	err := MarkDealtWith(s.d.KV, s.today.TodayKey(), ids...)
	if terr := s.transition(Idle); terr != nil {
		return terr
	}
	if err != nil {
		return fmt.Errorf("carryover: mark deferred items: %w", err)
	}
	return nil
}
