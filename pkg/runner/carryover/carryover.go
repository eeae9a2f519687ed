// Package carryover runs the start-of-day dialog for tasks left over from
// yesterday.
package carryover

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/fatih/color"
	"github.com/manifoldco/promptui"

	"tableflip.dev/dayplan/pkg/carryover"
	"tableflip.dev/dayplan/pkg/printers"
	"tableflip.dev/dayplan/pkg/timeutil"
	"tableflip.dev/dayplan/pkg/view"
)

// Carryover starts a session and resolves its items, either by prompting or
// by applying Action to every item.
type Carryover struct {
	Detector *carryover.Detector
	Now      time.Time

	Interactive bool
	// Action is applied to every item when not interactive. Empty defers
	// them all.
	Action string
	// To is the day expression used by the reschedule action.
	To string

	ShowID bool
	In     io.ReadCloser
	Out    io.WriteCloser
}

type choice struct {
	Action carryover.Action
	Label  string
}

var choices = []choice{
	{carryover.ActionComplete, "Mark complete"},
	{carryover.ActionPinToday, "Do it today"},
	{carryover.ActionPinTomorrow, "Do it tomorrow"},
	{carryover.ActionReschedule, "Reschedule"},
	{carryover.ActionDelete, "Delete"},
	{carryover.ActionDefer, "Leave it"},
}

func (n *Carryover) Do(ctx context.Context) error {
	if n.Detector == nil {
		return errors.New("can not carry over, no detector")
	}
	now := n.Now
	if now.IsZero() {
		now = time.Now()
	}
	s, err := n.Detector.Start(ctx, now)
	if err != nil {
		return err
	}

	pp := printers.PrettyPrint{ShowID: n.ShowID, Badge: "yesterday", Location: now.Location()}
	if n.Out != nil {
		pp.Out = n.Out
	}
	w := pp.Writer()
	warn := color.New(color.FgYellow)
	for _, e := range s.Warnings {
		_, _ = warn.Fprintf(w, "warning: %v\n", e)
	}

	if s.State() != carryover.Presented {
		_, _ = color.New(color.Faint, color.Italic).Fprintln(w, "Nothing carried over.")
		return nil
	}

	pp.NewLine()
	pp.TitleWithCount("Carried over from "+s.Yesterday().Today().Format("Monday, January 2"), len(s.Items()))
	pp.Entries(s.Items()...)

	if n.Interactive {
		return n.prompt(ctx, s, pp)
	}
	return n.batch(ctx, s, w)
}

func (n *Carryover) batch(ctx context.Context, s *carryover.Session, w io.Writer) error {
	if n.Action == "" {
		return s.Defer(ctx)
	}
	action, err := carryover.ParseAction(n.Action)
	if err != nil {
		return err
	}
	r := carryover.Resolution{Action: action}
	if action == carryover.ActionReschedule {
		if n.To == "" {
			return errors.New("--to is required with --action=reschedule")
		}
		to, err := timeutil.ParseMoment(n.To, s.Today())
		if err != nil {
			return err
		}
		r.To = &to
	}

	var errs []error
	for _, res := range s.ResolveAll(ctx, r) {
		if res.Err != nil {
			_, _ = color.New(color.FgRed).Fprintf(w, "  %s %q: %v\n", action, res.Title, res.Err)
			errs = append(errs, res.Err)
			continue
		}
		_, _ = fmt.Fprintf(w, "  %s %q\n", action, res.Title)
	}
	return errors.Join(errs...)
}

func (n *Carryover) prompt(ctx context.Context, s *carryover.Session, pp printers.PrettyPrint) error {
	w := pp.Writer()
	templates := &promptui.SelectTemplates{
		Label:    "{{ . }}?",
		Active:   "➜  {{ .Label | cyan }}",
		Inactive: "   {{ .Label }}",
		Selected: "➜  {{ .Label | green }}",
	}

	for _, e := range s.Pending() {
		id := view.TrackingID(e)
		sel := promptui.Select{
			HideHelp:  true,
			Label:     view.Definition(e).Title,
			Items:     choices,
			Templates: templates,
			Size:      len(choices),
			Stdin:     n.In,
			Stdout:    n.Out,
		}
		i, _, err := sel.Run()
		if errors.Is(err, promptui.ErrInterrupt) || errors.Is(err, promptui.ErrEOF) {
			// Leave the rest for now.
			return s.Defer(ctx)
		}
		if err != nil {
			return err
		}

		r := carryover.Resolution{Action: choices[i].Action}
		if r.Action == carryover.ActionReschedule {
			to, err := n.askDay(s.Today())
			if err != nil {
				return err
			}
			r.To = &to
		}
		if err := s.Resolve(ctx, id, r); err != nil {
			_, _ = color.New(color.FgRed).Fprintf(w, "  %v\n", err)
		}
	}
	return nil
}

func (n *Carryover) askDay(tc timeutil.Context) (int64, error) {
	prompt := promptui.Prompt{
		Label:   "New day (today, tomorrow, +3d, 2024-03-01 09:00)",
		Default: "tomorrow",
		Validate: func(input string) error {
			_, err := timeutil.ParseMoment(input, tc)
			return err
		},
		Templates: &promptui.PromptTemplates{
			Prompt:  "{{ . }}: ",
			Valid:   "{{ . | green }}: ",
			Invalid: "{{ . | red }}: ",
			Success: "{{ . | bold }}: ",
		},
		Stdin:  n.In,
		Stdout: n.Out,
	}
	result, err := prompt.Run()
	if err != nil {
		return 0, err
	}
	return timeutil.ParseMoment(result, tc)
}
