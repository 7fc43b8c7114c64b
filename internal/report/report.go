// Package report prints catalogs and grading sweeps for people reading a
// terminal.
package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/gookit/color"
	"github.com/vk/karelgrid/internal/config"
	"github.com/vk/karelgrid/internal/grader"
)

// Option configures a Printer.
type Option func(*Printer)

// WithColor forces colored output on or off.
func WithColor(enabled bool) Option {
	return func(p *Printer) {
		p.color = enabled
	}
}

// Printer writes human-readable reports to w.
type Printer struct {
	w     io.Writer
	color bool
}

// New creates a Printer. Color is used when the terminal supports it.
func New(w io.Writer, opts ...Option) *Printer {
	p := &Printer{w: w, color: color.SupportColor()}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func (p *Printer) paint(c color.Color, s string) string {
	if !p.color {
		return s
	}
	return c.Sprint(s)
}

// Exercises prints one line per exercise.
func (p *Printer) Exercises(exercises []*config.Exercise) {
	for _, ex := range exercises {
		fmt.Fprintf(p.w, "%s  %s %s\n",
			p.paint(color.Bold, ex.ID),
			ex.Title,
			p.paint(color.Gray, fmt.Sprintf("(%d cases)", len(ex.Cases))),
		)
	}
}

// Sweep prints the outcome of grading program against ex.
func (p *Printer) Sweep(ex *config.Exercise, program string, s grader.Sweep) {
	fmt.Fprintf(p.w, "%s %s: %s\n", p.paint(color.Bold, ex.ID), ex.Title, program)
	for _, o := range s.Outcomes {
		switch {
		case !o.Done():
			fmt.Fprintf(p.w, "  %s case %d\n", p.paint(color.Yellow, "SKIP"), o.Index)
		case o.Passed():
			fmt.Fprintf(p.w, "  %s case %d (%d states)\n", p.paint(color.Green, "PASS"), o.Index, len(o.Result.States))
		default:
			fmt.Fprintf(p.w, "  %s case %d: %s\n", p.paint(color.Red, "FAIL"), o.Index, failure(o))
			if o.Diff != "" {
				fmt.Fprintln(p.w, indent(o.Diff, "    "))
			}
		}
	}

	summary := fmt.Sprintf("%d/%d passed", s.Passed(), len(s.Outcomes))
	if s.AllPassed() {
		summary = p.paint(color.Green, summary)
	} else {
		summary = p.paint(color.Red, summary)
	}
	fmt.Fprintf(p.w, "  %s\n", summary)
}

func failure(o grader.Outcome) string {
	if msg := o.Result.Message(); msg != "" {
		return msg
	}
	if o.Diagnostic != "" {
		return o.Diagnostic
	}
	return "final state does not match the goal (-want +got)"
}

func indent(s, prefix string) string {
	lines := strings.Split(strings.TrimRight(s, "\n"), "\n")
	for i, line := range lines {
		lines[i] = prefix + line
	}
	return strings.Join(lines, "\n")
}
