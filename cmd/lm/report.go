package main

import (
	"fmt"
	"io"
	"os"

	"code.bbsnetwork.io/lm/scenario"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
)

var (
	bold  = color.New(color.Bold).SprintFunc()
	faint = color.New(color.Faint).SprintFunc()
	red   = color.New(color.FgRed).SprintFunc()
	green = color.New(color.FgGreen).SprintFunc()
)

func init() {
	fd := os.Stdout.Fd()
	color.NoColor = !isatty.IsTerminal(fd) && !isatty.IsCygwinTerminal(fd)
}

type reporter struct {
	w       io.Writer
	verbose bool
	failed  int
}

func (r *reporter) HasError() bool {
	return r.failed > 0
}

func (r *reporter) Dump(file string, report *scenario.Report) {
	ok := green("OK")
	if !report.Passed() {
		r.failed++
		ok = red("NOT OK")
	}
	fmt.Fprintf(r.w, "%v: %v %v\n", bold(file), ok, faint(report.Duration))
	for _, st := range report.Steps {
		switch {
		case !st.Passed():
			fmt.Fprintf(r.w, "  %v step %d (%s): %v\n", red("error"), st.Index, st.Action, st.Err)
		case r.verbose:
			fmt.Fprintf(r.w, "  step %d: %s\n", st.Index, st.Detail)
		}
	}
}

func (r *reporter) Err(file string, err error) {
	r.failed++
	fmt.Fprintf(r.w, "%v: %v\n  %v\n", bold(file), red("NOT OK"), err)
}
