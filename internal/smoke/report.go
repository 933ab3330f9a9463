// Package smoke checks a generated page for the anchors, content and
// behaviour the site depends on.
package smoke

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
)

// Check is the outcome of one assertion.
type Check struct {
	Name   string
	OK     bool
	Detail string
}

// Report collects checks in the order they ran.
type Report struct {
	Checks []Check
}

func (r *Report) add(name string, ok bool, detail string, args ...any) {
	if len(args) > 0 {
		detail = fmt.Sprintf(detail, args...)
	}
	r.Checks = append(r.Checks, Check{Name: name, OK: ok, Detail: detail})
}

// Merge appends the checks of other.
func (r *Report) Merge(other *Report) {
	if other != nil {
		r.Checks = append(r.Checks, other.Checks...)
	}
}

// Failed returns the checks that did not pass.
func (r *Report) Failed() []Check {
	var failed []Check
	for _, c := range r.Checks {
		if !c.OK {
			failed = append(failed, c)
		}
	}
	return failed
}

// Err summarises the failures, or returns nil when every check passed.
func (r *Report) Err() error {
	failed := r.Failed()
	if len(failed) == 0 {
		return nil
	}
	names := make([]string, len(failed))
	for i, c := range failed {
		names[i] = c.Name
	}
	return fmt.Errorf("%d of %d checks failed: %s", len(failed), len(r.Checks), strings.Join(names, ", "))
}

// Print writes one line per check.
func (r *Report) Print(w io.Writer) {
	pass := color.New(color.FgHiGreen)
	fail := color.New(color.FgHiRed)
	dim := color.New(color.FgHiBlack)

	for _, c := range r.Checks {
		if c.OK {
			pass.Fprint(w, "PASS ")
		} else {
			fail.Fprint(w, "FAIL ")
		}
		fmt.Fprint(w, c.Name)
		if c.Detail != "" {
			dim.Fprintf(w, "  %s", c.Detail)
		}
		fmt.Fprintln(w)
	}

	summary := color.New(color.FgHiWhite, color.Bold)
	if n := len(r.Failed()); n > 0 {
		summary = color.New(color.FgHiYellow, color.Bold)
		summary.Fprintf(w, "%d/%d checks failed\n", n, len(r.Checks))
		return
	}
	summary.Fprintf(w, "all %d checks passed\n", len(r.Checks))
}
