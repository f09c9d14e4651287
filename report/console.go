// Package report provides hooks that print the progress of a run.
package report

import (
	"context"
	"fmt"
	"io"
	"math"
	"os"

	"github.com/rickchristie/xsec"
)

// ConsoleHook prints the classic run summary: a start banner, the
// contribution of every completed subrun and a closing banner that notes an
// aborted run.
//
//	runner.RegisterHook(report.NewConsoleHook(os.Stdout).WithStatistics())
type ConsoleHook struct {
	out   io.Writer
	stats bool

	// subrun and factor describe the subrun in progress.
	subrun *xsec.Subrun
	factor float64
}

// NewConsoleHook creates a ConsoleHook writing to out (stdout if nil).
func NewConsoleHook(out io.Writer) *ConsoleHook {
	if out == nil {
		out = os.Stdout
	}
	return &ConsoleHook{out: out}
}

// WithStatistics also prints per-subrun statistics before each contribution.
func (h *ConsoleHook) WithStatistics() *ConsoleHook {
	h.stats = true
	return h
}

// OnBeforeRun prints the run banner.
func (h *ConsoleHook) OnBeforeRun(_ context.Context, _ *xsec.RunContext, _ xsec.BeforeRunEvent) {
	fmt.Fprint(h.out, "\n\n\n")
	fmt.Fprintln(h.out, "Start generating events")
}

// OnBeforeSubrun remembers the subrun being generated.
func (h *ConsoleHook) OnBeforeSubrun(_ context.Context, _ *xsec.RunContext, e xsec.BeforeSubrunEvent) {
	h.subrun = e.Subrun
	h.factor = e.Factor
}

// OnAfterSubrun prints the contribution of a completed subrun.
func (h *ConsoleHook) OnAfterSubrun(_ context.Context, _ *xsec.RunContext, e xsec.AfterSubrunEvent) {
	if e.Aborted {
		return
	}

	if h.stats {
		h.printStatistics(e.Result)
	}

	fmt.Fprintf(h.out, "\n Contribution of sample %d to the inclusive cross section : %.8e  +-  %.8e\n",
		e.Result.Index, e.Result.Estimate.CrossSection, e.Result.Estimate.Error)
}

// OnAfterRun prints why the run stopped early, if it did.
func (h *ConsoleHook) OnAfterRun(_ context.Context, _ *xsec.RunContext, e xsec.AfterRunEvent) {
	fmt.Fprint(h.out, "\n\n\n")
	switch e.TerminationReason {
	case xsec.TerminationAborted:
		fmt.Fprintln(h.out, " Run was not completed owing to too many aborted events")
	case xsec.TerminationError:
		fmt.Fprintf(h.out, " Run stopped by an error: %v\n", e.Error)
	}
	fmt.Fprint(h.out, "\n\n\n")
}

func (h *ConsoleHook) printStatistics(r xsec.SubrunResult) {
	fmt.Fprintf(h.out, "\n *-------  Subrun %d statistics  -------*\n", r.Index)
	if s := h.subrun; s != nil && s.Config.Index == r.Index {
		fmt.Fprintf(h.out, " | strategy             : %12d |\n", int(s.Strategy))
		fmt.Fprintf(h.out, " | inclusive xsec       : %12.4e |\n", s.Inclusive)
		fmt.Fprintf(h.out, " | weight factor        : %12.4e |\n", h.factor)
	}
	fmt.Fprintf(h.out, " | accepted events      : %12d |\n", r.Accepted)
	fmt.Fprintf(h.out, " | zero-weight events   : %12d |\n", r.ZeroWeight)
	fmt.Fprintf(h.out, " | generation failures  : %12d |\n", r.Failures)
	fmt.Fprintf(h.out, " | end of input         : %12t |\n", r.EndOfInput)
	fmt.Fprintf(h.out, " | sample xsec (x1e9)   : %12.4e |\n", r.Estimate.CrossSection*xsec.UnitScale)
	fmt.Fprintf(h.out, " | rel. error           : %12.4e |\n", relativeError(r.Estimate))
	fmt.Fprintln(h.out, " *--------------------------------------*")
}

func relativeError(e xsec.Estimate) float64 {
	if e.CrossSection == 0 {
		return 0
	}
	return math.Abs(e.Error / e.CrossSection)
}
