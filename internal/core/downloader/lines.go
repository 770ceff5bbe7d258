package downloader

import (
	"fmt"
	"io"
)

// LineReporter prints one progress line each time the cumulative fraction
// crosses another step. It is used when no TUI is available.
type LineReporter struct {
	w       io.Writer
	stepPct int
	last    int
	current *Progress
}

// NewLineReporter reports every stepPct percent (10 when stepPct is out of range).
func NewLineReporter(w io.Writer, stepPct int) *LineReporter {
	if stepPct <= 0 || stepPct > 100 {
		stepPct = 10
	}
	return &LineReporter{w: w, stepPct: stepPct}
}

// Report satisfies ProgressFunc.
func (r *LineReporter) Report(p *Progress, _ float64) {
	// Each attempt starts a fresh transfer
	if p != r.current {
		r.current = p
		r.last = 0
	}

	bucket := int(p.Reported()*100+1e-9) / r.stepPct
	if bucket <= r.last {
		return
	}
	r.last = bucket

	if p.Total > 0 {
		fmt.Fprintf(r.w, "  %5.1f%%  %s / %s\n", p.Reported()*100, formatBytes(p.Received), formatBytes(p.Total))
	} else {
		fmt.Fprintf(r.w, "  %5.1f%%  %s\n", p.Reported()*100, formatBytes(p.Received))
	}
}
