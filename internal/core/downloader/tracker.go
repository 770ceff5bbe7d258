package downloader

// Progress is the state of one transfer. The downloader owns it and passes it
// to the ProgressFunc on every chunk, so callbacks never need to capture
// their own counters.
type Progress struct {
	Total    int64 // expected bytes, <= 0 when unknown
	Received int64

	reported float64
}

// ProgressFunc receives the transfer state and the fraction gained since the
// previous call. delta is never negative and the sum of deltas never exceeds
// 1.0.
type ProgressFunc func(p *Progress, delta float64)

// NewProgress returns the state for a transfer of total bytes
func NewProgress(total int64) *Progress {
	return &Progress{Total: total}
}

// Fraction returns (total - remaining) / total, clamped to [0, 1].
// It is 0 while the total is unknown.
func (p *Progress) Fraction() float64 {
	if p.Total <= 0 {
		return 0
	}
	remaining := p.Total - p.Received
	if remaining < 0 {
		remaining = 0
	}
	return float64(p.Total-remaining) / float64(p.Total)
}

// Reported returns the cumulative fraction handed out so far
func (p *Progress) Reported() float64 {
	return p.reported
}

// Remaining returns the bytes still expected, or -1 when the total is unknown
func (p *Progress) Remaining() int64 {
	if p.Total <= 0 {
		return -1
	}
	if r := p.Total - p.Received; r > 0 {
		return r
	}
	return 0
}

// Advance records n more bytes and returns the newly gained fraction
func (p *Progress) Advance(n int64) float64 {
	if n > 0 {
		p.Received += n
	}
	return p.settle(p.Fraction())
}

// Finish marks the transfer complete and returns whatever fraction had not
// been reported yet.
func (p *Progress) Finish() float64 {
	return p.settle(1)
}

func (p *Progress) settle(f float64) float64 {
	if f > 1 {
		f = 1
	}
	if f <= p.reported {
		return 0
	}
	delta := f - p.reported
	p.reported = f
	return delta
}
