package game

import (
	"slices"
	"strings"
	"time"
)

// perfRing is a fixed window of durations with a running sum.
type perfRing struct {
	buf  []time.Duration
	next int
	full bool
	sum  time.Duration
}

func (r *perfRing) add(d time.Duration) {
	if r.full {
		r.sum -= r.buf[r.next]
	}
	r.buf[r.next] = d
	r.sum += d
	r.next++
	if r.next == len(r.buf) {
		r.next = 0
		r.full = true
	}
}

func (r *perfRing) avg() time.Duration {
	n := r.next
	if r.full {
		n = len(r.buf)
	}
	if n == 0 {
		return 0
	}
	return r.sum / time.Duration(n)
}

// PerfStats tracks per-system tick times, keyed by registry id.
type PerfStats struct {
	window  int
	systems map[string]*perfRing
}

// NewPerfStats creates a tracker averaging over the last window samples.
func NewPerfStats(window int) *PerfStats {
	if window < 1 {
		window = 120
	}
	return &PerfStats{
		window:  window,
		systems: make(map[string]*perfRing),
	}
}

// Record adds a duration sample for a system.
func (p *PerfStats) Record(id string, d time.Duration) {
	r, ok := p.systems[id]
	if !ok {
		r = &perfRing{buf: make([]time.Duration, p.window)}
		p.systems[id] = r
	}
	r.add(d)
}

// Avg returns the average duration of a system, zero if it never ran.
func (p *PerfStats) Avg(id string) time.Duration {
	if r, ok := p.systems[id]; ok {
		return r.avg()
	}
	return 0
}

// Total returns the sum of all system averages.
func (p *PerfStats) Total() time.Duration {
	var total time.Duration
	for _, r := range p.systems {
		total += r.avg()
	}
	return total
}

// SortedNames returns system ids, slowest first.
func (p *PerfStats) SortedNames() []string {
	ids := make([]string, 0, len(p.systems))
	for id := range p.systems {
		ids = append(ids, id)
	}
	slices.SortFunc(ids, func(a, b string) int {
		da, db := p.Avg(a), p.Avg(b)
		switch {
		case da > db:
			return -1
		case da < db:
			return 1
		}
		return strings.Compare(a, b)
	})
	return ids
}
