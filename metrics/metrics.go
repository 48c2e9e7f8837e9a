// Package metrics holds the per-invocation counters of a sort: reads, writes
// and comparisons plus elapsed time, for a pre-processing and a
// post-processing phase.
//
// Counters only grow during an invocation. Engines receive the *Counters of
// the phase they run in and increment the fields directly; the caller takes
// one Snapshot when the invocation ends.
package metrics

import "time"

// Phase selects one of the two measured phases.
type Phase int

const (
	// Pre is run generation, or staging the working copy for quicksort.
	Pre Phase = iota
	// Post is merging, or the quicksort itself.
	Post
)

func (p Phase) String() string {
	if p == Post {
		return "post"
	}
	return "pre"
}

// Counters accumulates the cost of one phase.
type Counters struct {
	Reads       int64         `json:"reads"`
	Writes      int64         `json:"writes"`
	Comparisons int64         `json:"comparisons"`
	Elapsed     time.Duration `json:"elapsed_ns"`
}

// IsZero reports whether nothing was counted.
func (c Counters) IsZero() bool {
	return c == Counters{}
}

// Metrics holds both phases of one sort invocation.
type Metrics struct {
	Pre  Counters `json:"pre"`
	Post Counters `json:"post"`
}

// Phase returns the counters of p.
func (m *Metrics) Phase(p Phase) *Counters {
	if p == Post {
		return &m.Post
	}
	return &m.Pre
}

// Start begins timing p. The returned function adds the elapsed time to the
// phase; call it exactly once.
func (m *Metrics) Start(p Phase) func() {
	c := m.Phase(p)
	start := time.Now()
	return func() {
		c.Elapsed += time.Since(start)
	}
}

// Snapshot returns a copy of the current counters.
func (m *Metrics) Snapshot() Metrics {
	return *m
}

// Total returns the sum of both phases.
func (m Metrics) Total() Counters {
	return Counters{
		Reads:       m.Pre.Reads + m.Post.Reads,
		Writes:      m.Pre.Writes + m.Post.Writes,
		Comparisons: m.Pre.Comparisons + m.Post.Comparisons,
		Elapsed:     m.Pre.Elapsed + m.Post.Elapsed,
	}
}
