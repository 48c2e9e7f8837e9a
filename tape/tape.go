// Package tape models the two logical tapes of the merge path: growable
// sequences of KeyRefs partitioned into runs.
package tape

import "github.com/CiroJunio/provao/record"

// Span is the half-open range [Start, End) of one run within a sequence.
type Span struct {
	Start, End int
}

// Len returns the number of keys in the span.
func (s Span) Len() int { return s.End - s.Start }

// Tape is an ordered, growable sequence of keys.
type Tape struct {
	keys []record.KeyRef
}

// New returns an empty tape with room for capacity keys.
func New(capacity int) *Tape {
	return &Tape{keys: make([]record.KeyRef, 0, capacity)}
}

// Append adds k at the end of the tape.
func (t *Tape) Append(k record.KeyRef) {
	t.keys = append(t.keys, k)
}

// AppendRun adds keys at the end of the tape and returns their span.
func (t *Tape) AppendRun(keys []record.KeyRef) Span {
	start := len(t.keys)
	t.keys = append(t.keys, keys...)
	return Span{Start: start, End: len(t.keys)}
}

// Len returns the number of keys on the tape.
func (t *Tape) Len() int { return len(t.keys) }

// Keys returns the keys on the tape. The slice is valid until the next
// Append or Reset.
func (t *Tape) Keys() []record.KeyRef { return t.keys }

// Run returns the keys of s.
func (t *Tape) Run(s Span) []record.KeyRef { return t.keys[s.Start:s.End] }

// Reset empties the tape and keeps its capacity.
func (t *Tape) Reset() { t.keys = t.keys[:0] }

// Runs scans the tape for order breaks under cmp.
func (t *Tape) Runs(cmp record.Comparator) []Span {
	return Scan(t.keys, cmp)
}

// Scan splits keys into maximal runs that are non-decreasing under cmp. A new
// run starts wherever a key precedes its predecessor. Concatenating the
// returned spans yields keys exactly; an empty input has no runs.
func Scan(keys []record.KeyRef, cmp record.Comparator) []Span {
	if len(keys) == 0 {
		return nil
	}
	var spans []Span
	start := 0
	for i := 1; i < len(keys); i++ {
		if cmp.Less(keys[i], keys[i-1]) {
			spans = append(spans, Span{Start: start, End: i})
			start = i
		}
	}
	return append(spans, Span{Start: start, End: len(keys)})
}
