// Package merge consolidates the runs of two tapes into one sorted sequence
// by balanced two-way merging.
//
// Each pass merges the i-th run of tape A with the i-th run of tape B into a
// scratch buffer and copies unmatched runs through. The scratch buffer is then
// rescanned and its runs are dealt back onto whichever tape holds fewer runs.
// Passes repeat until one run remains. Only KeyRefs move; full records are
// never touched.
package merge

import (
	"errors"
	"fmt"
	"log/slog"
	"unsafe"

	"github.com/RoaringBitmap/roaring/v2/roaring64"

	"github.com/CiroJunio/provao/metrics"
	"github.com/CiroJunio/provao/record"
	"github.com/CiroJunio/provao/resource"
	"github.com/CiroJunio/provao/tape"
)

// ErrCorruptPermutation is returned when the merged output is not a
// permutation of the input positions.
var ErrCorruptPermutation = errors.New("merge: output is not a permutation")

// KeySize is the in-memory size of one KeyRef.
const KeySize = int64(unsafe.Sizeof(record.KeyRef{}))

// Config configures Merge.
type Config struct {
	Direction record.Direction
	// Counters receives key reads, writes and comparisons. Optional.
	Counters *metrics.Counters
	// Controller bounds the scratch buffer. Optional.
	Controller *resource.Controller
	// Logger receives a debug record per pass. Optional.
	Logger *slog.Logger
}

// Merge merges the runs on a and b and returns the positions of the keys in
// sorted order. runs is the run count reported by generation; with one run
// or less the non-empty tape already holds the answer. Both tapes are
// consumed.
func Merge(a, b *tape.Tape, runs int, cfg Config) ([]int64, error) {
	c := cfg.Counters
	if c == nil {
		c = &metrics.Counters{}
	}
	n := a.Len() + b.Len()

	if runs <= 1 {
		if a.Len() > 0 && b.Len() > 0 {
			return nil, fmt.Errorf("merge: %d runs reported but both tapes hold keys", runs)
		}
		if a.Len() == 0 {
			return positions(b.Keys(), c, n)
		}
		return positions(a.Keys(), c, n)
	}
	return mergeAll(a, b, n, c, cfg)
}

func mergeAll(a, b *tape.Tape, n int, c *metrics.Counters, cfg Config) ([]int64, error) {
	release, err := cfg.Controller.Reserve("merge scratch", int64(n)*KeySize)
	if err != nil {
		return nil, err
	}
	defer release()

	cmp := record.NewComparator(cfg.Direction, &c.Comparisons)
	scratch := make([]record.KeyRef, 0, n)

	ra, rb := a.Runs(cmp), b.Runs(cmp)
	pass := 0
	for len(ra)+len(rb) > 1 {
		pass++
		scratch = scratch[:0]

		paired := min(len(ra), len(rb))
		for i := 0; i < paired; i++ {
			scratch = appendMerged(scratch, a.Run(ra[i]), b.Run(rb[i]), cmp, c)
		}
		for _, s := range ra[paired:] {
			scratch = appendCopy(scratch, a.Run(s), c)
		}
		for _, s := range rb[paired:] {
			scratch = appendCopy(scratch, b.Run(s), c)
		}

		if cfg.Logger != nil {
			cfg.Logger.Debug("merge pass",
				"pass", pass,
				"runs_a", len(ra),
				"runs_b", len(rb),
				"merged", paired,
			)
		}

		ra, rb = distribute(scratch, a, b, cmp, c)
	}

	final := a
	if len(ra) == 0 {
		final = b
	}
	return positions(final.Keys(), c, n)
}

// distribute rescans scratch and appends each run to the tape holding fewer
// runs, a on equal counts.
func distribute(scratch []record.KeyRef, a, b *tape.Tape, cmp record.Comparator, c *metrics.Counters) (ra, rb []tape.Span) {
	a.Reset()
	b.Reset()
	for _, s := range tape.Scan(scratch, cmp) {
		run := scratch[s.Start:s.End]
		if len(rb) < len(ra) {
			rb = append(rb, b.AppendRun(run))
		} else {
			ra = append(ra, a.AppendRun(run))
		}
		c.Writes += int64(len(run))
	}
	return ra, rb
}

// Runs merges two sorted runs under cmp and returns the result. a wins ties.
func Runs(a, b []record.KeyRef, cmp record.Comparator) []record.KeyRef {
	return appendMerged(make([]record.KeyRef, 0, len(a)+len(b)), a, b, cmp, &metrics.Counters{})
}

func appendMerged(dst, a, b []record.KeyRef, cmp record.Comparator, c *metrics.Counters) []record.KeyRef {
	i, j := 0, 0
	for i < len(a) && j < len(b) {
		if cmp.Compare(a[i], b[j]) <= 0 {
			dst = append(dst, a[i])
			i++
		} else {
			dst = append(dst, b[j])
			j++
		}
		c.Reads++
		c.Writes++
	}
	dst = appendCopy(dst, a[i:], c)
	return appendCopy(dst, b[j:], c)
}

func appendCopy(dst, src []record.KeyRef, c *metrics.Counters) []record.KeyRef {
	c.Reads += int64(len(src))
	c.Writes += int64(len(src))
	return append(dst, src...)
}

// positions extracts the positions of keys and checks that they form a
// permutation of [0, n).
func positions(keys []record.KeyRef, c *metrics.Counters, n int) ([]int64, error) {
	if len(keys) != n {
		return nil, fmt.Errorf("%w: %d keys for %d records", ErrCorruptPermutation, len(keys), n)
	}
	seen := roaring64.New()
	perm := make([]int64, len(keys))
	for i, k := range keys {
		if k.Pos < 0 || k.Pos >= int64(n) || !seen.CheckedAdd(uint64(k.Pos)) {
			return nil, fmt.Errorf("%w: position %d at index %d", ErrCorruptPermutation, k.Pos, i)
		}
		perm[i] = k.Pos
	}
	c.Reads += int64(len(keys))
	return perm, nil
}
