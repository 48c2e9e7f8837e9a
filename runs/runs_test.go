package runs

import (
	"fmt"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/CiroJunio/provao/metrics"
	"github.com/CiroJunio/provao/record"
	"github.com/CiroJunio/provao/resource"
	"github.com/CiroJunio/provao/tape"
	"github.com/CiroJunio/provao/testutil"
)

type sliceSource struct {
	recs []record.Record
	i    int
}

func (s *sliceSource) Next() (record.Record, error) {
	if s.i >= len(s.recs) {
		return record.Record{}, io.EOF
	}
	s.i++
	return s.recs[s.i-1], nil
}

func generate(t *testing.T, recs []record.Record, m int, d record.Direction) (Result, metrics.Counters) {
	t.Helper()
	var c metrics.Counters
	res, err := Generate(&sliceSource{recs: recs}, int64(len(recs)), Config{
		Memory:    m,
		Direction: d,
		Counters:  &c,
	})
	require.NoError(t, err)
	return res, c
}

func TestGenerate_Empty(t *testing.T) {
	res, c := generate(t, nil, 20, record.Up)
	assert.Zero(t, res.Runs)
	assert.Zero(t, res.Tapes[0].Len())
	assert.Zero(t, res.Tapes[1].Len())
	assert.True(t, c.IsZero())
}

func TestGenerate_RunBounds(t *testing.T) {
	rng := testutil.NewRNG(42)

	for _, n := range []int{1, 2, 7, 25, 100, 1000} {
		recs := rng.Records(n)
		for _, m := range []int{1, 2, 5, 20} {
			for _, d := range []record.Direction{record.Up, record.Down} {
				t.Run(fmt.Sprintf("n=%d/m=%d/%s", n, m, d), func(t *testing.T) {
					res, c := generate(t, recs, m, d)

					maxRuns := (n + m - 1) / m
					assert.GreaterOrEqual(t, res.Runs, 1)
					assert.LessOrEqual(t, res.Runs, maxRuns)

					assert.Equal(t, int64(n), c.Reads)
					assert.Equal(t, int64(n), c.Writes)
					assert.Equal(t, n, res.Tapes[0].Len()+res.Tapes[1].Len())

					seen := make(map[int64]bool, n)
					for _, tp := range res.Tapes {
						for _, k := range tp.Keys() {
							assert.False(t, seen[k.Pos], "position %d emitted twice", k.Pos)
							seen[k.Pos] = true
							assert.Equal(t, recs[k.Pos].Score, k.Score)
						}
					}
					assert.Len(t, seen, n)

					// Tape 0 holds the even cycles, tape 1 the odd ones.
					cmp := record.NewComparator(d, nil)
					assert.LessOrEqual(t, len(res.Tapes[0].Runs(cmp)), (res.Runs+1)/2)
					assert.LessOrEqual(t, len(res.Tapes[1].Runs(cmp)), res.Runs/2)
				})
			}
		}
	}
}

func TestGenerate_MemoryCoversInput(t *testing.T) {
	recs := testutil.NewRNG(3).Records(15)
	res, _ := generate(t, recs, 20, record.Down)

	assert.Equal(t, 1, res.Runs)
	assert.Zero(t, res.Tapes[1].Len())
	assert.Equal(t, testutil.StableOrder(recs, record.Down), positions(res.Tapes[0]))
}

func TestGenerate_SortedInput(t *testing.T) {
	recs := testutil.Ascending(25)
	res, _ := generate(t, recs, 20, record.Up)

	assert.Contains(t, []int{1, 2}, res.Runs)
	assert.Equal(t, testutil.StableOrder(recs, record.Up), positions(res.Tapes[0]))
}

func TestGenerate_ReverseInput(t *testing.T) {
	recs := testutil.Ascending(100)
	res, _ := generate(t, recs, 10, record.Up)
	assert.Equal(t, 1, res.Runs)

	// Against the order, every run holds exactly one heap load.
	res, _ = generate(t, recs, 10, record.Down)
	assert.Equal(t, 10, res.Runs)

	desc := testutil.StableSorted(recs, record.Down)
	res, _ = generate(t, desc, 10, record.Up)
	assert.Equal(t, 10, res.Runs)
}

func TestGenerate_Ties(t *testing.T) {
	recs := testutil.Uniform(50, 7)
	res, _ := generate(t, recs, 4, record.Up)
	assert.Equal(t, 1, res.Runs)
	assert.Equal(t, testutil.StableOrder(recs, record.Up), positions(res.Tapes[0]))
}

func TestGenerate_Errors(t *testing.T) {
	recs := testutil.Ascending(10)

	t.Run("InvalidMemory", func(t *testing.T) {
		_, err := Generate(&sliceSource{recs: recs}, 10, Config{Memory: 0})
		assert.ErrorIs(t, err, ErrInvalidMemory)
	})

	t.Run("ShortSource", func(t *testing.T) {
		_, err := Generate(&sliceSource{recs: recs}, 11, Config{Memory: 4})
		assert.ErrorIs(t, err, io.ErrUnexpectedEOF)
	})

	t.Run("Capacity", func(t *testing.T) {
		rc := resource.NewController(resource.Config{MemoryLimitBytes: EntrySize})
		_, err := Generate(&sliceSource{recs: recs}, 10, Config{Memory: 4, Controller: rc})
		assert.ErrorIs(t, err, resource.ErrCapacity)
		assert.Zero(t, rc.MemoryUsage())
	})

	t.Run("ReleasesBudget", func(t *testing.T) {
		rc := resource.NewController(resource.Config{MemoryLimitBytes: 4 * EntrySize})
		_, err := Generate(&sliceSource{recs: recs}, 10, Config{Memory: 4, Controller: rc})
		require.NoError(t, err)
		assert.Zero(t, rc.MemoryUsage())
		assert.Equal(t, 4*EntrySize, rc.PeakMemoryUsage())
	})
}

func positions(tp *tape.Tape) []int64 {
	out := make([]int64, 0, tp.Len())
	for _, k := range tp.Keys() {
		out = append(out, k.Pos)
	}
	return out
}
