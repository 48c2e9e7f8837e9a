package tape

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/CiroJunio/provao/record"
)

func keys(scores ...float32) []record.KeyRef {
	out := make([]record.KeyRef, len(scores))
	for i, s := range scores {
		out[i] = record.KeyRef{Score: s, Pos: int64(i)}
	}
	return out
}

func TestScan(t *testing.T) {
	tests := []struct {
		name   string
		dir    record.Direction
		scores []float32
		want   []Span
	}{
		{name: "empty", dir: record.Up},
		{name: "single", dir: record.Up, scores: []float32{4}, want: []Span{{0, 1}}},
		{name: "ascending", dir: record.Up, scores: []float32{1, 2, 2, 3}, want: []Span{{0, 4}}},
		{name: "breaks", dir: record.Up, scores: []float32{3, 5, 1, 2, 0}, want: []Span{{0, 2}, {2, 4}, {4, 5}}},
		{name: "descending", dir: record.Down, scores: []float32{9, 7, 8, 1}, want: []Span{{0, 2}, {2, 4}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Scan(keys(tt.scores...), record.NewComparator(tt.dir, nil))
			assert.Equal(t, tt.want, got)

			total := 0
			for _, s := range got {
				total += s.Len()
			}
			assert.Equal(t, len(tt.scores), total)
		})
	}
}

func TestScan_TieBreakByPosition(t *testing.T) {
	// Equal scores with decreasing positions break the run.
	ks := []record.KeyRef{{Score: 1, Pos: 5}, {Score: 1, Pos: 2}}
	assert.Len(t, Scan(ks, record.NewComparator(record.Up, nil)), 2)
}

func TestTape(t *testing.T) {
	tp := New(4)
	tp.Append(record.KeyRef{Score: 1, Pos: 0})
	s := tp.AppendRun(keys(0, 3))
	assert.Equal(t, Span{Start: 1, End: 3}, s)
	require.Equal(t, 3, tp.Len())
	assert.Equal(t, keys(0, 3), tp.Run(s))

	var count int64
	assert.Len(t, tp.Runs(record.NewComparator(record.Up, &count)), 2)
	assert.Equal(t, int64(2), count)

	tp.Reset()
	assert.Zero(t, tp.Len())
	assert.Nil(t, tp.Runs(record.NewComparator(record.Up, nil)))
}
