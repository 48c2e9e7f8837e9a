package testutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/CiroJunio/provao/record"
)

func TestRecords(t *testing.T) {
	a := NewRNG(4711).Records(100)
	b := NewRNG(4711).Records(100)
	assert.Equal(t, a, b)

	for _, rec := range a {
		assert.GreaterOrEqual(t, rec.Score, float32(0))
		assert.LessOrEqual(t, rec.Score, float32(100))
	}
}

func TestStableOrder(t *testing.T) {
	recs := []record.Record{
		{ID: 1, Score: 5}, {ID: 2, Score: 1}, {ID: 3, Score: 5}, {ID: 4, Score: 3},
	}
	assert.Equal(t, []int64{1, 3, 0, 2}, StableOrder(recs, record.Up))
	assert.Equal(t, []int64{0, 2, 3, 1}, StableOrder(recs, record.Down))

	sorted := StableSorted(recs, record.Down)
	assert.True(t, IsSorted(sorted, record.Down))
	assert.False(t, IsSorted(sorted, record.Up))
}

func TestEncode(t *testing.T) {
	recs := Ascending(3)
	data := Encode(recs)
	require.Len(t, data, 3*record.Size)

	got, err := record.Unmarshal(data[record.Size:])
	require.NoError(t, err)
	assert.Equal(t, recs[1], got)
}
