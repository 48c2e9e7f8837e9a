package queue

import (
	"math/rand"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/CiroJunio/provao/record"
)

func drain(h *CycleHeap) []Entry {
	var out []Entry
	for h.Len() > 0 {
		e, _ := h.RemoveTop()
		out = append(out, e)
	}
	return out
}

func TestCycleHeap_Order(t *testing.T) {
	rng := rand.New(rand.NewSource(7))

	for _, d := range []record.Direction{record.Up, record.Down} {
		t.Run(d.String(), func(t *testing.T) {
			cmp := record.NewComparator(d, nil)
			entries := make([]Entry, 200)
			for i := range entries {
				entries[i] = Entry{
					Key:   record.KeyRef{Score: float32(rng.Intn(20)), Pos: int64(i)},
					Cycle: rng.Intn(3),
				}
			}
			want := slices.Clone(entries)
			slices.SortFunc(want, func(a, b Entry) int {
				if a.Cycle != b.Cycle {
					return a.Cycle - b.Cycle
				}
				return cmp.Compare(a.Key, b.Key)
			})

			h := New(cmp, len(entries))
			h.Init(entries)
			assert.Equal(t, want, drain(h))
		})
	}
}

func TestCycleHeap_PushReplace(t *testing.T) {
	var count int64
	h := New(record.NewComparator(record.Up, &count), 4)

	_, ok := h.Top()
	assert.False(t, ok)
	assert.False(t, h.ReplaceTop(Entry{}))
	_, ok = h.RemoveTop()
	assert.False(t, ok)

	h.Push(Entry{Key: record.KeyRef{Score: 5, Pos: 0}})
	h.Push(Entry{Key: record.KeyRef{Score: 3, Pos: 1}})
	h.Push(Entry{Key: record.KeyRef{Score: 1, Pos: 2}, Cycle: 1})

	top, ok := h.Top()
	require.True(t, ok)
	assert.Equal(t, int64(1), top.Key.Pos)

	require.True(t, h.ReplaceTop(Entry{Key: record.KeyRef{Score: 9, Pos: 3}}))
	got := drain(h)
	require.Len(t, got, 3)
	assert.Equal(t, []int64{0, 3, 2}, []int64{got[0].Key.Pos, got[1].Key.Pos, got[2].Key.Pos})
	assert.Positive(t, count)
}
