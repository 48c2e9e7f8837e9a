package recordstore

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/CiroJunio/provao/internal/fs"
	"github.com/CiroJunio/provao/record"
	"github.com/CiroJunio/provao/resource"
)

func sampleRecords(n int) []record.Record {
	recs := make([]record.Record, n)
	for i := range recs {
		recs[i] = record.Record{
			ID:     int64(1000 + i),
			Score:  float32(n - i),
			Region: "RJ",
			City:   "NITEROI",
			Course: "MEDICINA",
		}
	}
	return recs
}

func stores(t *testing.T) map[string]Store {
	local, err := NewLocalStore(t.TempDir())
	require.NoError(t, err)
	throttled, err := NewLocalStore(t.TempDir(), WithController(resource.NewController(resource.Config{
		IOLimitBytesPerSec: 1 << 24,
	})))
	require.NoError(t, err)
	return map[string]Store{
		"local":     local,
		"throttled": throttled,
		"memory":    NewMemoryStore(),
	}
}

func TestStore_Lifecycle(t *testing.T) {
	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			recs := sampleRecords(5)
			require.NoError(t, WriteAll(s, "registros.bin", recs))

			n, err := s.Count("registros.bin")
			require.NoError(t, err)
			assert.Equal(t, int64(5), n)

			got, err := ReadAll(s, "registros.bin")
			require.NoError(t, err)
			assert.Equal(t, recs, got)

			r, err := s.Open("registros.bin")
			require.NoError(t, err)
			assert.Equal(t, int64(5), r.Len())

			// Positioned reads leave the sequential cursor alone.
			at, err := r.ReadAt(3)
			require.NoError(t, err)
			assert.Equal(t, recs[3], at)
			first, err := r.Next()
			require.NoError(t, err)
			assert.Equal(t, recs[0], first)

			_, err = r.ReadAt(5)
			assert.Error(t, err)
			require.NoError(t, r.Close())

			w, err := s.Append("registros.bin")
			require.NoError(t, err)
			require.NoError(t, w.Write(record.Record{ID: 7, Score: 1}))
			require.NoError(t, w.Close())

			n, err = s.Count("registros.bin")
			require.NoError(t, err)
			assert.Equal(t, int64(6), n)

			require.NoError(t, s.Truncate("registros.bin", 2))
			got, err = ReadAll(s, "registros.bin")
			require.NoError(t, err)
			assert.Equal(t, recs[:2], got)

			require.NoError(t, WriteAll(s, "registros.bin-low", nil))
			names, err := s.List("registros.bin-")
			require.NoError(t, err)
			assert.Equal(t, []string{"registros.bin-low"}, names)

			require.NoError(t, s.Remove("registros.bin"))
			_, err = s.Count("registros.bin")
			assert.True(t, errors.Is(err, ErrNotFound))

			_, err = s.Open("registros.bin")
			var oe *OpenError
			require.ErrorAs(t, err, &oe)
			assert.Equal(t, "open", oe.Op)
			assert.True(t, errors.Is(err, os.ErrNotExist))
		})
	}
}

func TestStore_ReadPastEnd(t *testing.T) {
	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, WriteAll(s, "one", sampleRecords(1)))
			r, err := s.Open("one")
			require.NoError(t, err)
			defer r.Close()

			_, err = r.Next()
			require.NoError(t, err)
			_, err = r.Next()
			assert.Equal(t, io.EOF, err)
		})
	}
}

func TestLocalStore_TrailingPartialRecord(t *testing.T) {
	dir := t.TempDir()
	s, err := NewLocalStore(dir)
	require.NoError(t, err)

	buf := sampleRecords(1)[0].Append(nil)
	buf = append(buf, 1, 2, 3)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "partial"), buf, 0o644))

	n, err := s.Count("partial")
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	r, err := s.Open("partial")
	require.NoError(t, err)
	defer r.Close()
	_, err = r.Next()
	require.NoError(t, err)
	_, err = r.Next()
	assert.ErrorIs(t, err, record.ErrShortRecord)
}

func TestLocalStore_InvalidName(t *testing.T) {
	s, err := NewLocalStore(t.TempDir())
	require.NoError(t, err)

	_, err = s.Create("../escape")
	assert.ErrorIs(t, err, ErrInvalidName)
}

func TestLocalStore_FaultInjection(t *testing.T) {
	ffs := fs.NewFaultyFS(nil)
	s, err := NewLocalStore(t.TempDir(), WithFileSystem(ffs))
	require.NoError(t, err)

	ffs.AddRule("-high", fs.Fault{FailOnOpen: true})
	_, err = s.Create("work-high")
	var oe *OpenError
	require.ErrorAs(t, err, &oe)
	assert.Equal(t, "create", oe.Op)
	assert.ErrorIs(t, err, fs.ErrInjected)

	ffs.AddRule("-low", fs.Fault{FailAfterBytes: record.Size})
	w, err := s.Create("work-low")
	require.NoError(t, err)
	for _, r := range sampleRecords(100) {
		if err = w.Write(r); err != nil {
			break
		}
	}
	if err == nil {
		err = w.Close()
	} else {
		w.Close()
	}
	assert.ErrorIs(t, err, fs.ErrInjected)
	assert.Empty(t, ffs.OpenHandles())
}
