package fs

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalFS(t *testing.T) {
	tmp := t.TempDir()
	lfs := LocalFS{}

	dir := filepath.Join(tmp, "subdir")
	require.NoError(t, lfs.MkdirAll(dir, 0o755))

	fpath := filepath.Join(dir, "scores.bin")
	f, err := lfs.OpenFile(fpath, os.O_CREATE|os.O_RDWR, 0o644)
	require.NoError(t, err)

	_, err = f.Write([]byte("hello"))
	require.NoError(t, err)
	require.NoError(t, f.Sync())
	require.NoError(t, f.Close())

	info, err := lfs.Stat(fpath)
	require.NoError(t, err)
	assert.Equal(t, int64(5), info.Size())

	entries, err := lfs.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1)

	require.NoError(t, lfs.Truncate(fpath, 3))
	info, err = lfs.Stat(fpath)
	require.NoError(t, err)
	assert.Equal(t, int64(3), info.Size())

	require.NoError(t, lfs.Remove(fpath))
	_, err = lfs.Stat(fpath)
	assert.True(t, os.IsNotExist(err))
}

func TestFaultyFS_OpenFailure(t *testing.T) {
	tmp := t.TempDir()
	ffs := NewFaultyFS(nil)
	ffs.AddRule("-high", Fault{FailOnOpen: true})

	_, err := ffs.OpenFile(filepath.Join(tmp, "work-high"), os.O_CREATE|os.O_WRONLY, 0o644)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInjected)

	f, err := ffs.OpenFile(filepath.Join(tmp, "work-low"), os.O_CREATE|os.O_WRONLY, 0o644)
	require.NoError(t, err)
	assert.Len(t, ffs.OpenHandles(), 1)
	require.NoError(t, f.Close())
	assert.Empty(t, ffs.OpenHandles())
}

func TestFaultyFS_CreateOnly(t *testing.T) {
	tmp := t.TempDir()
	path := filepath.Join(tmp, "data")
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))

	ffs := NewFaultyFS(nil)
	ffs.AddRule("data", Fault{FailOnCreate: true})

	f, err := ffs.OpenFile(path, os.O_RDONLY, 0)
	require.NoError(t, err)
	require.NoError(t, f.Close())

	_, err = ffs.OpenFile(path, os.O_CREATE|os.O_WRONLY, 0o644)
	assert.ErrorIs(t, err, ErrInjected)
}

func TestFaultyFS_WriteLimit(t *testing.T) {
	tmp := t.TempDir()
	ffs := NewFaultyFS(nil)
	ffs.AddRule(".bin", Fault{FailAfterBytes: 4, FailOnClose: true})

	f, err := ffs.OpenFile(filepath.Join(tmp, "a.bin"), os.O_CREATE|os.O_WRONLY, 0o644)
	require.NoError(t, err)

	_, err = f.Write([]byte("abcd"))
	require.NoError(t, err)
	_, err = f.Write([]byte("e"))
	assert.ErrorIs(t, err, ErrInjected)

	assert.ErrorIs(t, f.Close(), ErrInjected)
	assert.Empty(t, ffs.OpenHandles())
}
