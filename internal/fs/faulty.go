package fs

import (
	"errors"
	"os"
	"strings"
	"sync"
)

// ErrInjected is the default error returned by injected faults.
var ErrInjected = errors.New("fs: injected fault")

// Fault describes the failure applied to files whose name matches a rule.
type Fault struct {
	// FailOnOpen makes OpenFile fail.
	FailOnOpen bool
	// FailOnCreate makes OpenFile fail only when os.O_CREATE is requested.
	FailOnCreate bool
	// FailAfterBytes fails writes once this many bytes went to one handle.
	// Zero disables the limit.
	FailAfterBytes int64
	// FailOnClose makes Close return an error after closing the file.
	FailOnClose bool
	// Err overrides ErrInjected.
	Err error
}

func (f Fault) err() error {
	if f.Err != nil {
		return f.Err
	}
	return ErrInjected
}

// FaultyFS wraps a FileSystem, injects faults by file name suffix and tracks
// the number of handles that are still open.
type FaultyFS struct {
	FS FileSystem

	mu    sync.Mutex
	rules map[string]Fault
	open  map[*faultyFile]string
}

// NewFaultyFS creates a FaultyFS over fsys (or Default if nil).
func NewFaultyFS(fsys FileSystem) *FaultyFS {
	if fsys == nil {
		fsys = Default
	}
	return &FaultyFS{
		FS:    fsys,
		rules: make(map[string]Fault),
		open:  make(map[*faultyFile]string),
	}
}

// AddRule applies fault to every file whose name ends with suffix.
func (f *FaultyFS) AddRule(suffix string, fault Fault) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.rules[suffix] = fault
}

// ClearRules removes every rule.
func (f *FaultyFS) ClearRules() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.rules = make(map[string]Fault)
}

// OpenHandles returns the names of files opened through f and not closed yet.
func (f *FaultyFS) OpenHandles() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	names := make([]string, 0, len(f.open))
	for _, name := range f.open {
		names = append(names, name)
	}
	return names
}

func (f *FaultyFS) match(name string) (Fault, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var (
		best    Fault
		bestLen = -1
	)
	for suffix, rule := range f.rules {
		if strings.HasSuffix(name, suffix) && len(suffix) > bestLen {
			best, bestLen = rule, len(suffix)
		}
	}
	return best, bestLen >= 0
}

func (f *FaultyFS) OpenFile(name string, flag int, perm os.FileMode) (File, error) {
	fault, _ := f.match(name)
	if fault.FailOnOpen || (fault.FailOnCreate && flag&os.O_CREATE != 0) {
		return nil, &os.PathError{Op: "open", Path: name, Err: fault.err()}
	}

	file, err := f.FS.OpenFile(name, flag, perm)
	if err != nil {
		return nil, err
	}

	ff := &faultyFile{File: file, fs: f, fault: fault}
	f.mu.Lock()
	f.open[ff] = name
	f.mu.Unlock()
	return ff, nil
}

func (f *FaultyFS) Remove(name string) error              { return f.FS.Remove(name) }
func (f *FaultyFS) Stat(name string) (os.FileInfo, error) { return f.FS.Stat(name) }
func (f *FaultyFS) MkdirAll(path string, perm os.FileMode) error {
	return f.FS.MkdirAll(path, perm)
}
func (f *FaultyFS) ReadDir(name string) ([]os.DirEntry, error) { return f.FS.ReadDir(name) }
func (f *FaultyFS) Truncate(name string, size int64) error     { return f.FS.Truncate(name, size) }

type faultyFile struct {
	File
	fs      *FaultyFS
	fault   Fault
	written int64
}

func (ff *faultyFile) Write(p []byte) (int, error) {
	if ff.fault.FailAfterBytes > 0 && ff.written+int64(len(p)) > ff.fault.FailAfterBytes {
		return 0, ff.fault.err()
	}
	n, err := ff.File.Write(p)
	ff.written += int64(n)
	return n, err
}

func (ff *faultyFile) Close() error {
	ff.fs.mu.Lock()
	delete(ff.fs.open, ff)
	ff.fs.mu.Unlock()

	err := ff.File.Close()
	if ff.fault.FailOnClose && err == nil {
		err = ff.fault.err()
	}
	return err
}
