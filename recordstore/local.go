package recordstore

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/CiroJunio/provao/internal/fs"
	"github.com/CiroJunio/provao/record"
	"github.com/CiroJunio/provao/resource"
)

const bufferSize = 64 * record.Size

// LocalStore implements Store on a local directory.
type LocalStore struct {
	root string
	fsys fs.FileSystem
	rc   *resource.Controller
}

// LocalOption configures a LocalStore.
type LocalOption func(*LocalStore)

// WithFileSystem replaces the file system (fs.Default).
func WithFileSystem(fsys fs.FileSystem) LocalOption {
	return func(s *LocalStore) {
		if fsys != nil {
			s.fsys = fsys
		}
	}
}

// WithController throttles sequential reads and writes with rc's I/O limit.
func WithController(rc *resource.Controller) LocalOption {
	return func(s *LocalStore) {
		s.rc = rc
	}
}

// NewLocalStore creates a LocalStore rooted at root, creating the directory.
func NewLocalStore(root string, optFns ...LocalOption) (*LocalStore, error) {
	s := &LocalStore{root: root, fsys: fs.Default}
	for _, fn := range optFns {
		fn(s)
	}
	if err := s.fsys.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("recordstore: create root: %w", err)
	}
	return s, nil
}

// Root returns the directory of the store.
func (s *LocalStore) Root() string { return s.root }

// Path returns the file system path of name.
func (s *LocalStore) Path(name string) (string, error) {
	if !filepath.IsLocal(name) {
		return "", fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	return filepath.Join(s.root, name), nil
}

// Open opens name for reading.
func (s *LocalStore) Open(name string) (Reader, error) {
	path, err := s.Path(name)
	if err != nil {
		return nil, err
	}
	f, err := s.fsys.OpenFile(path, os.O_RDONLY, 0)
	if err != nil {
		return nil, &OpenError{Op: "open", Name: name, Err: err}
	}
	fi, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, &OpenError{Op: "open", Name: name, Err: err}
	}

	var src io.Reader = f
	if s.rc.Throttled() {
		src = resource.NewRateLimitedReader(context.Background(), f, s.rc)
	}
	return &localReader{
		name: name,
		f:    f,
		br:   bufio.NewReaderSize(src, bufferSize),
		n:    fi.Size() / record.Size,
		buf:  make([]byte, record.Size),
	}, nil
}

// Create creates or truncates name.
func (s *LocalStore) Create(name string) (Writer, error) {
	return s.openWriter("create", name, os.O_CREATE|os.O_WRONLY|os.O_TRUNC)
}

// Append opens name for writing at its end.
func (s *LocalStore) Append(name string) (Writer, error) {
	return s.openWriter("append", name, os.O_CREATE|os.O_WRONLY|os.O_APPEND)
}

func (s *LocalStore) openWriter(op, name string, flag int) (Writer, error) {
	path, err := s.Path(name)
	if err != nil {
		return nil, err
	}
	f, err := s.fsys.OpenFile(path, flag, 0o644)
	if err != nil {
		return nil, &OpenError{Op: op, Name: name, Err: err}
	}

	var dst io.Writer = f
	if s.rc.Throttled() {
		dst = resource.NewRateLimitedWriter(context.Background(), f, s.rc)
	}
	return &localWriter{
		name: name,
		f:    f,
		bw:   bufio.NewWriterSize(dst, bufferSize),
		buf:  make([]byte, record.Size),
	}, nil
}

// Truncate shortens name to n records.
func (s *LocalStore) Truncate(name string, n int64) error {
	path, err := s.Path(name)
	if err != nil {
		return err
	}
	if n < 0 {
		return fmt.Errorf("recordstore: truncate %s: negative length %d", name, n)
	}
	return s.fsys.Truncate(path, n*record.Size)
}

// Remove deletes name.
func (s *LocalStore) Remove(name string) error {
	path, err := s.Path(name)
	if err != nil {
		return err
	}
	return s.fsys.Remove(path)
}

// Count returns the number of records in name.
func (s *LocalStore) Count(name string) (int64, error) {
	path, err := s.Path(name)
	if err != nil {
		return 0, err
	}
	fi, err := s.fsys.Stat(path)
	if err != nil {
		return 0, err
	}
	return fi.Size() / record.Size, nil
}

// List returns the sorted names in the root starting with prefix.
func (s *LocalStore) List(prefix string) ([]string, error) {
	entries, err := s.fsys.ReadDir(s.root)
	if err != nil {
		return nil, err
	}
	var names []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasPrefix(e.Name(), prefix) {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)
	return names, nil
}

type localReader struct {
	name string
	f    fs.File
	br   *bufio.Reader
	n    int64
	buf  []byte
	at   []byte
}

func (r *localReader) Next() (record.Record, error) {
	if _, err := io.ReadFull(r.br, r.buf); err != nil {
		if errors.Is(err, io.ErrUnexpectedEOF) {
			return record.Record{}, fmt.Errorf("recordstore: %s: %w", r.name, record.ErrShortRecord)
		}
		return record.Record{}, err
	}
	return record.Unmarshal(r.buf)
}

func (r *localReader) ReadAt(i int64) (record.Record, error) {
	if i < 0 || i >= r.n {
		return record.Record{}, fmt.Errorf("recordstore: %s: index %d out of range [0,%d)", r.name, i, r.n)
	}
	if r.at == nil {
		r.at = make([]byte, record.Size)
	}
	if _, err := r.f.ReadAt(r.at, i*record.Size); err != nil {
		return record.Record{}, fmt.Errorf("recordstore: %s: read %d: %w", r.name, i, err)
	}
	return record.Unmarshal(r.at)
}

func (r *localReader) Len() int64 { return r.n }

func (r *localReader) Close() error { return r.f.Close() }

type localWriter struct {
	name string
	f    fs.File
	bw   *bufio.Writer
	buf  []byte
}

func (w *localWriter) Write(rec record.Record) error {
	if err := rec.MarshalTo(w.buf); err != nil {
		return err
	}
	if _, err := w.bw.Write(w.buf); err != nil {
		return fmt.Errorf("recordstore: write %s: %w", w.name, err)
	}
	return nil
}

func (w *localWriter) Close() error {
	ferr := w.bw.Flush()
	cerr := w.f.Close()
	if ferr != nil {
		return fmt.Errorf("recordstore: flush %s: %w", w.name, ferr)
	}
	if cerr != nil {
		return fmt.Errorf("recordstore: close %s: %w", w.name, cerr)
	}
	return nil
}
