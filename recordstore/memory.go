package recordstore

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"

	"github.com/CiroJunio/provao/record"
)

// MemoryStore is an in-memory Store for tests.
// Thread-safe for concurrent use.
type MemoryStore struct {
	mu    sync.RWMutex
	files map[string][]byte
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{files: make(map[string][]byte)}
}

// Open opens name for reading over a snapshot of its contents.
func (m *MemoryStore) Open(name string) (Reader, error) {
	m.mu.RLock()
	data, ok := m.files[name]
	m.mu.RUnlock()
	if !ok {
		return nil, &OpenError{Op: "open", Name: name, Err: ErrNotFound}
	}
	return &memoryReader{name: name, data: data, n: int64(len(data) / record.Size)}, nil
}

// Create creates or truncates name.
func (m *MemoryStore) Create(name string) (Writer, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.files[name] = nil
	return &memoryWriter{store: m, name: name}, nil
}

// Append opens name for writing at its end.
func (m *MemoryStore) Append(name string) (Writer, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.files[name]; !ok {
		m.files[name] = nil
	}
	return &memoryWriter{store: m, name: name}, nil
}

// Truncate shortens name to n records.
func (m *MemoryStore) Truncate(name string, n int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	data, ok := m.files[name]
	if !ok {
		return ErrNotFound
	}
	if n < 0 {
		return fmt.Errorf("recordstore: truncate %s: negative length %d", name, n)
	}
	if size := n * record.Size; size < int64(len(data)) {
		m.files[name] = data[:size:size]
	}
	return nil
}

// Remove deletes name.
func (m *MemoryStore) Remove(name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.files[name]; !ok {
		return ErrNotFound
	}
	delete(m.files, name)
	return nil
}

// Count returns the number of records in name.
func (m *MemoryStore) Count(name string) (int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	data, ok := m.files[name]
	if !ok {
		return 0, ErrNotFound
	}
	return int64(len(data) / record.Size), nil
}

// List returns the sorted names starting with prefix.
func (m *MemoryStore) List(prefix string) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var names []string
	for name := range m.files {
		if strings.HasPrefix(name, prefix) {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names, nil
}

type memoryReader struct {
	name string
	data []byte
	n    int64
	next int64
}

func (r *memoryReader) Next() (record.Record, error) {
	if r.next >= r.n {
		return record.Record{}, io.EOF
	}
	rec, err := record.Unmarshal(r.data[r.next*record.Size:])
	r.next++
	return rec, err
}

func (r *memoryReader) ReadAt(i int64) (record.Record, error) {
	if i < 0 || i >= r.n {
		return record.Record{}, fmt.Errorf("recordstore: %s: index %d out of range [0,%d)", r.name, i, r.n)
	}
	return record.Unmarshal(r.data[i*record.Size:])
}

func (r *memoryReader) Len() int64 { return r.n }

func (r *memoryReader) Close() error { return nil }

type memoryWriter struct {
	store *MemoryStore
	name  string
}

func (w *memoryWriter) Write(rec record.Record) error {
	w.store.mu.Lock()
	defer w.store.mu.Unlock()
	// Readers only look below their own length, so appending in place keeps
	// their snapshot intact.
	w.store.files[w.name] = rec.Append(w.store.files[w.name])
	return nil
}

func (w *memoryWriter) Close() error { return nil }
