package recordstore

import (
	"errors"
	"fmt"
	"os"

	"github.com/CiroJunio/provao/record"
)

// ErrNotFound is returned when a record file does not exist.
// It maps to os.ErrNotExist so errors.Is works with either.
var ErrNotFound = os.ErrNotExist

// ErrInvalidName is returned for names that escape the store root.
var ErrInvalidName = errors.New("recordstore: invalid name")

// Store is a set of named record files.
type Store interface {
	// Open opens an existing file for reading.
	Open(name string) (Reader, error)
	// Create creates or truncates a file for writing.
	Create(name string) (Writer, error)
	// Append opens a file for writing at its end, creating it if needed.
	Append(name string) (Writer, error)
	// Truncate shortens a file to n records.
	Truncate(name string, n int64) error
	// Remove deletes a file.
	Remove(name string) error
	// Count returns the number of records in a file.
	Count(name string) (int64, error)
	// List returns the sorted names starting with prefix.
	List(prefix string) ([]string, error)
}

// Reader reads records from one file.
type Reader interface {
	// Next returns the next record in file order, or io.EOF.
	Next() (record.Record, error)
	// ReadAt returns the record at index i without moving the sequential cursor.
	ReadAt(i int64) (record.Record, error)
	// Len returns the number of records in the file when it was opened.
	Len() int64
	Close() error
}

// Writer appends records to one file.
type Writer interface {
	Write(r record.Record) error
	// Close flushes buffered records and releases the file.
	Close() error
}

// OpenError reports a failure to open a record file.
type OpenError struct {
	Op   string // "open", "create" or "append"
	Name string
	Err  error
}

func (e *OpenError) Error() string {
	return fmt.Sprintf("recordstore: %s %s: %v", e.Op, e.Name, e.Err)
}

func (e *OpenError) Unwrap() error { return e.Err }

// WriteAll creates name and writes recs to it.
func WriteAll(s Store, name string, recs []record.Record) (err error) {
	w, err := s.Create(name)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := w.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()
	for _, r := range recs {
		if err := w.Write(r); err != nil {
			return err
		}
	}
	return nil
}

// ReadAll reads every record of name.
func ReadAll(s Store, name string) ([]record.Record, error) {
	r, err := s.Open(name)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	recs := make([]record.Record, 0, r.Len())
	for i := int64(0); i < r.Len(); i++ {
		rec, err := r.Next()
		if err != nil {
			return nil, err
		}
		recs = append(recs, rec)
	}
	return recs, nil
}
