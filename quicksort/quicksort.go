// Package quicksort sorts a record file in place by external quicksort.
//
// A file larger than the in-memory threshold is split around a sampled pivot
// into a "-low" and a "-high" file, both are sorted, and they are merged back
// over the original. Small files are sorted in memory. Recursion runs on an
// explicit worklist, so the call stack stays flat whatever the input.
package quicksort

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"slices"

	"github.com/CiroJunio/provao/metrics"
	"github.com/CiroJunio/provao/record"
	"github.com/CiroJunio/provao/recordstore"
	"github.com/CiroJunio/provao/resource"
)

// ErrInvalidThreshold is returned for thresholds below two records.
var ErrInvalidThreshold = errors.New("quicksort: threshold must be at least 2")

const (
	lowSuffix  = "-low"
	highSuffix = "-high"
)

// Config configures a Sorter.
type Config struct {
	// Threshold is the largest file sorted in memory, and the pivot sample
	// size. It bounds the records held at once.
	Threshold int
	Direction record.Direction
	// Counters receives reads, writes and comparisons. Optional.
	Counters *metrics.Counters
	// Controller bounds the record buffer. Optional.
	Controller *resource.Controller
	// Logger receives a debug record per partition. Optional.
	Logger *slog.Logger
}

// Sorter sorts files of one store. It is not safe for concurrent use.
type Sorter struct {
	store recordstore.Store
	cfg   Config
	c     *metrics.Counters

	buf   []record.Record
	temps map[string]struct{}
}

// New returns a Sorter over store.
func New(store recordstore.Store, cfg Config) (*Sorter, error) {
	if cfg.Threshold < 2 {
		return nil, ErrInvalidThreshold
	}
	c := cfg.Counters
	if c == nil {
		c = &metrics.Counters{}
	}
	return &Sorter{
		store: store,
		cfg:   cfg,
		c:     c,
		temps: make(map[string]struct{}),
	}, nil
}

type frame struct {
	name  string
	merge bool // both partitions of name are sorted
	depth int
}

// Sort rewrites name with its records ordered by score. Equal scores keep
// their file order. On error every partition file created by this call is
// removed; name itself may be left partially rewritten.
func (s *Sorter) Sort(name string) (err error) {
	release, err := s.cfg.Controller.Reserve("quicksort buffer", int64(s.cfg.Threshold)*record.Size)
	if err != nil {
		return err
	}
	defer release()
	defer s.cleanup()

	if s.buf == nil {
		s.buf = make([]record.Record, 0, s.cfg.Threshold)
	}

	stack := []frame{{name: name}}
	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if f.merge {
			if err := s.mergeBack(f.name); err != nil {
				return err
			}
			continue
		}

		n, err := s.store.Count(f.name)
		if err != nil {
			return fmt.Errorf("quicksort: count %s: %w", f.name, err)
		}
		if n <= 1 {
			continue
		}
		if n <= int64(s.cfg.Threshold) {
			if err := s.sortInMemory(f.name, n); err != nil {
				return err
			}
			continue
		}

		split, err := s.split(f.name, n)
		if err != nil {
			return err
		}
		if !split {
			continue
		}

		// Popped in reverse: low, then high, then the merge.
		stack = append(stack,
			frame{name: f.name, merge: true, depth: f.depth},
			frame{name: f.name + highSuffix, depth: f.depth + 1},
			frame{name: f.name + lowSuffix, depth: f.depth + 1},
		)
	}
	return nil
}

// split partitions name around a sampled pivot. It reports false when every
// record equals the pivot, in which case name is already sorted and no
// partition file is left behind.
func (s *Sorter) split(name string, n int64) (bool, error) {
	pivot, err := s.pivot(name, n)
	if err != nil {
		return false, err
	}

	low, high, err := s.partition(name, pivot, true)
	if err != nil {
		return false, err
	}
	if low == 0 || high == 0 {
		// Everything fell on one side; send ties high instead.
		low, high, err = s.partition(name, pivot, false)
		if err != nil {
			return false, err
		}
	}

	if s.cfg.Logger != nil {
		s.cfg.Logger.Debug("partition",
			"file", name,
			"records", n,
			"pivot", pivot,
			"low", low,
			"high", high,
		)
	}

	if low == 0 || high == 0 {
		return false, s.removeTemps(name)
	}
	return true, nil
}

// pivot samples up to Threshold records at an even stride and returns the
// middle score of the sorted sample.
func (s *Sorter) pivot(name string, n int64) (float32, error) {
	r, err := s.store.Open(name)
	if err != nil {
		return 0, err
	}
	defer r.Close()

	size := min(int64(s.cfg.Threshold), n)
	stride := n / size
	sample := s.buf[:0]
	for i := int64(0); i < size; i++ {
		rec, err := r.ReadAt(i * stride)
		if err != nil {
			return 0, fmt.Errorf("quicksort: sample %s: %w", name, err)
		}
		s.c.Reads++
		sample = append(sample, rec)
	}
	s.sortRecords(sample)
	return sample[len(sample)/2].Score, nil
}

// partition streams name into its low and high files. With tiesLow records
// equal to the pivot go low, otherwise high.
func (s *Sorter) partition(name string, pivot float32, tiesLow bool) (low, high int64, err error) {
	r, err := s.store.Open(name)
	if err != nil {
		return 0, 0, err
	}
	defer r.Close()

	lw, err := s.createTemp(name + lowSuffix)
	if err != nil {
		return 0, 0, err
	}
	defer closeWriter(lw, &err)

	hw, err := s.createTemp(name + highSuffix)
	if err != nil {
		return 0, 0, err
	}
	defer closeWriter(hw, &err)

	for {
		rec, err := r.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return 0, 0, fmt.Errorf("quicksort: partition %s: %w", name, err)
		}
		s.c.Reads++

		c := record.CompareScores(s.cfg.Direction, rec.Score, pivot)
		s.c.Comparisons++

		if c < 0 || (c == 0 && tiesLow) {
			err = lw.Write(rec)
			low++
		} else {
			err = hw.Write(rec)
			high++
		}
		if err != nil {
			return 0, 0, fmt.Errorf("quicksort: partition %s: %w", name, err)
		}
		s.c.Writes++
	}
	return low, high, nil
}

// mergeBack merges the sorted partitions of name over name and removes them.
// The low file wins ties.
func (s *Sorter) mergeBack(name string) error {
	if err := s.mergeInto(name); err != nil {
		return err
	}
	return s.removeTemps(name)
}

func (s *Sorter) mergeInto(name string) (err error) {
	lr, err := s.store.Open(name + lowSuffix)
	if err != nil {
		return err
	}
	defer lr.Close()

	hr, err := s.store.Open(name + highSuffix)
	if err != nil {
		return err
	}
	defer hr.Close()

	w, err := s.store.Create(name)
	if err != nil {
		return err
	}
	defer closeWriter(w, &err)

	l, lok, err := s.next(lr)
	if err != nil {
		return err
	}
	h, hok, err := s.next(hr)
	if err != nil {
		return err
	}

	for lok || hok {
		takeLow := !hok
		if lok && hok {
			takeLow = record.CompareScores(s.cfg.Direction, l.Score, h.Score) <= 0
			s.c.Comparisons++
		}

		if takeLow {
			err = w.Write(l)
		} else {
			err = w.Write(h)
		}
		if err != nil {
			return fmt.Errorf("quicksort: merge %s: %w", name, err)
		}
		s.c.Writes++

		if takeLow {
			l, lok, err = s.next(lr)
		} else {
			h, hok, err = s.next(hr)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func (s *Sorter) next(r recordstore.Reader) (record.Record, bool, error) {
	rec, err := r.Next()
	if errors.Is(err, io.EOF) {
		return record.Record{}, false, nil
	}
	if err != nil {
		return record.Record{}, false, fmt.Errorf("quicksort: merge: %w", err)
	}
	s.c.Reads++
	return rec, true, nil
}

// sortInMemory reads the n records of name, sorts them and rewrites the file.
func (s *Sorter) sortInMemory(name string, n int64) (err error) {
	r, err := s.store.Open(name)
	if err != nil {
		return err
	}
	recs := s.buf[:0]
	for i := int64(0); i < n; i++ {
		rec, rerr := r.Next()
		if rerr != nil {
			r.Close()
			return fmt.Errorf("quicksort: read %s: %w", name, rerr)
		}
		s.c.Reads++
		recs = append(recs, rec)
	}
	if err := r.Close(); err != nil {
		return err
	}

	s.sortRecords(recs)

	w, err := s.store.Create(name)
	if err != nil {
		return err
	}
	defer closeWriter(w, &err)

	for _, rec := range recs {
		if err := w.Write(rec); err != nil {
			return fmt.Errorf("quicksort: write %s: %w", name, err)
		}
		s.c.Writes++
	}
	return nil
}

func (s *Sorter) sortRecords(recs []record.Record) {
	slices.SortStableFunc(recs, func(a, b record.Record) int {
		s.c.Comparisons++
		return record.CompareScores(s.cfg.Direction, a.Score, b.Score)
	})
}

func (s *Sorter) createTemp(name string) (recordstore.Writer, error) {
	s.temps[name] = struct{}{}
	return s.store.Create(name)
}

func (s *Sorter) removeTemps(name string) error {
	for _, t := range []string{name + lowSuffix, name + highSuffix} {
		if err := s.store.Remove(t); err != nil && !errors.Is(err, recordstore.ErrNotFound) {
			return fmt.Errorf("quicksort: remove %s: %w", t, err)
		}
		delete(s.temps, t)
	}
	return nil
}

// cleanup removes every partition file still tracked. Errors are ignored.
func (s *Sorter) cleanup() {
	for name := range s.temps {
		_ = s.store.Remove(name)
		delete(s.temps, name)
	}
}

func closeWriter(w recordstore.Writer, err *error) {
	if cerr := w.Close(); cerr != nil && *err == nil {
		*err = cerr
	}
}
