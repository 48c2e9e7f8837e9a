// Package runs generates sorted runs by replacement selection.
//
// A heap of at most Memory entries is filled from the input. The root is
// emitted to one of two tapes, chosen by the parity of its cycle, and replaced
// by the next input record. A record that would break the order of the run
// being written is tagged with the next cycle and waits in the heap until the
// current cycle drains. Runs average about twice the heap size on random
// input and a sorted input produces a single run.
package runs

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"unsafe"

	"github.com/CiroJunio/provao/internal/queue"
	"github.com/CiroJunio/provao/metrics"
	"github.com/CiroJunio/provao/record"
	"github.com/CiroJunio/provao/resource"
	"github.com/CiroJunio/provao/tape"
)

// ErrInvalidMemory is returned when the heap capacity is below one entry.
var ErrInvalidMemory = errors.New("runs: memory must hold at least one entry")

// EntrySize is the in-memory size of one heap entry.
const EntrySize = int64(unsafe.Sizeof(queue.Entry{}))

// Source yields records in input order.
type Source interface {
	Next() (record.Record, error)
}

// Config configures Generate.
type Config struct {
	// Memory is the heap capacity M in entries.
	Memory int
	// Direction is the sort direction.
	Direction record.Direction
	// Counters receives reads, tape writes and comparisons. Optional.
	Counters *metrics.Counters
	// Controller bounds the heap allocation. Optional.
	Controller *resource.Controller
	// Logger receives a debug record per generated run set. Optional.
	Logger *slog.Logger
}

// Result holds the two tapes and the number of runs written to them.
type Result struct {
	Tapes [2]*tape.Tape
	Runs  int
}

// Generate reads n records from src and distributes them in runs over two
// tapes. Entries of even cycles go to Tapes[0], odd cycles to Tapes[1].
// n == 0 yields zero runs and two empty tapes.
func Generate(src Source, n int64, cfg Config) (Result, error) {
	if cfg.Memory < 1 {
		return Result{}, ErrInvalidMemory
	}
	if n < 0 {
		return Result{}, fmt.Errorf("runs: negative record count %d", n)
	}

	res := Result{Tapes: [2]*tape.Tape{tape.New(int(n/2 + 1)), tape.New(int(n/2 + 1))}}
	if n == 0 {
		return res, nil
	}

	c := cfg.Counters
	if c == nil {
		c = &metrics.Counters{}
	}

	load := min(int64(cfg.Memory), n)
	release, err := cfg.Controller.Reserve("run generation heap", load*EntrySize)
	if err != nil {
		return Result{}, err
	}
	defer release()

	cmp := record.NewComparator(cfg.Direction, &c.Comparisons)

	next := func(i int64) (record.KeyRef, error) {
		rec, err := src.Next()
		if err != nil {
			if errors.Is(err, io.EOF) {
				err = io.ErrUnexpectedEOF
			}
			return record.KeyRef{}, fmt.Errorf("runs: read record %d: %w", i, err)
		}
		c.Reads++
		return rec.Key(i), nil
	}

	entries := make([]queue.Entry, load)
	for i := range entries {
		k, err := next(int64(i))
		if err != nil {
			return Result{}, err
		}
		entries[i] = queue.Entry{Key: k}
	}
	h := queue.New(cmp, int(load))
	h.Init(entries)

	var (
		read      = load
		atCurrent = int(load) // entries tagged with the cycle being written
		atNext    = 0         // entries tagged with the following cycle
		advances  = 0
	)

	for h.Len() > 0 {
		top, _ := h.Top()
		res.Tapes[top.Cycle%2].Append(top.Key)
		c.Writes++
		atCurrent--

		if read < n {
			k, err := next(read)
			if err != nil {
				return Result{}, err
			}
			read++

			e := queue.Entry{Key: k, Cycle: top.Cycle}
			if cmp.Less(k, top.Key) {
				e.Cycle++
				atNext++
			} else {
				atCurrent++
			}
			h.ReplaceTop(e)
		} else {
			h.RemoveTop()
		}

		if h.Len() > 0 && atCurrent == 0 {
			advances++
			atCurrent, atNext = atNext, 0
		}
	}

	res.Runs = advances + 1

	if cfg.Logger != nil {
		cfg.Logger.Debug("runs generated",
			"records", n,
			"memory", cfg.Memory,
			"runs", res.Runs,
			"tape0", res.Tapes[0].Len(),
			"tape1", res.Tapes[1].Len(),
		)
	}
	return res, nil
}
