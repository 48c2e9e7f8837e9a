package provao

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/CiroJunio/provao/blobstore"
	"github.com/CiroJunio/provao/merge"
	"github.com/CiroJunio/provao/metrics"
	"github.com/CiroJunio/provao/quicksort"
	"github.com/CiroJunio/provao/record"
	"github.com/CiroJunio/provao/recordstore"
	"github.com/CiroJunio/provao/runs"
	"github.com/CiroJunio/provao/source"
)

// Method selects the sorting algorithm.
type Method int

const (
	// BalancedMerge is replacement selection followed by a two-tape balanced
	// merge.
	BalancedMerge Method = 2
	// QuickSort is external quicksort over a staged working file.
	QuickSort Method = 3
)

// ParseMethod accepts the numeric selectors 2 and 3 and their names.
func ParseMethod(s string) (Method, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "2", "merge", "balanced-merge":
		return BalancedMerge, nil
	case "3", "quick", "quicksort":
		return QuickSort, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnsupportedMethod, s)
	}
}

func (m Method) String() string {
	switch m {
	case BalancedMerge:
		return "balanced-merge"
	case QuickSort:
		return "quicksort"
	default:
		return fmt.Sprintf("Method(%d)", int(m))
	}
}

// ParseOrder wraps record.ParseOrder with ErrInvalidOrder.
func ParseOrder(s string) (record.Order, error) {
	o, err := record.ParseOrder(s)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrInvalidOrder, err)
	}
	return o, nil
}

// Request describes one sort invocation.
type Request struct {
	Method Method
	// Source is the name of the binary export in the source store.
	Source string
	// Count is the number of leading records to sort.
	Count int64
	Order record.Order
	// Emit materializes the sorted records in the Result.
	Emit bool
	// Output keeps the sorted file of the quicksort path under this name in
	// the working store. Empty means the working copy is removed.
	Output string
}

// Result is the outcome of a sort invocation.
type Result struct {
	Method Method
	Order  record.Order
	Count  int64
	// Permutation lists original record positions in sorted order.
	// Merge path only.
	Permutation []int64
	// Records holds the sorted records when the request set Emit.
	Records []record.Record
	// Output names the kept sorted file. Quicksort path only.
	Output  string
	Metrics metrics.Metrics
}

// Sorter runs sort invocations against a working record store.
// Invocations are independent; a Sorter may be shared by goroutines as long
// as concurrent requests use distinct working files.
type Sorter struct {
	opts   options
	work   recordstore.Store
	source blobstore.BlobStore
}

// New creates a Sorter writing its working files to work.
func New(work recordstore.Store, optFns ...Option) (*Sorter, error) {
	opts := applyOptions(optFns)
	if opts.memory < 1 {
		return nil, runs.ErrInvalidMemory
	}
	if opts.threshold < 2 {
		return nil, quicksort.ErrInvalidThreshold
	}

	src := opts.source
	if src == nil {
		local, ok := work.(*recordstore.LocalStore)
		if !ok {
			return nil, ErrNoSource
		}
		src = blobstore.NewLocalStore(local.Root())
	}

	return &Sorter{opts: opts, work: work, source: src}, nil
}

// Sort runs req. Count 0 is the trivial already sorted case and yields an
// empty result with zero metrics.
func (s *Sorter) Sort(ctx context.Context, req Request) (res *Result, err error) {
	var m metrics.Metrics
	log := s.opts.logger.WithMethod(req.Method).WithSource(req.Source)
	defer func() {
		// Failed invocations report no counters.
		var snap metrics.Metrics
		if err == nil {
			snap = m.Snapshot()
		}
		if res != nil {
			res.Metrics = snap
		}
		s.opts.metricsCollector.RecordSort(req.Method, req.Order, req.Count, snap, err)
		log.LogSort(ctx, req.Order, req.Count, snap, err)
	}()

	if req.Method != BalancedMerge && req.Method != QuickSort {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedMethod, req.Method)
	}
	if !req.Order.Valid() {
		return nil, fmt.Errorf("%w: %s", ErrInvalidOrder, req.Order)
	}
	if req.Count < 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidCount, req.Count)
	}

	r, err := source.Open(ctx, s.source, req.Source)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	if req.Count > r.Len() {
		return nil, &ErrCountOutOfRange{Requested: req.Count, Available: r.Len()}
	}

	res = &Result{Method: req.Method, Order: req.Order, Count: req.Count}
	if req.Count == 0 {
		res.Permutation = []int64{}
		return res, nil
	}

	if req.Method == BalancedMerge {
		err = s.sortMerge(ctx, r, req, res, &m, log)
	} else {
		err = s.sortQuick(ctx, r, req, res, &m, log)
	}
	if err != nil {
		return nil, err
	}
	return res, nil
}

func (s *Sorter) sortMerge(ctx context.Context, r *source.Reader, req Request, res *Result, m *metrics.Metrics, log *Logger) error {
	dir := req.Order.Direction()

	stop := m.Start(metrics.Pre)
	gen, err := runs.Generate(r, req.Count, runs.Config{
		Memory:     s.opts.memory,
		Direction:  dir,
		Counters:   &m.Pre,
		Controller: s.opts.controller,
		Logger:     log.Logger,
	})
	stop()
	if err != nil {
		return err
	}
	log.LogPhase(ctx, metrics.Pre, m.Pre)

	stop = m.Start(metrics.Post)
	defer func() {
		stop()
		log.LogPhase(ctx, metrics.Post, m.Post)
	}()

	perm, err := merge.Merge(gen.Tapes[0], gen.Tapes[1], gen.Runs, merge.Config{
		Direction:  dir,
		Counters:   &m.Post,
		Controller: s.opts.controller,
		Logger:     log.Logger,
	})
	if err != nil {
		return err
	}
	res.Permutation = perm

	if !req.Emit {
		return nil
	}
	release, err := s.opts.controller.Reserve("emitted records", int64(len(perm))*record.Size)
	if err != nil {
		return err
	}
	defer release()

	recs, err := r.Gather(perm)
	if err != nil {
		return fmt.Errorf("fetch records: %w", err)
	}
	m.Post.Reads += int64(len(recs))
	res.Records = recs
	return nil
}

func (s *Sorter) sortQuick(ctx context.Context, r *source.Reader, req Request, res *Result, m *metrics.Metrics, log *Logger) (err error) {
	work := req.Output
	if work == "" {
		work = req.Source + "-work"
	}
	if work == req.Source {
		return fmt.Errorf("output %q would overwrite the source", work)
	}
	defer func() {
		if err != nil || req.Output == "" {
			if rerr := s.work.Remove(work); rerr != nil && !errors.Is(rerr, recordstore.ErrNotFound) && err == nil {
				err = rerr
			}
		}
	}()

	stop := m.Start(metrics.Pre)
	err = s.stage(r, work, req.Count, &m.Pre)
	stop()
	log.LogStage(ctx, work, req.Count, err)
	if err != nil {
		return err
	}
	log.LogPhase(ctx, metrics.Pre, m.Pre)

	qs, err := quicksort.New(s.work, quicksort.Config{
		Threshold:  s.opts.threshold,
		Direction:  req.Order.Direction(),
		Counters:   &m.Post,
		Controller: s.opts.controller,
		Logger:     log.Logger,
	})
	if err != nil {
		return err
	}

	stop = m.Start(metrics.Post)
	err = qs.Sort(work)
	stop()
	if err != nil {
		return err
	}
	log.LogPhase(ctx, metrics.Post, m.Post)

	if req.Emit {
		if res.Records, err = recordstore.ReadAll(s.work, work); err != nil {
			return err
		}
	}
	if req.Output != "" {
		res.Output = req.Output
	}
	return nil
}

func (s *Sorter) stage(r *source.Reader, work string, count int64, c *metrics.Counters) (err error) {
	w, err := s.work.Create(work)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := w.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()
	return source.Stage(r, w, count, c)
}
