package main

import (
	"context"
	"fmt"
	"io"
	"slices"
	"strconv"
	"text/tabwriter"

	"golang.org/x/sync/errgroup"

	"github.com/CiroJunio/provao"
	"github.com/CiroJunio/provao/metrics"
	"github.com/CiroJunio/provao/record"
)

type benchRow struct {
	count   int64
	metrics metrics.Metrics
}

func runBench(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	fs := newFlagSet("bench", stderr)
	var cfg config
	cfg.bind(fs)
	if err := parse(fs, args); err != nil {
		return err
	}
	if fs.NArg() < 3 {
		return usagef("bench takes <method> <order> <count>...")
	}

	method, err := provao.ParseMethod(fs.Arg(0))
	if err != nil {
		return usageError{err}
	}
	order, err := provao.ParseOrder(fs.Arg(1))
	if err != nil {
		return usageError{err}
	}
	counts := make([]int64, 0, fs.NArg()-2)
	for _, a := range fs.Args()[2:] {
		n, err := strconv.ParseInt(a, 10, 64)
		if err != nil || n < 0 {
			return usageError{fmt.Errorf("%w: %q", provao.ErrInvalidCount, a)}
		}
		counts = append(counts, n)
	}
	slices.Sort(counts)
	counts = slices.Compact(counts)

	e, err := cfg.open(ctx, stderr)
	if err != nil {
		return err
	}

	rows, err := bench(ctx, e, cfg.file, method, order, counts)
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(stdout, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintf(tw, "count\tpre reads\tpre writes\treads\twrites\tcomparisons\tseconds\t\n")
	for _, r := range rows {
		p := r.metrics.Post
		fmt.Fprintf(tw, "%d\t%d\t%d\t%d\t%d\t%d\t%.6f\t\n",
			r.count, r.metrics.Pre.Reads, r.metrics.Pre.Writes, p.Reads, p.Writes, p.Comparisons, p.Elapsed.Seconds())
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	st := e.collector.GetStats()
	fmt.Fprintf(stdout, "\n%s, %s: %d sorts, %d records, %d comparisons\n",
		method, order, st.SortCount, st.RecordsSorted, st.Comparisons)
	return nil
}

// bench sorts the leading counts records of file concurrently, bounded by
// the controller's worker slots. Rows come back in the order of counts.
func bench(ctx context.Context, e *env, file string, method provao.Method, order record.Order, counts []int64) ([]benchRow, error) {
	rows := make([]benchRow, len(counts))
	g, ctx := errgroup.WithContext(ctx)
	for i, n := range counts {
		g.Go(func() error {
			if err := e.rc.AcquireWorker(ctx); err != nil {
				return err
			}
			defer e.rc.ReleaseWorker()

			req := provao.Request{Method: method, Source: file, Count: n, Order: order}
			if method == provao.QuickSort {
				// Concurrent quicksorts need distinct working files.
				req.Output = fmt.Sprintf("%s-bench-%d", file, n)
			}
			res, err := e.sorter.Sort(ctx, req)
			if err != nil {
				return fmt.Errorf("count %d: %w", n, err)
			}
			if res.Output != "" {
				if err := e.work.Remove(res.Output); err != nil {
					return err
				}
			}
			rows[i] = benchRow{count: n, metrics: res.Metrics}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return rows, nil
}
