package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/CiroJunio/provao"
	"github.com/CiroJunio/provao/codec"
	"github.com/CiroJunio/provao/report"
	"github.com/CiroJunio/provao/resource"
)

func runSort(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	fs := newFlagSet("sort", stderr)
	var cfg config
	cfg.bind(fs)
	printRecords := fs.BoolP("print", "P", false, "print the sorted records")
	format := fs.String("format", "text", "report format: text|json|go-json")
	compress := fs.String("compress", "", "report compression: none|lz4|zstd (default from --out suffix)")
	out := fs.StringP("out", "o", "", "write the report to this file instead of stdout")
	keep := fs.String("keep", "", "keep the quicksort sorted file under this name in --data")
	if err := parse(fs, args); err != nil {
		return err
	}
	if fs.NArg() != 3 {
		return usagef("sort takes <method> <count> <order>, got %d arguments", fs.NArg())
	}

	method, err := provao.ParseMethod(fs.Arg(0))
	if err != nil {
		return usageError{err}
	}
	count, err := strconv.ParseInt(fs.Arg(1), 10, 64)
	if err != nil {
		return usageError{fmt.Errorf("%w: %q", provao.ErrInvalidCount, fs.Arg(1))}
	}
	order, err := provao.ParseOrder(fs.Arg(2))
	if err != nil {
		return usageError{err}
	}
	f, c, err := report.ParseFormat(*format)
	if err != nil {
		return usageError{err}
	}

	e, err := cfg.open(ctx, stderr)
	if err != nil {
		return err
	}

	res, err := e.sorter.Sort(ctx, provao.Request{
		Method: method,
		Source: cfg.file,
		Count:  count,
		Order:  order,
		Emit:   *printRecords,
		Output: *keep,
	})
	if err != nil {
		return err
	}

	rep := report.Report{
		Method:  res.Method.String(),
		Order:   res.Order.String(),
		Count:   res.Count,
		Output:  res.Output,
		Metrics: res.Metrics,
		Records: res.Records,
	}
	return writeReport(ctx, stdout, e.rc, *out, *compress, rep, f, c)
}

// writeReport renders rep to path, or to stdout when path is empty.
func writeReport(ctx context.Context, stdout io.Writer, rc *resource.Controller, path, compress string, rep report.Report, f report.Format, c codec.Codec) (err error) {
	comp := report.CompressionFor(path)
	if compress != "" {
		if comp, err = report.ParseCompression(compress); err != nil {
			return usageError{err}
		}
	}

	dst := stdout
	if path != "" {
		var file *os.File
		if file, err = os.Create(path); err != nil {
			return err
		}
		defer func() {
			if cerr := file.Close(); err == nil {
				err = cerr
			}
		}()
		dst = resource.NewRateLimitedWriter(ctx, file, rc)
	}

	w, err := report.NewWriter(dst, comp)
	if err != nil {
		return err
	}
	if err := report.Write(w, rep, f, c); err != nil {
		_ = w.Close()
		return err
	}
	return w.Close()
}
