package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/CiroJunio/provao/blobstore"
	"github.com/CiroJunio/provao/internal/hash"
	"github.com/CiroJunio/provao/record"
	"github.com/CiroJunio/provao/report"
	"github.com/CiroJunio/provao/resource"
)

func runIngest(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	fs := newFlagSet("ingest", stderr)
	var cfg config
	cfg.bind(fs)
	if err := parse(fs, args); err != nil {
		return err
	}
	if fs.NArg() != 2 {
		return usagef("ingest takes <text-export> <name>, got %d arguments", fs.NArg())
	}
	logger, err := cfg.logger(stderr)
	if err != nil {
		return err
	}
	store, err := cfg.blobStore(ctx)
	if err != nil {
		return err
	}

	f, err := os.Open(fs.Arg(0))
	if err != nil {
		return err
	}
	defer f.Close()

	r, err := report.NewReader(resource.NewRateLimitedReader(ctx, f, cfg.controller()), report.CompressionFor(fs.Arg(0)))
	if err != nil {
		return err
	}
	defer r.Close()

	st, err := ingest(ctx, r, store, fs.Arg(1))
	if err != nil {
		return err
	}
	logger.InfoContext(ctx, "ingested export",
		"input", fs.Arg(0),
		"name", fs.Arg(1),
		"records", st.records,
		"skipped", st.skipped,
		"checksum", st.checksum,
	)
	fmt.Fprintf(stdout, "%s: %d records (%d lines skipped) %s\n", fs.Arg(1), st.records, st.skipped, st.checksum)
	return nil
}

type ingestStats struct {
	records  int64
	skipped  int64
	checksum string
}

// ingest converts the fixed-width text export read from r into the binary
// export name in store. Lines without a usable identifier are skipped.
func ingest(ctx context.Context, r io.Reader, store blobstore.BlobStore, name string) (ingestStats, error) {
	var (
		st  ingestStats
		buf []byte
		d   = hash.New()
	)
	sc := bufio.NewScanner(r)
	for line := 1; sc.Scan(); line++ {
		rec, err := record.ParseText(sc.Text())
		if errors.Is(err, record.ErrInvalidLine) {
			st.skipped++
			continue
		}
		if err != nil {
			return st, fmt.Errorf("line %d: %w", line, err)
		}
		start := len(buf)
		buf = rec.Append(buf)
		_, _ = d.Write(buf[start:])
		st.records++
	}
	if err := sc.Err(); err != nil {
		return st, err
	}
	st.checksum = d.String()
	if err := store.Put(ctx, name, buf); err != nil {
		return st, fmt.Errorf("store %s: %w", name, err)
	}
	return st, nil
}
