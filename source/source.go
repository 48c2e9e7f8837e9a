// Package source reads fixed-size records out of a dataset blob.
//
// Sequential reads are batched so that remote blobs are fetched in a few
// ranged requests. When the blob is memory backed the records are decoded
// straight from the mapping.
package source

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"io"
	"slices"

	"github.com/CiroJunio/provao/blobstore"
	"github.com/CiroJunio/provao/metrics"
	"github.com/CiroJunio/provao/record"
	"github.com/CiroJunio/provao/recordstore"
)

// DefaultBatch is the number of records fetched per sequential read.
const DefaultBatch = 256

// Reader reads records from a blob. It is not safe for concurrent use.
type Reader struct {
	ctx    context.Context
	blob   blobstore.Blob
	mapped []byte
	n      int64

	next  int64
	buf   []byte
	start int64 // index of the first record in buf
	count int64 // records held in buf
	batch int
}

// Open opens name in store. Failures are reported as *recordstore.OpenError.
func Open(ctx context.Context, store blobstore.BlobStore, name string) (*Reader, error) {
	blob, err := store.Open(ctx, name)
	if err != nil {
		return nil, &recordstore.OpenError{Op: "open", Name: name, Err: err}
	}
	return NewReader(ctx, blob), nil
}

// NewReader wraps an open blob. Trailing bytes that do not form a whole
// record are ignored. Closing the Reader closes the blob.
func NewReader(ctx context.Context, blob blobstore.Blob) *Reader {
	r := &Reader{
		ctx:   ctx,
		blob:  blob,
		n:     blob.Size() / record.Size,
		batch: DefaultBatch,
	}
	if m, ok := blob.(blobstore.Mappable); ok {
		if b, err := m.Bytes(); err == nil {
			r.mapped = b
		}
	}
	return r
}

// Len returns the number of whole records in the blob.
func (r *Reader) Len() int64 { return r.n }

// Next returns the next record in blob order, or io.EOF.
func (r *Reader) Next() (record.Record, error) {
	if r.next >= r.n {
		return record.Record{}, io.EOF
	}
	i := r.next
	if r.mapped == nil && (i < r.start || i >= r.start+r.count) {
		if err := r.fill(i); err != nil {
			return record.Record{}, err
		}
	}
	rec, err := r.decode(i)
	if err != nil {
		return record.Record{}, err
	}
	r.next++
	return rec, nil
}

// ReadAt returns record i without moving the sequential cursor.
func (r *Reader) ReadAt(i int64) (record.Record, error) {
	if i < 0 || i >= r.n {
		return record.Record{}, fmt.Errorf("source: record %d out of range [0,%d)", i, r.n)
	}
	if r.mapped != nil || (i >= r.start && i < r.start+r.count) {
		return r.decode(i)
	}
	var raw [record.Size]byte
	if _, err := r.blob.ReadAt(r.ctx, raw[:], i*record.Size); err != nil && !errors.Is(err, io.EOF) {
		return record.Record{}, err
	}
	return record.Unmarshal(raw[:])
}

// Gather returns the records at positions, in the order given. Positions are
// visited in ascending order so unmapped blobs are fetched in batched reads
// instead of one ranged read per record.
func (r *Reader) Gather(positions []int64) ([]record.Record, error) {
	order := make([]int, len(positions))
	for k := range order {
		order[k] = k
	}
	slices.SortFunc(order, func(a, b int) int {
		return cmp.Compare(positions[a], positions[b])
	})

	out := make([]record.Record, len(positions))
	for _, k := range order {
		i := positions[k]
		if i < 0 || i >= r.n {
			return nil, fmt.Errorf("source: record %d out of range [0,%d)", i, r.n)
		}
		if r.mapped == nil && (i < r.start || i >= r.start+r.count) {
			if err := r.fill(i); err != nil {
				return nil, err
			}
		}
		rec, err := r.decode(i)
		if err != nil {
			return nil, err
		}
		out[k] = rec
	}
	return out, nil
}

// Close releases the blob.
func (r *Reader) Close() error {
	r.mapped = nil
	return r.blob.Close()
}

func (r *Reader) fill(i int64) error {
	count := min(int64(r.batch), r.n-i)
	size := int(count) * record.Size
	if cap(r.buf) < size {
		r.buf = make([]byte, size)
	}
	r.buf = r.buf[:size]
	n, err := r.blob.ReadAt(r.ctx, r.buf, i*record.Size)
	if err != nil && !(errors.Is(err, io.EOF) && n == size) {
		if errors.Is(err, io.EOF) {
			return fmt.Errorf("source: %w", record.ErrShortRecord)
		}
		return err
	}
	r.start, r.count = i, count
	return nil
}

func (r *Reader) decode(i int64) (record.Record, error) {
	if r.mapped != nil {
		off := i * record.Size
		return record.Unmarshal(r.mapped[off : off+record.Size])
	}
	off := (i - r.start) * record.Size
	return record.Unmarshal(r.buf[off : off+record.Size])
}

// Stage copies the first n records of r into w, counting one read and one
// write per record into c. c may be nil.
func Stage(r *Reader, w recordstore.Writer, n int64, c *metrics.Counters) error {
	if n < 0 || n > r.Len() {
		return fmt.Errorf("source: stage %d of %d records", n, r.Len())
	}
	for i := int64(0); i < n; i++ {
		rec, err := r.Next()
		if err != nil {
			return err
		}
		if c != nil {
			c.Reads++
		}
		if err := w.Write(rec); err != nil {
			return err
		}
		if c != nil {
			c.Writes++
		}
	}
	return nil
}
