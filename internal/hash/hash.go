// Package hash computes CRC32-Castagnoli digests of record exports.
package hash

import (
	"fmt"
	"hash"
	"hash/crc32"
)

var crc32cTable = crc32.MakeTable(crc32.Castagnoli)

// CRC32C returns the CRC32-Castagnoli checksum of data.
func CRC32C(data []byte) uint32 {
	return crc32.Checksum(data, crc32cTable)
}

// Digest accumulates a CRC32C over a stream and counts its bytes.
type Digest struct {
	h hash.Hash32
	n int64
}

// New returns an empty Digest.
func New() *Digest {
	return &Digest{h: crc32.New(crc32cTable)}
}

// Write never fails.
func (d *Digest) Write(p []byte) (int, error) {
	d.n += int64(len(p))
	return d.h.Write(p)
}

// Sum32 returns the checksum of everything written so far.
func (d *Digest) Sum32() uint32 { return d.h.Sum32() }

// Len returns the number of bytes written.
func (d *Digest) Len() int64 { return d.n }

// String formats the digest as "crc32c:<hex>".
func (d *Digest) String() string {
	return fmt.Sprintf("crc32c:%08x", d.Sum32())
}
