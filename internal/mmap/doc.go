// Package mmap maps record files read-only into memory.
//
// The local blob store serves source datasets through a Mapping, so positioned
// record reads (pivot samples, the final permutation fetch) are plain slice
// copies instead of syscalls.
//
//	m, err := mmap.Open("registros.bin")
//	if err != nil { ... }
//	defer m.Close()
//	m.Advise(mmap.AccessRandom)
//	rec, _ := m.Slice(i*record.Size, record.Size)
//
// Unix uses mmap(2)/madvise(2); Windows uses CreateFileMapping/MapViewOfFile and
// ignores access hints. Close is idempotent; slices returned by Bytes and Slice
// are invalid after Close.
package mmap
