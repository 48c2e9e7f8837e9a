// Package recordstore provides named files of fixed-size records.
//
// A [Store] opens, creates, appends to, truncates, counts, lists and removes
// record files. Readers support sequential ([Reader.Next]) and positioned
// ([Reader.ReadAt]) access; writers are sequential and buffered, and must be
// closed to flush.
//
// # Implementations
//
//   - [LocalStore]: a directory on the local file system, through internal/fs,
//     optionally throttled by a resource.Controller
//   - [MemoryStore]: in-memory files for tests
//
// Record files carry no header; the record count is the file size divided by
// record.Size.
package recordstore
