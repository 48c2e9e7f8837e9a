// Package fs provides the filesystem abstraction under the record store.
//
//   - [LocalFS]: production implementation on the os package
//   - [FaultyFS]: test wrapper that injects open, write and close failures and
//     counts open handles, so error paths can be checked for leaks
//
// Operations take no context.Context. Local file operations are not
// interruptible at the syscall level; remote sources go through blobstore.
package fs
