// Package resource enforces the memory budget of the sorting engines and
// optionally throttles their file I/O.
//
// Engines reserve their working buffers (the run generator heap, the merge
// scratch buffer, the quicksort in-memory window) up front with Reserve. A
// reservation that does not fit the configured limit fails with ErrCapacity
// instead of blocking: a sort invocation is single threaded and nothing it
// holds would be released while it waits.
package resource
