// Package record defines the exam record, its fixed-size binary layout and the
// ordering primitives shared by the sorting engines.
//
// # Binary Layout
//
// Records are stored back to back with no header. Each record is [Size] bytes:
//
//	offset  size  field
//	0       8     ID      (int64, little endian)
//	8       4     Score   (float32 bits, little endian)
//	12      2     Region  (blank padded)
//	14      50    City    (blank padded)
//	64      30    Course  (blank padded)
//
// # Ordering
//
// A [Comparator] orders [KeyRef] values by score in a [Direction] and breaks ties
// by original position, so every sort built on it is stable and an already sorted
// input maps to the identity permutation.
package record
