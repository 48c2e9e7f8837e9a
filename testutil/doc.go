// Package testutil provides testing utilities for provao.
//
// This package is intended for use in tests and benchmarks only.
// It generates exam records with a seeded RNG and computes the reference
// orderings the engines are checked against.
//
// # Record Generation
//
//	rng := testutil.NewRNG(seed)
//	recs := rng.Records(1000)          // scores in [0, 100], one decimal, ties likely
//	asc := testutil.Ascending(25)      // distinct increasing scores
//
// # Reference Ordering
//
//	want := testutil.StableOrder(recs, record.Down)
//	testutil.IsSorted(testutil.Apply(perm, recs), record.Down)
package testutil
