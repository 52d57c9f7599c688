// Package testutil provides testing utilities for slotmatch.
//
// This package is intended for use in tests and benchmarks only.
// It provides a deterministic RNG, mask generators and a brute-force
// reference matcher to check strategies against.
//
// # Random Data
//
//	rng := testutil.NewRNG(seed)
//	users := rng.Masks(1000)
//	ds := rng.Dataset(1000, 500)
//
// # Ground Truth
//
//	want := testutil.ExactCounts(ds)
package testutil
