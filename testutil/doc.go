// Package testutil provides testing utilities for tagring.
//
// This package is intended for use in tests and benchmarks only.
// It provides seeded generators for the value kinds an index stores.
//
// # Random Values
//
//	rng := testutil.NewRNG(seed)
//	ints := rng.Int64s(1000, 100)   // uniform in [-100, 100)
//	floats := rng.Float64s(1000)    // standard normal
//	strs := rng.Strings(1000, 12)   // lowercase, length [0, 12]
//
// # Skewed Values
//
// ZipfInt64s produces heavy duplicates, which exercises tie handling:
//
//	dups := rng.ZipfInt64s(1000, 50, 1.2)
package testutil
