// Package hubness analyzes the hubness phenomenon in k-nearest-neighbor
// graphs: in high-dimensional data a small set of points ("hubs") appears
// disproportionately often in other points' neighbor lists, which skews
// neighbor-based classification, clustering and retrieval.
//
// The package computes pairwise distance matrices (optionally in parallel),
// derives k-nearest-neighbor sets for every point, and aggregates per-point
// occurrence frequencies split into "good" (label-agreeing) and "bad"
// (label-disagreeing) counts.
//
// Basic usage:
//
//	metric := hubness.DefaultCombinedMetric()
//	dm, err := hubness.BuildDistanceMatrixParallel(ds, metric, 4, nil)
//	nsf, err := hubness.NewNeighborSetFinder(ds, dm)
//	err = nsf.CalculateNeighborSets(10)
//	// nsf.Neighbors(i), nsf.TotalOccurrences(), nsf.GoodOccurrences(), ...
//
// Occurrence statistics and hub identification:
//
//	mean, std := hubness.MeanStdDev(nsf.TotalOccurrences())
//	hubs := hubness.HubIndices(nsf.TotalOccurrences())
//
// The distance matrix is built once and shared read-only across any number
// of neighbor-set computations (multiple k values, cross-validation folds).
// Only the upper triangle is stored, halving memory.
//
// # Degraded pairs
//
// A metric failure for a single instance pair does not abort matrix
// construction: the pair's distance is set to MaxDistance ("infinitely
// far"), a warning is logged, and the failure is reported in the aggregated
// error returned alongside the finished matrix.
package hubness
