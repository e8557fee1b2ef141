package hubness

import "log/slog"

// NeighborSetFinder computes and owns the k-nearest-neighbor sets of every
// point in a dataset, together with the per-point occurrence frequencies
// derived from them (how often each point appears in other points' neighbor
// lists, split by label agreement).
//
// The distance matrix is consumed read-only and may be shared with other
// finders. A finder's own arrays are mutated only by its methods; concurrent
// use requires external synchronization.
type NeighborSetFinder struct {
	ds *Dataset
	dm *DistanceMatrix

	k       int // current neighborhood size, clamped to n-1
	indices [][]int
	dists   [][]float64

	total []int
	good  []int
	bad   []int
}

// NewNeighborSetFinder creates a finder over a dataset and its precomputed
// distance matrix. Fails fast with a ConfigError on a nil matrix or a
// dimension mismatch, before any computation.
func NewNeighborSetFinder(ds *Dataset, dm *DistanceMatrix) (*NeighborSetFinder, error) {
	if ds == nil {
		return nil, configErrorf("nil dataset")
	}
	if dm == nil {
		return nil, configErrorf("nil distance matrix")
	}
	if dm.Size() != ds.Size() {
		return nil, configErrorf("distance matrix is for %d points, dataset has %d", dm.Size(), ds.Size())
	}
	return &NeighborSetFinder{ds: ds, dm: dm}, nil
}

// NewNeighborSetFinderFromMetric builds the distance matrix internally with
// numWorkers workers and wraps it in a finder. The returned error carries
// any degraded-pair failures from matrix construction (see
// BuildDistanceMatrixParallel); the finder is usable whenever it is non-nil.
func NewNeighborSetFinderFromMetric(ds *Dataset, metric Metric, numWorkers int, logger *slog.Logger) (*NeighborSetFinder, error) {
	dm, err := BuildDistanceMatrixParallel(ds, metric, numWorkers, logger)
	if dm == nil {
		return nil, err
	}
	nsf, cfgErr := NewNeighborSetFinder(ds, dm)
	if cfgErr != nil {
		return nil, cfgErr
	}
	return nsf, err
}

// Dataset returns the dataset the finder was built over.
func (f *NeighborSetFinder) Dataset() *Dataset { return f.ds }

// K returns the current neighborhood size. It is the requested k clamped to
// n-1, or 0 before CalculateNeighborSets has run.
func (f *NeighborSetFinder) K() int { return f.k }

// CalculateNeighborSets determines the k nearest neighbors of every point by
// scanning its distances in the matrix, then recomputes the occurrence
// frequency arrays. k is clamped to n-1 (every other point is a neighbor);
// k = 0 yields empty neighbor sets and all-zero occurrences. Negative k is a
// ConfigError.
//
// Ties in distance are broken by ascending point index. Calling again with a
// different k recomputes from the existing matrix; no metric evaluations
// happen after the matrix is built.
func (f *NeighborSetFinder) CalculateNeighborSets(k int) error {
	if k < 0 {
		return configErrorf("k must be >= 0, got %d", k)
	}
	if f.dm == nil {
		return configErrorf("finder has no distance matrix; KD-tree finders have a fixed neighborhood size")
	}
	n := f.ds.Size()
	if n > 0 && k > n-1 {
		k = n - 1
	}
	if n == 0 {
		k = 0
	}

	f.k = k
	f.indices = make([][]int, n)
	f.dists = make([][]float64, n)

	for i := 0; i < n; i++ {
		idx := make([]int, k)
		dst := make([]float64, k)
		length := 0
		for j := 0; j < n; j++ {
			if j == i {
				continue
			}
			length = boundedInsert(idx, dst, length, k, j, f.dm.At(i, j))
		}
		f.indices[i] = idx[:length]
		f.dists[i] = dst[:length]
	}

	f.countOccurrences()
	return nil
}

// GrowNeighborSets extends the neighbor sets to a larger k without any
// metric re-evaluation (the shared matrix is rescanned). Growing to a k at
// or below the current one is a no-op; the smaller sets are already prefixes
// of what the caller holds.
func (f *NeighborSetFinder) GrowNeighborSets(k int) error {
	if k < 0 {
		return configErrorf("k must be >= 0, got %d", k)
	}
	if k <= f.k {
		return nil
	}
	return f.CalculateNeighborSets(k)
}

// boundedInsert inserts candidate j with distance d into the first `length`
// entries of a bounded insertion-sorted list of capacity k, and returns the
// new length. Strict less-than comparisons keep the earlier-scanned index in
// front on distance ties.
func boundedInsert(indices []int, dists []float64, length, k, j int, d float64) int {
	if k == 0 {
		return 0
	}
	if length < k {
		pos := length
		for pos > 0 && d < dists[pos-1] {
			indices[pos] = indices[pos-1]
			dists[pos] = dists[pos-1]
			pos--
		}
		indices[pos] = j
		dists[pos] = d
		return length + 1
	}
	if d >= dists[k-1] {
		return length
	}
	pos := k - 1
	for pos > 0 && d < dists[pos-1] {
		indices[pos] = indices[pos-1]
		dists[pos] = dists[pos-1]
		pos--
	}
	indices[pos] = j
	dists[pos] = d
	return length
}

// countOccurrences recomputes the total/good/bad occurrence arrays in one
// pass over the neighbor sets. A point's total count is its hubness score
// for the current k; an occurrence is good when query and neighbor share a
// label, bad otherwise.
func (f *NeighborSetFinder) countOccurrences() {
	n := f.ds.Size()
	f.total = make([]int, n)
	f.good = make([]int, n)
	f.bad = make([]int, n)

	for i := 0; i < n; i++ {
		labelI := f.ds.Label(i)
		for _, j := range f.indices[i] {
			f.total[j]++
			if labelI == f.ds.Label(j) {
				f.good[j]++
			} else {
				f.bad[j]++
			}
		}
	}
}

// Neighbors returns point i's neighbor indices sorted by ascending distance.
// Backing storage; callers must not modify it.
func (f *NeighborSetFinder) Neighbors(i int) []int { return f.indices[i] }

// NeighborDistances returns the distances parallel to Neighbors(i).
// Backing storage; callers must not modify it.
func (f *NeighborSetFinder) NeighborDistances(i int) []float64 { return f.dists[i] }

// NeighborsK returns the k-prefix of point i's neighbor list and distances
// for any k at or below the computed neighborhood size. The arrays are
// ordered, so the prefix is exactly the independently computed smaller-k
// neighbor set; no recomputation happens.
func (f *NeighborSetFinder) NeighborsK(i, k int) ([]int, []float64, error) {
	if k < 0 || k > f.k {
		return nil, nil, configErrorf("k must be in [0, %d], got %d", f.k, k)
	}
	if k > len(f.indices[i]) {
		k = len(f.indices[i])
	}
	return f.indices[i][:k], f.dists[i][:k], nil
}

// TotalOccurrences returns the per-point occurrence counts (hubness scores)
// for the current k. Backing storage; callers must not modify it.
func (f *NeighborSetFinder) TotalOccurrences() []int { return f.total }

// GoodOccurrences returns the per-point label-agreeing occurrence counts.
// Backing storage; callers must not modify it.
func (f *NeighborSetFinder) GoodOccurrences() []int { return f.good }

// BadOccurrences returns the per-point label-disagreeing occurrence counts.
// Backing storage; callers must not modify it.
func (f *NeighborSetFinder) BadOccurrences() []int { return f.bad }

// OccurrencesForK recounts occurrence frequencies for a smaller neighborhood
// size using the k-prefixes of the stored neighbor sets, without mutating
// the finder's state. Useful when one large-k computation backs statistics
// at several k values.
func (f *NeighborSetFinder) OccurrencesForK(k int) (total, good, bad []int, err error) {
	if k < 0 || k > f.k {
		return nil, nil, nil, configErrorf("k must be in [0, %d], got %d", f.k, k)
	}
	n := f.ds.Size()
	total = make([]int, n)
	good = make([]int, n)
	bad = make([]int, n)

	for i := 0; i < n; i++ {
		labelI := f.ds.Label(i)
		prefix := f.indices[i]
		if k < len(prefix) {
			prefix = prefix[:k]
		}
		for _, j := range prefix {
			total[j]++
			if labelI == f.ds.Label(j) {
				good[j]++
			} else {
				bad[j]++
			}
		}
	}
	return total, good, bad, nil
}
