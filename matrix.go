package hubness

// DistanceMatrix holds pairwise distances for n points in memory-compact
// upper-triangular form: row i has length n-i-1 and holds the distances from
// point i to every point j > i. The diagonal is implicitly zero and the lower
// triangle is reconstructed by symmetry.
//
// A matrix is built once per experiment context and shared read-only across
// neighbor-set computations; callers must not mutate it.
type DistanceMatrix struct {
	rows [][]float64
	n    int
}

// newDistanceMatrix allocates the jagged triangle for n points.
func newDistanceMatrix(n int) *DistanceMatrix {
	rows := make([][]float64, n)
	for i := 0; i < n; i++ {
		rows[i] = make([]float64, n-i-1)
	}
	return &DistanceMatrix{rows: rows, n: n}
}

// Size returns the number of points n.
func (m *DistanceMatrix) Size() int { return m.n }

// At returns the distance between points i and j, reconstructing the full
// symmetric matrix from the stored triangle. At(i, i) is 0.
func (m *DistanceMatrix) At(i, j int) float64 {
	switch {
	case i == j:
		return 0
	case i < j:
		return m.rows[i][j-i-1]
	default:
		return m.rows[j][i-j-1]
	}
}

// Row returns the stored upper-triangular row for point i: distances to
// points i+1..n-1. The returned slice is the matrix's backing storage and
// must not be modified.
func (m *DistanceMatrix) Row(i int) []float64 { return m.rows[i] }

func (m *DistanceMatrix) set(i, j int, d float64) {
	m.rows[i][j-i-1] = d
}

// BuildDistanceMatrix computes the full pairwise distance matrix
// single-threaded. It is equivalent to BuildDistanceMatrixParallel with one
// worker; see that function for the failed-pair contract.
func BuildDistanceMatrix(ds *Dataset, metric Metric) (*DistanceMatrix, error) {
	return BuildDistanceMatrixParallel(ds, metric, 1, nil)
}
