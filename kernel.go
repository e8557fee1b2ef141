package hubness

import (
	"fmt"
	"log/slog"
	"math"
	"sync"
)

// Kernel computes a similarity (self-similarity included) between two
// instances, e.g. a dot product. Implementations return an error for
// incompatible instances, mirroring Metric.
type Kernel interface {
	Similarity(a, b *Instance) (float64, error)
}

// KernelFunc adapts a plain function to the Kernel interface.
type KernelFunc func(a, b *Instance) (float64, error)

func (f KernelFunc) Similarity(a, b *Instance) (float64, error) { return f(a, b) }

// LinearKernel is the dot product over the numeric attributes (floats plus
// widened ints).
type LinearKernel struct{}

func (LinearKernel) Similarity(a, b *Instance) (float64, error) {
	if len(a.Floats) != len(b.Floats) || len(a.Ints) != len(b.Ints) {
		return 0, fmt.Errorf("hubness: numeric attribute counts differ (%d/%d vs %d/%d int/float)",
			len(a.Ints), len(a.Floats), len(b.Ints), len(b.Floats))
	}
	var dot float64
	for i := range a.Floats {
		dot += a.Floats[i] * b.Floats[i]
	}
	for i := range a.Ints {
		dot += float64(a.Ints[i]) * float64(b.Ints[i])
	}
	return dot, nil
}

// GaussianKernel is the RBF kernel exp(-d²/(2σ²)) where d² is the squared
// distance induced by the linear kernel: k(a,a) - 2k(a,b) + k(b,b).
// Sigma must be > 0.
type GaussianKernel struct {
	Sigma float64
}

func (k GaussianKernel) Similarity(a, b *Instance) (float64, error) {
	if k.Sigma <= 0 {
		return 0, fmt.Errorf("hubness: GaussianKernel sigma must be > 0, got %v", k.Sigma)
	}
	lin := LinearKernel{}
	aa, err := lin.Similarity(a, a)
	if err != nil {
		return 0, err
	}
	ab, err := lin.Similarity(a, b)
	if err != nil {
		return 0, err
	}
	bb, err := lin.Similarity(b, b)
	if err != nil {
		return 0, err
	}
	d2 := aa - 2*ab + bb
	if d2 < 0 {
		d2 = 0 // rounding
	}
	return math.Exp(-d2 / (2 * k.Sigma * k.Sigma)), nil
}

// KernelMatrix holds pairwise kernel similarities in upper-triangular form.
// Unlike DistanceMatrix, row i has length n-i and includes the diagonal
// self-similarity, which is generally nonzero.
type KernelMatrix struct {
	rows [][]float64
	n    int
}

func newKernelMatrix(n int) *KernelMatrix {
	rows := make([][]float64, n)
	for i := 0; i < n; i++ {
		rows[i] = make([]float64, n-i)
	}
	return &KernelMatrix{rows: rows, n: n}
}

// Size returns the number of points n.
func (m *KernelMatrix) Size() int { return m.n }

// At returns the kernel similarity between points i and j (symmetric).
func (m *KernelMatrix) At(i, j int) float64 {
	if i <= j {
		return m.rows[i][j-i]
	}
	return m.rows[j][i-j]
}

// Row returns the stored row for point i: similarities to points i..n-1,
// starting with the diagonal. Backing storage; do not modify.
func (m *KernelMatrix) Row(i int) []float64 { return m.rows[i] }

// BuildKernelMatrixParallel computes the kernel matrix with the same
// row-range partitioning, join barrier and degrade-gracefully contract as
// BuildDistanceMatrixParallel. Failed pairs are set to 0 similarity (the
// kernel analogue of "infinitely far") and reported in the joined error.
func BuildKernelMatrixParallel(ds *Dataset, kernel Kernel, numWorkers int, logger *slog.Logger) (*KernelMatrix, error) {
	if ds == nil {
		return nil, configErrorf("nil dataset")
	}
	if kernel == nil {
		return nil, configErrorf("nil kernel")
	}
	if numWorkers < 1 {
		return nil, configErrorf("numWorkers must be >= 1, got %d", numWorkers)
	}
	if err := ds.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = slog.Default()
	}

	n := ds.Size()
	m := newKernelMatrix(n)

	if numWorkers == 1 || n <= 1 {
		failures := &pairFailures{}
		func() {
			defer recoverWorker(m.rows, 0, n, 0, logger, failures)
			fillKernelRows(ds, kernel, m, 0, n, logger, failures)
		}()
		return m, failures.join()
	}

	var wg sync.WaitGroup
	rowsPerWorker := (n + numWorkers - 1) / numWorkers
	workerFailures := make([]*pairFailures, 0, numWorkers)

	for w := 0; w < numWorkers; w++ {
		startRow := w * rowsPerWorker
		endRow := startRow + rowsPerWorker
		if endRow > n {
			endRow = n
		}
		if startRow >= n {
			break
		}

		failures := &pairFailures{}
		workerFailures = append(workerFailures, failures)

		wg.Add(1)
		go func(start, end int, failures *pairFailures) {
			defer wg.Done()
			defer recoverWorker(m.rows, start, end, 0, logger, failures)
			fillKernelRows(ds, kernel, m, start, end, logger, failures)
		}(startRow, endRow, failures)
	}

	wg.Wait()
	return m, joinAll(workerFailures)
}

// fillKernelRows computes rows [start, end) of the kernel triangle,
// diagonal included.
func fillKernelRows(ds *Dataset, kernel Kernel, m *KernelMatrix, start, end int, logger *slog.Logger, failures *pairFailures) {
	n := ds.Size()
	for i := start; i < end; i++ {
		a := &ds.Instances[i]
		for j := i; j < n; j++ {
			s, err := kernel.Similarity(a, &ds.Instances[j])
			if err != nil {
				s = 0
				failures.record(i, j, err)
				logger.Warn("kernel evaluation failed, using zero similarity",
					"i", i, "j", j, "err", err)
			}
			m.rows[i][j-i] = s
		}
	}
}
