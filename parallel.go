package hubness

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"
)

// maxRecordedFailures caps how many per-pair failures each worker keeps for
// the aggregated error. Every failure is still logged and sentinel-filled;
// only the returned error is truncated.
const maxRecordedFailures = 8

// pairFailures collects metric failures within one worker's row range.
type pairFailures struct {
	errs  []error
	total int
}

func (f *pairFailures) record(i, j int, err error) {
	f.total++
	if len(f.errs) < maxRecordedFailures {
		f.errs = append(f.errs, &MetricError{I: i, J: j, Err: err})
	}
}

// BuildDistanceMatrixParallel computes the upper-triangular pairwise distance
// matrix using numWorkers goroutines. Rows are split into contiguous ranges,
// one range per worker; ranges do not overlap, so workers write the shared
// matrix without synchronization and the caller only waits on a join barrier.
//
// A failed metric evaluation does not abort the computation: the pair's
// entry is set to MaxDistance and a warning is logged to logger (nil means
// slog.Default()). The matrix is returned non-nil even when pairs failed;
// the error joins the recorded failures so callers can inspect degradation.
// Only structural problems (nil inputs, bad worker count, schema violations
// detectable up front) return a nil matrix.
func BuildDistanceMatrixParallel(ds *Dataset, metric Metric, numWorkers int, logger *slog.Logger) (*DistanceMatrix, error) {
	if ds == nil {
		return nil, configErrorf("nil dataset")
	}
	if metric == nil {
		return nil, configErrorf("nil metric")
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
	m := newDistanceMatrix(n)

	if numWorkers == 1 || n <= 1 {
		failures := &pairFailures{}
		func() {
			defer recoverWorker(m.rows, 0, n, MaxDistance, logger, failures)
			fillDistanceRows(ds, metric, m, 0, n, logger, failures)
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
			defer recoverWorker(m.rows, start, end, MaxDistance, logger, failures)
			fillDistanceRows(ds, metric, m, start, end, logger, failures)
		}(startRow, endRow, failures)
	}

	wg.Wait()
	return m, joinAll(workerFailures)
}

// fillDistanceRows computes rows [start, end) of the triangle.
func fillDistanceRows(ds *Dataset, metric Metric, m *DistanceMatrix, start, end int, logger *slog.Logger, failures *pairFailures) {
	n := ds.Size()
	for i := start; i < end; i++ {
		a := &ds.Instances[i]
		for j := i + 1; j < n; j++ {
			d, err := metric.Distance(a, &ds.Instances[j])
			if err != nil {
				d = MaxDistance
				failures.record(i, j, err)
				logger.Warn("metric evaluation failed, using max distance",
					"i", i, "j", j, "err", err)
			}
			m.set(i, j, d)
		}
	}
}

// recoverWorker turns a panicking worker into sentinel-filled rows plus a
// recorded failure, so one broken worker degrades its range instead of
// killing the whole computation. The distance builders fill with MaxDistance,
// the kernel builder with zero similarity.
func recoverWorker(rows [][]float64, start, end int, sentinel float64, logger *slog.Logger, failures *pairFailures) {
	r := recover()
	if r == nil {
		return
	}
	for i := start; i < end; i++ {
		row := rows[i]
		for j := range row {
			row[j] = sentinel
		}
	}
	failures.errs = append(failures.errs, fmt.Errorf("hubness: worker for rows [%d, %d) panicked: %v", start, end, r))
	failures.total++
	logger.Warn("worker panicked, rows sentinel-filled",
		"startRow", start, "endRow", end, "panic", r)
}

func (f *pairFailures) join() error {
	if f.total == 0 {
		return nil
	}
	errs := f.errs
	if f.total > len(errs) {
		errs = append(errs, fmt.Errorf("hubness: %d further pair failures not recorded", f.total-len(errs)))
	}
	return errors.Join(errs...)
}

func joinAll(workers []*pairFailures) error {
	merged := &pairFailures{}
	for _, f := range workers {
		merged.errs = append(merged.errs, f.errs...)
		merged.total += f.total
	}
	// Re-truncate so the merged error stays bounded.
	if len(merged.errs) > maxRecordedFailures {
		merged.errs = merged.errs[:maxRecordedFailures]
	}
	return merged.join()
}
