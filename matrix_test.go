package hubness

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"testing"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func euclideanDataset(t *testing.T, rows [][]float64, labels []int) *Dataset {
	t.Helper()
	ds, err := NewFloatDataset(rows, labels)
	if err != nil {
		t.Fatalf("building dataset: %v", err)
	}
	return ds
}

var euclidean = FloatInstanceMetric{Float: EuclideanMetric{}}

func TestBuildDistanceMatrix_TriangleShape(t *testing.T) {
	ds := euclideanDataset(t, [][]float64{{0}, {1}, {2}, {3}}, nil)

	dm, err := BuildDistanceMatrix(ds, euclidean)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if dm.Size() != 4 {
		t.Fatalf("expected size 4, got %d", dm.Size())
	}
	// Row i holds distances to points j > i only.
	for i := 0; i < 4; i++ {
		if got := len(dm.Row(i)); got != 4-i-1 {
			t.Errorf("row %d: expected length %d, got %d", i, 4-i-1, got)
		}
	}
}

func TestBuildDistanceMatrix_345Triangle(t *testing.T) {
	// Points: (0,0), (3,0), (0,4) form a 3-4-5 triangle.
	ds := euclideanDataset(t, [][]float64{{0, 0}, {3, 0}, {0, 4}}, nil)

	dm, err := BuildDistanceMatrix(ds, euclidean)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	expected := [][]float64{
		{0, 3, 4},
		{3, 0, 5},
		{4, 5, 0},
	}
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			if !almostEqual(dm.At(i, j), expected[i][j], floatTol) {
				t.Errorf("At(%d,%d) = %v, expected %v", i, j, dm.At(i, j), expected[i][j])
			}
		}
	}
}

func TestDistanceMatrix_SymmetricReconstruction(t *testing.T) {
	ds := euclideanDataset(t, [][]float64{{1, 2}, {3, 4}, {5, 6}, {7, 8}}, nil)

	dm, err := BuildDistanceMatrix(ds, euclidean)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	n := dm.Size()
	for i := 0; i < n; i++ {
		if dm.At(i, i) != 0 {
			t.Errorf("diagonal At(%d,%d) = %v, expected 0", i, i, dm.At(i, i))
		}
		for j := 0; j < n; j++ {
			if dm.At(i, j) != dm.At(j, i) {
				t.Errorf("At(%d,%d)=%v != At(%d,%d)=%v", i, j, dm.At(i, j), j, i, dm.At(j, i))
			}
		}
	}
}

func TestBuildDistanceMatrix_NilInputs(t *testing.T) {
	ds := euclideanDataset(t, [][]float64{{0}}, nil)

	var cfgErr *ConfigError
	if _, err := BuildDistanceMatrix(nil, euclidean); !errors.As(err, &cfgErr) {
		t.Errorf("nil dataset: expected ConfigError, got %v", err)
	}
	if _, err := BuildDistanceMatrix(ds, nil); !errors.As(err, &cfgErr) {
		t.Errorf("nil metric: expected ConfigError, got %v", err)
	}
	if _, err := BuildDistanceMatrixParallel(ds, euclidean, 0, nil); !errors.As(err, &cfgErr) {
		t.Errorf("zero workers: expected ConfigError, got %v", err)
	}
}

func TestBuildDistanceMatrix_EmptyDataset(t *testing.T) {
	dm, err := BuildDistanceMatrix(&Dataset{}, euclidean)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if dm.Size() != 0 {
		t.Errorf("expected size 0, got %d", dm.Size())
	}
}

func TestBuildDistanceMatrix_FailedPairGetsSentinel(t *testing.T) {
	ds := euclideanDataset(t, [][]float64{{0}, {1}, {2}}, nil)

	// Fail only the (0, 2) pair; everything else computes normally.
	metric := MetricFunc(func(a, b *Instance) (float64, error) {
		if a.Floats[0] == 0 && b.Floats[0] == 2 {
			return 0, fmt.Errorf("corrupt feature value")
		}
		return EuclideanMetric{}.Distance(a.Floats, b.Floats), nil
	})

	dm, err := BuildDistanceMatrixParallel(ds, metric, 1, discardLogger())
	if dm == nil {
		t.Fatal("expected a usable matrix despite the failed pair")
	}
	if err == nil {
		t.Fatal("expected aggregated pair-failure error, got nil")
	}
	var metricErr *MetricError
	if !errors.As(err, &metricErr) {
		t.Fatalf("expected a MetricError in the aggregate, got %v", err)
	}
	if metricErr.I != 0 || metricErr.J != 2 {
		t.Errorf("expected failure recorded for pair (0,2), got (%d,%d)", metricErr.I, metricErr.J)
	}

	if dm.At(0, 2) != MaxDistance || dm.At(2, 0) != MaxDistance {
		t.Errorf("failed pair should be MaxDistance, got %v / %v", dm.At(0, 2), dm.At(2, 0))
	}
	if !almostEqual(dm.At(0, 1), 1.0, floatTol) {
		t.Errorf("healthy pair degraded: At(0,1) = %v", dm.At(0, 1))
	}
}

func TestBuildDistanceMatrix_AllPairsFail_Completes(t *testing.T) {
	ds := euclideanDataset(t, [][]float64{{0}, {1}, {2}, {3}, {4}, {5}}, nil)
	metric := MetricFunc(func(a, b *Instance) (float64, error) {
		return 0, fmt.Errorf("always broken")
	})

	dm, err := BuildDistanceMatrixParallel(ds, metric, 2, discardLogger())
	if dm == nil {
		t.Fatal("expected a matrix even when every pair fails")
	}
	if err == nil {
		t.Fatal("expected aggregated error, got nil")
	}
	for i := 0; i < dm.Size(); i++ {
		for j := i + 1; j < dm.Size(); j++ {
			if dm.At(i, j) != MaxDistance {
				t.Errorf("At(%d,%d) = %v, expected MaxDistance", i, j, dm.At(i, j))
			}
		}
	}
}
