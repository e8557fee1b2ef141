package hubness

import (
	"math"
	"testing"
)

func TestLinearKernel_HandComputed(t *testing.T) {
	k := LinearKernel{}
	a := &Instance{Floats: []float64{1, 2}, Ints: []int{3}}
	b := &Instance{Floats: []float64{4, 5}, Ints: []int{6}}
	// 1*4 + 2*5 + 3*6 = 32
	s, err := k.Similarity(a, b)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !almostEqual(s, 32.0, floatTol) {
		t.Errorf("expected 32.0, got %v", s)
	}
}

func TestLinearKernel_SchemaMismatch(t *testing.T) {
	k := LinearKernel{}
	a := &Instance{Floats: []float64{1}}
	b := &Instance{Floats: []float64{1, 2}}
	if _, err := k.Similarity(a, b); err == nil {
		t.Error("expected schema mismatch error, got nil")
	}
}

func TestGaussianKernel_SelfSimilarityIsOne(t *testing.T) {
	k := GaussianKernel{Sigma: 1.5}
	a := &Instance{Floats: []float64{3, -2, 7}}
	s, err := k.Similarity(a, a)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !almostEqual(s, 1.0, floatTol) {
		t.Errorf("expected 1.0 self-similarity, got %v", s)
	}
}

func TestGaussianKernel_HandComputed(t *testing.T) {
	k := GaussianKernel{Sigma: 1}
	a := &Instance{Floats: []float64{0}}
	b := &Instance{Floats: []float64{2}}
	// squared distance 4, exp(-4/2) = exp(-2)
	s, err := k.Similarity(a, b)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !almostEqual(s, math.Exp(-2), floatTol) {
		t.Errorf("expected exp(-2), got %v", s)
	}
}

func TestGaussianKernel_BadSigma(t *testing.T) {
	k := GaussianKernel{}
	a := &Instance{Floats: []float64{0}}
	if _, err := k.Similarity(a, a); err == nil {
		t.Error("expected error for sigma <= 0, got nil")
	}
}

func TestKernelMatrix_RowsIncludeDiagonal(t *testing.T) {
	ds := euclideanDataset(t, [][]float64{{1}, {2}, {3}}, nil)

	km, err := BuildKernelMatrixParallel(ds, LinearKernel{}, 1, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// Row i has length n-i and starts with the self-similarity.
	for i := 0; i < 3; i++ {
		if got := len(km.Row(i)); got != 3-i {
			t.Errorf("row %d: expected length %d, got %d", i, 3-i, got)
		}
	}
	// Diagonal: 1, 4, 9. Off-diagonal At(0,2) = 3, symmetric.
	for i, want := range []float64{1, 4, 9} {
		if !almostEqual(km.At(i, i), want, floatTol) {
			t.Errorf("At(%d,%d) = %v, expected %v", i, i, km.At(i, i), want)
		}
	}
	if !almostEqual(km.At(0, 2), 3.0, floatTol) || !almostEqual(km.At(2, 0), 3.0, floatTol) {
		t.Errorf("expected symmetric 3.0, got %v / %v", km.At(0, 2), km.At(2, 0))
	}
}
