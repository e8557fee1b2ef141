package hubness

import (
	"math/rand"
	"testing"
)

func TestNewFloatDataset_Basic(t *testing.T) {
	ds, err := NewFloatDataset([][]float64{{0}, {1}, {2}}, []int{0, 0, 1})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ds.Size() != 3 {
		t.Errorf("expected size 3, got %d", ds.Size())
	}
	if ds.Label(2) != 1 {
		t.Errorf("expected label 1, got %d", ds.Label(2))
	}
	if s := ds.Schema(); s.NumFloats != 1 || s.NumInts != 0 || s.NumNominals != 0 {
		t.Errorf("unexpected schema %+v", s)
	}
}

func TestNewFloatDataset_NilLabels(t *testing.T) {
	ds, err := NewFloatDataset([][]float64{{0}, {1}}, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i := 0; i < ds.Size(); i++ {
		if ds.Label(i) != NoLabel {
			t.Errorf("point %d: expected NoLabel, got %d", i, ds.Label(i))
		}
	}
}

func TestNewFloatDataset_RaggedRows(t *testing.T) {
	if _, err := NewFloatDataset([][]float64{{0, 1}, {2}}, nil); err == nil {
		t.Error("expected error for ragged rows, got nil")
	}
}

func TestNewFloatDataset_LabelCountMismatch(t *testing.T) {
	if _, err := NewFloatDataset([][]float64{{0}, {1}}, []int{0}); err == nil {
		t.Error("expected error for label count mismatch, got nil")
	}
}

func TestDatasetValidate_MixedSchema(t *testing.T) {
	ds := &Dataset{Instances: []Instance{
		{Floats: []float64{1, 2}},
		{Floats: []float64{1, 2}, Nominals: []string{"x"}},
	}}
	if err := ds.Validate(); err == nil {
		t.Error("expected schema violation, got nil")
	}
}

func TestDatasetValidate_LabelBelowNoLabel(t *testing.T) {
	ds, err := NewFloatDataset([][]float64{{0}, {1}}, []int{0, -2})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := ds.Validate(); err == nil {
		t.Error("expected label violation, got nil")
	}
}

func TestDatasetNumClasses(t *testing.T) {
	ds, _ := NewFloatDataset([][]float64{{0}, {1}, {2}, {3}}, []int{0, 2, NoLabel, 1})
	if got := ds.NumClasses(); got != 3 {
		t.Errorf("expected 3 classes, got %d", got)
	}
}

func TestDatasetNumClasses_Unlabeled(t *testing.T) {
	ds, _ := NewFloatDataset([][]float64{{0}, {1}}, nil)
	if got := ds.NumClasses(); got != 0 {
		t.Errorf("expected 0 classes, got %d", got)
	}
}

func TestGenerateGaussianClusters(t *testing.T) {
	r := rand.New(rand.NewSource(42))
	ds := GenerateGaussianClusters(r, 3, 10, 4, 10.0, 0.5)

	if ds.Size() != 30 {
		t.Fatalf("expected 30 instances, got %d", ds.Size())
	}
	if err := ds.Validate(); err != nil {
		t.Errorf("generated dataset fails validation: %v", err)
	}
	if ds.NumClasses() != 3 {
		t.Errorf("expected 3 classes, got %d", ds.NumClasses())
	}
	// Labels are assigned per cluster in generation order.
	if ds.Label(0) != 0 || ds.Label(29) != 2 {
		t.Errorf("unexpected labels: first=%d last=%d", ds.Label(0), ds.Label(29))
	}
}
