package hubness

import (
	"fmt"
	"math"
)

// Metric computes the distance between two instances. Implementations must
// return a non-negative distance, or an error if the instances are
// incompatible (mismatched attribute schemas, corrupt values).
type Metric interface {
	Distance(a, b *Instance) (float64, error)
}

// MetricFunc adapts a plain function into a Metric.
type MetricFunc func(a, b *Instance) (float64, error)

func (f MetricFunc) Distance(a, b *Instance) (float64, error) { return f(a, b) }

// FloatMetric computes the distance between two equal-length float vectors.
type FloatMetric interface {
	Distance(a, b []float64) float64
}

// NominalMetric computes the distance between two equal-length nominal
// attribute vectors.
type NominalMetric interface {
	Distance(a, b []string) float64
}

// EuclideanMetric computes the Euclidean (L2) distance.
type EuclideanMetric struct{}

func (EuclideanMetric) Distance(a, b []float64) float64 {
	var sum float64
	for i := range a {
		d := a[i] - b[i]
		sum += d * d
	}
	return math.Sqrt(sum)
}

// ManhattanMetric computes the Manhattan (L1 / city-block) distance.
type ManhattanMetric struct{}

func (ManhattanMetric) Distance(a, b []float64) float64 {
	var sum float64
	for i := range a {
		sum += math.Abs(a[i] - b[i])
	}
	return sum
}

// MinkowskiMetric computes the Minkowski distance parameterized by P.
// P must be >= 1. Panics if P < 1.
type MinkowskiMetric struct {
	P float64
}

func (m MinkowskiMetric) Distance(a, b []float64) float64 {
	if m.P < 1 {
		panic("MinkowskiMetric: P must be >= 1")
	}
	var sum float64
	for i := range a {
		sum += math.Pow(math.Abs(a[i]-b[i]), m.P)
	}
	return math.Pow(sum, 1.0/m.P)
}

// CosineMetric computes the cosine distance: 1 - cosine_similarity.
// For two zero vectors, the result is NaN (0/0).
type CosineMetric struct{}

func (CosineMetric) Distance(a, b []float64) float64 {
	var dot, normA, normB float64
	for i := range a {
		dot += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}
	return 1.0 - dot/math.Sqrt(normA*normB)
}

// OverlapMetric is the standard nominal-attribute distance: the fraction of
// positions at which the two vectors disagree.
type OverlapMetric struct{}

func (OverlapMetric) Distance(a, b []string) float64 {
	if len(a) == 0 {
		return 0
	}
	mismatches := 0
	for i := range a {
		if a[i] != b[i] {
			mismatches++
		}
	}
	return float64(mismatches) / float64(len(a))
}

// CombinedMetric composes separate sub-metrics for the integer, float and
// nominal attribute blocks into one scalar distance: the sum of the three
// block distances. The integer block is widened to float64 and measured with
// the Int sub-metric. A nil sub-metric for a non-empty block is a
// configuration mistake and yields an error at evaluation time.
type CombinedMetric struct {
	Float   FloatMetric
	Int     FloatMetric
	Nominal NominalMetric
}

// DefaultCombinedMetric returns a CombinedMetric with Euclidean float
// distance, Manhattan integer distance and overlap nominal distance.
func DefaultCombinedMetric() CombinedMetric {
	return CombinedMetric{
		Float:   EuclideanMetric{},
		Int:     ManhattanMetric{},
		Nominal: OverlapMetric{},
	}
}

// Distance returns the combined distance between a and b, or an error if
// their attribute schemas differ or a needed sub-metric is missing.
func (m CombinedMetric) Distance(a, b *Instance) (float64, error) {
	if len(a.Floats) != len(b.Floats) || len(a.Ints) != len(b.Ints) || len(a.Nominals) != len(b.Nominals) {
		return 0, fmt.Errorf("hubness: attribute schemas differ (%d/%d/%d vs %d/%d/%d int/float/nominal)",
			len(a.Ints), len(a.Floats), len(a.Nominals), len(b.Ints), len(b.Floats), len(b.Nominals))
	}

	var total float64

	if len(a.Floats) > 0 {
		if m.Float == nil {
			return 0, fmt.Errorf("hubness: no float sub-metric for %d float attributes", len(a.Floats))
		}
		total += m.Float.Distance(a.Floats, b.Floats)
	}

	if len(a.Ints) > 0 {
		if m.Int == nil {
			return 0, fmt.Errorf("hubness: no int sub-metric for %d int attributes", len(a.Ints))
		}
		total += m.Int.Distance(widenInts(a.Ints), widenInts(b.Ints))
	}

	if len(a.Nominals) > 0 {
		if m.Nominal == nil {
			return 0, fmt.Errorf("hubness: no nominal sub-metric for %d nominal attributes", len(a.Nominals))
		}
		total += m.Nominal.Distance(a.Nominals, b.Nominals)
	}

	return total, nil
}

func widenInts(vals []int) []float64 {
	out := make([]float64, len(vals))
	for i, v := range vals {
		out[i] = float64(v)
	}
	return out
}

// FloatInstanceMetric lifts a FloatMetric to a Metric over the float
// attribute block only, for purely numeric datasets.
type FloatInstanceMetric struct {
	Float FloatMetric
}

func (m FloatInstanceMetric) Distance(a, b *Instance) (float64, error) {
	if len(a.Floats) != len(b.Floats) {
		return 0, fmt.Errorf("hubness: float attribute counts differ (%d vs %d)", len(a.Floats), len(b.Floats))
	}
	return m.Float.Distance(a.Floats, b.Floats), nil
}
