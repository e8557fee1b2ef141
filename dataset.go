package hubness

import (
	"fmt"
	"math/rand"
)

// NoLabel marks an instance as noise/unlabeled.
const NoLabel = -1

// Instance is a single data point with separate integer, float and nominal
// attribute blocks plus a category label (NoLabel for unlabeled points).
type Instance struct {
	Ints     []int
	Floats   []float64
	Nominals []string
	Label    int
}

// Schema describes the attribute layout shared by every instance in a Dataset.
type Schema struct {
	NumInts     int
	NumFloats   int
	NumNominals int
}

// Matches reports whether an instance conforms to the schema.
func (s Schema) Matches(inst *Instance) bool {
	return len(inst.Ints) == s.NumInts &&
		len(inst.Floats) == s.NumFloats &&
		len(inst.Nominals) == s.NumNominals
}

// Dataset is an ordered sequence of instances sharing one attribute schema.
// Builders and finders consume it read-only.
type Dataset struct {
	Instances []Instance
}

// NewFloatDataset builds a dataset from purely numeric rows with the given
// labels. labels may be nil, in which case every instance gets NoLabel.
// Returns an error if rows have inconsistent dimensionality or the label
// count does not match the row count.
func NewFloatDataset(rows [][]float64, labels []int) (*Dataset, error) {
	if labels != nil && len(labels) != len(rows) {
		return nil, configErrorf("have %d labels for %d rows", len(labels), len(rows))
	}
	ds := &Dataset{Instances: make([]Instance, len(rows))}
	for i, row := range rows {
		if i > 0 && len(row) != len(rows[0]) {
			return nil, configErrorf("row %d has %d floats, row 0 has %d", i, len(row), len(rows[0]))
		}
		label := NoLabel
		if labels != nil {
			label = labels[i]
		}
		ds.Instances[i] = Instance{Floats: row, Label: label}
	}
	return ds, nil
}

// Size returns the number of instances.
func (ds *Dataset) Size() int { return len(ds.Instances) }

// Schema returns the attribute schema of the first instance. For an empty
// dataset it returns the zero Schema.
func (ds *Dataset) Schema() Schema {
	if len(ds.Instances) == 0 {
		return Schema{}
	}
	first := &ds.Instances[0]
	return Schema{
		NumInts:     len(first.Ints),
		NumFloats:   len(first.Floats),
		NumNominals: len(first.Nominals),
	}
}

// Validate checks that every instance matches the dataset schema and carries
// a label no smaller than NoLabel.
func (ds *Dataset) Validate() error {
	schema := ds.Schema()
	for i := range ds.Instances {
		if !schema.Matches(&ds.Instances[i]) {
			return configErrorf("instance %d does not match dataset schema %+v", i, schema)
		}
		if ds.Instances[i].Label < NoLabel {
			return configErrorf("instance %d has label %d, below NoLabel (%d)", i, ds.Instances[i].Label, NoLabel)
		}
	}
	return nil
}

// Label returns the category label of instance i.
func (ds *Dataset) Label(i int) int { return ds.Instances[i].Label }

// NumClasses returns one more than the largest label, ignoring NoLabel.
// A fully unlabeled dataset has zero classes.
func (ds *Dataset) NumClasses() int {
	maxLabel := NoLabel
	for i := range ds.Instances {
		if ds.Instances[i].Label > maxLabel {
			maxLabel = ds.Instances[i].Label
		}
	}
	return maxLabel + 1
}

// GenerateGaussianClusters produces a labeled synthetic dataset of
// numClusters Gaussian blobs with perCluster points each, in dims float
// dimensions. Cluster centers are drawn uniformly from [-centerScale,
// centerScale] and points are centered with the given standard deviation.
// The label of each point is its cluster index. Used by tests and benchmarks.
func GenerateGaussianClusters(r *rand.Rand, numClusters, perCluster, dims int, centerScale, stddev float64) *Dataset {
	ds := &Dataset{Instances: make([]Instance, 0, numClusters*perCluster)}
	for c := 0; c < numClusters; c++ {
		center := make([]float64, dims)
		for d := range center {
			center[d] = (2*r.Float64() - 1) * centerScale
		}
		for p := 0; p < perCluster; p++ {
			row := make([]float64, dims)
			for d := range row {
				row[d] = center[d] + r.NormFloat64()*stddev
			}
			ds.Instances = append(ds.Instances, Instance{Floats: row, Label: c})
		}
	}
	return ds
}

// String summarizes the dataset for debugging.
func (ds *Dataset) String() string {
	s := ds.Schema()
	return fmt.Sprintf("Dataset(%d instances, %d int / %d float / %d nominal attrs)",
		ds.Size(), s.NumInts, s.NumFloats, s.NumNominals)
}
