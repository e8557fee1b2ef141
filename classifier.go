package hubness

import "math"

// ClassifierConfig controls the hubness-weighted classifier.
// Start with [DefaultClassifierConfig] and override the fields you need.
type ClassifierConfig struct {
	// K is the voting neighborhood size. Must be at most the finder's
	// computed neighborhood size. 0 means use the finder's full
	// neighborhood. Default: 0.
	K int

	// Unweighted disables the hubness discount so every labeled neighbor
	// votes with weight 1 (plain majority-vote kNN). Default: false.
	Unweighted bool
}

// DefaultClassifierConfig returns a ClassifierConfig with the defaults.
func DefaultClassifierConfig() ClassifierConfig {
	return ClassifierConfig{}
}

// applyClassifierDefaults fills in zero-valued config fields.
func applyClassifierDefaults(cfg *ClassifierConfig, nsf *NeighborSetFinder) {
	if cfg.K == 0 {
		cfg.K = nsf.K()
	}
}

// validateClassifierConfig checks cfg against the finder it will consume.
func validateClassifierConfig(cfg *ClassifierConfig, nsf *NeighborSetFinder) error {
	if cfg.K < 0 || cfg.K > nsf.K() {
		return configErrorf("K must be in [0, %d], got %d", nsf.K(), cfg.K)
	}
	return nil
}

// HubnessWeightedClassifier is a kNN classifier that discounts votes from
// points with high bad-occurrence counts (harmful hubs). Each neighbor j
// votes with weight exp(-hb(j)), where hb(j) is j's bad-occurrence count
// standardized over the dataset. With zero bad-occurrence variance it
// degenerates to plain majority-vote kNN.
//
// The classifier reads a shared NeighborSetFinder and never mutates it, so
// one finder can back many classifiers (e.g. across cross-validation folds).
type HubnessWeightedClassifier struct {
	nsf        *NeighborSetFinder
	k          int
	numClasses int
	weights    []float64
}

// NewHubnessWeightedClassifier builds a classifier over an already-computed
// finder. The dataset must contain at least one labeled instance and no
// label below NoLabel.
func NewHubnessWeightedClassifier(nsf *NeighborSetFinder, cfg ClassifierConfig) (*HubnessWeightedClassifier, error) {
	if nsf == nil {
		return nil, configErrorf("nil neighbor set finder")
	}
	applyClassifierDefaults(&cfg, nsf)
	if err := validateClassifierConfig(&cfg, nsf); err != nil {
		return nil, err
	}
	ds := nsf.Dataset()
	for i := 0; i < ds.Size(); i++ {
		if ds.Label(i) < NoLabel {
			return nil, configErrorf("instance %d has label %d, below NoLabel (%d)", i, ds.Label(i), NoLabel)
		}
	}
	numClasses := ds.NumClasses()
	if numClasses < 1 {
		return nil, configErrorf("dataset has no labeled instances")
	}

	c := &HubnessWeightedClassifier{
		nsf:        nsf,
		k:          cfg.K,
		numClasses: numClasses,
		weights:    make([]float64, ds.Size()),
	}

	if cfg.Unweighted {
		for j := range c.weights {
			c.weights[j] = 1
		}
		return c, nil
	}

	_, _, bad, err := nsf.OccurrencesForK(cfg.K)
	if err != nil {
		return nil, err
	}
	mean, std := MeanStdDev(bad)
	for j, b := range bad {
		if std == 0 {
			c.weights[j] = 1
		} else {
			c.weights[j] = math.Exp(-(float64(b) - mean) / std)
		}
	}
	return c, nil
}

// Weight returns the vote weight assigned to point j.
func (c *HubnessWeightedClassifier) Weight(j int) float64 { return c.weights[j] }

// Predict returns the predicted class of in-sample point i from its stored
// neighbor list. Unlabeled neighbors do not vote; if no neighbor is labeled
// the prediction is NoLabel. Vote ties go to the smaller class index.
func (c *HubnessWeightedClassifier) Predict(i int) int {
	votes := make([]float64, c.numClasses)
	neighbors, _, _ := c.nsf.NeighborsK(i, c.k)

	voted := false
	for _, j := range neighbors {
		label := c.nsf.Dataset().Label(j)
		if label == NoLabel {
			continue
		}
		votes[label] += c.weights[j]
		voted = true
	}
	if !voted {
		return NoLabel
	}

	best := 0
	for class := 1; class < c.numClasses; class++ {
		if votes[class] > votes[best] {
			best = class
		}
	}
	return best
}

// PredictAll returns Predict(i) for every point.
func (c *HubnessWeightedClassifier) PredictAll() []int {
	predictions := make([]int, c.nsf.Dataset().Size())
	for i := range predictions {
		predictions[i] = c.Predict(i)
	}
	return predictions
}

// Accuracy returns the fraction of labeled points whose prediction matches
// their label. Unlabeled points are skipped; a dataset with no labeled
// points yields 0.
func (c *HubnessWeightedClassifier) Accuracy() float64 {
	ds := c.nsf.Dataset()
	labeled, correct := 0, 0
	for i := 0; i < ds.Size(); i++ {
		if ds.Label(i) == NoLabel {
			continue
		}
		labeled++
		if c.Predict(i) == ds.Label(i) {
			correct++
		}
	}
	if labeled == 0 {
		return 0
	}
	return float64(correct) / float64(labeled)
}
