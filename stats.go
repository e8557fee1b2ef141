package hubness

import (
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// hubStdDevs is how many standard deviations above the mean occurrence count
// a point must sit to be called a hub.
const hubStdDevs = 2.0

// All aggregator functions are side-effect-free reads over occurrence arrays
// produced by a NeighborSetFinder; they never mutate finder state.

// MeanStdDev returns the mean and the population standard deviation of an
// occurrence-count array. An empty array yields (0, 0), never NaN.
func MeanStdDev(counts []int) (mean, std float64) {
	if len(counts) == 0 {
		return 0, 0
	}
	x := widenInts(counts)
	mean = stat.Mean(x, nil)
	std = stat.PopStdDev(x, nil)
	return mean, std
}

// Skewness returns the sample skewness of an occurrence-count array. The
// skewness of the occurrence distribution is the standard scalar measure of
// how hub-dominated a neighbor graph is. Arrays shorter than 3 elements, or
// with zero variance, yield 0.
func Skewness(counts []int) float64 {
	if len(counts) < 3 {
		return 0
	}
	x := widenInts(counts)
	if stat.PopStdDev(x, nil) == 0 {
		return 0
	}
	return stat.Skew(x, nil)
}

// IsHub reports whether point i's occurrence count is at least hubStdDevs
// standard deviations above the mean.
func IsHub(counts []int, i int) bool {
	mean, std := MeanStdDev(counts)
	return float64(counts[i]) >= mean+hubStdDevs*std
}

// HubIndices returns the points whose occurrence counts are at least
// hubStdDevs standard deviations above the mean, in ascending index order.
func HubIndices(counts []int) []int {
	mean, std := MeanStdDev(counts)
	threshold := mean + hubStdDevs*std
	var hubs []int
	for i, c := range counts {
		if float64(c) >= threshold {
			hubs = append(hubs, i)
		}
	}
	return hubs
}

// AntiHubIndices returns the m points with the lowest occurrence counts, in
// ascending count order. Callers typically pass m equal to the hub count for
// a symmetric comparison set. m is clamped to len(counts); ties are ordered
// arbitrarily.
func AntiHubIndices(counts []int, m int) []int {
	if m > len(counts) {
		m = len(counts)
	}
	if m <= 0 {
		return nil
	}
	return argsortInts(counts)[:m]
}

// GoodMinusBad returns the per-point good-minus-bad occurrence differential.
// Strongly negative entries are harmful ("bad") hubs; strongly positive
// entries are beneficial ("good") hubs.
func GoodMinusBad(good, bad []int) []int {
	gmb := make([]int, len(good))
	for i := range good {
		gmb[i] = good[i] - bad[i]
	}
	return gmb
}

// BadHubIndices returns the m points with the most negative good-minus-bad
// differential, worst first.
func BadHubIndices(good, bad []int, m int) []int {
	gmb := GoodMinusBad(good, bad)
	if m > len(gmb) {
		m = len(gmb)
	}
	if m <= 0 {
		return nil
	}
	return argsortInts(gmb)[:m]
}

// GoodHubIndices returns the m points with the most positive good-minus-bad
// differential, best first.
func GoodHubIndices(good, bad []int, m int) []int {
	gmb := GoodMinusBad(good, bad)
	if m > len(gmb) {
		m = len(gmb)
	}
	if m <= 0 {
		return nil
	}
	order := argsortInts(gmb)
	top := make([]int, m)
	for i := 0; i < m; i++ {
		top[i] = order[len(order)-1-i]
	}
	return top
}

// argsortInts returns the indices that sort vals ascending.
func argsortInts(vals []int) []int {
	x := widenInts(vals)
	inds := make([]int, len(x))
	floats.Argsort(x, inds)
	return inds
}
