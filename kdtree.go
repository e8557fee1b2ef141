package hubness

import (
	"container/heap"
	"math"
	"sort"
)

// NewNeighborSetFinderKDTree builds k-nearest-neighbor sets for a purely
// numeric dataset without materializing the O(n²) distance matrix, using a
// KD-tree with bounded max-heap queries. The dataset must have only float
// attributes, and the metric must be axis-decomposable (Euclidean, Manhattan
// or Minkowski).
//
// leafSize controls the maximum points per tree leaf; <= 0 means 40. The
// returned finder carries no distance matrix, so its neighborhood size is
// fixed at k; prefix queries for smaller k still work.
//
// Distance ties may be ordered differently than the matrix-scan path, since
// the tree visits points in tree order rather than index order.
func NewNeighborSetFinderKDTree(ds *Dataset, metric FloatMetric, k, leafSize int) (*NeighborSetFinder, error) {
	if ds == nil {
		return nil, configErrorf("nil dataset")
	}
	if metric == nil {
		return nil, configErrorf("nil metric")
	}
	if k < 0 {
		return nil, configErrorf("k must be >= 0, got %d", k)
	}
	if err := ds.Validate(); err != nil {
		return nil, err
	}
	schema := ds.Schema()
	if schema.NumInts > 0 || schema.NumNominals > 0 {
		return nil, configErrorf("KD-tree neighbor search supports float attributes only, schema is %+v", schema)
	}
	p, ok := minkowskiExponent(metric)
	if !ok {
		return nil, configErrorf("KD-tree neighbor search needs an axis-decomposable metric, got %T", metric)
	}
	if leafSize <= 0 {
		leafSize = 40
	}

	n := ds.Size()
	dims := schema.NumFloats
	if n > 0 && k > n-1 {
		k = n - 1
	}

	t := buildKDTree(ds, n, dims, metric, p, leafSize)

	f := &NeighborSetFinder{
		ds:      ds,
		k:       k,
		indices: make([][]int, n),
		dists:   make([][]float64, n),
	}
	h := make(neighborHeap, 0, k+1)
	for i := 0; i < n; i++ {
		f.indices[i], f.dists[i] = t.queryPoint(i, k, h[:0])
	}
	f.countOccurrences()
	return f, nil
}

// minkowskiExponent returns the Minkowski exponent of an axis-decomposable
// metric, or false for metrics KD-tree pruning cannot bound.
func minkowskiExponent(m FloatMetric) (float64, bool) {
	switch v := m.(type) {
	case EuclideanMetric:
		return 2, true
	case ManhattanMetric:
		return 1, true
	case MinkowskiMetric:
		if v.P < 1 {
			return 0, false
		}
		return v.P, true
	default:
		return 0, false
	}
}

// kdTree is a KD-tree over the float attribute block, stored as a complete
// binary tree in array form: node i has children 2i+1 and 2i+2, with
// per-node axis-aligned bounds for pruning.
type kdTree struct {
	data      []float64 // flat row-major float block (n * dims)
	n, dims   int
	leafSize  int
	metric    FloatMetric
	p         float64 // Minkowski exponent for bound aggregation
	idxArray  []int   // permutation: tree-order position → original index
	nodes     []kdNode
	boundsMin []float64 // boundsMin[node*dims+d]
	boundsMax []float64
}

type kdNode struct {
	start, end int
	leaf       bool
}

func buildKDTree(ds *Dataset, n, dims int, metric FloatMetric, p float64, leafSize int) *kdTree {
	data := make([]float64, n*dims)
	idxArray := make([]int, n)
	for i := 0; i < n; i++ {
		copy(data[i*dims:], ds.Instances[i].Floats)
		idxArray[i] = i
	}

	maxNodes := kdMaxNodes(n, leafSize)
	t := &kdTree{
		data:      data,
		n:         n,
		dims:      dims,
		leafSize:  leafSize,
		metric:    metric,
		p:         p,
		idxArray:  idxArray,
		nodes:     make([]kdNode, maxNodes),
		boundsMin: make([]float64, maxNodes*dims),
		boundsMax: make([]float64, maxNodes*dims),
	}
	if n > 0 {
		t.buildNode(0, 0, n)
	}
	return t
}

// kdMaxNodes returns an upper bound on the node count for a binary tree with
// n points and the given leaf size.
func kdMaxNodes(n, leafSize int) int {
	if n == 0 {
		return 1
	}
	leaves := (n + leafSize - 1) / leafSize
	depth := 0
	for v := 1; v < leaves; v *= 2 {
		depth++
	}
	return (1 << (depth + 1)) + 1
}

// buildNode recursively builds the subtree for idxArray[start:end], splitting
// at the median of the widest dimension.
func (t *kdTree) buildNode(nodeID, start, end int) {
	for nodeID >= len(t.nodes) {
		t.nodes = append(t.nodes, kdNode{})
		t.boundsMin = append(t.boundsMin, make([]float64, t.dims)...)
		t.boundsMax = append(t.boundsMax, make([]float64, t.dims)...)
	}

	t.computeBounds(nodeID, start, end)

	if end-start <= t.leafSize {
		t.nodes[nodeID] = kdNode{start: start, end: end, leaf: true}
		return
	}

	splitDim := 0
	maxSpread := -1.0
	base := nodeID * t.dims
	for d := 0; d < t.dims; d++ {
		if spread := t.boundsMax[base+d] - t.boundsMin[base+d]; spread > maxSpread {
			maxSpread = spread
			splitDim = d
		}
	}

	sub := t.idxArray[start:end]
	data, dims := t.data, t.dims
	sort.Slice(sub, func(i, j int) bool {
		return data[sub[i]*dims+splitDim] < data[sub[j]*dims+splitDim]
	})

	mid := start + (end-start)/2
	t.nodes[nodeID] = kdNode{start: start, end: end}
	t.buildNode(2*nodeID+1, start, mid)
	t.buildNode(2*nodeID+2, mid, end)
}

func (t *kdTree) computeBounds(nodeID, start, end int) {
	base := nodeID * t.dims
	for d := 0; d < t.dims; d++ {
		t.boundsMin[base+d] = math.Inf(1)
		t.boundsMax[base+d] = math.Inf(-1)
	}
	for i := start; i < end; i++ {
		pt := t.idxArray[i] * t.dims
		for d := 0; d < t.dims; d++ {
			v := t.data[pt+d]
			if v < t.boundsMin[base+d] {
				t.boundsMin[base+d] = v
			}
			if v > t.boundsMax[base+d] {
				t.boundsMax[base+d] = v
			}
		}
	}
}

// queryPoint finds the k nearest neighbors of point self, excluding self,
// returning indices and distances sorted by ascending distance.
func (t *kdTree) queryPoint(self, k int, h neighborHeap) ([]int, []float64) {
	if k == 0 {
		return []int{}, []float64{}
	}
	query := t.data[self*t.dims : (self+1)*t.dims]
	t.search(0, self, query, k, &h)

	idx := make([]int, h.Len())
	dst := make([]float64, h.Len())
	for i := h.Len() - 1; i >= 0; i-- {
		item := heap.Pop(&h).(neighborItem)
		idx[i] = item.index
		dst[i] = item.dist
	}
	return idx, dst
}

// search traverses the subtree at nodeID, maintaining a max-heap of the k
// closest points seen so far and pruning subtrees whose bounds cannot beat
// the current k-th distance.
func (t *kdTree) search(nodeID, self int, query []float64, k int, h *neighborHeap) {
	if nodeID >= len(t.nodes) {
		return
	}
	node := t.nodes[nodeID]
	if node.start == node.end && nodeID != 0 {
		return // uninitialized node
	}

	if node.leaf {
		for i := node.start; i < node.end; i++ {
			ptIdx := t.idxArray[i]
			if ptIdx == self {
				continue
			}
			d := t.metric.Distance(query, t.data[ptIdx*t.dims:(ptIdx+1)*t.dims])
			if h.Len() < k {
				heap.Push(h, neighborItem{index: ptIdx, dist: d})
			} else if d < (*h)[0].dist {
				(*h)[0] = neighborItem{index: ptIdx, dist: d}
				heap.Fix(h, 0)
			}
		}
		return
	}

	left, right := 2*nodeID+1, 2*nodeID+2
	leftBound := t.minRdist(left, query)
	rightBound := t.minRdist(right, query)

	nearChild, farChild, farBound := left, right, rightBound
	if rightBound < leftBound {
		nearChild, farChild, farBound = right, left, leftBound
	}

	t.search(nearChild, self, query, k, h)

	if h.Len() < k || math.Pow((*h)[0].dist, t.p) > farBound {
		t.search(farChild, self, query, k, h)
	}
}

// minRdist is a lower bound, in exponent-p space, on the distance from the
// query to any point inside the node's bounding box.
func (t *kdTree) minRdist(nodeID int, query []float64) float64 {
	if nodeID >= len(t.nodes) {
		return math.Inf(1)
	}
	base := nodeID * t.dims
	var rdist float64
	for d := 0; d < t.dims; d++ {
		lo, hi := t.boundsMin[base+d], t.boundsMax[base+d]
		var gap float64
		if query[d] < lo {
			gap = lo - query[d]
		} else if query[d] > hi {
			gap = query[d] - hi
		}
		rdist += math.Pow(gap, t.p)
	}
	return rdist
}

// --- bounded max-heap for neighbor queries ---

type neighborItem struct {
	index int
	dist  float64
}

// neighborHeap is a max-heap of neighborItem (largest distance on top), used
// as a bounded priority queue.
type neighborHeap []neighborItem

func (h neighborHeap) Len() int           { return len(h) }
func (h neighborHeap) Less(i, j int) bool { return h[i].dist > h[j].dist } // max-heap
func (h neighborHeap) Swap(i, j int)      { h[i], h[j] = h[j], h[i] }
func (h *neighborHeap) Push(x any)        { *h = append(*h, x.(neighborItem)) }
func (h *neighborHeap) Pop() any {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]
	return item
}
