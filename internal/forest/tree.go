package forest

import (
	"errors"
	"math"
	"math/rand"
	"sort"

	"gonum.org/v1/gonum/mat"
)

// RegressionTree is a CART regression tree using the squared-error criterion.
type RegressionTree struct {
	MaxDepth            int     // 0 => unlimited
	MinSamplesSplit     int     // minimum samples to attempt a split
	MinSamplesLeaf      int     // minimum samples required in each leaf
	MaxFeatures         int     // 0 => all features
	MinImpurityDecrease float64 // minimal weighted impurity decrease to accept a split
	RandomState         int64

	root        *node
	nFeatures   int
	importances []float64 // total squared-error decrease per feature
}

type node struct {
	leaf      bool
	feature   int
	threshold float64 // x <= threshold => left
	left      *node
	right     *node
	n         int
	value     float64
}

// TreeOption configures a RegressionTree.
type TreeOption func(*RegressionTree)

// WithTreeMaxDepth limits the depth of the tree; 0 means unlimited.
func WithTreeMaxDepth(d int) TreeOption {
	return func(t *RegressionTree) { t.MaxDepth = d }
}

// WithTreeMinSamplesSplit sets the minimum samples a node needs to be split.
func WithTreeMinSamplesSplit(n int) TreeOption {
	return func(t *RegressionTree) { t.MinSamplesSplit = n }
}

// WithTreeMinSamplesLeaf sets the minimum samples kept in each leaf.
func WithTreeMinSamplesLeaf(n int) TreeOption {
	return func(t *RegressionTree) { t.MinSamplesLeaf = n }
}

// WithTreeMaxFeatures sets how many features each split considers.
func WithTreeMaxFeatures(k int) TreeOption {
	return func(t *RegressionTree) { t.MaxFeatures = k }
}

// WithTreeRandomState seeds the feature sampling.
func WithTreeRandomState(seed int64) TreeOption {
	return func(t *RegressionTree) { t.RandomState = seed }
}

// NewRegressionTree returns a tree with scikit-learn's defaults.
func NewRegressionTree(opts ...TreeOption) *RegressionTree {
	t := &RegressionTree{
		MinSamplesSplit: 2,
		MinSamplesLeaf:  1,
	}
	for _, o := range opts {
		o(t)
	}
	return t
}

// Fit trains the tree on every row of X.
func (t *RegressionTree) Fit(X mat.Matrix, y []float64) error {
	rows, err := checkXY(X, y)
	if err != nil {
		return err
	}
	idx := make([]int, len(rows))
	for i := range idx {
		idx[i] = i
	}
	t.fit(rows, y, idx, rand.New(rand.NewSource(t.RandomState)))
	return nil
}

// Predict returns one prediction per row of X.
func (t *RegressionTree) Predict(X mat.Matrix) ([]float64, error) {
	if t.root == nil {
		return nil, ErrNotFitted
	}
	r, c := X.Dims()
	if c != t.nFeatures {
		return nil, ErrFeatureMismatch
	}
	out := make([]float64, r)
	row := make([]float64, c)
	for i := 0; i < r; i++ {
		mat.Row(row, i, X)
		out[i] = t.predictOne(row)
	}
	return out, nil
}

// Depth returns the depth of the fitted tree (a single leaf has depth 0).
func (t *RegressionTree) Depth() int { return depth(t.root) }

// Leaves returns the number of leaves of the fitted tree.
func (t *RegressionTree) Leaves() int { return leaves(t.root) }

// fit grows the tree over the sample indices idx. Indices may repeat, which
// is how bootstrap samples are passed without copying rows.
func (t *RegressionTree) fit(rows [][]float64, y []float64, idx []int, rnd *rand.Rand) {
	t.nFeatures = len(rows[0])
	t.importances = make([]float64, t.nFeatures)
	t.root = t.build(rows, y, idx, 0, rnd)
}

func (t *RegressionTree) build(rows [][]float64, y []float64, idx []int, depth int, rnd *rand.Rand) *node {
	sum, sumSq := 0.0, 0.0
	for _, i := range idx {
		sum += y[i]
		sumSq += y[i] * y[i]
	}
	n := float64(len(idx))
	nd := &node{leaf: true, n: len(idx), value: sum / n}
	parentSSE := sumSq - sum*sum/n

	minLeaf := max(t.MinSamplesLeaf, 1)
	switch {
	case len(idx) < t.MinSamplesSplit, len(idx) < 2*minLeaf:
		return nd
	case t.MaxDepth > 0 && depth >= t.MaxDepth:
		return nd
	case parentSSE <= 1e-12*math.Max(1, sumSq):
		return nd
	}

	best := t.bestSplit(rows, y, idx, parentSSE, minLeaf, rnd)
	if best.feature < 0 || best.gain/n <= t.MinImpurityDecrease {
		return nd
	}
	t.importances[best.feature] += best.gain

	left := make([]int, 0, best.nLeft)
	right := make([]int, 0, len(idx)-best.nLeft)
	for _, i := range idx {
		if rows[i][best.feature] <= best.threshold {
			left = append(left, i)
		} else {
			right = append(right, i)
		}
	}
	nd.leaf = false
	nd.feature = best.feature
	nd.threshold = best.threshold
	nd.left = t.build(rows, y, left, depth+1, rnd)
	nd.right = t.build(rows, y, right, depth+1, rnd)
	return nd
}

type split struct {
	feature   int
	threshold float64
	gain      float64 // parent SSE minus children SSE
	nLeft     int
}

type valueIndex struct {
	v float64
	i int
}

func (t *RegressionTree) bestSplit(rows [][]float64, y []float64, idx []int, parentSSE float64, minLeaf int, rnd *rand.Rand) split {
	p := t.nFeatures
	features := make([]int, p)
	for j := range features {
		features[j] = j
	}
	if t.MaxFeatures > 0 && t.MaxFeatures < p {
		rnd.Shuffle(p, func(a, b int) { features[a], features[b] = features[b], features[a] })
		features = features[:t.MaxFeatures]
	}

	best := split{feature: -1}
	pairs := make([]valueIndex, len(idx))
	for _, f := range features {
		for k, i := range idx {
			pairs[k] = valueIndex{rows[i][f], i}
		}
		sort.SliceStable(pairs, func(a, b int) bool { return pairs[a].v < pairs[b].v })

		total, totalSq := 0.0, 0.0
		for _, pv := range pairs {
			total += y[pv.i]
			totalSq += y[pv.i] * y[pv.i]
		}
		lSum, lSq := 0.0, 0.0
		for s := 1; s < len(pairs); s++ {
			yi := y[pairs[s-1].i]
			lSum += yi
			lSq += yi * yi
			if pairs[s].v == pairs[s-1].v {
				continue
			}
			nl, nr := s, len(pairs)-s
			if nl < minLeaf || nr < minLeaf {
				continue
			}
			rSum, rSq := total-lSum, totalSq-lSq
			sse := (lSq - lSum*lSum/float64(nl)) + (rSq - rSum*rSum/float64(nr))
			gain := parentSSE - sse
			if gain > best.gain {
				thr := pairs[s-1].v/2 + pairs[s].v/2
				if thr == pairs[s].v { // midpoint rounded up
					thr = pairs[s-1].v
				}
				best = split{feature: f, threshold: thr, gain: gain, nLeft: nl}
			}
		}
	}
	return best
}

func (t *RegressionTree) predictOne(x []float64) float64 {
	nd := t.root
	for !nd.leaf {
		if x[nd.feature] <= nd.threshold {
			nd = nd.left
		} else {
			nd = nd.right
		}
	}
	return nd.value
}

func depth(nd *node) int {
	if nd == nil || nd.leaf {
		return 0
	}
	return 1 + max(depth(nd.left), depth(nd.right))
}

func leaves(nd *node) int {
	if nd == nil {
		return 0
	}
	if nd.leaf {
		return 1
	}
	return leaves(nd.left) + leaves(nd.right)
}

// checkXY validates shapes and copies X into row slices.
func checkXY(X mat.Matrix, y []float64) ([][]float64, error) {
	if X == nil {
		return nil, ErrEmpty
	}
	r, c := X.Dims()
	if r == 0 || c == 0 {
		return nil, ErrEmpty
	}
	if len(y) != r {
		return nil, errors.New("forest: X and y length mismatch")
	}
	rows := make([][]float64, r)
	for i := range rows {
		rows[i] = mat.Row(nil, i, X)
		for _, v := range rows[i] {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return nil, ErrNonFinite
			}
		}
	}
	for _, v := range y {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, ErrNonFinite
		}
	}
	return rows, nil
}
