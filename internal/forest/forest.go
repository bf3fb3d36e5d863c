package forest

import (
	"context"
	"math/rand"
	"runtime"

	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// Regressor is a bagged ensemble of regression trees.
type Regressor struct {
	NEstimators     int
	MaxDepth        int
	MinSamplesSplit int
	MinSamplesLeaf  int
	MaxFeatures     int
	Bootstrap       bool
	RandomState     int64
	Workers         int

	Trees     []*RegressionTree
	nFeatures int
}

// Option configures a Regressor.
type Option func(*Regressor)

// WithNEstimators sets the number of trees.
func WithNEstimators(n int) Option { return func(rf *Regressor) { rf.NEstimators = n } }

// WithMaxDepth limits tree depth; 0 means unlimited.
func WithMaxDepth(d int) Option { return func(rf *Regressor) { rf.MaxDepth = d } }

// WithMinSamplesSplit sets the minimum samples a node needs to be split.
func WithMinSamplesSplit(n int) Option { return func(rf *Regressor) { rf.MinSamplesSplit = n } }

// WithMinSamplesLeaf sets the minimum samples kept in each leaf.
func WithMinSamplesLeaf(n int) Option { return func(rf *Regressor) { rf.MinSamplesLeaf = n } }

// WithMaxFeatures sets how many features each split considers; 0 means all.
func WithMaxFeatures(k int) Option { return func(rf *Regressor) { rf.MaxFeatures = k } }

// WithBootstrap toggles sampling rows with replacement for each tree.
func WithBootstrap(b bool) Option { return func(rf *Regressor) { rf.Bootstrap = b } }

// WithRandomState sets the master seed the per-tree seeds are drawn from.
func WithRandomState(seed int64) Option {
	return func(rf *Regressor) { rf.RandomState = seed }
}

// WithWorkers bounds the number of trees fitted concurrently. Values < 1
// fall back to GOMAXPROCS.
func WithWorkers(n int) Option { return func(rf *Regressor) { rf.Workers = n } }

// NewRegressor initializes the forest with scikit-learn's defaults and a
// fixed seed of 42.
func NewRegressor(opts ...Option) *Regressor {
	rf := &Regressor{
		NEstimators:     100,
		MinSamplesSplit: 2,
		MinSamplesLeaf:  1,
		Bootstrap:       true,
		RandomState:     42,
	}
	for _, o := range opts {
		o(rf)
	}
	return rf
}

// Fit trains the forest. Per-tree seeds are drawn up front from RandomState,
// so the result does not depend on Workers or goroutine scheduling.
func (rf *Regressor) Fit(ctx context.Context, X mat.Matrix, y []float64) error {
	rows, err := checkXY(X, y)
	if err != nil {
		return err
	}
	nTrees := max(rf.NEstimators, 1)
	n := len(rows)

	master := rand.New(rand.NewSource(rf.RandomState))
	seeds := make([]int64, nTrees)
	for i := range seeds {
		seeds[i] = master.Int63()
	}

	trees := make([]*RegressionTree, nTrees)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(rf.workers())
	for i := range nTrees {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			rnd := rand.New(rand.NewSource(seeds[i]))
			sample := make([]int, n)
			for j := range sample {
				if rf.Bootstrap {
					sample[j] = rnd.Intn(n)
				} else {
					sample[j] = j
				}
			}
			t := NewRegressionTree(
				WithTreeMaxDepth(rf.MaxDepth),
				WithTreeMinSamplesSplit(rf.MinSamplesSplit),
				WithTreeMinSamplesLeaf(rf.MinSamplesLeaf),
				WithTreeMaxFeatures(rf.MaxFeatures),
				WithTreeRandomState(seeds[i]),
			)
			t.fit(rows, y, sample, rnd)
			trees[i] = t
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	rf.Trees = trees
	rf.nFeatures = len(rows[0])
	return nil
}

// Predict averages the tree predictions for each row of X.
func (rf *Regressor) Predict(X mat.Matrix) ([]float64, error) {
	if len(rf.Trees) == 0 {
		return nil, ErrNotFitted
	}
	r, c := X.Dims()
	if c != rf.nFeatures {
		return nil, ErrFeatureMismatch
	}
	per := make([][]float64, len(rf.Trees))
	var g errgroup.Group
	g.SetLimit(rf.workers())
	for i, t := range rf.Trees {
		g.Go(func() error {
			p, err := t.Predict(X)
			per[i] = p
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	// summed in tree order so the result is independent of scheduling
	out := make([]float64, r)
	for _, p := range per {
		floats.Add(out, p)
	}
	floats.Scale(1/float64(len(per)), out)
	return out, nil
}

// PredictOne predicts a single feature vector.
func (rf *Regressor) PredictOne(x []float64) (float64, error) {
	if len(rf.Trees) == 0 {
		return 0, ErrNotFitted
	}
	if len(x) != rf.nFeatures {
		return 0, ErrFeatureMismatch
	}
	p, err := rf.Predict(mat.NewDense(1, len(x), append([]float64(nil), x...)))
	if err != nil {
		return 0, err
	}
	return p[0], nil
}

// NumFeatures is the number of features seen during Fit.
func (rf *Regressor) NumFeatures() int { return rf.nFeatures }

// FeatureImportances returns the mean decrease in impurity per feature,
// normalized to sum to 1. A forest of single leaves yields all zeros.
func (rf *Regressor) FeatureImportances() []float64 {
	if len(rf.Trees) == 0 {
		return nil
	}
	out := make([]float64, rf.nFeatures)
	tmp := make([]float64, rf.nFeatures)
	for _, t := range rf.Trees {
		copy(tmp, t.importances)
		if s := floats.Sum(tmp); s > 0 {
			floats.Scale(1/s, tmp)
			floats.Add(out, tmp)
		}
	}
	if s := floats.Sum(out); s > 0 {
		floats.Scale(1/s, out)
	}
	return out
}

func (rf *Regressor) workers() int {
	if rf.Workers > 0 {
		return rf.Workers
	}
	return runtime.GOMAXPROCS(0)
}
