package forest

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

func stepData() (*mat.Dense, []float64) {
	X := mat.NewDense(10, 2, nil)
	y := make([]float64, 10)
	for i := 0; i < 10; i++ {
		X.Set(i, 0, float64(i))
		X.Set(i, 1, 7)
		if i >= 5 {
			y[i] = 10
		}
	}
	return X, y
}

func noisyData(n int) (*mat.Dense, []float64) {
	X := mat.NewDense(n, 2, nil)
	y := make([]float64, n)
	for i := 0; i < n; i++ {
		a, b := float64(i%17), float64((i*7)%11)
		X.Set(i, 0, a)
		X.Set(i, 1, b)
		y[i] = 3*a - b + math.Sin(float64(i))
	}
	return X, y
}

func TestRegressionTree_StepFunction(t *testing.T) {
	X, y := stepData()
	tree := NewRegressionTree()
	require.NoError(t, tree.Fit(X, y))
	assert.Equal(t, 1, tree.Depth())
	assert.Equal(t, 2, tree.Leaves())
	assert.Equal(t, 4.5, tree.root.threshold)

	got, err := tree.Predict(X)
	require.NoError(t, err)
	assert.Equal(t, y, got)
}

func TestRegressionTree_MaxDepthAndLeaf(t *testing.T) {
	X, y := noisyData(60)
	tree := NewRegressionTree(WithTreeMaxDepth(2))
	require.NoError(t, tree.Fit(X, y))
	assert.LessOrEqual(t, tree.Depth(), 2)

	tree = NewRegressionTree(WithTreeMinSamplesLeaf(30))
	require.NoError(t, tree.Fit(X, y))
	assert.LessOrEqual(t, tree.Leaves(), 2)
}

func TestRegressionTree_Errors(t *testing.T) {
	tree := NewRegressionTree()
	_, err := tree.Predict(mat.NewDense(1, 2, nil))
	assert.ErrorIs(t, err, ErrNotFitted)

	assert.ErrorIs(t, tree.Fit(nil, nil), ErrEmpty)
	X := mat.NewDense(2, 1, []float64{1, math.NaN()})
	assert.ErrorIs(t, tree.Fit(X, []float64{1, 2}), ErrNonFinite)
	assert.Error(t, tree.Fit(mat.NewDense(2, 1, []float64{1, 2}), []float64{1}))
}

func TestRegressor_NoBootstrapMatchesSingleTree(t *testing.T) {
	X, y := stepData()
	rf := NewRegressor(WithNEstimators(5), WithBootstrap(false))
	require.NoError(t, rf.Fit(context.Background(), X, y))
	got, err := rf.Predict(X)
	require.NoError(t, err)
	assert.InDeltaSlice(t, y, got, 1e-12)
	assert.Len(t, rf.Trees, 5)
}

func TestRegressor_DeterministicAcrossWorkers(t *testing.T) {
	X, y := noisyData(80)
	serial := NewRegressor(WithNEstimators(20), WithWorkers(1))
	parallel := NewRegressor(WithNEstimators(20), WithWorkers(8))
	require.NoError(t, serial.Fit(context.Background(), X, y))
	require.NoError(t, parallel.Fit(context.Background(), X, y))

	a, err := serial.Predict(X)
	require.NoError(t, err)
	b, err := parallel.Predict(X)
	require.NoError(t, err)
	assert.Equal(t, a, b)
	assert.Equal(t, serial.FeatureImportances(), parallel.FeatureImportances())
}

func TestRegressor_PredictErrors(t *testing.T) {
	rf := NewRegressor(WithNEstimators(3))
	_, err := rf.PredictOne([]float64{1, 2})
	assert.ErrorIs(t, err, ErrNotFitted)

	X, y := noisyData(20)
	require.NoError(t, rf.Fit(context.Background(), X, y))
	_, err = rf.PredictOne([]float64{1})
	assert.ErrorIs(t, err, ErrFeatureMismatch)
	_, err = rf.Predict(mat.NewDense(1, 3, nil))
	assert.ErrorIs(t, err, ErrFeatureMismatch)

	v, err := rf.PredictOne([]float64{3, 4})
	require.NoError(t, err)
	assert.False(t, math.IsNaN(v))
	assert.Equal(t, 2, rf.NumFeatures())
}

func TestRegressor_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	X, y := noisyData(20)
	err := NewRegressor(WithNEstimators(4)).Fit(ctx, X, y)
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestRegressor_FeatureImportances(t *testing.T) {
	X, y := stepData()
	rf := NewRegressor(WithNEstimators(10))
	require.NoError(t, rf.Fit(context.Background(), X, y))
	imp := rf.FeatureImportances()
	require.Len(t, imp, 2)
	assert.InDelta(t, 1.0, imp[0], 1e-12)
	assert.Equal(t, 0.0, imp[1])

	assert.Nil(t, NewRegressor().FeatureImportances())
}
