package forest

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMetrics(t *testing.T) {
	yTrue := []float64{1, 2, 3}
	yPred := []float64{1, 2, 5}
	assert.InDelta(t, 4.0/3, MSE(yTrue, yPred), 1e-12)
	assert.InDelta(t, math.Sqrt(4.0/3), RMSE(yTrue, yPred), 1e-12)
	assert.InDelta(t, 2.0/3, MAE(yTrue, yPred), 1e-12)
	assert.InDelta(t, 1-4.0/2, R2(yTrue, yPred), 1e-12)

	assert.Equal(t, 0.0, RMSE(yTrue, yTrue))
	assert.InDelta(t, 1.0, R2(yTrue, yTrue), 1e-12)
}

func TestR2_ConstantTarget(t *testing.T) {
	assert.Equal(t, 1.0, R2([]float64{4, 4}, []float64{4, 4}))
	assert.Equal(t, 0.0, R2([]float64{4, 4}, []float64{4, 5}))
	assert.Equal(t, 1.0, R2([]float64{4}, []float64{4}))
}

func TestMetrics_BadInput(t *testing.T) {
	assert.True(t, math.IsNaN(RMSE(nil, nil)))
	assert.True(t, math.IsNaN(R2([]float64{1}, []float64{1, 2})))
	assert.True(t, math.IsNaN(MAE([]float64{1}, nil)))
}
