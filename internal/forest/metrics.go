package forest

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// MSE is the mean squared error. Like the other metrics it returns NaN for
// empty or mismatched inputs.
func MSE(yTrue, yPred []float64) float64 {
	if !sameLen(yTrue, yPred) {
		return math.NaN()
	}
	d := floats.Distance(yTrue, yPred, 2)
	return d * d / float64(len(yTrue))
}

// RMSE is the root mean squared error.
func RMSE(yTrue, yPred []float64) float64 { return math.Sqrt(MSE(yTrue, yPred)) }

// MAE is the mean absolute error.
func MAE(yTrue, yPred []float64) float64 {
	if !sameLen(yTrue, yPred) {
		return math.NaN()
	}
	return floats.Distance(yTrue, yPred, 1) / float64(len(yTrue))
}

// R2 is the coefficient of determination. With a constant target it is 1
// for a perfect fit and 0 otherwise.
func R2(yTrue, yPred []float64) float64 {
	if !sameLen(yTrue, yPred) {
		return math.NaN()
	}
	if len(yTrue) == 1 || stat.Variance(yTrue, nil) == 0 {
		if floats.Equal(yTrue, yPred) {
			return 1
		}
		return 0
	}
	return stat.RSquaredFrom(yPred, yTrue, nil)
}

func sameLen(a, b []float64) bool { return len(a) > 0 && len(a) == len(b) }
