package forest

import (
	"fmt"
	"math"
	"math/rand"

	"gonum.org/v1/gonum/mat"
)

// TrainTestSplit shuffles 0..n-1 with seed and returns train and test index
// sets. The test set holds ceil(testSize*n) samples, clamped so both sides
// are non-empty.
func TrainTestSplit(n int, testSize float64, seed int64) (train, test []int, err error) {
	if n < 2 {
		return nil, nil, ErrTooFewSamples
	}
	if testSize <= 0 || testSize >= 1 {
		return nil, nil, fmt.Errorf("forest: test size must be in (0, 1), got %v", testSize)
	}
	nTest := int(math.Ceil(testSize * float64(n)))
	nTest = min(max(nTest, 1), n-1)
	perm := rand.New(rand.NewSource(seed)).Perm(n)
	return perm[nTest:], perm[:nTest], nil
}

// Rows gathers the rows idx of X into a new matrix.
func Rows(X mat.Matrix, idx []int) *mat.Dense {
	_, c := X.Dims()
	out := mat.NewDense(len(idx), c, nil)
	row := make([]float64, c)
	for i, k := range idx {
		mat.Row(row, k, X)
		out.SetRow(i, row)
	}
	return out
}

// Take gathers y[idx].
func Take(y []float64, idx []int) []float64 {
	out := make([]float64, len(idx))
	for i, k := range idx {
		out[i] = y[k]
	}
	return out
}
