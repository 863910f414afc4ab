// Package metrics provides evaluation metrics for the estimators in this
// library.
package metrics

import (
	"github.com/yoshoku/rumale/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

// AccuracyScore returns the fraction of predictions equal to the true
// labels.
func AccuracyScore(yTrue, yPred *mat.VecDense) (float64, error) {
	n := yTrue.Len()
	if n == 0 {
		return 0, errors.NewValueError("AccuracyScore", "empty vector")
	}
	if yPred.Len() != n {
		return 0, errors.NewDimensionError("AccuracyScore", n, yPred.Len(), 0)
	}

	correct := 0
	for i := 0; i < n; i++ {
		if yTrue.AtVec(i) == yPred.AtVec(i) {
			correct++
		}
	}
	return float64(correct) / float64(n), nil
}
