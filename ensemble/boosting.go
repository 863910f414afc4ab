package ensemble

import (
	"math/rand"

	"github.com/yoshoku/rumale/tree"
	"gonum.org/v1/gonum/mat"
)

// rowSampler draws row subsets for stochastic gradient boosting. With a
// fraction of 1 it hands back the full training data untouched.
type rowSampler struct {
	nRows    int
	nSampled int
	rng      *rand.Rand
	rowBuf   []float64
}

func newRowSampler(nRows int, fraction float64, rng *rand.Rand) *rowSampler {
	nSampled := int(fraction * float64(nRows))
	if nSampled < 1 {
		nSampled = 1
	}
	return &rowSampler{nRows: nRows, nSampled: nSampled, rng: rng}
}

func (s *rowSampler) draw(X mat.Matrix, gradients, hessians []float64) (mat.Matrix, []float64, []float64) {
	if s.nSampled >= s.nRows {
		return X, gradients, hessians
	}

	picked := s.rng.Perm(s.nRows)[:s.nSampled]
	_, cols := X.Dims()
	if s.rowBuf == nil {
		s.rowBuf = make([]float64, cols)
	}

	sub := mat.NewDense(s.nSampled, cols, nil)
	subGrad := make([]float64, s.nSampled)
	subHess := make([]float64, s.nSampled)
	for i, idx := range picked {
		mat.Row(s.rowBuf, idx, X)
		sub.SetRow(i, s.rowBuf)
		subGrad[i] = gradients[idx]
		subHess[i] = hessians[idx]
	}
	return sub, subGrad, subHess
}

// sumTreeImportances accumulates per-stage feature importances and
// renormalizes the total to one.
func sumTreeImportances(trees []*tree.GradientTreeRegressor, nFeatures int) []float64 {
	if len(trees) == 0 {
		return nil
	}
	out := make([]float64, nFeatures)
	for _, t := range trees {
		for j, v := range t.GetFeatureImportances() {
			out[j] += v
		}
	}
	var total float64
	for _, v := range out {
		total += v
	}
	if total > 0 {
		for j := range out {
			out[j] /= total
		}
	}
	return out
}
