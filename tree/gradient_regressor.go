package tree

import (
	"time"

	"github.com/yoshoku/rumale/core/model"
	"github.com/yoshoku/rumale/pkg/errors"
	"github.com/yoshoku/rumale/pkg/log"
	"github.com/yoshoku/rumale/tree/splitter"
	"gonum.org/v1/gonum/mat"
)

// GradientTreeRegressor fits a regression tree to per-sample gradient and
// hessian statistics. Splits maximize the Newton gain and each leaf stores
// the regularized Newton step -G/(H+lambda). It is the weak learner used
// by the ensemble package.
type GradientTreeRegressor struct {
	model.BaseEstimator
	treeParams

	root                *node
	nFeatures_          int
	featureImportances_ []float64
}

// NewGradientTreeRegressor creates a gradient tree with the given options.
// Defaults: unlimited depth, min_samples_split 2, min_samples_leaf 1,
// reg_lambda 0.
func NewGradientTreeRegressor(opts ...Option) *GradientTreeRegressor {
	t := &GradientTreeRegressor{
		treeParams: treeParams{
			criterion:       string(splitter.MSE),
			maxDepth:        -1,
			minSamplesSplit: 2,
			minSamplesLeaf:  1,
			maxFeatures:     -1,
			randomSeed:      42,
		},
	}
	for _, opt := range opts {
		opt(&t.treeParams)
	}
	return t
}

type gradientKernel struct {
	gradients []float64
	hessians  []float64
	regLambda float64
}

func (k *gradientKernel) gatherSums(indices []int) (grads, hess []float64, sumG, sumH float64) {
	grads = make([]float64, len(indices))
	hess = make([]float64, len(indices))
	for i, idx := range indices {
		grads[i] = k.gradients[idx]
		hess[i] = k.hessians[idx]
		sumG += grads[i]
		sumH += hess[i]
	}
	return grads, hess, sumG, sumH
}

// nodeImpurity is unused for gradient trees; the Newton gain is computed
// directly from the gradient sums inside findSplit.
func (k *gradientKernel) nodeImpurity([]int) (float64, error) { return 0, nil }

func (k *gradientKernel) isHomogeneous(indices []int) bool {
	grads := make([]float64, len(indices))
	for i, idx := range indices {
		grads[i] = k.gradients[idx]
	}
	return splitter.IsHomogeneousTargets(grads, 1)
}

func (k *gradientKernel) findSplit(order []int, column []float64, indices []int, _ float64) (splitter.SplitRecord, error) {
	grads, hess, sumG, sumH := k.gatherSums(indices)
	gs, err := splitter.FindSplitGradient(order, column, grads, hess, sumG, sumH, k.regLambda)
	if err != nil {
		return splitter.SplitRecord{}, err
	}
	return splitter.SplitRecord{Threshold: gs.Threshold, Gain: gs.Gain}, nil
}

func (k *gradientKernel) leafValue(indices []int) []float64 {
	_, _, sumG, sumH := k.gatherSums(indices)
	return []float64{-sumG / (sumH + k.regLambda)}
}

func (k *gradientKernel) classCounts([]int) []int { return nil }

// Fit builds the tree from features X (n×d) and per-sample gradients and
// hessians of length n.
func (t *GradientTreeRegressor) Fit(X mat.Matrix, gradients, hessians []float64) error {
	const op = "GradientTreeRegressor.Fit"
	start := time.Now()

	rows, cols := X.Dims()
	if rows == 0 {
		return errors.NewValueError(op, "empty training data")
	}
	if len(gradients) != rows {
		return errors.NewDimensionError(op, rows, len(gradients), 0)
	}
	if len(hessians) != rows {
		return errors.NewDimensionError(op, rows, len(hessians), 0)
	}

	kernel := &gradientKernel{
		gradients: gradients,
		hessians:  hessians,
		regLambda: t.regLambda,
	}
	root, rawImportances, err := newGrower(toDense(X), kernel, t.treeParams).grow()
	if err != nil {
		return err
	}

	t.root = root
	t.nFeatures_ = cols
	t.featureImportances_ = normalizeImportances(rawImportances, rows)
	t.SetFitted()

	logger := log.GetLoggerWithName("tree.gradient")
	logger.Debug("gradient tree fitted",
		log.ModelNameKey, "GradientTreeRegressor",
		log.OperationKey, "fit",
		log.SamplesKey, rows,
		log.FeaturesKey, cols,
		log.TreeDepthKey, root.depth(),
		log.TreeLeavesKey, root.countLeaves(),
		log.DurationMsKey, time.Since(start).Milliseconds(),
	)
	return nil
}

// Predict returns the Newton step of the leaf reached by each row of X.
func (t *GradientTreeRegressor) Predict(X mat.Matrix) (*mat.VecDense, error) {
	const op = "Predict"
	if !t.IsFitted() {
		return nil, errors.NewNotFittedError("GradientTreeRegressor", op)
	}
	rows, cols := X.Dims()
	if cols != t.nFeatures_ {
		return nil, errors.NewDimensionError(op, t.nFeatures_, cols, 1)
	}

	preds := mat.NewVecDense(rows, nil)
	row := make([]float64, cols)
	for i := 0; i < rows; i++ {
		mat.Row(row, i, X)
		preds.SetVec(i, t.root.leafFor(row).value[0])
	}
	return preds, nil
}

// GetFeatureImportances returns the normalized gain-based importance of
// each feature. Nil before fitting.
func (t *GradientTreeRegressor) GetFeatureImportances() []float64 {
	return t.featureImportances_
}

// GetDepth returns the depth of the fitted tree.
func (t *GradientTreeRegressor) GetDepth() int {
	if t.root == nil {
		return 0
	}
	return t.root.depth()
}

// GetNLeaves returns the number of leaves of the fitted tree.
func (t *GradientTreeRegressor) GetNLeaves() int {
	if t.root == nil {
		return 0
	}
	return t.root.countLeaves()
}

// GetParams returns the hyperparameters using their scikit-learn names.
func (t *GradientTreeRegressor) GetParams() map[string]interface{} {
	return t.treeParams.asMap()
}

// SetParams updates hyperparameters from a map of scikit-learn names.
func (t *GradientTreeRegressor) SetParams(params map[string]interface{}) error {
	return t.treeParams.fromMap(params)
}
