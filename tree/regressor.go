package tree

import (
	"time"

	"github.com/yoshoku/rumale/core"
	"github.com/yoshoku/rumale/core/model"
	"github.com/yoshoku/rumale/metrics"
	"github.com/yoshoku/rumale/pkg/errors"
	"github.com/yoshoku/rumale/pkg/log"
	"github.com/yoshoku/rumale/tree/splitter"
	"gonum.org/v1/gonum/mat"
)

var (
	_ core.Estimator     = (*DecisionTreeRegressor)(nil)
	_ core.ParamsManager = (*DecisionTreeRegressor)(nil)
	_ core.FeatureRanker = (*DecisionTreeRegressor)(nil)
	_ core.TreeModel     = (*DecisionTreeRegressor)(nil)
)

// DecisionTreeRegressor is a CART-style regressor supporting multi-output
// targets. Splits are scored with the MSE or MAE criterion.
type DecisionTreeRegressor struct {
	model.BaseEstimator
	treeParams

	root                *node
	nOutputs_           int
	nFeatures_          int
	featureImportances_ []float64
}

// NewDecisionTreeRegressor creates a regressor with the given options.
// Defaults: criterion "mse", unlimited depth, min_samples_split 2,
// min_samples_leaf 1, all features considered.
func NewDecisionTreeRegressor(opts ...Option) *DecisionTreeRegressor {
	t := &DecisionTreeRegressor{
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

// regressorKernel adapts the regression split kernel to the growth
// engine. Targets are kept row-major over all samples; node views are
// gathered per call.
type regressorKernel struct {
	criterion splitter.Criterion
	targets   []float64
	nOutputs  int
}

func (k *regressorKernel) gather(indices []int) []float64 {
	out := make([]float64, len(indices)*k.nOutputs)
	for i, idx := range indices {
		copy(out[i*k.nOutputs:(i+1)*k.nOutputs], k.targets[idx*k.nOutputs:(idx+1)*k.nOutputs])
	}
	return out
}

func (k *regressorKernel) nodeImpurity(indices []int) (float64, error) {
	return splitter.NodeImpurityRegression(k.criterion, k.gather(indices), k.nOutputs)
}

func (k *regressorKernel) isHomogeneous(indices []int) bool {
	return splitter.IsHomogeneousTargets(k.gather(indices), k.nOutputs)
}

func (k *regressorKernel) findSplit(order []int, column []float64, indices []int, impurity float64) (splitter.SplitRecord, error) {
	return splitter.FindSplitRegression(k.criterion, impurity, order, column, k.gather(indices), k.nOutputs)
}

func (k *regressorKernel) leafValue(indices []int) []float64 {
	mean := make([]float64, k.nOutputs)
	for _, idx := range indices {
		for j := 0; j < k.nOutputs; j++ {
			mean[j] += k.targets[idx*k.nOutputs+j]
		}
	}
	for j := range mean {
		mean[j] /= float64(len(indices))
	}
	return mean
}

func (k *regressorKernel) classCounts([]int) []int { return nil }

// Fit builds the tree from features X (n×d) and targets y (n×nOutputs).
func (t *DecisionTreeRegressor) Fit(X, y mat.Matrix) error {
	const op = "DecisionTreeRegressor.Fit"
	start := time.Now()

	rows, cols := X.Dims()
	yRows, yCols := y.Dims()
	if rows == 0 {
		return errors.NewValueError(op, "empty training data")
	}
	if yRows != rows {
		return errors.NewDimensionError(op, rows, yRows, 0)
	}
	if yCols < 1 {
		return errors.NewDimensionError(op, 1, yCols, 1)
	}

	xDense := toDense(X)
	targets := make([]float64, rows*yCols)
	for i := 0; i < rows; i++ {
		for j := 0; j < yCols; j++ {
			targets[i*yCols+j] = y.At(i, j)
		}
	}

	kernel := &regressorKernel{
		criterion: splitter.Criterion(t.criterion),
		targets:   targets,
		nOutputs:  yCols,
	}
	root, rawImportances, err := newGrower(xDense, kernel, t.treeParams).grow()
	if err != nil {
		return err
	}

	t.root = root
	t.nOutputs_ = yCols
	t.nFeatures_ = cols
	t.featureImportances_ = normalizeImportances(rawImportances, rows)
	t.SetFitted()

	logger := log.GetLoggerWithName("tree.regressor")
	logger.Debug("decision tree fitted",
		log.ModelNameKey, "DecisionTreeRegressor",
		log.OperationKey, "fit",
		log.SamplesKey, rows,
		log.FeaturesKey, cols,
		log.TargetsKey, yCols,
		log.TreeDepthKey, root.depth(),
		log.TreeLeavesKey, root.countLeaves(),
		log.DurationMsKey, time.Since(start).Milliseconds(),
	)
	return nil
}

// Predict returns the mean target vector of the leaf reached by each row
// of X as an n×nOutputs matrix.
func (t *DecisionTreeRegressor) Predict(X mat.Matrix) (*mat.Dense, error) {
	const op = "Predict"
	if !t.IsFitted() {
		return nil, errors.NewNotFittedError("DecisionTreeRegressor", op)
	}
	rows, cols := X.Dims()
	if cols != t.nFeatures_ {
		return nil, errors.NewDimensionError(op, t.nFeatures_, cols, 1)
	}

	preds := mat.NewDense(rows, t.nOutputs_, nil)
	row := make([]float64, cols)
	for i := 0; i < rows; i++ {
		mat.Row(row, i, X)
		preds.SetRow(i, t.root.leafFor(row).value)
	}
	return preds, nil
}

// Score returns the coefficient of determination R² of the predictions
// on X against y, averaged over outputs. Unfitted models and shape
// mismatches score 0.
func (t *DecisionTreeRegressor) Score(X, y mat.Matrix) float64 {
	preds, err := t.Predict(X)
	if err != nil {
		return 0
	}
	rows, yCols := y.Dims()
	if yCols != t.nOutputs_ {
		return 0
	}

	var sum float64
	for j := 0; j < t.nOutputs_; j++ {
		yTrue := mat.NewVecDense(rows, nil)
		yPred := mat.NewVecDense(rows, nil)
		for i := 0; i < rows; i++ {
			yTrue.SetVec(i, y.At(i, j))
			yPred.SetVec(i, preds.At(i, j))
		}
		r2, err := metrics.R2Score(yTrue, yPred)
		if err != nil {
			return 0
		}
		sum += r2
	}
	return sum / float64(t.nOutputs_)
}

// GetFeatureImportances returns the normalized impurity-decrease
// importance of each feature. Nil before fitting.
func (t *DecisionTreeRegressor) GetFeatureImportances() []float64 {
	return t.featureImportances_
}

// GetDepth returns the depth of the fitted tree.
func (t *DecisionTreeRegressor) GetDepth() int {
	if t.root == nil {
		return 0
	}
	return t.root.depth()
}

// GetNLeaves returns the number of leaves of the fitted tree.
func (t *DecisionTreeRegressor) GetNLeaves() int {
	if t.root == nil {
		return 0
	}
	return t.root.countLeaves()
}

// GetParams returns the hyperparameters using their scikit-learn names.
func (t *DecisionTreeRegressor) GetParams() map[string]interface{} {
	return t.treeParams.asMap()
}

// SetParams updates hyperparameters from a map of scikit-learn names.
func (t *DecisionTreeRegressor) SetParams(params map[string]interface{}) error {
	return t.treeParams.fromMap(params)
}
