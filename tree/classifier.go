package tree

import (
	"sort"
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
	_ core.Estimator     = (*DecisionTreeClassifier)(nil)
	_ core.ParamsManager = (*DecisionTreeClassifier)(nil)
	_ core.FeatureRanker = (*DecisionTreeClassifier)(nil)
	_ core.TreeModel     = (*DecisionTreeClassifier)(nil)
)

// DecisionTreeClassifier is a CART-style classifier with a
// scikit-learn-compatible API. Splits are scored with the Gini or
// bounded-log entropy criterion.
type DecisionTreeClassifier struct {
	model.BaseEstimator
	treeParams

	root                *node
	classes_            []float64
	nClasses_           int
	nFeatures_          int
	featureImportances_ []float64
}

// NewDecisionTreeClassifier creates a classifier with the given options.
// Defaults: criterion "gini", unlimited depth, min_samples_split 2,
// min_samples_leaf 1, all features considered.
func NewDecisionTreeClassifier(opts ...Option) *DecisionTreeClassifier {
	t := &DecisionTreeClassifier{
		treeParams: treeParams{
			criterion:       string(splitter.Gini),
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

// classifierKernel adapts the classification split kernel to the growth
// engine. Labels are kept as encoded class ids over all samples; node
// views are gathered per call so the kernel only ever sees locally owned
// buffers.
type classifierKernel struct {
	criterion splitter.Criterion
	labels    []int
	nClasses  int
}

func (k *classifierKernel) gather(indices []int) []int {
	lab := make([]int, len(indices))
	for i, idx := range indices {
		lab[i] = k.labels[idx]
	}
	return lab
}

func (k *classifierKernel) nodeImpurity(indices []int) (float64, error) {
	return splitter.NodeImpurityClassification(k.criterion, k.gather(indices), k.nClasses)
}

func (k *classifierKernel) isHomogeneous(indices []int) bool {
	return splitter.IsHomogeneousLabels(k.gather(indices))
}

func (k *classifierKernel) findSplit(order []int, column []float64, indices []int, impurity float64) (splitter.SplitRecord, error) {
	return splitter.FindSplitClassification(k.criterion, impurity, order, column, k.gather(indices), k.nClasses)
}

func (k *classifierKernel) leafValue(indices []int) []float64 {
	probs := make([]float64, k.nClasses)
	for _, idx := range indices {
		probs[k.labels[idx]]++
	}
	for c := range probs {
		probs[c] /= float64(len(indices))
	}
	return probs
}

func (k *classifierKernel) classCounts(indices []int) []int {
	counts := make([]int, k.nClasses)
	for _, idx := range indices {
		counts[k.labels[idx]]++
	}
	return counts
}

// Fit builds the tree from features X (n×d) and labels y (n×1).
func (t *DecisionTreeClassifier) Fit(X, y mat.Matrix) error {
	const op = "DecisionTreeClassifier.Fit"
	start := time.Now()

	rows, cols := X.Dims()
	yRows, yCols := y.Dims()
	if rows == 0 {
		return errors.NewValueError(op, "empty training data")
	}
	if yRows != rows {
		return errors.NewDimensionError(op, rows, yRows, 0)
	}
	if yCols != 1 {
		return errors.NewDimensionError(op, 1, yCols, 1)
	}

	xDense := toDense(X)

	// encode labels as dense class ids, classes sorted ascending
	classes, labels := encodeLabels(y, rows)

	kernel := &classifierKernel{
		criterion: splitter.Criterion(t.criterion),
		labels:    labels,
		nClasses:  len(classes),
	}
	root, rawImportances, err := newGrower(xDense, kernel, t.treeParams).grow()
	if err != nil {
		return err
	}

	t.root = root
	t.classes_ = classes
	t.nClasses_ = len(classes)
	t.nFeatures_ = cols
	t.featureImportances_ = normalizeImportances(rawImportances, rows)
	t.SetFitted()

	logger := log.GetLoggerWithName("tree.classifier")
	logger.Debug("decision tree fitted",
		log.ModelNameKey, "DecisionTreeClassifier",
		log.OperationKey, "fit",
		log.SamplesKey, rows,
		log.FeaturesKey, cols,
		log.ClassesKey, t.nClasses_,
		log.TreeDepthKey, root.depth(),
		log.TreeLeavesKey, root.countLeaves(),
		log.DurationMsKey, time.Since(start).Milliseconds(),
	)
	return nil
}

// Predict returns the most probable class value for each row of X as an
// n×1 matrix.
func (t *DecisionTreeClassifier) Predict(X mat.Matrix) (*mat.Dense, error) {
	const op = "Predict"
	if !t.IsFitted() {
		return nil, errors.NewNotFittedError("DecisionTreeClassifier", op)
	}
	rows, cols := X.Dims()
	if cols != t.nFeatures_ {
		return nil, errors.NewDimensionError(op, t.nFeatures_, cols, 1)
	}

	preds := mat.NewDense(rows, 1, nil)
	row := make([]float64, cols)
	for i := 0; i < rows; i++ {
		mat.Row(row, i, X)
		leaf := t.root.leafFor(row)
		best := 0
		for c, p := range leaf.value {
			if p > leaf.value[best] {
				best = c
			}
		}
		preds.Set(i, 0, t.classes_[best])
	}
	return preds, nil
}

// PredictProba returns class membership probabilities for each row of X
// as an n×nClasses matrix; columns follow the ascending class order.
func (t *DecisionTreeClassifier) PredictProba(X mat.Matrix) (*mat.Dense, error) {
	const op = "PredictProba"
	if !t.IsFitted() {
		return nil, errors.NewNotFittedError("DecisionTreeClassifier", op)
	}
	rows, cols := X.Dims()
	if cols != t.nFeatures_ {
		return nil, errors.NewDimensionError(op, t.nFeatures_, cols, 1)
	}

	probas := mat.NewDense(rows, t.nClasses_, nil)
	row := make([]float64, cols)
	for i := 0; i < rows; i++ {
		mat.Row(row, i, X)
		probas.SetRow(i, t.root.leafFor(row).value)
	}
	return probas, nil
}

// Score returns the mean accuracy of the predictions on X against y.
// Unfitted models and shape mismatches score 0.
func (t *DecisionTreeClassifier) Score(X, y mat.Matrix) float64 {
	preds, err := t.Predict(X)
	if err != nil {
		return 0
	}
	rows, _ := y.Dims()
	yTrue := mat.NewVecDense(rows, nil)
	yPred := mat.NewVecDense(rows, nil)
	for i := 0; i < rows; i++ {
		yTrue.SetVec(i, y.At(i, 0))
		yPred.SetVec(i, preds.At(i, 0))
	}
	acc, err := metrics.AccuracyScore(yTrue, yPred)
	if err != nil {
		return 0
	}
	return acc
}

// GetFeatureImportances returns the normalized impurity-decrease
// importance of each feature. Nil before fitting.
func (t *DecisionTreeClassifier) GetFeatureImportances() []float64 {
	return t.featureImportances_
}

// GetDepth returns the depth of the fitted tree.
func (t *DecisionTreeClassifier) GetDepth() int {
	if t.root == nil {
		return 0
	}
	return t.root.depth()
}

// GetNLeaves returns the number of leaves of the fitted tree.
func (t *DecisionTreeClassifier) GetNLeaves() int {
	if t.root == nil {
		return 0
	}
	return t.root.countLeaves()
}

// GetParams returns the hyperparameters using their scikit-learn names.
func (t *DecisionTreeClassifier) GetParams() map[string]interface{} {
	return t.treeParams.asMap()
}

// SetParams updates hyperparameters from a map of scikit-learn names, as
// returned by GetParams.
func (t *DecisionTreeClassifier) SetParams(params map[string]interface{}) error {
	return t.treeParams.fromMap(params)
}

// encodeLabels maps the raw label column onto dense ids 0..k-1 with the
// distinct class values sorted ascending.
func encodeLabels(y mat.Matrix, rows int) ([]float64, []int) {
	seen := map[float64]bool{}
	var classes []float64
	for i := 0; i < rows; i++ {
		v := y.At(i, 0)
		if !seen[v] {
			seen[v] = true
			classes = append(classes, v)
		}
	}
	sort.Float64s(classes)
	id := make(map[float64]int, len(classes))
	for c, v := range classes {
		id[v] = c
	}
	labels := make([]int, rows)
	for i := 0; i < rows; i++ {
		labels[i] = id[y.At(i, 0)]
	}
	return classes, labels
}
