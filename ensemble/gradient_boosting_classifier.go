package ensemble

import (
	"math"
	"math/rand"
	"time"

	"github.com/yoshoku/rumale/core"
	"github.com/yoshoku/rumale/core/model"
	"github.com/yoshoku/rumale/pkg/errors"
	"github.com/yoshoku/rumale/pkg/log"
	"github.com/yoshoku/rumale/tree"
	"gonum.org/v1/gonum/mat"
)

var (
	_ core.Estimator     = (*GradientBoostingClassifier)(nil)
	_ core.FeatureRanker = (*GradientBoostingClassifier)(nil)
)

// GradientBoostingClassifier is a binary classifier boosted on logistic
// loss. Trees are fitted to gradients p-y with hessians p(1-p), and the
// base score is the log-odds of the positive class.
type GradientBoostingClassifier struct {
	model.BaseEstimator

	// Hyperparameters
	NEstimators     int
	LearningRate    float64
	MaxDepth        int
	MinSamplesSplit int
	MinSamplesLeaf  int
	MaxFeatures     int
	RegLambda       float64
	Subsample       float64
	RandomState     int64

	// Internal state
	classes_   []float64
	baseScore_ float64
	trees_     []*tree.GradientTreeRegressor
	nFeatures_ int
	trainLoss_ []float64
}

// NewGradientBoostingClassifier creates a classifier with the same
// defaults as the regressor.
func NewGradientBoostingClassifier() *GradientBoostingClassifier {
	return &GradientBoostingClassifier{
		NEstimators:     100,
		LearningRate:    0.1,
		MaxDepth:        3,
		MinSamplesSplit: 2,
		MinSamplesLeaf:  1,
		MaxFeatures:     -1,
		RegLambda:       0.0,
		Subsample:       1.0,
		RandomState:     42,
	}
}

// WithNEstimators sets the number of boosting stages.
func (gb *GradientBoostingClassifier) WithNEstimators(n int) *GradientBoostingClassifier {
	gb.NEstimators = n
	return gb
}

// WithLearningRate sets the shrinkage applied to each tree.
func (gb *GradientBoostingClassifier) WithLearningRate(lr float64) *GradientBoostingClassifier {
	gb.LearningRate = lr
	return gb
}

// WithMaxDepth sets the maximum depth of each tree.
func (gb *GradientBoostingClassifier) WithMaxDepth(d int) *GradientBoostingClassifier {
	gb.MaxDepth = d
	return gb
}

// WithMinSamplesLeaf sets the minimum samples in a leaf.
func (gb *GradientBoostingClassifier) WithMinSamplesLeaf(n int) *GradientBoostingClassifier {
	gb.MinSamplesLeaf = n
	return gb
}

// WithMaxFeatures sets the number of features examined per split.
func (gb *GradientBoostingClassifier) WithMaxFeatures(n int) *GradientBoostingClassifier {
	gb.MaxFeatures = n
	return gb
}

// WithRegLambda sets the L2 regularization on leaf weights.
func (gb *GradientBoostingClassifier) WithRegLambda(lambda float64) *GradientBoostingClassifier {
	gb.RegLambda = lambda
	return gb
}

// WithSubsample sets the fraction of rows drawn per stage.
func (gb *GradientBoostingClassifier) WithSubsample(fraction float64) *GradientBoostingClassifier {
	gb.Subsample = fraction
	return gb
}

// WithRandomState sets the random seed.
func (gb *GradientBoostingClassifier) WithRandomState(seed int64) *GradientBoostingClassifier {
	gb.RandomState = seed
	return gb
}

func sigmoid(x float64) float64 {
	return 1.0 / (1.0 + math.Exp(-x))
}

// Fit trains the ensemble on features X (n×d) and binary labels y (n×1).
// Exactly two distinct label values are required; the larger one is
// treated as the positive class.
func (gb *GradientBoostingClassifier) Fit(X, y mat.Matrix) error {
	const op = "GradientBoostingClassifier.Fit"
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
	if gb.NEstimators < 1 {
		return errors.NewValidationError("n_estimators", "must be positive", gb.NEstimators)
	}
	if gb.Subsample <= 0 || gb.Subsample > 1 {
		return errors.NewValidationError("subsample", "must be in (0, 1]", gb.Subsample)
	}

	classes, binary, err := encodeBinaryLabels(y, rows)
	if err != nil {
		return err
	}

	var nPositive float64
	for _, v := range binary {
		nPositive += v
	}
	if nPositive == 0 || nPositive == float64(rows) {
		return errors.NewValueError(op, "training labels contain a single class")
	}
	base := math.Log(nPositive / (float64(rows) - nPositive))

	scores := make([]float64, rows)
	for i := range scores {
		scores[i] = base
	}

	rng := rand.New(rand.NewSource(gb.RandomState))
	sampler := newRowSampler(rows, gb.Subsample, rng)
	gradients := make([]float64, rows)
	hessians := make([]float64, rows)

	logger := log.GetLoggerWithName("ensemble.gbc")
	trees := make([]*tree.GradientTreeRegressor, 0, gb.NEstimators)
	losses := make([]float64, 0, gb.NEstimators)
	for iter := 0; iter < gb.NEstimators; iter++ {
		var loss float64
		for i := range gradients {
			p := sigmoid(scores[i])
			gradients[i] = p - binary[i]
			hessians[i] = p * (1.0 - p)
			if binary[i] > 0 {
				loss -= math.Log(p + 1e-15)
			} else {
				loss -= math.Log(1.0 - p + 1e-15)
			}
		}
		loss /= float64(rows)
		losses = append(losses, loss)

		stage := tree.NewGradientTreeRegressor(
			tree.WithMaxDepth(gb.MaxDepth),
			tree.WithMinSamplesSplit(gb.MinSamplesSplit),
			tree.WithMinSamplesLeaf(gb.MinSamplesLeaf),
			tree.WithMaxFeatures(gb.MaxFeatures),
			tree.WithRegLambda(gb.RegLambda),
			tree.WithRandomSeed(gb.RandomState+int64(iter)),
		)
		sx, sg, sh := sampler.draw(X, gradients, hessians)
		if err := stage.Fit(sx, sg, sh); err != nil {
			return errors.NewModelError(op, "boosting stage failed", err)
		}

		stagePreds, err := stage.Predict(X)
		if err != nil {
			return errors.NewModelError(op, "boosting stage failed", err)
		}
		for i := range scores {
			scores[i] += gb.LearningRate * stagePreds.AtVec(i)
		}
		trees = append(trees, stage)

		logger.Debug("boosting stage complete",
			log.ModelNameKey, "GradientBoostingClassifier",
			log.IterationKey, iter,
			log.LossKey, loss,
		)
	}

	gb.classes_ = classes
	gb.baseScore_ = base
	gb.trees_ = trees
	gb.nFeatures_ = cols
	gb.trainLoss_ = losses
	gb.SetFitted()

	logger.Debug("gradient boosting fitted",
		log.ModelNameKey, "GradientBoostingClassifier",
		log.OperationKey, "fit",
		log.SamplesKey, rows,
		log.FeaturesKey, cols,
		log.ClassesKey, 2,
		log.DurationMsKey, time.Since(start).Milliseconds(),
	)
	return nil
}

// encodeBinaryLabels maps the two distinct values in y to 0 and 1 in
// ascending order.
func encodeBinaryLabels(y mat.Matrix, rows int) ([]float64, []float64, error) {
	const op = "GradientBoostingClassifier.Fit"
	seen := make(map[float64]bool, 2)
	for i := 0; i < rows; i++ {
		seen[y.At(i, 0)] = true
		if len(seen) > 2 {
			return nil, nil, errors.NewValueError(op, "more than two classes in training labels")
		}
	}
	if len(seen) != 2 {
		return nil, nil, errors.NewValueError(op, "training labels contain a single class")
	}

	classes := make([]float64, 0, 2)
	for v := range seen {
		classes = append(classes, v)
	}
	if classes[0] > classes[1] {
		classes[0], classes[1] = classes[1], classes[0]
	}

	binary := make([]float64, rows)
	for i := 0; i < rows; i++ {
		if y.At(i, 0) == classes[1] {
			binary[i] = 1.0
		}
	}
	return classes, binary, nil
}

func (gb *GradientBoostingClassifier) decisionScores(X mat.Matrix) (*mat.VecDense, error) {
	rows, cols := X.Dims()
	if cols != gb.nFeatures_ {
		return nil, errors.NewDimensionError("Predict", gb.nFeatures_, cols, 1)
	}

	scores := mat.NewVecDense(rows, nil)
	for i := 0; i < rows; i++ {
		scores.SetVec(i, gb.baseScore_)
	}
	for _, stage := range gb.trees_ {
		stagePreds, err := stage.Predict(X)
		if err != nil {
			return nil, err
		}
		scores.AddScaledVec(scores, gb.LearningRate, stagePreds)
	}
	return scores, nil
}

// DecisionFunction returns the raw log-odds score of each row of X.
func (gb *GradientBoostingClassifier) DecisionFunction(X mat.Matrix) (*mat.VecDense, error) {
	if !gb.IsFitted() {
		return nil, errors.NewNotFittedError("GradientBoostingClassifier", "DecisionFunction")
	}
	return gb.decisionScores(X)
}

// PredictProba returns an n×2 matrix of class membership probabilities in
// ascending class order.
func (gb *GradientBoostingClassifier) PredictProba(X mat.Matrix) (*mat.Dense, error) {
	if !gb.IsFitted() {
		return nil, errors.NewNotFittedError("GradientBoostingClassifier", "PredictProba")
	}
	scores, err := gb.decisionScores(X)
	if err != nil {
		return nil, err
	}
	rows := scores.Len()
	proba := mat.NewDense(rows, 2, nil)
	for i := 0; i < rows; i++ {
		p := sigmoid(scores.AtVec(i))
		proba.Set(i, 0, 1.0-p)
		proba.Set(i, 1, p)
	}
	return proba, nil
}

// Predict returns the predicted class label of each row of X as an n×1
// matrix.
func (gb *GradientBoostingClassifier) Predict(X mat.Matrix) (*mat.Dense, error) {
	if !gb.IsFitted() {
		return nil, errors.NewNotFittedError("GradientBoostingClassifier", "Predict")
	}
	scores, err := gb.decisionScores(X)
	if err != nil {
		return nil, err
	}
	rows := scores.Len()
	out := mat.NewDense(rows, 1, nil)
	for i := 0; i < rows; i++ {
		if scores.AtVec(i) > 0 {
			out.Set(i, 0, gb.classes_[1])
		} else {
			out.Set(i, 0, gb.classes_[0])
		}
	}
	return out, nil
}

// Score returns the mean accuracy on X against y. Errors score 0.
func (gb *GradientBoostingClassifier) Score(X, y mat.Matrix) float64 {
	preds, err := gb.Predict(X)
	if err != nil {
		return 0
	}
	rows, _ := y.Dims()
	var correct float64
	for i := 0; i < rows; i++ {
		if preds.At(i, 0) == y.At(i, 0) {
			correct++
		}
	}
	return correct / float64(rows)
}

// Classes returns the two label values in ascending order.
func (gb *GradientBoostingClassifier) Classes() []float64 {
	return gb.classes_
}

// TrainLosses returns the per-stage training log loss recorded during Fit.
func (gb *GradientBoostingClassifier) TrainLosses() []float64 {
	return gb.trainLoss_
}

// NTrees returns the number of fitted boosting stages.
func (gb *GradientBoostingClassifier) NTrees() int {
	return len(gb.trees_)
}

// GetFeatureImportances returns the gain-based importance of each feature
// accumulated over all stages and normalized to sum to one.
func (gb *GradientBoostingClassifier) GetFeatureImportances() []float64 {
	return sumTreeImportances(gb.trees_, gb.nFeatures_)
}
