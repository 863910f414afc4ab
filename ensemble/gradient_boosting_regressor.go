package ensemble

import (
	"math/rand"
	"time"

	"github.com/yoshoku/rumale/core"
	"github.com/yoshoku/rumale/core/model"
	"github.com/yoshoku/rumale/metrics"
	"github.com/yoshoku/rumale/pkg/errors"
	"github.com/yoshoku/rumale/pkg/log"
	"github.com/yoshoku/rumale/tree"
	"gonum.org/v1/gonum/mat"
)

var (
	_ core.Estimator     = (*GradientBoostingRegressor)(nil)
	_ core.FeatureRanker = (*GradientBoostingRegressor)(nil)
)

// GradientBoostingRegressor minimizes squared error by stagewise addition
// of Newton-step trees. Gradients are pred-y and hessians are 1, so each
// leaf holds the regularized mean residual of its samples.
type GradientBoostingRegressor struct {
	model.BaseEstimator

	// Hyperparameters
	NEstimators     int     // Number of boosting stages
	LearningRate    float64 // Shrinkage applied to each tree
	MaxDepth        int     // Maximum depth of each tree
	MinSamplesSplit int     // Minimum samples to attempt a split
	MinSamplesLeaf  int     // Minimum samples in a leaf
	MaxFeatures     int     // Features examined per split, <=0 for all
	RegLambda       float64 // L2 regularization on leaf weights
	Subsample       float64 // Fraction of rows drawn per stage
	RandomState     int64   // Random seed

	// Internal state
	baseScore_ float64
	trees_     []*tree.GradientTreeRegressor
	nFeatures_ int
	trainLoss_ []float64
}

// NewGradientBoostingRegressor creates a regressor with defaults close to
// the usual gradient boosting settings.
func NewGradientBoostingRegressor() *GradientBoostingRegressor {
	return &GradientBoostingRegressor{
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
func (gb *GradientBoostingRegressor) WithNEstimators(n int) *GradientBoostingRegressor {
	gb.NEstimators = n
	return gb
}

// WithLearningRate sets the shrinkage applied to each tree.
func (gb *GradientBoostingRegressor) WithLearningRate(lr float64) *GradientBoostingRegressor {
	gb.LearningRate = lr
	return gb
}

// WithMaxDepth sets the maximum depth of each tree.
func (gb *GradientBoostingRegressor) WithMaxDepth(d int) *GradientBoostingRegressor {
	gb.MaxDepth = d
	return gb
}

// WithMinSamplesLeaf sets the minimum samples in a leaf.
func (gb *GradientBoostingRegressor) WithMinSamplesLeaf(n int) *GradientBoostingRegressor {
	gb.MinSamplesLeaf = n
	return gb
}

// WithMaxFeatures sets the number of features examined per split.
func (gb *GradientBoostingRegressor) WithMaxFeatures(n int) *GradientBoostingRegressor {
	gb.MaxFeatures = n
	return gb
}

// WithRegLambda sets the L2 regularization on leaf weights.
func (gb *GradientBoostingRegressor) WithRegLambda(lambda float64) *GradientBoostingRegressor {
	gb.RegLambda = lambda
	return gb
}

// WithSubsample sets the fraction of rows drawn per stage.
func (gb *GradientBoostingRegressor) WithSubsample(fraction float64) *GradientBoostingRegressor {
	gb.Subsample = fraction
	return gb
}

// WithRandomState sets the random seed.
func (gb *GradientBoostingRegressor) WithRandomState(seed int64) *GradientBoostingRegressor {
	gb.RandomState = seed
	return gb
}

// Fit trains the ensemble on features X (n×d) and targets y (n×1).
func (gb *GradientBoostingRegressor) Fit(X, y mat.Matrix) error {
	const op = "GradientBoostingRegressor.Fit"
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

	targets := make([]float64, rows)
	for i := 0; i < rows; i++ {
		targets[i] = y.At(i, 0)
	}

	var base float64
	for _, v := range targets {
		base += v
	}
	base /= float64(rows)

	preds := make([]float64, rows)
	for i := range preds {
		preds[i] = base
	}

	rng := rand.New(rand.NewSource(gb.RandomState))
	sampler := newRowSampler(rows, gb.Subsample, rng)
	gradients := make([]float64, rows)
	hessians := make([]float64, rows)
	for i := range hessians {
		hessians[i] = 1.0
	}

	logger := log.GetLoggerWithName("ensemble.gbr")
	trees := make([]*tree.GradientTreeRegressor, 0, gb.NEstimators)
	losses := make([]float64, 0, gb.NEstimators)
	for iter := 0; iter < gb.NEstimators; iter++ {
		var loss float64
		for i := range gradients {
			diff := preds[i] - targets[i]
			gradients[i] = diff
			loss += diff * diff
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
		for i := range preds {
			preds[i] += gb.LearningRate * stagePreds.AtVec(i)
		}
		trees = append(trees, stage)

		logger.Debug("boosting stage complete",
			log.ModelNameKey, "GradientBoostingRegressor",
			log.IterationKey, iter,
			log.LossKey, loss,
		)
	}

	gb.baseScore_ = base
	gb.trees_ = trees
	gb.nFeatures_ = cols
	gb.trainLoss_ = losses
	gb.SetFitted()

	logger.Debug("gradient boosting fitted",
		log.ModelNameKey, "GradientBoostingRegressor",
		log.OperationKey, "fit",
		log.SamplesKey, rows,
		log.FeaturesKey, cols,
		log.DurationMsKey, time.Since(start).Milliseconds(),
	)
	return nil
}

// decisionScores returns base score plus the shrunken tree contributions.
func (gb *GradientBoostingRegressor) decisionScores(X mat.Matrix) (*mat.VecDense, error) {
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

// Predict returns the predicted target of each row of X as an n×1 matrix.
func (gb *GradientBoostingRegressor) Predict(X mat.Matrix) (*mat.Dense, error) {
	if !gb.IsFitted() {
		return nil, errors.NewNotFittedError("GradientBoostingRegressor", "Predict")
	}
	scores, err := gb.decisionScores(X)
	if err != nil {
		return nil, err
	}
	rows := scores.Len()
	out := mat.NewDense(rows, 1, nil)
	for i := 0; i < rows; i++ {
		out.Set(i, 0, scores.AtVec(i))
	}
	return out, nil
}

// Score returns the coefficient of determination R² on X against y.
// Errors score 0.
func (gb *GradientBoostingRegressor) Score(X, y mat.Matrix) float64 {
	preds, err := gb.Predict(X)
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
	r2, err := metrics.R2Score(yTrue, yPred)
	if err != nil {
		return 0
	}
	return r2
}

// TrainLosses returns the per-stage training MSE recorded during Fit.
func (gb *GradientBoostingRegressor) TrainLosses() []float64 {
	return gb.trainLoss_
}

// NTrees returns the number of fitted boosting stages.
func (gb *GradientBoostingRegressor) NTrees() int {
	return len(gb.trees_)
}

// GetFeatureImportances returns the gain-based importance of each feature
// accumulated over all stages and normalized to sum to one.
func (gb *GradientBoostingRegressor) GetFeatureImportances() []float64 {
	return sumTreeImportances(gb.trees_, gb.nFeatures_)
}
