// Package core defines the interfaces shared by the estimators in this
// library.
package core

import "gonum.org/v1/gonum/mat"

// Estimator is the common surface of supervised models: fit on a feature
// matrix and targets, predict on new rows, and report a quality score
// (accuracy for classifiers, R² for regressors).
type Estimator interface {
	Fit(X, y mat.Matrix) error
	Predict(X mat.Matrix) (*mat.Dense, error)
	Score(X, y mat.Matrix) float64
}

// ParamsManager exposes hyperparameters under their scikit-learn names.
type ParamsManager interface {
	GetParams() map[string]interface{}
	SetParams(params map[string]interface{}) error
}

// FeatureRanker reports per-feature importances normalized to sum to one.
type FeatureRanker interface {
	GetFeatureImportances() []float64
}

// TreeModel exposes the structure of a fitted tree.
type TreeModel interface {
	GetDepth() int
	GetNLeaves() int
}
