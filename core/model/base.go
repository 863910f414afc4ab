// Package model provides the shared estimator plumbing: fitted-state
// tracking embedded by every estimator in the library.
package model

// EstimatorState represents the training state of a model.
type EstimatorState int

const (
	// NotFitted marks a model that has not been trained yet.
	NotFitted EstimatorState = iota
	// Fitted marks a trained model.
	Fitted
)

// BaseEstimator is the common base embedded by all estimators.
type BaseEstimator struct {
	state EstimatorState
}

// IsFitted reports whether the model has been trained.
func (e *BaseEstimator) IsFitted() bool {
	return e.state == Fitted
}

// SetFitted marks the model as trained.
func (e *BaseEstimator) SetFitted() {
	e.state = Fitted
}

// Reset returns the model to its untrained state.
func (e *BaseEstimator) Reset() {
	e.state = NotFitted
}
