package ensemble

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/mat"
)

// TestGradientBoostingRegressor_FitPredict tests boosting on a noiseless
// step function
func TestGradientBoostingRegressor_FitPredict(t *testing.T) {
	X := mat.NewDense(8, 1, []float64{1, 2, 3, 4, 6, 7, 8, 9})
	y := mat.NewDense(8, 1, []float64{0, 0, 0, 0, 10, 10, 10, 10})

	gb := NewGradientBoostingRegressor().
		WithNEstimators(50).
		WithLearningRate(0.3).
		WithMaxDepth(2)

	if err := gb.Fit(X, y); err != nil {
		t.Fatalf("Failed to fit model: %v", err)
	}
	if gb.NTrees() != 50 {
		t.Errorf("Expected 50 trees, got %d", gb.NTrees())
	}

	preds, err := gb.Predict(X)
	if err != nil {
		t.Fatalf("Failed to predict: %v", err)
	}
	for i := 0; i < 8; i++ {
		if math.Abs(preds.At(i, 0)-y.At(i, 0)) > 0.1 {
			t.Errorf("Sample %d: expected near %v, got %v", i, y.At(i, 0), preds.At(i, 0))
		}
	}

	if score := gb.Score(X, y); score < 0.99 {
		t.Errorf("Expected R² near 1 on training data, got %v", score)
	}
}

// TestGradientBoostingRegressor_LossDecreases tests that training loss is
// non-increasing over stages
func TestGradientBoostingRegressor_LossDecreases(t *testing.T) {
	X := mat.NewDense(10, 1, []float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10})
	y := mat.NewDense(10, 1, []float64{1, 4, 9, 16, 25, 36, 49, 64, 81, 100})

	gb := NewGradientBoostingRegressor().
		WithNEstimators(30).
		WithLearningRate(0.5).
		WithMaxDepth(3)
	if err := gb.Fit(X, y); err != nil {
		t.Fatalf("Failed to fit model: %v", err)
	}

	losses := gb.TrainLosses()
	if len(losses) != 30 {
		t.Fatalf("Expected 30 recorded losses, got %d", len(losses))
	}
	for i := 1; i < len(losses); i++ {
		if losses[i] > losses[i-1]+1e-9 {
			t.Errorf("Loss increased at stage %d: %v -> %v", i, losses[i-1], losses[i])
		}
	}
	if losses[len(losses)-1] >= losses[0] {
		t.Errorf("Final loss %v should improve on initial %v", losses[len(losses)-1], losses[0])
	}
}

// TestGradientBoostingRegressor_Subsample tests stochastic boosting
func TestGradientBoostingRegressor_Subsample(t *testing.T) {
	n := 40
	X := mat.NewDense(n, 1, nil)
	y := mat.NewDense(n, 1, nil)
	for i := 0; i < n; i++ {
		X.Set(i, 0, float64(i))
		y.Set(i, 0, 3.0*float64(i)+1.0)
	}

	gb := NewGradientBoostingRegressor().
		WithNEstimators(100).
		WithLearningRate(0.2).
		WithMaxDepth(3).
		WithSubsample(0.5).
		WithRandomState(9)
	if err := gb.Fit(X, y); err != nil {
		t.Fatalf("Failed to fit model: %v", err)
	}

	if score := gb.Score(X, y); score < 0.95 {
		t.Errorf("Expected R² above 0.95 with subsampling, got %v", score)
	}
}

// TestGradientBoostingRegressor_Validation tests hyperparameter and input
// validation
func TestGradientBoostingRegressor_Validation(t *testing.T) {
	X := mat.NewDense(4, 1, []float64{1, 2, 3, 4})
	y := mat.NewDense(4, 1, []float64{1, 2, 3, 4})

	if err := NewGradientBoostingRegressor().WithNEstimators(0).Fit(X, y); err == nil {
		t.Error("Expected error on zero estimators")
	}
	if err := NewGradientBoostingRegressor().WithSubsample(1.5).Fit(X, y); err == nil {
		t.Error("Expected error on subsample above 1")
	}

	yBad := mat.NewDense(3, 1, []float64{1, 2, 3})
	if err := NewGradientBoostingRegressor().Fit(X, yBad); err == nil {
		t.Error("Expected error on row count mismatch")
	}

	gb := NewGradientBoostingRegressor()
	if _, err := gb.Predict(X); err == nil {
		t.Error("Expected error when predicting without fitting")
	}
}

// TestGradientBoostingClassifier_FitPredict tests binary classification
func TestGradientBoostingClassifier_FitPredict(t *testing.T) {
	X := mat.NewDense(8, 2, []float64{
		0, 0,
		0, 1,
		1, 0,
		1, 1,
		5, 5,
		5, 6,
		6, 5,
		6, 6,
	})
	y := mat.NewDense(8, 1, []float64{0, 0, 0, 0, 1, 1, 1, 1})

	gb := NewGradientBoostingClassifier().
		WithNEstimators(20).
		WithLearningRate(0.5).
		WithMaxDepth(2)
	if err := gb.Fit(X, y); err != nil {
		t.Fatalf("Failed to fit model: %v", err)
	}

	preds, err := gb.Predict(X)
	if err != nil {
		t.Fatalf("Failed to predict: %v", err)
	}
	for i := 0; i < 8; i++ {
		if preds.At(i, 0) != y.At(i, 0) {
			t.Errorf("Sample %d: expected %v, got %v", i, y.At(i, 0), preds.At(i, 0))
		}
	}

	if score := gb.Score(X, y); score != 1.0 {
		t.Errorf("Expected perfect accuracy on training data, got %v", score)
	}
}

// TestGradientBoostingClassifier_PredictProba tests probability outputs
func TestGradientBoostingClassifier_PredictProba(t *testing.T) {
	X := mat.NewDense(6, 1, []float64{1, 2, 3, 7, 8, 9})
	y := mat.NewDense(6, 1, []float64{0, 0, 0, 1, 1, 1})

	gb := NewGradientBoostingClassifier().
		WithNEstimators(30).
		WithLearningRate(0.5).
		WithMaxDepth(1)
	if err := gb.Fit(X, y); err != nil {
		t.Fatalf("Failed to fit model: %v", err)
	}

	proba, err := gb.PredictProba(X)
	if err != nil {
		t.Fatalf("Failed to predict probabilities: %v", err)
	}
	rows, cols := proba.Dims()
	if rows != 6 || cols != 2 {
		t.Fatalf("Expected probability shape (6, 2), got (%d, %d)", rows, cols)
	}
	for i := 0; i < rows; i++ {
		p0, p1 := proba.At(i, 0), proba.At(i, 1)
		if p0 < 0 || p0 > 1 || p1 < 0 || p1 > 1 {
			t.Errorf("Sample %d: probabilities out of range: %v, %v", i, p0, p1)
		}
		if math.Abs(p0+p1-1.0) > 1e-9 {
			t.Errorf("Sample %d: probabilities sum to %v", i, p0+p1)
		}
	}

	// Positive-class probability should be low on the left cluster and high
	// on the right one.
	if proba.At(0, 1) >= 0.5 {
		t.Errorf("Left cluster should favor class 0, got p1=%v", proba.At(0, 1))
	}
	if proba.At(5, 1) <= 0.5 {
		t.Errorf("Right cluster should favor class 1, got p1=%v", proba.At(5, 1))
	}
}

// TestGradientBoostingClassifier_LabelValues tests that original label
// values are preserved in predictions
func TestGradientBoostingClassifier_LabelValues(t *testing.T) {
	X := mat.NewDense(6, 1, []float64{1, 2, 3, 7, 8, 9})
	y := mat.NewDense(6, 1, []float64{-1, -1, -1, 1, 1, 1})

	gb := NewGradientBoostingClassifier().
		WithNEstimators(20).
		WithLearningRate(0.5).
		WithMaxDepth(1)
	if err := gb.Fit(X, y); err != nil {
		t.Fatalf("Failed to fit model: %v", err)
	}

	classes := gb.Classes()
	if len(classes) != 2 || classes[0] != -1 || classes[1] != 1 {
		t.Errorf("Expected classes [-1, 1], got %v", classes)
	}

	preds, err := gb.Predict(X)
	if err != nil {
		t.Fatalf("Failed to predict: %v", err)
	}
	for i := 0; i < 6; i++ {
		if preds.At(i, 0) != y.At(i, 0) {
			t.Errorf("Sample %d: expected %v, got %v", i, y.At(i, 0), preds.At(i, 0))
		}
	}
}

// TestGradientBoostingClassifier_Validation tests label validation
func TestGradientBoostingClassifier_Validation(t *testing.T) {
	X := mat.NewDense(4, 1, []float64{1, 2, 3, 4})

	ySingle := mat.NewDense(4, 1, []float64{1, 1, 1, 1})
	if err := NewGradientBoostingClassifier().Fit(X, ySingle); err == nil {
		t.Error("Expected error on single-class labels")
	}

	yThree := mat.NewDense(4, 1, []float64{0, 1, 2, 0})
	if err := NewGradientBoostingClassifier().Fit(X, yThree); err == nil {
		t.Error("Expected error on more than two classes")
	}
}

// TestGradientBoosting_FeatureImportances tests accumulated importances
func TestGradientBoosting_FeatureImportances(t *testing.T) {
	// Feature 0 fully determines the target; feature 1 is constant.
	X := mat.NewDense(8, 2, []float64{
		1, 5,
		2, 5,
		3, 5,
		4, 5,
		6, 5,
		7, 5,
		8, 5,
		9, 5,
	})
	y := mat.NewDense(8, 1, []float64{0, 0, 0, 0, 10, 10, 10, 10})

	gb := NewGradientBoostingRegressor().
		WithNEstimators(10).
		WithLearningRate(0.5).
		WithMaxDepth(2)
	if err := gb.Fit(X, y); err != nil {
		t.Fatalf("Failed to fit model: %v", err)
	}

	imps := gb.GetFeatureImportances()
	if len(imps) != 2 {
		t.Fatalf("Expected 2 importances, got %d", len(imps))
	}
	if imps[0] <= imps[1] {
		t.Errorf("Feature 0 should dominate, got %v", imps)
	}
	sum := imps[0] + imps[1]
	if math.Abs(sum-1.0) > 1e-9 {
		t.Errorf("Importances should sum to 1, got %v", sum)
	}
}
