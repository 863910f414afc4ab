// Package rumale provides decision tree and gradient boosting estimators
// for Go, with a scikit-learn-like API built on gonum matrices.
//
// The core of the library is a criterion-based split search shared by all
// estimators: a single pass over each feature column, sorted ascending,
// that evaluates every boundary between distinct values and keeps the
// threshold with the best impurity decrease or Newton gain.
//
// # Quick Start
//
// Train a classifier on a feature matrix and a column of labels:
//
//	package main
//
//	import (
//	    "fmt"
//	    "log"
//
//	    "github.com/yoshoku/rumale/tree"
//	    "gonum.org/v1/gonum/mat"
//	)
//
//	func main() {
//	    X := mat.NewDense(4, 1, []float64{1, 2, 3, 4})
//	    y := mat.NewDense(4, 1, []float64{0, 0, 1, 1})
//
//	    clf := tree.NewDecisionTreeClassifier(tree.WithMaxDepth(3))
//	    if err := clf.Fit(X, y); err != nil {
//	        log.Fatal(err)
//	    }
//
//	    preds, err := clf.Predict(X)
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//	    fmt.Println(mat.Formatted(preds))
//	}
//
// # Packages
//
//   - tree: decision tree estimators and the split search kernels
//   - ensemble: gradient boosting on Newton-step trees
//   - metrics: accuracy, MSE, MAE and R² scores
//   - dataset: synthetic data generators and .npy file I/O
//   - core/model: shared estimator state
//   - core/parallel: parallel execution helpers
//   - pkg/errors: structured error types
//   - pkg/log: structured logging
package rumale
