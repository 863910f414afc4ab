package splitter

import (
	"github.com/yoshoku/rumale/pkg/errors"
)

// SplitRecord holds the outcome of a best-split search for classification
// and regression trees. When no candidate threshold improves on the whole
// node, Gain is 0, Threshold is the node's single feature value, and
// RightImpurity equals the whole-node impurity.
type SplitRecord struct {
	LeftImpurity  float64
	RightImpurity float64
	Threshold     float64
	Gain          float64
}

// GradientSplit holds the outcome of a best-split search for gradient
// boosted trees, which score splits by second-order loss reduction rather
// than impurity.
type GradientSplit struct {
	Threshold float64
	Gain      float64
}

// validateOrder checks that order is a permutation of [0, n) and that the
// feature column is non-decreasing when read through it. n is the number
// of samples in the node; all per-sample arrays must have length n.
func validateOrder[T Float](op string, order []int, features []T) error {
	n := len(order)
	if n == 0 {
		return errors.NewValueError(op, "empty node: at least one sample is required")
	}
	if len(features) != n {
		return errors.NewDimensionError(op, n, len(features), 0)
	}
	seen := make([]bool, n)
	for _, idx := range order {
		if idx < 0 || idx >= n || seen[idx] {
			return errors.NewValidationError("order", "must be a permutation of sample indices", idx)
		}
		seen[idx] = true
	}
	for i := 1; i < n; i++ {
		if features[order[i]] < features[order[i-1]] {
			return errors.NewValidationError("order", "features must be non-decreasing along order", i)
		}
	}
	return nil
}

// FindSplitClassification scans the node's samples, pre-sorted by one
// feature through order, and returns the split threshold with the largest
// impurity gain under the given criterion (Gini or Entropy; anything else
// resolves to Gini).
//
// wholeImpurity is the impurity of the undivided node, as returned by
// NodeImpurityClassification. Labels must be class ids in [0, nClasses).
func FindSplitClassification[T Float](criterion Criterion, wholeImpurity float64, order []int, features []T, labels []int, nClasses int) (SplitRecord, error) {
	const op = "FindSplitClassification"
	if err := validateOrder(op, order, features); err != nil {
		return SplitRecord{}, err
	}
	if len(labels) != len(order) {
		return SplitRecord{}, errors.NewDimensionError(op, len(order), len(labels), 0)
	}
	if nClasses < 1 {
		return SplitRecord{}, errors.NewValidationError("nClasses", "must be positive", nClasses)
	}
	for _, y := range labels {
		if y < 0 || y >= nClasses {
			return SplitRecord{}, errors.NewValidationError("labels", "class id out of range", y)
		}
	}

	n := len(order)
	rec := SplitRecord{
		RightImpurity: wholeImpurity,
		Threshold:     float64(features[order[0]]),
	}

	// The right accumulator starts as the whole node; samples migrate left
	// one distinct feature value at a time.
	left := make([]int, nClasses)
	right := make([]int, nClasses)
	for _, idx := range order {
		right[labels[idx]]++
	}

	nLeft, nRight := 0, n
	pos := 0
	curr := features[order[0]]
	last := features[order[n-1]]
	for curr != last {
		for pos < n && features[order[pos]] == curr {
			c := labels[order[pos]]
			left[c]++
			right[c]--
			nLeft++
			nRight--
			pos++
		}
		if pos == n {
			break
		}
		next := features[order[pos]]
		lImp := classImpurity(criterion, left, nLeft)
		rImp := classImpurity(criterion, right, nRight)
		gain := wholeImpurity - (float64(nLeft)*lImp+float64(nRight)*rImp)/float64(n)
		if gain > rec.Gain {
			rec.LeftImpurity = lImp
			rec.RightImpurity = rImp
			rec.Threshold = float64((curr + next) / 2)
			rec.Gain = gain
		}
		curr = next
	}
	return rec, nil
}

// FindSplitRegression scans the node's samples, pre-sorted by one feature
// through order, and returns the split threshold with the largest impurity
// gain under the given criterion (MSE or MAE; anything else resolves to
// MSE).
//
// wholeImpurity is the impurity of the undivided node, as returned by
// NodeImpurityRegression. targets is row-major with nOutputs values per
// sample.
func FindSplitRegression[T Float](criterion Criterion, wholeImpurity float64, order []int, features []T, targets []T, nOutputs int) (SplitRecord, error) {
	const op = "FindSplitRegression"
	if err := validateOrder(op, order, features); err != nil {
		return SplitRecord{}, err
	}
	if nOutputs < 1 {
		return SplitRecord{}, errors.NewValidationError("nOutputs", "must be positive", nOutputs)
	}
	if len(targets) != len(order)*nOutputs {
		return SplitRecord{}, errors.NewDimensionError(op, len(order)*nOutputs, len(targets), 0)
	}

	n := len(order)
	rec := SplitRecord{
		RightImpurity: wholeImpurity,
		Threshold:     float64(features[order[0]]),
	}

	lSum := make([]float64, nOutputs)
	rSum := make([]float64, nOutputs)
	for _, idx := range order {
		for j := 0; j < nOutputs; j++ {
			rSum[j] += float64(targets[idx*nOutputs+j])
		}
	}

	lMean := make([]float64, nOutputs)
	rMean := make([]float64, nOutputs)
	nLeft, nRight := 0, n
	pos := 0
	curr := features[order[0]]
	last := features[order[n-1]]
	for curr != last {
		for pos < n && features[order[pos]] == curr {
			idx := order[pos]
			for j := 0; j < nOutputs; j++ {
				y := float64(targets[idx*nOutputs+j])
				lSum[j] += y
				rSum[j] -= y
			}
			nLeft++
			nRight--
			pos++
		}
		if pos == n {
			break
		}
		next := features[order[pos]]
		for j := 0; j < nOutputs; j++ {
			lMean[j] = lSum[j] / float64(nLeft)
			rMean[j] = rSum[j] / float64(nRight)
		}
		lImp := deviationImpurity(criterion, order[:nLeft], targets, nOutputs, lMean)
		rImp := deviationImpurity(criterion, order[nLeft:], targets, nOutputs, rMean)
		gain := wholeImpurity - (float64(nLeft)*lImp+float64(nRight)*rImp)/float64(n)
		if gain > rec.Gain {
			rec.LeftImpurity = lImp
			rec.RightImpurity = rImp
			rec.Threshold = float64((curr + next) / 2)
			rec.Gain = gain
		}
		curr = next
	}
	return rec, nil
}

// FindSplitGradient scans the node's samples, pre-sorted by one feature
// through order, and returns the split threshold with the largest
// second-order loss reduction:
//
//	gain = GL²/(HL+λ) + GR²/(HR+λ) − G²/(H+λ)
//
// where G/H are sumGradient/sumHessian over the whole node and λ is the
// L2 regularization term regLambda.
func FindSplitGradient[T Float](order []int, features, gradients, hessians []T, sumGradient, sumHessian, regLambda float64) (GradientSplit, error) {
	const op = "FindSplitGradient"
	if err := validateOrder(op, order, features); err != nil {
		return GradientSplit{}, err
	}
	if len(gradients) != len(order) {
		return GradientSplit{}, errors.NewDimensionError(op, len(order), len(gradients), 0)
	}
	if len(hessians) != len(order) {
		return GradientSplit{}, errors.NewDimensionError(op, len(order), len(hessians), 0)
	}

	n := len(order)
	wholeScore := sumGradient * sumGradient / (sumHessian + regLambda)

	var lGrad, lHess float64
	pos := 0
	curr := features[order[0]]
	last := features[order[n-1]]
	rec := GradientSplit{Threshold: float64(curr)}
	for curr != last {
		for pos < n && features[order[pos]] == curr {
			idx := order[pos]
			lGrad += float64(gradients[idx])
			lHess += float64(hessians[idx])
			pos++
		}
		if pos == n {
			break
		}
		next := features[order[pos]]
		rGrad := sumGradient - lGrad
		rHess := sumHessian - lHess
		gain := lGrad*lGrad/(lHess+regLambda) + rGrad*rGrad/(rHess+regLambda) - wholeScore
		if gain > rec.Gain {
			rec.Threshold = float64((curr + next) / 2)
			rec.Gain = gain
		}
		curr = next
	}
	return rec, nil
}

// NodeImpurityClassification returns the impurity of a whole node under
// the given criterion (Gini or Entropy; anything else resolves to Gini).
// Labels must be class ids in [0, nClasses).
func NodeImpurityClassification(criterion Criterion, labels []int, nClasses int) (float64, error) {
	const op = "NodeImpurityClassification"
	if len(labels) == 0 {
		return 0, errors.NewValueError(op, "empty node: at least one sample is required")
	}
	if nClasses < 1 {
		return 0, errors.NewValidationError("nClasses", "must be positive", nClasses)
	}
	hist := make([]int, nClasses)
	for _, y := range labels {
		if y < 0 || y >= nClasses {
			return 0, errors.NewValidationError("labels", "class id out of range", y)
		}
		hist[y]++
	}
	return classImpurity(criterion, hist, len(labels)), nil
}

// NodeImpurityRegression returns the impurity of a whole node under the
// given criterion (MSE or MAE; anything else resolves to MSE). targets is
// row-major with nOutputs values per sample.
func NodeImpurityRegression[T Float](criterion Criterion, targets []T, nOutputs int) (float64, error) {
	const op = "NodeImpurityRegression"
	if nOutputs < 1 {
		return 0, errors.NewValidationError("nOutputs", "must be positive", nOutputs)
	}
	if len(targets) == 0 || len(targets)%nOutputs != 0 {
		return 0, errors.NewValueError(op, "targets length must be a positive multiple of nOutputs")
	}
	n := len(targets) / nOutputs
	mean := make([]float64, nOutputs)
	order := make([]int, n)
	for i := 0; i < n; i++ {
		order[i] = i
		for j := 0; j < nOutputs; j++ {
			mean[j] += float64(targets[i*nOutputs+j])
		}
	}
	for j := range mean {
		mean[j] /= float64(n)
	}
	return deviationImpurity(criterion, order, targets, nOutputs, mean), nil
}
