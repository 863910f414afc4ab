package splitter

import (
	"math"
)

// Float constrains the floating-point widths the kernel operates on.
type Float interface {
	~float32 | ~float64
}

// Criterion selects the impurity function used to score partitions.
// Selection is by name; unrecognized names resolve to the domain default
// (Gini for classification, MSE for regression) rather than failing.
type Criterion string

const (
	// Gini selects the Gini impurity for classification.
	Gini Criterion = "gini"
	// Entropy selects the bounded-log entropy for classification.
	Entropy Criterion = "entropy"
	// MSE selects the mean squared deviation for regression.
	MSE Criterion = "mse"
	// MAE selects the mean absolute deviation for regression.
	MAE Criterion = "mae"
)

// giniImpurity returns 1 - sum((count_c/n)^2) over the class histogram.
func giniImpurity(hist []int, n int) float64 {
	var sq float64
	for _, c := range hist {
		p := float64(c) / float64(n)
		sq += p * p
	}
	return 1.0 - sq
}

// entropyImpurity returns -sum(p_c * ln(p_c + 1)) over the class histogram.
// This bounded-log variant is the library's established behavior; it is
// intentionally not Shannon entropy. Empty classes contribute ln(1) = 0.
func entropyImpurity(hist []int, n int) float64 {
	var e float64
	for _, c := range hist {
		p := float64(c) / float64(n)
		e += p * math.Log(p+1.0)
	}
	return -e
}

// classImpurity scores a class histogram with the given criterion.
// Anything other than Entropy falls back to Gini.
func classImpurity(criterion Criterion, hist []int, n int) float64 {
	if criterion == Entropy {
		return entropyImpurity(hist, n)
	}
	return giniImpurity(hist, n)
}

// deviationImpurity scores the partition addressed by order against its
// mean vector: the mean over samples and output dimensions of the squared
// (MSE) or absolute (MAE) deviation. Anything other than MAE falls back
// to MSE. targets is row-major with nOutputs values per sample.
func deviationImpurity[T Float](criterion Criterion, order []int, targets []T, nOutputs int, mean []float64) float64 {
	isMAE := criterion == MAE
	var sum float64
	for _, idx := range order {
		row := targets[idx*nOutputs : (idx+1)*nOutputs]
		var err float64
		for j, y := range row {
			d := float64(y) - mean[j]
			if isMAE {
				err += math.Abs(d)
			} else {
				err += d * d
			}
		}
		sum += err / float64(nOutputs)
	}
	return sum / float64(len(order))
}

// machineEpsilon returns the distance between 1 and the next representable
// value of T (FLT_EPSILON / DBL_EPSILON depending on the width).
func machineEpsilon[T Float]() T {
	eps := T(1)
	for T(1)+eps/2 != T(1) {
		eps /= 2
	}
	return eps
}
