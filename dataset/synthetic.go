package dataset

import (
	"math"
	"math/rand"

	"github.com/yoshoku/rumale/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

// MakeBlobs generates nSamples points in nFeatures dimensions grouped into
// nCenters isotropic Gaussian clusters. It returns the feature matrix and
// an n×1 label matrix with values 0..nCenters-1. Cluster centers are drawn
// uniformly in [-10, 10) and samples are assigned round-robin, so classes
// are balanced up to rounding.
func MakeBlobs(nSamples, nFeatures, nCenters int, stddev float64, seed int64) (*mat.Dense, *mat.Dense, error) {
	const op = "dataset.MakeBlobs"
	if nSamples < 1 || nFeatures < 1 || nCenters < 1 {
		return nil, nil, errors.NewValueError(op, "sample, feature and center counts must be positive")
	}

	rng := rand.New(rand.NewSource(seed))
	centers := make([][]float64, nCenters)
	for c := range centers {
		centers[c] = make([]float64, nFeatures)
		for j := range centers[c] {
			centers[c][j] = rng.Float64()*20.0 - 10.0
		}
	}

	X := mat.NewDense(nSamples, nFeatures, nil)
	y := mat.NewDense(nSamples, 1, nil)
	for i := 0; i < nSamples; i++ {
		c := i % nCenters
		for j := 0; j < nFeatures; j++ {
			X.Set(i, j, centers[c][j]+rng.NormFloat64()*stddev)
		}
		y.Set(i, 0, float64(c))
	}
	return X, y, nil
}

// MakeRegression generates a random linear regression problem with
// Gaussian noise. Targets are X·w plus noise, with weights drawn uniformly
// in [-100, 100).
func MakeRegression(nSamples, nFeatures int, noise float64, seed int64) (*mat.Dense, *mat.Dense, error) {
	const op = "dataset.MakeRegression"
	if nSamples < 1 || nFeatures < 1 {
		return nil, nil, errors.NewValueError(op, "sample and feature counts must be positive")
	}

	rng := rand.New(rand.NewSource(seed))
	weights := make([]float64, nFeatures)
	for j := range weights {
		weights[j] = rng.Float64()*200.0 - 100.0
	}

	X := mat.NewDense(nSamples, nFeatures, nil)
	y := mat.NewDense(nSamples, 1, nil)
	for i := 0; i < nSamples; i++ {
		var target float64
		for j := 0; j < nFeatures; j++ {
			v := rng.NormFloat64()
			X.Set(i, j, v)
			target += v * weights[j]
		}
		y.Set(i, 0, target+rng.NormFloat64()*noise)
	}
	return X, y, nil
}

// MakeMoons generates the classic two interleaving half-circles problem.
// It returns nSamples two-dimensional points and binary labels.
func MakeMoons(nSamples int, noise float64, seed int64) (*mat.Dense, *mat.Dense, error) {
	const op = "dataset.MakeMoons"
	if nSamples < 2 {
		return nil, nil, errors.NewValueError(op, "at least two samples are required")
	}

	rng := rand.New(rand.NewSource(seed))
	nOuter := nSamples / 2
	X := mat.NewDense(nSamples, 2, nil)
	y := mat.NewDense(nSamples, 1, nil)
	for i := 0; i < nSamples; i++ {
		var px, py, label float64
		if i < nOuter {
			theta := math.Pi * float64(i) / float64(nOuter)
			px, py = math.Cos(theta), math.Sin(theta)
		} else {
			theta := math.Pi * float64(i-nOuter) / float64(nSamples-nOuter)
			px, py = 1.0-math.Cos(theta), 0.5-math.Sin(theta)
			label = 1.0
		}
		X.Set(i, 0, px+rng.NormFloat64()*noise)
		X.Set(i, 1, py+rng.NormFloat64()*noise)
		y.Set(i, 0, label)
	}
	return X, y, nil
}
