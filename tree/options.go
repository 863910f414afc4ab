package tree

import (
	"github.com/yoshoku/rumale/pkg/errors"
)

// treeParams holds the hyperparameters shared by the tree estimators.
// Estimators embed it, so options apply uniformly.
type treeParams struct {
	criterion       string
	maxDepth        int // <= 0 means unlimited
	minSamplesSplit int
	minSamplesLeaf  int
	maxFeatures     int // <= 0 means all features
	regLambda       float64
	randomSeed      int64
}

// asMap exposes the hyperparameters under their scikit-learn names.
func (p *treeParams) asMap() map[string]interface{} {
	return map[string]interface{}{
		"criterion":         p.criterion,
		"max_depth":         p.maxDepth,
		"min_samples_split": p.minSamplesSplit,
		"min_samples_leaf":  p.minSamplesLeaf,
		"max_features":      p.maxFeatures,
		"reg_lambda":        p.regLambda,
		"random_seed":       p.randomSeed,
	}
}

// fromMap applies hyperparameters given under their scikit-learn names.
// Unknown keys and mistyped values are rejected.
func (p *treeParams) fromMap(params map[string]interface{}) error {
	for key, value := range params {
		switch key {
		case "criterion":
			s, ok := value.(string)
			if !ok {
				return errors.NewValidationError(key, "must be a string", value)
			}
			p.criterion = s
		case "max_depth":
			n, ok := asInt(value)
			if !ok {
				return errors.NewValidationError(key, "must be an integer", value)
			}
			p.maxDepth = n
		case "min_samples_split":
			n, ok := asInt(value)
			if !ok {
				return errors.NewValidationError(key, "must be an integer", value)
			}
			p.minSamplesSplit = n
		case "min_samples_leaf":
			n, ok := asInt(value)
			if !ok {
				return errors.NewValidationError(key, "must be an integer", value)
			}
			p.minSamplesLeaf = n
		case "max_features":
			n, ok := asInt(value)
			if !ok {
				return errors.NewValidationError(key, "must be an integer", value)
			}
			p.maxFeatures = n
		case "reg_lambda":
			f, ok := asFloat(value)
			if !ok {
				return errors.NewValidationError(key, "must be a number", value)
			}
			p.regLambda = f
		case "random_seed":
			n, ok := asInt(value)
			if !ok {
				return errors.NewValidationError(key, "must be an integer", value)
			}
			p.randomSeed = int64(n)
		default:
			return errors.NewValidationError(key, "unknown parameter", value)
		}
	}
	return nil
}

func asInt(value interface{}) (int, bool) {
	switch v := value.(type) {
	case int:
		return v, true
	case int64:
		return int(v), true
	case float64:
		return int(v), true
	default:
		return 0, false
	}
}

func asFloat(value interface{}) (float64, bool) {
	switch v := value.(type) {
	case float64:
		return v, true
	case int:
		return float64(v), true
	default:
		return 0, false
	}
}

// Option configures a tree estimator.
type Option func(*treeParams)

// WithCriterion sets the impurity criterion: "gini" or "entropy" for
// classification, "mse" or "mae" for regression. Unrecognized names fall
// back to the estimator's default.
func WithCriterion(criterion string) Option {
	return func(p *treeParams) {
		p.criterion = criterion
	}
}

// WithMaxDepth limits the depth of the tree. Values at or below zero mean
// no limit.
func WithMaxDepth(depth int) Option {
	return func(p *treeParams) {
		p.maxDepth = depth
	}
}

// WithMinSamplesSplit sets the minimum number of samples a node must hold
// to be considered for splitting.
func WithMinSamplesSplit(n int) Option {
	return func(p *treeParams) {
		p.minSamplesSplit = n
	}
}

// WithMinSamplesLeaf sets the minimum number of samples each child of a
// split must receive.
func WithMinSamplesLeaf(n int) Option {
	return func(p *treeParams) {
		p.minSamplesLeaf = n
	}
}

// WithMaxFeatures sets the number of features sampled without replacement
// at each node. Values at or below zero mean all features.
func WithMaxFeatures(n int) Option {
	return func(p *treeParams) {
		p.maxFeatures = n
	}
}

// WithRegLambda sets the L2 regularization term used by gradient trees.
func WithRegLambda(lambda float64) Option {
	return func(p *treeParams) {
		p.regLambda = lambda
	}
}

// WithRandomSeed seeds the feature subsampling so training is
// reproducible.
func WithRandomSeed(seed int64) Option {
	return func(p *treeParams) {
		p.randomSeed = seed
	}
}
