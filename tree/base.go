// Package tree implements decision tree estimators: a classifier, a
// regressor, and the gradient tree used by the boosting ensembles. The
// numeric work of scoring candidate splits lives in tree/splitter; this
// package holds the growth engine around it.
package tree

import (
	"math/rand"
	"sort"

	"github.com/yoshoku/rumale/core/parallel"
	"github.com/yoshoku/rumale/tree/splitter"
	"gonum.org/v1/gonum/mat"
)

// splitKernel is the interface between the growth engine and the numeric
// split kernel. One implementation exists per tree variant; the engine
// never inspects labels, targets, or gradients itself.
type splitKernel interface {
	// nodeImpurity scores the undivided node addressed by indices.
	nodeImpurity(indices []int) (float64, error)

	// isHomogeneous reports whether the node's samples are identical for
	// training purposes, so the split search can be skipped entirely.
	isHomogeneous(indices []int) bool

	// findSplit scans one node-local feature column, pre-sorted through
	// order, and returns the best threshold for it.
	findSplit(order []int, column []float64, indices []int, impurity float64) (splitter.SplitRecord, error)

	// leafValue computes the leaf payload for the node.
	leafValue(indices []int) []float64

	// classCounts returns per-class counts for the node, or nil for
	// variants without classes.
	classCounts(indices []int) []int
}

// featureParallelThreshold is the number of candidate features below which
// the per-feature split search stays sequential.
const featureParallelThreshold = 4

// grower builds one tree by recursive partitioning, delegating all
// numeric scoring to its splitKernel.
type grower struct {
	params      treeParams
	kernel      splitKernel
	x           *mat.Dense
	nFeatures   int
	rng         *rand.Rand
	importances []float64
}

func newGrower(x *mat.Dense, kernel splitKernel, params treeParams) *grower {
	_, cols := x.Dims()
	if params.minSamplesSplit < 2 {
		params.minSamplesSplit = 2
	}
	if params.minSamplesLeaf < 1 {
		params.minSamplesLeaf = 1
	}
	return &grower{
		params:      params,
		kernel:      kernel,
		x:           x,
		nFeatures:   cols,
		rng:         rand.New(rand.NewSource(params.randomSeed)),
		importances: make([]float64, cols),
	}
}

// grow builds the tree over all samples and returns the root together
// with the raw (unnormalized) impurity-decrease feature importances.
func (g *grower) grow() (*node, []float64, error) {
	rows, _ := g.x.Dims()
	indices := make([]int, rows)
	for i := range indices {
		indices[i] = i
	}
	root, err := g.buildNode(indices, 0)
	if err != nil {
		return nil, nil, err
	}
	return root, g.importances, nil
}

func (g *grower) buildNode(indices []int, depth int) (*node, error) {
	n := len(indices)
	impurity, err := g.kernel.nodeImpurity(indices)
	if err != nil {
		return nil, err
	}

	nd := &node{samples: n, impurity: impurity}
	if (g.params.maxDepth > 0 && depth >= g.params.maxDepth) ||
		n < g.params.minSamplesSplit ||
		n < 2*g.params.minSamplesLeaf ||
		g.kernel.isHomogeneous(indices) {
		g.makeLeaf(nd, indices)
		return nd, nil
	}

	feature, rec, err := g.findBestSplit(indices, impurity)
	if err != nil {
		return nil, err
	}
	if rec.Gain <= 0 {
		g.makeLeaf(nd, indices)
		return nd, nil
	}

	left, right := g.partition(indices, feature, rec.Threshold)
	if len(left) < g.params.minSamplesLeaf || len(right) < g.params.minSamplesLeaf {
		g.makeLeaf(nd, indices)
		return nd, nil
	}

	nd.splitFeature = feature
	nd.threshold = rec.Threshold
	nd.left, err = g.buildNode(left, depth+1)
	if err != nil {
		return nil, err
	}
	nd.right, err = g.buildNode(right, depth+1)
	if err != nil {
		return nil, err
	}

	decrease := float64(n)*impurity -
		float64(len(left))*rec.LeftImpurity -
		float64(len(right))*rec.RightImpurity
	if decrease == 0 {
		// Gradient kernels report no impurities; credit the split gain.
		decrease = rec.Gain
	}
	g.importances[feature] += decrease
	return nd, nil
}

func (g *grower) makeLeaf(nd *node, indices []int) {
	nd.leaf = true
	nd.value = g.kernel.leafValue(indices)
	nd.classCounts = g.kernel.classCounts(indices)
}

type featureSplit struct {
	rec splitter.SplitRecord
	err error
}

// findBestSplit scans the candidate features, in parallel when there are
// enough of them, and returns the feature with the largest gain. Ties
// keep the candidate scanned first, so results are deterministic for a
// fixed seed.
func (g *grower) findBestSplit(indices []int, impurity float64) (int, splitter.SplitRecord, error) {
	candidates := g.candidateFeatures()
	results := make([]featureSplit, len(candidates))

	parallel.ParallelizeWithThreshold(len(candidates), featureParallelThreshold, func(start, end int) {
		for k := start; k < end; k++ {
			column := make([]float64, len(indices))
			for i, idx := range indices {
				column[i] = g.x.At(idx, candidates[k])
			}
			order := splitter.SortIndicesByFeature(column)
			results[k].rec, results[k].err = g.kernel.findSplit(order, column, indices, impurity)
		}
	})

	best := -1
	for k := range results {
		if results[k].err != nil {
			return 0, splitter.SplitRecord{}, results[k].err
		}
		if best < 0 || results[k].rec.Gain > results[best].rec.Gain {
			best = k
		}
	}
	return candidates[best], results[best].rec, nil
}

// candidateFeatures returns the features examined at the current node.
// With subsampling active, features are drawn without replacement and
// re-sorted so tie-breaking stays ordered by feature index.
func (g *grower) candidateFeatures() []int {
	k := g.params.maxFeatures
	if k <= 0 || k >= g.nFeatures {
		all := make([]int, g.nFeatures)
		for i := range all {
			all[i] = i
		}
		return all
	}
	sampled := g.rng.Perm(g.nFeatures)[:k]
	sort.Ints(sampled)
	return sampled
}

func (g *grower) partition(indices []int, feature int, threshold float64) ([]int, []int) {
	var left, right []int
	for _, idx := range indices {
		if g.x.At(idx, feature) <= threshold {
			left = append(left, idx)
		} else {
			right = append(right, idx)
		}
	}
	return left, right
}

// toDense converts any mat.Matrix into a *mat.Dense without copying when
// it already is one.
func toDense(m mat.Matrix) *mat.Dense {
	if d, ok := m.(*mat.Dense); ok {
		return d
	}
	return mat.DenseCopyOf(m)
}

// normalizeImportances converts raw impurity decreases into importances
// summing to one. A tree with no splits yields all zeros.
func normalizeImportances(raw []float64, nSamples int) []float64 {
	out := make([]float64, len(raw))
	var total float64
	for i, v := range raw {
		out[i] = v / float64(nSamples)
		total += out[i]
	}
	if total > 0 {
		for i := range out {
			out[i] /= total
		}
	}
	return out
}
