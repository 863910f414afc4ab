package tree

// node is a single node of a fitted decision tree. Leaf payloads are kept
// in value: class probabilities for classifiers, mean target vectors for
// regressors, and a single leaf weight for gradient trees.
type node struct {
	left  *node
	right *node

	splitFeature int
	threshold    float64

	impurity float64
	samples  int
	leaf     bool

	value       []float64
	classCounts []int
}

// leafFor walks the tree for one sample row and returns the leaf reached.
// Samples with a feature value at or below a node's threshold go left.
func (n *node) leafFor(row []float64) *node {
	for !n.leaf {
		if row[n.splitFeature] <= n.threshold {
			n = n.left
		} else {
			n = n.right
		}
	}
	return n
}

// depth returns the depth of the subtree rooted at n; a lone leaf has
// depth 0.
func (n *node) depth() int {
	if n == nil || n.leaf {
		return 0
	}
	l := n.left.depth()
	r := n.right.depth()
	if l > r {
		return l + 1
	}
	return r + 1
}

// countLeaves returns the number of leaves in the subtree rooted at n.
func (n *node) countLeaves() int {
	if n == nil {
		return 0
	}
	if n.leaf {
		return 1
	}
	return n.left.countLeaves() + n.right.countLeaves()
}
