// Package splitter implements the numeric kernel of decision tree induction:
// finding the best split threshold for a single feature.
//
// The tree growth engine (see package tree) selects a node and a feature,
// sorts the node's sample indices by that feature with SortIndicesByFeature,
// and calls one of the FindSplit functions with the resulting order array.
// Each call performs a single left-to-right sweep over the sorted samples,
// moving per-class counts, target sums, or gradient/hessian sums from a
// "right" accumulator into a "left" accumulator one distinct feature value
// at a time, and evaluates a candidate threshold at the midpoint between
// consecutive distinct values.
//
// Every call owns its working buffers and retains no state, so independent
// calls on disjoint nodes or features may run concurrently without
// synchronization.
package splitter
