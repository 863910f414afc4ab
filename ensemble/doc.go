// Package ensemble provides gradient boosting estimators built on the
// Newton-step regression trees from the tree package. Each boosting
// iteration fits a tree to the gradient and hessian of the loss at the
// current predictions and shrinks its contribution by the learning rate.
package ensemble
