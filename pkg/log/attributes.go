package log

// Model and operation context. These identify the estimator and the
// operation being performed; keys follow a hierarchical naming convention
// ("model.name", "data.samples") for structured filtering.
const (
	// ModelNameKey identifies the type of model.
	// Examples: "DecisionTreeClassifier", "GradientBoostingRegressor".
	ModelNameKey = "model.name"

	// OperationKey names the operation being performed.
	// Standard values: "fit", "predict", "score".
	OperationKey = "ml.operation"

	// ComponentKey identifies the package performing the operation.
	// Examples: "tree", "ensemble", "dataset".
	ComponentKey = "ml.component"
)

// Data shape. These describe the structure of the data being processed.
const (
	// SamplesKey is the number of samples (rows) in the dataset.
	SamplesKey = "data.samples"

	// FeaturesKey is the number of features (columns) in the dataset.
	FeaturesKey = "data.features"

	// TargetsKey is the number of target outputs for supervised learning.
	TargetsKey = "data.targets"

	// ClassesKey is the number of distinct classes for classification.
	ClassesKey = "data.classes"
)

// Training progress and results.
const (
	// DurationMsKey records the execution time of an operation in
	// milliseconds.
	DurationMsKey = "perf.duration_ms"

	// IterationKey is the current boosting iteration.
	IterationKey = "training.iteration"

	// LossKey records a loss value during training or evaluation.
	LossKey = "metrics.loss"

	// AccuracyKey records classification accuracy in [0, 1].
	AccuracyKey = "metrics.accuracy"

	// TreeDepthKey is the depth of a fitted tree.
	TreeDepthKey = "tree.depth"

	// TreeLeavesKey is the number of leaves in a fitted tree.
	TreeLeavesKey = "tree.leaves"
)

// Error context.
const (
	// ErrorTypeKey classifies an error for aggregation.
	ErrorTypeKey = "error.type"
)
