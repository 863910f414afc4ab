package splitter

// IsHomogeneousLabels reports whether every sample carries the same label.
// The growth engine uses this to declare a leaf without paying for a full
// split search. An empty slice is considered homogeneous.
func IsHomogeneousLabels(labels []int) bool {
	if len(labels) == 0 {
		return true
	}
	first := labels[0]
	for _, y := range labels[1:] {
		if y != first {
			return false
		}
	}
	return true
}

// IsHomogeneousTargets reports whether every sample's target vector is
// within machine epsilon of the first sample's, per output dimension.
// targets is row-major with nOutputs values per sample.
func IsHomogeneousTargets[T Float](targets []T, nOutputs int) bool {
	if nOutputs < 1 || len(targets) <= nOutputs {
		return true
	}
	eps := machineEpsilon[T]()
	n := len(targets) / nOutputs
	for i := 1; i < n; i++ {
		for j := 0; j < nOutputs; j++ {
			d := targets[i*nOutputs+j] - targets[j]
			if d < 0 {
				d = -d
			}
			if d > eps {
				return false
			}
		}
	}
	return true
}
