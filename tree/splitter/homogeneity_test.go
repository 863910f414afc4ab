package splitter

import "testing"

func TestIsHomogeneousLabels(t *testing.T) {
	cases := []struct {
		name   string
		labels []int
		want   bool
	}{
		{"empty", []int{}, true},
		{"single", []int{3}, true},
		{"uniform", []int{1, 1, 1, 1}, true},
		{"mixed", []int{1, 1, 2, 1}, false},
	}

	for _, tc := range cases {
		if got := IsHomogeneousLabels(tc.labels); got != tc.want {
			t.Errorf("%s: expected %v, got %v", tc.name, tc.want, got)
		}
	}
}

func TestIsHomogeneousTargets(t *testing.T) {
	if !IsHomogeneousTargets([]float64{2.5}, 1) {
		t.Error("Single sample should be homogeneous")
	}
	if !IsHomogeneousTargets([]float64{1, 2, 1, 2, 1, 2}, 2) {
		t.Error("Identical rows should be homogeneous")
	}
	if IsHomogeneousTargets([]float64{1, 2, 1, 3}, 2) {
		t.Error("Differing rows should not be homogeneous")
	}
	// Differences below machine epsilon count as identical.
	if !IsHomogeneousTargets([]float64{1, 1 + 1e-17}, 1) {
		t.Error("Sub-epsilon difference should be homogeneous")
	}
	if IsHomogeneousTargets([]float64{1, 1 + 1e-8}, 1) {
		t.Error("Difference above float64 epsilon should not be homogeneous")
	}
}

// The epsilon threshold follows the width of the instantiating type, so a
// difference invisible to float32 is still visible to float64.
func TestIsHomogeneousTargets_Float32(t *testing.T) {
	if !IsHomogeneousTargets([]float32{1, 1 + 1e-8}, 1) {
		t.Error("Sub-epsilon difference should be homogeneous in float32")
	}
	if IsHomogeneousTargets([]float32{1, 1.001}, 1) {
		t.Error("Visible difference should not be homogeneous in float32")
	}
}

func TestMachineEpsilon(t *testing.T) {
	if eps := machineEpsilon[float64](); eps != 2.220446049250313e-16 {
		t.Errorf("Unexpected float64 epsilon: %v", eps)
	}
	if eps := machineEpsilon[float32](); eps != 1.1920929e-7 {
		t.Errorf("Unexpected float32 epsilon: %v", eps)
	}
}
