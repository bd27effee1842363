package primitives

import "testing"

func TestComputeVersion(t *testing.T) {
	a := validTable()
	b := validTable()
	if ComputeVersion(&a) != ComputeVersion(&b) {
		t.Error("equal tables must have equal versions")
	}
	if len(ComputeVersion(&a)) != 16 {
		t.Errorf("version %q, want 16 hex chars", ComputeVersion(&a))
	}

	b.Transitions[0].To = 1
	if ComputeVersion(&a) == ComputeVersion(&b) {
		t.Error("different tables must have different versions")
	}

	b.Version = "v2"
	if ComputeVersion(&b) != "v2" {
		t.Errorf("explicit version ignored: %q", ComputeVersion(&b))
	}
}
