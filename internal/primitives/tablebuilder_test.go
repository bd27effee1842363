package primitives

import "testing"

func TestTableBuilderPreservesOrder(t *testing.T) {
	config, err := NewTableBuilder("order", 1).
		State("A", 1).
		State("B", 2).
		State("C", 3).
		AnyStateTransition("any_to_c", 3, 100).
		Transition("a_to_b", 1, 2, 100).
		ReturnPrevious("back", 200).
		FreeEvent("tick", 50, noop).
		Build()
	if err != nil {
		t.Fatal(err)
	}

	names := []string{}
	for _, tr := range config.Transitions {
		names = append(names, tr.Name)
	}
	want := []string{"any_to_c", "a_to_b", "back"}
	for i := range want {
		if names[i] != want[i] {
			t.Fatalf("transition order = %v, want %v", names, want)
		}
	}
	if !config.Transitions[2].ReturnPrevious {
		t.Error("ReturnPrevious flag not set")
	}
	if config.Transitions[0].From != AnyState {
		t.Error("AnyStateTransition source is not the wildcard")
	}
}

func TestTableBuilderInvalid(t *testing.T) {
	_, err := NewTableBuilder("bad", 1).State("B", 2).Build()
	if err == nil {
		t.Fatal("expected error for missing initial state")
	}

	defer func() {
		if recover() == nil {
			t.Error("MustBuild did not panic")
		}
	}()
	NewTableBuilder("bad", 1).State("B", 2).MustBuild()
}

func TestStateOptions(t *testing.T) {
	var entered, exited, rejected bool
	s := NewStateConfig("A", 1,
		WithEnter(func(Context, EventID) Status { entered = true; return StatusOK }),
		WithExit(func(Context, EventID) Status { exited = true; return StatusOK }),
		WithRejected(func(Context, EventID) Status { rejected = true; return StatusOK }),
	)
	s.OnEnter(nil, NoEvent)
	s.OnExit(nil, NoEvent)
	s.OnEventRejected(nil, NoEvent)
	if !entered || !exited || !rejected {
		t.Errorf("callbacks not wired: enter=%v exit=%v rejected=%v", entered, exited, rejected)
	}
	if s.Label() != "A" {
		t.Errorf("Label() = %q", s.Label())
	}
	unnamed := NewStateConfig("", 4)
	if got := unnamed.Label(); got != "state(4)" {
		t.Errorf("Label() = %q, want state(4)", got)
	}
}
