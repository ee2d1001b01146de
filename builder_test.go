package automaton

import "testing"

func TestBuilderBuildsDFA(t *testing.T) {
	b := NewBuilder(KindDFA)
	b.AddState("q0", StateInitial)
	b.AddState("q1", StateFinal)
	b.AddTransition("q0", "a", "q1")
	b.AddTransition("q1", "a", "q1")

	a, err := b.Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	ok, err := Accepts(a, []Symbol{"a", "a"})
	if err != nil {
		t.Fatalf("Accepts: %v", err)
	}
	if !ok {
		t.Error("expected \"aa\" to be accepted")
	}
}

func TestBuilderRejectsDFAWithoutExactlyOneInitial(t *testing.T) {
	b := NewBuilder(KindDFA)
	b.AddState("q0", StateIntermediate)
	if _, err := b.Build(); err == nil {
		t.Fatal("expected Build to reject a DFA builder with zero initial states")
	}
}

func TestBuilderConditionalTransitionCarriesMetadata(t *testing.T) {
	b := NewBuilder(KindNFA)
	b.AddState("q0", StateInitial)
	b.AddState("q1", StateFinal)
	cond := Metadata{"guard": "x>0"}
	act := Metadata{"emit": "token"}
	b.AddConditional("q0", "a", "q1", cond, act)

	a, err := b.Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	found := false
	for _, tr := range a.Transitions() {
		if tr.Kind == TransitionConditional {
			found = true
			if tr.Condition["guard"] != "x>0" || tr.Action["emit"] != "token" {
				t.Errorf("conditional transition lost its metadata: %+v", tr)
			}
		}
	}
	if !found {
		t.Error("expected a conditional transition in the built automaton")
	}
}

func TestBuilderENFAWithEpsilon(t *testing.T) {
	b := NewBuilder(KindENFA)
	b.AddState("e0", StateInitial)
	b.AddState("e1", StateFinal)
	b.AddEpsilon("e0", "e1")

	a, err := b.Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	ok, err := Accepts(a, nil)
	if err != nil {
		t.Fatalf("Accepts: %v", err)
	}
	if !ok {
		t.Error("expected the empty word to be accepted via the epsilon edge")
	}
}
