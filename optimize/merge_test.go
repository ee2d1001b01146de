package optimize

import (
	"testing"

	"github.com/coregx/automaton"
)

func TestMergeTransitionsDedupes(t *testing.T) {
	states := []automaton.State{
		{ID: "A", Kind: automaton.StateInitialFinal},
		{ID: "B", Kind: automaton.StateIntermediate},
	}
	transitions := []automaton.Transition{
		{From: "A", Symbol: "0", To: "B"},
		{From: "A", Symbol: "0", To: "B"}, // exact duplicate
	}
	a, err := automaton.BuildNFA(states, []automaton.Symbol{"0"}, transitions, []string{"A"}, []string{"A"})
	if err != nil {
		t.Fatalf("BuildNFA: %v", err)
	}
	merged, err := MergeTransitions(a)
	if err != nil {
		t.Fatalf("MergeTransitions: %v", err)
	}
	if len(merged.Transitions()) != 1 {
		t.Errorf("expected 1 transition after merge, got %d", len(merged.Transitions()))
	}
}

func TestReduceEpsilonChainsPreservesLanguage(t *testing.T) {
	states := []automaton.State{
		{ID: "A", Kind: automaton.StateInitial},
		{ID: "B", Kind: automaton.StateIntermediate},
		{ID: "C", Kind: automaton.StateFinal},
	}
	transitions := []automaton.Transition{
		{From: "A", Kind: automaton.TransitionEpsilon, To: "B"},
		{From: "B", Kind: automaton.TransitionEpsilon, To: "C"},
	}
	a, err := automaton.BuildENFA(states, nil, transitions, []string{"A"}, []string{"C"})
	if err != nil {
		t.Fatalf("BuildENFA: %v", err)
	}
	reduced, err := ReduceEpsilonChains(a)
	if err != nil {
		t.Fatalf("ReduceEpsilonChains: %v", err)
	}

	foundDirect := false
	for _, tr := range reduced.TransitionsFrom("A", automaton.Epsilon) {
		if tr.To == "C" {
			foundDirect = true
		}
	}
	if !foundDirect {
		t.Error("expected a direct A -eps-> C edge after chain reduction")
	}

	empty := []automaton.Symbol{}
	got, err := automaton.Accepts(a, empty)
	if err != nil {
		t.Fatalf("Accepts(original): %v", err)
	}
	want, err := automaton.Accepts(reduced, empty)
	if err != nil {
		t.Fatalf("Accepts(reduced): %v", err)
	}
	if got != want {
		t.Errorf("epsilon reduction changed acceptance of empty word: got %v want %v", want, got)
	}
}

func TestReduceEpsilonChainsNoopOnNonENFA(t *testing.T) {
	states := []automaton.State{{ID: "A", Kind: automaton.StateInitialFinal}}
	a, err := automaton.BuildDFA(states, nil, nil, "A", []string{"A"})
	if err != nil {
		t.Fatalf("BuildDFA: %v", err)
	}
	out, err := ReduceEpsilonChains(a)
	if err != nil {
		t.Fatalf("ReduceEpsilonChains: %v", err)
	}
	if out.Fingerprint() != a.Fingerprint() {
		t.Error("ReduceEpsilonChains should be a no-op on a DFA")
	}
}
