package automaton

import "testing"

// buildNFAEndsInAB builds an NFA over {a,b} with a nondeterministic guess
// of where the "ab" suffix starts, accepting strings ending in "ab".
func buildNFAEndsInAB(t *testing.T) *Automaton {
	t.Helper()
	states := []State{
		{ID: "n0", Kind: StateInitial},
		{ID: "n1", Kind: StateIntermediate},
		{ID: "n2", Kind: StateFinal},
	}
	transitions := []Transition{
		{From: "n0", Symbol: "a", To: "n0"},
		{From: "n0", Symbol: "b", To: "n0"},
		{From: "n0", Symbol: "a", To: "n1"},
		{From: "n1", Symbol: "b", To: "n2"},
	}
	a, err := BuildNFA(states, []Symbol{"a", "b"}, transitions, []string{"n0"}, []string{"n2"})
	if err != nil {
		t.Fatalf("BuildNFA: %v", err)
	}
	return a
}

func TestAcceptsNFAWithNondeterministicChoice(t *testing.T) {
	a := buildNFAEndsInAB(t)
	cases := map[string]bool{
		"ab":   true,
		"aab":  true,
		"aba":  false,
		"b":    false,
		"abab": true,
	}
	for w, want := range cases {
		word := make([]Symbol, len(w))
		for i, r := range w {
			word[i] = Symbol(string(r))
		}
		got, err := Accepts(a, word)
		if err != nil {
			t.Fatalf("Accepts(%q): %v", w, err)
		}
		if got != want {
			t.Errorf("Accepts(%q) = %v, want %v", w, got, want)
		}
	}
}

// buildENFAWithCycle builds an epsilon-NFA with an epsilon cycle to make
// sure epsilon-closure computation terminates and is memoized correctly.
func buildENFAWithCycle(t *testing.T) *Automaton {
	t.Helper()
	states := []State{
		{ID: "c0", Kind: StateInitial},
		{ID: "c1", Kind: StateIntermediate},
		{ID: "c2", Kind: StateFinal},
	}
	transitions := []Transition{
		{From: "c0", Kind: TransitionEpsilon, To: "c1"},
		{From: "c1", Kind: TransitionEpsilon, To: "c0"}, // cycle back
		{From: "c1", Symbol: "x", To: "c2"},
	}
	a, err := BuildENFA(states, []Symbol{"x"}, transitions, []string{"c0"}, []string{"c2"})
	if err != nil {
		t.Fatalf("BuildENFA: %v", err)
	}
	return a
}

func TestAcceptsENFAEpsilonCycleTerminates(t *testing.T) {
	a := buildENFAWithCycle(t)
	ok, err := Accepts(a, []Symbol{"x"})
	if err != nil {
		t.Fatalf("Accepts: %v", err)
	}
	if !ok {
		t.Error("expected \"x\" to be accepted by following the epsilon cycle into c1")
	}
	ok, err = Accepts(a, nil)
	if err != nil {
		t.Fatalf("Accepts(empty): %v", err)
	}
	if ok {
		t.Error("empty word should not be accepted: c0/c1 are not final")
	}
}
