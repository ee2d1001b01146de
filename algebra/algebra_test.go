package algebra

import (
	"testing"

	"github.com/coregx/automaton"
)

// buildEvenA builds a DFA over {a,b} accepting strings with an even
// number of 'a's.
func buildEvenA(t *testing.T) *automaton.Automaton {
	t.Helper()
	states := []automaton.State{
		{ID: "even", Kind: automaton.StateInitialFinal},
		{ID: "odd", Kind: automaton.StateIntermediate},
	}
	transitions := []automaton.Transition{
		{From: "even", Symbol: "a", To: "odd"},
		{From: "even", Symbol: "b", To: "even"},
		{From: "odd", Symbol: "a", To: "even"},
		{From: "odd", Symbol: "b", To: "odd"},
	}
	a, err := automaton.BuildDFA(states, []automaton.Symbol{"a", "b"}, transitions, "even", []string{"even"})
	if err != nil {
		t.Fatalf("BuildDFA: %v", err)
	}
	return a
}

// buildEndsInA builds a DFA over {a,b} accepting strings ending in 'a'.
func buildEndsInA(t *testing.T) *automaton.Automaton {
	t.Helper()
	states := []automaton.State{
		{ID: "start", Kind: automaton.StateInitial},
		{ID: "seenA", Kind: automaton.StateFinal},
	}
	transitions := []automaton.Transition{
		{From: "start", Symbol: "a", To: "seenA"},
		{From: "start", Symbol: "b", To: "start"},
		{From: "seenA", Symbol: "a", To: "seenA"},
		{From: "seenA", Symbol: "b", To: "start"},
	}
	a, err := automaton.BuildDFA(states, []automaton.Symbol{"a", "b"}, transitions, "start", []string{"seenA"})
	if err != nil {
		t.Fatalf("BuildDFA: %v", err)
	}
	return a
}

func sym(s string) []automaton.Symbol {
	out := make([]automaton.Symbol, len(s))
	for i, r := range s {
		out[i] = automaton.Symbol(string(r))
	}
	return out
}

func TestUnion(t *testing.T) {
	a, b := buildEvenA(t), buildEndsInA(t)
	u, err := Union(a, b)
	if err != nil {
		t.Fatalf("Union: %v", err)
	}
	cases := []struct {
		word string
		want bool
	}{
		{"", true},           // even number of a's (0)
		{"a", true},           // ends in a
		{"aa", true},          // even a's
		{"ab", false},         // odd a's, doesn't end in a
		{"aba", true},         // ends in a
		{"bb", true},          // even a's (0)
	}
	for _, c := range cases {
		got, err := automaton.Accepts(u, sym(c.word))
		if err != nil {
			t.Fatalf("Accepts(%q): %v", c.word, err)
		}
		if got != c.want {
			t.Errorf("Union.Accepts(%q) = %v, want %v", c.word, got, c.want)
		}
	}
}

func TestIntersection(t *testing.T) {
	a, b := buildEvenA(t), buildEndsInA(t)
	in, err := Intersection(a, b)
	if err != nil {
		t.Fatalf("Intersection: %v", err)
	}
	cases := []struct {
		word string
		want bool
	}{
		{"aa", true},   // even a's AND ends in a
		{"a", false},   // odd a's
		{"ab", false},  // doesn't end in a
		{"aab", false}, // doesn't end in a (ends in b)
		{"aaaa", true}, // even a's, ends in a
	}
	for _, c := range cases {
		got, err := automaton.Accepts(in, sym(c.word))
		if err != nil {
			t.Fatalf("Accepts(%q): %v", c.word, err)
		}
		if got != c.want {
			t.Errorf("Intersection.Accepts(%q) = %v, want %v", c.word, got, c.want)
		}
	}
}

// TestUnionDistinctIDsDifferingOnlyByUnderscore guards against sanitize
// collapsing ids like "a_b" and "axb" to the same pair-state id, which
// would make pairState produce a duplicate state id and fail BuildDFA
// even though the two operand automata are perfectly valid.
func TestUnionDistinctIDsDifferingOnlyByUnderscore(t *testing.T) {
	a, err := automaton.BuildDFA(
		[]automaton.State{{ID: "a_b", Kind: automaton.StateInitialFinal}},
		[]automaton.Symbol{"x"}, nil, "a_b", []string{"a_b"})
	if err != nil {
		t.Fatalf("BuildDFA(a): %v", err)
	}
	b, err := automaton.BuildDFA(
		[]automaton.State{{ID: "axb", Kind: automaton.StateInitialFinal}},
		[]automaton.Symbol{"x"}, nil, "axb", []string{"axb"})
	if err != nil {
		t.Fatalf("BuildDFA(b): %v", err)
	}
	if _, err := Union(a, b); err != nil {
		t.Fatalf("Union: %v", err)
	}
}

func TestComplement(t *testing.T) {
	a := buildEvenA(t)
	comp, err := Complement(a)
	if err != nil {
		t.Fatalf("Complement: %v", err)
	}
	words := []string{"", "a", "aa", "ab", "ba", "aaa"}
	for _, w := range words {
		orig, err := automaton.Accepts(a, sym(w))
		if err != nil {
			t.Fatalf("Accepts(original, %q): %v", w, err)
		}
		got, err := automaton.Accepts(comp, sym(w))
		if err != nil {
			t.Fatalf("Accepts(complement, %q): %v", w, err)
		}
		if got == orig {
			t.Errorf("Complement.Accepts(%q) = %v, want %v (negation of original)", w, got, !orig)
		}
	}
}

func TestConcatenate(t *testing.T) {
	// L(a) = {"a"}, L(b) = {"b"} as minimal DFAs; L(a)·L(b) = {"ab"}.
	aStates := []automaton.State{
		{ID: "s0", Kind: automaton.StateInitial},
		{ID: "s1", Kind: automaton.StateFinal},
	}
	a, err := automaton.BuildDFA(aStates, []automaton.Symbol{"a", "b"},
		[]automaton.Transition{{From: "s0", Symbol: "a", To: "s1"}}, "s0", []string{"s1"})
	if err != nil {
		t.Fatalf("BuildDFA(a): %v", err)
	}
	bStates := []automaton.State{
		{ID: "t0", Kind: automaton.StateInitial},
		{ID: "t1", Kind: automaton.StateFinal},
	}
	b, err := automaton.BuildDFA(bStates, []automaton.Symbol{"a", "b"},
		[]automaton.Transition{{From: "t0", Symbol: "b", To: "t1"}}, "t0", []string{"t1"})
	if err != nil {
		t.Fatalf("BuildDFA(b): %v", err)
	}

	cat, err := Concatenate(a, b)
	if err != nil {
		t.Fatalf("Concatenate: %v", err)
	}

	cases := map[string]bool{"ab": true, "a": false, "b": false, "ba": false, "abb": false}
	for w, want := range cases {
		got, err := automaton.Accepts(cat, sym(w))
		if err != nil {
			t.Fatalf("Accepts(%q): %v", w, err)
		}
		if got != want {
			t.Errorf("Concatenate.Accepts(%q) = %v, want %v", w, got, want)
		}
	}
}

func TestStar(t *testing.T) {
	// L(a) = {"ab"}; L(a)* = {"", "ab", "abab", "ababab", ...}.
	states := []automaton.State{
		{ID: "s0", Kind: automaton.StateInitial},
		{ID: "s1", Kind: automaton.StateIntermediate},
		{ID: "s2", Kind: automaton.StateFinal},
	}
	a, err := automaton.BuildDFA(states, []automaton.Symbol{"a", "b"},
		[]automaton.Transition{
			{From: "s0", Symbol: "a", To: "s1"},
			{From: "s1", Symbol: "b", To: "s2"},
		}, "s0", []string{"s2"})
	if err != nil {
		t.Fatalf("BuildDFA: %v", err)
	}

	star, err := Star(a)
	if err != nil {
		t.Fatalf("Star: %v", err)
	}

	cases := map[string]bool{"": true, "ab": true, "abab": true, "a": false, "aba": false, "ababab": true}
	for w, want := range cases {
		got, err := automaton.Accepts(star, sym(w))
		if err != nil {
			t.Fatalf("Accepts(%q): %v", w, err)
		}
		if got != want {
			t.Errorf("Star.Accepts(%q) = %v, want %v", w, got, want)
		}
	}
}
