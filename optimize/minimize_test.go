package optimize

import (
	"errors"
	"testing"

	"github.com/coregx/automaton"
)

// buildExample builds a six-state total DFA over {0,1}: A (initial), B, C,
// D, E (final) and the dead state F. {A,B} and {C,D} each turn out to be
// equivalent, while E and F are already unique.
func buildExample(t *testing.T) *automaton.Automaton {
	t.Helper()
	states := []automaton.State{
		{ID: "A", Kind: automaton.StateInitial},
		{ID: "B", Kind: automaton.StateIntermediate},
		{ID: "C", Kind: automaton.StateIntermediate},
		{ID: "D", Kind: automaton.StateIntermediate},
		{ID: "E", Kind: automaton.StateFinal},
	}
	alphabet := []automaton.Symbol{"0", "1"}
	transitions := []automaton.Transition{
		{From: "A", Symbol: "0", To: "B"},
		{From: "A", Symbol: "1", To: "C"},
		{From: "B", Symbol: "0", To: "A"},
		{From: "B", Symbol: "1", To: "D"},
		{From: "C", Symbol: "0", To: "E"},
		{From: "C", Symbol: "1", To: "F"},
		{From: "D", Symbol: "0", To: "E"},
		{From: "D", Symbol: "1", To: "F"},
		{From: "E", Symbol: "0", To: "E"},
		{From: "E", Symbol: "1", To: "F"},
		{From: "F", Symbol: "0", To: "F"},
		{From: "F", Symbol: "1", To: "F"},
	}
	states = append(states, automaton.State{ID: "F", Kind: automaton.StateIntermediate})
	a, err := automaton.BuildDFA(states, alphabet, transitions, "A", []string{"E"})
	if err != nil {
		t.Fatalf("BuildDFA: %v", err)
	}
	return a
}

func TestMinimizeMergesEquivalentStates(t *testing.T) {
	a := buildExample(t)
	min, _, err := Minimize(a, automaton.Background())
	if err != nil {
		t.Fatalf("Minimize: %v", err)
	}
	// C and D are equivalent (identical transition behavior), and so are A
	// and B (they swap on 0 and go to C/D on 1), so the state count drops
	// from 6 to 4; the point is the state count strictly decreases and
	// acceptance is preserved.
	if len(min.States()) >= len(a.States()) {
		t.Errorf("Minimize did not reduce state count: got %d, input had %d", len(min.States()), len(a.States()))
	}
	assertSameLanguageOnWords(t, a, min, testWords)
}

func TestMinimizeIsIdempotent(t *testing.T) {
	a := buildExample(t)
	once, _, err := Minimize(a, automaton.Background())
	if err != nil {
		t.Fatalf("Minimize: %v", err)
	}
	twice, _, err := Minimize(once, automaton.Background())
	if err != nil {
		t.Fatalf("Minimize (second pass): %v", err)
	}
	if len(once.States()) != len(twice.States()) {
		t.Errorf("minimizing a minimized DFA changed state count: %d vs %d", len(once.States()), len(twice.States()))
	}
	if once.Fingerprint() != twice.Fingerprint() {
		t.Errorf("minimizing a minimized DFA is not a fixed point: fingerprints differ")
	}
}

// TestMinimizeSurfacesOperationTimeout guards against the worklist's
// cancellation check collapsing a deadline's expiry into
// *OperationCancelled instead of the recoverable *OperationTimeout §7
// documents.
func TestMinimizeSurfacesOperationTimeout(t *testing.T) {
	a := buildExample(t)
	tok, cancel := automaton.WithDeadline(0)
	defer cancel()
	<-tok.Done()
	if _, _, err := Minimize(a, tok); !errors.Is(err, automaton.ErrOperationTimeout) {
		t.Fatalf("Minimize with an already-expired deadline = %v, want ErrOperationTimeout", err)
	}
}

func TestMinimizeRejectsNonDFA(t *testing.T) {
	states := []automaton.State{{ID: "A", Kind: automaton.StateInitialFinal}}
	a, err := automaton.BuildNFA(states, nil, nil, []string{"A"}, []string{"A"})
	if err != nil {
		t.Fatalf("BuildNFA: %v", err)
	}
	if _, _, err := Minimize(a, automaton.Background()); err == nil {
		t.Fatal("expected Minimize on an NFA to fail")
	}
}

func TestMinimizeEmptyLanguage(t *testing.T) {
	states := []automaton.State{
		{ID: "A", Kind: automaton.StateInitial},
		{ID: "B", Kind: automaton.StateIntermediate},
	}
	transitions := []automaton.Transition{
		{From: "A", Symbol: "0", To: "B"},
		{From: "B", Symbol: "0", To: "B"},
	}
	a, err := automaton.BuildDFA(states, []automaton.Symbol{"0"}, transitions, "A", nil)
	if err != nil {
		t.Fatalf("BuildDFA: %v", err)
	}
	min, _, err := Minimize(a, automaton.Background())
	if err != nil {
		t.Fatalf("Minimize: %v", err)
	}
	if len(min.FinalStates()) != 0 {
		t.Errorf("minimized empty-language automaton has final states: %v", min.FinalStates())
	}
	if min.InitialState() == "" {
		t.Error("minimized empty-language automaton lost its initial state")
	}
}

var testWords = [][]automaton.Symbol{
	{},
	{"0"},
	{"1"},
	{"0", "0"},
	{"0", "1"},
	{"1", "0"},
	{"1", "1"},
	{"0", "0", "0", "1"},
	{"1", "1", "0", "0", "1"},
}

func assertSameLanguageOnWords(t *testing.T, a, b *automaton.Automaton, words [][]automaton.Symbol) {
	t.Helper()
	for _, w := range words {
		got, err := automaton.Accepts(a, w)
		if err != nil {
			t.Fatalf("Accepts(a, %v): %v", w, err)
		}
		want, err := automaton.Accepts(b, w)
		if err != nil {
			t.Fatalf("Accepts(b, %v): %v", w, err)
		}
		if got != want {
			t.Errorf("word %v: a.Accepts=%v b.Accepts=%v", w, got, want)
		}
	}
}
