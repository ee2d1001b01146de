package automaton

import "testing"

func TestSymbolIndexRoundTrips(t *testing.T) {
	states := []State{{ID: "q0", Kind: StateInitialFinal}}
	a, err := BuildDFA(states, []Symbol{"b", "a", "c"}, nil, "q0", []string{"q0"})
	if err != nil {
		t.Fatalf("BuildDFA: %v", err)
	}
	idx := NewSymbolIndex(a)
	if idx.Len() != 3 {
		t.Fatalf("Len() = %d, want 3", idx.Len())
	}
	for i := 0; i < idx.Len(); i++ {
		sym := idx.Symbol(i)
		got, ok := idx.Index(sym)
		if !ok || got != i {
			t.Errorf("Index(Symbol(%d)) = (%d, %v), want (%d, true)", i, got, ok, i)
		}
	}
	if _, ok := idx.Index("z"); ok {
		t.Error("Index should report false for a symbol outside the alphabet")
	}
}
