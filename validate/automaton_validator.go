package validate

import (
	"github.com/coregx/automaton"
)

// AutomatonValidator composes StateValidator and TransitionValidator over
// every state and transition of an Automaton, then checks I1-I6 plus the
// variant-specific rules from §4.2:
//
//   - DFA: duplicate outgoing (state,symbol) pairs -> error; missing
//     outgoing transition for some (state,symbol) -> warning ("non-total DFA").
//   - epsilon-NFA: emits an info with the epsilon-transition count.
//   - Empty final set -> warning ("recognizes no words").
//
// Most of I1-I6 is already enforced at construction time by
// automaton.BuildDFA/BuildNFA/BuildENFA, so on a successfully built
// Automaton these re-checks are normally silent; AutomatonValidator earns
// its keep after transforms (the data-flow's "revalidate" step) where a
// caller wants the full layered report, not just a pass/fail.
type AutomatonValidator struct {
	States      StateValidator
	Transitions TransitionValidator
}

func (v AutomatonValidator) Validate(value any, ctx map[string]any) Result {
	b := NewBuilder()
	a, ok := value.(*automaton.Automaton)
	if !ok {
		b.Error("", "value is not an *Automaton")
		return b.Build()
	}

	for _, id := range a.States() {
		s, _ := a.State(id)
		b.Merge(v.States.Validate(s, ctx))
	}
	for _, t := range a.Transitions() {
		b.Merge(v.Transitions.Validate(t, ctx))
	}

	if len(a.States()) > automaton.MaxStates {
		b.Error("", "state count %d exceeds limit %d", len(a.States()), automaton.MaxStates)
	}
	if len(a.Transitions()) > automaton.MaxTransitions {
		b.Error("", "transition count %d exceeds limit %d", len(a.Transitions()), automaton.MaxTransitions)
	}

	if len(a.FinalStates()) == 0 {
		b.Warning("", "recognizes no words: final state set is empty")
	}

	alphabetUsed := make(map[automaton.Symbol]bool)
	for _, t := range a.Transitions() {
		if !t.IsEpsilon() {
			alphabetUsed[t.Symbol] = true
		}
	}
	for _, sym := range a.Alphabet() {
		if !alphabetUsed[sym] {
			b.Warning("", "alphabet symbol %q is never used by any transition", sym)
		}
	}

	switch a.Variant() {
	case automaton.KindDFA:
		checkDFATotality(b, a)
	case automaton.KindENFA:
		epsCount := 0
		for _, t := range a.Transitions() {
			if t.IsEpsilon() {
				epsCount++
			}
		}
		b.Info("", "automaton has %d epsilon transition(s)", epsCount)
	}

	return b.Build()
}

// checkDFATotality flags (state,symbol) pairs with no outgoing
// transition as a "non-total DFA" warning, and any duplicate as an error
// (unreachable on an automaton built via BuildDFA, which every DFA
// constructor in this module, FromJSON included, goes through; the check
// is kept so the layered report covers it).
func checkDFATotality(b *Builder, a *automaton.Automaton) {
	for _, id := range a.States() {
		seen := make(map[automaton.Symbol]bool, len(a.Alphabet()))
		for _, t := range a.TransitionsFrom(id) {
			if t.IsEpsilon() {
				continue
			}
			if seen[t.Symbol] {
				b.Error(id, "duplicate outgoing transition on symbol %q", t.Symbol)
			}
			seen[t.Symbol] = true
		}
		for _, sym := range a.Alphabet() {
			if !seen[sym] {
				b.Warning(id, "non-total DFA: no transition on symbol %q", sym)
			}
		}
	}
}
