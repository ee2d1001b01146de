// Package convert implements the Conversion Engine (§4.4): epsilon-NFA to
// NFA elimination, NFA/epsilon-NFA to DFA subset construction, and the
// trivial DFA to NFA embedding.
package convert

import (
	"fmt"
	"sort"

	"github.com/coregx/automaton"
)

// Stats reports conversion-time counters (§4.4 "every conversion ...
// emits optimization-stats"). Engine carries the lightweight,
// non-authoritative operation counters shared with the optimization and
// balancing engines; conversions populate only StatesVisited since there
// is no cache or partition-refinement step in this package.
type Stats struct {
	SourceStates      int
	SourceTransitions int
	TargetStates      int
	TargetTransitions int
	Engine            automaton.Stats
}

// EpsilonRemove converts an epsilon-NFA to a language-equivalent NFA by
// replacing every (state, symbol) edge with
// epsilon-closure(step(epsilon-closure(state), symbol)), per §4.4. A
// state is final in the result iff its epsilon-closure contains an
// original final state.
func EpsilonRemove(a *automaton.Automaton) (*automaton.Automaton, Stats, error) {
	if a.Variant() != automaton.KindENFA {
		return nil, Stats{}, &automaton.InvalidAutomaton{Reason: "EpsilonRemove requires an epsilon-NFA"}
	}

	closures := make(map[string][]string, len(a.States()))
	for _, id := range a.States() {
		closures[id] = closureSorted(a, id)
	}

	finalSet := make(map[string]bool)
	for _, id := range a.FinalStates() {
		finalSet[id] = true
	}

	var states []automaton.State
	for _, id := range a.States() {
		kind := automaton.StateIntermediate
		isFinal := containsAny(closures[id], finalSet)
		isInitial := a.IsInitial(id)
		switch {
		case isInitial && isFinal:
			kind = automaton.StateInitialFinal
		case isInitial:
			kind = automaton.StateInitial
		case isFinal:
			kind = automaton.StateFinal
		}
		states = append(states, automaton.State{ID: id, Kind: kind})
	}

	var finals []string
	for _, id := range a.States() {
		if containsAny(closures[id], finalSet) {
			finals = append(finals, id)
		}
	}

	// dedupe transitions: closure(step(closure(s),sym)) can legitimately
	// produce the same (from,sym,to) from multiple source members.
	seen := make(map[string]bool)
	var transitions []automaton.Transition
	for _, id := range a.States() {
		for _, sym := range a.Alphabet() {
			targets := make(map[string]bool)
			for _, member := range closures[id] {
				for _, t := range a.TransitionsFrom(member, sym) {
					for _, tgt := range closures[t.To] {
						targets[tgt] = true
					}
				}
			}
			for tgt := range targets {
				key := fmt.Sprintf("%s\x00%s\x00%s", id, sym, tgt)
				if seen[key] {
					continue
				}
				seen[key] = true
				transitions = append(transitions, automaton.Transition{From: id, Symbol: sym, To: tgt, Kind: automaton.TransitionSymbol})
			}
		}
	}

	result, err := automaton.BuildNFA(states, a.Alphabet(), transitions, a.InitialStates(), finals)
	stats := Stats{
		SourceStates:      len(a.States()),
		SourceTransitions: len(a.Transitions()),
		TargetStates:      len(states),
		TargetTransitions: len(transitions),
		Engine:            automaton.Stats{StatesVisited: uint64(len(a.States()))},
	}
	return result, stats, err
}

func closureSorted(a *automaton.Automaton, id string) []string {
	seen := map[string]bool{id: true}
	queue := []string{id}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, t := range a.TransitionsFrom(cur, automaton.Epsilon) {
			if !seen[t.To] {
				seen[t.To] = true
				queue = append(queue, t.To)
			}
		}
	}
	out := make([]string, 0, len(seen))
	for id := range seen {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

func containsAny(ids []string, set map[string]bool) bool {
	for _, id := range ids {
		if set[id] {
			return true
		}
	}
	return false
}
