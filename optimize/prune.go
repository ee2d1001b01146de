// Package optimize implements the Optimization Engine (§4.5): Hopcroft
// DFA minimization, unreachable/non-coaccessible pruning, transition
// merging and epsilon-chain reduction, incremental minimization, and the
// shared result cache.
package optimize

import (
	"sort"

	"github.com/coregx/automaton"
)

// PruneUnreachable drops every state not reachable from the initial
// state(s), preserving the language (P8).
func PruneUnreachable(a *automaton.Automaton) (*automaton.Automaton, error) {
	reachable := a.ReachableStates()
	return rebuildRestricted(a, reachable)
}

// PruneNonCoaccessible drops every state that cannot reach a final state,
// preserving the language (P8). Running this before minimization is
// recommended (§4.5.2): fewer states means fewer partition classes.
func PruneNonCoaccessible(a *automaton.Automaton) (*automaton.Automaton, error) {
	coaccessible := a.CoaccessibleStates()
	return rebuildRestricted(a, coaccessible)
}

// Prune applies non-coaccessible pruning then unreachable pruning (the
// order §4.5.2 recommends: "pruning runs before minimization for free
// speedup").
func Prune(a *automaton.Automaton) (*automaton.Automaton, error) {
	step1, err := PruneNonCoaccessible(a)
	if err != nil {
		return nil, err
	}
	return PruneUnreachable(step1)
}

// rebuildRestricted constructs a fresh automaton containing only the
// states in keep, and every transition/initial/final entry that still
// refers entirely to states in keep.
func rebuildRestricted(a *automaton.Automaton, keep map[string]struct{}) (*automaton.Automaton, error) {
	var states []automaton.State
	ids := make([]string, 0, len(keep))
	for id := range keep {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	for _, id := range ids {
		s, _ := a.State(id)
		states = append(states, s)
	}

	var transitions []automaton.Transition
	for _, t := range a.Transitions() {
		_, fromOK := keep[t.From]
		_, toOK := keep[t.To]
		if fromOK && toOK {
			transitions = append(transitions, t)
		}
	}

	var initials, finals []string
	for _, id := range a.InitialStates() {
		if _, ok := keep[id]; ok {
			initials = append(initials, id)
		}
	}
	for _, id := range a.FinalStates() {
		if _, ok := keep[id]; ok {
			finals = append(finals, id)
		}
	}

	switch a.Variant() {
	case automaton.KindDFA:
		if len(initials) != 1 {
			return nil, &automaton.InvalidAutomaton{Reason: "pruning removed the initial state of a DFA"}
		}
		return automaton.BuildDFA(states, a.Alphabet(), transitions, initials[0], finals)
	case automaton.KindNFA:
		return automaton.BuildNFA(states, a.Alphabet(), transitions, initials, finals)
	default:
		return automaton.BuildENFA(states, a.Alphabet(), transitions, initials, finals)
	}
}
