package optimize

import (
	"github.com/coregx/automaton"
)

// MergeTransitions collapses transitions with identical (source, symbol,
// target) into one, per §4.5.3. NFA/epsilon-NFA transitions are already
// set-valued, so this only matters when an automaton was assembled (e.g.
// via JSON deserialization or Builder calls) with accidental duplicates.
func MergeTransitions(a *automaton.Automaton) (*automaton.Automaton, error) {
	seen := make(map[string]bool, len(a.Transitions()))
	var kept []automaton.Transition
	for _, t := range a.Transitions() {
		key := t.From + "\x00" + string(t.Symbol) + "\x00" + t.To
		if seen[key] {
			continue
		}
		seen[key] = true
		kept = append(kept, t)
	}
	return rebuild(a, kept)
}

// ReduceEpsilonChains flattens epsilon chains in an epsilon-NFA:
// s -eps-> t -eps-> u becomes s -eps-> u directly (the epsilon relation's
// transitive closure), so a later epsilon-closure computation does fewer
// BFS hops per query. This only ever adds direct copies of existing
// epsilon reachability; it never changes which states are in any state's
// epsilon-closure, so finality and language are unaffected (the "never
// cross a final boundary" requirement of §4.5.3 is satisfied by
// construction, not by a separate check).
func ReduceEpsilonChains(a *automaton.Automaton) (*automaton.Automaton, error) {
	if a.Variant() != automaton.KindENFA {
		return a, nil
	}

	closure := make(map[string]map[string]bool, len(a.States()))
	for _, id := range a.States() {
		seen := map[string]bool{}
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
		closure[id] = seen
	}

	var rebuilt []automaton.Transition
	for _, t := range a.Transitions() {
		if !t.IsEpsilon() {
			rebuilt = append(rebuilt, t)
		}
	}
	for _, id := range a.States() {
		for target := range closure[id] {
			rebuilt = append(rebuilt, automaton.Transition{From: id, To: target, Kind: automaton.TransitionEpsilon})
		}
	}

	out, err := rebuild(a, rebuilt)
	if err != nil {
		return nil, err
	}
	return MergeTransitions(out)
}

// rebuild constructs a fresh automaton with the same states/alphabet/
// initial/final sets as a but with transitions replaced by ts.
func rebuild(a *automaton.Automaton, ts []automaton.Transition) (*automaton.Automaton, error) {
	var states []automaton.State
	for _, id := range a.States() {
		s, _ := a.State(id)
		states = append(states, s)
	}
	switch a.Variant() {
	case automaton.KindDFA:
		return automaton.BuildDFA(states, a.Alphabet(), ts, a.InitialState(), a.FinalStates())
	case automaton.KindNFA:
		return automaton.BuildNFA(states, a.Alphabet(), ts, a.InitialStates(), a.FinalStates())
	default:
		return automaton.BuildENFA(states, a.Alphabet(), ts, a.InitialStates(), a.FinalStates())
	}
}
