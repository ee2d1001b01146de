package balance

import (
	"sort"

	"github.com/coregx/automaton"
)

// Result is what a BalancingStrategy produces: the rebalanced automaton
// plus the metrics computed on it, so callers can see the improvement
// without a second Compute call. Stats carries the Engine's lightweight
// operation counters (states visited, cache hits/misses); strategies
// leave it zero-valued and the Engine fills it in.
type Result struct {
	Automaton *automaton.Automaton
	Metrics   Metrics
	Strategy  string
	Stats     automaton.Stats
}

// Strategy is one balancing approach (§4.6): balance transforms,
// IsBalanced reports whether applying it again would change anything.
type Strategy interface {
	Name() string
	Balance(a *automaton.Automaton, log *UsageLog, cfg automaton.Config) (Result, error)
	IsBalanced(a *automaton.Automaton, log *UsageLog) bool
}

// Structural reorders states to reduce out-degree variance and merges
// redundant transitions (§4.6). It never changes the language: only
// state ids are renamed (to reflect a deterministic, variance-reducing
// order) and duplicate transitions are merged with the same semantics as
// optimize.MergeTransitions, reimplemented locally in
// mergeRedundantTransitions.
type StructuralStrategy struct{}

func (StructuralStrategy) Name() string { return "structural" }

func (s StructuralStrategy) Balance(a *automaton.Automaton, log *UsageLog, _ automaton.Config) (Result, error) {
	merged, err := mergeRedundantTransitions(a)
	if err != nil {
		return Result{}, err
	}
	reordered, err := reorderByOutDegree(merged)
	if err != nil {
		return Result{}, err
	}
	return Result{Automaton: reordered, Metrics: Compute(reordered, log), Strategy: s.Name()}, nil
}

func (s StructuralStrategy) IsBalanced(a *automaton.Automaton, log *UsageLog) bool {
	result, err := s.Balance(a, log, automaton.DefaultConfig())
	if err != nil {
		return true
	}
	before := Compute(a, log)
	return result.Metrics.OutDegreeVariance >= before.OutDegreeVariance
}

// reorderByOutDegree renames states to ids "s0".."sN-1" sorted by
// ascending out-degree (ties broken by original id), matching §4.6's
// "reorders states to reduce out-degree variance" — lower-degree states
// addressed first keeps hot, high-fan-out states from crowding the low
// end of any packed array representation a caller indexes into.
func reorderByOutDegree(a *automaton.Automaton) (*automaton.Automaton, error) {
	ids := a.States()
	sort.Slice(ids, func(i, j int) bool {
		di, dj := len(a.TransitionsFrom(ids[i])), len(a.TransitionsFrom(ids[j]))
		if di != dj {
			return di < dj
		}
		return ids[i] < ids[j]
	})

	rename := make(map[string]string, len(ids))
	for i, id := range ids {
		rename[id] = syntheticID(i)
	}

	var states []automaton.State
	for _, id := range ids {
		s, _ := a.State(id)
		s.ID = rename[id]
		states = append(states, s)
	}
	var transitions []automaton.Transition
	for _, t := range a.Transitions() {
		t.From = rename[t.From]
		t.To = rename[t.To]
		transitions = append(transitions, t)
	}
	var initials, finals []string
	for _, id := range a.InitialStates() {
		initials = append(initials, rename[id])
	}
	for _, id := range a.FinalStates() {
		finals = append(finals, rename[id])
	}

	return rebuildVariant(a.Variant(), states, a.Alphabet(), transitions, initials, finals)
}

func syntheticID(i int) string {
	const digits = "0123456789"
	if i == 0 {
		return "s0"
	}
	buf := []byte{}
	for i > 0 {
		buf = append([]byte{digits[i%10]}, buf...)
		i /= 10
	}
	return "s" + string(buf)
}

// mergeRedundantTransitions drops exact (from,symbol,to) duplicates.
func mergeRedundantTransitions(a *automaton.Automaton) (*automaton.Automaton, error) {
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
	var states []automaton.State
	for _, id := range a.States() {
		s, _ := a.State(id)
		states = append(states, s)
	}
	return rebuildVariant(a.Variant(), states, a.Alphabet(), kept, a.InitialStates(), a.FinalStates())
}

func rebuildVariant(v automaton.Variant, states []automaton.State, alphabet []automaton.Symbol, transitions []automaton.Transition, initials, finals []string) (*automaton.Automaton, error) {
	switch v {
	case automaton.KindDFA:
		return automaton.BuildDFA(states, alphabet, transitions, initials[0], finals)
	case automaton.KindNFA:
		return automaton.BuildNFA(states, alphabet, transitions, initials, finals)
	default:
		return automaton.BuildENFA(states, alphabet, transitions, initials, finals)
	}
}
