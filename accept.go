package automaton

// Accepts reports whether word is recognized by a, dispatching on a's
// variant (§4.3). Accepts returns (false, *UnknownSymbol) rather than
// panicking if word contains a symbol outside a's alphabet; a missing
// transition (the DFA is non-total, or no NFA successor exists) is not an
// error and simply yields rejection.
func Accepts(a *Automaton, word []Symbol) (bool, error) {
	for i, sym := range word {
		if !a.HasSymbol(sym) {
			return false, &UnknownSymbol{Symbol: sym, Position: i}
		}
	}
	switch a.variant {
	case KindDFA:
		return acceptsDFA(a, word), nil
	case KindNFA:
		return acceptsNFA(a, word), nil
	case KindENFA:
		return acceptsENFA(a, word), nil
	default:
		return false, &InvalidAutomaton{Reason: "unknown variant"}
	}
}

func acceptsDFA(a *Automaton, word []Symbol) bool {
	cur := a.InitialState()
	for _, sym := range word {
		next, ok := dfaStep(a, cur, sym)
		if !ok {
			return false
		}
		cur = next
	}
	return a.IsFinal(cur)
}

// dfaStep returns the unique successor of (state,symbol) in a DFA, or
// ok=false if none is defined (non-total DFA).
func dfaStep(a *Automaton, state string, sym Symbol) (string, bool) {
	for _, t := range a.from[state] {
		tr := a.transitions[t]
		if tr.Symbol == sym && !tr.IsEpsilon() {
			return tr.To, true
		}
	}
	return "", false
}

func acceptsNFA(a *Automaton, word []Symbol) bool {
	cur := newStateSet(a.InitialStates())
	for _, sym := range word {
		cur = stepSet(a, cur, sym)
		if cur.isEmpty() {
			return false
		}
	}
	return cur.intersectsAny(a.final)
}

func acceptsENFA(a *Automaton, word []Symbol) bool {
	cur := epsilonClosure(a, newStateSet(a.InitialStates()))
	for _, sym := range word {
		cur = epsilonClosure(a, stepSet(a, cur, sym))
		if cur.isEmpty() {
			return false
		}
	}
	return cur.intersectsAny(a.final)
}

// stateSet is a small unordered set of state ids used by the NFA/epsilon-
// NFA simulators.
type stateSet map[string]struct{}

func newStateSet(ids []string) stateSet {
	s := make(stateSet, len(ids))
	for _, id := range ids {
		s[id] = struct{}{}
	}
	return s
}

func (s stateSet) isEmpty() bool { return len(s) == 0 }

func (s stateSet) intersectsAny(other map[string]struct{}) bool {
	small, big := s, other
	if len(other) < len(s) {
		small, big = other, s
	}
	for id := range small {
		if _, ok := big[id]; ok {
			return true
		}
	}
	return false
}

// stepSet computes the union of successors of every state in cur on sym.
func stepSet(a *Automaton, cur stateSet, sym Symbol) stateSet {
	next := make(stateSet)
	for id := range cur {
		for _, t := range a.from[id] {
			tr := a.transitions[t]
			if tr.Symbol == sym && !tr.IsEpsilon() {
				next[tr.To] = struct{}{}
			}
		}
	}
	return next
}

// epsilonClosure extends cur with every state reachable via epsilon
// transitions. Per-state closures are memoized on the automaton instance
// (§4.3) since closures of single states are reused across many searches
// and across the larger closure's own fixed-point computation.
func epsilonClosure(a *Automaton, cur stateSet) stateSet {
	out := make(stateSet, len(cur))
	for id := range cur {
		for member := range closureOf(a, id) {
			out[member] = struct{}{}
		}
	}
	return out
}

// closureOf returns (and memoizes) the epsilon-closure of a single state.
func closureOf(a *Automaton, id string) stateSet {
	a.epsCloseMu.RLock()
	if a.epsClose != nil {
		if c, ok := a.epsClose[id]; ok {
			a.epsCloseMu.RUnlock()
			return c
		}
	}
	a.epsCloseMu.RUnlock()

	// Fixed-point BFS over epsilon edges.
	closure := stateSet{id: {}}
	queue := []string{id}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, t := range a.from[cur] {
			tr := a.transitions[t]
			if !tr.IsEpsilon() {
				continue
			}
			if _, ok := closure[tr.To]; !ok {
				closure[tr.To] = struct{}{}
				queue = append(queue, tr.To)
			}
		}
	}

	a.epsCloseMu.Lock()
	if a.epsClose == nil {
		a.epsClose = make(map[string]map[string]struct{})
	}
	a.epsClose[id] = closure
	a.epsCloseMu.Unlock()
	return closure
}
