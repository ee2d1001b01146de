package optimize

import (
	"github.com/coregx/automaton"
)

// TransitionChange describes one edited DFA transition as input to
// IncrementalMinimize (§4.5.4): the outgoing edge for (State, Symbol) used
// to point at OldTarget and now points at NewTarget.
type TransitionChange struct {
	State     string
	Symbol    automaton.Symbol
	OldTarget string
	NewTarget string
}

// IncrementalMinimize re-minimizes prevMinimized after the given edits
// without discarding its existing partition, per §4.5.4. States touched by
// a change (the edited state and its old and new targets) are marked dirty
// and seeded as singleton classes; the untouched states are seeded as two
// blocks, final and non-final (see seedFromDirty). Hopcroft's worklist
// refinement then splits those blocks wherever the edit makes states
// distinguishable. Refinement only ever splits, so the result is always
// language-correct for the edited automaton; it is not guaranteed minimal,
// since a dirty singleton is never merged with another state even when
// the two are equivalent.
//
// If the fraction of states touched by changes exceeds
// cfg.IncrementalDirtyThreshold, this gives up and runs a full Minimize
// instead: above that threshold the dirty region is large enough that
// seeding it coarsely no longer saves meaningful work over a fresh run.
func IncrementalMinimize(prevMinimized *automaton.Automaton, changes []TransitionChange, cfg automaton.Config, tok automaton.CancellationToken) (*automaton.Automaton, automaton.Stats, error) {
	if prevMinimized.Variant() != automaton.KindDFA {
		return nil, automaton.Stats{}, &automaton.InvalidAutomaton{Reason: "IncrementalMinimize requires a DFA"}
	}
	if len(changes) == 0 {
		return prevMinimized, automaton.Stats{}, nil
	}

	applied, err := applyChanges(prevMinimized, changes)
	if err != nil {
		return nil, automaton.Stats{}, err
	}

	complete, err := completeDFA(applied)
	if err != nil {
		return nil, automaton.Stats{}, err
	}
	pruned, err := PruneUnreachable(complete)
	if err != nil {
		return nil, automaton.Stats{}, err
	}
	m := buildModel(pruned)

	dirty := make(map[string]bool, 2*len(changes))
	for _, c := range changes {
		dirty[c.State] = true
		if c.OldTarget != "" {
			dirty[c.OldTarget] = true
		}
		if c.NewTarget != "" {
			dirty[c.NewTarget] = true
		}
	}
	dirtyCount := 0
	for id := range dirty {
		if _, ok := m.index[id]; ok {
			dirtyCount++
		}
	}

	threshold := cfg.IncrementalDirtyThreshold
	if threshold <= 0 {
		threshold = automaton.DefaultConfig().IncrementalDirtyThreshold
	}
	if len(m.ids) == 0 || float64(dirtyCount)/float64(len(m.ids)) > threshold {
		return Minimize(applied, tok)
	}

	seed := seedFromDirty(m, dirty)
	classOf, splits, err := refinePartition(m, seed, tok)
	if err != nil {
		return nil, automaton.Stats{}, err
	}
	result, err := quotient(m, classOf)
	if err != nil {
		return nil, automaton.Stats{}, err
	}
	stats := automaton.Stats{StatesVisited: uint64(len(m.ids)), PartitionSplits: uint64(splits)}
	return stripSink(result), stats, nil
}

// seedFromDirty builds the initial partition for incremental refinement:
// each dirty state is its own singleton (split only by finality among
// them, which costs nothing since they're already separate), and every
// clean state keeps the class implied by its old minimized-automaton id
// grouping — approximated here by grouping clean states by finality too,
// since prevMinimized was already minimal so no further splitting of the
// clean region should occur except where dirty states force it.
func seedFromDirty(m dfaModel, dirty map[string]bool) [][]int {
	var seed [][]int
	cleanFinal := []int{}
	cleanNonFinal := []int{}
	for i, id := range m.ids {
		if dirty[id] {
			seed = append(seed, []int{i})
			continue
		}
		if m.finalMask[i] {
			cleanFinal = append(cleanFinal, i)
		} else {
			cleanNonFinal = append(cleanNonFinal, i)
		}
	}
	if len(cleanFinal) > 0 {
		seed = append(seed, cleanFinal)
	}
	if len(cleanNonFinal) > 0 {
		seed = append(seed, cleanNonFinal)
	}
	return seed
}

// applyChanges rebuilds a with each TransitionChange's (state,symbol) edge
// redirected to NewTarget, replacing whatever it previously targeted.
func applyChanges(a *automaton.Automaton, changes []TransitionChange) (*automaton.Automaton, error) {
	edits := make(map[string]string, len(changes))
	for _, c := range changes {
		edits[c.State+"\x00"+string(c.Symbol)] = c.NewTarget
	}

	var states []automaton.State
	for _, id := range a.States() {
		s, _ := a.State(id)
		states = append(states, s)
	}

	seenEdge := make(map[string]bool)
	var transitions []automaton.Transition
	for _, t := range a.Transitions() {
		key := t.From + "\x00" + string(t.Symbol)
		if target, edited := edits[key]; edited {
			if seenEdge[key] {
				continue
			}
			seenEdge[key] = true
			transitions = append(transitions, automaton.Transition{From: t.From, Symbol: t.Symbol, To: target, Kind: automaton.TransitionSymbol})
			continue
		}
		transitions = append(transitions, t)
	}
	// a change whose (state,symbol) had no prior transition still needs
	// its new edge added.
	for key, target := range edits {
		if seenEdge[key] {
			continue
		}
		var state string
		var sym automaton.Symbol
		for i := 0; i < len(key); i++ {
			if key[i] == 0 {
				state = key[:i]
				sym = automaton.Symbol(key[i+1:])
				break
			}
		}
		transitions = append(transitions, automaton.Transition{From: state, Symbol: sym, To: target, Kind: automaton.TransitionSymbol})
	}

	return automaton.BuildDFA(states, a.Alphabet(), transitions, a.InitialState(), a.FinalStates())
}
