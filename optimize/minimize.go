package optimize

import (
	"fmt"
	"sort"

	"github.com/coregx/automaton"
	"github.com/coregx/automaton/internal/conv"
	"github.com/coregx/automaton/internal/sparse"
)

const sinkID = "__sink"

// dfaModel is a dense-array view of a (already completed+pruned) DFA,
// built once and shared by full and incremental minimization. Symbols are
// addressed through a SymbolIndex rather than a raw alphabet slice, so the
// refinement loop's per-symbol scans and the quotient builder's transition
// lift both index delta/partition tables by plain int rather than hashing
// a Symbol string on every lookup.
type dfaModel struct {
	a         *automaton.Automaton
	ids       []string // dense index -> state id, sorted
	index     map[string]int
	symIdx    *automaton.SymbolIndex
	delta     [][]int // delta[symIdx][state] = target dense index, or -1
	finalMask []bool
}

func buildModel(a *automaton.Automaton) dfaModel {
	ids := a.States()
	sort.Strings(ids)
	index := make(map[string]int, len(ids))
	for i, id := range ids {
		index[id] = i
	}
	n := len(ids)
	symIdx := automaton.NewSymbolIndex(a)
	delta := make([][]int, symIdx.Len())
	for si := range delta {
		delta[si] = make([]int, n)
	}
	for i, id := range ids {
		for si := 0; si < symIdx.Len(); si++ {
			sym := symIdx.Symbol(si)
			target := -1
			for _, t := range a.TransitionsFrom(id, sym) {
				target = index[t.To]
				break
			}
			delta[si][i] = target
		}
	}
	finalMask := make([]bool, n)
	for _, id := range a.FinalStates() {
		finalMask[index[id]] = true
	}
	return dfaModel{a: a, ids: ids, index: index, symIdx: symIdx, delta: delta, finalMask: finalMask}
}

// class is one partition block during Hopcroft refinement.
type class struct {
	members []int
	id      int
}

// refinePartition runs Hopcroft's partition-refinement loop (§4.5.1
// steps 4-5) starting from the given seed blocks (each a slice of dense
// state indices) until fixed point, and returns the per-state class
// pointer slice. Seed blocks must already respect finality (no block may
// mix final and non-final states) since that is the one property the
// refinement loop is not itself responsible for establishing.
func refinePartition(m dfaModel, seed [][]int, tok automaton.CancellationToken) ([]*class, int, error) {
	n := len(m.ids)
	var classes []*class
	classOf := make([]*class, n)
	nextClassID := 0
	for _, members := range seed {
		if len(members) == 0 {
			continue
		}
		c := &class{members: append([]int(nil), members...), id: nextClassID}
		nextClassID++
		classes = append(classes, c)
		for _, s := range members {
			classOf[s] = c
		}
	}

	worklist := []*class{}
	inWork := make(map[*class]bool)
	push := func(c *class) {
		if c != nil && !inWork[c] {
			worklist = append(worklist, c)
			inWork[c] = true
		}
	}
	// Seed the worklist with every block up to the largest: per §4.5.1
	// only the smaller half of any split needs re-examination, but the
	// very first round has no "other half" to compare against, so every
	// initial block except the single largest must be pushed (the
	// largest is implied by the others collectively).
	if len(classes) > 0 {
		largest := classes[0]
		for _, c := range classes {
			if len(c.members) > len(largest.members) {
				largest = c
			}
		}
		for _, c := range classes {
			if c != largest {
				push(c)
			}
		}
		if len(classes) == 1 {
			push(classes[0])
		}
	}

	splits := 0
	x := sparse.NewSparseSet(conv.IntToUint32(n))
	for len(worklist) > 0 {
		if err := automaton.CheckCancelled(tok, "minimize"); err != nil {
			return nil, 0, err
		}
		cls := worklist[0]
		worklist = worklist[1:]
		delete(inWork, cls)

		for si := 0; si < m.symIdx.Len(); si++ {
			x.Clear()
			for i := 0; i < n; i++ {
				t := m.delta[si][i]
				if t != -1 && classOf[t] == cls {
					x.Insert(conv.IntToUint32(i))
				}
			}
			if x.IsEmpty() {
				continue
			}

			touched := map[*class]bool{}
			for _, v := range x.Values() {
				touched[classOf[int(v)]] = true
			}
			for y := range touched {
				var inX, notInX []int
				for _, s := range y.members {
					if x.Contains(conv.IntToUint32(s)) {
						inX = append(inX, s)
					} else {
						notInX = append(notInX, s)
					}
				}
				if len(inX) == 0 || len(notInX) == 0 {
					continue
				}
				splits++
				y.members = inX
				newCls := &class{members: notInX, id: nextClassID}
				nextClassID++
				classes = append(classes, newCls)
				for _, s := range notInX {
					classOf[s] = newCls
				}

				if inWork[y] {
					push(newCls)
				} else if len(inX) <= len(notInX) {
					push(y)
				} else {
					push(newCls)
				}
			}
		}
	}

	return classOf, splits, nil
}

// quotient builds the minimized DFA from a refined per-state class
// assignment, using the lexicographically smallest original id in each
// class as its representative (§4.5.1's deterministic tie-break).
func quotient(m dfaModel, classOf []*class) (*automaton.Automaton, error) {
	repOf := make(map[*class]string)
	for _, c := range classOf {
		if c == nil || repOf[c] != "" {
			continue
		}
		best := m.ids[c.members[0]]
		for _, s := range c.members[1:] {
			if m.ids[s] < best {
				best = m.ids[s]
			}
		}
		repOf[c] = best
	}

	initialRep := repOf[classOf[m.index[m.a.InitialState()]]]

	type repClass struct {
		rep string
		c   *class
	}
	seenRep := make(map[string]bool)
	var ordered []repClass
	for _, c := range classOf {
		rep := repOf[c]
		if seenRep[rep] {
			continue
		}
		seenRep[rep] = true
		ordered = append(ordered, repClass{rep: rep, c: c})
	}
	sort.Slice(ordered, func(i, j int) bool { return ordered[i].rep < ordered[j].rep })

	var newStates []automaton.State
	var newTransitions []automaton.Transition
	var newFinals []string
	for _, rc := range ordered {
		isFinal := m.finalMask[rc.c.members[0]]
		isInitial := rc.rep == initialRep
		kind := automaton.StateIntermediate
		switch {
		case isInitial && isFinal:
			kind = automaton.StateInitialFinal
		case isInitial:
			kind = automaton.StateInitial
		case isFinal:
			kind = automaton.StateFinal
		}
		newStates = append(newStates, automaton.State{ID: rc.rep, Kind: kind})
		if isFinal {
			newFinals = append(newFinals, rc.rep)
		}
		repState := rc.c.members[0]
		for si := 0; si < m.symIdx.Len(); si++ {
			t := m.delta[si][repState]
			if t == -1 {
				continue
			}
			newTransitions = append(newTransitions, automaton.Transition{
				From: rc.rep, Symbol: m.symIdx.Symbol(si), To: repOf[classOf[t]], Kind: automaton.TransitionSymbol,
			})
		}
	}

	alphabet := make([]automaton.Symbol, m.symIdx.Len())
	for si := 0; si < m.symIdx.Len(); si++ {
		alphabet[si] = m.symIdx.Symbol(si)
	}
	result, err := automaton.BuildDFA(newStates, alphabet, newTransitions, initialRep, newFinals)
	if err != nil {
		return nil, fmt.Errorf("minimize: building quotient: %w", err)
	}
	return result, nil
}

// Minimize runs Hopcroft's algorithm (§4.5.1) on a DFA: complete against a
// sink if non-total, prune unreachable states, then partition-refine until
// fixed point. Ties in representative selection are always broken by
// lexicographically smallest original state id, which is what makes the
// output both deterministic and directly comparable across equivalent
// inputs (P2's idempotence, the balancing equivalence gate in §4.6).
//
// Complexity is O(|Q|*|Sigma|*log|Q|): the worklist always re-examines the
// smaller half of any split class, the standard argument bounding total
// work by log|Q| re-examinations per state.
//
// The returned automaton.Stats reports the dense model's state count as
// StatesVisited and the number of partition splits refinement performed;
// CacheHits/CacheMisses are always zero here since Minimize itself never
// consults a cache (see MinimizeCached).
func Minimize(a *automaton.Automaton, tok automaton.CancellationToken) (*automaton.Automaton, automaton.Stats, error) {
	if a.Variant() != automaton.KindDFA {
		return nil, automaton.Stats{}, &automaton.InvalidAutomaton{Reason: "Minimize requires a DFA"}
	}

	complete, err := completeDFA(a)
	if err != nil {
		return nil, automaton.Stats{}, err
	}
	pruned, err := PruneUnreachable(complete)
	if err != nil {
		return nil, automaton.Stats{}, err
	}

	m := buildModel(pruned)
	var finals, nonFinals []int
	for i := range m.ids {
		if m.finalMask[i] {
			finals = append(finals, i)
		} else {
			nonFinals = append(nonFinals, i)
		}
	}
	classOf, splits, err := refinePartition(m, [][]int{finals, nonFinals}, tok)
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

// completeDFA adds a sink state so every (state,symbol) pair has an
// outgoing transition, if a isn't already total. A DFA that was already
// total is returned unchanged.
func completeDFA(a *automaton.Automaton) (*automaton.Automaton, error) {
	missing := false
	for _, id := range a.States() {
		seen := make(map[automaton.Symbol]bool, len(a.Alphabet()))
		for _, t := range a.TransitionsFrom(id) {
			seen[t.Symbol] = true
		}
		for _, sym := range a.Alphabet() {
			if !seen[sym] {
				missing = true
			}
		}
	}
	if !missing {
		return a, nil
	}

	var states []automaton.State
	for _, id := range a.States() {
		s, _ := a.State(id)
		states = append(states, s)
	}
	states = append(states, automaton.State{ID: sinkID, Kind: automaton.StateIntermediate})

	transitions := a.Transitions()
	for _, id := range a.States() {
		seen := make(map[automaton.Symbol]bool, len(a.Alphabet()))
		for _, t := range a.TransitionsFrom(id) {
			seen[t.Symbol] = true
		}
		for _, sym := range a.Alphabet() {
			if !seen[sym] {
				transitions = append(transitions, automaton.Transition{From: id, Symbol: sym, To: sinkID, Kind: automaton.TransitionSymbol})
			}
		}
	}
	for _, sym := range a.Alphabet() {
		transitions = append(transitions, automaton.Transition{From: sinkID, Symbol: sym, To: sinkID, Kind: automaton.TransitionSymbol})
	}

	return automaton.BuildDFA(states, a.Alphabet(), transitions, a.InitialState(), a.FinalStates())
}

// stripSink removes a dead sink class from the minimized result, if the
// minimization introduced one and it is not coaccessible (so dropping it
// cannot change the language). A sink only ever appears when the original
// automaton was genuinely non-total; an already-total input never reaches
// this function with a sink present.
func stripSink(a *automaton.Automaton) *automaton.Automaton {
	if _, ok := a.State(sinkID); !ok {
		return a
	}
	coaccessible := a.CoaccessibleStates()
	if _, ok := coaccessible[sinkID]; ok {
		return a
	}
	pruned, err := PruneNonCoaccessible(a)
	if err != nil {
		return a
	}
	return pruned
}
