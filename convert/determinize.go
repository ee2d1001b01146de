package convert

import (
	"fmt"
	"hash/fnv"
	"sort"

	"github.com/coregx/automaton"
)

// subsetKey canonicalizes a set of original-automaton state ids by its
// sorted tuple, matching §4.4's "subsets canonicalized by sorted tuple of
// ids" and mirroring the teacher's StateKey hashing (dfa/lazy/cache.go)
// used to dedupe DFA states discovered during determinization.
func subsetKey(ids []string) string {
	sorted := append([]string(nil), ids...)
	sort.Strings(sorted)
	h := fnv.New64a()
	for _, id := range sorted {
		_, _ = h.Write([]byte(id))
		_, _ = h.Write([]byte{0})
	}
	return fmt.Sprintf("%x", h.Sum64())
}

// Determinize converts an NFA or epsilon-NFA to a language-equivalent DFA
// via subset construction (§4.4), lazily building states from the initial
// set outward. It stops with *automaton.ConversionTooLarge if the number
// of generated states would exceed cfg.MaxSubsetStates, and checks tok
// between each newly discovered subset so long-running determinizations
// remain cancellable (§5).
func Determinize(a *automaton.Automaton, cfg automaton.Config, tok automaton.CancellationToken) (*automaton.Automaton, Stats, error) {
	if a.Variant() == automaton.KindDFA {
		return nil, Stats{}, &automaton.InvalidAutomaton{Reason: "Determinize expects an NFA or epsilon-NFA, got a DFA"}
	}

	closure := func(ids []string) []string { return ids }
	if a.Variant() == automaton.KindENFA {
		closure = func(ids []string) []string {
			seen := make(map[string]bool)
			queue := append([]string(nil), ids...)
			for _, id := range ids {
				seen[id] = true
			}
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
	}

	symIdx := automaton.NewSymbolIndex(a)

	start := closure(a.InitialStates())
	startKey := subsetKey(start)

	type subset struct {
		name    string
		members []string
	}

	byKey := map[string]*subset{startKey: {name: "q0", members: start}}
	order := []*subset{byKey[startKey]}
	nextIdx := 1

	finalSet := make(map[string]bool, len(a.FinalStates()))
	for _, id := range a.FinalStates() {
		finalSet[id] = true
	}

	var states []automaton.State
	var transitions []automaton.Transition
	processed := 0

	for processed < len(order) {
		cur := order[processed]
		processed++

		if err := checkBudget(cfg, len(order)); err != nil {
			return nil, Stats{}, err
		}
		if err := automaton.CheckCancelled(tok, "determinize"); err != nil {
			return nil, Stats{}, err
		}

		kind := automaton.StateIntermediate
		isInitial := cur.name == "q0"
		isFinal := containsAnyMember(cur.members, finalSet)
		switch {
		case isInitial && isFinal:
			kind = automaton.StateInitialFinal
		case isInitial:
			kind = automaton.StateInitial
		case isFinal:
			kind = automaton.StateFinal
		}
		states = append(states, automaton.State{ID: cur.name, Kind: kind})

		for si := 0; si < symIdx.Len(); si++ {
			sym := symIdx.Symbol(si)
			targets := make(map[string]bool)
			for _, member := range cur.members {
				for _, t := range a.TransitionsFrom(member, sym) {
					targets[t.To] = true
				}
			}
			if len(targets) == 0 {
				continue
			}
			raw := make([]string, 0, len(targets))
			for id := range targets {
				raw = append(raw, id)
			}
			closed := closure(raw)
			key := subsetKey(closed)
			next, ok := byKey[key]
			if !ok {
				next = &subset{name: fmt.Sprintf("q%d", nextIdx), members: closed}
				nextIdx++
				byKey[key] = next
				order = append(order, next)
			}
			transitions = append(transitions, automaton.Transition{From: cur.name, Symbol: sym, To: next.name, Kind: automaton.TransitionSymbol})
		}
	}

	var finals []string
	for _, s := range states {
		if s.Kind == automaton.StateFinal || s.Kind == automaton.StateInitialFinal {
			finals = append(finals, s.ID)
		}
	}

	result, err := automaton.BuildDFA(states, a.Alphabet(), transitions, "q0", finals)
	stats := Stats{
		SourceStates:      len(a.States()),
		SourceTransitions: len(a.Transitions()),
		TargetStates:      len(states),
		TargetTransitions: len(transitions),
		Engine:            automaton.Stats{StatesVisited: uint64(len(order))},
	}
	return result, stats, err
}

func checkBudget(cfg automaton.Config, produced int) error {
	limit := cfg.MaxSubsetStates
	if limit <= 0 {
		limit = automaton.DefaultConfig().MaxSubsetStates
	}
	if produced > limit {
		return &automaton.ConversionTooLarge{Limit: limit, Produced: produced}
	}
	return nil
}

func containsAnyMember(ids []string, set map[string]bool) bool {
	for _, id := range ids {
		if set[id] {
			return true
		}
	}
	return false
}

// Embed performs the trivial DFA -> NFA structural embedding (§4.4): same
// states and transitions, initial state set is the singleton {initial}.
func Embed(a *automaton.Automaton) (*automaton.Automaton, Stats, error) {
	if a.Variant() != automaton.KindDFA {
		return nil, Stats{}, &automaton.InvalidAutomaton{Reason: "Embed expects a DFA"}
	}
	var states []automaton.State
	for _, id := range a.States() {
		s, _ := a.State(id)
		states = append(states, s)
	}
	result, err := automaton.BuildNFA(states, a.Alphabet(), a.Transitions(), []string{a.InitialState()}, a.FinalStates())
	stats := Stats{
		SourceStates:      len(a.States()),
		SourceTransitions: len(a.Transitions()),
		TargetStates:      len(states),
		TargetTransitions: len(a.Transitions()),
	}
	return result, stats, err
}
