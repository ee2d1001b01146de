// Package algebra implements the Language Algebra (§4.7): union,
// intersection, and complement on DFAs, and concatenation/Kleene star on
// NFAs. Every result can be pushed through convert and optimize to reach
// canonical DFA form and minimality on request, matching §4.7's "All
// results go through C4 to reach DFA form on request and through C5 for
// minimization."
package algebra

import (
	"fmt"
	"sort"

	"github.com/coregx/automaton"
)

// pairState names a product-construction state from a pair of original
// ids, matching the teacher's composite-DFA id-joining convention
// generalized from byte-level regex composition to arbitrary state ids.
func pairState(p, q string) string {
	return fmt.Sprintf("p_%s_%s", sanitize(p), sanitize(q))
}

// sanitize hex-encodes id so the result is always a valid state
// identifier fragment, regardless of what bytes the original automaton's
// ids use. Hex encoding is injective: distinct ids can never collapse to
// the same sanitized string, which a character-class substitution (e.g.
// folding every non-alnum byte to the same placeholder) cannot guarantee
// and pairState's uniqueness depends on.
func sanitize(id string) string {
	return fmt.Sprintf("%x", id)
}

const sinkID = "__sink"

// product runs the shared DFA product construction (§4.7): states are
// pairs (p,q), transitions componentwise, alphabets merged with missing
// transitions routed to a shared sink. isFinal decides, given whether p
// and q are each final in their own automaton, whether the pair state is
// final in the result — this is the only difference between Union and
// Intersection.
func product(a, b *automaton.Automaton, isFinal func(aFinal, bFinal bool) bool) (*automaton.Automaton, error) {
	if a.Variant() != automaton.KindDFA || b.Variant() != automaton.KindDFA {
		return nil, &automaton.InvalidAutomaton{Reason: "product construction requires two DFAs"}
	}

	alphabet := mergeAlphabets(a, b)

	type pair struct{ p, q string }
	start := pair{a.InitialState(), b.InitialState()}
	startID := pairState(start.p, start.q)

	seen := map[pair]string{start: startID}
	order := []pair{start}

	var states []automaton.State
	var transitions []automaton.Transition
	var finals []string

	for i := 0; i < len(order); i++ {
		cur := order[i]
		id := seen[cur]
		final := isFinal(a.IsFinal(cur.p), b.IsFinal(cur.q))
		kind := automaton.StateIntermediate
		if id == startID && final {
			kind = automaton.StateInitialFinal
		} else if id == startID {
			kind = automaton.StateInitial
		} else if final {
			kind = automaton.StateFinal
		}
		states = append(states, automaton.State{ID: id, Kind: kind})
		if final {
			finals = append(finals, id)
		}

		for _, sym := range alphabet {
			pTarget, pOK := dfaStep(a, cur.p, sym)
			qTarget, qOK := dfaStep(b, cur.q, sym)
			if !pOK && !qOK {
				continue
			}
			next := pair{}
			if pOK {
				next.p = pTarget
			} else {
				next.p = sinkID
			}
			if qOK {
				next.q = qTarget
			} else {
				next.q = sinkID
			}
			nextID, ok := seen[next]
			if !ok {
				nextID = pairState(next.p, next.q)
				seen[next] = nextID
				order = append(order, next)
			}
			transitions = append(transitions, automaton.Transition{From: id, Symbol: sym, To: nextID, Kind: automaton.TransitionSymbol})
		}
	}

	return automaton.BuildDFA(states, alphabet, transitions, startID, finals)
}

// dfaStep returns the single successor of (state,symbol) in a, or
// ok=false if state is the shared sink or has no such transition (a
// non-total source DFA).
func dfaStep(a *automaton.Automaton, state string, sym automaton.Symbol) (string, bool) {
	if state == sinkID {
		return "", false
	}
	for _, t := range a.TransitionsFrom(state, sym) {
		return t.To, true
	}
	return "", false
}

func mergeAlphabets(a, b *automaton.Automaton) []automaton.Symbol {
	set := make(map[automaton.Symbol]struct{})
	for _, s := range a.Alphabet() {
		set[s] = struct{}{}
	}
	for _, s := range b.Alphabet() {
		set[s] = struct{}{}
	}
	out := make([]automaton.Symbol, 0, len(set))
	for s := range set {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Union returns a DFA accepting L(a) ∪ L(b), via product construction
// with finals = F_a×Q ∪ Q×F_b (§4.7).
func Union(a, b *automaton.Automaton) (*automaton.Automaton, error) {
	return product(a, b, func(af, bf bool) bool { return af || bf })
}

// Intersection returns a DFA accepting L(a) ∩ L(b), via product
// construction with finals = F_a×F_b (§4.7).
func Intersection(a, b *automaton.Automaton) (*automaton.Automaton, error) {
	return product(a, b, func(af, bf bool) bool { return af && bf })
}
