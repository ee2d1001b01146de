package algebra

import (
	"fmt"

	"github.com/coregx/automaton"
)

// disjointify renames every state of a with prefix p so two operand
// automata never collide when combined into one epsilon-NFA (§4.7
// "disjointify state sets").
func disjointify(a *automaton.Automaton, prefix string) (states []automaton.State, transitions []automaton.Transition, initials, finals []string, rename map[string]string) {
	rename = make(map[string]string, len(a.States()))
	for _, id := range a.States() {
		rename[id] = fmt.Sprintf("%s_%s", prefix, sanitize(id))
	}
	for _, id := range a.States() {
		s, _ := a.State(id)
		s.ID = rename[id]
		s.Kind = automaton.StateIntermediate // initial/final recomputed by the caller
		states = append(states, s)
	}
	for _, t := range a.Transitions() {
		t.From = rename[t.From]
		t.To = rename[t.To]
		transitions = append(transitions, t)
	}
	for _, id := range a.InitialStates() {
		initials = append(initials, rename[id])
	}
	for _, id := range a.FinalStates() {
		finals = append(finals, rename[id])
	}
	return
}

// Concatenate returns an epsilon-NFA accepting L(a)·L(b): disjointify
// both state sets, add an epsilon transition from every final of a to
// every initial of b, new initials are a's initials (plus b's initials
// too if a accepts the empty word), new finals are b's finals (§4.7).
func Concatenate(a, b *automaton.Automaton) (*automaton.Automaton, error) {
	statesA, transA, initA, finalA, _ := disjointify(a, "a")
	statesB, transB, initB, finalB, _ := disjointify(b, "b")

	alphabet := mergeAlphabets(a, b)

	var transitions []automaton.Transition
	transitions = append(transitions, transA...)
	transitions = append(transitions, transB...)
	for _, f := range finalA {
		for _, i := range initB {
			transitions = append(transitions, automaton.Transition{From: f, To: i, Kind: automaton.TransitionEpsilon})
		}
	}

	aAcceptsEmpty, err := automaton.Accepts(a, nil)
	if err != nil {
		return nil, err
	}

	initials := append([]string(nil), initA...)
	if aAcceptsEmpty {
		initials = append(initials, initB...)
	}

	finalSet := make(map[string]bool, len(finalB))
	for _, id := range finalB {
		finalSet[id] = true
	}
	initialSet := make(map[string]bool, len(initials))
	for _, id := range initials {
		initialSet[id] = true
	}

	var states []automaton.State
	for _, s := range append(statesA, statesB...) {
		switch {
		case initialSet[s.ID] && finalSet[s.ID]:
			s.Kind = automaton.StateInitialFinal
		case initialSet[s.ID]:
			s.Kind = automaton.StateInitial
		case finalSet[s.ID]:
			s.Kind = automaton.StateFinal
		default:
			s.Kind = automaton.StateIntermediate
		}
		states = append(states, s)
	}

	return automaton.BuildENFA(states, alphabet, transitions, initials, finalB)
}
