package algebra

import (
	"github.com/coregx/automaton"
)

// Complement returns a DFA accepting the complement of L(a): complete a
// against a sink if it isn't total, then flip the final set (§4.7).
func Complement(a *automaton.Automaton) (*automaton.Automaton, error) {
	if a.Variant() != automaton.KindDFA {
		return nil, &automaton.InvalidAutomaton{Reason: "Complement requires a DFA"}
	}

	complete, err := completeTotal(a)
	if err != nil {
		return nil, err
	}

	finalSet := make(map[string]bool, len(complete.FinalStates()))
	for _, id := range complete.FinalStates() {
		finalSet[id] = true
	}

	var states []automaton.State
	var finals []string
	for _, id := range complete.States() {
		s, _ := complete.State(id)
		isFinal := !finalSet[id]
		isInitial := complete.IsInitial(id)
		switch {
		case isInitial && isFinal:
			s.Kind = automaton.StateInitialFinal
		case isInitial:
			s.Kind = automaton.StateInitial
		case isFinal:
			s.Kind = automaton.StateFinal
		default:
			s.Kind = automaton.StateIntermediate
		}
		states = append(states, s)
		if isFinal {
			finals = append(finals, id)
		}
	}

	return automaton.BuildDFA(states, complete.Alphabet(), complete.Transitions(), complete.InitialState(), finals)
}

// completeTotal adds a sink state so every (state,symbol) pair has an
// outgoing transition, if a isn't already total.
func completeTotal(a *automaton.Automaton) (*automaton.Automaton, error) {
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
