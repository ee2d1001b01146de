package algebra

import (
	"github.com/coregx/automaton"
)

// starStateID is the fresh combined initial-and-final state Kleene star
// introduces (§4.7); it is never renamed or merged with an operand's own
// states because disjointify's "o_"-prefixed renaming can never collide
// with it.
const starStateID = "star0"

// Star returns an epsilon-NFA accepting L(a)*: a fresh initial-and-final
// state s0, an epsilon transition from s0 to each original initial, and
// an epsilon transition from each original final back to s0 (§4.7).
func Star(a *automaton.Automaton) (*automaton.Automaton, error) {
	states, transitions, initials, finals, _ := disjointify(a, "o")

	var out []automaton.State
	out = append(out, automaton.State{ID: starStateID, Kind: automaton.StateInitialFinal})
	for _, s := range states {
		s.Kind = automaton.StateIntermediate
		out = append(out, s)
	}

	for _, i := range initials {
		transitions = append(transitions, automaton.Transition{From: starStateID, To: i, Kind: automaton.TransitionEpsilon})
	}
	for _, f := range finals {
		transitions = append(transitions, automaton.Transition{From: f, To: starStateID, Kind: automaton.TransitionEpsilon})
	}

	return automaton.BuildENFA(out, a.Alphabet(), transitions, []string{starStateID}, []string{starStateID})
}
