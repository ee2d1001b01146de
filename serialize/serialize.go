// Package serialize implements the canonical JSON exchange format (§4.8):
// ToJSON emits sorted arrays and sorted transition keys for byte-stable
// output; FromJSON enforces the same I1-I6 invariants as BuildDFA/
// BuildNFA/BuildENFA, since a JSON document is just another automaton
// construction input (§6: "from_json enforces validation").
package serialize

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/coregx/automaton"
)

// document is the on-wire shape (§4.8). Go's encoding/json sorts map
// keys when marshaling, which is what gives the transitions object its
// required sorted-key property for free; States/Alphabet/FinalStates are
// pre-sorted explicitly since they're slices, not maps.
type document struct {
	Kind          string                     `json:"kind"`
	States        []stateDoc                 `json:"states"`
	Alphabet      []string                   `json:"alphabet"`
	Transitions   map[string]json.RawMessage `json:"transitions"`
	InitialState  string                     `json:"initial_state,omitempty"`
	InitialStates []string                   `json:"initial_states,omitempty"`
	FinalStates   []string                   `json:"final_states"`
}

type stateDoc struct {
	ID       string             `json:"id"`
	Metadata automaton.Metadata `json:"metadata,omitempty"`
}

// transitionTarget is the shape of one element of a transitions[] array
// value: a bare string for an ordinary symbol/epsilon transition, or an
// object when the transition carries conditional metadata (§9's opaque
// condition/action pair).
type transitionTarget struct {
	To        string             `json:"to"`
	Condition automaton.Metadata `json:"condition,omitempty"`
	Action    automaton.Metadata `json:"action,omitempty"`
}

func (t transitionTarget) plain() bool {
	return t.Condition == nil && t.Action == nil
}

// transitionKey renders the "<state>,<symbol>" map key (§4.8); epsilon
// renders as a trailing bare comma, since Symbol("") already stringifies
// to the empty string.
func transitionKey(state string, sym automaton.Symbol) string {
	return state + "," + string(sym)
}

func splitTransitionKey(key string) (state string, sym automaton.Symbol, err error) {
	i := strings.LastIndex(key, ",")
	if i < 0 {
		return "", "", fmt.Errorf("serialize: malformed transition key %q: missing comma", key)
	}
	return key[:i], automaton.Symbol(key[i+1:]), nil
}

// ToJSON renders a in the canonical exchange format (§4.8), with sorted
// states/alphabet/final-states arrays and sorted transition keys.
func ToJSON(a *automaton.Automaton) ([]byte, error) {
	doc := document{
		Kind:        strings.ToLower(a.Variant().String()),
		FinalStates: a.FinalStates(),
	}

	for _, id := range a.States() {
		s, _ := a.State(id)
		doc.States = append(doc.States, stateDoc{ID: id, Metadata: s.Metadata})
	}
	for _, sym := range a.Alphabet() {
		doc.Alphabet = append(doc.Alphabet, string(sym))
	}

	switch a.Variant() {
	case automaton.KindDFA:
		doc.InitialState = a.InitialState()
	default:
		doc.InitialStates = a.InitialStates()
	}

	grouped := make(map[string][]transitionTarget)
	var keys []string
	for _, t := range a.Transitions() {
		key := transitionKey(t.From, t.Symbol)
		if _, seen := grouped[key]; !seen {
			keys = append(keys, key)
		}
		grouped[key] = append(grouped[key], transitionTarget{To: t.To, Condition: t.Condition, Action: t.Action})
	}

	doc.Transitions = make(map[string]json.RawMessage, len(grouped))
	for _, key := range keys {
		targets := grouped[key]
		sort.Slice(targets, func(i, j int) bool { return targets[i].To < targets[j].To })
		raw, err := marshalTargets(a.Variant(), targets)
		if err != nil {
			return nil, err
		}
		doc.Transitions[key] = raw
	}

	return json.MarshalIndent(doc, "", "  ")
}

func marshalTargets(variant automaton.Variant, targets []transitionTarget) (json.RawMessage, error) {
	allPlain := true
	for _, t := range targets {
		if !t.plain() {
			allPlain = false
			break
		}
	}

	if variant == automaton.KindDFA && len(targets) == 1 && allPlain {
		return json.Marshal(targets[0].To)
	}

	if allPlain {
		toList := make([]string, len(targets))
		for i, t := range targets {
			toList[i] = t.To
		}
		return json.Marshal(toList)
	}

	return json.Marshal(targets)
}

// FromJSON parses data in the canonical exchange format and constructs an
// Automaton, running the same I1-I6 invariant checks BuildDFA/BuildNFA/
// BuildENFA run (§6). A state's Kind (initial/final/both/intermediate) is
// derived entirely from its membership in initial_state(s)/final_states,
// never stored redundantly on the state itself, so there is no way for a
// round-tripped document to disagree with itself about a state's role.
func FromJSON(data []byte) (*automaton.Automaton, error) {
	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("serialize: invalid JSON: %w", err)
	}

	variant, err := parseVariant(doc.Kind)
	if err != nil {
		return nil, err
	}

	var initials []string
	if variant == automaton.KindDFA {
		if doc.InitialState == "" {
			return nil, &automaton.InvalidAutomaton{Reason: "dfa document missing initial_state"}
		}
		initials = []string{doc.InitialState}
	} else {
		initials = doc.InitialStates
	}

	finalSet := make(map[string]bool, len(doc.FinalStates))
	for _, id := range doc.FinalStates {
		finalSet[id] = true
	}
	initialSet := make(map[string]bool, len(initials))
	for _, id := range initials {
		initialSet[id] = true
	}

	var states []automaton.State
	for _, sd := range doc.States {
		kind := automaton.StateIntermediate
		switch {
		case initialSet[sd.ID] && finalSet[sd.ID]:
			kind = automaton.StateInitialFinal
		case initialSet[sd.ID]:
			kind = automaton.StateInitial
		case finalSet[sd.ID]:
			kind = automaton.StateFinal
		}
		states = append(states, automaton.State{ID: sd.ID, Kind: kind, Metadata: sd.Metadata})
	}

	alphabet := make([]automaton.Symbol, len(doc.Alphabet))
	for i, s := range doc.Alphabet {
		alphabet[i] = automaton.Symbol(s)
	}

	var transitions []automaton.Transition
	for key, raw := range doc.Transitions {
		state, sym, err := splitTransitionKey(key)
		if err != nil {
			return nil, err
		}
		targets, err := unmarshalTargets(raw)
		if err != nil {
			return nil, fmt.Errorf("serialize: transition %q: %w", key, err)
		}
		for _, tgt := range targets {
			kind := automaton.TransitionSymbol
			if sym == automaton.Epsilon {
				kind = automaton.TransitionEpsilon
			}
			if tgt.Condition != nil || tgt.Action != nil {
				kind = automaton.TransitionConditional
			}
			transitions = append(transitions, automaton.Transition{
				From: state, Symbol: sym, To: tgt.To, Kind: kind,
				Condition: tgt.Condition, Action: tgt.Action,
			})
		}
	}

	switch variant {
	case automaton.KindDFA:
		return automaton.BuildDFA(states, alphabet, transitions, initials[0], doc.FinalStates)
	case automaton.KindNFA:
		return automaton.BuildNFA(states, alphabet, transitions, initials, doc.FinalStates)
	default:
		return automaton.BuildENFA(states, alphabet, transitions, initials, doc.FinalStates)
	}
}

func unmarshalTargets(raw json.RawMessage) ([]transitionTarget, error) {
	trimmed := strings.TrimSpace(string(raw))
	if len(trimmed) == 0 {
		return nil, fmt.Errorf("empty transition value")
	}

	switch trimmed[0] {
	case '"':
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return nil, err
		}
		return []transitionTarget{{To: s}}, nil
	case '[':
		var rawList []json.RawMessage
		if err := json.Unmarshal(raw, &rawList); err != nil {
			return nil, err
		}
		out := make([]transitionTarget, 0, len(rawList))
		for _, item := range rawList {
			sub := strings.TrimSpace(string(item))
			if len(sub) > 0 && sub[0] == '"' {
				var s string
				if err := json.Unmarshal(item, &s); err != nil {
					return nil, err
				}
				out = append(out, transitionTarget{To: s})
				continue
			}
			var t transitionTarget
			if err := json.Unmarshal(item, &t); err != nil {
				return nil, err
			}
			out = append(out, t)
		}
		return out, nil
	case '{':
		var t transitionTarget
		if err := json.Unmarshal(raw, &t); err != nil {
			return nil, err
		}
		return []transitionTarget{t}, nil
	default:
		return nil, fmt.Errorf("unrecognized transition value shape")
	}
}

func parseVariant(kind string) (automaton.Variant, error) {
	switch strings.ToLower(kind) {
	case "dfa":
		return automaton.KindDFA, nil
	case "nfa":
		return automaton.KindNFA, nil
	case "enfa":
		return automaton.KindENFA, nil
	default:
		return 0, &automaton.InvalidAutomaton{Reason: fmt.Sprintf("unknown automaton kind %q", kind)}
	}
}
