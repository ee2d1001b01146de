package automaton

import (
	"fmt"
	"hash/fnv"
	"sort"
	"sync"
)

// Variant tags which of the three automaton flavors an Automaton is.
type Variant uint8

const (
	// KindDFA is a deterministic finite automaton: no epsilon transitions,
	// exactly one initial state, at most one outgoing transition per
	// (state, symbol).
	KindDFA Variant = iota
	// KindNFA is a nondeterministic finite automaton: no epsilon
	// transitions, but multiple outgoing transitions per (state, symbol)
	// and multiple initial states are allowed.
	KindNFA
	// KindENFA is an NFA that additionally allows epsilon transitions.
	KindENFA
)

func (v Variant) String() string {
	switch v {
	case KindDFA:
		return "DFA"
	case KindNFA:
		return "NFA"
	case KindENFA:
		return "ENFA"
	default:
		return "unknown"
	}
}

// Size bounds enforced by I6. Inputs beyond these fail construction with a
// clear InvalidAutomaton rather than being allowed to exhaust memory
// downstream.
const (
	MaxStates      = 100_000
	MaxTransitions = 1_000_000
)

// Automaton is an immutable representation of a DFA, NFA, or epsilon-NFA.
//
// Construct one with BuildDFA, BuildNFA, or BuildENFA (or via a Builder);
// every transform in this module (Minimize, Determinize, Union, Balance,
// ...) consumes an *Automaton and produces a fresh one rather than
// mutating the receiver.
type Automaton struct {
	variant Variant

	states      map[string]State
	stateOrder  []string // sorted, for deterministic iteration
	alphabet    map[Symbol]struct{}
	alphaOrder  []Symbol // sorted
	transitions []Transition

	// from indexes transitions by source state id, preserving the order
	// transitions were supplied in (stable for TransitionsFrom iteration).
	from map[string][]int

	initial map[string]struct{} // exactly one entry for KindDFA
	final   map[string]struct{}

	// epsClose memoizes per-state epsilon-closures (§4.3); it is the only
	// mutable field on an otherwise immutable Automaton and is guarded by
	// epsCloseMu. It is populated lazily and purely derived from the
	// (immutable) transition relation, so sharing it across readers never
	// changes observable behavior.
	epsCloseMu sync.RWMutex
	epsClose   map[string]map[string]struct{}
}

// Variant returns which automaton flavor this is.
func (a *Automaton) Variant() Variant { return a.variant }

// States returns the automaton's state ids in sorted order.
func (a *Automaton) States() []string {
	out := make([]string, len(a.stateOrder))
	copy(out, a.stateOrder)
	return out
}

// State looks up a state by id.
func (a *Automaton) State(id string) (State, bool) {
	s, ok := a.states[id]
	return s, ok
}

// Alphabet returns the automaton's alphabet in sorted order.
func (a *Automaton) Alphabet() []Symbol {
	out := make([]Symbol, len(a.alphaOrder))
	copy(out, a.alphaOrder)
	return out
}

// HasSymbol reports whether sym is in the alphabet.
func (a *Automaton) HasSymbol(sym Symbol) bool {
	_, ok := a.alphabet[sym]
	return ok
}

// Transitions returns every transition, in the order supplied at
// construction.
func (a *Automaton) Transitions() []Transition {
	out := make([]Transition, len(a.transitions))
	copy(out, a.transitions)
	return out
}

// InitialStates returns the initial state ids in sorted order. For a DFA
// this always has length 1.
func (a *Automaton) InitialStates() []string {
	return sortedKeys(a.initial)
}

// InitialState returns the single initial state of a DFA. Panics if called
// on an NFA/epsilon-NFA with a state count other than one; callers working
// generically should use InitialStates.
func (a *Automaton) InitialState() string {
	if len(a.initial) != 1 {
		panic("automaton: InitialState called on automaton without exactly one initial state")
	}
	for id := range a.initial {
		return id
	}
	return ""
}

// FinalStates returns the final state ids in sorted order.
func (a *Automaton) FinalStates() []string {
	return sortedKeys(a.final)
}

// IsFinal reports whether id is an accepting state.
func (a *Automaton) IsFinal(id string) bool {
	_, ok := a.final[id]
	return ok
}

// IsInitial reports whether id is an initial state.
func (a *Automaton) IsInitial(id string) bool {
	_, ok := a.initial[id]
	return ok
}

// TransitionsFrom returns every transition out of state id, optionally
// restricted to a single symbol. Passing Epsilon restricts to epsilon
// transitions.
func (a *Automaton) TransitionsFrom(id string, symbol ...Symbol) []Transition {
	idxs := a.from[id]
	if len(idxs) == 0 {
		return nil
	}
	var filter *Symbol
	if len(symbol) > 0 {
		filter = &symbol[0]
	}
	out := make([]Transition, 0, len(idxs))
	for _, i := range idxs {
		t := a.transitions[i]
		if filter != nil {
			if *filter == Epsilon {
				if !t.IsEpsilon() {
					continue
				}
			} else if t.Symbol != *filter || t.IsEpsilon() {
				continue
			}
		}
		out = append(out, t)
	}
	return out
}

// ReachableStates returns the set of state ids reachable from the initial
// state(s) by a BFS over the transition relation (epsilon edges included).
func (a *Automaton) ReachableStates() map[string]struct{} {
	seen := make(map[string]struct{}, len(a.states))
	queue := make([]string, 0, len(a.initial))
	for id := range a.initial {
		if _, ok := seen[id]; !ok {
			seen[id] = struct{}{}
			queue = append(queue, id)
		}
	}
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		for _, t := range a.from[id] {
			to := a.transitions[t].To
			if _, ok := seen[to]; !ok {
				seen[to] = struct{}{}
				queue = append(queue, to)
			}
		}
	}
	return seen
}

// CoaccessibleStates returns the set of state ids that can reach some
// final state, via reverse BFS from the final set.
func (a *Automaton) CoaccessibleStates() map[string]struct{} {
	reverse := make(map[string][]string, len(a.states))
	for _, t := range a.transitions {
		reverse[t.To] = append(reverse[t.To], t.From)
	}
	seen := make(map[string]struct{}, len(a.states))
	queue := make([]string, 0, len(a.final))
	for id := range a.final {
		if _, ok := seen[id]; !ok {
			seen[id] = struct{}{}
			queue = append(queue, id)
		}
	}
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		for _, from := range reverse[id] {
			if _, ok := seen[from]; !ok {
				seen[from] = struct{}{}
				queue = append(queue, from)
			}
		}
	}
	return seen
}

// Fingerprint returns a stable content hash over the sorted states,
// alphabet, transitions, initials, and finals. It is used as a cache key
// by the optimization and balancing result caches (§4.5.5) and never
// depends on object identity or map iteration order.
func (a *Automaton) Fingerprint() uint64 {
	h := fnv.New64a()
	write := func(s string) {
		_, _ = h.Write([]byte(s))
		_, _ = h.Write([]byte{0})
	}
	write("variant:" + a.variant.String())
	for _, id := range a.stateOrder {
		s := a.states[id]
		write(fmt.Sprintf("s:%s:%d", s.ID, s.Kind))
	}
	for _, sym := range a.alphaOrder {
		write("a:" + string(sym))
	}
	ts := make([]Transition, len(a.transitions))
	copy(ts, a.transitions)
	sort.Slice(ts, func(i, j int) bool {
		if ts[i].From != ts[j].From {
			return ts[i].From < ts[j].From
		}
		if ts[i].Symbol != ts[j].Symbol {
			return ts[i].Symbol < ts[j].Symbol
		}
		return ts[i].To < ts[j].To
	})
	for _, t := range ts {
		write(fmt.Sprintf("t:%s:%s:%s", t.From, string(t.Symbol), t.To))
	}
	for _, id := range sortedKeys(a.initial) {
		write("i:" + id)
	}
	for _, id := range sortedKeys(a.final) {
		write("f:" + id)
	}
	return h.Sum64()
}

func sortedKeys(m map[string]struct{}) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// buildSpec is the common shape passed by BuildDFA/BuildNFA/BuildENFA into
// the shared constructor so invariant checking lives in one place.
type buildSpec struct {
	variant     Variant
	states      []State
	alphabet    []Symbol
	transitions []Transition
	initial     []string
	final       []string
}

// BuildDFA constructs a deterministic automaton, enforcing I1-I6 and the
// DFA-specific parts of I3 (no epsilon transitions, at most one outgoing
// transition per (state, symbol), exactly one initial state). Construction
// fails with *InvalidAutomaton on any violation.
func BuildDFA(states []State, alphabet []Symbol, transitions []Transition, initial string, finals []string) (*Automaton, error) {
	return build(buildSpec{
		variant:     KindDFA,
		states:      states,
		alphabet:    alphabet,
		transitions: transitions,
		initial:     []string{initial},
		final:       finals,
	})
}

// BuildNFA constructs a nondeterministic automaton with no epsilon
// transitions but a possibly-empty-symbol-unreachable multi-successor
// relation and a non-empty set of initial states.
func BuildNFA(states []State, alphabet []Symbol, transitions []Transition, initials []string, finals []string) (*Automaton, error) {
	return build(buildSpec{
		variant:     KindNFA,
		states:      states,
		alphabet:    alphabet,
		transitions: transitions,
		initial:     initials,
		final:       finals,
	})
}

// BuildENFA constructs an automaton allowing epsilon transitions in
// addition to everything BuildNFA allows.
func BuildENFA(states []State, alphabet []Symbol, transitions []Transition, initials []string, finals []string) (*Automaton, error) {
	return build(buildSpec{
		variant:     KindENFA,
		states:      states,
		alphabet:    alphabet,
		transitions: transitions,
		initial:     initials,
		final:       finals,
	})
}

func build(spec buildSpec) (*Automaton, error) {
	if len(spec.states) > MaxStates {
		return nil, &InvalidAutomaton{Reason: fmt.Sprintf("state count %d exceeds limit %d", len(spec.states), MaxStates)}
	}
	if len(spec.transitions) > MaxTransitions {
		return nil, &InvalidAutomaton{Reason: fmt.Sprintf("transition count %d exceeds limit %d", len(spec.transitions), MaxTransitions)}
	}

	a := &Automaton{
		variant:  spec.variant,
		states:   make(map[string]State, len(spec.states)),
		alphabet: make(map[Symbol]struct{}, len(spec.alphabet)),
		from:     make(map[string][]int, len(spec.states)),
		initial:  make(map[string]struct{}, len(spec.initial)),
		final:    make(map[string]struct{}, len(spec.final)),
	}

	for _, s := range spec.states {
		if !IsValidStateID(s.ID) {
			return nil, &InvalidAutomaton{Reason: "invalid state identifier", Location: s.ID}
		}
		if _, dup := a.states[s.ID]; dup {
			return nil, &InvalidAutomaton{Reason: "duplicate state id", Location: s.ID}
		}
		a.states[s.ID] = s
		a.stateOrder = append(a.stateOrder, s.ID)
	}
	sort.Strings(a.stateOrder)

	for _, sym := range spec.alphabet {
		if sym == Epsilon {
			return nil, &InvalidAutomaton{Reason: "alphabet must not contain the epsilon token"}
		}
		a.alphabet[sym] = struct{}{}
	}
	a.alphaOrder = make([]Symbol, 0, len(a.alphabet))
	for sym := range a.alphabet {
		a.alphaOrder = append(a.alphaOrder, sym)
	}
	sort.Slice(a.alphaOrder, func(i, j int) bool { return a.alphaOrder[i] < a.alphaOrder[j] })

	if len(spec.initial) == 0 {
		return nil, &InvalidAutomaton{Reason: "initial state set must be non-empty"}
	}
	if spec.variant == KindDFA && len(spec.initial) != 1 {
		return nil, &InvalidAutomaton{Reason: "DFA requires exactly one initial state"}
	}
	for _, id := range spec.initial {
		if _, ok := a.states[id]; !ok {
			return nil, &InvalidAutomaton{Reason: "initial state not in state set", Location: id}
		}
		a.initial[id] = struct{}{}
	}
	for _, id := range spec.final {
		if _, ok := a.states[id]; !ok {
			return nil, &InvalidAutomaton{Reason: "final state not in state set", Location: id}
		}
		a.final[id] = struct{}{}
	}

	// dfaSeen tracks (state,symbol) pairs already used, to enforce I3's
	// "at most one outgoing transition per (state,symbol)" for DFAs.
	dfaSeen := make(map[string]struct{}, len(spec.transitions))

	for i, t := range spec.transitions {
		if _, ok := a.states[t.From]; !ok {
			return nil, &InvalidAutomaton{Reason: "transition source not in state set", Location: t.From}
		}
		if _, ok := a.states[t.To]; !ok {
			return nil, &InvalidAutomaton{Reason: "transition target not in state set", Location: t.To}
		}
		if len(t.Symbol) > maxSymbolLen {
			return nil, &InvalidAutomaton{Reason: "transition symbol exceeds max length", Location: t.From}
		}
		if t.IsEpsilon() {
			if spec.variant != KindENFA {
				return nil, &InvalidAutomaton{Reason: "epsilon transition in non-epsilon automaton", Location: t.From}
			}
		} else {
			if _, ok := a.alphabet[t.Symbol]; !ok {
				return nil, &InvalidAutomaton{Reason: fmt.Sprintf("transition symbol %q not in alphabet", t.Symbol), Location: t.From}
			}
			if spec.variant == KindDFA {
				key := t.From + "\x00" + string(t.Symbol)
				if _, dup := dfaSeen[key]; dup {
					return nil, &InvalidAutomaton{Reason: "duplicate outgoing transition for (state,symbol)", Location: t.From}
				}
				dfaSeen[key] = struct{}{}
			}
		}
		a.transitions = append(a.transitions, t)
		a.from[t.From] = append(a.from[t.From], i)
	}

	return a, nil
}
