package automaton

// Builder constructs an automaton incrementally, mirroring the teacher's
// low-level NFA builder: each AddX call appends a piece and returns
// immediately, and Build() finalizes everything in one pass, running the
// same I1-I6 checks BuildDFA/BuildNFA/BuildENFA run.
//
// A Builder is not safe for concurrent use; build one automaton per
// goroutine.
type Builder struct {
	variant     Variant
	states      []State
	alphabet    map[Symbol]struct{}
	transitions []Transition
	initial     []string
	final       []string
}

// NewBuilder creates a Builder for the given variant.
func NewBuilder(variant Variant) *Builder {
	return &Builder{
		variant:  variant,
		alphabet: make(map[Symbol]struct{}),
	}
}

// AddState appends a state and returns its id for chaining.
func (b *Builder) AddState(id string, kind StateKind) string {
	b.states = append(b.states, State{ID: id, Kind: kind})
	switch kind {
	case StateInitial:
		b.initial = append(b.initial, id)
	case StateFinal:
		b.final = append(b.final, id)
	case StateInitialFinal:
		b.initial = append(b.initial, id)
		b.final = append(b.final, id)
	}
	return id
}

// AddSymbol declares sym as part of the alphabet even if no transition
// uses it yet (I5: an unused alphabet symbol is only a warning, not an
// error, but it still must be declared to be legal on a transition).
func (b *Builder) AddSymbol(sym Symbol) {
	if sym != Epsilon {
		b.alphabet[sym] = struct{}{}
	}
}

// AddTransition appends a symbol-consuming transition, declaring sym in
// the alphabet if it is not already present.
func (b *Builder) AddTransition(from string, sym Symbol, to string) {
	b.AddSymbol(sym)
	b.transitions = append(b.transitions, Transition{From: from, Symbol: sym, To: to, Kind: TransitionSymbol})
}

// AddEpsilon appends an epsilon transition. Only meaningful for an
// epsilon-NFA builder; Build will reject it otherwise.
func (b *Builder) AddEpsilon(from, to string) {
	b.transitions = append(b.transitions, Transition{From: from, To: to, Kind: TransitionEpsilon})
}

// AddConditional appends a conditional transition carrying opaque
// condition/action metadata that recognition never evaluates (§9).
func (b *Builder) AddConditional(from string, sym Symbol, to string, condition, action Metadata) {
	b.AddSymbol(sym)
	b.transitions = append(b.transitions, Transition{
		From: from, Symbol: sym, To: to, Kind: TransitionConditional,
		Condition: condition, Action: action,
	})
}

// Build finalizes the builder into an immutable Automaton, running the
// same invariant checks as BuildDFA/BuildNFA/BuildENFA.
func (b *Builder) Build() (*Automaton, error) {
	alphabet := make([]Symbol, 0, len(b.alphabet))
	for s := range b.alphabet {
		alphabet = append(alphabet, s)
	}
	switch b.variant {
	case KindDFA:
		if len(b.initial) != 1 {
			return nil, &InvalidAutomaton{Reason: "DFA requires exactly one initial state"}
		}
		return BuildDFA(b.states, alphabet, b.transitions, b.initial[0], b.final)
	case KindNFA:
		return BuildNFA(b.states, alphabet, b.transitions, b.initial, b.final)
	case KindENFA:
		return BuildENFA(b.states, alphabet, b.transitions, b.initial, b.final)
	default:
		return nil, &InvalidAutomaton{Reason: "unknown variant"}
	}
}
