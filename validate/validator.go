package validate

import (
	"regexp"

	"github.com/coregx/automaton"
)

// EntityKind is the closed set of types the registry dispatches on (§9:
// no type-hierarchy walk, a total match over a tagged variant).
type EntityKind int

const (
	EntityState EntityKind = iota
	EntityTransition
	EntityAutomaton
)

func (k EntityKind) String() string {
	switch k {
	case EntityState:
		return "State"
	case EntityTransition:
		return "Transition"
	case EntityAutomaton:
		return "Automaton"
	default:
		return "Unknown"
	}
}

// Validator produces a Result for a candidate value, given an optional
// context mapping (e.g. the owning Automaton, for cross-entity checks).
type Validator interface {
	Validate(value any, ctx map[string]any) Result
}

var symbolPattern = regexp.MustCompile(`^[\x21-\x7E]+$`) // printable, non-space ASCII

// StateValidator checks identifier pattern/length, kind tag presence, and
// metadata well-typing (§4.2).
type StateValidator struct{}

func (StateValidator) Validate(value any, _ map[string]any) Result {
	b := NewBuilder()
	s, ok := value.(automaton.State)
	if !ok {
		if p, ok := value.(*automaton.State); ok {
			s = *p
		} else {
			b.Error("", "value is not a State")
			return b.Build()
		}
	}
	if !automaton.IsValidStateID(s.ID) {
		b.Error(s.ID, "state identifier %q is empty, too long, or does not match ^[A-Za-z_][A-Za-z0-9_]*$", s.ID)
	}
	switch s.Kind {
	case automaton.StateInitial, automaton.StateFinal, automaton.StateIntermediate, automaton.StateInitialFinal:
	default:
		b.Error(s.ID, "unrecognized state kind %d", s.Kind)
	}
	validateMetadata(b, s.ID, s.Metadata)
	return b.Build()
}

// TransitionValidator checks endpoint presence, symbol length/character
// class, kind tag presence, and condition/action mappings (§4.2).
type TransitionValidator struct{}

func (TransitionValidator) Validate(value any, _ map[string]any) Result {
	b := NewBuilder()
	t, ok := value.(automaton.Transition)
	if !ok {
		if p, ok := value.(*automaton.Transition); ok {
			t = *p
		} else {
			b.Error("", "value is not a Transition")
			return b.Build()
		}
	}
	loc := t.From + "->" + t.To
	if t.From == "" || t.To == "" {
		b.Error(loc, "transition endpoints must be non-empty state ids")
	}
	if !t.IsEpsilon() {
		if len(t.Symbol) == 0 {
			b.Error(loc, "non-epsilon transition must carry a symbol")
		} else if len(t.Symbol) > 10 {
			b.Error(loc, "symbol %q exceeds max length 10", t.Symbol)
		} else if !symbolPattern.MatchString(string(t.Symbol)) {
			b.Error(loc, "symbol %q contains non-printable or whitespace characters", t.Symbol)
		}
	}
	switch t.Kind {
	case automaton.TransitionSymbol, automaton.TransitionEpsilon, automaton.TransitionConditional:
	default:
		b.Error(loc, "unrecognized transition kind %d", t.Kind)
	}
	validateMetadata(b, loc, t.Condition)
	validateMetadata(b, loc, t.Action)
	return b.Build()
}

// validateMetadata recursively checks that every value is a JSON
// scalar/array/object or nil.
func validateMetadata(b *Builder, loc string, m automaton.Metadata) {
	for k, v := range m {
		if !isJSONValue(v) {
			b.Error(loc, "metadata key %q has non-JSON-compatible value of type %T", k, v)
		}
	}
}

func isJSONValue(v any) bool {
	switch vv := v.(type) {
	case nil, bool, string, float64, float32,
		int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64:
		return true
	case []any:
		for _, e := range vv {
			if !isJSONValue(e) {
				return false
			}
		}
		return true
	case map[string]any:
		for _, e := range vv {
			if !isJSONValue(e) {
				return false
			}
		}
		return true
	default:
		return false
	}
}
