package validate

import (
	"sync"

	"github.com/coregx/automaton"
)

// Manager dispatches Validate calls to the validator registered for an
// EntityKind. The registry is installed at construction and treated as
// read-only thereafter (§5); RegisterValidator exists for callers who want
// to swap in custom validators before the manager is shared across
// goroutines, not for runtime reconfiguration.
type Manager struct {
	mu         sync.RWMutex
	validators map[EntityKind]Validator
}

// NewManager returns a Manager preloaded with the default State,
// Transition, and Automaton validators.
func NewManager() *Manager {
	m := &Manager{validators: make(map[EntityKind]Validator, 3)}
	m.RegisterValidator(EntityState, StateValidator{})
	m.RegisterValidator(EntityTransition, TransitionValidator{})
	m.RegisterValidator(EntityAutomaton, AutomatonValidator{})
	return m
}

// RegisterValidator installs v as the validator for kind, replacing any
// previous registration.
func (m *Manager) RegisterValidator(kind EntityKind, v Validator) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.validators[kind] = v
}

// Validate dispatches value to the validator registered for kind. It
// returns *automaton.NoValidatorForType if none is registered.
func (m *Manager) Validate(kind EntityKind, value any, ctx map[string]any) (Result, error) {
	m.mu.RLock()
	v, ok := m.validators[kind]
	m.mu.RUnlock()
	if !ok {
		return Result{}, &automaton.NoValidatorForType{TypeName: kind.String()}
	}
	return v.Validate(value, ctx), nil
}

// ValidateAll validates many values of the same kind and returns one
// Result per item, in order (§4.2's validate_all).
func (m *Manager) ValidateAll(kind EntityKind, values []any, ctx map[string]any) ([]Result, error) {
	m.mu.RLock()
	v, ok := m.validators[kind]
	m.mu.RUnlock()
	if !ok {
		return nil, &automaton.NoValidatorForType{TypeName: kind.String()}
	}
	out := make([]Result, len(values))
	for i, val := range values {
		out[i] = v.Validate(val, ctx)
	}
	return out, nil
}

// Validate is a package-level convenience that builds a throwaway Manager
// with the default validators and validates a single *automaton.Automaton.
// Matches the library API surface in §6 (`validate(value) -> ValidationResult`).
func Validate(a *automaton.Automaton) Result {
	r, _ := NewManager().Validate(EntityAutomaton, a, nil)
	return r
}
