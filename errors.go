package automaton

import (
	"errors"
	"fmt"
)

// Common sentinel errors. Concrete failures are wrapped in the typed
// errors below so callers can distinguish them with errors.As, but every
// wrapper also participates in errors.Is against these sentinels via
// Unwrap.
var (
	// ErrInvalidAutomaton indicates a constructed automaton violates one
	// of the I1-I6 invariants.
	ErrInvalidAutomaton = errors.New("automaton: invalid automaton")

	// ErrUnknownSymbol indicates a word contains a symbol outside the
	// automaton's alphabet.
	ErrUnknownSymbol = errors.New("automaton: unknown symbol")

	// ErrConversionTooLarge indicates subset construction exceeded its
	// configured state cap.
	ErrConversionTooLarge = errors.New("automaton: conversion too large")

	// ErrOperationTimeout indicates a deadline elapsed mid-operation.
	ErrOperationTimeout = errors.New("automaton: operation timeout")

	// ErrOperationCancelled indicates a cancellation token fired mid-operation.
	ErrOperationCancelled = errors.New("automaton: operation cancelled")

	// ErrOptimizationValidation indicates a post-transform equivalence
	// check failed. This should be unreachable; it indicates an engine bug.
	ErrOptimizationValidation = errors.New("automaton: optimization validation failed")

	// ErrNoValidatorForType indicates the validation registry has no
	// validator installed for a requested type.
	ErrNoValidatorForType = errors.New("automaton: no validator for type")

	// ErrBalancingValidation indicates the balancing engine's post-balance
	// equivalence check detected a language mismatch. This should be
	// unreachable; it indicates a balancing strategy bug.
	ErrBalancingValidation = errors.New("automaton: balancing validation failed")

	// ErrUnknownStrategy indicates a balancing request named a strategy
	// that isn't registered with the Engine.
	ErrUnknownStrategy = errors.New("automaton: unknown balancing strategy")
)

// InvalidAutomaton reports why a candidate automaton failed construction.
type InvalidAutomaton struct {
	Reason   string
	Location string // optional: state/transition id implicated, if any
}

func (e *InvalidAutomaton) Error() string {
	if e.Location != "" {
		return fmt.Sprintf("invalid automaton at %s: %s", e.Location, e.Reason)
	}
	return fmt.Sprintf("invalid automaton: %s", e.Reason)
}

func (e *InvalidAutomaton) Unwrap() error { return ErrInvalidAutomaton }

// UnknownSymbol reports a symbol encountered outside the alphabet during
// recognition.
type UnknownSymbol struct {
	Symbol   Symbol
	Position int
}

func (e *UnknownSymbol) Error() string {
	return fmt.Sprintf("unknown symbol %q at position %d", string(e.Symbol), e.Position)
}

func (e *UnknownSymbol) Unwrap() error { return ErrUnknownSymbol }

// ConversionTooLarge reports that subset construction (or a similar
// state-generating conversion) exceeded its configured cap.
type ConversionTooLarge struct {
	Limit    int
	Produced int
}

func (e *ConversionTooLarge) Error() string {
	return fmt.Sprintf("conversion produced %d states, exceeding limit %d", e.Produced, e.Limit)
}

func (e *ConversionTooLarge) Unwrap() error { return ErrConversionTooLarge }

// OperationTimeout reports the phase of a long-running transform that was
// still executing when its deadline elapsed.
type OperationTimeout struct {
	Phase string
}

func (e *OperationTimeout) Error() string {
	return fmt.Sprintf("operation timed out during %s", e.Phase)
}

func (e *OperationTimeout) Unwrap() error { return ErrOperationTimeout }

// OperationCancelled reports the phase of a long-running transform that
// observed a fired cancellation token.
type OperationCancelled struct {
	Phase string
}

func (e *OperationCancelled) Error() string {
	return fmt.Sprintf("operation cancelled during %s", e.Phase)
}

func (e *OperationCancelled) Unwrap() error { return ErrOperationCancelled }

// OptimizationValidationError reports that a post-transform equivalence
// check detected a language mismatch between input and output. Seeing
// this means the engine itself has a bug; it is not a user-input error.
// The balancing gate reports *BalancingValidationError instead, and no
// other transform in this module returns this error.
type OptimizationValidationError struct {
	Detail string
}

func (e *OptimizationValidationError) Error() string {
	return fmt.Sprintf("optimization validation failed: %s", e.Detail)
}

func (e *OptimizationValidationError) Unwrap() error { return ErrOptimizationValidation }

// NoValidatorForType reports that ValidationManager has no validator
// registered for the requested entity kind.
type NoValidatorForType struct {
	TypeName string
}

func (e *NoValidatorForType) Error() string {
	return fmt.Sprintf("no validator for kind %s", e.TypeName)
}

func (e *NoValidatorForType) Unwrap() error { return ErrNoValidatorForType }

// BalancingValidationError reports that the balancing engine's post-
// balance equivalence check (§4.6) found the balanced automaton's
// language differs from the original's. The caller-visible contract is
// that this never happens: balance() returns the original untouched
// rather than risk returning a silently corrupted automaton.
type BalancingValidationError struct {
	Detail string
}

func (e *BalancingValidationError) Error() string {
	return fmt.Sprintf("balancing validation failed: %s", e.Detail)
}

func (e *BalancingValidationError) Unwrap() error { return ErrBalancingValidation }

// UnknownStrategy reports that a balancing request named a strategy not
// registered with the Engine.
type UnknownStrategy struct {
	Name string
}

func (e *UnknownStrategy) Error() string {
	return fmt.Sprintf("unknown balancing strategy %q", e.Name)
}

func (e *UnknownStrategy) Unwrap() error { return ErrUnknownStrategy }
