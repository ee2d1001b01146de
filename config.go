package automaton

import (
	"context"
	"time"
)

// Config controls limits and defaults shared by the conversion,
// optimization, and balancing engines. There is no global configuration:
// every long-running operation takes an explicit Config (or uses
// DefaultConfig()), so concurrent callers never contend over shared
// tunables.
type Config struct {
	// MaxSubsetStates caps the number of DFA states subset construction
	// (§4.4) may generate before failing with ConversionTooLarge instead
	// of running away toward the theoretical 2^N worst case.
	// Default: 1 << 20.
	MaxSubsetStates int

	// IncrementalDirtyThreshold is the fraction (0-1] of partition classes
	// that may be marked dirty before incremental minimization (§4.5.4)
	// gives up and falls back to a full Hopcroft run.
	// Default: 0.5.
	IncrementalDirtyThreshold float64

	// ResultCacheCapacity is the number of entries kept by the shared
	// optimization/balancing result cache (§4.5.5) before LRU eviction.
	// Default: 1024.
	ResultCacheCapacity int

	// BalancePerformanceTopK is the number of hottest input prefixes the
	// Performance balancing strategy (§4.6) indexes into its Aho-Corasick
	// fast-path side-table.
	// Default: 32.
	BalancePerformanceTopK int
}

// DefaultConfig returns a Config with the defaults documented on each
// field above.
func DefaultConfig() Config {
	return Config{
		MaxSubsetStates:           1 << 20,
		IncrementalDirtyThreshold: 0.5,
		ResultCacheCapacity:       1024,
		BalancePerformanceTopK:    32,
	}
}

// CancellationToken is checked by long-running transforms between
// refinement iterations and on each new subset-construction state (§5).
// A context.Context satisfies this interface directly; Background()
// returns a token that never cancels.
type CancellationToken interface {
	// Done returns a channel that is closed when the operation should stop.
	Done() <-chan struct{}
	// Err returns context.Canceled/context.DeadlineExceeded (or nil) once
	// Done is closed.
	Err() error
}

// Background returns a CancellationToken that never fires.
func Background() CancellationToken {
	return context.Background()
}

// WithDeadline returns a CancellationToken that fires when d elapses, plus
// a cancel function the caller must eventually invoke to release timer
// resources.
func WithDeadline(d time.Duration) (CancellationToken, context.CancelFunc) {
	return context.WithTimeout(context.Background(), d)
}

// CheckCancelled returns an *OperationCancelled or *OperationTimeout for
// phase if tok has fired, or nil otherwise. Long-running transforms
// (Minimize's worklist loop, Determinize's subset expansion, ...) call
// this between iterations so a deadline's expiry surfaces as the
// recoverable *OperationTimeout §7 documents rather than being collapsed
// into *OperationCancelled.
func CheckCancelled(tok CancellationToken, phase string) error {
	if tok == nil {
		return nil
	}
	select {
	case <-tok.Done():
		if tok.Err() == context.DeadlineExceeded {
			return &OperationTimeout{Phase: phase}
		}
		return &OperationCancelled{Phase: phase}
	default:
		return nil
	}
}

// Stats accumulates lightweight, non-authoritative operation counters
// attached to transform results (states visited, cache hits/misses,
// partition splits). They are informational only and never affect
// correctness.
type Stats struct {
	StatesVisited   uint64
	CacheHits       uint64
	CacheMisses     uint64
	PartitionSplits uint64
}
