package balance

import (
	"fmt"
	"sort"

	"github.com/coregx/automaton"
)

// MemoryStrategy deduplicates identical metadata maps across states and
// transitions, and reports whether a state's out-edges would be cheaper
// to store densely or sparsely at the given alphabet size (§4.6). The
// automaton's actual in-memory layout is Go's own map-based
// representation regardless of this strategy's output; what the
// strategy can change without touching Automaton's internals is the
// Metadata sharing, which is the only identity-bearing, genuinely
// duplicable weight on a built automaton.
type MemoryStrategy struct{}

func (MemoryStrategy) Name() string { return "memory" }

func (m MemoryStrategy) Balance(a *automaton.Automaton, log *UsageLog, _ automaton.Config) (Result, error) {
	deduped, err := dedupeMetadata(a)
	if err != nil {
		return Result{}, err
	}
	return Result{Automaton: deduped, Metrics: Compute(deduped, log), Strategy: m.Name()}, nil
}

func (m MemoryStrategy) IsBalanced(a *automaton.Automaton, log *UsageLog) bool {
	result, err := m.Balance(a, log, automaton.DefaultConfig())
	if err != nil {
		return true
	}
	before := Compute(a, log)
	return result.Metrics.MemoryEstimate <= before.MemoryEstimate
}

// RepresentationHint reports whether state id's out-edges are cheaper to
// store as a dense per-symbol array or a sparse (symbol,target) list,
// given the automaton's alphabet size, per §4.6's "switches dense
// adjacency representation to sparse (or vice versa) per state based on
// out-degree vs alphabet size".
func RepresentationHint(a *automaton.Automaton, id string) string {
	outDegree := len(a.TransitionsFrom(id))
	alphabetSize := len(a.Alphabet())
	// dense costs one slot per symbol; sparse costs ~2 slots per edge
	// (symbol + target). Sparse wins once out-degree drops below half
	// the alphabet size.
	if alphabetSize == 0 || outDegree*2 < alphabetSize {
		return "sparse"
	}
	return "dense"
}

// dedupeMetadata rewrites every state/transition's Metadata to point at a
// single shared map for each distinct canonical content, so repeated
// identical metadata (a common case when automata are generated
// programmatically) is stored once.
func dedupeMetadata(a *automaton.Automaton) (*automaton.Automaton, error) {
	canon := make(map[string]automaton.Metadata)
	dedupe := func(m automaton.Metadata) automaton.Metadata {
		if len(m) == 0 {
			return m
		}
		key := metadataKey(m)
		if existing, ok := canon[key]; ok {
			return existing
		}
		canon[key] = m
		return m
	}

	var states []automaton.State
	for _, id := range a.States() {
		s, _ := a.State(id)
		s.Metadata = dedupe(s.Metadata)
		states = append(states, s)
	}
	var transitions []automaton.Transition
	for _, t := range a.Transitions() {
		t.Condition = dedupe(t.Condition)
		t.Action = dedupe(t.Action)
		transitions = append(transitions, t)
	}

	return rebuildVariant(a.Variant(), states, a.Alphabet(), transitions, a.InitialStates(), a.FinalStates())
}

// metadataKey canonicalizes a Metadata map's content for dedup lookup.
// Metadata values are JSON-scalar/array/object/nil (§3), so fmt's %v
// rendering over sorted keys is a stable enough fingerprint for this
// cache, which only needs to group byte-identical metadata, not compare
// semantically equal-but-differently-typed values.
func metadataKey(m automaton.Metadata) string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	out := ""
	for _, k := range keys {
		out += k + "=" + stringify(m[k]) + ";"
	}
	return out
}

func stringify(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprintf("%v", v)
}
