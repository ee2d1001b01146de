package balance

import (
	"sort"

	"github.com/coregx/ahocorasick"
	"github.com/coregx/automaton"
)

// PrefixShortcut maps one hot input prefix straight to the DFA state it
// leads to from the initial state, letting a caller that recognizes the
// prefix (via the Aho-Corasick side-table) skip walking it symbol by
// symbol.
type PrefixShortcut struct {
	Prefix string
	State  string
}

// PerformanceResult extends Result with the fast-path side-table §4.6
// describes: an Aho-Corasick automaton over the top-k hottest input
// prefixes plus the shortcut each one resolves to.
type PerformanceResult struct {
	Result
	FastPath  *ahocorasick.Automaton
	Shortcuts []PrefixShortcut
}

// PerformanceStrategy sorts states by access frequency descending (so the
// hottest state lands at adjacency-list index 0) and builds a fast-path
// lookup for the top-k frequent input prefixes (§4.6), using
// ahocorasick.Automaton for the multi-pattern match that fast path needs.
type PerformanceStrategy struct {
	// Prefixes are candidate hot input prefixes ranked by observed
	// frequency, most frequent first (e.g. from a request log). Only a
	// DFA's behavior on each prefix can be precomputed into a shortcut, so
	// this strategy is a no-op on NFA/epsilon-NFA inputs beyond the
	// frequency-based reordering.
	Prefixes []string
}

func (PerformanceStrategy) Name() string { return "performance" }

func (p PerformanceStrategy) Balance(a *automaton.Automaton, log *UsageLog, cfg automaton.Config) (Result, error) {
	result, err := p.balance(a, log, cfg)
	if err != nil {
		return Result{}, err
	}
	return result.Result, nil
}

// BalanceWithFastPath runs the same transform as Balance but also returns
// the Aho-Corasick side-table, for callers that want to exploit it
// directly rather than through the Strategy interface.
func (p PerformanceStrategy) BalanceWithFastPath(a *automaton.Automaton, log *UsageLog, cfg automaton.Config) (PerformanceResult, error) {
	return p.balance(a, log, cfg)
}

func (p PerformanceStrategy) balance(a *automaton.Automaton, log *UsageLog, cfg automaton.Config) (PerformanceResult, error) {
	metrics := Compute(a, log)
	reordered, err := reorderByFrequency(a, metrics.AccessFrequency)
	if err != nil {
		return PerformanceResult{}, err
	}

	topK := cfg.BalancePerformanceTopK
	if topK <= 0 {
		topK = automaton.DefaultConfig().BalancePerformanceTopK
	}
	prefixes := topNPrefixes(p.Prefixes, topK)

	var fastPath *ahocorasick.Automaton
	var shortcuts []PrefixShortcut
	if a.Variant() == automaton.KindDFA && len(prefixes) > 0 {
		builder := ahocorasick.NewBuilder()
		for _, prefix := range prefixes {
			builder.AddPattern([]byte(prefix))
		}
		built, err := builder.Build()
		if err == nil {
			fastPath = built
			for _, prefix := range prefixes {
				if target, ok := resolveDFAPrefix(reordered, prefix); ok {
					shortcuts = append(shortcuts, PrefixShortcut{Prefix: prefix, State: target})
				}
			}
		}
	}

	out := PerformanceResult{
		Result:    Result{Automaton: reordered, Metrics: Compute(reordered, log), Strategy: "performance"},
		FastPath:  fastPath,
		Shortcuts: shortcuts,
	}
	return out, nil
}

func (p PerformanceStrategy) IsBalanced(a *automaton.Automaton, log *UsageLog) bool {
	result, err := p.Balance(a, log, automaton.DefaultConfig())
	if err != nil {
		return true
	}
	before := Compute(a, log)
	return result.Metrics.RecognitionComplexity <= before.RecognitionComplexity
}

// resolveDFAPrefix walks prefix from a's initial state and reports the
// state it lands on, if every symbol has a defined transition.
func resolveDFAPrefix(a *automaton.Automaton, prefix string) (string, bool) {
	cur := a.InitialState()
	for _, r := range prefix {
		sym := automaton.Symbol(string(r))
		found := false
		for _, t := range a.TransitionsFrom(cur, sym) {
			cur = t.To
			found = true
			break
		}
		if !found {
			return "", false
		}
	}
	return cur, true
}

func topNPrefixes(prefixes []string, n int) []string {
	if len(prefixes) <= n {
		return prefixes
	}
	out := make([]string, len(prefixes))
	copy(out, prefixes)
	return out[:n]
}

// reorderByFrequency renames states to "s0".."sN-1" sorted by descending
// access frequency, so "s0" is always the hottest state (§4.6).
func reorderByFrequency(a *automaton.Automaton, freq map[string]float64) (*automaton.Automaton, error) {
	ids := a.States()
	sort.Slice(ids, func(i, j int) bool {
		fi, fj := freq[ids[i]], freq[ids[j]]
		if fi != fj {
			return fi > fj
		}
		return ids[i] < ids[j]
	})

	rename := make(map[string]string, len(ids))
	for i, id := range ids {
		rename[id] = syntheticID(i)
	}

	var states []automaton.State
	for _, id := range ids {
		s, _ := a.State(id)
		s.ID = rename[id]
		states = append(states, s)
	}
	var transitions []automaton.Transition
	for _, t := range a.Transitions() {
		t.From = rename[t.From]
		t.To = rename[t.To]
		transitions = append(transitions, t)
	}
	var initials, finals []string
	for _, id := range a.InitialStates() {
		initials = append(initials, rename[id])
	}
	for _, id := range a.FinalStates() {
		finals = append(finals, rename[id])
	}

	return rebuildVariant(a.Variant(), states, a.Alphabet(), transitions, initials, finals)
}
