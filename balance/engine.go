package balance

import (
	"github.com/coregx/automaton"
	"github.com/coregx/automaton/convert"
	"github.com/coregx/automaton/optimize"
)

// Engine holds a name-to-strategy registry (§4.6) and runs the equivalence-
// verification gate after every balance.
type Engine struct {
	strategies map[string]Strategy
	cache      *optimize.Cache
}

// NewEngine returns an Engine pre-registered with the structural,
// performance, and memory strategies, sharing cache for balanced results
// keyed by automaton fingerprint (§4.6 "All results cached by
// fingerprint"). A nil cache disables caching.
func NewEngine(cache *optimize.Cache) *Engine {
	e := &Engine{strategies: make(map[string]Strategy), cache: cache}
	e.Register(StructuralStrategy{})
	e.Register(PerformanceStrategy{})
	e.Register(MemoryStrategy{})
	return e
}

// Register installs or replaces a named strategy.
func (e *Engine) Register(s Strategy) {
	e.strategies[s.Name()] = s
}

// Balance runs the named strategy (or "auto" to pick the one with the
// largest projected improvement ratio) and verifies the result is
// language-equivalent to the input before returning it, per §4.6's
// correctness gate. On a verification failure it returns
// *automaton.BalancingValidationError and the original automaton,
// untouched.
func (e *Engine) Balance(a *automaton.Automaton, name string, log *UsageLog, cfg automaton.Config) (Result, error) {
	if e.cache != nil {
		key := optimize.CacheKey{Operation: "balance:" + name, Fingerprint: a.Fingerprint()}
		if v, ok := e.cache.Get(key); ok {
			cached := v.(Result)
			cached.Stats.CacheHits, cached.Stats.CacheMisses = 1, 0
			return cached, nil
		}
	}

	strategy, err := e.resolve(a, name, log, cfg)
	if err != nil {
		return Result{}, err
	}

	result, err := strategy.Balance(a, log, cfg)
	if err != nil {
		return Result{}, err
	}
	result.Stats.StatesVisited = uint64(len(result.Automaton.States()))
	if e.cache != nil {
		result.Stats.CacheMisses = 1
	}

	equivalent, err := languageEquivalent(a, result.Automaton)
	if err != nil {
		return Result{}, err
	}
	if !equivalent {
		return Result{Automaton: a, Metrics: Compute(a, log), Strategy: "none"},
			&automaton.BalancingValidationError{Detail: "balanced automaton's language differs from the input's"}
	}

	if e.cache != nil {
		key := optimize.CacheKey{Operation: "balance:" + name, Fingerprint: a.Fingerprint()}
		e.cache.Set(key, result)
	}
	return result, nil
}

// resolve picks strategy name, or for "auto" runs every registered
// strategy and keeps the one with the best projected improvement ratio
// (lowest resulting RecognitionComplexity relative to the current value).
func (e *Engine) resolve(a *automaton.Automaton, name string, log *UsageLog, cfg automaton.Config) (Strategy, error) {
	if name != "auto" {
		s, ok := e.strategies[name]
		if !ok {
			return nil, &automaton.UnknownStrategy{Name: name}
		}
		return s, nil
	}

	before := Compute(a, log)
	var best Strategy
	bestRatio := 1.0
	for _, s := range e.strategies {
		result, err := s.Balance(a, log, cfg)
		if err != nil {
			continue
		}
		ratio := improvementRatio(before, result.Metrics)
		if best == nil || ratio < bestRatio {
			best = s
			bestRatio = ratio
		}
	}
	if best == nil {
		return nil, &automaton.InvalidAutomaton{Reason: "no balancing strategy produced a result"}
	}
	return best, nil
}

// improvementRatio is the balanced automaton's recognition complexity
// divided by the original's, so lower is better. Since a generic Strategy
// doesn't expose which metric it targets, auto-selection uses recognition
// complexity uniformly for all three strategies rather than each
// strategy's own metric (variance, memory estimate).
func improvementRatio(before, after Metrics) float64 {
	if before.RecognitionComplexity == 0 {
		return 1.0
	}
	return after.RecognitionComplexity / before.RecognitionComplexity
}

// languageEquivalent determinizes and minimizes both automata to
// canonical DFAs and compares them structurally with sameStructure, which
// pairs states by walking both automata in lockstep from their initial
// states rather than by id, so the renamed ids a balancing strategy
// produces do not cause a false mismatch.
func languageEquivalent(a, b *automaton.Automaton) (bool, error) {
	da, err := toDFA(a)
	if err != nil {
		return false, err
	}
	db, err := toDFA(b)
	if err != nil {
		return false, err
	}
	ma, _, err := optimize.Minimize(da, automaton.Background())
	if err != nil {
		return false, err
	}
	mb, _, err := optimize.Minimize(db, automaton.Background())
	if err != nil {
		return false, err
	}
	return sameStructure(ma, mb), nil
}

func toDFA(a *automaton.Automaton) (*automaton.Automaton, error) {
	if a.Variant() == automaton.KindDFA {
		return a, nil
	}
	dfa, _, err := convert.Determinize(a, automaton.DefaultConfig(), automaton.Background())
	return dfa, err
}

// sameStructure compares two minimized DFAs for isomorphism, walking both
// in lockstep from their initial states so state-id differences (e.g.
// from a renaming balancing strategy) don't cause a false mismatch.
func sameStructure(a, b *automaton.Automaton) bool {
	if len(a.States()) != len(b.States()) || len(a.Alphabet()) != len(b.Alphabet()) {
		return false
	}
	alphabetA, alphabetB := a.Alphabet(), b.Alphabet()
	for i := range alphabetA {
		if alphabetA[i] != alphabetB[i] {
			return false
		}
	}

	mapping := map[string]string{}
	reverse := map[string]string{}
	queue := [][2]string{{a.InitialState(), b.InitialState()}}
	mapping[a.InitialState()] = b.InitialState()
	reverse[b.InitialState()] = a.InitialState()

	for len(queue) > 0 {
		pair := queue[0]
		queue = queue[1:]
		pa, pb := pair[0], pair[1]
		if a.IsFinal(pa) != b.IsFinal(pb) {
			return false
		}
		for _, sym := range alphabetA {
			ta, okA := firstTarget(a, pa, sym)
			tb, okB := firstTarget(b, pb, sym)
			if okA != okB {
				return false
			}
			if !okA {
				continue
			}
			if mapped, seen := mapping[ta]; seen {
				if mapped != tb {
					return false
				}
				continue
			}
			if _, seen := reverse[tb]; seen {
				return false
			}
			mapping[ta] = tb
			reverse[tb] = ta
			queue = append(queue, [2]string{ta, tb})
		}
	}
	return true
}

func firstTarget(a *automaton.Automaton, id string, sym automaton.Symbol) (string, bool) {
	for _, t := range a.TransitionsFrom(id, sym) {
		return t.To, true
	}
	return "", false
}
