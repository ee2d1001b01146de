// Package balance implements the Balancing Engine (§4.6): structural,
// performance, and memory-oriented rebalancing strategies over an
// Automaton, each verified against the original's language before being
// returned, plus an auto-balance registry that picks the strategy with
// the largest projected improvement.
package balance

import (
	"math"

	"github.com/coregx/automaton"
)

// Metrics reports the structural and usage-weighted characteristics of
// an automaton that the balancing strategies optimize against (§4.6).
type Metrics struct {
	StateCount      int
	TransitionCount int

	OutDegreeMean     float64
	OutDegreeMin      int
	OutDegreeMax      int
	OutDegreeVariance float64

	// AccessFrequency maps state id to its relative visit frequency. When
	// no usage log is supplied, every state is assumed equally likely
	// (§4.6 "defaulting to uniform").
	AccessFrequency map[string]float64

	// TransitionFrequency maps a "from\x00symbol\x00to" key to its
	// relative usage, defaulting uniformly like AccessFrequency.
	TransitionFrequency map[string]float64

	MemoryEstimate int64

	// RecognitionComplexity is the weighted sum of out-degree times
	// access frequency across all states (§4.6): lower is cheaper to
	// recognize on average.
	RecognitionComplexity float64
}

// UsageLog optionally supplies observed per-state and per-transition
// visit counts (e.g. from a prior execution trace or simulation),
// overriding the uniform default.
type UsageLog struct {
	StateVisits      map[string]float64
	TransitionVisits map[string]float64
}

// Compute derives Metrics for a, using log for access/usage frequency if
// non-nil, otherwise assuming uniform frequency over states and
// transitions (§4.6).
func Compute(a *automaton.Automaton, log *UsageLog) Metrics {
	states := a.States()
	transitions := a.Transitions()

	outDegree := make(map[string]int, len(states))
	for _, id := range states {
		outDegree[id] = len(a.TransitionsFrom(id))
	}

	m := Metrics{
		StateCount:      len(states),
		TransitionCount: len(transitions),
	}

	if len(states) > 0 {
		sum, min, max := 0, outDegree[states[0]], outDegree[states[0]]
		for _, id := range states {
			d := outDegree[id]
			sum += d
			if d < min {
				min = d
			}
			if d > max {
				max = d
			}
		}
		m.OutDegreeMin = min
		m.OutDegreeMax = max
		m.OutDegreeMean = float64(sum) / float64(len(states))

		var variance float64
		for _, id := range states {
			diff := float64(outDegree[id]) - m.OutDegreeMean
			variance += diff * diff
		}
		m.OutDegreeVariance = variance / float64(len(states))
	}

	m.AccessFrequency = uniformOrLogged(states, func(id string) (float64, bool) {
		if log == nil || log.StateVisits == nil {
			return 0, false
		}
		v, ok := log.StateVisits[id]
		return v, ok
	})

	transKeys := make([]string, len(transitions))
	for i, t := range transitions {
		transKeys[i] = transitionKey(t)
	}
	m.TransitionFrequency = uniformOrLogged(transKeys, func(key string) (float64, bool) {
		if log == nil || log.TransitionVisits == nil {
			return 0, false
		}
		v, ok := log.TransitionVisits[key]
		return v, ok
	})

	m.MemoryEstimate = estimateMemory(a, outDegree)

	var complexity float64
	for _, id := range states {
		complexity += float64(outDegree[id]) * m.AccessFrequency[id]
	}
	m.RecognitionComplexity = complexity

	return m
}

func transitionKey(t automaton.Transition) string {
	return t.From + "\x00" + string(t.Symbol) + "\x00" + t.To
}

// uniformOrLogged builds a frequency map over keys: logged values if the
// lookup function reports one, otherwise 1/len(keys) for every key so
// frequencies still sum to 1.
func uniformOrLogged(keys []string, lookup func(string) (float64, bool)) map[string]float64 {
	out := make(map[string]float64, len(keys))
	if len(keys) == 0 {
		return out
	}
	uniform := 1.0 / float64(len(keys))
	anyLogged := false
	for _, k := range keys {
		if v, ok := lookup(k); ok {
			out[k] = v
			anyLogged = true
		} else {
			out[k] = uniform
		}
	}
	if !anyLogged {
		return out
	}
	// normalize logged entries so frequencies sum to 1, matching the
	// uniform case's scale.
	var total float64
	for _, v := range out {
		total += v
	}
	if total == 0 {
		return out
	}
	for k := range out {
		out[k] /= total
	}
	return out
}

// estimateMemory approximates per-state storage cost: a dense
// representation (one slot per alphabet symbol) or a sparse one (one
// entry per actual out-edge), whichever a real implementation would pick
// for that state's out-degree vs alphabet size — the same comparison the
// Memory strategy (§4.6) performs when choosing a representation.
func estimateMemory(a *automaton.Automaton, outDegree map[string]int) int64 {
	const slotCost = 8   // bytes per dense adjacency slot (state id reference)
	const sparseCost = 16 // bytes per sparse (symbol,target) pair

	alphabetSize := len(a.Alphabet())
	var total int64
	for _, id := range a.States() {
		d := outDegree[id]
		dense := int64(alphabetSize) * slotCost
		sparse := int64(d) * sparseCost
		total += int64(math.Min(float64(dense), float64(sparse)))
	}
	return total
}
