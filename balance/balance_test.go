package balance

import (
	"testing"

	"github.com/coregx/automaton"
	"github.com/coregx/automaton/optimize"
)

func buildSample(t *testing.T) *automaton.Automaton {
	t.Helper()
	states := []automaton.State{
		{ID: "q0", Kind: automaton.StateInitial},
		{ID: "q1", Kind: automaton.StateIntermediate},
		{ID: "q2", Kind: automaton.StateFinal},
	}
	transitions := []automaton.Transition{
		{From: "q0", Symbol: "a", To: "q1"},
		{From: "q1", Symbol: "b", To: "q2"},
		{From: "q2", Symbol: "a", To: "q2"},
		{From: "q2", Symbol: "b", To: "q2"},
		{From: "q0", Symbol: "b", To: "q0"},
		{From: "q1", Symbol: "a", To: "q0"},
	}
	a, err := automaton.BuildDFA(states, []automaton.Symbol{"a", "b"}, transitions, "q0", []string{"q2"})
	if err != nil {
		t.Fatalf("BuildDFA: %v", err)
	}
	return a
}

func TestComputeMetricsUniform(t *testing.T) {
	a := buildSample(t)
	m := Compute(a, nil)
	if m.StateCount != 3 {
		t.Errorf("StateCount = %d, want 3", m.StateCount)
	}
	if m.TransitionCount != 6 {
		t.Errorf("TransitionCount = %d, want 6", m.TransitionCount)
	}
	var sum float64
	for _, f := range m.AccessFrequency {
		sum += f
	}
	if sum < 0.99 || sum > 1.01 {
		t.Errorf("AccessFrequency does not sum to ~1: got %v", sum)
	}
}

func TestStructuralStrategyPreservesLanguage(t *testing.T) {
	a := buildSample(t)
	s := StructuralStrategy{}
	result, err := s.Balance(a, nil, automaton.DefaultConfig())
	if err != nil {
		t.Fatalf("Balance: %v", err)
	}
	equivalent, err := languageEquivalent(a, result.Automaton)
	if err != nil {
		t.Fatalf("languageEquivalent: %v", err)
	}
	if !equivalent {
		t.Error("structural balancing changed the automaton's language")
	}
}

func TestMemoryStrategyPreservesLanguage(t *testing.T) {
	a := buildSample(t)
	s := MemoryStrategy{}
	result, err := s.Balance(a, nil, automaton.DefaultConfig())
	if err != nil {
		t.Fatalf("Balance: %v", err)
	}
	equivalent, err := languageEquivalent(a, result.Automaton)
	if err != nil {
		t.Fatalf("languageEquivalent: %v", err)
	}
	if !equivalent {
		t.Error("memory balancing changed the automaton's language")
	}
}

func TestPerformanceStrategyReordersHottestToFront(t *testing.T) {
	a := buildSample(t)
	log := &UsageLog{StateVisits: map[string]float64{"q0": 1, "q1": 1, "q2": 100}}
	s := PerformanceStrategy{Prefixes: []string{"ab", "b"}}
	out, err := s.BalanceWithFastPath(a, log, automaton.DefaultConfig())
	if err != nil {
		t.Fatalf("BalanceWithFastPath: %v", err)
	}
	equivalent, err := languageEquivalent(a, out.Automaton)
	if err != nil {
		t.Fatalf("languageEquivalent: %v", err)
	}
	if !equivalent {
		t.Error("performance balancing changed the automaton's language")
	}
	if !out.Automaton.IsFinal("s0") {
		t.Error("expected the hottest state q2 (the only final state) to be renamed s0")
	}
	if out.FastPath == nil {
		t.Error("expected a fast-path Aho-Corasick automaton to be built")
	}
}

func TestEngineAutoBalanceVerifiesEquivalence(t *testing.T) {
	a := buildSample(t)
	e := NewEngine(nil)
	result, err := e.Balance(a, "auto", nil, automaton.DefaultConfig())
	if err != nil {
		t.Fatalf("Balance: %v", err)
	}
	equivalent, err := languageEquivalent(a, result.Automaton)
	if err != nil {
		t.Fatalf("languageEquivalent: %v", err)
	}
	if !equivalent {
		t.Error("auto-balance produced a language-changing result")
	}
}

func TestEngineUnknownStrategy(t *testing.T) {
	a := buildSample(t)
	e := NewEngine(nil)
	_, err := e.Balance(a, "nonexistent", nil, automaton.DefaultConfig())
	if err == nil {
		t.Fatal("expected an error for an unregistered strategy name")
	}
	if _, ok := err.(*automaton.UnknownStrategy); !ok {
		t.Errorf("Balance with an unknown strategy name = %#v, want *automaton.UnknownStrategy", err)
	}
}

func TestEngineCachesResults(t *testing.T) {
	a := buildSample(t)
	cache := optimize.NewCache(8)
	e := NewEngine(cache)
	first, err := e.Balance(a, "structural", nil, automaton.DefaultConfig())
	if err != nil {
		t.Fatalf("Balance: %v", err)
	}
	second, err := e.Balance(a, "structural", nil, automaton.DefaultConfig())
	if err != nil {
		t.Fatalf("Balance: %v", err)
	}
	if first.Automaton.Fingerprint() != second.Automaton.Fingerprint() {
		t.Error("expected cached balance result to be reused")
	}
	if stats := cache.Stats(); stats.Hits != 1 {
		t.Errorf("expected exactly 1 cache hit, got %d", stats.Hits)
	}
}
