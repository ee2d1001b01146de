package automaton

// SymbolIndex maps an automaton's alphabet to dense, cache-friendly small
// integers. This generalizes the teacher's byte-equivalence-class
// technique (nfa.ByteClasses): there, 256 possible bytes are folded into
// the handful of classes a DFA actually distinguishes; here, an arbitrary
// string alphabet is folded into 0..N-1 so the minimizer and subset
// constructor can index partition/transition tables by plain arrays
// instead of hashing a string on every lookup.
type SymbolIndex struct {
	bySymbol map[Symbol]int
	symbols  []Symbol // index -> symbol, same order as Automaton.Alphabet()
}

// NewSymbolIndex builds a SymbolIndex over a's alphabet.
func NewSymbolIndex(a *Automaton) *SymbolIndex {
	alpha := a.Alphabet()
	idx := &SymbolIndex{
		bySymbol: make(map[Symbol]int, len(alpha)),
		symbols:  alpha,
	}
	for i, sym := range alpha {
		idx.bySymbol[sym] = i
	}
	return idx
}

// Len returns the number of distinct symbols.
func (si *SymbolIndex) Len() int { return len(si.symbols) }

// Index returns the dense index for sym and whether it was found.
func (si *SymbolIndex) Index(sym Symbol) (int, bool) {
	i, ok := si.bySymbol[sym]
	return i, ok
}

// Symbol returns the alphabet symbol for a dense index.
func (si *SymbolIndex) Symbol(i int) Symbol { return si.symbols[i] }
