/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: hypothesis.go
Description: Hypothesis automaton synthesis. States are the distinct rows of S
(compared by value, first prefix wins as representative); the initial state is
row(ε), accepting states have a true ε column, and δ(row(s), a) = row(s·a).
*/

package lstar

import (
	"encoding/json"
	"fmt"
	"iter"
	"math"
	"math/bits"
	"slices"
	"strings"
)

// State is one state of a hypothesis automaton
type State struct {
	ID        int            `json:"id"`
	Access    Word           `json:"access"` // representative prefix
	Row       Row            `json:"row,omitempty"`
	Accepting bool           `json:"accepting"`
	Next      map[Symbol]int `json:"next"`
}

// DFA is a deterministic finite automaton over an Alphabet
type DFA struct {
	Alphabet Alphabet `json:"-"`
	States   []State  `json:"states"`
	Initial  int      `json:"initial"`
}

// BuildHypothesis synthesizes a DFA from a closed and consistent table.
// Calling it on any other table is a programming error and panics.
func BuildHypothesis(t *ObservationTable) *DFA {
	if w := t.FindUnclosed(); w != nil {
		panic(fmt.Sprintf("lstar: hypothesis from unclosed table (%s)", w))
	}
	if w := t.FindInconsistency(); w != nil {
		panic(fmt.Sprintf("lstar: hypothesis from inconsistent table (%s)", w))
	}

	epsCol := -1
	for i, e := range t.suffixes {
		if e == Epsilon {
			epsCol = i
			break
		}
	}
	if epsCol < 0 {
		panic("lstar: suffix set does not contain ε")
	}

	d := &DFA{Alphabet: t.alphabet}
	for _, s := range t.prefixes {
		row := t.mustRow(s)
		if _, ok := d.stateFor(row); ok {
			continue
		}
		d.States = append(d.States, State{
			ID:        len(d.States),
			Access:    s,
			Row:       row,
			Accepting: row[epsCol],
			Next:      make(map[Symbol]int, t.alphabet.Size()),
		})
	}

	for i := range d.States {
		for _, a := range t.alphabet.symbols {
			target, ok := d.stateFor(t.mustRow(d.States[i].Access.Append(a)))
			if !ok {
				panic(fmt.Sprintf("lstar: no state for row(%s)", d.States[i].Access.Append(a)))
			}
			d.States[i].Next[a] = target
		}
	}

	initial, ok := d.stateFor(t.mustRow(Epsilon))
	if !ok {
		panic("lstar: ε is not a prefix of the table")
	}
	d.Initial = initial
	return d
}

// stateFor finds the state whose row equals r by value
func (d *DFA) stateFor(r Row) (int, bool) {
	for i := range d.States {
		if RowsEqual(d.States[i].Row, r) {
			return i, true
		}
	}
	return -1, false
}

// Size returns the number of states
func (d *DFA) Size() int {
	return len(d.States)
}

// AcceptingStates returns the ids of accepting states in order
func (d *DFA) AcceptingStates() []int {
	var ids []int
	for _, s := range d.States {
		if s.Accepting {
			ids = append(ids, s.ID)
		}
	}
	return ids
}

// Next returns δ(state, a)
func (d *DFA) Next(state int, a Symbol) (int, bool) {
	if state < 0 || state >= len(d.States) {
		return -1, false
	}
	next, ok := d.States[state].Next[a]
	return next, ok
}

// Run follows w from the initial state and returns every visited state,
// starting with the initial one
func (d *DFA) Run(w Word) ([]int, error) {
	if err := d.Alphabet.Validate(w); err != nil {
		return nil, err
	}
	path := make([]int, 0, w.Len()+1)
	current := d.Initial
	path = append(path, current)
	for _, a := range w.Symbols() {
		next, ok := d.Next(current, a)
		if !ok {
			return nil, fmt.Errorf("state %d has no transition on %q", current, a)
		}
		current = next
		path = append(path, current)
	}
	return path, nil
}

// Accepts reports whether the automaton recognizes w
func (d *DFA) Accepts(w Word) (bool, error) {
	path, err := d.Run(w)
	if err != nil {
		return false, err
	}
	return d.States[path[len(path)-1]].Accepting, nil
}

// AcceptedWords lists the recognized words of length at most maxLen, in
// shortlex order
func (d *DFA) AcceptedWords(maxLen int) []Word {
	var accepted []Word
	for w := range Words(d.Alphabet, maxLen) {
		if ok, err := d.Accepts(w); err == nil && ok {
			accepted = append(accepted, w)
		}
	}
	return accepted
}

// MaxEnumeratedWords caps exhaustive walks over all words up to a length
const MaxEnumeratedWords uint64 = 1 << 24

// Words yields every word over the alphabet of length at most maxLen,
// shortest first and in alphabet order within a length. Words are built one
// at a time, so stopping early costs nothing.
func Words(alphabet Alphabet, maxLen int) iter.Seq[Word] {
	return func(yield func(Word) bool) {
		if maxLen < 0 || !yield(Epsilon) {
			return
		}
		k := len(alphabet.symbols)
		if k == 0 {
			return
		}
		var b strings.Builder
		for n := 1; n <= maxLen; n++ {
			// idx is an odometer over symbol positions, most significant first
			idx := make([]int, n)
			for {
				b.Reset()
				for _, i := range idx {
					b.WriteString(string(alphabet.symbols[i]))
				}
				if !yield(Word(b.String())) {
					return
				}
				pos := n - 1
				for ; pos >= 0; pos-- {
					idx[pos]++
					if idx[pos] < k {
						break
					}
					idx[pos] = 0
				}
				if pos < 0 {
					break
				}
			}
		}
	}
}

// WordCount returns how many words Words yields for maxLen, saturating at
// math.MaxUint64
func WordCount(alphabet Alphabet, maxLen int) uint64 {
	if maxLen < 0 {
		return 0
	}
	k := uint64(alphabet.Size())
	total, layer := uint64(1), uint64(1)
	for n := 1; n <= maxLen; n++ {
		hi, lo := bits.Mul64(layer, k)
		if hi != 0 {
			return math.MaxUint64
		}
		layer = lo
		sum, carry := bits.Add64(total, layer, 0)
		if carry != 0 {
			return math.MaxUint64
		}
		total = sum
	}
	return total
}

// CheckWordCount returns ErrTooManyWords when walking every word up to maxLen
// would exceed MaxEnumeratedWords
func CheckWordCount(alphabet Alphabet, maxLen int) error {
	if n := WordCount(alphabet, maxLen); n > MaxEnumeratedWords {
		return fmt.Errorf("%w: %d symbols up to length %d", ErrTooManyWords, alphabet.Size(), maxLen)
	}
	return nil
}

// Enumerate collects Words into a slice; only for small lengths
func Enumerate(alphabet Alphabet, maxLen int) []Word {
	return slices.Collect(Words(alphabet, maxLen))
}

// dfaJSON is the serialized form; the alphabet travels as a symbol list
type dfaJSON struct {
	Alphabet []Symbol `json:"alphabet"`
	States   []State  `json:"states"`
	Initial  int      `json:"initial"`
}

// MarshalJSON encodes the automaton with its alphabet
func (d *DFA) MarshalJSON() ([]byte, error) {
	return json.Marshal(dfaJSON{
		Alphabet: d.Alphabet.Symbols(),
		States:   d.States,
		Initial:  d.Initial,
	})
}

// UnmarshalJSON decodes and validates an automaton
func (d *DFA) UnmarshalJSON(data []byte) error {
	var raw dfaJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	alphabet, err := NewAlphabet(raw.Alphabet)
	if err != nil {
		return fmt.Errorf("automaton alphabet: %w", err)
	}
	if raw.Initial < 0 || raw.Initial >= len(raw.States) {
		return fmt.Errorf("initial state %d out of range", raw.Initial)
	}
	for i, s := range raw.States {
		if s.ID != i {
			return fmt.Errorf("state at index %d has id %d", i, s.ID)
		}
		for _, a := range alphabet.symbols {
			next, ok := s.Next[a]
			if !ok || next < 0 || next >= len(raw.States) {
				return fmt.Errorf("state %d: bad transition on %q", i, a)
			}
		}
	}
	d.Alphabet = alphabet
	d.States = raw.States
	d.Initial = raw.Initial
	return nil
}

// Transitions lists every transition sorted by source state then alphabet order
func (d *DFA) Transitions() []Transition {
	var out []Transition
	for _, s := range d.States {
		for _, a := range d.Alphabet.symbols {
			if next, ok := s.Next[a]; ok {
				out = append(out, Transition{From: s.ID, Symbol: a, To: next})
			}
		}
	}
	return out
}

// Transition is one edge of the automaton
type Transition struct {
	From   int    `json:"from"`
	Symbol Symbol `json:"symbol"`
	To     int    `json:"to"`
}
