/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: word.go
Description: Words, symbols and alphabets for the L* learner. Words are plain strings
of single-rune symbols, the empty word doubles as epsilon, and rows are compared
strictly by value.
*/

package lstar

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// EpsilonMark is how the empty word is written by humans and in reports
const EpsilonMark = "ε"

// Symbol is a single token of the alphabet (exactly one rune)
type Symbol string

// Word is a finite sequence of symbols
type Word string

// Epsilon is the empty word
const Epsilon Word = ""

// String renders the word, using ε for the empty word
func (w Word) String() string {
	if w == Epsilon {
		return EpsilonMark
	}
	return string(w)
}

// Len returns the number of symbols in the word
func (w Word) Len() int {
	return utf8.RuneCountInString(string(w))
}

// Symbols splits the word into its symbols
func (w Word) Symbols() []Symbol {
	symbols := make([]Symbol, 0, len(w))
	for _, r := range string(w) {
		symbols = append(symbols, Symbol(r))
	}
	return symbols
}

// Prefixes returns every non-empty prefix of the word, shortest first
func (w Word) Prefixes() []Word {
	prefixes := make([]Word, 0, len(w))
	for i := range string(w) {
		if i > 0 {
			prefixes = append(prefixes, w[:i])
		}
	}
	if w != Epsilon {
		prefixes = append(prefixes, w)
	}
	return prefixes
}

// Append returns the word extended by one symbol
func (w Word) Append(a Symbol) Word {
	return Concat(w, Word(a))
}

// ParseWord reads a word typed by a human; "ε" stands for the empty word
func ParseWord(s string) Word {
	s = strings.TrimSpace(s)
	if s == EpsilonMark {
		return Epsilon
	}
	return Word(s)
}

// Concat joins two words with epsilon as the identity element
func Concat(a, b Word) Word {
	if a == Epsilon {
		return b
	}
	if b == Epsilon {
		return a
	}
	return a + b
}

// Row is the ordered vector of membership answers for one prefix, aligned
// with the suffix set in its canonical order
type Row []bool

// RowsEqual compares two rows position by position
func RowsEqual(a, b Row) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// firstDifference returns the first index where the rows disagree, or -1
func firstDifference(a, b Row) int {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	for i := 0; i < n; i++ {
		if a[i] != b[i] {
			return i
		}
	}
	if len(a) != len(b) {
		return n
	}
	return -1
}

// Key encodes the row as a string of 0/1, usable as a map key
func (r Row) Key() string {
	var b strings.Builder
	b.Grow(len(r))
	for _, v := range r {
		if v {
			b.WriteByte('1')
		} else {
			b.WriteByte('0')
		}
	}
	return b.String()
}

// String renders the row the same way as Key
func (r Row) String() string {
	return r.Key()
}

// Alphabet is the fixed, ordered set of symbols of a learning session
type Alphabet struct {
	symbols []Symbol
	index   map[Symbol]int
}

// NewAlphabet validates the symbols and keeps them in the given order
func NewAlphabet(symbols []Symbol) (Alphabet, error) {
	if len(symbols) == 0 {
		return Alphabet{}, ErrEmptyAlphabet
	}
	a := Alphabet{
		symbols: make([]Symbol, 0, len(symbols)),
		index:   make(map[Symbol]int, len(symbols)),
	}
	for _, s := range symbols {
		if utf8.RuneCountInString(string(s)) != 1 {
			return Alphabet{}, fmt.Errorf("%w: %q", ErrInvalidSymbolLength, s)
		}
		if s == EpsilonMark {
			return Alphabet{}, fmt.Errorf("%w: %q denotes the empty word", ErrReservedSymbol, s)
		}
		if _, dup := a.index[s]; dup {
			return Alphabet{}, fmt.Errorf("%w: %q", ErrDuplicateSymbol, s)
		}
		a.index[s] = len(a.symbols)
		a.symbols = append(a.symbols, s)
	}
	return a, nil
}

// MustAlphabet is NewAlphabet for literals known to be valid
func MustAlphabet(symbols ...Symbol) Alphabet {
	a, err := NewAlphabet(symbols)
	if err != nil {
		panic(err)
	}
	return a
}

// ParseAlphabet reads a comma separated symbol list such as "a, b"
func ParseAlphabet(input string) (Alphabet, error) {
	var symbols []Symbol
	for _, part := range strings.Split(input, ",") {
		if part = strings.TrimSpace(part); part != "" {
			symbols = append(symbols, Symbol(part))
		}
	}
	return NewAlphabet(symbols)
}

// Symbols returns a copy of the symbols in order
func (a Alphabet) Symbols() []Symbol {
	out := make([]Symbol, len(a.symbols))
	copy(out, a.symbols)
	return out
}

// Size returns the number of symbols
func (a Alphabet) Size() int {
	return len(a.symbols)
}

// Contains reports whether s belongs to the alphabet
func (a Alphabet) Contains(s Symbol) bool {
	_, ok := a.index[s]
	return ok
}

// IndexOf returns the position of s, or -1
func (a Alphabet) IndexOf(s Symbol) int {
	if i, ok := a.index[s]; ok {
		return i
	}
	return -1
}

// Validate checks that every symbol of w belongs to the alphabet
func (a Alphabet) Validate(w Word) error {
	pos := 0
	for _, r := range string(w) {
		if !a.Contains(Symbol(r)) {
			return &SymbolError{Word: w, Symbol: Symbol(r), Position: pos}
		}
		pos++
	}
	return nil
}

// String renders the alphabet as {a, b}
func (a Alphabet) String() string {
	parts := make([]string, len(a.symbols))
	for i, s := range a.symbols {
		parts[i] = string(s)
	}
	return "{" + strings.Join(parts, ", ") + "}"
}

// WordSet is an insertion-ordered set of words. Column alignment of rows
// depends on this order, so it is never replaced by a map iteration.
type WordSet struct {
	words []Word
	index map[Word]struct{}
}

// NewWordSet creates a set holding the given words in order
func NewWordSet(words ...Word) *WordSet {
	ws := &WordSet{index: make(map[Word]struct{})}
	for _, w := range words {
		ws.Add(w)
	}
	return ws
}

// Add appends w if absent and reports whether it was added
func (ws *WordSet) Add(w Word) bool {
	if _, ok := ws.index[w]; ok {
		return false
	}
	ws.index[w] = struct{}{}
	ws.words = append(ws.words, w)
	return true
}

// Contains reports whether w is in the set
func (ws *WordSet) Contains(w Word) bool {
	_, ok := ws.index[w]
	return ok
}

// Len returns the number of words
func (ws *WordSet) Len() int {
	return len(ws.words)
}

// Words returns a snapshot of the words in insertion order
func (ws *WordSet) Words() []Word {
	out := make([]Word, len(ws.words))
	copy(out, ws.words)
	return out
}
