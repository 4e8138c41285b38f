/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: errors.go
Description: Error taxonomy of the L* learner. Malformed input from the outside
(alphabets, counterexamples) is rejected with these errors before it can touch
the prefix set, the suffix set or the membership cache.
*/

package lstar

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyAlphabet is returned when an alphabet has no symbols
	ErrEmptyAlphabet = errors.New("alphabet is empty")
	// ErrInvalidSymbolLength is returned for alphabet entries that are not a single rune
	ErrInvalidSymbolLength = errors.New("symbol must be exactly one character")
	// ErrDuplicateSymbol is returned when an alphabet lists a symbol twice
	ErrDuplicateSymbol = errors.New("duplicate symbol in alphabet")
	// ErrInvalidSymbol is returned when a word uses a symbol outside the alphabet
	ErrInvalidSymbol = errors.New("symbol not in alphabet")
	// ErrEmptyCounterexample is returned when a rejection carries no word
	ErrEmptyCounterexample = errors.New("counterexample is empty")
	// ErrNotAwaitingVerdict is returned when a counterexample arrives while no
	// hypothesis is pending
	ErrNotAwaitingVerdict = errors.New("learner is not awaiting a verdict")
	// ErrTooManyWords is returned when an exhaustive walk over all words up to a
	// length would exceed MaxEnumeratedWords
	ErrTooManyWords = errors.New("too many words to enumerate")
	// ErrReservedSymbol is returned for alphabet symbols that collide with the
	// written form of the empty word
	ErrReservedSymbol = errors.New("symbol is reserved")
	// ErrOracleUnavailable may be wrapped by oracles that cannot answer right now.
	// The learner leaves its state untouched and can be resumed.
	ErrOracleUnavailable = errors.New("oracle unavailable")
)

// SymbolError reports the first offending symbol of a word
type SymbolError struct {
	Word     Word
	Symbol   Symbol
	Position int
}

func (e *SymbolError) Error() string {
	return fmt.Sprintf("symbol %q at position %d of %q is not in the alphabet", e.Symbol, e.Position, e.Word)
}

// Unwrap lets errors.Is match ErrInvalidSymbol
func (e *SymbolError) Unwrap() error {
	return ErrInvalidSymbol
}
