/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: hypothesis_test.go
Description: Tests for hypothesis synthesis, word evaluation, enumeration and the
JSON form of automata.
*/

package lstar_test

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/kleascm/automator/pkg/lstar"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestBuildHypothesisDeduplicatesRows tests that equal rows collapse into one state
func TestBuildHypothesisDeduplicatesRows(t *testing.T) {
	alphabet := lstar.MustAlphabet("a", "b")
	// "b" and ε share a row, "aa" and "a" share a row
	table := buildTable(t, alphabet, containsA, []lstar.Word{lstar.Epsilon, "a", "b", "aa"}, []lstar.Word{lstar.Epsilon})
	require.True(t, table.IsClosed())
	require.True(t, table.IsConsistent())

	dfa := lstar.BuildHypothesis(table)
	require.Equal(t, 2, dfa.Size())

	// First occurrence is the representative
	assert.Equal(t, lstar.Epsilon, dfa.States[0].Access)
	assert.Equal(t, lstar.Word("a"), dfa.States[1].Access)
	assert.Equal(t, 0, dfa.Initial)
	assert.Equal(t, []int{1}, dfa.AcceptingStates())
}

// TestBuildHypothesisPanicsOnUnclosedTable tests the precondition guard
func TestBuildHypothesisPanicsOnUnclosedTable(t *testing.T) {
	table := buildTable(t, lstar.MustAlphabet("a", "b"), containsA, []lstar.Word{lstar.Epsilon}, []lstar.Word{lstar.Epsilon})
	assert.Panics(t, func() { lstar.BuildHypothesis(table) })
}

// TestDFAAccepts tests word evaluation and path tracking
func TestDFAAccepts(t *testing.T) {
	alphabet := lstar.MustAlphabet("0", "1")
	table := buildTable(t, alphabet, evenOnes, []lstar.Word{lstar.Epsilon, "1"}, []lstar.Word{lstar.Epsilon})
	dfa := lstar.BuildHypothesis(table)

	for _, w := range lstar.Enumerate(alphabet, 5) {
		got, err := dfa.Accepts(w)
		require.NoError(t, err)
		assert.Equal(t, evenOnes(w), got, "word %s", w)
	}

	path, err := dfa.Run("101")
	require.NoError(t, err)
	assert.Equal(t, []int{0, 1, 1, 0}, path)

	_, err = dfa.Accepts("12")
	assert.ErrorIs(t, err, lstar.ErrInvalidSymbol)
}

// TestEnumerateShortlex tests word enumeration order and size
func TestEnumerateShortlex(t *testing.T) {
	alphabet := lstar.MustAlphabet("a", "b")
	words := lstar.Enumerate(alphabet, 2)
	assert.Equal(t, []lstar.Word{lstar.Epsilon, "a", "b", "aa", "ab", "ba", "bb"}, words)
	assert.Len(t, lstar.Enumerate(alphabet, 3), 15)
	assert.Equal(t, []lstar.Word{lstar.Epsilon}, lstar.Enumerate(alphabet, 0))
	assert.Nil(t, lstar.Enumerate(alphabet, -1))
}

// TestWordsLazy tests that the word walk can stop early and matches Enumerate
func TestWordsLazy(t *testing.T) {
	alphabet := lstar.MustAlphabet("a", "b", "c", "d")

	var first []lstar.Word
	for w := range lstar.Words(alphabet, 16) {
		first = append(first, w)
		if len(first) == 6 {
			break
		}
	}
	assert.Equal(t, []lstar.Word{lstar.Epsilon, "a", "b", "c", "d", "aa"}, first)

	small := lstar.MustAlphabet("a", "b")
	var walked []lstar.Word
	for w := range lstar.Words(small, 3) {
		walked = append(walked, w)
	}
	assert.Equal(t, lstar.Enumerate(small, 3), walked)
	assert.Equal(t, lstar.Word("bbb"), walked[len(walked)-1])
}

// TestWordCount tests the size of word spaces and the enumeration cap
func TestWordCount(t *testing.T) {
	binary := lstar.MustAlphabet("0", "1")
	assert.Equal(t, uint64(0), lstar.WordCount(binary, -1))
	assert.Equal(t, uint64(1), lstar.WordCount(binary, 0))
	assert.Equal(t, uint64(15), lstar.WordCount(binary, 3))
	assert.Equal(t, uint64(32767), lstar.WordCount(binary, 14))
	assert.NoError(t, lstar.CheckWordCount(binary, 14))

	quaternary := lstar.MustAlphabet("a", "b", "c", "d")
	assert.Equal(t, uint64(5592405), lstar.WordCount(quaternary, 11))
	assert.NoError(t, lstar.CheckWordCount(quaternary, 11))
	assert.ErrorIs(t, lstar.CheckWordCount(quaternary, 16), lstar.ErrTooManyWords)

	symbols := make([]lstar.Symbol, 0, 26)
	for r := 'a'; r <= 'z'; r++ {
		symbols = append(symbols, lstar.Symbol(string(r)))
	}
	assert.Equal(t, uint64(math.MaxUint64), lstar.WordCount(lstar.MustAlphabet(symbols...), 100))
}

// TestAcceptedWords tests listing of recognized short words
func TestAcceptedWords(t *testing.T) {
	alphabet := lstar.MustAlphabet("a", "b")
	table := buildTable(t, alphabet, containsA, []lstar.Word{lstar.Epsilon, "a"}, []lstar.Word{lstar.Epsilon})
	dfa := lstar.BuildHypothesis(table)

	assert.Equal(t, []lstar.Word{"a", "aa", "ab", "ba"}, dfa.AcceptedWords(2))
}

// TestDFAJSON tests that an automaton survives a save and load
func TestDFAJSON(t *testing.T) {
	alphabet := lstar.MustAlphabet("0", "1")
	table := buildTable(t, alphabet, evenOnes, []lstar.Word{lstar.Epsilon, "1"}, []lstar.Word{lstar.Epsilon})
	dfa := lstar.BuildHypothesis(table)

	data, err := json.Marshal(dfa)
	require.NoError(t, err)

	var loaded lstar.DFA
	require.NoError(t, json.Unmarshal(data, &loaded))
	assert.Equal(t, alphabet.Symbols(), loaded.Alphabet.Symbols())
	assert.Equal(t, dfa.Transitions(), loaded.Transitions())

	ok, err := loaded.Accepts("1001")
	require.NoError(t, err)
	assert.True(t, ok)
}

// TestDFAJSONRejectsBrokenAutomata tests validation on load
func TestDFAJSONRejectsBrokenAutomata(t *testing.T) {
	cases := map[string]string{
		"empty alphabet":     `{"alphabet":[],"states":[{"id":0,"accepting":true,"next":{}}],"initial":0}`,
		"initial range":      `{"alphabet":["a"],"states":[{"id":0,"next":{"a":0}}],"initial":3}`,
		"missing transition": `{"alphabet":["a","b"],"states":[{"id":0,"next":{"a":0}}],"initial":0}`,
		"dangling target":    `{"alphabet":["a"],"states":[{"id":0,"next":{"a":7}}],"initial":0}`,
	}
	for name, raw := range cases {
		t.Run(name, func(t *testing.T) {
			var d lstar.DFA
			assert.Error(t, json.Unmarshal([]byte(raw), &d))
		})
	}
}
