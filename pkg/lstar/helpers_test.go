/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: helpers_test.go
Description: Scripted oracles shared by the lstar tests.
*/

package lstar_test

import (
	"context"
	"strings"
	"sync"

	"github.com/kleascm/automator/pkg/lstar"
)

// countingOracle answers from a predicate and records every external call
type countingOracle struct {
	mu     sync.Mutex
	accept func(lstar.Word) bool
	calls  map[lstar.Word]int
	order  []lstar.Word
}

func newCountingOracle(accept func(lstar.Word) bool) *countingOracle {
	return &countingOracle{accept: accept, calls: make(map[lstar.Word]int)}
}

func (o *countingOracle) Ask(_ context.Context, w lstar.Word) (bool, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.calls[w]++
	o.order = append(o.order, w)
	return o.accept(w), nil
}

func (o *countingOracle) total() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return len(o.order)
}

// exhaustiveEquivalence compares a hypothesis with the predicate on every
// word up to depth and returns the first mismatch
func exhaustiveEquivalence(alphabet lstar.Alphabet, accept func(lstar.Word) bool, depth int) lstar.EquivalenceFunc {
	return func(_ context.Context, h *lstar.DFA) (lstar.Verdict, error) {
		for _, w := range lstar.Enumerate(alphabet, depth) {
			got, err := h.Accepts(w)
			if err != nil {
				return lstar.Verdict{}, err
			}
			if got != accept(w) {
				return lstar.Reject(w), nil
			}
		}
		return lstar.Confirm(), nil
	}
}

func containsA(w lstar.Word) bool {
	return strings.Contains(string(w), "a")
}

func evenOnes(w lstar.Word) bool {
	return strings.Count(string(w), "1")%2 == 0
}

func aModThree(w lstar.Word) bool {
	return strings.Count(string(w), "a")%3 == 0
}
