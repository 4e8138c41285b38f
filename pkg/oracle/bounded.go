/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: bounded.go
Description: Equivalence oracle that checks a hypothesis against a reference membership
oracle on every word up to a fixed length, in shortlex order. The first disagreement is
returned as the counterexample.
*/

package oracle

import (
	"context"
	"errors"
	"fmt"

	"github.com/kleascm/automator/pkg/lstar"
)

// DefaultDepth is the word length Bounded checks when none is set
const DefaultDepth = 6

// Bounded approximates equivalence by exhaustive testing up to Depth
type Bounded struct {
	Reference lstar.MembershipOracle
	Depth     int
}

// NewBounded creates a bounded equivalence oracle
func NewBounded(reference lstar.MembershipOracle, depth int) *Bounded {
	if depth <= 0 {
		depth = DefaultDepth
	}
	return &Bounded{Reference: reference, Depth: depth}
}

// Verify compares the hypothesis with the reference on all words up to Depth
func (b *Bounded) Verify(ctx context.Context, hypothesis *lstar.DFA) (lstar.Verdict, error) {
	if b.Reference == nil {
		return lstar.Verdict{}, errors.New("bounded equivalence: reference oracle is required")
	}
	if err := lstar.CheckWordCount(hypothesis.Alphabet, b.Depth); err != nil {
		return lstar.Verdict{}, fmt.Errorf("bounded equivalence: %w", err)
	}
	for w := range lstar.Words(hypothesis.Alphabet, b.Depth) {
		if err := ctx.Err(); err != nil {
			return lstar.Verdict{}, err
		}
		want, err := b.Reference.Ask(ctx, w)
		if err != nil {
			return lstar.Verdict{}, fmt.Errorf("reference query %s: %w", w, err)
		}
		got, err := hypothesis.Accepts(w)
		if err != nil {
			return lstar.Verdict{}, err
		}
		if got != want {
			return lstar.Reject(w), nil
		}
	}
	return lstar.Confirm(), nil
}
