/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: oracle.go
Description: Boundary contracts of the learner. Membership and equivalence oracles are
injected capabilities that may block for as long as the answering party needs;
renderers are presentation-only sinks.
*/

package lstar

import "context"

// MembershipOracle answers whether a word belongs to the target language.
// Answers must be truthful and stable for the whole session.
type MembershipOracle interface {
	Ask(ctx context.Context, word Word) (bool, error)
}

// MembershipFunc adapts a plain function to MembershipOracle
type MembershipFunc func(ctx context.Context, word Word) (bool, error)

// Ask calls f
func (f MembershipFunc) Ask(ctx context.Context, word Word) (bool, error) {
	return f(ctx, word)
}

// Verdict is the answer to an equivalence query
type Verdict struct {
	Confirmed      bool `json:"confirmed"`
	Counterexample Word `json:"counterexample,omitempty"`
}

// Confirm is the verdict accepting a hypothesis
func Confirm() Verdict {
	return Verdict{Confirmed: true}
}

// Reject is the verdict refuting a hypothesis with a counterexample
func Reject(counterexample Word) Verdict {
	return Verdict{Counterexample: counterexample}
}

// EquivalenceOracle decides whether a hypothesis recognizes the target language
type EquivalenceOracle interface {
	Verify(ctx context.Context, hypothesis *DFA) (Verdict, error)
}

// EquivalenceFunc adapts a plain function to EquivalenceOracle
type EquivalenceFunc func(ctx context.Context, hypothesis *DFA) (Verdict, error)

// Verify calls f
func (f EquivalenceFunc) Verify(ctx context.Context, hypothesis *DFA) (Verdict, error) {
	return f(ctx, hypothesis)
}

// Renderer displays an automaton. No learner logic depends on it.
type Renderer interface {
	Show(dfa *DFA) error
}
