/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: witness.go
Description: Witnesses produced by the closedness and consistency checks. Each kind
says exactly how the table has to grow.
*/

package lstar

import "fmt"

// Witness is a reason the table is not yet ready for a hypothesis.
// It is implemented by *UnclosedWitness and *InconsistencyWitness only.
type Witness interface {
	witness()
	String() string
}

// UnclosedWitness is an extension s·a whose row no prefix in S has.
// Word is added to S.
type UnclosedWitness struct {
	Word Word `json:"word"`
}

func (*UnclosedWitness) witness() {}

func (w *UnclosedWitness) String() string {
	return fmt.Sprintf("unclosed: row(%s) matches no prefix", w.Word)
}

// InconsistencyWitness says row(S1) = row(S2) but row(S1·Symbol) and
// row(S2·Symbol) differ in the column of Suffix
type InconsistencyWitness struct {
	S1     Word   `json:"s1"`
	S2     Word   `json:"s2"`
	Symbol Symbol `json:"symbol"`
	Suffix Word   `json:"suffix"`
}

func (*InconsistencyWitness) witness() {}

// DistinguishingSuffix is the word Symbol·Suffix that is added to E
func (w *InconsistencyWitness) DistinguishingSuffix() Word {
	return Concat(Word(w.Symbol), w.Suffix)
}

func (w *InconsistencyWitness) String() string {
	return fmt.Sprintf("inconsistent: %s and %s split by %s at column %s", w.S1, w.S2, w.Symbol, w.Suffix)
}
