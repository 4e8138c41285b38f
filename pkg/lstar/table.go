/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: table.go
Description: Observation table of the L* learner. The table is rebuilt from scratch
every round from snapshots of S and E; the membership cache makes the repeated
queries free, and a fresh table never carries stale rows.
*/

package lstar

import (
	"context"
	"fmt"
)

// QueryFunc answers a membership query, typically QueryAdapter.Query
type QueryFunc func(ctx context.Context, w Word) (bool, error)

// ObservationTable maps every word of S ∪ S·Σ to its row over E
type ObservationTable struct {
	alphabet Alphabet
	prefixes []Word
	suffixes []Word
	// extensions lists S·Σ in build order, excluding words already in S
	extensions []Word
	rows       map[Word]Row
}

// BuildTable queries T(s, e) for every s in S ∪ S·Σ and e in E, in the fixed
// order S, then E for each s, then Σ and E for the one-symbol extensions.
func BuildTable(ctx context.Context, alphabet Alphabet, prefixes, suffixes []Word, query QueryFunc) (*ObservationTable, error) {
	t := &ObservationTable{
		alphabet: alphabet,
		prefixes: append([]Word(nil), prefixes...),
		suffixes: append([]Word(nil), suffixes...),
		rows:     make(map[Word]Row, len(prefixes)*(alphabet.Size()+1)),
	}

	inS := make(map[Word]struct{}, len(prefixes))
	for _, s := range prefixes {
		inS[s] = struct{}{}
	}
	seenExt := make(map[Word]struct{})

	for _, s := range t.prefixes {
		if err := t.fillRow(ctx, s, query); err != nil {
			return nil, err
		}
		for _, a := range alphabet.symbols {
			sa := s.Append(a)
			if err := t.fillRow(ctx, sa, query); err != nil {
				return nil, err
			}
			if _, ok := inS[sa]; ok {
				continue
			}
			if _, ok := seenExt[sa]; !ok {
				seenExt[sa] = struct{}{}
				t.extensions = append(t.extensions, sa)
			}
		}
	}
	return t, nil
}

// fillRow builds row(w) unless it already exists in this table
func (t *ObservationTable) fillRow(ctx context.Context, w Word, query QueryFunc) error {
	if _, ok := t.rows[w]; ok {
		return nil
	}
	row := make(Row, 0, len(t.suffixes))
	for _, e := range t.suffixes {
		member, err := query(ctx, Concat(w, e))
		if err != nil {
			return err
		}
		row = append(row, member)
	}
	t.rows[w] = row
	return nil
}

// Row returns the row of w, if w is in S ∪ S·Σ
func (t *ObservationTable) Row(w Word) (Row, bool) {
	r, ok := t.rows[w]
	return r, ok
}

// mustRow is used where the table construction guarantees the row exists
func (t *ObservationTable) mustRow(w Word) Row {
	r, ok := t.rows[w]
	if !ok {
		panic(fmt.Sprintf("lstar: no row for %q in observation table", w.String()))
	}
	return r
}

// Alphabet returns the table's alphabet
func (t *ObservationTable) Alphabet() Alphabet {
	return t.alphabet
}

// Prefixes returns S as it was when the table was built
func (t *ObservationTable) Prefixes() []Word {
	return append([]Word(nil), t.prefixes...)
}

// Suffixes returns E in its canonical column order
func (t *ObservationTable) Suffixes() []Word {
	return append([]Word(nil), t.suffixes...)
}

// Extensions returns the words of S·Σ that are not themselves in S
func (t *ObservationTable) Extensions() []Word {
	return append([]Word(nil), t.extensions...)
}

// Len returns the number of rows
func (t *ObservationTable) Len() int {
	return len(t.rows)
}

// FindUnclosed returns the first s·a whose row matches no row of S, or nil
// when the table is closed. S is scanned in order, Σ inside it.
func (t *ObservationTable) FindUnclosed() *UnclosedWitness {
	for _, s := range t.prefixes {
		for _, a := range t.alphabet.symbols {
			sa := s.Append(a)
			target := t.mustRow(sa)
			closed := false
			for _, u := range t.prefixes {
				if RowsEqual(target, t.mustRow(u)) {
					closed = true
					break
				}
			}
			if !closed {
				return &UnclosedWitness{Word: sa}
			}
		}
	}
	return nil
}

// FindInconsistency returns the first pair of equal-row prefixes that a
// symbol separates, or nil when the table is consistent. Pairs are scanned in
// S×S order, Σ inside.
func (t *ObservationTable) FindInconsistency() *InconsistencyWitness {
	for _, s1 := range t.prefixes {
		for _, s2 := range t.prefixes {
			if s1 == s2 || !RowsEqual(t.mustRow(s1), t.mustRow(s2)) {
				continue
			}
			for _, a := range t.alphabet.symbols {
				r1 := t.mustRow(s1.Append(a))
				r2 := t.mustRow(s2.Append(a))
				if i := firstDifference(r1, r2); i >= 0 {
					return &InconsistencyWitness{
						S1:     s1,
						S2:     s2,
						Symbol: a,
						Suffix: t.suffixes[i],
					}
				}
			}
		}
	}
	return nil
}

// IsClosed reports whether every extension matches a row of S
func (t *ObservationTable) IsClosed() bool {
	return t.FindUnclosed() == nil
}

// IsConsistent reports whether equal rows stay equal after every symbol
func (t *ObservationTable) IsConsistent() bool {
	return t.FindInconsistency() == nil
}
