/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: builtin.go
Description: Built-in demo languages usable without a definition file.
*/

package target

import (
	"fmt"
	"sort"
)

var builtins = map[string]Definition{
	"contains-a": {
		Name:        "contains-a",
		Description: "words with at least one a",
		Alphabet:    []string{"a", "b"},
		Pattern:     "[ab]*a[ab]*",
	},
	"even-ones": {
		Name:        "even-ones",
		Description: "binary words with an even number of 1s",
		Alphabet:    []string{"0", "1"},
		Pattern:     "0*(10*10*)*",
	},
	"a-mod-3": {
		Name:        "a-mod-3",
		Description: "unary words whose length is a multiple of 3",
		Alphabet:    []string{"a"},
		Pattern:     "(aaa)*",
	},
	"ab-star": {
		Name:        "ab-star",
		Description: "repetitions of ab",
		Alphabet:    []string{"a", "b"},
		Pattern:     "(ab)*",
	},
	"no-bb": {
		Name:        "no-bb",
		Description: "words without two consecutive b",
		Alphabet:    []string{"a", "b"},
		Pattern:     "(b?a)*b?",
	},
	"third-from-end": {
		Name:             "third-from-end",
		Description:      "words whose third symbol from the end is a",
		Alphabet:         []string{"a", "b"},
		Pattern:          "[ab]*a[ab][ab]",
		EquivalenceDepth: 14,
	},
}

// Builtin returns a copy of the named built-in target
func Builtin(name string) (*Definition, error) {
	def, ok := builtins[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownTarget, name)
	}
	def.Alphabet = append([]string(nil), def.Alphabet...)
	return &def, nil
}

// Builtins lists every built-in target sorted by name
func Builtins() []*Definition {
	names := make([]string, 0, len(builtins))
	for name := range builtins {
		names = append(names, name)
	}
	sort.Strings(names)

	defs := make([]*Definition, 0, len(names))
	for _, name := range names {
		def, _ := Builtin(name)
		defs = append(defs, def)
	}
	return defs
}
