// Author: KleaSCM
// Email: KleaSCM@gmail.com
// File: main_test.go
// Description: Tests for the demo membership target.

package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestMember tests divisibility by three on binary words
func TestMember(t *testing.T) {
	cases := map[string]bool{
		"":     true,
		"0":    true,
		"1":    false,
		"11":   true,
		"110":  true,
		"111":  false,
		"1001": true,
		"1010": false,
	}
	for word, want := range cases {
		got, err := Member(word)
		require.NoError(t, err)
		assert.Equal(t, want, got, "word %q", word)
	}

	_, err := Member("12")
	assert.Error(t, err)
}
