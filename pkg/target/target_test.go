/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: target_test.go
Description: Tests for target definition parsing, validation, oracles and built-ins.
*/

package target_test

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/kleascm/automator/pkg/lstar"
	"github.com/kleascm/automator/pkg/oracle"
	"github.com/kleascm/automator/pkg/target"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestParsePattern tests a regex target
func TestParsePattern(t *testing.T) {
	def, err := target.Parse([]byte(`
name: contains-a
alphabet: [a, b]
pattern: "[ab]*a[ab]*"
equivalence_depth: 5
`))
	require.NoError(t, err)
	assert.Equal(t, "contains-a", def.Name)
	assert.Equal(t, "pattern", def.Kind())
	assert.Equal(t, 5, def.Depth(8))

	alphabet, err := def.Symbols()
	require.NoError(t, err)
	assert.Equal(t, []lstar.Symbol{"a", "b"}, alphabet.Symbols())

	member, err := def.Membership(nil)
	require.NoError(t, err)
	ok, err := member.Ask(context.Background(), "bba")
	require.NoError(t, err)
	assert.True(t, ok)
}

// TestParseExec tests a program target
func TestParseExec(t *testing.T) {
	def, err := target.Parse([]byte(`
name: checker
alphabet: ["0", "1"]
exec:
  path: ./check.sh
  args: [--strict]
  timeout: 2s
`))
	require.NoError(t, err)
	assert.Equal(t, "exec", def.Kind())
	assert.Equal(t, 6, def.Depth(6))
	assert.Equal(t, 2*time.Second, def.Exec.Timeout)

	member, err := def.Membership(nil)
	require.NoError(t, err)
	p, ok := member.(*oracle.Process)
	require.True(t, ok)
	assert.Equal(t, []string{"--strict"}, p.Args)
	assert.Equal(t, 2*time.Second, p.Timeout)
}

// TestValidateRejects tests validation failures
func TestValidateRejects(t *testing.T) {
	cases := map[string]string{
		"missing name":      "alphabet: [a]\npattern: a\n",
		"empty alphabet":    "name: x\nalphabet: []\npattern: a\n",
		"long symbol":       "name: x\nalphabet: [ab]\npattern: a\n",
		"duplicate symbol":  "name: x\nalphabet: [a, a]\npattern: a\n",
		"no membership":     "name: x\nalphabet: [a]\n",
		"both memberships":  "name: x\nalphabet: [a]\npattern: a\nexec: {path: /bin/true}\n",
		"bad pattern":       "name: x\nalphabet: [a]\npattern: \"(\"\n",
		"depth too large":   "name: x\nalphabet: [a]\npattern: a\nequivalence_depth: 40\n",
		"exec without path": "name: x\nalphabet: [a]\nexec: {timeout: 1s}\n",
		"not yaml":          "name: [\n",
	}
	for name, raw := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := target.Parse([]byte(raw))
			assert.Error(t, err)
		})
	}
}

// TestValidateMessages tests that errors name the problem
func TestValidateMessages(t *testing.T) {
	_, err := target.Parse([]byte("name: x\nalphabet: [a]\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "one of pattern or exec is required")

	_, err = target.Parse([]byte("name: x\nalphabet: [a, bc]\npattern: a\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "single symbol")
}

// TestLoadResolvesExecPath tests that relative programs resolve against the file
func TestLoadResolvesExecPath(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("needs a POSIX shell")
	}
	dir := t.TempDir()
	script := filepath.Join(dir, "bin", "check.sh")
	require.NoError(t, os.MkdirAll(filepath.Dir(script), 0755))
	require.NoError(t, os.WriteFile(script, []byte("#!/bin/sh\nread w\n[ \"$w\" = \"ab\" ]\n"), 0755))

	path := filepath.Join(dir, "target.yaml")
	require.NoError(t, os.WriteFile(path, []byte("name: only-ab\nalphabet: [a, b]\nexec: {path: ./bin/check.sh}\n"), 0644))

	def, err := target.Load(path)
	require.NoError(t, err)
	member, err := def.Membership(nil)
	require.NoError(t, err)

	ok, err := member.Ask(context.Background(), "ab")
	require.NoError(t, err)
	assert.True(t, ok)
	ok, err = member.Ask(context.Background(), "ba")
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = target.Load(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)
}

// TestBuiltins tests that every built-in is valid and learnable
func TestBuiltins(t *testing.T) {
	defs := target.Builtins()
	require.NotEmpty(t, defs)
	for i := 1; i < len(defs); i++ {
		assert.Less(t, defs[i-1].Name, defs[i].Name)
	}

	expectedStates := map[string]int{
		"contains-a":     2,
		"even-ones":      2,
		"a-mod-3":        3,
		"ab-star":        3,
		"no-bb":          3,
		"third-from-end": 8,
	}
	for _, def := range defs {
		t.Run(def.Name, func(t *testing.T) {
			require.NoError(t, def.Validate())
			alphabet, err := def.Symbols()
			require.NoError(t, err)
			member, err := def.Membership(nil)
			require.NoError(t, err)

			learner, err := lstar.NewLearner(lstar.Config{
				Alphabet:    alphabet,
				Membership:  member,
				Equivalence: oracle.NewBounded(member, def.Depth(6)),
			})
			require.NoError(t, err)
			dfa, err := learner.Run(context.Background())
			require.NoError(t, err)
			assert.Equal(t, expectedStates[def.Name], dfa.Size())
		})
	}
}

// TestBuiltinUnknown tests the lookup error and copy semantics
func TestBuiltinUnknown(t *testing.T) {
	_, err := target.Builtin("nope")
	assert.ErrorIs(t, err, target.ErrUnknownTarget)

	def, err := target.Builtin("contains-a")
	require.NoError(t, err)
	def.Alphabet[0] = "z"
	again, err := target.Builtin("contains-a")
	require.NoError(t, err)
	assert.Equal(t, "a", again.Alphabet[0])
}

// TestDemoDefinitions tests that the shipped demo targets load
func TestDemoDefinitions(t *testing.T) {
	div3, err := target.Load(filepath.Join("..", "..", "demo", "div3.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "exec", div3.Kind())
	assert.Equal(t, 8, div3.Depth(oracle.DefaultDepth))
	assert.Equal(t, 2*time.Second, div3.Exec.Timeout)

	evenA, err := target.Load(filepath.Join("..", "..", "demo", "even-a.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "pattern", evenA.Kind())
	assert.Equal(t, oracle.DefaultDepth, evenA.Depth(oracle.DefaultDepth))
}

// TestValidateWordSpace tests that the depth is bounded by the number of words
func TestValidateWordSpace(t *testing.T) {
	def, err := target.Parse([]byte("name: wide\nalphabet: [a, b, c, d]\npattern: \"a*\"\nequivalence_depth: 16\n"))
	assert.Nil(t, def)
	assert.ErrorIs(t, err, lstar.ErrTooManyWords)

	def, err = target.Parse([]byte("name: narrow\nalphabet: [a, b]\npattern: \"a*\"\nequivalence_depth: 16\n"))
	require.NoError(t, err)
	assert.Equal(t, 16, def.Depth(oracle.DefaultDepth))

	_, err = target.Parse([]byte("name: eps\nalphabet: [\"ε\", a]\npattern: \"a*\"\n"))
	assert.ErrorIs(t, err, lstar.ErrReservedSymbol)
}
