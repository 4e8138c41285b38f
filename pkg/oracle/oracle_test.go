/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: oracle_test.go
Description: Tests for the regex, process, bounded and interactive oracles, and a full
learning run driven by a regex target.
*/

package oracle_test

import (
	"bytes"
	"context"
	"encoding/json"
	"os/exec"
	"runtime"
	"strings"
	"testing"
	"time"

	"github.com/kleascm/automator/pkg/lstar"
	"github.com/kleascm/automator/pkg/oracle"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func loadDFA(t *testing.T, raw string) *lstar.DFA {
	t.Helper()
	var d lstar.DFA
	require.NoError(t, json.Unmarshal([]byte(raw), &d))
	return &d
}

// rejectAll is a one-state automaton over {a,b} accepting nothing
const rejectAll = `{"alphabet":["a","b"],"states":[{"id":0,"accepting":false,"next":{"a":0,"b":0}}],"initial":0}`

func requireShell(t *testing.T) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("process oracle tests need a POSIX shell")
	}
	sh, err := exec.LookPath("sh")
	if err != nil {
		t.Skip("sh not found")
	}
	return sh
}

// TestRegexAnchored tests that only whole-word matches are members
func TestRegexAnchored(t *testing.T) {
	r, err := oracle.NewRegex("a|ab")
	require.NoError(t, err)
	ctx := context.Background()

	cases := map[lstar.Word]bool{
		lstar.Epsilon: false,
		"a":           true,
		"ab":          true,
		"aab":         false,
		"ba":          false,
	}
	for w, want := range cases {
		got, err := r.Ask(ctx, w)
		require.NoError(t, err)
		assert.Equal(t, want, got, "word %s", w)
	}
	assert.Equal(t, "a|ab", r.String())

	_, err = oracle.NewRegex("(")
	assert.Error(t, err)
}

// TestProcessExitStatus tests exit code mapping and stdin delivery
func TestProcessExitStatus(t *testing.T) {
	sh := requireShell(t)
	p := oracle.NewProcess(sh, "-c", `read w; case "$w" in *a*) exit 0;; *) exit 1;; esac`)
	ctx := context.Background()

	member, err := p.Ask(ctx, "bab")
	require.NoError(t, err)
	assert.True(t, member)

	member, err = p.Ask(ctx, "bb")
	require.NoError(t, err)
	assert.False(t, member)

	member, err = p.Ask(ctx, lstar.Epsilon)
	require.NoError(t, err)
	assert.False(t, member)
}

// TestProcessUnavailable tests timeouts and missing programs
func TestProcessUnavailable(t *testing.T) {
	sh := requireShell(t)

	slow := oracle.NewProcess(sh, "-c", "sleep 5")
	slow.Timeout = 50 * time.Millisecond
	_, err := slow.Ask(context.Background(), "a")
	assert.ErrorIs(t, err, lstar.ErrOracleUnavailable)

	missing := oracle.NewProcess("/definitely/not/a/program")
	_, err = missing.Ask(context.Background(), "a")
	assert.ErrorIs(t, err, lstar.ErrOracleUnavailable)
}

// TestProcessCancelled tests that a cancelled session is reported as such
func TestProcessCancelled(t *testing.T) {
	sh := requireShell(t)

	slow := oracle.NewProcess(sh, "-c", "sleep 5")
	ctx, cancel := context.WithCancel(context.Background())
	time.AfterFunc(50*time.Millisecond, cancel)

	start := time.Now()
	_, err := slow.Ask(ctx, "a")
	assert.ErrorIs(t, err, context.Canceled)
	assert.NotErrorIs(t, err, lstar.ErrOracleUnavailable)
	assert.Less(t, time.Since(start), 4*time.Second)
}

// TestBoundedCounterexample tests that the first shortlex mismatch is returned
func TestBoundedCounterexample(t *testing.T) {
	ref, err := oracle.NewRegex(".*a.*")
	require.NoError(t, err)

	verdict, err := oracle.NewBounded(ref, 4).Verify(context.Background(), loadDFA(t, rejectAll))
	require.NoError(t, err)
	assert.False(t, verdict.Confirmed)
	assert.Equal(t, lstar.Word("a"), verdict.Counterexample)
}

// TestBoundedStopsAtFirstMismatch tests that a mismatch at ε is found without
// walking the rest of a large word space
func TestBoundedStopsAtFirstMismatch(t *testing.T) {
	acceptAll := loadDFA(t, `{"alphabet":["a","b","c","d"],"states":[{"id":0,"accepting":true,"next":{"a":0,"b":0,"c":0,"d":0}}],"initial":0}`)
	asked := 0
	reference := lstar.MembershipFunc(func(_ context.Context, w lstar.Word) (bool, error) {
		asked++
		return w != lstar.Epsilon, nil
	})

	// 4^0 + ... + 4^11 is about 5.6 million words
	verdict, err := oracle.NewBounded(reference, 11).Verify(context.Background(), acceptAll)
	require.NoError(t, err)
	assert.False(t, verdict.Confirmed)
	assert.Equal(t, lstar.Epsilon, verdict.Counterexample)
	assert.Equal(t, 1, asked)
}

// TestBoundedWordLimit tests that oversized word spaces are refused up front
func TestBoundedWordLimit(t *testing.T) {
	acceptAll := loadDFA(t, `{"alphabet":["a","b","c","d"],"states":[{"id":0,"accepting":true,"next":{"a":0,"b":0,"c":0,"d":0}}],"initial":0}`)
	asked := 0
	reference := lstar.MembershipFunc(func(context.Context, lstar.Word) (bool, error) {
		asked++
		return true, nil
	})

	_, err := oracle.NewBounded(reference, 16).Verify(context.Background(), acceptAll)
	assert.ErrorIs(t, err, lstar.ErrTooManyWords)
	assert.Zero(t, asked)
}

// TestBoundedDepth tests that differences beyond the depth go unnoticed
func TestBoundedDepth(t *testing.T) {
	ref, err := oracle.NewRegex("aaaa")
	require.NoError(t, err)

	verdict, err := oracle.NewBounded(ref, 3).Verify(context.Background(), loadDFA(t, rejectAll))
	require.NoError(t, err)
	assert.True(t, verdict.Confirmed)

	verdict, err = oracle.NewBounded(ref, 4).Verify(context.Background(), loadDFA(t, rejectAll))
	require.NoError(t, err)
	assert.Equal(t, lstar.Word("aaaa"), verdict.Counterexample)

	_, err = oracle.NewBounded(nil, 3).Verify(context.Background(), loadDFA(t, rejectAll))
	assert.Error(t, err)
}

// TestInteractiveAsk tests prompting and answer parsing
func TestInteractiveAsk(t *testing.T) {
	var out bytes.Buffer
	i := oracle.NewInteractive(strings.NewReader("maybe\nY\nno\n"), &out, nil)
	ctx := context.Background()

	member, err := i.Ask(ctx, "ab")
	require.NoError(t, err)
	assert.True(t, member)
	assert.Equal(t, 2, strings.Count(out.String(), `Is "ab" in the language?`))
	assert.Contains(t, out.String(), "Please answer y or n")

	member, err = i.Ask(ctx, lstar.Epsilon)
	require.NoError(t, err)
	assert.False(t, member)
	assert.Contains(t, out.String(), `Is "ε" in the language?`)

	_, err = i.Ask(ctx, "b")
	assert.ErrorIs(t, err, lstar.ErrOracleUnavailable)
}

type recordingRenderer struct{ shown []*lstar.DFA }

func (r *recordingRenderer) Show(d *lstar.DFA) error {
	r.shown = append(r.shown, d)
	return nil
}

// TestInteractiveVerify tests confirmation, counterexamples and the preview
func TestInteractiveVerify(t *testing.T) {
	var out bytes.Buffer
	renderer := &recordingRenderer{}
	i := oracle.NewInteractive(strings.NewReader("\n ab \nε\n"), &out, renderer)
	ctx := context.Background()
	dfa := loadDFA(t, rejectAll)

	verdict, err := i.Verify(ctx, dfa)
	require.NoError(t, err)
	assert.True(t, verdict.Confirmed)
	assert.Len(t, renderer.shown, 1)
	assert.Contains(t, out.String(), "Hypothesis with 1 states")

	verdict, err = i.Verify(ctx, dfa)
	require.NoError(t, err)
	assert.False(t, verdict.Confirmed)
	assert.Equal(t, lstar.Word("ab"), verdict.Counterexample)

	verdict, err = i.Verify(ctx, dfa)
	require.NoError(t, err)
	assert.False(t, verdict.Confirmed)
	assert.Equal(t, lstar.Epsilon, verdict.Counterexample)
}

// TestInteractiveLearning tests a full session answered from a script
func TestInteractiveLearning(t *testing.T) {
	// L = words over {a,b} containing an a. Answers follow the query order
	// ε, a, b, then aa, ab for the new prefix a; the first hypothesis is right.
	script := "n\ny\nn\ny\ny\n\n"
	var out bytes.Buffer
	i := oracle.NewInteractive(strings.NewReader(script), &out, nil)

	learner, err := lstar.NewLearner(lstar.Config{
		Alphabet:    lstar.MustAlphabet("a", "b"),
		Membership:  i,
		Equivalence: i,
	})
	require.NoError(t, err)

	dfa, err := learner.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, dfa.Size())
	assert.Contains(t, out.String(), "Accepted words up to length 3: a, aa, ab, ba, aaa, aab")
}

// TestRegexLearning tests learning "even number of a" automatically
func TestRegexLearning(t *testing.T) {
	ref, err := oracle.NewRegex("(b*ab*a)*b*")
	require.NoError(t, err)

	learner, err := lstar.NewLearner(lstar.Config{
		Alphabet:    lstar.MustAlphabet("a", "b"),
		Membership:  ref,
		Equivalence: oracle.NewBounded(ref, 6),
	})
	require.NoError(t, err)

	dfa, err := learner.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, dfa.Size())
	for _, w := range lstar.Enumerate(dfa.Alphabet, 6) {
		want, _ := ref.Ask(context.Background(), w)
		got, err := dfa.Accepts(w)
		require.NoError(t, err)
		assert.Equal(t, want, got, "word %s", w)
	}
}
