/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: interactive.go
Description: Terminal oracle with a human in the loop. Membership queries are asked as
y/n questions; each hypothesis is shown through a renderer together with its short
accepted words, and the answer is either a blank line (confirm) or a counterexample.
*/

package oracle

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/kleascm/automator/pkg/lstar"
)

// Interactive asks a person at a terminal
type Interactive struct {
	in       *bufio.Reader
	out      io.Writer
	renderer lstar.Renderer

	// PreviewLength bounds the accepted words listed with each hypothesis
	PreviewLength int
}

// NewInteractive reads answers from in and writes prompts to out.
// renderer may be nil.
func NewInteractive(in io.Reader, out io.Writer, renderer lstar.Renderer) *Interactive {
	return &Interactive{
		in:            bufio.NewReader(in),
		out:           out,
		renderer:      renderer,
		PreviewLength: 3,
	}
}

// Ask prompts until the answer is yes or no
func (i *Interactive) Ask(ctx context.Context, word lstar.Word) (bool, error) {
	for {
		if err := ctx.Err(); err != nil {
			return false, err
		}
		fmt.Fprintf(i.out, "❓ Is %q in the language? [y/n]: ", word.String())
		line, err := i.readLine()
		if err != nil {
			return false, err
		}
		switch strings.ToLower(line) {
		case "y", "yes", "1", "true":
			return true, nil
		case "n", "no", "0", "false":
			return false, nil
		}
		fmt.Fprintln(i.out, "⚠️  Please answer y or n")
	}
}

// Verify shows the hypothesis and reads a counterexample; a blank line confirms it
func (i *Interactive) Verify(ctx context.Context, hypothesis *lstar.DFA) (lstar.Verdict, error) {
	if err := ctx.Err(); err != nil {
		return lstar.Verdict{}, err
	}

	fmt.Fprintf(i.out, "\n🤖 Hypothesis with %d states\n", hypothesis.Size())
	if i.renderer != nil {
		if err := i.renderer.Show(hypothesis); err != nil {
			fmt.Fprintf(i.out, "⚠️  Could not render hypothesis: %v\n", err)
		}
	}
	if i.PreviewLength >= 0 {
		words := hypothesis.AcceptedWords(i.PreviewLength)
		shown := make([]string, len(words))
		for n, w := range words {
			shown[n] = w.String()
		}
		fmt.Fprintf(i.out, "📋 Accepted words up to length %d: %s\n", i.PreviewLength, strings.Join(shown, ", "))
	}

	fmt.Fprint(i.out, "🔍 Counterexample (blank to confirm): ")
	line, err := i.readLine()
	if err != nil {
		return lstar.Verdict{}, err
	}
	if line == "" {
		return lstar.Confirm(), nil
	}
	return lstar.Reject(lstar.ParseWord(line)), nil
}

// readLine returns the next trimmed line. A closed input makes the oracle unavailable.
func (i *Interactive) readLine() (string, error) {
	line, err := i.in.ReadString('\n')
	if err != nil && (err != io.EOF || line == "") {
		if err == io.EOF {
			return "", fmt.Errorf("%w: input closed", lstar.ErrOracleUnavailable)
		}
		return "", fmt.Errorf("%w: %v", lstar.ErrOracleUnavailable, err)
	}
	return strings.TrimSpace(line), nil
}
