/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: inspect.go
Description: Commands that inspect a saved automaton: checking words against it and
listing or exporting what it accepts.
*/

package commands

import (
	"fmt"
	"strings"

	"github.com/kleascm/automator/pkg/lstar"
	"github.com/kleascm/automator/pkg/render"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// RunAccepts reports whether each argument is accepted by the saved automaton
func RunAccepts(cmd *cobra.Command, args []string) error {
	if err := LoadConfig(); err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	dfa, err := loadAutomaton("accepts.automaton")
	if err != nil {
		return err
	}
	words, err := parseWords(dfa.Alphabet, args)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	rejected := 0
	for _, w := range words {
		path, err := dfa.Run(w)
		if err != nil {
			return err
		}
		accepted := dfa.States[path[len(path)-1]].Accepting
		mark := "✅"
		if !accepted {
			mark = "❌"
			rejected++
		}
		fmt.Fprintf(out, "%s %s\n", mark, w)
		if viper.GetBool("accepts.trace") {
			states := make([]string, len(path))
			for i, s := range path {
				states[i] = fmt.Sprintf("q%d", s)
			}
			fmt.Fprintf(out, "   %s\n", strings.Join(states, " → "))
		}
	}

	if rejected > 0 {
		return fmt.Errorf("%d of %d words rejected", rejected, len(words))
	}
	return nil
}

// RunEnumerate lists or exports the saved automaton
func RunEnumerate(cmd *cobra.Command, args []string) error {
	if err := LoadConfig(); err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	dfa, err := loadAutomaton("enumerate.automaton")
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	switch format := viper.GetString("enumerate.format"); format {
	case "dot":
		fmt.Fprint(out, render.DOT(dfa))
	case "mermaid":
		fmt.Fprint(out, render.Mermaid(dfa))
	case "table":
		fmt.Fprintln(out, render.Automaton(dfa))
	case "words", "":
		maxLen := viper.GetInt("enumerate.max_length")
		if maxLen < 0 {
			return fmt.Errorf("max length must not be negative")
		}
		if err := lstar.CheckWordCount(dfa.Alphabet, maxLen); err != nil {
			return fmt.Errorf("max length %d: %w", maxLen, err)
		}
		for w := range lstar.Words(dfa.Alphabet, maxLen) {
			if ok, err := dfa.Accepts(w); err == nil && ok {
				fmt.Fprintln(out, w)
			}
		}
	default:
		return fmt.Errorf("unknown format %q (words, dot, mermaid, table)", format)
	}
	return nil
}

