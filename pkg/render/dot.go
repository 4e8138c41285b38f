/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: dot.go
Description: Graphviz and Mermaid output for learned automata. The DOT layout is left
to right with double circles for accepting states and an invisible start node pointing
at the initial state.
*/

package render

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/kleascm/automator/pkg/lstar"
	"github.com/sirupsen/logrus"
)

// stateName is the node identifier used by every graph format
func stateName(id int) string {
	return fmt.Sprintf("q%d", id)
}

// DOT returns the Graphviz source of an automaton
func DOT(dfa *lstar.DFA) string {
	var b strings.Builder
	b.WriteString("digraph finite_state_machine {\n")
	b.WriteString("\trankdir=LR;\n")
	b.WriteString("\tsize=\"8,5\"\n")
	b.WriteString("\t\"i\" [style=invis];\n")

	for _, s := range dfa.States {
		shape := "circle"
		if s.Accepting {
			shape = "doublecircle"
		}
		fmt.Fprintf(&b, "\t%q [shape = %s, label = %q];\n", stateName(s.ID), shape, s.Access.String())
	}
	for _, t := range dfa.Transitions() {
		fmt.Fprintf(&b, "\t%q -> %q [ label = %q];\n", stateName(t.From), stateName(t.To), string(t.Symbol))
	}
	fmt.Fprintf(&b, "\t\"i\" -> %q;\n", stateName(dfa.Initial))
	b.WriteString("}\n")
	return b.String()
}

// Mermaid returns a stateDiagram-v2 description of an automaton
func Mermaid(dfa *lstar.DFA) string {
	var b strings.Builder
	b.WriteString("stateDiagram-v2\n")
	fmt.Fprintf(&b, "  [*] --> %s\n", stateName(dfa.Initial))
	for _, s := range dfa.States {
		fmt.Fprintf(&b, "  %s : %s\n", stateName(s.ID), s.Access.String())
	}
	for _, t := range dfa.Transitions() {
		fmt.Fprintf(&b, "  %s --> %s : %s\n", stateName(t.From), stateName(t.To), t.Symbol)
	}
	for _, id := range dfa.AcceptingStates() {
		fmt.Fprintf(&b, "  %s --> [*]\n", stateName(id))
	}
	return b.String()
}

// DOTRenderer writes every hypothesis it is shown to its own .dot file
type DOTRenderer struct {
	dir    string
	logger logrus.FieldLogger

	mu    sync.Mutex
	files []string
}

// NewDOTRenderer writes into dir, creating it on first use
func NewDOTRenderer(dir string, logger logrus.FieldLogger) *DOTRenderer {
	return &DOTRenderer{dir: dir, logger: logger}
}

// Show writes hypothesis_NN.dot
func (r *DOTRenderer) Show(dfa *lstar.DFA) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := os.MkdirAll(r.dir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	path := filepath.Join(r.dir, fmt.Sprintf("hypothesis_%02d.dot", len(r.files)+1))
	if err := os.WriteFile(path, []byte(DOT(dfa)), 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	r.files = append(r.files, path)

	if r.logger != nil {
		r.logger.WithFields(logrus.Fields{
			"file":   path,
			"states": dfa.Size(),
		}).Debug("Hypothesis written as DOT")
	}
	return nil
}

// Files lists the written files in order
func (r *DOTRenderer) Files() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.files...)
}
