/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: text.go
Description: Terminal views of the learner state: the observation table (S rows, then
S·Σ rows) and the transition table of an automaton, drawn with lipgloss.
*/

package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/kleascm/automator/pkg/lstar"
)

var (
	colorAccent = lipgloss.Color("#20B9B4")
	colorMuted  = lipgloss.Color("#2C4A54")
	colorAccept = lipgloss.Color("#2CD7C7")

	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(colorAccent)
	headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	acceptStyle = lipgloss.NewStyle().Padding(0, 1).Foreground(colorAccept).Bold(true)
	borderStyle = lipgloss.NewStyle().Foreground(colorMuted)
)

func newTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(borderStyle).
		Headers(headers...)
}

func cell(b bool) string {
	if b {
		return "1"
	}
	return "0"
}

// Table draws an observation table. Rows for S come first, separated from
// the S·Σ rows by a dashed marker row.
func Table(t *lstar.ObservationTable) string {
	headers := []string{"T"}
	for _, e := range t.Suffixes() {
		headers = append(headers, e.String())
	}

	tbl := newTable(headers...).StyleFunc(func(row, col int) lipgloss.Style {
		if row == table.HeaderRow {
			return headerStyle
		}
		return cellStyle
	})

	addRow := func(w lstar.Word) {
		row, _ := t.Row(w)
		cells := []string{w.String()}
		for _, v := range row {
			cells = append(cells, cell(v))
		}
		tbl.Row(cells...)
	}

	for _, s := range t.Prefixes() {
		addRow(s)
	}
	separator := make([]string, len(headers))
	for i := range separator {
		separator[i] = "--"
	}
	tbl.Row(separator...)
	for _, w := range t.Extensions() {
		addRow(w)
	}
	return tbl.Render()
}

// Automaton draws the transition table of a DFA. The initial state is marked
// with → and accepting states with *.
func Automaton(dfa *lstar.DFA) string {
	headers := []string{"state", "access"}
	for _, a := range dfa.Alphabet.Symbols() {
		headers = append(headers, string(a))
	}

	tbl := newTable(headers...).StyleFunc(func(row, col int) lipgloss.Style {
		if row == table.HeaderRow {
			return headerStyle
		}
		if row >= 0 && row < len(dfa.States) && dfa.States[row].Accepting && col == 0 {
			return acceptStyle
		}
		return cellStyle
	})

	for _, s := range dfa.States {
		name := stateName(s.ID)
		if s.ID == dfa.Initial {
			name = "→" + name
		}
		if s.Accepting {
			name += "*"
		}
		cells := []string{name, s.Access.String()}
		for _, a := range dfa.Alphabet.Symbols() {
			next, _ := dfa.Next(s.ID, a)
			cells = append(cells, stateName(next))
		}
		tbl.Row(cells...)
	}
	return tbl.Render()
}

// TextRenderer prints each hypothesis as a transition table
type TextRenderer struct {
	Out io.Writer
	// Table, if set, supplies the observation table shown above the automaton
	Table func() *lstar.ObservationTable
}

// Show prints the hypothesis
func (r *TextRenderer) Show(dfa *lstar.DFA) error {
	var b strings.Builder
	if r.Table != nil {
		if t := r.Table(); t != nil {
			b.WriteString(titleStyle.Render("Observation table"))
			b.WriteByte('\n')
			b.WriteString(Table(t))
			b.WriteByte('\n')
		}
	}
	b.WriteString(titleStyle.Render(fmt.Sprintf("Hypothesis: %d states", dfa.Size())))
	b.WriteByte('\n')
	b.WriteString(Automaton(dfa))
	b.WriteByte('\n')
	_, err := io.WriteString(r.Out, b.String())
	return err
}
