/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: targets.go
Description: Commands for target languages: listing the built-in ones and validating
definition files before a session is started with them.
*/

package commands

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/kleascm/automator/pkg/target"
	"github.com/spf13/cobra"
)

var headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
var cellStyle = lipgloss.NewStyle().Padding(0, 1)

func newListTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(lipgloss.Color("#2C4A54"))).
		Headers(headers...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})
}

// ListTargets prints the built-in target languages
func ListTargets(cmd *cobra.Command, args []string) error {
	tbl := newListTable("name", "alphabet", "pattern", "depth", "description")
	for _, def := range target.Builtins() {
		depth := "-"
		if def.EquivalenceDepth > 0 {
			depth = fmt.Sprint(def.EquivalenceDepth)
		}
		tbl.Row(def.Name, strings.Join(def.Alphabet, ","), def.Pattern, depth, def.Description)
	}
	fmt.Fprintln(cmd.OutOrStdout(), "🎯 Built-in targets")
	fmt.Fprintln(cmd.OutOrStdout(), tbl.Render())
	return nil
}

// CheckTargets validates definition files and reports every failure
func CheckTargets(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	failed := 0
	for _, path := range args {
		def, err := target.Load(path)
		if err != nil {
			failed++
			fmt.Fprintf(out, "❌ %s: %v\n", path, err)
			continue
		}
		fmt.Fprintf(out, "✅ %s: %s (%s, alphabet %s)\n", path, def.Name, def.Kind(), strings.Join(def.Alphabet, ","))
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d target files are invalid", failed, len(args))
	}
	return nil
}
