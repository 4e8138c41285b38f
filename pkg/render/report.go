/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: report.go
Description: HTML report for a learning session. Shows the learned automaton (states,
transitions, DOT source), the final observation table, the accepted short words, the
session counters and the size of every hypothesis proposed along the way.
*/

package render

import (
	"fmt"
	"html/template"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/kleascm/automator/pkg/lstar"
	"github.com/sirupsen/logrus"
)

// ReportGenerator writes HTML reports into a directory
type ReportGenerator struct {
	outputDir string
	logger    logrus.FieldLogger
	templates *template.Template
}

// ReportData contains everything shown in a report
type ReportData struct {
	Title       string
	GeneratedAt time.Time
	SessionID   string
	Target      string
	Automaton   *lstar.DFA
	// Table and Stats are optional
	Table *lstar.ObservationTable
	Stats *lstar.Stats
	// History holds the state count of every hypothesis
	History []int
	// AcceptedLength bounds the listed accepted words
	AcceptedLength int
}

type stateView struct {
	Name      string
	Access    string
	Accepting bool
	Initial   bool
	Next      []string
}

type tableRow struct {
	Word  string
	Cells []bool
}

type reportView struct {
	*ReportData
	Alphabet      []string
	States        []stateView
	Suffixes      []string
	PrefixRows    []tableRow
	ExtensionRows []tableRow
	Accepted      []string
	DOT           string
	Mermaid       string
}

// NewReportGenerator creates a report generator
func NewReportGenerator(outputDir string, logger logrus.FieldLogger) *ReportGenerator {
	return &ReportGenerator{
		outputDir: outputDir,
		logger:    logger,
		templates: template.Must(template.New("report").Parse(reportTemplate)),
	}
}

// Generate writes index.html and automaton.dot and returns the report path
func (rg *ReportGenerator) Generate(data *ReportData) (string, error) {
	if data.Automaton == nil {
		return "", fmt.Errorf("report needs an automaton")
	}
	if err := os.MkdirAll(rg.outputDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}

	view := rg.prepare(data)

	outputFile := filepath.Join(rg.outputDir, "index.html")
	file, err := os.Create(outputFile)
	if err != nil {
		return "", fmt.Errorf("failed to create output file: %w", err)
	}
	defer file.Close()

	if err := rg.templates.Execute(file, view); err != nil {
		return "", fmt.Errorf("failed to execute template: %w", err)
	}

	if err := os.WriteFile(filepath.Join(rg.outputDir, "automaton.dot"), []byte(view.DOT), 0644); err != nil {
		return "", fmt.Errorf("failed to write DOT file: %w", err)
	}

	if rg.logger != nil {
		rg.logger.WithFields(logrus.Fields{
			"report": outputFile,
			"states": data.Automaton.Size(),
		}).Info("Report generated")
	}
	return outputFile, nil
}

// prepare flattens the session into template-friendly values
func (rg *ReportGenerator) prepare(data *ReportData) *reportView {
	if data.Title == "" {
		data.Title = "Learned automaton"
	}
	if data.GeneratedAt.IsZero() {
		data.GeneratedAt = time.Now()
	}

	dfa := data.Automaton
	view := &reportView{
		ReportData: data,
		DOT:        DOT(dfa),
		Mermaid:    Mermaid(dfa),
	}

	for _, a := range dfa.Alphabet.Symbols() {
		view.Alphabet = append(view.Alphabet, string(a))
	}
	for _, s := range dfa.States {
		sv := stateView{
			Name:      stateName(s.ID),
			Access:    s.Access.String(),
			Accepting: s.Accepting,
			Initial:   s.ID == dfa.Initial,
		}
		for _, a := range dfa.Alphabet.Symbols() {
			next, _ := dfa.Next(s.ID, a)
			sv.Next = append(sv.Next, stateName(next))
		}
		view.States = append(view.States, sv)
	}

	if data.AcceptedLength >= 0 {
		for _, w := range dfa.AcceptedWords(data.AcceptedLength) {
			view.Accepted = append(view.Accepted, w.String())
		}
	}

	if t := data.Table; t != nil {
		for _, e := range t.Suffixes() {
			view.Suffixes = append(view.Suffixes, e.String())
		}
		view.PrefixRows = tableRows(t, t.Prefixes())
		view.ExtensionRows = tableRows(t, t.Extensions())
	}
	return view
}

func tableRows(t *lstar.ObservationTable, words []lstar.Word) []tableRow {
	rows := make([]tableRow, 0, len(words))
	for _, w := range words {
		row, _ := t.Row(w)
		rows = append(rows, tableRow{Word: w.String(), Cells: row})
	}
	return rows
}

// HTMLRenderer regenerates the report each time a hypothesis is shown, so the
// page always reflects the latest one
type HTMLRenderer struct {
	generator *ReportGenerator
	title     string
	sessionID string

	mu      sync.Mutex
	history []int
}

// NewHTMLRenderer writes reports into dir
func NewHTMLRenderer(dir, title string, logger logrus.FieldLogger) *HTMLRenderer {
	return &HTMLRenderer{
		generator: NewReportGenerator(dir, logger),
		title:     title,
	}
}

// SetSession labels subsequent reports with a session id
func (r *HTMLRenderer) SetSession(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessionID = id
}

// Show records the hypothesis size and rewrites the report
func (r *HTMLRenderer) Show(dfa *lstar.DFA) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.history = append(r.history, dfa.Size())
	_, err := r.generator.Generate(&ReportData{
		Title:          r.title,
		SessionID:      r.sessionID,
		Automaton:      dfa,
		History:        append([]int(nil), r.history...),
		AcceptedLength: 3,
	})
	return err
}

// History returns the state count of every hypothesis shown so far
func (r *HTMLRenderer) History() []int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]int(nil), r.history...)
}
