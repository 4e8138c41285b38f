/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: result_writer.go
Description: Saves learning results as timestamped JSON files and loads learned
automata back for the accepts and enumerate commands.
*/

package utils

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/kleascm/automator/pkg/lstar"
)

// LearningResult is the saved outcome of a session
type LearningResult struct {
	SessionID   string       `json:"session_id"`
	Target      string       `json:"target,omitempty"`
	GeneratedAt time.Time    `json:"generated_at"`
	Automaton   *lstar.DFA   `json:"automaton"`
	Prefixes    []lstar.Word `json:"prefixes"`
	Suffixes    []lstar.Word `json:"suffixes"`
	Stats       lstar.Stats  `json:"stats"`
}

// WriteLearningResult writes result into dir as
// 2006-01-02_15-04-05_<session prefix>.json and returns the path
func WriteLearningResult(dir string, sessionID string, result *LearningResult) (string, error) {
	if result == nil || result.Automaton == nil {
		return "", fmt.Errorf("result has no automaton")
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create results directory: %w", err)
	}

	if result.GeneratedAt.IsZero() {
		result.GeneratedAt = time.Now()
	}
	result.SessionID = sessionID

	short := sessionID
	if len(short) > 8 {
		short = short[:8]
	}
	filename := fmt.Sprintf("%s_%s.json", result.GeneratedAt.Format("2006-01-02_15-04-05"), short)
	filePath := filepath.Join(dir, filename)

	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal result: %w", err)
	}
	if err := os.WriteFile(filePath, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write result file: %w", err)
	}
	return filePath, nil
}

// ReadLearningResult loads a file written by WriteLearningResult
func ReadLearningResult(path string) (*LearningResult, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read result file: %w", err)
	}
	var result LearningResult
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	if result.Automaton == nil {
		return nil, fmt.Errorf("%s contains no automaton", path)
	}
	return &result, nil
}

// ReadAutomaton loads an automaton from either a saved learning result or a
// bare automaton JSON document
func ReadAutomaton(path string) (*lstar.DFA, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read automaton file: %w", err)
	}

	var probe struct {
		Automaton json.RawMessage `json:"automaton"`
	}
	if err := json.Unmarshal(data, &probe); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	if len(probe.Automaton) > 0 {
		data = probe.Automaton
	}

	var dfa lstar.DFA
	if err := json.Unmarshal(data, &dfa); err != nil {
		return nil, fmt.Errorf("invalid automaton in %s: %w", path, err)
	}
	return &dfa, nil
}
