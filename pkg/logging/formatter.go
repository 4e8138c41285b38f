/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: formatter.go
Description: Log formatters for the automator. CustomFormatter prints a compact,
optionally colored line with sorted fields; LearnerFormatter adds a tag for the
learning event (QUERY, TABLE, HYPOTHESIS, CEX) and shortens session ids.
*/

package logging

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

// CustomFormatter renders entries as "time LEVEL [caller] message k=v ..."
type CustomFormatter struct {
	Timestamp bool
	Caller    bool
	Colors    bool
}

// Format implements logrus.Formatter
func (f *CustomFormatter) Format(entry *logrus.Entry) ([]byte, error) {
	return f.format(entry, "", f.formatValue)
}

func (f *CustomFormatter) format(entry *logrus.Entry, tag string, value func(string, interface{}) string) ([]byte, error) {
	var output strings.Builder

	if f.Timestamp {
		output.WriteString(f.paint(36, entry.Time.Format("2006-01-02 15:04:05.000")))
		output.WriteByte(' ')
	}

	output.WriteString(f.paint(f.getLevelColor(entry.Level), strings.ToUpper(entry.Level.String())))
	output.WriteByte(' ')

	if tag != "" {
		output.WriteString(f.paint(35, "["+tag+"]"))
		output.WriteByte(' ')
	}

	if f.Caller && entry.HasCaller() {
		output.WriteString(f.paint(33, fmt.Sprintf("[%s:%d]", entry.Caller.File, entry.Caller.Line)))
		output.WriteByte(' ')
	}

	output.WriteString(entry.Message)

	if len(entry.Data) > 0 {
		output.WriteByte(' ')
		output.WriteString(f.formatFields(entry.Data, value))
	}

	output.WriteByte('\n')
	return []byte(output.String()), nil
}

// paint wraps s in an ANSI color when colors are enabled
func (f *CustomFormatter) paint(color int, s string) string {
	if !f.Colors {
		return s
	}
	return fmt.Sprintf("\033[%dm%s\033[0m", color, s)
}

// getLevelColor returns the ANSI color code for a log level
func (f *CustomFormatter) getLevelColor(level logrus.Level) int {
	switch level {
	case logrus.DebugLevel, logrus.TraceLevel:
		return 37
	case logrus.InfoLevel:
		return 32
	case logrus.WarnLevel:
		return 33
	case logrus.ErrorLevel:
		return 31
	default:
		return 35
	}
}

// formatFields renders fields sorted by key so lines are stable
func (f *CustomFormatter) formatFields(fields logrus.Fields, value func(string, interface{}) string) string {
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		if f.Colors {
			parts = append(parts, fmt.Sprintf("\033[34m%s\033[0m=\033[32m%s\033[0m", k, value(k, fields[k])))
		} else {
			parts = append(parts, fmt.Sprintf("%s=%s", k, value(k, fields[k])))
		}
	}
	return strings.Join(parts, " ")
}

// formatValue formats a field value appropriately
func (f *CustomFormatter) formatValue(_ string, value interface{}) string {
	switch v := value.(type) {
	case time.Duration:
		return v.String()
	case time.Time:
		return v.Format("15:04:05.000")
	case string:
		if v == "" {
			return `""`
		}
		if len(v) > 50 {
			return v[:50] + "..."
		}
		return v
	case error:
		return v.Error()
	default:
		return fmt.Sprintf("%v", v)
	}
}

// LearnerFormatter tags learning events and trims noisy fields
type LearnerFormatter struct {
	CustomFormatter
}

// Format implements logrus.Formatter
func (f *LearnerFormatter) Format(entry *logrus.Entry) ([]byte, error) {
	return f.format(entry, learnerTag(entry.Message), f.formatLearnerValue)
}

// learnerTag maps a log message to its event tag
func learnerTag(message string) string {
	switch {
	case strings.HasPrefix(message, "Membership query"):
		return "QUERY"
	case strings.HasPrefix(message, "Table"):
		return "TABLE"
	case strings.HasPrefix(message, "Hypothesis"):
		return "HYPOTHESIS"
	case strings.HasPrefix(message, "Counterexample"):
		return "CEX"
	case strings.HasPrefix(message, "Round"):
		return "ROUND"
	default:
		return ""
	}
}

func (f *LearnerFormatter) formatLearnerValue(key string, value interface{}) string {
	switch key {
	case "session_id":
		if s, ok := value.(string); ok && len(s) > 8 {
			return s[:8]
		}
	case "member", "accepting_state":
		if b, ok := value.(bool); ok {
			if b {
				return "yes"
			}
			return "no"
		}
	}
	return f.formatValue(key, value)
}
