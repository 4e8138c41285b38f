/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: logger.go
Description: Logging system for the automator. Wraps logrus with a validated
configuration, console plus timestamped file output, optional syslog, and helpers
for the events of a learning session (queries, rounds, hypotheses, counterexamples).
*/

package logging

import (
	"fmt"
	"io"
	"log/syslog"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"time"

	"github.com/sirupsen/logrus"
)

// LogLevel represents the logging level
type LogLevel string

const (
	LogLevelDebug   LogLevel = "debug"
	LogLevelInfo    LogLevel = "info"
	LogLevelWarning LogLevel = "warn"
	LogLevelError   LogLevel = "error"
)

// LogFormat represents the logging format
type LogFormat string

const (
	LogFormatJSON   LogFormat = "json"
	LogFormatText   LogFormat = "text"
	LogFormatCustom LogFormat = "custom"
)

const logFilePattern = "automator_*.log"

// LoggerConfig holds the configuration for the logger.
// An empty OutputDir disables file output.
type LoggerConfig struct {
	Level     LogLevel  `json:"level" mapstructure:"level"`
	Format    LogFormat `json:"format" mapstructure:"format"`
	OutputDir string    `json:"output_dir" mapstructure:"output_dir"`
	MaxFiles  int       `json:"max_files" mapstructure:"max_files"`
	Timestamp bool      `json:"timestamp" mapstructure:"timestamp"`
	Caller    bool      `json:"caller" mapstructure:"caller"`
	Colors    bool      `json:"colors" mapstructure:"colors"`

	SyslogEnabled bool   `json:"syslog_enabled" mapstructure:"syslog_enabled"`
	SyslogNetwork string `json:"syslog_network" mapstructure:"syslog_network"`
	SyslogAddress string `json:"syslog_address" mapstructure:"syslog_address"`

	// Console receives the console copy of every line; defaults to stderr so
	// that prompts on stdout stay readable
	Console io.Writer `json:"-" mapstructure:"-"`
}

// DefaultConfig returns the configuration used when none is given
func DefaultConfig() *LoggerConfig {
	return &LoggerConfig{
		Level:     LogLevelInfo,
		Format:    LogFormatCustom,
		OutputDir: "",
		MaxFiles:  10,
		Timestamp: true,
		Caller:    false,
		Colors:    true,
	}
}

// Validate checks the LoggerConfig for invalid values
func (c *LoggerConfig) Validate() error {
	if c.OutputDir != "" && c.MaxFiles <= 0 {
		return fmt.Errorf("max_files must be positive when output_dir is set")
	}
	switch c.Format {
	case LogFormatJSON, LogFormatText, LogFormatCustom:
	default:
		return fmt.Errorf("unsupported log format: %s", c.Format)
	}
	switch c.Level {
	case LogLevelDebug, LogLevelInfo, LogLevelWarning, LogLevelError:
	default:
		return fmt.Errorf("unsupported log level: %s", c.Level)
	}
	if c.SyslogEnabled && c.SyslogAddress == "" && c.SyslogNetwork != "" {
		return fmt.Errorf("syslog_address is required for network %q", c.SyslogNetwork)
	}
	return nil
}

// Logger provides session logging on top of logrus
type Logger struct {
	config     *LoggerConfig
	logger     *logrus.Logger
	fileHandle *os.File
	filePath   string
	startTime  time.Time
}

// NewLogger creates a new logger instance
func NewLogger(config *LoggerConfig) (*Logger, error) {
	if config == nil {
		config = DefaultConfig()
	}
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid logger config: %w", err)
	}

	l := &Logger{
		config:    config,
		logger:    logrus.New(),
		startTime: time.Now(),
	}

	if err := l.setup(); err != nil {
		return nil, fmt.Errorf("failed to setup logger: %w", err)
	}
	return l, nil
}

// setup configures level, formatter and outputs
func (l *Logger) setup() error {
	level, err := logrus.ParseLevel(string(l.config.Level))
	if err != nil {
		level = logrus.InfoLevel
	}
	l.logger.SetLevel(level)
	l.logger.SetReportCaller(l.config.Caller)

	if err := l.setFormatter(); err != nil {
		return err
	}

	console := l.config.Console
	if console == nil {
		console = os.Stderr
	}
	writers := []io.Writer{console}

	if l.config.OutputDir != "" {
		file, err := l.openLogFile()
		if err != nil {
			return err
		}
		writers = append(writers, file)
	}

	if l.config.SyslogEnabled {
		writer, err := syslog.Dial(l.config.SyslogNetwork, l.config.SyslogAddress, syslog.LOG_INFO|syslog.LOG_USER, "automator")
		if err != nil {
			return fmt.Errorf("failed to connect to syslog: %w", err)
		}
		writers = append(writers, writer)
	}

	l.logger.SetOutput(io.MultiWriter(writers...))

	if l.fileHandle != nil {
		l.logger.WithFields(logrus.Fields{
			"start_time": l.startTime.Format(time.RFC3339),
			"log_file":   l.filePath,
			"level":      l.config.Level,
			"format":     l.config.Format,
		}).Debug("Logging initialized")
	}
	return nil
}

// setFormatter configures the log formatter
func (l *Logger) setFormatter() error {
	callerPrettyfier := func(f *runtime.Frame) (string, string) {
		return "", fmt.Sprintf("%s:%d", filepath.Base(f.File), f.Line)
	}

	switch l.config.Format {
	case LogFormatJSON:
		l.logger.SetFormatter(&logrus.JSONFormatter{
			TimestampFormat:  time.RFC3339,
			CallerPrettyfier: callerPrettyfier,
		})
	case LogFormatText:
		l.logger.SetFormatter(&logrus.TextFormatter{
			FullTimestamp:    l.config.Timestamp,
			DisableTimestamp: !l.config.Timestamp,
			TimestampFormat:  time.RFC3339,
			ForceColors:      l.config.Colors,
			DisableColors:    !l.config.Colors,
			CallerPrettyfier: callerPrettyfier,
		})
	case LogFormatCustom:
		l.logger.SetFormatter(&LearnerFormatter{CustomFormatter{
			Timestamp: l.config.Timestamp,
			Caller:    l.config.Caller,
			Colors:    l.config.Colors,
		}})
	default:
		return fmt.Errorf("unsupported log format: %s", l.config.Format)
	}
	return nil
}

// openLogFile creates the output directory and a timestamped log file
func (l *Logger) openLogFile() (*os.File, error) {
	if err := os.MkdirAll(l.config.OutputDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}

	name := fmt.Sprintf("automator_%s.log", l.startTime.Format("2006-01-02_15-04-05"))
	path := filepath.Join(l.config.OutputDir, name)
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}

	l.fileHandle = file
	l.filePath = path
	return file, nil
}

// cleanup removes the oldest log files beyond MaxFiles
func (l *Logger) cleanup() error {
	if l.config.OutputDir == "" {
		return nil
	}

	files, err := filepath.Glob(filepath.Join(l.config.OutputDir, logFilePattern))
	if err != nil {
		return err
	}
	if len(files) <= l.config.MaxFiles {
		return nil
	}

	sort.Slice(files, func(i, j int) bool {
		statI, errI := os.Stat(files[i])
		statJ, errJ := os.Stat(files[j])
		if errI != nil || errJ != nil {
			return files[i] < files[j]
		}
		return statI.ModTime().Before(statJ.ModTime())
	})

	for _, f := range files[:len(files)-l.config.MaxFiles] {
		if f == l.filePath {
			continue
		}
		os.Remove(f)
	}
	return nil
}

// Close closes the log file and prunes old ones
func (l *Logger) Close() error {
	if l.fileHandle != nil {
		l.fileHandle.Close()
	}
	if err := l.cleanup(); err != nil {
		return fmt.Errorf("failed to cleanup log files: %w", err)
	}
	return nil
}

// GetLogger returns the underlying logrus logger
func (l *Logger) GetLogger() *logrus.Logger {
	return l.logger
}

// FilePath returns the active log file, empty when file output is off
func (l *Logger) FilePath() string {
	return l.filePath
}

// Learning-specific logging methods

// LogQuery logs a membership query answered by the oracle
func (l *Logger) LogQuery(sessionID string, word string, member bool, duration time.Duration) {
	l.logger.WithFields(logrus.Fields{
		"session_id": sessionID,
		"word":       word,
		"member":     member,
		"duration":   duration,
	}).Debug("Membership query answered")
}

// LogRound logs the outcome of a refinement round
func (l *Logger) LogRound(sessionID string, round int, phase string, prefixes, suffixes int) {
	l.logger.WithFields(logrus.Fields{
		"session_id": sessionID,
		"round":      round,
		"phase":      phase,
		"prefixes":   prefixes,
		"suffixes":   suffixes,
	}).Info("Round completed")
}

// LogHypothesis logs an emitted hypothesis
func (l *Logger) LogHypothesis(sessionID string, states int, accepting int, fields map[string]interface{}) {
	if fields == nil {
		fields = make(map[string]interface{})
	}
	fields["session_id"] = sessionID
	fields["states"] = states
	fields["accepting"] = accepting
	l.logger.WithFields(fields).Info("Hypothesis proposed")
}

// LogCounterexample logs a counterexample and whether it was accepted
func (l *Logger) LogCounterexample(sessionID string, word string, err error) {
	entry := l.logger.WithFields(logrus.Fields{
		"session_id": sessionID,
		"word":       word,
	})
	if err != nil {
		entry.WithError(err).Warn("Counterexample rejected")
		return
	}
	entry.Info("Counterexample accepted")
}

// LogSummary logs the end of a session
func (l *Logger) LogSummary(sessionID string, fields map[string]interface{}) {
	if fields == nil {
		fields = make(map[string]interface{})
	}
	fields["session_id"] = sessionID
	fields["uptime"] = time.Since(l.startTime)
	l.logger.WithFields(fields).Info("Learning session finished")
}

// Debug logs a debug message
func (l *Logger) Debug(msg string, fields map[string]interface{}) {
	l.logger.WithFields(fields).Debug(msg)
}

// Info logs an info message
func (l *Logger) Info(msg string, fields map[string]interface{}) {
	l.logger.WithFields(fields).Info(msg)
}

// Warning logs a warning message
func (l *Logger) Warning(msg string, fields map[string]interface{}) {
	l.logger.WithFields(fields).Warn(msg)
}

// Error logs an error message
func (l *Logger) Error(msg string, fields map[string]interface{}) {
	l.logger.WithFields(fields).Error(msg)
}
