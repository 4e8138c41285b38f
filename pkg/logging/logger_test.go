/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: logger_test.go
Description: Tests for logger configuration, file output, pruning and the learner
formatter.
*/

package logging_test

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/kleascm/automator/pkg/logging"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func quietConfig(dir string, console *bytes.Buffer) *logging.LoggerConfig {
	return &logging.LoggerConfig{
		Level:     logging.LogLevelDebug,
		Format:    logging.LogFormatCustom,
		OutputDir: dir,
		MaxFiles:  3,
		Timestamp: false,
		Colors:    false,
		Console:   console,
	}
}

// TestLoggerConfigValidate tests rejection of bad configurations
func TestLoggerConfigValidate(t *testing.T) {
	assert.NoError(t, logging.DefaultConfig().Validate())

	cases := map[string]*logging.LoggerConfig{
		"format":    {Level: logging.LogLevelInfo, Format: "xml"},
		"level":     {Level: "loud", Format: logging.LogFormatText},
		"max files": {Level: logging.LogLevelInfo, Format: logging.LogFormatText, OutputDir: "logs"},
		"syslog":    {Level: logging.LogLevelInfo, Format: logging.LogFormatText, SyslogEnabled: true, SyslogNetwork: "udp"},
	}
	for name, cfg := range cases {
		t.Run(name, func(t *testing.T) {
			assert.Error(t, cfg.Validate())
			_, err := logging.NewLogger(cfg)
			assert.Error(t, err)
		})
	}
}

// TestLoggerWritesFile tests that a session log file is created and filled
func TestLoggerWritesFile(t *testing.T) {
	dir := t.TempDir()
	var console bytes.Buffer
	logger, err := logging.NewLogger(quietConfig(dir, &console))
	require.NoError(t, err)

	logger.LogRound("0123456789abcdef", 2, "unclosed", 3, 1)
	require.NoError(t, logger.Close())

	path := logger.FilePath()
	assert.True(t, strings.HasPrefix(filepath.Base(path), "automator_"))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "Round completed")
	assert.Contains(t, console.String(), "Round completed")
}

// TestLoggerWithoutFile tests console-only logging
func TestLoggerWithoutFile(t *testing.T) {
	var console bytes.Buffer
	logger, err := logging.NewLogger(quietConfig("", &console))
	require.NoError(t, err)
	defer logger.Close()

	logger.Info("hello", map[string]interface{}{"k": 1})
	assert.Empty(t, logger.FilePath())
	assert.Contains(t, console.String(), "hello k=1")
}

// TestLoggerPrunesOldFiles tests that only MaxFiles logs survive Close
func TestLoggerPrunesOldFiles(t *testing.T) {
	dir := t.TempDir()
	old := time.Now().Add(-time.Hour)
	for i := 0; i < 5; i++ {
		path := filepath.Join(dir, "automator_old_"+string(rune('a'+i))+".log")
		require.NoError(t, os.WriteFile(path, []byte("x"), 0644))
		require.NoError(t, os.Chtimes(path, old, old.Add(time.Duration(i)*time.Minute)))
	}

	logger, err := logging.NewLogger(quietConfig(dir, &bytes.Buffer{}))
	require.NoError(t, err)
	require.NoError(t, logger.Close())

	files, err := filepath.Glob(filepath.Join(dir, "automator_*.log"))
	require.NoError(t, err)
	assert.Len(t, files, 3)
	assert.Contains(t, files, logger.FilePath())
}

// TestLearnerFormatterTags tests event tags and value rendering
func TestLearnerFormatterTags(t *testing.T) {
	var console bytes.Buffer
	logger, err := logging.NewLogger(quietConfig("", &console))
	require.NoError(t, err)
	defer logger.Close()

	logger.LogQuery("0123456789abcdef", "ab", true, time.Millisecond)
	logger.LogHypothesis("0123456789abcdef", 2, 1, nil)
	logger.LogCounterexample("0123456789abcdef", "c", errors.New("bad symbol"))

	lines := strings.Split(strings.TrimSpace(console.String()), "\n")
	require.Len(t, lines, 3)
	assert.Contains(t, lines[0], "[QUERY]")
	assert.Contains(t, lines[0], "member=yes")
	assert.Contains(t, lines[0], "session_id=01234567 ")
	assert.Contains(t, lines[1], "[HYPOTHESIS]")
	assert.Contains(t, lines[1], "states=2")
	assert.Contains(t, lines[2], "[CEX]")
	assert.Contains(t, lines[2], "WARNING")
	assert.Contains(t, lines[2], "error=bad symbol")
}

// TestCustomFormatterSortsFields tests stable field ordering
func TestCustomFormatterSortsFields(t *testing.T) {
	f := &logging.CustomFormatter{}
	entry := logrus.NewEntry(logrus.New()).WithFields(logrus.Fields{"z": 1, "a": "", "m": time.Second})
	entry.Level = logrus.InfoLevel
	entry.Message = "fields"

	out, err := f.Format(entry)
	require.NoError(t, err)
	assert.Equal(t, "INFO fields a=\"\" m=1s z=1\n", string(out))
}
