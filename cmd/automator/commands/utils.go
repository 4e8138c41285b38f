/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: utils.go
Description: Shared utilities for the automator commands. Loads configuration from
flags, files and AUTOMATOR_ environment variables and builds the session logger.
*/

package commands

import (
	"fmt"
	"os"
	"strings"

	"github.com/kleascm/automator/pkg/logging"
	"github.com/kleascm/automator/pkg/lstar"
	"github.com/kleascm/automator/pkg/utils"
	"github.com/mattn/go-isatty"
	"github.com/spf13/viper"
)

// LoadConfig loads configuration from files and environment
func LoadConfig() error {
	// Set config file if specified
	if configFile := viper.GetString("config"); configFile != "" {
		viper.SetConfigFile(configFile)
		if err := viper.ReadInConfig(); err != nil {
			return fmt.Errorf("failed to read config file: %w", err)
		}
	}

	// Set environment variable prefix
	viper.SetEnvPrefix("AUTOMATOR")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	return nil
}

// SetupLogging builds the logger from the logging flags. Console output goes to
// stderr and is colored only when stderr is a terminal.
func SetupLogging() (*logging.Logger, error) {
	config := logging.DefaultConfig()
	config.Level = logging.LogLevel(viper.GetString("log_level"))
	config.Format = logging.LogFormat(viper.GetString("log_format"))
	if viper.GetBool("json_logs") {
		config.Format = logging.LogFormatJSON
	}
	config.OutputDir = viper.GetString("log_dir")
	if maxFiles := viper.GetInt("log_max_files"); maxFiles > 0 {
		config.MaxFiles = maxFiles
	}
	config.Colors = isatty.IsTerminal(os.Stderr.Fd()) || isatty.IsCygwinTerminal(os.Stderr.Fd())
	config.Console = os.Stderr

	logger, err := logging.NewLogger(config)
	if err != nil {
		return nil, fmt.Errorf("failed to setup logging: %w", err)
	}
	return logger, nil
}

// loadAutomaton reads a saved learning result or a bare automaton
func loadAutomaton(key string) (*lstar.DFA, error) {
	path := viper.GetString(key)
	if path == "" {
		return nil, fmt.Errorf("no automaton file given")
	}
	dfa, err := utils.ReadAutomaton(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load automaton: %w", err)
	}
	return dfa, nil
}

// parseWords turns command arguments into words; ε and "" mean the empty word
func parseWords(alphabet lstar.Alphabet, args []string) ([]lstar.Word, error) {
	words := make([]lstar.Word, 0, len(args))
	for _, arg := range args {
		w := lstar.ParseWord(arg)
		if err := alphabet.Validate(w); err != nil {
			return nil, err
		}
		words = append(words, w)
	}
	return words, nil
}
