/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: main.go
Description: Command-line interface for the automator. Learns regular languages with
L* from a person at the terminal, a regular expression or an external program, and
inspects the automata it saved.
*/

package main

import (
	"fmt"
	"os"

	"github.com/kleascm/automator/cmd/automator/commands"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	// Configuration
	configFile string
	logLevel   string
	jsonLogs   bool

	// Logging configuration
	logDir      string
	logFormat   string
	logMaxFiles int
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "automator",
		Short: "Automator - learn finite automata from queries",
		Long: `Automator infers a deterministic finite automaton for an unknown regular
language using Angluin's L* algorithm. Membership and equivalence questions are
answered by you at the terminal, by a regular expression, or by an external program.`,
		Version:       "1.0.0",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "Configuration file path")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "Logging level (debug, info, warn, error)")
	rootCmd.PersistentFlags().BoolVar(&jsonLogs, "json-logs", false, "Use JSON log format")
	rootCmd.PersistentFlags().StringVar(&logDir, "log-dir", "", "Log output directory (empty disables log files)")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "custom", "Log format (text, json, custom)")
	rootCmd.PersistentFlags().IntVar(&logMaxFiles, "log-max-files", 10, "Maximum number of log files to keep")

	viper.BindPFlag("config", rootCmd.PersistentFlags().Lookup("config"))
	viper.BindPFlag("log_level", rootCmd.PersistentFlags().Lookup("log-level"))
	viper.BindPFlag("json_logs", rootCmd.PersistentFlags().Lookup("json-logs"))
	viper.BindPFlag("log_dir", rootCmd.PersistentFlags().Lookup("log-dir"))
	viper.BindPFlag("log_format", rootCmd.PersistentFlags().Lookup("log-format"))
	viper.BindPFlag("log_max_files", rootCmd.PersistentFlags().Lookup("log-max-files"))

	// learn
	learnCmd := &cobra.Command{
		Use:   "learn",
		Short: "Learn an automaton for a target language",
		Long: `Run the L* refinement loop until a hypothesis is confirmed. Without a target
the questions are asked at the terminal: answer membership queries with y or n, and
answer each hypothesis with a counterexample word or a blank line to accept it.`,
		RunE: commands.RunLearn,
	}
	learnCmd.Flags().String("alphabet", "", "Comma separated symbols for interactive learning (e.g. a,b)")
	learnCmd.Flags().String("target", "", "Target definition file (YAML)")
	learnCmd.Flags().String("builtin", "", "Built-in target name (see 'automator targets')")
	learnCmd.Flags().Int("depth", 6, "Word length checked by automatic equivalence queries")
	learnCmd.Flags().String("output", "./results", "Directory for learning results")
	learnCmd.Flags().String("html", "", "Directory for the HTML report")
	learnCmd.Flags().String("dot", "", "Directory for per-hypothesis DOT files")
	learnCmd.Flags().String("answers", "", "SQLite file that persists membership answers between sessions")
	learnCmd.Flags().String("answers-key", "", "Key for stored answers (defaults to the target name)")
	learnCmd.Flags().Bool("show", false, "Print every hypothesis in automatic mode")
	learnCmd.Flags().String("metrics-addr", "", "Serve Prometheus metrics on this address while learning")
	learnCmd.MarkFlagsMutuallyExclusive("alphabet", "target", "builtin")

	viper.BindPFlag("learn.alphabet", learnCmd.Flags().Lookup("alphabet"))
	viper.BindPFlag("learn.target", learnCmd.Flags().Lookup("target"))
	viper.BindPFlag("learn.builtin", learnCmd.Flags().Lookup("builtin"))
	viper.BindPFlag("learn.depth", learnCmd.Flags().Lookup("depth"))
	viper.BindPFlag("learn.output_dir", learnCmd.Flags().Lookup("output"))
	viper.BindPFlag("learn.html_dir", learnCmd.Flags().Lookup("html"))
	viper.BindPFlag("learn.dot_dir", learnCmd.Flags().Lookup("dot"))
	viper.BindPFlag("learn.answers", learnCmd.Flags().Lookup("answers"))
	viper.BindPFlag("learn.answers_key", learnCmd.Flags().Lookup("answers-key"))
	viper.BindPFlag("learn.show", learnCmd.Flags().Lookup("show"))
	viper.BindPFlag("learn.metrics_addr", learnCmd.Flags().Lookup("metrics-addr"))
	rootCmd.AddCommand(learnCmd)

	// accepts
	acceptsCmd := &cobra.Command{
		Use:   "accepts WORD...",
		Short: "Check words against a saved automaton",
		Long: `Run each word through a saved automaton and report whether it is accepted.
Use ε (or an empty argument) for the empty word.`,
		Args: cobra.MinimumNArgs(1),
		RunE: commands.RunAccepts,
	}
	acceptsCmd.Flags().String("automaton", "", "Saved learning result or automaton JSON (required)")
	acceptsCmd.Flags().Bool("trace", false, "Print the visited states")
	acceptsCmd.MarkFlagRequired("automaton")
	viper.BindPFlag("accepts.automaton", acceptsCmd.Flags().Lookup("automaton"))
	viper.BindPFlag("accepts.trace", acceptsCmd.Flags().Lookup("trace"))
	rootCmd.AddCommand(acceptsCmd)

	// enumerate
	enumerateCmd := &cobra.Command{
		Use:   "enumerate",
		Short: "List the words a saved automaton accepts",
		RunE:  commands.RunEnumerate,
	}
	enumerateCmd.Flags().String("automaton", "", "Saved learning result or automaton JSON (required)")
	enumerateCmd.Flags().Int("max-length", 3, "Longest word to list")
	enumerateCmd.Flags().String("format", "words", "Output format (words, dot, mermaid, table)")
	enumerateCmd.MarkFlagRequired("automaton")
	viper.BindPFlag("enumerate.automaton", enumerateCmd.Flags().Lookup("automaton"))
	viper.BindPFlag("enumerate.max_length", enumerateCmd.Flags().Lookup("max-length"))
	viper.BindPFlag("enumerate.format", enumerateCmd.Flags().Lookup("format"))
	rootCmd.AddCommand(enumerateCmd)

	// targets
	rootCmd.AddCommand(&cobra.Command{
		Use:   "targets",
		Short: "List built-in target languages",
		RunE:  commands.ListTargets,
	})

	// check
	rootCmd.AddCommand(&cobra.Command{
		Use:   "check FILE...",
		Short: "Validate target definition files",
		Args:  cobra.MinimumNArgs(1),
		RunE:  commands.CheckTargets,
	})

	// answers
	answersCmd := &cobra.Command{
		Use:   "answers",
		Short: "Show membership answers stored between sessions",
		RunE:  commands.ListAnswers,
	}
	answersCmd.Flags().String("db", "", "SQLite answer file (required)")
	answersCmd.Flags().String("key", "", "Only list the answers stored under this key")
	answersCmd.MarkFlagRequired("db")
	viper.BindPFlag("answers.db", answersCmd.Flags().Lookup("db"))
	viper.BindPFlag("answers.key", answersCmd.Flags().Lookup("key"))
	rootCmd.AddCommand(answersCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
