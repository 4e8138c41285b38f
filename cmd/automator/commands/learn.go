/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: learn.go
Description: Learn command implementation. Resolves the target language, wires the
membership and equivalence oracles, the answer store and the renderers, then steps
the L* loop until a hypothesis is confirmed and saves the result.
*/

package commands

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/kleascm/automator/pkg/logging"
	"github.com/kleascm/automator/pkg/lstar"
	"github.com/kleascm/automator/pkg/oracle"
	"github.com/kleascm/automator/pkg/render"
	"github.com/kleascm/automator/pkg/store"
	"github.com/kleascm/automator/pkg/target"
	"github.com/kleascm/automator/pkg/utils"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// learnTarget is the resolved language to learn
type learnTarget struct {
	name       string
	kind       string
	alphabet   lstar.Alphabet
	membership lstar.MembershipOracle
	depth      int
}

// RunLearn executes a learning session
func RunLearn(cmd *cobra.Command, args []string) error {
	fmt.Println("🧠 Automator - Starting Learning Session")
	fmt.Println("========================================")
	fmt.Println()

	// Load configuration first
	if err := LoadConfig(); err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// Setup logging
	logger, err := SetupLogging()
	if err != nil {
		return err
	}
	defer logger.Close()

	tgt, err := resolveTarget(logger)
	if err != nil {
		return err
	}
	interactive := tgt.kind == "interactive"

	// Set up signal handling for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	go func() {
		select {
		case <-sigChan:
			fmt.Println("\n🛑 Received shutdown signal, stopping learner...")
			cancel()
			// A pending prompt still blocks on stdin; a second signal kills the process
			signal.Stop(sigChan)
		case <-ctx.Done():
		}
	}()

	if addr := viper.GetString("learn.metrics_addr"); addr != "" {
		stop := serveMetrics(addr, logger)
		defer stop()
	}

	var learner *lstar.Learner
	currentTable := func() *lstar.ObservationTable { return learner.Table() }

	// One prompt answers both kinds of query so they share the stdin buffer
	var prompt *oracle.Interactive
	if interactive {
		prompt = oracle.NewInteractive(os.Stdin, os.Stdout, &render.TextRenderer{Out: os.Stdout, Table: currentTable})
		tgt.membership = prompt
	}

	cache := lstar.NewMembershipCache()
	membership := tgt.membership

	// Stored answers are replayed into the cache and new ones recorded
	if path := viper.GetString("learn.answers"); path != "" {
		answers, err := store.Open(ctx, path)
		if err != nil {
			return err
		}
		defer answers.Close()

		key := viper.GetString("learn.answers_key")
		if key == "" {
			key = tgt.name
		}
		loaded, err := answers.Preload(ctx, key, cache)
		if err != nil {
			return err
		}
		if loaded > 0 {
			fmt.Printf("💾 Loaded %s stored answers for %s\n", humanize.Comma(int64(loaded)), key)
		}
		membership = answers.Recording(key, membership)
	}

	var (
		equivalence lstar.EquivalenceOracle
		reference   *lstar.QueryAdapter
		renderers   render.Multi
		html        *render.HTMLRenderer
	)
	if interactive {
		equivalence = prompt
	} else {
		// Reference answers share the session cache, so no word is asked twice
		reference = lstar.NewQueryAdapter(timedMembership(logger, membership, func() string { return learner.SessionID() }), cache, nil)
		equivalence = oracle.NewBounded(lstar.MembershipFunc(reference.Query), tgt.depth)
		if viper.GetBool("learn.show") {
			renderers = append(renderers, &render.TextRenderer{Out: os.Stdout, Table: currentTable})
		}
	}
	if dir := viper.GetString("learn.dot_dir"); dir != "" {
		renderers = append(renderers, render.NewDOTRenderer(dir, logger.GetLogger()))
	}
	if dir := viper.GetString("learn.html_dir"); dir != "" {
		html = render.NewHTMLRenderer(dir, tgt.name, logger.GetLogger())
		renderers = append(renderers, html)
	}

	learner, err = lstar.NewLearner(lstar.Config{
		Alphabet:    tgt.alphabet,
		Membership:  membership,
		Equivalence: equivalence,
		Renderer:    renderers,
		Logger:      logger.GetLogger(),
		Cache:       cache,
	})
	if err != nil {
		return fmt.Errorf("failed to create learner: %w", err)
	}
	sessionID := learner.SessionID()
	if html != nil {
		html.SetSession(sessionID)
	}

	fmt.Printf("🎯 Target: %s (%s)\n", tgt.name, tgt.kind)
	fmt.Printf("🔤 Alphabet: %s\n", tgt.alphabet)
	if !interactive {
		fmt.Printf("📏 Equivalence depth: %d\n", tgt.depth)
	}
	fmt.Printf("🆔 Session: %s\n", sessionID)
	if interactive {
		fmt.Println("❓ Answer membership queries with y or n. Accept a hypothesis with a blank line.")
	}
	fmt.Println()

	logger.Info("Learning session started", map[string]interface{}{
		"session_id": sessionID,
		"target":     tgt.name,
		"kind":       tgt.kind,
		"alphabet":   tgt.alphabet.String(),
	})

	if err := stepLearner(ctx, learner, logger, interactive); err != nil {
		stats := learner.Stats()
		logger.Error("Learning session stopped", map[string]interface{}{
			"session_id": sessionID,
			"phase":      string(learner.Phase()),
			"rounds":     stats.Rounds,
			"error":      err.Error(),
		})
		return fmt.Errorf("learning stopped in phase %s: %w", learner.Phase(), err)
	}

	return finishSession(learner, tgt, reference, html, logger)
}

// stepLearner drives the loop one step at a time so every transition is logged.
// Interactive mode retries malformed counterexamples instead of failing.
func stepLearner(ctx context.Context, learner *lstar.Learner, logger *logging.Logger, interactive bool) error {
	sessionID := learner.SessionID()
	for learner.Phase() != lstar.PhaseDone {
		if err := ctx.Err(); err != nil {
			return err
		}

		before := learner.Phase()
		phase, err := learner.Step(ctx)
		if err != nil {
			if interactive && isBadCounterexample(err) {
				logger.LogCounterexample(sessionID, rejectedWord(err), err)
				fmt.Printf("❌ %v\n", err)
				continue
			}
			return err
		}

		switch {
		case before == lstar.PhaseAwaitingVerdict && phase == lstar.PhaseBuilding:
			logger.LogCounterexample(sessionID, learner.LastCounterexample().String(), nil)
			if interactive {
				fmt.Printf("✅ Counterexample %s accepted\n", learner.LastCounterexample())
			}
		case phase == lstar.PhaseAwaitingVerdict:
			h := learner.Hypothesis()
			logger.LogHypothesis(sessionID, h.Size(), len(h.AcceptingStates()), map[string]interface{}{
				"hypothesis": learner.Stats().Hypotheses,
			})
		case before != lstar.PhaseAwaitingVerdict && phase != lstar.PhaseDone:
			stats := learner.Stats()
			logger.LogRound(sessionID, stats.Rounds, string(phase), stats.Prefixes, stats.Suffixes)
		}
	}
	return nil
}

// queryCounts splits external membership calls by who made them
type queryCounts struct {
	Table       int64
	Equivalence int64
	CacheHits   int64
}

// Total is every call that reached the target
func (q queryCounts) Total() int64 {
	return q.Table + q.Equivalence
}

// countQueries adds the calls of the equivalence reference, if any, to the learner's own
func countQueries(stats lstar.Stats, reference *lstar.QueryAdapter) queryCounts {
	counts := queryCounts{
		Table:     stats.MembershipQueries,
		CacheHits: stats.CacheHits,
	}
	if reference != nil {
		rs := reference.Stats()
		counts.Equivalence = rs.OracleCalls
		counts.CacheHits += rs.CacheHits
	}
	return counts
}

func isBadCounterexample(err error) bool {
	return errors.Is(err, lstar.ErrInvalidSymbol) || errors.Is(err, lstar.ErrEmptyCounterexample)
}

func rejectedWord(err error) string {
	var symErr *lstar.SymbolError
	if errors.As(err, &symErr) {
		return string(symErr.Word)
	}
	return ""
}

// finishSession prints the summary and writes the result files
func finishSession(learner *lstar.Learner, tgt *learnTarget, reference *lstar.QueryAdapter, html *render.HTMLRenderer, logger *logging.Logger) error {
	dfa := learner.Hypothesis()
	stats := learner.Stats()
	sessionID := learner.SessionID()
	queries := countQueries(stats, reference)

	fmt.Println()
	fmt.Println("🎉 Hypothesis confirmed!")
	fmt.Print(render.Automaton(dfa))
	fmt.Println()
	fmt.Println()
	fmt.Println("📊 Session Summary:")
	fmt.Printf("   States: %d (%d accepting)\n", dfa.Size(), len(dfa.AcceptingStates()))
	fmt.Printf("   Rounds: %d\n", stats.Rounds)
	fmt.Printf("   Hypotheses: %d\n", stats.Hypotheses)
	fmt.Printf("   Counterexamples: %d\n", stats.Counterexamples)
	fmt.Printf("   Membership queries: %s (%s for the table, %s for equivalence)\n",
		humanize.Comma(queries.Total()), humanize.Comma(queries.Table), humanize.Comma(queries.Equivalence))
	fmt.Printf("   Cache hits: %s\n", humanize.Comma(queries.CacheHits))
	fmt.Printf("   Table: %d prefixes × %d suffixes\n", stats.Prefixes, stats.Suffixes)
	fmt.Printf("   Elapsed: %v\n", stats.Elapsed.Round(time.Millisecond))

	result := &utils.LearningResult{
		SessionID: sessionID,
		Target:    tgt.name,
		Automaton: dfa,
		Prefixes:  learner.Prefixes(),
		Suffixes:  learner.Suffixes(),
		Stats:     stats,
	}
	path, err := utils.WriteLearningResult(viper.GetString("learn.output_dir"), sessionID, result)
	if err != nil {
		return err
	}
	fmt.Printf("💾 Result saved to %s\n", path)

	if html != nil {
		dir := viper.GetString("learn.html_dir")
		report, err := render.NewReportGenerator(dir, logger.GetLogger()).Generate(&render.ReportData{
			Title:          tgt.name,
			SessionID:      sessionID,
			Target:         tgt.name,
			Automaton:      dfa,
			Table:          learner.Table(),
			Stats:          &stats,
			History:        html.History(),
			AcceptedLength: 3,
		})
		if err != nil {
			return err
		}
		fmt.Printf("📈 Report written to %s\n", report)
	}

	logger.LogSummary(sessionID, map[string]interface{}{
		"target":             tgt.name,
		"states":             dfa.Size(),
		"rounds":             stats.Rounds,
		"hypotheses":         stats.Hypotheses,
		"counterexamples":    stats.Counterexamples,
		"membership_queries": queries.Total(),
		"table_queries":      queries.Table,
		"reference_queries":  queries.Equivalence,
		"cache_hits":         queries.CacheHits,
		"elapsed":            stats.Elapsed,
		"result":             path,
	})

	fmt.Println("\n✨ Learning session completed!")
	return nil
}

// resolveTarget picks the language from --builtin, --target or --alphabet
func resolveTarget(logger *logging.Logger) (*learnTarget, error) {
	depth := viper.GetInt("learn.depth")

	var def *target.Definition
	switch {
	case viper.GetString("learn.builtin") != "":
		d, err := target.Builtin(viper.GetString("learn.builtin"))
		if err != nil {
			return nil, err
		}
		def = d
	case viper.GetString("learn.target") != "":
		d, err := target.Load(viper.GetString("learn.target"))
		if err != nil {
			return nil, err
		}
		def = d
	case viper.GetString("learn.alphabet") != "":
		alphabet, err := lstar.ParseAlphabet(viper.GetString("learn.alphabet"))
		if err != nil {
			return nil, fmt.Errorf("invalid alphabet: %w", err)
		}
		return &learnTarget{
			name:     "interactive" + alphabet.String(),
			kind:     "interactive",
			alphabet: alphabet,
		}, nil
	default:
		return nil, fmt.Errorf("one of --alphabet, --target or --builtin is required")
	}

	alphabet, err := def.Symbols()
	if err != nil {
		return nil, err
	}
	membership, err := def.Membership(logger.GetLogger())
	if err != nil {
		return nil, err
	}
	depth = def.Depth(depth)
	if depth > target.MaxEquivalenceDepth {
		return nil, fmt.Errorf("equivalence depth %d exceeds %d", depth, target.MaxEquivalenceDepth)
	}
	if err := lstar.CheckWordCount(alphabet, depth); err != nil {
		return nil, fmt.Errorf("equivalence depth %d: %w", depth, err)
	}
	return &learnTarget{
		name:       def.Name,
		kind:       def.Kind(),
		alphabet:   alphabet,
		membership: membership,
		depth:      depth,
	}, nil
}

// timedMembership logs every answer the equivalence check fetches from the target
func timedMembership(logger *logging.Logger, inner lstar.MembershipOracle, session func() string) lstar.MembershipOracle {
	return lstar.MembershipFunc(func(ctx context.Context, w lstar.Word) (bool, error) {
		start := time.Now()
		member, err := inner.Ask(ctx, w)
		if err == nil {
			logger.LogQuery(session(), w.String(), member, time.Since(start))
		}
		return member, err
	})
}

// serveMetrics exposes Prometheus metrics until the returned stop is called
func serveMetrics(addr string, logger *logging.Logger) func() {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	server := &http.Server{Addr: addr, Handler: mux}

	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Metrics server failed", map[string]interface{}{
				"address": addr,
				"error":   err.Error(),
			})
		}
	}()
	fmt.Printf("📡 Metrics on http://%s/metrics\n", addr)

	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		server.Shutdown(ctx)
	}
}
