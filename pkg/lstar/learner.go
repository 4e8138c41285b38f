/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: learner.go
Description: The L* refinement loop. A Learner owns one session (alphabet, prefix set S,
suffix set E, membership cache) and drives it through Building, Inconsistent, Unclosed,
Ready, AwaitingVerdict and Done. Every round rebuilds the observation table, repairs
inconsistency first, then unclosedness, and only then emits a hypothesis for the
equivalence oracle.
*/

package lstar

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// Phase is the state of the refinement loop
type Phase string

const (
	PhaseBuilding        Phase = "building"
	PhaseInconsistent    Phase = "inconsistent"
	PhaseUnclosed        Phase = "unclosed"
	PhaseReady           Phase = "ready"
	PhaseAwaitingVerdict Phase = "awaiting_verdict"
	PhaseDone            Phase = "done"
)

// Config holds everything a learning session needs
type Config struct {
	Alphabet    Alphabet
	Membership  MembershipOracle
	Equivalence EquivalenceOracle

	// Renderer, if set, is shown every hypothesis
	Renderer Renderer
	// Logger defaults to a discarding logger
	Logger logrus.FieldLogger
	// Cache lets callers share or pre-seed answers; nil starts empty
	Cache *MembershipCache
}

// Stats summarizes a learning session
type Stats struct {
	Rounds             int           `json:"rounds"`
	Hypotheses         int           `json:"hypotheses"`
	Counterexamples    int           `json:"counterexamples"`
	EquivalenceQueries int           `json:"equivalence_queries"`
	MembershipQueries  int64         `json:"membership_queries"`
	CacheHits          int64         `json:"cache_hits"`
	SharedQueries      int64         `json:"shared_queries"`
	Prefixes           int           `json:"prefixes"`
	Suffixes           int           `json:"suffixes"`
	Elapsed            time.Duration `json:"elapsed"`
}

// Learner runs Angluin's L* algorithm for one session
type Learner struct {
	id          string
	alphabet    Alphabet
	prefixes    *WordSet
	suffixes    *WordSet
	queries     *QueryAdapter
	equivalence EquivalenceOracle
	renderer    Renderer
	logger      logrus.FieldLogger

	phase      Phase
	table      *ObservationTable
	hypothesis *DFA
	witness    Witness

	lastCounterexample Word

	rounds             int
	hypotheses         int
	counterexamples    int
	equivalenceQueries int
	started            time.Time
}

// NewLearner validates the configuration and starts a session in PhaseBuilding
func NewLearner(cfg Config) (*Learner, error) {
	if cfg.Alphabet.Size() == 0 {
		return nil, ErrEmptyAlphabet
	}
	if cfg.Membership == nil {
		return nil, errors.New("membership oracle is required")
	}
	if cfg.Equivalence == nil {
		return nil, errors.New("equivalence oracle is required")
	}

	id := uuid.New().String()
	logger := cfg.Logger
	if logger == nil {
		logger = discardLogger()
	}
	logger = logger.WithField("session_id", id)

	return &Learner{
		id:          id,
		alphabet:    cfg.Alphabet,
		prefixes:    NewWordSet(Epsilon),
		suffixes:    NewWordSet(Epsilon),
		queries:     NewQueryAdapter(cfg.Membership, cfg.Cache, logger),
		equivalence: cfg.Equivalence,
		renderer:    cfg.Renderer,
		logger:      logger,
		phase:       PhaseBuilding,
		started:     time.Now(),
	}, nil
}

// Run steps the loop until a hypothesis is confirmed. Errors leave the
// session intact, so Run can be called again to resume.
func (l *Learner) Run(ctx context.Context) (*DFA, error) {
	for l.phase != PhaseDone {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if _, err := l.Step(ctx); err != nil {
			return nil, err
		}
	}
	return l.hypothesis, nil
}

// Step performs one transition of the refinement loop and returns the new phase
func (l *Learner) Step(ctx context.Context) (Phase, error) {
	switch l.phase {
	case PhaseBuilding, PhaseInconsistent, PhaseUnclosed:
		return l.round(ctx)
	case PhaseReady:
		l.emitHypothesis()
		return l.phase, nil
	case PhaseAwaitingVerdict:
		return l.awaitVerdict(ctx)
	case PhaseDone:
		return l.phase, nil
	default:
		panic(fmt.Sprintf("lstar: unknown phase %q", l.phase))
	}
}

// round rebuilds the table and repairs the first defect found, consistency first
func (l *Learner) round(ctx context.Context) (Phase, error) {
	table, err := BuildTable(ctx, l.alphabet, l.prefixes.Words(), l.suffixes.Words(), l.queries.Query)
	if err != nil {
		return l.phase, err
	}
	l.table = table
	l.rounds++

	fields := logrus.Fields{
		"round":    l.rounds,
		"prefixes": l.prefixes.Len(),
		"suffixes": l.suffixes.Len(),
	}

	if w := table.FindInconsistency(); w != nil {
		suffix := w.DistinguishingSuffix()
		l.suffixes.Add(suffix)
		l.witness = w
		l.phase = PhaseInconsistent
		fields["suffix"] = suffix.String()
		l.logger.WithFields(fields).Debug("Table inconsistent, suffix added")
	} else if w := table.FindUnclosed(); w != nil {
		l.prefixes.Add(w.Word)
		l.witness = w
		l.phase = PhaseUnclosed
		fields["prefix"] = w.Word.String()
		l.logger.WithFields(fields).Debug("Table unclosed, prefix added")
	} else {
		l.witness = nil
		l.phase = PhaseReady
		l.logger.WithFields(fields).Debug("Table closed and consistent")
	}

	roundsTotal.WithLabelValues(string(l.phase)).Inc()
	return l.phase, nil
}

// emitHypothesis builds the automaton from the current table
func (l *Learner) emitHypothesis() {
	l.hypothesis = BuildHypothesis(l.table)
	l.hypotheses++
	l.phase = PhaseAwaitingVerdict
	hypothesisStates.Observe(float64(l.hypothesis.Size()))

	l.logger.WithFields(logrus.Fields{
		"states":    l.hypothesis.Size(),
		"accepting": len(l.hypothesis.AcceptingStates()),
		"round":     l.rounds,
	}).Debug("Hypothesis ready")

	if l.renderer != nil {
		if err := l.renderer.Show(l.hypothesis); err != nil {
			l.logger.WithError(err).Warn("Failed to render hypothesis")
		}
	}
}

// awaitVerdict submits the hypothesis to the equivalence oracle
func (l *Learner) awaitVerdict(ctx context.Context) (Phase, error) {
	verdict, err := l.equivalence.Verify(ctx, l.hypothesis)
	if err != nil {
		equivalenceQueries.WithLabelValues("error").Inc()
		return l.phase, fmt.Errorf("equivalence query: %w", err)
	}
	l.equivalenceQueries++

	if verdict.Confirmed {
		equivalenceQueries.WithLabelValues("confirmed").Inc()
		l.phase = PhaseDone
		l.logger.WithFields(logrus.Fields{
			"states": l.hypothesis.Size(),
			"rounds": l.rounds,
		}).Info("Hypothesis confirmed")
		return l.phase, nil
	}

	if err := l.SubmitCounterexample(verdict.Counterexample); err != nil {
		equivalenceQueries.WithLabelValues("rejected").Inc()
		return l.phase, err
	}
	equivalenceQueries.WithLabelValues("counterexample").Inc()
	return l.phase, nil
}

// SubmitCounterexample refutes the pending hypothesis with w. Every non-empty
// prefix of w joins S and the loop restarts. Invalid words leave S and E
// untouched and keep the learner waiting for a verdict.
func (l *Learner) SubmitCounterexample(w Word) error {
	if l.phase != PhaseAwaitingVerdict {
		return ErrNotAwaitingVerdict
	}
	if w == Epsilon {
		return ErrEmptyCounterexample
	}
	if err := l.alphabet.Validate(w); err != nil {
		l.logger.WithError(err).WithField("counterexample", string(w)).Debug("Counterexample rejected")
		return fmt.Errorf("counterexample: %w", err)
	}

	added := 0
	for _, p := range w.Prefixes() {
		if l.prefixes.Add(p) {
			added++
		}
	}
	l.counterexamples++
	l.lastCounterexample = w
	l.phase = PhaseBuilding
	l.logger.WithFields(logrus.Fields{
		"counterexample": w.String(),
		"prefixes_added": added,
	}).Debug("Counterexample accepted")
	return nil
}

// Confirm accepts the pending hypothesis without asking the equivalence oracle
func (l *Learner) Confirm() error {
	if l.phase != PhaseAwaitingVerdict {
		return ErrNotAwaitingVerdict
	}
	l.phase = PhaseDone
	return nil
}

// SessionID identifies the session in logs and results
func (l *Learner) SessionID() string {
	return l.id
}

// Alphabet returns the session alphabet
func (l *Learner) Alphabet() Alphabet {
	return l.alphabet
}

// Phase returns the current phase of the loop
func (l *Learner) Phase() Phase {
	return l.phase
}

// Table returns the table of the latest round, nil before the first one
func (l *Learner) Table() *ObservationTable {
	return l.table
}

// Hypothesis returns the latest hypothesis, nil before the first one
func (l *Learner) Hypothesis() *DFA {
	return l.hypothesis
}

// LastWitness returns the defect repaired by the latest round, if any
func (l *Learner) LastWitness() Witness {
	return l.witness
}

// LastCounterexample returns the most recently accepted counterexample
func (l *Learner) LastCounterexample() Word {
	return l.lastCounterexample
}

// Prefixes returns S in insertion order
func (l *Learner) Prefixes() []Word {
	return l.prefixes.Words()
}

// Suffixes returns E in insertion order
func (l *Learner) Suffixes() []Word {
	return l.suffixes.Words()
}

// Cache returns the session's membership cache
func (l *Learner) Cache() *MembershipCache {
	return l.queries.Cache()
}

// Stats returns a snapshot of the session counters
func (l *Learner) Stats() Stats {
	q := l.queries.Stats()
	return Stats{
		Rounds:             l.rounds,
		Hypotheses:         l.hypotheses,
		Counterexamples:    l.counterexamples,
		EquivalenceQueries: l.equivalenceQueries,
		MembershipQueries:  q.OracleCalls,
		CacheHits:          q.CacheHits,
		SharedQueries:      q.SharedCalls,
		Prefixes:           l.prefixes.Len(),
		Suffixes:           l.suffixes.Len(),
		Elapsed:            time.Since(l.started),
	}
}

func discardLogger() logrus.FieldLogger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}
