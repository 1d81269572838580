// Package orchestrator wires together normalization, caching, review
// retrieval, parallel analysis, and scoring into the single analyze
// pipeline exposed by the gateway.
package orchestrator

import (
	"context"
	"errors"
	"fmt"

	"github.com/reviewtrust/gateway/internal/behavior"
	"github.com/reviewtrust/gateway/internal/config"
	"github.com/reviewtrust/gateway/internal/nlp"
	"github.com/reviewtrust/gateway/internal/normalizer"
	"github.com/reviewtrust/gateway/internal/reportstore"
	"github.com/reviewtrust/gateway/internal/reviewsource"
	"github.com/reviewtrust/gateway/internal/scoring"
	"github.com/reviewtrust/gateway/pkg/models"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// Kind classifies orchestrator errors so the gateway layer can map them to
// the right HTTP status without string matching.
type Kind int

const (
	// KindInvalidInput marks a malformed or unacceptable request.
	KindInvalidInput Kind = iota
	// KindRateLimited marks a request rejected by the rate limiter.
	KindRateLimited
	// KindUpstreamUnavailable marks a failure to retrieve reviews.
	KindUpstreamUnavailable
	// KindDependencyDegraded marks a non-fatal failure in an auxiliary
	// dependency (cache read/write) that did not stop the pipeline.
	KindDependencyDegraded
	// KindAnalyzerFailure marks a failure inside NLP, behavior, or scoring.
	KindAnalyzerFailure
	// KindInternal marks any other unexpected failure.
	KindInternal
)

// Error is the typed error returned by Analyze.
type Error struct {
	Kind Kind
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Msg, e.Err)
	}
	return e.Msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

func newError(kind Kind, msg string, err error) *Error {
	return &Error{Kind: kind, Msg: msg, Err: err}
}

// Orchestrator runs the full analyze pipeline: normalize, cache-check,
// fetch, analyze (NLP and behavior run concurrently), score, and persist.
type Orchestrator struct {
	cfg        *config.Config
	normalizer *normalizer.Normalizer
	source     reviewsource.Source
	nlpAnalyzer *nlp.Analyzer
	behaviorAnalyzer *behavior.Analyzer
	scoringEngine    *scoring.Engine
	store      reportstore.Store
	log        zerolog.Logger
}

// New wires an Orchestrator from its collaborators.
func New(
	cfg *config.Config,
	norm *normalizer.Normalizer,
	source reviewsource.Source,
	nlpAnalyzer *nlp.Analyzer,
	behaviorAnalyzer *behavior.Analyzer,
	scoringEngine *scoring.Engine,
	store reportstore.Store,
	log zerolog.Logger,
) *Orchestrator {
	return &Orchestrator{
		cfg:              cfg,
		normalizer:       norm,
		source:           source,
		nlpAnalyzer:      nlpAnalyzer,
		behaviorAnalyzer: behaviorAnalyzer,
		scoringEngine:    scoringEngine,
		store:            store,
		log:              log.With().Str("component", "orchestrator").Logger(),
	}
}

// Result is the outcome of a successful Analyze call.
type Result struct {
	Report models.TrustReport
	Cached bool
}

// Analyze runs the full pipeline for rawURL. If forceRefresh is false and a
// live cache entry exists, it is returned without touching the review
// source or analyzers.
func (o *Orchestrator) Analyze(ctx context.Context, rawURL string, forceRefresh bool) (Result, error) {
	if rawURL == "" {
		return Result{}, newError(KindInvalidInput, "url is required", nil)
	}

	fingerprint := o.normalizer.Fingerprint(o.normalizer.Normalize(rawURL))

	if !forceRefresh {
		if entry, err := o.store.Get(ctx, fingerprint); err == nil {
			o.log.Info().Str("fingerprint", fingerprint).Msg("cache hit")
			return Result{Report: entry.Report, Cached: true}, nil
		} else if !errors.Is(err, reportstore.ErrNotFound) {
			o.log.Warn().Err(err).Msg("cache check failed, continuing without cache")
		}
	}

	batch, err := o.source.Fetch(ctx, rawURL, o.cfg.MaxReviews)
	if err != nil {
		return Result{}, newError(KindUpstreamUnavailable, "failed to retrieve reviews", err)
	}

	nlpReport, behaviorReport, err := o.analyzeConcurrently(ctx, batch)
	if err != nil {
		return Result{}, newError(KindAnalyzerFailure, "analysis failed", err)
	}

	report := o.scoringEngine.Score(nlpReport, behaviorReport)

	o.persistAsync(fingerprint, report)

	return Result{Report: report, Cached: false}, nil
}

// analyzeConcurrently runs the NLP and behavior analyzers in parallel via
// an errgroup bound to ctx, so a cancellation or analyzer error stops both.
func (o *Orchestrator) analyzeConcurrently(ctx context.Context, batch models.ReviewBatch) (models.NLPReport, models.BehaviorReport, error) {
	group, gctx := errgroup.WithContext(ctx)

	var nlpReport models.NLPReport
	var behaviorReport models.BehaviorReport

	group.Go(func() error {
		report, err := o.nlpAnalyzer.Analyze(gctx, batch)
		if err != nil {
			return fmt.Errorf("nlp analyzer: %w", err)
		}
		nlpReport = report
		return nil
	})

	group.Go(func() error {
		report, err := o.behaviorAnalyzer.Analyze(gctx, batch)
		if err != nil {
			return fmt.Errorf("behavior analyzer: %w", err)
		}
		behaviorReport = report
		return nil
	})

	if err := group.Wait(); err != nil {
		return models.NLPReport{}, models.BehaviorReport{}, err
	}
	return nlpReport, behaviorReport, nil
}

// persistAsync stores report without blocking the response; persistence
// failures are logged but never surfaced to the caller.
func (o *Orchestrator) persistAsync(fingerprint string, report models.TrustReport) {
	go func() {
		ctx := context.Background()
		if err := o.store.Put(ctx, fingerprint, report, o.cfg.DefaultTTLDays); err != nil {
			o.log.Warn().Err(err).Str("fingerprint", fingerprint).Msg("failed to persist report")
		}
	}()
}
