package pipeline

import (
	"context"
	"fmt"

	"fredrecon/internal/fred/dataset"
	"fredrecon/internal/fred/fanout"
	"fredrecon/internal/fred/reconcile"

	"go.uber.org/zap"
)

// Fetcher is the endpoint surface the pipeline needs. *fred.Client
// satisfies it; tests substitute fixture servers or fakes.
type Fetcher interface {
	GetReleases(ctx context.Context) ([]dataset.Release, error)
	GetReleaseSeries(ctx context.Context, releaseID int) ([]dataset.Series, error)
	GetObservations(ctx context.Context, seriesID string) ([]dataset.Observation, error)
}

// Counts records table sizes at each stage so operators can judge how
// much data the inner joins dropped.
type Counts struct {
	Releases     int
	Series       int
	SeriesMerged int
	Observations int
	Merged       int
}

// Result is everything one run produced. Fetch failures are recorded
// per parent identifier; a run with failures is degraded, not failed.
type Result struct {
	Merged          []dataset.MergedRecord
	Reconciliation  reconcile.Result
	ReleaseFailures []fanout.Failure[int]
	SeriesFailures  []fanout.Failure[string]
	Counts          Counts
}

// Pipeline wires the release catalog, the two fan-out fetch stages, the
// merger and the reconciler into one runnable unit of work. It holds no
// mutable state between runs; every Run owns its own collections.
type Pipeline struct {
	client Fetcher
	params reconcile.Params
	opts   fanout.Options
	logger *zap.Logger
}

func New(client Fetcher, params reconcile.Params, opts fanout.Options, logger *zap.Logger) *Pipeline {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Pipeline{client: client, params: params, opts: opts, logger: logger}
}

// Run executes one full fetch/join/reconcile pass. Only an unreachable
// release catalog (nothing to fan out over) or cancellation aborts the
// run; per-release and per-series fetch failures are recorded and
// skipped so the run always emits whatever data was obtainable.
func (p *Pipeline) Run(ctx context.Context) (*Result, error) {
	releases, err := p.client.GetReleases(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch release catalog: %w", err)
	}
	releaseIDs := distinctReleaseIDs(releases)
	p.logger.Info("release catalog fetched",
		zap.Int("releases", len(releases)),
		zap.Int("distinct_ids", len(releaseIDs)))

	opts := p.opts
	opts.Logger = p.logger

	series, releaseFailures := fanout.Run(ctx, releaseIDs, opts, p.client.GetReleaseSeries)
	p.logger.Info("series catalog fetched",
		zap.Int("series", len(series)),
		zap.Int("failed_releases", len(releaseFailures)))

	seriesIDs := distinctSeriesIDs(series)
	observations, seriesFailures := fanout.Run(ctx, seriesIDs, opts, p.client.GetObservations)
	p.logger.Info("observations fetched",
		zap.Int("observations", len(observations)),
		zap.Int("failed_series", len(seriesFailures)))

	// Partial collections from a cancelled run are discarded, never merged.
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	withNames := dataset.MergeSeriesReleases(series, releases)
	merged := dataset.MergeObservations(observations, withNames)
	p.logger.Info("tables merged",
		zap.Int("series_before", len(series)),
		zap.Int("series_after", len(withNames)),
		zap.Int("observations_before", len(observations)),
		zap.Int("merged", len(merged)))

	rec := reconcile.Run(merged, p.params)
	if rec.SkippedValues > 0 {
		p.logger.Warn("values excluded from reconciliation sums",
			zap.Int("skipped", rec.SkippedValues))
	}

	return &Result{
		Merged:          merged,
		Reconciliation:  rec,
		ReleaseFailures: releaseFailures,
		SeriesFailures:  seriesFailures,
		Counts: Counts{
			Releases:     len(releases),
			Series:       len(series),
			SeriesMerged: len(withNames),
			Observations: len(observations),
			Merged:       len(merged),
		},
	}, nil
}

// distinctReleaseIDs collapses duplicates in first-seen order.
func distinctReleaseIDs(releases []dataset.Release) []int {
	seen := make(map[int]bool, len(releases))
	var ids []int
	for _, r := range releases {
		if seen[r.ID] {
			continue
		}
		seen[r.ID] = true
		ids = append(ids, r.ID)
	}
	return ids
}

// distinctSeriesIDs dedups on series id alone: a series reachable
// through multiple releases is fetched exactly once.
func distinctSeriesIDs(series []dataset.Series) []string {
	seen := make(map[string]bool, len(series))
	var ids []string
	for _, s := range series {
		if seen[s.ID] {
			continue
		}
		seen[s.ID] = true
		ids = append(ids, s.ID)
	}
	return ids
}
