package engine

import (
	"context"
	"log/slog"

	"github.com/coastalkit/tidegate/internal/domain"
	"github.com/coastalkit/tidegate/internal/observability"
)

// FinishOptions controls one aggregation step.
type FinishOptions struct {
	// Baseline is an optional pre-existing, read-only source layer whose
	// attributes are spatially joined onto the concatenated results.
	Baseline string

	// KeepIntermediates skips the deletion of per-scenario result paths.
	// The zero value cleans up, matching the default contract.
	KeepIntermediates bool
}

// Aggregator merges per-scenario output collections into a single final
// artifact and removes the intermediates once the merge has succeeded.
type Aggregator struct {
	store   GeoStore
	logger  *slog.Logger
	metrics *observability.Metrics
}

// NewAggregator creates an Aggregator over the given store.
func NewAggregator(store GeoStore, logger *slog.Logger, metrics *observability.Metrics) *Aggregator {
	return &Aggregator{store: store, logger: logger, metrics: metrics}
}

// Finish merges results into outputPath, optionally joining against a
// baseline layer, then deletes the intermediates.
//
// An empty outputPath means the caller chose not to produce this output
// kind; Finish touches nothing. Empty results with a set outputPath is
// also a no-op (logged): merge backends reject zero inputs, and a dry run
// is not an error. Intermediates are deleted only after their merge/join
// step has succeeded, so a failed aggregation never leaves the artifact
// set half-deleted.
func (a *Aggregator) Finish(ctx context.Context, outputPath string, results []string, opts FinishOptions) error {
	if outputPath == "" {
		return nil
	}
	if len(results) == 0 {
		a.logger.Warn("no results to merge, skipping output", "output", outputPath)
		return nil
	}

	if opts.Baseline != "" {
		// Concatenate into a temp file, join that against the baseline,
		// then drop the temp. The temp is deleted here and must not be
		// deleted again with the scenario results below.
		merged := domain.TempFilename(outputPath, domain.MergePrefix)
		if err := a.store.Concatenate(ctx, merged, results...); err != nil {
			a.metrics.BackendFailures.WithLabelValues("concatenate").Inc()
			return &domain.BackendError{Stage: "concatenate", Err: err}
		}
		if err := a.store.SpatialJoin(ctx, outputPath, merged, opts.Baseline); err != nil {
			a.metrics.BackendFailures.WithLabelValues("spatial-join").Inc()
			return &domain.BackendError{Stage: "spatial-join", Err: err}
		}
		if err := a.store.DeleteArtifacts(ctx, merged); err != nil {
			a.metrics.BackendFailures.WithLabelValues("cleanup").Inc()
			return &domain.BackendError{Stage: "cleanup", Err: err}
		}
	} else {
		if err := a.store.Concatenate(ctx, outputPath, results...); err != nil {
			a.metrics.BackendFailures.WithLabelValues("concatenate").Inc()
			return &domain.BackendError{Stage: "concatenate", Err: err}
		}
	}

	if !opts.KeepIntermediates {
		if err := a.store.DeleteArtifacts(ctx, results...); err != nil {
			a.metrics.BackendFailures.WithLabelValues("cleanup").Inc()
			return &domain.BackendError{Stage: "cleanup", Err: err}
		}
		a.metrics.ArtifactsCleaned.Add(float64(len(results)))
	}

	return nil
}
