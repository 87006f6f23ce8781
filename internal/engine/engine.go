// Package engine orchestrates flood-impact scenario runs: it enumerates
// scenarios, drives the per-scenario flood → tag → impact pipeline through
// external GIS collaborators, and merges per-scenario outputs into the
// final products.
package engine

import (
	"context"
	"errors"
	"log/slog"
	"sync/atomic"

	"github.com/jonboulle/clockwork"

	"github.com/coastalkit/tidegate/internal/config"
	"github.com/coastalkit/tidegate/internal/domain"
	"github.com/coastalkit/tidegate/internal/observability"
)

// Layer is an opaque handle to a geospatial layer produced by a backend.
type Layer interface {
	// DataSource returns the path of the layer's backing data source.
	DataSource() string
}

// Hydrology computes the flood extent for one elevation. This is the
// expensive step: raster processing over the full DEM, delegated to an
// external backend.
type Hydrology interface {
	ComputeFloodExtent(ctx context.Context, dem, polygons, idColumn string, elevationFeet float64, outputPath string) (Layer, error)
}

// ImpactRequest describes one impact assessment: intersect the flood
// extent against the optional wetland and building source layers.
type ImpactRequest struct {
	FloodPath       string
	IDColumn        string
	WetlandsPath    string // optional source; empty skips wetlands
	WetlandsOutput  string
	BuildingsPath   string // optional source; empty skips buildings
	BuildingsOutput string
	Cleanup         bool
}

// ImpactResult carries the layers produced by an assessment. Wetland and
// Building are nil when the corresponding source was not supplied.
type ImpactResult struct {
	Flood    Layer
	Wetland  Layer
	Building Layer
}

// ImpactAssessor intersects a flood extent against impact source layers.
type ImpactAssessor interface {
	AssessImpact(ctx context.Context, req ImpactRequest) (ImpactResult, error)
}

// Field is one attribute written onto a layer's attribute table.
type Field struct {
	Name      string
	Value     any
	MaxLength int // string fields only; 0 means backend default
}

// AttributeWriter tags layers with scenario metadata. AddField must be
// idempotent per field name: re-adding an existing field neither fails
// nor duplicates it.
type AttributeWriter interface {
	AddField(ctx context.Context, layer string, field Field) error
}

// GeoStore merges, joins, and deletes layer artifacts.
type GeoStore interface {
	Concatenate(ctx context.Context, outputPath string, layers ...string) error
	SpatialJoin(ctx context.Context, outputPath, merged, baseline string) error
	DeleteArtifacts(ctx context.Context, paths ...string) error
}

// WorkspaceScope sets the active workspace and overwrite policy for the
// duration of a run. Enter returns a restore function that must run on
// every exit path, success or failure.
type WorkspaceScope interface {
	Enter(path string, overwrite bool) (restore func(), err error)
}

var errNoScenarioCompleted = errors.New("no scenario has completed yet")

// Backend bundles the external GIS collaborators the engine drives.
type Backend struct {
	Hydrology  Hydrology
	Impact     ImpactAssessor
	Attributes AttributeWriter
	Store      GeoStore
	Workspace  WorkspaceScope
}

// Engine runs the full scenario list sequentially and aggregates the
// results. Scenarios never run concurrently: flood-extent computation and
// impact joins write into a shared workspace the GIS backend does not
// guarantee to be safe for concurrent writes.
type Engine struct {
	backend    Backend
	runner     *Runner
	aggregator *Aggregator
	logger     *slog.Logger
	metrics    *observability.Metrics
	clock      clockwork.Clock

	running   atomic.Bool
	completed atomic.Int64
	total     atomic.Int64
}

// New creates an Engine. Pass a nil clock to use real time.
func New(backend Backend, logger *slog.Logger, metrics *observability.Metrics, clock clockwork.Clock) *Engine {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Engine{
		backend:    backend,
		runner:     NewRunner(backend, logger, metrics, clock),
		aggregator: NewAggregator(backend.Store, logger, metrics),
		logger:     logger,
		metrics:    metrics,
		clock:      clock,
	}
}

// Progress reports how far the current run has advanced. Used by the
// health endpoint during long batch runs.
func (e *Engine) Progress() (completed, total int, running bool) {
	return int(e.completed.Load()), int(e.total.Load()), e.running.Load()
}

// CheckReadiness returns nil once at least one scenario of the current
// run has completed.
func (e *Engine) CheckReadiness(_ context.Context) error {
	if e.running.Load() && e.completed.Load() == 0 {
		return errNoScenarioCompleted
	}
	return nil
}

// Run executes the full analysis described by cfg: validation, scenario
// enumeration, the sequential per-scenario pipeline, and final
// aggregation, all inside a scoped workspace that is restored on every
// exit path. The first scenario failure aborts the remainder of the run;
// temp artifacts from completed scenarios are left in place for
// inspection (aggregation never ran, so nothing was deleted).
func (e *Engine) Run(ctx context.Context, cfg *config.Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	scenarios, err := scenariosFor(cfg)
	if err != nil {
		return err
	}

	plan, err := domain.ResolveAll(scenarios, cfg.FloodOutput)
	if err != nil {
		return err
	}

	restore, err := e.backend.Workspace.Enter(cfg.Workspace, cfg.Overwrite)
	if err != nil {
		e.metrics.BackendFailures.WithLabelValues("workspace").Inc()
		return &domain.BackendError{Stage: "workspace", Err: err}
	}
	defer restore()

	e.running.Store(true)
	e.completed.Store(0)
	e.total.Store(int64(len(plan)))
	e.metrics.EngineRunning.Set(1)
	defer func() {
		e.running.Store(false)
		e.metrics.EngineRunning.Set(0)
	}()

	start := e.clock.Now()
	e.logger.Info("scenario run starting",
		"scenarios", len(plan),
		"mode", modeName(cfg),
		"workspace", cfg.Workspace,
	)

	floods := make([]string, 0, len(plan))
	var wetlands, buildings []string

	for _, resolved := range plan {
		if err := ctx.Err(); err != nil {
			return err
		}

		result, err := e.runner.Run(ctx, resolved, cfg)
		if err != nil {
			return err
		}

		floods = append(floods, result.Flood.DataSource())
		// Wetland/building outputs accumulate only when the run was
		// configured with the corresponding source layer, decided once
		// globally rather than per scenario.
		if cfg.Wetlands != "" {
			wetlands = append(wetlands, result.Wetland.DataSource())
		}
		if cfg.Buildings != "" {
			buildings = append(buildings, result.Building.DataSource())
		}

		e.completed.Add(1)
	}

	if err := e.aggregate(ctx, cfg, floods, wetlands, buildings); err != nil {
		return err
	}

	e.logger.Info("scenario run complete",
		"scenarios", len(plan),
		"duration", e.clock.Since(start),
	)
	return nil
}

// aggregate merges the accumulated per-scenario outputs into the three
// final products, joining wetlands and buildings against their baseline
// source layers.
func (e *Engine) aggregate(ctx context.Context, cfg *config.Config, floods, wetlands, buildings []string) error {
	e.logger.Info("merging and cleaning up all flood results")
	if err := e.aggregator.Finish(ctx, cfg.FloodOutput, floods, FinishOptions{}); err != nil {
		return err
	}

	if cfg.Wetlands != "" {
		out := cfg.WetlandOutput
		if out == "" {
			out = domain.TempFilename(cfg.Wetlands, domain.OutputPrefix)
		}
		e.logger.Info("merging and cleaning up all wetlands results", "output", out)
		if err := e.aggregator.Finish(ctx, out, wetlands, FinishOptions{Baseline: cfg.Wetlands}); err != nil {
			return err
		}
	}

	if cfg.Buildings != "" {
		out := cfg.BuildingOutput
		if out == "" {
			out = domain.TempFilename(cfg.Buildings, domain.OutputPrefix)
		}
		e.logger.Info("merging and cleaning up all buildings results", "output", out)
		if err := e.aggregator.Finish(ctx, out, buildings, FinishOptions{Baseline: cfg.Buildings}); err != nil {
			return err
		}
	}

	return nil
}

// scenariosFor selects the generation strategy from the config: custom
// elevations when given, the standard matrix otherwise.
func scenariosFor(cfg *config.Config) ([]domain.Scenario, error) {
	if cfg.Standard() {
		return domain.StandardScenarios(), nil
	}
	return domain.CustomScenarios(cfg.Elevations)
}

func modeName(cfg *config.Config) string {
	if cfg.Standard() {
		return "standard"
	}
	return "custom"
}
